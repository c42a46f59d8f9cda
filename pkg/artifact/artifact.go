// Package artifact defines the PAC data model: the immutable governance
// artifact submitted for admission, composed of a fixed-type ordered block
// catalog plus metadata.
//
// A PAC is constructed once and never mutated during validation. Schema
// v1 catalogs carry 20 blocks, v2 catalogs 23; every block's index must
// equal its type's canonical catalog position.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// SchemaPrefix is the required prefix of every PAC schema version string,
// e.g. "CHAINBRIDGE_PAC_SCHEMA_v2.1.4".
const SchemaPrefix = "CHAINBRIDGE_PAC_SCHEMA_v"

// Block is one slot of the canonical catalog.
type Block struct {
	Index       int       `json:"index"`
	Type        BlockType `json:"type"`
	Content     string    `json:"content"`
	ContentHash string    `json:"content_hash,omitempty"`
}

// NewBlock constructs a block for the given catalog slot.
func NewBlock(index int, bt BlockType, content string) Block {
	return Block{Index: index, Type: bt, Content: content}
}

// IndexValid reports whether the block sits at its type's canonical position.
func (b Block) IndexValid() bool {
	return b.Index == b.Type.CanonicalIndex()
}

// Metadata carries the PAC governance envelope.
type Metadata struct {
	PACID          string         `json:"pac_id"`
	PACVersion     string         `json:"pac_version"`
	Classification string         `json:"classification"`
	GovernanceTier GovernanceTier `json:"governance_tier"`
	IssuerGID      string         `json:"issuer_gid"`
	IssuerRole     string         `json:"issuer_role"`
	IssuedAt       time.Time      `json:"issued_at"`
	Scope          string         `json:"scope"`
	Supersedes     string         `json:"supersedes,omitempty"`
	DriftTolerance string         `json:"drift_tolerance"`
	FailClosed     bool           `json:"fail_closed"`
	SchemaVersion  string         `json:"schema_version"`
}

// Artifact is the full PAC: metadata plus the ordered block catalog.
type Artifact struct {
	Metadata    Metadata `json:"metadata"`
	Blocks      []Block  `json:"blocks"`
	ContentHash string   `json:"content_hash,omitempty"`
}

// New creates an empty artifact for the given metadata.
func New(meta Metadata) *Artifact {
	return &Artifact{Metadata: meta, Blocks: make([]Block, 0, CatalogSizeV2)}
}

// SchemaMajor extracts the schema major version from the metadata's
// schema version string. Returns an error if the string does not carry
// the PAC schema prefix or is not a parseable version.
func (a *Artifact) SchemaMajor() (uint64, error) {
	raw := a.Metadata.SchemaVersion
	if !strings.HasPrefix(raw, SchemaPrefix) {
		return 0, fmt.Errorf("schema version %q lacks prefix %q", raw, SchemaPrefix)
	}
	v, err := semver.NewVersion(strings.TrimPrefix(raw, SchemaPrefix))
	if err != nil {
		return 0, fmt.Errorf("schema version %q is not parseable: %w", raw, err)
	}
	return v.Major(), nil
}

// ExpectedBlockCount returns the canonical catalog size for the declared
// schema version, or 0 when the schema version is unrecognized.
func (a *Artifact) ExpectedBlockCount() int {
	major, err := a.SchemaMajor()
	if err != nil {
		return 0
	}
	return len(Catalog(major))
}

// HasCompleteBlocks reports whether the block count equals the canonical
// catalog size for the declared schema version.
func (a *Artifact) HasCompleteBlocks() bool {
	expected := a.ExpectedBlockCount()
	return expected > 0 && len(a.Blocks) == expected
}

// AllIndicesValid reports whether every block sits at its canonical position.
func (a *Artifact) AllIndicesValid() bool {
	for _, b := range a.Blocks {
		if !b.IndexValid() {
			return false
		}
	}
	return true
}

// FindBlock returns the first block of the given type, or nil.
func (a *Artifact) FindBlock(bt BlockType) *Block {
	for i := range a.Blocks {
		if a.Blocks[i].Type == bt {
			return &a.Blocks[i]
		}
	}
	return nil
}

// CountBlocks returns how many blocks of the given type are present.
func (a *Artifact) CountBlocks(bt BlockType) int {
	n := 0
	for _, b := range a.Blocks {
		if b.Type == bt {
			n++
		}
	}
	return n
}

// ComputeContentHash returns the hex SHA-256 digest over the PAC id
// followed by every block's content in catalog order. This is the digest
// the G5 gate compares against a declared content hash.
func (a *Artifact) ComputeContentHash() string {
	h := sha256.New()
	h.Write([]byte(a.Metadata.PACID))
	for _, b := range a.Blocks {
		h.Write([]byte(b.Content))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SupersedesChain reports whether this artifact declares a predecessor.
// The ledger collaborator resolves the chain; the kernel only surfaces it.
func (a *Artifact) SupersedesChain() (string, bool) {
	return a.Metadata.Supersedes, a.Metadata.Supersedes != ""
}
