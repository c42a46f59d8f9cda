package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// documentSchema is the wire contract for PAC documents crossing the
// transport boundary. Structural admission checks happen in the gate
// pipeline; this schema only rejects documents too malformed to build a
// model from.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["metadata", "blocks"],
  "properties": {
    "metadata": {
      "type": "object",
      "required": ["pac_id", "governance_tier", "issuer_gid", "drift_tolerance", "schema_version"],
      "properties": {
        "pac_id": {"type": "string", "minLength": 1},
        "pac_version": {"type": "string"},
        "classification": {"type": "string"},
        "governance_tier": {"type": "string"},
        "issuer_gid": {"type": "string"},
        "issuer_role": {"type": "string"},
        "issued_at": {"type": "string"},
        "scope": {"type": "string"},
        "supersedes": {"type": "string"},
        "drift_tolerance": {"type": "string"},
        "fail_closed": {"type": "boolean"},
        "schema_version": {"type": "string", "minLength": 1}
      }
    },
    "blocks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["index", "type", "content"],
        "properties": {
          "index": {"type": "integer", "minimum": 0},
          "type": {"type": "string"},
          "content": {"type": "string"},
          "content_hash": {"type": "string"}
        }
      }
    },
    "content_hash": {"type": "string"}
  }
}`

var compiledDocumentSchema = jsonschema.MustCompileString("pac_document.json", documentSchema)

// ParseDocument decodes a JSON PAC document into an Artifact after
// validating its shape against the document schema.
func ParseDocument(data []byte) (*Artifact, error) {
	var shape any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&shape); err != nil {
		return nil, fmt.Errorf("pac document is not valid JSON: %w", err)
	}
	if err := compiledDocumentSchema.Validate(shape); err != nil {
		return nil, fmt.Errorf("pac document failed schema validation: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("pac document decode failed: %w", err)
	}
	return &a, nil
}

// ParseYAMLDocument decodes a YAML PAC document. The document is
// normalized through JSON so the same schema validation applies.
func ParseYAMLDocument(data []byte) (*Artifact, error) {
	var shape any
	if err := yaml.Unmarshal(data, &shape); err != nil {
		return nil, fmt.Errorf("pac document is not valid YAML: %w", err)
	}
	normalized, err := json.Marshal(shape)
	if err != nil {
		return nil, fmt.Errorf("pac document normalization failed: %w", err)
	}
	return ParseDocument(normalized)
}
