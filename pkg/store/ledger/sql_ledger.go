package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chainbridge-occ/kernel/pkg/decision"
	"github.com/chainbridge-occ/kernel/pkg/gates"
)

// SQLLedger implements Ledger over database/sql. The default driver is
// the pure-Go SQLite driver; the schema sticks to portable SQL.
type SQLLedger struct {
	db *sql.DB
}

// NewSQLLedger wraps an open database handle.
func NewSQLLedger(db *sql.DB) *SQLLedger {
	return &SQLLedger{db: db}
}

// OpenSQLite opens (or creates) a SQLite-backed ledger at path and runs
// the migration.
func OpenSQLite(ctx context.Context, path string) (*SQLLedger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	l := NewSQLLedger(db)
	if err := l.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id TEXT PRIMARY KEY,
	pac_id TEXT NOT NULL,
	executor_gid TEXT NOT NULL DEFAULT '',
	outcome TEXT NOT NULL,
	hash TEXT NOT NULL,
	gate_results TEXT NOT NULL,
	friction TEXT,
	evaluated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decisions_pac_id ON decisions (pac_id);
`

// Init creates the schema if absent.
func (s *SQLLedger) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close releases the underlying database handle.
func (s *SQLLedger) Close() error {
	return s.db.Close()
}

func (s *SQLLedger) Append(ctx context.Context, obj *decision.Object) error {
	results, err := json.Marshal(obj.GateResults)
	if err != nil {
		return fmt.Errorf("encode gate results: %w", err)
	}
	var frict sql.NullString
	if obj.Friction != nil {
		raw, err := json.Marshal(obj.Friction)
		if err != nil {
			return fmt.Errorf("encode friction report: %w", err)
		}
		frict = sql.NullString{String: string(raw), Valid: true}
	}

	query := `
		INSERT INTO decisions (id, pac_id, executor_gid, outcome, hash, gate_results, friction, evaluated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		obj.ID, obj.PACID, obj.ExecutorGID, string(obj.Outcome), obj.Hash, string(results), frict, obj.EvaluatedAt.UTC(),
	)
	return err
}

func (s *SQLLedger) Get(ctx context.Context, id string) (*decision.Object, error) {
	query := `SELECT id, pac_id, executor_gid, outcome, hash, gate_results, friction, evaluated_at FROM decisions WHERE id = ?`
	obj, err := scanDecision(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return obj, nil
}

func (s *SQLLedger) ListByPAC(ctx context.Context, pacID string) ([]*decision.Object, error) {
	query := `SELECT id, pac_id, executor_gid, outcome, hash, gate_results, friction, evaluated_at
		FROM decisions WHERE pac_id = ? ORDER BY evaluated_at ASC`
	return s.queryDecisions(ctx, query, pacID)
}

func (s *SQLLedger) List(ctx context.Context, limit int) ([]*decision.Object, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, pac_id, executor_gid, outcome, hash, gate_results, friction, evaluated_at
		FROM decisions ORDER BY evaluated_at DESC LIMIT ?`
	return s.queryDecisions(ctx, query, limit)
}

func (s *SQLLedger) queryDecisions(ctx context.Context, query string, args ...any) ([]*decision.Object, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make([]*decision.Object, 0)
	for rows.Next() {
		obj, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDecision(row rowScanner) (*decision.Object, error) {
	var (
		obj         decision.Object
		outcome     string
		results     string
		frict       sql.NullString
		evaluatedAt time.Time
	)
	if err := row.Scan(&obj.ID, &obj.PACID, &obj.ExecutorGID, &outcome, &obj.Hash, &results, &frict, &evaluatedAt); err != nil {
		return nil, err
	}

	parsed, err := decision.ParseOutcome(outcome)
	if err != nil {
		return nil, err
	}
	obj.Outcome = parsed
	obj.EvaluatedAt = evaluatedAt

	obj.GateResults = make([]*gates.GateResult, 0)
	if err := json.Unmarshal([]byte(results), &obj.GateResults); err != nil {
		return nil, fmt.Errorf("decode gate results: %w", err)
	}
	if frict.Valid {
		var report decision.FrictionReport
		if err := json.Unmarshal([]byte(frict.String), &report); err != nil {
			return nil, fmt.Errorf("decode friction report: %w", err)
		}
		obj.Friction = &report
	}
	return &obj, nil
}
