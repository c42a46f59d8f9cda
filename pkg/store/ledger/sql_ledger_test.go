package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainbridge-occ/kernel/pkg/decision"
	"github.com/chainbridge-occ/kernel/pkg/gates"
)

var recordTime = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func testDecision(t *testing.T, pacID string) *decision.Object {
	t.Helper()
	obj, err := decision.NewBuilder(pacID).
		AddResult(&gates.GateResult{
			GateID:    gates.GateStructuralLint,
			Passed:    true,
			Message:   "PAC has exactly 23 blocks",
			Timestamp: recordTime,
		}).
		WithExecutor("GID-00-EXEC").
		Build(recordTime)
	require.NoError(t, err)
	return obj
}

func TestSQLiteLedgerRoundTrip(t *testing.T) {
	ctx := context.Background()
	l, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	obj := testDecision(t, "PAC-TEST-001")
	require.NoError(t, l.Append(ctx, obj))

	got, err := l.Get(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, obj.PACID, got.PACID)
	assert.Equal(t, "GID-00-EXEC", got.ExecutorGID)
	assert.Equal(t, obj.Outcome, got.Outcome)
	assert.Equal(t, obj.Hash, got.Hash)
	require.Len(t, got.GateResults, 1)
	assert.Equal(t, gates.GateStructuralLint, got.GateResults[0].GateID)
}

func TestSQLiteLedgerGetNotFound(t *testing.T) {
	ctx := context.Background()
	l, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	_, err = l.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteLedgerListByPAC(t *testing.T) {
	ctx := context.Background()
	l, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	require.NoError(t, l.Append(ctx, testDecision(t, "PAC-A")))
	require.NoError(t, l.Append(ctx, testDecision(t, "PAC-A")))
	require.NoError(t, l.Append(ctx, testDecision(t, "PAC-B")))

	rows, err := l.ListByPAC(ctx, "PAC-A")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	all, err := l.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLLedgerAppendPropagatesDBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO decisions").WillReturnError(errors.New("disk full"))

	l := NewSQLLedger(db)
	err = l.Append(context.Background(), testDecision(t, "PAC-TEST-001"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLLedgerGetMapsNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT .* FROM decisions WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "pac_id", "executor_gid", "outcome", "hash", "gate_results", "friction", "evaluated_at",
		}))

	l := NewSQLLedger(db)
	_, err = l.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLLedgerRejectsCorruptStoredOutcome(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT .* FROM decisions WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "pac_id", "executor_gid", "outcome", "hash", "gate_results", "friction", "evaluated_at",
		}).AddRow("d1", "PAC-A", "GID-00-EXEC", "MAYBE", "h", "[]", nil, recordTime))

	l := NewSQLLedger(db)
	_, err = l.Get(context.Background(), "d1")
	assert.Error(t, err)
}

func TestMemoryLedger(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()

	obj := testDecision(t, "PAC-TEST-001")
	require.NoError(t, l.Append(ctx, obj))

	got, err := l.Get(ctx, obj.ID)
	require.NoError(t, err)
	assert.Equal(t, obj.Hash, got.Hash)
	assert.Equal(t, "GID-00-EXEC", got.ExecutorGID)

	_, err = l.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	rows, err := l.ListByPAC(ctx, "PAC-TEST-001")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	recent, err := l.List(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
