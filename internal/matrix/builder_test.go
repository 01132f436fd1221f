package matrix_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfloor/rollcall/internal/matrix"
)

func mustBill(t *testing.T, s string) matrix.BillID {
	t.Helper()
	bill, err := matrix.ParseBillID(s)
	require.NoError(t, err)
	return bill
}

func rec(legislatorID, name string, pos matrix.Position) matrix.VoteRecord {
	return matrix.VoteRecord{
		LegislatorID:   legislatorID,
		LegislatorName: name,
		State:          "NY",
		Party:          "D",
		Chamber:        "House",
		Position:       pos,
	}
}

func snapshot(t *testing.T, store matrix.Store) *matrix.Matrix {
	t.Helper()
	m, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	return m
}

func TestIngestScenario(t *testing.T) {
	store := matrix.NewMemoryStore()
	builder := matrix.NewBuilder(store)
	ctx := context.Background()

	hr8034 := mustBill(t, "118:hr:8034")
	hr340 := mustBill(t, "118:hr:340")

	result, err := builder.Ingest(ctx, hr8034, []matrix.VoteRecord{
		rec("L1", "Lawmaker One", matrix.PositionYea),
		rec("L2", "Lawmaker Two", matrix.PositionNay),
	})
	require.NoError(t, err)
	assert.Equal(t, "118:hr:8034", result.BillID)
	assert.Equal(t, 2, result.RowsAdded)
	assert.Equal(t, 0, result.RowsUpdated)

	_, err = builder.Ingest(ctx, hr340, []matrix.VoteRecord{
		rec("L1", "Lawmaker One", matrix.PositionNay),
	})
	require.NoError(t, err)

	m := snapshot(t, store)
	assert.Equal(t, []string{"118:hr:8034", "118:hr:340"}, m.Bills)
	require.Len(t, m.Legislators, 2)

	pos, ok := m.Cell("L1", "118:hr:8034")
	require.True(t, ok)
	assert.Equal(t, matrix.PositionYea, pos)

	pos, ok = m.Cell("L2", "118:hr:8034")
	require.True(t, ok)
	assert.Equal(t, matrix.PositionNay, pos)

	pos, ok = m.Cell("L1", "118:hr:340")
	require.True(t, ok)
	assert.Equal(t, matrix.PositionNay, pos)

	_, ok = m.Cell("L2", "118:hr:340")
	assert.False(t, ok, "L2 did not vote on hr340; cell must be absent")
}

func TestIngestIdempotent(t *testing.T) {
	store := matrix.NewMemoryStore()
	builder := matrix.NewBuilder(store)
	ctx := context.Background()

	bill := mustBill(t, "118:hr:8034")
	records := []matrix.VoteRecord{
		rec("L1", "Lawmaker One", matrix.PositionYea),
		rec("L2", "Lawmaker Two", matrix.PositionNay),
	}

	_, err := builder.Ingest(ctx, bill, records)
	require.NoError(t, err)
	first := snapshot(t, store)

	result, err := builder.Ingest(ctx, bill, records)
	require.NoError(t, err)
	assert.Equal(t, 0, result.RowsAdded)
	assert.Equal(t, 2, result.RowsUpdated)

	second := snapshot(t, store)
	assert.Equal(t, first.Bills, second.Bills)
	assert.Equal(t, first.Legislators, second.Legislators)
	assert.Equal(t, first.Cells, second.Cells)
}

func TestIngestEmptyBatchAddsColumn(t *testing.T) {
	store := matrix.NewMemoryStore()
	builder := matrix.NewBuilder(store)
	ctx := context.Background()

	_, err := builder.Ingest(ctx, mustBill(t, "118:hr:8034"), []matrix.VoteRecord{
		rec("L1", "Lawmaker One", matrix.PositionYea),
	})
	require.NoError(t, err)

	// A bill with no recorded votes still earns a column.
	result, err := builder.Ingest(ctx, mustBill(t, "118:hr:815"), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.RowsAdded)
	assert.Equal(t, 0, result.RowsUpdated)

	m := snapshot(t, store)
	assert.Equal(t, []string{"118:hr:8034", "118:hr:815"}, m.Bills)
	require.Len(t, m.Legislators, 1, "empty batch must not remove existing rows")
	_, ok := m.Cell("L1", "118:hr:815")
	assert.False(t, ok)
}

func TestIngestNoCrossBillInterference(t *testing.T) {
	store := matrix.NewMemoryStore()
	builder := matrix.NewBuilder(store)
	ctx := context.Background()

	billA := mustBill(t, "118:hr:8034")
	billB := mustBill(t, "118:hr:6090")

	_, err := builder.Ingest(ctx, billA, []matrix.VoteRecord{
		rec("L1", "Lawmaker One", matrix.PositionYea),
	})
	require.NoError(t, err)

	_, err = builder.Ingest(ctx, billB, []matrix.VoteRecord{
		rec("L1", "Lawmaker One", matrix.PositionNay),
	})
	require.NoError(t, err)

	m := snapshot(t, store)
	pos, ok := m.Cell("L1", billA.String())
	require.True(t, ok)
	assert.Equal(t, matrix.PositionYea, pos, "bill A's column must be untouched by bill B")
}

func TestIngestDuplicateConflictRejected(t *testing.T) {
	store := matrix.NewMemoryStore()
	builder := matrix.NewBuilder(store)
	ctx := context.Background()

	bill := mustBill(t, "118:hr:8034")
	_, err := builder.Ingest(ctx, bill, []matrix.VoteRecord{
		rec("L1", "Lawmaker One", matrix.PositionYea),
		rec("L1", "Lawmaker One", matrix.PositionNay),
	})

	var dupErr *matrix.DuplicateRecordError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "L1", dupErr.LegislatorID)
	assert.Equal(t, bill, dupErr.BillID)

	// Nothing may have been written, not even the column.
	m := snapshot(t, store)
	assert.Empty(t, m.Bills)
	assert.Empty(t, m.Legislators)
}

func TestIngestDuplicateIdenticalCollapsed(t *testing.T) {
	store := matrix.NewMemoryStore()
	builder := matrix.NewBuilder(store)
	ctx := context.Background()

	result, err := builder.Ingest(ctx, mustBill(t, "118:hr:8034"), []matrix.VoteRecord{
		rec("L1", "Lawmaker One", matrix.PositionYea),
		rec("L1", "Lawmaker One", matrix.PositionYea),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.RowsAdded)
}

func TestIngestReingestOverwrites(t *testing.T) {
	store := matrix.NewMemoryStore()
	builder := matrix.NewBuilder(store)
	ctx := context.Background()

	bill := mustBill(t, "118:hr:8034")

	_, err := builder.Ingest(ctx, bill, []matrix.VoteRecord{
		rec("L1", "Lawmaker One", matrix.PositionYea),
	})
	require.NoError(t, err)

	result, err := builder.Ingest(ctx, bill, []matrix.VoteRecord{
		rec("L1", "Lawmaker One", matrix.PositionNay),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.RowsAdded)
	assert.Equal(t, 1, result.RowsUpdated)

	m := snapshot(t, store)
	pos, ok := m.Cell("L1", bill.String())
	require.True(t, ok)
	assert.Equal(t, matrix.PositionNay, pos)
	assert.Len(t, m.Bills, 1)
	assert.Len(t, m.Legislators, 1)
}

func TestIngestInvalidPosition(t *testing.T) {
	store := matrix.NewMemoryStore()
	builder := matrix.NewBuilder(store)

	record := rec("L1", "Lawmaker One", matrix.Position("Abstain"))
	_, err := builder.Ingest(context.Background(), mustBill(t, "118:hr:8034"), []matrix.VoteRecord{record})

	var posErr *matrix.InvalidPositionError
	require.ErrorAs(t, err, &posErr)
	assert.Equal(t, "Abstain", posErr.Raw)

	m := snapshot(t, store)
	assert.Empty(t, m.Bills)
}

func TestIngestInvalidBillID(t *testing.T) {
	builder := matrix.NewBuilder(matrix.NewMemoryStore())

	_, err := builder.Ingest(context.Background(), matrix.BillID{}, nil)
	require.Error(t, err)

	_, err = builder.Ingest(context.Background(), matrix.BillID{Congress: 118, Type: "xyz", Number: 1}, nil)
	require.Error(t, err)
}

// failingStore simulates a storage outage.
type failingStore struct {
	*matrix.MemoryStore
	fail bool
}

func (s *failingStore) ApplyBatch(ctx context.Context, bill matrix.BillID, records []matrix.VoteRecord) (int, int, error) {
	if s.fail {
		return 0, 0, errors.New("disk full")
	}
	return s.MemoryStore.ApplyBatch(ctx, bill, records)
}

func TestIngestPersistenceErrorIsRetryable(t *testing.T) {
	store := &failingStore{MemoryStore: matrix.NewMemoryStore(), fail: true}
	builder := matrix.NewBuilder(store)
	ctx := context.Background()

	bill := mustBill(t, "118:hr:8034")
	records := []matrix.VoteRecord{rec("L1", "Lawmaker One", matrix.PositionYea)}

	_, err := builder.Ingest(ctx, bill, records)
	var persistErr *matrix.PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, bill, persistErr.BillID)

	// After the outage clears, the same batch applies cleanly.
	store.fail = false
	result, err := builder.Ingest(ctx, bill, records)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RowsAdded)
}
