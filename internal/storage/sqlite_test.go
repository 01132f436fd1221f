package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfloor/rollcall/internal/matrix"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	store, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sqliteBill(t *testing.T, s string) matrix.BillID {
	t.Helper()
	bill, err := matrix.ParseBillID(s)
	require.NoError(t, err)
	return bill
}

func sqliteRecord(legislatorID string, pos matrix.Position) matrix.VoteRecord {
	return matrix.VoteRecord{
		LegislatorID:   legislatorID,
		LegislatorName: "Lawmaker " + legislatorID,
		State:          "NY",
		Party:          "D",
		Chamber:        "House",
		RollNumber:     217,
		Position:       pos,
	}
}

func TestSQLiteApplyBatchAndSnapshot(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()
	bill := sqliteBill(t, "118:hr:8034")

	added, updated, err := store.ApplyBatch(ctx, bill, []matrix.VoteRecord{
		sqliteRecord("L1", matrix.PositionYea),
		sqliteRecord("L2", matrix.PositionNay),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 0, updated)

	m, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"118:hr:8034"}, m.Bills)
	require.Len(t, m.Legislators, 2)
	assert.Equal(t, "L1", m.Legislators[0].ID)
	assert.Equal(t, "Lawmaker L1", m.Legislators[0].Name)

	pos, ok := m.Cell("L1", "118:hr:8034")
	require.True(t, ok)
	assert.Equal(t, matrix.PositionYea, pos)
}

func TestSQLiteUpsertOverwrites(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()
	bill := sqliteBill(t, "118:hr:8034")

	_, _, err := store.ApplyBatch(ctx, bill, []matrix.VoteRecord{sqliteRecord("L1", matrix.PositionYea)})
	require.NoError(t, err)

	added, updated, err := store.ApplyBatch(ctx, bill, []matrix.VoteRecord{sqliteRecord("L1", matrix.PositionNay)})
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 1, updated)

	m, err := store.Snapshot(ctx)
	require.NoError(t, err)
	pos, _ := m.Cell("L1", "118:hr:8034")
	assert.Equal(t, matrix.PositionNay, pos)
	assert.Len(t, m.Legislators, 1)
	assert.Len(t, m.Bills, 1, "re-ingesting must not duplicate the column")
}

func TestSQLiteEmptyBatchCreatesColumn(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	added, updated, err := store.ApplyBatch(ctx, sqliteBill(t, "118:hr:815"), nil)
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Zero(t, updated)

	m, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"118:hr:815"}, m.Bills)
	assert.Empty(t, m.Legislators)
}

func TestSQLiteBillsKeepIngestionOrder(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	for _, id := range []string{"118:hr:8034", "118:hr:340", "118:hr:6090"} {
		_, _, err := store.ApplyBatch(ctx, sqliteBill(t, id), nil)
		require.NoError(t, err)
	}

	m, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"118:hr:8034", "118:hr:340", "118:hr:6090"}, m.Bills)
}
