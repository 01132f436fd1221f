package matrix

import "context"

// Store persists the votes matrix. Implementations must apply a bill's
// batch atomically: a concurrent reader never observes a partially
// written bill column, and a failed ApplyBatch leaves the previously
// committed state untouched.
//
// Implementations:
//   - storage.Postgres: pgx transaction per bill
//   - storage.SQLite:   local votes.db file
//   - MemoryStore:      in-process, for tests
type Store interface {
	// ApplyBatch ensures the bill column exists and upserts one cell per
	// record, keyed by (bill, legislator). It returns how many cells were
	// newly inserted and how many existing cells were overwritten.
	// Records are pre-validated by the Builder: positions are in the
	// enumeration and legislator ids are unique within the batch.
	ApplyBatch(ctx context.Context, bill BillID, records []VoteRecord) (added, updated int, err error)

	// Snapshot loads the persisted matrix: every bill ever ingested as a
	// column, every legislator that appeared in at least one batch as a
	// row.
	Snapshot(ctx context.Context) (*Matrix, error)

	Close() error
}
