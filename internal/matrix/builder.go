package matrix

import (
	"context"
	"fmt"
)

// IngestResult summarizes one bill's ingestion for logging and the CLI.
type IngestResult struct {
	BillID      string `json:"billId"`
	RowsAdded   int    `json:"rowsAdded"`
	RowsUpdated int    `json:"rowsUpdated"`
}

// Builder merges per-bill vote batches into the persisted votes matrix.
// It holds no state besides the store handle; each Ingest call is a
// self-contained synchronous operation.
type Builder struct {
	store Store
}

// NewBuilder creates a builder writing through the given store.
func NewBuilder(store Store) *Builder {
	return &Builder{store: store}
}

// Ingest merges one bill's vote records into the matrix.
//
// The bill becomes a column whether or not records is empty (a bill with
// no recorded votes just adds an unpopulated column). Each record sets
// the (legislator, bill) cell, overwriting any prior value, so
// re-ingesting a bill is idempotent.
//
// Validation failures (*DuplicateRecordError, *InvalidPositionError)
// abort the bill before anything is written. Storage failures are
// returned as *PersistenceError and leave previously committed bills
// intact.
func (b *Builder) Ingest(ctx context.Context, bill BillID, records []VoteRecord) (IngestResult, error) {
	if err := bill.Validate(); err != nil {
		return IngestResult{}, err
	}

	batch, err := validateBatch(bill, records)
	if err != nil {
		return IngestResult{}, err
	}

	added, updated, err := b.store.ApplyBatch(ctx, bill, batch)
	if err != nil {
		return IngestResult{}, &PersistenceError{BillID: bill, Err: err}
	}

	return IngestResult{
		BillID:      bill.String(),
		RowsAdded:   added,
		RowsUpdated: updated,
	}, nil
}

// validateBatch checks every record and collapses exact duplicates.
// Sources occasionally repeat a row verbatim; that is harmless. Two
// entries for the same legislator with different positions are ambiguous
// and rejected.
func validateBatch(bill BillID, records []VoteRecord) ([]VoteRecord, error) {
	seen := make(map[string]Position, len(records))
	batch := make([]VoteRecord, 0, len(records))

	for _, r := range records {
		if r.LegislatorID == "" {
			return nil, fmt.Errorf("record for %s has empty legislator id", bill)
		}
		if !r.BillID.IsZero() && r.BillID != bill {
			return nil, fmt.Errorf("record for bill %s in batch for %s", r.BillID, bill)
		}
		if !r.Position.Valid() {
			return nil, &InvalidPositionError{Raw: string(r.Position)}
		}

		if prev, ok := seen[r.LegislatorID]; ok {
			if prev != r.Position {
				return nil, &DuplicateRecordError{
					BillID:       bill,
					LegislatorID: r.LegislatorID,
					First:        prev,
					Second:       r.Position,
				}
			}
			continue
		}

		seen[r.LegislatorID] = r.Position
		r.BillID = bill
		batch = append(batch, r)
	}

	return batch, nil
}
