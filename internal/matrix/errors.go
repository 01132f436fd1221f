package matrix

import "fmt"

// InvalidPositionError reports a vote string outside the recognized
// enumeration. It surfaces at the parse boundary so the matrix core never
// stores a malformed position.
type InvalidPositionError struct {
	Raw string
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("unrecognized vote position %q", e.Raw)
}

// DuplicateRecordError reports two records for the same legislator within
// one bill batch that carry different positions. The input is ambiguous,
// so ingestion rejects it rather than guessing which entry is
// authoritative.
type DuplicateRecordError struct {
	BillID       BillID
	LegislatorID string
	First        Position
	Second       Position
}

func (e *DuplicateRecordError) Error() string {
	return fmt.Sprintf("conflicting positions for legislator %s on %s: %q vs %q",
		e.LegislatorID, e.BillID, e.First, e.Second)
}

// PersistenceError wraps a storage failure during ingestion. The bill's
// batch is not committed; re-ingesting it after the underlying cause is
// fixed is safe because ingestion is idempotent.
type PersistenceError struct {
	BillID BillID
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting votes for %s: %v", e.BillID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
