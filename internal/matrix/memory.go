package matrix

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store. It backs the builder tests and
// works as a throwaway backend for dry runs; nothing survives the
// process.
type MemoryStore struct {
	mu          sync.RWMutex
	bills       []string
	billSet     map[string]bool
	legislators map[string]Legislator
	cells       map[string]map[string]Position // legislator id -> bill id -> position
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		billSet:     make(map[string]bool),
		legislators: make(map[string]Legislator),
		cells:       make(map[string]map[string]Position),
	}
}

// ApplyBatch implements Store. In-memory writes cannot fail, so the
// batch is applied directly under the lock; readers synchronize through
// Snapshot.
func (s *MemoryStore) ApplyBatch(_ context.Context, bill BillID, records []VoteRecord) (added, updated int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := bill.String()
	if !s.billSet[key] {
		s.billSet[key] = true
		s.bills = append(s.bills, key)
	}

	for _, r := range records {
		s.legislators[r.LegislatorID] = Legislator{
			ID:      r.LegislatorID,
			Name:    r.LegislatorName,
			State:   r.State,
			Party:   r.Party,
			Chamber: r.Chamber,
		}

		row, ok := s.cells[r.LegislatorID]
		if !ok {
			row = make(map[string]Position)
			s.cells[r.LegislatorID] = row
		}
		if _, exists := row[key]; exists {
			updated++
		} else {
			added++
		}
		row[key] = r.Position
	}

	return added, updated, nil
}

// Snapshot implements Store. It returns deep copies so callers cannot
// mutate store state through the matrix.
func (s *MemoryStore) Snapshot(_ context.Context) (*Matrix, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := &Matrix{
		Bills: append([]string(nil), s.bills...),
		Cells: make(map[string]map[string]Position, len(s.cells)),
	}

	for id, leg := range s.legislators {
		m.Legislators = append(m.Legislators, leg)
		row := make(map[string]Position, len(s.cells[id]))
		for billID, pos := range s.cells[id] {
			row[billID] = pos
		}
		m.Cells[id] = row
	}
	sort.Slice(m.Legislators, func(i, j int) bool {
		return m.Legislators[i].ID < m.Legislators[j].ID
	})

	return m, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
