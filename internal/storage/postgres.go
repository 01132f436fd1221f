// Package storage provides the durable matrix.Store implementations:
// Postgres for deployments, SQLite for the local single-file default.
package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openfloor/rollcall/internal/matrix"
)

// Postgres implements matrix.Store over a pgx connection pool. Each
// ApplyBatch runs as one transaction, so a concurrent reader never sees
// a partially written bill column.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a store over an existing pool. The caller owns the
// pool's lifecycle; Close here is a no-op so the pool can outlive the
// store (the cmd layer closes it explicitly on shutdown).
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// ApplyBatch implements matrix.Store.
func (s *Postgres) ApplyBatch(ctx context.Context, bill matrix.BillID, records []matrix.VoteRecord) (added, updated int, err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO bills (id, congress, bill_type, bill_number)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, bill.String(), bill.Congress, bill.Type, bill.Number)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to upsert bill %s: %w", bill, err)
	}

	// Existing cells for this bill, to split the result into added vs
	// updated inside the same transaction that applies the batch.
	existing := make(map[string]bool)
	rows, err := tx.Query(ctx, `SELECT legislator_id FROM bill_votes WHERE bill_id = $1`, bill.String())
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read existing votes for %s: %w", bill, err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, 0, fmt.Errorf("failed to scan legislator id: %w", err)
		}
		existing[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, 0, fmt.Errorf("failed to read existing votes for %s: %w", bill, err)
	}

	for _, r := range records {
		_, err = tx.Exec(ctx, `
			INSERT INTO bill_votes (
				bill_id, legislator_id, name, state, party, chamber, roll_number, position
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (bill_id, legislator_id) DO UPDATE SET
				name = EXCLUDED.name,
				state = EXCLUDED.state,
				party = EXCLUDED.party,
				chamber = EXCLUDED.chamber,
				roll_number = EXCLUDED.roll_number,
				position = EXCLUDED.position,
				ingested_at = NOW()
		`, bill.String(), r.LegislatorID, r.LegislatorName, r.State, r.Party, r.Chamber, r.RollNumber, string(r.Position))
		if err != nil {
			return 0, 0, fmt.Errorf("failed to upsert vote for %s on %s: %w", r.LegislatorID, bill, err)
		}
		if existing[r.LegislatorID] {
			updated++
		} else {
			added++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to commit votes for %s: %w", bill, err)
	}

	return added, updated, nil
}

// Snapshot implements matrix.Store. Bills come back in ingestion order,
// legislators sorted by id.
func (s *Postgres) Snapshot(ctx context.Context) (*matrix.Matrix, error) {
	m := &matrix.Matrix{Cells: make(map[string]map[string]matrix.Position)}

	rows, err := s.pool.Query(ctx, `SELECT id FROM bills ORDER BY added_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		m.Bills = append(m.Bills, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	voteRows, err := s.pool.Query(ctx, `
		SELECT bill_id, legislator_id, name,
			COALESCE(state, ''), COALESCE(party, ''), COALESCE(chamber, ''), position
		FROM bill_votes
		ORDER BY legislator_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer voteRows.Close()

	for voteRows.Next() {
		var billID, position string
		var leg matrix.Legislator
		if err := voteRows.Scan(&billID, &leg.ID, &leg.Name, &leg.State, &leg.Party, &leg.Chamber, &position); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}

		row, ok := m.Cells[leg.ID]
		if !ok {
			row = make(map[string]matrix.Position)
			m.Cells[leg.ID] = row
			m.Legislators = append(m.Legislators, leg)
		}
		row[billID] = matrix.Position(position)
	}
	if err := voteRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}

	return m, nil
}

// Close implements matrix.Store; the pool is closed by its owner.
func (s *Postgres) Close() error { return nil }
