package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/openfloor/rollcall/internal/matrix"
)

// SQLite implements matrix.Store over a local database file. This is the
// default backend: a single votes.db next to the binary, no server
// required. Use ":memory:" for an ephemeral database.
type SQLite struct {
	db *sql.DB
	mu sync.Mutex // single writer; WAL readers are unaffected
}

// NewSQLite opens (or creates) the database at path and ensures the
// schema exists.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLite{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bills (
		id          TEXT PRIMARY KEY,
		congress    INTEGER NOT NULL,
		bill_type   TEXT NOT NULL,
		bill_number INTEGER NOT NULL,
		added_at    TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS bill_votes (
		bill_id       TEXT NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
		legislator_id TEXT NOT NULL,
		name          TEXT NOT NULL,
		state         TEXT,
		party         TEXT,
		chamber       TEXT,
		roll_number   INTEGER,
		position      TEXT NOT NULL,
		ingested_at   TEXT NOT NULL DEFAULT (datetime('now')),
		PRIMARY KEY (bill_id, legislator_id)
	);

	CREATE INDEX IF NOT EXISTS idx_bill_votes_legislator ON bill_votes (legislator_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// ApplyBatch implements matrix.Store. One transaction per bill.
func (s *SQLite) ApplyBatch(ctx context.Context, bill matrix.BillID, records []matrix.VoteRecord) (added, updated int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bills (id, congress, bill_type, bill_number)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, bill.String(), bill.Congress, bill.Type, bill.Number)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to upsert bill %s: %w", bill, err)
	}

	existing := make(map[string]bool)
	rows, err := tx.QueryContext(ctx, `SELECT legislator_id FROM bill_votes WHERE bill_id = ?`, bill.String())
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
		_, err = tx.ExecContext(ctx, `
			INSERT INTO bill_votes (
				bill_id, legislator_id, name, state, party, chamber, roll_number, position
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (bill_id, legislator_id) DO UPDATE SET
				name = excluded.name,
				state = excluded.state,
				party = excluded.party,
				chamber = excluded.chamber,
				roll_number = excluded.roll_number,
				position = excluded.position,
				ingested_at = datetime('now')
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

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit votes for %s: %w", bill, err)
	}

	return added, updated, nil
}

// Snapshot implements matrix.Store.
func (s *SQLite) Snapshot(ctx context.Context) (*matrix.Matrix, error) {
	m := &matrix.Matrix{Cells: make(map[string]map[string]matrix.Position)}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM bills ORDER BY rowid`)
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

	voteRows, err := s.db.QueryContext(ctx, `
		SELECT bill_id, legislator_id, name, state, party, chamber, position
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
		var state, party, chamber sql.NullString
		if err := voteRows.Scan(&billID, &leg.ID, &leg.Name, &state, &party, &chamber, &position); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		leg.State, leg.Party, leg.Chamber = state.String, party.String, chamber.String

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

// Close closes the database file.
func (s *SQLite) Close() error {
	return s.db.Close()
}
