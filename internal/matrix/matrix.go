package matrix

// Legislator is a matrix row with its display metadata. The id (bioguide
// for the House, LIS for the Senate) is the key; name formatting varies
// across sources and is never used for identity.
type Legislator struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	State   string `json:"state,omitempty"`
	Party   string `json:"party,omitempty"`
	Chamber string `json:"chamber,omitempty"`
}

// Matrix is a point-in-time snapshot of the persisted votes matrix:
// rows are legislators, columns are bills, cells are positions. A cell
// is absent when the legislator did not appear in that bill's roll call.
type Matrix struct {
	// Legislators are ordered by id.
	Legislators []Legislator
	// Bills holds the canonical bill ids in ingestion order.
	Bills []string
	// Cells maps legislator id -> bill id -> position.
	Cells map[string]map[string]Position
}

// Cell returns the position for a (legislator, bill) pair, if recorded.
func (m *Matrix) Cell(legislatorID, billID string) (Position, bool) {
	row, ok := m.Cells[legislatorID]
	if !ok {
		return "", false
	}
	pos, ok := row[billID]
	return pos, ok
}

// Legislator returns the row metadata for an id.
func (m *Matrix) Legislator(id string) (Legislator, bool) {
	for _, l := range m.Legislators {
		if l.ID == id {
			return l, true
		}
	}
	return Legislator{}, false
}

// HasBill reports whether the bill is a column in the matrix.
func (m *Matrix) HasBill(billID string) bool {
	for _, b := range m.Bills {
		if b == billID {
			return true
		}
	}
	return false
}

// Tally is the position breakdown for one bill column.
type Tally struct {
	BillID    string `json:"billId"`
	Yea       int    `json:"yea"`
	Nay       int    `json:"nay"`
	Present   int    `json:"present"`
	NotVoting int    `json:"notVoting"`
}

// Tally counts positions recorded for a bill.
func (m *Matrix) Tally(billID string) Tally {
	t := Tally{BillID: billID}
	for _, row := range m.Cells {
		switch row[billID] {
		case PositionYea:
			t.Yea++
		case PositionNay:
			t.Nay++
		case PositionPresent:
			t.Present++
		case PositionNotVoting:
			t.NotVoting++
		}
	}
	return t
}

// Stats summarizes matrix dimensions.
type Stats struct {
	Legislators int `json:"legislators"`
	Bills       int `json:"bills"`
	Votes       int `json:"votes"`
}

// Stats returns row, column, and populated-cell counts.
func (m *Matrix) Stats() Stats {
	s := Stats{
		Legislators: len(m.Legislators),
		Bills:       len(m.Bills),
	}
	for _, row := range m.Cells {
		s.Votes += len(row)
	}
	return s
}
