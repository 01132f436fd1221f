package matrix

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV renders the matrix as CSV: metadata columns followed by one
// column per bill, labeled "HR.8034" style. Absent cells are empty.
// Shared by the CLI `matrix --csv` output and the API export endpoint.
func WriteCSV(w io.Writer, m *Matrix) error {
	cw := csv.NewWriter(w)

	header := []string{"legislator_id", "name", "state", "party"}
	for _, billID := range m.Bills {
		header = append(header, columnLabel(billID))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, leg := range m.Legislators {
		row := []string{leg.ID, leg.Name, leg.State, leg.Party}
		for _, billID := range m.Bills {
			pos, _ := m.Cell(leg.ID, billID)
			row = append(row, string(pos))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", leg.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// columnLabel converts a canonical bill id to its display label,
// falling back to the raw id if it does not parse.
func columnLabel(billID string) string {
	bill, err := ParseBillID(billID)
	if err != nil {
		return billID
	}
	return bill.Label()
}
