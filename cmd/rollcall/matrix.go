package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/openfloor/rollcall/internal/config"
	"github.com/openfloor/rollcall/internal/matrix"
)

var matrixCSV bool

func init() {
	rootCmd.AddCommand(matrixCmd)
	matrixCmd.Flags().BoolVar(&matrixCSV, "csv", false, "Output as CSV instead of a table")
}

var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Print the votes matrix",
	Long: `Print the persisted votes matrix: one row per legislator, one column
per ingested bill. Cells a legislator has no recorded position for are
left blank.

Examples:
  rollcall matrix
  rollcall matrix --csv > votes_matrix.csv`,
	RunE: runMatrix,
}

func runMatrix(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx := cmd.Context()

	store, _, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	m, err := store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to load matrix: %w", err)
	}

	if matrixCSV {
		return matrix.WriteCSV(os.Stdout, m)
	}

	return printMatrixTable(m)
}

func printMatrixTable(m *matrix.Matrix) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprint(tw, "ID\tNAME\tSTATE\tPARTY")
	for _, billID := range m.Bills {
		label := billID
		if bill, err := matrix.ParseBillID(billID); err == nil {
			label = bill.Label()
		}
		fmt.Fprintf(tw, "\t%s", label)
	}
	fmt.Fprintln(tw)

	for _, leg := range m.Legislators {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s", leg.ID, leg.Name, leg.State, leg.Party)
		for _, billID := range m.Bills {
			pos, _ := m.Cell(leg.ID, billID)
			fmt.Fprintf(tw, "\t%s", pos)
		}
		fmt.Fprintln(tw)
	}

	stats := m.Stats()
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d legislators × %d bills (%d recorded votes)\n",
		stats.Legislators, stats.Bills, stats.Votes)
	return nil
}
