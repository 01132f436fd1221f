package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/openfloor/rollcall/internal/config"
	"github.com/openfloor/rollcall/internal/congress"
	"github.com/openfloor/rollcall/internal/matrix"
)

var (
	fetchBills   []string
	fetchChamber string
)

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringSliceVar(&fetchBills, "bills", nil, "Bill identifiers as CONGRESS:TYPE:NUMBER, e.g. 118:hr:8034")
	fetchCmd.Flags().StringVar(&fetchChamber, "chamber", "both", "Chamber roll calls to fetch: house, senate, or both")
	_ = fetchCmd.MarkFlagRequired("bills")
}

var fetchCmd = &cobra.Command{
	Use:   "fetch --bills 118:hr:8034,118:hr:340",
	Short: "Fetch roll-call votes and merge them into the matrix",
	Long: `Fetch the latest roll call for each bill from congress.gov and upsert
the vote records into the votes matrix, one bill at a time.

Each bill commits as a single transaction: interrupting a run leaves the
matrix consistent up to the last committed bill, and re-running the same
bills is idempotent. A bill with ambiguous input (two different positions
for one legislator) is skipped and reported; a storage failure aborts the
run.

Requires CONGRESS_API_KEY (sign up at https://api.congress.gov).

Examples:
  rollcall fetch --bills 118:hr:8034
  rollcall fetch --bills 118:hr:8034,118:hr:6090 --chamber house`,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	chamber, err := congress.ParseChamber(fetchChamber)
	if err != nil {
		return err
	}

	bills := make([]matrix.BillID, 0, len(fetchBills))
	for _, raw := range fetchBills {
		bill, err := matrix.ParseBillID(raw)
		if err != nil {
			return err
		}
		bills = append(bills, bill)
	}

	ctx := cmd.Context()

	store, _, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	client := congress.NewClient(cfg.CongressAPIBase, cfg.CongressAPIKey, cfg.HTTPTimeout)
	builder := matrix.NewBuilder(store)

	log.Printf("Fetching %d bill(s), chamber: %s", len(bills), chamber)

	failed := 0
	for i, bill := range bills {
		records, err := client.FetchBillVotes(ctx, bill, chamber)
		if err != nil {
			var noRollCall *congress.NoRollCallError
			if errors.As(err, &noRollCall) {
				// Not yet voted on: the bill still gets an empty column.
				slog.Warn("No recorded votes", "bill", bill.String())
				records = nil
			} else {
				slog.Error("Fetch failed", "bill", bill.String(), "error", err)
				failed++
				continue
			}
		}

		result, err := builder.Ingest(ctx, bill, records)
		if err != nil {
			var persistErr *matrix.PersistenceError
			if errors.As(err, &persistErr) {
				// Storage failure: nothing committed for this bill, and
				// the run cannot meaningfully continue.
				return fmt.Errorf("aborting run: %w", err)
			}
			// Local-input defect: abort this bill only.
			slog.Error("Ingest rejected", "bill", bill.String(), "error", err)
			failed++
			continue
		}

		slog.Info("Bill ingested",
			"bill", result.BillID,
			"rows_added", result.RowsAdded,
			"rows_updated", result.RowsUpdated,
		)
		log.Printf("  Progress: %d/%d bills processed", i+1, len(bills))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d bill(s) failed", failed, len(bills))
	}
	return nil
}
