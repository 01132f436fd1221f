package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/openfloor/rollcall/internal/config"
	"github.com/openfloor/rollcall/internal/matrix"
)

var (
	scoresWeightsPath string
	scoresDefault     float64
)

func init() {
	rootCmd.AddCommand(scoresCmd)
	scoresCmd.Flags().StringVar(&scoresWeightsPath, "weights", "", "Path to a JSON weights file")
	scoresCmd.Flags().Float64Var(&scoresDefault, "default", 0, "Weight for missing or unmapped positions")
	_ = scoresCmd.MarkFlagRequired("weights")
}

var scoresCmd = &cobra.Command{
	Use:   "scores --weights weights.json",
	Short: "Score legislators against per-bill position weights",
	Long: `Compute each legislator's weighted total across the matrix and print
a ranked table. The weights file maps bills to position weights:

  {
    "118:hr:8034": {"Yea": -1, "Nay": 1, "Present": 0.5},
    "118:hr:340":  {"Yea": -1, "Nay": 1}
  }

Positions a bill's rule does not map, and cells with no recorded vote,
score the --default weight.`,
	RunE: runScores,
}

func runScores(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	data, err := os.ReadFile(scoresWeightsPath)
	if err != nil {
		return fmt.Errorf("failed to read weights file: %w", err)
	}
	weights, err := matrix.ParseWeights(data)
	if err != nil {
		return err
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

	scores := matrix.ComputeScores(m, weights, decimal.NewFromFloat(scoresDefault))

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tID\tNAME\tSTATE\tPARTY\tTOTAL\tPERCENT")
	for _, s := range scores {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%.1f\n",
			s.Rank, s.ID, s.Name, s.State, s.Party, s.Total.String(), s.Percent)
	}
	return tw.Flush()
}
