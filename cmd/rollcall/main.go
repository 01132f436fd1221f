// Package main implements the rollcall CLI: fetch congressional roll-call
// votes into a local database, print the votes matrix, score legislators
// against per-bill weights, and serve the matrix over HTTP.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rollcall",
	Short: "Build a legislators × bills votes matrix from congress.gov roll calls",
	Long: `rollcall fetches roll-call vote records from the congress.gov API and
merges them into a persistent votes matrix: one row per legislator, one
column per bill, one cell per recorded position.

The matrix lives in a local SQLite file (votes.db) by default, or in
Postgres when DATABASE_URL is set. Re-running fetch for a bill is
idempotent: the latest roll call simply overwrites that bill's column.`,
	Version: version,
}
