// Package app wires idiomine's cobra command tree.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/idiomine/internal/cooccur"
	"github.com/blackwell-systems/idiomine/internal/store"
)

var (
	dbPath string

	// RootCmd is the root command for idiomine
	RootCmd = &cobra.Command{
		Use:   "idiomine",
		Short: "Mine co-occurring code elements from a source corpus",
		Long: `idiomine walks a Go source corpus, records which syntactic patterns
and identifiers occur together inside each function, and ranks the
resulting associations by lift (pointwise mutual information).

Quick Start:
  1. idiomine mine ./path/to/corpus
  2. idiomine rank err
  3. idiomine prune --threshold 1   # drop single co-occurrences

Examples:
  # Mine a corpus into a snapshot
  idiomine mine ./corpus

  # Top patterns associated with the identifier "err"
  idiomine rank err

  # Column partners of a pattern, by mutual information
  idiomine mi for_statement --row

  # Keep mining as the corpus changes
  idiomine watch ./corpus`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("idiomine: co-occurrence association mining for source corpora")
			fmt.Println()
			fmt.Println("Run 'idiomine mine <path>' to mine a corpus.")
			fmt.Println("Run 'idiomine --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.idiomine/idiomine.db)")

	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(mineCmd)
	RootCmd.AddCommand(rankCmd)
	RootCmd.AddCommand(miCmd)
	RootCmd.AddCommand(popularCmd)
	RootCmd.AddCommand(pruneCmd)
	RootCmd.AddCommand(statsCmd)
	RootCmd.AddCommand(watchCmd)
	RootCmd.AddCommand(snapshotsCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// getDBPath returns the database path, using the flag value or default
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	idiomineDir := filepath.Join(home, ".idiomine")
	if err := os.MkdirAll(idiomineDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create idiomine directory: %w", err)
	}

	return filepath.Join(idiomineDir, "idiomine.db"), nil
}

// openStore opens the database and ensures the schema exists.
func openStore() (*store.Store, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get database path: %w", err)
	}

	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.CreateSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// loadLatest loads the accumulator from the most recent snapshot.
func loadLatest(db *store.Store) (*cooccur.Accumulator[string, string], *store.Snapshot, error) {
	latest, err := db.LatestSnapshot()
	if err != nil {
		return nil, nil, fmt.Errorf("no mined data found (run 'idiomine mine' first): %w", err)
	}
	return db.LoadSnapshot(latest.ID)
}
