package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/idiomine/internal/analyzer"
	"github.com/blackwell-systems/idiomine/internal/output"
)

var (
	pruneThreshold int64

	pruneCmd = &cobra.Command{
		Use:   "prune",
		Short: "Drop low-support pairs from the latest snapshot",
		Long: `Load the latest snapshot, remove every joint cell whose count is at or
below the threshold, and persist the result as a new snapshot.

Pruning only shrinks the joint table: marginal counts and the running
co-occurrence total keep their pre-prune values, so lift scores of the
surviving pairs are unchanged.`,
		Example: `  # Drop pairs seen at most once
  idiomine prune --threshold 1`,
		RunE: runPrune,
	}
)

func init() {
	pruneCmd.Flags().Int64Var(&pruneThreshold, "threshold", 1, "remove joint cells with count at or below this value")
}

func runPrune(cmd *cobra.Command, args []string) error {
	if pruneThreshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %d", pruneThreshold)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	acc, origin, err := loadLatest(db)
	if err != nil {
		return err
	}

	before := analyzer.New(acc).Stats().JointCells
	acc.Prune(pruneThreshold)
	after := analyzer.New(acc).Stats().JointCells

	snap, err := db.SaveSnapshot(acc, fmt.Sprintf("prune <= %d of %s", pruneThreshold, origin.ID))
	if err != nil {
		return err
	}

	fmt.Printf("Pruned %d of %d joint cells.\n", before-after, before)
	fmt.Printf("Snapshot %s saved.\n\n", snap.ID)
	fmt.Print(output.RenderStats(analyzer.New(acc).Stats()))
	return nil
}
