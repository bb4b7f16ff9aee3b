package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/idiomine/internal/analyzer"
	"github.com/blackwell-systems/idiomine/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Corpus statistics from the latest snapshot",
	Example: `  idiomine stats`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		acc, snap, err := loadLatest(db)
		if err != nil {
			return err
		}

		fmt.Printf("Snapshot %s (%s)\n\n", snap.ID, snap.Reason)
		fmt.Print(output.RenderStats(analyzer.New(acc).Stats()))
		return nil
	},
}
