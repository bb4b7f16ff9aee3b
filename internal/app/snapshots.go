package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/idiomine/internal/output"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List saved snapshots",
	Example: `  idiomine snapshots
  idiomine snapshots rm 4f1c...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		snaps, err := db.ListSnapshots()
		if err != nil {
			return err
		}
		fmt.Print(output.RenderSnapshotTable(snaps))
		return nil
	},
}

var snapshotsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a snapshot and its counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteSnapshot(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted snapshot %s\n", args[0])
		return nil
	},
}

func init() {
	snapshotsCmd.AddCommand(snapshotsRmCmd)
}
