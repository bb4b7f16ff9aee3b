package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/idiomine/internal/config"
	"github.com/blackwell-systems/idiomine/internal/cooccur"
	"github.com/blackwell-systems/idiomine/internal/extract"
	"github.com/blackwell-systems/idiomine/internal/watcher"
)

var (
	watchInterval time.Duration

	watchCmd = &cobra.Command{
		Use:   "watch <path>",
		Short: "Mine a corpus continuously as it changes",
		Long: `Watch the corpus root for created or modified Go files, extract and
ingest their observations as they appear, and persist a snapshot
periodically and on shutdown (Ctrl+C).

Unchanged files (same content digest) are not re-ingested, so editor
save storms do not inflate the counts.`,
		Example: `  # Watch in the foreground, snapshot every 30s
  idiomine watch ./corpus

  # Snapshot every 5 minutes
  idiomine watch ./corpus --interval 5m`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "snapshot interval")
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := args[0]

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	configDir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("failed to resolve config directory: %w", err)
	}
	ignore, err := config.LoadIgnore(configDir)
	if err != nil {
		return fmt.Errorf("failed to load ignore file: %w", err)
	}

	// Resume from the latest snapshot when one exists so watch sessions
	// accumulate on top of prior mines.
	acc := cooccur.NewStrings()
	if latest, err := db.LatestSnapshot(); err == nil {
		if resumed, _, err := db.LoadSnapshot(latest.ID); err == nil {
			acc = resumed
			fmt.Printf("Resuming from snapshot %s\n", latest.ID)
		}
	}

	w, err := watcher.New(root, db, acc,
		extract.New(extract.WithIgnoredIdentifiers(ignore.Match)),
		watcher.WithSnapshotInterval(watchInterval))
	if err != nil {
		return err
	}

	if err := w.Start(); err != nil {
		return err
	}

	fmt.Printf("Watching %s (Ctrl+C to stop)...\n", root)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nStopping...")
	return w.Stop()
}
