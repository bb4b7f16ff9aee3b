package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/idiomine/internal/analyzer"
	"github.com/blackwell-systems/idiomine/internal/config"
	"github.com/blackwell-systems/idiomine/internal/cooccur"
	"github.com/blackwell-systems/idiomine/internal/corpus"
	"github.com/blackwell-systems/idiomine/internal/extract"
	"github.com/blackwell-systems/idiomine/internal/output"
)

var (
	mineQuiet    bool
	mineMaxBytes int64

	mineCmd = &cobra.Command{
		Use:   "mine <path>",
		Short: "Mine a source corpus into a snapshot",
		Long: `Walk a Go source corpus, extract one observation per function
(the syntactic patterns in its body paired with the identifiers it
mentions), accumulate co-occurrence counts, and persist the result as
a new snapshot.

Identifiers listed in the config ignore file ({config}/ignore) are
excluded from observations.`,
		Example: `  # Mine the current directory
  idiomine mine .

  # Mine quietly into a custom database
  idiomine mine ./corpus --quiet --db /tmp/corpus.db`,
		Args: cobra.ExactArgs(1),
		RunE: runMine,
	}
)

func init() {
	mineCmd.Flags().BoolVar(&mineQuiet, "quiet", false, "suppress output")
	mineCmd.Flags().Int64Var(&mineMaxBytes, "max-file-size", extract.DefaultMaxFileSize, "largest file to parse, in bytes")
}

func runMine(cmd *cobra.Command, args []string) error {
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

	extractor := extract.New(
		extract.WithMaxFileSize(mineMaxBytes),
		extract.WithIgnoredIdentifiers(ignore.Match),
	)

	files, err := corpus.Walk(root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no Go source files found under %s", root)
	}

	acc := cooccur.NewStrings()
	progress := output.NewProgress(len(files), "Extracting observations")
	if mineQuiet {
		progress.SetWriter(nopWriter{})
	}

	observations := 0
	skipped := 0
	for _, file := range files {
		obs, err := extractor.ExtractFile(cmd.Context(), file.Path)
		if err != nil {
			// A file the parser rejects should not abort the whole corpus.
			fmt.Fprintf(os.Stderr, "mine: skipping %s: %v\n", file.RelPath, err)
			skipped++
			progress.Increment()
			continue
		}
		observations += analyzer.Ingest(acc, obs)
		progress.Increment()
	}
	progress.Finish()

	snap, err := db.SaveSnapshot(acc, fmt.Sprintf("mine %s", root))
	if err != nil {
		return err
	}

	if !mineQuiet {
		fmt.Printf("Mined %d files (%d skipped), %d observations.\n", len(files), skipped, observations)
		fmt.Printf("Snapshot %s saved.\n\n", snap.ID)
		fmt.Print(output.RenderStats(analyzer.New(acc).Stats()))
	}

	return nil
}

// nopWriter silences progress output in quiet mode.
type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
