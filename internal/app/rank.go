package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/idiomine/internal/analyzer"
	"github.com/blackwell-systems/idiomine/internal/output"
)

var (
	rankRow        bool
	rankMinSupport int64
	rankLimit      int

	rankCmd = &cobra.Command{
		Use:   "rank <element>",
		Short: "Ranked lift list for an element",
		Long: `Show the elements co-occurring with the given one, ranked by lift
(descending). By default the argument is treated as an identifier
(column side); pass --row to anchor on a syntactic pattern instead.

Lift above zero means the pair co-occurs more often than independent
marginals predict; below zero means avoidance.`,
		Example: `  # Patterns associated with the identifier "err"
  idiomine rank err

  # Identifiers associated with for loops, at least 5 co-occurrences
  idiomine rank for_statement --row --min-support 5`,
		Args: cobra.ExactArgs(1),
		RunE: runRank,
	}
)

func init() {
	rankCmd.Flags().BoolVar(&rankRow, "row", false, "anchor on a pattern (row) instead of an identifier (column)")
	rankCmd.Flags().Int64Var(&rankMinSupport, "min-support", 0, "hide pairs with fewer joint occurrences")
	rankCmd.Flags().IntVar(&rankLimit, "limit", 25, "maximum rows to show (0 for all)")
}

func runRank(cmd *cobra.Command, args []string) error {
	element := args[0]

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	acc, _, err := loadLatest(db)
	if err != nil {
		return err
	}

	a := analyzer.New(acc)
	var associations []analyzer.Association
	if rankRow {
		associations = a.RankForRow(element, rankMinSupport)
	} else {
		associations = a.RankForColumn(element, rankMinSupport)
	}
	if rankLimit > 0 && len(associations) > rankLimit {
		associations = associations[:rankLimit]
	}

	fmt.Print(output.RenderAssociationTable(element, associations))
	return nil
}
