package app

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/idiomine/internal/output"
)

var (
	popularColumns bool
	popularLimit   int

	popularCmd = &cobra.Command{
		Use:   "popular",
		Short: "Most frequently observed elements",
		Long: `List elements by descending marginal count: how many observations
contained them, regardless of partner. Defaults to patterns (rows);
pass --identifiers for the column side.`,
		Example: `  # Most common syntactic patterns
  idiomine popular

  # Most common identifiers
  idiomine popular --identifiers --limit 50`,
		RunE: runPopular,
	}
)

func init() {
	popularCmd.Flags().BoolVar(&popularColumns, "identifiers", false, "list identifiers (columns) instead of patterns (rows)")
	popularCmd.Flags().IntVar(&popularLimit, "limit", 25, "maximum rows to show (0 for all)")
}

func runPopular(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	acc, _, err := loadLatest(db)
	if err != nil {
		return err
	}

	var rows []output.PopularRow
	if popularColumns {
		for element, count := range acc.ColumnCounts() {
			rows = append(rows, output.PopularRow{Element: element, Count: count})
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Count != rows[j].Count {
				return rows[i].Count > rows[j].Count
			}
			return rows[i].Element < rows[j].Element
		})
	} else {
		for _, rc := range acc.MostPopularRows() {
			rows = append(rows, output.PopularRow{Element: rc.Element, Count: rc.Count})
		}
	}

	if popularLimit > 0 && len(rows) > popularLimit {
		rows = rows[:popularLimit]
	}

	fmt.Print(output.RenderPopularTable(rows))
	return nil
}
