package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/idiomine/internal/cooccur"
	"github.com/blackwell-systems/idiomine/internal/output"
)

var (
	miRow bool

	miCmd = &cobra.Command{
		Use:   "mi <element>",
		Short: "Mutual-information list for an element",
		Long: `Show the log-probability ratio of every element jointly observed with
the given one. By default the argument is treated as an identifier
(column side); pass --row to anchor on a syntactic pattern instead.

Asking about an element that was never observed is an error; an
element that was observed but has no surviving joint entries yields
an empty list.`,
		Example: `  # Partners of the identifier "err"
  idiomine mi err

  # Partners of for loops
  idiomine mi for_statement --row`,
		Args: cobra.ExactArgs(1),
		RunE: runMI,
	}
)

func init() {
	miCmd.Flags().BoolVar(&miRow, "row", false, "anchor on a pattern (row) instead of an identifier (column)")
}

func runMI(cmd *cobra.Command, args []string) error {
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

	var rows []output.MutualInformationRow
	if miRow {
		mi, err := acc.ColumnMutualInformationFor(element)
		if err != nil {
			return describeMIError(err, element)
		}
		for _, entry := range mi {
			rows = append(rows, output.MutualInformationRow{Element: entry.Element, LogProb: entry.LogProb})
		}
	} else {
		mi, err := acc.RowMutualInformationFor(element)
		if err != nil {
			return describeMIError(err, element)
		}
		for _, entry := range mi {
			rows = append(rows, output.MutualInformationRow{Element: entry.Element, LogProb: entry.LogProb})
		}
	}

	fmt.Print(output.RenderMutualInformationTable(element, rows))
	return nil
}

func describeMIError(err error, element string) error {
	if errors.Is(err, cooccur.ErrUnknownRow) || errors.Is(err, cooccur.ErrUnknownColumn) {
		return fmt.Errorf("%q was never observed in the mined corpus", element)
	}
	return err
}
