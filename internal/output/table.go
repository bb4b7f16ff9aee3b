// Package output renders idiomine's terminal tables.
//
// All rendering uses ASCII layout with optional ANSI colors; color is
// enabled only when stdout is a TTY and NO_COLOR is unset.
package output

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/idiomine/internal/analyzer"
	"github.com/blackwell-systems/idiomine/internal/store"
)

// ANSI color codes for association tier display
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderAssociationTable renders ranked associations for one anchor
// element. Rows are expected pre-sorted by the analyzer (lift descending).
func RenderAssociationTable(anchor string, associations []analyzer.Association) string {
	if len(associations) == 0 {
		return fmt.Sprintf("No associations found for %q.\n", anchor)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-28s %-28s %-9s %-8s %s\n",
		"Pattern", "Identifier", "Lift", "Count", "Tier"))
	sb.WriteString(strings.Repeat("-", 84))
	sb.WriteString("\n")

	for _, assoc := range associations {
		sb.WriteString(fmt.Sprintf("%-28s %-28s %-9s %-8s %s\n",
			truncate(assoc.Row, 28),
			truncate(assoc.Column, 28),
			formatLift(assoc.Lift.Lift),
			humanize.Comma(assoc.Count),
			colorize(tierColor(assoc.Tier), assoc.Tier)))
	}

	return sb.String()
}

// MutualInformationRow is one rendered mutual-information entry.
type MutualInformationRow struct {
	Element string
	LogProb float64
}

// RenderMutualInformationTable renders (element, log-probability-ratio)
// pairs for one anchor element.
func RenderMutualInformationTable(anchor string, rows []MutualInformationRow) string {
	if len(rows) == 0 {
		return fmt.Sprintf("No joint entries for %q.\n", anchor)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-36s %s\n", "Element", "Log ratio"))
	sb.WriteString(strings.Repeat("-", 48))
	sb.WriteString("\n")

	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%-36s %s\n",
			truncate(row.Element, 36),
			formatLift(row.LogProb)))
	}

	return sb.String()
}

// PopularRow is one rendered popular-element entry.
type PopularRow struct {
	Element string
	Count   int64
}

// RenderPopularTable renders elements by descending marginal count.
func RenderPopularTable(rows []PopularRow) string {
	if len(rows) == 0 {
		return "No elements observed.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-36s %s\n", "Element", "Count"))
	sb.WriteString(strings.Repeat("-", 48))
	sb.WriteString("\n")

	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%-36s %s\n",
			truncate(row.Element, 36),
			humanize.Comma(row.Count)))
	}

	return sb.String()
}

// RenderSnapshotTable renders snapshot metadata, preserving the order the
// store returned (newest first).
func RenderSnapshotTable(snapshots []*store.Snapshot) string {
	if len(snapshots) == 0 {
		return "No snapshots found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-38s %-17s %-14s %s\n",
		"ID", "Created", "Co-occurrences", "Reason"))
	sb.WriteString(strings.Repeat("-", 92))
	sb.WriteString("\n")

	for _, snap := range snapshots {
		sb.WriteString(fmt.Sprintf("%-38s %-17s %-14s %s\n",
			snap.ID,
			formatRelativeTime(snap.CreatedAt),
			humanize.Comma(snap.TotalCooccurrences),
			truncate(snap.Reason, 40)))
	}

	return sb.String()
}

// RenderStats renders corpus-level statistics as a key/value block.
func RenderStats(st analyzer.Stats) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Patterns (rows):        %s\n", humanize.Comma(int64(st.DistinctRows))))
	sb.WriteString(fmt.Sprintf("Identifiers (columns):  %s\n", humanize.Comma(int64(st.DistinctColumns))))
	sb.WriteString(fmt.Sprintf("Row observations:       %s\n", humanize.Comma(st.RowObservations)))
	sb.WriteString(fmt.Sprintf("Column observations:    %s\n", humanize.Comma(st.ColumnObservations)))
	sb.WriteString(fmt.Sprintf("Joint cells:            %s\n", humanize.Comma(st.JointCells)))
	sb.WriteString(fmt.Sprintf("Co-occurrences:         %s\n", humanize.Comma(st.Cooccurrences)))
	sb.WriteString(fmt.Sprintf("Density:                %.4f\n", st.Density))

	return sb.String()
}

// formatLift renders a lift or log-ratio value, keeping infinities compact.
func formatLift(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "n/a"
	default:
		return fmt.Sprintf("%+.3f", v)
	}
}

// formatRelativeTime converts a timestamp to relative time (e.g. "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	case diff < 30*24*time.Hour:
		return plural(int(diff.Hours()/24/7), "week")
	case diff < 365*24*time.Hour:
		return plural(int(diff.Hours()/24/30), "month")
	default:
		return plural(int(diff.Hours()/24/365), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// tierColor returns the ANSI color code for an association tier.
func tierColor(tier string) string {
	switch strings.ToLower(tier) {
	case "strong":
		return colorGreen
	case "weak":
		return colorYellow
	default:
		return colorGray
	}
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
