// Package analyzer derives ranked association reports from a co-occurrence
// accumulator. It is the read side of the pipeline: the extractor produces
// observations, the accumulator counts them, and the analyzer turns the
// counts into the tables the CLI renders.
package analyzer

import (
	"github.com/blackwell-systems/idiomine/internal/cooccur"
	"github.com/blackwell-systems/idiomine/internal/extract"
)

// Association tier thresholds. A pair needs both a positive lift and
// non-trivial support before it is worth showing a user.
const (
	// MinStrongSupport is the joint count required for the "strong" tier.
	// Single co-occurrences are indistinguishable from coincidence.
	MinStrongSupport = 3

	// MinStrongLift is the log-lift required for the "strong" tier,
	// i.e. the pair appears at least e^0.5 (~1.65x) more often than
	// independence predicts.
	MinStrongLift = 0.5
)

// Analyzer wraps an accumulator with reporting-oriented queries.
type Analyzer struct {
	acc *cooccur.Accumulator[string, string]
}

// New creates an analyzer over the given accumulator. The analyzer reads
// the accumulator but never mutates it.
func New(acc *cooccur.Accumulator[string, string]) *Analyzer {
	return &Analyzer{acc: acc}
}

// Accumulator returns the underlying accumulator.
func (a *Analyzer) Accumulator() *cooccur.Accumulator[string, string] {
	return a.acc
}

// Ingest feeds extracted observations into the accumulator: one Add call
// per observation, patterns on the row side, identifiers on the column side.
// Returns the number of observations ingested.
func Ingest(acc *cooccur.Accumulator[string, string], observations []extract.Observation) int {
	for _, obs := range observations {
		acc.Add(obs.Patterns, obs.Identifiers)
	}
	return len(observations)
}

// Association is a Lift record classified into a display tier.
type Association struct {
	cooccur.Lift[string, string]
	Tier string // "strong", "weak", or "noise"
}

// classifyTier assigns a display tier from lift and support.
func classifyTier(lift float64, count int64) string {
	switch {
	case lift >= MinStrongLift && count >= MinStrongSupport:
		return "strong"
	case lift > 0:
		return "weak"
	default:
		return "noise"
	}
}

// RankForColumn returns the ranked associations for a column element,
// dropping pairs whose joint count is below minSupport. Order follows the
// accumulator's ranking (lift descending).
func (a *Analyzer) RankForColumn(column string, minSupport int64) []Association {
	return classify(a.acc.CooccurringForColumn(column), minSupport)
}

// RankForRow is the row-anchored mirror of RankForColumn.
func (a *Analyzer) RankForRow(row string, minSupport int64) []Association {
	return classify(a.acc.CooccurringForRow(row), minSupport)
}

func classify(lifts []cooccur.Lift[string, string], minSupport int64) []Association {
	result := make([]Association, 0, len(lifts))
	for _, l := range lifts {
		if l.Count < minSupport {
			continue
		}
		result = append(result, Association{Lift: l, Tier: classifyTier(l.Lift, l.Count)})
	}
	return result
}

// Stats summarizes the accumulator's sparse state.
type Stats struct {
	DistinctRows       int
	DistinctColumns    int
	RowObservations    int64
	ColumnObservations int64
	JointCells         int64
	Cooccurrences      int64
	// Density is surviving joint cells over the full row x column grid,
	// zero when either side is empty.
	Density float64
}

// Stats computes corpus-level statistics.
func (a *Analyzer) Stats() Stats {
	st := Stats{
		DistinctRows:       len(a.acc.RowValues()),
		DistinctColumns:    len(a.acc.ColumnValues()),
		RowObservations:    a.acc.TotalRowObservations(),
		ColumnObservations: a.acc.TotalColumnObservations(),
		Cooccurrences:      a.acc.TotalCooccurrences(),
	}
	a.acc.JointCells(func(string, string, int64) { st.JointCells++ })

	if st.DistinctRows > 0 && st.DistinctColumns > 0 {
		st.Density = float64(st.JointCells) / (float64(st.DistinctRows) * float64(st.DistinctColumns))
	}
	return st
}
