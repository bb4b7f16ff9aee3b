// Package cooccur implements the sparse co-occurrence accumulator behind
// idiomine's association mining.
//
// The accumulator ingests repeated observations of paired element sets (a
// "row" set and a "column" set seen together) and maintains the marginal and
// joint counts needed to derive pointwise mutual information and lift
// between row-type and column-type elements.
//
// It is not safe for concurrent use. Callers that mutate and query from
// multiple goroutines must serialize access externally; there is exactly one
// writer by contract and no internal locking.
package cooccur

import (
	"errors"
	"math"
	"sort"
)

// Sentinel errors for contract violations on query operations.
var (
	// ErrUnknownRow indicates a mutual-information query for a row element
	// that has never been ingested (zero marginal count).
	ErrUnknownRow = errors.New("cooccur: row element has zero marginal count")

	// ErrUnknownColumn indicates a mutual-information query for a column
	// element that has never been ingested (zero marginal count).
	ErrUnknownColumn = errors.New("cooccur: column element has zero marginal count")
)

// Accumulator maintains marginal counts, a sparse joint count table, and the
// running total of joint observations for two element domains R and C.
//
// The joint table is kept in both row-major and column-major orientation so
// that row-anchored and column-anchored queries never scan the full table.
// Counts only grow, except through Prune, which removes joint cells and
// never touches marginals or the running total.
type Accumulator[R comparable, C comparable] struct {
	rowCounts    map[R]int64
	columnCounts map[C]int64

	// totalRows is the sum of all row marginal counts; totalColumns likewise
	// for columns.
	totalRows    int64
	totalColumns int64

	// joint is row-major, transpose is its column-major mirror. Both always
	// hold the same cells.
	joint     map[R]map[C]int64
	transpose map[C]map[R]int64

	// totalCooccurrences accumulates |rowSet| * |columnSet| per ingestion
	// and is deliberately not reduced by Prune.
	totalCooccurrences int64

	rowHash    func(R) uint64
	columnHash func(C) uint64
}

// New creates an empty accumulator. The hash functions supply the
// deterministic per-element hashes used for rank tie-breaking; they must be
// stable across process runs if rankings are to be reproducible.
func New[R comparable, C comparable](rowHash func(R) uint64, columnHash func(C) uint64) *Accumulator[R, C] {
	return &Accumulator[R, C]{
		rowCounts:    make(map[R]int64),
		columnCounts: make(map[C]int64),
		joint:        make(map[R]map[C]int64),
		transpose:    make(map[C]map[R]int64),
		rowHash:      rowHash,
		columnHash:   columnHash,
	}
}

// Add ingests one observation: every element of rowSet gains one marginal
// count, every element of columnSet gains one marginal count, and every pair
// in the cross product rowSet x columnSet gains one joint count. The running
// co-occurrence total grows by |rowSet| * |columnSet|.
//
// Either set may be empty, in which case the cross product is empty and only
// the other side's marginals are updated. Add is not idempotent.
func (a *Accumulator[R, C]) Add(rowSet Set[R], columnSet Set[C]) {
	for r := range rowSet {
		a.rowCounts[r]++
		a.totalRows++
	}
	for c := range columnSet {
		a.columnCounts[c]++
		a.totalColumns++
	}

	for r := range rowSet {
		for c := range columnSet {
			cols := a.joint[r]
			if cols == nil {
				cols = make(map[C]int64)
				a.joint[r] = cols
			}
			cols[c]++

			rows := a.transpose[c]
			if rows == nil {
				rows = make(map[R]int64)
				a.transpose[c] = rows
			}
			rows[r]++
		}
	}

	a.totalCooccurrences += int64(len(rowSet)) * int64(len(columnSet))
}

// logProb returns log(count/total), treating a zero count as probability
// zero (log 0 = -Inf) regardless of the total. A positive count implies a
// positive total, so the division is never 0/0.
func logProb(count, total int64) float64 {
	if count == 0 {
		return math.Inf(-1)
	}
	return math.Log(float64(count) / float64(total))
}

// LogLift returns the pointwise log-lift of (row, column):
//
//	log P(row,column) - log P(column) - log P(row)
//
// It is defined for arbitrary arguments, including elements never observed:
// a zero probability contributes log(0) = -Inf, so a pair with no joint
// entry yields -Inf. When a marginal is also zero the infinities cancel and
// the result is NaN; both outcomes are meaningful statistical results, not
// errors, and are returned rather than raised.
func (a *Accumulator[R, C]) LogLift(row R, column C) float64 {
	var jointCount int64
	if cols, ok := a.joint[row]; ok {
		jointCount = cols[column]
	}

	return logProb(jointCount, a.totalCooccurrences) -
		logProb(a.columnCounts[column], a.totalColumns) -
		logProb(a.rowCounts[row], a.totalRows)
}

// ColumnMutualInformationFor returns, for every column jointly observed with
// row, the log ratio of the joint probability to the product of the two
// marginal probabilities. Columns absent from the result have zero joint
// probability by convention; the order of the result is unspecified.
//
// Returns ErrUnknownRow if row has a zero marginal count. A row with a
// marginal count but no surviving joint entries (e.g. after pruning) yields
// an empty slice and no error.
func (a *Accumulator[R, C]) ColumnMutualInformationFor(row R) ([]MutualInformation[C], error) {
	rowCount := a.rowCounts[row]
	if rowCount == 0 {
		return nil, ErrUnknownRow
	}

	rowLogProb := math.Log(float64(rowCount)) - math.Log(float64(a.totalRows))

	cols := a.joint[row]
	if len(cols) == 0 {
		return []MutualInformation[C]{}, nil
	}

	logTotal := math.Log(float64(a.totalCooccurrences))
	result := make([]MutualInformation[C], 0, len(cols))
	for c, n := range cols {
		jointLogProb := math.Log(float64(n)) - logTotal
		colLogProb := math.Log(float64(a.columnCounts[c])) - math.Log(float64(a.totalColumns))
		result = append(result, NewMutualInformation(c, jointLogProb-rowLogProb-colLogProb))
	}

	return result, nil
}

// RowMutualInformationFor is the column-anchored mirror of
// ColumnMutualInformationFor: for every row jointly observed with column it
// returns a log-probability ratio.
//
// The subtracted row term is deliberately not the per-partner row marginal
// but a constant zero marginal per call, so every returned ratio is +Inf.
// Divergence from the column-anchored derivation is intentional and pinned
// by tests; callers that need symmetric scores should anchor on the row
// side instead.
//
// Returns ErrUnknownColumn if column has a zero marginal count.
func (a *Accumulator[R, C]) RowMutualInformationFor(column C) ([]MutualInformation[R], error) {
	columnCount := a.columnCounts[column]
	if columnCount == 0 {
		return nil, ErrUnknownColumn
	}

	columnLogProb := math.Log(float64(columnCount)) - math.Log(float64(a.totalColumns))
	rowLogProb := math.Log(0) - math.Log(float64(a.totalRows))

	rows := a.transpose[column]
	if len(rows) == 0 {
		return []MutualInformation[R]{}, nil
	}

	logTotal := math.Log(float64(a.totalCooccurrences))
	result := make([]MutualInformation[R], 0, len(rows))
	for r, n := range rows {
		jointLogProb := math.Log(float64(n)) - logTotal
		result = append(result, NewMutualInformation(r, jointLogProb-columnLogProb-rowLogProb))
	}

	return result, nil
}

// CooccurringForColumn returns one Lift record per row jointly observed with
// column, ordered by descending lift with the hash tie-break chain described
// on Lift. The result is empty if column has no joint entries.
func (a *Accumulator[R, C]) CooccurringForColumn(column C) []Lift[R, C] {
	rows := a.transpose[column]
	result := make([]Lift[R, C], 0, len(rows))
	if len(rows) == 0 {
		return result
	}

	columnLogProb := logProb(a.columnCounts[column], a.totalColumns)
	for r, n := range rows {
		lift := logProb(n, a.totalCooccurrences) -
			logProb(a.rowCounts[r], a.totalRows) -
			columnLogProb
		result = append(result, Lift[R, C]{Row: r, Column: column, Lift: lift, Count: n})
	}

	a.sortLifts(result)
	return result
}

// CooccurringForRow is the row-anchored mirror of CooccurringForColumn: one
// Lift record per column jointly observed with row, same ordering.
func (a *Accumulator[R, C]) CooccurringForRow(row R) []Lift[R, C] {
	cols := a.joint[row]
	result := make([]Lift[R, C], 0, len(cols))
	if len(cols) == 0 {
		return result
	}

	rowLogProb := logProb(a.rowCounts[row], a.totalRows)
	for c, n := range cols {
		lift := logProb(n, a.totalCooccurrences) -
			logProb(a.columnCounts[c], a.totalColumns) -
			rowLogProb
		result = append(result, Lift[R, C]{Row: row, Column: c, Lift: lift, Count: n})
	}

	a.sortLifts(result)
	return result
}

// sortLifts orders records by lift descending, then row hash ascending,
// then the record's own column hash against its own row hash. The last leg
// compares fields of a single record, so it only distinguishes entries
// under row-hash collisions.
func (a *Accumulator[R, C]) sortLifts(lifts []Lift[R, C]) {
	sort.SliceStable(lifts, func(i, j int) bool {
		return a.compareLifts(lifts[i], lifts[j]) < 0
	})
}

func (a *Accumulator[R, C]) compareLifts(x, y Lift[R, C]) int {
	switch {
	case x.Lift > y.Lift:
		return -1
	case x.Lift < y.Lift:
		return 1
	}

	xRow, yRow := a.rowHash(x.Row), a.rowHash(y.Row)
	switch {
	case xRow < yRow:
		return -1
	case xRow > yRow:
		return 1
	}

	xCol := a.columnHash(x.Column)
	switch {
	case xCol < xRow:
		return -1
	case xCol > xRow:
		return 1
	}
	return 0
}

// RowCount pairs a row element with its marginal count.
type RowCount[R comparable] struct {
	Element R
	Count   int64
}

// MostPopularRows returns all row elements ordered by descending marginal
// count. Ties are broken by ascending row hash, which makes the order
// deterministic but otherwise arbitrary. The result is a snapshot.
func (a *Accumulator[R, C]) MostPopularRows() []RowCount[R] {
	result := make([]RowCount[R], 0, len(a.rowCounts))
	for r, n := range a.rowCounts {
		result = append(result, RowCount[R]{Element: r, Count: n})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return a.rowHash(result[i].Element) < a.rowHash(result[j].Element)
	})

	return result
}

// Prune removes every joint cell whose count is less than or equal to
// threshold. Marginal counts and the running co-occurrence total are left
// untouched, so after pruning the sum of surviving joint cells may be
// strictly less than TotalCooccurrences; pruned pairs behave as if they had
// never co-occurred (zero joint probability).
func (a *Accumulator[R, C]) Prune(threshold int64) {
	for r, cols := range a.joint {
		for c, n := range cols {
			if n > threshold {
				continue
			}
			delete(cols, c)
			rows := a.transpose[c]
			delete(rows, r)
			if len(rows) == 0 {
				delete(a.transpose, c)
			}
		}
		if len(cols) == 0 {
			delete(a.joint, r)
		}
	}
}

// JointCount returns the joint count for (row, column), zero if the pair
// has no cell.
func (a *Accumulator[R, C]) JointCount(row R, column C) int64 {
	return a.joint[row][column]
}

// RowCounts returns a snapshot copy of the row marginal counts.
func (a *Accumulator[R, C]) RowCounts() map[R]int64 {
	counts := make(map[R]int64, len(a.rowCounts))
	for r, n := range a.rowCounts {
		counts[r] = n
	}
	return counts
}

// ColumnCounts returns a snapshot copy of the column marginal counts.
func (a *Accumulator[R, C]) ColumnCounts() map[C]int64 {
	counts := make(map[C]int64, len(a.columnCounts))
	for c, n := range a.columnCounts {
		counts[c] = n
	}
	return counts
}

// RowValues returns all distinct observed row elements, in no particular
// order.
func (a *Accumulator[R, C]) RowValues() []R {
	values := make([]R, 0, len(a.rowCounts))
	for r := range a.rowCounts {
		values = append(values, r)
	}
	return values
}

// ColumnValues returns all distinct observed column elements, in no
// particular order.
func (a *Accumulator[R, C]) ColumnValues() []C {
	values := make([]C, 0, len(a.columnCounts))
	for c := range a.columnCounts {
		values = append(values, c)
	}
	return values
}

// TotalRowObservations returns the sum of all row marginal counts.
func (a *Accumulator[R, C]) TotalRowObservations() int64 { return a.totalRows }

// TotalColumnObservations returns the sum of all column marginal counts.
func (a *Accumulator[R, C]) TotalColumnObservations() int64 { return a.totalColumns }

// TotalCooccurrences returns the running sum of |rowSet| * |columnSet| over
// all ingestions, unaffected by pruning.
func (a *Accumulator[R, C]) TotalCooccurrences() int64 { return a.totalCooccurrences }

// JointCells invokes fn for every cell of the joint table, in no particular
// order. Used by the persistence layer; fn must not mutate the accumulator.
func (a *Accumulator[R, C]) JointCells(fn func(row R, column C, count int64)) {
	for r, cols := range a.joint {
		for c, n := range cols {
			fn(r, c, n)
		}
	}
}
