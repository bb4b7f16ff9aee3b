package cooccur

import "fmt"

// JointCell is one sparse cell of the joint table.
type JointCell[R comparable, C comparable] struct {
	Row    R
	Column C
	Count  int64
}

// State is the full serializable state of an accumulator: both marginal
// mappings, the joint sparse table, and the three running totals. A State
// written and reloaded as one unit preserves every accumulator invariant;
// persisting the pieces separately does not.
type State[R comparable, C comparable] struct {
	RowCounts               map[R]int64
	ColumnCounts            map[C]int64
	Joint                   []JointCell[R, C]
	TotalRowObservations    int64
	TotalColumnObservations int64
	TotalCooccurrences      int64
}

// State returns a snapshot of the accumulator's full state. The maps and
// slice are copies; mutating them does not affect the accumulator.
func (a *Accumulator[R, C]) State() State[R, C] {
	st := State[R, C]{
		RowCounts:               a.RowCounts(),
		ColumnCounts:            a.ColumnCounts(),
		TotalRowObservations:    a.totalRows,
		TotalColumnObservations: a.totalColumns,
		TotalCooccurrences:      a.totalCooccurrences,
	}
	a.JointCells(func(r R, c C, n int64) {
		st.Joint = append(st.Joint, JointCell[R, C]{Row: r, Column: c, Count: n})
	})
	return st
}

// FromState reconstructs an accumulator from a previously captured State,
// validating the invariants the state must satisfy: non-positive counts,
// marginal sums disagreeing with the stored totals, or a joint cell
// exceeding either of its marginals all fail. The co-occurrence total may
// exceed the sum of joint cells (pruning leaves it untouched) but may not
// be negative.
func FromState[R comparable, C comparable](st State[R, C], rowHash func(R) uint64, columnHash func(C) uint64) (*Accumulator[R, C], error) {
	acc := New[R, C](rowHash, columnHash)

	var rowSum int64
	for r, n := range st.RowCounts {
		if n <= 0 {
			return nil, fmt.Errorf("cooccur: row %v has non-positive count %d", r, n)
		}
		acc.rowCounts[r] = n
		rowSum += n
	}
	if rowSum != st.TotalRowObservations {
		return nil, fmt.Errorf("cooccur: row counts sum to %d, state claims %d", rowSum, st.TotalRowObservations)
	}

	var colSum int64
	for c, n := range st.ColumnCounts {
		if n <= 0 {
			return nil, fmt.Errorf("cooccur: column %v has non-positive count %d", c, n)
		}
		acc.columnCounts[c] = n
		colSum += n
	}
	if colSum != st.TotalColumnObservations {
		return nil, fmt.Errorf("cooccur: column counts sum to %d, state claims %d", colSum, st.TotalColumnObservations)
	}

	if st.TotalCooccurrences < 0 {
		return nil, fmt.Errorf("cooccur: negative co-occurrence total %d", st.TotalCooccurrences)
	}

	for _, cell := range st.Joint {
		if cell.Count <= 0 {
			return nil, fmt.Errorf("cooccur: joint cell (%v,%v) has non-positive count %d", cell.Row, cell.Column, cell.Count)
		}
		if cell.Count > acc.rowCounts[cell.Row] || cell.Count > acc.columnCounts[cell.Column] {
			return nil, fmt.Errorf("cooccur: joint cell (%v,%v)=%d exceeds a marginal count", cell.Row, cell.Column, cell.Count)
		}
		cols := acc.joint[cell.Row]
		if cols == nil {
			cols = make(map[C]int64)
			acc.joint[cell.Row] = cols
		}
		if _, dup := cols[cell.Column]; dup {
			return nil, fmt.Errorf("cooccur: duplicate joint cell (%v,%v)", cell.Row, cell.Column)
		}
		cols[cell.Column] = cell.Count

		rows := acc.transpose[cell.Column]
		if rows == nil {
			rows = make(map[R]int64)
			acc.transpose[cell.Column] = rows
		}
		rows[cell.Row] = cell.Count
	}

	acc.totalRows = st.TotalRowObservations
	acc.totalColumns = st.TotalColumnObservations
	acc.totalCooccurrences = st.TotalCooccurrences
	return acc, nil
}
