package cooccur

import (
	"fmt"
	"math"
)

// MutualInformation pairs an element with its log-probability ratio. It is
// an immutable value; two records are equal when both fields are equal.
type MutualInformation[T comparable] struct {
	Element T
	LogProb float64
}

// NewMutualInformation builds a MutualInformation record. A NaN
// log-probability is a contract violation and panics immediately; infinite
// values are valid (they encode zero probabilities).
func NewMutualInformation[T comparable](element T, logProb float64) MutualInformation[T] {
	if math.IsNaN(logProb) {
		panic("cooccur: mutual information log-probability must not be NaN")
	}
	return MutualInformation[T]{Element: element, LogProb: logProb}
}

// Lift records the log-lift of a (row, column) pair together with its raw
// joint count.
//
// Ranked lists order Lift records by lift descending, then by row hash
// ascending, then by the record's column hash compared against its row hash.
// Equality, by contrast, considers only the (Lift, Row, Column) triple: two
// records with the same pair and score are the same association regardless
// of the count snapshot they carry.
type Lift[R comparable, C comparable] struct {
	Row    R
	Column C
	Lift   float64
	Count  int64
}

// Equal reports whether l and other denote the same association:
// same row, same column, same lift value.
func (l Lift[R, C]) Equal(other Lift[R, C]) bool {
	return l.Lift == other.Lift && l.Row == other.Row && l.Column == other.Column
}

// String renders the record as "row,column:lift" with two decimals.
func (l Lift[R, C]) String() string {
	return fmt.Sprintf("%v,%v:%.2f", l.Row, l.Column, l.Lift)
}
