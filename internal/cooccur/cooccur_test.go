package cooccur

import (
	"errors"
	"math"
	"testing"

	"github.com/zeebo/xxh3"
)

const tolerance = 1e-9

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

// buildScenario ingests {A,B}x{X} then {A}x{X,Y}, the reference scenario
// used throughout these tests:
//
//	rowCounts    = {A:2, B:1}
//	columnCounts = {X:2, Y:1}
//	joint        = {(A,X):2, (B,X):1, (A,Y):1}
//	total        = 2*1 + 1*2 = 4
func buildScenario() *Accumulator[string, string] {
	acc := NewStrings()
	acc.Add(NewSet("A", "B"), NewSet("X"))
	acc.Add(NewSet("A"), NewSet("X", "Y"))
	return acc
}

func TestAddAccumulatesMarginalsAndJoint(t *testing.T) {
	acc := buildScenario()

	rows := acc.RowCounts()
	if rows["A"] != 2 || rows["B"] != 1 {
		t.Errorf("expected rowCounts {A:2, B:1}, got %v", rows)
	}
	cols := acc.ColumnCounts()
	if cols["X"] != 2 || cols["Y"] != 1 {
		t.Errorf("expected columnCounts {X:2, Y:1}, got %v", cols)
	}

	if n := acc.JointCount("A", "X"); n != 2 {
		t.Errorf("expected joint(A,X) 2, got %d", n)
	}
	if n := acc.JointCount("B", "X"); n != 1 {
		t.Errorf("expected joint(B,X) 1, got %d", n)
	}
	if n := acc.JointCount("A", "Y"); n != 1 {
		t.Errorf("expected joint(A,Y) 1, got %d", n)
	}
	if n := acc.JointCount("B", "Y"); n != 0 {
		t.Errorf("expected joint(B,Y) 0, got %d", n)
	}

	if total := acc.TotalCooccurrences(); total != 4 {
		t.Errorf("expected total co-occurrences 4 (2*1 + 1*2), got %d", total)
	}
	if total := acc.TotalRowObservations(); total != 3 {
		t.Errorf("expected total row observations 3, got %d", total)
	}
	if total := acc.TotalColumnObservations(); total != 3 {
		t.Errorf("expected total column observations 3, got %d", total)
	}
}

func TestAddEmptySetsDegenerateToMarginalUpdates(t *testing.T) {
	acc := NewStrings()
	acc.Add(NewSet("A"), NewSet[string]())
	acc.Add(NewSet[string](), NewSet("X"))

	if n := acc.RowCounts()["A"]; n != 1 {
		t.Errorf("expected rowCounts[A] 1, got %d", n)
	}
	if n := acc.ColumnCounts()["X"]; n != 1 {
		t.Errorf("expected columnCounts[X] 1, got %d", n)
	}
	if total := acc.TotalCooccurrences(); total != 0 {
		t.Errorf("expected total co-occurrences 0, got %d", total)
	}
	if n := acc.JointCount("A", "X"); n != 0 {
		t.Errorf("expected no joint cell, got count %d", n)
	}
}

func TestMarginalConsistency(t *testing.T) {
	acc := NewStrings()
	acc.Add(NewSet("a", "b", "c"), NewSet("x", "y"))
	acc.Add(NewSet("b"), NewSet("y", "z"))
	acc.Add(NewSet("a", "c"), NewSet[string]())
	acc.Add(NewSet("d"), NewSet("x"))

	var rowSum int64
	for _, n := range acc.RowCounts() {
		rowSum += n
	}
	if rowSum != acc.TotalRowObservations() {
		t.Errorf("row marginal sum %d != total row observations %d", rowSum, acc.TotalRowObservations())
	}

	var colSum int64
	for _, n := range acc.ColumnCounts() {
		colSum += n
	}
	if colSum != acc.TotalColumnObservations() {
		t.Errorf("column marginal sum %d != total column observations %d", colSum, acc.TotalColumnObservations())
	}
}

func TestJointBound(t *testing.T) {
	acc := NewStrings()
	acc.Add(NewSet("a", "b"), NewSet("x", "y"))
	acc.Add(NewSet("a"), NewSet("x"))
	acc.Add(NewSet("b", "c"), NewSet("y"))

	rows := acc.RowCounts()
	cols := acc.ColumnCounts()
	acc.JointCells(func(r, c string, n int64) {
		if n > rows[r] {
			t.Errorf("joint(%s,%s)=%d exceeds row marginal %d", r, c, n, rows[r])
		}
		if n > cols[c] {
			t.Errorf("joint(%s,%s)=%d exceeds column marginal %d", r, c, n, cols[c])
		}
	})
}

func TestLogLift(t *testing.T) {
	acc := buildScenario()

	// P(A,X)=2/4, P(A)=2/3, P(X)=2/3.
	want := math.Log(2.0/4.0) - math.Log(2.0/3.0) - math.Log(2.0/3.0)
	got := acc.LogLift("A", "X")
	if !closeEnough(got, want) {
		t.Errorf("expected logLift(A,X) %v, got %v", want, got)
	}
}

func TestLogLiftAbsentPairIsNegativeInfinity(t *testing.T) {
	acc := buildScenario()

	// B and Y both have marginals but never co-occurred.
	got := acc.LogLift("B", "Y")
	if !math.IsInf(got, -1) {
		t.Errorf("expected -Inf for absent pair, got %v", got)
	}
}

func TestLogLiftSurvivesUnknownElements(t *testing.T) {
	acc := buildScenario()

	// Zero marginals on both sides cancel the joint infinity; the result is
	// NaN, returned rather than raised.
	got := acc.LogLift("nope", "nada")
	if !math.IsNaN(got) {
		t.Errorf("expected NaN for fully unknown pair, got %v", got)
	}
}

func TestColumnMutualInformation(t *testing.T) {
	acc := buildScenario()

	mi, err := acc.ColumnMutualInformationFor("A")
	if err != nil {
		t.Fatalf("ColumnMutualInformationFor failed: %v", err)
	}
	if len(mi) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(mi))
	}

	want := map[string]float64{
		"X": math.Log(2.0/4.0) - math.Log(2.0/3.0) - math.Log(2.0/3.0),
		"Y": math.Log(1.0/4.0) - math.Log(2.0/3.0) - math.Log(1.0/3.0),
	}
	for _, entry := range mi {
		expected, ok := want[entry.Element]
		if !ok {
			t.Errorf("unexpected element %q in result", entry.Element)
			continue
		}
		if !closeEnough(entry.LogProb, expected) {
			t.Errorf("element %q: expected %v, got %v", entry.Element, expected, entry.LogProb)
		}
	}
}

func TestColumnMutualInformationUnknownRow(t *testing.T) {
	acc := buildScenario()

	_, err := acc.ColumnMutualInformationFor("nope")
	if !errors.Is(err, ErrUnknownRow) {
		t.Errorf("expected ErrUnknownRow, got %v", err)
	}
}

func TestColumnMutualInformationRowWithoutJointEntries(t *testing.T) {
	acc := NewStrings()
	acc.Add(NewSet("lonely"), NewSet[string]())

	mi, err := acc.ColumnMutualInformationFor("lonely")
	if err != nil {
		t.Fatalf("expected no error for observed row without joint entries, got %v", err)
	}
	if len(mi) != 0 {
		t.Errorf("expected empty result, got %v", mi)
	}
}

// The column-anchored derivation subtracts a constant zero row marginal per
// call (see RowMutualInformationFor), so every ratio comes out +Inf. This is
// deliberately divergent from ColumnMutualInformationFor.
func TestRowMutualInformationReproducesConstantRowTerm(t *testing.T) {
	acc := buildScenario()

	mi, err := acc.RowMutualInformationFor("X")
	if err != nil {
		t.Fatalf("RowMutualInformationFor failed: %v", err)
	}
	if len(mi) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(mi))
	}
	seen := map[string]bool{}
	for _, entry := range mi {
		seen[entry.Element] = true
		if !math.IsInf(entry.LogProb, 1) {
			t.Errorf("element %q: expected +Inf ratio, got %v", entry.Element, entry.LogProb)
		}
	}
	if !seen["A"] || !seen["B"] {
		t.Errorf("expected elements A and B, got %v", mi)
	}
}

func TestRowMutualInformationUnknownColumn(t *testing.T) {
	acc := buildScenario()

	_, err := acc.RowMutualInformationFor("nope")
	if !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("expected ErrUnknownColumn, got %v", err)
	}
}

func TestCooccurringForColumnRankedByLift(t *testing.T) {
	acc := NewStrings()
	// Make "rare" strongly associated with x and "common" weakly associated.
	acc.Add(NewSet("rare"), NewSet("x"))
	acc.Add(NewSet("common"), NewSet("x"))
	acc.Add(NewSet("common"), NewSet("y"))
	acc.Add(NewSet("common"), NewSet("y"))

	lifts := acc.CooccurringForColumn("x")
	if len(lifts) != 2 {
		t.Fatalf("expected 2 records, got %d", len(lifts))
	}
	for i := 1; i < len(lifts); i++ {
		if lifts[i-1].Lift < lifts[i].Lift {
			t.Errorf("records not sorted by descending lift: %v before %v", lifts[i-1], lifts[i])
		}
	}
	if lifts[0].Row != "rare" {
		t.Errorf("expected rare first, got %v", lifts[0])
	}
	if lifts[0].Column != "x" || lifts[1].Column != "x" {
		t.Errorf("expected column x on all records, got %v", lifts)
	}
	if lifts[0].Count != 1 {
		t.Errorf("expected count 1 on top record, got %d", lifts[0].Count)
	}
}

func TestCooccurringTieBreakByRowHash(t *testing.T) {
	acc := NewStrings()
	// Symmetric marginals give both rows identical lift; order then falls
	// to the ascending row hash.
	acc.Add(NewSet("a"), NewSet("x"))
	acc.Add(NewSet("b"), NewSet("x"))

	lifts := acc.CooccurringForColumn("x")
	if len(lifts) != 2 {
		t.Fatalf("expected 2 records, got %d", len(lifts))
	}
	if !closeEnough(lifts[0].Lift, lifts[1].Lift) {
		t.Fatalf("expected equal lifts, got %v and %v", lifts[0].Lift, lifts[1].Lift)
	}

	first, second := lifts[0].Row, lifts[1].Row
	if xxh3.HashString(first) > xxh3.HashString(second) {
		t.Errorf("tie not broken by ascending row hash: %q before %q", first, second)
	}
}

func TestCooccurringForColumnEmpty(t *testing.T) {
	acc := buildScenario()

	if lifts := acc.CooccurringForColumn("nope"); len(lifts) != 0 {
		t.Errorf("expected empty result for unknown column, got %v", lifts)
	}
}

func TestRowAndColumnAnchoredLiftsAgree(t *testing.T) {
	acc := NewStrings()
	acc.Add(NewSet("a", "b"), NewSet("x", "y"))
	acc.Add(NewSet("a"), NewSet("x"))
	acc.Add(NewSet("b", "c"), NewSet("y", "z"))

	for _, row := range acc.RowValues() {
		byRow := map[string]float64{}
		for _, l := range acc.CooccurringForRow(row) {
			byRow[l.Column] = l.Lift
		}
		for column, lift := range byRow {
			var fromColumn *Lift[string, string]
			for _, l := range acc.CooccurringForColumn(column) {
				if l.Row == row {
					cp := l
					fromColumn = &cp
					break
				}
			}
			if fromColumn == nil {
				t.Errorf("pair (%s,%s) missing from column-anchored list", row, column)
				continue
			}
			if !closeEnough(lift, fromColumn.Lift) {
				t.Errorf("pair (%s,%s): row-anchored lift %v != column-anchored %v",
					row, column, lift, fromColumn.Lift)
			}
			if !closeEnough(lift, acc.LogLift(row, column)) {
				t.Errorf("pair (%s,%s): ranked lift %v != LogLift %v",
					row, column, lift, acc.LogLift(row, column))
			}
		}
	}
}

func TestMostPopularRows(t *testing.T) {
	acc := buildScenario()

	popular := acc.MostPopularRows()
	if len(popular) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(popular))
	}
	if popular[0].Element != "A" || popular[0].Count != 2 {
		t.Errorf("expected A:2 first, got %v", popular[0])
	}
	if popular[1].Element != "B" || popular[1].Count != 1 {
		t.Errorf("expected B:1 second, got %v", popular[1])
	}
}

func TestPruneRemovesLowSupportCells(t *testing.T) {
	acc := buildScenario()

	acc.Prune(1)

	if n := acc.JointCount("A", "X"); n != 2 {
		t.Errorf("expected joint(A,X) to survive with count 2, got %d", n)
	}
	if n := acc.JointCount("B", "X"); n != 0 {
		t.Errorf("expected joint(B,X) pruned, got %d", n)
	}
	if n := acc.JointCount("A", "Y"); n != 0 {
		t.Errorf("expected joint(A,Y) pruned, got %d", n)
	}

	// Marginals and the running total are untouched.
	if n := acc.RowCounts()["B"]; n != 1 {
		t.Errorf("expected rowCounts[B] unchanged at 1, got %d", n)
	}
	if total := acc.TotalCooccurrences(); total != 4 {
		t.Errorf("expected total co-occurrences unchanged at 4, got %d", total)
	}

	// Pruned pairs behave as never co-occurred.
	if got := acc.LogLift("B", "X"); !math.IsInf(got, -1) {
		t.Errorf("expected -Inf for pruned pair, got %v", got)
	}

	// Both traversal directions dropped the cells.
	if lifts := acc.CooccurringForColumn("Y"); len(lifts) != 0 {
		t.Errorf("expected no column-anchored records for Y after prune, got %v", lifts)
	}
	if lifts := acc.CooccurringForRow("B"); len(lifts) != 0 {
		t.Errorf("expected no row-anchored records for B after prune, got %v", lifts)
	}
}

func TestPruneZeroIsNoOp(t *testing.T) {
	acc := buildScenario()

	acc.Prune(0)

	var cells int
	acc.JointCells(func(string, string, int64) { cells++ })
	if cells != 3 {
		t.Errorf("expected all 3 cells to survive prune(0), got %d", cells)
	}
}

func TestPruneMonotonicity(t *testing.T) {
	acc := NewStrings()
	acc.Add(NewSet("a", "b", "c"), NewSet("x", "y"))
	acc.Add(NewSet("a", "b"), NewSet("x"))
	acc.Add(NewSet("a"), NewSet("x"))

	acc.Prune(2)

	acc.JointCells(func(r, c string, n int64) {
		if n <= 2 {
			t.Errorf("cell (%s,%s)=%d survived prune(2)", r, c, n)
		}
	})
}
