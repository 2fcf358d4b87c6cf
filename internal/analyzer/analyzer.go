// Package analyzer compares the reconstructed program against the
// level's canonical line sequence and reports the first structural
// mismatch. All results are values; nothing in here panics or throws.
package analyzer

import (
	"strings"

	"codeclash/internal/lang"
	"codeclash/internal/reconstruct"
)

// MismatchType classifies the first divergence.
type MismatchType string

const (
	MismatchMissing   MismatchType = "missing"
	MismatchExtra     MismatchType = "extra"
	MismatchMisplaced MismatchType = "misplaced"
)

// Mismatch describes the first point where the board diverges from
// the canonical program. A nil *Mismatch means the puzzle is solved.
type Mismatch struct {
	Type  MismatchType
	Index int
	// ExpectedIndex is the canonical line the walk was at; equal to
	// len(canonical) for extra lines.
	ExpectedIndex  int
	ExpectedLine   string
	ActualLine     string
	ActualBlockIDs []int
}

// Normalize collapses whitespace runs and trims; both sequences are
// normalized this way before any comparison.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// MatchedLine records one verified lockstep match: the actual line at
// ActualIndex satisfied the canonical lines starting at CanonicalStart
// (Absorbed of them, 1 when nothing merged).
type MatchedLine struct {
	ActualIndex    int
	CanonicalStart int
	Absorbed       int
	BlockIDs       []int
}

// FirstMismatch walks the reconstructed and canonical sequences in
// lockstep. On a mismatch it first tries to absorb following canonical
// lines into the expected line wherever the language merge predicate
// says consecutive lines visually combine when correctly assembled;
// only if no absorbed combination matches is the divergence classified.
func FirstMismatch(rec reconstruct.Result, canonical []string, spec *lang.Spec) *Mismatch {
	_, mismatch := Align(rec, canonical, spec)
	return mismatch
}

// Align returns the verified matched prefix and the first mismatch,
// if any. The prefix is what the auto-fix engine anchors on: those
// blocks are correct in sequence, not merely by text.
func Align(rec reconstruct.Result, canonical []string, spec *lang.Spec) ([]MatchedLine, *Mismatch) {
	actual := rec.Lines

	var matched []MatchedLine
	e, a := 0, 0
	for e < len(canonical) && a < len(actual) {
		actualNorm := Normalize(actual[a].Text)
		expected := canonical[e]

		if Normalize(expected) == actualNorm {
			matched = append(matched, MatchedLine{
				ActualIndex:    a,
				CanonicalStart: e,
				Absorbed:       1,
				BlockIDs:       ownedBlocks(actual, a),
			})
			e++
			a++
			continue
		}

		if absorbed, ok := absorb(canonical, e, actualNorm, spec); ok {
			matched = append(matched, MatchedLine{
				ActualIndex:    a,
				CanonicalStart: e,
				Absorbed:       absorbed,
				BlockIDs:       ownedBlocks(actual, a),
			})
			e += absorbed
			a++
			continue
		}

		return matched, &Mismatch{
			Type:           MismatchMisplaced,
			Index:          a,
			ExpectedIndex:  e,
			ExpectedLine:   Normalize(expected),
			ActualLine:     actualNorm,
			ActualBlockIDs: ownedBlocks(actual, a),
		}
	}

	if e < len(canonical) {
		return matched, &Mismatch{
			Type:          MismatchMissing,
			Index:         e,
			ExpectedIndex: e,
			ExpectedLine:  Normalize(canonical[e]),
		}
	}
	if a < len(actual) {
		return matched, &Mismatch{
			Type:           MismatchExtra,
			Index:          a,
			ExpectedIndex:  e,
			ActualLine:     Normalize(actual[a].Text),
			ActualBlockIDs: ownedBlocks(actual, a),
		}
	}
	return matched, nil
}

// absorb tries merging canonical lines canonical[e], canonical[e+1], …
// for as long as the merge predicate allows, checking after every step
// whether the combination equals the actual line.
func absorb(canonical []string, e int, actualNorm string, spec *lang.Spec) (int, bool) {
	combined := canonical[e]
	for k := e + 1; k < len(canonical); k++ {
		if !spec.MergeNextLine(combined, canonical[k]) {
			break
		}
		combined += strings.TrimSpace(canonical[k])
		if Normalize(combined) == actualNorm {
			return k - e + 1, true
		}
	}
	return 0, false
}

func ownedBlocks(lines []reconstruct.Line, i int) []int {
	if i < 0 || i >= len(lines) {
		return nil
	}
	return append([]int(nil), lines[i].BlockIDs...)
}

// MergeRows groups canonical line indices into visual rows using the
// language merge predicate: each inner slice lists the canonical lines
// that sit side by side on one row when the puzzle is correctly
// assembled. The hint engine's target layout plan and the pattern
// generator's horizontal mating both derive from this.
func MergeRows(canonical []string, spec *lang.Spec) [][]int {
	var rows [][]int
	i := 0
	for i < len(canonical) {
		row := []int{i}
		combined := canonical[i]
		j := i + 1
		for j < len(canonical) && spec.MergeNextLine(combined, canonical[j]) {
			row = append(row, j)
			combined += strings.TrimSpace(canonical[j])
			j++
		}
		rows = append(rows, row)
		i = j
	}
	return rows
}
