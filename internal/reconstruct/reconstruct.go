// Package reconstruct linearizes the snapped blocks on the board into
// ordered source lines. The analyzer and the hint engine both rely on
// this being deterministic: the same blocks and graph always produce
// the same text and the same ownership map.
package reconstruct

import (
	"sort"
	"strings"

	"codeclash/internal/graph"
	"codeclash/internal/models"
)

// Line is one reconstructed source line and the blocks that formed it,
// left to right.
type Line struct {
	Text     string
	BlockIDs []int
}

// Result is the reconstructed program.
type Result struct {
	// Text joins all components, blank-line separated.
	Text string
	// Lines holds the content lines only, in order, with ownership.
	Lines []Line
}

// Ownership returns the line-index -> block-ids map.
func (r Result) Ownership() map[int][]int {
	own := make(map[int][]int, len(r.Lines))
	for i, line := range r.Lines {
		own[i] = line.BlockIDs
	}
	return own
}

// LineTexts returns just the reconstructed line strings.
func (r Result) LineTexts() []string {
	texts := make([]string, len(r.Lines))
	for i, line := range r.Lines {
		texts[i] = line.Text
	}
	return texts
}

// Reconstruct walks the connection graph and linearizes every snapped
// chain. Blocks with no connections at all are not part of the program
// and are dropped.
func Reconstruct(blocks []models.Block, g graph.Graph) Result {
	byID := make(map[int]models.Block, len(blocks))
	ids := make([]int, 0, len(blocks))
	for _, b := range blocks {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	components := g.Components(ids)

	// Only components with at least one internal edge count.
	var snapped [][]int
	for _, comp := range components {
		if len(comp) > 1 {
			snapped = append(snapped, comp)
		}
	}

	// Reading order: topmost, then leftmost block of each component.
	sort.SliceStable(snapped, func(i, j int) bool {
		a, b := anchorPos(snapped[i], byID), anchorPos(snapped[j], byID)
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return snapped[i][0] < snapped[j][0]
	})

	var result Result
	var parts []string
	for _, comp := range snapped {
		lines := linearize(comp, byID, g)
		var texts []string
		for _, line := range lines {
			result.Lines = append(result.Lines, line)
			texts = append(texts, line.Text)
		}
		parts = append(parts, strings.Join(texts, "\n"))
	}
	result.Text = strings.Join(parts, "\n\n")
	return result
}

// anchorPos is the top-left-most block position in a component.
func anchorPos(comp []int, byID map[int]models.Block) models.Point {
	best := byID[comp[0]].Pos()
	for _, id := range comp[1:] {
		p := byID[id].Pos()
		if p.Y < best.Y || (p.Y == best.Y && p.X < best.X) {
			best = p
		}
	}
	return best
}

// linearize orders one component's blocks into lines: start blocks
// seed horizontal runs, each run's bottom neighbors seed the next
// round, breadth-first, visiting every block at most once.
func linearize(comp []int, byID map[int]models.Block, g graph.Graph) []Line {
	inComp := make(map[int]bool, len(comp))
	for _, id := range comp {
		inComp[id] = true
	}

	queue := startBlocks(comp, byID, g)
	visited := make(map[int]bool, len(comp))
	var lines []Line

	for len(queue) > 0 {
		seed := queue[0]
		queue = queue[1:]
		if visited[seed] {
			continue
		}

		run := horizontalRun(seed, g, visited)
		lines = append(lines, buildLine(run, byID, g))

		// Bottom neighbors of the whole run, deduplicated, ordered by
		// position, seed the next round.
		var next []int
		seen := make(map[int]bool)
		for _, id := range run {
			if n, ok := g.Neighbor(id, models.SideBottom); ok && inComp[n] && !visited[n] && !seen[n] {
				seen[n] = true
				next = append(next, n)
			}
		}
		sortByPosition(next, byID)
		queue = append(queue, next...)
	}

	// Anything unreached (odd topologies with only upward links) is
	// emitted as its own line.
	var leftovers []int
	for _, id := range comp {
		if !visited[id] {
			leftovers = append(leftovers, id)
		}
	}
	sortByPosition(leftovers, byID)
	for _, id := range leftovers {
		visited[id] = true
		lines = append(lines, buildLine([]int{id}, byID, g))
	}

	return lines
}

// startBlocks finds the blocks with neither a top nor a left neighbor.
// If a cycle leaves none, the topmost-then-leftmost block starts.
func startBlocks(comp []int, byID map[int]models.Block, g graph.Graph) []int {
	var starts []int
	for _, id := range comp {
		if _, hasTop := g.Neighbor(id, models.SideTop); hasTop {
			continue
		}
		if _, hasLeft := g.Neighbor(id, models.SideLeft); hasLeft {
			continue
		}
		starts = append(starts, id)
	}
	if len(starts) == 0 {
		starts = []int{comp[0]}
		for _, id := range comp[1:] {
			a, b := byID[id], byID[starts[0]]
			if a.Y < b.Y || (a.Y == b.Y && a.X < b.X) {
				starts[0] = id
			}
		}
	}
	sortByPosition(starts, byID)
	return starts
}

// horizontalRun follows right-neighbors from the seed, marking blocks
// visited. A block already claimed by an earlier run ends the walk.
func horizontalRun(seed int, g graph.Graph, visited map[int]bool) []int {
	var run []int
	for id := seed; ; {
		visited[id] = true
		run = append(run, id)
		next, ok := g.Neighbor(id, models.SideRight)
		if !ok || visited[next] {
			break
		}
		id = next
	}
	return run
}

// buildLine concatenates a run's texts: no separator across a
// left/right connection, a single space otherwise.
func buildLine(run []int, byID map[int]models.Block, g graph.Graph) Line {
	var sb strings.Builder
	for i, id := range run {
		if i > 0 {
			if prev, ok := g.Neighbor(id, models.SideLeft); !ok || prev != run[i-1] {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(byID[id].Text)
	}
	return Line{Text: sb.String(), BlockIDs: append([]int(nil), run...)}
}

func sortByPosition(ids []int, byID map[int]models.Block) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := byID[ids[i]], byID[ids[j]]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return ids[i] < ids[j]
	})
}
