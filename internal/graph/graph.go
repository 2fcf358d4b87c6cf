// Package graph holds the snapped-together topology of the puzzle
// board: which block is attached to which, on which side.
package graph

import (
	"sort"

	"codeclash/internal/models"
)

// Graph maps block id -> side -> neighbor block id. A block has at
// most one neighbor per side, and every edge is stored from both ends:
// if g[a][s] = b then g[b][opposite(s)] = a. All mutating methods
// return a new Graph, leaving the receiver untouched, so observers
// always see a consistent snapshot.
type Graph map[int]map[models.Side]int

// New returns an empty graph.
func New() Graph {
	return Graph{}
}

// Neighbor returns the block attached on the given side, if any.
func (g Graph) Neighbor(id int, side models.Side) (int, bool) {
	sides, ok := g[id]
	if !ok {
		return 0, false
	}
	n, ok := sides[side]
	return n, ok
}

// Degree returns the number of attached neighbors of a block.
func (g Graph) Degree(id int) int {
	return len(g[id])
}

// Connected reports whether a and b share an edge on any side.
func (g Graph) Connected(a, b int) bool {
	for _, n := range g[a] {
		if n == b {
			return true
		}
	}
	return false
}

func (g Graph) clone() Graph {
	out := make(Graph, len(g))
	for id, sides := range g {
		cp := make(map[models.Side]int, len(sides))
		for s, n := range sides {
			cp[s] = n
		}
		out[id] = cp
	}
	return out
}

func (g Graph) set(id int, side models.Side, neighbor int) {
	sides, ok := g[id]
	if !ok {
		sides = make(map[models.Side]int, 2)
		g[id] = sides
	}
	sides[side] = neighbor
}

func (g Graph) unset(id int, side models.Side) {
	sides, ok := g[id]
	if !ok {
		return
	}
	delete(sides, side)
	if len(sides) == 0 {
		delete(g, id)
	}
}

// Connect attaches b to a's given side, updating both ends atomically.
// Any previous occupant of either socket is detached first so the
// one-neighbor-per-side invariant holds.
func (g Graph) Connect(a int, side models.Side, b int) Graph {
	if a == b {
		return g
	}
	out := g.clone()
	opp := side.Opposite()
	if prev, ok := out.Neighbor(a, side); ok {
		out.unset(a, side)
		out.unset(prev, opp)
	}
	if prev, ok := out.Neighbor(b, opp); ok {
		out.unset(b, opp)
		out.unset(prev, side)
	}
	out.set(a, side, b)
	out.set(b, opp, a)
	return out
}

// Disconnect removes the edge on a's given side from both ends.
func (g Graph) Disconnect(a int, side models.Side) Graph {
	b, ok := g.Neighbor(a, side)
	if !ok {
		return g
	}
	out := g.clone()
	out.unset(a, side)
	out.unset(b, side.Opposite())
	return out
}

// DisconnectAll strips every edge touching the block.
func (g Graph) DisconnectAll(id int) Graph {
	if len(g[id]) == 0 {
		return g
	}
	out := g.clone()
	for side, n := range g[id] {
		out.unset(id, side)
		out.unset(n, side.Opposite())
	}
	return out
}

// Components partitions the given block ids into connected components.
// Isolated blocks come back as single-element components. Both the
// component order and the order within a component are deterministic.
func (g Graph) Components(ids []int) [][]int {
	sorted := make([]int, len(ids))
	copy(sorted, ids)
	sort.Ints(sorted)

	visited := make(map[int]bool, len(sorted))
	var components [][]int

	for _, start := range sorted {
		if visited[start] {
			continue
		}
		var comp []int
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			comp = append(comp, id)
			for _, side := range models.Sides {
				if n, ok := g.Neighbor(id, side); ok && !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
		sort.Ints(comp)
		components = append(components, comp)
	}

	return components
}

// Symmetric verifies the two-ended storage invariant. Mutations all go
// through Connect/Disconnect so this should never fail outside tests.
func (g Graph) Symmetric() bool {
	for a, sides := range g {
		for s, b := range sides {
			back, ok := g.Neighbor(b, s.Opposite())
			if !ok || back != a {
				return false
			}
		}
	}
	return true
}

// Links serializes the graph as a minimal edge list: each edge is
// emitted once, from its bottom/right end owner.
func (g Graph) Links() []models.Link {
	var ids []int
	for id := range g {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var links []models.Link
	for _, id := range ids {
		for _, side := range []models.Side{models.SideBottom, models.SideRight} {
			if n, ok := g.Neighbor(id, side); ok {
				links = append(links, models.Link{From: id, Side: side.String(), To: n})
			}
		}
	}
	return links
}

// FromLinks rebuilds a graph from its serialized edge list.
func FromLinks(links []models.Link) Graph {
	g := New()
	for _, l := range links {
		side, ok := models.ParseSide(l.Side)
		if !ok {
			continue
		}
		g = g.Connect(l.From, side, l.To)
	}
	return g
}
