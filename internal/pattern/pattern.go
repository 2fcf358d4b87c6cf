// Package pattern generates the jigsaw socket shapes for a level.
// Shapes are a pure function of (level sequence, difficulty, block
// index) so reloading a level always offers the same pieces.
package pattern

import (
	"hash/fnv"
	"math/rand"

	"codeclash/internal/models"
)

// flatChance is the probability that a vertical socket is flat instead
// of a tab/slot pair. Harder levels show fewer shaped sockets, so the
// shapes give away less about which blocks adjoin.
func flatChance(difficulty string) float64 {
	switch difficulty {
	case "Easy":
		return 0.10
	case "Hard":
		return 0.50
	default:
		return 0.30
	}
}

// seed derives a stable PRNG seed from the level sequence and
// difficulty tag.
func seed(sequence int, difficulty string) int64 {
	h := fnv.New64a()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(sequence >> (8 * i))
	}
	h.Write(buf[:])
	h.Write([]byte(difficulty))
	return int64(h.Sum64())
}

// Generate returns socket patterns for the canonical blocks of a
// level, in canonical order, followed by patterns for distractor
// blocks. Adjoining vertical edges are complementary: block i's bottom
// always fits block i+1's top. Distractors get independent shapes so
// they can plausibly attach anywhere.
func Generate(sequence int, difficulty string, canonicalCount, distractorCount int) []models.Pattern {
	rng := rand.New(rand.NewSource(seed(sequence, difficulty)))
	flat := flatChance(difficulty)

	patterns := make([]models.Pattern, 0, canonicalCount+distractorCount)

	prevBottom := models.ShapeFlat
	for i := 0; i < canonicalCount; i++ {
		p := models.Pattern{
			Top:    models.ShapeFlat,
			Bottom: vertical(rng, flat),
			Left:   models.ShapeFlat,
			Right:  horizontal(rng),
		}
		if i > 0 {
			p.Top = prevBottom.Complement()
		}
		if i == canonicalCount-1 {
			p.Bottom = models.ShapeFlat
		}
		prevBottom = p.Bottom
		patterns = append(patterns, p)
	}

	for i := 0; i < distractorCount; i++ {
		patterns = append(patterns, models.Pattern{
			Top:    vertical(rng, flat),
			Bottom: vertical(rng, flat),
			Left:   models.ShapeFlat,
			Right:  horizontal(rng),
		})
	}

	return patterns
}

// vertical picks a top/bottom socket shape.
func vertical(rng *rand.Rand, flat float64) models.SocketShape {
	if rng.Float64() < flat {
		return models.ShapeFlat
	}
	if rng.Intn(2) == 0 {
		return models.ShapeTab
	}
	return models.ShapeSlot
}

// horizontal picks a right-edge shape; the mating block's left edge is
// fixed up by MateRows once row composition is known.
func horizontal(rng *rand.Rand) models.SocketShape {
	if rng.Intn(2) == 0 {
		return models.ShapeTab
	}
	return models.ShapeSlot
}

// MateRows rewrites left-edge shapes so that blocks known to sit on
// the same row (per the language merge rules) are complementary
// left-to-right. rows holds canonical block indices grouped by row.
func MateRows(patterns []models.Pattern, rows [][]int) {
	for _, row := range rows {
		for i := 1; i < len(row); i++ {
			prev, cur := row[i-1], row[i]
			if prev < 0 || cur < 0 || prev >= len(patterns) || cur >= len(patterns) {
				continue
			}
			patterns[cur].Left = patterns[prev].Right.Complement()
		}
	}
}
