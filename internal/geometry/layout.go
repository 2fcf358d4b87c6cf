package geometry

import "strings"

// Rendering constants at scale 1.0. Socket positions are derived from
// these, so they must never depend on anything but the block text and
// the scale factor.
const (
	BaseFontSize   = 14.0
	BaseLineHeight = 20.0
	BasePadding    = 12.0
	MinBlockWidth  = 180.0
	MaxBlockWidth  = 640.0

	// Advance width of one character at BaseFontSize. Blocks render in
	// a monospace face, so a single constant is enough.
	charWidth = 8.4
)

// Layout is the rendered geometry of a block. It is derived, never
// stored: a pure function of the block text and the scale factor.
type Layout struct {
	Width      float64
	Height     float64
	Lines      []string
	FontSize   float64
	LineHeight float64
	Padding    float64
}

// ComputeLayout word-wraps text into a block sized roughly proportional
// to its character count, bounded to MinBlockWidth..MaxBlockWidth before
// scaling. Same text and scale always yield the same layout.
func ComputeLayout(text string, scale float64) Layout {
	if scale <= 0 {
		scale = 1
	}

	runes := []rune(text)
	natural := float64(len(runes))*charWidth + 2*BasePadding
	width := natural
	if width < MinBlockWidth {
		width = MinBlockWidth
	}
	if width > MaxBlockWidth {
		width = MaxBlockWidth
	}

	maxChars := int((width - 2*BasePadding) / charWidth)
	if maxChars < 1 {
		maxChars = 1
	}

	lines := wrap(text, maxChars)

	return Layout{
		Width:      width * scale,
		Height:     (2*BasePadding + float64(len(lines))*BaseLineHeight) * scale,
		Lines:      lines,
		FontSize:   BaseFontSize * scale,
		LineHeight: BaseLineHeight * scale,
		Padding:    BasePadding * scale,
	}
}

// wrap splits text into lines of at most maxChars characters. Breaks
// happen at whitespace when possible; a single token longer than
// maxChars is split mid-token. Quoted literals get no special
// treatment.
func wrap(text string, maxChars int) []string {
	text = strings.TrimRight(text, " \t")
	if text == "" {
		return []string{""}
	}

	var lines []string
	var current strings.Builder

	flush := func() {
		lines = append(lines, current.String())
		current.Reset()
	}

	for _, word := range strings.Fields(text) {
		wordLen := len([]rune(word))

		if current.Len() > 0 {
			if len([]rune(current.String()))+1+wordLen <= maxChars {
				current.WriteByte(' ')
				current.WriteString(word)
				continue
			}
			flush()
		}

		// Split oversized tokens character by character.
		for wordLen > maxChars {
			r := []rune(word)
			lines = append(lines, string(r[:maxChars]))
			word = string(r[maxChars:])
			wordLen = len(r) - maxChars
		}
		current.WriteString(word)
	}

	if current.Len() > 0 || len(lines) == 0 {
		flush()
	}

	return lines
}
