// Package lang holds the per-language rule tables for the snippet
// interpreter and the diff analyzer. Each supported language is fully
// described by its Spec; adding a language means adding a table, not
// touching shared logic.
package lang

import (
	"regexp"
	"strings"
)

// Spec describes the recognized statement subset of one language.
type Spec struct {
	Name string

	// assignment captures `identifier = expression` statements.
	// Group 1 is the identifier, group 2 the right-hand side.
	assignment *regexp.Regexp

	// PrintOpeners are the call prefixes of the language's output
	// statement, up to and including the opening parenthesis.
	PrintOpeners []string

	// Terminator is the statement terminator, if the language has one.
	Terminator string

	// Keywords maps language literals to the common form used by the
	// expression evaluator: "true", "false", "null".
	Keywords map[string]string

	// Builtins are identifiers exempt from the use-before-definition
	// check.
	Builtins map[string]bool

	// Interpolate resolves the language's string-template syntax
	// against known variables. Returns false when s is not a template.
	Interpolate func(s string, vars map[string]string) (string, bool)

	// extraMerge augments the shared horizontal-merge heuristics with
	// language-specific cases. May be nil.
	extraMerge func(cur, next string) bool
}

// Assignment extracts an assignment target and right-hand side from a
// line, or ok=false when the line is not an assignment the fixed
// grammar recognizes.
func (s *Spec) Assignment(line string) (name, expr string, ok bool) {
	m := s.assignment.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	rhs := strings.TrimSpace(m[2])
	// Reject comparisons that the loose grammar would misread.
	if strings.HasPrefix(rhs, "=") {
		return "", "", false
	}
	return m[1], strings.TrimSuffix(rhs, s.Terminator), true
}

// PrintArgs extracts the raw argument text of an output statement, or
// ok=false when the line is not a print statement.
func (s *Spec) PrintArgs(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	for _, opener := range s.PrintOpeners {
		if !strings.HasPrefix(trimmed, opener) {
			continue
		}
		rest := trimmed[len(opener):]
		rest = strings.TrimSuffix(rest, s.Terminator)
		rest = strings.TrimSpace(rest)
		if !strings.HasSuffix(rest, ")") {
			return "", false
		}
		return strings.TrimSuffix(rest, ")"), true
	}
	return "", false
}

// IsPrint reports whether the line is one of the language's output
// statements.
func (s *Spec) IsPrint(line string) bool {
	_, ok := s.PrintArgs(line)
	return ok
}

// MergeNextLine reports whether the canonical line next should visually
// merge onto the end of cur when the puzzle is correctly assembled.
// This drives both mismatch absorption and same-row placement during
// auto-fix.
func (s *Spec) MergeNextLine(cur, next string) bool {
	cur = strings.TrimSpace(cur)
	next = strings.TrimSpace(next)
	if cur == "" || next == "" {
		return false
	}

	// An unclosed call on the current line pulls the continuation up.
	if parenBalance(cur) > 0 {
		return true
	}

	// A bare terminator or closing punctuation belongs to the line
	// before it.
	if isClosingFragment(next) {
		return true
	}

	// A call target immediately followed by its argument list.
	if endsWithIdentifier(cur) && strings.HasPrefix(next, "(") {
		return true
	}

	// Dangling binary operator on either edge of the seam.
	if hasOperatorSuffix(cur) || hasOperatorPrefix(next) {
		return true
	}

	if s.extraMerge != nil && s.extraMerge(cur, next) {
		return true
	}
	return false
}

// parenBalance counts unmatched opening parens/brackets outside string
// literals.
func parenBalance(s string) int {
	depth := 0
	var quote rune
	escaped := false
	for _, r := range s {
		if escaped {
			escaped = false
			continue
		}
		if quote != 0 {
			switch r {
			case '\\':
				escaped = true
			case quote:
				quote = 0
			}
			continue
		}
		switch r {
		case '\'', '"', '`':
			quote = r
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
	}
	return depth
}

// isClosingFragment reports whether the line is nothing but closing
// punctuation and terminators.
func isClosingFragment(s string) bool {
	for _, r := range s {
		switch r {
		case ')', ']', '}', ';', ':', ',', ' ':
		default:
			return false
		}
	}
	return true
}

func endsWithIdentifier(s string) bool {
	if s == "" {
		return false
	}
	r := rune(s[len(s)-1])
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

var trailingOp = regexp.MustCompile(`[+\-*/%=<>&|,.]$`)
var leadingOp = regexp.MustCompile(`^[+\-*/%<>&|.]`)

func hasOperatorSuffix(s string) bool {
	return trailingOp.MatchString(s)
}

func hasOperatorPrefix(s string) bool {
	// A leading minus could also start a negative literal statement,
	// but the constrained grammar has no such statement form.
	return leadingOp.MatchString(s) && !strings.HasPrefix(s, "//")
}

// registry of supported languages, keyed by lowercase tag.
var registry = map[string]*Spec{}

func register(s *Spec) {
	registry[strings.ToLower(s.Name)] = s
}

// Get looks up a language spec by tag (case-insensitive).
func Get(name string) (*Spec, bool) {
	s, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// Supported lists the registered language tags.
func Supported() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
