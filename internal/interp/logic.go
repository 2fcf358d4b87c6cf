package interp

import (
	"fmt"
	"regexp"
	"strings"

	"codeclash/internal/lang"
)

// IssueKind classifies a logic problem found before execution.
type IssueKind string

const (
	IssueUseBeforeDefinition IssueKind = "use-before-definition"
	IssueDuplicateOutput     IssueKind = "duplicate-output"
)

// Issue is one logic problem in the assembled program. Line numbers
// are 1-based. For duplicate output, FirstLine names the earlier
// occurrence.
type Issue struct {
	Kind      IssueKind
	Line      int
	FirstLine int
	Name      string
	Message   string
}

// DetectLogicIssues walks the reconstructed lines in order and flags
// variables referenced before any prior assignment defines them, and
// print statements whose normalized text duplicates an earlier one.
// It runs before the analyzer and the interpreter on submit.
func DetectLogicIssues(lines []string, language string) []Issue {
	spec, ok := lang.Get(language)
	if !ok {
		return nil
	}

	defined := make(map[string]bool)
	printSeen := make(map[string]int)
	var issues []Issue

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		num := i + 1

		if spec.IsPrint(line) {
			norm := strings.Join(strings.Fields(line), " ")
			if first, dup := printSeen[norm]; dup {
				issues = append(issues, Issue{
					Kind:      IssueDuplicateOutput,
					Line:      num,
					FirstLine: first,
					Message:   fmt.Sprintf("lines %d and %d print the same thing", first, num),
				})
			} else {
				printSeen[norm] = num
			}
			for _, name := range references(line, spec) {
				if !defined[name] {
					issues = append(issues, useBeforeDef(name, num))
				}
			}
			continue
		}

		if target, expr, ok := spec.Assignment(line); ok {
			// Right-hand side references are checked before the target
			// becomes defined, so `x = x + 1` on a fresh x is flagged.
			for _, name := range references(expr, spec) {
				if !defined[name] {
					issues = append(issues, useBeforeDef(name, num))
				}
			}
			defined[target] = true
			continue
		}

		for _, name := range references(line, spec) {
			if !defined[name] {
				issues = append(issues, useBeforeDef(name, num))
			}
		}
	}

	return issues
}

func useBeforeDef(name string, line int) Issue {
	return Issue{
		Kind:    IssueUseBeforeDefinition,
		Line:    line,
		Name:    name,
		Message: fmt.Sprintf("%q is used on line %d before anything assigns it", name, line),
	}
}

var identRe = regexp.MustCompile(`[A-Za-z_$][\w$]*`)

// declarationWords are statement-shape keywords, never variable
// references.
var declarationWords = map[string]bool{
	"let": true, "const": true, "var": true,
	"int": true, "long": true, "double": true, "float": true,
	"boolean": true, "String": true,
	"if": true, "else": true, "elif": true, "while": true, "for": true,
	"pass": true, "in": true,
}

// references extracts candidate variable names from a statement:
// identifiers outside string literals, excluding builtins, keywords,
// declaration words, and member names reached through a dot.
func references(s string, spec *lang.Spec) []string {
	stripped := stripStrings(s)

	var names []string
	seen := make(map[string]bool)
	for _, loc := range identRe.FindAllStringIndex(stripped, -1) {
		name := stripped[loc[0]:loc[1]]
		if loc[0] > 0 && stripped[loc[0]-1] == '.' {
			continue
		}
		// A name glued to a quote is a string prefix (f"..."), not a
		// variable.
		if loc[1] < len(s) && (s[loc[1]] == '\'' || s[loc[1]] == '"' || s[loc[1]] == '`') {
			continue
		}
		if spec.Builtins[name] || declarationWords[name] {
			continue
		}
		if _, isKeyword := spec.Keywords[name]; isKeyword {
			continue
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// stripStrings blanks out quoted literals so their contents are never
// mistaken for identifiers. Interpolation fields inside templates are
// kept, since they are real references.
func stripStrings(s string) string {
	out := []byte(s)
	var quote byte
	escaped := false
	inField := false
	for i := 0; i < len(out); i++ {
		c := out[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
				out[i] = ' '
			case c == '\\':
				escaped = true
				out[i] = ' '
			case c == quote:
				quote = 0
				out[i] = ' '
			case c == '{' || (c == '$' && i+1 < len(out) && out[i+1] == '{'):
				inField = true
				out[i] = ' '
			case c == '}':
				inField = false
				out[i] = ' '
			case !inField:
				out[i] = ' '
			}
			continue
		}
		if c == '\'' || c == '"' || c == '`' {
			quote = c
			inField = false
			out[i] = ' '
		}
	}
	return string(out)
}
