// Package interp synthesizes the output a reconstructed snippet would
// print. It is not an evaluator of the full language grammar: it
// pattern-matches a constrained set of assignment, print and
// conditional statement shapes per language and refuses everything
// else with an "unsupported syntax" string instead of failing.
package interp

import (
	"fmt"
	"regexp"
	"strings"

	"codeclash/internal/lang"
)

// Execute synthesizes the printed output of sourceText for the given
// language tag. Errors come back as the output string itself; this
// path never panics.
func Execute(sourceText, language string) string {
	spec, ok := lang.Get(language)
	if !ok {
		return fmt.Sprintf("unsupported language %q", language)
	}

	vars := make(map[string]string)
	var out []string

	for _, raw := range strings.Split(sourceText, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if args, ok := spec.PrintArgs(line); ok {
			rendered, err := renderArgs(args, spec, vars)
			if err != nil {
				return err.Error()
			}
			out = append(out, rendered)
			continue
		}

		if name, expr, ok := spec.Assignment(line); ok {
			val, err := evalOperand(expr, spec, vars)
			if err != nil {
				return err.Error()
			}
			vars[name] = val
			continue
		}

		if isStructural(line) {
			// Conditional and loop shapes are recognized so assembled
			// programs containing them still validate, but they are
			// not executed: output synthesis stays flat.
			continue
		}

		return fmt.Sprintf("unsupported syntax near %q", line)
	}

	return strings.Join(out, "\n")
}

// renderArgs splits a print argument list on top-level commas and
// evaluates each piece; pieces are joined with single spaces, matching
// the default separator of every supported print statement.
func renderArgs(args string, spec *lang.Spec, vars map[string]string) (string, error) {
	if strings.TrimSpace(args) == "" {
		return "", nil
	}
	var parts []string
	for _, piece := range splitTop(args, ',') {
		val, err := evalOperand(piece, spec, vars)
		if err != nil {
			return "", err
		}
		parts = append(parts, val)
	}
	return strings.Join(parts, " "), nil
}

// evalOperand resolves one expression: a quoted literal, a string
// template, or a restricted arithmetic/boolean expression over the
// collected variable context.
func evalOperand(expr string, spec *lang.Spec, vars map[string]string) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", fmt.Errorf("unsupported syntax near %q", expr)
	}

	if lit, ok := stringLiteral(expr); ok {
		return lit, nil
	}

	if spec.Interpolate != nil {
		if resolved, ok := spec.Interpolate(expr, vars); ok {
			return resolved, nil
		}
	}

	val, err := Eval(expr, spec, vars)
	if err != nil {
		return "", err
	}
	return val.Display(), nil
}

// stringLiteral unquotes a plain single- or double-quoted literal.
func stringLiteral(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	q := s[0]
	if (q != '\'' && q != '"') || s[len(s)-1] != q {
		return "", false
	}
	body := s[1 : len(s)-1]
	// A closing quote mid-string means this is an expression, not a
	// single literal.
	for i := 0; i < len(body); i++ {
		if body[i] == q && (i == 0 || body[i-1] != '\\') {
			return "", false
		}
	}
	return unescapeQuoted(body, q), true
}

// unescapeQuoted resolves escapes of the enclosing quote and doubled
// backslashes in a quoted string body.
func unescapeQuoted(body string, q byte) string {
	body = strings.ReplaceAll(body, `\`+string(q), string(q))
	return strings.ReplaceAll(body, `\\`, `\`)
}

// splitTop splits on a separator at nesting depth zero, respecting
// quotes, parens, brackets and braces.
func splitTop(s string, sep rune) []string {
	var parts []string
	depth := 0
	var quote rune
	escaped := false
	start := 0
	for i, r := range s {
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
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

var structuralRe = regexp.MustCompile(`^(if|else|elif|while|for)\b|^(else:|pass|\{|\}|\} else \{)$`)

// isStructural recognizes conditional/loop headers and brace lines.
func isStructural(line string) bool {
	return structuralRe.MatchString(line)
}
