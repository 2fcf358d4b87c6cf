package lang

import (
	"regexp"
	"strings"
)

func init() {
	register(&Spec{
		Name:       "javascript",
		assignment: regexp.MustCompile(`^(?:let\s+|const\s+|var\s+)?([A-Za-z_$][\w$]*)\s*=\s*([^=].*?);?$`),
		PrintOpeners: []string{
			"console.log(",
			"console.log (",
		},
		Terminator: ";",
		Keywords: map[string]string{
			"true":      "true",
			"false":     "false",
			"null":      "null",
			"undefined": "null",
		},
		Builtins: map[string]bool{
			"console": true, "log": true, "Math": true, "String": true,
			"Number": true, "parseInt": true, "parseFloat": true,
			"JSON": true, "Array": true,
		},
		Interpolate: jsInterpolate,
		extraMerge:  jsMerge,
	})
}

var templateField = regexp.MustCompile(`\$\{([A-Za-z_$][\w$]*)\}`)

// jsInterpolate resolves template-literal placeholders against known
// variables.
func jsInterpolate(s string, vars map[string]string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '`' || s[len(s)-1] != '`' {
		return "", false
	}
	body := s[1 : len(s)-1]
	resolved := true
	out := templateField.ReplaceAllStringFunc(body, func(field string) string {
		name := field[2 : len(field)-1]
		if v, ok := vars[name]; ok {
			return v
		}
		resolved = false
		return field
	})
	return out, resolved
}

// jsMerge: a keyword header and its brace live on one row.
func jsMerge(cur, next string) bool {
	return next == "{" || next == "} else {"
}
