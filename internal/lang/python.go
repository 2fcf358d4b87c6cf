package lang

import (
	"regexp"
	"strings"
)

func init() {
	register(&Spec{
		Name:       "python",
		assignment: regexp.MustCompile(`^([A-Za-z_]\w*)\s*=\s*([^=].*)$`),
		PrintOpeners: []string{
			"print(",
			"print (",
		},
		Terminator: "",
		Keywords: map[string]string{
			"True":  "true",
			"False": "false",
			"None":  "null",
			"and":   "&&",
			"or":    "||",
			"not":   "!",
		},
		Builtins: map[string]bool{
			"print": true, "len": true, "str": true, "int": true,
			"float": true, "range": true, "input": true, "abs": true,
			"round": true, "type": true,
		},
		Interpolate: pythonInterpolate,
		extraMerge:  pythonMerge,
	})
}

var fstringRe = regexp.MustCompile("^[fF](['\"]).*(['\"])$")
var fstringField = regexp.MustCompile(`\{([A-Za-z_]\w*)\}`)

// pythonInterpolate resolves f-string fields against known variables.
// Fields holding anything but a bare known identifier leave the
// template unresolved.
func pythonInterpolate(s string, vars map[string]string) (string, bool) {
	s = strings.TrimSpace(s)
	if !fstringRe.MatchString(s) {
		return "", false
	}
	body := s[2 : len(s)-1]
	resolved := true
	out := fstringField.ReplaceAllStringFunc(body, func(field string) string {
		name := field[1 : len(field)-1]
		if v, ok := vars[name]; ok {
			return v
		}
		resolved = false
		return field
	})
	return out, resolved
}

// pythonMerge: a block header keeps its colon-terminated tail on the
// same row.
func pythonMerge(cur, next string) bool {
	return next == ":" || (strings.HasSuffix(next, ":") && isClosingFragment(strings.TrimSuffix(next, ":")))
}
