package lang

import (
	"regexp"
)

func init() {
	register(&Spec{
		Name:       "java",
		assignment: regexp.MustCompile(`^(?:int\s+|long\s+|double\s+|float\s+|boolean\s+|String\s+|var\s+)?([A-Za-z_$][\w$]*)\s*=\s*([^=].*?);?$`),
		PrintOpeners: []string{
			"System.out.println(",
			"System.out.print(",
		},
		Terminator: ";",
		Keywords: map[string]string{
			"true":  "true",
			"false": "false",
			"null":  "null",
		},
		Builtins: map[string]bool{
			"System": true, "out": true, "println": true, "print": true,
			"Math": true, "String": true, "Integer": true, "Double": true,
		},
		// Java has no string templates in the recognized subset; output
		// interpolation happens through + concatenation only.
		Interpolate: nil,
		extraMerge:  javaMerge,
	})
}

// javaMerge: braces hang onto the preceding header row.
func javaMerge(cur, next string) bool {
	return next == "{" || next == "} else {"
}
