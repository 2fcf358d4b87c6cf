package interp

import (
	"strings"
	"testing"

	"codeclash/internal/lang"
)

func mustSpec(t *testing.T, name string) *lang.Spec {
	t.Helper()
	spec, ok := lang.Get(name)
	if !ok {
		t.Fatalf("language %q not registered", name)
	}
	return spec
}

func TestExecutePython(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "string literal",
			source: "print('hello world')",
			want:   "hello world",
		},
		{
			name:   "arithmetic over variables",
			source: "apples = 3\nmore = 2\nprint(apples + more)",
			want:   "5",
		},
		{
			name:   "f-string interpolation",
			source: "name = 'Ada'\nprint(f'hi {name}')",
			want:   "hi Ada",
		},
		{
			name:   "multiple print arguments",
			source: "x = 4\nprint('x is', x)",
			want:   "x is 4",
		},
		{
			name:   "boolean keyword",
			source: "flag = True\nprint(flag)",
			want:   "true",
		},
		{
			name:   "several outputs",
			source: "print('one')\nprint('two')",
			want:   "one\ntwo",
		},
		{
			name:   "conditional header is tolerated",
			source: "temp = 30\nif temp > 25:\nprint('hot')",
			want:   "hot",
		},
		{
			name:   "string concatenation",
			source: "greeting = 'Hello, ' + 'Sam'\nprint(greeting)",
			want:   "Hello, Sam",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Execute(tt.source, "python"); got != tt.want {
				t.Errorf("Execute() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecuteJavaScript(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "console log literal",
			source: "console.log('ready');",
			want:   "ready",
		},
		{
			name:   "let assignment with arithmetic",
			source: "let weekly = 5;\nlet weeks = 4;\nconsole.log(weekly * weeks);",
			want:   "20",
		},
		{
			name:   "template literal",
			source: "let name = 'Sam';\nconsole.log(`hello ${name}`);",
			want:   "hello Sam",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Execute(tt.source, "javascript"); got != tt.want {
				t.Errorf("Execute() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExecuteJava(t *testing.T) {
	source := "int speed = 60;\nSystem.out.println(speed);"
	if got := Execute(source, "java"); got != "60" {
		t.Errorf("Execute() = %q, want %q", got, "60")
	}
}

func TestExecuteUnsupported(t *testing.T) {
	if got := Execute("print('x')", "cobol"); !strings.Contains(got, "unsupported language") {
		t.Errorf("Execute() = %q, want unsupported-language message", got)
	}

	got := Execute("import os", "python")
	if !strings.Contains(got, "unsupported syntax") {
		t.Errorf("Execute() = %q, want unsupported-syntax message", got)
	}
}

func TestExecuteNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"(((((",
		"print(",
		"x =",
		"= 5",
		"print('unterminated",
		strings.Repeat("a+", 100),
	}
	for _, in := range inputs {
		// Any string output is acceptable; a panic is not.
		_ = Execute(in, "python")
		_ = Execute(in, "javascript")
	}
}

func TestDetectUseBeforeDefinition(t *testing.T) {
	lines := []string{"print(count)", "count = 3"}
	issues := DetectLogicIssues(lines, "python")

	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1: %+v", len(issues), issues)
	}
	issue := issues[0]
	if issue.Kind != IssueUseBeforeDefinition {
		t.Errorf("Kind = %v, want %v", issue.Kind, IssueUseBeforeDefinition)
	}
	if issue.Name != "count" || issue.Line != 1 {
		t.Errorf("Name = %q, Line = %d; want count, 1", issue.Name, issue.Line)
	}
}

func TestDetectSelfReference(t *testing.T) {
	issues := DetectLogicIssues([]string{"x = x + 1"}, "python")
	if len(issues) != 1 || issues[0].Name != "x" {
		t.Errorf("issues = %+v, want one use-before-definition of x", issues)
	}
}

func TestDetectDuplicateOutput(t *testing.T) {
	lines := []string{"print('hi')", "x = 1", "print('hi')"}
	issues := DetectLogicIssues(lines, "python")

	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1: %+v", len(issues), issues)
	}
	issue := issues[0]
	if issue.Kind != IssueDuplicateOutput {
		t.Errorf("Kind = %v, want %v", issue.Kind, IssueDuplicateOutput)
	}
	if issue.FirstLine != 1 || issue.Line != 3 {
		t.Errorf("FirstLine = %d, Line = %d; want 1, 3", issue.FirstLine, issue.Line)
	}
}

func TestDetectCleanProgram(t *testing.T) {
	lines := []string{"x = 1", "y = x + 1", "print(x, y)"}
	if issues := DetectLogicIssues(lines, "python"); len(issues) != 0 {
		t.Errorf("clean program flagged: %+v", issues)
	}
}

func TestDetectIgnoresStringsAndBuiltins(t *testing.T) {
	lines := []string{"print('count is fine')"}
	if issues := DetectLogicIssues(lines, "python"); len(issues) != 0 {
		t.Errorf("identifiers inside string literals flagged: %+v", issues)
	}
}

func TestDetectTemplateReferences(t *testing.T) {
	// Interpolation fields are real references even inside quotes.
	issues := DetectLogicIssues([]string{"print(f'hi {name}')"}, "python")
	if len(issues) != 1 || issues[0].Name != "name" {
		t.Errorf("issues = %+v, want one use-before-definition of name", issues)
	}
}

func TestEvalComparisons(t *testing.T) {
	spec := mustSpec(t, "python")
	vars := map[string]string{"temp": "30"}

	tests := []struct {
		expr string
		want string
	}{
		{"temp > 25", "true"},
		{"temp < 25", "false"},
		{"temp == 30", "true"},
		{"temp != 30", "false"},
		{"temp >= 30 and temp <= 40", "true"},
		{"not (temp > 25)", "false"},
	}

	for _, tt := range tests {
		v, err := Eval(tt.expr, spec, vars)
		if err != nil {
			t.Errorf("Eval(%q) error: %v", tt.expr, err)
			continue
		}
		if v.Display() != tt.want {
			t.Errorf("Eval(%q) = %q, want %q", tt.expr, v.Display(), tt.want)
		}
	}
}

func TestEvalStringEscapes(t *testing.T) {
	spec := mustSpec(t, "python")
	vars := map[string]string{"name": "Ada"}

	tests := []struct {
		expr string
		want string
	}{
		{`"a\"b"`, `a"b`},
		{`'it\'s'`, "it's"},
		{`"a\"b" + name`, `a"bAda`},
		{`"back\\slash" + "!"`, `back\slash!`},
	}

	for _, tt := range tests {
		v, err := Eval(tt.expr, spec, vars)
		if err != nil {
			t.Errorf("Eval(%q) error: %v", tt.expr, err)
			continue
		}
		if v.Display() != tt.want {
			t.Errorf("Eval(%q) = %q, want %q", tt.expr, v.Display(), tt.want)
		}
	}
}

func TestEvalArithmeticPrecedence(t *testing.T) {
	spec := mustSpec(t, "python")

	tests := []struct {
		expr string
		want string
	}{
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"10 / 4", "2.5"},
		{"7 % 3", "1"},
		{"-3 + 5", "2"},
	}

	for _, tt := range tests {
		v, err := Eval(tt.expr, spec, nil)
		if err != nil {
			t.Errorf("Eval(%q) error: %v", tt.expr, err)
			continue
		}
		if v.Display() != tt.want {
			t.Errorf("Eval(%q) = %q, want %q", tt.expr, v.Display(), tt.want)
		}
	}
}
