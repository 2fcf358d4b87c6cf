package interp

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"codeclash/internal/lang"
)

// Value is the result of the restricted expression evaluator.
type Value struct {
	Kind valueKind
	Num  float64
	Str  string
	Bool bool
}

type valueKind int

const (
	numVal valueKind = iota
	strVal
	boolVal
	nullVal
)

// Display renders a value the way the synthesized output shows it.
// Booleans and null always appear in the common form regardless of
// source language.
func (v Value) Display() string {
	switch v.Kind {
	case numVal:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case boolVal:
		if v.Bool {
			return "true"
		}
		return "false"
	case nullVal:
		return "null"
	default:
		return v.Str
	}
}

func number(n float64) Value { return Value{Kind: numVal, Num: n} }
func str(s string) Value     { return Value{Kind: strVal, Str: s} }
func boolean(b bool) Value   { return Value{Kind: boolVal, Bool: b} }

// Eval evaluates a restricted arithmetic/boolean expression over the
// variable context. Language-specific keywords are translated to the
// common form before parsing.
func Eval(expr string, spec *lang.Spec, vars map[string]string) (Value, error) {
	tokens, err := tokenize(expr, spec)
	if err != nil {
		return Value{}, err
	}
	p := &parser{tokens: tokens, vars: vars}
	v, err := p.parseOr()
	if err != nil {
		return Value{}, err
	}
	if !p.done() {
		return Value{}, fmt.Errorf("unsupported syntax near %q", p.peek())
	}
	return v, nil
}

type token struct {
	kind tokenKind
	text string
	num  float64
}

type tokenKind int

const (
	tokNum tokenKind = iota
	tokStr
	tokIdent
	tokOp
	tokTrue
	tokFalse
	tokNull
)

var twoCharOps = map[string]bool{
	"==": true, "!=": true, "<=": true, ">=": true, "&&": true, "||": true,
}

func tokenize(expr string, spec *lang.Spec) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c >= '0' && c <= '9' || (c == '.' && i+1 < len(expr) && expr[i+1] >= '0' && expr[i+1] <= '9'):
			j := i
			for j < len(expr) && (expr[j] >= '0' && expr[j] <= '9' || expr[j] == '.') {
				j++
			}
			n, err := strconv.ParseFloat(expr[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("unsupported syntax near %q", expr[i:j])
			}
			tokens = append(tokens, token{kind: tokNum, num: n})
			i = j
		case c == '\'' || c == '"':
			j := i + 1
			for j < len(expr) && expr[j] != c {
				if expr[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(expr) {
				return nil, fmt.Errorf("unsupported syntax near %q", expr[i:])
			}
			tokens = append(tokens, token{kind: tokStr, text: unescapeQuoted(expr[i+1:j], c)})
			i = j + 1
		case isIdentStart(c):
			j := i
			for j < len(expr) && isIdentChar(expr[j]) {
				j++
			}
			word := expr[i:j]
			if mapped, ok := spec.Keywords[word]; ok {
				word = mapped
			}
			switch word {
			case "true":
				tokens = append(tokens, token{kind: tokTrue})
			case "false":
				tokens = append(tokens, token{kind: tokFalse})
			case "null":
				tokens = append(tokens, token{kind: tokNull})
			case "&&", "||", "!":
				tokens = append(tokens, token{kind: tokOp, text: word})
			default:
				tokens = append(tokens, token{kind: tokIdent, text: word})
			}
			i = j
		default:
			if i+1 < len(expr) && twoCharOps[expr[i:i+2]] {
				tokens = append(tokens, token{kind: tokOp, text: expr[i : i+2]})
				i += 2
				break
			}
			if strings.ContainsRune("+-*/%()<>!", rune(c)) {
				tokens = append(tokens, token{kind: tokOp, text: string(c)})
				i++
				break
			}
			return nil, fmt.Errorf("unsupported syntax near %q", string(c))
		}
	}
	return tokens, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

type parser struct {
	tokens []token
	pos    int
	vars   map[string]string
}

func (p *parser) done() bool { return p.pos >= len(p.tokens) }

func (p *parser) peek() string {
	if p.done() {
		return ""
	}
	t := p.tokens[p.pos]
	if t.kind == tokNum {
		return strconv.FormatFloat(t.num, 'f', -1, 64)
	}
	return t.text
}

func (p *parser) acceptOp(ops ...string) (string, bool) {
	if p.done() || p.tokens[p.pos].kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if p.tokens[p.pos].text == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

func (p *parser) parseOr() (Value, error) {
	left, err := p.parseAnd()
	if err != nil {
		return Value{}, err
	}
	for {
		if _, ok := p.acceptOp("||"); !ok {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return Value{}, err
		}
		left = boolean(truthy(left) || truthy(right))
	}
}

func (p *parser) parseAnd() (Value, error) {
	left, err := p.parseEquality()
	if err != nil {
		return Value{}, err
	}
	for {
		if _, ok := p.acceptOp("&&"); !ok {
			return left, nil
		}
		right, err := p.parseEquality()
		if err != nil {
			return Value{}, err
		}
		left = boolean(truthy(left) && truthy(right))
	}
}

func (p *parser) parseEquality() (Value, error) {
	left, err := p.parseComparison()
	if err != nil {
		return Value{}, err
	}
	for {
		op, ok := p.acceptOp("==", "!=")
		if !ok {
			return left, nil
		}
		right, err := p.parseComparison()
		if err != nil {
			return Value{}, err
		}
		eq := equal(left, right)
		left = boolean(eq == (op == "=="))
	}
}

func (p *parser) parseComparison() (Value, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return Value{}, err
	}
	for {
		op, ok := p.acceptOp("<=", ">=", "<", ">")
		if !ok {
			return left, nil
		}
		right, err := p.parseAdditive()
		if err != nil {
			return Value{}, err
		}
		cmp, err := compare(left, right)
		if err != nil {
			return Value{}, err
		}
		switch op {
		case "<":
			left = boolean(cmp < 0)
		case "<=":
			left = boolean(cmp <= 0)
		case ">":
			left = boolean(cmp > 0)
		default:
			left = boolean(cmp >= 0)
		}
	}
}

func (p *parser) parseAdditive() (Value, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return Value{}, err
	}
	for {
		op, ok := p.acceptOp("+", "-")
		if !ok {
			return left, nil
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return Value{}, err
		}
		if op == "+" {
			// String concatenation wins as soon as either side is a
			// string, matching every supported language's + operator.
			if left.Kind == strVal || right.Kind == strVal {
				left = str(left.Display() + right.Display())
				continue
			}
			n1, n2, err := numbers(left, right)
			if err != nil {
				return Value{}, err
			}
			left = number(n1 + n2)
			continue
		}
		n1, n2, err := numbers(left, right)
		if err != nil {
			return Value{}, err
		}
		left = number(n1 - n2)
	}
}

func (p *parser) parseMultiplicative() (Value, error) {
	left, err := p.parseUnary()
	if err != nil {
		return Value{}, err
	}
	for {
		op, ok := p.acceptOp("*", "/", "%")
		if !ok {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return Value{}, err
		}
		n1, n2, err := numbers(left, right)
		if err != nil {
			return Value{}, err
		}
		switch op {
		case "*":
			left = number(n1 * n2)
		case "/":
			if n2 == 0 {
				return Value{}, fmt.Errorf("unsupported syntax near %q", "/0")
			}
			left = number(n1 / n2)
		default:
			left = number(math.Mod(n1, n2))
		}
	}
}

func (p *parser) parseUnary() (Value, error) {
	if _, ok := p.acceptOp("!"); ok {
		v, err := p.parseUnary()
		if err != nil {
			return Value{}, err
		}
		return boolean(!truthy(v)), nil
	}
	if _, ok := p.acceptOp("-"); ok {
		v, err := p.parseUnary()
		if err != nil {
			return Value{}, err
		}
		if v.Kind != numVal {
			return Value{}, fmt.Errorf("unsupported syntax near %q", "-")
		}
		return number(-v.Num), nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Value, error) {
	if p.done() {
		return Value{}, fmt.Errorf("unsupported syntax near %q", "end of expression")
	}
	t := p.tokens[p.pos]
	switch t.kind {
	case tokNum:
		p.pos++
		return number(t.num), nil
	case tokStr:
		p.pos++
		return str(t.text), nil
	case tokTrue:
		p.pos++
		return boolean(true), nil
	case tokFalse:
		p.pos++
		return boolean(false), nil
	case tokNull:
		p.pos++
		return Value{Kind: nullVal}, nil
	case tokIdent:
		p.pos++
		raw, ok := p.vars[t.text]
		if !ok {
			return Value{}, fmt.Errorf("unsupported syntax near %q", t.text)
		}
		return coerce(raw), nil
	case tokOp:
		if t.text == "(" {
			p.pos++
			v, err := p.parseOr()
			if err != nil {
				return Value{}, err
			}
			if _, ok := p.acceptOp(")"); !ok {
				return Value{}, fmt.Errorf("unsupported syntax near %q", p.peek())
			}
			return v, nil
		}
	}
	return Value{}, fmt.Errorf("unsupported syntax near %q", p.peek())
}

// coerce re-types a stored variable string.
func coerce(raw string) Value {
	switch raw {
	case "true":
		return boolean(true)
	case "false":
		return boolean(false)
	case "null":
		return Value{Kind: nullVal}
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return number(n)
	}
	return str(raw)
}

func truthy(v Value) bool {
	switch v.Kind {
	case boolVal:
		return v.Bool
	case numVal:
		return v.Num != 0
	case strVal:
		return v.Str != ""
	default:
		return false
	}
}

func equal(a, b Value) bool {
	if a.Kind == numVal && b.Kind == numVal {
		return a.Num == b.Num
	}
	return a.Display() == b.Display()
}

func compare(a, b Value) (int, error) {
	if a.Kind == numVal && b.Kind == numVal {
		switch {
		case a.Num < b.Num:
			return -1, nil
		case a.Num > b.Num:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if a.Kind == strVal && b.Kind == strVal {
		return strings.Compare(a.Str, b.Str), nil
	}
	return 0, fmt.Errorf("unsupported syntax near %q", "comparison")
}

func numbers(a, b Value) (float64, float64, error) {
	if a.Kind != numVal || b.Kind != numVal {
		return 0, 0, fmt.Errorf("unsupported syntax near %q", "arithmetic")
	}
	return a.Num, b.Num, nil
}
