package symbolic

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parse reads an arithmetic expression over numbers, symbols and the known
// unary functions. Supported operators: + - * / and ** (or ^) with the usual
// precedence; parentheses group. Division and subtraction are rewritten into
// products and sums so the tree stays within the closed variant set.
func Parse(src string) (Expr, error) {
	p := &exprParser{src: src}
	p.next()
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %q", p.tok.text)
	}
	return e, nil
}

// MustParse is Parse for expressions known to be valid, mainly in tests.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type exprParser struct {
	src string
	pos int
	tok token
}

func (p *exprParser) errorf(format string, args ...any) error {
	return fmt.Errorf("symbolic: parse error at offset %d: %s", p.tok.pos, fmt.Sprintf(format, args...))
}

func (p *exprParser) next() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}
	c := p.src[p.pos]
	switch {
	case c >= '0' && c <= '9' || c == '.':
		for p.pos < len(p.src) && (isDigit(p.src[p.pos]) || p.src[p.pos] == '.') {
			p.pos++
		}
		// Exponent suffix, e.g. 1e-3.
		if p.pos < len(p.src) && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
			mark := p.pos
			p.pos++
			if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
				p.pos++
			}
			if p.pos < len(p.src) && isDigit(p.src[p.pos]) {
				for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
					p.pos++
				}
			} else {
				p.pos = mark
			}
		}
		p.tok = token{kind: tokNumber, text: p.src[start:p.pos], pos: start}
	case isIdentStart(c):
		for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
			p.pos++
		}
		p.tok = token{kind: tokIdent, text: p.src[start:p.pos], pos: start}
	default:
		if strings.HasPrefix(p.src[p.pos:], "**") {
			p.pos += 2
			p.tok = token{kind: tokOp, text: "**", pos: start}
			return
		}
		p.pos++
		p.tok = token{kind: tokOp, text: string(c), pos: start}
	}
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || unicode.IsLetter(rune(c)) }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }

func (p *exprParser) parseSum() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "+" || p.tok.text == "-") {
		op := p.tok.text
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			right = MulOf(N(-1), right)
		}
		left = AddOf(left, right)
	}
	return left, nil
}

func (p *exprParser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "*" || p.tok.text == "/") {
		op := p.tok.text
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "/" {
			right = PowOf(right, N(-1))
		}
		left = MulOf(left, right)
	}
	return left, nil
}

func (p *exprParser) parseUnary() (Expr, error) {
	if p.tok.kind == tokOp && (p.tok.text == "-" || p.tok.text == "+") {
		neg := p.tok.text == "-"
		p.next()
		e, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if neg {
			return MulOf(N(-1), e), nil
		}
		return e, nil
	}
	return p.parsePower()
}

func (p *exprParser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokOp && (p.tok.text == "**" || p.tok.text == "^") {
		p.next()
		// Right-associative; exponent may carry a unary sign.
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	}
	return base, nil
}

func (p *exprParser) parsePrimary() (Expr, error) {
	switch p.tok.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(p.tok.text, 64)
		if err != nil {
			return nil, p.errorf("bad number %q", p.tok.text)
		}
		p.next()
		return N(v), nil
	case tokIdent:
		name := p.tok.text
		p.next()
		if p.tok.kind == tokOp && p.tok.text == "(" {
			if !KnownFunction(name) {
				return nil, p.errorf("unknown function %q", name)
			}
			p.next()
			arg, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			if p.tok.kind != tokOp || p.tok.text != ")" {
				return nil, p.errorf("missing closing parenthesis")
			}
			p.next()
			return CallOf(name, arg), nil
		}
		return S(name), nil
	case tokOp:
		if p.tok.text == "(" {
			p.next()
			e, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			if p.tok.kind != tokOp || p.tok.text != ")" {
				return nil, p.errorf("missing closing parenthesis")
			}
			p.next()
			return e, nil
		}
	}
	return nil, p.errorf("unexpected %q", p.tok.text)
}
