package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/odegen/internal/symbolic"
)

// Printer renders symbolic expressions and elementary statements in one
// target language's surface syntax. The generator depends only on this
// interface; adding a target never touches equation derivation.
type Printer interface {
	// Expr renders an expression.
	Expr(e symbolic.Expr) string
	// Float renders a numeric literal.
	Float(v float64) string
	// Declare introduces a named local bound to a rendered value.
	Declare(name, value string) string
	// Assign stores a rendered value into an existing target.
	Assign(target, value string) string
	// Index renders element access on a vector argument.
	Index(base string, i int) string
	// Select renders a conditional expression choosing cond ? then : els.
	Select(cond, then, els string) string
}

// exprStyle parameterizes the shared expression walker with the pieces that
// differ between targets.
type exprStyle struct {
	float func(v float64) string
	pow   func(base, exp string) string
	call  map[string]string
}

func renderExpr(e symbolic.Expr, st exprStyle) string {
	switch v := e.(type) {
	case symbolic.Num:
		return st.float(v.Val)
	case symbolic.Sym:
		return v.Name
	case symbolic.Add:
		var b strings.Builder
		for i, t := range v.Terms {
			neg, mag := stripNegative(t)
			if i == 0 {
				if neg {
					b.WriteString("-")
				}
			} else if neg {
				b.WriteString(" - ")
			} else {
				b.WriteString(" + ")
			}
			b.WriteString(renderExpr(mag, st))
		}
		return b.String()
	case symbolic.Mul:
		factors := v.Factors
		prefix := ""
		if n, ok := factors[0].(symbolic.Num); ok && n.Val == -1 {
			prefix = "-"
			factors = factors[1:]
		}
		parts := make([]string, len(factors))
		for i, f := range factors {
			s := renderExpr(f, st)
			if needsParens(f) {
				s = "(" + s + ")"
			}
			parts[i] = s
		}
		return prefix + strings.Join(parts, "*")
	case symbolic.Pow:
		base := renderExpr(v.Base, st)
		exp := renderExpr(v.Exponent, st)
		return st.pow(base, exp)
	case symbolic.Call:
		fn, ok := st.call[v.Fn]
		if !ok {
			fn = v.Fn
		}
		return fn + "(" + renderExpr(v.Arg, st) + ")"
	}
	return e.String()
}

func stripNegative(e symbolic.Expr) (bool, symbolic.Expr) {
	switch v := e.(type) {
	case symbolic.Num:
		if v.Val < 0 {
			return true, symbolic.Num{Val: -v.Val}
		}
	case symbolic.Mul:
		if n, ok := v.Factors[0].(symbolic.Num); ok && n.Val < 0 {
			rest := make([]symbolic.Expr, 0, len(v.Factors))
			if n.Val != -1 {
				rest = append(rest, symbolic.Num{Val: -n.Val})
			}
			rest = append(rest, v.Factors[1:]...)
			if len(rest) == 1 {
				return true, rest[0]
			}
			return true, symbolic.Mul{Factors: rest}
		}
	}
	return false, e
}

func needsParens(e symbolic.Expr) bool {
	switch e.(type) {
	case symbolic.Add:
		return true
	}
	if neg, _ := stripNegative(e); neg {
		return true
	}
	return false
}

// floatLiteral renders v so that it reads as a floating point constant in
// C-family targets (a bare "1" would be an integer literal).
func floatLiteral(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type cPrinter struct{}

func (cPrinter) style() exprStyle {
	return exprStyle{
		float: floatLiteral,
		pow:   func(base, exp string) string { return fmt.Sprintf("pow(%s, %s)", base, exp) },
		call: map[string]string{
			"abs": "fabs",
		},
	}
}

func (p cPrinter) Expr(e symbolic.Expr) string { return renderExpr(e, p.style()) }
func (p cPrinter) Float(v float64) string      { return floatLiteral(v) }
func (cPrinter) Declare(name, value string) string {
	return fmt.Sprintf("const double %s = %s;", name, value)
}
func (cPrinter) Assign(target, value string) string {
	return fmt.Sprintf("%s = %s;", target, value)
}
func (cPrinter) Index(base string, i int) string { return fmt.Sprintf("%s[%d]", base, i) }
func (cPrinter) Select(cond, then, els string) string {
	return fmt.Sprintf("((%s) ? (%s) : (%s))", cond, then, els)
}

type pythonPrinter struct{}

func (pythonPrinter) style() exprStyle {
	return exprStyle{
		float: floatLiteral,
		pow: func(base, exp string) string {
			return fmt.Sprintf("%s**%s", parenIfCompound(base), parenIfCompound(exp))
		},
		call: map[string]string{
			"exp":  "numpy.exp",
			"log":  "numpy.log",
			"sin":  "numpy.sin",
			"cos":  "numpy.cos",
			"tan":  "numpy.tan",
			"sqrt": "numpy.sqrt",
			"abs":  "numpy.abs",
		},
	}
}

func parenIfCompound(s string) string {
	if strings.ContainsAny(s, " +-*/(") {
		return "(" + s + ")"
	}
	return s
}

func (p pythonPrinter) Expr(e symbolic.Expr) string { return renderExpr(e, p.style()) }
func (p pythonPrinter) Float(v float64) string      { return floatLiteral(v) }
func (pythonPrinter) Declare(name, value string) string {
	return fmt.Sprintf("%s = %s", name, value)
}
func (pythonPrinter) Assign(target, value string) string {
	return fmt.Sprintf("%s = %s", target, value)
}
func (pythonPrinter) Index(base string, i int) string { return fmt.Sprintf("%s[%d]", base, i) }
func (pythonPrinter) Select(cond, then, els string) string {
	return fmt.Sprintf("(%s if %s else %s)", then, cond, els)
}

type goPrinter struct{}

func (goPrinter) style() exprStyle {
	return exprStyle{
		float: floatLiteral,
		pow:   func(base, exp string) string { return fmt.Sprintf("math.Pow(%s, %s)", base, exp) },
		call: map[string]string{
			"exp":  "math.Exp",
			"log":  "math.Log",
			"sin":  "math.Sin",
			"cos":  "math.Cos",
			"tan":  "math.Tan",
			"sqrt": "math.Sqrt",
			"abs":  "math.Abs",
		},
	}
}

func (p goPrinter) Expr(e symbolic.Expr) string { return renderExpr(e, p.style()) }
func (p goPrinter) Float(v float64) string      { return floatLiteral(v) }

// Declare suppresses the unused-variable error right away: generated models
// may legitimately leave a state or parameter unreferenced.
func (goPrinter) Declare(name, value string) string {
	return fmt.Sprintf("%s := %s\n_ = %s", name, value, name)
}
func (goPrinter) Assign(target, value string) string {
	return fmt.Sprintf("%s = %s", target, value)
}
func (goPrinter) Index(base string, i int) string { return fmt.Sprintf("%s[%d]", base, i) }
func (goPrinter) Select(cond, then, els string) string {
	return fmt.Sprintf("when(%s, %s, %s)", cond, then, els)
}
