package symbolic

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Expr is a node in an immutable expression tree. The variant set is closed:
// constants, symbols, sums, products, powers and named function calls. Every
// operation returns a new tree; existing nodes are never modified.
type Expr interface {
	// String renders the expression in a stable, human-readable form.
	String() string
	// Diff returns the partial derivative with respect to the named symbol.
	Diff(name string) Expr
	// Subs replaces free symbols according to the binding map.
	Subs(bind map[string]Expr) Expr
	// Eval computes a numeric value given bindings for all free symbols.
	Eval(vals map[string]float64) (float64, error)
	// Equal reports structural equality.
	Equal(other Expr) bool

	free(into map[string]struct{})
}

// FreeSymbols returns the sorted names of all free symbols in e.
func FreeSymbols(e Expr) []string {
	set := map[string]struct{}{}
	e.free(set)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsZero reports whether e simplified to the literal constant 0.
func IsZero(e Expr) bool {
	n, ok := e.(Num)
	return ok && n.Val == 0
}

// Num is a floating point constant.
type Num struct{ Val float64 }

// N wraps a float64 constant.
func N(v float64) Expr { return Num{Val: v} }

func (n Num) String() string {
	if n.Val == math.Trunc(n.Val) && math.Abs(n.Val) < 1e15 {
		return strconv.FormatFloat(n.Val, 'f', -1, 64)
	}
	return strconv.FormatFloat(n.Val, 'g', -1, 64)
}

func (n Num) Diff(string) Expr          { return Num{} }
func (n Num) Subs(map[string]Expr) Expr { return n }

func (n Num) Eval(map[string]float64) (float64, error) { return n.Val, nil }

func (n Num) free(map[string]struct{}) {}

func (n Num) Equal(other Expr) bool {
	o, ok := other.(Num)
	return ok && n.Val == o.Val
}

// Sym is a named symbol.
type Sym struct{ Name string }

// S creates a symbol with the given name.
func S(name string) Expr { return Sym{Name: name} }

func (s Sym) String() string { return s.Name }

func (s Sym) Subs(bind map[string]Expr) Expr {
	if e, ok := bind[s.Name]; ok {
		return e
	}
	return s
}

func (s Sym) Diff(name string) Expr {
	if s.Name == name {
		return Num{Val: 1}
	}
	return Num{}
}

func (s Sym) Eval(vals map[string]float64) (float64, error) {
	v, ok := vals[s.Name]
	if !ok {
		return 0, fmt.Errorf("symbolic: no value bound for %q", s.Name)
	}
	return v, nil
}

func (s Sym) Equal(other Expr) bool {
	o, ok := other.(Sym)
	return ok && s.Name == o.Name
}

func (s Sym) free(into map[string]struct{}) { into[s.Name] = struct{}{} }

// Add is a sum of two or more terms.
type Add struct{ Terms []Expr }

// AddOf sums the given terms, flattening nested sums, folding constants and
// dropping zero terms.
func AddOf(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	acc := 0.0
	for _, t := range terms {
		switch v := t.(type) {
		case Add:
			for _, inner := range v.Terms {
				if n, ok := inner.(Num); ok {
					acc += n.Val
				} else {
					flat = append(flat, inner)
				}
			}
		case Num:
			acc += v.Val
		default:
			flat = append(flat, t)
		}
	}
	if acc != 0 {
		flat = append(flat, Num{Val: acc})
	}
	switch len(flat) {
	case 0:
		return Num{}
	case 1:
		return flat[0]
	}
	return Add{Terms: flat}
}

func (a Add) String() string {
	var b strings.Builder
	for i, t := range a.Terms {
		neg, mag := splitNegative(t)
		if i == 0 {
			if neg {
				b.WriteString("-")
			}
		} else if neg {
			b.WriteString(" - ")
		} else {
			b.WriteString(" + ")
		}
		b.WriteString(mag.String())
	}
	return b.String()
}

func (a Add) Diff(name string) Expr {
	d := make([]Expr, len(a.Terms))
	for i, t := range a.Terms {
		d[i] = t.Diff(name)
	}
	return AddOf(d...)
}

func (a Add) Subs(bind map[string]Expr) Expr {
	out := make([]Expr, len(a.Terms))
	for i, t := range a.Terms {
		out[i] = t.Subs(bind)
	}
	return AddOf(out...)
}

func (a Add) Eval(vals map[string]float64) (float64, error) {
	sum := 0.0
	for _, t := range a.Terms {
		v, err := t.Eval(vals)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum, nil
}

func (a Add) Equal(other Expr) bool {
	o, ok := other.(Add)
	if !ok || len(a.Terms) != len(o.Terms) {
		return false
	}
	for i := range a.Terms {
		if !a.Terms[i].Equal(o.Terms[i]) {
			return false
		}
	}
	return true
}

func (a Add) free(into map[string]struct{}) {
	for _, t := range a.Terms {
		t.free(into)
	}
}

// Mul is a product of two or more factors. A numeric coefficient, when
// present, is always the first factor.
type Mul struct{ Factors []Expr }

// MulOf multiplies the given factors, flattening nested products and folding
// constants into a single leading coefficient. A zero factor collapses the
// whole product.
func MulOf(factors ...Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	coeff := 1.0
	for _, f := range factors {
		switch v := f.(type) {
		case Mul:
			for _, inner := range v.Factors {
				if n, ok := inner.(Num); ok {
					coeff *= n.Val
				} else {
					flat = append(flat, inner)
				}
			}
		case Num:
			coeff *= v.Val
		default:
			flat = append(flat, f)
		}
	}
	if coeff == 0 {
		return Num{}
	}
	if coeff != 1 {
		flat = append([]Expr{Num{Val: coeff}}, flat...)
	}
	switch len(flat) {
	case 0:
		return Num{Val: 1}
	case 1:
		return flat[0]
	}
	return Mul{Factors: flat}
}

// splitNegative strips a leading -1 coefficient so sums can print "a - b"
// instead of "a + -1*b".
func splitNegative(e Expr) (bool, Expr) {
	switch v := e.(type) {
	case Num:
		if v.Val < 0 {
			return true, Num{Val: -v.Val}
		}
	case Mul:
		if n, ok := v.Factors[0].(Num); ok && n.Val < 0 {
			rest := make([]Expr, len(v.Factors)-1)
			copy(rest, v.Factors[1:])
			if n.Val != -1 {
				rest = append([]Expr{Num{Val: -n.Val}}, rest...)
			}
			if len(rest) == 1 {
				return true, rest[0]
			}
			return true, Mul{Factors: rest}
		}
	}
	return false, e
}

func mulOperand(e Expr) string {
	if _, ok := e.(Add); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}

func (m Mul) String() string {
	parts := make([]string, 0, len(m.Factors))
	for i, f := range m.Factors {
		if i == 0 {
			if n, ok := f.(Num); ok && n.Val == -1 {
				parts = append(parts, "-")
				continue
			}
		}
		parts = append(parts, mulOperand(f))
	}
	if parts[0] == "-" {
		return "-" + strings.Join(parts[1:], "*")
	}
	return strings.Join(parts, "*")
}

func (m Mul) Diff(name string) Expr {
	// Product rule over n factors.
	terms := make([]Expr, 0, len(m.Factors))
	for i := range m.Factors {
		fs := make([]Expr, len(m.Factors))
		copy(fs, m.Factors)
		fs[i] = m.Factors[i].Diff(name)
		terms = append(terms, MulOf(fs...))
	}
	return AddOf(terms...)
}

func (m Mul) Subs(bind map[string]Expr) Expr {
	out := make([]Expr, len(m.Factors))
	for i, f := range m.Factors {
		out[i] = f.Subs(bind)
	}
	return MulOf(out...)
}

func (m Mul) Eval(vals map[string]float64) (float64, error) {
	prod := 1.0
	for _, f := range m.Factors {
		v, err := f.Eval(vals)
		if err != nil {
			return 0, err
		}
		prod *= v
	}
	return prod, nil
}

func (m Mul) Equal(other Expr) bool {
	o, ok := other.(Mul)
	if !ok || len(m.Factors) != len(o.Factors) {
		return false
	}
	for i := range m.Factors {
		if !m.Factors[i].Equal(o.Factors[i]) {
			return false
		}
	}
	return true
}

func (m Mul) free(into map[string]struct{}) {
	for _, f := range m.Factors {
		f.free(into)
	}
}

// Pow raises Base to Exponent.
type Pow struct {
	Base     Expr
	Exponent Expr
}

// PowOf builds a power, folding constant bases/exponents and the identities
// e^0 = 1 and e^1 = e.
func PowOf(base, exponent Expr) Expr {
	if n, ok := exponent.(Num); ok {
		if n.Val == 0 {
			return Num{Val: 1}
		}
		if n.Val == 1 {
			return base
		}
		if b, ok := base.(Num); ok {
			return Num{Val: math.Pow(b.Val, n.Val)}
		}
	}
	return Pow{Base: base, Exponent: exponent}
}

func powOperand(e Expr) string {
	switch e.(type) {
	case Add, Mul, Pow:
		return "(" + e.String() + ")"
	}
	if neg, _ := splitNegative(e); neg {
		return "(" + e.String() + ")"
	}
	return e.String()
}

func (p Pow) String() string {
	return powOperand(p.Base) + "**" + powOperand(p.Exponent)
}

func (p Pow) Diff(name string) Expr {
	if n, ok := p.Exponent.(Num); ok {
		// d(b^c) = c*b^(c-1)*b'
		return MulOf(n, PowOf(p.Base, Num{Val: n.Val - 1}), p.Base.Diff(name))
	}
	// General case via b^e = exp(e*log(b)).
	inner := AddOf(
		MulOf(p.Exponent.Diff(name), CallOf("log", p.Base)),
		MulOf(p.Exponent, p.Base.Diff(name), PowOf(p.Base, Num{Val: -1})),
	)
	return MulOf(PowOf(p.Base, p.Exponent), inner)
}

func (p Pow) Subs(bind map[string]Expr) Expr {
	return PowOf(p.Base.Subs(bind), p.Exponent.Subs(bind))
}

func (p Pow) Eval(vals map[string]float64) (float64, error) {
	b, err := p.Base.Eval(vals)
	if err != nil {
		return 0, err
	}
	e, err := p.Exponent.Eval(vals)
	if err != nil {
		return 0, err
	}
	return math.Pow(b, e), nil
}

func (p Pow) Equal(other Expr) bool {
	o, ok := other.(Pow)
	return ok && p.Base.Equal(o.Base) && p.Exponent.Equal(o.Exponent)
}

func (p Pow) free(into map[string]struct{}) {
	p.Base.free(into)
	p.Exponent.free(into)
}

// Call is a named unary function application.
type Call struct {
	Fn  string
	Arg Expr
}

var evalFns = map[string]func(float64) float64{
	"exp":  math.Exp,
	"log":  math.Log,
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"sqrt": math.Sqrt,
	"abs":  math.Abs,
}

// KnownFunction reports whether name is a supported unary function.
func KnownFunction(name string) bool {
	_, ok := evalFns[name]
	return ok
}

// CallOf applies a named function to an argument.
func CallOf(fn string, arg Expr) Expr { return Call{Fn: fn, Arg: arg} }

func (c Call) String() string { return c.Fn + "(" + c.Arg.String() + ")" }

func (c Call) Diff(name string) Expr {
	outer := c.chain()
	return MulOf(outer, c.Arg.Diff(name))
}

// chain returns the derivative of the function with respect to its argument.
func (c Call) chain() Expr {
	switch c.Fn {
	case "exp":
		return c
	case "log":
		return PowOf(c.Arg, Num{Val: -1})
	case "sin":
		return CallOf("cos", c.Arg)
	case "cos":
		return MulOf(Num{Val: -1}, CallOf("sin", c.Arg))
	case "tan":
		return PowOf(CallOf("cos", c.Arg), Num{Val: -2})
	case "sqrt":
		return MulOf(Num{Val: 0.5}, PowOf(c.Arg, Num{Val: -0.5}))
	case "abs":
		return CallOf("sign", c.Arg)
	}
	return Sym{Name: c.Fn + "'"}
}

func (c Call) Subs(bind map[string]Expr) Expr {
	return CallOf(c.Fn, c.Arg.Subs(bind))
}

func (c Call) Eval(vals map[string]float64) (float64, error) {
	fn, ok := evalFns[c.Fn]
	if !ok {
		return 0, fmt.Errorf("symbolic: cannot evaluate function %q", c.Fn)
	}
	v, err := c.Arg.Eval(vals)
	if err != nil {
		return 0, err
	}
	return fn(v), nil
}

func (c Call) Equal(other Expr) bool {
	o, ok := other.(Call)
	return ok && c.Fn == o.Fn && c.Arg.Equal(o.Arg)
}

func (c Call) free(into map[string]struct{}) { c.Arg.free(into) }
