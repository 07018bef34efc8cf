package symbolic

import (
	"math"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		wrt  string
		want string
	}{
		{"constant", N(3), "x", "0"},
		{"same symbol", S("x"), "x", "1"},
		{"other symbol", S("y"), "x", "0"},
		{"linear", MulOf(N(-1), S("a"), S("x")), "x", "-a"},
		{"sum", AddOf(S("x"), S("y")), "x", "1"},
		{"product rule", MulOf(S("x"), S("y")), "x", "y"},
		{"power", PowOf(S("x"), N(2)), "x", "2*x"},
		{"exp chain", CallOf("exp", MulOf(S("a"), S("x"))), "x", "exp(a*x)*a"},
		{"cos", CallOf("sin", S("x")), "x", "cos(x)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.expr.Diff(tt.wrt).String()
			if got != tt.want {
				t.Errorf("Diff(%s, %s) = %s, want %s", tt.expr, tt.wrt, got, tt.want)
			}
		})
	}
}

func TestSecondDerivativeOfLinearIsZero(t *testing.T) {
	expr := MustParse("-a*x + b*y")
	first := expr.Diff("x")
	if !IsZero(first.Diff("x")) {
		t.Errorf("expected zero second derivative, got %s", first.Diff("x"))
	}
	if first.String() != "-a" {
		t.Errorf("expected -a, got %s", first)
	}
}

func TestFreeSymbols(t *testing.T) {
	expr := MustParse("sigma*(-x + y) + exp(z)")
	got := FreeSymbols(expr)
	want := []string{"sigma", "x", "y", "z"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("FreeSymbols = %v, want %v", got, want)
	}
}

func TestSubs(t *testing.T) {
	expr := MustParse("y_int - y")
	resolved := expr.Subs(map[string]Expr{"y_int": MustParse("x*(rho - z)")})
	if resolved.String() != "x*(rho - z) - y" {
		t.Errorf("got %s", resolved)
	}
	// Substitution builds a new tree; the original is untouched.
	if expr.String() != "y_int - y" {
		t.Errorf("original mutated: %s", expr)
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		src  string
		vals map[string]float64
		want float64
	}{
		{"-a*x", map[string]float64{"a": 2, "x": 3}, -6},
		{"x**2 + 1", map[string]float64{"x": 3}, 10},
		{"exp(0)", nil, 1},
		{"x/y", map[string]float64{"x": 1, "y": 4}, 0.25},
		{"sqrt(abs(-4))", nil, 2},
	}

	for _, tt := range tests {
		e := MustParse(tt.src)
		got, err := e.Eval(tt.vals)
		if err != nil {
			t.Fatalf("Eval(%s) failed: %v", tt.src, err)
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Eval(%s) = %g, want %g", tt.src, got, tt.want)
		}
	}
}

func TestEvalUnboundSymbol(t *testing.T) {
	if _, err := MustParse("a*x").Eval(map[string]float64{"a": 1}); err == nil {
		t.Error("expected error for unbound symbol")
	}
}

func TestEqualStructural(t *testing.T) {
	a := MustParse("sigma*(-x + y)")
	b := MustParse("sigma*(-x + y)")
	if !a.Equal(b) {
		t.Error("identical expressions should be equal")
	}
	if a.Equal(MustParse("sigma*(x + y)")) {
		t.Error("different expressions should not be equal")
	}
}

func TestConstantFolding(t *testing.T) {
	tests := []struct {
		expr Expr
		want string
	}{
		{AddOf(N(1), N(2), S("x")), "x + 3"},
		{MulOf(N(2), N(3), S("x")), "6*x"},
		{MulOf(N(0), S("x")), "0"},
		{PowOf(S("x"), N(0)), "1"},
		{PowOf(S("x"), N(1)), "x"},
		{PowOf(N(2), N(3)), "8"},
	}
	for _, tt := range tests {
		if got := tt.expr.String(); got != tt.want {
			t.Errorf("got %s, want %s", got, tt.want)
		}
	}
}
