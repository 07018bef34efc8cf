package atoms

import (
	"strings"
	"testing"

	"github.com/san-kum/odegen/internal/symbolic"
)

func TestDependenciesSorted(t *testing.T) {
	i := Intermediate{
		Meta: Meta{Name: "i"},
		Expr: symbolic.MustParse("z*a + m"),
	}
	if got := i.Dependencies(); strings.Join(got, ",") != "a,m,z" {
		t.Errorf("dependencies = %v", got)
	}
}

func TestResolveReturnsNewAssignment(t *testing.T) {
	orig := Intermediate{
		Meta: Meta{Name: "i"},
		Expr: symbolic.MustParse("x + 1"),
	}
	resolved := orig.Resolve(map[string]symbolic.Expr{"x": symbolic.S("x_canon")})

	if got := resolved.Expression().String(); got != "x_canon + 1" {
		t.Errorf("resolved = %s", got)
	}
	if got := orig.Expr.String(); got != "x + 1" {
		t.Errorf("original mutated: %s", got)
	}
}

func TestStateDerivativeKeepsState(t *testing.T) {
	v := State{Meta: Meta{Name: "v"}, Value: -85.0}
	d := StateDerivative{
		Meta:  Meta{Name: "dv_dt"},
		State: v,
		Expr:  symbolic.MustParse("-v"),
	}
	resolved, ok := d.Resolve(map[string]symbolic.Expr{}).(StateDerivative)
	if !ok {
		t.Fatalf("resolve changed type: %T", resolved)
	}
	if resolved.State.Name != "v" {
		t.Errorf("state = %s", resolved.State.Name)
	}
}

func TestSymbol(t *testing.T) {
	p := Parameter{Meta: Meta{Name: "g_Na"}, Value: 120}
	if !p.Symbol().Equal(symbolic.S("g_Na")) {
		t.Error("symbol should be the name bound as a plain symbol")
	}
}
