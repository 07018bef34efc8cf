package model

import (
	"testing"

	"github.com/san-kum/odegen/internal/atoms"
	"github.com/san-kum/odegen/internal/symbolic"
)

func param(name string, value float64) atoms.Parameter {
	return atoms.Parameter{Meta: atoms.Meta{Name: name}, Value: value}
}

func state(name string, value float64) atoms.State {
	return atoms.State{Meta: atoms.Meta{Name: name}, Value: value}
}

func inter(name, expr string) atoms.Intermediate {
	return atoms.Intermediate{Meta: atoms.Meta{Name: name}, Expr: symbolic.MustParse(expr)}
}

func deriv(st atoms.State, expr string) atoms.StateDerivative {
	return atoms.StateDerivative{
		Meta:  atoms.Meta{Name: "d" + st.Name + "_dt"},
		State: st,
		Expr:  symbolic.MustParse(expr),
	}
}

// lorentz builds the two-component Lorenz model used across the assembly,
// algebra and scheme tests.
func lorentz(t *testing.T) *ODE {
	t.Helper()

	x := state("x", 1.0)
	y := state("y", 2.0)
	z := state("z", 3.05)

	main := Component{
		Name:       "Main component",
		States:     []atoms.State{x, y},
		Parameters: []atoms.Parameter{param("sigma", 12.0), param("rho", 21.0)},
		Assignments: []atoms.Assignment{
			inter("rhoz", "rho - z"),
			deriv(y, "x*rhoz - y"),
			deriv(x, "sigma*(-x + y)"),
		},
	}
	zComp := Component{
		Name:       "Z component",
		States:     []atoms.State{z},
		Parameters: []atoms.Parameter{param("beta", 2.4)},
		Assignments: []atoms.Assignment{
			inter("betaz", "beta*z"),
			deriv(z, "-betaz + x*y"),
		},
	}

	ode, err := New("lorentz", []Component{main, zComp})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return ode
}
