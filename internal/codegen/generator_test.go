package codegen

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/san-kum/odegen/internal/atoms"
	"github.com/san-kum/odegen/internal/model"
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

func decayODE(t *testing.T) *model.ODE {
	t.Helper()
	x := state("x", 1.0)
	comp := model.Component{
		Name:        "decay",
		States:      []atoms.State{x},
		Parameters:  []atoms.Parameter{param("a", 1.0)},
		Assignments: []atoms.Assignment{deriv(x, "-a*x")},
	}
	ode, err := model.New("decay", []model.Component{comp})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return ode
}

// subODE builds a coupled sub-model whose derivative references two
// variables defined elsewhere.
func subODE(t *testing.T) *model.ODE {
	t.Helper()
	z := state("z", 3.05)
	comp := model.Component{
		Name:       "Z component",
		States:     []atoms.State{z},
		Parameters: []atoms.Parameter{param("beta", 2.4)},
		Assignments: []atoms.Assignment{
			inter("betaz", "beta*z"),
			deriv(z, "-betaz + x*y"),
		},
	}
	ode, err := model.New("Z component", []model.Component{comp})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return ode
}

func TestPythonRHS(t *testing.T) {
	gen := NewPython(decayODE(t))

	got, err := gen.RHS(OrderTSP)
	if err != nil {
		t.Fatalf("RHS failed: %v", err)
	}
	want := `def rhs(t, states, parameters):

    # Assign states
    x = states[0]

    # Assign parameters
    a = parameters[0]

    # Assign expressions

    values = numpy.zeros_like(states)
    dx_dt = -a*x
    values[0] = dx_dt

    return values
`
	if got != want {
		t.Errorf("rhs mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPythonStateIndex(t *testing.T) {
	gen := NewPython(decayODE(t))
	want := `def state_index(name: str) -> int:
    """Return the index of the state with the given name"""
    data = {"x": 0}
    return data[name]
`
	if got := gen.StateIndex(); got != want {
		t.Errorf("state_index mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPythonInitStateValues(t *testing.T) {
	gen := NewPython(decayODE(t))
	want := `def init_state_values():
    # x=1.0
    return numpy.array([1.0])
`
	if got := gen.InitialStateValues(); got != want {
		t.Errorf("init_state_values mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPythonForwardExplicitEuler(t *testing.T) {
	gen := NewPython(decayODE(t))
	got, err := gen.ForwardExplicitEuler(OrderTSP)
	if err != nil {
		t.Fatalf("ForwardExplicitEuler failed: %v", err)
	}
	if !strings.Contains(got, "def forward_explicit_euler(t, states, parameters, dt):") {
		t.Errorf("missing signature:\n%s", got)
	}
	if !strings.Contains(got, "values[0] = x + dt*dx_dt") {
		t.Errorf("missing euler update:\n%s", got)
	}
}

func TestPythonGeneralizedRushLarsen(t *testing.T) {
	gen := NewPython(decayODE(t))
	got, err := gen.GeneralizedRushLarsen(OrderTSP, DefaultDelta)
	if err != nil {
		t.Fatalf("GeneralizedRushLarsen failed: %v", err)
	}
	for _, want := range []string{
		"dx_dt_linearized = -a",
		"numpy.abs(dx_dt_linearized*dt) > 1e-08",
		"(numpy.exp(dx_dt_linearized*dt) - 1)/dx_dt_linearized",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestPythonHybridRushLarsenEulerStates(t *testing.T) {
	gen := NewPython(decayODE(t))
	got, err := gen.HybridGeneralizedRushLarsen(OrderTSP, []string{}, DefaultDelta)
	if err != nil {
		t.Fatalf("HybridGeneralizedRushLarsen failed: %v", err)
	}
	if strings.Contains(got, "dx_dt_linearized") {
		t.Errorf("non-stiff state should not be linearized:\n%s", got)
	}
	if !strings.Contains(got, "values[0] = x + dt*dx_dt") {
		t.Errorf("missing euler update:\n%s", got)
	}
}

func TestMissingIndexEmptyForClosedModel(t *testing.T) {
	gen := NewPython(decayODE(t))
	if got := gen.MissingIndex(); got != "" {
		t.Errorf("closed model should have no missing index, got:\n%s", got)
	}
}

func TestCSubModel(t *testing.T) {
	gen := NewC(subODE(t))

	got, err := gen.RHS(OrderSTP)
	if err != nil {
		t.Fatalf("RHS failed: %v", err)
	}
	sig := "void rhs(const double* states, const double t, const double* parameters, const double* missing_variables, double* values){"
	if !strings.Contains(got, sig) {
		t.Errorf("missing signature %q in:\n%s", sig, got)
	}
	for _, want := range []string{
		"// Assign missing variables",
		"const double x = missing_variables[0];",
		"const double y = missing_variables[1];",
		"const double betaz = beta*z;",
		"const double dz_dt = -betaz + x*y;",
		"values[0] = dz_dt;",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}

	index := gen.MissingIndex()
	if !strings.Contains(index, `if (strcmp(name, "x") == 0) return 0;`) {
		t.Errorf("missing index entry in:\n%s", index)
	}
}

func TestCInitParameterValues(t *testing.T) {
	gen := NewC(subODE(t))
	got := gen.InitialParameterValues()
	for _, want := range []string{
		"void init_parameter_values(double* parameters){",
		"beta=2.4",
		"parameters[0] = 2.4;",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestGoHeaderFormats(t *testing.T) {
	gen := NewGo(decayODE(t))
	var warned bool
	gen.SetWarnf(func(string, ...any) { warned = true })

	got := gen.Header()
	for _, want := range []string{
		"package decay",
		`import "math"`,
		"func when(cond bool, a, b float64) float64 {",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if warned {
		t.Error("header should format cleanly")
	}
}

func TestGoRHS(t *testing.T) {
	gen := NewGo(decayODE(t))
	// Function fragments are not whole files; skip gofmt for exact layout.
	gen.SetFormatter(nil)

	got, err := gen.RHS(OrderTSP)
	if err != nil {
		t.Fatalf("RHS failed: %v", err)
	}
	for _, want := range []string{
		"func Rhs(t float64, states []float64, parameters []float64, values []float64) {",
		"x := states[0]",
		"_ = x",
		"dx_dt := -a*x",
		"values[0] = dx_dt",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatterFailureFallsBack(t *testing.T) {
	gen := NewPython(decayODE(t))
	gen.SetFormatter(func(code string) (string, error) {
		return "", errors.New("boom")
	})
	var warnings []string
	gen.SetWarnf(func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	})

	got := gen.StateIndex()
	if !strings.Contains(got, "def state_index") {
		t.Errorf("unformatted code should be emitted:\n%s", got)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "boom") {
		t.Errorf("expected one warning naming the cause, got %v", warnings)
	}
}

func TestModule(t *testing.T) {
	gen := NewPython(decayODE(t))
	got, err := gen.Module(ModuleOptions{
		Order:   OrderTSP,
		Schemes: []Scheme{SchemeForwardExplicitEuler, SchemeGeneralizedRushLarsen},
	})
	if err != nil {
		t.Fatalf("Module failed: %v", err)
	}
	for _, want := range []string{
		"# Generated code for decay",
		"import numpy",
		"def state_index(",
		"def parameter_index(",
		"def init_state_values(",
		"def init_parameter_values(",
		"def rhs(",
		"def forward_explicit_euler(",
		"def generalized_rush_larsen(",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("module missing %q", want)
		}
	}
	if strings.Contains(got, "def missing_index(") {
		t.Error("closed model should not emit a missing index")
	}
}

func TestModuleUnknownScheme(t *testing.T) {
	gen := NewPython(decayODE(t))
	if _, err := gen.Module(ModuleOptions{Schemes: []Scheme{"nope"}}); err == nil {
		t.Error("expected error for unknown scheme")
	}
}

func TestForTarget(t *testing.T) {
	ode := decayODE(t)
	for _, target := range []string{"c", "python", "go"} {
		if _, err := ForTarget(ode, target); err != nil {
			t.Errorf("target %s: %v", target, err)
		}
	}
	if _, err := ForTarget(ode, "fortran"); err == nil {
		t.Error("expected error for unknown target")
	}
}
