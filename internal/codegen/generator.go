// Package codegen orchestrates which symbolic artifacts are rendered, in
// what argument order, and delegates all surface syntax to per-target
// templates and printers.
package codegen

import (
	"fmt"
	"go/format"
	"strings"

	"github.com/san-kum/odegen/internal/model"
	"github.com/san-kum/odegen/internal/schemes"
	"github.com/san-kum/odegen/internal/symbolic"
)

// DefaultDelta is the threshold on |a*dt| below which Rush-Larsen updates
// fall back to explicit Euler to avoid dividing by a vanishing coefficient.
const DefaultDelta = 1e-8

// Scheme names a generated time-stepping method.
type Scheme string

const (
	SchemeForwardExplicitEuler        Scheme = "forward_explicit_euler"
	SchemeGeneralizedRushLarsen       Scheme = "generalized_rush_larsen"
	SchemeHybridGeneralizedRushLarsen Scheme = "hybrid_generalized_rush_larsen"
)

// ParseScheme validates a scheme name.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case SchemeForwardExplicitEuler, SchemeGeneralizedRushLarsen, SchemeHybridGeneralizedRushLarsen:
		return Scheme(s), nil
	}
	return "", fmt.Errorf("codegen: unknown scheme %q", s)
}

// Formatter post-processes rendered source. Formatting is best effort: a
// failing formatter is reported through the warn hook and the unformatted
// text is used unchanged.
type Formatter func(code string) (string, error)

// Generator produces target-language source text for one ODE. The zero
// value is not usable; construct with NewC, NewPython, NewGo or ForTarget.
type Generator struct {
	sys       *schemes.System
	tmpl      Template
	printer   Printer
	formatter Formatter
	warnf     func(format string, args ...any)
}

// NewC creates a generator emitting C source.
func NewC(ode *model.ODE) *Generator {
	return &Generator{sys: schemes.NewSystem(ode), tmpl: cTemplate{}, printer: cPrinter{}}
}

// NewPython creates a generator emitting numpy-based Python source.
func NewPython(ode *model.ODE) *Generator {
	return &Generator{sys: schemes.NewSystem(ode), tmpl: pythonTemplate{}, printer: pythonPrinter{}}
}

// NewGo creates a generator emitting Go source, formatted with go/format.
func NewGo(ode *model.ODE) *Generator {
	g := &Generator{sys: schemes.NewSystem(ode), tmpl: goTemplate{}, printer: goPrinter{}}
	g.formatter = func(code string) (string, error) {
		out, err := format.Source([]byte(code))
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	return g
}

// ForTarget creates a generator by target name: "c", "python" or "go".
func ForTarget(ode *model.ODE, target string) (*Generator, error) {
	switch target {
	case "c":
		return NewC(ode), nil
	case "python":
		return NewPython(ode), nil
	case "go":
		return NewGo(ode), nil
	}
	return nil, fmt.Errorf("codegen: unknown target %q", target)
}

// SetFormatter replaces the post-rendering formatter.
func (g *Generator) SetFormatter(f Formatter) { g.formatter = f }

// SetWarnf installs a hook receiving non-fatal generation warnings.
func (g *Generator) SetWarnf(warnf func(format string, args ...any)) { g.warnf = warnf }

func (g *Generator) ode() *model.ODE { return g.sys.ODE() }

func (g *Generator) warn(format string, args ...any) {
	if g.warnf != nil {
		g.warnf(format, args...)
	}
}

// format applies the optional formatter. Failures degrade to the input.
func (g *Generator) format(code string) string {
	if g.formatter == nil {
		return code
	}
	out, err := g.formatter(code)
	if err != nil {
		g.warn("formatting failed, emitting unformatted code: %v", err)
		return code
	}
	return out
}

// Header returns the target module preamble.
func (g *Generator) Header() string {
	return g.format(g.tmpl.Header(g.ode().Name()))
}

// StateIndex returns the name to position mapping for states.
func (g *Generator) StateIndex() string {
	return g.format(g.tmpl.StateIndex(stateIndexEntries(g.ode())))
}

// ParameterIndex returns the name to position mapping for parameters.
func (g *Generator) ParameterIndex() string {
	entries := make([]IndexEntry, 0, g.ode().NumParameters())
	for i, p := range g.ode().Parameters() {
		entries = append(entries, IndexEntry{Name: p.Name, Index: i})
	}
	return g.format(g.tmpl.ParameterIndex(entries))
}

// MissingIndex returns the name to position mapping for the coupling
// variables of a sub-model, or the empty string for self-contained models.
func (g *Generator) MissingIndex() string {
	missing := g.ode().MissingVariables()
	if len(missing) == 0 {
		return ""
	}
	entries := make([]IndexEntry, len(missing))
	for i, name := range missing {
		entries[i] = IndexEntry{Name: name, Index: i}
	}
	return g.format(g.tmpl.MissingIndex(entries))
}

// InitialStateValues returns the initial-state vector initializer.
func (g *Generator) InitialStateValues() string {
	entries := make([]ValueEntry, 0, g.ode().NumStates())
	var lines []string
	for i, s := range g.ode().States() {
		entries = append(entries, ValueEntry{Name: s.Name, Value: s.Value})
		lines = append(lines, g.printer.Assign(g.printer.Index("states", i), g.printer.Float(s.Value)))
	}
	return g.format(g.tmpl.InitStateValues(entries, strings.Join(lines, "\n")))
}

// InitialParameterValues returns the default-parameter vector initializer.
func (g *Generator) InitialParameterValues() string {
	entries := make([]ValueEntry, 0, g.ode().NumParameters())
	var lines []string
	for i, p := range g.ode().Parameters() {
		entries = append(entries, ValueEntry{Name: p.Name, Value: p.Value})
		lines = append(lines, g.printer.Assign(g.printer.Index("parameters", i), g.printer.Float(p.Value)))
	}
	return g.format(g.tmpl.InitParameterValues(entries, strings.Join(lines, "\n")))
}

func stateIndexEntries(ode *model.ODE) []IndexEntry {
	entries := make([]IndexEntry, 0, ode.NumStates())
	for i, s := range ode.States() {
		entries = append(entries, IndexEntry{Name: s.Name, Index: i})
	}
	return entries
}

func (g *Generator) statePrologue() string {
	var lines []string
	for i, s := range g.ode().States() {
		lines = append(lines, g.printer.Declare(s.Name, g.printer.Index("states", i)))
	}
	return strings.Join(lines, "\n")
}

func (g *Generator) parameterPrologue() string {
	var lines []string
	for i, p := range g.ode().Parameters() {
		lines = append(lines, g.printer.Declare(p.Name, g.printer.Index("parameters", i)))
	}
	return strings.Join(lines, "\n")
}

func (g *Generator) missingPrologue() string {
	var lines []string
	for i, name := range g.ode().MissingVariables() {
		lines = append(lines, g.printer.Declare(name, g.printer.Index("missing_variables", i)))
	}
	return strings.Join(lines, "\n")
}

// localAssignments renders the dependency-ordered assignment list, every
// assignment bound to a local of its own name.
func (g *Generator) localAssignments() ([]string, error) {
	sorted, err := g.ode().SortedAssignments()
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(sorted))
	for _, a := range sorted {
		lines = append(lines, g.printer.Declare(a.AtomName(), g.printer.Expr(a.Expression())))
	}
	return lines, nil
}

func (g *Generator) method(name string, order ArgOrder, body []string, extra ...string) string {
	m := Method{
		Name:       name,
		Args:       g.tmpl.MethodArgs(order, len(g.ode().MissingVariables()) > 0, extra...),
		States:     g.statePrologue(),
		Parameters: g.parameterPrologue(),
		Missing:    g.missingPrologue(),
		Body:       strings.Join(body, "\n"),
		ReturnName: "values",
	}
	return g.format(g.tmpl.Method(m))
}

// RHS generates the right-hand-side function: prologue, dependency-ordered
// assignments, then one output write per state.
func (g *Generator) RHS(order ArgOrder) (string, error) {
	body, err := g.localAssignments()
	if err != nil {
		return "", err
	}
	derivByState := map[string]string{}
	for _, d := range g.ode().StateDerivatives() {
		derivByState[d.State.Name] = d.Name
	}
	for i, s := range g.ode().States() {
		target := g.printer.Index("values", i)
		body = append(body, g.printer.Assign(target, derivByState[s.Name]))
	}
	return g.method("rhs", order, body), nil
}

// ForwardExplicitEuler generates the explicit Euler step
// values[i] = state + dt*derivative.
func (g *Generator) ForwardExplicitEuler(order ArgOrder) (string, error) {
	updates, err := g.sys.ForwardExplicitEuler()
	if err != nil {
		return "", err
	}
	return g.schemeMethod(string(SchemeForwardExplicitEuler), order, updates, DefaultDelta)
}

// GeneralizedRushLarsen generates the Rush-Larsen step for every eligible
// state and explicit Euler for the rest.
func (g *Generator) GeneralizedRushLarsen(order ArgOrder, delta float64) (string, error) {
	updates, err := g.sys.RushLarsenUpdates()
	if err != nil {
		return "", err
	}
	return g.schemeMethod(string(SchemeGeneralizedRushLarsen), order, updates, delta)
}

// HybridGeneralizedRushLarsen generates Rush-Larsen updates only for the
// named stiff states; all other states step with explicit Euler.
func (g *Generator) HybridGeneralizedRushLarsen(order ArgOrder, stiff []string, delta float64) (string, error) {
	updates, err := g.sys.HybridRushLarsen(stiff)
	if err != nil {
		return "", err
	}
	return g.schemeMethod(string(SchemeHybridGeneralizedRushLarsen), order, updates, delta)
}

func (g *Generator) schemeMethod(name string, order ArgOrder, updates []schemes.StateUpdate, delta float64) (string, error) {
	body, err := g.localAssignments()
	if err != nil {
		return "", err
	}
	for _, u := range updates {
		target := g.printer.Index("values", u.Index)
		switch u.Kind {
		case schemes.RushLarsen:
			lin := u.Derivative.Name + "_linearized"
			body = append(body, g.printer.Declare(lin, g.printer.Expr(u.Coefficient)))
			factor := g.printer.Select(
				g.rushLarsenGuard(lin, delta),
				g.rushLarsenFactor(lin),
				"dt",
			)
			value := fmt.Sprintf("%s + %s*%s", u.State.Name, factor, u.Derivative.Name)
			body = append(body, g.printer.Assign(target, value))
		default:
			value := symbolic.AddOf(
				symbolic.S(u.State.Name),
				symbolic.MulOf(symbolic.S("dt"), symbolic.S(u.Derivative.Name)),
			)
			body = append(body, g.printer.Assign(target, g.printer.Expr(value)))
		}
	}
	return g.method(name, order, body, "dt"), nil
}

// rushLarsenGuard renders the |a*dt| > delta test that keeps the
// exponential factor away from the removable singularity at a = 0.
func (g *Generator) rushLarsenGuard(lin string, delta float64) string {
	abs := symbolic.CallOf("abs", symbolic.MulOf(symbolic.S(lin), symbolic.S("dt")))
	return fmt.Sprintf("%s > %s", g.printer.Expr(abs), g.printer.Float(delta))
}

// rushLarsenFactor renders (exp(a*dt) - 1)/a, the closed-form step factor.
func (g *Generator) rushLarsenFactor(lin string) string {
	exp := symbolic.CallOf("exp", symbolic.MulOf(symbolic.S(lin), symbolic.S("dt")))
	return fmt.Sprintf("(%s - 1)/%s", g.printer.Expr(exp), lin)
}

// ModuleOptions selects what a full generated module contains.
type ModuleOptions struct {
	Order   ArgOrder
	Schemes []Scheme
	Stiff   []string
	Delta   float64
}

// Module renders a complete target module: header, index maps, initial
// value blocks, the rhs function and one function per requested scheme.
func (g *Generator) Module(opts ModuleOptions) (string, error) {
	delta := opts.Delta
	if delta == 0 {
		delta = DefaultDelta
	}

	parts := []string{
		g.Header(),
		g.StateIndex(),
		g.ParameterIndex(),
	}
	if missing := g.MissingIndex(); missing != "" {
		parts = append(parts, missing)
	}
	parts = append(parts, g.InitialStateValues(), g.InitialParameterValues())

	rhs, err := g.RHS(opts.Order)
	if err != nil {
		return "", err
	}
	parts = append(parts, rhs)

	for _, scheme := range opts.Schemes {
		var code string
		switch scheme {
		case SchemeForwardExplicitEuler:
			code, err = g.ForwardExplicitEuler(opts.Order)
		case SchemeGeneralizedRushLarsen:
			code, err = g.GeneralizedRushLarsen(opts.Order, delta)
		case SchemeHybridGeneralizedRushLarsen:
			code, err = g.HybridGeneralizedRushLarsen(opts.Order, opts.Stiff, delta)
		default:
			err = fmt.Errorf("codegen: unknown scheme %q", scheme)
		}
		if err != nil {
			return "", err
		}
		parts = append(parts, code)
	}
	return strings.Join(parts, "\n"), nil
}
