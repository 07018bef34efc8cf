// Package model assembles parsed atoms into validated, immutable ODE values:
// completeness and uniqueness checking, global symbol resolution,
// deterministic dependency ordering and component algebra.
package model

import (
	"sort"

	"github.com/san-kum/odegen/internal/atoms"
	"github.com/san-kum/odegen/internal/symbolic"
)

const (
	// timeSymbolName is the canonical symbol bound to model time.
	timeSymbolName = "t"
	// reservedTimeName is the reserved atom name that aliases the time
	// symbol inside expressions.
	reservedTimeName = "time"
)

// ODE is an ordered collection of complete components with a globally unique
// namespace and a distinguished time symbol. Instances are immutable; every
// transformation returns a new value.
type ODE struct {
	name       string
	components []Component
	comments   []atoms.Comment
	time       symbolic.Expr
	symbols    map[string]symbolic.Expr
	lookup     map[string]atoms.Atom

	// Sorted views cached at construction for deterministic output.
	states           []atoms.State
	parameters       []atoms.Parameter
	intermediates    []atoms.Intermediate
	stateDerivatives []atoms.StateDerivative
}

// New validates and assembles components into an ODE. It checks completeness
// of every component, gathers the global symbol table (binding the reserved
// name "time" to the time symbol), rejects duplicate names before any
// expression is resolved, and rewrites every assignment expression onto the
// canonical per-model symbols.
func New(name string, components []Component, comments ...atoms.Comment) (*ODE, error) {
	if err := checkComponents(components); err != nil {
		return nil, err
	}

	names, symbols, lookup := gatherAtoms(components)
	if dupes := findDuplicates(names); len(dupes) > 0 {
		return nil, &DuplicateSymbolError{Names: dupes}
	}

	t := symbolic.S(timeSymbolName)
	symbols[reservedTimeName] = t

	resolved := resolveExpressions(components, symbols)
	for _, comp := range resolved {
		for _, a := range comp.Assignments {
			lookup[a.AtomName()] = a
		}
	}

	ode := &ODE{
		name:       name,
		components: resolved,
		comments:   comments,
		time:       t,
		symbols:    symbols,
		lookup:     lookup,
	}
	ode.cacheViews()
	return ode, nil
}

func checkComponents(components []Component) error {
	for _, comp := range components {
		if missing := comp.StatesWithoutDerivatives(); len(missing) > 0 {
			names := make([]string, len(missing))
			for i, s := range missing {
				names[i] = s.Name
			}
			return &ComponentNotCompleteError{
				Component:               comp.Name,
				MissingStateDerivatives: names,
			}
		}
	}
	return nil
}

func gatherAtoms(components []Component) ([]string, map[string]symbolic.Expr, map[string]atoms.Atom) {
	var names []string
	symbols := map[string]symbolic.Expr{}
	lookup := map[string]atoms.Atom{}
	add := func(a atoms.Atom) {
		names = append(names, a.AtomName())
		symbols[a.AtomName()] = a.Symbol()
		lookup[a.AtomName()] = a
	}
	for _, comp := range components {
		for _, p := range comp.Parameters {
			add(p)
		}
		for _, s := range comp.States {
			add(s)
		}
		for _, a := range comp.Assignments {
			add(a)
		}
	}
	return names, symbols, lookup
}

func findDuplicates(names []string) []string {
	seen := map[string]struct{}{}
	dupes := map[string]struct{}{}
	for _, name := range names {
		if _, ok := seen[name]; ok {
			dupes[name] = struct{}{}
		}
		seen[name] = struct{}{}
	}
	out := make([]string, 0, len(dupes))
	for name := range dupes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func resolveExpressions(components []Component, symbols map[string]symbolic.Expr) []Component {
	out := make([]Component, len(components))
	for i, comp := range components {
		resolved := make([]atoms.Assignment, len(comp.Assignments))
		for j, a := range comp.Assignments {
			resolved[j] = a.Resolve(symbols)
		}
		out[i] = Component{
			Name:        comp.Name,
			States:      comp.States,
			Parameters:  comp.Parameters,
			Assignments: resolved,
		}
	}
	return out
}

func (o *ODE) cacheViews() {
	for _, comp := range o.components {
		o.states = append(o.states, comp.States...)
		o.parameters = append(o.parameters, comp.Parameters...)
		o.intermediates = append(o.intermediates, comp.Intermediates()...)
		o.stateDerivatives = append(o.stateDerivatives, comp.StateDerivatives()...)
	}
	sort.Slice(o.states, func(i, j int) bool { return o.states[i].Name < o.states[j].Name })
	sort.Slice(o.parameters, func(i, j int) bool { return o.parameters[i].Name < o.parameters[j].Name })
	sort.Slice(o.intermediates, func(i, j int) bool { return o.intermediates[i].Name < o.intermediates[j].Name })
	sort.Slice(o.stateDerivatives, func(i, j int) bool { return o.stateDerivatives[i].Name < o.stateDerivatives[j].Name })
}

// Name returns the model name.
func (o *ODE) Name() string { return o.name }

// Components returns the components in assembly order.
func (o *ODE) Components() []Component { return o.components }

// Component returns the named component.
func (o *ODE) Component(name string) (Component, bool) {
	for _, comp := range o.components {
		if comp.Name == name {
			return comp, true
		}
	}
	return Component{}, false
}

// Comments returns the ordered documentation comments.
func (o *ODE) Comments() []atoms.Comment { return o.comments }

// Time returns the distinguished time symbol.
func (o *ODE) Time() symbolic.Expr { return o.time }

// States returns all states sorted by name.
func (o *ODE) States() []atoms.State { return o.states }

// Parameters returns all parameters sorted by name.
func (o *ODE) Parameters() []atoms.Parameter { return o.parameters }

// Intermediates returns all intermediates sorted by name.
func (o *ODE) Intermediates() []atoms.Intermediate { return o.intermediates }

// StateDerivatives returns all state derivatives sorted by name.
func (o *ODE) StateDerivatives() []atoms.StateDerivative { return o.stateDerivatives }

func (o *ODE) NumStates() int     { return len(o.states) }
func (o *ODE) NumParameters() int { return len(o.parameters) }
func (o *ODE) NumComponents() int { return len(o.components) }

// Symbols returns the name to canonical symbol table, including the reserved
// "time" entry.
func (o *ODE) Symbols() map[string]symbolic.Expr {
	out := make(map[string]symbolic.Expr, len(o.symbols))
	for k, v := range o.symbols {
		out[k] = v
	}
	return out
}

// Lookup returns the atom with the given name.
func (o *ODE) Lookup(name string) (atoms.Atom, bool) {
	a, ok := o.lookup[name]
	return a, ok
}

// MissingVariables returns the sorted symbol names referenced by the model's
// expressions but not defined by any of its atoms: the coupling surface of a
// sub-model extracted from a larger one. A self-contained model has none.
func (o *ODE) MissingVariables() []string {
	whole := Component{Name: o.name}
	for _, comp := range o.components {
		whole.States = append(whole.States, comp.States...)
		whole.Parameters = append(whole.Parameters, comp.Parameters...)
		whole.Assignments = append(whole.Assignments, comp.Assignments...)
	}
	return whole.MissingVariables()
}

// allAssignments returns intermediates then state derivatives, each in
// name-sorted order. The feed is name-sorted rather than declaration-ordered
// so the topological tie-break is identical for any declaration order of the
// same model, not just reproducible across runs.
func (o *ODE) allAssignments() []atoms.Assignment {
	out := make([]atoms.Assignment, 0, len(o.intermediates)+len(o.stateDerivatives))
	for _, i := range o.intermediates {
		out = append(out, i)
	}
	for _, d := range o.stateDerivatives {
		out = append(out, d)
	}
	return out
}

// SortedAssignments returns every assignment in dependency order: each
// assignment appears strictly after all assignments its expression depends
// on. A cycle in the dependency graph is a fatal DependencyCycleError.
func (o *ODE) SortedAssignments() ([]atoms.Assignment, error) {
	names, err := SortAssignments(o.allAssignments(), true)
	if err != nil {
		return nil, err
	}
	out := make([]atoms.Assignment, len(names))
	for i, name := range names {
		out[i] = o.lookup[name].(atoms.Assignment)
	}
	return out, nil
}

// SortedStateDerivatives returns the state derivatives in dependency order.
func (o *ODE) SortedStateDerivatives() ([]atoms.StateDerivative, error) {
	sorted, err := o.SortedAssignments()
	if err != nil {
		return nil, err
	}
	var out []atoms.StateDerivative
	for _, a := range sorted {
		if d, ok := a.(atoms.StateDerivative); ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// SortedStates returns the states in the order their derivatives appear in
// the dependency-sorted assignment list.
func (o *ODE) SortedStates() ([]atoms.State, error) {
	derivs, err := o.SortedStateDerivatives()
	if err != nil {
		return nil, err
	}
	out := make([]atoms.State, len(derivs))
	for i, d := range derivs {
		out[i] = d.State
	}
	return out, nil
}
