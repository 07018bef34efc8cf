package model

import (
	"sort"

	"github.com/san-kum/odegen/internal/atoms"
)

// Component is a named, immutable grouping of atoms representing one
// functional sub-model. All queries are pure; transformations build new
// values and never mutate the receiver.
type Component struct {
	Name        string
	States      []atoms.State
	Parameters  []atoms.Parameter
	Assignments []atoms.Assignment
}

// Intermediates returns the component's intermediate assignments in
// declaration order.
func (c Component) Intermediates() []atoms.Intermediate {
	var out []atoms.Intermediate
	for _, a := range c.Assignments {
		if i, ok := a.(atoms.Intermediate); ok {
			out = append(out, i)
		}
	}
	return out
}

// StateDerivatives returns the component's state derivatives in declaration
// order.
func (c Component) StateDerivatives() []atoms.StateDerivative {
	var out []atoms.StateDerivative
	for _, a := range c.Assignments {
		if d, ok := a.(atoms.StateDerivative); ok {
			out = append(out, d)
		}
	}
	return out
}

// StatesWithoutDerivatives returns the states lacking a matching state
// derivative.
func (c Component) StatesWithoutDerivatives() []atoms.State {
	derived := map[string]struct{}{}
	for _, d := range c.StateDerivatives() {
		derived[d.State.Name] = struct{}{}
	}
	var missing []atoms.State
	for _, s := range c.States {
		if _, ok := derived[s.Name]; !ok {
			missing = append(missing, s)
		}
	}
	return missing
}

// IsComplete reports whether every state has a matching state derivative.
func (c Component) IsComplete() bool {
	return len(c.StatesWithoutDerivatives()) == 0
}

// MissingVariables returns the sorted free symbol names referenced by the
// component's assignment expressions but not defined by its own atoms. This
// is the coupling surface to the rest of the full model; it is recomputed
// from the current expressions, never stored.
func (c Component) MissingVariables() []string {
	defined := map[string]struct{}{
		timeSymbolName:   {},
		reservedTimeName: {},
	}
	for _, s := range c.States {
		defined[s.Name] = struct{}{}
	}
	for _, p := range c.Parameters {
		defined[p.Name] = struct{}{}
	}
	for _, a := range c.Assignments {
		defined[a.AtomName()] = struct{}{}
	}

	free := map[string]struct{}{}
	for _, a := range c.Assignments {
		for _, name := range a.Dependencies() {
			if _, ok := defined[name]; !ok {
				free[name] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(free))
	for name := range free {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToODE builds a standalone ODE containing exactly this component's atoms.
// It fails if the component is not complete. Symbols defined outside the
// component stay free and show up as missing variables.
func (c Component) ToODE() (*ODE, error) {
	return New(c.Name, []Component{c})
}
