// Package schemes derives symbolic numerical update schemes from an
// assembled ODE: the expanded right-hand-side vector, the Jacobian and the
// explicit Euler and Rush-Larsen family of closed-form time steps.
package schemes

import (
	"sync"

	"github.com/san-kum/odegen/internal/atoms"
	"github.com/san-kum/odegen/internal/model"
	"github.com/san-kum/odegen/internal/symbolic"
)

// System wraps an ODE with lazily computed, per-instance caches of derived
// symbolic artifacts. Recomputation is idempotent and side-effect free; the
// sync.Once guards only avoid doing the work twice.
type System struct {
	ode *model.ODE

	rhsOnce sync.Once
	rhs     []symbolic.Expr
	rhsErr  error

	jacOnce sync.Once
	jac     [][]symbolic.Expr
	jacErr  error
}

// NewSystem creates a scheme derivation context for the given ODE.
func NewSystem(ode *model.ODE) *System {
	return &System{ode: ode}
}

// ODE returns the underlying model.
func (s *System) ODE() *model.ODE { return s.ode }

// RHS returns the right-hand-side vector: one fully expanded derivative
// expression per state, ordered like ODE.States(). Intermediates are
// substituted away in dependency order so each entry is closed over states,
// parameters and coupling variables only.
func (s *System) RHS() ([]symbolic.Expr, error) {
	s.rhsOnce.Do(func() {
		s.rhs, s.rhsErr = s.expandRHS()
	})
	return s.rhs, s.rhsErr
}

func (s *System) expandRHS() ([]symbolic.Expr, error) {
	sorted, err := s.ode.SortedAssignments()
	if err != nil {
		return nil, err
	}

	expanded := map[string]symbolic.Expr{}
	derivatives := map[string]symbolic.Expr{}
	for _, a := range sorted {
		expr := a.Expression().Subs(expanded)
		switch v := a.(type) {
		case atoms.Intermediate:
			expanded[v.Name] = expr
		case atoms.StateDerivative:
			derivatives[v.State.Name] = expr
		}
	}

	states := s.ode.States()
	rhs := make([]symbolic.Expr, len(states))
	for i, st := range states {
		rhs[i] = derivatives[st.Name]
	}
	return rhs, nil
}

// Jacobian returns the matrix of partial derivatives of the RHS vector with
// respect to the states: entry (i, j) is d RHS[i] / d state[j]. Computed
// once per System and cached.
func (s *System) Jacobian() ([][]symbolic.Expr, error) {
	s.jacOnce.Do(func() {
		rhs, err := s.RHS()
		if err != nil {
			s.jacErr = err
			return
		}
		states := s.ode.States()
		jac := make([][]symbolic.Expr, len(states))
		for i := range states {
			jac[i] = make([]symbolic.Expr, len(states))
			for j, st := range states {
				jac[i][j] = rhs[i].Diff(st.Name)
			}
		}
		s.jac = jac
	})
	return s.jac, s.jacErr
}

// UpdateKind selects the closed-form update applied to a single state.
type UpdateKind int

const (
	// Euler is the explicit forward Euler step
	// new_state = state + dt*rhs.
	Euler UpdateKind = iota
	// RushLarsen is the exponential step
	// new_state = state + (exp(a*dt) - 1)/a * rhs
	// for derivatives linear in their own state, guarded by a threshold on
	// |a*dt| with an Euler fallback to stay continuous as a goes to zero.
	RushLarsen
)

// StateUpdate is the derived update rule for one state. Index is the state's
// position in the sorted state vector. Coefficient is the linearization
// d(rhs)/d(state) and is set only for RushLarsen updates.
type StateUpdate struct {
	State       atoms.State
	Derivative  atoms.StateDerivative
	Index       int
	Kind        UpdateKind
	Coefficient symbolic.Expr
}

// ForwardExplicitEuler derives the plain explicit Euler update for every
// state.
func (s *System) ForwardExplicitEuler() ([]StateUpdate, error) {
	return s.updates(nil, false)
}

// RushLarsenUpdates derives Rush-Larsen updates for every eligible state and
// explicit Euler for the rest. A state whose derivative is not linear in
// itself silently downgrades to Euler; this is approximation policy, not an
// error.
func (s *System) RushLarsenUpdates() ([]StateUpdate, error) {
	return s.updates(nil, true)
}

// HybridRushLarsen derives Rush-Larsen updates only for the named stiff
// states (eligibility permitting) and explicit Euler for all others. A nil
// stiff set attempts Rush-Larsen everywhere.
func (s *System) HybridRushLarsen(stiff []string) ([]StateUpdate, error) {
	if stiff == nil {
		return s.updates(nil, true)
	}
	set := map[string]struct{}{}
	for _, name := range stiff {
		set[name] = struct{}{}
	}
	return s.updates(set, true)
}

func (s *System) updates(stiff map[string]struct{}, rushLarsen bool) ([]StateUpdate, error) {
	rhs, err := s.RHS()
	if err != nil {
		return nil, err
	}

	derivatives := map[string]atoms.StateDerivative{}
	for _, d := range s.ode.StateDerivatives() {
		derivatives[d.State.Name] = d
	}

	states := s.ode.States()
	out := make([]StateUpdate, len(states))
	for i, st := range states {
		u := StateUpdate{
			State:      st,
			Derivative: derivatives[st.Name],
			Index:      i,
			Kind:       Euler,
		}
		wanted := rushLarsen
		if stiff != nil {
			_, wanted = stiff[st.Name]
		}
		if wanted {
			if a, ok := linearCoefficient(rhs[i], st.Name); ok {
				u.Kind = RushLarsen
				u.Coefficient = a
			}
		}
		out[i] = u
	}
	return out, nil
}

// linearCoefficient extracts a from rhs = a*state + b when rhs is linear in
// the state, i.e. when a carries no further dependence on it. A zero
// coefficient is reported as ineligible since the exponential update would
// degenerate to Euler anyway.
func linearCoefficient(rhs symbolic.Expr, state string) (symbolic.Expr, bool) {
	a := rhs.Diff(state)
	if symbolic.IsZero(a) {
		return nil, false
	}
	if !symbolic.IsZero(a.Diff(state)) {
		return nil, false
	}
	return a, true
}
