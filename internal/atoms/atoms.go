// Package atoms defines the typed building blocks of an ODE model: states,
// parameters, intermediate expressions, state derivatives and comments.
//
// Atoms are immutable values. An atom's identity for graph and uniqueness
// purposes is its name; two atoms with the same name but different metadata
// compare unequal as values but collide at assembly time.
package atoms

import (
	"github.com/san-kum/odegen/internal/symbolic"
)

// Atom is implemented by every named model entity.
type Atom interface {
	AtomName() string
	// Symbol is the canonical symbolic handle bound to the atom's name.
	Symbol() symbolic.Expr
}

// Assignment is an atom whose value is defined by an expression over other
// atoms' symbols: intermediates and state derivatives.
type Assignment interface {
	Atom
	Expression() symbolic.Expr
	// Dependencies lists the free symbol names of the expression, sorted.
	Dependencies() []string
	// Resolve rewrites the expression against the canonical per-model symbol
	// table and returns a new assignment. Symbols absent from the table are
	// left free; they form the coupling surface of a sub-model.
	Resolve(symbols map[string]symbolic.Expr) Assignment
}

// Meta carries the descriptive attributes shared by all atom variants.
type Meta struct {
	Name        string
	UnitStr     string
	Description string
}

func (m Meta) AtomName() string      { return m.Name }
func (m Meta) Symbol() symbolic.Expr { return symbolic.S(m.Name) }

// Parameter is a named constant with a numeric default.
type Parameter struct {
	Meta
	Value float64
}

// State is a time-varying quantity with an initial value. Every state in a
// complete component is paired with exactly one StateDerivative.
type State struct {
	Meta
	Value float64
}

// Intermediate is a named sub-expression used to compute derivatives. It is
// not part of the model's observable output.
type Intermediate struct {
	Meta
	Expr symbolic.Expr
}

func (i Intermediate) Expression() symbolic.Expr { return i.Expr }

func (i Intermediate) Dependencies() []string { return symbolic.FreeSymbols(i.Expr) }

func (i Intermediate) Resolve(symbols map[string]symbolic.Expr) Assignment {
	i.Expr = i.Expr.Subs(symbols)
	return i
}

// StateDerivative defines the time derivative of its owning state.
type StateDerivative struct {
	Meta
	State State
	Expr  symbolic.Expr
}

func (d StateDerivative) Expression() symbolic.Expr { return d.Expr }

func (d StateDerivative) Dependencies() []string { return symbolic.FreeSymbols(d.Expr) }

func (d StateDerivative) Resolve(symbols map[string]symbolic.Expr) Assignment {
	d.Expr = d.Expr.Subs(symbols)
	return d
}

// Comment is free documentation text preserved for round-tripping. It does
// not participate in the symbol namespace.
type Comment struct {
	Text string
}
