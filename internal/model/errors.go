package model

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for model assembly. All three indicate an invalid model and
// abort code generation; none is recoverable.
var (
	// ErrComponentNotComplete indicates a component with states lacking
	// matching state derivatives.
	ErrComponentNotComplete = errors.New("model: component is not complete")

	// ErrDuplicateSymbol indicates an atom name defined more than once
	// across the assembled components.
	ErrDuplicateSymbol = errors.New("model: duplicate symbol")

	// ErrDependencyCycle indicates that the assignment dependency graph is
	// not acyclic.
	ErrDependencyCycle = errors.New("model: dependency cycle")

	// ErrUnknownComponent indicates a component name not present in the ODE.
	ErrUnknownComponent = errors.New("model: unknown component")
)

// ComponentNotCompleteError reports which component is missing which state
// derivatives.
type ComponentNotCompleteError struct {
	Component               string
	MissingStateDerivatives []string
}

func (e *ComponentNotCompleteError) Error() string {
	return fmt.Sprintf(
		"model: component %q is not complete: missing state derivatives for %s",
		e.Component, strings.Join(e.MissingStateDerivatives, ", "),
	)
}

func (e *ComponentNotCompleteError) Unwrap() error { return ErrComponentNotComplete }

// DuplicateSymbolError lists every name defined more than once.
type DuplicateSymbolError struct {
	Names []string
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("model: duplicate symbols: %s", strings.Join(e.Names, ", "))
}

func (e *DuplicateSymbolError) Unwrap() error { return ErrDuplicateSymbol }

// DependencyCycleError reports the assignment names participating in a cycle.
type DependencyCycleError struct {
	Names []string
}

func (e *DependencyCycleError) Error() string {
	return fmt.Sprintf("model: dependency cycle involving %s", strings.Join(e.Names, " -> "))
}

func (e *DependencyCycleError) Unwrap() error { return ErrDependencyCycle }
