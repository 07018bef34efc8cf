package model

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/san-kum/odegen/internal/atoms"
)

func TestRemoveComponent(t *testing.T) {
	ode := lorentz(t)
	zComp, _ := ode.Component("Z component")

	remaining, err := ode.Remove(zComp)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if remaining.Name() != "lorentz - Z component" {
		t.Errorf("name = %s", remaining.Name())
	}
	if remaining.NumStates() != 2 || remaining.NumParameters() != 2 {
		t.Errorf("expected 2 states and 2 parameters, got %d/%d",
			remaining.NumStates(), remaining.NumParameters())
	}
	if remaining.Parameters()[0].Name != "rho" || remaining.Parameters()[1].Name != "sigma" {
		t.Errorf("parameters = %v", remaining.Parameters())
	}
	if remaining.States()[0].Name != "x" || remaining.States()[1].Name != "y" {
		t.Errorf("states = %v", remaining.States())
	}
	if got := remaining.MissingVariables(); strings.Join(got, ",") != "z" {
		t.Errorf("missing variables = %v", got)
	}

	// The original is untouched.
	if ode.NumComponents() != 2 || len(ode.MissingVariables()) != 0 {
		t.Error("Remove mutated the original ODE")
	}
}

func TestRemoveUnknownComponent(t *testing.T) {
	ode := lorentz(t)
	_, err := ode.Remove(Component{Name: "nope"})
	if !errors.Is(err, ErrUnknownComponent) {
		t.Errorf("expected ErrUnknownComponent, got %v", err)
	}
}

// The extracted sub-model and the remainder are complementary: each one's
// missing variables are defined exactly in the other.
func TestExtractionComplementarity(t *testing.T) {
	ode := lorentz(t)
	zComp, _ := ode.Component("Z component")

	zODE, err := zComp.ToODE()
	if err != nil {
		t.Fatalf("ToODE failed: %v", err)
	}
	remaining, err := ode.Remove(zComp)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	for _, name := range zODE.MissingVariables() {
		if _, ok := remaining.Lookup(name); !ok {
			t.Errorf("sub-model missing %q should be defined in the remainder", name)
		}
	}
	for _, name := range remaining.MissingVariables() {
		if _, ok := zODE.Lookup(name); !ok {
			t.Errorf("remainder missing %q should be defined in the sub-model", name)
		}
	}
}

func TestUnionReconstructsAtoms(t *testing.T) {
	ode := lorentz(t)
	zComp, _ := ode.Component("Z component")

	zODE, err := zComp.ToODE()
	if err != nil {
		t.Fatalf("ToODE failed: %v", err)
	}
	remaining, err := ode.Remove(zComp)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	combined, err := remaining.Union(zODE)
	if err != nil {
		t.Fatalf("Union failed: %v", err)
	}

	if got, want := atomNames(combined), atomNames(ode); got != want {
		t.Errorf("atom sets differ:\n got %s\nwant %s", got, want)
	}
	if len(combined.MissingVariables()) != 0 {
		t.Errorf("union should have no missing variables, got %v", combined.MissingVariables())
	}
}

func TestUnionDuplicate(t *testing.T) {
	ode := lorentz(t)
	if _, err := ode.Union(ode); !errors.Is(err, ErrDuplicateSymbol) {
		t.Errorf("self union should report duplicates, got %v", err)
	}
}

func atomNames(ode *ODE) string {
	var names []string
	for _, s := range ode.States() {
		names = append(names, s.Name)
	}
	for _, p := range ode.Parameters() {
		names = append(names, p.Name)
	}
	for _, i := range ode.Intermediates() {
		names = append(names, i.Name)
	}
	for _, d := range ode.StateDerivatives() {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

func TestSortAssignmentsIncludesLeaves(t *testing.T) {
	x := state("x", 1)
	assignments := []atoms.Assignment{deriv(x, "-a*x")}

	all, err := SortAssignments(assignments, false)
	if err != nil {
		t.Fatalf("sort failed: %v", err)
	}
	if strings.Join(all, ",") != "a,x,dx_dt" {
		t.Errorf("full order = %v", all)
	}

	only, err := SortAssignments(assignments, true)
	if err != nil {
		t.Fatalf("sort failed: %v", err)
	}
	if strings.Join(only, ",") != "dx_dt" {
		t.Errorf("assignments-only order = %v", only)
	}
}
