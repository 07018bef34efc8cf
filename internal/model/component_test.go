package model

import (
	"strings"
	"testing"

	"github.com/san-kum/odegen/internal/atoms"
)

func TestIsComplete(t *testing.T) {
	x := state("x", 0)
	y := state("y", 0)

	complete := Component{
		Name:        "c",
		States:      []atoms.State{x},
		Assignments: []atoms.Assignment{deriv(x, "-x")},
	}
	if !complete.IsComplete() {
		t.Error("component with matching derivative should be complete")
	}

	incomplete := Component{
		Name:        "c",
		States:      []atoms.State{x, y},
		Assignments: []atoms.Assignment{deriv(x, "-x")},
	}
	if incomplete.IsComplete() {
		t.Error("component with missing derivative should be incomplete")
	}
	missing := incomplete.StatesWithoutDerivatives()
	if len(missing) != 1 || missing[0].Name != "y" {
		t.Errorf("expected missing state y, got %v", missing)
	}
}

func TestMissingVariables(t *testing.T) {
	z := state("z", 0)
	comp := Component{
		Name:       "Z component",
		States:     []atoms.State{z},
		Parameters: []atoms.Parameter{param("beta", 2.4)},
		Assignments: []atoms.Assignment{
			inter("betaz", "beta*z"),
			deriv(z, "-betaz + x*y"),
		},
	}
	got := comp.MissingVariables()
	if strings.Join(got, ",") != "x,y" {
		t.Errorf("missing variables = %v, want [x y]", got)
	}
}

func TestMissingVariablesExcludesTime(t *testing.T) {
	x := state("x", 0)
	comp := Component{
		Name:        "c",
		States:      []atoms.State{x},
		Assignments: []atoms.Assignment{deriv(x, "-x*time")},
	}
	if got := comp.MissingVariables(); len(got) != 0 {
		t.Errorf("time should not count as missing, got %v", got)
	}
}

func TestToODE(t *testing.T) {
	ode := lorentz(t)
	zComp, ok := ode.Component("Z component")
	if !ok {
		t.Fatal("Z component not found")
	}

	zODE, err := zComp.ToODE()
	if err != nil {
		t.Fatalf("ToODE failed: %v", err)
	}
	if zODE.Name() != "Z component" {
		t.Errorf("name = %s", zODE.Name())
	}
	if zODE.NumStates() != 1 || zODE.NumParameters() != 1 {
		t.Errorf("expected 1 state and 1 parameter, got %d/%d", zODE.NumStates(), zODE.NumParameters())
	}
	if zODE.Parameters()[0].Name != "beta" {
		t.Errorf("parameter = %s", zODE.Parameters()[0].Name)
	}
	if zODE.States()[0].Name != "z" {
		t.Errorf("state = %s", zODE.States()[0].Name)
	}
	if got := zODE.MissingVariables(); strings.Join(got, ",") != "x,y" {
		t.Errorf("missing variables = %v", got)
	}
}

func TestToODEIncomplete(t *testing.T) {
	comp := Component{
		Name:   "bad",
		States: []atoms.State{state("x", 0)},
	}
	if _, err := comp.ToODE(); err == nil {
		t.Error("expected error for incomplete component")
	}
}
