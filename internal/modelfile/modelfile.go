// Package modelfile turns already-classified statement records into an
// assembled ODE. Records are read from YAML model documents: parameter and
// state declarations plus expression assignments, grouped by component.
// Expression strings are parsed into symbolic trees; everything downstream
// of that is the model package's job.
package modelfile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/odegen/internal/atoms"
	"github.com/san-kum/odegen/internal/model"
	"github.com/san-kum/odegen/internal/symbolic"
)

// Document is a parsed model file before assembly.
type Document struct {
	Name       string            `yaml:"name"`
	Comments   []string          `yaml:"comments"`
	Components []ComponentRecord `yaml:"components"`
}

// ComponentRecord groups the statement records owned by one component.
type ComponentRecord struct {
	Name        string             `yaml:"name"`
	Parameters  []AtomRecord       `yaml:"parameters"`
	States      []AtomRecord       `yaml:"states"`
	Expressions []ExpressionRecord `yaml:"expressions"`
}

// AtomRecord declares a parameter or state with its numeric default.
type AtomRecord struct {
	Name        string  `yaml:"name"`
	Value       float64 `yaml:"value"`
	Unit        string  `yaml:"unit"`
	Description string  `yaml:"description"`
}

// ExpressionRecord assigns an expression to a named atom. A record named
// d<state>_dt where <state> is declared in the same component becomes that
// state's derivative; anything else is an intermediate.
type ExpressionRecord struct {
	Name        string `yaml:"name"`
	Expr        string `yaml:"expr"`
	Unit        string `yaml:"unit"`
	Description string `yaml:"description"`
}

// Load reads and assembles a model file.
func Load(path string) (*model.ODE, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML model document and assembles it.
func Parse(data []byte) (*model.ODE, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("modelfile: %w", err)
	}
	return Build(doc)
}

// Build assembles a decoded document into a validated ODE.
func Build(doc Document) (*model.ODE, error) {
	name := doc.Name
	if name == "" {
		name = "ODE"
	}

	components := make([]model.Component, 0, len(doc.Components))
	for _, rec := range doc.Components {
		comp, err := buildComponent(rec)
		if err != nil {
			return nil, err
		}
		components = append(components, comp)
	}

	comments := make([]atoms.Comment, 0, len(doc.Comments))
	for _, text := range doc.Comments {
		comments = append(comments, atoms.Comment{Text: text})
	}

	return model.New(name, components, comments...)
}

func buildComponent(rec ComponentRecord) (model.Component, error) {
	comp := model.Component{Name: rec.Name}

	states := map[string]atoms.State{}
	for _, r := range rec.States {
		s := atoms.State{
			Meta:  atoms.Meta{Name: r.Name, UnitStr: r.Unit, Description: r.Description},
			Value: r.Value,
		}
		states[r.Name] = s
		comp.States = append(comp.States, s)
	}
	for _, r := range rec.Parameters {
		comp.Parameters = append(comp.Parameters, atoms.Parameter{
			Meta:  atoms.Meta{Name: r.Name, UnitStr: r.Unit, Description: r.Description},
			Value: r.Value,
		})
	}

	for _, r := range rec.Expressions {
		expr, err := symbolic.Parse(r.Expr)
		if err != nil {
			return model.Component{}, fmt.Errorf("modelfile: component %q, expression %q: %w", rec.Name, r.Name, err)
		}
		meta := atoms.Meta{Name: r.Name, UnitStr: r.Unit, Description: r.Description}
		if state, ok := states[derivedStateName(r.Name)]; ok {
			comp.Assignments = append(comp.Assignments, atoms.StateDerivative{
				Meta:  meta,
				State: state,
				Expr:  expr,
			})
		} else {
			comp.Assignments = append(comp.Assignments, atoms.Intermediate{
				Meta: meta,
				Expr: expr,
			})
		}
	}
	return comp, nil
}

// derivedStateName extracts <state> from a d<state>_dt expression name, or
// returns "" when the name does not follow the derivative convention.
func derivedStateName(name string) string {
	if strings.HasPrefix(name, "d") && strings.HasSuffix(name, "_dt") && len(name) > len("d_dt") {
		return name[1 : len(name)-len("_dt")]
	}
	return ""
}
