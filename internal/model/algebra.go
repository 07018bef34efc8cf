package model

import "fmt"

// Remove builds a new ODE without the given component. The result is named
// "<original> - <removed>" and its missing variables are exactly the symbols
// now only defined inside the removed component. The receiver is unchanged.
func (o *ODE) Remove(comp Component) (*ODE, error) {
	if _, ok := o.Component(comp.Name); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, comp.Name)
	}
	var rest []Component
	for _, c := range o.components {
		if c.Name != comp.Name {
			rest = append(rest, c)
		}
	}
	return New(fmt.Sprintf("%s - %s", o.name, comp.Name), rest, o.comments...)
}

// Union combines two ODEs into a new one holding the components of both.
// Removing a component and taking the union with it again reconstructs the
// original atom sets. Overlapping names surface as a DuplicateSymbolError.
func (o *ODE) Union(other *ODE) (*ODE, error) {
	components := make([]Component, 0, len(o.components)+len(other.components))
	components = append(components, o.components...)
	components = append(components, other.components...)

	comments := o.comments
	comments = append(comments[:len(comments):len(comments)], other.comments...)

	return New(fmt.Sprintf("%s + %s", o.name, other.name), components, comments...)
}
