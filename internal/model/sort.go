package model

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/san-kum/odegen/internal/atoms"
)

// SortAssignments performs a deterministic topological sort of the
// dependency graph induced by assignment expressions. Each assignment node
// depends on every free symbol of its expression; symbols that are not
// themselves assignments (states, parameters, coupling variables) are leaves.
// Ties among ready nodes are broken by first-insertion order, so repeated
// calls on the same input yield the same order.
//
// When assignmentsOnly is true the returned order is filtered to assignment
// names; otherwise leaf names are included too.
func SortAssignments(assignments []atoms.Assignment, assignmentsOnly bool) ([]string, error) {
	isAssignment := map[string]struct{}{}
	for _, a := range assignments {
		isAssignment[a.AtomName()] = struct{}{}
	}

	// name -> []string of dependencies, insertion ordered. Dependencies are
	// inserted before their dependents so leaves surface first.
	graph := linkedhashmap.New()
	for _, a := range assignments {
		deps := a.Dependencies()
		for _, dep := range deps {
			if _, ok := graph.Get(dep); !ok {
				graph.Put(dep, []string(nil))
			}
		}
		graph.Put(a.AtomName(), deps)
	}

	done := map[string]struct{}{}
	var order []string
	for graph.Size() > 0 {
		var ready []string
		it := graph.Iterator()
		for it.Next() {
			name := it.Key().(string)
			if allDone(it.Value().([]string), done) {
				ready = append(ready, name)
			}
		}
		if len(ready) == 0 {
			return nil, &DependencyCycleError{Names: findCycle(graph)}
		}
		for _, name := range ready {
			graph.Remove(name)
			done[name] = struct{}{}
			order = append(order, name)
		}
	}

	if assignmentsOnly {
		filtered := order[:0]
		for _, name := range order {
			if _, ok := isAssignment[name]; ok {
				filtered = append(filtered, name)
			}
		}
		order = filtered
	}
	return order, nil
}

func allDone(deps []string, done map[string]struct{}) bool {
	for _, dep := range deps {
		if _, ok := done[dep]; !ok {
			return false
		}
	}
	return true
}

// findCycle walks first unresolved dependencies from an arbitrary blocked
// node until a node repeats, then returns the cycle it closed.
func findCycle(graph *linkedhashmap.Map) []string {
	it := graph.Iterator()
	if !it.Next() {
		return nil
	}
	current := it.Key().(string)

	visited := map[string]int{}
	var path []string
	for {
		if at, ok := visited[current]; ok {
			return path[at:]
		}
		visited[current] = len(path)
		path = append(path, current)

		raw, ok := graph.Get(current)
		if !ok {
			return path
		}
		next := ""
		for _, dep := range raw.([]string) {
			if _, blocked := graph.Get(dep); blocked {
				next = dep
				break
			}
		}
		if next == "" {
			return path
		}
		current = next
	}
}
