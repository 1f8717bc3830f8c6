// Package depsort orders classes so every class is declared after the
// classes it uses, and rejects dependency cycles that no order satisfies.
package depsort

import (
	"slices"
	"sort"
	"strings"

	"github.com/cmmoran/cs2cpp/internal/cppname"
	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/internal/errors"
	"github.com/cmmoran/cs2cpp/internal/model"
	"github.com/cmmoran/cs2cpp/internal/syntax"
)

// Flatten merges the per-file class lists in file order.
func Flatten(p *model.Program) []*model.Class {
	return p.Classes()
}

// graph maps every top-level class to the top-level classes it uses. Uses of
// nested classes are charged to their top-level class, since nested classes
// are declared inside its body.
type graph struct {
	names []string
	edges map[string][]string
}

func newGraph(classes []*model.Class) *graph {
	owner := make(map[string]string)
	for _, top := range classes {
		top.Walk(func(c *model.Class) {
			owner[c.NSFullName] = top.NSFullName
		})
	}

	g := &graph{edges: make(map[string][]string, len(classes))}
	for _, top := range classes {
		g.names = append(g.names, top.NSFullName)
		var out []string
		top.Walk(func(c *model.Class) {
			for _, use := range c.Uses {
				dep, ok := owner[use]
				if !ok || dep == top.NSFullName || slices.Contains(out, dep) {
					continue
				}
				out = append(out, dep)
			}
		})
		g.edges[top.NSFullName] = out
	}
	return g
}

func (g *graph) uses(from, to string) bool {
	return slices.Contains(g.edges[from], to)
}

// Check reports every pair of classes that use each other, once per pair,
// and every longer cycle, once per strongly connected component. It returns
// the number of problems reported.
func Check(classes []*model.Class, rep *diag.Reporter) int {
	rep.SetStage(diag.StageCheck)
	g := newGraph(classes)
	found := 0

	for i, a := range g.names {
		for _, b := range g.names[i+1:] {
			if g.uses(a, b) && g.uses(b, a) {
				rep.Errorf(posOf(classes, a), diag.CodeCrossReference,
					"Cross reference detected:%s with %s", cppname.Dotted(a), cppname.Dotted(b))
				found++
			}
		}
	}

	_, comps := stronglyConnectedComponents(g.names, g.edges)
	for _, comp := range comps {
		if len(comp) <= 2 {
			continue
		}
		dotted := make([]string, 0, len(comp))
		for _, n := range comp {
			dotted = append(dotted, cppname.Dotted(n))
		}
		rep.Errorf(posOf(classes, comp[0]), diag.CodeDependencyCycle,
			"Dependency cycle detected:%s", strings.Join(dotted, " -> "))
		found++
	}
	return found
}

func posOf(classes []*model.Class, name string) (pos syntax.Pos) {
	for _, c := range classes {
		if c.NSFullName == name {
			return c.Pos
		}
	}
	return pos
}

// stronglyConnectedComponents is Tarjan's algorithm. Components list their
// members sorted by name.
func stronglyConnectedComponents(nodes []string, adjacency map[string][]string) (map[string]int, [][]string) {
	index := 0
	stack := make([]string, 0, len(nodes))
	onStack := make(map[string]bool, len(nodes))
	indexByNode := make(map[string]int, len(nodes))
	lowLink := make(map[string]int, len(nodes))
	componentOf := make(map[string]int, len(nodes))
	components := make([][]string, 0)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indexByNode[v] = index
		lowLink[v] = index
		index++

		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adjacency[v] {
			if _, seen := indexByNode[w]; !seen {
				strongConnect(w)
				if lowLink[w] < lowLink[v] {
					lowLink[v] = lowLink[w]
				}
			} else if onStack[w] && indexByNode[w] < lowLink[v] {
				lowLink[v] = indexByNode[w]
			}
		}

		if lowLink[v] != indexByNode[v] {
			return
		}

		component := make([]string, 0)
		for {
			last := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[last] = false
			component = append(component, last)
			if last == v {
				break
			}
		}
		sort.Strings(component)
		compID := len(components)
		components = append(components, component)
		for _, n := range component {
			componentOf[n] = compID
		}
	}

	for _, node := range nodes {
		if _, seen := indexByNode[node]; !seen {
			strongConnect(node)
		}
	}

	return componentOf, components
}

// PinCore moves the runtime classes other runtime classes need complete to
// the front: the thread lock, then the fixed array enumerators, then the
// fixed arrays. Only used when generating the runtime library.
func PinCore(classes []*model.Class) []*model.Class {
	out := slices.Clone(classes)
	toFront := func(match func(string) bool) {
		for i := 0; i < len(out); i++ {
			if !match(out[i].NSFullName) {
				continue
			}
			c := out[i]
			out = slices.Delete(out, i, i+1)
			out = slices.Insert(out, 0, c)
		}
	}
	toFront(func(n string) bool { return n == "Core::ThreadLock" })
	toFront(func(n string) bool {
		return strings.HasPrefix(n, "Core::FixedArray$T") && strings.Contains(n, "Enumerator")
	})
	toFront(func(n string) bool {
		return strings.HasPrefix(n, "Core::FixedArray$T") && !strings.Contains(n, "Enumerator")
	})
	return out
}

// Sort returns classes reordered so that every class follows the classes it
// uses. Whenever a class uses one placed after it, that class moves to the
// user's position and the scan restarts, until a scan moves nothing. Cyclic
// input is rejected up front because the scan would never settle.
func Sort(classes []*model.Class) ([]*model.Class, error) {
	out := slices.Clone(classes)
	g := newGraph(out)
	_, comps := stronglyConnectedComponents(g.names, g.edges)
	for _, comp := range comps {
		if len(comp) > 1 {
			return nil, errors.Newf("cannot order cyclic classes %s", strings.Join(comp, ", "))
		}
	}
	for relocate(out, g) {
	}
	return out, nil
}

// relocate performs the first move of one scan and reports whether it moved
// anything.
func relocate(out []*model.Class, g *graph) bool {
	for i, c := range out {
		for _, use := range g.edges[c.NSFullName] {
			for j := i + 1; j < len(out); j++ {
				if out[j].NSFullName != use {
					continue
				}
				moved := out[j]
				copy(out[i+1:j+1], out[i:j])
				out[i] = moved
				return true
			}
		}
	}
	return false
}
