package preninja

import (
	"fmt"
)

// Edge is a ninja build statement: Out is built by Rule from Ins.
type Edge struct {
	Out     string
	Rule    string
	Ins     []string
	Depfile string `json:",omitempty"`
}

func sameEdge(a, b *Edge) bool {
	if a.Out != b.Out || a.Rule != b.Rule || a.Depfile != b.Depfile {
		return false
	}
	if len(a.Ins) != len(b.Ins) {
		return false
	}
	for i, in := range a.Ins {
		if b.Ins[i] != in {
			return false
		}
	}
	return true
}

// GroupOuts is the list of outputs of a named group.
type GroupOuts struct {
	Name string
	Outs []string
}

const (
	umbrellaTarget = "build"
	phonyRule      = "phony"
)

// Graph is a compiled build graph.
type Graph struct {
	// Edges in the order that they are emitted.
	Edges []*Edge

	// Default lists the outputs of the top-level targets; they are the
	// inputs of the umbrella target.
	Default []string `json:",omitempty"`

	Groups []*GroupOuts `json:",omitempty"`

	outs map[string]*Edge
}

func newGraph() *Graph {
	return &Graph{outs: make(map[string]*Edge)}
}

// add appends an edge. Adding an edge that is identical to an existing one
// is a no-op; adding a different edge for an existing output is an error.
func (g *Graph) add(e *Edge) (bool, error) {
	if prev, ok := g.outs[e.Out]; ok {
		if sameEdge(prev, e) {
			return false, nil
		}
		return false, fmt.Errorf(
			"%q is built both by %s %q and by %s %q",
			e.Out, prev.Rule, prev.Ins, e.Rule, e.Ins,
		)
	}
	g.outs[e.Out] = e
	g.Edges = append(g.Edges, e)
	return true, nil
}

// Edge returns the edge that builds out, or nil if there is none.
func (g *Graph) Edge(out string) *Edge { return g.outs[out] }

// Umbrella returns the phony edge that the ninja file builds by default.
func (g *Graph) Umbrella() *Edge {
	return &Edge{
		Out:  umbrellaTarget,
		Rule: phonyRule,
		Ins:  g.Default,
	}
}

// Digest returns a digest of the edges and default outputs.
func (g *Graph) Digest() (string, error) {
	return makeDigest("graph", g.Umbrella(), g.Edges)
}
