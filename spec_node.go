package preninja

import (
	"shanhu.io/text/lexing"
)

// NodeKind is the kind of a node in the spec document.
type NodeKind int

// Node kinds.
const (
	NodeNull NodeKind = iota
	NodeScalar
	NodeMap
	NodeSeq
)

func (k NodeKind) String() string {
	switch k {
	case NodeNull:
		return "null"
	case NodeScalar:
		return "scalar"
	case NodeMap:
		return "mapping"
	case NodeSeq:
		return "sequence"
	}
	return "unknown"
}

// Node is a node of the spec document tree. Mapping pairs keep the order in
// which they are written.
type Node struct {
	Kind  NodeKind
	Value string  // Scalar value.
	Pairs []*Pair // Mapping entries.
	Items []*Node // Sequence entries.
	Pos   *lexing.Pos
}

// Pair is a key-value entry in a mapping node.
type Pair struct {
	Key    string
	KeyPos *lexing.Pos
	Value  *Node
}

// Scalar creates a scalar node.
func Scalar(v string) *Node {
	return &Node{Kind: NodeScalar, Value: v}
}

// Mapping creates a mapping node from key and value pairs.
func Mapping(pairs ...*Pair) *Node {
	return &Node{Kind: NodeMap, Pairs: pairs}
}

// KV creates a mapping pair.
func KV(k string, v *Node) *Pair {
	return &Pair{Key: k, Value: v}
}

// IsNull returns true when the node is absent or null.
func (n *Node) IsNull() bool { return n == nil || n.Kind == NodeNull }

// IsScalar returns true when the node is a scalar.
func (n *Node) IsScalar() bool { return n != nil && n.Kind == NodeScalar }

// IsMap returns true when the node is a mapping.
func (n *Node) IsMap() bool { return n != nil && n.Kind == NodeMap }

// IsSeq returns true when the node is a sequence.
func (n *Node) IsSeq() bool { return n != nil && n.Kind == NodeSeq }

func (n *Node) kind() NodeKind {
	if n == nil {
		return NodeNull
	}
	return n.Kind
}

// Has returns true if the mapping has the key, even when the value is null.
func (n *Node) Has(k string) bool {
	return n.pair(k) != nil
}

// Get returns the value of the first entry with the key. It returns nil when
// n is not a mapping or does not have the key.
func (n *Node) Get(k string) *Node {
	if p := n.pair(k); p != nil {
		return p.Value
	}
	return nil
}

func (n *Node) pair(k string) *Pair {
	if !n.IsMap() {
		return nil
	}
	for _, p := range n.Pairs {
		if p.Key == k {
			return p
		}
	}
	return nil
}

// pos returns the node's position, falling back to def.
func (n *Node) pos(def *lexing.Pos) *lexing.Pos {
	if n == nil || n.Pos == nil {
		return def
	}
	return n.Pos
}
