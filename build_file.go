package preninja

import (
	"os"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"shanhu.io/misc/errcode"
	"shanhu.io/misc/osutil"
	"shanhu.io/text/lexing"
)

// SpecFileName is the default name of the spec document.
const SpecFileName = "build.preninja"

// Var is a ninja variable, or a pkg-config query that appends to one.
type Var struct {
	Name  string
	Value string
	Pos   *lexing.Pos
}

// Features are the optional convenience targets.
type Features struct {
	HasInstall bool
	Install    []string // Files installed into /usr/local/bin.

	Clean  bool   // Adds a clean target that removes the output root.
	Reconf string // Ninja file regenerated by a reconfigure target.
	Run    string // Command of the run target.
}

// Spec is a parsed spec document.
type Spec struct {
	File string

	Env       []*Var
	PkgConfig []*Var

	MapRules    []*MapRule
	ReduceRules []*ReduceRule

	Features *Features

	// Actions are the top-level targets. Keys that start with '$' define
	// named groups.
	Actions *Node
}

// ReadSpec reads and parses a spec document.
func ReadSpec(file string) (*Spec, []*lexing.Error) {
	ok, err := osutil.IsRegular(file)
	if err != nil {
		return nil, lexing.SingleErr(errcode.Annotatef(err, "check %q", file))
	}
	if !ok {
		err := errcode.NotFoundf("%s does not exist", file)
		return nil, lexing.SingleErr(err)
	}
	bs, err := os.ReadFile(file)
	if err != nil {
		return nil, lexing.SingleErr(errcode.Annotatef(err, "read %q", file))
	}
	return ParseSpec(file, bs)
}

// ParseSpec parses a spec document. file is only used in error positions.
func ParseSpec(file string, data []byte) (*Spec, []*lexing.Error) {
	// Repeated keys are kept in order: a group defined twice is reported
	// by the resolver, and a reduce may list the same child rule twice.
	f, err := parser.ParseBytes(data, 0, parser.AllowDuplicateMapKey())
	if err != nil {
		return nil, lexing.SingleErr(errcode.Annotatef(err, "parse %q", file))
	}

	p := &specParser{
		file:    file,
		errs:    lexing.NewErrorList(),
		anchors: make(map[string]*Node),
	}
	root := &Node{Kind: NodeNull}
	if len(f.Docs) > 0 {
		root = p.node(f.Docs[0])
	}
	spec := p.spec(root)
	if errs := p.errs.Errs(); errs != nil {
		return nil, errs
	}
	return spec, nil
}

type specParser struct {
	file    string
	errs    *lexing.ErrorList
	anchors map[string]*Node
}

func (p *specParser) tokenPos(n ast.Node) *lexing.Pos {
	if n == nil {
		return nil
	}
	tk := n.GetToken()
	if tk == nil || tk.Position == nil {
		return nil
	}
	return &lexing.Pos{
		File: p.file,
		Line: tk.Position.Line,
		Col:  tk.Position.Column,
	}
}

func pairKey(mv *ast.MappingValueNode) string {
	if s, ok := mv.Key.(*ast.StringNode); ok {
		return s.Value
	}
	if tk := mv.Key.GetToken(); tk != nil {
		return tk.Value
	}
	return ""
}

func (p *specParser) pair(mv *ast.MappingValueNode) *Pair {
	return &Pair{
		Key:    pairKey(mv),
		KeyPos: p.tokenPos(mv.Key),
		Value:  p.node(mv.Value),
	}
}

// merge returns the pairs that a "<<" key brings into a mapping: the
// entries of a mapping, or of each mapping in a sequence.
func (p *specParser) merge(mv *ast.MappingValueNode) []*Pair {
	v := p.node(mv.Value)
	switch {
	case v.IsMap():
		return v.Pairs
	case v.IsSeq():
		var pairs []*Pair
		for _, item := range v.Items {
			if !item.IsMap() {
				p.errs.Errorf(p.tokenPos(mv.Key), "can only merge mappings")
				return nil
			}
			pairs = append(pairs, item.Pairs...)
		}
		return pairs
	}
	p.errs.Errorf(p.tokenPos(mv.Key), "can only merge mappings")
	return nil
}

func (p *specParser) mapping(values []*ast.MappingValueNode) *Node {
	ret := &Node{Kind: NodeMap}
	explicit := make(map[string]bool)
	for _, mv := range values {
		if !mv.Key.IsMergeKey() {
			explicit[pairKey(mv)] = true
		}
	}
	for _, mv := range values {
		if !mv.Key.IsMergeKey() {
			ret.Pairs = append(ret.Pairs, p.pair(mv))
			continue
		}
		// Explicit keys override merged ones.
		for _, kv := range p.merge(mv) {
			if !explicit[kv.Key] {
				ret.Pairs = append(ret.Pairs, kv)
			}
		}
	}
	if len(ret.Pairs) > 0 {
		ret.Pos = ret.Pairs[0].KeyPos
	}
	return ret
}

func (p *specParser) node(n ast.Node) *Node {
	switch n := n.(type) {
	case nil:
		return &Node{Kind: NodeNull}
	case *ast.DocumentNode:
		return p.node(n.Body)
	case *ast.CommentGroupNode:
		return &Node{Kind: NodeNull}
	case *ast.NullNode:
		return &Node{Kind: NodeNull, Pos: p.tokenPos(n)}
	case *ast.MappingNode:
		return p.mapping(n.Values)
	case *ast.MappingValueNode:
		return p.mapping([]*ast.MappingValueNode{n})
	case *ast.SequenceNode:
		ret := &Node{Kind: NodeSeq, Pos: p.tokenPos(n)}
		for _, item := range n.Values {
			ret.Items = append(ret.Items, p.node(item))
		}
		return ret
	case *ast.AnchorNode:
		v := p.node(n.Value)
		if n.Name != nil {
			p.anchors[n.Name.GetToken().Value] = v
		}
		return v
	case *ast.AliasNode:
		name := ""
		if n.Value != nil {
			name = n.Value.GetToken().Value
		}
		v, ok := p.anchors[name]
		if !ok {
			pos := p.tokenPos(n)
			p.errs.Errorf(pos, "alias %q is not defined", name)
			return &Node{Kind: NodeNull, Pos: pos}
		}
		return v
	case *ast.TagNode:
		return p.node(n.Value)
	case *ast.StringNode:
		return &Node{Kind: NodeScalar, Value: n.Value, Pos: p.tokenPos(n)}
	case *ast.LiteralNode:
		return &Node{
			Kind:  NodeScalar,
			Value: n.Value.Value,
			Pos:   p.tokenPos(n),
		}
	case ast.ScalarNode:
		return &Node{
			Kind:  NodeScalar,
			Value: n.GetToken().Value,
			Pos:   p.tokenPos(n),
		}
	}

	pos := p.tokenPos(n)
	p.errs.Errorf(pos, "unsupported yaml node: %s", n.Type())
	return &Node{Kind: NodeNull, Pos: pos}
}

// section returns the mapping under key, or nil when it is not there.
func (p *specParser) section(n *Node, key string) *Node {
	v := n.Get(key)
	if v.IsNull() {
		return nil
	}
	if !v.IsMap() {
		p.errs.Errorf(v.Pos, "%q must be a mapping, got %s", key, v.Kind)
		return nil
	}
	return v
}

func (p *specParser) scalar(n *Node, what string) (string, bool) {
	switch {
	case n.IsNull():
		return "", true
	case n.IsScalar():
		return n.Value, true
	}
	p.errs.Errorf(n.Pos, "%s must be a scalar, got %s", what, n.Kind)
	return "", false
}

func (p *specParser) vars(n *Node) []*Var {
	var ret []*Var
	if n == nil {
		return nil
	}
	for _, kv := range n.Pairs {
		v, ok := p.scalar(kv.Value, kv.Key)
		if !ok {
			continue
		}
		ret = append(ret, &Var{Name: kv.Key, Value: v, Pos: kv.KeyPos})
	}
	return ret
}

func (p *specParser) mapRule(kv *Pair) *MapRule {
	if !kv.Value.IsMap() {
		p.errs.Errorf(
			kv.KeyPos, "map rule %q must be a mapping, got %s",
			kv.Key, kv.Value.kind(),
		)
		return nil
	}

	r := &MapRule{Name: kv.Key, Pos: kv.KeyPos}
	fields := []struct {
		key string
		v   *string
	}{
		{"in", &r.In},
		{"out", &r.Out},
		{"cmd", &r.Cmd},
		{"deps", &r.Deps},
	}
	good := true
	for _, f := range fields {
		v := kv.Value.Get(f.key)
		if v.IsNull() && f.key != "deps" {
			p.errs.Errorf(kv.KeyPos, "map rule %q has no %q", kv.Key, f.key)
			good = false
			continue
		}
		s, ok := p.scalar(v, f.key)
		if !ok {
			good = false
			continue
		}
		*f.v = s
	}
	if !good {
		return nil
	}
	return r
}

func (p *specParser) features(n *Node) *Features {
	f := new(Features)
	if n == nil {
		return f
	}

	if install := n.Get("install"); install.IsSeq() {
		f.HasInstall = true
		for _, item := range install.Items {
			if s, ok := p.scalar(item, "install entry"); ok {
				f.Install = append(f.Install, s)
			}
		}
	} else if !install.IsNull() {
		p.errs.Errorf(install.Pos, "install must be a sequence")
	}

	if clean := n.Get("clean"); clean.IsScalar() {
		switch clean.Value {
		case "yes", "true":
			f.Clean = true
		}
	}
	if reconf := n.Get("reconf"); !reconf.IsNull() {
		f.Reconf, _ = p.scalar(reconf, "reconf")
	}
	if run := n.Get("run"); !run.IsNull() {
		f.Run, _ = p.scalar(run, "run")
	}
	return f
}

func (p *specParser) spec(root *Node) *Spec {
	s := &Spec{File: p.file}
	if root.IsNull() {
		s.Features = new(Features)
		return s
	}
	if !root.IsMap() {
		p.errs.Errorf(root.Pos, "spec must be a mapping, got %s", root.Kind)
		return nil
	}

	s.Env = p.vars(p.section(root, "env"))
	s.PkgConfig = p.vars(p.section(root, "pkg-config"))

	if rules := p.section(root, "rules"); rules != nil {
		if maps := p.section(rules, "map"); maps != nil {
			for _, kv := range maps.Pairs {
				if r := p.mapRule(kv); r != nil {
					s.MapRules = append(s.MapRules, r)
				}
			}
		}
		if reduces := p.section(rules, "reduce"); reduces != nil {
			for _, kv := range reduces.Pairs {
				cmd, ok := p.scalar(kv.Value, "reduce rule "+kv.Key)
				if !ok {
					continue
				}
				s.ReduceRules = append(s.ReduceRules, &ReduceRule{
					Name: kv.Key,
					Cmd:  cmd,
					Pos:  kv.KeyPos,
				})
			}
		}
	}

	s.Features = p.features(p.section(root, "features"))
	if actions := root.Get("actions"); !actions.IsNull() {
		s.Actions = actions
	}
	return s
}
