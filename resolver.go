package preninja

import (
	"strings"

	"go.uber.org/zap"
	"shanhu.io/text/lexing"
)

// outputKey is the key that names the output of a reduce rule.
const outputKey = "_"

type resolver struct {
	rules  *ruleSet
	groups *groups
	graph  *Graph
	glob   GlobFunc
	tracer *resolveTracer
	log    *zap.Logger
}

func newResolver(rules *ruleSet, glob GlobFunc, log *zap.Logger) *resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &resolver{
		rules:  rules,
		groups: newGroups(),
		graph:  newGraph(),
		glob:   glob,
		tracer: new(resolveTracer),
		log:    log,
	}
}

func (r *resolver) errorf(
	kind error, pos *lexing.Pos, f string, args ...interface{},
) *Error {
	e := errorf(kind, pos, f, args...)
	e.Trace = r.tracer.stack()
	return e
}

// resolve instantiates rule name on node n, and returns the files that it
// produces. pos is where the rule is referenced.
func (r *resolver) resolve(name string, pos *lexing.Pos, n *Node) (
	[]string, error,
) {
	r.tracer.push(name)
	defer r.tracer.pop()

	switch r.rules.kind(name) {
	case ruleNoop:
		return r.gather(name, pos, n)
	case ruleMap:
		return r.resolveMap(r.rules.maps[name], pos, n)
	case ruleReduce:
		return r.resolveReduce(r.rules.reduces[name], pos, n)
	}
	return nil, r.errorf(
		ErrUnknownRule, pos,
		"cannot instantiate rule %q: rule does not exist", name,
	)
}

// resolveChildren resolves each entry of mapping n as a rule applied to its
// value, and concatenates the outputs in entry order.
func (r *resolver) resolveChildren(n *Node, skip string) ([]string, error) {
	var outs []string
	for _, p := range n.Pairs {
		if skip != "" && p.Key == skip {
			continue
		}
		o, err := r.resolve(p.Key, p.KeyPos, p.Value)
		if err != nil {
			return nil, err
		}
		outs = append(outs, o...)
	}
	return outs, nil
}

// gather collects the input files of a map rule or noop.
func (r *resolver) gather(name string, pos *lexing.Pos, n *Node) (
	[]string, error,
) {
	switch {
	case n.IsScalar():
		pos = n.pos(pos)
		if g, ok := strings.CutPrefix(n.Value, groupMarker); ok {
			outs, found := r.groups.lookup(g)
			if !found {
				return nil, r.errorf(
					ErrUnknownGroup, pos, "group %q is not defined", g,
				)
			}
			return outs, nil
		}

		files, err := r.glob(n.Value)
		if err != nil {
			return nil, r.errorf(ErrInvalidNode, pos, "%s", err)
		}
		if len(files) == 0 {
			return nil, r.errorf(
				ErrNoMatch, pos, "no such file or directory: %s", n.Value,
			)
		}
		return files, nil

	case n.IsMap():
		if n.Has(outputKey) {
			return nil, r.errorf(
				ErrUnexpectedOutput, n.pos(pos),
				"cannot specify an output for map rule %q", name,
			)
		}
		return r.resolveChildren(n, "")
	}

	return nil, r.errorf(
		ErrInvalidNode, n.pos(pos),
		"rule %q needs a file pattern, a group or a mapping, got %s",
		name, n.kind(),
	)
}

func (r *resolver) emit(e *Edge, pos *lexing.Pos) error {
	if _, err := r.graph.add(e); err != nil {
		return r.errorf(ErrOutputCollision, pos, "%s", err)
	}
	return nil
}

func (r *resolver) resolveMap(rule *MapRule, pos *lexing.Pos, n *Node) (
	[]string, error,
) {
	deps, err := r.gather(rule.Name, pos, n)
	if err != nil {
		return nil, err
	}

	outs := make([]string, 0, len(deps))
	for _, dep := range deps {
		out, err := canonicalOut(dep, rule.In, rule.Out)
		if err != nil {
			return nil, r.errorf(
				ErrExtensionMismatch, n.pos(pos),
				"file %q cannot be applied to rule %q, with ext %q",
				dep, rule.Name, rule.In,
			)
		}
		outs = append(outs, out)
	}

	for i, dep := range deps {
		e := &Edge{
			Out:  outs[i],
			Rule: rule.Name,
			Ins:  []string{dep},
		}
		if rule.HasDepfile() {
			e.Depfile = outs[i] + ".d"
		}
		if err := r.emit(e, n.pos(pos)); err != nil {
			return nil, err
		}
	}
	return outs, nil
}

func (r *resolver) resolveReduce(rule *ReduceRule, pos *lexing.Pos, n *Node) (
	[]string, error,
) {
	if !n.IsMap() {
		return nil, r.errorf(
			ErrInvalidNode, n.pos(pos),
			"reduce rule %q needs a mapping, got %s", rule.Name, n.kind(),
		)
	}

	outNode := n.Get(outputKey)
	if outNode.IsNull() {
		return nil, r.errorf(
			ErrMissingOutput, n.pos(pos),
			"reduce rule %q has no output; name it with %q",
			rule.Name, outputKey,
		)
	}
	if !outNode.IsScalar() || outNode.Value == "" {
		return nil, r.errorf(
			ErrInvalidNode, outNode.pos(pos),
			"output of reduce rule %q must be a file name", rule.Name,
		)
	}
	out := outNode.Value

	ins, err := r.resolveChildren(n, outputKey)
	if err != nil {
		return nil, err
	}
	e := &Edge{Out: out, Rule: rule.Name, Ins: ins}
	if err := r.emit(e, outNode.pos(pos)); err != nil {
		return nil, err
	}
	return []string{out}, nil
}

// defineGroup resolves a named group action. The body is gathered the same
// way as the inputs of noop.
func (r *resolver) defineGroup(name string, pos *lexing.Pos, n *Node) error {
	r.tracer.push(groupMarker + name)
	defer r.tracer.pop()

	outs, err := r.gather(groupMarker+name, pos, n)
	if err != nil {
		return err
	}
	if err := r.groups.define(name, outs, pos); err != nil {
		return err
	}
	r.log.Debug(
		"group defined",
		zap.String("group", name), zap.Int("outs", len(outs)),
	)
	return nil
}

// resolveActions runs the two passes over the top-level actions: first all
// named groups, in order, then all other targets. It returns the outputs
// of the targets.
func (r *resolver) resolveActions(actions *Node) ([]string, error) {
	if actions == nil {
		return nil, nil
	}

	for _, p := range actions.Pairs {
		name, ok := strings.CutPrefix(p.Key, groupMarker)
		if !ok {
			continue
		}
		if err := r.defineGroup(name, p.KeyPos, p.Value); err != nil {
			return nil, err
		}
	}

	var outs []string
	for _, p := range actions.Pairs {
		if strings.HasPrefix(p.Key, groupMarker) {
			continue
		}
		o, err := r.resolve(p.Key, p.KeyPos, p.Value)
		if err != nil {
			return nil, err
		}
		r.log.Debug(
			"target resolved",
			zap.String("rule", p.Key), zap.Int("outs", len(o)),
		)
		outs = append(outs, o...)
	}
	return outs, nil
}
