package preninja

import (
	"strings"

	"shanhu.io/text/lexing"
)

// MapRule transforms each input file with suffix In into an output file
// with suffix Out.
type MapRule struct {
	Name string
	In   string
	Out  string
	Cmd  string

	// Deps is the ninja "deps" style used with depfiles. Defaults to gcc.
	Deps string `json:",omitempty"`

	Pos *lexing.Pos `json:"-"`
}

// HasDepfile returns true if the command writes a depfile.
func (r *MapRule) HasDepfile() bool {
	return strings.Contains(r.Cmd, "$depfile")
}

// DepsStyle returns the ninja deps style for the rule's depfile.
func (r *MapRule) DepsStyle() string {
	if r.Deps == "" {
		return "gcc"
	}
	return r.Deps
}

// ReduceRule combines all its inputs into one named output.
type ReduceRule struct {
	Name string
	Cmd  string

	Pos *lexing.Pos `json:"-"`
}

// noopRule is the pass-through rule. It collects the files of its children
// without building anything.
const noopRule = "noop"

type ruleKind int

const (
	ruleUnknown ruleKind = iota
	ruleNoop
	ruleMap
	ruleReduce
)

func (k ruleKind) String() string {
	switch k {
	case ruleNoop:
		return noopRule
	case ruleMap:
		return "map"
	case ruleReduce:
		return "reduce"
	}
	return "unknown"
}

type ruleSet struct {
	maps    map[string]*MapRule
	reduces map[string]*ReduceRule

	pos     map[string]*lexing.Pos
	errList *lexing.ErrorList
}

func newRuleSet() *ruleSet {
	return &ruleSet{
		maps:    make(map[string]*MapRule),
		reduces: make(map[string]*ReduceRule),
		pos:     make(map[string]*lexing.Pos),
		errList: lexing.NewErrorList(),
	}
}

func (s *ruleSet) declare(name string, pos *lexing.Pos) bool {
	if name == noopRule {
		s.errList.Add(lexErr(errorf(
			ErrDuplicateRule, pos, "rule name %q is reserved", name,
		)))
		return false
	}
	if p, ok := s.pos[name]; ok {
		s.errList.Add(lexErr(errorf(
			ErrDuplicateRule, pos, "rule %q redeclared", name,
		)))
		if p != nil {
			s.errList.Errorf(p, "  previously defined here")
		}
		return false
	}
	s.pos[name] = pos
	return true
}

func (s *ruleSet) addMap(r *MapRule) {
	if s.declare(r.Name, r.Pos) {
		s.maps[r.Name] = r
	}
}

func (s *ruleSet) addReduce(r *ReduceRule) {
	if s.declare(r.Name, r.Pos) {
		s.reduces[r.Name] = r
	}
}

// kind looks up the kind of a rule. Map rules take precedence over reduce
// rules.
func (s *ruleSet) kind(name string) ruleKind {
	if name == noopRule {
		return ruleNoop
	}
	if _, ok := s.maps[name]; ok {
		return ruleMap
	}
	if _, ok := s.reduces[name]; ok {
		return ruleReduce
	}
	return ruleUnknown
}

func (s *ruleSet) Errs() []*lexing.Error { return s.errList.Errs() }

func loadRules(spec *Spec) (*ruleSet, []*lexing.Error) {
	s := newRuleSet()
	for _, r := range spec.MapRules {
		s.addMap(r)
	}
	for _, r := range spec.ReduceRules {
		s.addReduce(r)
	}
	if errs := s.Errs(); errs != nil {
		return nil, errs
	}
	return s, nil
}
