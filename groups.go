package preninja

import (
	"fmt"

	"shanhu.io/text/lexing"
)

// groupMarker prefixes the names of named groups, both where a group is
// defined as a top-level action and where it is referenced.
const groupMarker = "$"

type group struct {
	name string
	outs []string
	pos  *lexing.Pos
}

// groups holds the outputs of resolved named groups. A group is defined
// once and must be defined before it is referenced.
type groups struct {
	m     map[string]*group
	order []string
}

func newGroups() *groups {
	return &groups{m: make(map[string]*group)}
}

func (g *groups) define(name string, outs []string, pos *lexing.Pos) error {
	if prev, ok := g.m[name]; ok {
		e := errorf(ErrDuplicateGroup, pos, "group %q redefined", name)
		if prev.pos != nil {
			e.Msg += fmt.Sprintf(
				", previously defined at %s:%d:%d",
				prev.pos.File, prev.pos.Line, prev.pos.Col,
			)
		}
		return e
	}
	g.m[name] = &group{name: name, outs: outs, pos: pos}
	g.order = append(g.order, name)
	return nil
}

// lookup returns a copy of the outputs of a group.
func (g *groups) lookup(name string) ([]string, bool) {
	grp, ok := g.m[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), grp.outs...), true
}
