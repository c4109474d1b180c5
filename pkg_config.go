package preninja

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"shanhu.io/misc/errcode"
	"shanhu.io/misc/strutil"
	"shanhu.io/text/lexing"
)

// FlagQuerier queries compiler and linker flags of packages.
type FlagQuerier interface {
	QueryFlags(ctx context.Context, args []string) (string, error)
}

// PkgConfig queries flags by running pkg-config.
type PkgConfig struct {
	Bin string // Defaults to "pkg-config".
	Dir string
}

// QueryFlags runs pkg-config with args and returns its output.
func (p *PkgConfig) QueryFlags(ctx context.Context, args []string) (
	string, error,
) {
	bin := p.Bin
	if bin == "" {
		bin = "pkg-config"
	}
	out, err := runCmdOutput(ctx, p.Dir, bin, args...)
	if err != nil {
		return "", errcode.Annotatef(
			err, "%s %s", bin, strings.Join(args, " "),
		)
	}
	return string(out), nil
}

// pkgConfigArgs returns the pkg-config arguments for variable name. A
// variable named *cflags gets compiler flags, *ldflags gets linker flags,
// and anything else gets both, in which case ok is false.
func pkgConfigArgs(name, pkgs string) (args []string, ok bool) {
	switch {
	case strings.HasSuffix(name, "cflags"):
		args, ok = []string{"--cflags"}, true
	case strings.HasSuffix(name, "ldflags"):
		args, ok = []string{"--libs"}, true
	default:
		args = []string{"--cflags", "--libs"}
	}
	return append(args, strings.Fields(pkgs)...), ok
}

// Vars is the set of ninja variables of a spec.
type Vars map[string]string

// Names returns the variable names in sorted order.
func (vs Vars) Names() []string {
	m := make(map[string]bool)
	for name := range vs {
		m[name] = true
	}
	return strutil.SortedList(m)
}

func resolveVars(
	ctx context.Context, spec *Spec, q FlagQuerier, log *zap.Logger,
) (Vars, []*lexing.Error) {
	vars := make(Vars)
	for _, v := range spec.Env {
		vars[v.Name] = v.Value
	}

	if len(spec.PkgConfig) > 0 && q == nil {
		err := errcode.Internalf("pkg-config used but no flag querier")
		return nil, lexing.SingleErr(err)
	}

	for _, v := range spec.PkgConfig {
		args, ok := pkgConfigArgs(v.Name, v.Value)
		if !ok {
			log.Warn("unknown pkg-config type", zap.String("name", v.Name))
		}
		out, err := q.QueryFlags(ctx, args)
		if err != nil {
			return nil, []*lexing.Error{{Pos: v.Pos, Err: err}}
		}
		vars[v.Name] += " " + strings.TrimSpace(out)
	}
	return vars, nil
}
