// Copyright (C) 2022  Shanhu Tech Inc.
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, either version 3 of the License, or (at your
// option) any later version.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License
// for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package preninja

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"shanhu.io/misc/errcode"
	"shanhu.io/text/lexing"
)

// Config provides the configuration to create a compiler.
type Config struct {
	// Dir is the directory that file patterns are relative to. Empty means
	// the current working directory.
	Dir string

	// Reconfigure is the command of the reconfigure feature rule.
	Reconfigure string

	// Flags queries pkg-config flags. Defaults to running pkg-config in
	// Dir.
	Flags FlagQuerier

	// Glob expands file patterns. Defaults to DirGlob(Dir).
	Glob GlobFunc

	Logger *zap.Logger
}

// Compiler compiles spec documents into ninja build files.
type Compiler struct {
	config *Config
	glob   GlobFunc
	flags  FlagQuerier
	log    *zap.Logger
}

// NewCompiler creates a new compiler.
func NewCompiler(config *Config) *Compiler {
	c := &Compiler{
		config: config,
		glob:   config.Glob,
		flags:  config.Flags,
		log:    config.Logger,
	}
	if c.glob == nil {
		c.glob = DirGlob(config.Dir)
	}
	if c.flags == nil {
		c.flags = &PkgConfig{Dir: config.Dir}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// Compile resolves the actions of a spec into a build graph. It fails on
// the first resolution error and returns no graph.
func (c *Compiler) Compile(spec *Spec) (*Graph, []*lexing.Error) {
	rules, errs := loadRules(spec)
	if errs != nil {
		return nil, errs
	}

	if a := spec.Actions; a != nil && !a.IsMap() {
		err := errorf(ErrInvalidNode, a.Pos, "actions must be a mapping")
		return nil, lexErrs(err)
	}

	r := newResolver(rules, c.glob, c.log)
	outs, err := r.resolveActions(spec.Actions)
	if err != nil {
		return nil, lexErrs(err)
	}

	g := r.graph
	g.Default = outs
	for _, name := range r.groups.order {
		gouts, _ := r.groups.lookup(name)
		g.Groups = append(g.Groups, &GroupOuts{Name: name, Outs: gouts})
	}
	return g, nil
}

// Result is a compiled spec.
type Result struct {
	Spec  *Spec
	Vars  Vars
	Graph *Graph
}

// Build reads a spec file, queries its flags and compiles it.
func (c *Compiler) Build(ctx context.Context, specFile string) (
	*Result, []*lexing.Error,
) {
	spec, errs := ReadSpec(specFile)
	if errs != nil {
		return nil, errs
	}
	return c.BuildSpec(ctx, spec)
}

// BuildSpec queries the flags of a parsed spec and compiles it.
func (c *Compiler) BuildSpec(ctx context.Context, spec *Spec) (
	*Result, []*lexing.Error,
) {
	vars, errs := resolveVars(ctx, spec, c.flags, c.log)
	if errs != nil {
		return nil, errs
	}
	g, errs := c.Compile(spec)
	if errs != nil {
		return nil, errs
	}
	c.log.Debug(
		"spec compiled",
		zap.String("spec", spec.File),
		zap.Int("edges", len(g.Edges)),
		zap.Int("defaults", len(g.Default)),
	)
	return &Result{Spec: spec, Vars: vars, Graph: g}, nil
}

// Ninja renders the result as a ninja build file.
func (c *Compiler) Ninja(res *Result) []byte {
	f := &ninjaFile{
		spec:   res.Spec,
		vars:   res.Vars,
		graph:  res.Graph,
		reconf: c.config.Reconfigure,
	}
	return f.bytes()
}

// writeIfChanged writes bs into file, unless the file already has the same
// content. It returns true if the file is written.
func writeIfChanged(file string, bs []byte) (bool, error) {
	cur, err := os.ReadFile(file)
	if err == nil && digestBytes(cur) == digestBytes(bs) {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, errcode.Annotate(err, "read current")
	}

	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, errcode.Annotate(err, "make output dir")
		}
	}
	tmp := file + ".tmp"
	if err := os.WriteFile(tmp, bs, 0644); err != nil {
		return false, errcode.Annotate(err, "write temp file")
	}
	if err := os.Rename(tmp, file); err != nil {
		return false, errcode.Annotate(err, "replace file")
	}
	return true, nil
}

// Generate compiles specFile and writes the ninja build file into
// ninjaFile. The file is left untouched when it is up to date.
func (c *Compiler) Generate(ctx context.Context, specFile, ninjaFile string) (
	bool, []*lexing.Error,
) {
	res, errs := c.Build(ctx, specFile)
	if errs != nil {
		return false, errs
	}

	bs := c.Ninja(res)
	written, err := writeIfChanged(ninjaFile, bs)
	if err != nil {
		err = errcode.Annotatef(err, "write %q", ninjaFile)
		return false, lexing.SingleErr(err)
	}
	if written {
		c.log.Info("ninja file written", zap.String("file", ninjaFile))
	} else {
		c.log.Info("ninja file up to date", zap.String("file", ninjaFile))
	}
	return written, nil
}
