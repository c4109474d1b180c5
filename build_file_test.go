package preninja

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpec = `env:
  cflags: -O2 -Wall
  cc: clang
pkg-config:
  cflags: sdl2
  ldflags: sdl2 zlib
rules:
  map:
    cc:
      in: .c
      out: .o
      cmd: $cc $cflags -MD -MF $depfile -c $in -o $out
    as: {in: .s, out: .o, cmd: "as $in -o $out"}
  reduce:
    ld: $cc $in -o $out $ldflags
features:
  install: [app]
  clean: yes
  reconf: build.ninja
  run: ./app
actions:
  $objs:
    cc: src/*.c
  ld:
    _: app
    noop: $objs
    as: src/*.s
`

func TestParseSpec(t *testing.T) {
	spec, errs := ParseSpec("build.preninja", []byte(testSpec))
	require.Empty(t, errs)

	var env []string
	for _, v := range spec.Env {
		env = append(env, v.Name+"="+v.Value)
	}
	assert.Equal(t, []string{"cflags=-O2 -Wall", "cc=clang"}, env)

	require.Len(t, spec.PkgConfig, 2)
	assert.Equal(t, "ldflags", spec.PkgConfig[1].Name)
	assert.Equal(t, "sdl2 zlib", spec.PkgConfig[1].Value)

	require.Len(t, spec.MapRules, 2)
	cc := spec.MapRules[0]
	assert.Equal(t, "cc", cc.Name)
	assert.Equal(t, ".c", cc.In)
	assert.Equal(t, ".o", cc.Out)
	assert.True(t, cc.HasDepfile())
	assert.Equal(t, "gcc", cc.DepsStyle())
	assert.Equal(t, 9, cc.Pos.Line)

	as := spec.MapRules[1]
	assert.Equal(t, "as $in -o $out", as.Cmd)
	assert.False(t, as.HasDepfile())

	require.Len(t, spec.ReduceRules, 1)
	assert.Equal(t, "ld", spec.ReduceRules[0].Name)
	assert.Equal(t, "$cc $in -o $out $ldflags", spec.ReduceRules[0].Cmd)

	assert.Equal(t, &Features{
		HasInstall: true,
		Install:    []string{"app"},
		Clean:      true,
		Reconf:     "build.ninja",
		Run:        "./app",
	}, spec.Features)

	require.True(t, spec.Actions.IsMap())
	var keys []string
	for _, p := range spec.Actions.Pairs {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"$objs", "ld"}, keys)
	assert.Equal(t, 22, spec.Actions.Pairs[0].KeyPos.Line)
	assert.Equal(t, 24, spec.Actions.Pairs[1].KeyPos.Line)
	assert.Equal(t, "build.preninja", spec.Actions.Pairs[1].KeyPos.File)

	ld := spec.Actions.Get("ld")
	var ldKeys []string
	for _, p := range ld.Pairs {
		ldKeys = append(ldKeys, p.Key)
	}
	assert.Equal(t, []string{"_", "noop", "as"}, ldKeys)
	assert.Equal(t, "$objs", ld.Get("noop").Value)
}

func TestParseSpecEmpty(t *testing.T) {
	spec, errs := ParseSpec("empty", nil)
	require.Empty(t, errs)
	assert.Nil(t, spec.Actions)
	assert.Empty(t, spec.MapRules)
	assert.NotNil(t, spec.Features)
}

func TestParseSpecNoFeatures(t *testing.T) {
	spec, errs := ParseSpec("x", []byte("actions:\n  noop: '*.c'\n"))
	require.Empty(t, errs)
	assert.Equal(t, new(Features), spec.Features)
}

func TestParseSpecErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		yaml string
	}{
		{"not a mapping", "- a\n- b\n"},
		{"env sequence", "env: [a, b]\n"},
		{"env nested", "env:\n  cc:\n    a: b\n"},
		{"map rule scalar", "rules:\n  map:\n    cc: gcc\n"},
		{"map rule no cmd", "rules:\n  map:\n    cc: {in: .c, out: .o}\n"},
		{"map rule no in", "rules:\n  map:\n    cc: {out: .o, cmd: x}\n"},
		{"reduce rule mapping", "rules:\n  reduce:\n    ld: {cmd: x}\n"},
		{"install scalar", "features:\n  install: app\n"},
		{"bad yaml", "env: [a\n"},
		{"undefined alias", "actions:\n  noop: *nope\n"},
		{"merge scalar", "env:\n  <<: x\n"},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, errs := ParseSpec("x", []byte(test.yaml))
			assert.NotEmpty(t, errs)
		})
	}
}

const aliasTestSpec = `rules:
  map:
    cc: &cc
      in: .c
      out: .o
      cmd: cc -c $in -o $out
    cxx:
      <<: *cc
      in: .cpp
actions:
  $objs: &srcs
    cc: src/*.c
  noop: *srcs
`

func TestParseSpecAliases(t *testing.T) {
	spec, errs := ParseSpec("build.preninja", []byte(aliasTestSpec))
	require.Empty(t, errs)

	require.Len(t, spec.MapRules, 2)
	cxx := spec.MapRules[1]
	assert.Equal(t, "cxx", cxx.Name)
	assert.Equal(t, ".cpp", cxx.In)
	assert.Equal(t, ".o", cxx.Out)
	assert.Equal(t, "cc -c $in -o $out", cxx.Cmd)

	noop := spec.Actions.Get("noop")
	require.True(t, noop.IsMap())
	assert.Equal(t, "src/*.c", noop.Get("cc").Value)
}

func TestParseSpecDuplicateKeys(t *testing.T) {
	doc := "actions:\n  $objs: a\n  $objs: b\n"
	spec, errs := ParseSpec("x", []byte(doc))
	require.Empty(t, errs)

	require.Len(t, spec.Actions.Pairs, 2)
	assert.Equal(t, "a", spec.Actions.Pairs[0].Value.Value)
	assert.Equal(t, "b", spec.Actions.Pairs[1].Value.Value)
}

func TestParseSpecActionsKept(t *testing.T) {
	spec, errs := ParseSpec("x", []byte("actions: [a]\n"))
	require.Empty(t, errs)
	assert.True(t, spec.Actions.IsSeq())
}

func TestReadSpec(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, SpecFileName)
	require.NoError(t, os.WriteFile(f, []byte(testSpec), 0644))

	spec, errs := ReadSpec(f)
	require.Empty(t, errs)
	assert.Equal(t, f, spec.File)
	assert.Len(t, spec.MapRules, 2)
}

func TestReadSpecMissing(t *testing.T) {
	_, errs := ReadSpec(filepath.Join(t.TempDir(), SpecFileName))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Err.Error(), "does not exist")
}
