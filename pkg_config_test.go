package preninja

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeFlags struct {
	queries []string
	fail    bool
}

func (f *fakeFlags) QueryFlags(_ context.Context, args []string) (
	string, error,
) {
	q := strings.Join(args, " ")
	f.queries = append(f.queries, q)
	if f.fail {
		return "", errors.New("package not found")
	}
	return "<" + q + ">\n", nil
}

func TestPkgConfigArgs(t *testing.T) {
	for _, test := range []struct {
		name, pkgs string
		want       []string
		ok         bool
	}{
		{"cflags", "sdl2", []string{"--cflags", "sdl2"}, true},
		{"sdl_cflags", "sdl2 gl", []string{"--cflags", "sdl2", "gl"}, true},
		{"ldflags", "zlib", []string{"--libs", "zlib"}, true},
		{"libs", "zlib", []string{"--cflags", "--libs", "zlib"}, false},
	} {
		args, ok := pkgConfigArgs(test.name, test.pkgs)
		assert.Equal(t, test.want, args, test.name)
		assert.Equal(t, test.ok, ok, test.name)
	}
}

func TestResolveVars(t *testing.T) {
	spec := &Spec{
		Env: []*Var{
			{Name: "cflags", Value: "-O2"},
			{Name: "cc", Value: "clang"},
		},
		PkgConfig: []*Var{
			{Name: "cflags", Value: "sdl2"},
			{Name: "ldflags", Value: "zlib"},
			{Name: "flags", Value: "gl"},
		},
	}

	core, logs := observer.New(zap.WarnLevel)
	q := new(fakeFlags)
	vars, errs := resolveVars(context.Background(), spec, q, zap.New(core))
	require.Empty(t, errs)

	assert.Equal(t, Vars{
		"cc":      "clang",
		"cflags":  "-O2 <--cflags sdl2>",
		"ldflags": " <--libs zlib>",
		"flags":   " <--cflags --libs gl>",
	}, vars)
	assert.Equal(t, []string{"cc", "cflags", "flags", "ldflags"}, vars.Names())
	assert.Len(t, q.queries, 3)
	assert.Equal(t, 1, logs.FilterMessage("unknown pkg-config type").Len())
}

func TestResolveVarsError(t *testing.T) {
	spec := &Spec{PkgConfig: []*Var{{Name: "cflags", Value: "nope"}}}
	_, errs := resolveVars(
		context.Background(), spec, &fakeFlags{fail: true}, zap.NewNop(),
	)
	assert.Len(t, errs, 1)
}
