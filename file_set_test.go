package preninja

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFiles(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(f), 0644))
	}
}

func TestDirGlob(t *testing.T) {
	dir := t.TempDir()
	writeTestFiles(
		t, dir,
		"z.c", "a.c", "x.h",
		"sub/b.c", "sub/deep/c.c",
		"d.c/inner.txt",
	)
	glob := DirGlob(dir)

	for _, test := range []struct {
		pattern string
		want    []string
	}{
		{"*.c", []string{"a.c", "z.c"}},
		{"**/*.c", []string{"a.c", "sub/b.c", "sub/deep/c.c", "z.c"}},
		{"sub/*.c", []string{"sub/b.c"}},
		{"x.h", []string{"x.h"}},
		{"nope/*.c", nil},
		{"missing.c", nil},
	} {
		got, err := glob(test.pattern)
		require.NoError(t, err, test.pattern)
		assert.Equal(t, test.want, got, test.pattern)
	}
}

func TestDirGlobAbs(t *testing.T) {
	dir := t.TempDir()
	writeTestFiles(t, dir, "a.c")

	got, err := DirGlob("")(filepath.Join(dir, "*.c"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.ToSlash(filepath.Join(dir, "a.c"))}, got)
}

func TestDirGlobBadPattern(t *testing.T) {
	_, err := DirGlob(t.TempDir())("[")
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	p, err := expandHome("~/src/*.c")
	require.NoError(t, err)
	assert.Equal(t, home+"/src/*.c", p)

	p, err = expandHome("src/~a.c")
	require.NoError(t, err)
	assert.Equal(t, "src/~a.c", p)
}
