package preninja

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalOut(t *testing.T) {
	for _, test := range []struct {
		dep, in, out string
		want         string
	}{
		{"a.c", ".c", ".o", "build/a.o"},
		{"sub/b.c", ".c", ".o", "build/sub.b.o"},
		{"a/b/c.c", ".c", ".o", "build/a.b.c.o"},
		{"build/a.o", ".o", ".elf", "build/a.elf"},
		{"build/sub.b.o", ".o", ".so", "build/sub.b.so"},
		{"Makefile", "", ".bak", "build/Makefile.bak"},
		{"main.c", "main.c", "main", "build/main"},
	} {
		got, err := canonicalOut(test.dep, test.in, test.out)
		if assert.NoError(t, err, test.dep) {
			assert.Equal(t, test.want, got, test.dep)
		}
	}
}

func TestCanonicalOutMismatch(t *testing.T) {
	_, err := canonicalOut("a.cpp", ".c", ".o")
	assert.True(t, errors.Is(err, ErrExtensionMismatch))
}
