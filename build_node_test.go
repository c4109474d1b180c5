package preninja

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphAdd(t *testing.T) {
	g := newGraph()

	e := &Edge{Out: "build/a.o", Rule: "cc", Ins: []string{"a.c"}}
	added, err := g.add(e)
	require.NoError(t, err)
	assert.True(t, added)

	same := &Edge{Out: "build/a.o", Rule: "cc", Ins: []string{"a.c"}}
	added, err = g.add(same)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, g.Edges, 1)

	other := &Edge{Out: "build/a.o", Rule: "cc", Ins: []string{"a/c"}}
	_, err = g.add(other)
	assert.Error(t, err)
	assert.Len(t, g.Edges, 1)

	assert.Same(t, e, g.Edge("build/a.o"))
	assert.Nil(t, g.Edge("build/b.o"))
}

func TestGraphUmbrella(t *testing.T) {
	g := newGraph()
	g.Default = []string{"app", "build/a.o"}
	assert.Equal(t, &Edge{
		Out:  "build",
		Rule: "phony",
		Ins:  []string{"app", "build/a.o"},
	}, g.Umbrella())
}

func TestGraphDigest(t *testing.T) {
	g := newGraph()
	_, err := g.add(&Edge{Out: "app", Rule: "ld", Ins: []string{"a.o"}})
	require.NoError(t, err)

	d1, err := g.Digest()
	require.NoError(t, err)
	d2, err := g.Digest()
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	g.Default = []string{"app"}
	d3, err := g.Digest()
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}
