package blanknode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequential_FreshLabels(t *testing.T) {
	g := NewSequential()
	assert.Equal(t, "_:b0", g.Issue(""))
	assert.Equal(t, "_:b1", g.Issue(""))
	assert.Equal(t, "_:b2", g.Issue(""))
}

func TestSequential_StableRelabeling(t *testing.T) {
	g := NewSequential()
	first := g.Issue("_:old0")
	second := g.Issue("_:old1")

	assert.Equal(t, "_:b0", first)
	assert.Equal(t, "_:b1", second)
	assert.Equal(t, first, g.Issue("_:old0"))
	assert.Equal(t, second, g.Issue("_:old1"))
}

func TestSequential_CustomPrefix(t *testing.T) {
	g := NewSequentialWithPrefix("t")
	assert.Equal(t, "_:t0", g.Issue(""))
}

func TestUUID_UniqueLabels(t *testing.T) {
	g := NewUUID()
	a := g.Issue("")
	b := g.Issue("")

	assert.True(t, strings.HasPrefix(a, "_:"))
	assert.NotEqual(t, a, b)

	stable := g.Issue("_:x")
	assert.Equal(t, stable, g.Issue("_:x"))
}
