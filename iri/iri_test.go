package iri

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAbsolute(t *testing.T) {
	tests := []struct {
		iri      string
		expected bool
	}{
		{"http://schema.org/name", true},
		{"https://example.com", true},
		{"urn:uuid:1234", true},
		{"did:example:123", true},
		{"ex+spec:thing", true},
		{"relative/path", false},
		{"#fragment", false},
		{"", false},
		{":noScheme", false},
		{"1http://bad", false},
		{"http://with space", false},
		{"_:b0", false},
	}

	for _, test := range tests {
		t.Run(test.iri, func(t *testing.T) {
			assert.Equal(t, test.expected, IsAbsolute(test.iri))
		})
	}
}

func TestIsBlankNode(t *testing.T) {
	assert.True(t, IsBlankNode("_:b0"))
	assert.False(t, IsBlankNode("b0"))
	assert.True(t, IsAbsoluteOrBlank("_:b0"))
	assert.True(t, IsAbsoluteOrBlank("http://example.com/a"))
	assert.False(t, IsAbsoluteOrBlank("rel"))
}

func TestSplitCompact(t *testing.T) {
	prefix, suffix, ok := SplitCompact("schema:name")
	assert.True(t, ok)
	assert.Equal(t, "schema", prefix)
	assert.Equal(t, "name", suffix)

	_, _, ok = SplitCompact("noColon")
	assert.False(t, ok)

	_, _, ok = SplitCompact("_:b0")
	assert.False(t, ok)

	_, _, ok = SplitCompact("http://example.com/a")
	assert.False(t, ok)

	_, _, ok = SplitCompact(":leading")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		ref      string
		expected string
	}{
		{"absolute ref wins", "http://a/b", "http://c/d", "http://c/d"},
		{"relative path", "http://a/b/c", "d", "http://a/b/d"},
		{"dot segments", "http://a/b/c/d", "../e", "http://a/b/e"},
		{"fragment", "http://a/b", "#frag", "http://a/b#frag"},
		{"query", "http://a/b", "?q=1", "http://a/b?q=1"},
		{"empty base", "", "rel", "rel"},
		{"authority", "http://a/b", "//c/d", "http://c/d"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Resolve(test.base, test.ref))
		})
	}
}

func TestRelativeTo(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		iri      string
		expected string
	}{
		{"sibling", "http://a/b/c", "http://a/b/d", "d"},
		{"child", "http://a/b/", "http://a/b/c/d", "c/d"},
		{"fragment only", "http://a/b", "http://a/b#f", "#f"},
		{"query", "http://a/b", "http://a/b?q=1", "?q=1"},
		{"different host", "http://a/b", "http://c/b", "http://c/b"},
		{"no common dir", "http://a/x/y", "http://a/z", "http://a/z"},
		{"same document", "http://a/b/c", "http://a/b/c", "c"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, RelativeTo(test.base, test.iri))
		})
	}
}
