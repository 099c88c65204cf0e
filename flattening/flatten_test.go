package flattening

import (
	gocontext "context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jldcontext "github.com/c360/jsonld/context"
	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/errors"
	"github.com/c360/jsonld/expansion"
	"github.com/c360/jsonld/object"
)

// expandSource expands a JSON document so tests work on real expanded
// elements.
func expandSource(t *testing.T, src string) []object.Element {
	t.Helper()
	doc, err := document.ParseString(src)
	require.NoError(t, err)
	e := expansion.New(jldcontext.NewProcessor(nil))
	elements, err := e.Expand(gocontext.Background(), jldcontext.NewActiveContext(""), doc, expansion.Options{})
	require.NoError(t, err)
	return elements
}

func flattenSource(t *testing.T, src string) document.Value {
	t.Helper()
	flat, err := New().Flatten(expandSource(t, src), Options{})
	require.NoError(t, err)
	return object.ToJSON(flat)
}

func jsonText(v document.Value) string {
	s, _ := document.MarshalString(v)
	return s
}

func assertJSONEqual(t *testing.T, want string, got document.Value) {
	t.Helper()
	expected, err := document.ParseString(want)
	require.NoError(t, err)
	assert.True(t, document.Equal(expected, got),
		"expected %s, got %s", want, jsonText(got))
}

func TestFlattenLabelsAnonymousNodes(t *testing.T) {
	got := flattenSource(t, `{
		"@context": {"knows": {"@id": "http://schema.org/knows"}},
		"@id": "http://example.com/ada",
		"knows": {"http://schema.org/name": "Grace"}
	}`)
	assertJSONEqual(t, `[
		{"@id": "_:b0", "http://schema.org/name": [{"@value": "Grace"}]},
		{"@id": "http://example.com/ada", "http://schema.org/knows": [{"@id": "_:b0"}]}
	]`, got)
}

func TestFlattenMergesDuplicateIDs(t *testing.T) {
	got := flattenSource(t, `{
		"@context": {"name": "http://schema.org/name", "age": "http://schema.org/age"},
		"@graph": [
			{"@id": "http://example.com/a", "name": "Ada"},
			{"@id": "http://example.com/a", "age": 36}
		]
	}`)
	assertJSONEqual(t, `[
		{
			"@id": "http://example.com/a",
			"http://schema.org/name": [{"@value": "Ada"}],
			"http://schema.org/age": [{"@value": 36,
				"@type": "http://www.w3.org/2001/XMLSchema#integer"}]
		}
	]`, got)
}

func TestFlattenDeduplicatesValues(t *testing.T) {
	elements := expandSource(t, `{
		"@context": {"name": "http://schema.org/name"},
		"@graph": [
			{"@id": "http://example.com/a", "name": "Ada"},
			{"@id": "http://example.com/a", "name": "Ada"}
		]
	}`)
	flat, err := New().Flatten(elements, Options{})
	require.NoError(t, err)
	require.Len(t, flat, 1)
	node := flat[0].(*object.Node)
	assert.Len(t, node.Properties.Get("http://schema.org/name"), 1)
}

func TestFlattenSortsByIdentifier(t *testing.T) {
	elements := expandSource(t, `{
		"@context": {"name": "http://schema.org/name"},
		"@graph": [
			{"@id": "http://example.com/z", "name": "Z"},
			{"@id": "http://example.com/a", "name": "A"}
		]
	}`)
	flat, err := New().Flatten(elements, Options{})
	require.NoError(t, err)
	require.Len(t, flat, 2)
	assert.Equal(t, "http://example.com/a", flat[0].(*object.Node).ID)
	assert.Equal(t, "http://example.com/z", flat[1].(*object.Node).ID)
}

func TestFlattenRelabelsBlankNodes(t *testing.T) {
	got := flattenSource(t, `{
		"@context": {"knows": {"@id": "http://schema.org/knows", "@type": "@id"}},
		"@id": "_:existing",
		"knows": "_:existing"
	}`)
	assertJSONEqual(t, `[
		{"@id": "_:b0", "http://schema.org/knows": [{"@id": "_:b0"}]}
	]`, got)
}

func TestFlattenReverseBecomesForwardEdge(t *testing.T) {
	got := flattenSource(t, `{
		"@context": {"parentOf": "http://example.com/parentOf"},
		"@id": "http://example.com/alice",
		"@reverse": {"parentOf": {"@id": "http://example.com/bob"}}
	}`)
	// alice ends up with only an identifier and is filtered from the
	// flat output; the materialized forward edge on bob survives.
	assertJSONEqual(t, `[
		{"@id": "http://example.com/bob",
			"http://example.com/parentOf": [{"@id": "http://example.com/alice"}]}
	]`, got)
}

func TestFlattenNamedGraph(t *testing.T) {
	got := flattenSource(t, `{
		"@context": {"name": "http://schema.org/name"},
		"@id": "http://example.com/graph1",
		"@graph": [{"@id": "http://example.com/a", "name": "A"}]
	}`)
	assertJSONEqual(t, `[
		{"@id": "http://example.com/graph1", "@graph": [
			{"@id": "http://example.com/a", "http://schema.org/name": [{"@value": "A"}]}
		]}
	]`, got)
}

func TestFlattenConflictingIndexes(t *testing.T) {
	elements := expandSource(t, `{
		"@context": {"knows": "http://schema.org/knows"},
		"@graph": [
			{"@id": "http://example.com/a", "@index": "one",
				"knows": {"@id": "http://example.com/b"}},
			{"@id": "http://example.com/a", "@index": "two",
				"knows": {"@id": "http://example.com/c"}}
		]
	}`)
	_, err := New().Flatten(elements, Options{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ConflictingIndexes))
}

func TestFlattenKeepsListsNested(t *testing.T) {
	got := flattenSource(t, `{
		"@context": {"prop": "http://example.com/prop"},
		"@id": "http://example.com/a",
		"prop": {"@list": ["x", {"@id": "http://example.com/b",
			"http://schema.org/name": "B"}]}
	}`)
	assertJSONEqual(t, `[
		{"@id": "http://example.com/a", "http://example.com/prop": [
			{"@list": [{"@value": "x"}, {"@id": "http://example.com/b"}]}
		]},
		{"@id": "http://example.com/b", "http://schema.org/name": [{"@value": "B"}]}
	]`, got)
}

func TestFlattenIncludedJoinsGraph(t *testing.T) {
	got := flattenSource(t, `{
		"@context": {"name": "http://schema.org/name"},
		"@id": "http://example.com/a",
		"name": "A",
		"@included": [{"@id": "http://example.com/b", "name": "B"}]
	}`)
	assertJSONEqual(t, `[
		{"@id": "http://example.com/a", "http://schema.org/name": [{"@value": "A"}]},
		{"@id": "http://example.com/b", "http://schema.org/name": [{"@value": "B"}]}
	]`, got)
}
