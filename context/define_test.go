package context

import (
	gocontext "context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/jsonld/errors"
	"github.com/c360/jsonld/syntax"
)

// mustApply builds a context from src, failing the test on error.
func mustApply(t *testing.T, src string) *ActiveContext {
	t.Helper()
	result, err := apply(t, NewActiveContext(""), src, nil)
	require.NoError(t, err)
	return result
}

func TestDefineTermForms(t *testing.T) {
	result := mustApply(t, `{
		"@vocab": "http://example.com/vocab/",
		"simple": "http://schema.org/simple",
		"expanded": {"@id": "http://schema.org/expanded"},
		"vocabed": {},
		"nulled": null,
		"curie": "ex:curie",
		"ex": "http://example.org/"
	}`)

	cases := []struct {
		term string
		iri  string
	}{
		{"simple", "http://schema.org/simple"},
		{"expanded", "http://schema.org/expanded"},
		{"vocabed", "http://example.com/vocab/vocabed"},
		{"nulled", ""},
		{"curie", "http://example.org/curie"},
	}
	for _, tc := range cases {
		td, ok := result.Term(tc.term)
		require.True(t, ok, tc.term)
		assert.Equal(t, tc.iri, td.IRI, tc.term)
	}

	nulled, _ := result.Term("nulled")
	assert.True(t, nulled.MappedToNull())
}

func TestDefineTermCyclicIRIMapping(t *testing.T) {
	_, err := apply(t, NewActiveContext(""), `{"a": "b:x", "b": "a:y"}`, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CyclicIRIMapping))
}

func TestDefineTermForwardReference(t *testing.T) {
	// A term may use another term defined later in the same context.
	result := mustApply(t, `{
		"knows": {"@id": "schema:knows"},
		"schema": "http://schema.org/"
	}`)
	knows, ok := result.Term("knows")
	require.True(t, ok)
	assert.Equal(t, "http://schema.org/knows", knows.IRI)
}

func TestDefineTermKeywordRedefinition(t *testing.T) {
	_, err := apply(t, NewActiveContext(""), `{"@id": "http://example.com/id"}`, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.KeywordRedefinition))
}

func TestDefineTermTypeRedefinition(t *testing.T) {
	// @type may gain @container: @set in 1.1, nothing else.
	result := mustApply(t, `{"@type": {"@container": "@set", "@protected": true}}`)
	td, ok := result.Term("@type")
	require.True(t, ok)
	assert.True(t, td.Container.Has(syntax.ContainerSet))
	assert.True(t, td.Protected)

	_, err := apply(t, NewActiveContext(""), `{"@type": {"@id": "http://example.com/type"}}`, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.KeywordRedefinition))
}

func TestDefineTermKeywordShapedIgnored(t *testing.T) {
	result := mustApply(t, `{"@ignoreMe": "http://example.com/x"}`)
	_, ok := result.Term("@ignoreMe")
	assert.False(t, ok)
}

func TestDefineTermProtected(t *testing.T) {
	protected := mustApply(t, `{"@protected": true, "name": "http://schema.org/name"}`)

	// Redefinition to a different IRI fails.
	_, err := apply(t, protected, `{"name": "http://example.com/name"}`, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ProtectedTermRedefinition))

	// An identical redefinition is accepted and stays protected.
	same, err := apply(t, protected, `{"name": "http://schema.org/name"}`, nil)
	require.NoError(t, err)
	td, _ := same.Term("name")
	assert.True(t, td.Protected)

	// OverrideProtected (property-scoped contexts) allows the change.
	p := NewProcessor(nil)
	opts := DefaultOptions()
	opts.OverrideProtected = true
	over, err := p.Process(gocontext.Background(), protected,
		mustParse(t, `{"name": "http://example.com/name"}`), opts)
	require.NoError(t, err)
	td, _ = over.Term("name")
	assert.Equal(t, "http://example.com/name", td.IRI)
}

func TestDefineTermContainers(t *testing.T) {
	result := mustApply(t, `{
		"list": {"@id": "http://e/list", "@container": "@list"},
		"byLang": {"@id": "http://e/l", "@container": ["@language", "@set"]},
		"byGraphID": {"@id": "http://e/g", "@container": ["@graph", "@id"]}
	}`)

	list, _ := result.Term("list")
	assert.Equal(t, syntax.ContainerList, list.Container)
	byLang, _ := result.Term("byLang")
	assert.True(t, byLang.Container.Has(syntax.ContainerLanguage|syntax.ContainerSet))
	byGraphID, _ := result.Term("byGraphID")
	assert.True(t, byGraphID.Container.Has(syntax.ContainerGraph|syntax.ContainerID))
}

func TestDefineTermInvalidContainers(t *testing.T) {
	cases := []string{
		`{"t": {"@id": "http://e/t", "@container": ["@list", "@set"]}}`,
		`{"t": {"@id": "http://e/t", "@container": ["@id", "@index"]}}`,
		`{"t": {"@id": "http://e/t", "@container": "@bogus"}}`,
		`{"t": {"@id": "http://e/t", "@container": 7}}`,
	}
	for _, src := range cases {
		_, err := apply(t, NewActiveContext(""), src, nil)
		require.Error(t, err, src)
		assert.True(t, errors.HasCode(err, errors.InvalidContainerMapping), src)
	}
}

func TestDefineTermContainersIn10Mode(t *testing.T) {
	p := NewProcessor(nil)
	opts := DefaultOptions()
	opts.Mode = syntax.ModeJSONLD10

	_, err := p.Process(gocontext.Background(), NewActiveContext(""),
		mustParse(t, `{"t": {"@id": "http://e/t", "@container": "@id"}}`), opts)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.InvalidContainerMapping))

	_, err = p.Process(gocontext.Background(), NewActiveContext(""),
		mustParse(t, `{"t": {"@id": "http://e/t", "@container": ["@set"]}}`), opts)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.InvalidContainerMapping))
}

func TestDefineTermTypeMapping(t *testing.T) {
	result := mustApply(t, `{
		"age": {"@id": "http://e/age", "@type": "http://www.w3.org/2001/XMLSchema#integer"},
		"ref": {"@id": "http://e/ref", "@type": "@id"},
		"raw": {"@id": "http://e/raw", "@type": "@json"}
	}`)
	age, _ := result.Term("age")
	assert.Equal(t, "http://www.w3.org/2001/XMLSchema#integer", age.Type)
	raw, _ := result.Term("raw")
	assert.Equal(t, "@json", raw.Type)

	_, err := apply(t, NewActiveContext(""), `{"t": {"@id": "http://e/t", "@type": "relative"}}`, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.InvalidTypeMapping))
}

func TestDefineTermReverse(t *testing.T) {
	result := mustApply(t, `{"children": {"@reverse": "http://example.com/parent"}}`)
	td, ok := result.Term("children")
	require.True(t, ok)
	assert.True(t, td.Reverse)
	assert.Equal(t, "http://example.com/parent", td.IRI)

	_, err := apply(t, NewActiveContext(""),
		`{"t": {"@reverse": "http://e/p", "@id": "http://e/q"}}`, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.InvalidReverseProperty))

	_, err = apply(t, NewActiveContext(""),
		`{"t": {"@reverse": "http://e/p", "@container": "@list"}}`, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.InvalidReverseProperty))
}

func TestDefineTermPrefixFlag(t *testing.T) {
	result := mustApply(t, `{
		"schema": "http://schema.org/",
		"noDelim": "http://example.com/noDelim",
		"declared": {"@id": "http://example.com/noDelim", "@prefix": true}
	}`)

	schema, _ := result.Term("schema")
	assert.True(t, schema.Prefix, "simple term ending in a gen-delim is a prefix")
	noDelim, _ := result.Term("noDelim")
	assert.False(t, noDelim.Prefix)
	declared, _ := result.Term("declared")
	assert.True(t, declared.Prefix, "@prefix: true forces prefix status")
}

func TestDefineTermScopedContext(t *testing.T) {
	result := mustApply(t, `{
		"Person": {"@id": "http://e/Person", "@context": {"name": "http://schema.org/name"}}
	}`)
	td, _ := result.Term("Person")
	assert.True(t, td.HasContext)
	require.NotNil(t, td.LocalContext)

	// Scoped contexts are stored unprocessed; invalid ones surface when
	// the term is used, not here.
	_, err := apply(t, NewActiveContext(""),
		`{"t": {"@id": "http://e/t", "@context": 9}}`, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.InvalidScopedContext))
}

func TestDefineTermLanguageAndDirection(t *testing.T) {
	result := mustApply(t, `{
		"title": {"@id": "http://e/title", "@language": "DE"},
		"noLang": {"@id": "http://e/noLang", "@language": null},
		"arabic": {"@id": "http://e/arabic", "@direction": "rtl"}
	}`)
	title, _ := result.Term("title")
	assert.True(t, title.HasLanguage)
	assert.Equal(t, "de", title.Language)
	noLang, _ := result.Term("noLang")
	assert.True(t, noLang.HasLanguage)
	assert.Equal(t, "", noLang.Language)
	arabic, _ := result.Term("arabic")
	assert.Equal(t, syntax.DirectionRTL, arabic.Direction)
}

func TestDefineTermNoVocabNoID(t *testing.T) {
	_, err := apply(t, NewActiveContext(""), `{"bare": {}}`, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.InvalidIRIMapping))
}

func TestDefineTermUnknownEntry(t *testing.T) {
	_, err := apply(t, NewActiveContext(""),
		`{"t": {"@id": "http://e/t", "@bogus": 1}}`, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.InvalidTermDefinition))
}

func TestExpandIRI(t *testing.T) {
	ac := mustApply(t, `{
		"@base": "http://example.com/base/",
		"@vocab": "http://example.com/vocab/",
		"schema": "http://schema.org/",
		"name": "http://schema.org/name",
		"id": "@id"
	}`)

	cases := []struct {
		name             string
		value            string
		vocab            bool
		documentRelative bool
		want             string
	}{
		{"keyword", "@type", true, false, "@type"},
		{"keyword alias", "id", true, false, "@id"},
		{"keyword shaped", "@Bogus", true, false, ""},
		{"term", "name", true, false, "http://schema.org/name"},
		{"compact IRI", "schema:age", true, false, "http://schema.org/age"},
		{"absolute IRI", "http://other.org/x", true, false, "http://other.org/x"},
		{"blank node", "_:b0", true, false, "_:b0"},
		{"vocab fallback", "unknown", true, false, "http://example.com/vocab/unknown"},
		{"document relative", "child", false, true, "http://example.com/base/child"},
		{"term not used without vocab", "name", false, true, "http://example.com/base/name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ac.ExpandIRI(tc.value, tc.vocab, tc.documentRelative)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
