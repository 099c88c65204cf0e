package context

import (
	gocontext "context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/errors"
	"github.com/c360/jsonld/loader"
	"github.com/c360/jsonld/syntax"
)

func mustParse(t *testing.T, src string) document.Value {
	t.Helper()
	v, err := document.ParseString(src)
	require.NoError(t, err)
	return v
}

// apply runs one local context through a fresh processor over the given
// active context.
func apply(t *testing.T, active *ActiveContext, src string, l loader.Loader) (*ActiveContext, error) {
	t.Helper()
	p := NewProcessor(l)
	return p.Process(gocontext.Background(), active, mustParse(t, src), DefaultOptions())
}

func TestProcessInlineContext(t *testing.T) {
	active := NewActiveContext("http://example.com/doc")
	result, err := apply(t, active, `{
		"@vocab": "http://example.com/vocab/",
		"@language": "EN",
		"name": "http://schema.org/name",
		"knows": {"@id": "http://schema.org/knows", "@type": "@id", "@container": "@set"}
	}`, nil)
	require.NoError(t, err)

	assert.Equal(t, "http://example.com/vocab/", result.Vocab())
	lang, ok := result.DefaultLanguage()
	assert.True(t, ok)
	assert.Equal(t, "en", lang, "default language is lowercased")

	name, ok := result.Term("name")
	require.True(t, ok)
	assert.Equal(t, "http://schema.org/name", name.IRI)

	knows, ok := result.Term("knows")
	require.True(t, ok)
	assert.Equal(t, "@id", knows.Type)
	assert.True(t, knows.Container.Has(syntax.ContainerSet))

	// The input context is untouched.
	_, ok = active.Term("name")
	assert.False(t, ok)
}

func TestProcessBase(t *testing.T) {
	active := NewActiveContext("http://example.com/doc")
	result, err := apply(t, active, `{"@base": "http://other.org/"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://other.org/", result.Base())

	result, err = apply(t, result, `{"@base": "sub/"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://other.org/sub/", result.Base(), "relative @base resolves against the current base")

	result, err = apply(t, result, `{"@base": null}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "", result.Base())
}

func TestProcessContextArrayOrder(t *testing.T) {
	active := NewActiveContext("")
	result, err := apply(t, active, `[
		{"name": "http://schema.org/name"},
		{"name": "http://example.com/name"}
	]`, nil)
	require.NoError(t, err)

	name, ok := result.Term("name")
	require.True(t, ok)
	assert.Equal(t, "http://example.com/name", name.IRI, "later contexts override earlier ones")
}

func TestProcessNullResets(t *testing.T) {
	active := NewActiveContext("http://example.com/doc")
	withTerms, err := apply(t, active, `{"name": "http://schema.org/name", "@vocab": "http://v/"}`, nil)
	require.NoError(t, err)

	reset, err := apply(t, withTerms, `null`, nil)
	require.NoError(t, err)
	_, ok := reset.Term("name")
	assert.False(t, ok)
	assert.Equal(t, "", reset.Vocab())
	assert.Equal(t, "http://example.com/doc", reset.Base(), "reset restores the original base")
}

func TestProcessNullWithProtectedTerms(t *testing.T) {
	active := NewActiveContext("")
	protected, err := apply(t, active, `{"@protected": true, "name": "http://schema.org/name"}`, nil)
	require.NoError(t, err)

	_, err = apply(t, protected, `null`, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.InvalidContextNullification))

	// Override (as used for property-scoped contexts) permits the reset.
	p := NewProcessor(nil)
	opts := DefaultOptions()
	opts.OverrideProtected = true
	_, err = p.Process(gocontext.Background(), protected, document.Null{}, opts)
	assert.NoError(t, err)
}

func TestProcessRemoteContext(t *testing.T) {
	ml := loader.NewMapLoader()
	require.NoError(t, ml.AddJSON("http://example.com/ctx",
		`{"@context": {"name": "http://schema.org/name"}}`))

	result, err := apply(t, NewActiveContext(""), `"http://example.com/ctx"`, ml)
	require.NoError(t, err)
	name, ok := result.Term("name")
	require.True(t, ok)
	assert.Equal(t, "http://schema.org/name", name.IRI)
}

func TestProcessRemoteContextCycle(t *testing.T) {
	ml := loader.NewMapLoader()
	require.NoError(t, ml.AddJSON("http://example.com/a", `{"@context": "http://example.com/b"}`))
	require.NoError(t, ml.AddJSON("http://example.com/b", `{"@context": "http://example.com/a"}`))

	_, err := apply(t, NewActiveContext(""), `"http://example.com/a"`, ml)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.RecursiveContextInclusion))
}

func TestProcessRemoteContextRepeatedNotCyclic(t *testing.T) {
	// The same context twice in sequence is allowed; only reentry while
	// still resolving is a cycle.
	ml := loader.NewMapLoader()
	require.NoError(t, ml.AddJSON("http://example.com/ctx",
		`{"@context": {"name": "http://schema.org/name"}}`))

	_, err := apply(t, NewActiveContext(""),
		`["http://example.com/ctx", "http://example.com/ctx"]`, ml)
	assert.NoError(t, err)
}

func TestProcessRemoteContextLoadFailure(t *testing.T) {
	_, err := apply(t, NewActiveContext(""), `"http://example.com/missing"`, loader.NoLoader{})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.LoadingRemoteContextFailed))
	assert.True(t, errors.IsLoading(err))
}

func TestProcessRemoteContextNotAnObject(t *testing.T) {
	ml := loader.NewMapLoader()
	require.NoError(t, ml.AddJSON("http://example.com/ctx", `["not", "a", "context"]`))

	_, err := apply(t, NewActiveContext(""), `"http://example.com/ctx"`, ml)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.InvalidRemoteContext))
}

func TestProcessRemoteContextOverflow(t *testing.T) {
	ml := loader.NewMapLoader()
	require.NoError(t, ml.AddJSON("http://example.com/ctx",
		`{"@context": {"name": "http://schema.org/name"}}`))

	p := NewProcessor(ml, WithMaxRemoteContexts(2))
	_, err := p.Process(gocontext.Background(), NewActiveContext(""), mustParse(t,
		`["http://example.com/ctx", "http://example.com/ctx", "http://example.com/ctx"]`),
		DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ContextOverflow))
}

func TestProcessRelativeContextIRI(t *testing.T) {
	ml := loader.NewMapLoader()
	require.NoError(t, ml.AddJSON("http://example.com/dir/ctx",
		`{"@context": {"name": "http://schema.org/name"}}`))

	p := NewProcessor(ml)
	opts := DefaultOptions()
	opts.BaseURL = "http://example.com/dir/doc"
	result, err := p.Process(gocontext.Background(), NewActiveContext(""),
		mustParse(t, `"ctx"`), opts)
	require.NoError(t, err)
	_, ok := result.Term("name")
	assert.True(t, ok)
}

func TestProcessImport(t *testing.T) {
	ml := loader.NewMapLoader()
	require.NoError(t, ml.AddJSON("http://example.com/base-ctx",
		`{"@context": {"@vocab": "http://example.com/vocab/", "name": "http://schema.org/name"}}`))

	result, err := apply(t, NewActiveContext(""), `{
		"@import": "http://example.com/base-ctx",
		"name": "http://example.com/name"
	}`, ml)
	require.NoError(t, err)

	assert.Equal(t, "http://example.com/vocab/", result.Vocab())
	name, ok := result.Term("name")
	require.True(t, ok)
	assert.Equal(t, "http://example.com/name", name.IRI, "importing context entries win")
}

func TestProcessImportNested(t *testing.T) {
	ml := loader.NewMapLoader()
	require.NoError(t, ml.AddJSON("http://example.com/inner",
		`{"@context": {"@import": "http://example.com/deeper"}}`))

	_, err := apply(t, NewActiveContext(""), `{"@import": "http://example.com/inner"}`, ml)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.InvalidContextEntry))
}

func TestProcessVersion(t *testing.T) {
	_, err := apply(t, NewActiveContext(""), `{"@version": 1.1}`, nil)
	assert.NoError(t, err)

	_, err = apply(t, NewActiveContext(""), `{"@version": 1.0}`, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.InvalidVersionValue))

	p := NewProcessor(nil)
	opts := DefaultOptions()
	opts.Mode = syntax.ModeJSONLD10
	_, err = p.Process(gocontext.Background(), NewActiveContext(""),
		mustParse(t, `{"@version": 1.1}`), opts)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ProcessingModeConflict))
}

func TestProcessPropagateFalse(t *testing.T) {
	active := NewActiveContext("")
	before, err := apply(t, active, `{"name": "http://schema.org/name"}`, nil)
	require.NoError(t, err)

	scoped, err := apply(t, before, `{"@propagate": false, "nick": "http://schema.org/nick"}`, nil)
	require.NoError(t, err)

	_, ok := scoped.Term("nick")
	assert.True(t, ok)
	require.NotNil(t, scoped.Previous())
	_, ok = scoped.Previous().Term("nick")
	assert.False(t, ok, "rollback target predates the scoped context")
	_, ok = scoped.Previous().Term("name")
	assert.True(t, ok)
}

func TestProcessPropagateFalseKeepsProtection(t *testing.T) {
	active := NewActiveContext("")
	protected, err := apply(t, active, `{"@protected": true, "name": "http://schema.org/name"}`, nil)
	require.NoError(t, err)

	// Rollback scope does not loosen protection: redefinition still fails.
	_, err = apply(t, protected, `{"@propagate": false, "name": "http://example.com/name"}`, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ProtectedTermRedefinition))

	// A matching redefinition is a no-op and stays legal.
	scoped, err := apply(t, protected, `{"@propagate": false, "name": "http://schema.org/name", "nick": "http://schema.org/nick"}`, nil)
	require.NoError(t, err)
	td, ok := scoped.Term("name")
	require.True(t, ok)
	assert.True(t, td.Protected)
}

func TestProcessPropagateInvalidValue(t *testing.T) {
	_, err := apply(t, NewActiveContext(""), `{"@propagate": "yes"}`, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.InvalidPropagateValue))
}

func TestProcessDirection(t *testing.T) {
	result, err := apply(t, NewActiveContext(""), `{"@direction": "rtl"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, syntax.DirectionRTL, result.DefaultDirection())

	p := NewProcessor(nil)
	opts := DefaultOptions()
	opts.Mode = syntax.ModeJSONLD10
	_, err = p.Process(gocontext.Background(), NewActiveContext(""),
		mustParse(t, `{"@direction": "rtl"}`), opts)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.InvalidContextEntry))
}

func TestProcessInvalidLocalContext(t *testing.T) {
	_, err := apply(t, NewActiveContext(""), `[42]`, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.InvalidLocalContext))
}
