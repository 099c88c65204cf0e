// Package loader provides the remote document loading contract consumed
// by the context processor, along with in-memory, chained, and HTTP
// implementations.
package loader

import (
	"context"
	"fmt"

	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/errors"
)

// Document is the result of loading one remote document: the parsed
// content, the final IRI after redirects, and the context link target
// advertised by the server (empty when none).
type Document struct {
	Content     document.Value
	DocumentURL string
	ContextURL  string
}

// Loader loads remote documents by IRI. Implementations must be safe for
// concurrent use; independent context resolutions may issue loads
// concurrently.
type Loader interface {
	Load(ctx context.Context, iri string) (*Document, error)
}

// NoLoader is a loader that fails every load. Useful when processing
// documents known to reference no remote contexts.
type NoLoader struct{}

// Load always fails with the offending IRI.
func (NoLoader) Load(_ context.Context, iri string) (*Document, error) {
	return nil, errors.WrapLoading(errors.ErrNoLoader, iri)
}

// MapLoader serves documents from a fixed in-memory table, keyed by IRI.
// It backs tests and fully pre-resolved processing.
type MapLoader struct {
	docs map[string]*Document
}

// NewMapLoader creates an empty MapLoader.
func NewMapLoader() *MapLoader {
	return &MapLoader{docs: make(map[string]*Document)}
}

// Add registers a document under the given IRI.
func (m *MapLoader) Add(iri string, content document.Value) {
	m.docs[iri] = &Document{Content: content, DocumentURL: iri}
}

// AddJSON parses src and registers it under the given IRI.
func (m *MapLoader) AddJSON(iri, src string) error {
	content, err := document.ParseString(src)
	if err != nil {
		return fmt.Errorf("loader: invalid document for %s: %w", iri, err)
	}
	m.Add(iri, content)
	return nil
}

// Load returns the registered document or a wrapped not-found error.
func (m *MapLoader) Load(_ context.Context, iri string) (*Document, error) {
	doc, ok := m.docs[iri]
	if !ok {
		return nil, errors.WrapLoading(errors.ErrDocumentNotFound, iri)
	}
	return doc, nil
}

// ChainLoader loads from the first loader, falling back to the second on
// failure. Useful for combining a local fixture set with a live HTTP
// loader. Chains nest to combine more than two loaders.
type ChainLoader struct {
	first  Loader
	second Loader
}

// NewChainLoader builds a chain of two loaders.
func NewChainLoader(first, second Loader) *ChainLoader {
	return &ChainLoader{first: first, second: second}
}

// Load tries the first loader, then the second. When both fail, both
// errors are reported.
func (c *ChainLoader) Load(ctx context.Context, iri string) (*Document, error) {
	doc, err1 := c.first.Load(ctx, iri)
	if err1 == nil {
		return doc, nil
	}
	doc, err2 := c.second.Load(ctx, iri)
	if err2 == nil {
		return doc, nil
	}
	return nil, errors.WrapLoading(fmt.Errorf("%v, then %w", err1, err2), iri)
}
