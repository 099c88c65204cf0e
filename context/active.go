package context

import (
	"sort"
	"sync"

	"github.com/c360/jsonld/syntax"
)

// ActiveContext is the resolved vocabulary state in effect at a point in
// a document: term definitions, base IRI, vocabulary mapping, and default
// language and direction.
//
// Active contexts are immutable once published: extension always produces
// a new context, so contexts are safely shared by reference across
// concurrent processing calls. The previous-context back-reference
// supports scope rollback for non-propagated contexts.
type ActiveContext struct {
	terms map[string]*TermDefinition

	base         string
	originalBase string
	vocab        string

	defaultLanguage    string
	hasDefaultLanguage bool
	defaultDirection   syntax.Direction

	previous *ActiveContext

	inverseOnce sync.Once
	inverse     InverseContext
}

// NewActiveContext creates the initial active context with the given base
// IRI (which may be empty).
func NewActiveContext(base string) *ActiveContext {
	return &ActiveContext{
		terms:        make(map[string]*TermDefinition),
		base:         base,
		originalBase: base,
	}
}

// Term returns the definition for term, if any.
func (ac *ActiveContext) Term(term string) (*TermDefinition, bool) {
	td, ok := ac.terms[term]
	return td, ok
}

// Base returns the current base IRI, or "" when unset.
func (ac *ActiveContext) Base() string { return ac.base }

// OriginalBase returns the base IRI the initial context was created with.
func (ac *ActiveContext) OriginalBase() string { return ac.originalBase }

// Vocab returns the vocabulary mapping, or "" when unset.
func (ac *ActiveContext) Vocab() string { return ac.vocab }

// DefaultLanguage returns the default language and whether one is set.
func (ac *ActiveContext) DefaultLanguage() (string, bool) {
	return ac.defaultLanguage, ac.hasDefaultLanguage
}

// DefaultDirection returns the default base direction.
func (ac *ActiveContext) DefaultDirection() syntax.Direction { return ac.defaultDirection }

// Previous returns the context this one will roll back to when a
// non-propagated scope ends, or nil.
func (ac *ActiveContext) Previous() *ActiveContext { return ac.previous }

// TermNames returns all defined term names, sorted by length then
// lexicographically, the iteration order the inverse context build and
// deterministic processing depend on.
func (ac *ActiveContext) TermNames() []string {
	names := make([]string, 0, len(ac.terms))
	for name := range ac.terms {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) < len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// HasProtectedTerms reports whether any term definition is protected.
func (ac *ActiveContext) HasProtectedTerms() bool {
	for _, td := range ac.terms {
		if td.Protected {
			return true
		}
	}
	return false
}

// extend returns a mutable working copy with the same state and a fresh
// term map. The copy is private to the context processing run that created
// it until published.
func (ac *ActiveContext) extend() *ActiveContext {
	terms := make(map[string]*TermDefinition, len(ac.terms))
	for name, td := range ac.terms {
		terms[name] = td
	}
	return &ActiveContext{
		terms:              terms,
		base:               ac.base,
		originalBase:       ac.originalBase,
		vocab:              ac.vocab,
		defaultLanguage:    ac.defaultLanguage,
		hasDefaultLanguage: ac.hasDefaultLanguage,
		defaultDirection:   ac.defaultDirection,
		previous:           ac.previous,
	}
}
