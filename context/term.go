// Package context implements the JSON-LD Active Context: term definitions,
// the context processing algorithm over inline, remote, and scoped local
// contexts, IRI expansion, and the inverse context index used by
// compaction.
package context

import (
	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/syntax"
)

// TermDefinition is the resolved meaning of one term: its IRI mapping and
// the container, type, language, and direction constraints that apply when
// the term is used as a property.
type TermDefinition struct {
	// IRI is the IRI mapping: an absolute IRI, blank node label, or
	// keyword (for aliases). Empty means the term is explicitly mapped
	// to null, dropping the key on expansion.
	IRI string

	Container syntax.Container

	// Type is the type mapping: an absolute IRI or one of @id, @vocab,
	// @json, @none. Empty when unset.
	Type string

	// Language is the language mapping, lowercased. HasLanguage
	// distinguishes an explicit null mapping from an absent one.
	Language    string
	HasLanguage bool

	// Direction is the direction mapping. DirectionNone means unset;
	// DirectionNull means an explicit null clearing the default.
	Direction syntax.Direction

	// Index is the @index property used with index containers.
	Index string

	// Nest names the nest property under which values of the term are
	// placed, "@nest" or an alias of it.
	Nest string

	// Reverse marks a reverse property.
	Reverse bool

	// Prefix marks the term as usable as a compact IRI prefix.
	Prefix bool

	// Protected forbids redefinition except by an identical definition.
	Protected bool

	// BaseURL is the base against which relative IRIs inside the scoped
	// context are resolved.
	BaseURL string

	// LocalContext is the unprocessed scoped context applied whenever
	// the term is used as a property; nil when none.
	LocalContext document.Value
	HasContext   bool
}

// MappedToNull reports whether the term is explicitly decoupled from any
// IRI, dropping matching keys during expansion.
func (td *TermDefinition) MappedToNull() bool {
	return td.IRI == "" && !td.Reverse
}

// SameAs reports structural equality with another definition, ignoring
// the Protected flag. Used for protected term redefinition checks, where
// only an identical redefinition is accepted.
func (td *TermDefinition) SameAs(other *TermDefinition) bool {
	if td == nil || other == nil {
		return td == other
	}
	if td.IRI != other.IRI ||
		td.Container != other.Container ||
		td.Type != other.Type ||
		td.Language != other.Language ||
		td.HasLanguage != other.HasLanguage ||
		td.Direction != other.Direction ||
		td.Index != other.Index ||
		td.Nest != other.Nest ||
		td.Reverse != other.Reverse ||
		td.Prefix != other.Prefix ||
		td.HasContext != other.HasContext {
		return false
	}
	if td.HasContext && !document.Equal(td.LocalContext, other.LocalContext) {
		return false
	}
	return true
}

// clone returns a copy of the definition.
func (td *TermDefinition) clone() *TermDefinition {
	c := *td
	return &c
}
