package compaction

import (
	"github.com/c360/jsonld/context"
	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/object"
	"github.com/c360/jsonld/syntax"
)

// compactValue is the value compaction algorithm: a value object elides
// to its bare literal when the active property's coercions reproduce it
// on expansion, and keeps the explicit form otherwise.
func (c *Compactor) compactValue(active *context.ActiveContext, activeProp string,
	v *object.Value, opts Options) document.Value {

	td, _ := active.Term(activeProp)
	typeMapping := ""
	if td != nil {
		typeMapping = td.Type
	}

	// An index container carries the index in the map key.
	index := v.Index
	if index != "" && td != nil && td.Container.Has(syntax.ContainerIndex) {
		index = ""
	}

	if index == "" && elidesToLiteral(active, td, typeMapping, v) {
		return v.Literal
	}

	obj := document.NewObject()
	obj.Set(c.compactKeyword(active, "@value"), v.Literal)
	if v.Type == "@json" {
		obj.Set(c.compactKeyword(active, "@type"),
			document.String(c.compactKeyword(active, "@json")))
	} else if v.Type != "" {
		obj.Set(c.compactKeyword(active, "@type"),
			document.String(c.compactIRI(active, v.Type, nil, true, false, opts)))
	}
	if v.Language != "" {
		obj.Set(c.compactKeyword(active, "@language"), document.String(v.Language))
	}
	if v.Direction == syntax.DirectionLTR || v.Direction == syntax.DirectionRTL {
		obj.Set(c.compactKeyword(active, "@direction"), document.String(string(v.Direction)))
	}
	if index != "" {
		obj.Set(c.compactKeyword(active, "@index"), document.String(index))
	}
	return obj
}

// elidesToLiteral reports whether expanding the bare literal under the
// term's coercions reproduces the value object exactly.
func elidesToLiteral(active *context.ActiveContext, td *context.TermDefinition,
	typeMapping string, v *object.Value) bool {

	// A matching type coercion absorbs the datatype, @json included.
	if v.Type != "" && v.Type == typeMapping {
		return true
	}

	switch v.Literal.Kind() {
	case document.KindBool, document.KindNumber:
		// Natives re-acquire their implicit datatype unless a coercion
		// overrides or suppresses it.
		switch typeMapping {
		case "", "@id", "@vocab":
			return v.Type == object.ImplicitType(v.Literal)
		case "@none":
			return v.Type == ""
		}
		return false

	case document.KindString:
		if v.Type != "" {
			return false
		}
		// A bare string under an @id or @vocab coercion would expand to
		// a node reference instead.
		if typeMapping != "" && typeMapping != "@none" {
			return false
		}
		return v.Language == effectiveLanguage(active, td) &&
			v.Direction == effectiveDirection(active, td)
	}
	return false
}

// effectiveLanguage is the language a bare string acquires on expansion
// under the term.
func effectiveLanguage(active *context.ActiveContext, td *context.TermDefinition) string {
	if td != nil && td.HasLanguage {
		return td.Language
	}
	if lang, ok := active.DefaultLanguage(); ok {
		return lang
	}
	return ""
}

// effectiveDirection is the direction a bare string acquires on
// expansion under the term.
func effectiveDirection(active *context.ActiveContext, td *context.TermDefinition) syntax.Direction {
	switch {
	case td != nil && td.Direction == syntax.DirectionNull:
		return syntax.DirectionNone
	case td != nil && td.Direction != syntax.DirectionNone:
		return td.Direction
	}
	if d := active.DefaultDirection(); d == syntax.DirectionLTR || d == syntax.DirectionRTL {
		return d
	}
	return syntax.DirectionNone
}
