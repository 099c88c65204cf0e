package expansion

import (
	"strings"

	"github.com/c360/jsonld/context"
	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/errors"
	"github.com/c360/jsonld/object"
	"github.com/c360/jsonld/syntax"
)

// expandLiteral is the value expansion algorithm for scalars: apply the
// active property's type and language coercion.
func expandLiteral(active *context.ActiveContext, activeProp string,
	literal document.Value) (object.Element, error) {

	td, _ := active.Term(activeProp)
	typeMapping := ""
	if td != nil {
		typeMapping = td.Type
	}

	if s, isString := literal.(document.String); isString {
		switch typeMapping {
		case "@id":
			expanded, err := active.ExpandIRI(string(s), false, true)
			if err != nil {
				return nil, err
			}
			return object.NewNodeRef(expanded), nil
		case "@vocab":
			expanded, err := active.ExpandIRI(string(s), true, true)
			if err != nil {
				return nil, err
			}
			return object.NewNodeRef(expanded), nil
		}
	}

	value := &object.Value{Literal: literal}
	switch {
	case typeMapping == "@json":
		value.Type = "@json"
	case typeMapping != "" && typeMapping != "@id" && typeMapping != "@vocab" && typeMapping != "@none":
		value.Type = typeMapping
	case literal.Kind() == document.KindString:
		if td != nil && td.HasLanguage {
			value.Language = td.Language
		} else if lang, ok := active.DefaultLanguage(); ok {
			value.Language = lang
		}
		switch {
		case td != nil && td.Direction == syntax.DirectionNull:
			// Explicit null clears the default direction.
		case td != nil && td.Direction != syntax.DirectionNone:
			value.Direction = td.Direction
		default:
			value.Direction = active.DefaultDirection()
		}
	case typeMapping != "@none":
		// Native booleans and numbers carry their implicit datatype
		// unless a coercion overrides it.
		value.Type = object.ImplicitType(literal)
	}
	return value, nil
}

// member is one object member with its key pre-expanded.
type member struct {
	key      string
	expanded string
	value    document.Value
	path     string
}

// expandValueObject validates and expands an object containing @value.
// Only @value, @type, @language, @direction, and @index may co-occur.
func expandValueObject(active *context.ActiveContext, members []member,
	path string, mode syntax.ProcessingMode) (object.Element, error) {

	value := &object.Value{}
	hasLanguage := false
	for _, m := range members {
		switch m.expanded {
		case "@value":
			value.Literal = m.value
		case "@type":
			s, isString := m.value.(document.String)
			if !isString {
				return nil, errors.New(errors.InvalidTypedValue, m.path, "@type must be a string")
			}
			expanded, err := active.ExpandIRI(string(s), true, true)
			if err != nil {
				return nil, err
			}
			if expanded != "@json" && !strings.Contains(expanded, ":") {
				return nil, errors.New(errors.InvalidTypedValue, m.path,
					"@type must expand to an absolute IRI, got %q", s)
			}
			value.Type = expanded
		case "@language":
			s, isString := m.value.(document.String)
			if !isString {
				return nil, errors.New(errors.InvalidLanguageTaggedString, m.path,
					"@language must be a string")
			}
			value.Language = strings.ToLower(string(s))
			hasLanguage = true
		case "@direction":
			s, isString := m.value.(document.String)
			d, ok := syntax.ParseDirection(string(s))
			if !isString || !ok {
				return nil, errors.New(errors.InvalidBaseDirection, m.path,
					"@direction must be \"ltr\" or \"rtl\"")
			}
			value.Direction = d
		case "@index":
			s, isString := m.value.(document.String)
			if !isString {
				return nil, errors.New(errors.InvalidIndexValue, m.path, "@index must be a string")
			}
			value.Index = string(s)
		default:
			return nil, errors.New(errors.CollidingKeywords, m.path,
				"%q cannot appear in a value object", m.key)
		}
	}

	if hasLanguage && value.Type != "" {
		return nil, errors.New(errors.InvalidLanguageMappedValue, path,
			"@language and @type are mutually exclusive")
	}
	if value.Type == "@json" && mode == syntax.ModeJSONLD10 {
		return nil, errors.New(errors.InvalidTypedValue, path, "@json values require JSON-LD 1.1")
	}
	if value.Literal == nil || value.Literal.Kind() == document.KindNull {
		// A null @value makes the whole object null.
		return nil, nil
	}
	if value.Type != "@json" && !document.IsScalar(value.Literal) {
		return nil, errors.New(errors.InvalidValueObjectValue, path,
			"@value must be a scalar unless typed @json")
	}
	if hasLanguage && value.Literal.Kind() != document.KindString {
		return nil, errors.New(errors.InvalidLanguageTaggedValue, path,
			"only strings can carry a language tag")
	}
	return value, nil
}

// expandListObject expands an object containing @list. Only @index may
// co-occur.
func (e *Expander) expandListObject(st *state, active *context.ActiveContext,
	activeProp string, members []member, path string) ([]object.Element, error) {

	// Free-floating lists are dropped.
	if activeProp == "" || activeProp == "@graph" {
		return nil, nil
	}

	list := &object.List{}
	for _, m := range members {
		switch m.expanded {
		case "@list":
			items, err := e.expandElement(st, active, activeProp, m.value, m.path, false)
			if err != nil {
				return nil, err
			}
			for _, item := range items {
				if _, isList := item.(*object.List); isList {
					return nil, errors.New(errors.ListOfLists, m.path,
						"a list cannot directly contain another list")
				}
			}
			list.Items = items
		case "@index":
			s, isString := m.value.(document.String)
			if !isString {
				return nil, errors.New(errors.InvalidIndexValue, m.path, "@index must be a string")
			}
			list.Index = string(s)
		default:
			return nil, errors.New(errors.InvalidSetOrListObject, m.path,
				"%q cannot appear in a list object", m.key)
		}
	}
	return []object.Element{list}, nil
}

// expandSetObject expands an object containing @set: the set wrapper
// disappears and its content is expanded in place. An @index member is
// permitted and dropped.
func (e *Expander) expandSetObject(st *state, active *context.ActiveContext,
	activeProp string, members []member) ([]object.Element, error) {

	var setValue document.Value
	setPath := ""
	for _, m := range members {
		switch m.expanded {
		case "@set":
			setValue, setPath = m.value, m.path
		case "@index":
		default:
			return nil, errors.New(errors.InvalidSetOrListObject, m.path,
				"%q cannot appear in a set object", m.key)
		}
	}
	return e.expandElement(st, active, activeProp, setValue, setPath, false)
}
