package object

import (
	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/errors"
	"github.com/c360/jsonld/syntax"
)

// FromJSON re-ingests an expanded document (the interchange form produced
// by ToJSON) into expanded elements. It accepts a single node object or an
// array of them.
func FromJSON(v document.Value) ([]Element, error) {
	items, ok := v.(document.Array)
	if !ok {
		items = document.Array{v}
	}
	elements := make([]Element, 0, len(items))
	for i, item := range items {
		e, err := elementFromJSON(item, document.JoinPathIndex("", i))
		if err != nil {
			return nil, err
		}
		elements = append(elements, e)
	}
	return elements, nil
}

func elementFromJSON(v document.Value, path string) (Element, error) {
	obj, ok := v.(*document.Object)
	if !ok {
		return nil, errors.New(errors.InvalidValueObjectValue, path,
			"expanded element must be an object, got %s", v.Kind())
	}
	if obj.Has("@value") {
		return valueFromJSON(obj, path)
	}
	if obj.Has("@list") {
		return listFromJSON(obj, path)
	}
	return nodeFromJSON(obj, path)
}

func valueFromJSON(obj *document.Object, path string) (Element, error) {
	v := &Value{}
	for _, m := range obj.Members() {
		switch m.Key {
		case "@value":
			v.Literal = m.Value
		case "@type":
			s, ok := m.Value.(document.String)
			if !ok {
				return nil, errors.New(errors.InvalidTypedValue, document.JoinPath(path, m.Key),
					"@type of a value object must be a string")
			}
			v.Type = string(s)
		case "@language":
			s, ok := m.Value.(document.String)
			if !ok {
				return nil, errors.New(errors.InvalidLanguageTaggedString, document.JoinPath(path, m.Key),
					"@language must be a string")
			}
			v.Language = string(s)
		case "@direction":
			s, _ := m.Value.(document.String)
			d, ok := syntax.ParseDirection(string(s))
			if !ok {
				return nil, errors.New(errors.InvalidBaseDirection, document.JoinPath(path, m.Key),
					"@direction must be \"ltr\" or \"rtl\"")
			}
			v.Direction = d
		case "@index":
			s, ok := m.Value.(document.String)
			if !ok {
				return nil, errors.New(errors.InvalidIndexValue, document.JoinPath(path, m.Key),
					"@index must be a string")
			}
			v.Index = string(s)
		default:
			return nil, errors.New(errors.InvalidValueObject, document.JoinPath(path, m.Key),
				"member %q is not allowed in a value object", m.Key)
		}
	}
	if v.Type != "" && v.Language != "" {
		return nil, errors.New(errors.InvalidValueObject, path,
			"@type and @language are mutually exclusive")
	}
	return v, nil
}

func listFromJSON(obj *document.Object, path string) (Element, error) {
	l := &List{}
	for _, m := range obj.Members() {
		switch m.Key {
		case "@list":
			items, ok := m.Value.(document.Array)
			if !ok {
				items = document.Array{m.Value}
			}
			for i, item := range items {
				e, err := elementFromJSON(item, document.JoinPathIndex(document.JoinPath(path, "@list"), i))
				if err != nil {
					return nil, err
				}
				l.Items = append(l.Items, e)
			}
		case "@index":
			s, _ := m.Value.(document.String)
			l.Index = string(s)
		default:
			return nil, errors.New(errors.InvalidSetOrListObject, document.JoinPath(path, m.Key),
				"member %q is not allowed in a list object", m.Key)
		}
	}
	return l, nil
}

func nodeFromJSON(obj *document.Object, path string) (Element, error) {
	n := NewNode()
	for _, m := range obj.Members() {
		memberPath := document.JoinPath(path, m.Key)
		switch m.Key {
		case "@id":
			s, ok := m.Value.(document.String)
			if !ok {
				return nil, errors.New(errors.InvalidIDValue, memberPath, "@id must be a string")
			}
			n.ID = string(s)
		case "@type":
			types, ok := m.Value.(document.Array)
			if !ok {
				types = document.Array{m.Value}
			}
			for _, t := range types {
				s, ok := t.(document.String)
				if !ok {
					return nil, errors.New(errors.InvalidTypeValue, memberPath,
						"@type entries must be strings")
				}
				n.Types = append(n.Types, string(s))
			}
		case "@index":
			s, ok := m.Value.(document.String)
			if !ok {
				return nil, errors.New(errors.InvalidIndexValue, memberPath, "@index must be a string")
			}
			n.Index = string(s)
		case "@reverse":
			rev, ok := m.Value.(*document.Object)
			if !ok {
				return nil, errors.New(errors.InvalidReverseValue, memberPath, "@reverse must be an object")
			}
			for _, rm := range rev.Members() {
				values, err := elementsFromJSON(rm.Value, document.JoinPath(memberPath, rm.Key))
				if err != nil {
					return nil, err
				}
				n.Reverse.Add(rm.Key, values...)
			}
		case "@graph":
			values, err := elementsFromJSON(m.Value, memberPath)
			if err != nil {
				return nil, err
			}
			n.Graph = values
			n.HasGraph = true
		case "@included":
			values, err := elementsFromJSON(m.Value, memberPath)
			if err != nil {
				return nil, err
			}
			n.Included = values
		default:
			values, err := elementsFromJSON(m.Value, memberPath)
			if err != nil {
				return nil, err
			}
			n.Properties.Add(m.Key, values...)
		}
	}
	return n, nil
}

func elementsFromJSON(v document.Value, path string) ([]Element, error) {
	items, ok := v.(document.Array)
	if !ok {
		items = document.Array{v}
	}
	elements := make([]Element, 0, len(items))
	for i, item := range items {
		e, err := elementFromJSON(item, document.JoinPathIndex(path, i))
		if err != nil {
			return nil, err
		}
		elements = append(elements, e)
	}
	return elements, nil
}
