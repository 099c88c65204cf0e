package expansion

import (
	"strings"

	"github.com/c360/jsonld/context"
	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/errors"
	"github.com/c360/jsonld/object"
	"github.com/c360/jsonld/syntax"
)

// expandPropertyMember expands one non-keyword member of a node object
// into property entries, honoring the term's container mapping.
func (e *Expander) expandPropertyMember(st *state, active *context.ActiveContext,
	node *object.Node, m member) error {

	td, _ := active.Term(m.key)
	var container syntax.Container
	if td != nil {
		container = td.Container
	}

	if td != nil && td.Reverse {
		items, err := e.expandElement(st, active, m.key, m.value, m.path, false)
		if err != nil {
			return err
		}
		for _, item := range items {
			if _, isNode := item.(*object.Node); !isNode {
				return errors.New(errors.InvalidReversePropertyValue, m.path,
					"reverse property values must be node objects")
			}
		}
		st.receiving(node).Reverse.Add(m.expanded, items...)
		return nil
	}

	// A @json type mapping takes the value verbatim as a JSON literal.
	if td != nil && td.Type == "@json" && st.opts.Mode != syntax.ModeJSONLD10 {
		node.Properties.Add(m.expanded, &object.Value{Literal: m.value, Type: "@json"})
		return nil
	}

	var items []object.Element
	var err error
	obj, isObj := m.value.(*document.Object)
	switch {
	case container.Has(syntax.ContainerLanguage) && isObj:
		items, err = e.expandLanguageMap(st, active, obj, m)
	case container.Has(syntax.ContainerIndex) && isObj:
		items, err = e.expandIndexMap(st, active, td, container, obj, m)
	case container.Has(syntax.ContainerID) && isObj:
		items, err = e.expandIDMap(st, active, container, obj, m)
	case container.Has(syntax.ContainerType) && isObj:
		items, err = e.expandTypeMap(st, active, obj, m)
	default:
		items, err = e.expandElement(st, active, m.key, m.value, m.path, false)
	}
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	if container.Has(syntax.ContainerList) {
		if _, isList := items[0].(*object.List); !isList || len(items) > 1 {
			items = []object.Element{&object.List{Items: items}}
		}
	}
	if container.Has(syntax.ContainerGraph) &&
		!container.Has(syntax.ContainerID) && !container.Has(syntax.ContainerIndex) {
		for i, item := range items {
			items[i] = wrapGraph(item)
		}
	}
	node.Properties.Add(m.expanded, items...)
	return nil
}

// wrapGraph wraps an element into a graph object unless it is one.
func wrapGraph(el object.Element) object.Element {
	if n, isNode := el.(*object.Node); isNode && n.HasGraph {
		return el
	}
	return &object.Node{Graph: []object.Element{el}, HasGraph: true}
}

// isNoneKey reports whether a container map key is @none or an alias.
func isNoneKey(active *context.ActiveContext, key string) bool {
	if key == "@none" {
		return true
	}
	expanded, err := active.ExpandIRI(key, true, false)
	return err == nil && expanded == "@none"
}

// expandLanguageMap expands a language container: keys are language
// tags, values are strings tagged with them.
func (e *Expander) expandLanguageMap(st *state, active *context.ActiveContext,
	obj *document.Object, m member) ([]object.Element, error) {

	var result []object.Element
	for _, langKey := range obj.OrderedKeys(st.opts.Ordered) {
		value, _ := obj.Get(langKey)
		entries, isArr := value.(document.Array)
		if !isArr {
			entries = document.Array{value}
		}
		tagged := !isNoneKey(active, langKey)
		for i, entry := range entries {
			if entry == nil || entry.Kind() == document.KindNull {
				continue
			}
			s, isString := entry.(document.String)
			if !isString {
				return nil, errors.New(errors.InvalidLanguageMapValue,
					document.JoinPathIndex(document.JoinPath(m.path, langKey), i),
					"language map values must be strings")
			}
			v := &object.Value{Literal: s}
			if tagged {
				v.Language = strings.ToLower(langKey)
			}
			if d := active.DefaultDirection(); d == syntax.DirectionLTR || d == syntax.DirectionRTL {
				v.Direction = d
			}
			result = append(result, v)
		}
	}
	return result, nil
}

// expandIndexMap expands an index container, including the @graph and
// property-valued (@index entry in the term definition) variants.
func (e *Expander) expandIndexMap(st *state, active *context.ActiveContext,
	td *context.TermDefinition, container syntax.Container,
	obj *document.Object, m member) ([]object.Element, error) {

	var result []object.Element
	for _, indexKey := range obj.OrderedKeys(st.opts.Ordered) {
		value, _ := obj.Get(indexKey)
		entryPath := document.JoinPath(m.path, indexKey)
		items, err := e.expandElement(st, active, m.key, value, entryPath, true)
		if err != nil {
			return nil, err
		}
		indexed := !isNoneKey(active, indexKey)
		for _, item := range items {
			if container.Has(syntax.ContainerGraph) {
				item = wrapGraph(item)
			}
			if indexed {
				if err := attachIndex(active, item, indexKey, td, entryPath); err != nil {
					return nil, err
				}
			}
			result = append(result, item)
		}
	}
	return result, nil
}

// attachIndex records a container map key on one expanded item, either
// as @index or, for property-valued indexes, as an additional property.
func attachIndex(active *context.ActiveContext, item object.Element,
	indexKey string, td *context.TermDefinition, path string) error {

	if td != nil && td.Index != "" {
		n, isNode := item.(*object.Node)
		if !isNode {
			return errors.New(errors.InvalidIndexValue, path,
				"property-valued indexes require node objects")
		}
		indexProp, err := active.ExpandIRI(td.Index, true, false)
		if err != nil {
			return err
		}
		n.Properties.Add(indexProp, &object.Value{Literal: document.String(indexKey)})
		return nil
	}

	switch it := item.(type) {
	case *object.Value:
		if it.Index == "" {
			it.Index = indexKey
		}
	case *object.List:
		if it.Index == "" {
			it.Index = indexKey
		}
	case *object.Node:
		if it.Index == "" {
			it.Index = indexKey
		}
	}
	return nil
}

// expandIDMap expands an id container: keys name the node identifiers
// (or, combined with @graph, the named graphs) of their values.
func (e *Expander) expandIDMap(st *state, active *context.ActiveContext,
	container syntax.Container, obj *document.Object, m member) ([]object.Element, error) {

	var result []object.Element
	for _, idKey := range obj.OrderedKeys(st.opts.Ordered) {
		value, _ := obj.Get(idKey)
		entryPath := document.JoinPath(m.path, idKey)
		items, err := e.expandElement(st, active, m.key, value, entryPath, true)
		if err != nil {
			return nil, err
		}
		identified := !isNoneKey(active, idKey)
		var id string
		if identified {
			if id, err = active.ExpandIRI(idKey, false, true); err != nil {
				return nil, err
			}
		}
		for _, item := range items {
			n, isNode := item.(*object.Node)
			if !isNode {
				return nil, errors.New(errors.InvalidIDValue, entryPath,
					"id map values must be node objects")
			}
			if container.Has(syntax.ContainerGraph) {
				graph := &object.Node{Graph: []object.Element{item}, HasGraph: true, ID: id}
				result = append(result, graph)
				continue
			}
			if identified && n.ID == "" {
				n.ID = id
				st.register(n)
			}
			result = append(result, n)
		}
	}
	return result, nil
}

// expandTypeMap expands a type container: keys name an additional type
// of their values, and a key's scoped context applies to its values.
func (e *Expander) expandTypeMap(st *state, active *context.ActiveContext,
	obj *document.Object, m member) ([]object.Element, error) {

	var result []object.Element
	for _, typeKey := range obj.OrderedKeys(st.opts.Ordered) {
		value, _ := obj.Get(typeKey)
		entryPath := document.JoinPath(m.path, typeKey)

		scoped := active
		if keyTd, ok := active.Term(typeKey); ok && keyTd.HasContext {
			var err error
			scoped, err = e.contexts.Process(st.ctx, active, keyTd.LocalContext, context.Options{
				BaseURL:   keyTd.BaseURL,
				Mode:      st.opts.Mode,
				Propagate: false,
			})
			if err != nil {
				return nil, err
			}
		}

		items, err := e.expandElement(st, scoped, m.key, value, entryPath, true)
		if err != nil {
			return nil, err
		}
		typed := !isNoneKey(active, typeKey)
		var typeIRI string
		if typed {
			if typeIRI, err = active.ExpandIRI(typeKey, true, true); err != nil {
				return nil, err
			}
		}
		for _, item := range items {
			n, isNode := item.(*object.Node)
			if !isNode {
				return nil, errors.New(errors.InvalidTypeValue, entryPath,
					"type map values must be node objects")
			}
			if typed {
				n.Types = append([]string{typeIRI}, n.Types...)
			}
			result = append(result, n)
		}
	}
	return result, nil
}
