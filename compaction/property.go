package compaction

import (
	gocontext "context"

	"github.com/c360/jsonld/context"
	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/errors"
	"github.com/c360/jsonld/object"
	"github.com/c360/jsonld/syntax"
)

// compactProperty compacts one expanded value of one property into the
// result object, selecting the term per value and reconstructing the
// term's container shape. Errors bubble up so the enclosing node can
// degrade to expanded form.
func (c *Compactor) compactProperty(ctx gocontext.Context, active *context.ActiveContext,
	result *document.Object, iri string, value object.Element, reverse bool, opts Options) error {

	term := c.compactIRI(active, iri, value, true, reverse, opts)
	td, _ := active.Term(term)

	if td != nil && td.HasContext {
		scoped, err := c.contexts.Process(ctx, active, td.LocalContext, context.Options{
			BaseURL:           td.BaseURL,
			Mode:              opts.Mode,
			OverrideProtected: true,
			Propagate:         true,
		})
		if err != nil {
			return err
		}
		active = scoped
		if rescoped, ok := active.Term(term); ok {
			td = rescoped
		}
	}

	var container syntax.Container
	if td != nil {
		container = td.Container
	}

	switch {
	case isGraph(value) && container.Has(syntax.ContainerGraph):
		return c.compactGraphContainer(ctx, active, result, term, td, value.(*object.Node), opts)
	case container.Has(syntax.ContainerLanguage):
		return c.compactLanguageEntry(active, result, term, td, value, opts)
	case container.Has(syntax.ContainerIndex):
		return c.compactIndexEntry(ctx, active, result, term, td, value, opts)
	case container.Has(syntax.ContainerID):
		return c.compactIDEntry(ctx, active, result, term, td, value, opts)
	case container.Has(syntax.ContainerType):
		return c.compactTypeEntry(ctx, active, result, term, td, value, opts)
	}

	compacted := c.compactElement(ctx, active, term, value, opts)

	// Under a list container the compacted list is already the bare
	// array; a second list for the same term keeps the explicit wrapper
	// so both survive.
	if container.Has(syntax.ContainerList) {
		if arr, isArr := compacted.(document.Array); isArr {
			if _, exists := result.Get(term); !exists {
				result.Set(term, arr)
				return nil
			}
			wrapper := document.NewObject()
			wrapper.Set(c.compactKeyword(active, "@list"), arr)
			compacted = wrapper
		}
	}

	appendMember(result, term, compacted, collapseSingle(td, opts))
	return nil
}

// compactLanguageEntry places a language-tagged string into the term's
// language map.
func (c *Compactor) compactLanguageEntry(active *context.ActiveContext,
	result *document.Object, term string, td *context.TermDefinition,
	value object.Element, opts Options) error {

	v, isValue := value.(*object.Value)
	if !isValue || v.Type != "" || v.Literal.Kind() != document.KindString {
		return errors.New(errors.InvalidLanguageMapValue, "",
			"%s values must be language-tagged strings", term)
	}
	if v.Direction != languageMapDirection(active) {
		return errors.New(errors.InvalidLanguageMapValue, "",
			"direction of %s value does not round-trip through a language map", term)
	}

	key := v.Language
	if key == "" {
		key = c.compactKeyword(active, "@none")
	}
	c.addMapEntry(result, term, key, v.Literal, collapseSingle(td, opts))
	return nil
}

// languageMapDirection is the direction a language map entry re-acquires
// on expansion.
func languageMapDirection(active *context.ActiveContext) syntax.Direction {
	if d := active.DefaultDirection(); d == syntax.DirectionLTR || d == syntax.DirectionRTL {
		return d
	}
	return syntax.DirectionNone
}

// compactIndexEntry places a value into the term's index map, keyed by
// the value's @index or, for property-valued indexes, by the index
// property.
func (c *Compactor) compactIndexEntry(ctx gocontext.Context, active *context.ActiveContext,
	result *document.Object, term string, td *context.TermDefinition,
	value object.Element, opts Options) error {

	if td.Index != "" {
		return c.compactPropertyIndexEntry(ctx, active, result, term, td, value, opts)
	}

	key := elementIndex(value)
	if key == "" {
		key = c.compactKeyword(active, "@none")
	}
	// The map key carries the index; element compaction suppresses the
	// @index member for index-container terms.
	compacted := c.compactElement(ctx, active, term, value, opts)
	c.addMapEntry(result, term, key, compacted, collapseSingle(td, opts))
	return nil
}

// compactPropertyIndexEntry handles the property-valued index variant:
// the map key is a value of the index property, which moves out of the
// node and into the key.
func (c *Compactor) compactPropertyIndexEntry(ctx gocontext.Context, active *context.ActiveContext,
	result *document.Object, term string, td *context.TermDefinition,
	value object.Element, opts Options) error {

	node, isNode := value.(*object.Node)
	if !isNode {
		return errors.New(errors.InvalidIndexValue, "",
			"property-valued index maps require node objects")
	}
	indexProp, err := active.ExpandIRI(td.Index, true, false)
	if err != nil {
		return err
	}

	key := ""
	for _, pv := range node.Properties.Get(indexProp) {
		v, isValue := pv.(*object.Value)
		if !isValue || v.Type != "" || v.Language != "" {
			continue
		}
		if s, isString := v.Literal.(document.String); isString {
			key = string(s)
			break
		}
	}

	compacted := c.compactElement(ctx, active, term, node, opts)
	if key == "" {
		c.addMapEntry(result, term, c.compactKeyword(active, "@none"),
			compacted, collapseSingle(td, opts))
		return nil
	}
	if obj, isObj := compacted.(*document.Object); isObj {
		c.trimIndexValue(active, obj, indexProp, key)
	}
	c.addMapEntry(result, term, key, compacted, collapseSingle(td, opts))
	return nil
}

// trimIndexValue removes the one occurrence of the map key from the
// compacted node's index property, which re-expansion reinstates.
func (c *Compactor) trimIndexValue(active *context.ActiveContext,
	obj *document.Object, indexProp, key string) {

	for _, memberKey := range obj.Keys() {
		expanded, err := active.ExpandIRI(memberKey, true, false)
		if err != nil || expanded != indexProp {
			continue
		}
		memberValue, _ := obj.Get(memberKey)
		switch mv := memberValue.(type) {
		case document.String:
			if string(mv) == key {
				obj.Delete(memberKey)
			}
		case document.Array:
			trimmed := make(document.Array, 0, len(mv))
			removed := false
			for _, item := range mv {
				if s, isString := item.(document.String); isString && string(s) == key && !removed {
					removed = true
					continue
				}
				trimmed = append(trimmed, item)
			}
			switch len(trimmed) {
			case 0:
				obj.Delete(memberKey)
			case 1:
				obj.Set(memberKey, trimmed[0])
			default:
				obj.Set(memberKey, trimmed)
			}
		}
		return
	}
}

// compactIDEntry places a node into the term's id map, keyed by its
// identifier.
func (c *Compactor) compactIDEntry(ctx gocontext.Context, active *context.ActiveContext,
	result *document.Object, term string, td *context.TermDefinition,
	value object.Element, opts Options) error {

	node, isNode := value.(*object.Node)
	if !isNode {
		return errors.New(errors.InvalidIDValue, "", "id maps require node objects")
	}

	key := c.compactKeyword(active, "@none")
	stripped := *node
	if node.ID != "" {
		key = c.compactIRI(active, node.ID, nil, false, false, opts)
		stripped.ID = ""
	}
	compacted := c.compactElement(ctx, active, term, &stripped, opts)
	c.addMapEntry(result, term, key, compacted, collapseSingle(td, opts))
	return nil
}

// compactTypeEntry places a node into the term's type map, keyed by its
// first type.
func (c *Compactor) compactTypeEntry(ctx gocontext.Context, active *context.ActiveContext,
	result *document.Object, term string, td *context.TermDefinition,
	value object.Element, opts Options) error {

	node, isNode := value.(*object.Node)
	if !isNode {
		return errors.New(errors.InvalidTypeValue, "", "type maps require node objects")
	}

	key := c.compactKeyword(active, "@none")
	stripped := *node
	if len(node.Types) > 0 {
		key = c.compactIRI(active, node.Types[0], nil, true, false, opts)
		stripped.Types = node.Types[1:]
	}
	compacted := c.compactElement(ctx, active, term, &stripped, opts)
	c.addMapEntry(result, term, key, compacted, collapseSingle(td, opts))
	return nil
}

// compactGraphContainer compacts a graph object under a graph container:
// id- and index-keyed map variants, or the bare spliced form.
func (c *Compactor) compactGraphContainer(ctx gocontext.Context, active *context.ActiveContext,
	result *document.Object, term string, td *context.TermDefinition,
	node *object.Node, opts Options) error {

	switch {
	case td.Container.Has(syntax.ContainerID):
		key := c.compactKeyword(active, "@none")
		stripped := *node
		if node.ID != "" {
			key = c.compactIRI(active, node.ID, nil, false, false, opts)
			stripped.ID = ""
		}
		compacted := c.compactElement(ctx, active, term, &stripped, opts)
		c.addMapEntry(result, term, key, compacted, collapseSingle(td, opts))

	case td.Container.Has(syntax.ContainerIndex):
		key := node.Index
		stripped := *node
		if key == "" {
			key = c.compactKeyword(active, "@none")
		} else {
			stripped.Index = ""
		}
		compacted := c.compactElement(ctx, active, term, &stripped, opts)
		c.addMapEntry(result, term, key, compacted, collapseSingle(td, opts))

	default:
		compacted := c.compactElement(ctx, active, term, node, opts)
		appendMember(result, term, compacted, collapseSingle(td, opts))
	}
	return nil
}

// addMapEntry appends a value under a key of the container map stored at
// the term.
func (c *Compactor) addMapEntry(result *document.Object, term, key string,
	value document.Value, collapse bool) {

	existing, ok := result.Get(term)
	containerMap, isObj := existing.(*document.Object)
	if !ok || !isObj {
		containerMap = document.NewObject()
		result.Set(term, containerMap)
	}
	appendMember(containerMap, key, value, collapse)
}

// appendMember adds a value under a key, growing an array on repeats.
// With collapse, a first single value stays bare.
func appendMember(obj *document.Object, key string, value document.Value, collapse bool) {
	existing, ok := obj.Get(key)
	if !ok {
		if collapse {
			obj.Set(key, value)
			return
		}
		obj.Set(key, document.Array{value})
		return
	}
	arr, isArr := existing.(document.Array)
	if !isArr {
		arr = document.Array{existing}
	}
	obj.Set(key, append(arr, value))
}

// collapseSingle reports whether single values of the term stay bare:
// @set and @list containers always keep the array form.
func collapseSingle(td *context.TermDefinition, opts Options) bool {
	if !opts.CompactArrays {
		return false
	}
	if td == nil {
		return true
	}
	return !td.Container.Has(syntax.ContainerSet) && !td.Container.Has(syntax.ContainerList)
}
