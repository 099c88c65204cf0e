package expansion

import (
	"sort"
	"strings"

	"github.com/c360/jsonld/context"
	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/errors"
	"github.com/c360/jsonld/object"
	"github.com/c360/jsonld/syntax"
)

// expandObject expands one JSON object: value, list, and set objects
// dispatch to their specialized rules, everything else is a node object.
func (e *Expander) expandObject(st *state, active *context.ActiveContext,
	activeProp string, obj *document.Object, path string, fromMap bool) ([]object.Element, error) {

	// Roll back a non-propagated scoped context unless the object keeps
	// it alive: container map values, value objects, and bare node
	// references stay in the scoped context.
	if prev := active.Previous(); prev != nil && !fromMap {
		valueObj, subjectRef, err := classifyForRollback(active, obj)
		if err != nil {
			return nil, err
		}
		if !valueObj && !subjectRef {
			active = prev
		}
	}

	scoped, err := e.applyPropertyScope(st, active, activeProp)
	if err != nil {
		return nil, err
	}
	active = scoped

	if localCtx, ok := obj.Get("@context"); ok {
		active, err = e.contexts.Process(st.ctx, active, localCtx, context.Options{
			BaseURL:   st.opts.BaseURL,
			Mode:      st.opts.Mode,
			Propagate: true,
		})
		if err != nil {
			return nil, err
		}
	}

	// Type-scoped contexts apply before member expansion, in
	// lexicographic order of the type values. @type values themselves
	// are expanded against the pre-type-scoped context.
	typeScoped := active
	active, err = e.applyTypeScopes(st, active, obj, path)
	if err != nil {
		return nil, err
	}

	members, err := expandMembers(active, obj, path, st.opts.Ordered)
	if err != nil {
		return nil, err
	}

	for _, m := range members {
		switch m.expanded {
		case "@value":
			value, err := expandValueObject(active, members, path, st.opts.Mode)
			if err != nil || value == nil {
				return nil, err
			}
			// Free-floating values are dropped.
			if activeProp == "" || activeProp == "@graph" {
				return nil, nil
			}
			return []object.Element{value}, nil
		case "@list":
			return e.expandListObject(st, active, activeProp, members, path)
		case "@set":
			return e.expandSetObject(st, active, activeProp, members)
		}
	}

	node := object.NewNode()
	if err := e.expandNodeMembers(st, active, typeScoped, node, members, activeProp); err != nil {
		return nil, err
	}
	st.register(node)

	// Free-floating empty nodes and bare references are dropped.
	if (activeProp == "" || activeProp == "@graph") && (node.IsEmpty() || node.IsReference()) {
		return nil, nil
	}
	return []object.Element{node}, nil
}

// classifyForRollback reports whether the object is a value object or a
// bare subject reference under the current context.
func classifyForRollback(active *context.ActiveContext, obj *document.Object) (valueObj, subjectRef bool, err error) {
	keys := obj.Keys()
	idOnly := len(keys) == 1
	for _, key := range keys {
		expanded, err := active.ExpandIRI(key, true, false)
		if err != nil {
			return false, false, err
		}
		switch expanded {
		case "@value":
			valueObj = true
		case "@id":
			subjectRef = idOnly
		}
	}
	return valueObj, subjectRef, nil
}

// applyTypeScopes processes the scoped contexts of all type values named
// by the object, sorted lexicographically.
func (e *Expander) applyTypeScopes(st *state, active *context.ActiveContext,
	obj *document.Object, path string) (*context.ActiveContext, error) {

	var types []string
	for _, m := range obj.Members() {
		expanded, err := active.ExpandIRI(m.Key, true, false)
		if err != nil {
			return nil, err
		}
		if expanded != "@type" {
			continue
		}
		switch tv := m.Value.(type) {
		case document.String:
			types = append(types, string(tv))
		case document.Array:
			for _, item := range tv {
				s, isString := item.(document.String)
				if !isString {
					return nil, errors.New(errors.InvalidTypeValue, document.JoinPath(path, m.Key),
						"@type entries must be strings")
				}
				types = append(types, string(s))
			}
		default:
			return nil, errors.New(errors.InvalidTypeValue, document.JoinPath(path, m.Key),
				"@type must be a string or array of strings")
		}
	}
	sort.Strings(types)

	base := active
	var err error
	for _, t := range types {
		td, ok := base.Term(t)
		if !ok || !td.HasContext {
			continue
		}
		active, err = e.contexts.Process(st.ctx, active, td.LocalContext, context.Options{
			BaseURL:   td.BaseURL,
			Mode:      st.opts.Mode,
			Propagate: false,
		})
		if err != nil {
			return nil, err
		}
	}
	return active, nil
}

// expandMembers resolves every member key against the active context,
// in insertion or lexicographic order.
func expandMembers(active *context.ActiveContext, obj *document.Object,
	path string, ordered bool) ([]member, error) {

	keys := obj.OrderedKeys(ordered)
	members := make([]member, 0, len(keys))
	for _, key := range keys {
		if key == "@context" {
			continue
		}
		value, _ := obj.Get(key)
		expanded, err := active.ExpandIRI(key, true, false)
		if err != nil {
			return nil, err
		}
		members = append(members, member{
			key:      key,
			expanded: expanded,
			value:    value,
			path:     document.JoinPath(path, key),
		})
	}
	return members, nil
}

// expandNodeMembers processes the members of a node object: keyword
// members dispatch on the closed keyword set, the rest become property
// entries keyed by absolute IRI.
func (e *Expander) expandNodeMembers(st *state, active, typeScoped *context.ActiveContext,
	node *object.Node, members []member, activeProp string) error {

	seen := make(map[string]bool)
	var nests []member

	for _, m := range members {
		// Keys that resolve to neither a keyword nor an IRI are dropped.
		if m.expanded == "" || (!strings.Contains(m.expanded, ":") && !syntax.IsKeyword(m.expanded)) {
			e.logger.Debug("dropping unmappable key", "key", m.key)
			continue
		}

		if kw, ok := syntax.LookupKeyword(m.expanded); ok {
			if activeProp == "@reverse" {
				return errors.New(errors.InvalidReversePropertyMap, m.path,
					"keywords cannot appear in a reverse property map")
			}
			if seen[m.expanded] && m.expanded != "@type" && m.expanded != "@included" {
				return errors.New(errors.CollidingKeywords, m.path,
					"duplicate %s entry", m.expanded)
			}
			seen[m.expanded] = true
			if err := e.expandKeywordMember(st, active, typeScoped, node, m, kw, &nests); err != nil {
				return err
			}
			continue
		}

		if err := e.expandPropertyMember(st, active, node, m); err != nil {
			return err
		}
	}

	for _, nest := range nests {
		if err := e.expandNestMember(st, active, typeScoped, node, nest, activeProp); err != nil {
			return err
		}
	}
	return nil
}

// expandKeywordMember handles one keyword member of a node object. The
// keyword set is closed; value/list/set keywords cannot reach here.
func (e *Expander) expandKeywordMember(st *state, active, typeScoped *context.ActiveContext,
	node *object.Node, m member, kw syntax.Keyword, nests *[]member) error {

	switch kw {
	case syntax.KeywordID:
		s, isString := m.value.(document.String)
		if !isString {
			return errors.New(errors.InvalidIDValue, m.path, "@id must be a string")
		}
		expanded, err := active.ExpandIRI(string(s), false, true)
		if err != nil {
			return err
		}
		node.ID = expanded

	case syntax.KeywordType:
		values, ok := stringValues(m.value)
		if !ok {
			return errors.New(errors.InvalidTypeValue, m.path,
				"@type must be a string or array of strings")
		}
		for _, t := range values {
			expanded, err := typeScoped.ExpandIRI(t, true, true)
			if err != nil {
				return err
			}
			node.Types = append(node.Types, expanded)
		}

	case syntax.KeywordGraph:
		graph, err := e.expandElement(st, active, "@graph", m.value, m.path, false)
		if err != nil {
			return err
		}
		node.Graph = graph
		node.HasGraph = true

	case syntax.KeywordIncluded:
		if st.opts.Mode == syntax.ModeJSONLD10 {
			return nil
		}
		included, err := e.expandElement(st, active, "", m.value, m.path, false)
		if err != nil {
			return err
		}
		for _, el := range included {
			if _, isNode := el.(*object.Node); !isNode {
				return errors.New(errors.InvalidIncludedValue, m.path,
					"@included entries must be node objects")
			}
		}
		node.Included = append(node.Included, included...)

	case syntax.KeywordReverse:
		return e.expandReverseMember(st, active, node, m)

	case syntax.KeywordIndex:
		s, isString := m.value.(document.String)
		if !isString {
			return errors.New(errors.InvalidIndexValue, m.path, "@index must be a string")
		}
		node.Index = string(s)

	case syntax.KeywordNest:
		*nests = append(*nests, m)

	case syntax.KeywordLanguage, syntax.KeywordDirection:
		return errors.New(errors.InvalidValueObject, m.path,
			"%s is only valid in a value object", m.expanded)
	}
	return nil
}

// expandReverseMember expands a @reverse map: each entry names a property
// whose values point back at this node. Edges attach to the receiving
// node through the call-local node table.
func (e *Expander) expandReverseMember(st *state, active *context.ActiveContext,
	node *object.Node, m member) error {

	reverseObj, isObj := m.value.(*document.Object)
	if !isObj {
		return errors.New(errors.InvalidReverseValue, m.path, "@reverse must be an object")
	}

	receiver := st.receiving(node)
	for _, key := range reverseObj.OrderedKeys(st.opts.Ordered) {
		expanded, err := active.ExpandIRI(key, true, false)
		if err != nil {
			return err
		}
		if syntax.IsKeyword(expanded) {
			return errors.New(errors.InvalidReversePropertyMap, document.JoinPath(m.path, key),
				"keywords cannot appear in a reverse property map")
		}
		if expanded == "" || !strings.Contains(expanded, ":") {
			continue
		}
		value, _ := reverseObj.Get(key)
		items, err := e.expandElement(st, active, key, value, document.JoinPath(m.path, key), false)
		if err != nil {
			return err
		}

		// A reverse term inside @reverse flips back to a forward property.
		if td, ok := active.Term(key); ok && td.Reverse {
			node.Properties.Add(expanded, items...)
			continue
		}
		for _, item := range items {
			if _, isNode := item.(*object.Node); !isNode {
				return errors.New(errors.InvalidReversePropertyValue, document.JoinPath(m.path, key),
					"reverse property values must be node objects")
			}
		}
		receiver.Reverse.Add(expanded, items...)
	}
	return nil
}

// expandNestMember expands the members of an @nest value as if they were
// members of the node itself.
func (e *Expander) expandNestMember(st *state, active, typeScoped *context.ActiveContext,
	node *object.Node, m member, activeProp string) error {

	values, _ := m.value.(document.Array)
	if values == nil {
		values = document.Array{m.value}
	}
	for i, nested := range values {
		nestPath := document.JoinPathIndex(m.path, i)
		nestedObj, isObj := nested.(*document.Object)
		if !isObj {
			return errors.New(errors.InvalidNestValue, nestPath, "@nest values must be objects")
		}
		members, err := expandMembers(active, nestedObj, nestPath, st.opts.Ordered)
		if err != nil {
			return err
		}
		for _, nm := range members {
			if nm.expanded == "@value" {
				return errors.New(errors.InvalidNestValue, nm.path,
					"@nest values cannot be value objects")
			}
		}
		if err := e.expandNodeMembers(st, active, typeScoped, node, members, activeProp); err != nil {
			return err
		}
	}
	return nil
}

// stringValues normalizes a string-or-array-of-strings value.
func stringValues(v document.Value) ([]string, bool) {
	switch tv := v.(type) {
	case document.String:
		return []string{string(tv)}, true
	case document.Array:
		out := make([]string, 0, len(tv))
		for _, item := range tv {
			s, isString := item.(document.String)
			if !isString {
				return nil, false
			}
			out = append(out, string(s))
		}
		return out, true
	default:
		return nil, false
	}
}
