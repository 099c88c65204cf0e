// Package object defines the expanded element model shared by the
// expansion and compaction algorithms: node objects, value objects, and
// list objects, together with their expanded JSON interchange form.
package object

import (
	"sort"

	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/syntax"
)

// Element is one expanded element: a *Node, *Value, or *List.
type Element interface {
	// ToJSON returns the element in expanded JSON interchange form.
	ToJSON() document.Value
	// Equal reports structural equality. Node property order is not
	// significant; value sequence order is.
	Equal(Element) bool

	element()
}

// Value is an expanded value object: a literal with an optional datatype
// IRI or language tag. Datatype and language are mutually exclusive except
// for rdf:langString semantics carried by the language tag itself.
type Value struct {
	// Literal is the raw literal. For Type == "@json" it may be any JSON
	// value, otherwise it is a scalar.
	Literal   document.Value
	Type      string
	Language  string
	Direction syntax.Direction
	Index     string
}

func (*Value) element() {}

// ToJSON returns the value object in expanded form.
func (v *Value) ToJSON() document.Value {
	obj := document.NewObject()
	obj.Set("@value", v.Literal)
	if v.Type != "" {
		obj.Set("@type", document.String(v.Type))
	}
	if v.Language != "" {
		obj.Set("@language", document.String(v.Language))
	}
	if v.Direction == syntax.DirectionLTR || v.Direction == syntax.DirectionRTL {
		obj.Set("@direction", document.String(string(v.Direction)))
	}
	if v.Index != "" {
		obj.Set("@index", document.String(v.Index))
	}
	return obj
}

// Equal reports structural equality with another element.
func (v *Value) Equal(other Element) bool {
	o, ok := other.(*Value)
	if !ok {
		return false
	}
	return v.Type == o.Type &&
		v.Language == o.Language &&
		v.Direction == o.Direction &&
		v.Index == o.Index &&
		document.Equal(v.Literal, o.Literal)
}

// List is an expanded list object: an ordered sequence of elements. A list
// never directly contains another list in JSON-LD 1.0 processing mode.
type List struct {
	Items []Element
	Index string
}

func (*List) element() {}

// ToJSON returns the list object in expanded form.
func (l *List) ToJSON() document.Value {
	items := make(document.Array, len(l.Items))
	for i, item := range l.Items {
		items[i] = item.ToJSON()
	}
	obj := document.NewObject()
	obj.Set("@list", items)
	if l.Index != "" {
		obj.Set("@index", document.String(l.Index))
	}
	return obj
}

// Equal reports structural equality with another element.
func (l *List) Equal(other Element) bool {
	o, ok := other.(*List)
	if !ok || l.Index != o.Index || len(l.Items) != len(o.Items) {
		return false
	}
	for i := range l.Items {
		if !l.Items[i].Equal(o.Items[i]) {
			return false
		}
	}
	return true
}

// PropertyMap is an ordered multimap from absolute property IRI to the
// sequence of expanded values, preserving first-occurrence key order.
type PropertyMap struct {
	keys []string
	m    map[string][]Element
}

// Add appends values under the given property IRI.
func (p *PropertyMap) Add(iri string, values ...Element) {
	if p.m == nil {
		p.m = make(map[string][]Element)
	}
	if _, ok := p.m[iri]; !ok {
		p.keys = append(p.keys, iri)
	}
	p.m[iri] = append(p.m[iri], values...)
}

// Get returns the values for the property IRI.
func (p *PropertyMap) Get(iri string) []Element { return p.m[iri] }

// Has reports whether the property IRI is present.
func (p *PropertyMap) Has(iri string) bool {
	_, ok := p.m[iri]
	return ok
}

// Len returns the number of distinct property IRIs.
func (p *PropertyMap) Len() int { return len(p.keys) }

// Keys returns the property IRIs in first-occurrence order.
func (p *PropertyMap) Keys() []string { return p.keys }

// SortedKeys returns the property IRIs in lexicographic order.
func (p *PropertyMap) SortedKeys() []string {
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	sort.Strings(keys)
	return keys
}

// OrderedKeys returns SortedKeys when ordered is true, Keys otherwise.
func (p *PropertyMap) OrderedKeys(ordered bool) []string {
	if ordered {
		return p.SortedKeys()
	}
	return p.Keys()
}

// Equal reports order-insensitive key equality with order-sensitive value
// sequences.
func (p *PropertyMap) Equal(o *PropertyMap) bool {
	if len(p.keys) != len(o.keys) {
		return false
	}
	for iri, values := range p.m {
		others, ok := o.m[iri]
		if !ok || len(values) != len(others) {
			return false
		}
		for i := range values {
			if !values[i].Equal(others[i]) {
				return false
			}
		}
	}
	return true
}

// Node is an expanded node object: an optional identifier, an ordered set
// of type IRIs, properties keyed by absolute IRI, and a reverse-property
// map holding receiving edges.
type Node struct {
	// ID is an absolute IRI or blank node label; empty when anonymous.
	ID         string
	Types      []string
	Index      string
	Properties PropertyMap
	Reverse    PropertyMap
	// Graph holds the content of a graph object; nil for plain nodes.
	Graph    []Element
	HasGraph bool
	Included []Element
}

func (*Node) element() {}

// NewNode creates an empty node object.
func NewNode() *Node { return &Node{} }

// NewNodeRef creates a node reference: a node carrying only an identifier.
func NewNodeRef(id string) *Node { return &Node{ID: id} }

// IsReference reports whether the node carries only an identifier.
func (n *Node) IsReference() bool {
	return n.ID != "" && len(n.Types) == 0 && n.Index == "" &&
		n.Properties.Len() == 0 && n.Reverse.Len() == 0 &&
		!n.HasGraph && len(n.Included) == 0
}

// IsEmpty reports whether the node carries no information at all.
func (n *Node) IsEmpty() bool {
	return n.ID == "" && len(n.Types) == 0 && n.Index == "" &&
		n.Properties.Len() == 0 && n.Reverse.Len() == 0 &&
		!n.HasGraph && len(n.Included) == 0
}

// ToJSON returns the node object in expanded form: @id, @type, then
// properties in first-occurrence order, then @index, @reverse, @graph,
// and @included.
func (n *Node) ToJSON() document.Value {
	obj := document.NewObject()
	if n.ID != "" {
		obj.Set("@id", document.String(n.ID))
	}
	if len(n.Types) > 0 {
		types := make(document.Array, len(n.Types))
		for i, t := range n.Types {
			types[i] = document.String(t)
		}
		obj.Set("@type", types)
	}
	for _, iri := range n.Properties.Keys() {
		values := n.Properties.Get(iri)
		arr := make(document.Array, len(values))
		for i, v := range values {
			arr[i] = v.ToJSON()
		}
		obj.Set(iri, arr)
	}
	if n.Index != "" {
		obj.Set("@index", document.String(n.Index))
	}
	if n.Reverse.Len() > 0 {
		rev := document.NewObject()
		for _, iri := range n.Reverse.Keys() {
			values := n.Reverse.Get(iri)
			arr := make(document.Array, len(values))
			for i, v := range values {
				arr[i] = v.ToJSON()
			}
			rev.Set(iri, arr)
		}
		obj.Set("@reverse", rev)
	}
	if n.HasGraph {
		graph := make(document.Array, len(n.Graph))
		for i, g := range n.Graph {
			graph[i] = g.ToJSON()
		}
		obj.Set("@graph", graph)
	}
	if len(n.Included) > 0 {
		inc := make(document.Array, len(n.Included))
		for i, e := range n.Included {
			inc[i] = e.ToJSON()
		}
		obj.Set("@included", inc)
	}
	return obj
}

// Equal reports structural equality with another element.
func (n *Node) Equal(other Element) bool {
	o, ok := other.(*Node)
	if !ok {
		return false
	}
	if n.ID != o.ID || n.Index != o.Index || n.HasGraph != o.HasGraph {
		return false
	}
	if !equalStrings(n.Types, o.Types) {
		return false
	}
	if !n.Properties.Equal(&o.Properties) || !n.Reverse.Equal(&o.Reverse) {
		return false
	}
	return equalElements(n.Graph, o.Graph) && equalElements(n.Included, o.Included)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalElements(a, b []Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// ToJSON returns a sequence of expanded elements as a JSON array, the
// interchange form of an expanded document.
func ToJSON(elements []Element) document.Value {
	arr := make(document.Array, len(elements))
	for i, e := range elements {
		arr[i] = e.ToJSON()
	}
	return arr
}

// EqualElements reports element-wise equality of two expanded sequences.
func EqualElements(a, b []Element) bool { return equalElements(a, b) }
