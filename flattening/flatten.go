// Package flattening implements node map generation and the JSON-LD
// flattening algorithm: collecting every node of an expanded document
// into per-graph maps keyed by identifier, labeling anonymous nodes,
// merging duplicate identifiers, and emitting a flat default graph.
package flattening

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/c360/jsonld/errors"
	"github.com/c360/jsonld/metric"
	"github.com/c360/jsonld/object"
	"github.com/c360/jsonld/pkg/blanknode"
)

// defaultGraph is the node map key of the default graph.
const defaultGraph = "@default"

// Flattener flattens expanded documents. Flatteners are stateless across
// calls; the node map and label generator live in the call.
type Flattener struct {
	logger  *slog.Logger
	metrics *metric.Metrics
}

// Option configures a Flattener.
type Option func(*Flattener)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flattener) { f.logger = logger }
}

// WithMetrics enables flattening instrumentation.
func WithMetrics(m *metric.Metrics) Option {
	return func(f *Flattener) { f.metrics = m }
}

// New creates a Flattener.
func New(opts ...Option) *Flattener {
	f := &Flattener{logger: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Options control one flattening call.
type Options struct {
	// Generator labels anonymous and blank nodes. Defaults to a fresh
	// sequential generator, giving _:b0, _:b1, ... labels.
	Generator blanknode.Generator
}

// Flatten collects all nodes of the expanded elements into the default
// graph, in lexicographic identifier order. Named graphs surface as
// graph objects on their graph-name node. Duplicate identifiers merge
// into one node; merging fails with ConflictingIndexes when two
// occurrences carry different @index values.
func (f *Flattener) Flatten(elements []object.Element, opts Options) ([]object.Element, error) {
	start := time.Now()
	result, err := f.flatten(elements, opts)
	f.metrics.ObserveOperation(metric.OperationFlatten, time.Since(start), err)
	if err != nil {
		if code, ok := errors.CodeOf(err); ok {
			f.metrics.ObserveError(string(code))
		}
		return nil, err
	}
	return result, nil
}

func (f *Flattener) flatten(elements []object.Element, opts Options) ([]object.Element, error) {
	gen := opts.Generator
	if gen == nil {
		gen = blanknode.NewSequential()
	}
	nm := &nodeMap{graphs: make(map[string]*graph), gen: gen}

	for _, el := range elements {
		if _, err := nm.add(defaultGraph, el); err != nil {
			return nil, err
		}
	}

	// Named graphs hang off the node carrying their name in the default
	// graph.
	def := nm.graph(defaultGraph)
	for _, name := range nm.graphNames() {
		if name == defaultGraph {
			continue
		}
		owner := def.get(name)
		for _, node := range nm.graph(name).sorted() {
			if node.IsReference() {
				continue
			}
			owner.Graph = append(owner.Graph, node)
			owner.HasGraph = true
		}
	}

	var result []object.Element
	for _, node := range def.sorted() {
		if node.IsReference() {
			continue
		}
		result = append(result, node)
	}
	return result, nil
}

// nodeMap is the per-call node map: one graph per graph name, plus the
// label generator shared by all graphs.
type nodeMap struct {
	graphs map[string]*graph
	gen    blanknode.Generator
}

// graph is one ordered node map: nodes keyed and sorted by identifier.
type graph struct {
	nodes map[string]*object.Node
}

func (nm *nodeMap) graph(name string) *graph {
	g, ok := nm.graphs[name]
	if !ok {
		g = &graph{nodes: make(map[string]*object.Node)}
		nm.graphs[name] = g
	}
	return g
}

func (nm *nodeMap) graphNames() []string {
	names := make([]string, 0, len(nm.graphs))
	for name := range nm.graphs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// get returns the merged node for an identifier, creating it on first
// sight.
func (g *graph) get(id string) *object.Node {
	node, ok := g.nodes[id]
	if !ok {
		node = &object.Node{ID: id}
		g.nodes[id] = node
	}
	return node
}

func (g *graph) sorted() []*object.Node {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	nodes := make([]*object.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// add walks one element, filling the node map, and returns the element
// as it appears in the flat output: values and lists as themselves,
// nodes as references.
func (nm *nodeMap) add(graphName string, el object.Element) (object.Element, error) {
	switch v := el.(type) {
	case *object.Value:
		return v, nil
	case *object.List:
		flat := &object.List{Index: v.Index}
		for _, item := range v.Items {
			ref, err := nm.add(graphName, item)
			if err != nil {
				return nil, err
			}
			flat.Items = append(flat.Items, ref)
		}
		return flat, nil
	case *object.Node:
		return nm.addNode(graphName, v)
	}
	return el, nil
}

// addNode merges one node object into its graph's node map and returns
// a reference to it.
func (nm *nodeMap) addNode(graphName string, n *object.Node) (object.Element, error) {
	id := n.ID
	if id == "" || strings.HasPrefix(id, "_:") {
		id = nm.gen.Issue(id)
	}

	g := nm.graph(graphName)
	entry := g.get(id)

	for _, t := range n.Types {
		if !containsString(entry.Types, t) {
			entry.Types = append(entry.Types, t)
		}
	}
	if n.Index != "" {
		if entry.Index != "" && entry.Index != n.Index {
			return nil, errors.New(errors.ConflictingIndexes, "",
				"node %s carries conflicting @index values %q and %q", id, entry.Index, n.Index)
		}
		entry.Index = n.Index
	}

	for _, prop := range n.Properties.Keys() {
		for _, value := range n.Properties.Get(prop) {
			flat, err := nm.add(graphName, value)
			if err != nil {
				return nil, err
			}
			addUnique(&entry.Properties, prop, flat)
		}
	}

	// A reverse edge declared here materializes as a forward edge on the
	// referencing node.
	for _, prop := range n.Reverse.Keys() {
		for _, value := range n.Reverse.Get(prop) {
			flat, err := nm.add(graphName, value)
			if err != nil {
				return nil, err
			}
			source, isNode := flat.(*object.Node)
			if !isNode {
				return nil, errors.New(errors.InvalidReversePropertyValue, "",
					"reverse property values must be node objects")
			}
			addUnique(&g.get(source.ID).Properties, prop, object.NewNodeRef(id))
		}
	}

	// Graph content files under the graph named by this node.
	if n.HasGraph {
		for _, el := range n.Graph {
			if _, err := nm.add(id, el); err != nil {
				return nil, err
			}
		}
	}

	// Included nodes join the same graph as their includer.
	for _, el := range n.Included {
		if _, err := nm.add(graphName, el); err != nil {
			return nil, err
		}
	}

	return object.NewNodeRef(id), nil
}

// addUnique appends a value to a property unless an equal value is
// already present.
func addUnique(p *object.PropertyMap, prop string, value object.Element) {
	for _, existing := range p.Get(prop) {
		if existing.Equal(value) {
			return
		}
	}
	p.Add(prop, value)
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
