// Package compaction implements the JSON-LD compaction algorithm:
// shortening an expanded document back into compact form under a target
// context, using the context's inverse index for term selection. Unlike
// expansion, compaction degrades per element: an element that cannot be
// compacted falls back to its expanded form instead of aborting the
// document.
package compaction

import (
	gocontext "context"
	"log/slog"
	"time"

	"github.com/c360/jsonld/context"
	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/metric"
	"github.com/c360/jsonld/object"
	"github.com/c360/jsonld/syntax"
)

// Compactor compacts expanded elements against active contexts.
// Compactors are stateless across calls and safe for concurrent use.
type Compactor struct {
	contexts *context.Processor
	logger   *slog.Logger
	metrics  *metric.Metrics
}

// Option configures a Compactor.
type Option func(*Compactor)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compactor) { c.logger = logger }
}

// WithMetrics enables compaction instrumentation.
func WithMetrics(m *metric.Metrics) Option {
	return func(c *Compactor) { c.metrics = m }
}

// New creates a Compactor resolving scoped contexts through the given
// context processor.
func New(p *context.Processor, opts ...Option) *Compactor {
	c := &Compactor{contexts: p, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Options control one compaction call.
type Options struct {
	// CompactArrays collapses single-element arrays to their value.
	CompactArrays bool
	// CompactToRelative compacts identifiers relative to the base IRI.
	CompactToRelative bool
	// Ordered makes properties compact in lexicographic IRI order.
	Ordered bool
	// Mode selects JSON-LD 1.0 or 1.1 behavior; empty means 1.1.
	Mode syntax.ProcessingMode
}

// DefaultOptions returns the standard compaction options.
func DefaultOptions() Options {
	return Options{CompactArrays: true, CompactToRelative: true, Mode: syntax.ModeJSONLD11}
}

// Compact compacts a sequence of expanded elements into a document body
// (without the @context entry; callers attach the context they compacted
// against). An empty input compacts to an empty object, a single element
// to that element's compact form, multiple elements to a graph wrapper.
func (c *Compactor) Compact(ctx gocontext.Context, active *context.ActiveContext,
	elements []object.Element, opts Options) (document.Value, error) {

	if opts.Mode == "" {
		opts.Mode = syntax.ModeJSONLD11
	}
	start := time.Now()
	body, err := c.compactTopLevel(ctx, active, elements, opts)
	c.metrics.ObserveOperation(metric.OperationCompact, time.Since(start), err)
	return body, err
}

func (c *Compactor) compactTopLevel(ctx gocontext.Context, active *context.ActiveContext,
	elements []object.Element, opts Options) (document.Value, error) {

	compacted := make(document.Array, 0, len(elements))
	for _, el := range elements {
		value := c.compactElement(ctx, active, "", el, opts)
		if value != nil && value.Kind() != document.KindNull {
			compacted = append(compacted, value)
		}
	}

	switch {
	case len(compacted) == 0:
		return document.NewObject(), nil
	case len(compacted) == 1 && opts.CompactArrays:
		return compacted[0], nil
	default:
		wrapper := document.NewObject()
		wrapper.Set(c.compactKeyword(active, "@graph"), compacted)
		return wrapper, nil
	}
}

// compactElement compacts one expanded element. Failures degrade to the
// element's expanded form rather than propagating.
func (c *Compactor) compactElement(ctx gocontext.Context, active *context.ActiveContext,
	activeProp string, el object.Element, opts Options) document.Value {

	switch v := el.(type) {
	case *object.Value:
		return c.compactValue(active, activeProp, v, opts)
	case *object.List:
		return c.compactList(ctx, active, activeProp, v, opts)
	case *object.Node:
		compacted, err := c.compactNode(ctx, active, activeProp, v, opts)
		if err != nil {
			c.logger.Warn("falling back to expanded form", "error", err)
			return el.ToJSON()
		}
		return compacted
	}
	return nil
}

// compactList compacts a list object: a bare array under a list
// container, a @list wrapper otherwise.
func (c *Compactor) compactList(ctx gocontext.Context, active *context.ActiveContext,
	activeProp string, list *object.List, opts Options) document.Value {

	items := make(document.Array, 0, len(list.Items))
	for _, item := range list.Items {
		items = append(items, c.compactElement(ctx, active, activeProp, item, opts))
	}

	td, _ := active.Term(activeProp)
	index := list.Index
	if index != "" && td != nil && td.Container.Has(syntax.ContainerIndex) {
		// The index container's map key carries the index.
		index = ""
	}
	if td != nil && td.Container.Has(syntax.ContainerList) && index == "" {
		return items
	}
	obj := document.NewObject()
	obj.Set(c.compactKeyword(active, "@list"), items)
	if index != "" {
		obj.Set(c.compactKeyword(active, "@index"), document.String(index))
	}
	return obj
}

// compactNode compacts a node object: identifier, types, forward and
// reverse properties, graph content, and inclusion.
func (c *Compactor) compactNode(ctx gocontext.Context, active *context.ActiveContext,
	activeProp string, node *object.Node, opts Options) (document.Value, error) {

	active, err := c.applyScopes(ctx, active, activeProp, node, opts)
	if err != nil {
		return nil, err
	}

	// Bare references compact to a plain identifier under @id or @vocab
	// coded terms.
	if node.IsReference() && activeProp != "" {
		if td, ok := active.Term(activeProp); ok {
			switch td.Type {
			case "@id":
				return document.String(c.compactIRI(active, node.ID, nil, false, false, opts)), nil
			case "@vocab":
				return document.String(c.compactIRI(active, node.ID, nil, true, false, opts)), nil
			}
		}
	}

	result := document.NewObject()

	if node.ID != "" {
		result.Set(c.compactKeyword(active, "@id"),
			document.String(c.compactIRI(active, node.ID, nil, false, false, opts)))
	}

	if len(node.Types) > 0 {
		types := make(document.Array, 0, len(node.Types))
		for _, t := range node.Types {
			types = append(types, document.String(c.compactIRI(active, t, nil, true, false, opts)))
		}
		key := c.compactKeyword(active, "@type")
		if len(types) == 1 && opts.CompactArrays && !typeIsSetContainer(active) {
			result.Set(key, types[0])
		} else {
			result.Set(key, types)
		}
	}

	if node.Reverse.Len() > 0 {
		if err := c.compactReverse(ctx, active, node, result, opts); err != nil {
			return nil, err
		}
	}

	for _, iri := range node.Properties.OrderedKeys(opts.Ordered) {
		for _, value := range node.Properties.Get(iri) {
			if err := c.compactProperty(ctx, active, result, iri, value, false, opts); err != nil {
				return nil, err
			}
		}
	}

	if node.Index != "" && !indexConsumed(active, activeProp) {
		result.Set(c.compactKeyword(active, "@index"), document.String(node.Index))
	}

	if node.HasGraph {
		if err := c.compactGraph(ctx, active, activeProp, node, result, opts); err != nil {
			return nil, err
		}
	}

	if len(node.Included) > 0 {
		included := make(document.Array, 0, len(node.Included))
		for _, el := range node.Included {
			included = append(included, c.compactElement(ctx, active, "", el, opts))
		}
		result.Set(c.compactKeyword(active, "@included"), included)
	}

	return result, nil
}

// applyScopes applies the property-scoped context of the active property
// and the type-scoped contexts of the node's types, mirroring expansion.
func (c *Compactor) applyScopes(ctx gocontext.Context, active *context.ActiveContext,
	activeProp string, node *object.Node, opts Options) (*context.ActiveContext, error) {

	if td, ok := active.Term(activeProp); ok && td.HasContext {
		scoped, err := c.contexts.Process(ctx, active, td.LocalContext, context.Options{
			BaseURL:           td.BaseURL,
			Mode:              opts.Mode,
			OverrideProtected: true,
			Propagate:         true,
		})
		if err != nil {
			return nil, err
		}
		active = scoped
	}

	// Type-scoped contexts apply in the order of the compacted type
	// terms, matching the order expansion sorts them back into.
	for _, t := range node.Types {
		term := c.compactIRI(active, t, nil, true, false, opts)
		td, ok := active.Term(term)
		if !ok || !td.HasContext {
			continue
		}
		scoped, err := c.contexts.Process(ctx, active, td.LocalContext, context.Options{
			BaseURL:   td.BaseURL,
			Mode:      opts.Mode,
			Propagate: false,
		})
		if err != nil {
			return nil, err
		}
		active = scoped
	}
	return active, nil
}

// typeIsSetContainer reports whether @type (or an alias) carries a @set
// container, which keeps single types as arrays.
func typeIsSetContainer(active *context.ActiveContext) bool {
	td, ok := active.Term("@type")
	return ok && td.Container.Has(syntax.ContainerSet)
}

// indexConsumed reports whether the active property's container mapping
// already represents the node's index, so @index must not be repeated.
func indexConsumed(active *context.ActiveContext, activeProp string) bool {
	td, ok := active.Term(activeProp)
	return ok && td.Container.Has(syntax.ContainerIndex)
}

// compactReverse compacts the reverse property map. Entries whose chosen
// term is itself reverse-coded surface as plain members; the rest nest
// under @reverse.
func (c *Compactor) compactReverse(ctx gocontext.Context, active *context.ActiveContext,
	node *object.Node, result *document.Object, opts Options) error {

	reverseObj := document.NewObject()
	for _, iri := range node.Reverse.OrderedKeys(opts.Ordered) {
		for _, value := range node.Reverse.Get(iri) {
			term := c.compactIRI(active, iri, value, true, true, opts)
			td, _ := active.Term(term)
			if td != nil && td.Reverse {
				if err := c.compactProperty(ctx, active, result, iri, value, true, opts); err != nil {
					return err
				}
				continue
			}
			compacted := c.compactElement(ctx, active, term, value, opts)
			appendMember(reverseObj, term, compacted, collapseSingle(td, opts))
		}
	}
	if reverseObj.Len() > 0 {
		result.Set(c.compactKeyword(active, "@reverse"), reverseObj)
	}
	return nil
}

// compactGraph compacts the graph content of a graph object.
func (c *Compactor) compactGraph(ctx gocontext.Context, active *context.ActiveContext,
	activeProp string, node *object.Node, result *document.Object, opts Options) error {

	graph := make(document.Array, 0, len(node.Graph))
	for _, el := range node.Graph {
		graph = append(graph, c.compactElement(ctx, active, "@graph", el, opts))
	}

	td, _ := active.Term(activeProp)
	if td != nil && td.Container.Has(syntax.ContainerGraph) &&
		node.ID == "" && node.Index == "" {
		// The container mapping absorbs the graph wrapper; splice the
		// content into the enclosing member.
		if len(graph) == 1 && opts.CompactArrays {
			if obj, ok := graph[0].(*document.Object); ok {
				for _, m := range obj.Members() {
					result.Set(m.Key, m.Value)
				}
				return nil
			}
		}
	}
	if len(graph) == 1 && opts.CompactArrays {
		result.Set(c.compactKeyword(active, "@graph"), graph[0])
		return nil
	}
	result.Set(c.compactKeyword(active, "@graph"), graph)
	return nil
}
