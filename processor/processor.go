// Package processor is the top-level JSON-LD API: a Processor bundles a
// document loader with the expansion, compaction, and flattening
// pipelines and applies one set of processing options per call.
//
// Processors hold no per-document state. Active contexts are shared
// immutably, so one Processor serves concurrent calls.
package processor

import (
	gocontext "context"
	"log/slog"

	"github.com/c360/jsonld/compaction"
	"github.com/c360/jsonld/context"
	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/errors"
	"github.com/c360/jsonld/expansion"
	"github.com/c360/jsonld/flattening"
	"github.com/c360/jsonld/loader"
	"github.com/c360/jsonld/metric"
	"github.com/c360/jsonld/object"
	"github.com/c360/jsonld/syntax"
)

// Options are the per-call processing options shared by all operations.
type Options struct {
	// Base overrides the base IRI used for resolving relative IRIs. When
	// empty, the document's own IRI applies.
	Base string
	// ExpandContext is a context applied before the document's own
	// contexts during expansion. An object carrying an @context entry
	// contributes that entry.
	ExpandContext document.Value
	// CompactArrays collapses single-element arrays during compaction.
	CompactArrays bool
	// CompactToRelative compacts identifiers relative to the base IRI.
	CompactToRelative bool
	// Ordered processes object members in lexicographic key order for
	// deterministic output.
	Ordered bool
	// ProcessingMode selects JSON-LD 1.0 or 1.1 behavior; empty means 1.1.
	ProcessingMode syntax.ProcessingMode
}

// DefaultOptions returns the standard processing options.
func DefaultOptions() Options {
	return Options{
		CompactArrays:     true,
		CompactToRelative: true,
		ProcessingMode:    syntax.ModeJSONLD11,
	}
}

// Processor is the top-level JSON-LD processor.
type Processor struct {
	loader    loader.Loader
	contexts  *context.Processor
	expander  *expansion.Expander
	compactor *compaction.Compactor
	flattener *flattening.Flattener
	logger    *slog.Logger
	metrics   *metric.Metrics
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the structured logger shared by all pipelines.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

// WithMetrics enables instrumentation on all pipelines.
func WithMetrics(m *metric.Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

// New creates a Processor resolving remote contexts and documents
// through l. A nil loader fails every remote load.
func New(l loader.Loader, opts ...Option) *Processor {
	p := &Processor{loader: l, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	p.contexts = context.NewProcessor(l,
		context.WithLogger(p.logger), context.WithMetrics(p.metrics))
	p.expander = expansion.New(p.contexts,
		expansion.WithLogger(p.logger), expansion.WithMetrics(p.metrics))
	p.compactor = compaction.New(p.contexts,
		compaction.WithLogger(p.logger), compaction.WithMetrics(p.metrics))
	p.flattener = flattening.New(
		flattening.WithLogger(p.logger), flattening.WithMetrics(p.metrics))
	return p
}

// Expand expands a document into its sequence of expanded elements.
func (p *Processor) Expand(ctx gocontext.Context, doc document.Value, opts Options) ([]object.Element, error) {
	active, err := p.initialContext(ctx, opts, opts.Base)
	if err != nil {
		return nil, err
	}
	return p.expander.Expand(ctx, active, doc, expansion.Options{
		BaseURL: opts.Base,
		Mode:    opts.ProcessingMode,
		Ordered: opts.Ordered,
	})
}

// ExpandRemote loads the document at iri and expands it. The resolved
// document IRI becomes the base, and a context link advertised by the
// server applies before the document's own contexts.
func (p *Processor) ExpandRemote(ctx gocontext.Context, iri string, opts Options) ([]object.Element, error) {
	if p.loader == nil {
		return nil, errors.WrapLoading(errors.ErrNoLoader, iri)
	}
	remote, err := p.loader.Load(ctx, iri)
	if err != nil {
		return nil, err
	}
	if opts.Base == "" {
		opts.Base = remote.DocumentURL
	}
	if remote.ContextURL != "" && opts.ExpandContext == nil {
		opts.ExpandContext = document.String(remote.ContextURL)
	}
	return p.Expand(ctx, remote.Content, opts)
}

// Compact expands a document and compacts it against contextValue. The
// result carries the context under @context unless it is empty.
func (p *Processor) Compact(ctx gocontext.Context, doc document.Value,
	contextValue document.Value, opts Options) (document.Value, error) {

	elements, err := p.Expand(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	return p.compactElements(ctx, elements, contextValue, opts)
}

// CompactElements compacts already expanded elements against
// contextValue.
func (p *Processor) CompactElements(ctx gocontext.Context, elements []object.Element,
	contextValue document.Value, opts Options) (document.Value, error) {
	return p.compactElements(ctx, elements, contextValue, opts)
}

// Flatten expands a document and collects all its nodes into a flat
// default graph. With a non-nil contextValue the flat form is compacted
// against it.
func (p *Processor) Flatten(ctx gocontext.Context, doc document.Value,
	contextValue document.Value, opts Options) (document.Value, error) {

	elements, err := p.Expand(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	flat, err := p.flattener.Flatten(elements, flattening.Options{})
	if err != nil {
		return nil, err
	}
	if contextValue == nil || contextValue.Kind() == document.KindNull {
		return object.ToJSON(flat), nil
	}
	return p.compactElements(ctx, flat, contextValue, opts)
}

func (p *Processor) compactElements(ctx gocontext.Context, elements []object.Element,
	contextValue document.Value, opts Options) (document.Value, error) {

	contextValue = unwrapContext(contextValue)
	active := context.NewActiveContext(opts.Base)
	if contextValue != nil && contextValue.Kind() != document.KindNull {
		var err error
		active, err = p.contexts.Process(ctx, active, contextValue, context.Options{
			BaseURL:   opts.Base,
			Mode:      opts.ProcessingMode,
			Propagate: true,
		})
		if err != nil {
			return nil, err
		}
	}

	compacted, err := p.compactor.Compact(ctx, active, elements, compaction.Options{
		CompactArrays:     opts.CompactArrays,
		CompactToRelative: opts.CompactToRelative,
		Ordered:           opts.Ordered,
		Mode:              opts.ProcessingMode,
	})
	if err != nil {
		return nil, err
	}
	return attachContext(compacted, contextValue), nil
}

// initialContext builds the active context a call starts from: the base
// IRI plus the caller's expandContext, if any.
func (p *Processor) initialContext(ctx gocontext.Context, opts Options, base string) (*context.ActiveContext, error) {
	active := context.NewActiveContext(base)
	expandContext := unwrapContext(opts.ExpandContext)
	if expandContext == nil || expandContext.Kind() == document.KindNull {
		return active, nil
	}
	return p.contexts.Process(ctx, active, expandContext, context.Options{
		BaseURL:   base,
		Mode:      opts.ProcessingMode,
		Propagate: true,
	})
}

// unwrapContext accepts either a context value or a document wrapping
// one under @context.
func unwrapContext(v document.Value) document.Value {
	obj, isObj := v.(*document.Object)
	if !isObj {
		return v
	}
	if inner, ok := obj.Get("@context"); ok {
		return inner
	}
	return v
}

// attachContext places the context first in the compacted document.
func attachContext(compacted document.Value, contextValue document.Value) document.Value {
	if contextValue == nil || contextValue.Kind() == document.KindNull || emptyContext(contextValue) {
		return compacted
	}
	body, isObj := compacted.(*document.Object)
	if !isObj {
		wrapped := document.NewObject()
		wrapped.Set("@context", contextValue)
		wrapped.Set("@graph", compacted)
		return wrapped
	}
	result := document.NewObject()
	result.Set("@context", contextValue)
	for _, m := range body.Members() {
		result.Set(m.Key, m.Value)
	}
	return result
}

func emptyContext(v document.Value) bool {
	switch cv := v.(type) {
	case *document.Object:
		return cv.Len() == 0
	case document.Array:
		return len(cv) == 0
	}
	return false
}
