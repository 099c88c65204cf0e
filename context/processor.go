package context

import (
	gocontext "context"
	"log/slog"
	"strings"

	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/errors"
	"github.com/c360/jsonld/iri"
	"github.com/c360/jsonld/loader"
	"github.com/c360/jsonld/metric"
	"github.com/c360/jsonld/syntax"
)

// defaultMaxRemoteContexts bounds cumulative remote context loads within
// one processing call, independent of the cycle detection.
const defaultMaxRemoteContexts = 32

// Processor builds Active Contexts from local contexts: inline objects,
// remote context IRIs, and the scoped contexts attached to term
// definitions. Processed remote context documents are cached per
// processor; the in-flight cycle detection is call-local.
type Processor struct {
	loader            loader.Loader
	logger            *slog.Logger
	metrics           *metric.Metrics
	maxRemoteContexts int
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) { p.logger = logger }
}

// WithMetrics enables processing instrumentation.
func WithMetrics(m *metric.Metrics) ProcessorOption {
	return func(p *Processor) { p.metrics = m }
}

// WithMaxRemoteContexts bounds cumulative remote context loads in one
// processing call.
func WithMaxRemoteContexts(n int) ProcessorOption {
	return func(p *Processor) { p.maxRemoteContexts = n }
}

// NewProcessor creates a context processor using the given document
// loader. A nil loader fails on the first remote context reference.
func NewProcessor(l loader.Loader, opts ...ProcessorOption) *Processor {
	if l == nil {
		l = loader.NoLoader{}
	}
	p := &Processor{
		loader:            l,
		logger:            slog.Default(),
		maxRemoteContexts: defaultMaxRemoteContexts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Options control one context processing call.
type Options struct {
	// BaseURL is the IRI of the document (or context) the local context
	// came from, used to resolve relative context IRIs.
	BaseURL string
	// Mode selects JSON-LD 1.0 or 1.1 behavior; empty means 1.1.
	Mode syntax.ProcessingMode
	// OverrideProtected permits redefinition of protected terms, used
	// when applying property-scoped contexts.
	OverrideProtected bool
	// Propagate controls whether the resulting context survives beyond
	// the current node scope. The inline @propagate entry overrides it.
	Propagate bool
}

// DefaultOptions returns the standard processing options.
func DefaultOptions() Options {
	return Options{Mode: syntax.ModeJSONLD11, Propagate: true}
}

// Process extends active with one or more local contexts, returning a new
// Active Context. The input context is never mutated; each item of a
// context array is applied strictly left-to-right onto the result of the
// previous one.
func (p *Processor) Process(ctx gocontext.Context, active *ActiveContext,
	local document.Value, opts Options) (*ActiveContext, error) {
	if opts.Mode == "" {
		opts.Mode = syntax.ModeJSONLD11
	}
	state := &processState{inFlight: make(map[string]bool)}
	return p.process(ctx, active, local, opts, state)
}

// processState is the call-local bookkeeping for one top-level Process
// call: the set of remote context IRIs currently being resolved (cycle
// detection) and the cumulative load count.
type processState struct {
	inFlight map[string]bool
	loads    int
	// remote is set once processing has descended into a loaded remote
	// context; @base entries inside remote contexts are ignored.
	remote bool
}

func (p *Processor) process(ctx gocontext.Context, active *ActiveContext,
	local document.Value, opts Options, state *processState) (*ActiveContext, error) {

	result := active.extend()
	propagate := opts.Propagate

	// An inline @propagate on a single object context takes precedence.
	if obj, ok := local.(*document.Object); ok {
		if pv, found := obj.Get("@propagate"); found {
			b, isBool := pv.(document.Bool)
			if !isBool {
				return nil, errors.New(errors.InvalidPropagateValue, "/@context/@propagate",
					"@propagate must be a boolean")
			}
			propagate = bool(b)
		}
	}
	if !propagate && result.previous == nil {
		result.previous = active
	}

	items, isArray := local.(document.Array)
	if !isArray {
		items = document.Array{local}
	}

	for i, item := range items {
		path := document.JoinPathIndex("/@context", i)
		var err error
		switch it := item.(type) {
		case nil, document.Null:
			result, err = p.resetContext(result, propagate, opts)
		case document.String:
			result, err = p.processRemote(ctx, result, string(it), opts, state)
		case *document.Object:
			result, err = p.processInline(ctx, result, it, opts, state)
		default:
			err = errors.New(errors.InvalidLocalContext, path,
				"local context entries must be null, an IRI, or an object, got %s", item.Kind())
		}
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// resetContext handles a null local context: reset to the initial
// context, preserving rollback to the pre-reset state when the reset is
// scoped (@propagate: false).
func (p *Processor) resetContext(result *ActiveContext, propagate bool, opts Options) (*ActiveContext, error) {
	if !opts.OverrideProtected && result.HasProtectedTerms() {
		return nil, errors.New(errors.InvalidContextNullification, "/@context",
			"cannot nullify a context containing protected terms")
	}
	fresh := NewActiveContext(result.originalBase)
	if !propagate {
		fresh.previous = result
	}
	return fresh, nil
}

// processRemote resolves and loads a remote context and applies its
// @context entry. Reentry of an IRI already being resolved in this call
// fails rather than looping.
func (p *Processor) processRemote(ctx gocontext.Context, result *ActiveContext,
	ref string, opts Options, state *processState) (*ActiveContext, error) {

	resolved := iri.Resolve(opts.BaseURL, ref)
	if !iri.IsAbsolute(resolved) {
		return nil, errors.New(errors.InvalidLocalContext, "/@context",
			"context IRI %q did not resolve to an absolute IRI", ref)
	}
	if state.inFlight[resolved] {
		return nil, errors.New(errors.RecursiveContextInclusion, "/@context", "%s", resolved)
	}
	state.loads++
	if state.loads > p.maxRemoteContexts {
		return nil, errors.New(errors.ContextOverflow, "/@context",
			"more than %d remote contexts", p.maxRemoteContexts)
	}

	doc, err := p.loader.Load(ctx, resolved)
	p.metrics.ObserveRemoteLoad(err)
	if err != nil {
		return nil, errors.WrapCode(err, errors.LoadingRemoteContextFailed, "/@context")
	}
	p.logger.DebugContext(ctx, "loaded remote context", "iri", resolved)

	content, ok := doc.Content.(*document.Object)
	if !ok {
		return nil, errors.New(errors.InvalidRemoteContext, "/@context",
			"remote context %s is not an object", resolved)
	}
	contextVal, ok := content.Get("@context")
	if !ok {
		return nil, errors.New(errors.InvalidRemoteContext, "/@context",
			"remote context %s has no @context entry", resolved)
	}

	state.inFlight[resolved] = true
	wasRemote := state.remote
	state.remote = true
	defer func() {
		delete(state.inFlight, resolved)
		state.remote = wasRemote
	}()

	remoteOpts := opts
	remoteOpts.BaseURL = doc.DocumentURL
	remoteOpts.Propagate = true
	return p.process(ctx, result, contextVal, remoteOpts, state)
}

// processInline applies one inline context object: @version, @import,
// @base, @vocab, @language, @direction first, then the remaining members
// in insertion order through defineTerm.
func (p *Processor) processInline(ctx gocontext.Context, result *ActiveContext,
	obj *document.Object, opts Options, state *processState) (*ActiveContext, error) {

	obj, err := p.applyImport(ctx, obj, opts, state)
	if err != nil {
		return nil, err
	}

	if version, ok := obj.Get("@version"); ok {
		num, isNumber := version.(document.Number)
		f, _ := num.Float64()
		if !isNumber || f != syntax.CurrentVersion {
			return nil, errors.New(errors.InvalidVersionValue, "/@context/@version",
				"@version must be 1.1")
		}
		if opts.Mode == syntax.ModeJSONLD10 {
			return nil, errors.New(errors.ProcessingModeConflict, "/@context/@version",
				"@version: 1.1 in JSON-LD 1.0 processing mode")
		}
	}

	// @base inside a remote context is ignored.
	if baseVal, ok := obj.Get("@base"); ok && !state.remote {
		switch bv := baseVal.(type) {
		case document.Null:
			result.base = ""
		case document.String:
			resolved := iri.Resolve(result.base, string(bv))
			if !iri.IsAbsolute(resolved) {
				return nil, errors.New(errors.InvalidBaseIRI, "/@context/@base",
					"@base %q did not resolve to an absolute IRI", bv)
			}
			result.base = resolved
		default:
			return nil, errors.New(errors.InvalidBaseIRI, "/@context/@base",
				"@base must be a string or null")
		}
	}

	if vocabVal, ok := obj.Get("@vocab"); ok {
		switch vv := vocabVal.(type) {
		case document.Null:
			result.vocab = ""
		case document.String:
			expanded, err := expandIRI(result, string(vv), true, true, nil, nil, nil)
			if err != nil {
				return nil, err
			}
			if expanded != "" && !iri.IsAbsoluteOrBlank(expanded) {
				return nil, errors.New(errors.InvalidVocabMapping, "/@context/@vocab",
					"@vocab %q is not an IRI or blank node", vv)
			}
			result.vocab = expanded
		default:
			return nil, errors.New(errors.InvalidVocabMapping, "/@context/@vocab",
				"@vocab must be a string or null")
		}
	}

	if langVal, ok := obj.Get("@language"); ok {
		switch lv := langVal.(type) {
		case document.Null:
			result.defaultLanguage = ""
			result.hasDefaultLanguage = false
		case document.String:
			result.defaultLanguage = strings.ToLower(string(lv))
			result.hasDefaultLanguage = true
		default:
			return nil, errors.New(errors.InvalidDefaultLanguage, "/@context/@language",
				"@language must be a string or null")
		}
	}

	if dirVal, ok := obj.Get("@direction"); ok {
		if opts.Mode == syntax.ModeJSONLD10 {
			return nil, errors.New(errors.InvalidContextEntry, "/@context/@direction",
				"@direction requires JSON-LD 1.1")
		}
		switch dv := dirVal.(type) {
		case document.Null:
			result.defaultDirection = syntax.DirectionNone
		case document.String:
			d, ok := syntax.ParseDirection(string(dv))
			if !ok {
				return nil, errors.New(errors.InvalidBaseDirection, "/@context/@direction",
					"@direction must be \"ltr\", \"rtl\", or null")
			}
			result.defaultDirection = d
		default:
			return nil, errors.New(errors.InvalidBaseDirection, "/@context/@direction",
				"@direction must be a string or null")
		}
	}

	protected := false
	if protVal, ok := obj.Get("@protected"); ok {
		if opts.Mode == syntax.ModeJSONLD10 {
			return nil, errors.New(errors.InvalidContextEntry, "/@context/@protected",
				"@protected requires JSON-LD 1.1")
		}
		b, isBool := protVal.(document.Bool)
		if !isBool {
			return nil, errors.New(errors.InvalidProtectedValue, "/@context/@protected",
				"@protected must be a boolean")
		}
		protected = bool(b)
	}

	defOpts := &defineOptions{
		baseURL:           opts.BaseURL,
		mode:              opts.Mode,
		protected:         protected,
		overrideProtected: opts.OverrideProtected,
	}
	defined := make(map[string]defineState)
	for _, key := range obj.Keys() {
		switch key {
		case "@base", "@direction", "@import", "@language", "@propagate", "@protected", "@version", "@vocab":
			continue
		}
		if err := defineTerm(result, obj, key, defined, defOpts); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// applyImport merges a single-level @import target under the importing
// context object. Entries of the importing context win.
func (p *Processor) applyImport(ctx gocontext.Context, obj *document.Object,
	opts Options, state *processState) (*document.Object, error) {

	importVal, ok := obj.Get("@import")
	if !ok {
		return obj, nil
	}
	if opts.Mode == syntax.ModeJSONLD10 {
		return nil, errors.New(errors.InvalidContextEntry, "/@context/@import",
			"@import requires JSON-LD 1.1")
	}
	ref, isString := importVal.(document.String)
	if !isString {
		return nil, errors.New(errors.InvalidImportValue, "/@context/@import",
			"@import must be a string")
	}

	resolved := iri.Resolve(opts.BaseURL, string(ref))
	state.loads++
	if state.loads > p.maxRemoteContexts {
		return nil, errors.New(errors.ContextOverflow, "/@context/@import",
			"more than %d remote contexts", p.maxRemoteContexts)
	}
	doc, err := p.loader.Load(ctx, resolved)
	p.metrics.ObserveRemoteLoad(err)
	if err != nil {
		return nil, errors.WrapCode(err, errors.LoadingRemoteContextFailed, "/@context/@import")
	}

	content, ok := doc.Content.(*document.Object)
	if !ok {
		return nil, errors.New(errors.InvalidRemoteContext, "/@context/@import",
			"imported context %s is not an object", resolved)
	}
	contextVal, ok := content.Get("@context")
	if !ok {
		return nil, errors.New(errors.InvalidRemoteContext, "/@context/@import",
			"imported context %s has no @context entry", resolved)
	}
	imported, ok := contextVal.(*document.Object)
	if !ok {
		return nil, errors.New(errors.InvalidRemoteContext, "/@context/@import",
			"imported context %s must be a context object", resolved)
	}
	// @import is single level only.
	if imported.Has("@import") {
		return nil, errors.New(errors.InvalidContextEntry, "/@context/@import",
			"imported context %s contains @import", resolved)
	}

	merged := imported.Clone()
	for _, m := range obj.Members() {
		if m.Key == "@import" {
			continue
		}
		merged.Set(m.Key, m.Value)
	}
	return merged, nil
}
