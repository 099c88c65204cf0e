// Package expansion implements the JSON-LD expansion algorithm: turning a
// compact document and an active context into the explicit node, value,
// and list object form. Expansion fails fast: the first violated
// constraint aborts the whole document, no partial result is returned.
package expansion

import (
	gocontext "context"
	"log/slog"
	"time"

	"github.com/c360/jsonld/context"
	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/errors"
	"github.com/c360/jsonld/metric"
	"github.com/c360/jsonld/object"
	"github.com/c360/jsonld/syntax"
)

// Expander expands documents against active contexts. Expanders are
// stateless across calls and safe for concurrent use; all per-document
// bookkeeping lives in the call.
type Expander struct {
	contexts *context.Processor
	logger   *slog.Logger
	metrics  *metric.Metrics
}

// Option configures an Expander.
type Option func(*Expander)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Expander) { e.logger = logger }
}

// WithMetrics enables expansion instrumentation.
func WithMetrics(m *metric.Metrics) Option {
	return func(e *Expander) { e.metrics = m }
}

// New creates an Expander resolving scoped and inline contexts through
// the given context processor.
func New(p *context.Processor, opts ...Option) *Expander {
	e := &Expander{contexts: p, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Options control one expansion call.
type Options struct {
	// BaseURL is the document IRI, used to resolve relative IRIs and
	// relative context references.
	BaseURL string
	// Mode selects JSON-LD 1.0 or 1.1 behavior; empty means 1.1.
	Mode syntax.ProcessingMode
	// Ordered makes object members expand in code-point lexicographic
	// key order instead of insertion order, for deterministic output.
	Ordered bool
}

// Expand expands element against the given active context into a
// sequence of expanded elements.
func (e *Expander) Expand(ctx gocontext.Context, active *context.ActiveContext,
	element document.Value, opts Options) ([]object.Element, error) {

	if opts.Mode == "" {
		opts.Mode = syntax.ModeJSONLD11
	}
	start := time.Now()
	st := &state{
		ctx:   ctx,
		opts:  opts,
		nodes: make(map[string]*object.Node),
	}
	result, err := e.expandElement(st, active, "", element, "", false)
	e.metrics.ObserveOperation(metric.OperationExpand, time.Since(start), err)
	if err != nil {
		if code, ok := errors.CodeOf(err); ok {
			e.metrics.ObserveError(string(code))
		}
		return nil, err
	}

	// A lone node carrying only @graph unwraps to its graph content.
	if len(result) == 1 {
		if node, ok := result[0].(*object.Node); ok && node.HasGraph &&
			node.ID == "" && len(node.Types) == 0 && node.Index == "" &&
			node.Properties.Len() == 0 && node.Reverse.Len() == 0 {
			result = node.Graph
		}
	}
	return result, nil
}

// state is the call-local bookkeeping for one top-level expansion: the
// id-to-node table reverse edges attach through, threaded explicitly
// through the recursion and never shared across calls.
type state struct {
	ctx   gocontext.Context
	opts  Options
	nodes map[string]*object.Node
}

// register records the first concrete node seen for an identifier. Later
// reverse edges declared on other occurrences of the same identifier
// attach to this node.
func (st *state) register(n *object.Node) {
	if n.ID == "" || n.IsReference() {
		return
	}
	if _, ok := st.nodes[n.ID]; !ok {
		st.nodes[n.ID] = n
	}
}

// receiving resolves the node a reverse edge lands on: the canonical
// table entry for the declaring node's identifier when one was expanded
// earlier in the document, otherwise the declaring node itself.
func (st *state) receiving(declaring *object.Node) *object.Node {
	if declaring.ID != "" {
		if canonical, ok := st.nodes[declaring.ID]; ok {
			return canonical
		}
	}
	return declaring
}

// expandElement is the expansion algorithm's main dispatch over the
// element shape. activeProp is the property the element is a value of,
// "" at the document root and "@graph" inside graph content. fromMap is
// set for values taken out of container maps, where the previous-context
// rollback does not apply.
func (e *Expander) expandElement(st *state, active *context.ActiveContext,
	activeProp string, element document.Value, path string, fromMap bool) ([]object.Element, error) {

	if element == nil || element.Kind() == document.KindNull {
		return nil, nil
	}

	switch el := element.(type) {
	case document.Array:
		return e.expandArray(st, active, activeProp, el, path, fromMap)
	case *document.Object:
		return e.expandObject(st, active, activeProp, el, path, fromMap)
	default:
		// Free-floating scalars are dropped.
		if activeProp == "" || activeProp == "@graph" {
			return nil, nil
		}
		scoped, err := e.applyPropertyScope(st, active, activeProp)
		if err != nil {
			return nil, err
		}
		value, err := expandLiteral(scoped, activeProp, el)
		if err != nil || value == nil {
			return nil, err
		}
		return []object.Element{value}, nil
	}
}

// applyPropertyScope processes the scoped context attached to the active
// property's term definition, if any. Property-scoped contexts may
// redefine protected terms.
func (e *Expander) applyPropertyScope(st *state, active *context.ActiveContext,
	activeProp string) (*context.ActiveContext, error) {

	td, _ := active.Term(activeProp)
	if td == nil || !td.HasContext {
		return active, nil
	}
	return e.contexts.Process(st.ctx, active, td.LocalContext, context.Options{
		BaseURL:           td.BaseURL,
		Mode:              st.opts.Mode,
		OverrideProtected: true,
		Propagate:         true,
	})
}

// expandArray expands each item in order and concatenates the results
// one level flat. List wrapping for list-scoped properties happens at
// the member site, not here.
func (e *Expander) expandArray(st *state, active *context.ActiveContext,
	activeProp string, arr document.Array, path string, fromMap bool) ([]object.Element, error) {

	td, _ := active.Term(activeProp)
	listScoped := td != nil && td.Container.Has(syntax.ContainerList)

	var result []object.Element
	for i, item := range arr {
		expanded, err := e.expandElement(st, active, activeProp, item,
			document.JoinPathIndex(path, i), fromMap)
		if err != nil {
			return nil, err
		}
		for _, el := range expanded {
			if _, isList := el.(*object.List); isList && listScoped {
				return nil, errors.New(errors.ListOfLists, document.JoinPathIndex(path, i),
					"a list cannot directly contain another list")
			}
			result = append(result, el)
		}
	}
	return result, nil
}
