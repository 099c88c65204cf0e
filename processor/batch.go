package processor

import (
	gocontext "context"

	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/object"
	"github.com/c360/jsonld/pkg/worker"
)

// BatchResult is the outcome of expanding one document of a batch.
type BatchResult struct {
	Elements []object.Element
	Err      error
}

// ExpandAll expands a batch of documents concurrently on up to workers
// goroutines and returns the per-document outcomes in input order. The
// context cancels outstanding work; cancelled documents report the
// context error.
func (p *Processor) ExpandAll(ctx gocontext.Context, docs []document.Value,
	workers int, opts Options) ([]BatchResult, error) {

	results := make([]BatchResult, len(docs))
	for i := range results {
		results[i].Err = gocontext.Canceled
	}

	// Each task owns its result slot, so the pool needs no result
	// synchronization beyond Drain.
	pool := worker.New(workers, len(docs), func(ctx gocontext.Context, i int) error {
		elements, err := p.Expand(ctx, docs[i], opts)
		results[i] = BatchResult{Elements: elements, Err: err}
		return err
	})
	if err := pool.Start(ctx); err != nil {
		return nil, err
	}
	for i := range docs {
		if err := pool.Submit(i); err != nil {
			return nil, err
		}
	}
	if err := pool.Drain(ctx); err != nil {
		return nil, err
	}
	return results, nil
}
