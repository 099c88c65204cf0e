// Package jsonld provides the JSON-LD 1.1 processing algorithms: context
// processing, expansion, compaction, and flattening.
//
// # Architecture
//
// The library is organized as a pipeline over an ordered JSON tree:
//
//	┌─────────────────────────────────────┐
//	│         Context Processor           │  Builds immutable Active
//	│  (context: local + remote + scoped) │  Contexts from @context
//	└─────────────────────────────────────┘
//	           ↓ produces
//	┌─────────────────────────────────────┐
//	│          Active Context             │  Term definitions, base,
//	│   (term → definition, inverse idx)  │  vocab, language, direction
//	└─────────────────────────────────────┘
//	           ↓ drives
//	┌─────────────────────────────────────┐
//	│      Expander / Compactor           │  Document ↔ expanded
//	│   (expansion, compaction packages)  │  node/value/list objects
//	└─────────────────────────────────────┘
//
// # Packages
//
// Core algorithms:
//   - context: Active Context, term definitions, context processing
//   - expansion: document expansion into node/value/list objects
//   - compaction: expanded objects back into compact form
//   - flattening: node map generation and document flattening
//   - object: the expanded element model shared by the algorithms
//
// Supporting:
//   - document: ordered JSON tree with preserved member order
//   - syntax: keywords, container mappings, processing modes
//   - iri: IRI resolution and classification helpers
//   - loader: remote document loading (in-memory, chained, HTTP)
//   - processor: high-level API combining the algorithms
//
// Infrastructure:
//   - errors: categorical JSON-LD error codes with document paths
//   - metric: Prometheus metrics for processing operations
//   - pkg/cache: LRU caching for remote contexts
//   - pkg/retry: backoff for transient loader failures
//   - pkg/blanknode: blank node label generators
//
// # Usage
//
// Expanding a document with a remote-capable loader:
//
//	proc := processor.New(loader.NewHTTPLoader())
//	expanded, err := proc.Expand(ctx, doc, processor.DefaultOptions())
//
// Compacting a document under a target context:
//
//	compacted, err := proc.Compact(ctx, doc, targetContext, processor.DefaultOptions())
//
// All processing is synchronous and CPU-bound; the document loader is the
// only suspension point. Active Contexts are immutable and safe to share
// across concurrent processing calls.
package jsonld
