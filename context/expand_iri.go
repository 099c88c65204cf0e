package context

import (
	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/iri"
	"github.com/c360/jsonld/syntax"
)

// defineState tracks term definition progress within one local context,
// catching self-referential cycles.
type defineState int

const (
	stateUndefined defineState = iota
	stateDefining
	stateDefined
)

// ExpandIRI resolves a string against the active context into an absolute
// IRI, blank node label, or keyword. With vocab set, terms and the
// vocabulary mapping apply; with documentRelative set, the result may be
// resolved against the base IRI. An empty result means the value could
// not be mapped and the caller should drop it.
func (ac *ActiveContext) ExpandIRI(value string, vocab, documentRelative bool) (string, error) {
	return expandIRI(ac, value, vocab, documentRelative, nil, nil, nil)
}

// expandIRI is the IRI expansion algorithm. When local and defined are
// given (during context processing), terms referenced before their own
// definition are defined on demand.
func expandIRI(ac *ActiveContext, value string, vocab, documentRelative bool,
	local *document.Object, defined map[string]defineState, defOpts *defineOptions) (string, error) {

	if value == "" || syntax.IsKeyword(value) {
		return value, nil
	}
	// Keyword-shaped terms are reserved: ignored, never expanded.
	if syntax.HasKeywordForm(value) {
		return "", nil
	}

	// Define the term on demand if the local context being processed
	// contains it and it is not yet defined.
	if local != nil && local.Has(value) && defined[value] != stateDefined {
		if err := defineTerm(ac, local, value, defined, defOpts); err != nil {
			return "", err
		}
	}

	if td, ok := ac.terms[value]; ok {
		if syntax.IsKeyword(td.IRI) {
			return td.IRI, nil
		}
		if vocab {
			return td.IRI, nil
		}
	}

	if prefix, suffix, ok := iri.SplitCompact(value); ok {
		if local != nil && local.Has(prefix) && defined[prefix] != stateDefined {
			if err := defineTerm(ac, local, prefix, defined, defOpts); err != nil {
				return "", err
			}
		}
		if td, ok := ac.terms[prefix]; ok && td.Prefix && td.IRI != "" {
			return td.IRI + suffix, nil
		}
	}
	if iri.IsAbsolute(value) || iri.IsBlankNode(value) {
		return value, nil
	}

	if vocab && ac.vocab != "" {
		return ac.vocab + value, nil
	}
	if documentRelative && ac.base != "" {
		return iri.Resolve(ac.base, value), nil
	}
	if vocab {
		// No vocabulary mapping: the key cannot be interpreted.
		return "", nil
	}
	return value, nil
}
