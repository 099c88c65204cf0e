package context

import (
	"strings"

	"github.com/c360/jsonld/document"
	"github.com/c360/jsonld/errors"
	"github.com/c360/jsonld/iri"
	"github.com/c360/jsonld/syntax"
)

// defineOptions carries the flags threaded through one local context's
// term definitions.
type defineOptions struct {
	baseURL           string
	mode              syntax.ProcessingMode
	protected         bool
	overrideProtected bool
}

func (o *defineOptions) processingMode() syntax.ProcessingMode {
	if o == nil || o.mode == "" {
		return syntax.ModeJSONLD11
	}
	return o.mode
}

// defineTerm adds or validates one term mapping in the context under
// construction. The defined map holds the per-local-context tri-state
// status used to catch cyclic IRI mappings. The input local context is
// never mutated.
func defineTerm(ac *ActiveContext, local *document.Object, term string,
	defined map[string]defineState, opts *defineOptions) error {

	switch defined[term] {
	case stateDefined:
		return nil
	case stateDefining:
		return errors.New(errors.CyclicIRIMapping, document.JoinPath("/@context", term),
			"term %q references itself", term)
	}
	if term == "" {
		return errors.New(errors.InvalidTermDefinition, "/@context", "empty term")
	}
	defined[term] = stateDefining
	path := document.JoinPath("/@context", term)
	mode := opts.processingMode()

	value, _ := local.Get(term)

	// Keywords cannot be redefined; keyword-shaped terms are reserved
	// and silently ignored.
	if term == "@type" && mode == syntax.ModeJSONLD11 {
		if obj, ok := value.(*document.Object); ok && allowedTypeRedefinition(obj) {
			// @type may carry @container: @set and @protected in 1.1.
		} else {
			return errors.New(errors.KeywordRedefinition, path, "invalid redefinition of @type")
		}
	} else if syntax.IsKeyword(term) {
		return errors.New(errors.KeywordRedefinition, path, "term %q is a keyword", term)
	} else if syntax.HasKeywordForm(term) {
		defined[term] = stateDefined
		return nil
	}

	previous := ac.terms[term]

	var valueObj *document.Object
	simpleTerm := false
	switch tv := value.(type) {
	case nil, document.Null:
		valueObj = document.NewObject()
		valueObj.Set("@id", document.Null{})
	case document.String:
		valueObj = document.NewObject()
		valueObj.Set("@id", tv)
		simpleTerm = true
	case *document.Object:
		valueObj = tv
	default:
		return errors.New(errors.InvalidTermDefinition, path,
			"term definition must be a string, object, or null, got %s", value.Kind())
	}

	td := &TermDefinition{}

	if protected, ok := valueObj.Get("@protected"); ok {
		b, isBool := protected.(document.Bool)
		if !isBool {
			return errors.New(errors.InvalidProtectedValue, path, "@protected must be a boolean")
		}
		if mode == syntax.ModeJSONLD10 {
			return errors.New(errors.InvalidTermDefinition, path, "@protected requires JSON-LD 1.1")
		}
		td.Protected = bool(b)
	} else if opts != nil && opts.protected {
		td.Protected = true
	}

	if typeVal, ok := valueObj.Get("@type"); ok {
		typeStr, isString := typeVal.(document.String)
		if !isString {
			return errors.New(errors.InvalidTypeMapping, path, "@type must be a string")
		}
		expanded, err := expandIRI(ac, string(typeStr), true, false, local, defined, opts)
		if err != nil {
			return err
		}
		switch expanded {
		case "@json", "@none":
			if mode == syntax.ModeJSONLD10 {
				return errors.New(errors.InvalidTypeMapping, path,
					"type mapping %q requires JSON-LD 1.1", expanded)
			}
		case "@id", "@vocab":
		default:
			if !iri.IsAbsolute(expanded) {
				return errors.New(errors.InvalidTypeMapping, path,
					"type mapping must be an absolute IRI, got %q", typeStr)
			}
		}
		td.Type = expanded
	}

	if reverseVal, ok := valueObj.Get("@reverse"); ok {
		return defineReverseTerm(ac, local, term, td, valueObj, reverseVal, defined, opts, previous)
	}

	ignored, err := resolveIRIMapping(ac, local, term, td, valueObj, simpleTerm, defined, opts)
	if err != nil {
		return err
	}
	if ignored {
		return nil
	}

	if containerVal, ok := valueObj.Get("@container"); ok {
		container, err := parseContainerValue(containerVal, mode, path)
		if err != nil {
			return err
		}
		td.Container = container
		if td.Type == "@type" || (td.Container.Has(syntax.ContainerType) && td.Type != "" &&
			td.Type != "@id" && td.Type != "@vocab") {
			return errors.New(errors.InvalidTypeMapping, path,
				"@container: @type requires an @id or @vocab type mapping")
		}
	}

	if indexVal, ok := valueObj.Get("@index"); ok {
		if mode == syntax.ModeJSONLD10 || !td.Container.Has(syntax.ContainerIndex) {
			return errors.New(errors.InvalidTermDefinition, path,
				"@index requires JSON-LD 1.1 and @container: @index")
		}
		s, isString := indexVal.(document.String)
		if !isString {
			return errors.New(errors.InvalidTermDefinition, path, "@index must be a string")
		}
		td.Index = string(s)
	}

	if ctxVal, ok := valueObj.Get("@context"); ok {
		if mode == syntax.ModeJSONLD10 {
			return errors.New(errors.InvalidTermDefinition, path, "scoped contexts require JSON-LD 1.1")
		}
		switch ctxVal.Kind() {
		case document.KindNull, document.KindString, document.KindArray, document.KindObject:
		default:
			return errors.New(errors.InvalidScopedContext, path,
				"scoped context must be null, an IRI, an array, or an object")
		}
		td.LocalContext = ctxVal
		td.HasContext = true
		if opts != nil {
			td.BaseURL = opts.baseURL
		}
	}

	if langVal, ok := valueObj.Get("@language"); ok && !valueObj.Has("@type") {
		switch lv := langVal.(type) {
		case document.Null:
			td.HasLanguage = true
		case document.String:
			td.HasLanguage = true
			td.Language = strings.ToLower(string(lv))
		default:
			return errors.New(errors.InvalidLanguageMapping, path, "@language must be a string or null")
		}
	}

	if dirVal, ok := valueObj.Get("@direction"); ok && !valueObj.Has("@type") {
		switch dv := dirVal.(type) {
		case document.Null:
			td.Direction = syntax.DirectionNull
		case document.String:
			d, ok := syntax.ParseDirection(string(dv))
			if !ok {
				return errors.New(errors.InvalidBaseDirection, path,
					"@direction must be \"ltr\", \"rtl\", or null")
			}
			td.Direction = d
		default:
			return errors.New(errors.InvalidBaseDirection, path, "@direction must be a string or null")
		}
	}

	if nestVal, ok := valueObj.Get("@nest"); ok {
		if mode == syntax.ModeJSONLD10 {
			return errors.New(errors.InvalidTermDefinition, path, "@nest requires JSON-LD 1.1")
		}
		s, isString := nestVal.(document.String)
		if !isString || (syntax.IsKeyword(string(s)) && string(s) != "@nest") {
			return errors.New(errors.InvalidNestValue, path,
				"@nest must be a string that is not a keyword other than @nest")
		}
		td.Nest = string(s)
	}

	if prefixVal, ok := valueObj.Get("@prefix"); ok {
		if mode == syntax.ModeJSONLD10 || strings.ContainsAny(term, ":/") {
			return errors.New(errors.InvalidTermDefinition, path,
				"@prefix requires JSON-LD 1.1 and a simple term")
		}
		b, isBool := prefixVal.(document.Bool)
		if !isBool {
			return errors.New(errors.InvalidPrefixValue, path, "@prefix must be a boolean")
		}
		if bool(b) && syntax.IsKeyword(td.IRI) {
			return errors.New(errors.InvalidTermDefinition, path,
				"a keyword alias cannot be a prefix")
		}
		td.Prefix = bool(b)
	}

	for _, key := range valueObj.Keys() {
		switch key {
		case "@id", "@reverse", "@type", "@language", "@direction", "@container",
			"@context", "@index", "@nest", "@prefix", "@propagate", "@protected":
		default:
			return errors.New(errors.InvalidTermDefinition, document.JoinPath(path, key),
				"unexpected entry %q in term definition", key)
		}
	}

	return finishDefinition(ac, term, td, previous, defined, opts)
}

// allowedTypeRedefinition reports whether an @type redefinition carries
// only @container: @set and/or @protected.
func allowedTypeRedefinition(obj *document.Object) bool {
	for _, m := range obj.Members() {
		switch m.Key {
		case "@container":
			s, ok := m.Value.(document.String)
			if !ok || s != "@set" {
				return false
			}
		case "@protected":
		default:
			return false
		}
	}
	return true
}

func defineReverseTerm(ac *ActiveContext, local *document.Object, term string,
	td *TermDefinition, valueObj *document.Object, reverseVal document.Value,
	defined map[string]defineState, opts *defineOptions, previous *TermDefinition) error {

	path := document.JoinPath("/@context", term)
	if valueObj.Has("@id") || valueObj.Has("@nest") {
		return errors.New(errors.InvalidReverseProperty, path,
			"@reverse is incompatible with @id and @nest")
	}
	s, isString := reverseVal.(document.String)
	if !isString {
		return errors.New(errors.InvalidIRIMapping, path, "@reverse must be a string")
	}
	if syntax.HasKeywordForm(string(s)) {
		defined[term] = stateDefined
		return nil
	}
	expanded, err := expandIRI(ac, string(s), true, false, local, defined, opts)
	if err != nil {
		return err
	}
	if !iri.IsAbsoluteOrBlank(expanded) {
		return errors.New(errors.InvalidIRIMapping, path,
			"reverse property must expand to an absolute IRI, got %q", s)
	}
	td.IRI = expanded
	td.Reverse = true

	if containerVal, ok := valueObj.Get("@container"); ok {
		cs, isString := containerVal.(document.String)
		if !isString || (cs != "@set" && cs != "@index") {
			if containerVal.Kind() != document.KindNull {
				return errors.New(errors.InvalidReverseProperty, path,
					"reverse properties admit only @set and @index containers")
			}
		} else {
			flag, _ := syntax.LookupContainer(string(cs))
			td.Container = flag
		}
	}
	return finishDefinition(ac, term, td, previous, defined, opts)
}

// resolveIRIMapping determines the IRI mapping from @id, a compact IRI
// form of the term itself, or the vocabulary mapping. It reports
// ignored=true when the term must be silently dropped (a keyword-shaped
// @id target).
func resolveIRIMapping(ac *ActiveContext, local *document.Object, term string,
	td *TermDefinition, valueObj *document.Object, simpleTerm bool,
	defined map[string]defineState, opts *defineOptions) (ignored bool, err error) {

	path := document.JoinPath("/@context", term)

	if idVal, ok := valueObj.Get("@id"); ok {
		if idVal.Kind() == document.KindNull {
			// Term explicitly mapped to null: keys using it are dropped.
			return false, nil
		}
		s, isString := idVal.(document.String)
		if !isString {
			return false, errors.New(errors.InvalidIRIMapping, path, "@id must be a string or null")
		}
		if string(s) != term {
			if syntax.HasKeywordForm(string(s)) {
				defined[term] = stateDefined
				return true, nil
			}
			expanded, err := expandIRI(ac, string(s), true, false, local, defined, opts)
			if err != nil {
				return false, err
			}
			if !syntax.IsKeyword(expanded) && !iri.IsAbsoluteOrBlank(expanded) {
				return false, errors.New(errors.InvalidIRIMapping, path,
					"@id must expand to a keyword, absolute IRI, or blank node, got %q", s)
			}
			if expanded == "@context" {
				return false, errors.New(errors.InvalidKeywordAlias, path, "@context cannot be aliased")
			}
			td.IRI = expanded

			if simpleTerm && !strings.ContainsAny(term, ":/") &&
				endsWithGenDelim(expanded) && !iri.IsBlankNode(expanded) {
				td.Prefix = true
			}
			return false, nil
		}
	}

	if strings.Contains(term[1:], ":") {
		prefix, suffix, ok := iri.SplitCompact(term)
		if ok {
			if local.Has(prefix) {
				if err := defineTerm(ac, local, prefix, defined, opts); err != nil {
					return false, err
				}
			}
			if prefixDef, exists := ac.terms[prefix]; exists && prefixDef.IRI != "" {
				td.IRI = prefixDef.IRI + suffix
				return false, nil
			}
		}
		// The term itself is an absolute IRI or blank node label.
		td.IRI = term
		return false, nil
	}

	if strings.Contains(term, "/") {
		expanded, err := expandIRI(ac, term, true, false, nil, nil, opts)
		if err != nil {
			return false, err
		}
		if !iri.IsAbsolute(expanded) {
			return false, errors.New(errors.InvalidIRIMapping, path,
				"relative term %q did not resolve to an absolute IRI", term)
		}
		td.IRI = expanded
		return false, nil
	}

	if term == "@type" {
		td.IRI = "@type"
		return false, nil
	}

	if ac.vocab == "" {
		return false, errors.New(errors.InvalidIRIMapping, path,
			"term %q has no @id and no vocabulary mapping applies", term)
	}
	td.IRI = ac.vocab + term
	return false, nil
}

// parseContainerValue validates an @container entry into container flags.
func parseContainerValue(value document.Value, mode syntax.ProcessingMode, path string) (syntax.Container, error) {
	entries, ok := value.(document.Array)
	if !ok {
		entries = document.Array{value}
		if mode == syntax.ModeJSONLD10 && value.Kind() != document.KindString {
			return syntax.ContainerNone, errors.New(errors.InvalidContainerMapping, path,
				"@container must be a single keyword in JSON-LD 1.0")
		}
	} else if mode == syntax.ModeJSONLD10 {
		return syntax.ContainerNone, errors.New(errors.InvalidContainerMapping, path,
			"@container arrays require JSON-LD 1.1")
	}

	var container syntax.Container
	for _, entry := range entries {
		s, isString := entry.(document.String)
		if !isString {
			return syntax.ContainerNone, errors.New(errors.InvalidContainerMapping, path,
				"@container entries must be strings")
		}
		flag, known := syntax.LookupContainer(string(s))
		if !known {
			return syntax.ContainerNone, errors.New(errors.InvalidContainerMapping, path,
				"unknown container %q", s)
		}
		container |= flag
	}
	if !syntax.ValidCombination(container) {
		return syntax.ContainerNone, errors.New(errors.InvalidContainerMapping, path,
			"invalid container combination %q", container)
	}
	if !container.AllowedInMode(mode) {
		return syntax.ContainerNone, errors.New(errors.InvalidContainerMapping, path,
			"container %q requires JSON-LD 1.1", container)
	}
	return container, nil
}

// finishDefinition applies the protected-redefinition rule and publishes
// the definition.
func finishDefinition(ac *ActiveContext, term string, td *TermDefinition,
	previous *TermDefinition, defined map[string]defineState, opts *defineOptions) error {

	if previous != nil && previous.Protected && (opts == nil || !opts.overrideProtected) {
		if !td.SameAs(previous) {
			return errors.New(errors.ProtectedTermRedefinition,
				document.JoinPath("/@context", term), "term %q is protected", term)
		}
		// Identical redefinition: keep the previous definition with its
		// protected status intact.
		ac.terms[term] = previous
		defined[term] = stateDefined
		return nil
	}

	ac.terms[term] = td
	defined[term] = stateDefined
	return nil
}

func endsWithGenDelim(s string) bool {
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case ':', '/', '?', '#', '[', ']', '@':
		return true
	default:
		return false
	}
}
