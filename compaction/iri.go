package compaction

import (
	"strings"

	"github.com/c360/jsonld/context"
	"github.com/c360/jsonld/iri"
	"github.com/c360/jsonld/object"
	"github.com/c360/jsonld/syntax"
)

// compactIRI shortens an absolute IRI (or keyword) into a term, compact
// IRI, vocabulary-relative, or base-relative form. value carries the
// shape the candidate term must fit; reverse marks reverse property
// position. Candidates rank by container/type/language fit, then
// shortest form, then lexicographically.
func (c *Compactor) compactIRI(active *context.ActiveContext, variable string,
	value object.Element, vocab, reverse bool, opts Options) string {

	if variable == "" {
		return variable
	}

	if vocab {
		if term := c.selectTerm(active, variable, value, reverse); term != "" {
			return term
		}
	}

	// Vocabulary-relative form, unless a term of that name would
	// re-expand differently.
	if vocab && active.Vocab() != "" && strings.HasPrefix(variable, active.Vocab()) &&
		len(variable) > len(active.Vocab()) {
		suffix := variable[len(active.Vocab()):]
		if _, taken := active.Term(suffix); !taken {
			return suffix
		}
	}

	if candidate := compactIRICandidate(active, variable); candidate != "" {
		return candidate
	}

	if !vocab && opts.CompactToRelative {
		return iri.RelativeTo(active.Base(), variable)
	}
	return variable
}

// compactIRICandidate finds the best prefix:suffix form for an IRI:
// shortest, then lexicographically least, among prefix-enabled terms
// whose IRI mapping is a proper prefix. The candidate must re-expand to
// the same IRI, so a term already claiming the candidate name with a
// different mapping disqualifies it.
func compactIRICandidate(active *context.ActiveContext, variable string) string {
	best := ""
	for _, term := range active.TermNames() {
		td, _ := active.Term(term)
		if !td.Prefix || td.IRI == "" || td.IRI == variable {
			continue
		}
		if !strings.HasPrefix(variable, td.IRI) {
			continue
		}
		candidate := term + ":" + variable[len(td.IRI):]
		if existing, taken := active.Term(candidate); taken && existing.IRI != variable {
			continue
		}
		if best == "" || len(candidate) < len(best) ||
			(len(candidate) == len(best) && candidate < best) {
			best = candidate
		}
	}
	return best
}

// selectTerm derives the container preferences and selection axis from
// the value shape and queries the inverse context.
func (c *Compactor) selectTerm(active *context.ActiveContext, variable string,
	value object.Element, reverse bool) string {

	if _, ok := active.Inverse()[variable]; !ok {
		return ""
	}

	var containers []string
	axis := context.AxisLanguage
	axisValue := context.ValueNull

	indexed := elementIndex(value) != ""
	if indexed && !isGraph(value) {
		containers = append(containers, "@index", "@index@set")
	}

	switch {
	case reverse:
		axis = context.AxisType
		axisValue = "@reverse"
		containers = append(containers, "@set")

	case isGraph(value):
		node := value.(*object.Node)
		if node.Index != "" {
			containers = append(containers, "@graph@index", "@graph@index@set")
		}
		if node.ID != "" {
			containers = append(containers, "@graph@id", "@graph@id@set")
		}
		containers = append(containers, "@graph", "@graph@set", "@set")
		axis = context.AxisType
		axisValue = "@id"

	case value != nil && isList(value):
		list := value.(*object.List)
		if list.Index == "" {
			containers = append(containers, "@list")
		}
		axis, axisValue = listAxis(list)

	default:
		switch v := value.(type) {
		case *object.Value:
			if key := valueLanguageKey(v); key != "" {
				axisValue = key
			} else if v.Type != "" {
				axis = context.AxisType
				axisValue = v.Type
			}
			if v.Type == "" {
				containers = append(containers, "@language", "@language@set")
			}
		case *object.Node:
			axis = context.AxisType
			axisValue = "@id"
			containers = append(containers, "@id", "@id@set", "@type", "@set@type")
		}
		containers = append(containers, "@set")
	}

	containers = append(containers, context.ValueNone)
	if !indexed {
		containers = append(containers, "@index", "@index@set")
	}

	preferred := preferredValues(active, value, axisValue, reverse)
	return active.SelectTerm(variable, containers, axis, preferred)
}

// preferredValues orders the axis values to try for one selection.
func preferredValues(active *context.ActiveContext, value object.Element,
	axisValue string, reverse bool) []string {

	var preferred []string
	if axisValue == "@reverse" {
		preferred = append(preferred, "@reverse")
	}

	// A node reference prefers @vocab coding when its identifier
	// round-trips through a term, @id coding otherwise.
	if node, ok := value.(*object.Node); ok && node.ID != "" &&
		(axisValue == "@id" || reverse) && !node.HasGraph {
		if refRoundTrips(active, node.ID) {
			preferred = append(preferred, "@vocab", "@id")
		} else {
			preferred = append(preferred, "@id", "@vocab")
		}
	} else if axisValue != "@reverse" {
		preferred = append(preferred, axisValue)
	}
	return append(preferred, context.ValueNone, context.ValueAny)
}

// refRoundTrips reports whether compacting an identifier against the
// vocabulary produces a form that re-expands to the same IRI.
func refRoundTrips(active *context.ActiveContext, id string) bool {
	vocab := active.Vocab()
	if vocab == "" || !strings.HasPrefix(id, vocab) || len(id) <= len(vocab) {
		return false
	}
	suffix := id[len(vocab):]
	td, taken := active.Term(suffix)
	return !taken || td.IRI == id
}

// listAxis computes the common selection axis of a list's items: a
// shared type, a shared language, or the wildcard when mixed.
func listAxis(list *object.List) (axis, axisValue string) {
	if len(list.Items) == 0 {
		return context.AxisLanguage, context.ValueNull
	}
	commonType, commonLang := "", ""
	for i, item := range list.Items {
		itemType, itemLang := context.ValueNone, context.ValueNone
		if v, ok := item.(*object.Value); ok {
			if key := valueLanguageKey(v); key != "" {
				itemLang = key
			} else if v.Type != "" {
				itemType = v.Type
			} else {
				itemLang = context.ValueNull
			}
		} else {
			itemType = "@id"
		}
		if i == 0 {
			commonType, commonLang = itemType, itemLang
		} else {
			if itemType != commonType {
				commonType = context.ValueNone
			}
			if itemLang != commonLang {
				commonLang = context.ValueNone
			}
		}
	}
	if commonType != context.ValueNone {
		return context.AxisType, commonType
	}
	if commonLang != context.ValueNone {
		return context.AxisLanguage, commonLang
	}
	return context.AxisAny, context.ValueNone
}

// valueLanguageKey is the language-axis key of a value object, "" when
// it carries neither language nor direction.
func valueLanguageKey(v *object.Value) string {
	hasDir := v.Direction == syntax.DirectionLTR || v.Direction == syntax.DirectionRTL
	switch {
	case v.Language != "" && hasDir:
		return v.Language + "_" + string(v.Direction)
	case v.Language != "":
		return v.Language
	case hasDir:
		return "_" + string(v.Direction)
	default:
		return ""
	}
}

// compactKeyword shortens a keyword to its alias when the context
// defines one.
func (c *Compactor) compactKeyword(active *context.ActiveContext, kw string) string {
	if term := active.SelectTerm(kw, []string{context.ValueNone},
		context.AxisLanguage, []string{context.ValueNone, context.ValueAny}); term != "" {
		return term
	}
	return kw
}

func isList(el object.Element) bool {
	_, ok := el.(*object.List)
	return ok
}

func isGraph(el object.Element) bool {
	n, ok := el.(*object.Node)
	return ok && n.HasGraph
}

func elementIndex(el object.Element) string {
	switch v := el.(type) {
	case *object.Value:
		return v.Index
	case *object.List:
		return v.Index
	case *object.Node:
		return v.Index
	}
	return ""
}
