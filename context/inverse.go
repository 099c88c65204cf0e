package context

import (
	"strings"

	"github.com/c360/jsonld/syntax"
)

// InverseContext indexes term definitions for compaction: IRI, then
// container signature, then selection axis (@language, @type, or @any),
// then the axis value, yielding the term to use. Because terms are
// inserted shortest-first and set-if-absent, every slot holds the
// shortest (then lexicographically least) term that fits.
type InverseContext map[string]map[string]typeLanguageMap

// typeLanguageMap groups candidate terms for one IRI and container by
// selection axis.
type typeLanguageMap map[string]map[string]string

// Selection axes and wildcard values used by the inverse context.
const (
	AxisLanguage = "@language"
	AxisType     = "@type"
	AxisAny      = "@any"

	ValueNone = "@none"
	ValueNull = "@null"
	ValueAny  = "@any"
)

// Inverse returns the inverse context, building it on first use. The
// result is cached for the lifetime of the active context; contexts are
// immutable once published, so the cache never goes stale.
func (ac *ActiveContext) Inverse() InverseContext {
	ac.inverseOnce.Do(func() {
		ac.inverse = buildInverse(ac)
	})
	return ac.inverse
}

// buildInverse is the inverse context creation algorithm.
func buildInverse(ac *ActiveContext) InverseContext {
	inv := make(InverseContext)
	defaultLangDir := defaultLanguageKey(ac)

	for _, term := range ac.TermNames() {
		td := ac.terms[term]
		if td.MappedToNull() {
			continue
		}

		container := containerKey(td.Container)
		containerMap, ok := inv[td.IRI]
		if !ok {
			containerMap = make(map[string]typeLanguageMap)
			inv[td.IRI] = containerMap
		}
		tlm, ok := containerMap[container]
		if !ok {
			tlm = typeLanguageMap{
				AxisLanguage: make(map[string]string),
				AxisType:     make(map[string]string),
				AxisAny:      make(map[string]string),
			}
			containerMap[container] = tlm
		}
		setIfAbsent(tlm[AxisAny], ValueNone, term)

		switch {
		case td.Reverse:
			setIfAbsent(tlm[AxisType], "@reverse", term)
		case td.Type == ValueNone:
			setIfAbsent(tlm[AxisLanguage], ValueAny, term)
			setIfAbsent(tlm[AxisType], ValueAny, term)
		case td.Type != "":
			setIfAbsent(tlm[AxisType], td.Type, term)
		case td.HasLanguage && td.Direction != syntax.DirectionNone:
			setIfAbsent(tlm[AxisLanguage], langDirKey(td.Language, td.Direction), term)
		case td.HasLanguage:
			key := ValueNull
			if td.Language != "" {
				key = td.Language
			}
			setIfAbsent(tlm[AxisLanguage], key, term)
		case td.Direction != syntax.DirectionNone:
			key := ValueNone
			if td.Direction != syntax.DirectionNull {
				key = "_" + string(td.Direction)
			}
			setIfAbsent(tlm[AxisLanguage], key, term)
		default:
			setIfAbsent(tlm[AxisLanguage], defaultLangDir, term)
			setIfAbsent(tlm[AxisLanguage], ValueNone, term)
			setIfAbsent(tlm[AxisType], ValueNone, term)
		}
	}
	return inv
}

// SelectTerm picks the compaction term for an IRI. Containers are tried
// in the caller's preference order; within a container, preferred values
// are tried in order along the given axis. Ties between equally specific
// terms were already broken during the inverse build in favor of the
// shorter, then lexicographically least, term. Empty means no term
// matched and the caller falls back to compact IRI or vocabulary
// compaction.
func (ac *ActiveContext) SelectTerm(variable string, containers []string,
	axis string, preferredValues []string) string {

	containerMap, ok := ac.Inverse()[variable]
	if !ok {
		return ""
	}
	for _, container := range containers {
		tlm, ok := containerMap[container]
		if !ok {
			continue
		}
		valueMap := tlm[axis]
		for _, preferred := range preferredValues {
			if term, ok := valueMap[preferred]; ok {
				return term
			}
		}
	}
	return ""
}

// containerKey is the inverse-context signature of a container mapping.
func containerKey(c syntax.Container) string {
	if c.IsEmpty() {
		return ValueNone
	}
	return strings.ReplaceAll(c.String(), ",", "")
}

// defaultLanguageKey combines the context default language and direction
// into the language-axis key used for terms that carry no language or
// direction mapping of their own.
func defaultLanguageKey(ac *ActiveContext) string {
	lang, hasLang := ac.defaultLanguage, ac.hasDefaultLanguage
	dir := ac.defaultDirection
	switch {
	case hasLang && dir != syntax.DirectionNone && dir != syntax.DirectionNull:
		return strings.ToLower(lang + "_" + string(dir))
	case hasLang:
		if lang == "" {
			return ValueNull
		}
		return strings.ToLower(lang)
	case dir != syntax.DirectionNone && dir != syntax.DirectionNull:
		return "_" + string(dir)
	default:
		return ValueNone
	}
}

// langDirKey is the language-axis key for a term carrying both language
// and direction mappings. Explicit nulls combine down to @null.
func langDirKey(lang string, dir syntax.Direction) string {
	hasDir := dir != syntax.DirectionNull
	switch {
	case lang != "" && hasDir:
		return lang + "_" + string(dir)
	case lang != "":
		return lang
	case hasDir:
		return "_" + string(dir)
	default:
		return ValueNull
	}
}

func setIfAbsent(m map[string]string, key, term string) {
	if _, ok := m[key]; !ok {
		m[key] = term
	}
}
