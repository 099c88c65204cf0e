package syntax

import (
	"strings"
)

// Container is a combinable set of container mapping flags for one term
// definition.
type Container uint16

const (
	// ContainerList marks a @list container.
	ContainerList Container = 1 << iota
	// ContainerSet marks a @set container.
	ContainerSet
	// ContainerIndex marks an @index container.
	ContainerIndex
	// ContainerLanguage marks a @language container.
	ContainerLanguage
	// ContainerType marks a @type container.
	ContainerType
	// ContainerID marks an @id container.
	ContainerID
	// ContainerGraph marks a @graph container.
	ContainerGraph

	// ContainerNone is the empty container mapping.
	ContainerNone Container = 0
)

var containerKeywords = map[string]Container{
	"@list":     ContainerList,
	"@set":      ContainerSet,
	"@index":    ContainerIndex,
	"@language": ContainerLanguage,
	"@type":     ContainerType,
	"@id":       ContainerID,
	"@graph":    ContainerGraph,
}

// Has reports whether all flags in f are present.
func (c Container) Has(f Container) bool { return c&f == f }

// IsEmpty reports whether no container flag is set.
func (c Container) IsEmpty() bool { return c == ContainerNone }

// String returns the container flags as a sorted keyword list.
func (c Container) String() string {
	if c.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, 3)
	for _, kw := range []string{"@graph", "@id", "@index", "@language", "@list", "@set", "@type"} {
		if c.Has(containerKeywords[kw]) {
			parts = append(parts, kw)
		}
	}
	return strings.Join(parts, ",")
}

// LookupContainer returns the container flag for one @container entry.
func LookupContainer(s string) (Container, bool) {
	f, ok := containerKeywords[s]
	return f, ok
}

// ValidCombination reports whether the combined container flags are an
// allowed combination:
//
//   - @list combines with nothing else
//   - @graph combines only with @id, @index, and @set
//   - @type combines only with @set
//   - @language, @index, and @id combine only with @set
func ValidCombination(c Container) bool {
	switch {
	case c.IsEmpty():
		return true
	case c.Has(ContainerList):
		return c == ContainerList
	case c.Has(ContainerGraph):
		return c&^(ContainerGraph|ContainerID|ContainerIndex|ContainerSet) == 0 &&
			!c.Has(ContainerID|ContainerIndex)
	case c.Has(ContainerType):
		return c&^(ContainerType|ContainerSet) == 0
	case c.Has(ContainerLanguage):
		return c&^(ContainerLanguage|ContainerSet) == 0
	case c.Has(ContainerIndex):
		return c&^(ContainerIndex|ContainerSet) == 0
	case c.Has(ContainerID):
		return c&^(ContainerID|ContainerSet) == 0
	default:
		return c == ContainerSet
	}
}

// AllowedInMode reports whether the container flags are expressible in the
// given processing mode. JSON-LD 1.0 admits only single @list, @set,
// @index, and @language containers.
func (c Container) AllowedInMode(mode ProcessingMode) bool {
	if mode != ModeJSONLD10 {
		return true
	}
	switch c {
	case ContainerNone, ContainerList, ContainerSet, ContainerIndex, ContainerLanguage:
		return true
	default:
		return false
	}
}
