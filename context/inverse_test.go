package context

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectTermShortestWins(t *testing.T) {
	ac := mustApply(t, `{
		"p": "http://example.com/prop",
		"prop": "http://example.com/prop"
	}`)
	got := ac.SelectTerm("http://example.com/prop", []string{ValueNone}, AxisLanguage, []string{ValueNone})
	assert.Equal(t, "p", got)
}

func TestSelectTermLexicographicTieBreak(t *testing.T) {
	ac := mustApply(t, `{
		"zb": "http://example.com/prop",
		"za": "http://example.com/prop"
	}`)
	got := ac.SelectTerm("http://example.com/prop", []string{ValueNone}, AxisLanguage, []string{ValueNone})
	assert.Equal(t, "za", got, "equal-length candidates resolve lexicographically")
}

func TestSelectTermByType(t *testing.T) {
	ac := mustApply(t, `{
		"plain": "http://example.com/prop",
		"ref": {"@id": "http://example.com/prop", "@type": "@id"},
		"dated": {"@id": "http://example.com/prop", "@type": "http://www.w3.org/2001/XMLSchema#date"}
	}`)

	got := ac.SelectTerm("http://example.com/prop", []string{ValueNone}, AxisType, []string{"@id"})
	assert.Equal(t, "ref", got)

	got = ac.SelectTerm("http://example.com/prop", []string{ValueNone}, AxisType,
		[]string{"http://www.w3.org/2001/XMLSchema#date"})
	assert.Equal(t, "dated", got)

	got = ac.SelectTerm("http://example.com/prop", []string{ValueNone}, AxisType, []string{ValueNone})
	assert.Equal(t, "plain", got, "untyped values select the unconstrained term")
}

func TestSelectTermByLanguage(t *testing.T) {
	ac := mustApply(t, `{
		"plain": "http://example.com/prop",
		"de": {"@id": "http://example.com/prop", "@language": "de"},
		"mute": {"@id": "http://example.com/prop", "@language": null}
	}`)

	got := ac.SelectTerm("http://example.com/prop", []string{ValueNone}, AxisLanguage, []string{"de"})
	assert.Equal(t, "de", got)

	got = ac.SelectTerm("http://example.com/prop", []string{ValueNone}, AxisLanguage, []string{ValueNull})
	assert.Equal(t, "mute", got, "explicit null language mapping matches untagged strings")
}

func TestSelectTermByContainer(t *testing.T) {
	ac := mustApply(t, `{
		"one": "http://example.com/prop",
		"many": {"@id": "http://example.com/prop", "@container": "@list"}
	}`)

	got := ac.SelectTerm("http://example.com/prop", []string{"@list", ValueNone}, AxisLanguage, []string{ValueNone})
	assert.Equal(t, "many", got, "container order expresses preference")

	got = ac.SelectTerm("http://example.com/prop", []string{ValueNone}, AxisLanguage, []string{ValueNone})
	assert.Equal(t, "one", got)
}

func TestSelectTermCombinedContainerKey(t *testing.T) {
	ac := mustApply(t, `{
		"idx": {"@id": "http://example.com/prop", "@container": ["@index", "@set"]}
	}`)
	got := ac.SelectTerm("http://example.com/prop", []string{"@index@set", ValueNone}, AxisLanguage, []string{ValueNone})
	assert.Equal(t, "idx", got)
}

func TestSelectTermReverse(t *testing.T) {
	ac := mustApply(t, `{
		"children": {"@reverse": "http://example.com/parent"}
	}`)
	got := ac.SelectTerm("http://example.com/parent", []string{ValueNone}, AxisType, []string{"@reverse"})
	assert.Equal(t, "children", got)
}

func TestSelectTermNoMatch(t *testing.T) {
	ac := mustApply(t, `{"p": "http://example.com/prop"}`)
	assert.Equal(t, "", ac.SelectTerm("http://example.com/other", []string{ValueNone}, AxisLanguage, []string{ValueNone}))
	assert.Equal(t, "", ac.SelectTerm("http://example.com/prop", []string{"@list"}, AxisLanguage, []string{ValueNone}))
}

func TestInverseCachedPerContext(t *testing.T) {
	ac := mustApply(t, `{"p": "http://example.com/prop"}`)
	first := ac.Inverse()
	second := ac.Inverse()
	assert.Equal(t, first, second)
}
