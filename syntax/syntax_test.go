package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupKeyword(t *testing.T) {
	kw, ok := LookupKeyword("@type")
	assert.True(t, ok)
	assert.Equal(t, KeywordType, kw)

	_, ok = LookupKeyword("@ignoreMe")
	assert.False(t, ok)

	_, ok = LookupKeyword("type")
	assert.False(t, ok)
}

func TestHasKeywordForm(t *testing.T) {
	tests := []struct {
		term     string
		expected bool
	}{
		// Recognized keywords are not merely keyword-shaped; digits and
		// punctuation break the keyword form entirely.
		{"@type", false},
		{"@ignoreMe", true},
		{"@", false},
		{"@foo1", false},
		{"@foo-bar", false},
		{"term", false},
	}

	for _, test := range tests {
		t.Run(test.term, func(t *testing.T) {
			assert.Equal(t, test.expected, HasKeywordForm(test.term))
		})
	}
}

func TestHasKeywordFormUppercase(t *testing.T) {
	// "@VALUE" is not a recognized keyword but is keyword-shaped.
	assert.True(t, HasKeywordForm("@Value"))
}

func TestValidCombination(t *testing.T) {
	tests := []struct {
		name      string
		container Container
		valid     bool
	}{
		{"empty", ContainerNone, true},
		{"list alone", ContainerList, true},
		{"list with set", ContainerList | ContainerSet, false},
		{"list with index", ContainerList | ContainerIndex, false},
		{"set alone", ContainerSet, true},
		{"graph alone", ContainerGraph, true},
		{"graph with id", ContainerGraph | ContainerID, true},
		{"graph with index", ContainerGraph | ContainerIndex, true},
		{"graph with id and set", ContainerGraph | ContainerID | ContainerSet, true},
		{"graph with id and index", ContainerGraph | ContainerID | ContainerIndex, false},
		{"graph with language", ContainerGraph | ContainerLanguage, false},
		{"type with set", ContainerType | ContainerSet, true},
		{"type with index", ContainerType | ContainerIndex, false},
		{"language with set", ContainerLanguage | ContainerSet, true},
		{"index with set", ContainerIndex | ContainerSet, true},
		{"id with set", ContainerID | ContainerSet, true},
		{"id with language", ContainerID | ContainerLanguage, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.valid, ValidCombination(test.container))
		})
	}
}

func TestContainerAllowedInMode(t *testing.T) {
	assert.True(t, ContainerIndex.AllowedInMode(ModeJSONLD10))
	assert.True(t, ContainerList.AllowedInMode(ModeJSONLD10))
	assert.False(t, (ContainerID).AllowedInMode(ModeJSONLD10))
	assert.False(t, (ContainerGraph | ContainerID).AllowedInMode(ModeJSONLD10))
	assert.True(t, (ContainerGraph | ContainerID).AllowedInMode(ModeJSONLD11))
}

func TestContainerString(t *testing.T) {
	assert.Equal(t, "", ContainerNone.String())
	assert.Equal(t, "@id,@set", (ContainerID | ContainerSet).String())
	assert.Equal(t, "@graph,@index", (ContainerGraph | ContainerIndex).String())
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("ltr")
	assert.True(t, ok)
	assert.Equal(t, DirectionLTR, d)

	d, ok = ParseDirection("rtl")
	assert.True(t, ok)
	assert.Equal(t, DirectionRTL, d)

	_, ok = ParseDirection("up")
	assert.False(t, ok)
}
