// Package syntax defines the fixed syntactic elements of JSON-LD: the
// keyword set, container mappings, processing modes, and base directions.
package syntax

// Keyword is one of the reserved JSON-LD keywords. The set is closed;
// dispatch on keywords is exhaustive over these values.
type Keyword string

const (
	KeywordBase      Keyword = "@base"
	KeywordContainer Keyword = "@container"
	KeywordContext   Keyword = "@context"
	KeywordDirection Keyword = "@direction"
	KeywordGraph     Keyword = "@graph"
	KeywordID        Keyword = "@id"
	KeywordImport    Keyword = "@import"
	KeywordIncluded  Keyword = "@included"
	KeywordIndex     Keyword = "@index"
	KeywordJSON      Keyword = "@json"
	KeywordLanguage  Keyword = "@language"
	KeywordList      Keyword = "@list"
	KeywordNest      Keyword = "@nest"
	KeywordNone      Keyword = "@none"
	KeywordPrefix    Keyword = "@prefix"
	KeywordPropagate Keyword = "@propagate"
	KeywordProtected Keyword = "@protected"
	KeywordReverse   Keyword = "@reverse"
	KeywordSet       Keyword = "@set"
	KeywordType      Keyword = "@type"
	KeywordValue     Keyword = "@value"
	KeywordVersion   Keyword = "@version"
	KeywordVocab     Keyword = "@vocab"
)

var keywords = map[string]Keyword{
	"@base":      KeywordBase,
	"@container": KeywordContainer,
	"@context":   KeywordContext,
	"@direction": KeywordDirection,
	"@graph":     KeywordGraph,
	"@id":        KeywordID,
	"@import":    KeywordImport,
	"@included":  KeywordIncluded,
	"@index":     KeywordIndex,
	"@json":      KeywordJSON,
	"@language":  KeywordLanguage,
	"@list":      KeywordList,
	"@nest":      KeywordNest,
	"@none":      KeywordNone,
	"@prefix":    KeywordPrefix,
	"@propagate": KeywordPropagate,
	"@protected": KeywordProtected,
	"@reverse":   KeywordReverse,
	"@set":       KeywordSet,
	"@type":      KeywordType,
	"@value":     KeywordValue,
	"@version":   KeywordVersion,
	"@vocab":     KeywordVocab,
}

// LookupKeyword returns the keyword for s, if s is a recognized keyword.
func LookupKeyword(s string) (Keyword, bool) {
	kw, ok := keywords[s]
	return kw, ok
}

// IsKeyword reports whether s is a recognized JSON-LD keyword.
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

// HasKeywordForm reports whether s looks like a keyword ("@" followed by
// one or more ASCII letters) but is not a recognized keyword. Such terms
// are reserved and ignored rather than defined.
func HasKeywordForm(s string) bool {
	if len(s) < 2 || s[0] != '@' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return !IsKeyword(s)
}
