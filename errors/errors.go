// Package errors provides standardized error handling for the JSON-LD
// processing algorithms. It defines the categorical error codes raised by
// context processing, expansion, and compaction, and helper functions for
// consistent error wrapping and classification across the library.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies a categorical JSON-LD processing failure. The string
// values follow the error code registry of the JSON-LD 1.1 API so that
// failures can be diffed against conformance test expectations.
type Code string

const (
	// Context processing errors
	CyclicIRIMapping            Code = "cyclic IRI mapping"
	InvalidBaseIRI              Code = "invalid base IRI"
	InvalidVocabMapping         Code = "invalid vocab mapping"
	InvalidDefaultLanguage      Code = "invalid default language"
	InvalidBaseDirection        Code = "invalid base direction"
	InvalidIRIMapping           Code = "invalid IRI mapping"
	InvalidKeywordAlias         Code = "invalid keyword alias"
	InvalidContainerMapping     Code = "invalid container mapping"
	InvalidTypeMapping          Code = "invalid type mapping"
	InvalidLanguageMapping      Code = "invalid language mapping"
	InvalidNestValue            Code = "invalid @nest value"
	InvalidPrefixValue          Code = "invalid @prefix value"
	InvalidPropagateValue       Code = "invalid @propagate value"
	InvalidProtectedValue       Code = "invalid @protected value"
	InvalidVersionValue         Code = "invalid @version value"
	InvalidImportValue          Code = "invalid @import value"
	InvalidContextEntry         Code = "invalid context entry"
	InvalidContextNullification Code = "invalid context nullification"
	InvalidLocalContext         Code = "invalid local context"
	InvalidRemoteContext        Code = "invalid remote context"
	InvalidReverseProperty      Code = "invalid reverse property"
	InvalidScopedContext        Code = "invalid scoped context"
	InvalidTermDefinition       Code = "invalid term definition"
	KeywordRedefinition         Code = "keyword redefinition"
	ProtectedTermRedefinition   Code = "protected term redefinition"
	RecursiveContextInclusion   Code = "recursive context inclusion"
	ContextOverflow             Code = "context overflow"
	ProcessingModeConflict      Code = "processing mode conflict"

	// Expansion errors
	CollidingKeywords           Code = "colliding keywords"
	InvalidIDValue              Code = "invalid @id value"
	InvalidIndexValue           Code = "invalid @index value"
	InvalidIncludedValue        Code = "invalid @included value"
	InvalidLanguageMapValue     Code = "invalid language map value"
	InvalidLanguageTaggedString Code = "invalid language-tagged string"
	InvalidLanguageTaggedValue  Code = "invalid language-tagged value"
	InvalidLanguageMappedValue  Code = "invalid language-mapped value"
	InvalidReversePropertyMap   Code = "invalid reverse property map"
	InvalidReversePropertyValue Code = "invalid reverse property value"
	InvalidReverseValue         Code = "invalid @reverse value"
	InvalidSetOrListObject      Code = "invalid set or list object"
	InvalidTypeValue            Code = "invalid type value"
	InvalidTypedValue           Code = "invalid typed value"
	InvalidValueObject          Code = "invalid value object"
	InvalidValueObjectValue     Code = "invalid value object value"
	ListOfLists                 Code = "list of lists"

	// Flattening errors
	ConflictingIndexes Code = "conflicting indexes"

	// Loading errors
	LoadingDocumentFailed      Code = "loading document failed"
	LoadingRemoteContextFailed Code = "loading remote context failed"
	InvalidRemoteDocument      Code = "invalid remote document"
	MultipleContextLinkHeaders Code = "multiple context link headers"
)

// Standard error variables for loader and infrastructure conditions that
// are not tied to a document location.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrNoLoader         = errors.New("no document loader configured")
	ErrUnsupportedMedia = errors.New("unsupported content type")
	ErrInvalidIRI       = errors.New("invalid IRI")
)

// ProcessingError is a categorical JSON-LD error carrying the JSON-pointer
// style path of the document location where the violation occurred.
type ProcessingError struct {
	Code    Code
	Path    string
	Message string
	Err     error
}

// Error implements the error interface.
func (pe *ProcessingError) Error() string {
	var b strings.Builder
	b.WriteString(string(pe.Code))
	if pe.Path != "" {
		fmt.Fprintf(&b, " at %s", pe.Path)
	}
	if pe.Message != "" {
		b.WriteString(": ")
		b.WriteString(pe.Message)
	}
	if pe.Err != nil {
		b.WriteString(": ")
		b.WriteString(pe.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error, if any.
func (pe *ProcessingError) Unwrap() error {
	return pe.Err
}

// Is reports code equality so that errors.Is(err, &ProcessingError{Code: c})
// and comparisons against New(c, ...) sentinels behave as expected.
func (pe *ProcessingError) Is(target error) bool {
	var other *ProcessingError
	if errors.As(target, &other) {
		return pe.Code == other.Code
	}
	return false
}

// New creates a ProcessingError with the given code, document path, and
// formatted detail message.
func New(code Code, path, format string, args ...any) error {
	return &ProcessingError{
		Code:    code,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapCode attaches a categorical code and path to an underlying error.
func WrapCode(err error, code Code, path string) error {
	if err == nil {
		return nil
	}
	return &ProcessingError{Code: code, Path: path, Err: err}
}

// CodeOf extracts the categorical code from an error chain. The second
// return value reports whether a ProcessingError was found.
func CodeOf(err error) (Code, bool) {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Code, true
	}
	return "", false
}

// PathOf extracts the document path from an error chain, or "" if the
// error carries no location.
func PathOf(err error) string {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Path
	}
	return ""
}

// HasCode reports whether the error chain contains a ProcessingError with
// the given code.
func HasCode(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapLoading wraps a loader failure with the offending IRI. Loader errors
// are never swallowed; the IRI is part of the terminal error.
func WrapLoading(err error, iri string) error {
	if err == nil {
		return nil
	}
	return &ProcessingError{
		Code:    LoadingDocumentFailed,
		Message: iri,
		Err:     err,
	}
}

// IsLoading reports whether the error originated at the document loader
// boundary rather than inside the processing algorithms.
func IsLoading(err error) bool {
	return HasCode(err, LoadingDocumentFailed) ||
		HasCode(err, LoadingRemoteContextFailed) ||
		errors.Is(err, ErrDocumentNotFound) ||
		errors.Is(err, ErrNoLoader)
}
