// Package iri provides the IRI classification and resolution helpers used
// by the JSON-LD algorithms: absolute-IRI detection, blank node labels,
// compact IRI splitting, and relative reference resolution per RFC 3986.
package iri

import (
	"net/url"
	"strings"
)

// IsAbsolute reports whether s is an absolute IRI: a valid scheme followed
// by ":" and no whitespace.
func IsAbsolute(s string) bool {
	colon := strings.IndexByte(s, ':')
	if colon < 1 {
		return false
	}
	if !validScheme(s[:colon]) {
		return false
	}
	return !strings.ContainsAny(s, " \t\n\r")
}

func validScheme(s string) bool {
	if !isAlpha(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isAlpha(c) && (c < '0' || c > '9') && c != '+' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// IsBlankNode reports whether s is a blank node label ("_:" prefixed).
func IsBlankNode(s string) bool {
	return strings.HasPrefix(s, "_:")
}

// IsAbsoluteOrBlank reports whether s is an absolute IRI or a blank node
// label, the only identifiers an expanded node object may carry.
func IsAbsoluteOrBlank(s string) bool {
	return IsBlankNode(s) || IsAbsolute(s)
}

// SplitCompact splits a potential compact IRI into prefix and suffix. It
// returns ok=false when s has no colon, or when the candidate is a blank
// node label or the suffix begins with "//" (making s an absolute IRI or
// a relative reference with an authority, not a compact IRI).
func SplitCompact(s string) (prefix, suffix string, ok bool) {
	colon := strings.IndexByte(s, ':')
	if colon < 1 {
		return "", "", false
	}
	prefix, suffix = s[:colon], s[colon+1:]
	if prefix == "_" || strings.HasPrefix(suffix, "//") {
		return "", "", false
	}
	return prefix, suffix, true
}

// Resolve resolves a possibly relative IRI reference against a base IRI
// per RFC 3986. An empty base, or a base that cannot be parsed, leaves the
// reference untouched.
func Resolve(base, ref string) string {
	if base == "" {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// RelativeTo compacts an absolute IRI into a reference relative to base,
// if base is a prefix on a path or fragment boundary. It returns the
// input unchanged when no shorter relative form exists.
func RelativeTo(base, iri string) string {
	if base == "" || iri == "" {
		return iri
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return iri
	}
	t, err := url.Parse(iri)
	if err != nil || !t.IsAbs() {
		return iri
	}
	if b.Scheme != t.Scheme || b.Host != t.Host {
		return iri
	}

	if b.Path == t.Path {
		switch {
		case t.RawQuery != b.RawQuery:
			return "?" + t.RawQuery + fragmentOf(t)
		case t.Fragment != "":
			return "#" + t.Fragment
		case b.RawQuery == "":
			// Same document reference.
			last := strings.LastIndexByte(t.Path, '/')
			return t.Path[last+1:]
		default:
			return iri
		}
	}

	dir := b.Path[:strings.LastIndexByte(b.Path, '/')+1]
	if dir != "" && strings.HasPrefix(t.Path, dir) {
		rel := t.Path[len(dir):]
		if rel == "" {
			rel = "./"
		}
		if t.RawQuery != "" {
			rel += "?" + t.RawQuery
		}
		return rel + fragmentOf(t)
	}
	return iri
}

func fragmentOf(u *url.URL) string {
	if u.Fragment == "" {
		return ""
	}
	return "#" + u.Fragment
}
