package object

import "github.com/c360/jsonld/document"

// Datatype IRIs assigned to native JSON literals.
const (
	XSDBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDInteger = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDouble  = "http://www.w3.org/2001/XMLSchema#double"
	XSDString  = "http://www.w3.org/2001/XMLSchema#string"
)

// ImplicitType returns the datatype IRI a native JSON literal carries when
// no type coercion applies: xsd:boolean for booleans, xsd:integer for
// whole numbers, xsd:double otherwise. Strings carry no implicit type.
func ImplicitType(literal document.Value) string {
	switch v := literal.(type) {
	case document.Bool:
		return XSDBoolean
	case document.Number:
		if v.IsInteger() {
			return XSDInteger
		}
		return XSDDouble
	}
	return ""
}
