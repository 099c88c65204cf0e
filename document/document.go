// Package document provides an ordered JSON tree model for JSON-LD
// processing. Objects preserve member insertion order, which the context
// processing and expansion algorithms depend on, and numbers retain their
// raw lexical form so that round-trips do not reformat values.
package document

import (
	"sort"
	"strconv"
)

// Kind identifies the shape of a JSON value.
type Kind int

const (
	// KindNull is the JSON null value.
	KindNull Kind = iota
	// KindBool is a JSON boolean.
	KindBool
	// KindNumber is a JSON number, stored in raw lexical form.
	KindNumber
	// KindString is a JSON string.
	KindString
	// KindArray is a JSON array.
	KindArray
	// KindObject is a JSON object with preserved member order.
	KindObject
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one node of the JSON tree. Implementations are Null, Bool,
// Number, String, Array, and *Object.
type Value interface {
	Kind() Kind
}

// Null is the JSON null value.
type Null struct{}

// Kind returns KindNull.
func (Null) Kind() Kind { return KindNull }

// Bool is a JSON boolean.
type Bool bool

// Kind returns KindBool.
func (Bool) Kind() Kind { return KindBool }

// Number is a JSON number in raw lexical form.
type Number string

// Kind returns KindNumber.
func (Number) Kind() Kind { return KindNumber }

// Float64 returns the numeric value.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// Int64 returns the integral value, failing on fractions.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// IsInteger reports whether the number has no fraction or exponent part
// and fits the JSON-LD native integer range.
func (n Number) IsInteger() bool {
	if _, err := n.Int64(); err != nil {
		return false
	}
	return true
}

// String is a JSON string.
type String string

// Kind returns KindString.
func (String) Kind() Kind { return KindString }

// Array is a JSON array.
type Array []Value

// Kind returns KindArray.
func (Array) Kind() Kind { return KindArray }

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object preserving member insertion order with O(1)
// member lookup.
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// Kind returns KindObject.
func (*Object) Kind() Kind { return KindObject }

// Len returns the number of members.
func (o *Object) Len() int { return len(o.members) }

// Get returns the value for key and whether the member exists.
func (o *Object) Get(key string) (Value, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Has reports whether the member exists.
func (o *Object) Has(key string) bool {
	_, ok := o.index[key]
	return ok
}

// Set inserts or replaces a member. Replacing keeps the member's original
// position in the insertion order.
func (o *Object) Set(key string, v Value) {
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v})
}

// Delete removes a member, preserving the order of the remaining members.
func (o *Object) Delete(key string) {
	i, ok := o.index[key]
	if !ok {
		return
	}
	o.members = append(o.members[:i], o.members[i+1:]...)
	delete(o.index, key)
	for j := i; j < len(o.members); j++ {
		o.index[o.members[j].Key] = j
	}
}

// Keys returns member keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// SortedKeys returns member keys in code-point lexicographic order, used
// when deterministic (ordered) processing is requested.
func (o *Object) SortedKeys() []string {
	keys := o.Keys()
	sort.Strings(keys)
	return keys
}

// OrderedKeys returns SortedKeys when ordered is true, Keys otherwise.
func (o *Object) OrderedKeys(ordered bool) []string {
	if ordered {
		return o.SortedKeys()
	}
	return o.Keys()
}

// Members returns the members in insertion order. The returned slice is
// shared; callers must not modify it.
func (o *Object) Members() []Member { return o.members }

// Clone returns a shallow copy of the object: member order and keys are
// copied, member values are shared.
func (o *Object) Clone() *Object {
	c := &Object{
		members: make([]Member, len(o.members)),
		index:   make(map[string]int, len(o.index)),
	}
	copy(c.members, o.members)
	for k, v := range o.index {
		c.index[k] = v
	}
	return c
}

// Equal reports deep equality of two values. Object member order is not
// significant; array order is. Numbers compare numerically so that
// distinct lexical forms of the same value are equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av == b.(Bool)
	case Number:
		bv := b.(Number)
		if av == bv {
			return true
		}
		af, aerr := av.Float64()
		bf, berr := bv.Float64()
		return aerr == nil && berr == nil && af == bf
	case String:
		return av == b.(String)
	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv := b.(*Object)
		if av.Len() != bv.Len() {
			return false
		}
		for _, m := range av.members {
			other, ok := bv.Get(m.Key)
			if !ok || !Equal(m.Value, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsScalar reports whether the value is a string, number, or boolean.
func IsScalar(v Value) bool {
	switch v.Kind() {
	case KindString, KindNumber, KindBool:
		return true
	default:
		return false
	}
}
