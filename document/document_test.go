package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PreservesMemberOrder(t *testing.T) {
	v, err := ParseString(`{"z":1,"a":2,"m":{"y":true,"b":null}}`)
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	inner, ok := obj.Get("m")
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b"}, inner.(*Object).Keys())
}

func TestParse_NumberLexicalForm(t *testing.T) {
	tests := []struct {
		name string
		in   string
		raw  string
	}{
		{"integer", `42`, "42"},
		{"negative", `-7`, "-7"},
		{"fraction", `1.50`, "1.50"},
		{"exponent", `1e10`, "1e10"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v, err := ParseString(test.in)
			require.NoError(t, err)
			require.Equal(t, KindNumber, v.Kind())
			assert.Equal(t, Number(test.raw), v)
		})
	}
}

func TestParse_TrailingContent(t *testing.T) {
	_, err := ParseString(`{"a":1} {"b":2}`)
	assert.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	tests := []string{
		`null`,
		`true`,
		`"hello"`,
		`1.50`,
		`[1,"two",null,{"a":false}]`,
		`{"z":1,"a":[2,3],"m":{"nested":"x"}}`,
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			v, err := ParseString(input)
			require.NoError(t, err)
			out, err := MarshalString(v)
			require.NoError(t, err)
			assert.Equal(t, input, out)
		})
	}
}

func TestObject_SetReplaceKeepsPosition(t *testing.T) {
	obj := NewObject()
	obj.Set("a", Number("1"))
	obj.Set("b", Number("2"))
	obj.Set("a", Number("3"))

	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	v, _ := obj.Get("a")
	assert.Equal(t, Number("3"), v)
}

func TestObject_Delete(t *testing.T) {
	obj := NewObject()
	obj.Set("a", Number("1"))
	obj.Set("b", Number("2"))
	obj.Set("c", Number("3"))

	obj.Delete("b")
	assert.Equal(t, []string{"a", "c"}, obj.Keys())

	v, ok := obj.Get("c")
	require.True(t, ok)
	assert.Equal(t, Number("3"), v)

	obj.Delete("missing")
	assert.Equal(t, 2, obj.Len())
}

func TestObject_SortedKeys(t *testing.T) {
	obj := NewObject()
	obj.Set("b", Null{})
	obj.Set("A", Null{})
	obj.Set("a", Null{})

	assert.Equal(t, []string{"A", "a", "b"}, obj.SortedKeys())
	assert.Equal(t, []string{"b", "A", "a"}, obj.OrderedKeys(false))
	assert.Equal(t, []string{"A", "a", "b"}, obj.OrderedKeys(true))
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{"same object different order", `{"a":1,"b":2}`, `{"b":2,"a":1}`, true},
		{"array order matters", `[1,2]`, `[2,1]`, false},
		{"numeric equivalence", `1.0`, `1`, true},
		{"nested", `{"a":[{"b":null}]}`, `{"a":[{"b":null}]}`, true},
		{"kind mismatch", `"1"`, `1`, false},
		{"missing member", `{"a":1}`, `{"a":1,"b":2}`, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			a, err := ParseString(test.a)
			require.NoError(t, err)
			b, err := ParseString(test.b)
			require.NoError(t, err)
			assert.Equal(t, test.equal, Equal(a, b))
		})
	}
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/a/b", JoinPath(JoinPath("", "a"), "b"))
	assert.Equal(t, "/a~1b", JoinPath("", "a/b"))
	assert.Equal(t, "/~0c", JoinPath("", "~c"))
	assert.Equal(t, "/items/3", JoinPathIndex("/items", 3))
}
