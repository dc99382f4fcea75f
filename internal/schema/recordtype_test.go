package schema

import (
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articleType(t *testing.T) *RecordType {
	t.Helper()
	rt, err := NewRecordType("article", "articles",
		Simple("title", TypeString),
		Simple("views", TypeLong),
		Reference("author", "person"),
		Binary("body"),
		Inverse("comments", "comment", "article"),
	)
	require.NoError(t, err)
	return rt
}

func TestNewRecordType_PreservesOrder(t *testing.T) {
	rt := articleType(t)

	var names []string
	for _, a := range rt.Attributes() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"title", "views", "author", "body", "comments"}, names)
	assert.Equal(t, "articles", rt.Table())

	var columns []string
	for _, a := range rt.Persistent() {
		columns = append(columns, a.Column)
	}
	assert.Equal(t, []string{"title", "views", "author", "body"}, columns)
}

func TestNewRecordType_Rejects(t *testing.T) {
	testCases := []struct {
		name  string
		attrs []Attribute
		want  error
	}{
		{"duplicate", []Attribute{Simple("a", TypeString), Simple("a", TypeLong)}, ErrDuplicateAttr},
		{"reserved id", []Attribute{Simple("id", TypeLong)}, ErrReservedAttribute},
		{"reference without target", []Attribute{{Name: "r", Kind: KindReference, Type: TypeReference}}, ErrInvalidAttribute},
		{"inverse not virtual", []Attribute{{Name: "c", Kind: KindInverse, Type: TypeReference, Target: "x", InverseOf: "y"}}, ErrInvalidAttribute},
		{"unknown type", []Attribute{{Name: "x", Kind: KindSimple, Type: ValueType(99)}}, ErrInvalidAttribute},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRecordType("t", "", tc.attrs...)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRecordType_DefaultsTableToName(t *testing.T) {
	rt := MustRecordType("person", "", Simple("name", TypeString))
	assert.Equal(t, "person", rt.Table())

	a, ok := rt.ByColumn("name")
	require.True(t, ok)
	assert.Equal(t, "name", a.Name)

	_, ok = rt.ByColumn("missing")
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	long := Simple("n", TypeLong)
	v, err := Normalize(long, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	_, err = Normalize(long, "42")
	assert.ErrorIs(t, err, ErrValueType)

	multi := Simple("tags", TypeString)
	multi.Multiple = true
	v, err = Normalize(multi, []any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, v)

	_, err = Normalize(multi, "a")
	assert.ErrorIs(t, err, ErrValueType)

	_, err = Normalize(multi, []any{"a", 1})
	assert.ErrorIs(t, err, ErrValueType)

	v, err = Normalize(Binary("blob"), map[string]any{"k": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": 1}, v)

	v, err = Normalize(long, nil)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCoerce(t *testing.T) {
	testCases := []struct {
		name string
		attr Attribute
		in   any
		want any
	}{
		{"bool from int", Simple("b", TypeBool), int64(1), true},
		{"bool from text", Simple("b", TypeBool), []byte("false"), false},
		{"long from text", Simple("n", TypeLong), "17", int64(17)},
		{"long from integral float", Simple("n", TypeLong), float64(3), int64(3)},
		{"double from int", Simple("d", TypeDouble), int64(2), float64(2)},
		{"string from bytes", Simple("s", TypeString), []byte("hi"), "hi"},
		{"reference id", Reference("r", "x"), int64(9), int64(9)},
		{"binary copy", Binary("b"), []byte{1, 2}, []byte{1, 2}},
		{"date from text", Simple("d", TypeDate), "2024-03-01 10:00:00", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Coerce(tc.attr, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCoerce_Decimal(t *testing.T) {
	got, err := Coerce(Simple("price", TypeDecimal), "12.50")
	require.NoError(t, err)
	d, ok := got.(*apd.Decimal)
	require.True(t, ok)
	assert.Equal(t, "12.50", d.String())

	_, err = Coerce(Simple("price", TypeDecimal), "twelve")
	assert.ErrorIs(t, err, ErrValueType)
}

func TestParseValueType(t *testing.T) {
	vt, err := ParseValueType("boolean")
	require.NoError(t, err)
	assert.Equal(t, TypeBool, vt)
	assert.Equal(t, "boolean", vt.String())

	_, err = ParseValueType("uuid")
	assert.ErrorIs(t, err, ErrUnknownValueType)
}
