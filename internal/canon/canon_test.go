package canon

import (
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int64", int64(-100), "-100"},
		{"bool", true, "true"},
		{"null", nil, "null"},
		{"float", 1.5, "1.5"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"typed slice", []string{"a", "b"}, `["a","b"]`},
		{"bytes", []byte("hi"), `"aGk="`},
		{"time", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), `"2024-01-02T03:04:05Z"`},
		{"mixed array", []any{int64(1), nil, "x"}, `[1,null,"x"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalDecimalKeepsPrecision(t *testing.T) {
	d, _, err := apd.NewFromString("12345678901234567890.0001")
	require.NoError(t, err)

	got, err := Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"12345678901234567890.0001"`, string(got))
}

func TestMarshalSortedKeys(t *testing.T) {
	got, err := Marshal(map[string]any{
		"zebra": 1,
		"alpha": map[string]any{"b": 1, "a": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":{"a":2,"b":1},"zebra":1}`, string(got))
}

func TestMarshalUTF16Ordering(t *testing.T) {
	// U+10000 encodes as a surrogate pair starting 0xD800, below 0xE000.
	got, err := Marshal(map[string]any{"\uE000": 1, "\U00010000": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"\uE000\":1}", string(got))
}


func TestMarshalStringEscaping(t *testing.T) {
	got, err := Marshal("<a & \"b\">\n\x01\u2028")
	require.NoError(t, err)
	assert.Equal(t, "\"<a & \\\"b\\\">\\n\\u0001\u2028\"", string(got))
}

func TestMarshalNFC(t *testing.T) {
	got, err := Marshal("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalRejectsUnsupported(t *testing.T) {
	_, err := Marshal(map[int]string{1: "x"})
	assert.Error(t, err)

	_, err = Marshal(make(chan int))
	assert.Error(t, err)
}

func TestMarshalIndent(t *testing.T) {
	got, err := MarshalIndent(map[string]any{"a": []any{1, 2}, "b": map[string]any{}, "c": "x,y"})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": {},\n  \"c\": \"x,y\"\n}\n", string(got))
}
