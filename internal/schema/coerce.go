package schema

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// dateLayouts are tried in order when a driver hands back a date as text.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize checks that v is an acceptable value for a and returns it in the
// canonical Go representation (int64 for long, *apd.Decimal for decimal, ...).
// nil is always accepted. Reference values are checked by the record layer;
// Normalize rejects them.
func Normalize(a Attribute, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if a.Multiple {
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s is multi-valued, got %T", ErrValueType, a.Name, v)
		}
		out := make([]any, len(items))
		for i, item := range items {
			n, err := normalizeScalar(a, item)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", a.Name, i, err)
			}
			out[i] = n
		}
		return out, nil
	}
	return normalizeScalar(a, v)
}

func normalizeScalar(a Attribute, v any) (any, error) {
	mismatch := func() error {
		return fmt.Errorf("%w: %s (%v) got %T", ErrValueType, a.Name, a.Type, v)
	}
	switch a.Type {
	case TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case TypeBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case TypeLong:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		}
	case TypeDouble:
		switch f := v.(type) {
		case float64:
			return f, nil
		case float32:
			return float64(f), nil
		}
	case TypeDecimal:
		switch d := v.(type) {
		case *apd.Decimal:
			return d, nil
		case apd.Decimal:
			return &d, nil
		}
	case TypeDate:
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
	case TypeBinary:
		switch v.(type) {
		case []byte, io.Reader:
			return v, nil
		}
		switch reflect.Indirect(reflect.ValueOf(v)).Kind() {
		case reflect.Map, reflect.Struct, reflect.Slice:
			return v, nil
		}
	}
	return nil, mismatch()
}

// Coerce converts a value scanned from a database driver into the canonical
// representation for a. Reference attributes coerce to the referenced id
// (int64).
func Coerce(a Attribute, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	fail := func(err error) error {
		if err == nil {
			return fmt.Errorf("%w: cannot read %T into %s (%v)", ErrValueType, v, a.Name, a.Type)
		}
		return fmt.Errorf("%w: %s (%v): %v", ErrValueType, a.Name, a.Type, err)
	}
	text, isText := asText(v)

	switch a.Type {
	case TypeString:
		if isText {
			return text, nil
		}
		return fmt.Sprint(v), nil
	case TypeBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case int64:
			return b != 0, nil
		}
		if isText {
			parsed, err := strconv.ParseBool(strings.TrimSpace(text))
			if err != nil {
				return nil, fail(err)
			}
			return parsed, nil
		}
	case TypeLong, TypeReference:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case float64:
			if n == float64(int64(n)) {
				return int64(n), nil
			}
		}
		if isText {
			parsed, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
			if err != nil {
				return nil, fail(err)
			}
			return parsed, nil
		}
	case TypeDouble:
		switch f := v.(type) {
		case float64:
			return f, nil
		case int64:
			return float64(f), nil
		}
		if isText {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
			if err != nil {
				return nil, fail(err)
			}
			return parsed, nil
		}
	case TypeDecimal:
		switch d := v.(type) {
		case *apd.Decimal:
			return d, nil
		case int64:
			return apd.New(d, 0), nil
		case float64:
			out := new(apd.Decimal)
			if _, err := out.SetFloat64(d); err != nil {
				return nil, fail(err)
			}
			return out, nil
		}
		if isText {
			d, _, err := apd.NewFromString(strings.TrimSpace(text))
			if err != nil {
				return nil, fail(err)
			}
			return d, nil
		}
	case TypeDate:
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
		if isText {
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, text); err == nil {
					return t, nil
				}
			}
			return nil, fail(fmt.Errorf("unrecognized date %q", text))
		}
	case TypeBinary:
		switch b := v.(type) {
		case []byte:
			out := make([]byte, len(b))
			copy(out, b)
			return out, nil
		case string:
			return []byte(b), nil
		}
	}
	return nil, fail(nil)
}

func asText(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	}
	return "", false
}
