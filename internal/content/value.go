package content

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// typeOf maps a Go value to the property type that stores it.
func typeOf(v any) (PropertyType, any, error) {
	switch val := v.(type) {
	case string:
		return TypeString, val, nil
	case bool:
		return TypeBool, val, nil
	case int:
		return TypeLong, int64(val), nil
	case int32:
		return TypeLong, int64(val), nil
	case int64:
		return TypeLong, val, nil
	case float32:
		return TypeDouble, float64(val), nil
	case float64:
		return TypeDouble, val, nil
	case *apd.Decimal:
		if val == nil {
			return 0, nil, fmt.Errorf("%w: nil decimal", ErrValueFormat)
		}
		return TypeDecimal, new(apd.Decimal).Set(val), nil
	case time.Time:
		return TypeDate, val, nil
	case []byte:
		return TypeBinary, bytes.Clone(val), nil
	default:
		return 0, nil, fmt.Errorf("%w: unsupported property value %T", ErrValueFormat, v)
	}
}

// values normalizes a single value or a slice into stored form.
func values(v any) (PropertyType, []any, bool, error) {
	var items []any
	multiple := true
	switch val := v.(type) {
	case []any:
		items = val
	case []string:
		for _, s := range val {
			items = append(items, s)
		}
	case []bool:
		for _, b := range val {
			items = append(items, b)
		}
	case []int64:
		for _, n := range val {
			items = append(items, n)
		}
	case []float64:
		for _, f := range val {
			items = append(items, f)
		}
	case []*apd.Decimal:
		for _, d := range val {
			items = append(items, d)
		}
	case []time.Time:
		for _, t := range val {
			items = append(items, t)
		}
	default:
		t, stored, err := typeOf(v)
		if err != nil {
			return 0, nil, false, err
		}
		return t, []any{stored}, false, nil
	}

	typ := TypeString
	out := make([]any, len(items))
	for i, item := range items {
		t, stored, err := typeOf(item)
		if err != nil {
			return 0, nil, false, fmt.Errorf("[%d]: %w", i, err)
		}
		if i == 0 {
			typ = t
		} else if t != typ {
			return 0, nil, false, fmt.Errorf("%w: mixed %v and %v values", ErrValueFormat, typ, t)
		}
		out[i] = stored
	}
	return typ, out, multiple, nil
}

func formatError(v any, to PropertyType, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %T to %v: %v", ErrValueFormat, v, to, err)
	}
	return fmt.Errorf("%w: %T to %v", ErrValueFormat, v, to)
}

func toString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case *apd.Decimal:
		return val.String(), nil
	case time.Time:
		return val.Format(time.RFC3339Nano), nil
	case []byte:
		return string(val), nil
	}
	return "", formatError(v, TypeString, nil)
}

func toBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return false, formatError(v, TypeBool, err)
		}
		return b, nil
	}
	return false, formatError(v, TypeBool, nil)
}

func toLong(v any) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case float64:
		return int64(val), nil
	case *apd.Decimal:
		var integ, frac apd.Decimal
		val.Modf(&integ, &frac)
		n, err := integ.Int64()
		if err != nil {
			return 0, formatError(v, TypeLong, err)
		}
		return n, nil
	case time.Time:
		return val.UnixMilli(), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, formatError(v, TypeLong, err)
		}
		return n, nil
	}
	return 0, formatError(v, TypeLong, nil)
}

func toDouble(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case int64:
		return float64(val), nil
	case *apd.Decimal:
		f, err := val.Float64()
		if err != nil {
			return 0, formatError(v, TypeDouble, err)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, formatError(v, TypeDouble, err)
		}
		return f, nil
	}
	return 0, formatError(v, TypeDouble, nil)
}

func toDecimal(v any) (*apd.Decimal, error) {
	switch val := v.(type) {
	case *apd.Decimal:
		return new(apd.Decimal).Set(val), nil
	case int64:
		return apd.New(val, 0), nil
	case float64:
		d := new(apd.Decimal)
		if _, err := d.SetFloat64(val); err != nil {
			return nil, formatError(v, TypeDecimal, err)
		}
		return d, nil
	case string:
		d, _, err := apd.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return nil, formatError(v, TypeDecimal, err)
		}
		return d, nil
	}
	return nil, formatError(v, TypeDecimal, nil)
}

func toDate(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case int64:
		return time.UnixMilli(val).UTC(), nil
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, strings.TrimSpace(val)); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, formatError(v, TypeDate, nil)
}

func toBinary(v any) (io.Reader, error) {
	switch val := v.(type) {
	case []byte:
		return bytes.NewReader(val), nil
	case string:
		return strings.NewReader(val), nil
	}
	return nil, formatError(v, TypeBinary, nil)
}
