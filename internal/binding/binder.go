package binding

import (
	"context"
	"fmt"
	"io"
)

// Target receives parameter values for one statement execution. Positions
// are 1-based, as in prepared statements.
type Target interface {
	SetObject(pos int, v any, t SQLType) error
	SetNull(pos int, t SQLType) error
	SetBinary(pos int, r io.Reader, length int64) error
}

// Binder writes one parameter. Binders may be invoked more than once (a
// statement may be retried or executed in a batch) and must produce the same
// value each time.
type Binder interface {
	Bind(ctx context.Context, t Target, pos int) error
}

// BinderFunc adapts a function to Binder.
type BinderFunc func(ctx context.Context, t Target, pos int) error

func (f BinderFunc) Bind(ctx context.Context, t Target, pos int) error { return f(ctx, t, pos) }

// Overrides lets a vendor strategy take over binding for values it treats
// specially. BinderFor returns false to fall back to the generic paths.
type Overrides interface {
	BinderFor(v any, t SQLType) (Binder, bool)
}

type objectBinder struct {
	value any
	typ   SQLType
}

// Object binds v with the given type hint. TypeUnknown means "infer".
func Object(v any, t SQLType) Binder {
	if t == TypeUnknown {
		t = InferType(v)
	}
	return objectBinder{value: v, typ: t}
}

func (b objectBinder) Bind(_ context.Context, t Target, pos int) error {
	if b.value == nil {
		return t.SetNull(pos, b.typ)
	}
	return t.SetObject(pos, b.value, b.typ)
}

func (b objectBinder) String() string { return fmt.Sprintf("%v(%v)", b.typ, b.value) }

// Null binds SQL NULL.
func Null(t SQLType) Binder {
	return BinderFunc(func(_ context.Context, target Target, pos int) error {
		return target.SetNull(pos, t)
	})
}

// Lazy defers computing the value until the statement executes. The value
// is then bound through Resolve with the given overrides.
func Lazy(fn func(ctx context.Context) (any, error), t SQLType, o Overrides) Binder {
	return BinderFunc(func(ctx context.Context, target Target, pos int) error {
		v, err := fn(ctx)
		if err != nil {
			return fmt.Errorf("lazy value at %d: %w", pos, err)
		}
		b, err := Resolve(v, t, o)
		if err != nil {
			return err
		}
		return b.Bind(ctx, target, pos)
	})
}

// Resolve picks the binding path for v: vendor overrides first, then the
// binary path for BLOB-typed values, then generic object binding.
func Resolve(v any, t SQLType, o Overrides) (Binder, error) {
	if t == TypeUnknown {
		t = InferType(v)
	}
	if o != nil {
		if b, ok := o.BinderFor(v, t); ok {
			return b, nil
		}
	}
	if v == nil {
		return Null(t), nil
	}
	if t == TypeBlob {
		return Blob(v)
	}
	return Object(v, t), nil
}
