package query

import "github.com/roach88/schemaql/internal/binding"

type valueKind int

const (
	kindEager valueKind = iota + 1
	kindDeferred
	kindSubquery
)

// Value is a bound column or comparison value. The zero Value is invalid.
type Value struct {
	kind    valueKind
	v       any
	sqlType binding.SQLType
	binder  binding.Binder
	sub     *SelectStmt
}

// Val binds an eagerly available value. Its binder is generated at render
// time, consulting the dialect's overrides first.
func Val(v any) Value {
	return Value{kind: kindEager, v: v}
}

// TypedVal is Val with an explicit SQL type.
func TypedVal(v any, t binding.SQLType) Value {
	return Value{kind: kindEager, v: v, sqlType: t}
}

// Bound is an eager value that brings its own binder.
func Bound(v any, b binding.Binder) Value {
	return Value{kind: kindEager, v: v, binder: b}
}

// Deferred binds a value that only exists at execution time. The display
// argument is nil.
func Deferred(b binding.Binder) Value {
	return Value{kind: kindDeferred, binder: b}
}

// Sub inlines a nested select.
func Sub(s *SelectStmt) Value {
	return Value{kind: kindSubquery, sub: s}
}

// IsSubquery reports whether v is a nested select.
func (v Value) IsSubquery() bool { return v.kind == kindSubquery }

func (v Value) Render(rc *RenderContext) {
	switch v.kind {
	case kindEager:
		b := v.binder
		if b == nil {
			var err error
			b, err = binding.Resolve(v.v, v.sqlType, rc.Dialect())
			if err != nil {
				rc.Fail("value %T: %v", v.v, err)
				return
			}
		}
		rc.Bind(v.v, b)
	case kindDeferred:
		if v.binder == nil {
			rc.Fail("deferred value without binder")
			return
		}
		rc.Bind(nil, v.binder)
	case kindSubquery:
		if v.sub == nil {
			rc.Fail("subquery value without select")
			return
		}
		rc.Write("(")
		v.sub.Render(rc)
		rc.Write(")")
	default:
		rc.Fail("empty value")
	}
}
