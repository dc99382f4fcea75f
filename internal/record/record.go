package record

import (
	"fmt"
	"strconv"

	"github.com/roach88/schemaql/internal/schema"
)

// Record is an attribute-valued entity. A key in values means the attribute
// is present; every attribute of the type is defined.
type Record struct {
	typ    *schema.RecordType
	id     int64
	hasID  bool
	hollow bool

	values map[string]any
	dirty  map[string]struct{}
	lists  map[string]*List

	ctx *Context
}

// New returns a detached, unpersisted record of type t.
func New(t *schema.RecordType) *Record {
	return &Record{
		typ:    t,
		values: make(map[string]any),
		dirty:  make(map[string]struct{}),
	}
}

func (r *Record) Type() *schema.RecordType { return r.typ }

// ID returns the record id. ok is false until the record is persisted.
func (r *Record) ID() (id int64, ok bool) { return r.id, r.hasID }

func (r *Record) IsPersisted() bool { return r.hasID }

// IsHollow reports a placeholder created for a reference that has not been
// loaded yet.
func (r *Record) IsHollow() bool { return r.hollow }

// Context returns the owning context, or nil when detached.
func (r *Record) Context() *Context { return r.ctx }

func (r *Record) String() string {
	if !r.hasID {
		return r.typ.Name() + "#new"
	}
	return r.typ.Name() + "#" + strconv.FormatInt(r.id, 10)
}

// Get returns the value of a present attribute. Reference values are
// *Record.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Ref returns the record a reference attribute points to.
func (r *Record) Ref(name string) (*Record, bool) {
	v, ok := r.values[name]
	if !ok || v == nil {
		return nil, false
	}
	ref, ok := v.(*Record)
	return ref, ok
}

// IsPresent reports whether name was explicitly set.
func (r *Record) IsPresent(name string) bool {
	_, ok := r.values[name]
	return ok
}

// IsDefined reports whether the record type declares name.
func (r *Record) IsDefined(name string) bool {
	_, ok := r.typ.Attribute(name)
	return ok
}

// Set assigns an attribute value and marks the record dirty.
func (r *Record) Set(name string, v any) error {
	a, err := r.settable(name)
	if err != nil {
		return err
	}
	if a.Kind == schema.KindReference {
		if err := r.checkRef(a, v); err != nil {
			return err
		}
	} else {
		v, err = schema.Normalize(a, v)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", r.typ.Name(), name, err)
		}
	}
	r.values[name] = v
	r.dirty[name] = struct{}{}
	return nil
}

// Drop removes the attribute's value. The attribute stays defined.
func (r *Record) Drop(name string) error {
	if _, err := r.settable(name); err != nil {
		return err
	}
	delete(r.values, name)
	delete(r.dirty, name)
	return nil
}

// IsDirty reports whether any attribute changed since the last clean
// boundary (attach, persist, MarkClean).
func (r *Record) IsDirty() bool { return len(r.dirty) > 0 }

// MarkClean resets the dirty set after the record was written.
func (r *Record) MarkClean() {
	clear(r.dirty)
}

// Present lists present attributes in type order.
func (r *Record) Present() []schema.Attribute {
	var out []schema.Attribute
	for _, a := range r.typ.Attributes() {
		if _, ok := r.values[a.Name]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Dirty lists present attributes changed since the last clean boundary, in
// type order.
func (r *Record) Dirty() []schema.Attribute {
	var out []schema.Attribute
	for _, a := range r.typ.Attributes() {
		if _, ok := r.dirty[a.Name]; ok {
			out = append(out, a)
		}
	}
	return out
}

// List returns the collection behind an inverse attribute, creating it on
// first use. Lists created here keep the reference attribute on their items
// in sync with the owner.
func (r *Record) List(name string) (*List, error) {
	if l, ok := r.lists[name]; ok {
		return l, nil
	}
	return NewList(r, name, WithListener(InverseListener{}))
}

func (r *Record) settable(name string) (schema.Attribute, error) {
	a, ok := r.typ.Attribute(name)
	if !ok {
		return a, fmt.Errorf("%w: %s.%s", ErrUnknownAttribute, r.typ.Name(), name)
	}
	if a.Virtual {
		return a, fmt.Errorf("%w: %s.%s", ErrVirtualAttribute, r.typ.Name(), name)
	}
	return a, nil
}

func (r *Record) checkRef(a schema.Attribute, v any) error {
	if v == nil {
		return nil
	}
	ref, ok := v.(*Record)
	if !ok || ref == nil {
		return fmt.Errorf("%w: %s.%s wants *Record, got %T", ErrValueType, r.typ.Name(), a.Name, v)
	}
	if ref.typ.Name() != a.Target {
		return fmt.Errorf("%w: %s.%s wants %s, got %s", ErrValueType, r.typ.Name(), a.Name, a.Target, ref.typ.Name())
	}
	if r.ctx != nil && ref.ctx != nil && r.ctx != ref.ctx {
		return fmt.Errorf("%s.%s: %w", r.typ.Name(), a.Name, ErrForeignContext)
	}
	return nil
}

// setRef assigns an already validated reference and marks it dirty.
func (r *Record) setRef(name string, ref *Record) {
	if ref == nil {
		r.values[name] = nil
	} else {
		r.values[name] = ref
	}
	r.dirty[name] = struct{}{}
}

// fill loads values that are not present yet without touching the dirty set.
func (r *Record) fill(values map[string]any) {
	for k, v := range values {
		if _, ok := r.values[k]; !ok {
			r.values[k] = v
		}
	}
	r.hollow = false
}
