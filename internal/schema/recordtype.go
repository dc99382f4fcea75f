package schema

import "fmt"

// RecordType is an immutable, ordered set of attributes backed by one table.
type RecordType struct {
	name  string
	table string
	attrs []Attribute
	index map[string]int
}

// NewRecordType validates attrs and builds a RecordType. Attribute order is
// preserved; it drives column order in generated statements.
func NewRecordType(name, table string, attrs ...Attribute) (*RecordType, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: record type needs a name", ErrInvalidAttribute)
	}
	if table == "" {
		table = name
	}
	rt := &RecordType{
		name:  name,
		table: table,
		attrs: make([]Attribute, 0, len(attrs)),
		index: make(map[string]int, len(attrs)),
	}
	for _, a := range attrs {
		if a.Column == "" && a.Persistent() {
			a.Column = a.Name
		}
		if err := a.validate(); err != nil {
			return nil, fmt.Errorf("record type %s: %w", name, err)
		}
		if _, dup := rt.index[a.Name]; dup {
			return nil, fmt.Errorf("record type %s: %w: %s", name, ErrDuplicateAttr, a.Name)
		}
		rt.index[a.Name] = len(rt.attrs)
		rt.attrs = append(rt.attrs, a)
	}
	return rt, nil
}

// MustRecordType is NewRecordType for static declarations. It panics on error.
func MustRecordType(name, table string, attrs ...Attribute) *RecordType {
	rt, err := NewRecordType(name, table, attrs...)
	if err != nil {
		panic(err)
	}
	return rt
}

func (t *RecordType) Name() string  { return t.name }
func (t *RecordType) Table() string { return t.table }

// Attribute looks up an attribute by name.
func (t *RecordType) Attribute(name string) (Attribute, bool) {
	i, ok := t.index[name]
	if !ok {
		return Attribute{}, false
	}
	return t.attrs[i], true
}

// Attributes returns the attributes in declaration order.
func (t *RecordType) Attributes() []Attribute {
	out := make([]Attribute, len(t.attrs))
	copy(out, t.attrs)
	return out
}

// Persistent returns the column-backed attributes in declaration order.
func (t *RecordType) Persistent() []Attribute {
	var out []Attribute
	for _, a := range t.attrs {
		if a.Persistent() {
			out = append(out, a)
		}
	}
	return out
}

// ByColumn finds the persistent attribute stored in column.
func (t *RecordType) ByColumn(column string) (Attribute, bool) {
	for _, a := range t.attrs {
		if a.Persistent() && a.Column == column {
			return a, true
		}
	}
	return Attribute{}, false
}
