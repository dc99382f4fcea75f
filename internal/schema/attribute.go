package schema

import "fmt"

// IDColumn is the implicit primary key column of every record type.
const IDColumn = "id"

// Attribute describes one named field of a record type.
type Attribute struct {
	Name   string
	Kind   Kind
	Type   ValueType
	Column string // defaults to Name; empty for inverse attributes

	// Multiple marks a multi-valued attribute. Values are []any.
	Multiple bool

	// Virtual attributes are computed and never persisted or set directly.
	// Inverse attributes are always virtual.
	Virtual bool

	// Target names the referenced record type (reference and inverse kinds).
	Target string

	// InverseOf names the reference attribute on Target that an inverse
	// attribute mirrors.
	InverseOf string
}

// Simple declares a scalar attribute.
func Simple(name string, t ValueType) Attribute {
	return Attribute{Name: name, Kind: KindSimple, Type: t, Column: name}
}

// Binary declares a BLOB attribute.
func Binary(name string) Attribute {
	return Attribute{Name: name, Kind: KindBinary, Type: TypeBinary, Column: name}
}

// Reference declares a to-one reference to target. The column holds the
// referenced id.
func Reference(name, target string) Attribute {
	return Attribute{Name: name, Kind: KindReference, Type: TypeReference, Column: name, Target: target}
}

// Inverse declares the collection side of target's reference attribute refAttr.
func Inverse(name, target, refAttr string) Attribute {
	return Attribute{
		Name:      name,
		Kind:      KindInverse,
		Type:      TypeReference,
		Multiple:  true,
		Virtual:   true,
		Target:    target,
		InverseOf: refAttr,
	}
}

// Persistent reports whether the attribute maps to a column.
func (a Attribute) Persistent() bool {
	return !a.Virtual && a.Kind != KindInverse
}

func (a Attribute) validate() error {
	if a.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAttribute)
	}
	if a.Name == IDColumn {
		return fmt.Errorf("%w: %s", ErrReservedAttribute, a.Name)
	}
	switch a.Kind {
	case KindSimple, KindBinary:
	case KindReference:
		if a.Target == "" {
			return fmt.Errorf("%w: reference %s has no target", ErrInvalidAttribute, a.Name)
		}
	case KindInverse:
		if a.Target == "" || a.InverseOf == "" {
			return fmt.Errorf("%w: inverse %s needs target and reference attribute", ErrInvalidAttribute, a.Name)
		}
		if !a.Virtual {
			return fmt.Errorf("%w: inverse %s must be virtual", ErrInvalidAttribute, a.Name)
		}
	default:
		return fmt.Errorf("%w: %s has kind %v", ErrInvalidAttribute, a.Name, a.Kind)
	}
	if _, ok := valueTypeNames[a.Type]; !ok {
		return fmt.Errorf("%w: %s has type %v", ErrInvalidAttribute, a.Name, a.Type)
	}
	return nil
}
