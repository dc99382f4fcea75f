package schema

import "fmt"

// Kind classifies an attribute.
type Kind int

const (
	KindSimple Kind = iota + 1
	KindBinary
	KindReference
	KindInverse
)

func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindBinary:
		return "binary"
	case KindReference:
		return "reference"
	case KindInverse:
		return "inverse"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ValueType is the declared Go-side type of an attribute value.
type ValueType int

const (
	TypeString ValueType = iota + 1
	TypeBool
	TypeLong
	TypeDouble
	TypeDecimal
	TypeDate
	TypeBinary
	TypeReference
)

var valueTypeNames = map[ValueType]string{
	TypeString:    "string",
	TypeBool:      "boolean",
	TypeLong:      "long",
	TypeDouble:    "double",
	TypeDecimal:   "decimal",
	TypeDate:      "date",
	TypeBinary:    "binary",
	TypeReference: "reference",
}

func (t ValueType) String() string {
	if s, ok := valueTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ValueType(%d)", int(t))
}

// ParseValueType maps a type name as written in metadata ("string", "long",
// "boolean", ...) to a ValueType. A few common aliases are accepted.
func ParseValueType(name string) (ValueType, error) {
	switch name {
	case "string", "text":
		return TypeString, nil
	case "boolean", "bool":
		return TypeBool, nil
	case "long", "int", "integer":
		return TypeLong, nil
	case "double", "float":
		return TypeDouble, nil
	case "decimal":
		return TypeDecimal, nil
	case "date", "datetime", "timestamp":
		return TypeDate, nil
	case "binary", "blob":
		return TypeBinary, nil
	case "reference":
		return TypeReference, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownValueType, name)
}
