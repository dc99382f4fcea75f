package content

import (
	"io"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Node is a read-only view of one content node.
type Node interface {
	Name() string
	Path() string
	// Type is the node's primary type name.
	Type() string
	Child(name string) (Node, bool)
	Children() []Node
	Property(name string) (Property, bool)
	Properties() []Property
	HasProperty(name string) bool
}

// PropertyType is the stored type of a property value.
type PropertyType int

const (
	TypeString PropertyType = iota + 1
	TypeBool
	TypeLong
	TypeDouble
	TypeDecimal
	TypeDate
	TypeBinary
)

var propertyTypeNames = map[PropertyType]string{
	TypeString:  "string",
	TypeBool:    "bool",
	TypeLong:    "long",
	TypeDouble:  "double",
	TypeDecimal: "decimal",
	TypeDate:    "date",
	TypeBinary:  "binary",
}

func (t PropertyType) String() string {
	if name, ok := propertyTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Property is a read-only view of one property. Accessors convert between
// types where the conversion is lossless or conventional (long to string,
// numeric string to long, ...). Single-value accessors fail on multi-valued
// properties; multi-value accessors accept single values.
type Property interface {
	Name() string
	Path() string
	Type() PropertyType
	IsMultiple() bool

	String() (string, error)
	Bool() (bool, error)
	Long() (int64, error)
	Double() (float64, error)
	Decimal() (*apd.Decimal, error)
	Date() (time.Time, error)
	Binary() (io.Reader, error)

	Strings() ([]string, error)
	Bools() ([]bool, error)
	Longs() ([]int64, error)
	Doubles() ([]float64, error)
	Decimals() ([]*apd.Decimal, error)
	Dates() ([]time.Time, error)
}

// Walk visits n and its descendants depth first, parents before children.
// Returning false from fn skips the node's subtree.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}
