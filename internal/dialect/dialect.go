package dialect

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/schemaql/internal/binding"
	"github.com/roach88/schemaql/internal/schema"
)

// Vendor names a supported database product.
type Vendor string

const (
	VendorMySQL    Vendor = "mysql"
	VendorMariaDB  Vendor = "mariadb"
	VendorMySQL8   Vendor = "mysql8"
	VendorPostgres Vendor = "postgres"
	VendorH2       Vendor = "h2"
	VendorSQLite   Vendor = "sqlite"
)

// Vendors lists every supported vendor in a stable order.
var Vendors = []Vendor{VendorMySQL, VendorMariaDB, VendorMySQL8, VendorPostgres, VendorH2, VendorSQLite}

var ErrUnknownVendor = errors.New("unknown database vendor")

// Prober runs an existence query and reports whether it returned a row.
// The execution layer implements it over a live connection.
type Prober interface {
	Exists(ctx context.Context, query string, args ...any) (bool, error)
}

// Strategy is the full set of vendor policies.
type Strategy interface {
	binding.Overrides

	Vendor() Vendor

	// NormalizeIdentifier applies the vendor's case folding and length cap.
	NormalizeIdentifier(name string) string
	QuoteIdentifier(name string) string
	MaxIdentifierLength() int

	TableExists(ctx context.Context, p Prober, table string) (bool, error)
	ColumnExists(ctx context.Context, p Prober, table, column string) (bool, error)
	ConstraintExists(ctx context.Context, p Prober, table, constraint string) (bool, error)
	IndexExists(ctx context.Context, p Prober, table, index string) (bool, error)

	// PrimaryKeyColumn renders the column definition of an auto-assigned
	// numeric primary key.
	PrimaryKeyColumn(column string) string
	ColumnType(a schema.Attribute) (string, error)
	SQLType(a schema.Attribute) binding.SQLType

	Classify(err error) Category

	// Placeholder renders the n-th (1-based) positional parameter marker.
	Placeholder(n int) string
	// CoalesceFunc names the two-argument "first non-null" function.
	CoalesceFunc() string
	// LimitClause renders LIMIT/OFFSET. offset is ignored unless hasOffset.
	LimitClause(limit, offset int, hasOffset bool) string
}

// New builds the strategy for v.
func New(v Vendor) (Strategy, error) {
	switch v {
	case VendorMySQL:
		return NewMySQL(), nil
	case VendorMariaDB:
		return NewMariaDB(), nil
	case VendorMySQL8:
		return NewMySQL8(), nil
	case VendorPostgres:
		return NewPostgres(), nil
	case VendorH2:
		return NewH2(), nil
	case VendorSQLite:
		return NewSQLite(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVendor, v)
}

// ParseVendor accepts vendor names case-insensitively, plus a few aliases.
func ParseVendor(s string) (Vendor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mysql", "mysql5":
		return VendorMySQL, nil
	case "mariadb", "maria":
		return VendorMariaDB, nil
	case "mysql8":
		return VendorMySQL8, nil
	case "postgres", "postgresql", "pg":
		return VendorPostgres, nil
	case "h2":
		return VendorH2, nil
	case "sqlite", "sqlite3":
		return VendorSQLite, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVendor, s)
}

// sqlType is the attribute to parameter type mapping shared by all vendors.
func sqlType(a schema.Attribute) binding.SQLType {
	if a.Multiple {
		return binding.TypeClob
	}
	switch a.Type {
	case schema.TypeString:
		return binding.TypeVarchar
	case schema.TypeBool:
		return binding.TypeBoolean
	case schema.TypeLong, schema.TypeReference:
		return binding.TypeBigInt
	case schema.TypeDouble:
		return binding.TypeDouble
	case schema.TypeDecimal:
		return binding.TypeDecimal
	case schema.TypeDate:
		return binding.TypeTimestamp
	case schema.TypeBinary:
		return binding.TypeBlob
	}
	return binding.TypeUnknown
}

// columnTypes maps value types to a vendor's column type names. multi is
// used for multi-valued attributes regardless of element type.
type columnTypes struct {
	byType map[schema.ValueType]string
	multi  string
}

func (c columnTypes) lookup(v Vendor, a schema.Attribute) (string, error) {
	if !a.Persistent() {
		return "", fmt.Errorf("%s: attribute %s is not persistent", v, a.Name)
	}
	if a.Multiple {
		return c.multi, nil
	}
	t, ok := c.byType[a.Type]
	if !ok {
		return "", fmt.Errorf("%s: no column type for %s (%v)", v, a.Name, a.Type)
	}
	return t, nil
}

func boolAsInt(v any) (binding.Binder, bool) {
	b, ok := v.(bool)
	if !ok {
		return nil, false
	}
	if b {
		return binding.Object(int64(1), binding.TypeInteger), true
	}
	return binding.Object(int64(0), binding.TypeInteger), true
}

func limitOffset(limit, offset int, hasOffset bool) string {
	if hasOffset {
		return fmt.Sprintf("LIMIT %d OFFSET %d", limit, offset)
	}
	return fmt.Sprintf("LIMIT %d", limit)
}
