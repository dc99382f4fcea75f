package dialect

import (
	"context"
	"fmt"

	"github.com/roach88/schemaql/internal/binding"
	"github.com/roach88/schemaql/internal/schema"
)

// H2 folds unquoted identifiers to upper case.
type H2 struct {
	identifiers
	types columnTypes
	codes codeTable
}

func NewH2() *H2 {
	return &H2{
		identifiers: identifiers{fold: foldUpper, maxLength: 256, quote: '"'},
		types: columnTypes{
			byType: map[schema.ValueType]string{
				schema.TypeString:    "VARCHAR(255)",
				schema.TypeBool:      "BOOLEAN",
				schema.TypeLong:      "BIGINT",
				schema.TypeDouble:    "DOUBLE PRECISION",
				schema.TypeDecimal:   "DECIMAL(19,4)",
				schema.TypeDate:      "TIMESTAMP(3)",
				schema.TypeBinary:    "BLOB",
				schema.TypeReference: "BIGINT",
			},
			multi: "JSON",
		},
		codes: codeTable{
			23502: CategoryConstraintViolation, // null not allowed
			23503: CategoryConstraintViolation, // referential integrity, child exists
			23505: CategoryConstraintViolation, // duplicate key
			23506: CategoryConstraintViolation, // referential integrity, parent missing
			23507: CategoryConstraintViolation,
			23513: CategoryConstraintViolation, // check constraint
			90067: CategoryConnectivityLost,    // connection broken
			90098: CategoryConnectivityLost,    // database closed
			90121: CategoryConnectivityLost,    // database called at VM shutdown
			40001: CategoryDeadlock,
			50200: CategoryDeadlock, // lock timeout
		},
	}
}

func (h *H2) Vendor() Vendor { return VendorH2 }

func (h *H2) TableExists(ctx context.Context, p Prober, table string) (bool, error) {
	return p.Exists(ctx,
		"SELECT 1 FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = SCHEMA() AND TABLE_NAME = ?",
		h.NormalizeIdentifier(table))
}

func (h *H2) ColumnExists(ctx context.Context, p Prober, table, column string) (bool, error) {
	return p.Exists(ctx,
		"SELECT 1 FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = SCHEMA() AND TABLE_NAME = ? AND COLUMN_NAME = ?",
		h.NormalizeIdentifier(table), h.NormalizeIdentifier(column))
}

func (h *H2) ConstraintExists(ctx context.Context, p Prober, table, constraint string) (bool, error) {
	return p.Exists(ctx,
		"SELECT 1 FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS WHERE CONSTRAINT_SCHEMA = SCHEMA() AND TABLE_NAME = ? AND CONSTRAINT_NAME = ?",
		h.NormalizeIdentifier(table), h.NormalizeIdentifier(constraint))
}

func (h *H2) IndexExists(ctx context.Context, p Prober, table, index string) (bool, error) {
	return p.Exists(ctx,
		"SELECT 1 FROM INFORMATION_SCHEMA.INDEXES WHERE TABLE_SCHEMA = SCHEMA() AND TABLE_NAME = ? AND INDEX_NAME = ?",
		h.NormalizeIdentifier(table), h.NormalizeIdentifier(index))
}

func (h *H2) PrimaryKeyColumn(column string) string {
	return fmt.Sprintf("%s BIGINT AUTO_INCREMENT PRIMARY KEY", h.QuoteIdentifier(h.NormalizeIdentifier(column)))
}

func (h *H2) ColumnType(a schema.Attribute) (string, error) { return h.types.lookup(h.Vendor(), a) }

func (h *H2) SQLType(a schema.Attribute) binding.SQLType { return sqlType(a) }

func (h *H2) Classify(err error) Category { return classifyWith(err, h.codes) }

func (h *H2) Placeholder(int) string { return "?" }

func (h *H2) CoalesceFunc() string { return "IFNULL" }

func (h *H2) LimitClause(limit, offset int, hasOffset bool) string {
	return limitOffset(limit, offset, hasOffset)
}

func (h *H2) BinderFor(any, binding.SQLType) (binding.Binder, bool) { return nil, false }
