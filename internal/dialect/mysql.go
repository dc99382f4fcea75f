package dialect

import (
	"context"
	"fmt"

	"github.com/roach88/schemaql/internal/binding"
	"github.com/roach88/schemaql/internal/schema"
)

// MySQL is the strategy for MySQL 5.x. MariaDB and MySQL8 build on it.
type MySQL struct {
	identifiers
	types columnTypes
	codes codeTable
}

// NewMySQL returns the MySQL strategy.
func NewMySQL() *MySQL {
	return &MySQL{
		identifiers: identifiers{fold: foldLower, maxLength: 64, quote: '`'},
		types: columnTypes{
			byType: map[schema.ValueType]string{
				schema.TypeString:    "VARCHAR(255)",
				schema.TypeBool:      "TINYINT(1)",
				schema.TypeLong:      "BIGINT",
				schema.TypeDouble:    "DOUBLE",
				schema.TypeDecimal:   "DECIMAL(19,4)",
				schema.TypeDate:      "DATETIME(3)",
				schema.TypeBinary:    "LONGBLOB",
				schema.TypeReference: "BIGINT",
			},
			multi: "JSON",
		},
		codes: codeTable{
			1022: CategoryConstraintViolation, // duplicate key on write
			1048: CategoryConstraintViolation, // column cannot be null
			1062: CategoryConstraintViolation, // duplicate entry
			1169: CategoryConstraintViolation,
			1216: CategoryConstraintViolation, // no parent row
			1217: CategoryConstraintViolation, // row is referenced
			1451: CategoryConstraintViolation,
			1452: CategoryConstraintViolation,
			1557: CategoryConstraintViolation,
			1586: CategoryConstraintViolation,
			3819: CategoryConstraintViolation, // check constraint
			1053: CategoryConnectivityLost,    // server shutdown in progress
			1927: CategoryConnectivityLost,    // connection killed
			2002: CategoryConnectivityLost,
			2003: CategoryConnectivityLost,
			2006: CategoryConnectivityLost, // server has gone away
			2013: CategoryConnectivityLost, // lost connection during query
			2055: CategoryConnectivityLost,
			1205: CategoryDeadlock, // lock wait timeout
			1213: CategoryDeadlock,
		},
	}
}

func (m *MySQL) Vendor() Vendor { return VendorMySQL }

func (m *MySQL) TableExists(ctx context.Context, p Prober, table string) (bool, error) {
	return p.Exists(ctx,
		"SELECT 1 FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?",
		m.NormalizeIdentifier(table))
}

func (m *MySQL) ColumnExists(ctx context.Context, p Prober, table, column string) (bool, error) {
	return p.Exists(ctx,
		"SELECT 1 FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND COLUMN_NAME = ?",
		m.NormalizeIdentifier(table), m.NormalizeIdentifier(column))
}

func (m *MySQL) ConstraintExists(ctx context.Context, p Prober, table, constraint string) (bool, error) {
	return p.Exists(ctx,
		"SELECT 1 FROM information_schema.TABLE_CONSTRAINTS WHERE CONSTRAINT_SCHEMA = DATABASE() AND TABLE_NAME = ? AND CONSTRAINT_NAME = ?",
		m.NormalizeIdentifier(table), m.NormalizeIdentifier(constraint))
}

func (m *MySQL) IndexExists(ctx context.Context, p Prober, table, index string) (bool, error) {
	return p.Exists(ctx,
		"SELECT 1 FROM information_schema.STATISTICS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND INDEX_NAME = ?",
		m.NormalizeIdentifier(table), m.NormalizeIdentifier(index))
}

func (m *MySQL) PrimaryKeyColumn(column string) string {
	return fmt.Sprintf("%s BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY", m.QuoteIdentifier(m.NormalizeIdentifier(column)))
}

func (m *MySQL) ColumnType(a schema.Attribute) (string, error) { return m.types.lookup(m.Vendor(), a) }

func (m *MySQL) SQLType(a schema.Attribute) binding.SQLType { return sqlType(a) }

func (m *MySQL) Classify(err error) Category { return classifyWith(err, m.codes) }

func (m *MySQL) Placeholder(int) string { return "?" }

func (m *MySQL) CoalesceFunc() string { return "IFNULL" }

func (m *MySQL) LimitClause(limit, offset int, hasOffset bool) string {
	return limitOffset(limit, offset, hasOffset)
}

// BinderFor binds booleans as 0/1 for TINYINT(1) columns.
func (m *MySQL) BinderFor(v any, _ binding.SQLType) (binding.Binder, bool) {
	return boolAsInt(v)
}

// MariaDB is MySQL with an index probe that goes through SHOW INDEX, since
// MariaDB's information_schema.STATISTICS is not reliable for freshly
// created indexes on some storage engines.
type MariaDB struct {
	*MySQL
}

func NewMariaDB() *MariaDB { return &MariaDB{MySQL: NewMySQL()} }

func (m *MariaDB) Vendor() Vendor { return VendorMariaDB }

func (m *MariaDB) IndexExists(ctx context.Context, p Prober, table, index string) (bool, error) {
	return p.Exists(ctx,
		fmt.Sprintf("SHOW INDEX FROM %s WHERE Key_name = ?", m.QuoteIdentifier(m.NormalizeIdentifier(table))),
		m.NormalizeIdentifier(index))
}

// MySQL8 is MySQL with a case-insensitive index name comparison; the 8.0
// data dictionary reports index names with their original case.
type MySQL8 struct {
	*MySQL
}

func NewMySQL8() *MySQL8 { return &MySQL8{MySQL: NewMySQL()} }

func (m *MySQL8) Vendor() Vendor { return VendorMySQL8 }

func (m *MySQL8) IndexExists(ctx context.Context, p Prober, table, index string) (bool, error) {
	return p.Exists(ctx,
		"SELECT 1 FROM information_schema.STATISTICS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND LOWER(INDEX_NAME) = LOWER(?)",
		m.NormalizeIdentifier(table), index)
}
