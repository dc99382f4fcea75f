package dialect

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/schemaql/internal/binding"
	"github.com/roach88/schemaql/internal/schema"
)

// SQLite backs the bundled executor and the end-to-end tests. Identifiers
// are neither folded nor capped.
type SQLite struct {
	identifiers
	types columnTypes
}

func NewSQLite() *SQLite {
	return &SQLite{
		identifiers: identifiers{fold: foldNone, quote: '"'},
		types: columnTypes{
			byType: map[schema.ValueType]string{
				schema.TypeString:    "TEXT",
				schema.TypeBool:      "INTEGER",
				schema.TypeLong:      "INTEGER",
				schema.TypeDouble:    "REAL",
				schema.TypeDecimal:   "TEXT",
				schema.TypeDate:      "TIMESTAMP",
				schema.TypeBinary:    "BLOB",
				schema.TypeReference: "INTEGER",
			},
			multi: "TEXT",
		},
	}
}

func (s *SQLite) Vendor() Vendor { return VendorSQLite }

func (s *SQLite) TableExists(ctx context.Context, p Prober, table string) (bool, error) {
	return p.Exists(ctx, "SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?", table)
}

func (s *SQLite) ColumnExists(ctx context.Context, p Prober, table, column string) (bool, error) {
	return p.Exists(ctx, "SELECT 1 FROM pragma_table_info(?) WHERE name = ?", table, column)
}

// ConstraintExists searches the table's DDL; SQLite keeps no constraint catalog.
func (s *SQLite) ConstraintExists(ctx context.Context, p Prober, table, constraint string) (bool, error) {
	return p.Exists(ctx,
		"SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ? AND instr(upper(sql), upper(?)) > 0",
		table, "CONSTRAINT "+constraint)
}

func (s *SQLite) IndexExists(ctx context.Context, p Prober, table, index string) (bool, error) {
	return p.Exists(ctx, "SELECT 1 FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND name = ?", table, index)
}

func (s *SQLite) PrimaryKeyColumn(column string) string {
	return fmt.Sprintf("%s INTEGER PRIMARY KEY AUTOINCREMENT", s.QuoteIdentifier(column))
}

func (s *SQLite) ColumnType(a schema.Attribute) (string, error) { return s.types.lookup(s.Vendor(), a) }

func (s *SQLite) SQLType(a schema.Attribute) binding.SQLType { return sqlType(a) }

func (s *SQLite) Classify(err error) Category {
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code {
		case sqlite3.ErrConstraint:
			return CategoryConstraintViolation
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return CategoryDeadlock
		case sqlite3.ErrCantOpen, sqlite3.ErrNotADB, sqlite3.ErrIoErr:
			return CategoryConnectivityLost
		}
		return CategoryUnknown
	}
	return classifyWith(err, nil)
}

func (s *SQLite) Placeholder(int) string { return "?" }

func (s *SQLite) CoalesceFunc() string { return "IFNULL" }

func (s *SQLite) LimitClause(limit, offset int, hasOffset bool) string {
	return limitOffset(limit, offset, hasOffset)
}

// BinderFor stores booleans as integers.
func (s *SQLite) BinderFor(v any, _ binding.SQLType) (binding.Binder, bool) {
	return boolAsInt(v)
}
