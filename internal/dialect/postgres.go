package dialect

import (
	"context"
	"fmt"
	"strconv"

	"github.com/roach88/schemaql/internal/binding"
	"github.com/roach88/schemaql/internal/schema"
)

// Postgres folds identifiers to lower case, caps them at 63 bytes and uses
// $n placeholders.
type Postgres struct {
	identifiers
	types columnTypes
}

func NewPostgres() *Postgres {
	return &Postgres{
		identifiers: identifiers{fold: foldLower, maxLength: 63, quote: '"'},
		types: columnTypes{
			byType: map[schema.ValueType]string{
				schema.TypeString:    "VARCHAR(255)",
				schema.TypeBool:      "BOOLEAN",
				schema.TypeLong:      "BIGINT",
				schema.TypeDouble:    "DOUBLE PRECISION",
				schema.TypeDecimal:   "NUMERIC(19,4)",
				schema.TypeDate:      "TIMESTAMP(3)",
				schema.TypeBinary:    "BYTEA",
				schema.TypeReference: "BIGINT",
			},
			multi: "JSONB",
		},
	}
}

func (p *Postgres) Vendor() Vendor { return VendorPostgres }

func (p *Postgres) TableExists(ctx context.Context, pr Prober, table string) (bool, error) {
	return pr.Exists(ctx,
		"SELECT 1 FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1",
		p.NormalizeIdentifier(table))
}

func (p *Postgres) ColumnExists(ctx context.Context, pr Prober, table, column string) (bool, error) {
	return pr.Exists(ctx,
		"SELECT 1 FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2",
		p.NormalizeIdentifier(table), p.NormalizeIdentifier(column))
}

func (p *Postgres) ConstraintExists(ctx context.Context, pr Prober, table, constraint string) (bool, error) {
	return pr.Exists(ctx,
		"SELECT 1 FROM information_schema.table_constraints WHERE constraint_schema = current_schema() AND table_name = $1 AND constraint_name = $2",
		p.NormalizeIdentifier(table), p.NormalizeIdentifier(constraint))
}

func (p *Postgres) IndexExists(ctx context.Context, pr Prober, table, index string) (bool, error) {
	return pr.Exists(ctx,
		"SELECT 1 FROM pg_indexes WHERE schemaname = current_schema() AND tablename = $1 AND indexname = $2",
		p.NormalizeIdentifier(table), p.NormalizeIdentifier(index))
}

func (p *Postgres) PrimaryKeyColumn(column string) string {
	return fmt.Sprintf("%s BIGSERIAL PRIMARY KEY", p.QuoteIdentifier(p.NormalizeIdentifier(column)))
}

func (p *Postgres) ColumnType(a schema.Attribute) (string, error) { return p.types.lookup(p.Vendor(), a) }

func (p *Postgres) SQLType(a schema.Attribute) binding.SQLType { return sqlType(a) }

// Classify relies on SQLSTATE only; Postgres drivers do not expose numeric codes.
func (p *Postgres) Classify(err error) Category { return classifyWith(err, nil) }

func (p *Postgres) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (p *Postgres) CoalesceFunc() string { return "COALESCE" }

func (p *Postgres) LimitClause(limit, offset int, hasOffset bool) string {
	return limitOffset(limit, offset, hasOffset)
}

func (p *Postgres) BinderFor(any, binding.SQLType) (binding.Binder, bool) { return nil, false }
