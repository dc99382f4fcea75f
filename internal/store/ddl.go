package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/schemaql/internal/dialect"
	"github.com/roach88/schemaql/internal/schema"
)

// CreateTableSQL renders a CREATE TABLE for t: the dialect's primary key
// idiom on the id column, then one column per persistent attribute.
func CreateTableSQL(d dialect.Strategy, t *schema.RecordType) (string, error) {
	cols := []string{d.PrimaryKeyColumn(schema.IDColumn)}
	for _, a := range t.Persistent() {
		typ, err := d.ColumnType(a)
		if err != nil {
			return "", err
		}
		cols = append(cols, quote(d, a.Column)+" "+typ)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quote(d, t.Table()), strings.Join(cols, ", ")), nil
}

func quote(d dialect.Strategy, name string) string {
	return d.QuoteIdentifier(d.NormalizeIdentifier(name))
}

// EnsureTable creates t's table unless the inspector finds it. It reports
// whether the table was created.
func (s *Store) EnsureTable(ctx context.Context, t *schema.RecordType) (bool, error) {
	exists, err := s.inspector.TableExists(ctx, t.Table())
	if err != nil || exists {
		return false, err
	}
	ddl, err := CreateTableSQL(s.dialect, t)
	if err != nil {
		return false, err
	}
	if _, err := s.ExecRaw(ctx, ddl); err != nil {
		return false, err
	}
	s.inspector.Invalidate(t.Table())
	return true, nil
}
