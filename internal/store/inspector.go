package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/roach88/schemaql/internal/dialect"
)

type probeKind int

const (
	probeTable probeKind = iota + 1
	probeColumn
	probeConstraint
	probeIndex
)

func (k probeKind) String() string {
	switch k {
	case probeTable:
		return "table"
	case probeColumn:
		return "column"
	case probeConstraint:
		return "constraint"
	case probeIndex:
		return "index"
	}
	return "unknown"
}

type probeKey struct {
	kind  probeKind
	table string
	name  string
}

// Inspector answers schema existence questions through the dialect and
// caches the answers. Identifiers are normalized by the dialect first, so
// "Article" and "article" share an entry on folding vendors.
//
// Cached answers go stale when DDL runs; call Invalidate for the table or
// Purge.
type Inspector struct {
	db      *sql.DB
	dialect dialect.Strategy
	cache   *lru.Cache[probeKey, bool]
	logger  *zap.Logger
}

func newInspector(db *sql.DB, d dialect.Strategy, size int, logger *zap.Logger) (*Inspector, error) {
	cache, err := lru.New[probeKey, bool](size)
	if err != nil {
		return nil, fmt.Errorf("probe cache: %w", err)
	}
	return &Inspector{db: db, dialect: d, cache: cache, logger: logger}, nil
}

// Exists implements dialect.Prober.
func (i *Inspector) Exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one any
	err := i.db.QueryRowContext(ctx, query, args...).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, &Error{Category: i.dialect.Classify(err), Op: "probe", Err: err}
	}
	return true, nil
}

func (i *Inspector) probe(ctx context.Context, k probeKey, run func(context.Context, dialect.Prober) (bool, error)) (bool, error) {
	if v, ok := i.cache.Get(k); ok {
		return v, nil
	}
	v, err := run(ctx, i)
	if err != nil {
		return false, err
	}
	i.cache.Add(k, v)
	i.logger.Debug("schema probe",
		zap.Stringer("kind", k.kind),
		zap.String("table", k.table),
		zap.String("name", k.name),
		zap.Bool("exists", v))
	return v, nil
}

func (i *Inspector) TableExists(ctx context.Context, table string) (bool, error) {
	table = i.dialect.NormalizeIdentifier(table)
	return i.probe(ctx, probeKey{probeTable, table, ""}, func(ctx context.Context, p dialect.Prober) (bool, error) {
		return i.dialect.TableExists(ctx, p, table)
	})
}

func (i *Inspector) ColumnExists(ctx context.Context, table, column string) (bool, error) {
	table, column = i.dialect.NormalizeIdentifier(table), i.dialect.NormalizeIdentifier(column)
	return i.probe(ctx, probeKey{probeColumn, table, column}, func(ctx context.Context, p dialect.Prober) (bool, error) {
		return i.dialect.ColumnExists(ctx, p, table, column)
	})
}

func (i *Inspector) ConstraintExists(ctx context.Context, table, constraint string) (bool, error) {
	table, constraint = i.dialect.NormalizeIdentifier(table), i.dialect.NormalizeIdentifier(constraint)
	return i.probe(ctx, probeKey{probeConstraint, table, constraint}, func(ctx context.Context, p dialect.Prober) (bool, error) {
		return i.dialect.ConstraintExists(ctx, p, table, constraint)
	})
}

func (i *Inspector) IndexExists(ctx context.Context, table, index string) (bool, error) {
	table, index = i.dialect.NormalizeIdentifier(table), i.dialect.NormalizeIdentifier(index)
	return i.probe(ctx, probeKey{probeIndex, table, index}, func(ctx context.Context, p dialect.Prober) (bool, error) {
		return i.dialect.IndexExists(ctx, p, table, index)
	})
}

// Invalidate drops every cached answer about table.
func (i *Inspector) Invalidate(table string) {
	table = i.dialect.NormalizeIdentifier(table)
	for _, k := range i.cache.Keys() {
		if k.table == table {
			i.cache.Remove(k)
		}
	}
}

// Purge drops all cached answers.
func (i *Inspector) Purge() { i.cache.Purge() }

// Cached reports how many answers are cached.
func (i *Inspector) Cached() int { return i.cache.Len() }
