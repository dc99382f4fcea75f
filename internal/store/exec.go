package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/schemaql/internal/query"
)

// prepare renders stmt and runs its binders.
func (s *Store) prepare(ctx context.Context, stmt query.Statement) (*query.Rendered, []any, error) {
	r, err := query.Render(s.dialect, stmt)
	if err != nil {
		return nil, nil, err
	}
	args, err := r.Values(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", r.SQL, err)
	}
	s.logger.Debug("statement",
		zap.String("sql", r.SQL),
		zap.Any("args", r.Args),
		zap.Bool("update", r.Update))
	return r, args, nil
}

// Exec renders and executes a statement that returns no rows.
func (s *Store) Exec(ctx context.Context, stmt query.Statement) (sql.Result, error) {
	r, args, err := s.prepare(ctx, stmt)
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx, r.SQL, args...)
	if err != nil {
		return nil, s.wrap("exec", err)
	}
	return res, nil
}

// Query renders and runs a select. Callers close the returned rows.
func (s *Store) Query(ctx context.Context, stmt query.Statement) (*sql.Rows, error) {
	r, args, err := s.prepare(ctx, stmt)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, r.SQL, args...)
	if err != nil {
		return nil, s.wrap("query", err)
	}
	return rows, nil
}

// ExecRaw executes SQL text that does not come from the query builder,
// such as DDL.
func (s *Store) ExecRaw(ctx context.Context, sqlText string, args ...any) (sql.Result, error) {
	s.logger.Debug("statement", zap.String("sql", sqlText), zap.Any("args", args))
	res, err := s.db.ExecContext(ctx, sqlText, args...)
	if err != nil {
		return nil, s.wrap("exec", err)
	}
	return res, nil
}
