package store

import (
	"context"
	"fmt"
	"iter"

	"github.com/roach88/schemaql/internal/binding"
	"github.com/roach88/schemaql/internal/dialect"
	"github.com/roach88/schemaql/internal/query"
	"github.com/roach88/schemaql/internal/record"
	"github.com/roach88/schemaql/internal/schema"
)

var idAttribute = schema.Attribute{Name: schema.IDColumn, Kind: schema.KindSimple, Type: schema.TypeLong}

func byID(id int64) *query.Expression {
	return query.Cond(query.Field(schema.IDColumn).Eq(id))
}

// Load runs stmt and materializes every row as a record of type t in rc.
// Columns are matched to attributes by column name; columns that belong to
// no attribute are ignored.
func (s *Store) Load(ctx context.Context, rc *record.Context, t *schema.RecordType, stmt *query.SelectStmt) ([]*record.Record, error) {
	rows, err := s.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, s.wrap("load", err)
	}
	idIdx := -1
	names := make([]string, len(cols))
	for i, c := range cols {
		if c == schema.IDColumn {
			idIdx = i
			continue
		}
		if a, ok := t.ByColumn(c); ok {
			names[i] = a.Name
		}
	}
	if idIdx < 0 {
		return nil, fmt.Errorf("load %s: %w", t.Name(), ErrNoIDColumn)
	}

	var out []*record.Record
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, s.wrap("load", err)
		}
		rawID, err := schema.Coerce(idAttribute, vals[idIdx])
		if err != nil || rawID == nil {
			return nil, fmt.Errorf("load %s: bad id %v: %w", t.Name(), vals[idIdx], err)
		}
		values := make(map[string]any, len(cols))
		for i, name := range names {
			if name != "" {
				values[name] = vals[i]
			}
		}
		r, err := rc.Materialize(t, rawID.(int64), values)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("load", err)
	}
	return out, nil
}

// Get returns the record of type t with the given id, loading it unless rc
// already holds a loaded instance. A missing row is reported as false.
func (s *Store) Get(ctx context.Context, rc *record.Context, t *schema.RecordType, id int64) (*record.Record, bool, error) {
	if r, ok := rc.Get(t.Name(), id); ok && !r.IsHollow() {
		return r, true, nil
	}
	loaded, err := s.Load(ctx, rc, t, query.Select().From(t.Table(), "").Where(byID(id)).Limit(1))
	if err != nil {
		return nil, false, err
	}
	if len(loaded) == 0 {
		return nil, false, nil
	}
	return loaded[0], true, nil
}

// Persist writes r. Unpersisted records are inserted with their present
// attributes and receive the generated id; persisted records are updated
// with their dirty attributes only. A clean persisted record is a no-op.
func (s *Store) Persist(ctx context.Context, r *record.Record) error {
	rc := r.Context()
	if rc == nil {
		return fmt.Errorf("persist %s: %w", r, ErrDetached)
	}
	if !r.IsPersisted() {
		stmt, err := InsertFor(s.dialect, r)
		if err != nil {
			return err
		}
		res, err := s.Exec(ctx, stmt)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("persist %s: %w", r, err)
		}
		return rc.Persisted(r, id)
	}

	stmt, ok, err := UpdateFor(s.dialect, r)
	if err != nil || !ok {
		return err
	}
	res, err := s.Exec(ctx, stmt)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("persist %s: %w", r, ErrRecordNotFound)
	}
	r.MarkClean()
	return nil
}

// Delete removes r's row and detaches it from its context.
func (s *Store) Delete(ctx context.Context, r *record.Record) error {
	id, ok := r.ID()
	if !ok {
		return fmt.Errorf("delete %s: %w", r, ErrRecordNotFound)
	}
	res, err := s.Exec(ctx, query.DeleteFrom(r.Type().Table()).Where(byID(id)))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete %s: %w", r, ErrRecordNotFound)
	}
	if rc := r.Context(); rc != nil {
		return rc.Detach(r)
	}
	return nil
}

// InsertFor builds the INSERT for an unpersisted record from its present
// persistent attributes in declaration order.
func InsertFor(d dialect.Strategy, r *record.Record) (*query.InsertStmt, error) {
	stmt := query.InsertInto(r.Type().Table())
	for _, a := range r.Present() {
		if !a.Persistent() {
			continue
		}
		v, err := columnValue(d, r, a)
		if err != nil {
			return nil, err
		}
		stmt.Set(a.Column, v)
	}
	return stmt, nil
}

// UpdateFor builds the partial UPDATE for a persisted record's dirty
// attributes. It reports false when there is nothing to write.
func UpdateFor(d dialect.Strategy, r *record.Record) (*query.UpdateStmt, bool, error) {
	id, ok := r.ID()
	if !ok {
		return nil, false, fmt.Errorf("update %s: %w", r, ErrRecordNotFound)
	}
	stmt := query.Update(r.Type().Table())
	n := 0
	for _, a := range r.Dirty() {
		if !a.Persistent() {
			continue
		}
		v, err := columnValue(d, r, a)
		if err != nil {
			return nil, false, err
		}
		stmt.Set(a.Column, v)
		n++
	}
	if n == 0 {
		return nil, false, nil
	}
	return stmt.Where(byID(id)), true, nil
}

func columnValue(d dialect.Strategy, r *record.Record, a schema.Attribute) (query.Value, error) {
	if a.Multiple {
		return query.Value{}, fmt.Errorf("%s.%s: %w: multi-valued", r.Type().Name(), a.Name, ErrUnsupportedValue)
	}
	if a.Kind == schema.KindReference {
		ref, _ := r.Ref(a.Name)
		if ref == nil {
			return query.TypedVal(nil, binding.TypeBigInt), nil
		}
		return query.Deferred(binding.Lazy(func(context.Context) (any, error) {
			id, ok := ref.ID()
			if !ok {
				return nil, fmt.Errorf("%s.%s: %w: %s", r.Type().Name(), a.Name, ErrUnpersistedReference, ref)
			}
			return id, nil
		}, binding.TypeBigInt, d)), nil
	}
	v, _ := r.Get(a.Name)
	return query.TypedVal(v, d.SQLType(a)), nil
}

// ListSource returns a record.ListSource that pages through the rows
// referencing the owner. Install it with (*record.Context).SetListSource.
// Queries run with ctx.
func (s *Store) ListSource(ctx context.Context) record.ListSource {
	return func(owner *record.Record, attr schema.Attribute) iter.Seq2[*record.Record, error] {
		return s.inverseCursor(ctx, owner, attr)
	}
}

// InverseList creates owner's list for attr backed by a store cursor.
func (s *Store) InverseList(ctx context.Context, owner *record.Record, attr string) (*record.List, error) {
	a, ok := owner.Type().Attribute(attr)
	if !ok || a.Kind != schema.KindInverse {
		return nil, fmt.Errorf("%w: %s.%s", record.ErrInvalidOwner, owner.Type().Name(), attr)
	}
	return record.NewList(owner, attr,
		record.WithListener(record.InverseListener{}),
		record.WithCursor(s.inverseCursor(ctx, owner, a)))
}

func (s *Store) inverseCursor(ctx context.Context, owner *record.Record, attr schema.Attribute) iter.Seq2[*record.Record, error] {
	return func(yield func(*record.Record, error) bool) {
		rc := owner.Context()
		id, persisted := owner.ID()
		if !persisted || rc == nil {
			return
		}
		target, ok := rc.Type(attr.Target)
		if !ok {
			yield(nil, fmt.Errorf("%w: %s", record.ErrUnknownType, attr.Target))
			return
		}
		ref, ok := target.Attribute(attr.InverseOf)
		if !ok || !ref.Persistent() {
			yield(nil, fmt.Errorf("%w: %s.%s", record.ErrUnknownAttribute, target.Name(), attr.InverseOf))
			return
		}
		for offset := 0; ; offset += s.pageSize {
			stmt := query.Select().
				From(target.Table(), "").
				Where(query.Cond(query.Field(ref.Column).Eq(id))).
				OrderBy(query.Order().Asc(schema.IDColumn)).
				Limit(s.pageSize).
				Offset(offset)
			page, err := s.Load(ctx, rc, target, stmt)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, r := range page {
				if !yield(r, nil) {
					return
				}
			}
			if len(page) < s.pageSize {
				return
			}
		}
	}
}
