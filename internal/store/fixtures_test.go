package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roach88/schemaql/internal/dialect"
	"github.com/roach88/schemaql/internal/record"
	"github.com/roach88/schemaql/internal/schema"
)

var (
	authorType = schema.MustRecordType("author", "authors",
		schema.Simple("name", schema.TypeString),
		schema.Inverse("posts", "post", "author"),
	)
	postType = schema.MustRecordType("post", "posts",
		schema.Simple("title", schema.TypeString),
		schema.Simple("views", schema.TypeLong),
		schema.Simple("score", schema.TypeDecimal),
		schema.Simple("published", schema.TypeBool),
		schema.Simple("at", schema.TypeDate),
		schema.Binary("body"),
		schema.Reference("author", "author"),
	)
)

// createTestStore opens an in-memory SQLite store with the fixture tables.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(SQLiteDriver, ":memory:", dialect.NewSQLite(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	for _, rt := range []*schema.RecordType{authorType, postType} {
		created, err := s.EnsureTable(ctx, rt)
		require.NoError(t, err)
		require.True(t, created)
	}
	return s
}

func newContext() *record.Context {
	return record.NewContext(record.WithTypes(authorType, postType), record.WithLogger(zap.NewNop()))
}

func mustSet(t *testing.T, r *record.Record, values map[string]any) {
	t.Helper()
	for k, v := range values {
		require.NoError(t, r.Set(k, v), k)
	}
}

// seedAuthor persists an author with n posts and returns the ids.
func seedAuthor(t *testing.T, s *Store, name string, n int) (int64, []int64) {
	t.Helper()
	ctx := context.Background()
	rc := newContext()
	author := rc.Create(authorType)
	mustSet(t, author, map[string]any{"name": name})
	require.NoError(t, s.Persist(ctx, author))

	var ids []int64
	for i := range n {
		post := rc.Create(postType)
		mustSet(t, post, map[string]any{"title": name + " post", "views": int64(i), "author": author})
		require.NoError(t, s.Persist(ctx, post))
		id, _ := post.ID()
		ids = append(ids, id)
	}
	id, _ := author.ID()
	return id, ids
}
