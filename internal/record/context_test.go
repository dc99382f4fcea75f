package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestContext_IdentityMap(t *testing.T) {
	c := NewContext()

	a := c.CreateWithID(postType, 7)
	b := c.CreateWithID(postType, 7)
	assert.Same(t, a, b)

	got, ok := c.Get("post", 7)
	require.True(t, ok)
	assert.Same(t, a, got)

	again, ok := c.Get("post", 7)
	require.True(t, ok)
	assert.Same(t, got, again)
}

func TestContext_GetMissIsAbsence(t *testing.T) {
	c := NewContext()
	r, ok := c.Get("post", 1)
	assert.False(t, ok)
	assert.Nil(t, r)
}

func TestContext_CreateIsUnpersisted(t *testing.T) {
	c := NewContext()
	r := c.Create(postType)

	_, hasID := r.ID()
	assert.False(t, hasID)
	assert.Same(t, c, r.Context())
	assert.Equal(t, 1, c.UnpersistedCount())
	assert.Equal(t, 0, c.PersistedCount())
	assert.Equal(t, 1, c.Len())
}

func TestContext_Persisted(t *testing.T) {
	c := NewContext()
	r := c.Create(postType)
	require.NoError(t, r.Set("title", "x"))

	require.NoError(t, c.Persisted(r, 3))

	id, ok := r.ID()
	require.True(t, ok)
	assert.Equal(t, int64(3), id)
	assert.False(t, r.IsDirty())
	assert.Equal(t, 0, c.UnpersistedCount())
	assert.Equal(t, 1, c.PersistedCount())

	got, ok := c.Get("post", 3)
	require.True(t, ok)
	assert.Same(t, r, got)

	assert.ErrorIs(t, c.Persisted(r, 4), ErrAlreadyPersisted)
}

func TestContext_PersistedRejectsTakenID(t *testing.T) {
	c := NewContext()
	c.CreateWithID(postType, 3)
	r := c.Create(postType)
	assert.ErrorIs(t, c.Persisted(r, 3), ErrAlreadyPersisted)
	assert.Equal(t, 1, c.UnpersistedCount())
}

func TestContext_PersistedForeignRecord(t *testing.T) {
	r := NewContext().Create(postType)
	assert.ErrorIs(t, NewContext().Persisted(r, 1), ErrForeignContext)
	assert.ErrorIs(t, NewContext().Persisted(New(postType), 1), ErrForeignContext)
}

func TestContext_AttachReusesMappedInstance(t *testing.T) {
	c := NewContext()
	mapped := c.CreateWithID(postType, 5)

	other := NewContext()
	stranger := other.CreateWithID(postType, 5)
	require.NoError(t, other.Detach(stranger))

	got, err := c.Attach(stranger)
	require.NoError(t, err)
	assert.Same(t, mapped, got)
	assert.Nil(t, stranger.Context(), "the unused instance stays detached")
}

func TestContext_AttachIndexesNewInstance(t *testing.T) {
	c := NewContext()
	r := New(postType)
	require.NoError(t, r.Set("title", "x"))

	got, err := c.Attach(r)
	require.NoError(t, err)
	assert.Same(t, r, got)
	assert.False(t, r.IsDirty(), "attach is a clean boundary")
	assert.Equal(t, 1, c.UnpersistedCount())

	again, err := c.Attach(r)
	require.NoError(t, err)
	assert.Same(t, r, again)
	assert.Equal(t, 1, c.Len())
}

func TestContext_AttachForeign(t *testing.T) {
	r := NewContext().Create(postType)
	_, err := NewContext().Attach(r)
	assert.ErrorIs(t, err, ErrForeignContext)
}

func TestContext_DetachKeepsData(t *testing.T) {
	c := NewContext()
	r := c.CreateWithID(postType, 9)
	require.NoError(t, r.Set("title", "kept"))

	require.NoError(t, c.Detach(r))

	_, ok := c.Get("post", 9)
	assert.False(t, ok)
	assert.Nil(t, r.Context())
	v, _ := r.Get("title")
	assert.Equal(t, "kept", v)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.IDs("post"))

	other := NewContext()
	got, err := other.Attach(r)
	require.NoError(t, err)
	assert.Same(t, r, got)

	assert.ErrorIs(t, c.Detach(r), ErrForeignContext)
}

func TestContext_EnumerationIsOrdered(t *testing.T) {
	c := NewContext()
	for _, id := range []int64{30, 10, 20} {
		c.CreateWithID(postType, id)
	}
	c.CreateWithID(authorType, 2)
	c.Create(postType)

	assert.Equal(t, []int64{10, 20, 30}, c.IDs("post"))

	var keys []string
	for _, r := range c.All() {
		keys = append(keys, r.String())
	}
	assert.Equal(t, []string{"author#2", "post#10", "post#20", "post#30"}, keys)
	assert.Len(t, c.AllOfType("post"), 3)
	assert.Empty(t, c.AllOfType("comment"))
	assert.Equal(t, 5, c.Len())
}

func TestContext_MaterializeResolvesReferences(t *testing.T) {
	c := NewContext(WithTypes(authorType, postType))

	post, err := c.Materialize(postType, 1, map[string]any{
		"title":  []byte("hello"),
		"views":  int64(4),
		"author": int64(8),
	})
	require.NoError(t, err)
	assert.False(t, post.IsDirty())

	title, _ := post.Get("title")
	assert.Equal(t, "hello", title)

	author, ok := post.Ref("author")
	require.True(t, ok)
	assert.True(t, author.IsHollow())
	mapped, ok := c.Get("author", 8)
	require.True(t, ok)
	assert.Same(t, author, mapped)

	filled, err := c.Materialize(authorType, 8, map[string]any{"name": "ann"})
	require.NoError(t, err)
	assert.Same(t, author, filled)
	assert.False(t, filled.IsHollow())
}

func TestContext_MaterializeKeepsLocalEdits(t *testing.T) {
	c := NewContext()
	r := c.CreateWithID(postType, 1)
	require.NoError(t, r.Set("title", "local"))

	got, err := c.Materialize(postType, 1, map[string]any{"title": "stored", "views": int64(2)})
	require.NoError(t, err)
	assert.Same(t, r, got)

	title, _ := r.Get("title")
	assert.Equal(t, "local", title)
	views, _ := r.Get("views")
	assert.Equal(t, int64(2), views)
}

func TestContext_MaterializeErrors(t *testing.T) {
	c := NewContext()

	_, err := c.Materialize(postType, 1, map[string]any{"nope": 1})
	assert.ErrorIs(t, err, ErrUnknownAttribute)

	_, err = c.Materialize(postType, 1, map[string]any{"author": int64(2)})
	assert.ErrorIs(t, err, ErrUnknownType, "author type was never registered")

	_, err = c.Materialize(postType, 1, map[string]any{"views": "many"})
	assert.ErrorIs(t, err, ErrValueType)
}

func TestContext_FailedMaterializeLeavesNoHollows(t *testing.T) {
	// Map order varies, so repeat to hit the reference both before and
	// after the bad value.
	for range 50 {
		c := NewContext(WithTypes(authorType, postType))

		_, err := c.Materialize(postType, 1, map[string]any{
			"author": int64(8),
			"title":  "draft",
			"views":  "many",
		})
		require.ErrorIs(t, err, ErrValueType)

		_, ok := c.Get("author", 8)
		assert.False(t, ok, "no placeholder for the referenced author")
		_, ok = c.Get("post", 1)
		assert.False(t, ok)
		assert.Zero(t, c.Len())
		assert.Empty(t, c.IDs("author"))
	}
}

func TestContext_ConcurrentIdentity(t *testing.T) {
	c := NewContext()
	const workers = 16
	results := make([]*Record, workers)

	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			r := c.CreateWithID(postType, 42)
			results[i] = r
			if got, ok := c.Get("post", 42); !ok || got != r {
				return assert.AnError
			}
			c.Create(postType)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, r := range results[1:] {
		assert.Same(t, results[0], r)
	}
	assert.Equal(t, 1, c.PersistedCount())
	assert.Equal(t, workers, c.UnpersistedCount())
	assert.Equal(t, c.PersistedCount()+c.UnpersistedCount(), c.Len())
}
