package record

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_SetMarksDirtyAndPresent(t *testing.T) {
	r := New(postType)
	assert.False(t, r.IsDirty())
	assert.False(t, r.IsPresent("title"))
	assert.True(t, r.IsDefined("title"))

	require.NoError(t, r.Set("title", "hello"))
	require.NoError(t, r.Set("views", 3))

	assert.True(t, r.IsDirty())
	assert.True(t, r.IsPresent("title"))
	v, ok := r.Get("views")
	require.True(t, ok)
	assert.Equal(t, int64(3), v, "long values normalize to int64")
}

func TestRecord_SetUnknownAttribute(t *testing.T) {
	r := New(postType)
	err := r.Set("nope", 1)
	assert.ErrorIs(t, err, ErrUnknownAttribute)
	assert.False(t, r.IsDefined("nope"))
	assert.False(t, r.IsDirty())
}

func TestRecord_SetVirtualAttribute(t *testing.T) {
	r := New(computedType)
	assert.ErrorIs(t, r.Set("digest", "x"), ErrVirtualAttribute)
	assert.True(t, r.IsDefined("digest"))

	a := New(authorType)
	assert.ErrorIs(t, a.Set("posts", nil), ErrVirtualAttribute)
}

func TestRecord_SetWrongValueType(t *testing.T) {
	r := New(postType)
	assert.ErrorIs(t, r.Set("views", "three"), ErrValueType)
	assert.ErrorIs(t, r.Set("author", "someone"), ErrValueType)
	assert.ErrorIs(t, r.Set("author", New(postType)), ErrValueType)
}

func TestRecord_Reference(t *testing.T) {
	author := New(authorType)
	post := New(postType)

	require.NoError(t, post.Set("author", author))
	ref, ok := post.Ref("author")
	require.True(t, ok)
	assert.Same(t, author, ref)

	require.NoError(t, post.Set("author", nil))
	_, ok = post.Ref("author")
	assert.False(t, ok)
	assert.True(t, post.IsPresent("author"), "explicit nil is present")
}

func TestRecord_ReferenceAcrossContexts(t *testing.T) {
	author := NewContext().Create(authorType)
	post := NewContext().Create(postType)
	assert.ErrorIs(t, post.Set("author", author), ErrForeignContext)
}

func TestRecord_Decimal(t *testing.T) {
	r := New(postType)
	d, _, err := apd.NewFromString("1.25")
	require.NoError(t, err)
	require.NoError(t, r.Set("score", d))

	v, _ := r.Get("score")
	assert.Equal(t, "1.25", v.(*apd.Decimal).String())
}

func TestRecord_DropRemovesPresenceOnly(t *testing.T) {
	r := New(postType)
	require.NoError(t, r.Set("title", "x"))
	require.NoError(t, r.Drop("title"))

	assert.False(t, r.IsPresent("title"))
	assert.True(t, r.IsDefined("title"))
	assert.False(t, r.IsDirty())
	assert.ErrorIs(t, r.Drop("nope"), ErrUnknownAttribute)
}

func TestRecord_PresentAndDirtyFollowTypeOrder(t *testing.T) {
	r := New(postType)
	require.NoError(t, r.Set("views", 1))
	require.NoError(t, r.Set("title", "x"))
	r.MarkClean()
	require.NoError(t, r.Set("views", 2))

	present := r.Present()
	require.Len(t, present, 2)
	assert.Equal(t, "title", present[0].Name)
	assert.Equal(t, "views", present[1].Name)

	dirty := r.Dirty()
	require.Len(t, dirty, 1)
	assert.Equal(t, "views", dirty[0].Name)
}

func TestRecord_String(t *testing.T) {
	c := NewContext()
	r := c.Create(postType)
	assert.Equal(t, "post#new", r.String())
	require.NoError(t, c.Persisted(r, 12))
	assert.Equal(t, "post#12", r.String())
}
