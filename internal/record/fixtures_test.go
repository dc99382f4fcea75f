package record

import (
	"errors"
	"fmt"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/schemaql/internal/schema"
)

var (
	authorType = schema.MustRecordType("author", "author",
		schema.Simple("name", schema.TypeString),
		schema.Inverse("posts", "post", "author"),
	)
	postType = schema.MustRecordType("post", "post",
		schema.Simple("title", schema.TypeString),
		schema.Simple("views", schema.TypeLong),
		schema.Simple("score", schema.TypeDecimal),
		schema.Reference("author", "author"),
	)
)

// computedType carries a virtual attribute.
var computedType = schema.MustRecordType("summary", "summary",
	schema.Simple("title", schema.TypeString),
	schema.Attribute{Name: "digest", Kind: schema.KindSimple, Type: schema.TypeString, Virtual: true},
)

// recordingListener counts hook calls and can veto or substitute items.
type recordingListener struct {
	beforeAdded, onAdded     []*Record
	beforeRemoved, onRemoved []*Record

	reject     *Record
	substitute map[*Record]*Record
}

func (l *recordingListener) BeforeItemAdded(_ *List, item *Record) (*Record, error) {
	l.beforeAdded = append(l.beforeAdded, item)
	if item == l.reject {
		return nil, errRejected
	}
	if sub, ok := l.substitute[item]; ok {
		return sub, nil
	}
	return item, nil
}

func (l *recordingListener) OnItemAdded(_ *List, item *Record) {
	l.onAdded = append(l.onAdded, item)
}

func (l *recordingListener) BeforeItemRemoved(_ *List, item *Record) (*Record, error) {
	l.beforeRemoved = append(l.beforeRemoved, item)
	if item == l.reject {
		return nil, errRejected
	}
	return item, nil
}

func (l *recordingListener) OnItemRemoved(_ *List, item *Record) {
	l.onRemoved = append(l.onRemoved, item)
}

var errRejected = errors.New("rejected by listener")

// redirectingListener turns removals of from into removals of to.
type redirectingListener struct {
	NopListener
	from, to *Record
}

func (l redirectingListener) BeforeItemRemoved(_ *List, item *Record) (*Record, error) {
	if item == l.from {
		return l.to, nil
	}
	return item, nil
}

// countingCursor yields posts and records how many were pulled.
func countingCursor(items []*Record, pulled *int) iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for _, item := range items {
			*pulled++
			if !yield(item, nil) {
				return
			}
		}
	}
}

// posts returns n unattached posts titled "post 0" to "post n-1".
func posts(n int) []*Record {
	out := make([]*Record, n)
	for i := range out {
		out[i] = New(postType)
		if err := out[i].Set("title", fmt.Sprintf("post %d", i)); err != nil {
			panic(err)
		}
	}
	return out
}

// assertSameItems checks that got holds the records of want by identity
// and in the same order.
func assertSameItems(t *testing.T, want, got []*Record, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, got, len(want), msgAndArgs...) {
		return false
	}
	ok := true
	for i := range want {
		if want[i] != got[i] {
			title := func(r *Record) any { v, _ := r.Get("title"); return v }
			ok = assert.Fail(t, fmt.Sprintf("item %d: want %v (%v), got %v (%v)",
				i, want[i], title(want[i]), got[i], title(got[i])), msgAndArgs...)
		}
	}
	return ok
}
