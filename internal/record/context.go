package record

import (
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/roaring64"
	"go.uber.org/zap"

	"github.com/roach88/schemaql/internal/schema"
)

type key struct {
	typ string
	id  int64
}

// ListSource produces the cursor backing an inverse list of owner. It is
// called when the list is first created; the cursor itself should not touch
// the database until iterated.
type ListSource func(owner *Record, attr schema.Attribute) iter.Seq2[*Record, error]

// Context is the identity map of one unit of work.
type Context struct {
	mu          sync.RWMutex
	types       map[string]*schema.RecordType
	byKey       map[key]*Record
	ids         map[string]*roaring64.Bitmap
	unpersisted map[*Record]struct{}
	listSource  ListSource
	logger      *zap.Logger
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithTypes registers record types up front.
func WithTypes(types ...*schema.RecordType) ContextOption {
	return func(c *Context) {
		for _, t := range types {
			c.types[t.Name()] = t
		}
	}
}

// WithLogger sets the logger. Defaults to zap.NewNop().
func WithLogger(l *zap.Logger) ContextOption {
	return func(c *Context) { c.logger = l }
}

func NewContext(opts ...ContextOption) *Context {
	c := &Context{
		types:       make(map[string]*schema.RecordType),
		byKey:       make(map[key]*Record),
		ids:         make(map[string]*roaring64.Bitmap),
		unpersisted: make(map[*Record]struct{}),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetListSource installs the cursor factory used for inverse lists created
// through Record.List.
func (c *Context) SetListSource(src ListSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listSource = src
}

func (c *Context) source() ListSource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listSource
}

// Register adds record types to the context.
func (c *Context) Register(types ...*schema.RecordType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range types {
		c.types[t.Name()] = t
	}
}

// Type looks up a registered record type.
func (c *Context) Type(name string) (*schema.RecordType, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.types[name]
	return t, ok
}

// Create returns a new unpersisted record owned by c.
func (c *Context) Create(t *schema.RecordType) *Record {
	r := New(t)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[t.Name()] = t
	r.ctx = c
	c.unpersisted[r] = struct{}{}
	return r
}

// CreateWithID returns the record mapped to (t, id), creating and indexing
// an empty one when none is mapped yet.
func (c *Context) CreateWithID(t *schema.RecordType, id int64) *Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[t.Name()] = t
	if r, ok := c.byKey[key{t.Name(), id}]; ok {
		return r
	}
	r := New(t)
	r.id, r.hasID = id, true
	c.index(r)
	return r
}

// Get looks up a persisted record. A miss is not an error.
func (c *Context) Get(typeName string, id int64) (*Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.byKey[key{typeName, id}]
	return r, ok
}

// Attach makes r owned by c. If c already maps a record with r's identity,
// that instance is returned instead and r is left untouched.
func (c *Context) Attach(r *Record) (*Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch r.ctx {
	case c:
		return r, nil
	case nil:
	default:
		return nil, fmt.Errorf("attach %s: %w", r, ErrForeignContext)
	}
	c.types[r.typ.Name()] = r.typ
	if r.hasID {
		if existing, ok := c.byKey[key{r.typ.Name(), r.id}]; ok {
			return existing, nil
		}
		c.index(r)
	} else {
		r.ctx = c
		c.unpersisted[r] = struct{}{}
	}
	r.MarkClean()
	return r, nil
}

// Detach removes r from c. Its data is not modified.
func (c *Context) Detach(r *Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r.ctx != c {
		return fmt.Errorf("detach %s: %w", r, ErrForeignContext)
	}
	if r.hasID {
		delete(c.byKey, key{r.typ.Name(), r.id})
		if bm, ok := c.ids[r.typ.Name()]; ok {
			bm.Remove(uint64(r.id))
		}
	} else {
		delete(c.unpersisted, r)
	}
	r.ctx = nil
	c.logger.Debug("record detached", zap.Stringer("record", r))
	return nil
}

// Persisted assigns id to an unpersisted record of c and indexes it.
func (c *Context) Persisted(r *Record, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r.ctx != c {
		return fmt.Errorf("persisted %s: %w", r, ErrForeignContext)
	}
	if r.hasID {
		return fmt.Errorf("persisted %s: %w", r, ErrAlreadyPersisted)
	}
	if other, ok := c.byKey[key{r.typ.Name(), id}]; ok && other != r {
		return fmt.Errorf("persisted %s as %d: %w by another instance", r, id, ErrAlreadyPersisted)
	}
	delete(c.unpersisted, r)
	r.id, r.hasID = id, true
	c.index(r)
	r.MarkClean()
	c.logger.Debug("record persisted", zap.Stringer("record", r))
	return nil
}

// Materialize maps a row read from storage. values are driver values keyed
// by attribute name; they are coerced to the attribute types, and reference
// ids resolve to mapped or hollow records. An already mapped instance only
// gains the attributes it does not have yet, so local edits win.
func (c *Context) Materialize(t *schema.RecordType, id int64, values map[string]any) (*Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[t.Name()] = t

	coerced := make(map[string]any, len(values))
	var refs []string
	for name, raw := range values {
		a, ok := t.Attribute(name)
		if !ok {
			return nil, fmt.Errorf("materialize %s#%d: %w: %s", t.Name(), id, ErrUnknownAttribute, name)
		}
		v, err := schema.Coerce(a, raw)
		if err != nil {
			return nil, fmt.Errorf("materialize %s#%d: %w", t.Name(), id, err)
		}
		if a.Kind == schema.KindReference && v != nil {
			if _, ok := c.types[a.Target]; !ok {
				return nil, fmt.Errorf("materialize %s#%d.%s: %w: %s", t.Name(), id, name, ErrUnknownType, a.Target)
			}
			refs = append(refs, name)
		}
		coerced[name] = v
	}

	// Nothing is indexed until every value has coerced.
	for _, name := range refs {
		a, _ := t.Attribute(name)
		ref, err := c.hollow(a.Target, coerced[name].(int64))
		if err != nil {
			return nil, fmt.Errorf("materialize %s#%d.%s: %w", t.Name(), id, name, err)
		}
		coerced[name] = ref
	}

	r, ok := c.byKey[key{t.Name(), id}]
	if !ok {
		r = New(t)
		r.id, r.hasID = id, true
		c.index(r)
	}
	r.fill(coerced)
	return r, nil
}

// hollow returns the mapped record for (typeName, id), creating an unloaded
// placeholder if needed. Caller holds the write lock.
func (c *Context) hollow(typeName string, id int64) (*Record, error) {
	if r, ok := c.byKey[key{typeName, id}]; ok {
		return r, nil
	}
	t, ok := c.types[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typeName)
	}
	r := New(t)
	r.id, r.hasID = id, true
	r.hollow = true
	c.index(r)
	return r, nil
}

// index maps a record that has an id. Caller holds the write lock.
func (c *Context) index(r *Record) {
	name := r.typ.Name()
	c.byKey[key{name, r.id}] = r
	bm, ok := c.ids[name]
	if !ok {
		bm = roaring64.New()
		c.ids[name] = bm
	}
	bm.Add(uint64(r.id))
	r.ctx = c
}

// Len returns the number of records owned by c.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byKey) + len(c.unpersisted)
}

func (c *Context) PersistedCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byKey)
}

func (c *Context) UnpersistedCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.unpersisted)
}

// All returns every persisted record ordered by type name, then id.
func (c *Context) All() []*Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.ids))
	for name := range c.ids {
		names = append(names, name)
	}
	slices.Sort(names)
	out := make([]*Record, 0, len(c.byKey))
	for _, name := range names {
		out = c.appendType(out, name)
	}
	return out
}

// AllOfType returns the persisted records of one type in id order.
func (c *Context) AllOfType(typeName string) []*Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.appendType(nil, typeName)
}

// IDs returns the persisted ids of one type in ascending order.
func (c *Context) IDs(typeName string) []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	bm, ok := c.ids[typeName]
	if !ok {
		return nil
	}
	out := make([]int64, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, int64(it.Next()))
	}
	return out
}

func (c *Context) appendType(out []*Record, typeName string) []*Record {
	bm, ok := c.ids[typeName]
	if !ok {
		return out
	}
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, c.byKey[key{typeName, int64(it.Next())}])
	}
	return out
}
