package record

import (
	"fmt"
	"iter"

	"github.com/roach88/schemaql/internal/schema"
)

type listState int

const (
	uninitialized listState = iota
	initializing
	initialized
)

func (s listState) String() string {
	switch s {
	case uninitialized:
		return "uninitialized"
	case initializing:
		return "initializing"
	default:
		return "initialized"
	}
}

// Listener observes structural changes of a List. The Before hooks return
// the record that is actually added or removed, which may differ from the
// one passed in. Returning nil skips the change; returning an error aborts
// it. The On hooks run after the change.
type Listener interface {
	BeforeItemAdded(l *List, item *Record) (*Record, error)
	OnItemAdded(l *List, item *Record)
	BeforeItemRemoved(l *List, item *Record) (*Record, error)
	OnItemRemoved(l *List, item *Record)
}

// NopListener accepts every change unchanged.
type NopListener struct{}

func (NopListener) BeforeItemAdded(_ *List, item *Record) (*Record, error)   { return item, nil }
func (NopListener) OnItemAdded(*List, *Record)                               {}
func (NopListener) BeforeItemRemoved(_ *List, item *Record) (*Record, error) { return item, nil }
func (NopListener) OnItemRemoved(*List, *Record)                             {}

// List is the ordered collection behind an inverse attribute. It loads on
// first access, either all at once from a loader or incrementally from a
// cursor.
//
// A view returned by Slice shares the storage and listener of the list it
// was cut from. Changing the underlying list other than through the view
// makes the view stale.
type List struct {
	owner    *Record
	attr     schema.Attribute
	listener Listener

	state   listState
	loading bool
	loadErr error
	items   []*Record
	mod     int

	load func() ([]*Record, error)
	next func() (*Record, error, bool)
	stop func()

	// view fields; root is nil for a top-level list
	root      *List
	parent    *List
	from, to  int
	expectMod int
}

// ListOption configures a List.
type ListOption func(*List)

// WithListener sets the change listener. Defaults to NopListener.
func WithListener(l Listener) ListOption {
	return func(list *List) { list.listener = l }
}

// WithLoader backs the list with a function that returns every item at once.
func WithLoader(fn func() ([]*Record, error)) ListOption {
	return func(list *List) {
		list.stopCursor()
		list.load = fn
	}
}

// WithCursor backs the list with a pull-based cursor. Items are pulled only
// as far as callers read.
func WithCursor(seq iter.Seq2[*Record, error]) ListOption {
	return func(list *List) {
		list.stopCursor()
		list.load = nil
		list.next, list.stop = iter.Pull2(seq)
	}
}

// WithItems backs the list with a fixed initial sequence.
func WithItems(items ...*Record) ListOption {
	return func(list *List) {
		list.stopCursor()
		list.load = func() ([]*Record, error) { return items, nil }
	}
}

func (l *List) stopCursor() {
	if l.stop != nil {
		l.stop()
		l.next, l.stop = nil, nil
	}
}

// NewList creates the list for owner's inverse attribute attrName and
// registers it on the owner. Without a loader or cursor option the list
// uses the owner context's ListSource, if any, and is empty otherwise.
func NewList(owner *Record, attrName string, opts ...ListOption) (*List, error) {
	if owner == nil {
		return nil, fmt.Errorf("%w: nil owner", ErrInvalidOwner)
	}
	a, ok := owner.typ.Attribute(attrName)
	if !ok || a.Kind != schema.KindInverse {
		return nil, fmt.Errorf("%w: %s.%s", ErrInvalidOwner, owner.typ.Name(), attrName)
	}
	l := &List{owner: owner, attr: a, listener: NopListener{}}
	for _, opt := range opts {
		opt(l)
	}
	if l.load == nil && l.next == nil && owner.ctx != nil {
		if src := owner.ctx.source(); src != nil {
			WithCursor(src(owner, a))(l)
		}
	}
	if owner.lists == nil {
		owner.lists = make(map[string]*List)
	}
	owner.lists[attrName] = l
	return l, nil
}

func (l *List) Owner() *Record              { return l.owner }
func (l *List) Attribute() schema.Attribute { return l.attr }

// IsInitialized reports whether every item has been loaded.
func (l *List) IsInitialized() bool { return l.base().state == initialized }

// Close releases a partially consumed cursor. Items pulled so far stay.
func (l *List) Close() {
	b := l.base()
	if b.stop != nil {
		b.stopCursor()
		if b.state == initializing {
			b.state = initialized
		}
	}
}

func (l *List) base() *List {
	if l.root != nil {
		return l.root
	}
	return l
}

// fill pulls items until at least n are available, or everything when n < 0.
func (l *List) fill(n int) error {
	if l.state == initialized {
		return nil
	}
	if l.loading {
		return ErrInitializing
	}
	if l.loadErr != nil {
		return l.loadErr
	}
	l.loading = true
	defer func() { l.loading = false }()
	l.state = initializing

	if l.load != nil {
		items, err := l.load()
		if err != nil {
			l.loadErr = fmt.Errorf("load %s.%s: %w", l.owner, l.attr.Name, err)
			return l.loadErr
		}
		l.items = append(l.items[:0], items...)
		l.load = nil
		l.state = initialized
		return nil
	}
	if l.next == nil {
		l.state = initialized
		return nil
	}
	for n < 0 || len(l.items) < n {
		item, err, ok := l.next()
		if !ok {
			l.stopCursor()
			l.state = initialized
			return nil
		}
		if err != nil {
			l.stopCursor()
			l.loadErr = fmt.Errorf("load %s.%s: %w", l.owner, l.attr.Name, err)
			return l.loadErr
		}
		l.items = append(l.items, item)
	}
	return nil
}

// window fully loads the backing list and returns it with the index range
// this list covers.
func (l *List) window() (b *List, lo, hi int, err error) {
	b = l.base()
	if err := b.fill(-1); err != nil {
		return nil, 0, 0, err
	}
	if l.root == nil {
		return b, 0, len(b.items), nil
	}
	if b.mod != l.expectMod {
		return nil, 0, 0, ErrStaleView
	}
	return b, l.from, l.to, nil
}

// commit records a structural change made through l and keeps the chain of
// views l was cut from in step with the backing list.
func (l *List) commit(b *List, delta int) {
	b.mod++
	for v := l; v.root != nil; v = v.parent {
		v.to += delta
		v.expectMod = b.mod
	}
}

// Len returns the number of items, loading everything.
func (l *List) Len() (int, error) {
	_, lo, hi, err := l.window()
	if err != nil {
		return 0, err
	}
	return hi - lo, nil
}

// Get returns the i-th item. A cursor-backed list only pulls up to i.
func (l *List) Get(i int) (*Record, error) {
	if l.root == nil {
		if i < 0 {
			return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
		}
		if err := l.fill(i + 1); err != nil {
			return nil, err
		}
		if i >= len(l.items) {
			return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(l.items))
		}
		return l.items[i], nil
	}
	b, lo, hi, err := l.window()
	if err != nil {
		return nil, err
	}
	if i < 0 || lo+i >= hi {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, hi-lo)
	}
	return b.items[lo+i], nil
}

// All iterates the items in order. A cursor-backed list pulls lazily, so
// stopping early leaves the rest unread.
func (l *List) All() iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for i := 0; ; i++ {
			item, err := l.Get(i)
			if err != nil {
				if l.exhausted(i) {
					return
				}
				yield(nil, err)
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

// exhausted reports whether index i is past a fully loaded list.
func (l *List) exhausted(i int) bool {
	b := l.base()
	if b.state != initialized || b.loadErr != nil {
		return false
	}
	if l.root == nil {
		return i >= len(b.items)
	}
	return b.mod == l.expectMod && l.from+i >= l.to
}

// Items returns a copy of every item.
func (l *List) Items() ([]*Record, error) {
	b, lo, hi, err := l.window()
	if err != nil {
		return nil, err
	}
	out := make([]*Record, hi-lo)
	copy(out, b.items[lo:hi])
	return out, nil
}

// IndexOf returns the position of item, or -1.
func (l *List) IndexOf(item *Record) (int, error) {
	b, lo, hi, err := l.window()
	if err != nil {
		return -1, err
	}
	return indexIn(b.items[lo:hi], item), nil
}

func indexIn(items []*Record, item *Record) int {
	for i, it := range items {
		if it == item {
			return i
		}
	}
	return -1
}

// Add appends item.
func (l *List) Add(item *Record) error {
	_, lo, hi, err := l.window()
	if err != nil {
		return err
	}
	return l.insertAt(hi-lo, item)
}

// Insert places item at position i.
func (l *List) Insert(i int, item *Record) error {
	return l.insertAt(i, item)
}

func (l *List) insertAt(i int, item *Record) error {
	b, lo, hi, err := l.window()
	if err != nil {
		return err
	}
	if i < 0 || lo+i > hi {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, hi-lo)
	}
	added, err := b.listener.BeforeItemAdded(b, item)
	if err != nil || added == nil {
		return err
	}
	b.items = append(b.items, nil)
	copy(b.items[lo+i+1:], b.items[lo+i:])
	b.items[lo+i] = added
	l.commit(b, 1)
	b.listener.OnItemAdded(b, added)
	return nil
}

// AddAll appends items one by one, each through the listener.
func (l *List) AddAll(items ...*Record) error {
	for _, item := range items {
		if err := l.Add(item); err != nil {
			return err
		}
	}
	return nil
}

// Set replaces the item at i and returns the previous one.
func (l *List) Set(i int, item *Record) (*Record, error) {
	b, lo, hi, err := l.window()
	if err != nil {
		return nil, err
	}
	if i < 0 || lo+i >= hi {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, hi-lo)
	}
	old := b.items[lo+i]
	removed, err := b.listener.BeforeItemRemoved(b, old)
	if err != nil || removed == nil {
		return nil, err
	}
	added, err := b.listener.BeforeItemAdded(b, item)
	if err != nil || added == nil {
		return nil, err
	}
	b.items[lo+i] = added
	l.commit(b, 0)
	b.listener.OnItemRemoved(b, removed)
	b.listener.OnItemAdded(b, added)
	return old, nil
}

// Remove removes the item at i. The listener may redirect the removal to
// another item; the removed record is returned, or nil if nothing was
// removed.
func (l *List) Remove(i int) (*Record, error) {
	return l.removeAt(i)
}

// removeAt removes the item at window position i. Unless the listener
// redirects the removal, exactly that position is removed, even when the
// same record appears more than once.
func (l *List) removeAt(i int) (*Record, error) {
	b, lo, hi, err := l.window()
	if err != nil {
		return nil, err
	}
	if i < 0 || lo+i >= hi {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, hi-lo)
	}
	item := b.items[lo+i]
	target, err := b.listener.BeforeItemRemoved(b, item)
	if err != nil || target == nil {
		return nil, err
	}
	j := i
	if target != item {
		if j = indexIn(b.items[lo:hi], target); j < 0 {
			return nil, nil
		}
	}
	b.items = append(b.items[:lo+j], b.items[lo+j+1:]...)
	l.commit(b, -1)
	b.listener.OnItemRemoved(b, target)
	return target, nil
}

// RemoveItem removes the first occurrence of item and reports whether
// anything was removed.
func (l *List) RemoveItem(item *Record) (bool, error) {
	removed, err := l.removeItem(item)
	return removed != nil, err
}

func (l *List) removeItem(item *Record) (*Record, error) {
	b, lo, hi, err := l.window()
	if err != nil {
		return nil, err
	}
	i := indexIn(b.items[lo:hi], item)
	if i < 0 {
		return nil, nil
	}
	return l.removeAt(i)
}

// RemoveAll removes each given item and returns how many were removed.
func (l *List) RemoveAll(items ...*Record) (int, error) {
	n := 0
	for _, item := range items {
		ok, err := l.RemoveItem(item)
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// RemoveRange removes items [from, to), last first.
func (l *List) RemoveRange(from, to int) error {
	_, lo, hi, err := l.window()
	if err != nil {
		return err
	}
	if from < 0 || to < from || lo+to > hi {
		return fmt.Errorf("%w: [%d, %d) of %d", ErrIndexOutOfRange, from, to, hi-lo)
	}
	for i := to - 1; i >= from; i-- {
		if _, err := l.removeAt(i); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes every item.
func (l *List) Clear() error {
	n, err := l.Len()
	if err != nil {
		return err
	}
	return l.RemoveRange(0, n)
}

// Slice returns a view over [from, to). The view cannot be loaded on its
// own; reading it loads the list it was cut from.
func (l *List) Slice(from, to int) (*List, error) {
	b, lo, hi, err := l.window()
	if err != nil {
		return nil, err
	}
	if from < 0 || to < from || lo+to > hi {
		return nil, fmt.Errorf("%w: [%d, %d) of %d", ErrIndexOutOfRange, from, to, hi-lo)
	}
	return &List{
		owner:     b.owner,
		attr:      b.attr,
		listener:  b.listener,
		state:     initialized,
		root:      b,
		parent:    l,
		from:      lo + from,
		to:        lo + to,
		expectMod: b.mod,
	}, nil
}
