package content

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/apd/v3"
	"go.uber.org/zap"
)

type memProperty struct {
	name     string
	path     string
	typ      PropertyType
	multiple bool
	vals     []any
}

func (p *memProperty) Name() string       { return p.name }
func (p *memProperty) Path() string       { return p.path }
func (p *memProperty) Type() PropertyType { return p.typ }
func (p *memProperty) IsMultiple() bool   { return p.multiple }

func (p *memProperty) single() (any, error) {
	if p.multiple {
		return nil, fmt.Errorf("%s: %w", p.path, ErrMultiValued)
	}
	return p.vals[0], nil
}

func single[T any](p *memProperty, conv func(any) (T, error)) (T, error) {
	v, err := p.single()
	if err != nil {
		var zero T
		return zero, err
	}
	return conv(v)
}

func multi[T any](p *memProperty, conv func(any) (T, error)) ([]T, error) {
	out := make([]T, len(p.vals))
	for i, v := range p.vals {
		c, err := conv(v)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", p.path, i, err)
		}
		out[i] = c
	}
	return out, nil
}

func (p *memProperty) String() (string, error)           { return single(p, toString) }
func (p *memProperty) Bool() (bool, error)               { return single(p, toBool) }
func (p *memProperty) Long() (int64, error)              { return single(p, toLong) }
func (p *memProperty) Double() (float64, error)          { return single(p, toDouble) }
func (p *memProperty) Decimal() (*apd.Decimal, error)    { return single(p, toDecimal) }
func (p *memProperty) Date() (time.Time, error)          { return single(p, toDate) }
func (p *memProperty) Binary() (io.Reader, error)        { return single(p, toBinary) }
func (p *memProperty) Strings() ([]string, error)        { return multi(p, toString) }
func (p *memProperty) Bools() ([]bool, error)            { return multi(p, toBool) }
func (p *memProperty) Longs() ([]int64, error)           { return multi(p, toLong) }
func (p *memProperty) Doubles() ([]float64, error)       { return multi(p, toDouble) }
func (p *memProperty) Decimals() ([]*apd.Decimal, error) { return multi(p, toDecimal) }
func (p *memProperty) Dates() ([]time.Time, error)       { return multi(p, toDate) }

type memNode struct {
	name     string
	path     string
	typ      string
	props    []*memProperty
	children []*memNode
}

func (n *memNode) Name() string { return n.name }
func (n *memNode) Path() string { return n.path }
func (n *memNode) Type() string { return n.typ }

func (n *memNode) Child(name string) (Node, bool) {
	if c := n.child(name); c != nil {
		return c, true
	}
	return nil, false
}

func (n *memNode) child(name string) *memNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (n *memNode) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *memNode) Property(name string) (Property, bool) {
	if p := n.property(name); p != nil {
		return p, true
	}
	return nil, false
}

func (n *memNode) property(name string) *memProperty {
	for _, p := range n.props {
		if p.name == name {
			return p
		}
	}
	return nil
}

func (n *memNode) Properties() []Property {
	out := make([]Property, len(n.props))
	for i, p := range n.props {
		out[i] = p
	}
	return out
}

func (n *memNode) HasProperty(name string) bool { return n.property(name) != nil }

// clone deep-copies the tree. Stored values are immutable and shared.
func (n *memNode) clone() *memNode {
	c := &memNode{name: n.name, path: n.path, typ: n.typ}
	c.props = make([]*memProperty, len(n.props))
	for i, p := range n.props {
		cp := *p
		c.props[i] = &cp
	}
	c.children = make([]*memNode, len(n.children))
	for i, child := range n.children {
		c.children[i] = child.clone()
	}
	return c
}

func childPath(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, "/[]") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// lookup resolves an absolute path below root.
func lookup(root *memNode, path string) *memNode {
	if path == "" || path == "/" {
		return root
	}
	n := root
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if n = n.child(seg); n == nil {
			return nil
		}
	}
	return n
}

// CommitHook can reject a commit. It sees the session's tree.
type CommitHook func(session SessionID, root Node) error

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithLogger sets the logger. Defaults to zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(m *MemoryStore) { m.logger = l }
}

// WithIDGenerator sets the session id source. Defaults to UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(m *MemoryStore) { m.ids = g }
}

// WithCommitHook adds a hook that runs before each commit is applied.
func WithCommitHook(h CommitHook) Option {
	return func(m *MemoryStore) { m.hooks = append(m.hooks, h) }
}

// MemoryStore is an in-process content store.
type MemoryStore struct {
	// commitMu serializes commits so flush notifications follow version order.
	commitMu  sync.Mutex
	mu        sync.RWMutex
	root      *memNode
	version   uint64
	listeners []Listener
	hooks     []CommitHook
	ids       IDGenerator
	logger    *zap.Logger
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	m := &MemoryStore{
		root:   &memNode{name: "", path: "/", typ: "root"},
		ids:    UUIDv7Generator{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Root returns the committed root node.
func (m *MemoryStore) Root() Node {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.root
}

// Node returns the committed node at path.
func (m *MemoryStore) Node(path string) (Node, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if n := lookup(m.root, path); n != nil {
		return n, true
	}
	return nil, false
}

func (m *MemoryStore) AddListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

func (m *MemoryStore) RemoveListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = slices.DeleteFunc(m.listeners, func(x Listener) bool { return x == l })
}

func (m *MemoryStore) notify(fn func(Listener)) {
	m.mu.RLock()
	ls := slices.Clone(m.listeners)
	m.mu.RUnlock()
	for _, l := range ls {
		fn(l)
	}
}

// Begin opens a session on a private copy of the committed tree.
func (m *MemoryStore) Begin() *Session {
	m.mu.RLock()
	s := &Session{
		id:    m.ids.Generate(),
		store: m,
		root:  m.root.clone(),
		base:  m.version,
	}
	m.mu.RUnlock()
	m.notify(func(l Listener) { l.OnSessionStart(s.id) })
	return s
}

// Update runs fn in a new session and commits it.
func (m *MemoryStore) Update(fn func(*Session) error) error {
	s := m.Begin()
	defer s.Close()
	if err := fn(s); err != nil {
		return err
	}
	return s.Commit()
}

// apply swaps in a session tree if nothing was committed since base.
func (m *MemoryStore) apply(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.version != s.base {
		return fmt.Errorf("session %s: %w", s.id, ErrConflict)
	}
	for _, hook := range m.hooks {
		if err := hook(s.id, s.root); err != nil {
			return fmt.Errorf("session %s: commit rejected: %w", s.id, err)
		}
	}
	m.root = s.root
	m.version++
	s.root = m.root.clone()
	s.base = m.version
	return nil
}

func (m *MemoryStore) refresh(s *Session) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s.root = m.root.clone()
	s.base = m.version
}
