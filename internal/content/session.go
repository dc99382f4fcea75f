package content

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionID identifies one content session.
type SessionID string

// IDGenerator produces session ids.
type IDGenerator interface {
	Generate() SessionID
}

// UUIDv7Generator generates time-sortable session ids.
type UUIDv7Generator struct{}

func (UUIDv7Generator) Generate() SessionID {
	return SessionID(uuid.Must(uuid.NewV7()).String())
}

// Session is a unit of change against a MemoryStore. It is not safe for
// concurrent use.
type Session struct {
	id     SessionID
	store  *MemoryStore
	root   *memNode
	base   uint64
	dirty  bool
	closed bool
}

func (s *Session) ID() SessionID { return s.id }

// Root returns the session's view of the tree, pending changes included.
func (s *Session) Root() Node { return s.root }

// Node returns the node at path in the session's view.
func (s *Session) Node(path string) (Node, bool) {
	if n := lookup(s.root, path); n != nil {
		return n, true
	}
	return nil, false
}

func (s *Session) target(path string) (*memNode, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	n := lookup(s.root, path)
	if n == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return n, nil
}

// AddNode creates a child node of the given type under parentPath.
func (s *Session) AddNode(parentPath, name, typ string) (Node, error) {
	parent, err := s.target(parentPath)
	if err != nil {
		return nil, err
	}
	if err := validName(name); err != nil {
		return nil, err
	}
	if parent.child(name) != nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, childPath(parent.path, name))
	}
	n := &memNode{name: name, path: childPath(parent.path, name), typ: typ}
	parent.children = append(parent.children, n)
	s.dirty = true
	s.store.notify(func(l Listener) { l.OnNodeCreated(s.id, n) })
	return n, nil
}

// RemoveNode deletes the node at path with its subtree.
func (s *Session) RemoveNode(path string) error {
	n, err := s.target(path)
	if err != nil {
		return err
	}
	if n == s.root {
		return fmt.Errorf("%w: cannot remove root", ErrInvalidName)
	}
	parent := lookup(s.root, parentOf(path))
	for i, c := range parent.children {
		if c == n {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}
	s.dirty = true
	s.store.notify(func(l Listener) { l.OnNodeRemoved(s.id, n) })
	return nil
}

// SetProperty creates or replaces a property. Slices create multi-valued
// properties.
func (s *Session) SetProperty(nodePath, name string, v any) error {
	n, err := s.target(nodePath)
	if err != nil {
		return err
	}
	if err := validName(name); err != nil {
		return err
	}
	typ, vals, multiple, err := values(v)
	if err != nil {
		return fmt.Errorf("%s/%s: %w", n.path, name, err)
	}
	p := &memProperty{name: name, path: childPath(n.path, name), typ: typ, multiple: multiple, vals: vals}
	for i, existing := range n.props {
		if existing.name == name {
			n.props[i] = p
			s.dirty = true
			s.store.notify(func(l Listener) { l.OnPropertyChanged(s.id, n, p) })
			return nil
		}
	}
	n.props = append(n.props, p)
	s.dirty = true
	s.store.notify(func(l Listener) { l.OnPropertyCreated(s.id, n, p) })
	return nil
}

// RemoveProperty deletes a property.
func (s *Session) RemoveProperty(nodePath, name string) error {
	n, err := s.target(nodePath)
	if err != nil {
		return err
	}
	for i, p := range n.props {
		if p.name == name {
			n.props = append(n.props[:i], n.props[i+1:]...)
			s.dirty = true
			s.store.notify(func(l Listener) { l.OnPropertyRemoved(s.id, n, name) })
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, childPath(n.path, name))
}

// Commit publishes the session's changes. On failure the pending changes
// are discarded and the session continues from the latest committed tree.
// Commits are serialized; flush listeners must not commit from the
// notifying goroutine.
func (s *Session) Commit() error {
	if s.closed {
		return ErrSessionClosed
	}
	m := s.store
	m.commitMu.Lock()
	defer m.commitMu.Unlock()
	m.notify(func(l Listener) { l.OnBeforeFlush(s.id) })
	if err := m.apply(s); err != nil {
		m.refresh(s)
		s.dirty = false
		m.logger.Warn("content commit failed", zap.String("session", string(s.id)), zap.Error(err))
		m.notify(func(l Listener) { l.OnFlushFailure(s.id, err) })
		return err
	}
	s.dirty = false
	m.logger.Debug("content committed", zap.String("session", string(s.id)))
	m.notify(func(l Listener) { l.OnFlushSuccess(s.id) })
	return nil
}

// HasPendingChanges reports uncommitted edits.
func (s *Session) HasPendingChanges() bool { return s.dirty }

// Close ends the session, dropping uncommitted changes. Closing twice is a
// no-op.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.root = nil
	s.store.notify(func(l Listener) { l.OnSessionEnd(s.id) })
}

func parentOf(path string) string {
	i := len(path) - 1
	for i > 0 && path[i] != '/' {
		i--
	}
	if i <= 0 {
		return "/"
	}
	return path[:i]
}
