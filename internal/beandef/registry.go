package beandef

import (
	"path"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/roach88/schemaql/internal/canon"
	"github.com/roach88/schemaql/internal/content"
)

// Default node type names.
const (
	DefaultDefinitionType = "bean:definition"
	DefaultPropertyType   = "bean:property"
)

// op is one queued change, applied to a working copy at commit.
type op func(*defSet) error

// Option configures a Registry.
type Option func(*Registry)

// WithRoots sets the subtrees searched for definitions. Defaults to "/".
func WithRoots(roots ...string) Option {
	return func(r *Registry) {
		r.roots = r.roots[:0]
		for _, root := range roots {
			r.roots = append(r.roots, path.Clean("/"+root))
		}
	}
}

// WithDefinitionType sets the node type of bean definitions.
func WithDefinitionType(t string) Option {
	return func(r *Registry) { r.defType = t }
}

// WithPropertyType sets the node type of property definitions.
func WithPropertyType(t string) Option {
	return func(r *Registry) { r.propType = t }
}

// WithLogger sets the logger. Defaults to zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// Registry serves bean definitions and keeps them in sync with a content
// store. It is safe for concurrent use.
//
// A single lock guards the published definitions and the session queues.
// Readers take it shared; event handling and flushes take it exclusively.
type Registry struct {
	store    content.Store
	roots    []string
	defType  string
	propType string
	logger   *zap.Logger

	mu     sync.RWMutex
	defs   *defSet
	queues map[content.SessionID][]op
	loaded bool
}

var _ content.Listener = (*Registry)(nil)

// New creates an unloaded registry over store.
func New(store content.Store, opts ...Option) *Registry {
	r := &Registry{
		store:    store,
		roots:    []string{"/"},
		defType:  DefaultDefinitionType,
		propType: DefaultPropertyType,
		logger:   zap.NewNop(),
		defs:     newDefSet(),
		queues:   map[content.SessionID][]op{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load walks the roots once, computes inheritance and subscribes to the
// store. Missing roots are skipped; definitions created under them later
// are picked up from change events.
func (r *Registry) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return ErrAlreadyLoaded
	}

	set := newDefSet()
	for _, root := range r.roots {
		n, ok := r.store.Node(root)
		if !ok {
			r.logger.Debug("bean root not found", zap.String("root", root))
			continue
		}
		defs, err := r.collect(n)
		if err != nil {
			return err
		}
		for _, d := range defs {
			if err := set.put(d); err != nil {
				return err
			}
		}
	}
	r.finalize(set)

	r.defs = set
	r.loaded = true
	r.store.AddListener(r)
	r.logger.Info("bean definitions loaded", zap.Int("count", len(set.byName)))
	return nil
}

// Close unsubscribes from the store and clears all state.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return
	}
	r.store.RemoveListener(r)
	r.defs = newDefSet()
	r.queues = map[content.SessionID][]op{}
	r.loaded = false
}

// GetBeanDefinition returns a copy of the named definition.
func (r *Registry) GetBeanDefinition(name string) (*BeanDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs.byName[name]
	if !ok {
		return nil, false
	}
	return d.clone(), true
}

// GetBeanDefinitions returns copies of all definitions ordered by name.
func (r *Registry) GetBeanDefinitions() []*BeanDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*BeanDefinition, 0, len(r.defs.byName))
	for _, d := range r.defs.byName {
		out = append(out, d.clone())
	}
	slices.SortFunc(out, func(a, b *BeanDefinition) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Len reports the number of definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs.byName)
}

// Dump renders all definitions as indented canonical JSON. It returns
// ErrNotLoaded before Load.
func (r *Registry) Dump() ([]byte, error) {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if !loaded {
		return nil, ErrNotLoaded
	}
	defs := r.GetBeanDefinitions()
	out := make([]any, len(defs))
	for i, d := range defs {
		out[i] = d.dump()
	}
	return canon.MarshalIndent(map[string]any{"definitions": out})
}

// collect reads every definition in the subtree rooted at n.
func (r *Registry) collect(n content.Node) ([]*BeanDefinition, error) {
	var (
		defs []*BeanDefinition
		err  error
	)
	content.Walk(n, func(c content.Node) bool {
		if err != nil {
			return false
		}
		if c.Type() != r.defType {
			return true
		}
		var d *BeanDefinition
		if d, err = r.readDefinition(c); err == nil {
			defs = append(defs, d)
		}
		return true
	})
	return defs, err
}

// finalize recomputes AllProperties for every definition in set.
func (r *Registry) finalize(set *defSet) {
	for _, d := range set.byName {
		chain := r.ancestry(set, d)
		all := []PropertyDefinition{identityProperty.clone()}
		for i := len(chain) - 1; i >= 0; i-- {
			all = append(all, cloneProperties(chain[i].Properties)...)
		}
		d.AllProperties = all
	}
}

// ancestry returns d followed by its ancestors. Unknown parents end the
// chain, as does a cycle.
func (r *Registry) ancestry(set *defSet, d *BeanDefinition) []*BeanDefinition {
	chain := []*BeanDefinition{d}
	seen := map[string]bool{d.Name: true}
	for cur := d; cur.SuperType != ""; {
		parent, ok := set.byName[cur.SuperType]
		if !ok {
			r.logger.Warn("unknown bean super type",
				zap.String("definition", cur.Name),
				zap.String("superType", cur.SuperType))
			break
		}
		if seen[parent.Name] {
			r.logger.Warn("bean inheritance cycle", zap.String("definition", d.Name))
			break
		}
		seen[parent.Name] = true
		chain = append(chain, parent)
		cur = parent
	}
	return chain
}

func (r *Registry) tracked(p string) bool {
	for _, root := range r.roots {
		if root == "/" || p == root || strings.HasPrefix(p, root+"/") {
			return true
		}
	}
	return false
}
