package beandef

import (
	"path"

	"go.uber.org/zap"

	"github.com/roach88/schemaql/internal/content"
)

func (r *Registry) OnSessionStart(s content.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		r.queues[s] = nil
	}
}

func (r *Registry) OnBeforeFlush(content.SessionID) {}

// OnFlushSuccess applies the session's queue to a copy of the definitions
// and publishes the copy.
func (r *Registry) OnFlushSuccess(s content.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	queue, ok := r.queues[s]
	if !ok || len(queue) == 0 {
		return
	}
	r.queues[s] = nil

	set := r.defs.clone()
	for _, o := range queue {
		if err := o(set); err != nil {
			r.logger.Error("bean definition update abandoned",
				zap.String("session", string(s)),
				zap.Int("changes", len(queue)),
				zap.Error(err))
			return
		}
	}
	r.finalize(set)
	r.defs = set
	r.logger.Debug("bean definitions updated",
		zap.String("session", string(s)),
		zap.Int("changes", len(queue)))
}

func (r *Registry) OnFlushFailure(s content.SessionID, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if queue, ok := r.queues[s]; ok {
		r.queues[s] = nil
		if len(queue) > 0 {
			r.logger.Debug("bean definition changes discarded",
				zap.String("session", string(s)),
				zap.Int("changes", len(queue)),
				zap.Error(err))
		}
	}
}

func (r *Registry) OnSessionEnd(s content.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.queues, s)
}

func (r *Registry) enqueue(s content.SessionID, o op) {
	r.mu.Lock()
	defer r.mu.Unlock()
	queue, ok := r.queues[s]
	if !ok {
		if r.loaded {
			r.logger.Warn("change from untracked session ignored", zap.String("session", string(s)))
		}
		return
	}
	r.queues[s] = append(queue, o)
}

func fail(err error) op {
	return func(*defSet) error { return err }
}

// Node events. Nodes are read when the event fires since the session keeps
// mutating them afterwards.

func (r *Registry) OnNodeCreated(s content.SessionID, n content.Node) {
	if !r.tracked(n.Path()) {
		return
	}
	if n.Type() == r.propType {
		pd, err := readProperty(n)
		if err != nil {
			r.enqueue(s, fail(err))
			return
		}
		owner := path.Dir(n.Path())
		r.enqueue(s, func(set *defSet) error {
			if d := set.at(owner); d != nil {
				d.putProperty(pd)
			}
			return nil
		})
		return
	}
	defs, err := r.collect(n)
	if err != nil {
		r.enqueue(s, fail(err))
		return
	}
	if len(defs) == 0 {
		return
	}
	r.enqueue(s, func(set *defSet) error {
		for _, d := range defs {
			if err := set.put(d.clone()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Registry) OnNodeRemoved(s content.SessionID, n content.Node) {
	p := n.Path()
	if !r.tracked(p) {
		return
	}
	isProp, name := n.Type() == r.propType, n.Name()
	r.enqueue(s, func(set *defSet) error {
		if isProp {
			if d := set.at(path.Dir(p)); d != nil {
				if i := d.ownProperty(name); i >= 0 {
					d.Properties = append(d.Properties[:i], d.Properties[i+1:]...)
				}
			}
		}
		set.removeUnder(p)
		return nil
	})
}

func (r *Registry) OnPropertyCreated(s content.SessionID, n content.Node, p content.Property) {
	r.propertySet(s, n, p)
}

func (r *Registry) OnPropertyChanged(s content.SessionID, n content.Node, p content.Property) {
	r.propertySet(s, n, p)
}

func (r *Registry) propertySet(s content.SessionID, n content.Node, p content.Property) {
	if !r.tracked(n.Path()) {
		return
	}
	switch n.Type() {
	case r.defType:
		var scratch BeanDefinition
		scratch.Metadata = map[string]any{}
		if err := setDefinitionValue(&scratch, p); err != nil {
			r.enqueue(s, fail(err))
			return
		}
		at, key := n.Path(), p.Name()
		r.enqueue(s, func(set *defSet) error {
			d := set.at(at)
			if d == nil {
				return nil
			}
			if key == SuperTypeKey {
				d.SuperType = scratch.SuperType
			} else {
				d.Metadata[key] = scratch.Metadata[key]
			}
			return nil
		})
	case r.propType:
		scratch := PropertyDefinition{Metadata: map[string]any{}}
		if err := setPropertyValue(&scratch, p); err != nil {
			r.enqueue(s, fail(err))
			return
		}
		owner, prop, key := path.Dir(n.Path()), n.Name(), p.Name()
		r.enqueue(s, func(set *defSet) error {
			pd := ownedProperty(set, owner, prop)
			if pd == nil {
				return nil
			}
			switch key {
			case TypeKey:
				pd.Type = scratch.Type
			case MultipleKey:
				pd.Multiple = scratch.Multiple
			default:
				pd.Metadata[key] = scratch.Metadata[key]
			}
			return nil
		})
	}
}

func (r *Registry) OnPropertyRemoved(s content.SessionID, n content.Node, name string) {
	if !r.tracked(n.Path()) {
		return
	}
	switch n.Type() {
	case r.defType:
		at := n.Path()
		r.enqueue(s, func(set *defSet) error {
			if d := set.at(at); d != nil {
				clearDefinitionValue(d, name)
			}
			return nil
		})
	case r.propType:
		owner, prop := path.Dir(n.Path()), n.Name()
		r.enqueue(s, func(set *defSet) error {
			if pd := ownedProperty(set, owner, prop); pd != nil {
				clearPropertyValue(pd, name)
			}
			return nil
		})
	}
}

func ownedProperty(set *defSet, owner, name string) *PropertyDefinition {
	d := set.at(owner)
	if d == nil {
		return nil
	}
	i := d.ownProperty(name)
	if i < 0 {
		return nil
	}
	return &d.Properties[i]
}
