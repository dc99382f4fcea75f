package beandef

import (
	"fmt"
	"strings"
)

// defSet indexes definitions by name. Parents are referenced by name so a
// rebuilt parent is picked up by the next finalize pass.
type defSet struct {
	byName map[string]*BeanDefinition
	byPath map[string]string
}

func newDefSet() *defSet {
	return &defSet{byName: map[string]*BeanDefinition{}, byPath: map[string]string{}}
}

func (s *defSet) clone() *defSet {
	c := newDefSet()
	for name, d := range s.byName {
		c.byName[name] = d.clone()
	}
	for p, name := range s.byPath {
		c.byPath[p] = name
	}
	return c
}

func (s *defSet) put(d *BeanDefinition) error {
	if existing, ok := s.byName[d.Name]; ok && existing.Path != d.Path {
		return fmt.Errorf("%w: %q at %s and %s", ErrDuplicateName, d.Name, existing.Path, d.Path)
	}
	s.byName[d.Name] = d
	s.byPath[d.Path] = d.Name
	return nil
}

func (s *defSet) at(path string) *BeanDefinition {
	if name, ok := s.byPath[path]; ok {
		return s.byName[name]
	}
	return nil
}

// removeUnder drops every definition at or below path.
func (s *defSet) removeUnder(path string) {
	prefix := strings.TrimSuffix(path, "/") + "/"
	for p, name := range s.byPath {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(s.byPath, p)
			delete(s.byName, name)
		}
	}
}
