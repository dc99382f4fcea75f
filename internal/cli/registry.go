package cli

import (
	"fmt"

	"github.com/roach88/schemaql/internal/beandef"
	"github.com/roach88/schemaql/internal/content"
)

// importContent imports YAML content files into a fresh in-memory store in
// one session.
func (o *RootOptions) importContent(files []string) (*content.MemoryStore, error) {
	store := content.NewMemoryStore(content.WithLogger(o.logger().Named("content")))
	err := store.Update(func(s *content.Session) error {
		for _, f := range files {
			if err := content.ImportYAMLFile(s, "/", f); err != nil {
				return fmt.Errorf("%s: %w", f, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// newRegistry loads a bean registry over store using the configured roots
// and node types.
func (o *RootOptions) newRegistry(store content.Store) (*beandef.Registry, error) {
	beans := o.Config.Beans
	reg := beandef.New(store,
		beandef.WithRoots(beans.Roots...),
		beandef.WithDefinitionType(beans.DefinitionType),
		beandef.WithPropertyType(beans.PropertyType),
		beandef.WithLogger(o.logger().Named("beans")))
	if err := reg.Load(); err != nil {
		return nil, err
	}
	return reg, nil
}

// loadRegistry runs importContent and newRegistry, reporting failures
// through f.
func (o *RootOptions) loadRegistry(f *OutputFormatter, files []string) (*beandef.Registry, error) {
	store, err := o.importContent(files)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeContent, "failed to import content", err)
	}
	f.VerboseLog("imported %d content file(s)", len(files))

	reg, err := o.newRegistry(store)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeRegistry, "failed to load bean definitions", err)
	}
	f.VerboseLog("loaded %d bean definition(s)", reg.Len())
	return reg, nil
}
