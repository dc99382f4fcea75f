package beandef

import (
	"fmt"
	"io"

	"github.com/roach88/schemaql/internal/content"
)

// Reserved property names.
const (
	SuperTypeKey = "superType"
	TypeKey      = "type"
	MultipleKey  = "multiple"
)

// readDefinition builds a definition from a node and its property nodes.
func (r *Registry) readDefinition(n content.Node) (*BeanDefinition, error) {
	d := &BeanDefinition{Name: n.Name(), Path: n.Path(), Metadata: map[string]any{}}
	for _, p := range n.Properties() {
		if err := setDefinitionValue(d, p); err != nil {
			return nil, err
		}
	}
	for _, c := range n.Children() {
		if c.Type() != r.propType {
			continue
		}
		pd, err := readProperty(c)
		if err != nil {
			return nil, err
		}
		d.putProperty(pd)
	}
	return d, nil
}

func readProperty(n content.Node) (PropertyDefinition, error) {
	pd := PropertyDefinition{Name: n.Name(), Metadata: map[string]any{}}
	for _, p := range n.Properties() {
		if err := setPropertyValue(&pd, p); err != nil {
			return PropertyDefinition{}, err
		}
	}
	return pd, nil
}

func setDefinitionValue(d *BeanDefinition, p content.Property) error {
	if p.Name() == SuperTypeKey {
		s, err := p.String()
		if err != nil {
			return fmt.Errorf("%s: %w", p.Path(), err)
		}
		d.SuperType = s
		return nil
	}
	v, err := propertyValue(p)
	if err != nil {
		return err
	}
	d.Metadata[p.Name()] = v
	return nil
}

func setPropertyValue(pd *PropertyDefinition, p content.Property) error {
	var err error
	switch p.Name() {
	case TypeKey:
		pd.Type, err = p.String()
	case MultipleKey:
		pd.Multiple, err = p.Bool()
	default:
		var v any
		if v, err = propertyValue(p); err == nil {
			pd.Metadata[p.Name()] = v
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", p.Path(), err)
	}
	return nil
}

func clearDefinitionValue(d *BeanDefinition, name string) {
	if name == SuperTypeKey {
		d.SuperType = ""
		return
	}
	delete(d.Metadata, name)
}

func clearPropertyValue(pd *PropertyDefinition, name string) {
	switch name {
	case TypeKey:
		pd.Type = ""
	case MultipleKey:
		pd.Multiple = false
	default:
		delete(pd.Metadata, name)
	}
}

// propertyValue converts a content property into a plain metadata value.
// Multi-valued properties become []any.
func propertyValue(p content.Property) (any, error) {
	var (
		v   any
		err error
	)
	if p.IsMultiple() {
		switch p.Type() {
		case content.TypeBool:
			v, err = list(p.Bools())
		case content.TypeLong:
			v, err = list(p.Longs())
		case content.TypeDouble:
			v, err = list(p.Doubles())
		case content.TypeDecimal:
			v, err = list(p.Decimals())
		case content.TypeDate:
			v, err = list(p.Dates())
		default:
			v, err = list(p.Strings())
		}
	} else {
		switch p.Type() {
		case content.TypeBool:
			v, err = p.Bool()
		case content.TypeLong:
			v, err = p.Long()
		case content.TypeDouble:
			v, err = p.Double()
		case content.TypeDecimal:
			v, err = p.Decimal()
		case content.TypeDate:
			v, err = p.Date()
		case content.TypeBinary:
			var rd io.Reader
			if rd, err = p.Binary(); err == nil {
				v, err = io.ReadAll(rd)
			}
		default:
			v, err = p.String()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path(), err)
	}
	return v, nil
}

func list[T any](vals []T, err error) ([]any, error) {
	if err != nil {
		return nil, err
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out, nil
}
