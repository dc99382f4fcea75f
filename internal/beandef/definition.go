package beandef

import (
	"maps"
	"slices"
)

// IdentityProperty is the name of the synthetic property every definition
// starts with.
const IdentityProperty = "beanType"

var identityProperty = PropertyDefinition{Name: IdentityProperty, Type: "string"}

// PropertyDefinition describes one property of a bean type.
type PropertyDefinition struct {
	Name     string
	Type     string
	Multiple bool
	Metadata map[string]any
}

func (p PropertyDefinition) clone() PropertyDefinition {
	p.Metadata = maps.Clone(p.Metadata)
	if p.Metadata == nil {
		p.Metadata = map[string]any{}
	}
	return p
}

// BeanDefinition is a snapshot of one bean type. Values returned by the
// Registry are copies and may be modified freely.
type BeanDefinition struct {
	Name      string
	Path      string
	SuperType string
	Metadata  map[string]any

	// Properties are the definition's own properties in node order.
	Properties []PropertyDefinition

	// AllProperties is the resolved inheritance chain.
	AllProperties []PropertyDefinition
}

func (d *BeanDefinition) clone() *BeanDefinition {
	c := *d
	c.Metadata = maps.Clone(d.Metadata)
	if c.Metadata == nil {
		c.Metadata = map[string]any{}
	}
	c.Properties = cloneProperties(d.Properties)
	c.AllProperties = cloneProperties(d.AllProperties)
	return &c
}

func cloneProperties(props []PropertyDefinition) []PropertyDefinition {
	if props == nil {
		return nil
	}
	out := make([]PropertyDefinition, len(props))
	for i, p := range props {
		out[i] = p.clone()
	}
	return out
}

// Property finds a property by name in AllProperties.
func (d *BeanDefinition) Property(name string) (PropertyDefinition, bool) {
	i := slices.IndexFunc(d.AllProperties, func(p PropertyDefinition) bool { return p.Name == name })
	if i < 0 {
		return PropertyDefinition{}, false
	}
	return d.AllProperties[i], true
}

// PropertyNames returns the names of AllProperties in order.
func (d *BeanDefinition) PropertyNames() []string {
	names := make([]string, len(d.AllProperties))
	for i, p := range d.AllProperties {
		names[i] = p.Name
	}
	return names
}

func (d *BeanDefinition) ownProperty(name string) int {
	return slices.IndexFunc(d.Properties, func(p PropertyDefinition) bool { return p.Name == name })
}

func (d *BeanDefinition) putProperty(p PropertyDefinition) {
	if i := d.ownProperty(p.Name); i >= 0 {
		d.Properties[i] = p
		return
	}
	d.Properties = append(d.Properties, p)
}

func (d *BeanDefinition) dump() map[string]any {
	props := make([]any, len(d.Properties))
	for i, p := range d.Properties {
		props[i] = map[string]any{
			"name":     p.Name,
			"type":     p.Type,
			"multiple": p.Multiple,
			"metadata": p.Metadata,
		}
	}
	all := make([]any, len(d.AllProperties))
	for i, p := range d.AllProperties {
		all[i] = p.Name
	}
	var super any
	if d.SuperType != "" {
		super = d.SuperType
	}
	return map[string]any{
		"name":          d.Name,
		"path":          d.Path,
		"superType":     super,
		"metadata":      d.Metadata,
		"properties":    props,
		"allProperties": all,
	}
}
