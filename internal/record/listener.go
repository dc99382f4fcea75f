package record

import "fmt"

// InverseListener keeps the mirrored reference attribute of each item
// pointing at the list owner: added items reference the owner, removed
// items that still reference it are cleared.
type InverseListener struct{}

func (InverseListener) BeforeItemAdded(l *List, item *Record) (*Record, error) {
	if item == nil {
		return nil, fmt.Errorf("%w: nil item for %s.%s", ErrValueType, l.owner, l.attr.Name)
	}
	if item.typ.Name() != l.attr.Target {
		return nil, fmt.Errorf("%w: %s.%s holds %s, got %s",
			ErrValueType, l.owner.typ.Name(), l.attr.Name, l.attr.Target, item.typ.Name())
	}
	if _, ok := item.typ.Attribute(l.attr.InverseOf); !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownAttribute, item.typ.Name(), l.attr.InverseOf)
	}
	if item.ctx != nil && l.owner.ctx != nil && item.ctx != l.owner.ctx {
		return nil, fmt.Errorf("add %s to %s.%s: %w", item, l.owner, l.attr.Name, ErrForeignContext)
	}
	return item, nil
}

func (InverseListener) OnItemAdded(l *List, item *Record) {
	item.setRef(l.attr.InverseOf, l.owner)
}

func (InverseListener) BeforeItemRemoved(_ *List, item *Record) (*Record, error) {
	return item, nil
}

func (InverseListener) OnItemRemoved(l *List, item *Record) {
	if ref, ok := item.Ref(l.attr.InverseOf); ok && ref == l.owner {
		item.setRef(l.attr.InverseOf, nil)
	}
}
