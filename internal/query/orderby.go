package query

// Direction is a sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

type sortItem struct {
	aliases []string
	dir     Direction
}

// OrderBy is an ordered list of sort items. An item with several aliases
// sorts on the first non-null of them, nested through the dialect's
// coalesce function.
type OrderBy struct {
	items []sortItem
}

// Order starts an empty ORDER BY.
func Order() *OrderBy {
	return &OrderBy{}
}

func (o *OrderBy) Asc(aliases ...string) *OrderBy  { return o.By(Asc, aliases...) }
func (o *OrderBy) Desc(aliases ...string) *OrderBy { return o.By(Desc, aliases...) }

func (o *OrderBy) By(dir Direction, aliases ...string) *OrderBy {
	o.items = append(o.items, sortItem{aliases: aliases, dir: dir})
	return o
}

func (o *OrderBy) Render(rc *RenderContext) {
	if o == nil || len(o.items) == 0 {
		return
	}
	rc.Write(" ORDER BY ")
	for i, item := range o.items {
		if len(item.aliases) == 0 {
			rc.Fail("ORDER BY item %d has no alias", i)
			return
		}
		if i > 0 {
			rc.Write(", ")
		}
		rc.Write(coalesce(rc.Dialect().CoalesceFunc(), item.aliases))
		rc.Write(" ")
		rc.Write(item.dir.String())
	}
}

// coalesce nests fn right-associatively: fn(a, fn(b, c)).
func coalesce(fn string, aliases []string) string {
	if len(aliases) == 1 {
		return aliases[0]
	}
	return fn + "(" + aliases[0] + ", " + coalesce(fn, aliases[1:]) + ")"
}
