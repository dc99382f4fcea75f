package query

// Operator is a binary comparison operator.
type Operator string

const (
	OpEq      Operator = "="
	OpNe      Operator = "<>"
	OpLt      Operator = "<"
	OpLe      Operator = "<="
	OpGt      Operator = ">"
	OpGe      Operator = ">="
	OpLike    Operator = "LIKE"
	OpNotLike Operator = "NOT LIKE"
	OpIn      Operator = "IN"
	OpNotIn   Operator = "NOT IN"
)

// Criteria is a WHERE leaf. Its shape is decided by which calls were made,
// in this precedence:
//
//	BETWEEN (Low and High)
//	IS [NOT] NULL
//	field op field (CompareField)
//	field op value (Value)
//
// IN and NOT IN only accept a subquery value.
type Criteria struct {
	field     string
	op        Operator
	other     string
	value     *Value
	low, high *Value
	null      *bool
}

// Field starts a criteria on a column reference.
func Field(name string) *Criteria {
	return &Criteria{field: name}
}

func (c *Criteria) Op(op Operator) *Criteria {
	c.op = op
	return c
}

func (c *Criteria) Value(v Value) *Criteria {
	c.value = &v
	return c
}

// CompareField compares against another column instead of a bound value.
func (c *Criteria) CompareField(name string) *Criteria {
	c.other = name
	return c
}

func (c *Criteria) Low(v Value) *Criteria {
	c.low = &v
	return c
}

func (c *Criteria) High(v Value) *Criteria {
	c.high = &v
	return c
}

func (c *Criteria) Between(low, high Value) *Criteria {
	return c.Low(low).High(high)
}

func (c *Criteria) IsNull() *Criteria {
	isNull := true
	c.null = &isNull
	return c
}

func (c *Criteria) IsNotNull() *Criteria {
	isNull := false
	c.null = &isNull
	return c
}

func (c *Criteria) Eq(v any) *Criteria   { return c.Op(OpEq).Value(Val(v)) }
func (c *Criteria) Ne(v any) *Criteria   { return c.Op(OpNe).Value(Val(v)) }
func (c *Criteria) Lt(v any) *Criteria   { return c.Op(OpLt).Value(Val(v)) }
func (c *Criteria) Le(v any) *Criteria   { return c.Op(OpLe).Value(Val(v)) }
func (c *Criteria) Gt(v any) *Criteria   { return c.Op(OpGt).Value(Val(v)) }
func (c *Criteria) Ge(v any) *Criteria   { return c.Op(OpGe).Value(Val(v)) }
func (c *Criteria) Like(v any) *Criteria { return c.Op(OpLike).Value(Val(v)) }

func (c *Criteria) EqField(name string) *Criteria { return c.Op(OpEq).CompareField(name) }

func (c *Criteria) In(s *SelectStmt) *Criteria { return c.Op(OpIn).Value(Sub(s)) }

func (c *Criteria) Render(rc *RenderContext) {
	if c.field == "" {
		rc.Fail("criteria without field")
		return
	}
	switch {
	case c.low != nil || c.high != nil:
		if c.low == nil || c.high == nil {
			rc.Fail("BETWEEN on %s needs both bounds", c.field)
			return
		}
		rc.Write(c.field)
		rc.Write(" BETWEEN ")
		c.low.Render(rc)
		rc.Write(" AND ")
		c.high.Render(rc)
	case c.null != nil:
		rc.Write(c.field)
		if *c.null {
			rc.Write(" IS NULL")
		} else {
			rc.Write(" IS NOT NULL")
		}
	case c.other != "":
		if c.op == "" {
			rc.Fail("criteria on %s has no operator", c.field)
			return
		}
		if c.setOp() {
			rc.Fail("%s on %s needs a subquery", c.op, c.field)
			return
		}
		rc.Write(c.field + " " + string(c.op) + " " + c.other)
	case c.value != nil:
		if c.op == "" {
			rc.Fail("criteria on %s has no operator", c.field)
			return
		}
		if c.setOp() && !c.value.IsSubquery() {
			rc.Fail("%s on %s needs a subquery", c.op, c.field)
			return
		}
		rc.Write(c.field + " " + string(c.op) + " ")
		c.value.Render(rc)
	default:
		rc.Fail("criteria on %s has nothing to compare", c.field)
	}
}

func (c *Criteria) setOp() bool {
	return c.op == OpIn || c.op == OpNotIn
}
