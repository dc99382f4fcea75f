package query

// Expression is a criteria leaf or a wrapped sub-expression, followed by
// ordered AND/OR continuations.
type Expression struct {
	leaf    *Criteria
	wrapped *Expression
	rest    []continuation
}

type continuation struct {
	conj string
	next *Expression
}

// Cond starts an expression from a single criteria.
func Cond(c *Criteria) *Expression {
	return &Expression{leaf: c}
}

// Wrap starts an expression from a parenthesized sub-expression.
func Wrap(e *Expression) *Expression {
	return &Expression{wrapped: e}
}

func (e *Expression) And(c *Criteria) *Expression { return e.link(" AND ", Cond(c)) }

func (e *Expression) Or(c *Criteria) *Expression { return e.link(" OR ", Cond(c)) }

// AndExpr continues with a parenthesized expression.
func (e *Expression) AndExpr(x *Expression) *Expression { return e.link(" AND ", Wrap(x)) }

// OrExpr continues with a parenthesized expression.
func (e *Expression) OrExpr(x *Expression) *Expression { return e.link(" OR ", Wrap(x)) }

func (e *Expression) link(conj string, next *Expression) *Expression {
	e.rest = append(e.rest, continuation{conj: conj, next: next})
	return e
}

func (e *Expression) Render(rc *RenderContext) {
	switch {
	case e.leaf != nil:
		e.leaf.Render(rc)
	case e.wrapped != nil:
		rc.Write("(")
		e.wrapped.Render(rc)
		rc.Write(")")
	default:
		rc.Fail("empty expression")
		return
	}
	for _, c := range e.rest {
		rc.Write(c.conj)
		c.next.Render(rc)
	}
}

// Where renders " WHERE <expression>", or nothing when empty.
type Where struct {
	expr *Expression
}

func (w *Where) Render(rc *RenderContext) {
	if w == nil || w.expr == nil {
		return
	}
	rc.Write(" WHERE ")
	w.expr.Render(rc)
}
