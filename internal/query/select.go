package query

import "strings"

// SelectExpression is one projected column, coalesced alias list, or
// nested select, with an optional alias.
type SelectExpression struct {
	expr    string
	columns []string
	sub     *SelectStmt
	alias   string
}

// Col projects a column or raw expression.
func Col(expr string) *SelectExpression {
	return &SelectExpression{expr: expr}
}

// Coalesce projects the first non-null of several columns.
func Coalesce(columns ...string) *SelectExpression {
	return &SelectExpression{columns: columns}
}

// SubSelect projects a scalar subquery.
func SubSelect(s *SelectStmt) *SelectExpression {
	return &SelectExpression{sub: s}
}

func (e *SelectExpression) As(alias string) *SelectExpression {
	e.alias = alias
	return e
}

func (e *SelectExpression) Render(rc *RenderContext) {
	switch {
	case e.sub != nil:
		rc.Write("(")
		e.sub.Render(rc)
		rc.Write(")")
	case len(e.columns) > 0:
		rc.Write(coalesce(rc.Dialect().CoalesceFunc(), e.columns))
	case e.expr != "":
		rc.Write(e.expr)
	default:
		rc.Fail("empty select expression")
		return
	}
	if e.alias != "" {
		rc.Write(" AS ")
		rc.Write(e.alias)
	}
}

// JoinKind selects the join flavor.
type JoinKind string

const (
	InnerJoin JoinKind = "INNER JOIN"
	LeftJoin  JoinKind = "LEFT JOIN"
)

// Join is a joined table with its ON expression.
type Join struct {
	kind  JoinKind
	table string
	alias string
	on    *Expression
}

func (j *Join) Render(rc *RenderContext) {
	if j.table == "" {
		rc.Fail("join without table")
		return
	}
	if j.on == nil {
		rc.Fail("join on %s without ON", j.table)
		return
	}
	kind := j.kind
	if kind == "" {
		kind = InnerJoin
	}
	rc.Write(" ")
	rc.Write(string(kind))
	rc.Write(" ")
	writeTable(rc, j.table, j.alias)
	rc.Write(" ON ")
	j.on.Render(rc)
}

// SelectStmt is a SELECT statement.
type SelectStmt struct {
	distinct  bool
	fields    []*SelectExpression
	table     string
	alias     string
	joins     []*Join
	where     *Where
	groupBy   []string
	orderBy   *OrderBy
	limit     int
	offset    int
	hasLimit  bool
	hasOffset bool
}

// Select starts a SELECT over the given columns. No columns means "*".
func Select(columns ...string) *SelectStmt {
	s := &SelectStmt{}
	for _, c := range columns {
		s.fields = append(s.fields, Col(c))
	}
	return s
}

// Fields appends projected expressions.
func (s *SelectStmt) Fields(exprs ...*SelectExpression) *SelectStmt {
	s.fields = append(s.fields, exprs...)
	return s
}

func (s *SelectStmt) Distinct() *SelectStmt {
	s.distinct = true
	return s
}

func (s *SelectStmt) From(table, alias string) *SelectStmt {
	s.table, s.alias = table, alias
	return s
}

func (s *SelectStmt) Join(kind JoinKind, table, alias string, on *Expression) *SelectStmt {
	s.joins = append(s.joins, &Join{kind: kind, table: table, alias: alias, on: on})
	return s
}

func (s *SelectStmt) Where(e *Expression) *SelectStmt {
	s.where = &Where{expr: e}
	return s
}

func (s *SelectStmt) GroupBy(columns ...string) *SelectStmt {
	s.groupBy = append(s.groupBy, columns...)
	return s
}

func (s *SelectStmt) OrderBy(o *OrderBy) *SelectStmt {
	s.orderBy = o
	return s
}

func (s *SelectStmt) Limit(n int) *SelectStmt {
	s.limit, s.hasLimit = n, true
	return s
}

// Offset is only rendered together with a limit.
func (s *SelectStmt) Offset(n int) *SelectStmt {
	s.offset, s.hasOffset = n, true
	return s
}

func (s *SelectStmt) IsUpdate() bool { return false }

func (s *SelectStmt) Render(rc *RenderContext) {
	if s.table == "" {
		rc.Fail("SELECT without FROM")
		return
	}
	rc.Write("SELECT ")
	if s.distinct {
		rc.Write("DISTINCT ")
	}
	if len(s.fields) == 0 {
		rc.Write("*")
	}
	for i, f := range s.fields {
		if i > 0 {
			rc.Write(", ")
		}
		f.Render(rc)
	}
	rc.Write(" FROM ")
	writeTable(rc, s.table, s.alias)
	for _, j := range s.joins {
		j.Render(rc)
	}
	s.where.Render(rc)
	if len(s.groupBy) > 0 {
		rc.Write(" GROUP BY ")
		rc.Write(strings.Join(s.groupBy, ", "))
	}
	s.orderBy.Render(rc)
	if s.hasLimit {
		if s.limit < 0 || (s.hasOffset && s.offset < 0) {
			rc.Fail("negative limit or offset")
			return
		}
		rc.Write(" ")
		rc.Write(rc.Dialect().LimitClause(s.limit, s.offset, s.hasOffset))
	}
}
