package query

// assignments keeps column/value pairs in insertion order.
type assignments struct {
	cols []string
	vals []Value
}

func (a *assignments) set(col string, v Value) {
	a.cols = append(a.cols, col)
	a.vals = append(a.vals, v)
}

// check fails on an empty or duplicated column set.
func (a *assignments) check(rc *RenderContext, stmt, table string) bool {
	if table == "" {
		rc.Fail("%s without table", stmt)
		return false
	}
	if len(a.cols) == 0 {
		rc.Fail("%s %s has no columns", stmt, table)
		return false
	}
	seen := make(map[string]struct{}, len(a.cols))
	for _, c := range a.cols {
		if c == "" {
			rc.Fail("%s %s has an empty column name", stmt, table)
			return false
		}
		if _, dup := seen[c]; dup {
			rc.Fail("%s %s sets column %s twice", stmt, table, c)
			return false
		}
		seen[c] = struct{}{}
	}
	return true
}

// Len returns the number of assigned columns.
func (a *assignments) Len() int { return len(a.cols) }

// InsertStmt is an INSERT statement.
type InsertStmt struct {
	table string
	assignments
}

func InsertInto(table string) *InsertStmt {
	return &InsertStmt{table: table}
}

func (s *InsertStmt) Set(col string, v Value) *InsertStmt {
	s.set(col, v)
	return s
}

func (s *InsertStmt) IsUpdate() bool { return true }

func (s *InsertStmt) Render(rc *RenderContext) {
	if !s.check(rc, "INSERT", s.table) {
		return
	}
	rc.Write("INSERT INTO ")
	rc.Write(s.table)
	rc.Write(" (")
	for i, c := range s.cols {
		if i > 0 {
			rc.Write(", ")
		}
		rc.Write(c)
	}
	rc.Write(") VALUES (")
	for i, v := range s.vals {
		if i > 0 {
			rc.Write(", ")
		}
		v.Render(rc)
	}
	rc.Write(")")
}

// UpdateStmt is an UPDATE statement.
type UpdateStmt struct {
	table string
	assignments
	where *Where
}

func Update(table string) *UpdateStmt {
	return &UpdateStmt{table: table}
}

func (s *UpdateStmt) Set(col string, v Value) *UpdateStmt {
	s.set(col, v)
	return s
}

func (s *UpdateStmt) Where(e *Expression) *UpdateStmt {
	s.where = &Where{expr: e}
	return s
}

func (s *UpdateStmt) IsUpdate() bool { return true }

func (s *UpdateStmt) Render(rc *RenderContext) {
	if !s.check(rc, "UPDATE", s.table) {
		return
	}
	rc.Write("UPDATE ")
	rc.Write(s.table)
	rc.Write(" SET ")
	for i, c := range s.cols {
		if i > 0 {
			rc.Write(", ")
		}
		rc.Write(c)
		rc.Write(" = ")
		s.vals[i].Render(rc)
	}
	s.where.Render(rc)
}

// DeleteStmt is a DELETE statement.
type DeleteStmt struct {
	table string
	where *Where
}

func DeleteFrom(table string) *DeleteStmt {
	return &DeleteStmt{table: table}
}

func (s *DeleteStmt) Where(e *Expression) *DeleteStmt {
	s.where = &Where{expr: e}
	return s
}

func (s *DeleteStmt) IsUpdate() bool { return true }

func (s *DeleteStmt) Render(rc *RenderContext) {
	if s.table == "" {
		rc.Fail("DELETE without table")
		return
	}
	rc.Write("DELETE FROM ")
	rc.Write(s.table)
	s.where.Render(rc)
}
