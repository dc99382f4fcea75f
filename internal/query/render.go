package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/schemaql/internal/binding"
	"github.com/roach88/schemaql/internal/dialect"
)

// ErrMalformedQuery reports a node rendered with missing or contradictory
// configuration.
var ErrMalformedQuery = errors.New("malformed query")

// Node is any part of a query tree.
type Node interface {
	Render(rc *RenderContext)
}

// Statement is a renderable top-level node.
type Statement interface {
	Node
	IsUpdate() bool
}

// RenderContext is the shared mutable output of one render pass.
type RenderContext struct {
	dialect dialect.Strategy
	sql     strings.Builder
	args    []any
	binders []binding.Binder
	err     error
}

// NewRenderContext starts an empty render pass for d.
func NewRenderContext(d dialect.Strategy) *RenderContext {
	return &RenderContext{dialect: d}
}

func (rc *RenderContext) Dialect() dialect.Strategy { return rc.dialect }

// Write appends raw SQL text.
func (rc *RenderContext) Write(s string) {
	rc.sql.WriteString(s)
}

// Bind writes the next placeholder and records its display value and binder.
func (rc *RenderContext) Bind(display any, b binding.Binder) {
	rc.args = append(rc.args, display)
	rc.binders = append(rc.binders, b)
	rc.sql.WriteString(rc.dialect.Placeholder(len(rc.args)))
}

// Fail records a malformed-query error. Only the first failure is kept.
func (rc *RenderContext) Fail(format string, args ...any) {
	if rc.err == nil {
		rc.err = fmt.Errorf("%w: %s", ErrMalformedQuery, fmt.Sprintf(format, args...))
	}
}

// Err returns the first recorded failure.
func (rc *RenderContext) Err() error { return rc.err }

// Rendered is the output of a successful render.
type Rendered struct {
	SQL     string
	Args    []any
	Binders []binding.Binder
	Update  bool
}

// Render renders s for dialect d.
func Render(d dialect.Strategy, s Statement) (*Rendered, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: no dialect", ErrMalformedQuery)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: nil statement", ErrMalformedQuery)
	}
	rc := NewRenderContext(d)
	s.Render(rc)
	if rc.err != nil {
		return nil, rc.err
	}
	return &Rendered{
		SQL:     rc.sql.String(),
		Args:    rc.args,
		Binders: rc.binders,
		Update:  s.IsUpdate(),
	}, nil
}

// MustRender is Render for statically known statements. It panics on error.
func MustRender(d dialect.Strategy, s Statement) *Rendered {
	r, err := Render(d, s)
	if err != nil {
		panic(err)
	}
	return r
}

// Values runs the binders and returns driver arguments for execution.
func (r *Rendered) Values(ctx context.Context) ([]any, error) {
	return binding.BindAll(ctx, r.Binders)
}

// String is a debugging rendition: SQL followed by the display arguments.
func (r *Rendered) String() string {
	if len(r.Args) == 0 {
		return r.SQL
	}
	return fmt.Sprintf("%s %v", r.SQL, r.Args)
}

// writeTable renders "table" or "table AS alias".
func writeTable(rc *RenderContext, table, alias string) {
	rc.Write(table)
	if alias != "" {
		rc.Write(" AS ")
		rc.Write(alias)
	}
}
