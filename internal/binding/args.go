package binding

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/apd/v3"
)

// Args is a Target that collects database/sql driver arguments.
type Args struct {
	values []any
}

// NewArgs sizes an Args for n parameters.
func NewArgs(n int) *Args {
	return &Args{values: make([]any, n)}
}

func (a *Args) slot(pos int) (*any, error) {
	if pos < 1 || pos > len(a.values) {
		return nil, fmt.Errorf("parameter position %d out of range [1,%d]", pos, len(a.values))
	}
	return &a.values[pos-1], nil
}

func (a *Args) SetObject(pos int, v any, _ SQLType) error {
	p, err := a.slot(pos)
	if err != nil {
		return err
	}
	switch d := v.(type) {
	case *apd.Decimal:
		*p = d.String()
	case apd.Decimal:
		*p = d.String()
	default:
		*p = v
	}
	return nil
}

func (a *Args) SetNull(pos int, _ SQLType) error {
	p, err := a.slot(pos)
	if err != nil {
		return err
	}
	*p = nil
	return nil
}

func (a *Args) SetBinary(pos int, r io.Reader, length int64) error {
	p, err := a.slot(pos)
	if err != nil {
		return err
	}
	buf := make([]byte, 0, length)
	data, err := io.ReadAll(io.LimitReader(r, length))
	if err != nil {
		return fmt.Errorf("parameter %d: %w", pos, err)
	}
	*p = append(buf, data...)
	return nil
}

// Values returns the collected arguments in position order.
func (a *Args) Values() []any { return a.values }

// BindAll runs binders in order against a fresh Args and returns the driver
// arguments.
func BindAll(ctx context.Context, binders []Binder) ([]any, error) {
	args := NewArgs(len(binders))
	for i, b := range binders {
		if b == nil {
			return nil, fmt.Errorf("parameter %d has no binder", i+1)
		}
		if err := b.Bind(ctx, args, i+1); err != nil {
			return nil, fmt.Errorf("bind parameter %d: %w", i+1, err)
		}
	}
	return args.Values(), nil
}
