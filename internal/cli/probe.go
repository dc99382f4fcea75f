package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/schemaql/internal/dialect"
	"github.com/roach88/schemaql/internal/store"
)

// ProbeOptions holds flags for the probe command.
type ProbeOptions struct {
	*RootOptions
	Columns     []string
	Indexes     []string
	Constraints []string
}

// ProbeResult is one existence check.
type ProbeResult struct {
	Kind   string `json:"kind"`
	Table  string `json:"table"`
	Name   string `json:"name,omitempty"`
	Exists bool   `json:"exists"`
}

func (r ProbeResult) String() string {
	target := r.Table
	if r.Name != "" {
		target += "." + r.Name
	}
	state := "missing"
	if r.Exists {
		state = "found"
	}
	return fmt.Sprintf("%-10s %-30s %s", r.Kind, target, state)
}

// NewProbeCommand creates the probe command.
func NewProbeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProbeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "probe <table>",
		Short: "Check that a table and its columns, indexes or constraints exist",
		Long: `Connect to the configured database and ask the vendor's catalog whether
the table exists, then check each requested column, index and constraint.
Identifiers are normalized the way the vendor stores them.

Exits with status 1 when anything is missing.

Example:
  schemaql probe -c schemaql.cue posts --column title --index posts_author`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Columns, "column", nil, "column that must exist (repeatable)")
	cmd.Flags().StringSliceVar(&opts.Indexes, "index", nil, "index that must exist (repeatable)")
	cmd.Flags().StringSliceVar(&opts.Constraints, "constraint", nil, "constraint that must exist (repeatable)")

	return cmd
}

func runProbe(opts *ProbeOptions, table string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	db := opts.Config.Database

	d, err := dialect.New(opts.Config.Vendor())
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, "unsupported vendor", err)
	}
	st, err := store.Open(db.Driver, db.DSN, d,
		store.WithProbeCacheSize(db.ProbeCacheSize),
		store.WithLogger(opts.logger().Named("store")))
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer st.Close()
	f.VerboseLog("connected to %s database via %s", d.Vendor(), db.Driver)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	insp := st.Inspector()

	type check struct {
		kind string
		name string
		run  func(context.Context, string, string) (bool, error)
	}
	checks := []check{{kind: "table", run: func(ctx context.Context, table, _ string) (bool, error) {
		return insp.TableExists(ctx, table)
	}}}
	for _, c := range opts.Columns {
		checks = append(checks, check{"column", c, insp.ColumnExists})
	}
	for _, i := range opts.Indexes {
		checks = append(checks, check{"index", i, insp.IndexExists})
	}
	for _, c := range opts.Constraints {
		checks = append(checks, check{"constraint", c, insp.ConstraintExists})
	}

	results := make([]ProbeResult, 0, len(checks))
	var text strings.Builder
	missing := 0
	for _, c := range checks {
		ok, err := c.run(ctx, table, c.name)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("%s probe failed", c.kind), err)
		}
		r := ProbeResult{Kind: c.kind, Table: table, Name: c.name, Exists: ok}
		results = append(results, r)
		text.WriteString(r.String() + "\n")
		if !ok {
			missing++
		}
	}

	if err := f.Success(text.String(), results); err != nil {
		return err
	}
	if missing > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d probe(s) found nothing", missing, len(results)))
	}
	return nil
}
