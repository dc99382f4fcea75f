package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

// BeansOptions holds flags for the beans command.
type BeansOptions struct {
	*RootOptions
	Output string
}

// NewBeansCommand creates the beans command.
func NewBeansCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BeansOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "beans <content.yaml>...",
		Short: "Load content and print the resolved bean definitions",
		Long: `Import YAML content into an in-memory content store, load the bean
definition registry over the configured roots and print every definition
with its resolved property chain as canonical JSON.

Example:
  schemaql beans ./content/beans.yaml
  schemaql beans -c schemaql.cue --out registry.json ./content/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBeans(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "write the registry dump to a file instead of stdout")

	return cmd
}

func runBeans(opts *BeansOptions, files []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	reg, err := opts.loadRegistry(f, files)
	if err != nil {
		return err
	}
	defer reg.Close()

	dump, err := reg.Dump()
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeRegistry, "failed to dump bean definitions", err)
	}

	if opts.Output == "" {
		return f.Success(string(dump), json.RawMessage(dump))
	}

	if err := atomic.WriteFile(opts.Output, bytes.NewReader(dump)); err != nil {
		return f.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write registry dump", err)
	}
	return f.Success(
		fmt.Sprintf("wrote %d bean definition(s) to %s\n", reg.Len(), opts.Output),
		map[string]any{"path": opts.Output, "definitions": reg.Len()})
}
