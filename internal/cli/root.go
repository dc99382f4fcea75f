package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/schemaql/internal/config"
)

// RootOptions holds global flags for all commands and the state
// PersistentPreRunE derives from them.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	Config config.Config
	Logger *zap.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the schemaql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "schemaql",
		Short: "schemaql - schema-driven SQL over a content store",
		Long: `Inspect bean definitions kept in a content store, render the SQL the
query layer produces for each database vendor, and probe live schemas.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (.cue, .json or .hujson)")

	// Add subcommands
	cmd.AddCommand(NewBeansCommand(opts))
	cmd.AddCommand(NewProbeCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))

	return cmd
}

// setup validates the global flags, loads the configuration and builds the
// logger. Verbose forces debug logging.
func (o *RootOptions) setup() error {
	if !slices.Contains(ValidFormats, o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	o.Config = config.Default()
	if o.ConfigPath != "" {
		cfg, err := config.Load(o.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
		o.Config = cfg
	}
	if o.Verbose {
		o.Config.Log.Level = "debug"
	}

	logger, err := config.NewLogger(o.Config.Log)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to initialize logger", err)
	}
	o.Logger = logger
	return nil
}

// logger returns the configured logger, or a no-op logger when a command
// runs without the root's pre-run hook.
func (o *RootOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
