// Package cli provides the command-line interface of fluentdao: it reflects a
// MySQL schema and runs or renders single-table statements against it.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	fluentdao "github.com/biyonik/go-fluent-dao"
	"github.com/biyonik/go-fluent-dao/internal/config"
)

// OpenFunc opens an Accessor for a configuration. fluentdao.Open in production.
type OpenFunc func(ctx context.Context, cfg *fluentdao.Config, opts ...fluentdao.Option) (*fluentdao.Accessor, error)

// runtimeKey is used to store the loaded runtime in the command context.
type runtimeKey struct{}

// runtime is what PersistentPreRunE prepares for every subcommand.
type runtime struct {
	cfg    *fluentdao.Config
	logger *slog.Logger
	format string
	open   OpenFunc
}

// NewRootCmd creates and returns the root command. A nil open uses fluentdao.Open.
func NewRootCmd(open OpenFunc) *cobra.Command {
	if open == nil {
		open = fluentdao.Open
	}

	var (
		cfgFile string
		verbose bool
		format  string
	)

	rootCmd := &cobra.Command{
		Use:   "fluentdao",
		Short: "Schema-driven access to MySQL tables",
		Long: `fluentdao reflects the tables of a MySQL schema and queries them with
filter mappings instead of hand-written SQL.

Filters are given as key=value arguments. Keys use the operator prefixes
(_in_, _nein_, _like_, _llike_, _rlike_, _ne_, _lt_, _le_, _gt_, _ge_) and the
directives groupby, orderby and ordertype.`,
		Version: fluentdao.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			res, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			if res.File != "" {
				logger.Debug("using config file", slog.String("path", res.File))
			}

			if format != formatTable && format != formatJSON {
				return fmt.Errorf("unknown output format %q (table|json)", format)
			}

			rt := &runtime{cfg: res.Config, logger: logger, format: format, open: open}
			cmd.SetContext(context.WithValue(cmd.Context(), runtimeKey{}, rt))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./fluentdao.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&format, "output", "o", formatTable, "output format (table|json)")
	config.RegisterFlags(rootCmd.PersistentFlags())

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{formatTable, formatJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("render-mode", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"literal", "bound"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newTablesCommand())
	rootCmd.AddCommand(newDescribeCommand())
	rootCmd.AddCommand(newSelectCommand())
	rootCmd.AddCommand(newGetCommand())
	rootCmd.AddCommand(newCountCommand())
	rootCmd.AddCommand(newPageCommand())
	rootCmd.AddCommand(newRenderCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd(nil)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// openAccessor opens the database described by the loaded configuration.
// The returned cleanup closes it.
func openAccessor(cmd *cobra.Command) (*fluentdao.Accessor, *runtime, func(), error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtime)
	if !ok {
		return nil, nil, nil, fmt.Errorf("configuration not loaded")
	}

	acc, err := rt.open(cmd.Context(), rt.cfg,
		fluentdao.WithLogger(fluentdao.NewSlogLogger(rt.logger)),
		fluentdao.WithDebug(rt.cfg.Debug),
	)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		if err := acc.Close(); err != nil {
			rt.logger.Warn("close failed", slog.String("error", err.Error()))
		}
	}
	return acc, rt, cleanup, nil
}
