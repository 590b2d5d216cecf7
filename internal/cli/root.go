// Package cli provides the command-line interface for auracheck-mcp.
package cli

import (
	"fmt"
	"runtime"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ironsheep/auracheck-mcp/internal/config"
	"github.com/ironsheep/auracheck-mcp/internal/logging"
	"github.com/ironsheep/auracheck-mcp/internal/server"
)

// BuildInfo is injected by main from ldflags.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (built %s, commit %s, %s, %s/%s)",
		server.Name, b.Version, b.BuildTime, b.GitCommit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
}

func (o *globalOptions) register(fs *pflag.FlagSet) {
	fs.StringVarP(&o.configPath, "config", "c", "", "config file (.toml, .yaml or .json)")
	fs.StringVar(&o.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, off")
}

// load reads the configuration and builds the stderr logger.
func (o *globalOptions) load(cmd *cobra.Command) (config.Config, hclog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("config: %w", err)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
		if err := cfg.Validate(); err != nil {
			return cfg, nil, err
		}
	}
	return cfg, logging.New(server.Name, cfg.LogLevel, cmd.ErrOrStderr()), nil
}

// NewRootCmd builds the command tree. Without a subcommand the root serves
// MCP on stdin/stdout.
func NewRootCmd(build BuildInfo) *cobra.Command {
	if build.Version == "" {
		build.Version = "dev"
	}
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   server.Name,
		Short: "MCP server for checking WCAG color contrast in images",
		Long: `auracheck-mcp picks colors from an image and reports the WCAG 2.x contrast
ratio of every pair, with AA and AAA verdicts for normal and large text.

Run without a subcommand to serve the Model Context Protocol over stdio.
Configure it in your MCP client (e.g., Claude Desktop).`,
		Version:      build.Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}
			log.Debug("starting", "build", build.String())
			srv := server.New(server.Options{Config: &cfg, Logger: log, Version: build.Version})
			return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	opts.register(root.PersistentFlags())
	root.SetVersionTemplate(build.String() + "\n")

	root.AddCommand(newVersionCmd(build))
	root.AddCommand(newCheckCmd(opts))
	return root
}

func newVersionCmd(build BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), build.String())
		},
	}
}
