// Package cli implements the contactdeck command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/contactdeck/internal/config"
	"github.com/rshade/contactdeck/internal/logging"
)

// Command annotations read by the root pre-run hook.
const (
	// annotationInteractive marks commands that take over the terminal.
	annotationInteractive = "contactdeck/interactive"
	// annotationSkipConfig marks commands that manage the config file themselves.
	annotationSkipConfig = "contactdeck/skip-config"
)

// logger is the package-level logger for CLI operations.
var logger = zerolog.Nop() //nolint:gochecknoglobals // Set once per command by setupLogging.

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// rootOptions carries state shared between the root command and its subcommands.
type rootOptions struct {
	configPath string
	debug      bool
	lookupEnv  func(string) (string, bool)

	flags sourceFlags

	cfg       *config.Config
	logResult *logging.LogPathResult
}

// NewRootCmd creates the root Cobra command for the contactdeck CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for testability.
// Running the root command without a subcommand starts the browser.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	opts := &rootOptions{lookupEnv: lookupEnv}

	cmd := &cobra.Command{
		Use:     "contactdeck",
		Short:   "Browse a paginated contact list in the terminal",
		Long:    "contactdeck: browse, select and export contacts served page by page by a simulated, flaky API",
		Version: ver,
		Example: rootCmdExample,
		Annotations: map[string]string{
			annotationInteractive: "true",
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd, opts)
			opts.logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, opts.logResult)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd, opts)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default $CONTACTDECK_HOME/config.yaml or ~/.contactdeck/config.yaml)")
	opts.flags.register(cmd)

	cmd.AddCommand(newBrowseCmd(opts), newDumpCmd(opts), newConfigCmd(opts))

	return cmd
}

const rootCmdExample = `  # Browse contacts (same as "contactdeck browse")
  contactdeck

  # Browse with a faster, more reliable API
  contactdeck --latency 200ms --failure-rate 0.1

  # Export the first three pages as JSON
  contactdeck dump --pages 3 --output json

  # Serve Prometheus metrics while browsing
  contactdeck browse --metrics-addr :9090

  # Initialize configuration
  contactdeck config init`

// loadConfig resolves the config path, loads the file, applies environment
// and flag overrides, and validates the result.
func (o *rootOptions) loadConfig(cmd *cobra.Command) error {
	path := o.configPath
	if path == "" {
		defaultPath, err := config.DefaultConfigPath(o.lookupEnv)
		if err != nil {
			return err
		}
		path = defaultPath
	}
	o.configPath = path

	if skipsConfig(cmd) {
		o.cfg = config.NewInDir(filepath.Dir(path))
		return nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(o.lookupEnv); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	o.flags.apply(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	o.cfg = cfg
	return nil
}

func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationSkipConfig] == "true" {
			return true
		}
	}
	return false
}

func isInteractive(cmd *cobra.Command) bool {
	return cmd.Annotations[annotationInteractive] == "true"
}
