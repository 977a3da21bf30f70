package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/contactdeck/internal/config"
)

// newConfigCmd creates the config command group. Its commands read the
// config file themselves, so a broken file does not prevent fixing it.
func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
		Annotations: map[string]string{
			annotationSkipConfig: "true",
		},
	}
	cmd.AddCommand(newConfigInitCmd(opts), newConfigShowCmd(opts), newConfigValidateCmd(opts))
	return cmd
}

// newConfigInitCmd creates the config init command for initializing configuration.
func newConfigInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Example: `  # Create ~/.contactdeck/config.yaml
  contactdeck config init

  # Create configuration, overwriting existing
  contactdeck config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := config.Init(opts.configPath, force); err != nil {
				if errors.Is(err, config.ErrConfigAlreadyExists) {
					return fmt.Errorf("%w, use --force to overwrite", err)
				}
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			cmd.Printf("Configuration initialized at %s\n", opts.configPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	return cmd
}

// newConfigShowCmd prints the effective configuration: file values with
// environment overrides applied.
func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if err := cfg.ApplyEnv(opts.lookupEnv); err != nil {
				return fmt.Errorf("invalid environment override: %w", err)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}
			return enc.Close()
		},
	}
}

// newConfigValidateCmd checks the configuration file and environment overrides.
func newConfigValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if err := errors.Join(cfg.ApplyEnv(opts.lookupEnv), cfg.Validate()); err != nil {
				return fmt.Errorf("configuration is invalid: %w", err)
			}
			cmd.Printf("Configuration at %s is valid\n", opts.configPath)
			return nil
		},
	}
}
