package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"rgscraper/pkg/config"
)

func newConfigCommand(cc *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
		Long: `Manage rgscraper configuration files.

Configuration is resolved in this order, highest priority first:
  - Command line flags
  - Environment variables (RGSCRAPER_*, also read from .env)
  - Configuration file
  - Default values`,
	}

	configCmd.AddCommand(newConfigInitCommand(cc))
	configCmd.AddCommand(newConfigShowCommand(cc))
	configCmd.AddCommand(newConfigValidateCommand(cc))

	return configCmd
}

func newConfigInitCommand(cc *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default values",
		Long: `Write a configuration file holding every option at its default value.

The file is created as '.rgscraper.yaml' in the current directory unless
a different path is given with --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cc.configFile
			if path == "" {
				path = config.DefaultLocations()[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("configuration file %s already exists (use --force to overwrite)", path)
			}

			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}

			p := cc.printer(cmd, nil)
			p.PrintSuccess("Configuration file created: " + path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func newConfigShowCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cc.loadConfig(cmd, nil)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to format configuration: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newConfigValidateCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Long: `Load the configuration from every source and check it for invalid values.

Exits non-zero and lists every problem when validation fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cc.loadConfig(cmd, nil)
			if err != nil {
				return err
			}

			p := cc.printer(cmd, cfg)
			p.PrintSuccess("Configuration is valid")
			p.PrintInfo("Output directory", cfg.Download.OutputDirectory)
			p.PrintInfo("Quality", cfg.Download.Quality)
			p.PrintInfo("Page size", fmt.Sprint(cfg.API.PageSize))
			p.PrintInfo("Respect page count", fmt.Sprint(cfg.Download.RespectPageCount))
			p.PrintInfo("Log level", cfg.Logging.Level)
			return nil
		},
	}
}
