package main

import (
	"os"

	"github.com/spf13/cobra"
	"rgscraper/pkg/config"
	"rgscraper/pkg/logger"
	"rgscraper/pkg/ui"
)

// stdinIsTerminal decides whether a missing username is prompted for
var stdinIsTerminal = func() bool {
	return ui.IsInteractive(os.Stdin)
}

// commandContext carries the persistent flags shared by every command
type commandContext struct {
	configFile string
	logLevel   string
	noColor    bool
	quiet      bool
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

// globalFlags returns the persistent flags the user actually set, keyed
// the way config.MergeCommandLineFlags expects
func (c *commandContext) globalFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	if cmd.Flags().Changed("log-level") {
		flags["log-level"] = c.logLevel
	}
	if c.noColor {
		flags["color"] = false
	}
	if c.quiet {
		flags["quiet"] = true
	}
	return flags
}

// loadConfig resolves configuration from every source, then sets up
// colours and the global logger from it
func (c *commandContext) loadConfig(cmd *cobra.Command, extra map[string]interface{}) (*config.Config, error) {
	flags := c.globalFlags(cmd)
	for k, v := range extra {
		flags[k] = v
	}

	cfg, err := config.Load(c.configFile, flags)
	if err != nil {
		return nil, err
	}

	ui.SetColorEnabled(cfg.UI.ColorEnabled && ui.ColorSupported(os.Stdout))

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}

// printer returns the user-facing printer for cmd's output stream
func (c *commandContext) printer(cmd *cobra.Command, cfg *config.Config) *ui.Printer {
	quiet := c.quiet
	if cfg != nil {
		quiet = cfg.UI.Quiet
	}
	return ui.NewPrinter(cmd.OutOrStdout(), quiet)
}
