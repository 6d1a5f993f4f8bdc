package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information, set at build time
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func newRootCommand(cc *commandContext) *cobra.Command {
	opts := &downloadOptions{}

	rootCmd := &cobra.Command{
		Use:   "rgscraper [username]",
		Short: "Download every video from a RedGifs profile",
		Long: `rgscraper downloads all videos posted by a RedGifs user.

It obtains a temporary guest token, walks the profile's listing newest
first and saves each video as <id>.mp4 in the output directory. Existing
files with the same name are overwritten.

When no username is given and the terminal is interactive, you will be
asked for one.`,
		Example: `  # Download in HD to ./redgifs_videos
  rgscraper exampleuser

  # Download SD renditions into a custom directory
  rgscraper exampleuser --quality sd --output ./videos`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, cc, opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cc.configFile, "config", "c", "", "config file (default is .rgscraper.yaml or $HOME/.config/rgscraper/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&cc.logLevel, "log-level", "info", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().BoolVar(&cc.noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&cc.quiet, "quiet", false, "only print errors and the final count")

	addDownloadFlags(rootCmd, opts)

	rootCmd.SetVersionTemplate(`rgscraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(newDownloadCommand(cc))
	rootCmd.AddCommand(newConfigCommand(cc))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rgscraper %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", gitCommit)
			fmt.Fprintf(out, "  built:  %s\n", buildDate)
			fmt.Fprintf(out, "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
