package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"rgscraper/pkg/logger"
	"rgscraper/pkg/redgifs"
	"rgscraper/pkg/scraper"
	"rgscraper/pkg/ui"
)

// ErrNoUsername is returned when no username was given and none can be prompted for
var ErrNoUsername = errors.New("a username is required when stdin is not a terminal")

type downloadOptions struct {
	output          string
	quality         string
	pageSize        int
	ignorePageCount bool
}

func addDownloadFlags(cmd *cobra.Command, opts *downloadOptions) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default \"redgifs_videos\")")
	cmd.Flags().StringVarP(&opts.quality, "quality", "q", "", "video quality to download: hd or sd (default \"hd\")")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "entries requested per listing page (default 100)")
	cmd.Flags().BoolVar(&opts.ignorePageCount, "ignore-page-count", false, "keep paging until an empty page even when the API reports a page count")
}

// flagMap returns the download flags the user actually set
func (o *downloadOptions) flagMap(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	if cmd.Flags().Changed("output") {
		flags["output"] = o.output
	}
	if cmd.Flags().Changed("quality") {
		flags["quality"] = o.quality
	}
	if cmd.Flags().Changed("page-size") {
		flags["page-size"] = o.pageSize
	}
	if o.ignorePageCount {
		flags["respect-page-count"] = false
	}
	return flags
}

func newDownloadCommand(cc *commandContext) *cobra.Command {
	opts := &downloadOptions{}

	cmd := &cobra.Command{
		Use:   "download [username]",
		Short: "Download every video from a RedGifs profile",
		Long: `Download every video from a RedGifs profile.

This is what the root command does when given a username.`,
		Example: `  rgscraper download exampleuser --quality sd`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, cc, opts, args)
		},
	}
	addDownloadFlags(cmd, opts)

	return cmd
}

// resolveUsername takes the username from args, or prompts for it on an
// interactive terminal
func resolveUsername(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if !stdinIsTerminal() {
		return "", ErrNoUsername
	}
	return ui.PromptUsername(cmd.InOrStdin(), cmd.OutOrStdout())
}

func runDownload(cmd *cobra.Command, cc *commandContext, opts *downloadOptions, args []string) error {
	username, err := resolveUsername(cmd, args)
	if err != nil {
		return err
	}

	cfg, err := cc.loadConfig(cmd, opts.flagMap(cmd))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	printer := cc.printer(cmd, cfg)
	quality := redgifs.Quality(cfg.Download.Quality)
	username = redgifs.NormalizeUsername(username)

	printer.PrintLogo()
	printer.PrintBanner(username, cfg.Download.OutputDirectory, string(quality))

	logger.WithFields(map[string]interface{}{
		"version":  version,
		"username": username,
	}).Info("rgscraper starting")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	downloader := scraper.New(cfg, printer)
	total, err := downloader.Run(ctx, username, cfg.Download.OutputDirectory, quality)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			printer.PrintWarning(fmt.Sprintf("Interrupted after %d videos", total))
		}
		return err
	}

	return nil
}
