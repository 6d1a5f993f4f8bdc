package scraper

import (
	"context"
	"errors"
	"fmt"
	"os"

	"rgscraper/pkg/config"
	"rgscraper/pkg/logger"
	"rgscraper/pkg/redgifs"
	"rgscraper/pkg/storage"
	"rgscraper/pkg/ui"
)

// ErrEmptyUsername is returned when Run is called without a profile name
var ErrEmptyUsername = errors.New("username is required")

// listingState is the pagination state of a run
type listingState int

const (
	stateFetching listingState = iota
	stateDone
)

// ProfileDownloader downloads every video of one RedGifs profile
type ProfileDownloader struct {
	client  RedGifsClient
	config  *config.Config
	logger  logger.Logger
	printer *ui.Printer
}

// New creates a downloader talking to the API configured in cfg
func New(cfg *config.Config, printer *ui.Printer) *ProfileDownloader {
	log := logger.GetLogger()
	return NewWithClient(cfg, redgifs.NewClientFromConfig(cfg, log), printer, log)
}

// NewWithClient creates a downloader around an existing client
func NewWithClient(cfg *config.Config, client RedGifsClient, printer *ui.Printer, log logger.Logger) *ProfileDownloader {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if printer == nil {
		printer = ui.NewPrinter(os.Stdout, cfg.UI.Quiet)
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &ProfileDownloader{
		client:  client,
		config:  cfg,
		logger:  log,
		printer: printer,
	}
}

// Run downloads all of username's videos at the given quality into
// outputDir and returns how many files were written. Any failure aborts
// the run; files written before it stay on disk and are counted in the
// returned total.
func (d *ProfileDownloader) Run(ctx context.Context, username, outputDir string, quality redgifs.Quality) (int, error) {
	username = redgifs.NormalizeUsername(username)
	if username == "" {
		return 0, ErrEmptyUsername
	}
	if outputDir == "" {
		outputDir = d.config.Download.OutputDirectory
	}

	log := logger.ForRun(d.logger, logger.NewRunID(), username)
	logger.LogComponentStart(log, "profile_downloader", map[string]interface{}{
		"output_dir": outputDir,
		"quality":    string(quality),
		"page_size":  d.config.API.PageSize,
	})
	if !quality.IsKnown() {
		log.WarnWithFields("Unrecognised quality, lookups will likely fail", map[string]interface{}{
			"quality": string(quality),
		})
	}

	store, err := storage.NewManager(outputDir, d.config.Download.ChunkSize, log)
	if err != nil {
		log.WithError(err).Error("Failed to prepare output directory")
		return 0, err
	}

	if err := d.client.Authenticate(ctx); err != nil {
		log.WithError(err).Error("Failed to acquire guest token")
		return 0, err
	}

	tracker := ui.NewStatusTracker(d.printer)
	err = d.paginate(ctx, log, store, tracker, username, quality)

	total := tracker.GetDownloadedCount()
	if err != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"downloaded": total,
			"saved":      store.GetSavedCount(),
		}).Error("Run aborted")
		return total, err
	}

	logger.LogComponentStop(log, "profile_downloader", "listing exhausted")
	log.InfoWithFields("Profile download completed", map[string]interface{}{
		"downloaded": total,
		"saved":      store.GetSavedCount(),
		"output_dir": store.GetOutputDir(),
		"bytes":      tracker.GetBytesDownloaded(),
	})
	tracker.PrintSummary()
	return total, nil
}

// paginate walks the listing one page at a time. An empty page always ends
// the walk; the declared page count ends it too when configured to.
func (d *ProfileDownloader) paginate(ctx context.Context, log logger.Logger, store *storage.Manager, tracker *ui.StatusTracker, username string, quality redgifs.Quality) error {
	page := 1
	state := stateFetching

	for state == stateFetching {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp, err := d.client.FetchUserPage(ctx, username, page)
		if err != nil {
			return fmt.Errorf("failed to fetch page %d: %w", page, err)
		}

		logger.LogPageFetched(log, page, len(resp.Gifs), resp.Pages)
		tracker.PageFetched(page, len(resp.Gifs))

		if len(resp.Gifs) == 0 {
			state = stateDone
			continue
		}

		for i := range resp.Gifs {
			if err := d.downloadGif(ctx, log, store, tracker, &resp.Gifs[i], quality); err != nil {
				return err
			}
		}

		if d.config.Download.RespectPageCount && resp.IsLastPage(page) {
			state = stateDone
			continue
		}
		page++
	}

	return nil
}

// downloadGif streams one entry's video to disk
func (d *ProfileDownloader) downloadGif(ctx context.Context, log logger.Logger, store *storage.Manager, tracker *ui.StatusTracker, gif *redgifs.Gif, quality redgifs.Quality) error {
	if err := storage.ValidateID(gif.ID); err != nil {
		logger.LogDownload(log, gif.ID, string(quality), 0, err)
		return err
	}

	mediaURL, err := gif.URL(quality)
	if err != nil {
		logger.LogDownload(log, gif.ID, string(quality), 0, err)
		return err
	}

	body, err := d.client.OpenMedia(ctx, mediaURL)
	if err != nil {
		logger.LogDownload(log, gif.ID, string(quality), 0, err)
		return fmt.Errorf("failed to download %s: %w", gif.ID, err)
	}
	defer body.Close()

	size, err := store.SaveVideo(body, gif.ID)
	logger.LogDownload(log, gif.ID, string(quality), size, err)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", gif.FileName(), err)
	}

	tracker.RecordDownload(gif.FileName(), string(quality), size)
	return nil
}
