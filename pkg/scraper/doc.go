// Package scraper downloads every video of a RedGifs profile.
//
// A run acquires a guest token, then walks the profile's listing page by
// page and streams each entry's video to <output>/<id>.mp4 in listing
// order. Downloads are sequential and nothing is retried: the first error
// aborts the run, leaving already written files in place.
//
//	d := scraper.New(cfg, ui.NewPrinter(os.Stdout, false))
//	n, err := d.Run(ctx, "exampleuser", "redgifs_videos", redgifs.QualityHD)
//
// The listing ends on the first page with no entries. When the API
// declares a page count and download.respect_page_count is set, it also
// ends after that page.
package scraper
