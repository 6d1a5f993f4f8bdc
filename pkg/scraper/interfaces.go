package scraper

import (
	"context"
	"io"

	"rgscraper/pkg/redgifs"
)

// RedGifsClient defines the API operations a run needs
type RedGifsClient interface {
	Authenticate(ctx context.Context) error
	FetchUserPage(ctx context.Context, username string, page int) (*redgifs.SearchResponse, error)
	OpenMedia(ctx context.Context, mediaURL string) (io.ReadCloser, error)
}
