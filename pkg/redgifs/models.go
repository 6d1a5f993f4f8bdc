package redgifs

import (
	"fmt"

	errs "rgscraper/pkg/errors"
)

// Quality selects which rendition of a gif is downloaded
type Quality string

const (
	QualityHD Quality = "hd"
	QualitySD Quality = "sd"
)

// IsKnown reports whether q is one of the renditions the API publishes.
// Unknown values are still passed through and fail on lookup.
func (q Quality) IsKnown() bool {
	return q == QualityHD || q == QualitySD
}

// SearchResponse is one page of a user's listing
type SearchResponse struct {
	Page  int   `json:"page"`
	Pages *int  `json:"pages,omitempty"`
	Total int   `json:"total"`
	Gifs  []Gif `json:"gifs"`
}

// IsLastPage reports whether the response declares page as the final one
func (r *SearchResponse) IsLastPage(page int) bool {
	return r.Pages != nil && page >= *r.Pages
}

// Gif is a single media entry in a listing
type Gif struct {
	ID         string            `json:"id"`
	UserName   string            `json:"userName"`
	CreateDate int64             `json:"createDate"`
	Duration   float64           `json:"duration"`
	URLs       map[string]string `json:"urls"`
}

// URL returns the pre-signed URL for the requested rendition
func (g *Gif) URL(quality Quality) (string, error) {
	u, ok := g.URLs[string(quality)]
	if !ok || u == "" {
		return "", errs.New(errs.ErrorTypeDataShape,
			fmt.Sprintf("gif %q has no %q url", g.ID, quality))
	}
	return u, nil
}

// FileName is the on-disk name for the gif's video
func (g *Gif) FileName() string {
	return g.ID + ".mp4"
}
