package redgifs

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// BaseURL is the RedGifs API host
	BaseURL = "https://api.redgifs.com"

	// TemporaryAuthEndpoint issues guest bearer tokens
	TemporaryAuthEndpoint = "/v2/auth/temporary"

	// UserSearchEndpoint lists a user's gifs; %s is the lowercased username
	UserSearchEndpoint = "/v2/users/%s/search"

	// DefaultPageSize is the largest page the listing endpoint serves
	DefaultPageSize = 100

	// DefaultOrder lists newest gifs first
	DefaultOrder = "new"
)

// GetTemporaryTokenURL constructs the guest token URL
func GetTemporaryTokenURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + TemporaryAuthEndpoint
}

// GetUserSearchURL constructs the URL for one page of a user's listing
func GetUserSearchURL(baseURL, username string, page, count int, order string) string {
	if count <= 0 {
		count = DefaultPageSize
	}
	if order == "" {
		order = DefaultOrder
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("count", strconv.Itoa(count))
	params.Set("order", order)

	path := fmt.Sprintf(UserSearchEndpoint, url.PathEscape(strings.ToLower(username)))
	return fmt.Sprintf("%s%s?%s", strings.TrimRight(baseURL, "/"), path, params.Encode())
}

// NormalizeUsername trims input the way users tend to paste it: surrounding
// spaces, a leading @, a trailing slash or a full profile URL. The result is
// lowercased.
func NormalizeUsername(username string) string {
	username = strings.TrimSpace(username)
	username = strings.TrimRight(username, "/")

	if i := strings.LastIndex(username, "/users/"); i >= 0 {
		username = username[i+len("/users/"):]
		if j := strings.IndexAny(username, "/?#"); j >= 0 {
			username = username[:j]
		}
	}

	username = strings.TrimPrefix(username, "@")
	return strings.ToLower(username)
}
