package redgifs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"rgscraper/pkg/config"
	errs "rgscraper/pkg/errors"
	"rgscraper/pkg/logger"
)

// Options configures a Client
type Options struct {
	BaseURL   string
	UserAgent string
	// Timeout of zero means requests never time out
	Timeout  time.Duration
	PageSize int
	Order    string
}

// Client is the per-run session context: default headers plus, once
// authenticated, a bearer token attached to every request.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	pageSize   int
	order      string
	logger     logger.Logger
}

// NewClient creates a new RedGifs API client
func NewClient(opts Options, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultUserAgent
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Order == "" {
		opts.Order = DefaultOrder
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		headers: map[string]string{
			"User-Agent": opts.UserAgent,
			"Accept":     "application/json, */*",
		},
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		pageSize: opts.PageSize,
		order:    opts.Order,
		logger:   log,
	}
}

// NewClientFromConfig builds a client from the loaded configuration
func NewClientFromConfig(cfg *config.Config, log logger.Logger) *Client {
	return NewClient(Options{
		BaseURL:   cfg.API.BaseURL,
		UserAgent: cfg.API.UserAgent,
		Timeout:   cfg.Download.Timeout,
		PageSize:  cfg.API.PageSize,
		Order:     cfg.API.Order,
	}, log)
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetBearerToken installs the Authorization header used by all later requests
func (c *Client) SetBearerToken(token string) {
	c.SetHeader("Authorization", "Bearer "+token)
}

// IsAuthenticated reports whether a bearer token has been installed
func (c *Client) IsAuthenticated() bool {
	_, ok := c.headers["Authorization"]
	return ok
}

// PageSize is the number of entries requested per listing page
func (c *Client) PageSize() int {
	return c.pageSize
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.Wrap(errs.ErrorTypeNetwork, fmt.Sprintf("%s %s", req.Method, req.URL.String()), err)
	}

	logger.LogRequest(c.logger, req.Method, req.URL.String(), resp.StatusCode, duration.Milliseconds())

	return resp, nil
}

// Get performs a GET request to the specified URL
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeNetwork, "failed to create request", err)
	}

	return c.doRequest(req)
}

// GetJSON performs a GET request and decodes a successful JSON response
func (c *Client) GetJSON(ctx context.Context, url string, target interface{}) error {
	body, err := c.getBody(ctx, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"error":        err.Error(),
			"body_preview": preview(body),
		})
		return errs.Wrap(errs.ErrorTypeDataShape, "failed to parse JSON", err)
	}

	return nil
}

// getBody GETs url and returns the whole body of a 2xx response
func (c *Client) getBody(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeNetwork, "failed to read response body", err)
	}
	return body, nil
}

// checkResponseStatus turns any non-2xx status into a typed error
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	url := ""
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}
	return errs.FromStatusCode(resp.StatusCode, url)
}

// FetchTemporaryToken requests a guest token; no credentials are sent
func (c *Client) FetchTemporaryToken(ctx context.Context) (string, error) {
	url := GetTemporaryTokenURL(c.baseURL)

	body, err := c.getBody(ctx, url)
	if err != nil {
		c.logger.WithError(err).Error("failed to fetch temporary token")
		return "", fmt.Errorf("failed to fetch temporary token: %w", err)
	}

	token := gjson.GetBytes(body, "token")
	if token.Type != gjson.String || token.String() == "" {
		return "", errs.New(errs.ErrorTypeDataShape, "temporary auth response has no token")
	}

	return token.String(), nil
}

// Authenticate fetches a guest token and installs it on the session.
// The token is never refreshed.
func (c *Client) Authenticate(ctx context.Context) error {
	token, err := c.FetchTemporaryToken(ctx)
	if err != nil {
		return err
	}
	c.SetBearerToken(token)
	c.logger.Debug("guest token installed")
	return nil
}

// FetchUserPage fetches one page of a user's listing. A 404 means the
// profile does not exist and is reported as ErrorTypeNotFound.
func (c *Client) FetchUserPage(ctx context.Context, username string, page int) (*SearchResponse, error) {
	url := GetUserSearchURL(c.baseURL, username, page, c.pageSize, c.order)

	c.logger.DebugWithFields("fetching user page", map[string]interface{}{
		"username": username,
		"page":     page,
		"url":      url,
	})

	var response SearchResponse
	if err := c.GetJSON(ctx, url, &response); err != nil {
		if errs.IsType(err, errs.ErrorTypeHTTP) && statusOf(err) == http.StatusNotFound {
			return nil, &errs.Error{
				Type:    errs.ErrorTypeNotFound,
				Message: fmt.Sprintf("user %q not found, please check the username", username),
				Code:    http.StatusNotFound,
			}
		}
		return nil, err
	}

	return &response, nil
}

// OpenMedia starts streaming a gif's video. The caller closes the body.
func (c *Client) OpenMedia(ctx context.Context, mediaURL string) (io.ReadCloser, error) {
	resp, err := c.Get(ctx, mediaURL)
	if err != nil {
		return nil, err
	}

	if err := c.checkResponseStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp.Body, nil
}

func statusOf(err error) int {
	var e *errs.Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

const previewLimit = 200

// preview shortens a response body for logging without splitting a rune
func preview(body []byte) string {
	if len(body) <= previewLimit {
		return string(body)
	}
	n := previewLimit
	for n > 0 && !utf8.RuneStart(body[n]) {
		n--
	}
	return string(body[:n]) + "..."
}
