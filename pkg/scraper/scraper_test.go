package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rgscraper/pkg/config"
	errs "rgscraper/pkg/errors"
	"rgscraper/pkg/logger"
	"rgscraper/pkg/redgifs"
	"rgscraper/pkg/ui"
)

// mockRedGifsServer serves the token, listing and media endpoints
type mockRedGifsServer struct {
	server *httptest.Server

	mu         sync.Mutex
	username   string
	pages      [][]mockGif
	totalPages *int
	listStatus int
	tokenCalls int
	pageCalls  []int
	mediaCalls []string
	authHeader []string
}

type mockGif struct {
	id   string
	urls map[string]bool
}

func gifs(ids ...string) []mockGif {
	out := make([]mockGif, len(ids))
	for i, id := range ids {
		out[i] = mockGif{id: id, urls: map[string]bool{"hd": true, "sd": true}}
	}
	return out
}

func newMockRedGifsServer(t *testing.T, username string, pages ...[]mockGif) *mockRedGifsServer {
	t.Helper()

	m := &mockRedGifsServer{username: username, pages: pages}
	mux := http.NewServeMux()

	mux.HandleFunc("/v2/auth/temporary", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.tokenCalls++
		m.mu.Unlock()
		fmt.Fprint(w, `{"token":"guest-token"}`)
	})

	mux.HandleFunc("/v2/users/", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()

		m.authHeader = append(m.authHeader, r.Header.Get("Authorization"))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		m.pageCalls = append(m.pageCalls, page)

		if m.listStatus != 0 {
			w.WriteHeader(m.listStatus)
			return
		}
		if r.URL.Path != "/v2/users/"+m.username+"/search" {
			http.NotFound(w, r)
			return
		}

		body := map[string]interface{}{"page": page, "total": 0, "gifs": []interface{}{}}
		if m.totalPages != nil {
			body["pages"] = *m.totalPages
		}
		if page >= 1 && page <= len(m.pages) {
			var entries []interface{}
			for _, g := range m.pages[page-1] {
				urls := map[string]string{}
				for quality := range g.urls {
					urls[quality] = fmt.Sprintf("%s/media/%s-%s.mp4", m.server.URL, g.id, quality)
				}
				entries = append(entries, map[string]interface{}{"id": g.id, "urls": urls})
			}
			body["gifs"] = entries
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	})

	mux.HandleFunc("/media/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/media/")

		m.mu.Lock()
		m.mediaCalls = append(m.mediaCalls, name)
		m.authHeader = append(m.authHeader, r.Header.Get("Authorization"))
		m.mu.Unlock()

		if strings.HasPrefix(name, "gone") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprintf(w, "video:%s", name)
	})

	m.server = httptest.NewServer(mux)
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockRedGifsServer) setPages(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalPages = &n
}

func (m *mockRedGifsServer) calls() (pages []int, media []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.pageCalls...), append([]string(nil), m.mediaCalls...)
}

type harness struct {
	downloader *ProfileDownloader
	log        *logger.TestLogger
	out        *bytes.Buffer
	dir        string
}

func newHarness(t *testing.T, m *mockRedGifsServer, mutate ...func(*config.Config)) *harness {
	t.Helper()
	ui.SetColorEnabled(false)

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = m.server.URL
	for _, fn := range mutate {
		fn(cfg)
	}

	log := logger.NewTestLogger()
	out := &bytes.Buffer{}
	client := redgifs.NewClientFromConfig(cfg, log)

	return &harness{
		downloader: NewWithClient(cfg, client, ui.NewPrinter(out, false), log),
		log:        log,
		out:        out,
		dir:        filepath.Join(t.TempDir(), "videos"),
	}
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunEndToEnd(t *testing.T) {
	m := newMockRedGifsServer(t, "exampleuser", gifs("abc123"))
	h := newHarness(t, m)

	n, err := h.downloader.Run(context.Background(), "exampleuser", h.dir, redgifs.QualityHD)
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"abc123.mp4"}, listFiles(t, h.dir))

	content, err := os.ReadFile(filepath.Join(h.dir, "abc123.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "video:abc123-hd.mp4", string(content))

	assert.Contains(t, h.out.String(), "Downloaded: abc123.mp4 (HD)\n")
	assert.Contains(t, h.out.String(), "Total videos downloaded: 1\n")

	pages, _ := m.calls()
	assert.Equal(t, []int{1, 2}, pages)
	for _, header := range m.authHeader {
		assert.Equal(t, "Bearer guest-token", header)
	}
	assert.Equal(t, 1, m.tokenCalls)

	var summary *logger.LogMessage
	for _, msg := range h.log.GetMessages() {
		if msg.Message == "Profile download completed" {
			msg := msg
			summary = &msg
		}
	}
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.Fields["saved"])
	assert.Equal(t, h.dir, summary.Fields["output_dir"])
}

func TestRunDownloadsEveryEntryAcrossPages(t *testing.T) {
	m := newMockRedGifsServer(t, "someone",
		gifs("a1", "a2", "a3"),
		gifs("b1", "b2"),
		gifs("c1"),
	)
	h := newHarness(t, m)

	n, err := h.downloader.Run(context.Background(), "someone", h.dir, redgifs.QualitySD)
	require.NoError(t, err)

	assert.Equal(t, 6, n)
	assert.ElementsMatch(t,
		[]string{"a1.mp4", "a2.mp4", "a3.mp4", "b1.mp4", "b2.mp4", "c1.mp4"},
		listFiles(t, h.dir))

	pages, media := m.calls()
	assert.Equal(t, []int{1, 2, 3, 4}, pages)
	assert.Equal(t, []string{
		"a1-sd.mp4", "a2-sd.mp4", "a3-sd.mp4", "b1-sd.mp4", "b2-sd.mp4", "c1-sd.mp4",
	}, media)
}

func TestRunStopsAtFirstEmptyPage(t *testing.T) {
	m := newMockRedGifsServer(t, "someone", gifs("a1"), nil, gifs("never"))
	h := newHarness(t, m)

	n, err := h.downloader.Run(context.Background(), "someone", h.dir, redgifs.QualityHD)
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	pages, _ := m.calls()
	assert.Equal(t, []int{1, 2}, pages)
	assert.Equal(t, []string{"a1.mp4"}, listFiles(t, h.dir))
}

func TestRunHonoursPageCount(t *testing.T) {
	m := newMockRedGifsServer(t, "someone", gifs("a1"), gifs("b1"), gifs("c1"))
	m.setPages(2)
	h := newHarness(t, m)

	n, err := h.downloader.Run(context.Background(), "someone", h.dir, redgifs.QualityHD)
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	pages, _ := m.calls()
	assert.Equal(t, []int{1, 2}, pages)
}

func TestRunIgnoresPageCountWhenDisabled(t *testing.T) {
	m := newMockRedGifsServer(t, "someone", gifs("a1"), gifs("b1"), gifs("c1"))
	m.setPages(1)
	h := newHarness(t, m, func(c *config.Config) {
		c.Download.RespectPageCount = false
	})

	n, err := h.downloader.Run(context.Background(), "someone", h.dir, redgifs.QualityHD)
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	pages, _ := m.calls()
	assert.Equal(t, []int{1, 2, 3, 4}, pages)
}

func TestRunUnknownUser(t *testing.T) {
	m := newMockRedGifsServer(t, "exampleuser", gifs("abc123"))
	h := newHarness(t, m)

	n, err := h.downloader.Run(context.Background(), "ghost", h.dir, redgifs.QualityHD)
	require.Error(t, err)

	assert.Zero(t, n)
	assert.True(t, errs.IsNotFound(err))
	assert.Contains(t, err.Error(), `user "ghost" not found`)
	assert.Empty(t, listFiles(t, h.dir))
	assert.NotContains(t, h.out.String(), "Total videos downloaded")
}

func TestRunListingServerError(t *testing.T) {
	m := newMockRedGifsServer(t, "someone", gifs("a1"))
	m.listStatus = http.StatusServiceUnavailable
	h := newHarness(t, m)

	_, err := h.downloader.Run(context.Background(), "someone", h.dir, redgifs.QualityHD)
	require.Error(t, err)

	assert.False(t, errs.IsNotFound(err))
	assert.True(t, errs.IsType(err, errs.ErrorTypeHTTP))
	pages, _ := m.calls()
	assert.Equal(t, []int{1}, pages)
}

func TestRunMissingQualityAborts(t *testing.T) {
	page := gifs("a1", "a2", "a3")
	page[1].urls = map[string]bool{"sd": true}
	m := newMockRedGifsServer(t, "someone", page)
	h := newHarness(t, m)

	n, err := h.downloader.Run(context.Background(), "someone", h.dir, redgifs.QualityHD)
	require.Error(t, err)

	assert.True(t, errs.IsType(err, errs.ErrorTypeDataShape))
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"a1.mp4"}, listFiles(t, h.dir))

	_, media := m.calls()
	assert.Equal(t, []string{"a1-hd.mp4"}, media)
	assert.True(t, h.log.HasMessage("Download failed"))
}

func TestRunMediaErrorAborts(t *testing.T) {
	m := newMockRedGifsServer(t, "someone", gifs("a1", "gone", "a3"))
	h := newHarness(t, m)

	n, err := h.downloader.Run(context.Background(), "someone", h.dir, redgifs.QualityHD)
	require.Error(t, err)

	assert.Equal(t, 1, n)
	assert.True(t, errs.IsType(err, errs.ErrorTypeAuth))
	assert.Equal(t, []string{"a1.mp4"}, listFiles(t, h.dir))
}

func TestRunIsRepeatableAndOverwrites(t *testing.T) {
	m := newMockRedGifsServer(t, "someone", gifs("a1"))
	h := newHarness(t, m)

	require.NoError(t, os.MkdirAll(h.dir, 0755))
	stale := filepath.Join(h.dir, "a1.mp4")
	require.NoError(t, os.WriteFile(stale, []byte("stale content that is longer"), 0644))

	for i := 0; i < 2; i++ {
		n, err := h.downloader.Run(context.Background(), "someone", h.dir, redgifs.QualityHD)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}

	content, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.Equal(t, "video:a1-hd.mp4", string(content))
	assert.Equal(t, []string{"a1.mp4"}, listFiles(t, h.dir))
}

func TestRunNormalizesUsername(t *testing.T) {
	m := newMockRedGifsServer(t, "exampleuser", gifs("abc123"))
	h := newHarness(t, m)

	n, err := h.downloader.Run(context.Background(), "  ExampleUser ", h.dir, redgifs.QualityHD)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRunEmptyUsername(t *testing.T) {
	m := newMockRedGifsServer(t, "exampleuser")
	h := newHarness(t, m)

	_, err := h.downloader.Run(context.Background(), "   ", h.dir, redgifs.QualityHD)
	assert.ErrorIs(t, err, ErrEmptyUsername)
	assert.Zero(t, m.tokenCalls)
}

func TestRunTokenFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/auth/temporary", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = server.URL
	log := logger.NewTestLogger()
	d := NewWithClient(cfg, redgifs.NewClientFromConfig(cfg, log), ui.NewPrinter(io.Discard, true), log)

	dir := filepath.Join(t.TempDir(), "out")
	_, err := d.Run(context.Background(), "someone", dir, redgifs.QualityHD)
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeHTTP))
	assert.True(t, log.HasMessage("Failed to acquire guest token"))

	// the directory is created before the token is requested
	_, statErr := os.Stat(dir)
	assert.NoError(t, statErr)
}

func TestRunCancelledContext(t *testing.T) {
	m := newMockRedGifsServer(t, "someone", gifs("a1"))
	h := newHarness(t, m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.downloader.Run(ctx, "someone", h.dir, redgifs.QualityHD)
	assert.ErrorIs(t, err, context.Canceled)
}

// stubClient lets tests drive the state machine without HTTP
type stubClient struct {
	pages  map[int]*redgifs.SearchResponse
	asked  []int
	opened []string
}

func (s *stubClient) Authenticate(ctx context.Context) error { return nil }

func (s *stubClient) FetchUserPage(ctx context.Context, username string, page int) (*redgifs.SearchResponse, error) {
	s.asked = append(s.asked, page)
	if resp, ok := s.pages[page]; ok {
		return resp, nil
	}
	return &redgifs.SearchResponse{}, nil
}

func (s *stubClient) OpenMedia(ctx context.Context, mediaURL string) (io.ReadCloser, error) {
	s.opened = append(s.opened, mediaURL)
	return io.NopCloser(strings.NewReader(mediaURL)), nil
}

func TestRunUsesDefaultOutputDirectory(t *testing.T) {
	oldDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldDir) })

	stub := &stubClient{pages: map[int]*redgifs.SearchResponse{
		1: {Gifs: []redgifs.Gif{{ID: "x1", URLs: map[string]string{"hd": "u1"}}}},
	}}
	d := NewWithClient(config.DefaultConfig(), stub, ui.NewPrinter(io.Discard, true), logger.NewNopLogger())

	n, err := d.Run(context.Background(), "someone", "", redgifs.QualityHD)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	content, err := os.ReadFile(filepath.Join(config.DefaultOutputDirectory, "x1.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "u1", string(content))
	assert.Equal(t, []int{1, 2}, stub.asked)
}

func TestRunRejectsIDOutsideOutputDirectory(t *testing.T) {
	root := t.TempDir()
	outputDir := filepath.Join(root, "downloads")

	stub := &stubClient{pages: map[int]*redgifs.SearchResponse{
		1: {Gifs: []redgifs.Gif{{ID: "../escaped", URLs: map[string]string{"hd": "payload"}}}},
	}}
	d := NewWithClient(config.DefaultConfig(), stub, ui.NewPrinter(io.Discard, true), logger.NewNopLogger())

	n, err := d.Run(context.Background(), "someone", outputDir, redgifs.QualityHD)
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeDataShape))
	assert.Equal(t, 0, n)
	assert.Empty(t, stub.opened)

	_, statErr := os.Stat(filepath.Join(root, "escaped.mp4"))
	assert.True(t, os.IsNotExist(statErr))
	entries, readErr := os.ReadDir(outputDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}
