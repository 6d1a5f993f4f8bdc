package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	errs "rgscraper/pkg/errors"
	"rgscraper/pkg/logger"
)

// DefaultChunkSize is the write granularity for streamed videos
const DefaultChunkSize = 8 * 1024

// VideoExtension is appended to every media id
const VideoExtension = ".mp4"

// Manager owns the output directory and writes videos into it
type Manager struct {
	outputDir string
	chunkSize int
	logger    logger.Logger

	mu    sync.Mutex
	saved int
}

// NewManager creates the output directory (and parents) if needed.
// Calling it on an existing directory is a no-op.
func NewManager(outputDir string, chunkSize int, log logger.Logger) (*Manager, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeFilesystem,
			fmt.Sprintf("failed to create output directory %s", outputDir), err)
	}

	return &Manager{
		outputDir: outputDir,
		chunkSize: chunkSize,
		logger:    log,
	}, nil
}

// Path returns where the video with the given id is written
func (m *Manager) Path(id string) string {
	return filepath.Join(m.outputDir, id+VideoExtension)
}

// ValidateID rejects media ids that cannot be used as a bare file name
// inside the output directory.
func ValidateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return errs.New(errs.ErrorTypeDataShape, fmt.Sprintf("invalid media id %q", id))
	}
	return nil
}

// SaveVideo streams r into <outputDir>/<id>.mp4, replacing any existing
// file. A failed write leaves whatever was already written on disk.
func (m *Manager) SaveVideo(r io.Reader, id string) (int64, error) {
	if err := ValidateID(id); err != nil {
		return 0, err
	}
	filename := m.Path(id)

	out, err := os.Create(filename)
	if err != nil {
		return 0, errs.Wrap(errs.ErrorTypeFilesystem, "failed to create file", err)
	}

	written, err := m.copyChunks(out, r, id)
	closeErr := out.Close()

	if err != nil {
		return written, err
	}
	if closeErr != nil {
		return written, errs.Wrap(errs.ErrorTypeFilesystem, "failed to close file", closeErr)
	}

	m.mu.Lock()
	m.saved++
	m.mu.Unlock()

	return written, nil
}

// copyChunks copies r to w one chunk at a time. The first chunk is sniffed
// for its container type, which is logged but never enforced.
func (m *Manager) copyChunks(w io.Writer, r io.Reader, id string) (int64, error) {
	buf := make([]byte, m.chunkSize)
	var written int64
	sniffed := false

	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			if !sniffed {
				m.logContainer(id, buf[:n])
				sniffed = true
			}

			nw, err := w.Write(buf[:n])
			written += int64(nw)
			if err != nil {
				return written, errs.Wrap(errs.ErrorTypeFilesystem, "failed to write video data", err)
			}
			if nw != n {
				return written, errs.Wrap(errs.ErrorTypeFilesystem, "failed to write video data", io.ErrShortWrite)
			}
		}

		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, errs.Wrap(errs.ErrorTypeNetwork, "failed to read video stream", readErr)
		}
	}
}

func (m *Manager) logContainer(id string, head []byte) {
	kind, err := filetype.Video(head)
	if err != nil || kind == filetype.Unknown {
		m.logger.WithField("media_id", id).Debug("unrecognised media container")
		return
	}

	m.logger.DebugWithFields("media container detected", map[string]interface{}{
		"media_id":  id,
		"mime":      kind.MIME.Value,
		"extension": kind.Extension,
	})
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetSavedCount returns how many videos this manager has written
func (m *Manager) GetSavedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved
}
