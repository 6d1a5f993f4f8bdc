package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// StatusTracker counts the files written during one run and reports them
// through a Printer
type StatusTracker struct {
	printer    *Printer
	downloaded int
	bytes      int64
	pages      int
	startTime  time.Time
}

// NewStatusTracker creates a new status tracker
func NewStatusTracker(printer *Printer) *StatusTracker {
	return &StatusTracker{
		printer:   printer,
		startTime: time.Now(),
	}
}

// PageFetched records a listing page
func (st *StatusTracker) PageFetched(page, entries int) {
	st.pages++
	if entries > 0 {
		st.printer.PrintDetail(fmt.Sprintf("Page %d: %d videos", page, entries))
	}
}

// RecordDownload counts a written file and prints its confirmation line
func (st *StatusTracker) RecordDownload(fileName, quality string, size int64) {
	st.downloaded++
	st.bytes += size
	st.printer.PrintDownloaded(fileName, quality)
}

// GetDownloadedCount returns the number of files written so far
func (st *StatusTracker) GetDownloadedCount() int {
	return st.downloaded
}

// GetBytesDownloaded returns the total bytes written so far
func (st *StatusTracker) GetBytesDownloaded() int64 {
	return st.bytes
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.startTime)
}

// PrintSummary prints the final count followed by a dimmed stats line
func (st *StatusTracker) PrintSummary() {
	st.printer.PrintSummary(st.downloaded)
	st.printer.PrintDetail(fmt.Sprintf("%d pages, %s in %s",
		st.pages,
		humanize.Bytes(uint64(st.bytes)),
		st.GetElapsedTime().Round(time.Millisecond),
	))
}
