package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/mattn/go-isatty"
)

// Logo printed above the run banner
const Logo = `
  ┏━┓┏━╸┏━┓┏━╸┏━┓┏━┓┏━┓┏━╸┏━┓
  ┣┳┛┃╺┓┗━┓┃  ┣┳┛┣━┫┣━┛┣╸ ┣┳┛
  ╹┗╸┗━┛┗━┛┗━╸╹┗╸╹ ╹╹  ┗━╸╹┗╸
`

var colorEnabled atomic.Bool

func init() {
	colorEnabled.Store(ColorSupported(os.Stdout))
}

// ColorSupported reports whether f is a terminal that understands ANSI codes
func ColorSupported(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetColorEnabled switches ANSI colours on or off for all output
func SetColorEnabled(enabled bool) {
	colorEnabled.Store(enabled)
}

// Color functions for terminal output
var (
	Cyan   = colorize("\033[36m%s\033[0m")
	Yellow = colorize("\033[33m%s\033[0m")
	Red    = colorize("\033[31m%s\033[0m")
	Green  = colorize("\033[32m%s\033[0m")
	Dim    = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		if !colorEnabled.Load() {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// Printer writes user-facing lines. Logs go elsewhere; this is the
// output a user reads while a run progresses.
type Printer struct {
	out   io.Writer
	quiet bool
}

// NewPrinter creates a printer. In quiet mode only errors and the final
// summary are written.
func NewPrinter(out io.Writer, quiet bool) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out, quiet: quiet}
}

// IsQuiet reports whether informational output is suppressed
func (p *Printer) IsQuiet() bool {
	return p.quiet
}

// PrintLogo prints the logo in cyan
func (p *Printer) PrintLogo() {
	if p.quiet {
		return
	}
	fmt.Fprint(p.out, Cyan(Logo))
}

// PrintBanner announces the profile being downloaded
func (p *Printer) PrintBanner(username, outputDir, quality string) {
	if p.quiet {
		return
	}
	p.PrintInfo("Profile", username)
	p.PrintInfo("Output", outputDir)
	p.PrintInfo("Quality", strings.ToUpper(quality))
	fmt.Fprintln(p.out)
}

// PrintInfo prints a label and value
func (p *Printer) PrintInfo(label, value string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintSuccess prints a message in green
func (p *Printer) PrintSuccess(msg string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, Green(msg))
}

// PrintWarning prints a message in yellow
func (p *Printer) PrintWarning(msg string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, Yellow(msg))
}

// PrintError prints a message, and the error if any, in red
func (p *Printer) PrintError(msg string, err error) {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	fmt.Fprintln(p.out, Red(msg))
}

// PrintDownloaded prints the per-file confirmation line
func (p *Printer) PrintDownloaded(fileName, quality string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s (%s)\n", Green("Downloaded:"), fileName, strings.ToUpper(quality))
}

// PrintSummary prints the total count; it is shown even in quiet mode
func (p *Printer) PrintSummary(total int) {
	fmt.Fprintf(p.out, "%s %d\n", Green("Total videos downloaded:"), total)
}

// PrintDetail prints a dimmed secondary line
func (p *Printer) PrintDetail(msg string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, Dim(msg))
}
