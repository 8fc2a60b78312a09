package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/calldata-lens/internal/domain/config"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

// SpinnerSink shows a spinner on stderr while lookups are in flight. The
// spinner itself only animates when out is a terminal.
type SpinnerSink struct {
	spinner *spinner.Spinner
	out     io.Writer
	running bool
	started time.Time
}

// NewSpinnerSink creates a new spinner-based progress sink writing to out
func NewSpinnerSink(out io.Writer) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerSink{spinner: s, out: out}
}

// OnProgress handles progress events
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Spinner {
		if !r.running {
			r.running = true
			r.started = time.Now()
			r.spinner.Start()
		}
		r.spinner.Suffix = " " + event.Message
		return
	}

	if r.running {
		r.running = false
		r.spinner.Stop()
		if event.Stage == "complete" && event.Message != "" {
			elapsed := time.Since(r.started).Round(time.Millisecond)
			fmt.Fprintf(r.out, "%s %s %s\n",
				color.New(color.FgGreen).Sprint("✓"),
				event.Message,
				color.New(color.Faint).Sprintf("(%s)", elapsed))
		}
	}
}

// Info prints an info message
func (r *SpinnerSink) Info(message string) {
	r.pause(func() {
		color.New(color.FgCyan).Fprintln(r.out, message)
	})
}

// Error prints an error message
func (r *SpinnerSink) Error(message string) {
	r.pause(func() {
		color.New(color.FgRed).Fprintln(r.out, message)
	})
}

// pause stops the spinner around print so the two don't interleave.
func (r *SpinnerSink) pause(print func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	print()
	if wasActive {
		r.spinner.Start()
	}
}

// ProvideProgressSink picks the spinner for interactive text output and the
// no-op sink otherwise, so machine-readable output stays clean.
func ProvideProgressSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.NonInteractive || cfg.Format != config.FormatText {
		return NewNopSink()
	}
	return NewSpinnerSink(os.Stderr)
}

var _ usecase.ProgressSink = (*SpinnerSink)(nil)
