package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	bspinner "github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// spinner animates a status line with the elapsed time while a layout or
// render runs. Runs that finish within one frame draw nothing.
type spinner struct {
	w      io.Writer
	label  string
	frames []string
	every  time.Duration
	width  int
}

// newSpinner creates a spinner that writes label to stderr.
func newSpinner(label string) *spinner {
	return newSpinnerTo(os.Stderr, label)
}

func newSpinnerTo(w io.Writer, label string) *spinner {
	style := bspinner.MiniDot
	return &spinner{w: w, label: label, frames: style.Frames, every: style.FPS}
}

// run calls fn while animating and clears the line afterwards. The
// animation also stops when ctx is done; fn's error is returned either way.
func (s *spinner) run(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithCancel(ctx)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		s.animate(ctx)
	}()

	err := fn()
	cancel()
	<-stopped
	s.clear()
	return err
}

func (s *spinner) animate(ctx context.Context) {
	tick := time.NewTicker(s.every)
	defer tick.Stop()
	start := time.Now()
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			line := fmt.Sprintf("%s %s %s",
				styleIconSpinner.Render(s.frames[i%len(s.frames)]),
				StyleDim.Render(s.label),
				StyleDim.Render(time.Since(start).Round(100*time.Millisecond).String()))
			s.width = max(s.width, lipgloss.Width(line))
			fmt.Fprintf(s.w, "\r%s", line)
		}
	}
}

func (s *spinner) clear() {
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}
