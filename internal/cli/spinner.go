package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// stderr receives transient progress output.
var stderr io.Writer = os.Stderr

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a one-line status on w until stopped or until its
// context ends.
type Spinner struct {
	ctx     context.Context
	w       io.Writer
	message string
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	return &Spinner{
		ctx:     ctx,
		w:       w,
		message: message,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation in the background.
func (s *Spinner) Start() {
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
		}
	}
}

// Stop ends the animation and clears the line. It must follow Start and
// may be called more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		<-s.stopped
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", lipgloss.Width(s.message)+2))
	})
}

// Interrupted reports whether the context ended the spinner.
func (s *Spinner) Interrupted() bool {
	return s.ctx.Err() != nil
}

// connect runs open behind a spinner naming what is being reached.
func connect(ctx context.Context, what string, open func() error) error {
	s := newSpinner(ctx, stderr, "Connecting to "+what+"...")
	s.Start()
	err := open()
	s.Stop()
	if err != nil {
		printError("%s unavailable", what)
	}
	return err
}
