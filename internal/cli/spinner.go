package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a single status line, typically "Checking updates: n/N",
// until stopped or until its context ends.
type Spinner struct {
	out    io.Writer
	ctx    context.Context
	cancel context.CancelFunc
	exited chan struct{}
	once   sync.Once
	active bool

	mu    sync.Mutex
	label string
	text  string
	width int // widest line drawn so far
}

// newSpinner creates a spinner on stderr.
func newSpinner(ctx context.Context, text string) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, text)
}

func newSpinnerTo(ctx context.Context, w io.Writer, text string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{out: w, ctx: ctx, cancel: cancel, text: text, exited: make(chan struct{})}
}

// newProgressSpinner starts a spinner that reads "label: 0/total".
func newProgressSpinner(ctx context.Context, label string, total int) *Spinner {
	s := newSpinner(ctx, "")
	s.label = label
	s.SetProgress(0, total)
	s.Start()
	return s
}

// Start draws the first frame and animates in the background.
func (s *Spinner) Start() {
	s.active = true
	s.draw(0)
	go s.loop()
}

func (s *Spinner) loop() {
	defer close(s.exited)
	t := time.NewTicker(spinnerInterval)
	defer t.Stop()
	for frame := 1; ; frame++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-t.C:
			s.draw(frame)
		}
	}
}

// SetMessage replaces the status text. Safe for concurrent use.
func (s *Spinner) SetMessage(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
}

// SetProgress shows done out of total after the spinner's label.
// Its signature matches [check.Progress].
func (s *Spinner) SetProgress(done, total int) {
	s.SetMessage(fmt.Sprintf("%s: %d/%d", s.label, done, total))
}

// Message returns the current status text.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

func (s *Spinner) draw(frame int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	glyph := spinnerFrames[frame%len(spinnerFrames)]
	s.width = max(s.width, len(s.text)+4)
	fmt.Fprintf(s.out, "\r%s %s", styleSpinner.Render(glyph), StyleDim.Render(s.text))
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprint(s.out, "\r"+strings.Repeat(" ", s.width)+"\r")
	}
}

// Stop ends the animation and erases the line. Calling it again is a no-op.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.active {
			<-s.exited
		}
	})
}

// Cancelled reports whether the spinner's context has ended.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
