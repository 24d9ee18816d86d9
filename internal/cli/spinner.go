package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line while a render runs. Only its own goroutine
// writes to w.
type spinner struct {
	w      io.Writer
	label  string
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	once        sync.Once
	interrupted bool
}

// startSpinner draws label on w until stop is called or ctx ends.
func startSpinner(ctx context.Context, w io.Writer, label string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	s := &spinner{w: w, label: label, ctx: sctx, cancel: cancel}
	s.wg.Add(1)
	go s.loop()
	return s
}

func (s *spinner) loop() {
	defer s.wg.Done()
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			blank := strings.Repeat(" ", utf8.RuneCountInString(s.label)+2)
			fmt.Fprintf(s.w, "\r%s\r", blank)
			return
		case <-tick.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.label))
		}
	}
}

// stop clears the line and reports whether the parent context ended before
// stop was first called. Later calls return the same answer.
func (s *spinner) stop() (interrupted bool) {
	s.once.Do(func() {
		s.interrupted = s.ctx.Err() != nil
		s.cancel()
		s.wg.Wait()
	})
	return s.interrupted
}
