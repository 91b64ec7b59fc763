// Package progress reports per-file progress of long-running operations.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Callback receives progress updates. total is zero when the number of
// steps is not known upfront.
type Callback func(op string, current, total int, item string)

// Noop is a no-op callback for default behavior.
func Noop(op string, current, total int, item string) {}

// Counter tracks the steps of one operation.
type Counter struct {
	Op      string
	Total   int
	current int
	cb      Callback
}

// New creates a Counter. A nil cb is replaced by Noop.
func New(op string, total int, cb Callback) *Counter {
	if cb == nil {
		cb = Noop
	}
	return &Counter{Op: op, Total: total, cb: cb}
}

// Step advances the counter and reports item.
func (c *Counter) Step(item string) {
	c.current++
	c.cb(c.Op, c.current, c.Total, item)
}

// Current returns the number of completed steps.
func (c *Counter) Current() int {
	return c.current
}

// barWidth is the number of cells in a bar.
const barWidth = 30

// Bar draws a single-line progress bar, redrawing it in place.
type Bar struct {
	mu      sync.Mutex
	w       io.Writer
	lastLen int
	drawn   bool
}

// NewBar creates a Bar writing to w, usually stderr.
func NewBar(w io.Writer) *Bar {
	return &Bar{w: w}
}

// Callback returns a Callback that redraws the bar.
func (b *Bar) Callback() Callback {
	return func(op string, current, total int, item string) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.draw(Line(op, current, total, item))
	}
}

func (b *Bar) draw(line string) {
	pad := ""
	if n := b.lastLen - len(line); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	fmt.Fprint(b.w, "\r"+line+pad)
	b.lastLen = len(line)
	b.drawn = true
}

// Done clears the bar and ends the line. Nothing is printed if the bar
// was never drawn.
func (b *Bar) Done() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.drawn {
		return
	}
	fmt.Fprint(b.w, "\r"+strings.Repeat(" ", b.lastLen)+"\r")
	b.lastLen = 0
	b.drawn = false
}

// Line formats one progress line. With a known total it draws a bar and
// a percentage; otherwise a running count.
func Line(op string, current, total int, item string) string {
	var line string
	if total > 0 {
		if current > total {
			current = total
		}
		filled := barWidth * current / total
		bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)
		line = fmt.Sprintf("%s [%s] %d/%d (%d%%)", op, bar, current, total, current*100/total)
	} else {
		line = fmt.Sprintf("%s... %d files", op, current)
	}
	if item != "" {
		line += " " + item
	}
	return line
}
