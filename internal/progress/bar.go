package progress

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultWidth is the number of character cells inside the bar brackets.
const DefaultWidth = 32

// etaWarmup is how long the estimate is hidden; early rates are noisy.
const etaWarmup = 2 * time.Second

// clearLine erases the current terminal line and returns the cursor to
// column one.
const clearLine = "\x1b[1K\x1b[G"

// eighths are partial block glyphs, index i covering i/8 of a cell.
var eighths = [...]string{" ", "▏", "▎", "▍", "▌", "▋", "▊", "▉", "█"}

// Bar renders a single-line progress bar with elapsed and estimated time.
type Bar struct {
	w     io.Writer
	width int
}

// NewBar returns a bar writing to w. A non-positive width selects
// DefaultWidth.
func NewBar(w io.Writer, width int) *Bar {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Bar{w: w, width: width}
}

// Update redraws the bar in place.
func (b *Bar) Update(r Report) {
	_, _ = io.WriteString(b.w, clearLine+b.Format(r))
}

// Finish ends the bar's line.
func (b *Bar) Finish() {
	_, _ = io.WriteString(b.w, "\n")
}

// Format returns the bar text for r, for example
//
//	[█████████████▍                  ] 42.0%(00:12/00:29)
func (b *Bar) Format(r Report) string {
	ratio := r.Ratio()
	eighthsDone := int(float64(8*b.width) * ratio)
	whole := eighthsDone / 8
	part := eighthsDone % 8

	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(strings.Repeat(eighths[8], whole))
	if whole < b.width {
		sb.WriteString(eighths[part])
		sb.WriteString(strings.Repeat(" ", b.width-whole-1))
	}
	fmt.Fprintf(&sb, "] %.1f%%(%s/", 100*ratio, FormatDuration(r.Elapsed))

	if total, ok := r.Remaining(); ok && r.Elapsed >= etaWarmup {
		sb.WriteString(FormatDuration(total + r.Elapsed))
	} else {
		sb.WriteString("--:--")
	}
	sb.WriteByte(')')
	return sb.String()
}

// FormatDuration formats d as mm:ss rounded to the nearest second. Minutes
// keep growing past 99.
func FormatDuration(d time.Duration) string {
	secs := int(math.Round(d.Seconds()))
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Summary writes a one-line run summary with grouped digits, for example
// "sampled 1,200,000 orbits (34,117 escaped) in 00:42".
func Summary(w io.Writer, samples, escaped uint64, elapsed time.Duration) error {
	p := message.NewPrinter(language.English)
	_, err := p.Fprintf(w, "sampled %d orbits (%d escaped) in %s\n", samples, escaped, FormatDuration(elapsed))
	return err
}
