package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
)

// Progress renders a single updating status line:
//
//	Scanning: myrepo [3/12]
//
// It is safe for concurrent use; aggregation workers report completions
// from multiple goroutines. On non-terminal output it stays silent.
type Progress struct {
	w       io.Writer
	enabled bool

	mu      sync.Mutex
	lastLen int
}

// NewProgress creates a progress line writing to w. When enabled is false
// every call is a no-op.
func NewProgress(w io.Writer, enabled bool) *Progress {
	return &Progress{w: w, enabled: enabled}
}

// Update rewrites the status line with the latest completed repository.
func (p *Progress) Update(name string, completed, total int) {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	line := fmt.Sprintf("Scanning: %s [%d/%d]", name, completed, total)
	pad := ""
	if len(line) < p.lastLen {
		pad = fmt.Sprintf("%*s", p.lastLen-len(line), "")
	}
	fmt.Fprintf(p.w, "\r%s%s", line, pad)
	p.lastLen = len(line)
}

// Done clears the status line.
func (p *Progress) Done() {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastLen > 0 {
		fmt.Fprintf(p.w, "\r%*s\r", p.lastLen, "")
		p.lastLen = 0
	}
}

// FormatCount renders an integer statistic with thousands separators.
func FormatCount(v float64) string {
	return humanize.Comma(int64(v))
}

// FormatSigned renders a signed line delta, e.g. "+1,204" or "-87".
func FormatSigned(v int) string {
	if v >= 0 {
		return "+" + humanize.Comma(int64(v))
	}
	return humanize.Comma(int64(v))
}
