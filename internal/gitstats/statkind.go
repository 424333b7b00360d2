// Package gitstats combines the repository scanner, history parser, and
// daily-stats cache into the aggregation layer the rest of the application
// consumes: a single numeric answer for a date range and a statistic kind.
package gitstats

import (
	"fmt"

	"github.com/blackwell-systems/gitmetrics/internal/gitlog"
)

// StatKind selects which statistic an aggregation returns. It is a closed
// enumeration; each kind carries its own reducer.
type StatKind int

const (
	// Added counts lines added.
	Added StatKind = iota

	// Removed counts lines removed.
	Removed

	// Net counts added minus removed.
	Net

	// Commits counts commits.
	Commits
)

// ParseStatKind maps a user-facing name to a StatKind.
func ParseStatKind(name string) (StatKind, error) {
	switch name {
	case "added":
		return Added, nil
	case "removed":
		return Removed, nil
	case "net":
		return Net, nil
	case "commits":
		return Commits, nil
	default:
		return 0, fmt.Errorf("unknown stat kind %q (want added, removed, net, or commits)", name)
	}
}

// String returns the kind's user-facing name.
func (k StatKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Net:
		return "net"
	case Commits:
		return "commits"
	default:
		return "unknown"
	}
}

// Reduce extracts this kind's value from a stats triple.
func (k StatKind) Reduce(s gitlog.DailyStats) int {
	switch k {
	case Added:
		return s.Added
	case Removed:
		return s.Removed
	case Commits:
		return s.Commits
	default:
		return s.Net()
	}
}
