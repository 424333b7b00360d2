// Package gitlog invokes the git history command for a repository and
// reduces its numstat output into added/removed/commit counts, applying the
// configured file-exclusion rules.
package gitlog

import "time"

// DayFormat is the ISO calendar-day layout used for cache keys and git
// date bounds.
const DayFormat = "2006-01-02"

// DailyStats holds line statistics for one repository over a date range
// (or a single calendar day when used by the cache-fill path).
type DailyStats struct {
	Added   int
	Removed int
	Commits int
}

// Net returns added minus removed. It is derived, never stored.
func (s DailyStats) Net() int {
	return s.Added - s.Removed
}

// Add accumulates another stats value into s.
func (s *DailyStats) Add(other DailyStats) {
	s.Added += other.Added
	s.Removed += other.Removed
	s.Commits += other.Commits
}

// Today returns the current calendar day at local midnight. All day
// boundaries use the local system timezone, matching how git interprets
// --since and --until.
func Today() time.Time {
	return DayOf(time.Now())
}

// DayOf truncates t to local midnight.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
