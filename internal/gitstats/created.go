package gitstats

import (
	"sync"
	"time"

	"github.com/blackwell-systems/gitmetrics/internal/gitlog"
	"github.com/blackwell-systems/gitmetrics/internal/scanner"
)

// CreatedCounter counts "project created" events: repositories whose first
// commit by the configured author falls within a date range. First-commit
// dates are memoized in memory for the process lifetime; this path never
// touches the daily-stats cache.
type CreatedCounter struct {
	repos    []scanner.Repo
	parser   *gitlog.Parser
	workers  int
	progress ProgressFunc

	mu   sync.Mutex
	memo map[string]firstCommit
}

type firstCommit struct {
	day time.Time
	ok  bool
}

// NewCreatedCounter wires a projects-created counter over the given
// repositories.
func NewCreatedCounter(repos []scanner.Repo, parser *gitlog.Parser, workers int, progress ProgressFunc) *CreatedCounter {
	if workers <= 0 {
		workers = 1
	}
	return &CreatedCounter{
		repos:    repos,
		parser:   parser,
		workers:  workers,
		progress: progress,
		memo:     make(map[string]firstCommit),
	}
}

// Count returns how many repositories were created within
// [start ?? -inf, end ?? today].
func (c *CreatedCounter) Count(start, end *time.Time) float64 {
	effectiveEnd := gitlog.Today()
	if end != nil {
		effectiveEnd = gitlog.DayOf(*end)
	}

	var mu sync.Mutex
	count := 0

	_ = forEachRepo(c.repos, c.workers, c.progress, func(repo scanner.Repo) error {
		day, ok := c.firstCommitDate(repo.Path)
		if !ok {
			return nil
		}
		if start != nil && day.Before(gitlog.DayOf(*start)) {
			return nil
		}
		if day.After(effectiveEnd) {
			return nil
		}
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})

	return float64(count)
}

// FirstCommits returns every repository whose first commit falls in the
// range, with its creation day, sorted by day ascending.
func (c *CreatedCounter) FirstCommits(start, end *time.Time) []RepoDay {
	effectiveEnd := gitlog.Today()
	if end != nil {
		effectiveEnd = gitlog.DayOf(*end)
	}

	var mu sync.Mutex
	var results []RepoDay

	_ = forEachRepo(c.repos, c.workers, c.progress, func(repo scanner.Repo) error {
		day, ok := c.firstCommitDate(repo.Path)
		if !ok {
			return nil
		}
		if start != nil && day.Before(gitlog.DayOf(*start)) {
			return nil
		}
		if day.After(effectiveEnd) {
			return nil
		}
		mu.Lock()
		results = append(results, RepoDay{Repo: repo, Day: day})
		mu.Unlock()
		return nil
	})

	sortRepoDays(results)
	return results
}

// firstCommitDate memoizes the parser lookup. Multiple workers may ask for
// the same repository concurrently; the map is read and written under the
// lock, and the git invocation itself runs outside it so a slow lookup
// does not serialize the pool.
func (c *CreatedCounter) firstCommitDate(repoPath string) (time.Time, bool) {
	c.mu.Lock()
	if fc, hit := c.memo[repoPath]; hit {
		c.mu.Unlock()
		return fc.day, fc.ok
	}
	c.mu.Unlock()

	day, ok := c.parser.FirstCommitDate(repoPath)

	c.mu.Lock()
	c.memo[repoPath] = firstCommit{day: day, ok: ok}
	c.mu.Unlock()
	return day, ok
}
