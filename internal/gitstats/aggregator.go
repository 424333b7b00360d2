package gitstats

import (
	"sync"
	"time"

	"github.com/blackwell-systems/gitmetrics/internal/gitlog"
	"github.com/blackwell-systems/gitmetrics/internal/scanner"
	"github.com/blackwell-systems/gitmetrics/internal/store"
)

// Aggregator folds per-repository line statistics into a single value for
// a date range, combining cached days with freshly parsed ones.
type Aggregator struct {
	repos    []scanner.Repo
	parser   *gitlog.Parser
	db       *store.DB
	workers  int
	progress ProgressFunc
}

// NewAggregator wires an aggregator over the given repositories.
func NewAggregator(repos []scanner.Repo, parser *gitlog.Parser, db *store.DB, workers int, progress ProgressFunc) *Aggregator {
	if workers <= 0 {
		workers = 1
	}
	return &Aggregator{
		repos:    repos,
		parser:   parser,
		db:       db,
		workers:  workers,
		progress: progress,
	}
}

// Sum returns the selected statistic summed across all repositories for
// the inclusive range [start, end]. A nil start requests unbounded history
// and bypasses the cache entirely: the true lower bound of available
// history is unknown, so that query shape is uncacheable. A nil end
// defaults to today.
func (a *Aggregator) Sum(start, end *time.Time, kind StatKind) (float64, error) {
	if start == nil {
		return a.sumUncached(end, kind), nil
	}

	startDay := gitlog.DayOf(*start)
	endDay := gitlog.Today()
	if end != nil {
		endDay = gitlog.DayOf(*end)
	}

	var mu sync.Mutex
	var total gitlog.DailyStats

	err := forEachRepo(a.repos, a.workers, a.progress, func(repo scanner.Repo) error {
		s, err := a.repoStats(repo.Path, startDay, endDay)
		if err != nil {
			return err
		}
		mu.Lock()
		total.Add(s)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return 0, err
	}

	return float64(kind.Reduce(total)), nil
}

// repoStats resolves one repository's stats for the range: the cached
// portion, plus a fresh parse of every missing day, with everything before
// today written back in one batch.
func (a *Aggregator) repoStats(repoPath string, start, end time.Time) (gitlog.DailyStats, error) {
	cached, err := a.db.CachedSum(repoPath, start, end)
	if err != nil {
		return gitlog.DailyStats{}, err
	}

	missing, err := a.db.MissingDays(repoPath, start, end)
	if err != nil {
		return gitlog.DailyStats{}, err
	}
	if len(missing) == 0 {
		return cached, nil
	}

	today := gitlog.Today()
	toCache := make(map[time.Time]gitlog.DailyStats)

	fetched := gitlog.DailyStats{}
	for _, day := range missing {
		s := a.parser.Daily(repoPath, day)
		fetched.Add(s)
		if day.Before(today) {
			toCache[day] = s
		}
	}

	if len(toCache) > 0 {
		if err := a.db.SaveBatch(repoPath, toCache); err != nil {
			return gitlog.DailyStats{}, err
		}
	}

	cached.Add(fetched)
	return cached, nil
}

// sumUncached parses the whole range fresh per repository. Parser failures
// already reduce to zero stats, so this path cannot fail.
func (a *Aggregator) sumUncached(end *time.Time, kind StatKind) float64 {
	var mu sync.Mutex
	total := 0

	_ = forEachRepo(a.repos, a.workers, a.progress, func(repo scanner.Repo) error {
		s := a.parser.Stats(repo.Path, nil, end)
		mu.Lock()
		total += kind.Reduce(s)
		mu.Unlock()
		return nil
	})

	return float64(total)
}
