package gitstats

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/gitmetrics/internal/scanner"
)

// ProgressFunc is invoked once per completed repository with the
// repository name and the running (completed, total) count. Invocations
// may arrive in any completion order; the hook has no effect on results.
type ProgressFunc func(name string, completed, total int)

// forEachRepo runs fn for every repository with at most workers in flight
// and returns the first error. Aggregation is a commutative sum, so no
// ordering is enforced.
//
// A single repository runs on the calling goroutine: aggregation calls are
// sometimes issued from inside an already-parallel context, and spinning up
// a pool for one unit of work only adds overhead there.
func forEachRepo(repos []scanner.Repo, workers int, progress ProgressFunc, fn func(scanner.Repo) error) error {
	total := len(repos)

	if total == 1 {
		repo := repos[0]
		err := fn(repo)
		if progress != nil {
			progress(repo.Name, 1, 1)
		}
		return err
	}

	var completed atomic.Int64
	var g errgroup.Group
	g.SetLimit(workers)

	for _, repo := range repos {
		repo := repo
		g.Go(func() error {
			err := fn(repo)
			if progress != nil {
				progress(repo.Name, int(completed.Add(1)), total)
			}
			return err
		})
	}

	return g.Wait()
}
