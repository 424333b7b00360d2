package gitstats

import (
	"sort"
	"sync"
	"time"

	"github.com/blackwell-systems/gitmetrics/internal/config"
	"github.com/blackwell-systems/gitmetrics/internal/gitlog"
	"github.com/blackwell-systems/gitmetrics/internal/project"
	"github.com/blackwell-systems/gitmetrics/internal/scanner"
	"github.com/blackwell-systems/gitmetrics/internal/store"
)

// SumFunc is the contract the surrounding application consumes: the sum of
// one statistic over [start ?? -inf, end ?? today].
type SumFunc func(start, end *time.Time) (float64, error)

// RepoDay pairs a repository with a calendar day.
type RepoDay struct {
	Repo scanner.Repo
	Day  time.Time
}

// RepoValue pairs a repository with one aggregated number.
type RepoValue struct {
	Repo  scanner.Repo
	Value int
}

// Source is the facade over the git statistics engine: discovery, parsing,
// caching, and aggregation behind a handful of lookup calls.
type Source struct {
	cfg      *config.Config
	db       *store.DB
	repos    []scanner.Repo
	parser   *gitlog.Parser
	progress ProgressFunc

	mu      sync.Mutex
	parsers map[string]*gitlog.Parser
}

// NewSource discovers repositories under the configured scan paths and
// wires the engine together.
func NewSource(cfg *config.Config, db *store.DB) *Source {
	return &Source{
		cfg:     cfg,
		db:      db,
		repos:   scanner.Discover(cfg.ScanPaths),
		parser:  newParser(cfg, project.Get(project.Generic)),
		parsers: make(map[string]*gitlog.Parser),
	}
}

func newParser(cfg *config.Config, profile project.Profile) *gitlog.Parser {
	return gitlog.NewParser(
		cfg.Author,
		cfg.Exclude.Dirs,
		cfg.Exclude.Extensions,
		cfg.Exclude.Filenames,
		profile,
	)
}

// SetProgress installs a progress callback for subsequent aggregations.
func (s *Source) SetProgress(fn ProgressFunc) {
	s.progress = fn
}

// Repos returns the discovered repositories.
func (s *Source) Repos() []scanner.Repo {
	return s.repos
}

// Sum aggregates one statistic kind across all repositories.
func (s *Source) Sum(start, end *time.Time, kind StatKind) (float64, error) {
	agg := NewAggregator(s.repos, s.parser, s.db, s.cfg.Workers, s.progress)
	return agg.Sum(start, end, kind)
}

// SumFor returns the GetSum closure for one statistic kind, for consumers
// like the period calculator.
func (s *Source) SumFor(kind StatKind) SumFunc {
	return func(start, end *time.Time) (float64, error) {
		return s.Sum(start, end, kind)
	}
}

// CreatedCount counts repositories whose first commit by the author falls
// in the range.
func (s *Source) CreatedCount(start, end *time.Time) float64 {
	return NewCreatedCounter(s.repos, s.parser, s.cfg.Workers, s.progress).Count(start, end)
}

// CreatedSumFunc adapts CreatedCount to the SumFunc contract.
func (s *Source) CreatedSumFunc() SumFunc {
	counter := NewCreatedCounter(s.repos, s.parser, s.cfg.Workers, s.progress)
	return func(start, end *time.Time) (float64, error) {
		return counter.Count(start, end), nil
	}
}

// ProjectsCreatedInPeriod lists repositories created within the range,
// sorted by creation day ascending.
func (s *Source) ProjectsCreatedInPeriod(start, end *time.Time) []RepoDay {
	return NewCreatedCounter(s.repos, s.parser, s.cfg.Workers, s.progress).FirstCommits(start, end)
}

// TopRepos returns up to limit repositories ranked by net lines changed in
// the range, descending.
func (s *Source) TopRepos(start, end *time.Time, limit int) ([]RepoValue, error) {
	results, err := s.perRepoValues(start, end, Net)
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Value > results[j].Value })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// CommitsByRepo returns commit counts per repository in the range,
// descending, omitting repositories with zero commits.
func (s *Source) CommitsByRepo(start, end *time.Time) ([]RepoValue, error) {
	results, err := s.perRepoValues(start, end, Commits)
	if err != nil {
		return nil, err
	}
	filtered := results[:0]
	for _, rv := range results {
		if rv.Value > 0 {
			filtered = append(filtered, rv)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Value > filtered[j].Value })
	return filtered, nil
}

// perRepoValues aggregates one kind per repository. Each repository runs
// through a single-repo aggregator so the cached/uncached split matches
// the multi-repo path exactly.
func (s *Source) perRepoValues(start, end *time.Time, kind StatKind) ([]RepoValue, error) {
	var mu sync.Mutex
	results := make([]RepoValue, 0, len(s.repos))

	err := forEachRepo(s.repos, s.cfg.Workers, s.progress, func(repo scanner.Repo) error {
		agg := NewAggregator([]scanner.Repo{repo}, s.parser, s.db, s.cfg.Workers, nil)
		v, err := agg.Sum(start, end, kind)
		if err != nil {
			return err
		}
		mu.Lock()
		results = append(results, RepoValue{Repo: repo, Value: int(v)})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ProjectType returns the stored project type for a repository.
func (s *Source) ProjectType(repoPath string) (projectType, source string, ok bool, err error) {
	return s.db.ProjectType(repoPath)
}

// SetProjectType stores a project type for a repository; the store
// invalidates the repository's cached days in the same transaction.
func (s *Source) SetProjectType(repoPath, projectType, source string) error {
	return s.db.SetProjectType(repoPath, projectType, source)
}

// AllProjectTypes lists every stored repository type assignment.
func (s *Source) AllProjectTypes() ([]store.RepoType, error) {
	return s.db.AllProjectTypes()
}

// DetectAndStoreType runs automatic detection for a repository and, when
// exactly one profile matches, persists the result with the auto source.
// Ambiguous and unknown outcomes are returned for the caller to surface;
// nothing is stored for them.
func (s *Source) DetectAndStoreType(repoPath string) (string, project.Outcome, error) {
	name, outcome := project.Detect(repoPath)
	if outcome != project.Detected {
		return "", outcome, nil
	}
	if err := s.db.SetProjectType(repoPath, name, store.SourceAuto); err != nil {
		return "", outcome, err
	}
	return name, outcome, nil
}

// MatchingTypes returns every profile matching the repository, for
// disambiguating an ambiguous detection.
func (s *Source) MatchingTypes(repoPath string) []string {
	return project.MatchingTypes(repoPath)
}

// AnalyzeExclusions classifies every tracked file in a repository using
// the parser for its stored (or detected, or generic) project type.
func (s *Source) AnalyzeExclusions(repoPath string) (*gitlog.ExclusionReport, error) {
	typeName, _, ok, err := s.db.ProjectType(repoPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		detected, outcome := project.Detect(repoPath)
		if outcome == project.Detected {
			typeName = detected
		} else {
			typeName = project.Generic
		}
	}
	return s.parserFor(typeName).AnalyzeExclusions(repoPath)
}

// parserFor returns the parser for a project type, building it on first
// use. The default parser serves the generic profile.
func (s *Source) parserFor(typeName string) *gitlog.Parser {
	if typeName == "" || typeName == project.Generic {
		return s.parser
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.parsers[typeName]; ok {
		return p
	}
	p := newParser(s.cfg, project.Get(typeName))
	s.parsers[typeName] = p
	return p
}

// ClearRepoCache removes all cached days for one repository.
func (s *Source) ClearRepoCache(repoPath string) error {
	return s.db.ClearRepo(repoPath)
}

// ClearCache removes all cached days for every repository.
func (s *Source) ClearCache() error {
	return s.db.ClearAll()
}

func sortRepoDays(days []RepoDay) {
	sort.Slice(days, func(i, j int) bool { return days[i].Day.Before(days[j].Day) })
}
