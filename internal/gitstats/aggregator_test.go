package gitstats

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blackwell-systems/gitmetrics/internal/gitlog"
	"github.com/blackwell-systems/gitmetrics/internal/project"
	"github.com/blackwell-systems/gitmetrics/internal/scanner"
	"github.com/blackwell-systems/gitmetrics/internal/store"
)

// ---------------------------------------------------------------------------
// Sum
// ---------------------------------------------------------------------------

func TestSum_TwoRepos(t *testing.T) {
	requireGit(t)
	root := t.TempDir()
	alpha := initRepo(t, root, "alpha")
	bravo := initRepo(t, root, "bravo")
	commitLines(t, alpha, "main.go", 10, daysAgo(3))
	commitLines(t, bravo, "lib.rs", 5, daysAgo(0))

	db := openTestDB(t)
	agg := NewAggregator([]scanner.Repo{alpha, bravo}, genericParser(), db, 4, nil)

	start := daysAgo(4)
	got, err := agg.Sum(&start, nil, Added)
	if err != nil {
		t.Fatal(err)
	}
	if got != 15 {
		t.Errorf("expected 15 added across repos, got %v", got)
	}

	commits, err := agg.Sum(&start, nil, Commits)
	if err != nil {
		t.Fatal(err)
	}
	if commits != 2 {
		t.Errorf("expected 2 commits, got %v", commits)
	}
}

func TestSum_SecondCallServedFromCache(t *testing.T) {
	requireGit(t)
	root := t.TempDir()
	alpha := initRepo(t, root, "alpha")
	commitLines(t, alpha, "a.go", 10, daysAgo(3))
	commitLines(t, alpha, "b.go", 4, daysAgo(1))

	db := openTestDB(t)
	agg := NewAggregator([]scanner.Repo{alpha}, genericParser(), db, 4, nil)

	start, end := daysAgo(4), daysAgo(1)
	first, err := agg.Sum(&start, &end, Added)
	if err != nil {
		t.Fatal(err)
	}
	if first != 14 {
		t.Fatalf("expected 14 added, got %v", first)
	}

	// Every day of the window is now cached (the range ends yesterday).
	missing, err := db.MissingDays(alpha.Path, start, end)
	if err != nil {
		t.Fatal(err)
	}
	if len(missing) != 0 {
		t.Fatalf("expected no missing days after fill, got %v", missing)
	}

	// With the repository gone, only the cache can answer. Same result
	// proves the second call issued no git invocations.
	if err := os.RemoveAll(filepath.Join(alpha.Path, ".git")); err != nil {
		t.Fatal(err)
	}
	second, err := agg.Sum(&start, &end, Added)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Errorf("cached result %v differs from first run %v", second, first)
	}
}

func TestSum_TodayNeverCached(t *testing.T) {
	requireGit(t)
	root := t.TempDir()
	alpha := initRepo(t, root, "alpha")
	commitLines(t, alpha, "a.go", 7, daysAgo(0))

	db := openTestDB(t)
	agg := NewAggregator([]scanner.Repo{alpha}, genericParser(), db, 4, nil)

	start := daysAgo(0)
	got, err := agg.Sum(&start, nil, Added)
	if err != nil {
		t.Fatal(err)
	}
	if got != 7 {
		t.Fatalf("expected 7 added today, got %v", got)
	}

	cached, err := db.CachedDays(alpha.Path, start, gitlog.Today())
	if err != nil {
		t.Fatal(err)
	}
	if cached[gitlog.Today().Format(gitlog.DayFormat)] {
		t.Error("today must never be written to the cache")
	}

	// A later commit today is visible on the next aggregation.
	commitLines(t, alpha, "b.go", 2, daysAgo(0))
	got, err = agg.Sum(&start, nil, Added)
	if err != nil {
		t.Fatal(err)
	}
	if got != 9 {
		t.Errorf("expected 9 added after second commit, got %v", got)
	}
}

func TestSum_FillsOnlyGaps(t *testing.T) {
	requireGit(t)
	root := t.TempDir()
	alpha := initRepo(t, root, "alpha")
	commitLines(t, alpha, "a.go", 3, daysAgo(5))
	commitLines(t, alpha, "b.go", 8, daysAgo(2))

	db := openTestDB(t)

	// Pre-cache the two commit days with deliberately wrong numbers; the
	// aggregator must trust them and only parse the gap days.
	err := db.SaveBatch(alpha.Path, map[time.Time]gitlog.DailyStats{
		daysAgo(5): {Added: 100, Commits: 1},
		daysAgo(2): {Added: 200, Commits: 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	agg := NewAggregator([]scanner.Repo{alpha}, genericParser(), db, 4, nil)
	start, end := daysAgo(5), daysAgo(1)
	got, err := agg.Sum(&start, &end, Added)
	if err != nil {
		t.Fatal(err)
	}
	if got != 300 {
		t.Errorf("expected cached values to win (300), got %v", got)
	}
}

func TestSum_NetEqualsAddedMinusRemoved(t *testing.T) {
	requireGit(t)
	root := t.TempDir()
	alpha := initRepo(t, root, "alpha")
	commitLines(t, alpha, "a.go", 5, daysAgo(3))
	commitLines(t, alpha, "a.go", 2, daysAgo(2)) // rewrite: 2 added, 5 removed

	db := openTestDB(t)
	agg := NewAggregator([]scanner.Repo{alpha}, genericParser(), db, 4, nil)

	start := daysAgo(4)
	added, err := agg.Sum(&start, nil, Added)
	if err != nil {
		t.Fatal(err)
	}
	removed, err := agg.Sum(&start, nil, Removed)
	if err != nil {
		t.Fatal(err)
	}
	net, err := agg.Sum(&start, nil, Net)
	if err != nil {
		t.Fatal(err)
	}
	if net != added-removed {
		t.Errorf("net %v != added %v - removed %v", net, added, removed)
	}
}

func TestSum_NilStartBypassesCache(t *testing.T) {
	requireGit(t)
	root := t.TempDir()
	alpha := initRepo(t, root, "alpha")
	commitLines(t, alpha, "a.go", 6, daysAgo(2))

	db := openTestDB(t)
	agg := NewAggregator([]scanner.Repo{alpha}, genericParser(), db, 4, nil)

	got, err := agg.Sum(nil, nil, Added)
	if err != nil {
		t.Fatal(err)
	}
	if got != 6 {
		t.Fatalf("expected 6 added for unbounded range, got %v", got)
	}

	n, err := db.CachedRowCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("unbounded aggregation must not write to the cache, got %d rows", n)
	}
}

func TestSum_FailedRepoContributesZero(t *testing.T) {
	requireGit(t)
	root := t.TempDir()
	alpha := initRepo(t, root, "alpha")
	commitLines(t, alpha, "a.go", 5, daysAgo(1))

	// A directory that looks like a repo to the scanner but is not one.
	brokenPath := filepath.Join(root, "broken")
	if err := os.MkdirAll(filepath.Join(brokenPath, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	broken := scanner.Repo{Path: brokenPath, Name: "broken"}

	db := openTestDB(t)
	agg := NewAggregator([]scanner.Repo{alpha, broken}, genericParser(), db, 4, nil)

	start := daysAgo(2)
	got, err := agg.Sum(&start, nil, Added)
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Errorf("expected broken repo to contribute zero, got %v", got)
	}
}

func TestSum_TypeChangeInvalidatesAndRecounts(t *testing.T) {
	requireGit(t)
	root := t.TempDir()
	game := initRepo(t, root, "game")
	commitLines(t, game, "Assets/Scripts/Player.cs", 10, daysAgo(2))
	commitLines(t, game, "Assets/Art/notes.txt", 20, daysAgo(2))

	db := openTestDB(t)
	start, end := daysAgo(3), daysAgo(1)

	// Generic rules count both files.
	agg := NewAggregator([]scanner.Repo{game}, genericParser(), db, 4, nil)
	got, err := agg.Sum(&start, &end, Added)
	if err != nil {
		t.Fatal(err)
	}
	if got != 30 {
		t.Fatalf("expected 30 added under generic rules, got %v", got)
	}

	// Assigning the unity type clears the cached days; a unity parser
	// then recounts with the include patterns in force.
	if err := db.SetProjectType(game.Path, "unity", store.SourceUser); err != nil {
		t.Fatal(err)
	}
	unityParser := gitlog.NewParser(testAuthor, nil, nil, nil, project.Get("unity"))
	agg = NewAggregator([]scanner.Repo{game}, unityParser, db, 4, nil)
	got, err = agg.Sum(&start, &end, Added)
	if err != nil {
		t.Fatal(err)
	}
	if got != 10 {
		t.Errorf("expected 10 added under unity rules, got %v", got)
	}
}
