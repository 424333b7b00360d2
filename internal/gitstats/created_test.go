package gitstats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/gitmetrics/internal/scanner"
)

// ---------------------------------------------------------------------------
// CreatedCounter
// ---------------------------------------------------------------------------

func TestCount_ByFirstCommitDate(t *testing.T) {
	requireGit(t)
	root := t.TempDir()
	alpha := initRepo(t, root, "alpha")
	bravo := initRepo(t, root, "bravo")
	commitLines(t, alpha, "a.go", 1, daysAgo(10))
	commitLines(t, alpha, "b.go", 1, daysAgo(1)) // later activity is not creation
	commitLines(t, bravo, "a.rs", 1, daysAgo(2))

	c := NewCreatedCounter([]scanner.Repo{alpha, bravo}, genericParser(), 4, nil)

	if got := c.Count(nil, nil); got != 2 {
		t.Errorf("unbounded count = %v, want 2", got)
	}

	start := daysAgo(5)
	if got := c.Count(&start, nil); got != 1 {
		t.Errorf("count since 5 days ago = %v, want 1", got)
	}

	end := daysAgo(5)
	if got := c.Count(nil, &end); got != 1 {
		t.Errorf("count until 5 days ago = %v, want 1", got)
	}

	start, end = daysAgo(3), daysAgo(1)
	if got := c.Count(&start, &end); got != 1 {
		t.Errorf("count in window = %v, want 1", got)
	}
}

func TestCount_RepoWithoutAuthorCommitsIgnored(t *testing.T) {
	requireGit(t)
	root := t.TempDir()
	alpha := initRepo(t, root, "alpha")
	gitRun(t, alpha.Path, nil, "config", "user.name", "Charles Babbage")
	gitRun(t, alpha.Path, nil, "config", "user.email", "charles@example.com")
	commitLines(t, alpha, "theirs.go", 1, daysAgo(1))

	c := NewCreatedCounter([]scanner.Repo{alpha}, genericParser(), 4, nil)
	if got := c.Count(nil, nil); got != 0 {
		t.Errorf("count = %v, want 0 for foreign-author repo", got)
	}
}

func TestCount_MemoizesFirstCommitDates(t *testing.T) {
	requireGit(t)
	root := t.TempDir()
	alpha := initRepo(t, root, "alpha")
	commitLines(t, alpha, "a.go", 1, daysAgo(4))

	c := NewCreatedCounter([]scanner.Repo{alpha}, genericParser(), 4, nil)
	if got := c.Count(nil, nil); got != 1 {
		t.Fatalf("first count = %v, want 1", got)
	}

	// With the repository gone, only the memo can answer.
	if err := os.RemoveAll(filepath.Join(alpha.Path, ".git")); err != nil {
		t.Fatal(err)
	}
	if got := c.Count(nil, nil); got != 1 {
		t.Errorf("memoized count = %v, want 1", got)
	}
}

func TestFirstCommits_SortedAscending(t *testing.T) {
	requireGit(t)
	root := t.TempDir()
	alpha := initRepo(t, root, "alpha")
	bravo := initRepo(t, root, "bravo")
	charlie := initRepo(t, root, "charlie")
	commitLines(t, alpha, "a.go", 1, daysAgo(2))
	commitLines(t, bravo, "b.go", 1, daysAgo(9))
	commitLines(t, charlie, "c.go", 1, daysAgo(5))

	c := NewCreatedCounter([]scanner.Repo{alpha, bravo, charlie}, genericParser(), 4, nil)
	results := c.FirstCommits(nil, nil)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := []string{"bravo", "charlie", "alpha"}
	for i, name := range want {
		if results[i].Repo.Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, results[i].Repo.Name)
		}
	}
	if !results[0].Day.Equal(daysAgo(9)) {
		t.Errorf("expected earliest day %s, got %s", daysAgo(9), results[0].Day)
	}
}
