package gitstats

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/gitmetrics/internal/gitlog"
	"github.com/blackwell-systems/gitmetrics/internal/project"
	"github.com/blackwell-systems/gitmetrics/internal/scanner"
	"github.com/blackwell-systems/gitmetrics/internal/store"
)

const testAuthor = "Ada Lovelace"

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func gitRun(t *testing.T, dir string, env []string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

func initRepo(t *testing.T, root, name string) scanner.Repo {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	gitRun(t, dir, nil, "init", "-q")
	gitRun(t, dir, nil, "config", "user.name", testAuthor)
	gitRun(t, dir, nil, "config", "user.email", "ada@example.com")
	gitRun(t, dir, nil, "config", "commit.gpgsign", "false")
	abs, err := filepath.Abs(dir)
	if err != nil {
		t.Fatal(err)
	}
	return scanner.Repo{Path: abs, Name: name}
}

// commitLines writes relPath with n content lines and commits it on the
// given day (noon, local time).
func commitLines(t *testing.T, repo scanner.Repo, relPath string, n int, day time.Time) {
	t.Helper()
	full := filepath.Join(repo.Path, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	content := strings.Repeat("line\n", n)
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	gitRun(t, repo.Path, nil, "add", ".")
	stamp := day.Format(gitlog.DayFormat) + "T12:00:00"
	env := []string{"GIT_AUTHOR_DATE=" + stamp, "GIT_COMMITTER_DATE=" + stamp}
	gitRun(t, repo.Path, env, "commit", "-q", "--allow-empty", "-m", "update "+relPath)
}

func daysAgo(n int) time.Time {
	return gitlog.Today().AddDate(0, 0, -n)
}

func genericParser() *gitlog.Parser {
	return gitlog.NewParser(testAuthor, nil, nil, nil, project.Get(project.Generic))
}

func openTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
