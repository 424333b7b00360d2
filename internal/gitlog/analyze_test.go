package gitlog

import (
	"testing"

	"github.com/blackwell-systems/gitmetrics/internal/project"
)

// ---------------------------------------------------------------------------
// AnalyzeExclusions
// ---------------------------------------------------------------------------

func TestAnalyzeExclusions_Buckets(t *testing.T) {
	requireGit(t)
	repo := initRepo(t, t.TempDir(), "game")

	tracked := []string{
		"Assets/Scripts/Player.cs",
		"Assets/Scripts/Enemies/Boss.cs",
		"Assets/Scenes/Main.unity",
		"Assets/Art/logo.png",
		"Packages/manifest.json",
	}
	for _, f := range tracked {
		commitFile(t, repo, f, 1, daysAgo(1))
	}

	p := NewParser(testAuthor, nil, []string{".png"}, nil, project.Get("unity"))
	report, err := p.AnalyzeExclusions(repo)
	if err != nil {
		t.Fatal(err)
	}

	if report.ProjectType != "unity" {
		t.Errorf("expected project type 'unity', got %q", report.ProjectType)
	}
	if report.TotalTracked != len(tracked) {
		t.Errorf("expected %d tracked files, got %d", len(tracked), report.TotalTracked)
	}
	if report.Included.Count != 2 {
		t.Errorf("expected 2 included files, got %d (%v)", report.Included.Count, report.Included.Examples)
	}
	if report.ByExtension.Count != 2 {
		// Main.unity and logo.png.
		t.Errorf("expected 2 extension-excluded files, got %d", report.ByExtension.Count)
	}
	// Packages/manifest.json misses the include globs; the bucket counts
	// unique parent directories.
	if report.ByIncludeMiss.Count != 1 {
		t.Errorf("expected 1 include-miss directory, got %d (%v)", report.ByIncludeMiss.Count, report.ByIncludeMiss.Examples)
	}
}

func TestAnalyzeExclusions_DirBucketCountsUniqueDirs(t *testing.T) {
	requireGit(t)
	repo := initRepo(t, t.TempDir(), "web")

	for _, f := range []string{
		"node_modules/react/index.js",
		"node_modules/react/package.json",
		"node_modules/lodash/index.js",
		"src/app.js",
	} {
		commitFile(t, repo, f, 1, daysAgo(1))
	}

	p := NewParser(testAuthor, []string{"node_modules"}, nil, nil, project.Get(project.Generic))
	report, err := p.AnalyzeExclusions(repo)
	if err != nil {
		t.Fatal(err)
	}

	// All three files share the same excluded prefix.
	if report.ByDir.Count != 1 {
		t.Errorf("expected 1 excluded dir, got %d (%v)", report.ByDir.Count, report.ByDir.Examples)
	}
	if len(report.ByDir.Examples) != 1 || report.ByDir.Examples[0] != "node_modules" {
		t.Errorf("expected example 'node_modules', got %v", report.ByDir.Examples)
	}
	if report.Included.Count != 1 {
		t.Errorf("expected 1 included file, got %d", report.Included.Count)
	}
}

func TestAnalyzeExclusions_NotARepo(t *testing.T) {
	requireGit(t)
	p := genericParser()
	if _, err := p.AnalyzeExclusions(t.TempDir()); err == nil {
		t.Error("expected an error for a non-repository directory")
	}
}
