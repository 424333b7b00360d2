package gitlog

import (
	"testing"

	"github.com/blackwell-systems/gitmetrics/internal/project"
)

func genericRules(dirs, extensions, filenames []string) Rules {
	return NewRules(dirs, extensions, filenames, project.Get(project.Generic))
}

// ---------------------------------------------------------------------------
// Classify
// ---------------------------------------------------------------------------

func TestClassify_Included(t *testing.T) {
	r := genericRules([]string{"node_modules"}, []string{".md"}, []string{"go.sum"})

	for _, path := range []string{"main.go", "internal/app/root.go", "src/lib.rs"} {
		if got := r.Classify(path); got != Included {
			t.Errorf("Classify(%q) = %v, want Included", path, got)
		}
	}
}

func TestClassify_ByDir(t *testing.T) {
	r := genericRules([]string{"node_modules", "vendor"}, nil, nil)

	cases := []string{
		"node_modules/react/index.js",
		"packages/app/node_modules/left-pad/index.js",
		"vendor/golang.org/x/sync/errgroup/errgroup.go",
	}
	for _, path := range cases {
		if got := r.Classify(path); got != ByDir {
			t.Errorf("Classify(%q) = %v, want ByDir", path, got)
		}
	}

	// The directory name must match a whole segment, not a substring.
	if got := r.Classify("my_vendor_tools/main.go"); got != Included {
		t.Errorf("Classify(partial segment) = %v, want Included", got)
	}
}

func TestClassify_ByFilename(t *testing.T) {
	r := genericRules(nil, nil, []string{"package-lock.json", "go.sum"})

	if got := r.Classify("frontend/package-lock.json"); got != ByFilename {
		t.Errorf("Classify(lock file) = %v, want ByFilename", got)
	}
	if got := r.Classify("go.sum"); got != ByFilename {
		t.Errorf("Classify(go.sum) = %v, want ByFilename", got)
	}
	if got := r.Classify("package.json"); got != Included {
		t.Errorf("Classify(package.json) = %v, want Included", got)
	}
}

func TestClassify_ByExtension(t *testing.T) {
	r := genericRules(nil, []string{".md", ".min.js"}, nil)

	if got := r.Classify("docs/README.md"); got != ByExtension {
		t.Errorf("Classify(.md) = %v, want ByExtension", got)
	}
	// Multi-part suffixes match the filename end, not just the last dot.
	if got := r.Classify("static/app.min.js"); got != ByExtension {
		t.Errorf("Classify(.min.js) = %v, want ByExtension", got)
	}
	if got := r.Classify("static/app.js"); got != Included {
		t.Errorf("Classify(.js) = %v, want Included", got)
	}
}

func TestClassify_ProfileLayersOnGlobals(t *testing.T) {
	r := NewRules([]string{"node_modules"}, []string{".md"}, nil, project.Get("flutter"))

	// Global rule still applies.
	if got := r.Classify("node_modules/pkg/x.dart"); got != ByDir {
		t.Errorf("global dir rule lost: got %v", got)
	}
	// Flutter's generated-code suffixes come from the profile.
	if got := r.Classify("lib/models/user.g.dart"); got != ByExtension {
		t.Errorf("Classify(.g.dart) = %v, want ByExtension", got)
	}
	if got := r.Classify("lib/models/user.dart"); got != Included {
		t.Errorf("Classify(.dart) = %v, want Included", got)
	}
	// Platform shells are profile-excluded directories.
	if got := r.Classify("android/app/build.gradle"); got != ByDir {
		t.Errorf("Classify(android shell) = %v, want ByDir", got)
	}
}

func TestClassify_UnityIncludePatterns(t *testing.T) {
	r := NewRules(nil, nil, nil, project.Get("unity"))

	// Only C# under Assets/Scripts counts, at any depth.
	included := []string{
		"Assets/Scripts/Player.cs",
		"Assets/Scripts/Enemies/Boss/BossAI.cs",
	}
	for _, path := range included {
		if got := r.Classify(path); got != Included {
			t.Errorf("Classify(%q) = %v, want Included", path, got)
		}
	}

	excluded := map[string]Reason{
		"Assets/Art/model.fbx":            ByIncludeMiss,
		"Packages/manifest.json":          ByIncludeMiss,
		"Assets/Scripts/Player.cs.meta":   ByExtension,
		"Assets/Scenes/Main.unity":        ByExtension,
		"Library/ArtifactDB":              ByDir,
		"Temp/UnityLockfile":              ByDir,
		"ProjectSettings/ProjectVersion.txt": ByIncludeMiss,
	}
	for path, want := range excluded {
		if got := r.Classify(path); got != want {
			t.Errorf("Classify(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestClassify_OrderDirBeforeExtension(t *testing.T) {
	r := genericRules([]string{"vendor"}, []string{".go"}, nil)

	// Both rules would match; the directory check runs first.
	if got := r.Classify("vendor/pkg/main.go"); got != ByDir {
		t.Errorf("Classify = %v, want ByDir (dir check precedes extension)", got)
	}
}

func TestClassify_WindowsSeparators(t *testing.T) {
	r := genericRules([]string{"node_modules"}, nil, nil)

	if got := r.Classify(`node_modules\react\index.js`); got != ByDir {
		t.Errorf("Classify(backslash path) = %v, want ByDir", got)
	}
}

func TestExcluded(t *testing.T) {
	r := genericRules(nil, []string{".md"}, nil)

	if !r.Excluded("README.md") {
		t.Error("README.md should be excluded")
	}
	if r.Excluded("main.go") {
		t.Error("main.go should not be excluded")
	}
}
