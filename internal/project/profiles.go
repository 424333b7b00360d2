// Package project classifies repositories against a fixed table of named
// project-type profiles and carries the per-type file-inclusion rules.
package project

import "sort"

// Generic is the fallback profile name used when no specific type applies.
const Generic = "generic"

// Profile bundles the detection markers and file-filtering rules for one
// project type.
type Profile struct {
	// Name is the profile's registry key.
	Name string

	// DetectionFiles are filenames (glob patterns allowed) checked
	// directly in the repository root. Any single match qualifies.
	DetectionFiles []string

	// DetectionDirs are directory names that must ALL exist in the
	// repository root for the profile to match on directories.
	DetectionDirs []string

	// IncludePatterns, when non-empty, restrict counting to files whose
	// repo-relative path matches at least one pattern (doublestar syntax).
	IncludePatterns []string

	// ExcludeDirs and ExcludeExtensions are layered on top of the global
	// exclusion sets when this profile is active.
	ExcludeDirs       []string
	ExcludeExtensions []string
}

// profiles is the closed registry of known project types. The table is
// fixed at compile time; repositories that match none of the non-generic
// entries fall back to generic.
var profiles = map[string]Profile{
	"unity": {
		Name:            "unity",
		DetectionFiles:  []string{"*.unity", "ProjectSettings/ProjectVersion.txt"},
		DetectionDirs:   []string{"Assets", "ProjectSettings"},
		IncludePatterns: []string{"Assets/Scripts/**/*.cs"},
		ExcludeDirs:     []string{"Library", "Temp", "Obj", "Logs", "UserSettings"},
		ExcludeExtensions: []string{
			".meta", ".unity", ".prefab", ".asset", ".mat", ".anim",
		},
	},
	"flutter": {
		Name:           "flutter",
		DetectionFiles: []string{"pubspec.yaml"},
		ExcludeDirs:    []string{".dart_tool", "ios", "android", "macos", "windows", "linux", "web"},
		ExcludeExtensions: []string{
			".g.dart", ".freezed.dart", ".gr.dart", ".mocks.dart",
		},
	},
	"node": {
		Name:              "node",
		DetectionFiles:    []string{"package.json"},
		ExcludeDirs:       []string{"coverage", ".next", "out"},
		ExcludeExtensions: []string{".d.ts"},
	},
	"python": {
		Name:           "python",
		DetectionFiles: []string{"pyproject.toml", "setup.py", "requirements.txt"},
		ExcludeDirs:    []string{".mypy_cache", ".pytest_cache", ".ruff_cache", "htmlcov"},
	},
	"go": {
		Name:           "go",
		DetectionFiles: []string{"go.mod"},
		ExcludeExtensions: []string{
			".pb.go", "_string.go",
		},
	},
	"rust": {
		Name:           "rust",
		DetectionFiles: []string{"Cargo.toml"},
		ExcludeDirs:    []string{"target"},
	},
	"dotnet": {
		Name:           "dotnet",
		DetectionFiles: []string{"*.sln", "*.csproj"},
		ExcludeDirs:    []string{"bin", "obj", "packages", ".vs"},
		ExcludeExtensions: []string{
			".designer.cs", ".resx",
		},
	},
	Generic: {
		Name: Generic,
	},
}

// Get returns the profile for the given name, falling back to the generic
// profile for unknown names.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	return profiles[Generic]
}

// Names returns all registered profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
