package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Outcome classifies the result of automatic project-type detection.
type Outcome int

const (
	// Detected means exactly one profile matched.
	Detected Outcome = iota

	// Ambiguous means more than one profile matched; the caller must
	// choose one.
	Ambiguous

	// Unknown means no profile matched; the caller may assign one or
	// fall back to generic.
	Unknown
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Detected:
		return "detected"
	case Ambiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// MatchingTypes returns all non-generic profile names matching the
// repository. Detection is a pure filesystem read with no side effects.
func MatchingTypes(repoPath string) []string {
	var matches []string
	for _, name := range Names() {
		if name == Generic {
			continue
		}
		if matchesProfile(repoPath, profiles[name]) {
			matches = append(matches, name)
		}
	}
	return matches
}

// Detect resolves the repository to a single project type. The second
// return value reports whether detection succeeded; on Ambiguous or
// Unknown the name is empty and the caller must disambiguate.
func Detect(repoPath string) (string, Outcome) {
	matches := MatchingTypes(repoPath)
	switch len(matches) {
	case 1:
		return matches[0], Detected
	case 0:
		return "", Unknown
	default:
		return "", Ambiguous
	}
}

// matchesProfile reports whether the repository matches the profile: any
// detection file present, or all detection directories present.
func matchesProfile(repoPath string, p Profile) bool {
	for _, pattern := range p.DetectionFiles {
		if hasMatchingFile(repoPath, pattern) {
			return true
		}
	}

	if len(p.DetectionDirs) > 0 {
		all := true
		for _, dir := range p.DetectionDirs {
			info, err := os.Stat(filepath.Join(repoPath, dir))
			if err != nil || !info.IsDir() {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}

	return false
}

// hasMatchingFile reports whether a file in the repository root matches the
// pattern. Glob patterns are checked against root entries only; plain names
// (which may include a subdirectory) are checked with a direct stat.
func hasMatchingFile(repoPath, pattern string) bool {
	if !strings.ContainsAny(pattern, "*?[") {
		info, err := os.Stat(filepath.Join(repoPath, pattern))
		return err == nil && info.Mode().IsRegular()
	}

	entries, err := os.ReadDir(repoPath)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := doublestar.Match(pattern, entry.Name()); ok {
			return true
		}
	}
	return false
}
