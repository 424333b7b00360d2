package gitlog

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/blackwell-systems/gitmetrics/internal/project"
)

// Rules are the merged file-exclusion rules for one parser: the global
// sets plus whatever the active project-type profile layers on top.
type Rules struct {
	dirs            map[string]bool
	extensions      []string
	filenames       map[string]bool
	includePatterns []string
}

// NewRules merges the global exclusion sets with the profile's extra
// exclusions and inclusion globs.
func NewRules(dirs, extensions, filenames []string, profile project.Profile) Rules {
	r := Rules{
		dirs:      make(map[string]bool, len(dirs)+len(profile.ExcludeDirs)),
		filenames: make(map[string]bool, len(filenames)),
	}
	for _, d := range dirs {
		r.dirs[d] = true
	}
	for _, d := range profile.ExcludeDirs {
		r.dirs[d] = true
	}
	for _, f := range filenames {
		r.filenames[f] = true
	}
	r.extensions = append(r.extensions, extensions...)
	r.extensions = append(r.extensions, profile.ExcludeExtensions...)
	r.includePatterns = append(r.includePatterns, profile.IncludePatterns...)
	return r
}

// Reason explains why a file was excluded.
type Reason int

const (
	// Included means no rule excluded the file.
	Included Reason = iota

	// ByDir means a path segment matched an excluded directory name.
	ByDir

	// ByFilename means the basename matched an excluded exact filename.
	ByFilename

	// ByExtension means the basename ended with an excluded suffix.
	ByExtension

	// ByIncludeMiss means inclusion globs are declared and none matched.
	ByIncludeMiss
)

// Classify applies the exclusion rules to a repo-relative file path and
// returns why (or whether) the file is excluded. The checks run in the
// same order the counts are reported: directory, filename, extension,
// inclusion-glob miss.
func (r Rules) Classify(filePath string) Reason {
	normalized := strings.ReplaceAll(filePath, "\\", "/")

	for _, part := range strings.Split(normalized, "/") {
		if r.dirs[part] {
			return ByDir
		}
	}

	name := path.Base(normalized)
	if r.filenames[name] {
		return ByFilename
	}

	for _, ext := range r.extensions {
		if strings.HasSuffix(name, ext) {
			return ByExtension
		}
	}

	if len(r.includePatterns) > 0 && !r.matchesInclude(normalized) {
		return ByIncludeMiss
	}

	return Included
}

// Excluded reports whether the file is excluded by any rule.
func (r Rules) Excluded(filePath string) bool {
	return r.Classify(filePath) != Included
}

func (r Rules) matchesInclude(normalized string) bool {
	for _, pattern := range r.includePatterns {
		if ok, _ := doublestar.Match(pattern, normalized); ok {
			return true
		}
	}
	return false
}
