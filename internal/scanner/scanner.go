// Package scanner discovers git repositories under configured root
// directories.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Repo is a discovered git repository.
type Repo struct {
	// Path is the absolute path to the repository root.
	Path string

	// Name is the repository directory name.
	Name string
}

// Discover walks each provided root looking for immediate subdirectories
// that contain a .git/ directory. The walk is one level deep: repositories
// nested below other repositories are not found. Missing or non-directory
// roots are silently skipped, and results are deduplicated by absolute path
// and sorted by name.
func Discover(roots []string) []Repo {
	var repos []Repo
	seen := make(map[string]bool)

	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			// Skip hidden directories.
			if strings.HasPrefix(entry.Name(), ".") {
				continue
			}

			repoPath := filepath.Join(root, entry.Name())

			gitDir := filepath.Join(repoPath, ".git")
			if _, err := os.Stat(gitDir); err != nil {
				continue
			}

			abs, err := filepath.Abs(repoPath)
			if err != nil {
				abs = repoPath
			}
			if seen[abs] {
				continue
			}
			seen[abs] = true

			repos = append(repos, Repo{Path: abs, Name: entry.Name()})
		}
	}

	sort.Slice(repos, func(i, j int) bool {
		return strings.ToLower(repos[i].Name) < strings.ToLower(repos[j].Name)
	})

	return repos
}
