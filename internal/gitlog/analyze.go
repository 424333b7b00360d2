package gitlog

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"path"
	"sort"
	"strings"
)

const (
	maxFileExamples = 5
	maxDirExamples  = 10
)

// Bucket holds a count and a few example paths for one exclusion reason.
type Bucket struct {
	Count    int
	Examples []string
}

// ExclusionReport buckets every git-tracked file by the rule that excluded
// it (or "included"). The directory and inclusion-miss buckets count unique
// directory paths rather than individual files, which keeps the report
// readable for repos with large generated trees.
type ExclusionReport struct {
	TotalTracked  int
	ByDir         Bucket
	ByExtension   Bucket
	ByFilename    Bucket
	ByIncludeMiss Bucket
	Included      Bucket
	ProjectType   string
}

// AnalyzeExclusions classifies every tracked file in the repository
// against the parser's rules. This is a diagnostic pass over `git
// ls-files` output (all tracked files, not just files touched by the
// configured author) used for troubleshooting filter configuration.
func (p *Parser) AnalyzeExclusions(repoPath string) (*ExclusionReport, error) {
	report := &ExclusionReport{ProjectType: p.profileName}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files")
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err != nil {
		return report, err
	}

	excludedDirs := make(map[string]bool)
	includeMissDirs := make(map[string]bool)

	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		filePath := sc.Text()
		if filePath == "" {
			continue
		}
		report.TotalTracked++

		switch p.rules.Classify(filePath) {
		case ByDir:
			excludedDirs[excludedDirPrefix(filePath, p.rules)] = true
		case ByFilename:
			report.ByFilename.Count++
			if len(report.ByFilename.Examples) < maxFileExamples {
				report.ByFilename.Examples = append(report.ByFilename.Examples, filePath)
			}
		case ByExtension:
			report.ByExtension.Count++
			if len(report.ByExtension.Examples) < maxFileExamples {
				report.ByExtension.Examples = append(report.ByExtension.Examples, filePath)
			}
		case ByIncludeMiss:
			includeMissDirs[parentDir(filePath)] = true
		case Included:
			report.Included.Count++
			if len(report.Included.Examples) < maxFileExamples {
				report.Included.Examples = append(report.Included.Examples, filePath)
			}
		}
	}

	report.ByDir = dirBucket(excludedDirs)
	report.ByIncludeMiss = dirBucket(includeMissDirs)
	return report, nil
}

// excludedDirPrefix returns the path up to and including the first segment
// that matched an excluded directory name.
func excludedDirPrefix(filePath string, rules Rules) string {
	parts := strings.Split(strings.ReplaceAll(filePath, "\\", "/"), "/")
	for i, part := range parts {
		if rules.dirs[part] {
			return strings.Join(parts[:i+1], "/")
		}
	}
	return filePath
}

func parentDir(filePath string) string {
	dir := path.Dir(strings.ReplaceAll(filePath, "\\", "/"))
	return dir
}

func dirBucket(dirs map[string]bool) Bucket {
	sorted := make([]string, 0, len(dirs))
	for d := range dirs {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	b := Bucket{Count: len(sorted)}
	if len(sorted) > maxDirExamples {
		b.Examples = sorted[:maxDirExamples]
	} else {
		b.Examples = sorted
	}
	return b
}
