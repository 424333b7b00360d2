package gitlog

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/blackwell-systems/gitmetrics/internal/project"
)

const (
	// statsTimeout bounds each history invocation.
	statsTimeout = 60 * time.Second

	// lookupTimeout bounds first-commit and ls-files invocations.
	lookupTimeout = 30 * time.Second
)

// Parser runs git log for repositories and reduces the numstat output into
// DailyStats, filtered by author and the merged exclusion rules.
//
// A repository whose history invocation fails is remembered for the rest of
// the process and subsequent calls return zero stats without re-invoking
// git. The failed set is in-memory only.
type Parser struct {
	author      string
	rules       Rules
	profileName string

	mu     sync.Mutex
	failed map[string]bool
}

// NewParser builds a parser for the given author and global exclusion
// sets, merged with the profile's extra rules. Use project.Get(project.Generic)
// for the default parser with no type-specific filtering.
func NewParser(author string, dirs, extensions, filenames []string, profile project.Profile) *Parser {
	return &Parser{
		author:      author,
		rules:       NewRules(dirs, extensions, filenames, profile),
		profileName: profile.Name,
		failed:      make(map[string]bool),
	}
}

// Rules returns the parser's merged exclusion rules.
func (p *Parser) Rules() Rules {
	return p.rules
}

// Stats returns line statistics for the repository over the inclusive date
// range. A nil start means unbounded past; a nil end means now. Failures
// are logged, remembered, and reported as zero stats.
func (p *Parser) Stats(repoPath string, start, end *time.Time) DailyStats {
	if p.isFailed(repoPath) {
		return DailyStats{}
	}

	out, err := p.runLog(repoPath, start, end)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			log.Printf("Warning: git is not installed or not in PATH")
			return DailyStats{}
		}
		log.Printf("Warning: git log failed for %s: %v", filepath.Base(repoPath), err)
		p.markFailed(repoPath)
		return DailyStats{}
	}

	return parseNumstat(out, p.rules)
}

// Daily returns stats for a single calendar day. Used by the cache-fill
// path to fetch missing days one at a time.
func (p *Parser) Daily(repoPath string, day time.Time) DailyStats {
	return p.Stats(repoPath, &day, &day)
}

// FirstCommitDate returns the calendar day of the earliest commit by the
// configured author, or false if the repository has none (or the lookup
// fails; first-commit failures are not sticky).
func (p *Parser) FirstCommitDate(repoPath string) (time.Time, bool) {
	if p.isFailed(repoPath) {
		return time.Time{}, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "log",
		"--author="+p.author,
		"--reverse",
		"--format=%ad",
		"--date=short",
	)
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err != nil {
		return time.Time{}, false
	}

	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	if line == "" {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation(DayFormat, line, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// runLog invokes git log with numstat output and commit hashes as record
// boundaries. Day bounds are padded to day-start and day-end so both ends
// of the range are inclusive.
func (p *Parser) runLog(repoPath string, start, end *time.Time) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
	defer cancel()

	args := []string{"log",
		"--author=" + p.author,
		"--pretty=tformat:%H",
		"--numstat",
	}
	if start != nil {
		args = append(args, fmt.Sprintf("--since=%s 00:00:00", start.Format(DayFormat)))
	}
	if end != nil {
		args = append(args, fmt.Sprintf("--until=%s 23:59:59", end.Format(DayFormat)))
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoPath
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// parseNumstat reduces git log output into aggregate stats. The output
// interleaves full commit hashes (the record boundaries) with per-file
// `added<TAB>removed<TAB>path` triples. Binary files report "-" for both
// counts and contribute nothing.
func parseNumstat(out []byte, rules Rules) DailyStats {
	var stats DailyStats

	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}

		if isCommitHash(line) {
			stats.Commits++
			continue
		}

		parts := strings.Split(line, "\t")
		if len(parts) != 3 {
			continue
		}
		addedStr, removedStr, filePath := parts[0], parts[1], parts[2]

		// Binary files.
		if addedStr == "-" || removedStr == "-" {
			continue
		}

		if rules.Excluded(filePath) {
			continue
		}

		added, err1 := strconv.Atoi(addedStr)
		removed, err2 := strconv.Atoi(removedStr)
		if err1 != nil || err2 != nil {
			continue
		}
		stats.Added += added
		stats.Removed += removed
	}

	return stats
}

// isCommitHash reports whether the line is a full 40-hex commit hash. A
// numstat record always contains tabs, so the two line shapes cannot
// collide.
func isCommitHash(line string) bool {
	if len(line) != 40 {
		return false
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func (p *Parser) isFailed(repoPath string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed[repoPath]
}

func (p *Parser) markFailed(repoPath string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[repoPath] = true
}

// ProfileName returns the name of the project-type profile this parser was
// built with.
func (p *Parser) ProfileName() string {
	return p.profileName
}
