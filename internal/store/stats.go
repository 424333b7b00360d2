package store

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/gitmetrics/internal/gitlog"
)

// CachedSum sums the cached rows for days in [start, min(end, yesterday)].
// Days beyond yesterday are never considered cached: today's history is
// mutable and must always be re-derived.
func (db *DB) CachedSum(repoPath string, start, end time.Time) (gitlog.DailyStats, error) {
	yesterday := gitlog.Today().AddDate(0, 0, -1)
	effectiveEnd := end
	if effectiveEnd.After(yesterday) {
		effectiveEnd = yesterday
	}
	if effectiveEnd.Before(start) {
		return gitlog.DailyStats{}, nil
	}

	row := db.conn.QueryRow(`
		SELECT COALESCE(SUM(added), 0),
		       COALESCE(SUM(removed), 0),
		       COALESCE(SUM(commits), 0)
		FROM daily_stats
		WHERE repo_path = ? AND day >= ? AND day <= ?`,
		repoKey(repoPath),
		start.Format(gitlog.DayFormat),
		effectiveEnd.Format(gitlog.DayFormat),
	)

	var s gitlog.DailyStats
	if err := row.Scan(&s.Added, &s.Removed, &s.Commits); err != nil {
		return gitlog.DailyStats{}, fmt.Errorf("summing cached stats: %w", err)
	}
	return s, nil
}

// CachedDays returns the set of days already cached for the repository
// within [start, end], keyed by ISO day string.
func (db *DB) CachedDays(repoPath string, start, end time.Time) (map[string]bool, error) {
	rows, err := db.conn.Query(`
		SELECT day FROM daily_stats
		WHERE repo_path = ? AND day >= ? AND day <= ?`,
		repoKey(repoPath),
		start.Format(gitlog.DayFormat),
		end.Format(gitlog.DayFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("querying cached days: %w", err)
	}
	defer rows.Close()

	days := make(map[string]bool)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		days[raw] = true
	}
	return days, rows.Err()
}

// MissingDays returns, in ascending order, every day in
// [start, min(end, today)] with no cached row. Today is always reported
// missing regardless of cache contents; future days are never reported.
func (db *DB) MissingDays(repoPath string, start, end time.Time) ([]time.Time, error) {
	today := gitlog.Today()
	effectiveEnd := end
	if effectiveEnd.After(today) {
		effectiveEnd = today
	}
	if effectiveEnd.Before(start) {
		return nil, nil
	}

	cached, err := db.CachedDays(repoPath, start, effectiveEnd)
	if err != nil {
		return nil, err
	}

	var missing []time.Time
	for day := start; !day.After(effectiveEnd); day = day.AddDate(0, 0, 1) {
		if day.Equal(today) || !cached[day.Format(gitlog.DayFormat)] {
			missing = append(missing, day)
		}
	}
	return missing, nil
}

// SaveBatch upserts all entries whose day is strictly before today in one
// transaction. Entries for today or later are silently dropped.
func (db *DB) SaveBatch(repoPath string, daily map[time.Time]gitlog.DailyStats) error {
	today := gitlog.Today()
	key := repoKey(repoPath)

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO daily_stats (repo_path, day, added, removed, commits)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	wrote := false
	for day, s := range daily {
		if !day.Before(today) {
			continue
		}
		if _, err := stmt.Exec(key, day.Format(gitlog.DayFormat), s.Added, s.Removed, s.Commits); err != nil {
			return fmt.Errorf("upserting %s %s: %w", key, day.Format(gitlog.DayFormat), err)
		}
		wrote = true
	}

	if !wrote {
		return nil
	}
	return tx.Commit()
}

// ClearRepo deletes all cached rows for a repository.
func (db *DB) ClearRepo(repoPath string) error {
	_, err := db.conn.Exec("DELETE FROM daily_stats WHERE repo_path = ?", repoKey(repoPath))
	return err
}

// ClearAll deletes all cached rows.
func (db *DB) ClearAll() error {
	_, err := db.conn.Exec("DELETE FROM daily_stats")
	return err
}

// CachedRowCount returns the total number of cached day rows, for cache
// status reporting.
func (db *DB) CachedRowCount() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM daily_stats").Scan(&n)
	return n, err
}
