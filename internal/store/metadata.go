package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Type sources recorded in repo_metadata.
const (
	// SourceAuto marks a project type assigned by automatic detection.
	SourceAuto = "auto"

	// SourceUser marks a project type assigned manually.
	SourceUser = "user"
)

// RepoType is one row of the repo_metadata table.
type RepoType struct {
	RepoPath    string
	ProjectType string
	TypeSource  string
	DetectedAt  string
}

// ProjectType returns the stored project type and its source for a
// repository, or ok=false if none is stored.
func (db *DB) ProjectType(repoPath string) (projectType, source string, ok bool, err error) {
	row := db.conn.QueryRow(
		"SELECT project_type, type_source FROM repo_metadata WHERE repo_path = ?",
		repoKey(repoPath),
	)
	err = row.Scan(&projectType, &source)
	if err == sql.ErrNoRows {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, err
	}
	return projectType, source, true, nil
}

// SetProjectType upserts the repository's project type and deletes all of
// its cached day rows in the same transaction. The cache must go: the
// type's inclusion/exclusion rules change every historical day's counts.
func (db *DB) SetProjectType(repoPath, projectType, source string) error {
	key := repoKey(repoPath)

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO repo_metadata (repo_path, project_type, type_source, detected_at)
		VALUES (?, ?, ?, ?)`,
		key, projectType, source, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("upserting project type: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM daily_stats WHERE repo_path = ?", key); err != nil {
		return fmt.Errorf("invalidating cached stats: %w", err)
	}

	return tx.Commit()
}

// DeleteProjectType removes the stored project type for a repository.
func (db *DB) DeleteProjectType(repoPath string) error {
	_, err := db.conn.Exec("DELETE FROM repo_metadata WHERE repo_path = ?", repoKey(repoPath))
	return err
}

// AllProjectTypes returns every stored project type, ordered by repository
// path.
func (db *DB) AllProjectTypes() ([]RepoType, error) {
	rows, err := db.conn.Query(
		"SELECT repo_path, project_type, type_source, detected_at FROM repo_metadata ORDER BY repo_path",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []RepoType
	for rows.Next() {
		var rt RepoType
		if err := rows.Scan(&rt.RepoPath, &rt.ProjectType, &rt.TypeSource, &rt.DetectedAt); err != nil {
			return nil, err
		}
		types = append(types, rt)
	}
	return types, rows.Err()
}
