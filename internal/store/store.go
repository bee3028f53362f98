// Package store handles score and run-history persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/tuiaim/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so that ended_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for best scores and run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scores (
			user TEXT PRIMARY KEY,
			best INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			user TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			score INTEGER NOT NULL,
			levels_completed INTEGER NOT NULL,
			levels_skipped INTEGER NOT NULL,
			last_level INTEGER NOT NULL,
			total_levels INTEGER NOT NULL,
			finished INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_user ON runs(user);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadScores returns the whole user -> best score mapping.
func (s *Store) LoadScores(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user, best FROM scores`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	scores := map[string]int{}
	for rows.Next() {
		var user string
		var best int
		if err := rows.Scan(&user, &best); err != nil {
			return nil, err
		}
		scores[user] = best
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

// SaveScores replaces the stored mapping with scores in one transaction.
func (s *Store) SaveScores(ctx context.Context, scores map[string]int) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM scores`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO scores (user, best) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for user, best := range scores {
		if _, err = stmt.ExecContext(ctx, user, best); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// InsertRun stores a finished run.
func (s *Store) InsertRun(ctx context.Context, run model.RunRecord) error {
	finished := 0
	if run.Finished {
		finished = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, user, started_at, ended_at, score, levels_completed, levels_skipped, last_level, total_levels, finished)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.User,
		run.StartedAt.UTC().Format(timeLayout),
		run.EndedAt.UTC().Format(timeLayout),
		run.Score,
		run.LevelsCompleted,
		run.LevelsSkipped,
		run.LastLevel,
		run.TotalLevels,
		finished,
	)
	return err
}

// ListRuns returns runs oldest first, filtered by user and limited to the
// most recent cfg.Last runs when positive.
func (s *Store) ListRuns(ctx context.Context, cfg model.HistoryConfig) ([]model.RunRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.User != "" {
		clauses = append(clauses, "user = ?")
		args = append(args, cfg.User)
	}
	query := fmt.Sprintf(`SELECT id, user, started_at, ended_at, score, levels_completed, levels_skipped, last_level, total_levels, finished
		FROM runs
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunRecord
	for rows.Next() {
		var run model.RunRecord
		var startedAt, endedAt string
		var finished int
		if err := rows.Scan(&run.ID, &run.User, &startedAt, &endedAt, &run.Score,
			&run.LevelsCompleted, &run.LevelsSkipped, &run.LastLevel, &run.TotalLevels, &finished); err != nil {
			return nil, err
		}
		if run.StartedAt, err = parseTime(startedAt); err != nil {
			return nil, err
		}
		if run.EndedAt, err = parseTime(endedAt); err != nil {
			return nil, err
		}
		run.Finished = finished != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(runs) > cfg.Last {
		runs = runs[len(runs)-cfg.Last:]
	}
	return runs, nil
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err == nil {
		return t, nil
	}
	// Rows written before the fixed-width layout.
	return time.Parse(time.RFC3339Nano, value)
}
