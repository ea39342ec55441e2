package store

import (
	"fmt"
	"time"

	"github.com/qurandl/qurandl/internal/domain"
)

// RecordRun persists a finished summary. Write-only bookkeeping; downloads
// never depend on it.
func (s *Store) RecordRun(summary domain.DownloadSummary) error {
	query := `INSERT OR REPLACE INTO run_history (id, reciter, requested, succeeded, failed, elapsed_ms, output_dir)
              VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		summary.RunID,
		summary.Reciter,
		summary.Requested,
		summary.Succeeded,
		summary.Failed,
		summary.Elapsed.Milliseconds(),
		summary.OutputDir,
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", summary.RunID, err)
	}
	return nil
}

// RecentRuns returns up to limit history rows, newest first.
func (s *Store) RecentRuns(limit int) ([]domain.DownloadSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, reciter, requested, succeeded, failed, elapsed_ms, output_dir
		FROM run_history
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.DownloadSummary
	for rows.Next() {
		var r domain.DownloadSummary
		var elapsedMS int64
		if err := rows.Scan(&r.RunID, &r.Reciter, &r.Requested, &r.Succeeded, &r.Failed, &elapsedMS, &r.OutputDir); err != nil {
			return nil, err
		}
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
