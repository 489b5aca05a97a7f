package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mdcards/internal/modules/review/domain"
	reviewout "mdcards/internal/modules/review/port/out"

	_ "modernc.org/sqlite"
)

const logTimeLayout = "2006-01-02T15:04:05.000Z"

type SQLiteReviewLog struct {
	db *sql.DB
}

func NewSQLiteReviewLog(dbPath string) (reviewout.ReviewLog, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	log := &SQLiteReviewLog{db: db}
	if err := log.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *SQLiteReviewLog) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS review_log (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  session_id TEXT NOT NULL,
  source_file TEXT NOT NULL,
  front TEXT NOT NULL,
  back TEXT NOT NULL,
  response TEXT NOT NULL,
  interval_before INTEGER NOT NULL,
  ease_before INTEGER NOT NULL,
  interval_after INTEGER NOT NULL,
  ease_after INTEGER NOT NULL,
  due_at TEXT NOT NULL,
  reviewed_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create review_log table: %w", err)
	}
	return nil
}

func (s *SQLiteReviewLog) Append(ctx context.Context, entry domain.LogEntry) error {
	const stmt = `
INSERT INTO review_log (session_id, source_file, front, back, response, interval_before, ease_before, interval_after, ease_after, due_at, reviewed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err := s.db.ExecContext(ctx, stmt,
		entry.SessionID,
		entry.SourceFile,
		entry.Front,
		entry.Back,
		entry.Response.String(),
		entry.IntervalBefore,
		entry.EaseBefore,
		entry.IntervalAfter,
		entry.EaseAfter,
		entry.Due.UTC().Format(logTimeLayout),
		entry.ReviewedAt.UTC().Format(logTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("append review log: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *SQLiteReviewLog) Recent(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	const query = `
SELECT session_id, source_file, front, back, response, interval_before, ease_before, interval_after, ease_after, due_at, reviewed_at
FROM review_log
ORDER BY id DESC
LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query review log: %w", err)
	}
	defer rows.Close()

	out := make([]domain.LogEntry, 0)
	for rows.Next() {
		var (
			entry                       domain.LogEntry
			response, dueAt, reviewedAt string
		)
		if err := rows.Scan(&entry.SessionID, &entry.SourceFile, &entry.Front, &entry.Back, &response,
			&entry.IntervalBefore, &entry.EaseBefore, &entry.IntervalAfter, &entry.EaseAfter, &dueAt, &reviewedAt); err != nil {
			return nil, fmt.Errorf("scan review log: %w", err)
		}
		if entry.Response, err = domain.ParseResponse(response); err != nil {
			return nil, fmt.Errorf("decode review log response: %w", err)
		}
		if entry.Due, err = time.Parse(logTimeLayout, dueAt); err != nil {
			return nil, fmt.Errorf("decode review log due: %w", err)
		}
		if entry.ReviewedAt, err = time.Parse(logTimeLayout, reviewedAt); err != nil {
			return nil, fmt.Errorf("decode review log time: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review log: %w", err)
	}
	return out, nil
}
