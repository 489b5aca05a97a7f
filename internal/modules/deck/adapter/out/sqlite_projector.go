package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mdcards/internal/modules/deck/domain"
	deckout "mdcards/internal/modules/deck/port/out"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so due_at compares correctly as text.
const timeLayout = "2006-01-02T15:04:05.000Z"

type SQLiteScheduleProjector struct {
	db *sql.DB
}

func NewSQLiteScheduleProjector(dbPath string) (deckout.ScheduleProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteScheduleProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return projector, nil
}

func (s *SQLiteScheduleProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS cards (
  source_file TEXT NOT NULL,
  position INTEGER NOT NULL,
  front TEXT NOT NULL,
  back TEXT NOT NULL,
  type TEXT NOT NULL,
  interval_days INTEGER,
  ease INTEGER,
  due_at TEXT,
  PRIMARY KEY (source_file, position)
);
CREATE INDEX IF NOT EXISTS idx_cards_due_at ON cards(due_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create cards table: %w", err)
	}
	return nil
}

func (s *SQLiteScheduleProjector) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return fmt.Errorf("reset cards: %w", err)
	}
	return nil
}

// ReplaceDeck swaps every row of one deck in a single transaction.
func (s *SQLiteScheduleProjector) ReplaceDeck(ctx context.Context, path string, cards []domain.Card) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace deck: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE source_file = ?`, path); err != nil {
		return fmt.Errorf("delete deck cards: %w", err)
	}
	const stmt = `
INSERT INTO cards (source_file, position, front, back, type, interval_days, ease, due_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`
	for i, card := range cards {
		var interval, ease, dueAt any
		if card.Schedule != nil {
			interval = card.Schedule.Interval
			ease = card.Schedule.Ease
			dueAt = card.Schedule.Due.UTC().Format(timeLayout)
		}
		if _, err := tx.ExecContext(ctx, stmt, path, i, card.Front, card.Back, string(card.Type), interval, ease, dueAt); err != nil {
			return fmt.Errorf("insert card: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace deck: %w", err)
	}
	return nil
}

func (s *SQLiteScheduleProjector) DueSummary(ctx context.Context, now time.Time) ([]domain.DueSummary, error) {
	const query = `
SELECT source_file,
       COUNT(*),
       SUM(CASE WHEN due_at IS NOT NULL AND due_at <= ? THEN 1 ELSE 0 END),
       SUM(CASE WHEN due_at IS NULL THEN 1 ELSE 0 END),
       MIN(due_at)
FROM cards
GROUP BY source_file
ORDER BY source_file;
`
	rows, err := s.db.QueryContext(ctx, query, now.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("query due summary: %w", err)
	}
	defer rows.Close()

	out := make([]domain.DueSummary, 0)
	for rows.Next() {
		var (
			summary domain.DueSummary
			nextDue sql.NullString
		)
		if err := rows.Scan(&summary.Path, &summary.Total, &summary.Due, &summary.New, &nextDue); err != nil {
			return nil, fmt.Errorf("scan due summary: %w", err)
		}
		if nextDue.Valid {
			t, err := time.Parse(timeLayout, nextDue.String)
			if err != nil {
				return nil, fmt.Errorf("parse next due: %w", err)
			}
			summary.NextDue = &t
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due summary: %w", err)
	}
	return out, nil
}
