package out

import (
	"context"
	"time"

	"mdcards/internal/modules/deck/domain"
)

// DeckStore gives access to deck files by vault-relative slash path.
type DeckStore interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, path string) (domain.DeckFile, error)
	Write(ctx context.Context, path, content string) error
}

type ScheduleProjector interface {
	Reset(ctx context.Context) error
	ReplaceDeck(ctx context.Context, path string, cards []domain.Card) error
	DueSummary(ctx context.Context, now time.Time) ([]domain.DueSummary, error)
}
