package out

import (
	"context"

	"mdcards/internal/modules/review/domain"
)

// CardSource loads cards to review; empty decks means every deck.
type CardSource interface {
	LoadCards(ctx context.Context, decks []string) ([]domain.Card, error)
	DeckTitle(ctx context.Context, deck string) (string, error)
}

// ScheduleSink writes card schedules back into their deck files.
type ScheduleSink interface {
	SaveSchedules(ctx context.Context, cards []domain.Card) (domain.SaveReport, error)
}

type ActiveReviewStore interface {
	SaveActive(ctx context.Context, review domain.ActiveReview) error
	LoadActive(ctx context.Context) (domain.ActiveReview, error)
	ClearActive(ctx context.Context) error
}

type ReviewLog interface {
	Append(ctx context.Context, entry domain.LogEntry) error
	Recent(ctx context.Context, limit int) ([]domain.LogEntry, error)
}

type ReviewNoteStore interface {
	Save(ctx context.Context, review domain.Review) (string, error)
}
