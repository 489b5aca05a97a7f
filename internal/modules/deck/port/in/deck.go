package in

import (
	"context"

	"mdcards/internal/modules/deck/dto"
)

type Usecase interface {
	ListDecks(ctx context.Context) ([]dto.DeckOutput, error)
	GetDeck(ctx context.Context, path string) (dto.DeckDetailOutput, error)
	LoadCards(ctx context.Context, input dto.LoadCardsInput) ([]dto.CardOutput, error)
	SaveSchedules(ctx context.Context, input dto.SaveSchedulesInput) (dto.SaveSchedulesOutput, error)
	DueSummary(ctx context.Context) ([]dto.DueSummaryOutput, error)
	Reindex(ctx context.Context, input dto.ReindexInput) error
}
