package in

import (
	"context"

	"mdcards/internal/modules/deck/dto"
	deckin "mdcards/internal/modules/deck/port/in"
)

type CLIHandler struct {
	usecase deckin.Usecase
}

func NewCLIHandler(usecase deckin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ListDecks(ctx context.Context) ([]dto.DeckOutput, error) {
	return h.usecase.ListDecks(ctx)
}

func (h CLIHandler) GetDeck(ctx context.Context, path string) (dto.DeckDetailOutput, error) {
	return h.usecase.GetDeck(ctx, path)
}

func (h CLIHandler) DueSummary(ctx context.Context) ([]dto.DueSummaryOutput, error) {
	return h.usecase.DueSummary(ctx)
}

func (h CLIHandler) Reindex(ctx context.Context) error {
	return h.usecase.Reindex(ctx, dto.ReindexInput{})
}
