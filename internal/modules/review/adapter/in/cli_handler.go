package in

import (
	"context"

	"mdcards/internal/modules/review/dto"
	reviewin "mdcards/internal/modules/review/port/in"
)

type CLIHandler struct {
	usecase reviewin.Usecase
}

func NewCLIHandler(usecase reviewin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, decks []string, dueOnly bool) (dto.StartOutput, error) {
	return h.usecase.Start(ctx, dto.StartInput{Decks: decks, DueOnly: dueOnly})
}

func (h CLIHandler) Current(ctx context.Context) (dto.CurrentOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) Answer(ctx context.Context, response string) (dto.AnswerOutput, error) {
	return h.usecase.Answer(ctx, dto.AnswerInput{Response: response})
}

func (h CLIHandler) Finish(ctx context.Context) (dto.FinishOutput, error) {
	return h.usecase.Finish(ctx)
}

func (h CLIHandler) Abort(ctx context.Context) error {
	return h.usecase.Abort(ctx)
}

func (h CLIHandler) GetActive(ctx context.Context) (dto.ActiveReviewOutput, error) {
	return h.usecase.GetActive(ctx)
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]dto.HistoryEntryOutput, error) {
	return h.usecase.History(ctx, limit)
}
