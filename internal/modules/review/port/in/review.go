package in

import (
	"context"

	"mdcards/internal/modules/review/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	Current(ctx context.Context) (dto.CurrentOutput, error)
	Answer(ctx context.Context, input dto.AnswerInput) (dto.AnswerOutput, error)
	Finish(ctx context.Context) (dto.FinishOutput, error)
	Abort(ctx context.Context) error
	GetActive(ctx context.Context) (dto.ActiveReviewOutput, error)
	History(ctx context.Context, limit int) ([]dto.HistoryEntryOutput, error)
}
