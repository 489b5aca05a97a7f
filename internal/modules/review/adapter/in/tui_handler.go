package in

import (
	"context"

	"mdcards/internal/modules/review/dto"
	reviewin "mdcards/internal/modules/review/port/in"
)

// TUIHandler exposes the review flow to the interactive UI. Starting a
// review while one is active resumes it instead of failing.
type TUIHandler struct {
	usecase reviewin.Usecase
}

func NewTUIHandler(usecase reviewin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Begin(ctx context.Context, decks []string) (dto.CurrentOutput, error) {
	if _, err := h.usecase.GetActive(ctx); err == nil {
		return h.usecase.Current(ctx)
	}
	if _, err := h.usecase.Start(ctx, dto.StartInput{Decks: decks}); err != nil {
		return dto.CurrentOutput{}, err
	}
	return h.usecase.Current(ctx)
}

func (h TUIHandler) Current(ctx context.Context) (dto.CurrentOutput, error) {
	return h.usecase.Current(ctx)
}

func (h TUIHandler) Answer(ctx context.Context, response string) (dto.AnswerOutput, error) {
	return h.usecase.Answer(ctx, dto.AnswerInput{Response: response})
}

func (h TUIHandler) Finish(ctx context.Context) (dto.FinishOutput, error) {
	return h.usecase.Finish(ctx)
}
