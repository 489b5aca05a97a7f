package apperrors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrInvalidResponse    = errors.New("invalid review response")
	ErrNoActiveReview     = errors.New("no active review")
	ErrActiveReviewExists = errors.New("active review already exists")
	ErrNoCardsToReview    = errors.New("no cards to review")
)
