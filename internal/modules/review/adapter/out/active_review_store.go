package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"mdcards/internal/modules/review/domain"
	reviewout "mdcards/internal/modules/review/port/out"
	apperrors "mdcards/internal/platform/errors"
)

// FileActiveReviewStore keeps the review in progress as one JSON file.
type FileActiveReviewStore struct {
	path string
}

func NewFileActiveReviewStore(path string) reviewout.ActiveReviewStore {
	return &FileActiveReviewStore{path: path}
}

func (s *FileActiveReviewStore) SaveActive(_ context.Context, review domain.ActiveReview) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create active review dir: %w", err)
	}
	payload, err := json.MarshalIndent(review, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal active review: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write active review: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace active review: %w", err)
	}
	return nil
}

func (s *FileActiveReviewStore) LoadActive(_ context.Context) (domain.ActiveReview, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ActiveReview{}, apperrors.ErrNoActiveReview
		}
		return domain.ActiveReview{}, fmt.Errorf("read active review: %w", err)
	}
	active := domain.ActiveReview{}
	if err := json.Unmarshal(payload, &active); err != nil {
		return domain.ActiveReview{}, fmt.Errorf("decode active review: %w", err)
	}
	if active.SessionID == "" {
		return domain.ActiveReview{}, apperrors.ErrNoActiveReview
	}
	if active.SchemaVersion > domain.SchemaVersion {
		return domain.ActiveReview{}, fmt.Errorf("%w: active review schema %d is newer than %d", apperrors.ErrInvalidInput, active.SchemaVersion, domain.SchemaVersion)
	}
	return active, nil
}

func (s *FileActiveReviewStore) ClearActive(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("clear active review: %w", err)
	}
	return nil
}
