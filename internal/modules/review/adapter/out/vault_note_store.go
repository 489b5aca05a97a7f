package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mdcards/internal/modules/review/domain"
	reviewout "mdcards/internal/modules/review/port/out"
	"mdcards/internal/platform/markdown"
	"mdcards/internal/platform/slug"
)

// VaultNoteStore writes one markdown note per finished review under dir.
type VaultNoteStore struct {
	dir string
}

func NewVaultNoteStore(dir string) reviewout.ReviewNoteStore {
	return &VaultNoteStore{dir: dir}
}

type noteMeta struct {
	SchemaVersion   int      `yaml:"schema_version"`
	ID              string   `yaml:"id"`
	Label           string   `yaml:"label"`
	Decks           []string `yaml:"decks"`
	StartedAt       string   `yaml:"started_at"`
	EndedAt         string   `yaml:"ended_at"`
	DurationMinutes int      `yaml:"duration_minutes"`
	Total           int      `yaml:"total"`
	Answered        int      `yaml:"answered"`
	Hard            int      `yaml:"hard"`
	Good            int      `yaml:"good"`
	Easy            int      `yaml:"easy"`
	Completed       bool     `yaml:"completed"`
}

func (s *VaultNoteStore) Save(_ context.Context, review domain.Review) (string, error) {
	date := review.StartedAt
	dir := filepath.Join(s.dir, date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create review dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.md", date.Format("150405"), slug.Make(review.Label))
	path := filepath.Join(dir, name)

	meta := noteMeta{
		SchemaVersion:   domain.SchemaVersion,
		ID:              review.ID,
		Label:           review.Label,
		Decks:           review.Decks,
		StartedAt:       review.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		EndedAt:         review.EndedAt.Format("2006-01-02T15:04:05Z07:00"),
		DurationMinutes: review.DurationMin,
		Total:           review.Total,
		Answered:        review.Answered,
		Hard:            review.Tally.Hard,
		Good:            review.Tally.Good,
		Easy:            review.Tally.Easy,
		Completed:       review.Completed,
	}
	rendered, err := markdown.RenderFrontmatter(meta, noteBody(review))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write review note: %w", err)
	}
	return path, nil
}

func noteBody(review domain.Review) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Review %s\n\n", review.Label)
	fmt.Fprintf(&b, "- Cards: %d of %d\n", review.Answered, review.Total)
	fmt.Fprintf(&b, "- Duration: %d minutes\n", review.DurationMin)
	fmt.Fprintf(&b, "- Hard: %d, Good: %d, Easy: %d\n", review.Tally.Hard, review.Tally.Good, review.Tally.Easy)
	if len(review.Decks) > 0 {
		b.WriteString("\n## Decks\n\n")
		for _, deck := range review.Decks {
			fmt.Fprintf(&b, "- [[%s]]\n", strings.TrimSuffix(deck, filepath.Ext(deck)))
		}
	}
	return b.String()
}
