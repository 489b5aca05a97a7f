package domain

import (
	"path"
	"strings"
	"time"

	"mdcards/internal/platform/markdown"
)

var deckExtensions = map[string]struct{}{".md": {}, ".txt": {}}

// IsDeckFile reports whether name has a deck extension (case-insensitive).
func IsDeckFile(name string) bool {
	_, ok := deckExtensions[strings.ToLower(path.Ext(name))]
	return ok
}

// DeckFile is the raw text of one deck as read from the vault.
type DeckFile struct {
	Path       string
	Content    string
	ModifiedAt time.Time
}

type Deck struct {
	Path       string
	Title      string
	Tags       []string
	ModifiedAt time.Time
	Cards      []Card
}

type deckMeta struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags"`
}

// NewDeck parses file into a deck. Cards get SourceFile set and IsDue
// computed against now. Unreadable frontmatter is ignored: the file is
// still a deck, titled after its name.
func NewDeck(file DeckFile, syntax Syntax, now time.Time) Deck {
	var meta deckMeta
	if _, err := markdown.DecodeFrontmatter(file.Content, &meta); err != nil {
		meta = deckMeta{}
	}
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		base := path.Base(file.Path)
		title = strings.TrimSuffix(base, path.Ext(base))
	}
	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}

	cards := Extract(file.Content, syntax)
	for i := range cards {
		cards[i].SourceFile = file.Path
		cards[i] = cards[i].WithDueFlag(now)
	}
	return Deck{Path: file.Path, Title: title, Tags: tags, ModifiedAt: file.ModifiedAt, Cards: cards}
}

// Counts returns total, due and never-reviewed card counts.
func (d Deck) Counts() (total, due, fresh int) {
	for _, c := range d.Cards {
		switch {
		case c.Schedule == nil:
			fresh++
		case c.Schedule.IsDue:
			due++
		}
	}
	return len(d.Cards), due, fresh
}

// DueSummary is the projection's per-deck view of pending work.
type DueSummary struct {
	Path    string
	Total   int
	Due     int
	New     int
	NextDue *time.Time
}
