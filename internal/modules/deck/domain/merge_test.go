package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var due = time.Date(2026, 10, 20, 9, 30, 0, 0, time.UTC)

func TestUpdateContentInsertsMetadata(t *testing.T) {
	t.Parallel()
	original := "# Capitals\n\nParis ;; France\nRome ;; Italy\n"
	result := UpdateContent(original, []CardUpdate{{Front: "Rome", Back: "Italy", Interval: 3, Ease: 250, Due: due}}, DefaultSyntax())

	require.Equal(t, 1, result.Matched)
	require.Empty(t, result.Unmatched)
	require.Equal(t, "# Capitals\n\nParis ;; France\nRome ;; Italy\n<!-- SRS: interval=3, ease=250, due=2026-10-20T09:30:00.000Z -->\n", result.Content)
}

func TestUpdateContentReplacesEveryExistingMetadataLine(t *testing.T) {
	t.Parallel()
	original := "Paris ;; France\n<!-- SRS: interval=1, ease=250, due=2026-01-01T00:00:00.000Z -->\n<!-- SRS: stale -->\ntrailing prose"
	result := UpdateContent(original, []CardUpdate{{Front: "Paris", Back: "France", Interval: 10, Ease: 265, Due: due}}, DefaultSyntax())

	require.Equal(t, "Paris ;; France\n<!-- SRS: interval=10, ease=265, due=2026-10-20T09:30:00.000Z -->\ntrailing prose", result.Content)
}

func TestUpdateContentMultiLineGoesAfterAnswer(t *testing.T) {
	t.Parallel()
	original := "? Capital of Spain\nMadrid\n\nmore"
	result := UpdateContent(original, []CardUpdate{{Front: "Capital of Spain", Back: "Madrid", Interval: 2, Ease: 250, Due: due}}, DefaultSyntax())

	require.Equal(t, "? Capital of Spain\nMadrid\n<!-- SRS: interval=2, ease=250, due=2026-10-20T09:30:00.000Z -->\n\nmore", result.Content)
}

func TestUpdateContentDuplicatesFirstMatchWins(t *testing.T) {
	t.Parallel()
	original := "a ;; b\na ;; b\n"
	result := UpdateContent(original, []CardUpdate{{Front: "a", Back: "b", Interval: 4, Ease: 250, Due: due}}, DefaultSyntax())

	require.Equal(t, "a ;; b\n<!-- SRS: interval=4, ease=250, due=2026-10-20T09:30:00.000Z -->\na ;; b\n", result.Content)
}

func TestUpdateContentEmptyBackMatchesByFront(t *testing.T) {
	t.Parallel()
	result := UpdateContent("a ;; b\n", []CardUpdate{{Front: "a", Interval: 1, Ease: 250, Due: due}}, DefaultSyntax())
	require.Equal(t, 1, result.Matched)
}

func TestUpdateContentReportsUnmatched(t *testing.T) {
	t.Parallel()
	original := "Paris ;;; France\n"
	updates := []CardUpdate{
		{Front: "France", Back: "Paris", Interval: 2, Ease: 250, Due: due},
		{Front: "Berlin", Back: "Germany", Interval: 2, Ease: 250, Due: due},
		{Front: "Paris", Back: "Spain", Interval: 2, Ease: 250, Due: due},
	}
	result := UpdateContent(original, updates, DefaultSyntax())

	require.Zero(t, result.Matched)
	require.Equal(t, updates, result.Unmatched)
	require.Equal(t, original, result.Content)
}

func TestUpdateContentKeepsCRLF(t *testing.T) {
	t.Parallel()
	original := "Paris ;; France\r\nRome ;; Italy\r\n"
	result := UpdateContent(original, []CardUpdate{{Front: "Paris", Back: "France", Interval: 3, Ease: 250, Due: due}}, DefaultSyntax())

	require.Equal(t, "Paris ;; France\r\n<!-- SRS: interval=3, ease=250, due=2026-10-20T09:30:00.000Z -->\r\nRome ;; Italy\r\n", result.Content)
}

func TestUpdateContentIsIdempotent(t *testing.T) {
	t.Parallel()
	original := "intro\n?? q\nanswer\nx ;;; y\n"
	updates := []CardUpdate{
		{Front: "q", Back: "answer", Interval: 3, Ease: 250, Due: due},
		{Front: "x", Back: "y", Interval: 7, Ease: 280, Due: due},
	}
	once := UpdateContent(original, updates, DefaultSyntax())
	twice := UpdateContent(once.Content, updates, DefaultSyntax())

	require.Equal(t, 2, once.Matched)
	require.Equal(t, once.Content, twice.Content)
}

func TestMetadataRoundTrip(t *testing.T) {
	t.Parallel()
	line := FormatMetadata(12, 245, time.Date(2026, 11, 1, 0, 0, 0, 0, time.FixedZone("CET", 3600)))
	require.Equal(t, "<!-- SRS: interval=12, ease=245, due=2026-10-31T23:00:00.000Z -->", line)

	info, ok := ParseMetadata(line)
	require.True(t, ok)
	require.Equal(t, 12, info.Interval)
	require.Equal(t, 245, info.Ease)
	require.True(t, info.Due.Equal(time.Date(2026, 10, 31, 23, 0, 0, 0, time.UTC)))

	low, ok := ParseMetadata("<!-- SRS: interval=0, ease=90, due=2026-01-01T00:00:00Z -->")
	require.True(t, ok)
	require.Equal(t, 1, low.Interval)
	require.Equal(t, 130, low.Ease)

	_, ok = ParseMetadata("<!-- SRS: interval=3, ease=250 -->")
	require.False(t, ok)
}
