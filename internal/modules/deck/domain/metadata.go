package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"mdcards/internal/platform/markdown"
)

const (
	metadataTag = "SRS"
	// DueLayout is RFC 3339 in UTC with millisecond precision.
	DueLayout = "2006-01-02T15:04:05.000Z07:00"
	minEase   = 130
)

// FormatMetadata renders the comment line that stores a card's schedule.
func FormatMetadata(interval, ease int, due time.Time) string {
	payload := fmt.Sprintf("interval=%d, ease=%d, due=%s", interval, ease, due.UTC().Format(DueLayout))
	return markdown.Comment(metadataTag, payload)
}

// IsMetadataLine reports whether line is an SRS comment, well formed or not.
func IsMetadataLine(line string) bool {
	return markdown.HasCommentTag(line, metadataTag)
}

// ParseMetadata decodes an SRS comment. Lines missing interval, ease or due
// are rejected; out-of-range numbers are pulled back into range.
func ParseMetadata(line string) (ScheduleInfo, bool) {
	payload, ok := markdown.ParseComment(line, metadataTag)
	if !ok {
		return ScheduleInfo{}, false
	}
	var info ScheduleInfo
	var hasInterval, hasEase, hasDue bool
	for _, field := range strings.Split(payload, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(field), "=")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "interval":
			n, err := strconv.Atoi(value)
			if err != nil {
				return ScheduleInfo{}, false
			}
			info.Interval, hasInterval = max(n, 1), true
		case "ease":
			n, err := strconv.Atoi(value)
			if err != nil {
				return ScheduleInfo{}, false
			}
			info.Ease, hasEase = max(n, minEase), true
		case "due":
			due, err := parseDue(value)
			if err != nil {
				return ScheduleInfo{}, false
			}
			info.Due, hasDue = due, true
		}
	}
	if !hasInterval || !hasEase || !hasDue {
		return ScheduleInfo{}, false
	}
	return info, true
}

func parseDue(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
