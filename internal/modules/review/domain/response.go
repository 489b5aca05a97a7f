package domain

import (
	"fmt"
	"strings"

	apperrors "mdcards/internal/platform/errors"
)

// Response is the learner's self-assessed recall of a card.
type Response int

const (
	Hard Response = iota + 1
	Good
	Easy
)

var responseNames = [...]string{
	Hard: "hard",
	Good: "good",
	Easy: "easy",
}

var responseByName = map[string]Response{
	"hard": Hard,
	"good": Good,
	"easy": Easy,
	"1":    Hard,
	"2":    Good,
	"3":    Easy,
}

func (r Response) String() string {
	if r.IsValid() {
		return responseNames[r]
	}
	return fmt.Sprintf("Response(%d)", int(r))
}

func (r Response) IsValid() bool {
	return r >= Hard && r <= Easy
}

// ParseResponse accepts a name (case-insensitive) or its digit 1..3.
func ParseResponse(s string) (Response, error) {
	r, ok := responseByName[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidResponse, s)
	}
	return r, nil
}

func (r Response) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrInvalidResponse, int(r))
	}
	return []byte(r.String()), nil
}

func (r *Response) UnmarshalText(text []byte) error {
	parsed, err := ParseResponse(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
