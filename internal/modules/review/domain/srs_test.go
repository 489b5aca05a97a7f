package domain

import (
	"errors"
	"testing"
	"time"

	"mdcards/internal/platform/clock"
	apperrors "mdcards/internal/platform/errors"
)

var testNow = time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	calc, err := NewCalculator(DefaultSettings(), clock.Fixed(testNow))
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	return calc
}

func TestScheduleSequenceFromNewCard(t *testing.T) {
	t.Parallel()
	calc := newTestCalculator(t)
	steps := []struct {
		resp     Response
		interval int
		ease     int
	}{
		{Good, 3, 250},
		{Easy, 10, 265},
		{Hard, 12, 245},
	}
	interval, ease := 1, 250
	for _, step := range steps {
		got, err := calc.Schedule(step.resp, interval, ease)
		if err != nil {
			t.Fatalf("schedule %s: %v", step.resp, err)
		}
		if got.Interval != step.interval || got.Ease != step.ease {
			t.Fatalf("%s from (%d,%d): got (%d,%d), want (%d,%d)", step.resp, interval, ease, got.Interval, got.Ease, step.interval, step.ease)
		}
		if !got.Due.Equal(testNow.AddDate(0, 0, step.interval)) {
			t.Fatalf("unexpected due %v", got.Due)
		}
		interval, ease = got.Interval, got.Ease
	}
}

func TestDueRollsOverMonthAndYear(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		now      time.Time
		resp     Response
		interval int
		want     time.Time
	}{
		{"new year", time.Date(2026, 12, 31, 9, 30, 0, 0, time.UTC), Hard, 1, time.Date(2027, 1, 1, 9, 30, 0, 0, time.UTC)},
		{"short february", time.Date(2027, 1, 31, 9, 30, 0, 0, time.UTC), Good, 12, time.Date(2027, 3, 2, 9, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		calc, err := NewCalculator(DefaultSettings(), clock.Fixed(tc.now))
		if err != nil {
			t.Fatalf("new calculator: %v", err)
		}
		got, err := calc.Schedule(tc.resp, tc.interval, 250)
		if err != nil {
			t.Fatalf("%s: schedule: %v", tc.name, err)
		}
		if !got.Due.Equal(tc.want) {
			t.Fatalf("%s: due %v, want %v (interval %d)", tc.name, got.Due, tc.want, got.Interval)
		}
	}
}

func TestHardLowersEaseToFloor(t *testing.T) {
	t.Parallel()
	calc := newTestCalculator(t)
	ease := 250
	for _, want := range []int{230, 210, 190, 170, 150, 130, 130} {
		got, err := calc.Schedule(Hard, 1, ease)
		if err != nil {
			t.Fatalf("schedule hard: %v", err)
		}
		if got.Ease != want {
			t.Fatalf("ease from %d: got %d, want %d", ease, got.Ease, want)
		}
		ease = got.Ease
	}
}

func TestScheduleClampsToMaximum(t *testing.T) {
	t.Parallel()
	settings := DefaultSettings()
	settings.MaximumInterval = 30
	calc, err := NewCalculator(settings, clock.Fixed(testNow))
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	got, err := calc.Schedule(Easy, 25, 300)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if got.Interval != 30 {
		t.Fatalf("expected clamp to 30, got %d", got.Interval)
	}
}

func TestScheduleNormalisesInputs(t *testing.T) {
	t.Parallel()
	calc := newTestCalculator(t)
	got, err := calc.Schedule(Good, 0, 50)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if got.Interval != 1 || got.Ease != MinEase {
		t.Fatalf("unexpected schedule: %+v", got)
	}
}

func TestScheduleRejectsInvalidResponse(t *testing.T) {
	t.Parallel()
	calc := newTestCalculator(t)
	for _, resp := range []Response{0, 4, -1} {
		if _, err := calc.Schedule(resp, 1, 250); !errors.Is(err, apperrors.ErrInvalidResponse) {
			t.Fatalf("response %d: expected invalid response, got %v", int(resp), err)
		}
	}
}

func TestInitialUsesBaseEase(t *testing.T) {
	t.Parallel()
	calc := newTestCalculator(t)
	got, err := calc.Initial(Easy)
	if err != nil {
		t.Fatalf("initial: %v", err)
	}
	// 1 * 2.5 * 1.3 = 3.25
	if got.Interval != 3 || got.Ease != 265 {
		t.Fatalf("unexpected initial schedule: %+v", got)
	}
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()
	bad := DefaultSettings()
	bad.BaseEase = 100
	if _, err := NewCalculator(bad, nil); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestParseResponse(t *testing.T) {
	t.Parallel()
	cases := map[string]Response{"hard": Hard, "GOOD": Good, " easy ": Easy, "1": Hard, "3": Easy}
	for in, want := range cases {
		got, err := ParseResponse(in)
		if err != nil || got != want {
			t.Fatalf("ParseResponse(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseResponse("again"); !errors.Is(err, apperrors.ErrInvalidResponse) {
		t.Fatalf("expected invalid response, got %v", err)
	}
	if Response(7).String() != "Response(7)" {
		t.Fatalf("unexpected string for invalid response")
	}
}
