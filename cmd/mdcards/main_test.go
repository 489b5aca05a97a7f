package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, vault string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--vault", vault}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCLIReviewFlow(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	deck := filepath.Join(vault, "spanish.md")
	if err := os.WriteFile(deck, []byte("---\ntitle: Spanish\n---\nhola ;; hello\n? gracias\nthank you\n"), 0o644); err != nil {
		t.Fatalf("write deck: %v", err)
	}

	out, err := run(t, vault, "deck", "list")
	if err != nil {
		t.Fatalf("deck list: %v", err)
	}
	if !strings.Contains(out, "spanish.md\tSpanish\t2 cards\t0 due\t2 new") {
		t.Fatalf("unexpected deck list: %q", out)
	}

	out, err = run(t, vault, "review", "start", "--deck", "spanish.md")
	if err != nil {
		t.Fatalf("review start: %v", err)
	}
	if !strings.Contains(out, "of Spanish: 2 cards") || !strings.Contains(out, "Q: hola") {
		t.Fatalf("unexpected start output: %q", out)
	}

	out, err = run(t, vault, "review", "show", "--reveal")
	if err != nil {
		t.Fatalf("review show: %v", err)
	}
	if !strings.Contains(out, "A: hello") {
		t.Fatalf("unexpected show output: %q", out)
	}

	if _, err := run(t, vault, "review", "answer", "maybe"); err == nil {
		t.Fatalf("expected invalid response error")
	}
	if _, err := run(t, vault, "review", "answer", "good"); err != nil {
		t.Fatalf("answer good: %v", err)
	}
	out, err = run(t, vault, "review", "answer", "easy")
	if err != nil {
		t.Fatalf("answer easy: %v", err)
	}
	if !strings.Contains(out, "review complete: 2 of 2 cards") {
		t.Fatalf("unexpected final answer output: %q", out)
	}

	raw, err := os.ReadFile(deck)
	if err != nil {
		t.Fatalf("read deck: %v", err)
	}
	if strings.Count(string(raw), "<!-- SRS: ") != 2 {
		t.Fatalf("expected two metadata lines:\n%s", raw)
	}

	if _, err := run(t, vault, "review", "show"); err == nil || !strings.Contains(err.Error(), "no active review") {
		t.Fatalf("expected no active review, got %v", err)
	}

	out, err = run(t, vault, "due")
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if !strings.Contains(out, "spanish.md\t0 due\t0 new\t2 total") {
		t.Fatalf("unexpected due output: %q", out)
	}

	out, err = run(t, vault, "review", "history", "--limit", "1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "easy\tgracias") {
		t.Fatalf("unexpected history: %q", out)
	}
}

func TestCLIRejectsUnknownLogLevel(t *testing.T) {
	t.Parallel()
	if _, err := run(t, t.TempDir(), "--log-level", "chatty", "deck", "list"); err == nil {
		t.Fatalf("expected log level error")
	}
}
