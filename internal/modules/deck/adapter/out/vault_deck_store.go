package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mdcards/internal/modules/deck/domain"
	deckout "mdcards/internal/modules/deck/port/out"
	apperrors "mdcards/internal/platform/errors"
)

// VaultDeckStore reads and writes deck files under the vault root.
type VaultDeckStore struct {
	vaultPath string
	skipDirs  map[string]struct{}
}

// NewVaultDeckStore returns a store rooted at vaultPath. skipDirs are
// vault-relative directories never scanned for decks; dot-directories are
// always skipped.
func NewVaultDeckStore(vaultPath string, skipDirs ...string) deckout.DeckStore {
	skip := make(map[string]struct{}, len(skipDirs))
	for _, dir := range skipDirs {
		skip[filepath.ToSlash(filepath.Clean(dir))] = struct{}{}
	}
	return &VaultDeckStore{vaultPath: vaultPath, skipDirs: skip}
}

func (s *VaultDeckStore) List(ctx context.Context) ([]string, error) {
	out := make([]string, 0)
	err := filepath.WalkDir(s.vaultPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, relErr := filepath.Rel(s.vaultPath, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if _, skip := s.skipDirs[rel]; skip || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && domain.IsDeckFile(d.Name()) {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk vault: %w", err)
	}
	sort.Strings(out)
	return out, nil
}

func (s *VaultDeckStore) Read(_ context.Context, path string) (domain.DeckFile, error) {
	full, err := s.resolve(path)
	if err != nil {
		return domain.DeckFile{}, err
	}
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.DeckFile{}, fmt.Errorf("%w: deck %s", apperrors.ErrNotFound, path)
		}
		return domain.DeckFile{}, fmt.Errorf("stat deck: %w", err)
	}
	raw, err := os.ReadFile(full)
	if err != nil {
		return domain.DeckFile{}, fmt.Errorf("read deck: %w", err)
	}
	return domain.DeckFile{Path: path, Content: string(raw), ModifiedAt: info.ModTime().UTC()}, nil
}

// Write replaces the deck through a temp file and rename so a crash never
// leaves a half-written deck behind. The original file mode is kept.
func (s *VaultDeckStore) Write(_ context.Context, path, content string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	mode := fs.FileMode(0o644)
	if info, statErr := os.Stat(full); statErr == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(full), ".mdcards-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp deck: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp deck: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp deck: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("chmod temp deck: %w", err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		return fmt.Errorf("replace deck: %w", err)
	}
	return nil
}

// resolve maps a vault-relative slash path to a filesystem path and refuses
// anything that would land outside the vault.
func (s *VaultDeckStore) resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: deck path is required", apperrors.ErrInvalidInput)
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: deck path %q escapes the vault", apperrors.ErrInvalidInput, path)
	}
	return filepath.Join(s.vaultPath, clean), nil
}
