// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package prefs persists client preferences, either in a TOML file or in Redis.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/linuxfoundation/lfx-v2-geocatalog/internal/domain/port"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultPrefsPath = "~/.config/geocatalog/prefs.toml"

// Prefs is the persisted document.
type Prefs struct {
	Facets FacetPrefs `toml:"facets"`
}

// FacetPrefs holds the facet panel state.
type FacetPrefs struct {
	Expanded []string `toml:"expanded"`
}

// FileStore keeps preferences in a TOML file
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ port.PreferenceStore = (*FileStore)(nil)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// NewFileStore resolves path (empty means the default, ~ is expanded).
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	resolved, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve prefs path: %w", err)
	}
	return &FileStore{path: resolved}, nil
}

// Path returns the resolved file path.
func (s *FileStore) Path() string {
	return s.path
}

// ExpandedFacets reads the expanded accordion facets. A missing or
// unreadable file yields no expanded facets.
func (s *FileStore) ExpandedFacets(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx).Facets.Expanded, nil
}

// SetExpandedFacets rewrites the expanded accordion facets.
func (s *FileStore) SetExpandedFacets(ctx context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := s.load(ctx)
	prefs.Facets.Expanded = normalize(names)
	return s.save(prefs)
}

func (s *FileStore) load(ctx context.Context) Prefs {
	var prefs Prefs

	bytes, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.WarnContext(ctx, "failed to read prefs, using defaults", "path", s.path, "error", err)
		}
		return prefs
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		slog.WarnContext(ctx, "failed to parse prefs, using defaults", "path", s.path, "error", err)
		return Prefs{}
	}
	return prefs
}

func (s *FileStore) save(prefs Prefs) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(s.path, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// normalize sorts and dedups names, dropping blanks.
func normalize(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
