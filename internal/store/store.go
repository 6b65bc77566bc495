package store

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/daikw/meetbot/internal/persona"
)

const readmeName = "README.md"

// ErrNotFound is returned when no persona matches a key or name.
var ErrNotFound = errors.New("persona not found")

// Store reads and writes personas under a directory tree: one directory
// per persona, holding a README.md persona document plus any supplementary
// markdown content files. The directory layout is the durable format;
// personas round-trip through the normalizer on every access.
type Store struct {
	dir string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// List returns the sorted keys of all personas that have a README.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("dir", s.dir).Msg("Personas directory does not exist")
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read personas directory: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(s.readmePath(entry.Name())); err != nil {
			log.Warn().Str("persona", entry.Name()).Msg("Skipping persona without README")
			continue
		}
		keys = append(keys, entry.Name())
	}

	sort.Strings(keys)
	return keys, nil
}

// Exists checks whether a persona directory with a README exists.
func (s *Store) Exists(key string) bool {
	_, err := os.Stat(s.readmePath(key))
	return err == nil
}

// Raw returns the persona's README document text verbatim.
func (s *Store) Raw(key string) (string, error) {
	data, err := os.ReadFile(s.readmePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read persona file: %w", err)
	}
	return string(data), nil
}

// Load reads and normalizes one persona, returning the normalizer's
// diagnostics alongside it.
func (s *Store) Load(key string) (*persona.Persona, []persona.Diagnostic, error) {
	text, err := s.Raw(key)
	if err != nil {
		return nil, nil, err
	}

	p, diags, err := persona.Normalize(text)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to normalize persona %q: %w", key, err)
	}
	return p, diags, nil
}

// Entry is one loaded persona together with its key and the normalizer's
// diagnostics.
type Entry struct {
	Key         string
	Persona     *persona.Persona
	Diagnostics []persona.Diagnostic
}

// LoadAll loads every listed persona. Unreadable or malformed documents are
// logged and skipped rather than failing the whole catalog.
func (s *Store) LoadAll() ([]Entry, error) {
	keys, err := s.List()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		p, diags, err := s.Load(key)
		if err != nil {
			log.Warn().Str("persona", key).Err(err).Msg("Skipping unreadable persona")
			continue
		}
		entries = append(entries, Entry{Key: key, Persona: p, Diagnostics: diags})
	}
	return entries, nil
}

// GetByName finds the persona whose display name matches exactly, the way
// the console presents personas to users. Keys are not consulted; use Get
// for key-normalized or fuzzy lookup.
func (s *Store) GetByName(name string) (string, *persona.Persona, error) {
	entries, err := s.LoadAll()
	if err != nil {
		return "", nil, err
	}

	for _, e := range entries {
		if e.Persona.Name == name {
			return e.Key, e.Persona, nil
		}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Persona.Name)
	}
	return "", nil, fmt.Errorf("persona %q: %w (valid options: %s)", name, ErrNotFound, strings.Join(names, ", "))
}

// Get resolves a human-supplied name to a persona. It tries the exact
// folder key first (name lowercased, spaces to underscores), then the
// closest match by word overlap with existing keys.
func (s *Store) Get(name string) (string, *persona.Persona, error) {
	key := Key(name)
	if s.Exists(key) {
		p, _, err := s.Load(key)
		if err != nil {
			return "", nil, err
		}
		log.Debug().Str("persona", key).Msg("Using specified persona folder")
		return key, p, nil
	}

	keys, err := s.List()
	if err != nil {
		return "", nil, err
	}

	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(name)) {
		words[w] = true
	}

	var closest string
	maxOverlap := 0
	for _, k := range keys {
		overlap := 0
		for _, w := range strings.Split(k, "_") {
			if words[w] {
				overlap++
			}
		}
		if overlap > maxOverlap {
			maxOverlap = overlap
			closest = k
		}
	}

	if closest == "" {
		return "", nil, fmt.Errorf("persona %q: %w (valid options: %s)", name, ErrNotFound, strings.Join(keys, ", "))
	}

	log.Warn().Str("persona", closest).Str("requested", name).Msg("Using closest matching persona folder")
	p, _, err := s.Load(closest)
	if err != nil {
		return "", nil, err
	}
	return closest, p, nil
}

// Random picks any available persona.
func (s *Store) Random() (string, *persona.Persona, error) {
	keys, err := s.List()
	if err != nil {
		return "", nil, err
	}
	if len(keys) == 0 {
		return "", nil, ErrNotFound
	}

	key := keys[rand.Intn(len(keys))]
	p, _, err := s.Load(key)
	if err != nil {
		return "", nil, err
	}
	log.Info().Str("persona", key).Msg("Randomly selected persona")
	return key, p, nil
}

// Save writes a persona back to its README, preserving the authored layout
// (section headings and metadata style) when the file already exists.
func (s *Store) Save(key string, p *persona.Persona) error {
	dir := filepath.Join(s.dir, key)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create persona directory: %w", err)
	}

	layout := persona.DefaultLayout()
	if existing, err := s.Raw(key); err == nil {
		layout = persona.DetectLayout(existing)
	}

	text := persona.Render(p, layout)
	if err := os.WriteFile(s.readmePath(key), []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write persona file: %w", err)
	}

	log.Debug().Str("persona", key).Msg("Saved persona")
	return nil
}

// Delete removes a persona directory and all its content files.
func (s *Store) Delete(key string) error {
	if !s.Exists(key) {
		return ErrNotFound
	}
	if err := os.RemoveAll(filepath.Join(s.dir, key)); err != nil {
		return fmt.Errorf("failed to delete persona: %w", err)
	}
	log.Info().Str("persona", key).Msg("Deleted persona")
	return nil
}

// AdditionalContent concatenates the persona's supplementary markdown
// files (everything except the README), for prompt construction.
func (s *Store) AdditionalContent(key string) (string, error) {
	dir := filepath.Join(s.dir, key)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read persona directory: %w", err)
	}

	var parts []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == readmeName || !strings.HasSuffix(name, ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Error().Err(err).Str("file", name).Msg("Failed to read content file")
			continue
		}
		if content := strings.TrimSpace(string(data)); content != "" {
			parts = append(parts, fmt.Sprintf("# Content from %s\n\n%s", name, content))
		}
	}

	return strings.Join(parts, "\n\n"), nil
}

// Key converts a display name to its folder key.
func Key(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func (s *Store) readmePath(key string) string {
	return filepath.Join(s.dir, key, readmeName)
}
