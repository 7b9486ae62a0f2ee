// Package ratings persists advisory scores, keyed by URL, in a single JSON
// document under the XDG state directory. The store is write-through and
// deliberately has no referential integrity with the bookmark map: ratings
// for deleted bookmarks go stale and are never cleaned up.
package ratings

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/bookdeck/pkg/model"
	"github.com/vanderheijden86/bookdeck/pkg/settings"
)

// FileName is the ratings document inside the state directory.
const FileName = "ratings.json"

// Store holds the in-memory ratings map and the path it syncs to.
type Store struct {
	path    string
	entries map[string]model.Rating
}

// DefaultPath returns the ratings file under the XDG state dir.
func DefaultPath() string {
	dir := settings.StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, FileName)
}

// Open loads the ratings document at path, or starts empty when it does not
// exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path, entries: make(map[string]model.Rating)}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading ratings: %w", err)
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("parsing ratings: %w", err)
	}
	return s, nil
}

// Get returns the rating for url, if any.
func (s *Store) Get(url string) (model.Rating, bool) {
	r, ok := s.entries[url]
	return r, ok
}

// Has reports whether url already carries a rating.
func (s *Store) Has(url string) bool {
	_, ok := s.entries[url]
	return ok
}

// Len returns the number of stored ratings.
func (s *Store) Len() int {
	return len(s.entries)
}

// All returns a copy of the ratings map.
func (s *Store) All() map[string]model.Rating {
	out := make(map[string]model.Rating, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Put upserts ratings, stamping each with the current time, and syncs the
// document to disk.
func (s *Store) Put(rs ...model.Rating) error {
	now := time.Now().UnixMilli()
	for _, r := range rs {
		if r.URL == "" {
			continue
		}
		r.Timestamp = now
		s.entries[r.URL] = r
	}
	return s.sync()
}

// Delete removes the rating for url, if present, and syncs.
func (s *Store) Delete(url string) error {
	if _, ok := s.entries[url]; !ok {
		return nil
	}
	delete(s.entries, url)
	return s.sync()
}

// Clear drops every rating and syncs.
func (s *Store) Clear() error {
	s.entries = make(map[string]model.Rating)
	return s.sync()
}

func (s *Store) sync() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ratings: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing ratings: %w", err)
	}
	return os.Rename(tmp, s.path)
}
