// Package store persists the candidate roster as a YAML document on disk.
// Saves are atomic: the document is written to a temp file in the target
// directory and renamed into place, so readers never observe a torn file.
package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/candidatelabs/talentsync/pkg/candidates"
	"github.com/candidatelabs/talentsync/pkg/errors"
	"github.com/candidatelabs/talentsync/pkg/logging"
)

// Version is the on-disk document version. Bump on incompatible layout
// changes.
const Version = 1

// document is the serialized roster file.
type document struct {
	Version    int                          `yaml:"version"`
	SavedAt    time.Time                    `yaml:"saved_at"`
	Candidates []candidates.CandidateRecord `yaml:"candidates"`
}

// Store reads and writes the roster file. Safe for concurrent use; saves are
// serialized.
type Store struct {
	mu       sync.Mutex
	path     string
	readOnly bool
}

// Option configures a Store.
type Option func(*Store)

// WithReadOnly makes Save return ErrReadOnly. Used by report-only commands
// that must never touch the roster.
func WithReadOnly() Option {
	return func(s *Store) {
		s.readOnly = true
	}
}

// New creates a store for the roster file at path.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the roster file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the roster from disk. A missing file is not an error: it yields
// an empty roster, so first runs need no setup step.
func (s *Store) Load(ctx context.Context) (*candidates.Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		logging.FromContext(ctx).Debug().Str("path", s.path).Msg("No roster file, starting empty")
		return candidates.NewRoster(), nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", s.path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParse("yaml", s.path, err)
	}
	if doc.Version > Version {
		return nil, errors.NewParseError("yaml", s.path, "roster file written by a newer version", nil)
	}

	roster := candidates.NewRoster()
	for _, rec := range doc.Candidates {
		roster.Put(rec)
	}

	logging.FromContext(ctx).Debug().
		Str("path", s.path).
		Int("candidates", roster.Len()).
		Msg("Loaded roster")
	return roster, nil
}

// Save writes the roster to disk atomically. The candidate list is sorted by
// key so repeated saves of the same roster are byte-identical.
func (s *Store) Save(ctx context.Context, roster *candidates.Roster) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readOnly {
		return errors.WrapIO("write", s.path, errors.ErrReadOnly)
	}

	doc := document{
		Version:    Version,
		SavedAt:    time.Now().UTC(),
		Candidates: roster.List(),
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.WrapParse("yaml", s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapIO("mkdir", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.WrapIO("write", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.WrapIO("sync", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.WrapIO("rename", s.path, err)
	}

	logging.FromContext(ctx).Debug().
		Str("path", s.path).
		Int("candidates", len(doc.Candidates)).
		Msg("Saved roster")
	return nil
}
