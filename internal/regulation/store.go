// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package regulation loads regulation records from a data directory tree and
// serves identifier lookups and keyword search over them.
//
// The tree is read once by Load. After that a Store is immutable and safe for
// concurrent use without locking.
package regulation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pdiddy/regulation-server/internal/record"
	"github.com/pdiddy/regulation-server/pkg/types"
)

// ErrDataDirNotFound is returned by Load when the data root does not exist.
var ErrDataDirNotFound = errors.New("regulation data directory not found")

// Store holds regulations keyed by normalized id.
type Store struct {
	dataDir string
	byID    map[string]types.Regulation
	// order lists normalized ids in first-load order; search ties keep it.
	order []string
}

// Load walks dataDir recursively and indexes every structured-data file
// except the region manifest. Files are visited in lexical path order, so
// when two files share a normalized id the one later in that order wins.
//
// A file that cannot be read or parsed is logged and skipped, as is a record
// without an id. Load fails only when dataDir itself is missing or unreadable.
func Load(dataDir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(dataDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: ensure the directory exists and contains regulation files", ErrDataDirNotFound, dataDir)
		}
		return nil, fmt.Errorf("reading data directory %s: %w", dataDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDataDirNotFound, dataDir)
	}

	s := &Store{
		dataDir: dataDir,
		byID:    make(map[string]types.Regulation),
	}

	err = filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dataDir {
				return err
			}
			logger.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || d.Name() == types.ManifestFile || !record.IsRecordFile(d.Name()) {
			return nil
		}
		s.loadFile(path, logger)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking data directory %s: %w", dataDir, err)
	}

	logger.Debug("regulations loaded", zap.String("dir", dataDir), zap.Int("count", len(s.order)))
	return s, nil
}

func (s *Store) loadFile(path string, logger *zap.Logger) {
	var reg types.Regulation
	if err := record.DecodeFile(path, &reg); err != nil {
		logger.Warn("skipping invalid regulation file", zap.String("path", path), zap.Error(err))
		return
	}
	if !reg.HasID() {
		logger.Debug("skipping regulation file without id", zap.String("path", path))
		return
	}
	s.put(reg)
}

// put indexes reg. Replacing an existing id keeps its original position.
func (s *Store) put(reg types.Regulation) {
	key := record.Normalize(reg.ID)
	if _, ok := s.byID[key]; !ok {
		s.order = append(s.order, key)
	}
	s.byID[key] = reg
}

// DataDir returns the root directory the store was loaded from.
func (s *Store) DataDir() string { return s.dataDir }

// Get returns the regulation with the given id, compared case- and
// whitespace-insensitively. A nil Store holds nothing.
func (s *Store) Get(id string) (types.Regulation, bool) {
	if s == nil {
		return types.Regulation{}, false
	}
	reg, ok := s.byID[record.Normalize(id)]
	return reg, ok
}

// Len returns the number of distinct regulations.
func (s *Store) Len() int { return len(s.order) }

// IDs returns the normalized ids in store order.
func (s *Store) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// All returns every regulation in store order.
func (s *Store) All() []types.Regulation {
	out := make([]types.Regulation, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}
