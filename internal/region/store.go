// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package region loads the region manifest and resolves a region's
// regulation references into full regulation records.
package region

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pdiddy/regulation-server/internal/record"
	"github.com/pdiddy/regulation-server/pkg/types"
)

var (
	// ErrManifestNotFound is returned by Load when regions.json is absent.
	ErrManifestNotFound = errors.New("regions manifest not found")

	// ErrInvalidManifest is returned by Load when regions.json cannot be parsed.
	ErrInvalidManifest = errors.New("invalid regions manifest")
)

// RegulationLookup resolves a regulation id to its record. *regulation.Store
// satisfies it.
type RegulationLookup interface {
	Get(id string) (types.Regulation, bool)
}

// Store holds regions keyed by normalized id. It is immutable after Load.
type Store struct {
	dataDir string
	lookup  RegulationLookup
	logger  *zap.Logger
	byID    map[string]types.Region
	order   []string
}

// Load reads the manifest at dataDir/regions.json. The manifest may be a
// list of regions, an object with a "regions" list, or a single region
// object. Entries without an id field are skipped; a later entry replaces an
// earlier one with the same normalized id.
//
// lookup is the default collaborator for Get and may be nil.
func Load(dataDir string, lookup RegulationLookup, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	path := filepath.Join(dataDir, types.ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: ensure %s exists in the data directory", ErrManifestNotFound, path, types.ManifestFile)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	regions, err := parseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidManifest, path, err)
	}

	s := &Store{
		dataDir: dataDir,
		lookup:  lookup,
		logger:  logger,
		byID:    make(map[string]types.Region, len(regions)),
	}
	for _, r := range regions {
		if !r.HasID() {
			logger.Debug("skipping region without id", zap.String("name", r.Name))
			continue
		}
		key := record.Normalize(r.ID)
		if _, ok := s.byID[key]; !ok {
			s.order = append(s.order, key)
		}
		s.byID[key] = r
	}

	logger.Debug("regions loaded", zap.String("path", path), zap.Int("count", len(s.order)))
	return s, nil
}

// parseManifest accepts the three manifest shapes.
func parseManifest(data []byte) ([]types.Region, error) {
	var top any
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}

	switch v := top.(type) {
	case []any:
		var regions []types.Region
		if err := json.Unmarshal(data, &regions); err != nil {
			return nil, err
		}
		return regions, nil
	case map[string]any:
		if _, ok := v["regions"]; ok {
			var wrapped struct {
				Regions []types.Region `json:"regions"`
			}
			if err := json.Unmarshal(data, &wrapped); err != nil {
				return nil, err
			}
			return wrapped.Regions, nil
		}
		var single types.Region
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, err
		}
		return []types.Region{single}, nil
	default:
		return nil, fmt.Errorf("expected a list or object, got %T", top)
	}
}

// Len returns the number of distinct regions.
func (s *Store) Len() int { return len(s.order) }

// IDs returns the normalized region ids in manifest order.
func (s *Store) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Get returns the region with the given id, compared case- and
// whitespace-insensitively, with its regulation references resolved.
//
// References are resolved through lookup, or the collaborator bound at Load
// when lookup is nil. With no collaborator at all the region is returned with
// no regulations. A reference the collaborator does not know is looked up in
// dataDir/<region id>/<regulation id>.json; references that still cannot be
// resolved are left out.
func (s *Store) Get(regionID string, lookup RegulationLookup) (types.ResolvedRegion, bool) {
	key := record.Normalize(regionID)
	r, ok := s.byID[key]
	if !ok {
		return types.ResolvedRegion{}, false
	}

	if lookup == nil {
		lookup = s.lookup
	}
	resolved := types.ResolvedRegion{Region: r, Regulations: []types.Regulation{}}
	if lookup == nil {
		return resolved, true
	}

	for _, regID := range r.RegulationIDs {
		if reg, ok := lookup.Get(regID); ok {
			resolved.Regulations = append(resolved.Regulations, reg)
			continue
		}
		if reg, ok := s.fallback(key, regID); ok {
			resolved.Regulations = append(resolved.Regulations, reg)
		}
	}
	return resolved, true
}

// fallback reads a regulation stored next to its region rather than indexed
// by the regulation store. Any failure counts as not found.
func (s *Store) fallback(regionKey, regID string) (types.Regulation, bool) {
	path := filepath.Join(s.dataDir, regionKey, regID+".json")
	var reg types.Regulation
	if err := record.DecodeFile(path, &reg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("fallback regulation unreadable", zap.String("path", path), zap.Error(err))
		}
		return types.Regulation{}, false
	}
	return reg, true
}
