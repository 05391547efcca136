// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package region

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/regulation-server/internal/record"
	"github.com/pdiddy/regulation-server/internal/regulation"
	"github.com/pdiddy/regulation-server/pkg/types"
)

// --- test helpers ---

// mapLookup is a RegulationLookup over a fixed set of records.
type mapLookup map[string]types.Regulation

func (m mapLookup) Get(id string) (types.Regulation, bool) {
	reg, ok := m[record.Normalize(id)]
	return reg, ok
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeJSON(t *testing.T, root, rel string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	writeFile(t, root, rel, string(data))
}

const manifest = `[
	{"id": "eu", "name": "European Union", "regulations": ["gdpr", "ai_act"], "notes": "EU regulations"},
	{"id": "USA", "name": "United States", "regulations": ["hipaa"], "notes": "US federal law", "sector": "health"}
]`

// dataTree writes a manifest and regulation files for eu and usa.
func dataTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, types.ManifestFile, manifest)
	writeJSON(t, root, "eu/gdpr.json", map[string]any{"id": "gdpr", "name": "General Data Protection Regulation"})
	writeJSON(t, root, "eu/ai_act.json", map[string]any{"id": "ai_act", "name": "EU AI Act"})
	writeJSON(t, root, "usa/hipaa.json", map[string]any{"id": "hipaa", "name": "HIPAA"})
	return root
}

func regulationNames(regs []types.Regulation) []string {
	var names []string
	for _, r := range regs {
		names = append(names, r.Name)
	}
	return names
}

// --- load tests ---

func TestLoadManifestShapes(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		wantIDs  []string
	}{
		{
			name:     "list",
			manifest: `[{"id": "eu", "name": "European Union"}, {"id": "usa", "name": "United States"}]`,
			wantIDs:  []string{"eu", "usa"},
		},
		{
			name:     "object with regions",
			manifest: `{"version": 2, "regions": [{"id": "EU"}, {"id": "brazil"}]}`,
			wantIDs:  []string{"eu", "brazil"},
		},
		{
			name:     "single region",
			manifest: `{"id": "uk", "name": "United Kingdom", "regulations": ["dpa"]}`,
			wantIDs:  []string{"uk"},
		},
		{
			name:     "entries without id are skipped",
			manifest: `[{"name": "Nowhere"}, {"id": "eu"}]`,
			wantIDs:  []string{"eu"},
		},
		{
			name:     "empty id is still an id",
			manifest: `[{"id": "", "name": "Unnamed"}, {"id": "eu"}]`,
			wantIDs:  []string{"", "eu"},
		},
		{
			name:     "later duplicate replaces earlier",
			manifest: `[{"id": "eu", "name": "Old"}, {"id": "usa"}, {"id": " EU ", "name": "New"}]`,
			wantIDs:  []string{"eu", "usa"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, types.ManifestFile, tt.manifest)

			s, err := Load(root, nil, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, s.IDs())
			assert.Equal(t, len(tt.wantIDs), s.Len())
		})
	}
}

func TestLoadDuplicateKeepsLatest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, types.ManifestFile, `[{"id": "eu", "name": "Old"}, {"id": "EU", "name": "New"}]`)

	s, err := Load(root, nil, nil)
	require.NoError(t, err)

	r, ok := s.Get("eu", nil)
	require.True(t, ok)
	assert.Equal(t, "New", r.Name)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing manifest", func(t *testing.T) {
		_, err := Load(t.TempDir(), nil, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrManifestNotFound))
		assert.Contains(t, err.Error(), types.ManifestFile)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, types.ManifestFile, "{ invalid json }")

		_, err := Load(root, nil, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidManifest))
		assert.Contains(t, err.Error(), "invalid character")
	})

	t.Run("scalar manifest", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, types.ManifestFile, `"eu"`)

		_, err := Load(root, nil, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidManifest))
	})
}

func TestLoadKeepsUnexpectedFieldTypes(t *testing.T) {
	root := dataTree(t)
	writeFile(t, root, types.ManifestFile, `[
		{"id": "eu", "name": "European Union", "regulations": ["gdpr", 7, "ai_act"], "notes": ["EU-wide", "direct effect"]},
		{"id": "usa", "name": {"short": "US"}, "regulations": "hipaa"}
	]`)
	regs, err := regulation.Load(root, nil)
	require.NoError(t, err)

	s, err := Load(root, regs, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"eu", "usa"}, s.IDs())

	eu, ok := s.Get("eu", nil)
	require.True(t, ok)
	assert.Empty(t, eu.Notes)
	assert.Equal(t, []string{"General Data Protection Regulation", "EU AI Act"}, regulationNames(eu.Regulations))

	data, err := json.Marshal(eu.Region)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id": "eu", "name": "European Union", "regulations": ["gdpr", 7, "ai_act"], "notes": ["EU-wide", "direct effect"]}`,
		string(data))

	usa, ok := s.Get("usa", nil)
	require.True(t, ok)
	assert.Empty(t, usa.Regulations)
	data, err = json.Marshal(usa)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "usa", "name": {"short": "US"}, "regulations": []}`, string(data))
}

func TestGetWithNilRegulationStore(t *testing.T) {
	root := dataTree(t)
	s, err := Load(root, nil, nil)
	require.NoError(t, err)

	var regs *regulation.Store
	r, ok := s.Get("eu", regs)
	require.True(t, ok)
	// Nothing is indexed, so every reference comes from the region directory.
	assert.Equal(t, []string{"General Data Protection Regulation", "EU AI Act"}, regulationNames(r.Regulations))
}

// --- get tests ---

func TestGetAggregatesRegulations(t *testing.T) {
	root := dataTree(t)
	regs, err := regulation.Load(root, nil)
	require.NoError(t, err)

	s, err := Load(root, regs, nil)
	require.NoError(t, err)

	r, ok := s.Get("eu", nil)
	require.True(t, ok)
	assert.Equal(t, "European Union", r.Name)
	assert.Equal(t, "EU regulations", r.Notes)
	assert.Equal(t, []string{"General Data Protection Regulation", "EU AI Act"}, regulationNames(r.Regulations))
}

func TestGetIsCaseAndWhitespaceInsensitive(t *testing.T) {
	root := dataTree(t)
	regs, err := regulation.Load(root, nil)
	require.NoError(t, err)
	s, err := Load(root, nil, nil)
	require.NoError(t, err)

	want, ok := s.Get("usa", regs)
	require.True(t, ok)
	for _, id := range []string{"USA", " UsA ", "usa\n"} {
		got, ok := s.Get(id, regs)
		require.True(t, ok, id)
		assert.Equal(t, want, got)
	}

	_, ok = s.Get("atlantis", regs)
	assert.False(t, ok)
}

func TestGetWithoutCollaborator(t *testing.T) {
	s, err := Load(dataTree(t), nil, nil)
	require.NoError(t, err)

	r, ok := s.Get("eu", nil)
	require.True(t, ok)
	assert.NotNil(t, r.Regulations)
	assert.Empty(t, r.Regulations)
	assert.Equal(t, []string{"gdpr", "ai_act"}, r.RegulationIDs)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "eu", "name": "European Union", "notes": "EU regulations", "regulations": []}`, string(data))
}

func TestGetExplicitLookupOverridesBound(t *testing.T) {
	root := dataTree(t)
	bound := mapLookup{"gdpr": {ID: "gdpr", Name: "Bound"}}
	explicit := mapLookup{"gdpr": {ID: "gdpr", Name: "Explicit"}}

	s, err := Load(root, bound, nil)
	require.NoError(t, err)

	r, ok := s.Get("eu", explicit)
	require.True(t, ok)
	require.NotEmpty(t, r.Regulations)
	assert.Equal(t, "Explicit", r.Regulations[0].Name)

	r, ok = s.Get("eu", nil)
	require.True(t, ok)
	require.NotEmpty(t, r.Regulations)
	assert.Equal(t, "Bound", r.Regulations[0].Name)
}

func TestGetFallsBackToRegionDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, types.ManifestFile, `[{"id": "EU", "regulations": ["a", "b"]}]`)
	writeJSON(t, root, "eu/b.json", map[string]any{"name": "Standalone B"})

	lookup := mapLookup{"a": {ID: "a", Name: "Indexed A"}}
	s, err := Load(root, lookup, nil)
	require.NoError(t, err)

	r, ok := s.Get("eu", nil)
	require.True(t, ok)
	assert.Equal(t, []string{"Indexed A", "Standalone B"}, regulationNames(r.Regulations))
}

func TestGetStoreTakesPrecedenceOverFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, types.ManifestFile, `[{"id": "eu", "regulations": ["a"]}]`)
	writeJSON(t, root, "eu/a.json", map[string]any{"id": "a", "name": "From file"})

	s, err := Load(root, mapLookup{"a": {ID: "a", Name: "From store"}}, nil)
	require.NoError(t, err)

	r, ok := s.Get("eu", nil)
	require.True(t, ok)
	assert.Equal(t, []string{"From store"}, regulationNames(r.Regulations))
}

func TestGetDropsUnresolvableReferences(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, types.ManifestFile, `[{"id": "eu", "regulations": ["a", "c", "broken", "b"]}]`)
	writeJSON(t, root, "eu/b.json", map[string]any{"id": "b", "name": "B"})
	writeFile(t, root, "eu/broken.json", "{ not json")

	s, err := Load(root, mapLookup{"a": {ID: "a", Name: "A"}}, nil)
	require.NoError(t, err)

	r, ok := s.Get("eu", nil)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, regulationNames(r.Regulations))
	assert.Len(t, r.Regulations, len(r.RegulationIDs)-2)
}

func TestGetOmitsSingleMissingReference(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, types.ManifestFile, `[{"id": "eu", "regulations": ["a", "b", "c"]}]`)
	writeJSON(t, root, "eu/b.json", map[string]any{"name": "B"})

	s, err := Load(root, mapLookup{"a": {ID: "a", Name: "A"}}, nil)
	require.NoError(t, err)

	r, ok := s.Get("eu", nil)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, regulationNames(r.Regulations))
	assert.Len(t, r.Regulations, len(r.RegulationIDs)-1)
}

func TestResolvedRegionJSON(t *testing.T) {
	root := dataTree(t)
	regs, err := regulation.Load(root, nil)
	require.NoError(t, err)
	s, err := Load(root, regs, nil)
	require.NoError(t, err)

	r, ok := s.Get("usa", nil)
	require.True(t, ok)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "USA",
		"name": "United States",
		"notes": "US federal law",
		"sector": "health",
		"regulations": [{"id": "hipaa", "name": "HIPAA"}]
	}`, string(data))
}
