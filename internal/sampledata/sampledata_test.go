// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sampledata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/regulation-server/internal/region"
	"github.com/pdiddy/regulation-server/internal/regulation"
	"github.com/pdiddy/regulation-server/pkg/types"
)

func TestInstall(t *testing.T) {
	target := filepath.Join(t.TempDir(), "regulation-data")

	var out strings.Builder
	copied, err := Install(target, &out)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"regions.json",
		"brazil/lgpd.json",
		"eu/ai_act.json",
		"eu/gdpr.json",
		"usa/ccpa.json",
		"usa/hipaa.json",
	}, copied)
	assert.FileExists(t, filepath.Join(target, types.ManifestFile))
	assert.Contains(t, out.String(), "copied  eu/gdpr.json")
	assert.Contains(t, out.String(), "(6 files)")
}

func TestInstallOverwrites(t *testing.T) {
	target := t.TempDir()
	stale := filepath.Join(target, types.ManifestFile)
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o644))

	_, err := Install(target, &strings.Builder{})
	require.NoError(t, err)

	data, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(data))
}

func TestInstalledTreeLoads(t *testing.T) {
	target := t.TempDir()
	_, err := Install(target, &strings.Builder{})
	require.NoError(t, err)

	regs, err := regulation.Load(target, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, regs.Len())

	regions, err := region.Load(target, regs, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"eu", "usa", "brazil"}, regions.IDs())

	for _, id := range regions.IDs() {
		r, ok := regions.Get(id, nil)
		require.True(t, ok)
		assert.Len(t, r.Regulations, len(r.RegulationIDs), "every sample reference resolves (%s)", id)
	}
}
