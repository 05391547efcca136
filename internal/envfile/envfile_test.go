// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package envfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("sets unset variables", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, ".env", "REGULATION_TEST_A=one\n# comment\nREGULATION_TEST_B=\"two words\"\n")
		t.Setenv("REGULATION_TEST_A", "")
		os.Unsetenv("REGULATION_TEST_A")
		t.Setenv("REGULATION_TEST_B", "")
		os.Unsetenv("REGULATION_TEST_B")

		set, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"REGULATION_TEST_A", "REGULATION_TEST_B"}, set)
		assert.Equal(t, "one", os.Getenv("REGULATION_TEST_A"))
		assert.Equal(t, "two words", os.Getenv("REGULATION_TEST_B"))
	})

	t.Run("environment wins", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, ".env", "REGULATION_TEST_C=file\n")
		t.Setenv("REGULATION_TEST_C", "env")

		set, err := Load(path)
		require.NoError(t, err)
		assert.Empty(t, set)
		assert.Equal(t, "env", os.Getenv("REGULATION_TEST_C"))
	})

	t.Run("earlier file wins", func(t *testing.T) {
		dir := t.TempDir()
		first := writeFile(t, dir, "first.env", "REGULATION_TEST_D=first\n")
		second := writeFile(t, dir, "second.env", "REGULATION_TEST_D=second\n")
		t.Setenv("REGULATION_TEST_D", "")
		os.Unsetenv("REGULATION_TEST_D")

		_, err := Load(first, second)
		require.NoError(t, err)
		assert.Equal(t, "first", os.Getenv("REGULATION_TEST_D"))
	})

	t.Run("missing file is skipped", func(t *testing.T) {
		set, err := Load(filepath.Join(t.TempDir(), "absent.env"))
		require.NoError(t, err)
		assert.Empty(t, set)
	})

	t.Run("directory is an error", func(t *testing.T) {
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})
}
