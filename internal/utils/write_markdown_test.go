package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMarkdownCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results", "AAPL")

	path, err := WriteMarkdown(dir, "AAPL_forecast.md", "# AAPL\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "AAPL_forecast.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# AAPL\n", string(data))
}

func TestWriteFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteFile(dir, "a.bin", []byte{1, 2, 3})
	require.NoError(t, err)
	path, err := WriteFile(dir, "a.bin", []byte{9})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, data)
}
