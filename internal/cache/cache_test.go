package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daaku/dxcss/internal/cache"
)

func TestLoadMissingFileIsNotError(t *testing.T) {
	dir := t.TempDir()
	st, err := cache.Load(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	st := &cache.State{
		Classes:      []string{"bg-red-500", "h-50"},
		MarkupHash:   "abc123",
		ListChecksum: "xyz",
	}
	require.NoError(t, cache.Save(path, st))

	got, err := cache.Load(path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.ElementsMatch(t, st.Classes, got.Classes)
	assert.Equal(t, st.MarkupHash, got.MarkupHash)
}

func TestSaveLoadLargeClassSetUsesBrotli(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	classes := make([]string, 2500)
	for i := range classes {
		classes[i] = "class-" + string(rune('a'+i%26))
	}
	st := &cache.State{Classes: classes, MarkupHash: "h"}
	require.NoError(t, cache.Save(path, st))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "DXBR", string(raw[:4]))

	got, err := cache.Load(path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Classes, len(classes))
}
