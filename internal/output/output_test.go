package output_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daaku/dxcss/internal/output"
)

func TestReplaceAndReadAll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.css")

	o, err := output.Open(path, 0)
	require.NoError(t, err)
	defer o.Close()

	require.NoError(t, o.Replace([]byte("@layer utilities {\n.h-50 {\n  height: 50px;\n}\n}\n")))

	data, err := o.ReadAll()
	require.NoError(t, err)
	assert.Contains(t, string(data), ".h-50")
}

func TestAppendInsideFinalBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.css")

	o, err := output.Open(path, 0)
	require.NoError(t, err)
	defer o.Close()

	require.NoError(t, o.Replace([]byte("@layer utilities {\n.h-50 {\n  height: 50px;\n}\n}\n")))

	offset, err := o.AppendInsideFinalBlock([]byte("  .w-50 {\n  width: 50px;\n  }\n"))
	require.NoError(t, err)
	assert.Greater(t, offset, int64(0))

	data, err := o.ReadAll()
	require.NoError(t, err)
	assert.Contains(t, string(data), ".w-50")
	assert.Contains(t, string(data), ".h-50")
}

func TestBlankRangePreservesNewlinesAndSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.css")

	o, err := output.Open(path, 0)
	require.NoError(t, err)
	defer o.Close()

	original := []byte(".h-50 {\n  height: 50px;\n}\n")
	require.NoError(t, o.Replace(original))

	before, err := o.Size()
	require.NoError(t, err)

	require.NoError(t, o.BlankRange(0, int64(len(original))))

	after, err := o.Size()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	data, err := o.ReadAll()
	require.NoError(t, err)
	for i, b := range data {
		if original[i] == '\n' {
			assert.Equal(t, byte('\n'), b)
		} else {
			assert.Equal(t, byte(' '), b)
		}
	}
}

func TestAppendReturnsOffset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.css")

	o, err := output.Open(path, 0)
	require.NoError(t, err)
	defer o.Close()

	require.NoError(t, o.Replace([]byte("abc")))
	offset, err := o.Append([]byte("def"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), offset)

	data, err := o.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "abcdef", string(data))
}

func TestMmapThresholdReadsLargeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.css")

	o, err := output.Open(path, 8)
	require.NoError(t, err)
	defer o.Close()

	require.NoError(t, o.Replace([]byte("0123456789abcdef")))
	data, err := o.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef", string(data))
}
