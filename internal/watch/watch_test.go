package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesBurstOfWritesIntoOneCallback(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(file, []byte("<div></div>"), 0o644))

	var mu sync.Mutex
	calls := 0

	w, err := New(dir, 30*time.Millisecond, func(path string) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, err)
	defer w.Close()

	stop := make(chan struct{})
	go w.Run(stop)
	defer close(stop)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(file, []byte("<div class=\"flex\"></div>"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	got := calls
	mu.Unlock()
	require.Equal(t, 1, got)
}

func TestWatcherFiresAgainAfterQuietPeriod(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(file, []byte("<div></div>"), 0o644))

	var mu sync.Mutex
	calls := 0

	w, err := New(dir, 20*time.Millisecond, func(path string) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, err)
	defer w.Close()

	stop := make(chan struct{})
	go w.Run(stop)
	defer close(stop)

	require.NoError(t, os.WriteFile(file, []byte("<div class=\"flex\"></div>"), 0o644))
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(file, []byte("<div class=\"flex p-4\"></div>"), 0o644))
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	got := calls
	mu.Unlock()
	require.Equal(t, 2, got)
}
