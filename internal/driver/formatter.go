package driver

import (
	"context"
	"time"

	"github.com/daaku/dxcss/internal/telemetry"
)

// StartFormatter runs the optional delayed/interval pretty-printer on its
// own worker (spec §5): after delay has elapsed once, it re-checks every
// interval, debouncing on the class-list checksum so an unchanged class
// set never triggers a rewrite. format is called with the mutex already
// released; it must acquire state's lock itself via Rebuild-style
// access, which is why it's handed a closure rather than AppState
// directly. Cancel ctx to stop the worker.
func StartFormatter(ctx context.Context, state *AppState, delay, interval time.Duration, format func(*AppState) error) {
	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		var lastChecksum string
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		runOnce := func() {
			state.mu.Lock()
			checksum := state.ClassListChecksum
			state.mu.Unlock()
			if checksum == lastChecksum {
				return
			}
			lastChecksum = checksum
			if err := format(state); err != nil {
				telemetry.L().Warnw("formatter run failed", "error", err)
			}
		}

		runOnce()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()
}
