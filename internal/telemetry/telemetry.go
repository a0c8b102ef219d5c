// Package telemetry provides the structured logger and duration
// formatting shared by the rebuild driver, watcher, and validator.
package telemetry

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	once   sync.Once
	logger *zap.SugaredLogger
)

// L returns the process-wide logger, building it lazily on first use.
func L() *zap.SugaredLogger {
	once.Do(func() {
		z, err := zap.NewProduction()
		if err != nil {
			z = zap.NewNop()
		}
		logger = z.Sugar()
	})
	return logger
}

// SetLogger overrides the process-wide logger, for tests.
func SetLogger(l *zap.SugaredLogger) {
	once.Do(func() {})
	logger = l
}

// FormatDuration renders d the way the driver's cycle-summary line does:
// microseconds below 1ms, milliseconds below 1s, seconds otherwise.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000.0)
	default:
		return fmt.Sprintf("%.3fs", d.Seconds())
	}
}
