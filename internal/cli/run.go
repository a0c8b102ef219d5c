package cli

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/daaku/dxcss/internal/driver"
	"github.com/daaku/dxcss/internal/telemetry"
	"github.com/daaku/dxcss/internal/validate"
	"github.com/daaku/dxcss/internal/watch"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch markup and keep the CSS artifact in sync",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, cfg, cleanup, err := buildState(configFlag)
		if err != nil {
			return err
		}
		defer cleanup()

		markupPath, err := firstMarkupFile(cfg.Paths.HTMLDir)
		if err != nil {
			return err
		}

		start := time.Now()
		if _, err := driver.Rebuild(state, markupPath, true); err != nil {
			telemetry.L().Errorw("initial rebuild failed", "error", err)
		} else {
			telemetry.L().Infow("initial rebuild complete", "duration", telemetry.FormatDuration(time.Since(start)))
		}

		debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
		w, err := watch.New(cfg.Paths.HTMLDir, debounce, func(path string) {
			t0 := time.Now()
			res, err := driver.Rebuild(state, markupPath, false)
			if err != nil {
				telemetry.L().Errorw("rebuild failed", "error", err, "changed", path)
				return
			}
			telemetry.L().Infow("rebuild complete", "wrote", res.Wrote, "duration", telemetry.FormatDuration(time.Since(t0)))
		})
		if err != nil {
			return err
		}
		defer w.Close()

		stop := make(chan struct{})
		go w.Run(stop)

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		driver.StartFormatter(ctx, state, time.Duration(cfg.Format.DelayMS)*time.Millisecond, time.Duration(cfg.Format.IntervalMS)*time.Millisecond, func(s *driver.AppState) error {
			_, err := driver.Rebuild(s, markupPath, true)
			return err
		})

		go runValidatorLoop(ctx, state)

		<-ctx.Done()
		close(stop)
		return nil
	},
}

func firstMarkupFile(dir string) (string, error) {
	var found string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || found != "" {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".html" {
			found = path
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", os.ErrNotExist
	}
	return found, nil
}

func runValidatorLoop(ctx context.Context, state *driver.AppState) {
	ticker := time.NewTicker(1500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			data, err := state.CSSOut.ReadAll()
			if err != nil {
				continue
			}
			res := validate.Validate(data)
			if !res.OK {
				telemetry.L().Warnw("artifact validation failed", "error", res.Err)
			}
		}
	}
}
