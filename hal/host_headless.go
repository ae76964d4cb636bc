package hal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64

	// Keys are injected in order, one per frame, starting with the first frame.
	Keys []KeyEvent
	// Log receives log lines; nil means stdout.
	Log io.Writer
}

// RunHeadless runs the app without opening a window.
func RunHeadless(ctx context.Context, newApp AppFunc, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	out := cfg.Log
	if out == nil {
		out = stdout()
	}

	h := newHostHAL(out)
	step, stop, err := newApp(h)
	if err != nil {
		return err
	}
	if stop != nil {
		defer stop()
	}

	t := time.NewTicker(d)
	defer t.Stop()

	var frame uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if frame < uint64(len(cfg.Keys)) {
				h.kbd.emit(cfg.Keys[frame])
			}
			h.t.step()
			if step != nil {
				if err := step(); err != nil {
					if errors.Is(err, ErrStop) {
						return nil
					}
					return err
				}
			}
			frame++
			if cfg.Ticks > 0 && frame >= cfg.Ticks {
				return nil
			}
		}
	}
}

func stdout() io.Writer { return os.Stdout }
