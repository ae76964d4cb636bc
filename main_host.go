package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"spritekit/app"
	"spritekit/hal"
	"spritekit/internal/buildinfo"
)

func main() {
	var (
		cfg    hal.HeadlessConfig
		appCfg app.Config
	)
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&appCfg.ScenePath, "scene", "", "Scene YAML file (default: built-in playground).")
	flag.BoolVar(&appCfg.Watch, "watch", false, "Reload the scene file when it changes.")
	flag.IntVar(&appCfg.RAM, "ram", 0, "RAM budget in bytes, overrides the scene (0 = use scene).")
	flag.IntVar(&appCfg.VRAM, "vram", 0, "VRAM budget in bytes, overrides the scene (0 = use scene).")
	flag.Parse()

	newApp := func(h hal.HAL) (func() error, func(), error) {
		if l := h.Logger(); l != nil {
			l.WriteLineString(buildinfo.Line())
		}
		return app.New(h, appCfg)
	}

	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, cfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
