//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"gridface/app"
	"gridface/hal"
	"gridface/internal/buildinfo"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfg   hal.HeadlessConfig
		scale int
		at    string
	)

	cmd := &cobra.Command{
		Use:     "gridface",
		Short:   "Grid watch face: the time decrypts from noise once a minute.",
		Version: buildinfo.Short(),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appCfg, err := configFor(at)
			if err != nil {
				return err
			}
			newApp := func(h hal.HAL) func() error {
				return app.NewWithConfig(h, appCfg)
			}

			if cfg.Enabled {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				err := hal.RunHeadless(ctx, newApp, cfg)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			return hal.RunWindow(newApp, scale)
		},
	}

	cmd.Flags().BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	cmd.Flags().IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	cmd.Flags().Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	cmd.Flags().IntVar(&scale, "scale", 3, "Window pixel scale.")
	cmd.Flags().StringVar(&at, "at", "", "Start the clock at HH:MM today instead of the system time.")
	return cmd
}

func configFor(at string) (app.Config, error) {
	if at == "" {
		return app.Config{}, nil
	}
	hm, err := time.Parse("15:04", at)
	if err != nil {
		return app.Config{}, fmt.Errorf("parse --at: %w", err)
	}
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), hm.Hour(), hm.Minute(), 0, 0, now.Location())
	return app.Config{Clock: hal.ShiftedClock{Offset: start.Sub(now)}}, nil
}
