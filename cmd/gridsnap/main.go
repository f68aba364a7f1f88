//go:build !tinygo

// Command gridsnap renders a single frame of the grid face, either as a PNG
// or as text, without running the window or the kernel.
package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"time"

	"gridface/hal"
	"gridface/watchos/tasks/gridface"

	"github.com/spf13/cobra"
)

type options struct {
	at     string
	step   int
	seed   uint32
	width  int
	height int
	text   bool
	out    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "gridsnap",
		Short: "Render one frame of the grid face.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.at, "at", "", "Time to show as HH:MM (default: now).")
	cmd.Flags().IntVar(&opts.step, "step", gridface.MaxStep, "Animation step to render (0-8).")
	cmd.Flags().Uint32Var(&opts.seed, "seed", 1, "Seed for reveal lengths and noise.")
	cmd.Flags().IntVar(&opts.width, "width", 144, "Panel width in pixels.")
	cmd.Flags().IntVar(&opts.height, "height", 168, "Panel height in pixels.")
	cmd.Flags().BoolVar(&opts.text, "text", false, "Print the grid as text instead of writing a PNG.")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "gridface.png", "PNG output path.")
	return cmd
}

// snapHost advances the animation synchronously instead of scheduling timers.
type snapHost struct {
	pending bool
}

func (h *snapHost) MarkDirty() {}

func (h *snapHost) ScheduleTimer(time.Duration) { h.pending = true }

func run(opts options, stdout io.Writer) error {
	if opts.step < 0 || opts.step > gridface.MaxStep {
		return fmt.Errorf("step %d out of range [0,%d]", opts.step, gridface.MaxStep)
	}
	wt, err := parseAt(opts.at, hal.SystemClock{})
	if err != nil {
		return err
	}

	a := gridface.NewAnimator(opts.seed)
	h := &snapHost{}
	a.OnMinuteTick(h, wt)
	for a.Step() < opts.step && h.pending {
		h.pending = false
		a.OnAnimationTick(h)
	}

	if opts.text {
		s := gridface.NewTextSurface()
		a.Render(s)
		_, err := fmt.Fprintln(stdout, s.String())
		return err
	}

	fb := hal.NewMemFramebuffer(opts.width, opts.height)
	s := gridface.NewFramebufferSurface(fb)
	if s == nil {
		return fmt.Errorf("panel %dx%d is too small for a %dx%d grid", opts.width, opts.height, gridface.NumCols, gridface.NumRows)
	}
	s.Clear()
	a.Render(s)
	if err := s.Present(); err != nil {
		return err
	}

	return writePNG(opts.out, fb)
}

func parseAt(at string, clock hal.Clock) (gridface.WallTime, error) {
	if at == "" {
		now := clock.Now()
		return gridface.WallTime{Hour: now.Hour(), Minute: now.Minute()}, nil
	}
	t, err := time.Parse("15:04", at)
	if err != nil {
		return gridface.WallTime{}, fmt.Errorf("parse --at: %w", err)
	}
	return gridface.WallTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func writePNG(path string, fb *hal.MemFramebuffer) error {
	buf := make([]byte, len(fb.Buffer()))
	fb.Snapshot(buf)
	img := image.NewRGBA(image.Rect(0, 0, fb.Width(), fb.Height()))
	hal.ToRGBA(buf, img)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
