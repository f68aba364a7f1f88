package gridface

import (
	"errors"
	"fmt"
	"time"

	"gridface/hal"
	logclient "gridface/watchos/client/logger"
	timeclient "gridface/watchos/client/time"
	"gridface/watchos/kernel"
	"gridface/watchos/proto"
)

// Frame describes a repaint, for observers.
type Frame struct {
	Step int
	Text *TextSurface
}

// Task runs the face on the kernel: it subscribes to minute ticks, turns
// time service wakes into animation ticks and repaints when dirty.
type Task struct {
	disp    hal.Display
	clock   hal.Clock
	timeCap kernel.Capability
	logCap  kernel.Capability

	surface *FramebufferSurface
	anim    *Animator
	tc      *timeclient.Client

	// pending is the request ID of the only wake that may advance the animation.
	pending  uint32
	dirty    bool
	revealed bool

	onFrame func(Frame)
}

func New(disp hal.Display, clock hal.Clock, timeCap, logCap kernel.Capability) *Task {
	if clock == nil {
		clock = hal.SystemClock{}
	}
	return &Task{disp: disp, clock: clock, timeCap: timeCap, logCap: logCap}
}

// OnFrame installs a callback run on the task goroutine after every repaint.
// It must be set before the task is added to the kernel.
func (t *Task) OnFrame(fn func(Frame)) {
	t.onFrame = fn
}

func (t *Task) Run(ctx *kernel.Context) {
	if t.disp == nil {
		return
	}
	t.surface = NewFramebufferSurface(t.disp.Framebuffer())
	if t.surface == nil {
		t.logf(ctx, "gridface: no usable framebuffer")
		return
	}

	tc, err := timeclient.New(ctx, t.timeCap)
	if err != nil {
		t.logf(ctx, "gridface: %v", err)
		return
	}
	t.tc = tc
	t.anim = NewAnimator(uint32(t.clock.Now().UnixNano()) ^ uint32(ctx.NowTick()))

	events := tc.Events(ctx)
	if err := tc.SubscribeMinutes(ctx); err != nil {
		t.logf(ctx, "gridface: %v", err)
		return
	}

	t.surface.Clear()
	_ = t.surface.Present()

	for msg := range events {
		t.handle(ctx, msg)
		if err := t.repaint(); err != nil {
			t.logf(ctx, "gridface: present: %v", err)
		}
	}
}

func (t *Task) handle(ctx *kernel.Context, msg kernel.Message) {
	h := taskHost{t: t, ctx: ctx}

	switch proto.Kind(msg.Kind) {
	case proto.MsgMinuteTick:
		wt, ok := proto.DecodeMinuteTickPayload(msg.Payload())
		if !ok {
			t.logf(ctx, "gridface: bad minute tick")
			return
		}
		t.revealed = false
		t.anim.OnMinuteTick(h, WallTime{Hour: int(wt.Hour), Minute: int(wt.Minute)})
		t.logf(ctx, "gridface: %s reveal=%v", clockLabel(t.anim), revealLengths(t.anim))

	case proto.MsgWake, proto.MsgError:
		if t.pending == 0 {
			return
		}
		err := timeclient.CheckWake(msg, t.pending)
		if errors.Is(err, timeclient.ErrStale) {
			return
		}
		t.pending = 0
		if err != nil {
			// The chain is broken; the next minute tick starts a new one.
			t.logf(ctx, "gridface: animation timer: %v", err)
			return
		}
		t.anim.OnAnimationTick(h)
		if !t.revealed && t.anim.Done() {
			t.revealed = true
			t.logf(ctx, "gridface: %s revealed at step %d", clockLabel(t.anim), t.anim.Step())
		}
	}
}

func (t *Task) repaint() error {
	if !t.dirty {
		return nil
	}
	t.dirty = false

	t.surface.Clear()
	t.anim.Render(t.surface)
	if t.onFrame != nil {
		text := NewTextSurface()
		t.anim.Render(text)
		t.onFrame(Frame{Step: t.anim.Step(), Text: text})
	}
	return t.surface.Present()
}

func (t *Task) logf(ctx *kernel.Context, format string, args ...any) {
	if !t.logCap.Valid() {
		return
	}
	_ = logclient.Logf(ctx, t.logCap, format, args...)
}

type taskHost struct {
	t   *Task
	ctx *kernel.Context
}

func (h taskHost) MarkDirty() { h.t.dirty = true }

func (h taskHost) ScheduleTimer(d time.Duration) {
	id, err := h.t.tc.After(h.ctx, d)
	if err != nil {
		h.t.pending = 0
		h.t.logf(h.ctx, "gridface: schedule timer: %v", err)
		return
	}
	h.t.pending = id
}

func clockLabel(a *Animator) string {
	glyph := func(p Position) rune { return a.Cell(p).Digit.Glyph() }
	return fmt.Sprintf("%c%c:%c%c %cM",
		glyph(HourTens), glyph(HourOnes), glyph(MinuteTens), glyph(MinuteOnes), glyph(AmPm))
}

func revealLengths(a *Animator) [numPositions]int {
	var out [numPositions]int
	for p := Position(0); p < numPositions; p++ {
		out[p] = a.Cell(p).RevealLength
	}
	return out
}
