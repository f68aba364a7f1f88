package app

import (
	"gridface/hal"
	"gridface/internal/buildinfo"
	"gridface/watchos/kernel"
	"gridface/watchos/services/logger"
	timesvc "gridface/watchos/services/time"
	"gridface/watchos/tasks/gridface"
)

type system struct {
	k *kernel.Kernel
}

type Config struct {
	// Clock overrides the HAL wall clock.
	Clock hal.Clock
}

// New boots the face with default config.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{})
}

// Run boots the face and blocks forever (TinyGo/native entrypoint).
func Run(h hal.HAL) {
	_ = New(h)
	select {}
}

func NewWithConfig(h hal.HAL, cfg Config) func() error {
	_ = newSystem(h, cfg)
	return func() error { return nil }
}

func newSystem(h hal.HAL, cfg Config) *system {
	installPanicHandler(h)

	clock := cfg.Clock
	if clock == nil {
		clock = h.Clock()
	}

	k := kernel.New()

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	timeEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	if l := h.Logger(); l != nil {
		l.WriteLineString("gridface: boot " + buildinfo.Short())
	}

	k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)))
	k.AddTask(timesvc.New(clock, timeEP))
	k.AddTask(gridface.New(h.Display(), clock, timeEP.Restrict(kernel.RightSend), logEP.Restrict(kernel.RightSend)))

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go forwardTicks(k, ch)
		}
	}

	return &system{k: k}
}

// forwardTicks drives the kernel clock from the HAL. It stops once a task has
// panicked: with the clock frozen no timer or minute tick fires, so nothing
// repaints over the panic screen.
func forwardTicks(k *kernel.Kernel, ch <-chan uint64) {
	for seq := range ch {
		if kernel.InPanicMode() {
			return
		}
		k.TickTo(seq)
	}
}
