package hal

import "time"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// panel is a Display with one fixed framebuffer.
type panel struct {
	fb Framebuffer
}

func (p panel) Framebuffer() Framebuffer { return p.fb }

// Time provides a base tick stream.
//
// One tick is one millisecond on every platform.
type Time interface {
	Ticks() <-chan uint64
}

// Clock reports wall-clock time.
type Clock interface {
	Now() time.Time
}

// HAL provides the only contact point between the face and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Time() Time
	Clock() Clock
}

// SystemClock reads the platform RTC through the time package.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant. It backs snapshot tooling and tests.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// ShiftedClock runs at wall-clock speed but offset by a fixed duration.
type ShiftedClock struct {
	Offset time.Duration
}

func (c ShiftedClock) Now() time.Time { return time.Now().Add(c.Offset) }
