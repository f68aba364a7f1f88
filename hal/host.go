//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
)

// Pebble-sized panel; the window scales it up.
const (
	hostWidth  = 144
	hostHeight = 168
)

type hostHAL struct {
	logger *hostLogger
	fb     *MemFramebuffer
	t      *hostTime
	clock  Clock
}

// New returns a host HAL implementation.
func New() HAL {
	return &hostHAL{
		logger: &hostLogger{w: os.Stdout},
		fb:     NewMemFramebuffer(hostWidth, hostHeight),
		t:      newHostTime(),
		clock:  SystemClock{},
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return panel{fb: h.fb} }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) Clock() Clock     { return h.clock }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
