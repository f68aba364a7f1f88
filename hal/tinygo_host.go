//go:build tinygo && !baremetal

package hal

// tinyGoHostHAL serves `tinygo run` on linux or wasm, where no panel exists;
// the face still renders into memory and logs through println.
type tinyGoHostHAL struct {
	fb *MemFramebuffer
	t  *tickerTime
}

// New returns a TinyGo-on-host HAL implementation.
func New() HAL {
	return &tinyGoHostHAL{
		fb: NewMemFramebuffer(144, 168),
		t:  newTickerTime(),
	}
}

func (h *tinyGoHostHAL) Logger() Logger   { return printLogger{} }
func (h *tinyGoHostHAL) Display() Display { return panel{fb: h.fb} }
func (h *tinyGoHostHAL) Time() Time       { return h.t }
func (h *tinyGoHostHAL) Clock() Clock     { return SystemClock{} }

type printLogger struct{}

func (printLogger) WriteLineString(s string) { println(s) }

func (printLogger) WriteLineBytes(b []byte) { println(string(b)) }
