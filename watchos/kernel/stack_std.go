//go:build !tinygo

package kernel

import (
	"bytes"
	"runtime/debug"
)

// maxStackBytes bounds the trace kept in PanicInfo; the panic screen only has
// room for a few frames anyway.
const maxStackBytes = 4 << 10

func captureStack() []byte {
	return trimStack(debug.Stack())
}

// trimStack drops the frames above the runtime panic call (the recover
// machinery and debug.Stack itself) and caps the result.
func trimStack(st []byte) []byte {
	header := st
	if i := bytes.IndexByte(st, '\n'); i >= 0 {
		header = st[:i+1]
	}
	if i := bytes.Index(st, []byte("\npanic(")); i >= 0 {
		rest := st[i+1:]
		// Skip the panic frame and its file:line.
		for n := 0; n < 2; n++ {
			j := bytes.IndexByte(rest, '\n')
			if j < 0 {
				rest = nil
				break
			}
			rest = rest[j+1:]
		}
		st = append(append([]byte{}, header...), rest...)
	}
	if len(st) > maxStackBytes {
		st = st[:maxStackBytes]
	}
	return st
}
