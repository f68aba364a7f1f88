//go:build tinygo && baremetal

package hal

import "machine"

// uartLogger writes CRLF-terminated lines for serial terminals.
type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	l.uart.Write([]byte(s))
	l.uart.Write([]byte("\r\n"))
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	l.uart.Write(b)
	l.uart.Write([]byte("\r\n"))
}
