//go:build tinygo && baremetal

package hal

import "machine"

type tinyGoHAL struct {
	logger *uartLogger
	fb     Framebuffer
	t      *tickerTime
}

// New returns a Pico HAL implementation driving an SSD1306 OLED.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// OLED: SSD1306 on I2C1, GP3 (SCL) / GP2 (SDA).
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	var fb Framebuffer
	oled, err := newOLEDFramebuffer()
	if err != nil {
		logger.WriteLineString("hal: oled: " + err.Error())
		fb = NewMemFramebuffer(oledWidth, oledHeight)
	} else {
		fb = oled
	}

	return &tinyGoHAL{
		logger: logger,
		fb:     fb,
		t:      newTickerTime(),
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) Display() Display { return panel{fb: h.fb} }
func (h *tinyGoHAL) Time() Time       { return h.t }

// Clock reads the runtime wall clock, which nothing sets on this board yet.
func (h *tinyGoHAL) Clock() Clock { return SystemClock{} }
