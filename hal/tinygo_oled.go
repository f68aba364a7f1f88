//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"image/color"
	"machine"
	"time"

	"tinygo.org/x/drivers/ssd1306"
)

const (
	oledAddress = 0x3C
	oledWidth   = 128
	oledHeight  = 64

	// Pixels darker than this luma are lit on the panel.
	oledThreshold = 0x80
)

var (
	oledOn  = color.RGBA{255, 255, 255, 255}
	oledOff = color.RGBA{0, 0, 0, 255}
)

// oledFramebuffer keeps an RGB565 back buffer and thresholds it onto the
// monochrome panel on Present. Dark pixels light up, matching the inverted
// look of the face on a black OLED.
type oledFramebuffer struct {
	*MemFramebuffer
	dev *ssd1306.Device
}

func newOLEDFramebuffer() (*oledFramebuffer, error) {
	i2c := machine.I2C1
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: 400000,
		SCL:       machine.GP3,
		SDA:       machine.GP2,
	}); err != nil {
		return nil, fmt.Errorf("i2c configure: %w", err)
	}
	time.Sleep(10 * time.Millisecond)

	dev := ssd1306.NewI2C(i2c)
	dev.Configure(ssd1306.Config{
		Address: oledAddress,
		Width:   oledWidth,
		Height:  oledHeight,
	})
	dev.ClearDisplay()

	fb := &oledFramebuffer{
		MemFramebuffer: NewMemFramebuffer(oledWidth, oledHeight),
		dev:            dev,
	}
	fb.flush = fb.push
	return fb, nil
}

func (f *oledFramebuffer) push(buf []byte) error {
	for y := 0; y < f.height; y++ {
		row := y * f.stride
		for x := 0; x < f.width; x++ {
			off := row + x*2
			r, g, b := RGB888From565(uint16(buf[off]) | uint16(buf[off+1])<<8)
			luma := (uint16(r)*3 + uint16(g)*6 + uint16(b)) / 10
			c := oledOff
			if luma < oledThreshold {
				c = oledOn
			}
			f.dev.SetPixel(int16(x), int16(y), c)
		}
	}
	return f.dev.Display()
}
