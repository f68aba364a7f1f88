package app

import (
	"fmt"
	"image/color"
	"strings"

	"gridface/hal"
	"gridface/watchos/kernel"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var panicFont = &proggy.TinySZ8pt7b

func installPanicHandler(h hal.HAL) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		lines := panicLines(info)
		if l := h.Logger(); l != nil {
			for _, line := range lines {
				l.WriteLineString(line)
			}
		}

		disp := h.Display()
		if disp == nil {
			return
		}
		fb := disp.Framebuffer()
		if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
			return
		}
		drawPanicScreen(fb, lines)
	})
}

func panicLines(info kernel.PanicInfo) []string {
	lines := []string{
		"gridface panic",
		fmt.Sprintf("task: %d", info.TaskID),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line == "" {
			continue
		}
		lines = append(lines, strings.TrimSpace(line))
	}
	return lines
}

// drawPanicScreen wraps lines to the panel width and stops at the bottom edge.
func drawPanicScreen(fb hal.Framebuffer, lines []string) {
	fb.ClearRGB(0xFF, 0xFF, 0xFF)

	lineH := int16(panicFont.GetYAdvance())
	_, advance := tinyfont.LineWidth(panicFont, "0")
	if lineH <= 0 || advance == 0 {
		_ = fb.Present()
		return
	}
	cols := fb.Width() / int(advance)
	if cols <= 0 {
		cols = 1
	}

	d := panicDisplay{fb: fb}
	fg := color.RGBA{A: 0xFF}
	y := lineH
	for _, line := range lines {
		for len(line) > 0 {
			if int(y) > fb.Height() {
				_ = fb.Present()
				return
			}
			chunk := line
			if len(chunk) > cols {
				chunk = chunk[:cols]
			}
			line = line[len(chunk):]
			tinyfont.WriteLine(d, panicFont, 0, y, chunk, fg)
			y += lineH
		}
	}
	_ = fb.Present()
}

type panicDisplay struct {
	fb hal.Framebuffer
}

func (d panicDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d panicDisplay) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	buf := d.fb.Buffer()
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	pixel := hal.RGB565(c.R, c.G, c.B)
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d panicDisplay) Display() error { return nil }
