package gridface

import (
	"image/color"

	"gridface/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

const cornerRadius = 5

var (
	darkRGBA  = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	lightRGBA = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Largest first; the first font whose glyph box fits a cell wins.
var fontCandidates = []*tinyfont.Font{
	&freemono.Bold24pt7b,
	&freemono.Bold18pt7b,
	&freemono.Bold12pt7b,
	&freemono.Bold9pt7b,
	&proggy.TinySZ8pt7b,
}

// FramebufferSurface paints the grid onto an RGB565 framebuffer.
type FramebufferSurface struct {
	fb   hal.Framebuffer
	d    *fbDisplayer
	font tinyfont.Fonter

	cellW int
	cellH int
}

// NewFramebufferSurface returns nil when fb cannot hold a grid.
func NewFramebufferSurface(fb hal.Framebuffer) *FramebufferSurface {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 || fb.Buffer() == nil {
		return nil
	}
	cellW := fb.Width() / NumCols
	cellH := fb.Height() / NumRows
	if cellW <= 0 || cellH <= 0 {
		return nil
	}
	return &FramebufferSurface{
		fb:    fb,
		d:     &fbDisplayer{fb: fb},
		font:  pickFont(cellW, cellH),
		cellW: cellW,
		cellH: cellH,
	}
}

func pickFont(cellW, cellH int) tinyfont.Fonter {
	for _, f := range fontCandidates {
		info := f.GetGlyph('0').Info()
		if int(info.XAdvance) <= cellW && int(info.Height)+2 <= cellH {
			return f
		}
	}
	return fontCandidates[len(fontCandidates)-1]
}

// CellSize returns the pixel size of one grid cell.
func (s *FramebufferSurface) CellSize() (w, h int) { return s.cellW, s.cellH }

// Clear paints the window background.
func (s *FramebufferSurface) Clear() {
	s.fb.ClearRGB(0xFF, 0xFF, 0xFF)
}

// Present pushes the frame to the panel.
func (s *FramebufferSurface) Present() error {
	return s.fb.Present()
}

func (s *FramebufferSurface) DrawCharacter(glyph rune, c Color, row, col int) {
	if !inGrid(row, col) {
		return
	}
	info := s.font.GetGlyph(glyph).Info()
	x0 := col*s.cellW + (s.cellW-int(info.Width))/2 - int(info.XOffset)
	baseline := row*s.cellH + (s.cellH-int(info.Height))/2 - int(info.YOffset)
	tinyfont.DrawChar(s.d, s.font, int16(x0), int16(baseline), glyph, rgba(c))
}

func (s *FramebufferSurface) FillCellBackground(c Color, row, col int, corners Corner) {
	if !inGrid(row, col) {
		return
	}
	fillRoundedRect(s.d, col*s.cellW, row*s.cellH, s.cellW, s.cellH, cornerRadius, corners, rgba(c))
}

func rgba(c Color) color.RGBA {
	if c == Light {
		return lightRGBA
	}
	return darkRGBA
}

// fillRoundedRect fills the rectangle, cutting a quarter circle of radius r
// out of every corner named in corners.
func fillRoundedRect(d *fbDisplayer, x0, y0, w, h, r int, corners Corner, c color.RGBA) {
	if r*2 > w {
		r = w / 2
	}
	if r*2 > h {
		r = h / 2
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if outsideCorner(x, y, w, h, r, corners) {
				continue
			}
			d.SetPixel(int16(x0+x), int16(y0+y), c)
		}
	}
}

func outsideCorner(x, y, w, h, r int, corners Corner) bool {
	if r <= 0 {
		return false
	}
	var cx, cy int
	switch {
	case corners&CornerTopLeft != 0 && x < r && y < r:
		cx, cy = r, r
	case corners&CornerTopRight != 0 && x >= w-r && y < r:
		cx, cy = w-r-1, r
	case corners&CornerBottomLeft != 0 && x < r && y >= h-r:
		cx, cy = r, h-r-1
	case corners&CornerBottomRight != 0 && x >= w-r && y >= h-r:
		cx, cy = w-r-1, h-r-1
	default:
		return false
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy > r*r
}

type fbDisplayer struct {
	fb hal.Framebuffer
}

var _ drivers.Displayer = (*fbDisplayer)(nil)

func (d *fbDisplayer) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplayer) SetPixel(x, y int16, c color.RGBA) {
	buf := d.fb.Buffer()
	w := d.fb.Width()
	h := d.fb.Height()
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= w || iy < 0 || iy >= h {
		return
	}

	pixel := hal.RGB565(c.R, c.G, c.B)
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *fbDisplayer) Display() error { return d.fb.Present() }
