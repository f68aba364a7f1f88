package gridface

import (
	"testing"

	"gridface/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	black = hal.RGB565(0, 0, 0)
	white = hal.RGB565(0xFF, 0xFF, 0xFF)
)

func newTestSurface(t *testing.T, w, h int) (*hal.MemFramebuffer, *FramebufferSurface) {
	t.Helper()
	fb := hal.NewMemFramebuffer(w, h)
	s := NewFramebufferSurface(fb)
	if s == nil {
		t.Fatal("expected surface")
	}
	s.Clear()
	return fb, s
}

func TestPickFont(t *testing.T) {
	if got := pickFont(16, 33); got != tinyfont.Fonter(&freemono.Bold12pt7b) {
		t.Fatal("expected 12pt font for a Pebble-sized cell")
	}
	if got := pickFont(14, 12); got != tinyfont.Fonter(&proggy.TinySZ8pt7b) {
		t.Fatal("expected the small bitmap font for an OLED-sized cell")
	}
}

func TestNewFramebufferSurfaceRejectsTinyPanels(t *testing.T) {
	if NewFramebufferSurface(hal.NewMemFramebuffer(8, 4)) != nil {
		t.Fatal("expected nil surface when a cell would be empty")
	}
	if NewFramebufferSurface(nil) != nil {
		t.Fatal("expected nil surface without a framebuffer")
	}
}

func TestFillCellBackgroundRoundsTwoCorners(t *testing.T) {
	fb, s := newTestSurface(t, 144, 168)
	w, h := s.CellSize()
	row, col := 2, 3
	x0, y0 := col*w, row*h

	s.FillCellBackground(Dark, row, col, CornerTopLeft|CornerBottomRight)

	checks := []struct {
		name string
		x, y int
		want uint16
	}{
		{"top-left rounded", x0, y0, white},
		{"bottom-right rounded", x0 + w - 1, y0 + h - 1, white},
		{"top-right square", x0 + w - 1, y0, black},
		{"bottom-left square", x0, y0 + h - 1, black},
		{"centre", x0 + w/2, y0 + h/2, black},
		{"outside cell", x0 - 1, y0 + h/2, white},
	}
	for _, c := range checks {
		if got := hal.PixelAt(fb, c.x, c.y); got != c.want {
			t.Fatalf("%s (%d,%d): got %#04x, want %#04x", c.name, c.x, c.y, got, c.want)
		}
	}
}

func TestDrawCharacterStaysInCell(t *testing.T) {
	fb, s := newTestSurface(t, 144, 168)
	w, h := s.CellSize()
	row, col := 1, 4

	s.DrawCharacter('8', Dark, row, col)

	inside := 0
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			if hal.PixelAt(fb, x, y) != black {
				continue
			}
			if x < col*w || x >= (col+1)*w || y < row*h || y >= (row+1)*h {
				t.Fatalf("glyph pixel (%d,%d) outside its cell", x, y)
			}
			inside++
		}
	}
	if inside == 0 {
		t.Fatal("expected glyph pixels")
	}
}

func TestRevealedCellShowsLightGlyphOnDark(t *testing.T) {
	fb, s := newTestSurface(t, 144, 168)
	w, h := s.CellSize()

	s.FillCellBackground(Dark, 0, 0, CornerTopLeft|CornerBottomRight)
	s.DrawCharacter('P', Light, 0, 0)

	var light, dark int
	for y := 2; y < h-2; y++ {
		for x := 2; x < w-2; x++ {
			switch hal.PixelAt(fb, x, y) {
			case white:
				light++
			case black:
				dark++
			}
		}
	}
	if light == 0 || dark == 0 {
		t.Fatalf("expected both glyph and background pixels, got light=%d dark=%d", light, dark)
	}
}

func TestTextSurfaceString(t *testing.T) {
	s := NewTextSurface()
	s.DrawCharacter('#', Dark, 0, 0)
	s.FillCellBackground(Dark, 0, 1, CornerTopLeft|CornerBottomRight)
	s.DrawCharacter('1', Light, 0, 1)
	s.DrawCharacter('x', Dark, NumRows, 0)

	want := " # [1]" + "                     "
	lines := s.String()
	if got := lines[:len(want)]; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := s.Revealed(); got != "1    " {
		t.Fatalf("got %q", got)
	}
}
