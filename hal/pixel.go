package hal

import "image"

// RGB565 packs an 8-bit-per-channel color into a 16bpp pixel.
func RGB565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

// RGB888From565 expands a 16bpp pixel back to 8 bits per channel.
func RGB888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// PixelAt returns the RGB565 pixel at (x, y), or 0 when out of range.
func PixelAt(fb Framebuffer, x, y int) uint16 {
	if fb == nil || fb.Format() != PixelFormatRGB565 {
		return 0
	}
	buf := fb.Buffer()
	if x < 0 || x >= fb.Width() || y < 0 || y >= fb.Height() {
		return 0
	}
	off := y*fb.StrideBytes() + x*2
	if off < 0 || off+1 >= len(buf) {
		return 0
	}
	return uint16(buf[off]) | uint16(buf[off+1])<<8
}

func fillRGB565(buf []byte, pixel uint16) {
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i] = lo
		buf[i+1] = hi
	}
}

// ToRGBA expands little-endian RGB565 pixels into dst, which must match the
// framebuffer dimensions.
func ToRGBA(src []byte, dst *image.RGBA) {
	pix := dst.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(pix); i += 2 {
		r, g, b := RGB888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		pix[j+0] = r
		pix[j+1] = g
		pix[j+2] = b
		pix[j+3] = 0xFF
	}
}
