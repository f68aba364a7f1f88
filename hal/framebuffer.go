package hal

import "sync"

// MemFramebuffer is an in-memory RGB565 framebuffer.
//
// One goroutine draws into Buffer; Present invokes an optional flush hook and
// publishes the frame to Snapshot readers, so a reader never sees a frame
// that is still being drawn.
type MemFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte

	// front holds the last presented frame.
	front []byte

	flush func(buf []byte) error
}

// NewMemFramebuffer allocates a width x height RGB565 framebuffer.
func NewMemFramebuffer(width, height int) *MemFramebuffer {
	stride := width * 2
	return &MemFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
		front:  make([]byte, stride*height),
	}
}

func (f *MemFramebuffer) Width() int          { return f.width }
func (f *MemFramebuffer) Height() int         { return f.height }
func (f *MemFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *MemFramebuffer) StrideBytes() int    { return f.stride }
func (f *MemFramebuffer) Buffer() []byte      { return f.buf }

func (f *MemFramebuffer) ClearRGB(r, g, b uint8) {
	fillRGB565(f.buf, RGB565(r, g, b))
}

func (f *MemFramebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(f.front, f.buf)
	if f.flush == nil {
		return nil
	}
	return f.flush(f.buf)
}

// Snapshot copies the last presented frame into dst.
func (f *MemFramebuffer) Snapshot(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.front)
}
