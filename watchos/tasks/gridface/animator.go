// Package gridface implements the "decrypting" grid watch face: five rows of
// nine character cells where each row's real glyph is revealed after a short
// run of noise columns, replayed once per minute.
package gridface

import "time"

const (
	NumRows = 5
	NumCols = 9

	// AnimationInterval is the delay between animation ticks.
	AnimationInterval = 100 * time.Millisecond

	// MaxStep is the saturated step value; the animation is complete there.
	MaxStep = NumCols - 1

	minReveal = 2
)

// Position names the row a cell owns.
type Position uint8

const (
	HourTens Position = iota
	HourOnes
	MinuteTens
	MinuteOnes
	AmPm

	numPositions
)

func (p Position) String() string {
	switch p {
	case HourTens:
		return "hour_tens"
	case HourOnes:
		return "hour_ones"
	case MinuteTens:
		return "minute_tens"
	case MinuteOnes:
		return "minute_ones"
	case AmPm:
		return "am_pm"
	default:
		return "unknown"
	}
}

// Digit is a cell value: 0-9, or one of the DigitA / DigitP sentinels.
type Digit uint8

const (
	DigitA Digit = 10
	DigitP Digit = 11
)

// Glyph returns the character shown once the cell is revealed.
func (d Digit) Glyph() rune {
	switch {
	case d <= 9:
		return rune('0' + d)
	case d == DigitA:
		return 'A'
	case d == DigitP:
		return 'P'
	default:
		return '?'
	}
}

// Cell is one animated row.
type Cell struct {
	Digit Digit
	// RevealLength is the number of columns drawn for this row; the last of
	// them holds the real glyph. Always in [2, NumCols-1] after a minute tick.
	RevealLength int
}

// WallTime is the part of the wall clock the face shows.
type WallTime struct {
	Hour   int // 0-23
	Minute int // 0-59
}

// Color is one of the two face colors.
type Color uint8

const (
	Dark Color = iota
	Light
)

// Corner is a set of rounded rectangle corners.
type Corner uint8

const (
	CornerTopLeft Corner = 1 << iota
	CornerTopRight
	CornerBottomLeft
	CornerBottomRight

	CornersNone Corner = 0
)

// Host is what the animator needs from the surrounding event loop.
type Host interface {
	// MarkDirty asks for a repaint before the next frame.
	MarkDirty()
	// ScheduleTimer arranges for OnAnimationTick to be called once after d.
	ScheduleTimer(d time.Duration)
}

// Surface is the paint target Render draws on. Rows and columns are grid
// coordinates.
type Surface interface {
	DrawCharacter(glyph rune, c Color, row, col int)
	FillCellBackground(c Color, row, col int, corners Corner)
}

// Animator owns the five cells and the step counter.
//
// It is not safe for concurrent use; the host calls its handlers one at a time.
type Animator struct {
	cells [numPositions]Cell
	step  int

	// noise selects the noise glyphs of the current cycle.
	noise uint32
	rng   uint32
}

// NewAnimator returns an idle animator with empty cells. seed drives the
// reveal lengths and noise glyphs.
func NewAnimator(seed uint32) *Animator {
	return &Animator{step: MaxStep, rng: seed}
}

// Step returns the animation step.
func (a *Animator) Step() int { return a.step }

// Cell returns the cell at p.
func (a *Animator) Cell(p Position) Cell { return a.cells[p] }

// Done reports whether every real glyph is visible.
func (a *Animator) Done() bool {
	for _, c := range a.cells {
		if a.step+1 < c.RevealLength {
			return false
		}
	}
	return true
}

// OnMinuteTick recomputes the digits for t, draws fresh reveal lengths and
// restarts the animation.
func (a *Animator) OnMinuteTick(h Host, t WallTime) {
	for i := range a.cells {
		a.rng = xorshift32(a.rng)
		a.cells[i].RevealLength = int(a.rng%(NumCols-minReveal)) + minReveal
	}

	digits := DigitsFor(t)
	for i := range a.cells {
		a.cells[i].Digit = digits[i]
	}

	a.rng = xorshift32(a.rng)
	a.noise = a.rng
	a.step = 0

	h.MarkDirty()
	h.ScheduleTimer(AnimationInterval)
}

// OnAnimationTick advances the animation by one column.
func (a *Animator) OnAnimationTick(h Host) {
	if a.step < MaxStep {
		a.step++
		h.MarkDirty()
	}
	if a.step < MaxStep {
		h.ScheduleTimer(AnimationInterval)
	}
}

// Render paints the current state. It does not modify the animator, so calling
// it twice without an intervening tick paints the same frame.
func (a *Animator) Render(s Surface) {
	for row, c := range a.cells {
		cols := c.RevealLength
		if a.step+1 < cols {
			cols = a.step + 1
		}
		for col := 0; col < cols; col++ {
			if col < c.RevealLength-1 {
				s.DrawCharacter(noiseGlyph(a.noise, a.step, row, col), Dark, row, col)
				continue
			}
			s.FillCellBackground(Dark, row, col, CornerTopLeft|CornerBottomRight)
			s.DrawCharacter(c.Digit.Glyph(), Light, row, col)
		}
	}
}

// DigitsFor maps a wall time to the five cell values on a 12-hour dial.
func DigitsFor(t WallTime) [numPositions]Digit {
	var d [numPositions]Digit

	h12 := t.Hour % 12
	if h12 == 0 {
		d[HourTens], d[HourOnes] = 1, 2
	} else {
		d[HourTens], d[HourOnes] = Digit(h12/10), Digit(h12%10)
	}
	d[MinuteTens] = Digit(t.Minute / 10)
	d[MinuteOnes] = Digit(t.Minute % 10)

	d[AmPm] = DigitA
	if t.Hour >= 12 {
		d[AmPm] = DigitP
	}
	return d
}

// noiseGlyph picks a printable ASCII character (33-126) for a noise column.
// The same inputs always give the same glyph, and changing step reshuffles
// the whole grid.
func noiseGlyph(seed uint32, step, row, col int) rune {
	x := seed ^ uint32(step)*0x9E3779B1 ^ uint32(row)*0x85EBCA77 ^ uint32(col)*0xC2B2AE3D
	x ^= x >> 16
	x *= 0x7FEB352D
	x ^= x >> 15
	x *= 0x846CA68B
	x ^= x >> 16
	return rune(33 + x%94)
}

func xorshift32(x uint32) uint32 {
	if x == 0 {
		x = 0x6d2b79f5
	}
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return x
}
