package gridface

import (
	"fmt"
	"testing"
	"time"
)

type recordingHost struct {
	dirty  int
	timers []time.Duration
}

func (h *recordingHost) MarkDirty() { h.dirty++ }

func (h *recordingHost) ScheduleTimer(d time.Duration) { h.timers = append(h.timers, d) }

func digitString(d [numPositions]Digit) string {
	var s []rune
	for _, v := range d {
		s = append(s, v.Glyph())
	}
	return string(s)
}

func TestDigitsForHours(t *testing.T) {
	for h := 0; h < 24; h++ {
		got := digitString(DigitsFor(WallTime{Hour: h}))

		wantHour := fmt.Sprintf("%02d", h%12)
		if h%12 == 0 {
			wantHour = "12"
		}
		wantAmPm := "A"
		if h >= 12 {
			wantAmPm = "P"
		}
		if got[:2] != wantHour || got[4:] != wantAmPm {
			t.Fatalf("hour %d: got %q, want hour %q and %q", h, got, wantHour, wantAmPm)
		}
	}
}

func TestDigitsForMinutes(t *testing.T) {
	for m := 0; m < 60; m++ {
		got := digitString(DigitsFor(WallTime{Hour: 9, Minute: m}))
		if want := fmt.Sprintf("%02d", m); got[2:4] != want {
			t.Fatalf("minute %d: got %q, want %q", m, got[2:4], want)
		}
	}
}

func TestDigitsForScenarios(t *testing.T) {
	tests := []struct {
		in   WallTime
		want [numPositions]Digit
	}{
		{in: WallTime{Hour: 0, Minute: 5}, want: [numPositions]Digit{1, 2, 0, 5, DigitA}},
		{in: WallTime{Hour: 13, Minute: 45}, want: [numPositions]Digit{0, 1, 4, 5, DigitP}},
		{in: WallTime{Hour: 12, Minute: 0}, want: [numPositions]Digit{1, 2, 0, 0, DigitP}},
		{in: WallTime{Hour: 23, Minute: 59}, want: [numPositions]Digit{1, 1, 5, 9, DigitP}},
	}
	for _, tt := range tests {
		if got := DigitsFor(tt.in); got != tt.want {
			t.Fatalf("%+v: got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOnMinuteTickResetsAndSchedules(t *testing.T) {
	a := NewAnimator(1)
	h := &recordingHost{}

	a.OnMinuteTick(h, WallTime{Hour: 0, Minute: 5})

	if a.Step() != 0 {
		t.Fatalf("expected step 0, got %d", a.Step())
	}
	if h.dirty != 1 {
		t.Fatalf("expected one dirty mark, got %d", h.dirty)
	}
	if len(h.timers) != 1 || h.timers[0] != AnimationInterval {
		t.Fatalf("expected one %v timer, got %v", AnimationInterval, h.timers)
	}
	for p := Position(0); p < numPositions; p++ {
		if n := a.Cell(p).RevealLength; n < 2 || n > NumCols-1 {
			t.Fatalf("%s: reveal length %d out of range", p, n)
		}
	}
}

func TestRevealLengthCoversRange(t *testing.T) {
	a := NewAnimator(42)
	h := &recordingHost{}
	seen := map[int]int{}
	for i := 0; i < 500; i++ {
		a.OnMinuteTick(h, WallTime{Hour: i % 24, Minute: i % 60})
		for p := Position(0); p < numPositions; p++ {
			seen[a.Cell(p).RevealLength]++
		}
	}
	for n := 2; n <= NumCols-1; n++ {
		if seen[n] == 0 {
			t.Fatalf("reveal length %d never drawn: %v", n, seen)
		}
	}
	if len(seen) != NumCols-2 {
		t.Fatalf("unexpected reveal lengths: %v", seen)
	}
}

func TestAnimationSelfTerminates(t *testing.T) {
	a := NewAnimator(7)
	h := &recordingHost{}
	a.OnMinuteTick(h, WallTime{Hour: 0, Minute: 5})

	ticks := 0
	prev := a.Step()
	for len(h.timers) > 0 {
		h.timers = h.timers[1:]
		a.OnAnimationTick(h)
		ticks++
		if a.Step() != prev+1 {
			t.Fatalf("tick %d: step went from %d to %d", ticks, prev, a.Step())
		}
		prev = a.Step()
		if ticks > NumCols {
			t.Fatal("animation did not terminate")
		}
	}
	if ticks != NumCols-1 || a.Step() != MaxStep {
		t.Fatalf("expected %d ticks ending at step %d, got %d ticks at step %d", NumCols-1, MaxStep, ticks, a.Step())
	}

	dirty := h.dirty
	a.OnAnimationTick(h)
	if a.Step() != MaxStep || h.dirty != dirty || len(h.timers) != 0 {
		t.Fatal("stale tick after completion must be a no-op")
	}
}

func TestMinuteTickRestartsCompletedCycle(t *testing.T) {
	a := NewAnimator(3)
	h := &recordingHost{}
	a.OnMinuteTick(h, WallTime{Hour: 1, Minute: 2})
	for i := 0; i < MaxStep; i++ {
		a.OnAnimationTick(h)
	}
	if a.Step() != MaxStep {
		t.Fatalf("expected saturated step, got %d", a.Step())
	}

	a.OnMinuteTick(h, WallTime{Hour: 1, Minute: 3})
	if a.Step() != 0 {
		t.Fatalf("expected step reset, got %d", a.Step())
	}
}

func TestAllGlyphsRevealedAfterSevenTicks(t *testing.T) {
	for seed := uint32(1); seed < 200; seed++ {
		a := NewAnimator(seed)
		h := &recordingHost{}
		a.OnMinuteTick(h, WallTime{Hour: 0, Minute: 5})
		for i := 0; i < NumCols-2; i++ {
			a.OnAnimationTick(h)
		}
		if a.Step() != NumCols-2 {
			t.Fatalf("seed %d: expected step %d, got %d", seed, NumCols-2, a.Step())
		}
		if !a.Done() {
			t.Fatalf("seed %d: expected every glyph visible", seed)
		}

		s := NewTextSurface()
		a.Render(s)
		if got := s.Revealed(); got != "1205A" {
			t.Fatalf("seed %d: revealed %q", seed, got)
		}
	}
}

func TestRenderDrawsRevealWindow(t *testing.T) {
	a := NewAnimator(99)
	h := &recordingHost{}
	a.OnMinuteTick(h, WallTime{Hour: 13, Minute: 45})

	for step := 0; step <= MaxStep; step++ {
		s := NewTextSurface()
		a.Render(s)

		for row := 0; row < NumRows; row++ {
			c := a.Cell(Position(row))
			cols := c.RevealLength
			if step+1 < cols {
				cols = step + 1
			}
			for col := 0; col < NumCols; col++ {
				ch := s.Chars[row][col]
				switch {
				case col >= cols:
					if ch != ' ' || s.Filled[row][col] {
						t.Fatalf("step %d row %d col %d: expected blank, got %q", step, row, col, ch)
					}
				case col < c.RevealLength-1:
					if ch < 33 || ch > 126 || s.Filled[row][col] || s.Colors[row][col] != Dark {
						t.Fatalf("step %d row %d col %d: bad noise %q", step, row, col, ch)
					}
				default:
					if !s.Filled[row][col] || ch != c.Digit.Glyph() || s.Colors[row][col] != Light {
						t.Fatalf("step %d row %d col %d: expected revealed %q, got %q", step, row, col, c.Digit.Glyph(), ch)
					}
				}
			}
		}
		a.OnAnimationTick(h)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	a := NewAnimator(5)
	h := &recordingHost{}
	a.OnMinuteTick(h, WallTime{Hour: 8, Minute: 30})
	a.OnAnimationTick(h)
	a.OnAnimationTick(h)

	first := NewTextSurface()
	second := NewTextSurface()
	a.Render(first)
	a.Render(second)
	if *first != *second {
		t.Fatalf("render differs:\n%s\n---\n%s", first, second)
	}
	if a.Step() != 2 {
		t.Fatalf("render changed step to %d", a.Step())
	}
}

func TestIdleAnimatorRendersNothing(t *testing.T) {
	s := NewTextSurface()
	NewAnimator(1).Render(s)
	if *s != *NewTextSurface() {
		t.Fatalf("expected blank grid, got:\n%s", s)
	}
}

func TestNoiseGlyphRange(t *testing.T) {
	for step := 0; step <= MaxStep; step++ {
		for row := 0; row < NumRows; row++ {
			for col := 0; col < NumCols; col++ {
				g := noiseGlyph(0xdeadbeef, step, row, col)
				if g < 33 || g > 126 {
					t.Fatalf("glyph %d out of printable range", g)
				}
			}
		}
	}
}
