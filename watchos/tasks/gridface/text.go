package gridface

import "strings"

// TextSurface records a frame as characters, for logs, tests and the
// snapshot tool.
type TextSurface struct {
	Chars  [NumRows][NumCols]rune
	Colors [NumRows][NumCols]Color
	Filled [NumRows][NumCols]bool
}

func NewTextSurface() *TextSurface {
	s := &TextSurface{}
	s.Reset()
	return s
}

// Reset blanks every cell.
func (s *TextSurface) Reset() {
	for r := range s.Chars {
		for c := range s.Chars[r] {
			s.Chars[r][c] = ' '
			s.Colors[r][c] = Dark
			s.Filled[r][c] = false
		}
	}
}

func (s *TextSurface) DrawCharacter(glyph rune, c Color, row, col int) {
	if !inGrid(row, col) {
		return
	}
	s.Chars[row][col] = glyph
	s.Colors[row][col] = c
}

func (s *TextSurface) FillCellBackground(_ Color, row, col int, _ Corner) {
	if !inGrid(row, col) {
		return
	}
	s.Filled[row][col] = true
}

// Revealed returns the real glyph of each row, or ' ' where it is not shown yet.
func (s *TextSurface) Revealed() string {
	var b strings.Builder
	for r := range s.Chars {
		ch := ' '
		for c := range s.Chars[r] {
			if s.Filled[r][c] {
				ch = s.Chars[r][c]
				break
			}
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// String renders the grid one row per line; revealed cells are bracketed.
func (s *TextSurface) String() string {
	var b strings.Builder
	for r := range s.Chars {
		for c := range s.Chars[r] {
			if s.Filled[r][c] {
				b.WriteByte('[')
				b.WriteRune(s.Chars[r][c])
				b.WriteByte(']')
				continue
			}
			b.WriteByte(' ')
			b.WriteRune(s.Chars[r][c])
			b.WriteByte(' ')
		}
		if r < NumRows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func inGrid(row, col int) bool {
	return row >= 0 && row < NumRows && col >= 0 && col < NumCols
}
