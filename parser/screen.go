// Copyright © 2025 termsnap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/screen.go
// Summary: Fixed-size terminal grid with cursor, wrap, scroll, and erase logic.
// Usage: Mutated only by the Parser; read by the renderers after a run.

package parser

import (
	"github.com/mattn/go-runewidth"
)

// Screen holds the visible terminal state: a rows x cols grid of cells,
// the cursor, and the style applied to the next written character.
// There is no scrollback; lines pushed off the top are gone.
type Screen struct {
	rows, cols       int
	grid             [][]Cell
	cursorX, cursorY int
	savedX, savedY   int
	curFG, curBG     Color
	curAttr          Attribute
	wrapNext         bool
}

// NewScreen creates a screen of the given size with every cell blank.
func NewScreen(rows, cols int) *Screen {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	s := &Screen{
		rows:  rows,
		cols:  cols,
		curFG: DefaultFG,
		curBG: DefaultBG,
	}
	s.grid = make([][]Cell, rows)
	for y := range s.grid {
		s.grid[y] = blankLine(cols)
	}
	return s
}

func blankLine(cols int) []Cell {
	line := make([]Cell, cols)
	for x := range line {
		line[x] = blankCell()
	}
	return line
}

// Rows returns the screen height in cells.
func (s *Screen) Rows() int { return s.rows }

// Cols returns the screen width in cells.
func (s *Screen) Cols() int { return s.cols }

// Cell returns the cell at the given position. Out-of-range positions
// return a blank cell so callers never see a missing grid entry.
func (s *Screen) Cell(row, col int) Cell {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return blankCell()
	}
	return s.grid[row][col]
}

// Cursor returns the current cursor position as (row, col).
func (s *Screen) Cursor() (int, int) { return s.cursorY, s.cursorX }

// Line returns one row as a string, one rune per cell, without trailing
// trim. Wide-character spacer cells read as a space.
func (s *Screen) Line(row int) string {
	if row < 0 || row >= s.rows {
		return ""
	}
	buf := make([]rune, 0, s.cols)
	for x := 0; x < s.cols; x++ {
		c := s.grid[row][x]
		if c.Spacer {
			buf = append(buf, ' ')
			continue
		}
		buf = append(buf, c.Rune)
	}
	return string(buf)
}

// placeChar puts a rune at the current cursor position with the active
// style, handling deferred wrap and wide characters.
func (s *Screen) placeChar(r rune) {
	width := runewidth.RuneWidth(r)
	if width == 0 {
		// Combining marks and other zero-width runes are not representable
		// in a fixed cell grid; drop them.
		return
	}

	if s.wrapNext || (width == 2 && s.cursorX+width > s.cols) {
		s.cursorX = 0
		s.lineFeed()
		s.wrapNext = false
	}

	cell := Cell{
		Rune: r,
		FG:   s.curFG,
		BG:   s.curBG,
		Attr: s.curAttr,
		Wide: width == 2,
	}
	s.grid[s.cursorY][s.cursorX] = cell

	if width == 2 && s.cursorX+1 < s.cols {
		s.grid[s.cursorY][s.cursorX+1] = Cell{
			Rune:   ' ',
			FG:     s.curFG,
			BG:     s.curBG,
			Attr:   s.curAttr,
			Spacer: true,
		}
	}

	s.cursorX += width
	if s.cursorX >= s.cols {
		s.cursorX = s.cols - 1
		s.wrapNext = true
	}
}

// lineFeed moves the cursor down one row, scrolling when on the last row.
func (s *Screen) lineFeed() {
	if s.cursorY == s.rows-1 {
		s.scrollUp()
	} else {
		s.cursorY++
	}
}

// carriageReturn moves the cursor to column 0.
func (s *Screen) carriageReturn() {
	s.cursorX = 0
	s.wrapNext = false
}

// backspace moves the cursor one column left, stopping at column 0.
func (s *Screen) backspace() {
	if s.wrapNext {
		s.wrapNext = false
		return
	}
	if s.cursorX > 0 {
		s.cursorX--
	}
}

// tab advances the cursor to the next 8-column tab stop.
func (s *Screen) tab() {
	next := (s.cursorX/8 + 1) * 8
	if next >= s.cols {
		next = s.cols - 1
	}
	s.cursorX = next
	s.wrapNext = false
}

// reverseIndex moves the cursor up one row, scrolling down at the top.
func (s *Screen) reverseIndex() {
	if s.cursorY == 0 {
		s.scrollDown()
	} else {
		s.cursorY--
	}
}

// scrollUp discards the top row and appends a blank row at the bottom.
func (s *Screen) scrollUp() {
	copy(s.grid, s.grid[1:])
	s.grid[s.rows-1] = blankLine(s.cols)
}

// scrollDown discards the bottom row and inserts a blank row at the top.
func (s *Screen) scrollDown() {
	copy(s.grid[1:], s.grid[:s.rows-1])
	s.grid[0] = blankLine(s.cols)
}

// reset restores the power-on state: blank grid, home cursor, default style.
func (s *Screen) reset() {
	for y := range s.grid {
		s.grid[y] = blankLine(s.cols)
	}
	s.cursorX, s.cursorY = 0, 0
	s.savedX, s.savedY = 0, 0
	s.curFG, s.curBG = DefaultFG, DefaultBG
	s.curAttr = 0
	s.wrapNext = false
}

func (s *Screen) saveCursor() {
	s.savedX, s.savedY = s.cursorX, s.cursorY
}

func (s *Screen) restoreCursor() {
	s.cursorX, s.cursorY = s.savedX, s.savedY
	s.clampCursor()
	s.wrapNext = false
}

func (s *Screen) clampCursor() {
	if s.cursorX < 0 {
		s.cursorX = 0
	}
	if s.cursorX >= s.cols {
		s.cursorX = s.cols - 1
	}
	if s.cursorY < 0 {
		s.cursorY = 0
	}
	if s.cursorY >= s.rows {
		s.cursorY = s.rows - 1
	}
}

// processCSI interprets a parsed CSI sequence. Unknown finals fall
// through silently; the stream must keep parsing whatever follows.
func (s *Screen) processCSI(final byte, params []int, private bool) {
	if private {
		// DECSET/DECRESET and friends. None of the private modes change
		// what a one-shot capture renders, so they are accepted and ignored.
		return
	}

	param := func(i, def int) int {
		if i < len(params) && params[i] != 0 {
			return params[i]
		}
		return def
	}

	switch final {
	case 'A':
		s.cursorY -= param(0, 1)
	case 'B':
		s.cursorY += param(0, 1)
	case 'C':
		s.cursorX += param(0, 1)
	case 'D':
		s.cursorX -= param(0, 1)
	case 'E':
		s.cursorY += param(0, 1)
		s.cursorX = 0
	case 'F':
		s.cursorY -= param(0, 1)
		s.cursorX = 0
	case 'G':
		s.cursorX = param(0, 1) - 1
	case 'H', 'f':
		s.cursorY = param(0, 1) - 1
		s.cursorX = param(1, 1) - 1
	case 'd':
		s.cursorY = param(0, 1) - 1
	case 'J':
		s.eraseInDisplay(firstParam(params))
	case 'K':
		s.eraseInLine(firstParam(params))
	case 'm':
		s.handleSGR(params)
	case 's':
		s.saveCursor()
	case 'u':
		s.restoreCursor()
	case 'h', 'l':
		// ANSI set/reset mode: nothing here affects the final grid.
	}
	s.clampCursor()
	s.wrapNext = false
}

func firstParam(params []int) int {
	if len(params) > 0 {
		return params[0]
	}
	return 0
}

// eraseInDisplay clears part of the screen: 0 cursor to end, 1 start to
// cursor, 2 (and the xterm 3 variant) the whole screen.
func (s *Screen) eraseInDisplay(mode int) {
	switch mode {
	case 0:
		s.eraseInLine(0)
		for y := s.cursorY + 1; y < s.rows; y++ {
			s.grid[y] = blankLine(s.cols)
		}
	case 1:
		s.eraseInLine(1)
		for y := 0; y < s.cursorY; y++ {
			s.grid[y] = blankLine(s.cols)
		}
	case 2, 3:
		for y := range s.grid {
			s.grid[y] = blankLine(s.cols)
		}
	}
}

// eraseInLine clears part of the cursor row: 0 cursor to end, 1 start to
// cursor, 2 the whole row.
func (s *Screen) eraseInLine(mode int) {
	switch mode {
	case 0:
		for x := s.cursorX; x < s.cols; x++ {
			s.grid[s.cursorY][x] = blankCell()
		}
	case 1:
		for x := 0; x <= s.cursorX && x < s.cols; x++ {
			s.grid[s.cursorY][x] = blankCell()
		}
	case 2:
		s.grid[s.cursorY] = blankLine(s.cols)
	}
}
