// Copyright © 2025 termsnap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/testharness.go
// Summary: Test harness for control sequence testing.
// Usage: Used by test files to send sequences and verify screen state.

package parser

// TestHarness provides utilities for testing parser control sequences.
type TestHarness struct {
	screen *Screen
	parser *Parser
}

// NewTestHarness creates a new test harness with the specified size.
func NewTestHarness(rows, cols int) *TestHarness {
	screen := NewScreen(rows, cols)
	return &TestHarness{
		screen: screen,
		parser: NewParser(screen),
	}
}

// SendSeq sends a byte sequence to the parser.
// Example: h.SendSeq("\x1b[5A") sends "cursor up 5".
func (h *TestHarness) SendSeq(seq string) {
	h.parser.ParseString(seq)
}

// GetCell returns the cell at the specified (row, col) position.
func (h *TestHarness) GetCell(row, col int) Cell {
	return h.screen.Cell(row, col)
}

// GetCursor returns the current cursor position as (row, col).
func (h *TestHarness) GetCursor() (int, int) {
	return h.screen.Cursor()
}

// GetCurrentAttr returns the active text attributes.
func (h *TestHarness) GetCurrentAttr() Attribute {
	return h.screen.curAttr
}

// Line returns the text content of one row without trailing trim.
func (h *TestHarness) Line(row int) string {
	return h.screen.Line(row)
}

// ParserState returns the parser's current state, for transition tests.
func (h *TestHarness) ParserState() State {
	return h.parser.state
}
