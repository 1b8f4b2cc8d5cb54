// Copyright © 2025 termsnap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/render.go
// Summary: Hex and text encodings of a final screen state.
// Notes: The hex layout is a wire contract consumed by test suites;
//        changing cell width or field order breaks stored fixtures.

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/framegrace/termsnap/parser"
)

// Attribute bits of the hex encoding's trailing byte.
const (
	hexAttrBold      = 0x01
	hexAttrItalic    = 0x02
	hexAttrUnderline = 0x04
	hexAttrInverse   = 0x08
)

// Hex writes every cell in row-major order as exactly 22 uppercase hex
// characters: 8 for the codepoint, 6 for foreground RGB, 6 for
// background RGB, 2 for the attribute bits. No separators, so the total
// length is rows*cols*22.
func Hex(w io.Writer, screen *parser.Screen) error {
	for row := 0; row < screen.Rows(); row++ {
		for col := 0; col < screen.Cols(); col++ {
			cell := screen.Cell(row, col)

			ch := cell.Rune
			if cell.Spacer || ch == 0 {
				ch = ' '
			}

			fr, fg, fb := Resolve(cell.FG, true)
			br, bg, bb := Resolve(cell.BG, false)

			var attrs uint8
			if cell.Attr&parser.AttrBold != 0 {
				attrs |= hexAttrBold
			}
			if cell.Attr&parser.AttrItalic != 0 {
				attrs |= hexAttrItalic
			}
			if cell.Attr&parser.AttrUnderline != 0 {
				attrs |= hexAttrUnderline
			}
			if cell.Attr&parser.AttrReverse != 0 {
				attrs |= hexAttrInverse
			}

			_, err := fmt.Fprintf(w, "%08X%02X%02X%02X%02X%02X%02X%02X",
				ch, fr, fg, fb, br, bg, bb, attrs)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Text writes one line per row: one character per cell with trailing
// whitespace trimmed. Wide-character spacers count as cells and render
// as a space, keeping the output length tied to the grid, not to the
// visual width of its contents.
func Text(w io.Writer, screen *parser.Screen) error {
	var line strings.Builder
	for row := 0; row < screen.Rows(); row++ {
		line.Reset()
		for col := 0; col < screen.Cols(); col++ {
			cell := screen.Cell(row, col)
			ch := cell.Rune
			if cell.Spacer || ch == 0 {
				ch = ' '
			}
			line.WriteRune(ch)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " \t")); err != nil {
			return err
		}
	}
	return nil
}
