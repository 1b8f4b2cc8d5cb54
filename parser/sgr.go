// Copyright © 2025 termsnap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/sgr.go
// Summary: SGR (Select Graphic Rendition) - text attributes and colors.

package parser

// handleSGR processes SGR escape sequences: text attributes (bold,
// italic, underline, inverse) and colors (standard, 256-color, RGB).
func (s *Screen) handleSGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	i := 0
	for i < len(params) {
		p := params[i]
		switch {
		case p == 0:
			s.resetAttributes()
		case p == 1:
			s.curAttr |= AttrBold
		case p == 3:
			s.curAttr |= AttrItalic
		case p == 4:
			s.curAttr |= AttrUnderline
		case p == 7:
			s.curAttr |= AttrReverse
		case p == 22:
			s.curAttr &^= AttrBold
		case p == 23:
			s.curAttr &^= AttrItalic
		case p == 24:
			s.curAttr &^= AttrUnderline
		case p == 27:
			s.curAttr &^= AttrReverse
		case p == 21, p == 25, p == 26:
			// Double underline, blink off, proportional spacing: accepted
			// so the rest of the sequence still applies, but not tracked.
		case p >= 30 && p <= 37:
			s.curFG = Color{Mode: ColorModeStandard, Value: uint8(p - 30)}
		case p == 39:
			s.curFG = DefaultFG
		case p >= 40 && p <= 47:
			s.curBG = Color{Mode: ColorModeStandard, Value: uint8(p - 40)}
		case p == 49:
			s.curBG = DefaultBG
		case p == 38: // Set extended foreground color
			if c, skip, ok := extendedColor(params[i+1:]); ok {
				s.curFG = c
				i += skip
			}
		case p == 48: // Set extended background color
			if c, skip, ok := extendedColor(params[i+1:]); ok {
				s.curBG = c
				i += skip
			}
		case p >= 90 && p <= 97: // Bright foreground
			s.curFG = Color{Mode: ColorModeStandard, Value: uint8(p - 90 + 8)}
		case p >= 100 && p <= 107: // Bright background
			s.curBG = Color{Mode: ColorModeStandard, Value: uint8(p - 100 + 8)}
		}
		i++
	}
}

// extendedColor decodes the 5;n (256-color) and 2;r;g;b (true color)
// forms that follow SGR 38/48. Returns the color, how many parameters
// were consumed, and whether the form was well-formed.
func extendedColor(rest []int) (Color, int, bool) {
	if len(rest) >= 2 && rest[0] == 5 {
		return Color{Mode: ColorMode256, Value: uint8(rest[1])}, 2, true
	}
	if len(rest) >= 4 && rest[0] == 2 {
		return Color{
			Mode: ColorModeRGB,
			R:    uint8(rest[1]),
			G:    uint8(rest[2]),
			B:    uint8(rest[3]),
		}, 4, true
	}
	return Color{}, 0, false
}

func (s *Screen) resetAttributes() {
	s.curFG = DefaultFG
	s.curBG = DefaultBG
	s.curAttr = 0
}
