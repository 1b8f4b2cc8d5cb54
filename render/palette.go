// Copyright © 2025 termsnap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/palette.go
// Summary: 256-color palette plus default fg/bg slots, and resolution
//          of tagged parser colors to concrete RGB.

package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/termsnap/parser"
)

// Palette slots 0-255 are the indexed colors; 256 and 257 hold the
// default foreground and background. The defaults are a fixed
// convention for cross-platform comparability, not a terminal standard.
const (
	slotForeground = 256
	slotBackground = 257
)

var palette = newDefaultPalette()

func newDefaultPalette() [258]tcell.Color {
	var p [258]tcell.Color

	// The 16 ANSI colors, matching the common VS Code terminal theme so
	// captures agree with what developers see on every platform.
	p[0] = tcell.NewRGBColor(0, 0, 0)        // Black
	p[1] = tcell.NewRGBColor(205, 49, 49)    // Red
	p[2] = tcell.NewRGBColor(13, 188, 121)   // Green
	p[3] = tcell.NewRGBColor(229, 229, 16)   // Yellow
	p[4] = tcell.NewRGBColor(36, 114, 200)   // Blue
	p[5] = tcell.NewRGBColor(188, 63, 188)   // Magenta
	p[6] = tcell.NewRGBColor(17, 168, 205)   // Cyan
	p[7] = tcell.NewRGBColor(229, 229, 229)  // White
	p[8] = tcell.NewRGBColor(102, 102, 102)  // Bright Black
	p[9] = tcell.NewRGBColor(241, 76, 76)    // Bright Red
	p[10] = tcell.NewRGBColor(35, 209, 139)  // Bright Green
	p[11] = tcell.NewRGBColor(245, 245, 67)  // Bright Yellow
	p[12] = tcell.NewRGBColor(59, 142, 234)  // Bright Blue
	p[13] = tcell.NewRGBColor(214, 112, 214) // Bright Magenta
	p[14] = tcell.NewRGBColor(41, 184, 219)  // Bright Cyan
	p[15] = tcell.NewRGBColor(255, 255, 255) // Bright White

	// 6x6x6 color cube (16-231): component 0 is 0, otherwise 55 + c*40.
	levels := []int32{0, 95, 135, 175, 215, 255}
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p[i] = tcell.NewRGBColor(levels[r], levels[g], levels[b])
				i++
			}
		}
	}

	// Grayscale ramp (232-255).
	for j := 0; j < 24; j++ {
		gray := int32(8 + j*10)
		p[i] = tcell.NewRGBColor(gray, gray, gray)
		i++
	}

	p[slotForeground] = tcell.NewRGBColor(240, 240, 240)
	p[slotBackground] = tcell.NewRGBColor(0, 0, 0)
	return p
}

// IndexedToRGB resolves one of the 256 indexed terminal colors.
func IndexedToRGB(idx uint8) (uint8, uint8, uint8) {
	return rgb(palette[idx])
}

// Resolve maps a tagged parser color to concrete RGB. Indexed and
// default colors go through the palette; RGB colors pass through.
// fg selects which default slot applies.
func Resolve(c parser.Color, fg bool) (uint8, uint8, uint8) {
	switch c.Mode {
	case parser.ColorModeRGB:
		return c.R, c.G, c.B
	case parser.ColorModeStandard, parser.ColorMode256:
		return rgb(palette[c.Value])
	default:
		if fg {
			return rgb(palette[slotForeground])
		}
		return rgb(palette[slotBackground])
	}
}

func rgb(c tcell.Color) (uint8, uint8, uint8) {
	r, g, b := c.RGB()
	return uint8(r), uint8(g), uint8(b)
}
