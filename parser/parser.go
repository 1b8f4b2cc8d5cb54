// Copyright © 2025 termsnap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/parser.go
// Summary: Byte-level ANSI/VT escape parser driving a Screen.
// Notes: Total over arbitrary input; malformed sequences are dropped
//        silently and parsing continues with the next byte.

package parser

import "unicode/utf8"

// State identifies what kind of sequence the parser is collecting.
type State int

const (
	StateGround State = iota
	StateEscape
	StateCSI
	StateOSC
	StateOSCEscape
)

// maxParams caps CSI parameter accumulation. A sequence that overflows
// the cap is discarded at dispatch.
const maxParams = 16

// Parser consumes a byte stream and mutates its Screen. It never fails:
// any byte sequence, however malformed, leaves it in a parseable state.
type Parser struct {
	screen *Screen
	state  State

	params        []int
	currentParam  int
	paramOverflow bool
	private       bool

	utf8Buf  []byte
	utf8Need int
}

// NewParser creates a parser bound to the given screen.
func NewParser(screen *Screen) *Parser {
	return &Parser{
		screen: screen,
		state:  StateGround,
		params: make([]int, 0, maxParams),
	}
}

// Screen returns the screen this parser mutates.
func (p *Parser) Screen() *Screen { return p.screen }

// Parse processes a slice of captured bytes.
func (p *Parser) Parse(data []byte) {
	for _, b := range data {
		p.processByte(b)
	}
}

// ParseString processes a string. Convenience for tests.
func (p *Parser) ParseString(data string) {
	p.Parse([]byte(data))
}

func (p *Parser) processByte(b byte) {
	// UTF-8 continuation handling only matters in ground state; a
	// multi-byte rune split across chunks must still come out whole.
	if p.utf8Need > 0 {
		if b&0xC0 == 0x80 {
			p.utf8Buf = append(p.utf8Buf, b)
			p.utf8Need--
			if p.utf8Need == 0 {
				r, _ := utf8.DecodeRune(p.utf8Buf)
				if r != utf8.RuneError {
					p.screen.placeChar(r)
				}
				p.utf8Buf = p.utf8Buf[:0]
			}
			return
		}
		// Invalid continuation: drop the partial rune, reprocess b.
		p.utf8Buf = p.utf8Buf[:0]
		p.utf8Need = 0
	}

	switch p.state {
	case StateGround:
		p.processGround(b)
	case StateEscape:
		p.processEscape(b)
	case StateCSI:
		p.processCSI(b)
	case StateOSC:
		// Stripped upstream for captured output, but tolerated here with
		// the same skip rule so unfiltered input cannot wedge the parser.
		if b == 0x07 {
			p.state = StateGround
		} else if b == 0x1b {
			p.state = StateOSCEscape
		}
	case StateOSCEscape:
		switch b {
		case '\\':
			p.state = StateGround
		case 0x1b:
			// Still waiting for the terminator's backslash.
		default:
			p.state = StateOSC
		}
	}
}

func (p *Parser) processGround(b byte) {
	switch b {
	case 0x1b:
		p.state = StateEscape
	case '\n':
		p.screen.lineFeed()
	case '\r':
		p.screen.carriageReturn()
	case '\b':
		p.screen.backspace()
	case '\t':
		p.screen.tab()
	default:
		switch {
		case b >= 0x20 && b < 0x7f:
			p.screen.placeChar(rune(b))
		case b&0xE0 == 0xC0:
			p.utf8Buf = append(p.utf8Buf[:0], b)
			p.utf8Need = 1
		case b&0xF0 == 0xE0:
			p.utf8Buf = append(p.utf8Buf[:0], b)
			p.utf8Need = 2
		case b&0xF8 == 0xF0:
			p.utf8Buf = append(p.utf8Buf[:0], b)
			p.utf8Need = 3
		}
		// Remaining C0 bytes and stray continuation bytes are ignored.
	}
}

func (p *Parser) processEscape(b byte) {
	switch b {
	case '[':
		p.state = StateCSI
		p.params = p.params[:0]
		p.currentParam = 0
		p.paramOverflow = false
		p.private = false
	case ']':
		p.state = StateOSC
	case 'c':
		p.screen.reset()
		p.state = StateGround
	case 'M':
		p.screen.reverseIndex()
		p.state = StateGround
	case '7':
		p.screen.saveCursor()
		p.state = StateGround
	case '8':
		p.screen.restoreCursor()
		p.state = StateGround
	case 'D':
		p.screen.lineFeed()
		p.state = StateGround
	case 'E':
		p.screen.lineFeed()
		p.screen.carriageReturn()
		p.state = StateGround
	case '=', '>':
		// Keypad modes: no effect on the grid.
		p.state = StateGround
	default:
		// Unrecognized single-character escape: drop it.
		p.state = StateGround
	}
}

func (p *Parser) processCSI(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.currentParam = p.currentParam*10 + int(b-'0')
		if p.currentParam > 0xFFFF {
			p.currentParam = 0xFFFF
		}
	case b == ';' || b == ':':
		p.pushParam()
	case b >= '<' && b <= '?':
		p.private = true
	case b >= ' ' && b <= '/':
		// Intermediate bytes select sequences this emulator does not
		// implement; keep collecting so the final byte is consumed.
	case b >= '@' && b <= '~':
		p.pushParam()
		if !p.paramOverflow {
			p.screen.processCSI(b, p.params, p.private)
		}
		p.state = StateGround
	default:
		// C0 or otherwise malformed inside CSI: abandon the sequence.
		p.state = StateGround
	}
}

func (p *Parser) pushParam() {
	if len(p.params) >= maxParams {
		p.paramOverflow = true
	} else {
		p.params = append(p.params, p.currentParam)
	}
	p.currentParam = 0
}
