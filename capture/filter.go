// Copyright © 2025 termsnap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: capture/filter.go
// Summary: Byte-stream transforms that make captures comparable across
//          platforms: CRLF normalization and OSC stripping.

package capture

// NormalizeLineEndings converts every lone \n to \r\n. Existing \r\n
// pairs and lone \r bytes pass through unchanged, which makes the
// transform idempotent. Applied to scripted input before it is written
// to the PTY so line-oriented children behave the same everywhere.
func NormalizeLineEndings(data []byte) []byte {
	result := make([]byte, 0, len(data))
	for i := 0; i < len(data); {
		switch {
		case data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n':
			result = append(result, '\r', '\n')
			i += 2
		case data[i] == '\n':
			result = append(result, '\r', '\n')
			i++
		default:
			result = append(result, data[i])
			i++
		}
	}
	return result
}

// FilterOSC removes OSC (Operating System Command) sequences from
// captured output. An OSC span starts with ESC ] and ends with BEL or
// ESC \, terminator included. Window-title chatter lives here and
// differs between platforms, so it must not reach the emulator when
// captures are compared byte for byte. An unterminated span at end of
// input is dropped whole; that is not an error.
func FilterOSC(data []byte) []byte {
	result := make([]byte, 0, len(data))
	for i := 0; i < len(data); {
		if data[i] == 0x1b && i+1 < len(data) && data[i+1] == ']' {
			i += 2
			for i < len(data) {
				if data[i] == 0x07 {
					i++
					break
				}
				if data[i] == 0x1b && i+1 < len(data) && data[i+1] == '\\' {
					i += 2
					break
				}
				i++
			}
			continue
		}
		result = append(result, data[i])
		i++
	}
	return result
}
