// Copyright © 2025 termsnap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: runner/runner.go
// Summary: One capture run end to end: spawn, script input, capture,
//          filter, emulate, render.

package runner

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/framegrace/termsnap/capture"
	"github.com/framegrace/termsnap/parser"
	"github.com/framegrace/termsnap/render"
)

// Output formats.
const (
	FormatHex  = "hex"
	FormatText = "text"
	FormatRaw  = "raw"
)

// Config holds the recognized options for one run. Immutable once built.
type Config struct {
	Executable    string
	Args          []string
	KeyboardInput string // Path to scripted keyboard bytes, optional
	StdinFile     string // Path to scripted stdin bytes, optional
	Rows, Cols    uint16
	Output        string
	Timeout       time.Duration
	DebugRaw      bool
	NoEcho        bool
}

// Run executes one capture and writes the chosen encoding to w.
// It returns an error only for failures before or at spawn: unreadable
// input files or a PTY that could not be allocated. Timeouts and
// capture-phase IO trouble degrade to partial output, which is still a
// comparable artifact.
func Run(cfg Config, w io.Writer) error {
	var keyboard, stdin []byte
	var err error

	if cfg.KeyboardInput != "" {
		keyboard, err = os.ReadFile(cfg.KeyboardInput)
		if err != nil {
			return fmt.Errorf("read keyboard input: %w", err)
		}
	}
	if cfg.StdinFile != "" {
		stdin, err = os.ReadFile(cfg.StdinFile)
		if err != nil {
			return fmt.Errorf("read stdin file: %w", err)
		}
	}

	log.Printf("starting capture: %s (%dx%d, %s)",
		cfg.Executable, cfg.Cols, cfg.Rows, cfg.Output)

	session, err := capture.Start(cfg.Executable, cfg.Args, capture.Options{
		Rows:   cfg.Rows,
		Cols:   cfg.Cols,
		NoEcho: cfg.NoEcho,
	})
	if err != nil {
		return err
	}

	// Scripted input goes in normalized so line-oriented children see
	// CRLF regardless of how the fixture files were authored. Stdin
	// first, then a settle pause, then keyboard bytes.
	session.SendInput(capture.NormalizeLineEndings(stdin))
	time.Sleep(capture.InputSettleDelay)
	session.SendInput(capture.NormalizeLineEndings(keyboard))

	session.WaitOrKill(cfg.Timeout)

	output := session.Drain()
	session.Close()
	log.Printf("captured %d bytes", len(output))

	if cfg.DebugRaw {
		dumpRaw(output)
	}

	if cfg.Output == FormatRaw {
		_, err := w.Write(output)
		return err
	}

	filtered := capture.FilterOSC(output)
	log.Printf("after OSC filtering: %d bytes", len(filtered))

	p := parser.NewParser(parser.NewScreen(int(cfg.Rows), int(cfg.Cols)))
	p.Parse(filtered)

	switch cfg.Output {
	case FormatText:
		return render.Text(w, p.Screen())
	default:
		return render.Hex(w, p.Screen())
	}
}

// dumpRaw prints the capture to stderr as a 16-bytes-per-line hex dump.
func dumpRaw(output []byte) {
	fmt.Fprintln(os.Stderr, "raw output bytes:")
	for i, b := range output {
		if i > 0 && i%16 == 0 {
			fmt.Fprintln(os.Stderr)
		}
		fmt.Fprintf(os.Stderr, "%02X ", b)
	}
	fmt.Fprintln(os.Stderr)
}
