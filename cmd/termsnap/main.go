package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"time"

	"github.com/framegrace/termsnap/runner"
)

func main() {
	executable := flag.String("executable", "", "path to the executable to run")
	keyboardInput := flag.String("keyboard-input", "", "file with keyboard bytes sent to the pty")
	stdinFile := flag.String("stdin-file", "", "file with bytes piped to the program's stdin")
	cols := flag.Uint("cols", 80, "terminal width")
	rows := flag.Uint("rows", 25, "terminal height")
	output := flag.String("output", "hex", "output format: hex, text, or raw")
	timeout := flag.Uint64("timeout", 5000, "timeout in milliseconds")
	debugRaw := flag.Bool("debug-raw", false, "dump raw captured bytes to stderr")
	noEcho := flag.Bool("no-echo", false, "disable pty echo of scripted input")
	flag.Parse()

	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	if *executable == "" {
		log.Fatal("termsnap: --executable is required")
	}
	switch *output {
	case runner.FormatHex, runner.FormatText, runner.FormatRaw:
	default:
		log.Fatalf("termsnap: unknown output format %q", *output)
	}

	cfg := runner.Config{
		Executable:    *executable,
		Args:          flag.Args(),
		KeyboardInput: *keyboardInput,
		StdinFile:     *stdinFile,
		Rows:          uint16(*rows),
		Cols:          uint16(*cols),
		Output:        *output,
		Timeout:       time.Duration(*timeout) * time.Millisecond,
		DebugRaw:      *debugRaw,
		NoEcho:        *noEcho,
	}

	stdout := bufio.NewWriter(os.Stdout)
	if err := runner.Run(cfg, stdout); err != nil {
		log.Fatalf("termsnap: %v", err)
	}
	stdout.Flush()

	// The pty reader goroutine may still be parked in a read that will
	// never return; exit explicitly instead of waiting for it.
	os.Exit(0)
}
