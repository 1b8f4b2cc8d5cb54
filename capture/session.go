// Copyright © 2025 termsnap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: capture/session.go
// Summary: PTY-backed capture session: spawn, scripted input, bounded
//          wait, and best-effort output drain.
// Notes: The reader goroutine is deliberately abandoned; on some
//        platforms its blocking read never returns after child exit.

package capture

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"
	"golang.org/x/term"
)

const (
	chunkSize        = 4096
	exitPollInterval = 50 * time.Millisecond

	drainGrace    = 200 * time.Millisecond
	drainDeadline = 300 * time.Millisecond
)

// InputSettleDelay is the pause between stdin delivery and keyboard
// delivery, giving the child's input loop time to start. Heuristic,
// tuned against real TUI children rather than derived from anything.
const InputSettleDelay = 100 * time.Millisecond

// makeRaw is a seam for tests that need the raw-mode setup to fail.
var makeRaw = func(fd int) (*term.State, error) {
	return term.MakeRaw(fd)
}

// Options configures a capture session.
type Options struct {
	Rows, Cols uint16
	// NoEcho puts the PTY in raw mode after spawn so input written to
	// the child is not echoed back into the capture.
	NoEcho bool
}

// Session owns one child process on a PTY and the goroutine draining
// its output. All waits on the session are bounded; the only unbounded
// operation is the reader's blocking read, which is never joined.
type Session struct {
	cmd  *exec.Cmd
	ptmx *os.File

	// output accumulates chunks in read order. The reader appends and
	// never blocks, no matter how much the child bursts; a reader that
	// could stall would back-pressure the kernel PTY buffer and wedge
	// a child mid-write.
	mu     sync.Mutex
	output bytes.Buffer

	readerDone chan struct{}
	exited     chan error
}

// Start allocates a PTY of the requested size, spawns the executable on
// it with TERM=xterm, and begins reading its output in the background.
func Start(executable string, args []string, opts Options) (*Session, error) {
	cmd := exec.Command(executable, args...)
	cmd.Env = append(os.Environ(),
		"TERM=xterm", // Consistent escape sequences across platforms.
		fmt.Sprintf("COLUMNS=%d", opts.Cols),
		fmt.Sprintf("LINES=%d", opts.Rows),
	)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: opts.Rows,
		Cols: opts.Cols,
	})
	if err != nil {
		return nil, fmt.Errorf("start pty: %w", err)
	}
	log.Printf("pty opened, child pid %d", cmd.Process.Pid)

	if opts.NoEcho {
		if _, err := makeRaw(int(ptmx.Fd())); err != nil {
			// The child is already running; it must not outlive a failed
			// session setup, and it must be reaped, not left a zombie.
			cmd.Process.Kill()
			ptmx.Close()
			cmd.Wait()
			return nil, fmt.Errorf("make pty raw: %w", err)
		}
	}

	s := &Session{
		cmd:        cmd,
		ptmx:       ptmx,
		readerDone: make(chan struct{}),
		exited:     make(chan error, 1),
	}

	go s.readLoop()
	go func() { s.exited <- cmd.Wait() }()

	return s, nil
}

// readLoop appends PTY output chunks in read order. EOF and read
// errors both mean "no more data": the loop ends without signaling
// failure upstream, and partial output remains a valid capture.
func (s *Session) readLoop() {
	defer close(s.readerDone)
	buf := make([]byte, chunkSize)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.mu.Lock()
			s.output.Write(buf[:n])
			s.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// SendInput writes scripted bytes to the child's terminal. Write
// failures are logged and swallowed: the child may simply have exited
// before consuming its input, and the capture still has value.
func (s *Session) SendInput(data []byte) {
	if len(data) == 0 {
		return
	}
	if _, err := s.ptmx.Write(data); err != nil {
		log.Printf("pty write failed (%d bytes dropped): %v", len(data), err)
	}
}

// WaitOrKill blocks until the child exits or the timeout elapses,
// checking at a fixed poll interval. On timeout the child is killed and
// its exit reaped. Returns true if the child exited on its own.
func (s *Session) WaitOrKill(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		select {
		case <-s.exited:
			log.Printf("child exited")
			return true
		case <-time.After(exitPollInterval):
			if time.Now().After(deadline) {
				log.Printf("timeout reached, killing child")
				if err := s.cmd.Process.Kill(); err != nil {
					log.Printf("kill failed: %v", err)
				}
				select {
				case <-s.exited:
				case <-time.After(drainGrace):
				}
				return false
			}
		}
	}
}

// Drain collects whatever output the reader accumulated, bounded by a
// fixed grace period plus drain deadline. Bytes that arrive later are
// lost by design: capture is best-effort, never a completeness promise.
func (s *Session) Drain() []byte {
	time.Sleep(drainGrace)

	select {
	case <-s.readerDone:
	case <-time.After(drainDeadline):
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	output := make([]byte, s.output.Len())
	copy(output, s.output.Bytes())
	return output
}

// Close releases the PTY. The reader goroutine is not joined: its read
// may never return, and program exit must not depend on it.
func (s *Session) Close() {
	s.ptmx.Close()
}
