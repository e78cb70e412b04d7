/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/massung/chip8vm/chip8"
	"github.com/pkg/term"
	xterm "golang.org/x/term"
)

const (
	// ctrlC in raw mode, where it no longer raises SIGINT.
	ctrlC = 0x03

	// escape sequences for the alternate screen and cursor
	enterAltScreen = "\x1b[?1049h\x1b[?25l\x1b[2J"
	leaveAltScreen = "\x1b[?25h\x1b[?1049l"
	cursorHome     = "\x1b[H"
	clearLine      = "\x1b[K"

	// keyTimeout is how long ReadKey waits before giving up.
	keyTimeout = 100 * time.Millisecond
)

// Terminal renders the display to the controlling terminal with half-block
// characters, two pixel rows per line, and reads keys from it in raw mode.
type Terminal struct {
	tty *term.Term
	out *bufio.Writer

	// size of the output terminal
	cols, rows int

	buf []byte
}

// OpenTerminal puts the terminal in raw mode and switches to the alternate
// screen. Close must be called to restore it.
func OpenTerminal() (*Terminal, error) {
	if !xterm.IsTerminal(int(os.Stdout.Fd())) {
		return nil, errors.New("stdout is not a terminal (try -window)")
	}

	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}

	if err := tty.SetReadTimeout(keyTimeout); err != nil {
		_ = tty.Restore()
		_ = tty.Close()

		return nil, fmt.Errorf("setting terminal read timeout: %w", err)
	}

	t := &Terminal{
		tty: tty,
		out: bufio.NewWriter(os.Stdout),
		buf: make([]byte, 16),
	}

	t.cols, t.rows, err = xterm.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		t.cols, t.rows = chip8.Width, chip8.Height/2+1
	}

	t.out.WriteString(enterAltScreen)

	if err := t.out.Flush(); err != nil {
		_ = t.Close()

		return nil, fmt.Errorf("writing to terminal: %w", err)
	}

	return t, nil
}

// Render draws a frame and a status line below it.
func (t *Terminal) Render(title string, frame *chip8.Frame, status chip8.Status) error {
	t.out.WriteString(cursorHome)

	// pad to centre the screen
	pad := ""
	if t.cols > chip8.Width {
		pad = strings.Repeat(" ", (t.cols-chip8.Width)/2)
	}

	for y := 0; y < chip8.Height; y += 2 {
		t.out.WriteString(pad)
		t.out.WriteString(frameRow(frame, y))
		t.out.WriteString(clearLine + "\r\n")
	}

	t.out.WriteString(pad)
	t.out.WriteString(StatusLine(title, status))
	t.out.WriteString(clearLine)

	return t.out.Flush()
}

// ReadKey waits briefly for a key. Ctrl+C and Escape quit.
func (t *Terminal) ReadKey() (chip8.Key, error) {
	n, err := t.tty.Read(t.buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return chip8.KeyNone, fmt.Errorf("reading terminal: %w", err)
	}

	for _, c := range t.buf[:n] {
		if c == ctrlC || (c == 0x1B && n == 1) {
			return chip8.KeyQuit, nil
		}
	}

	return chip8.KeyNone, nil
}

// Close leaves the alternate screen and restores the terminal mode.
func (t *Terminal) Close() error {
	t.out.WriteString(leaveAltScreen)

	err := t.out.Flush()

	if restoreErr := t.tty.Restore(); restoreErr != nil {
		err = fmt.Errorf("restoring terminal: %w", restoreErr)
	}

	if closeErr := t.tty.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("closing terminal: %w", closeErr)
	}

	return err
}

// frameRow renders two pixel rows, starting at y, as one line of text.
func frameRow(frame *chip8.Frame, y int) string {
	var s strings.Builder

	for x := 0; x < chip8.Width; x++ {
		top, bottom := frame.Pixel(x, y), frame.Pixel(x, y+1)

		switch {
		case top && bottom:
			s.WriteRune('█')
		case top:
			s.WriteRune('▀')
		case bottom:
			s.WriteRune('▄')
		default:
			s.WriteByte(' ')
		}
	}

	return s.String()
}
