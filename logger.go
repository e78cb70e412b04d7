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
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/massung/chip8vm/chip8"
)

// TraceLog writes a line for every instruction the virtual machine executes.
type TraceLog struct {
	mu sync.Mutex

	// w buffers writes to the underlying file.
	w *bufio.Writer

	// c is closed along with the log.
	c io.Closer

	// err is the first write error, reported on Close.
	err error
}

// CreateTraceLog removes any previous log at path and starts a new one.
func CreateTraceLog(path string) (*TraceLog, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("removing old trace log: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating trace log: %w", err)
	}

	return NewTraceLog(f), nil
}

// NewTraceLog writes the trace to w. If w is an io.Closer it is closed with
// the log.
func NewTraceLog(w io.Writer) *TraceLog {
	log := &TraceLog{w: bufio.NewWriter(w)}

	if c, ok := w.(io.Closer); ok {
		log.c = c
	}

	return log
}

// Trace logs the instruction about to execute.
func (log *TraceLog) Trace(address, inst uint16) {
	log.mu.Lock()
	defer log.mu.Unlock()

	if log.err != nil {
		return
	}

	_, log.err = fmt.Fprintf(log.w, "%04X: %04X  %s\n", address, inst, chip8.Disassemble(inst))
}

// Close flushes the log.
func (log *TraceLog) Close() error {
	log.mu.Lock()
	defer log.mu.Unlock()

	err := log.err
	if flushErr := log.w.Flush(); err == nil {
		err = flushErr
	}

	if log.c != nil {
		if closeErr := log.c.Close(); err == nil {
			err = closeErr
		}
	}

	if err != nil {
		return fmt.Errorf("writing trace log: %w", err)
	}

	return nil
}

// LogOutput is where operator log lines go. While held, lines are buffered
// so they don't scribble over the terminal frontend.
type LogOutput struct {
	mu   sync.Mutex
	w    io.Writer
	held bool
	buf  bytes.Buffer
}

// NewLogOutput writes log lines to w.
func NewLogOutput(w io.Writer) *LogOutput {
	return &LogOutput{w: w}
}

// Write implements io.Writer.
func (out *LogOutput) Write(p []byte) (int, error) {
	out.mu.Lock()
	defer out.mu.Unlock()

	if out.held {
		return out.buf.Write(p)
	}

	return out.w.Write(p)
}

// Hold buffers lines until Release.
func (out *LogOutput) Hold() {
	out.mu.Lock()
	defer out.mu.Unlock()

	out.held = true
}

// Release writes everything buffered since Hold and stops buffering.
func (out *LogOutput) Release() error {
	out.mu.Lock()
	defer out.mu.Unlock()

	out.held = false

	_, err := out.buf.WriteTo(out.w)

	return err
}
