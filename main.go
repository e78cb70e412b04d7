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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

// frontend renders the display and reads keys.
type frontend interface {
	chip8.Renderer
	chip8.Keyboard

	Close() error
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		var usageErr *usageError

		if errors.As(err, &usageErr) {
			if usageErr.msg != "" {
				fmt.Fprintf(os.Stderr, "%s\n\n", usageErr.msg)
			}

			usageErr.ShowUsage(os.Stderr)
		}

		os.Exit(1)
	}

	output := NewLogOutput(os.Stdout)
	logger := createLogger(opts.Debug, opts.Quiet, output)

	var code int

	// SDL calls have to happen on the main thread
	if opts.Window {
		sdl.Main(func() {
			code = run(app.Context(), logger, output, opts)
		})
	} else {
		code = run(app.Context(), logger, output, opts)
	}

	os.Exit(code)
}

// createLogger creates a logger with appropriate settings.
func createLogger(debug, quiet bool, output io.Writer) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = output
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}

	return log.NewWithConfig(cfg)
}

// run the emulator and return the process exit code.
func run(ctx context.Context, logger *log.Logger, output *LogOutput, opts options) int {
	if opts.ROM == "" {
		rom, err := dialog.File().Filter("CHIP-8 ROM", "ch8", "c8", "asm").Title("Load ROM").Load()
		if err != nil {
			if errors.Is(err, dialog.ErrCancelled) {
				return 0
			}

			logger.Error("Selecting ROM failed", log.Err(err))
			return 1
		}

		opts.ROM = rom
	}

	title := filepath.Base(opts.ROM)

	machine := chip8.NewMachine(chip8.Config{
		Title: title,
		Quirks: chip8.Quirks{
			Shift:         opts.ShiftQuirk,
			CompareValues: opts.CmpValues,
		},
	}, logger)

	n, err := machine.VM.LoadFile(opts.ROM)
	if err != nil {
		logger.Error("Loading ROM failed", log.String("file", opts.ROM), log.Err(err))
		return 1
	}

	logger.Info("Load ROM", log.String("file", title), log.Int("bytes", n))

	if opts.Log != "" {
		trace, err := CreateTraceLog(opts.Log)
		if err != nil {
			logger.Error("Opening trace log failed", log.Err(err))
			return 1
		}

		defer func() {
			if err := trace.Close(); err != nil {
				logger.Error("Closing trace log failed", log.Err(err))
			}
		}()

		machine.VM.Tracer = trace
	}

	// the terminal frontend owns the screen until it's closed
	if !opts.Window {
		output.Hold()
	}

	if opts.Stats {
		launchStats(logger)
	}

	err = runFrontend(ctx, machine, opts.Window)

	if err := output.Release(); err != nil {
		fmt.Fprintf(os.Stderr, "writing log: %v\n", err)
	}

	var fault *chip8.Fault

	switch {
	case errors.As(err, &fault):
		logger.Error("Fault",
			log.Hex("pc", fault.Address),
			log.Hex("opcode", fault.Opcode),
			log.Err(fault.Err))

		if opts.Window {
			dialog.Message("%s", fault.Error()).Title(title).Error()
		}

		return 1
	case err != nil:
		logger.Error("Emulation failed", log.Err(err))
		return 1
	}

	logger.Info("Shutdown", log.Int("cycles", int(machine.VM.Status().Cycles)))

	return 0
}

// runFrontend opens the terminal or window and runs the machine with it. The
// frontend is closed on every exit path, after every worker has stopped.
func runFrontend(ctx context.Context, machine *chip8.Machine, window bool) (err error) {
	var f frontend

	if window {
		f, err = OpenWindow(machine.Title())
	} else {
		f, err = OpenTerminal()
	}

	if err != nil {
		return err
	}

	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	return machine.Run(ctx, f, f)
}
