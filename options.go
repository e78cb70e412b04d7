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
	"errors"
	"flag"
	"fmt"
	"io"
)

// options are the command line options.
type options struct {
	ROM        string
	ShiftQuirk bool
	CmpValues  bool
	Log        string
	Window     bool
	Stats      bool
	Debug      bool
	Quiet      bool
}

// usageError is returned when the command line can't be parsed.
type usageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *usageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage text and flag defaults.
func (e *usageError) ShowUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: chip8vm [options] <rom>\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
}

// parseFlags parses the arguments following the program name. A missing ROM
// is only an error outside of window mode, where a file dialog asks for one.
func parseFlags(args []string) (options, error) {
	flags := flag.NewFlagSet("chip8vm", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts options

	flags.BoolVar(&opts.ShiftQuirk, "shiftquirk", false, "SHR and SHL shift Vx in place instead of loading it from Vy")
	flags.BoolVar(&opts.CmpValues, "cmpvalues", false, "SE Vx, Vy compares register values instead of register numbers")
	flags.StringVar(&opts.Log, "log", "chip8.log", "instruction trace file, recreated on start (empty to disable)")
	flags.BoolVar(&opts.Window, "window", false, "run in an SDL window instead of the terminal")
	flags.BoolVar(&opts.Stats, "stats", false, "serve runtime statistics on "+statsAddress)
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "q", false, "only log errors")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, &usageError{flags: flags}
		}

		return opts, &usageError{flags: flags, msg: err.Error()}
	}

	switch flags.NArg() {
	case 0:
		if !opts.Window {
			return opts, &usageError{flags: flags, msg: "missing rom"}
		}
	case 1:
		opts.ROM = flags.Arg(0)
	default:
		return opts, &usageError{flags: flags, msg: fmt.Sprintf("unexpected argument %s, options must come before the rom", flags.Arg(1))}
	}

	return opts, nil
}
