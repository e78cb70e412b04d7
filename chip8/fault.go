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

package chip8

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOpcode is the cause of a fault on an instruction that
	// doesn't decode.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrStackOverflow is the cause of a fault on CALL with a full stack.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrStackUnderflow is the cause of a fault on RET with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
)

// Fault is a fatal execution error. The engine stops at the faulting
// instruction and does not execute anything after it.
type Fault struct {
	// Address of the faulting instruction.
	Address uint16

	// Opcode that faulted.
	Opcode uint16

	// Err is the cause.
	Err error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%v: %04X at %04X", f.Err, f.Opcode, f.Address)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
