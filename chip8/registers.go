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

// StackDepth is the maximum number of nested subroutine calls.
const StackDepth = 16

// Registers is the CHIP-8 register file.
type Registers struct {
	// V are the 16 general purpose registers. VF doubles as the carry,
	// borrow, and collision flag.
	V [16]byte

	// I is the address register. ADD I, Vx may push it past 0xFFF.
	I uint16

	// PC is the program counter. It is advanced before each instruction
	// executes.
	PC uint16

	// SP is the index of the next free Stack slot.
	SP uint8

	// Stack holds return addresses for CALL.
	Stack [StackDepth]uint16

	// Delay and Sound are the 60 Hz counters. They are pointers so the
	// countdown workers can hold on to them.
	Delay *Counter
	Sound *Counter
}

// NewRegisters returns a zeroed register file with the PC at 0x200.
func NewRegisters() *Registers {
	return &Registers{
		PC:    ProgramStart,
		Delay: &Counter{},
		Sound: &Counter{},
	}
}

// Reset zeroes everything and returns the PC to 0x200. The counters keep
// their identity so running workers continue to drain the same ones.
func (r *Registers) Reset() {
	r.V = [16]byte{}
	r.I = 0
	r.PC = ProgramStart
	r.SP = 0
	r.Stack = [StackDepth]uint16{}

	r.Delay.Store(0)
	r.Sound.Store(0)
}

// push a return address, failing if the stack is full.
func (r *Registers) push(address uint16) error {
	if int(r.SP) >= StackDepth {
		return ErrStackOverflow
	}

	r.Stack[r.SP] = address
	r.SP++

	return nil
}

// pop a return address, failing if the stack is empty.
func (r *Registers) pop() (uint16, error) {
	if r.SP == 0 {
		return 0, ErrStackUnderflow
	}

	r.SP--

	return r.Stack[r.SP], nil
}
