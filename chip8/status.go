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

// Status is an immutable copy of the register file taken after an
// instruction executes. Frontends read it without locking the engine.
type Status struct {
	// Address and Opcode of the instruction just executed.
	Address uint16
	Opcode  uint16

	PC uint16
	I  uint16
	SP uint8
	V  [16]byte

	Delay byte
	Sound byte

	Cycles int64
}

// Instruction returns the disassembly of the instruction just executed.
func (s Status) Instruction() string {
	if s.Cycles == 0 {
		return ""
	}

	return Disassemble(s.Opcode)
}
