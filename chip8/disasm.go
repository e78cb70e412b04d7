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
	"fmt"
)

// Disassemble the instruction at an address in memory.
func (vm *CHIP_8) Disassemble(address uint16) string {
	if int(address)+1 >= MemorySize {
		return fmt.Sprintf("%04X - ??", address)
	}

	inst := uint16(vm.Memory[address])<<8 | uint16(vm.Memory[address+1])

	return fmt.Sprintf("%04X - %s", address, Disassemble(inst))
}

// Disassemble a single instruction. Anything the engine can't execute comes
// back as a WORD directive so it can be reassembled.
func Disassemble(inst uint16) string {
	// 12-bit literal address
	a := inst & 0xFFF

	// byte and nibble literals
	b := byte(inst & 0xFF)
	n := byte(inst & 0xF)

	// vx and vy registers
	x := inst >> 8 & 0xF
	y := inst >> 4 & 0xF

	// instruction decoding
	switch {
	case inst == 0x00E0:
		return "CLS"
	case inst == 0x00EE:
		return "RET"
	case inst&0xF000 == 0x1000:
		return fmt.Sprintf("JP     #%03X", a)
	case inst&0xF000 == 0x2000:
		return fmt.Sprintf("CALL   #%03X", a)
	case inst&0xF000 == 0x3000:
		return fmt.Sprintf("SE     V%X, #%02X", x, b)
	case inst&0xF000 == 0x4000:
		return fmt.Sprintf("SNE    V%X, #%02X", x, b)
	case inst&0xF00F == 0x5000:
		return fmt.Sprintf("SE     V%X, V%X", x, y)
	case inst&0xF000 == 0x6000:
		return fmt.Sprintf("LD     V%X, #%02X", x, b)
	case inst&0xF000 == 0x7000:
		return fmt.Sprintf("ADD    V%X, #%02X", x, b)
	case inst&0xF00F == 0x8000:
		return fmt.Sprintf("LD     V%X, V%X", x, y)
	case inst&0xF00F == 0x8001:
		return fmt.Sprintf("OR     V%X, V%X", x, y)
	case inst&0xF00F == 0x8002:
		return fmt.Sprintf("AND    V%X, V%X", x, y)
	case inst&0xF00F == 0x8003:
		return fmt.Sprintf("XOR    V%X, V%X", x, y)
	case inst&0xF00F == 0x8004:
		return fmt.Sprintf("ADD    V%X, V%X", x, y)
	case inst&0xF00F == 0x8005:
		return fmt.Sprintf("SUB    V%X, V%X", x, y)
	case inst&0xF00F == 0x8006:
		return fmt.Sprintf("SHR    V%X, V%X", x, y)
	case inst&0xF00F == 0x8007:
		return fmt.Sprintf("SUBN   V%X, V%X", x, y)
	case inst&0xF00F == 0x800E:
		return fmt.Sprintf("SHL    V%X, V%X", x, y)
	case inst&0xF00F == 0x9000:
		return fmt.Sprintf("SNE    V%X, V%X", x, y)
	case inst&0xF000 == 0xA000:
		return fmt.Sprintf("LD     I, #%03X", a)
	case inst&0xF000 == 0xB000:
		return fmt.Sprintf("JP     V0, #%03X", a)
	case inst&0xF000 == 0xC000:
		return fmt.Sprintf("RND    V%X, #%02X", x, b)
	case inst&0xF000 == 0xD000:
		return fmt.Sprintf("DRW    V%X, V%X, %d", x, y, n)
	case inst&0xF0FF == 0xF007:
		return fmt.Sprintf("LD     V%X, DT", x)
	case inst&0xF0FF == 0xF00A:
		return fmt.Sprintf("LD     V%X, K", x)
	case inst&0xF0FF == 0xF015:
		return fmt.Sprintf("LD     DT, V%X", x)
	case inst&0xF0FF == 0xF018:
		return fmt.Sprintf("LD     ST, V%X", x)
	case inst&0xF0FF == 0xF01E:
		return fmt.Sprintf("ADD    I, V%X", x)
	case inst&0xF0FF == 0xF029:
		return fmt.Sprintf("LD     F, V%X", x)
	case inst&0xF0FF == 0xF033:
		return fmt.Sprintf("LD     B, V%X", x)
	case inst&0xF0FF == 0xF055:
		return fmt.Sprintf("LD     [I], V%X", x)
	case inst&0xF0FF == 0xF065:
		return fmt.Sprintf("LD     V%X, [I]", x)
	}

	// unknown instruction
	return fmt.Sprintf("WORD   #%04X", inst)
}
