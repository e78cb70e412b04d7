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
	"io"
	"runtime"
	"sync/atomic"
)

// ErrAddressOutOfRange is the cause of a fault when an instruction reads or
// writes past the end of memory, usually because I was pushed past 0xFFF.
var ErrAddressOutOfRange = errors.New("address out of range")

// Quirks select between historical interpreter behaviours that different ROM
// authors relied on. They are fixed for the life of a VM.
type Quirks struct {
	// Shift makes SHR and SHL shift Vx in place. When false Vx is loaded
	// from Vy before shifting.
	Shift bool

	// CompareValues makes SE Vx, Vy compare register contents. When false
	// it compares the register numbers X and Y, matching the interpreter
	// this one replaces. SNE Vx, Vy always compares contents.
	CompareValues bool
}

// Tracer is told about every instruction as it is fetched.
type Tracer interface {
	Trace(address, inst uint16)
}

// CHIP_8 virtual machine emulator.
type CHIP_8 struct {
	// ROM is the pristine memory image (font and program) that Memory is
	// restored from on Reset.
	ROM Memory

	// Memory addressable by CHIP-8.
	Memory Memory

	// Registers is the register file, including the shared counters.
	*Registers

	// Display is the framebuffer shared with the renderer.
	Display *Display

	// Quirks in effect for SHR, SHL and SE Vx, Vy.
	Quirks Quirks

	// Cycles is how many instructions have been executed since Reset.
	Cycles int64

	// Tracer, if set, sees every instruction executed.
	Tracer Tracer

	status atomic.Pointer[Status]
}

// New returns a virtual machine with only the font loaded.
func New(quirks Quirks) *CHIP_8 {
	vm := &CHIP_8{
		ROM:       *NewMemory(),
		Registers: NewRegisters(),
		Display:   NewDisplay(),
		Quirks:    quirks,
	}

	vm.Reset()

	return vm
}

// LoadROM reads a program into memory at 0x200 and resets the VM.
func (vm *CHIP_8) LoadROM(r io.Reader) (int, error) {
	vm.ROM.Reset()

	n, err := vm.ROM.LoadROM(r)
	if err != nil {
		return n, err
	}

	vm.Reset()

	return n, nil
}

// LoadFile reads a program from disk and resets the VM.
func (vm *CHIP_8) LoadFile(path string) (int, error) {
	vm.ROM.Reset()

	n, err := vm.ROM.LoadFile(path)
	if err != nil {
		return n, err
	}

	vm.Reset()

	return n, nil
}

// Reset the virtual machine to the freshly loaded program.
func (vm *CHIP_8) Reset() {
	vm.Memory = vm.ROM

	vm.Registers.Reset()
	vm.Display.Clear()

	vm.Cycles = 0

	vm.status.Store(&Status{PC: vm.PC})
}

// Status returns the state published after the most recent instruction.
// Safe to call from any goroutine.
func (vm *CHIP_8) Status() Status {
	return *vm.status.Load()
}

// Step the virtual machine a single instruction. Any error returned is a
// *Fault and the machine shouldn't be stepped again.
func (vm *CHIP_8) Step() (err error) {
	address := vm.PC

	// a bad I or PC indexes past the end of memory
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); !ok {
				panic(r)
			}

			err = &Fault{Address: address, Opcode: vm.opcodeAt(address), Err: ErrAddressOutOfRange}
		}
	}()

	inst := vm.fetch()

	if vm.Tracer != nil {
		vm.Tracer.Trace(address, inst)
	}

	if err := vm.execute(inst); err != nil {
		return &Fault{Address: address, Opcode: inst, Err: err}
	}

	vm.Cycles++

	vm.publish(address, inst)

	return nil
}

// fetch the next 16-bit instruction and advance the program counter.
func (vm *CHIP_8) fetch() uint16 {
	i := vm.PC

	vm.PC += 2

	return uint16(vm.Memory[i])<<8 | uint16(vm.Memory[i+1])
}

// opcodeAt reads the instruction at an address without faulting.
func (vm *CHIP_8) opcodeAt(address uint16) uint16 {
	if int(address)+1 >= MemorySize {
		return 0
	}

	return uint16(vm.Memory[address])<<8 | uint16(vm.Memory[address+1])
}

// execute a single, already fetched, instruction.
func (vm *CHIP_8) execute(inst uint16) error {
	// 12-bit address operand
	a := inst & 0xFFF

	// byte and nibble operands
	b := byte(inst & 0xFF)
	n := byte(inst & 0xF)

	// x and y register operands
	x := uint(inst >> 8 & 0xF)
	y := uint(inst >> 4 & 0xF)

	switch inst >> 12 {
	case 0x0:
		switch inst {
		case 0x00E0:
			vm.cls()
		case 0x00EE:
			return vm.ret()
		default:
			return ErrUnknownOpcode
		}
	case 0x1:
		vm.jump(a)
	case 0x2:
		return vm.call(a)
	case 0x3:
		vm.skipIf(x, b)
	case 0x4:
		vm.skipIfNot(x, b)
	case 0x5:
		if n != 0 {
			return ErrUnknownOpcode
		}
		vm.skipIfXY(x, y)
	case 0x6:
		vm.loadX(x, b)
	case 0x7:
		vm.addX(x, b)
	case 0x8:
		switch n {
		case 0x0:
			vm.loadXY(x, y)
		case 0x1:
			vm.or(x, y)
		case 0x2:
			vm.and(x, y)
		case 0x3:
			vm.xor(x, y)
		case 0x4:
			vm.addXY(x, y)
		case 0x5:
			vm.subXY(x, y)
		case 0x6:
			vm.shr(x, y)
		case 0x7:
			vm.subYX(x, y)
		case 0xE:
			vm.shl(x, y)
		default:
			return ErrUnknownOpcode
		}
	case 0x9:
		if n != 0 {
			return ErrUnknownOpcode
		}
		vm.skipIfNotXY(x, y)
	case 0xA:
		vm.loadI(a)
	case 0xD:
		vm.drw(x, y, n)
	case 0xF:
		switch b {
		case 0x07:
			vm.loadXDT(x)
		case 0x0A:
			vm.loadXK(x)
		case 0x15:
			vm.loadDTX(x)
		case 0x18:
			vm.loadSTX(x)
		case 0x1E:
			vm.addIX(x)
		case 0x29:
			vm.loadF(x)
		case 0x33:
			vm.loadB(x)
		case 0x55:
			vm.saveRegs(x)
		case 0x65:
			vm.loadRegs(x)
		default:
			return ErrUnknownOpcode
		}
	default:
		// B (jump + v0), C (random) and E (key input) aren't supported
		return ErrUnknownOpcode
	}

	return nil
}

// publish the register state for other goroutines.
func (vm *CHIP_8) publish(address, inst uint16) {
	vm.status.Store(&Status{
		Address: address,
		Opcode:  inst,
		PC:      vm.PC,
		I:       vm.I,
		SP:      vm.SP,
		V:       vm.V,
		Delay:   vm.Delay.Load(),
		Sound:   vm.Sound.Load(),
		Cycles:  vm.Cycles,
	})
}

// clear the video display memory.
func (vm *CHIP_8) cls() {
	vm.Display.Clear()
}

// call a subroutine at address.
func (vm *CHIP_8) call(address uint16) error {
	if err := vm.push(vm.PC); err != nil {
		return err
	}

	vm.PC = address

	return nil
}

// return from subroutine.
func (vm *CHIP_8) ret() error {
	pc, err := vm.pop()
	if err != nil {
		return err
	}

	vm.PC = pc

	return nil
}

// jump to address.
func (vm *CHIP_8) jump(address uint16) {
	vm.PC = address
}

// skip next instruction if vx == n.
func (vm *CHIP_8) skipIf(x uint, b byte) {
	if vm.V[x] == b {
		vm.PC += 2
	}
}

// skip next instruction if vx != n.
func (vm *CHIP_8) skipIfNot(x uint, b byte) {
	if vm.V[x] != b {
		vm.PC += 2
	}
}

// skip next instruction if vx == vy, or x == y without the CompareValues
// quirk.
func (vm *CHIP_8) skipIfXY(x, y uint) {
	equal := x == y
	if vm.Quirks.CompareValues {
		equal = vm.V[x] == vm.V[y]
	}

	if equal {
		vm.PC += 2
	}
}

// skip next instruction if vx != vy.
func (vm *CHIP_8) skipIfNotXY(x, y uint) {
	if vm.V[x] != vm.V[y] {
		vm.PC += 2
	}
}

// load n into vx.
func (vm *CHIP_8) loadX(x uint, b byte) {
	vm.V[x] = b
}

// load y into vx.
func (vm *CHIP_8) loadXY(x, y uint) {
	vm.V[x] = vm.V[y]
}

// load delay timer into vx.
func (vm *CHIP_8) loadXDT(x uint) {
	vm.V[x] = vm.Delay.Load()
}

// load vx into delay timer.
func (vm *CHIP_8) loadDTX(x uint) {
	vm.Delay.Store(vm.V[x])
}

// load vx into sound timer.
func (vm *CHIP_8) loadSTX(x uint) {
	vm.Sound.Store(vm.V[x])
}

// load vx with next key hit. Key input isn't emulated, so this does nothing.
func (vm *CHIP_8) loadXK(x uint) {}

// load address register.
func (vm *CHIP_8) loadI(address uint16) {
	vm.I = address
}

// load address with BCD of vx.
func (vm *CHIP_8) loadB(x uint) {
	n := vm.V[x]

	vm.Memory[vm.I+0] = n / 100
	vm.Memory[vm.I+1] = n / 10 % 10
	vm.Memory[vm.I+2] = n % 10
}

// load font sprite for vx into I.
func (vm *CHIP_8) loadF(x uint) {
	vm.I = uint16(vm.V[x]) * GlyphSize
}

// or vx with vy into vx.
func (vm *CHIP_8) or(x, y uint) {
	vm.V[x] |= vm.V[y]
}

// and vx with vy into vx.
func (vm *CHIP_8) and(x, y uint) {
	vm.V[x] &= vm.V[y]
}

// xor vx with vy into vx.
func (vm *CHIP_8) xor(x, y uint) {
	vm.V[x] ^= vm.V[y]
}

// shl vx 1 bit, set carry to MSB of vx before shift.
func (vm *CHIP_8) shl(x, y uint) {
	if !vm.Quirks.Shift {
		vm.V[x] = vm.V[y]
	}

	carry := vm.V[x] >> 7

	vm.V[x] <<= 1
	vm.V[0xF] = carry
}

// shr vx 1 bit, set carry to LSB of vx before shift.
func (vm *CHIP_8) shr(x, y uint) {
	if !vm.Quirks.Shift {
		vm.V[x] = vm.V[y]
	}

	carry := vm.V[x] & 1

	vm.V[x] >>= 1
	vm.V[0xF] = carry
}

// add n to vx.
func (vm *CHIP_8) addX(x uint, b byte) {
	vm.V[x] += b
}

// add vy to vx and set carry.
func (vm *CHIP_8) addXY(x, y uint) {
	sum := uint16(vm.V[x]) + uint16(vm.V[y])

	vm.V[x] = byte(sum)
	vm.V[0xF] = byte(sum >> 8)
}

// add vx to i.
func (vm *CHIP_8) addIX(x uint) {
	vm.I += uint16(vm.V[x])
}

// subtract vy from vx, set carry if no borrow.
func (vm *CHIP_8) subXY(x, y uint) {
	vx, vy := vm.V[x], vm.V[y]

	vm.V[x] = vx - vy
	vm.V[0xF] = flag(vx >= vy)
}

// subtract vx from vy and store in vx, set carry if no borrow.
func (vm *CHIP_8) subYX(x, y uint) {
	vx, vy := vm.V[x], vm.V[y]

	vm.V[x] = vy - vx
	vm.V[0xF] = flag(vy >= vx)
}

// draw a sprite at I to video memory at vx, vy.
func (vm *CHIP_8) drw(x, y uint, n byte) {
	sprite := vm.Memory[vm.I : vm.I+uint16(n)]

	collision := vm.Display.Draw(int(vm.V[x])%Width, int(vm.V[y])%Height, sprite)

	vm.V[0xF] = flag(collision)
}

// save registers v0..vx to I.
func (vm *CHIP_8) saveRegs(x uint) {
	for i := uint(0); i <= x; i++ {
		vm.Memory[uint(vm.I)+i] = vm.V[i]
	}
}

// load registers v0..vx from I.
func (vm *CHIP_8) loadRegs(x uint) {
	for i := uint(0); i <= x; i++ {
		vm.V[i] = vm.Memory[uint(vm.I)+i]
	}
}

// flag converts a condition to a VF value.
func flag(b bool) byte {
	if b {
		return 1
	}

	return 0
}
