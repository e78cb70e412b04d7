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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// MemorySize is the size of the CHIP-8 address space.
	MemorySize = 0x1000

	// ProgramStart is where ROMs are loaded and where execution begins.
	ProgramStart = 0x200

	// MaxROMSize is the largest ROM that fits in memory.
	MaxROMSize = MemorySize - ProgramStart
)

// ErrROMTooLarge is returned when an assembled program doesn't fit in memory.
var ErrROMTooLarge = errors.New("program too large to fit in memory")

// Memory is the flat 4K address space. The bottom 80 bytes hold the hex font,
// and programs are loaded at 0x200. Out of range indexing panics, the same as
// any other Go array.
type Memory [MemorySize]byte

// NewMemory returns memory with the font loaded and nothing else.
func NewMemory() *Memory {
	mem := &Memory{}
	mem.LoadFont()

	return mem
}

// LoadFont writes the hex font glyphs to 0x000-0x050.
func (mem *Memory) LoadFont() {
	copy(mem[:], Font[:])
}

// LoadROM reads a program from r into memory at 0x200. Anything past the end
// of memory is silently dropped. Returns the number of bytes loaded.
func (mem *Memory) LoadROM(r io.Reader) (int, error) {
	n, err := io.ReadFull(r, mem[ProgramStart:])

	// a short program is the normal case
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = nil
	}

	if err != nil {
		return n, fmt.Errorf("reading rom: %w", err)
	}

	return n, nil
}

// LoadFile loads a ROM from disk. Files ending in .asm are assembled first.
func (mem *Memory) LoadFile(path string) (int, error) {
	if strings.EqualFold(filepath.Ext(path), ".asm") {
		source, err := os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("opening rom: %w", err)
		}

		asm, err := Assemble(source)
		if err != nil {
			return 0, fmt.Errorf("assembling %s: %w", filepath.Base(path), err)
		}

		return mem.LoadROM(bytes.NewReader(asm.ROM))
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening rom: %w", err)
	}
	defer f.Close()

	return mem.LoadROM(f)
}

// Reset clears all memory and reloads the font.
func (mem *Memory) Reset() {
	*mem = Memory{}

	mem.LoadFont()
}
