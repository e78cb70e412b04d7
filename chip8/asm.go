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
	"bufio"
	"bytes"
	"fmt"
)

// Assembly is a completely assembled source file.
type Assembly struct {
	// ROM is the final, assembled bytes to load at 0x200.
	ROM []byte

	// Labels maps label names to their values.
	Labels map[string]token

	// Unresolved maps ROM offsets to forward referenced labels.
	Unresolved map[int]string
}

// Assemble a CHIP-8 source file. Labels start in the first column and
// instructions must be indented.
func Assemble(program []byte) (out *Assembly, err error) {
	var line int

	out = &Assembly{
		ROM:        make([]byte, ProgramStart, MemorySize),
		Labels:     make(map[string]token),
		Unresolved: make(map[int]string),
	}

	// handle panics during assembly
	defer func() {
		if r := recover(); r != nil {
			var cause error

			switch v := r.(type) {
			case error:
				cause = v
			default:
				cause = fmt.Errorf("%v", v)
			}

			if line > 0 {
				err = fmt.Errorf("line %d: %w", line, cause)
			} else {
				err = cause
			}

			out = nil
		}
	}()

	scanner := bufio.NewScanner(bytes.NewReader(bytes.ToUpper(program)))

	for line = 1; scanner.Scan(); line++ {
		out.assemble(&tokenScanner{bytes: scanner.Bytes()})

		if len(out.ROM) > MemorySize {
			panic(ErrROMTooLarge)
		}
	}

	if err := scanner.Err(); err != nil {
		panic(err)
	}

	// done with line numbers
	line = 0

	out.resolve()

	// drop the reserved bytes below the program
	out.ROM = out.ROM[ProgramStart:]

	return out, nil
}

// resolve all forward label references.
func (a *Assembly) resolve() {
	for address, label := range a.Unresolved {
		t, ok := a.Labels[label]
		if !ok {
			panic(fmt.Errorf("unresolved label: %s", label))
		}

		if t.typ != TOKEN_LIT || t.val.(int) > 0xFFF {
			panic(fmt.Errorf("label does not resolve to an address: %s", label))
		}

		// only 12-bit address operands can be forward references, so the
		// high nibble of the instruction is preserved
		a.ROM[address] = byte(t.val.(int)>>8) | (a.ROM[address] & 0xF0)
		a.ROM[address+1] = byte(t.val.(int))

		delete(a.Unresolved, address)
	}
}

// assemble a single line into the assembly.
func (a *Assembly) assemble(s *tokenScanner) {
	t := s.scanToken()

	if t.typ == TOKEN_LABEL {
		t = a.assembleLabel(t.val.(string), s)
	}

	switch t.typ {
	case TOKEN_INSTRUCTION:
		a.assembleInstruction(t.val.(string), s)
	case TOKEN_END:
	default:
		panic("unexpected token")
	}
}

// assembleLabel adds a label to the assembly. By default it is the current
// address, but EQU assigns it a literal value instead.
func (a *Assembly) assembleLabel(label string, s *tokenScanner) token {
	if _, exists := a.Labels[label]; exists {
		panic(fmt.Errorf("duplicate label: %s", label))
	}

	a.Labels[label] = token{typ: TOKEN_LIT, val: len(a.ROM)}

	t := s.scanToken()

	if t.typ == TOKEN_EQU {
		v := s.scanToken()

		// constants can only refer to labels already defined
		if v.typ == TOKEN_REF {
			ref, exists := a.Labels[v.val.(string)]
			if !exists {
				panic(fmt.Errorf("unresolved label: %s", v.val))
			}

			v = ref
		}

		if v.typ != TOKEN_LIT {
			panic("illegal label assignment")
		}

		a.Labels[label] = v

		if t = s.scanToken(); t.typ != TOKEN_END {
			panic("unexpected token")
		}
	}

	return t
}

// assembleInstruction compiles a single instruction into the assembly.
func (a *Assembly) assembleInstruction(i string, s *tokenScanner) {
	tokens := s.scanOperands()

	switch i {
	case "CLS":
		a.ROM = append(a.ROM, a.assembleCLS(tokens)...)
	case "RET":
		a.ROM = append(a.ROM, a.assembleRET(tokens)...)
	case "JP":
		a.ROM = append(a.ROM, a.assembleJP(tokens)...)
	case "CALL":
		a.ROM = append(a.ROM, a.assembleCALL(tokens)...)
	case "SE":
		a.ROM = append(a.ROM, a.assembleSE(tokens)...)
	case "SNE":
		a.ROM = append(a.ROM, a.assembleSNE(tokens)...)
	case "LD":
		a.ROM = append(a.ROM, a.assembleLD(tokens)...)
	case "ADD":
		a.ROM = append(a.ROM, a.assembleADD(tokens)...)
	case "OR":
		a.ROM = append(a.ROM, a.assembleALU(tokens, 0x1)...)
	case "AND":
		a.ROM = append(a.ROM, a.assembleALU(tokens, 0x2)...)
	case "XOR":
		a.ROM = append(a.ROM, a.assembleALU(tokens, 0x3)...)
	case "SUB":
		a.ROM = append(a.ROM, a.assembleALU(tokens, 0x5)...)
	case "SHR":
		a.ROM = append(a.ROM, a.assembleShift(tokens, 0x6)...)
	case "SUBN":
		a.ROM = append(a.ROM, a.assembleALU(tokens, 0x7)...)
	case "SHL":
		a.ROM = append(a.ROM, a.assembleShift(tokens, 0xE)...)
	case "RND":
		a.ROM = append(a.ROM, a.assembleRND(tokens)...)
	case "DRW":
		a.ROM = append(a.ROM, a.assembleDRW(tokens)...)
	case "BYTE":
		a.ROM = append(a.ROM, a.assembleBYTE(tokens)...)
	case "WORD":
		a.ROM = append(a.ROM, a.assembleWORD(tokens)...)
	case "ALIGN":
		a.ROM = append(a.ROM, a.assembleALIGN(tokens)...)
	case "PAD":
		a.ROM = append(a.ROM, a.assemblePAD(tokens)...)
	}
}

// assembleOperands matches operand tokens against a pattern of token types,
// expanding labels. Unresolved references are only recorded on a match.
func (a *Assembly) assembleOperands(tokens []token, m ...tokenType) ([]token, bool) {
	if len(tokens) != len(m) {
		return nil, false
	}

	ops := make([]token, 0, len(m))
	refs := make([]string, 0)

	for i, typ := range m {
		t := tokens[i]

		if t.typ == TOKEN_REF {
			if v, exists := a.Labels[t.val.(string)]; exists {
				t = v
			} else {
				refs = append(refs, t.val.(string))
				t = token{typ: TOKEN_LIT, val: ProgramStart}
			}
		}

		if t.typ != typ {
			return nil, false
		}

		ops = append(ops, t)
	}

	// a forward reference can only be an address operand
	for _, label := range refs {
		a.Unresolved[len(a.ROM)] = label
	}

	return ops, true
}

// assembleCLS assembles CLS.
func (a *Assembly) assembleCLS(tokens []token) []byte {
	if len(tokens) == 0 {
		return []byte{0x00, 0xE0}
	}

	panic("illegal instruction")
}

// assembleRET assembles RET.
func (a *Assembly) assembleRET(tokens []token) []byte {
	if len(tokens) == 0 {
		return []byte{0x00, 0xEE}
	}

	panic("illegal instruction")
}

// assembleJP assembles JP addr and JP V0, addr.
func (a *Assembly) assembleJP(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		return address(0x1000, ops[0])
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		if ops[0].val.(int) == 0 {
			return address(0xB000, ops[1])
		}
	}

	panic("illegal instruction")
}

// assembleCALL assembles CALL addr.
func (a *Assembly) assembleCALL(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		return address(0x2000, ops[0])
	}

	panic("illegal instruction")
}

// assembleSE assembles SE Vx, byte and SE Vx, Vy.
func (a *Assembly) assembleSE(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		return immediate(0x3000, ops[0], ops[1])
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		return registers(0x5000, ops[0], ops[1])
	}

	panic("illegal instruction")
}

// assembleSNE assembles SNE Vx, byte and SNE Vx, Vy.
func (a *Assembly) assembleSNE(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		return immediate(0x4000, ops[0], ops[1])
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		return registers(0x9000, ops[0], ops[1])
	}

	panic("illegal instruction")
}

// assembleLD assembles all the forms of LD.
func (a *Assembly) assembleLD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		return immediate(0x6000, ops[0], ops[1])
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		return registers(0x8000, ops[0], ops[1])
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_I, TOKEN_LIT); ok {
		return address(0xA000, ops[1])
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_DT); ok {
		return misc(0x07, ops[0])
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_K); ok {
		return misc(0x0A, ops[0])
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_DT, TOKEN_V); ok {
		return misc(0x15, ops[1])
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_ST, TOKEN_V); ok {
		return misc(0x18, ops[1])
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_F, TOKEN_V); ok {
		return misc(0x29, ops[1])
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_B, TOKEN_V); ok {
		return misc(0x33, ops[1])
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_EFFECTIVE_ADDRESS, TOKEN_V); ok {
		return misc(0x55, ops[1])
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_EFFECTIVE_ADDRESS); ok {
		return misc(0x65, ops[0])
	}

	panic("illegal instruction")
}

// assembleADD assembles ADD Vx, byte, ADD Vx, Vy and ADD I, Vx.
func (a *Assembly) assembleADD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		return immediate(0x7000, ops[0], ops[1])
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		return registers(0x8004, ops[0], ops[1])
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_I, TOKEN_V); ok {
		return misc(0x1E, ops[1])
	}

	panic("illegal instruction")
}

// assembleALU assembles the 8XYN register-register instructions.
func (a *Assembly) assembleALU(tokens []token, op uint16) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		return registers(0x8000|op, ops[0], ops[1])
	}

	panic("illegal instruction")
}

// assembleShift assembles SHR and SHL. With a single operand Vy is Vx.
func (a *Assembly) assembleShift(tokens []token, op uint16) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V); ok {
		return registers(0x8000|op, ops[0], ops[0])
	}

	return a.assembleALU(tokens, op)
}

// assembleRND assembles RND Vx, byte.
func (a *Assembly) assembleRND(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		return immediate(0xC000, ops[0], ops[1])
	}

	panic("illegal instruction")
}

// assembleDRW assembles DRW Vx, Vy, n.
func (a *Assembly) assembleDRW(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V, TOKEN_LIT); ok {
		n := ops[2].val.(int)

		if n >= 0 && n < 0x10 {
			inst := registers(0xD000, ops[0], ops[1])
			inst[1] |= byte(n)

			return inst
		}
	}

	panic("illegal instruction")
}

// assembleBYTE assembles a list of bytes and strings.
func (a *Assembly) assembleBYTE(tokens []token) []byte {
	b := make([]byte, 0, len(tokens))

	for _, t := range tokens {
		if t.typ == TOKEN_REF {
			if v, exists := a.Labels[t.val.(string)]; exists {
				t = v
			}
		}

		switch t.typ {
		case TOKEN_LIT:
			n := t.val.(int)
			if n < -0x80 || n > 0xFF {
				panic("invalid byte")
			}

			b = append(b, byte(n))
		case TOKEN_TEXT:
			b = append(b, t.val.(string)...)
		default:
			panic("invalid byte")
		}
	}

	return b
}

// assembleWORD assembles a list of big-endian words.
func (a *Assembly) assembleWORD(tokens []token) []byte {
	b := make([]byte, 0, len(tokens)*2)

	for _, op := range tokens {
		if op.typ == TOKEN_REF {
			label := op.val.(string)

			if v, exists := a.Labels[label]; exists {
				op = v
			} else {
				a.Unresolved[len(a.ROM)+len(b)] = label
				op = token{typ: TOKEN_LIT, val: ProgramStart}
			}
		}

		if op.typ != TOKEN_LIT || op.val.(int) < 0 || op.val.(int) > 0xFFFF {
			panic("invalid word")
		}

		// store msb first
		b = append(b, byte(op.val.(int)>>8), byte(op.val.(int)))
	}

	return b
}

// assembleALIGN pads the ROM to a power of 2 boundary.
func (a *Assembly) assembleALIGN(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		n := ops[0].val.(int)

		if n > 0 && n&(n-1) == 0 {
			return make([]byte, (n-len(a.ROM)&(n-1))&(n-1))
		}
	}

	panic("illegal alignment")
}

// assemblePAD reserves n zero bytes.
func (a *Assembly) assemblePAD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		n := ops[0].val.(int)

		if n >= 0 && n <= MemorySize-len(a.ROM) {
			return make([]byte, n)
		}
	}

	panic("illegal size")
}

// address encodes an instruction with a 12-bit address operand.
func address(op uint16, t token) []byte {
	n := t.val.(int)
	if n < 0 || n > 0xFFF {
		panic("illegal address")
	}

	return word(op | uint16(n))
}

// immediate encodes an instruction with a register and byte operand.
func immediate(op uint16, x, t token) []byte {
	n := t.val.(int)
	if n < -0x80 || n > 0xFF {
		panic("illegal byte")
	}

	return word(op | uint16(x.val.(int))<<8 | uint16(byte(n)))
}

// registers encodes an instruction with two register operands.
func registers(op uint16, x, y token) []byte {
	return word(op | uint16(x.val.(int))<<8 | uint16(y.val.(int))<<4)
}

// misc encodes an FX.. instruction.
func misc(op uint16, x token) []byte {
	return word(0xF000 | uint16(x.val.(int))<<8 | op)
}

func word(inst uint16) []byte {
	return []byte{byte(inst >> 8), byte(inst)}
}
