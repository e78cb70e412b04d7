package chip8

import (
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestAssemble(t *testing.T) {
	asm, err := Assemble([]byte(`
; draw a digit and spin
START:
	cls
	ld   v0, #0A         ; digit
	ld   f, v0
	drw  v1, v2, 5
	call routine
	jp   start
routine:
	ld   dt, v0
	ret
`))
	assert.NoError(t, err)

	expected := []byte{
		0x00, 0xE0,
		0x60, 0x0A,
		0xF0, 0x29,
		0xD1, 0x25,
		0x22, 0x0C,
		0x12, 0x00,
		0xF0, 0x15,
		0x00, 0xEE,
	}

	assert.Equal(t, expected, asm.ROM)
	assert.Equal(t, 0, len(asm.Unresolved))
	assert.Equal(t, token{typ: TOKEN_LIT, val: 0x20C}, asm.Labels["ROUTINE"])
}

func TestAssembleInstructions(t *testing.T) {
	tests := []struct {
		source string
		inst   []byte
	}{
		{"SE V1, #22", []byte{0x31, 0x22}},
		{"SNE V1, $1......1", []byte{0x41, 0x81}},
		{"SE V1, V2", []byte{0x51, 0x20}},
		{"SNE V1, V2", []byte{0x91, 0x20}},
		{"LD V3, -1", []byte{0x63, 0xFF}},
		{"ADD V3, 10", []byte{0x73, 0x0A}},
		{"LD V1, V2", []byte{0x81, 0x20}},
		{"OR V1, V2", []byte{0x81, 0x21}},
		{"AND V1, V2", []byte{0x81, 0x22}},
		{"XOR V1, V2", []byte{0x81, 0x23}},
		{"ADD V1, V2", []byte{0x81, 0x24}},
		{"SUB V1, V2", []byte{0x81, 0x25}},
		{"SHR V1, V2", []byte{0x81, 0x26}},
		{"SHR V1", []byte{0x81, 0x16}},
		{"SUBN V1, V2", []byte{0x81, 0x27}},
		{"SHL V1, V2", []byte{0x81, 0x2E}},
		{"LD I, #123", []byte{0xA1, 0x23}},
		{"JP V0, #123", []byte{0xB1, 0x23}},
		{"RND VE, #F0", []byte{0xCE, 0xF0}},
		{"LD V4, DT", []byte{0xF4, 0x07}},
		{"LD V4, K", []byte{0xF4, 0x0A}},
		{"LD ST, V4", []byte{0xF4, 0x18}},
		{"ADD I, V4", []byte{0xF4, 0x1E}},
		{"LD B, V4", []byte{0xF4, 0x33}},
		{"LD [I], V4", []byte{0xF4, 0x55}},
		{"LD V4, [I]", []byte{0xF4, 0x65}},
		{"BYTE 1, \"AB\", #FF", []byte{0x01, 'A', 'B', 0xFF}},
		{"WORD #1234, 5", []byte{0x12, 0x34, 0x00, 0x05}},
		{"PAD 3", []byte{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			asm, err := Assemble([]byte("\t" + tt.source))
			assert.NoError(t, err)
			assert.Equal(t, tt.inst, asm.ROM)
		})
	}
}

func TestAssembleForwardReferences(t *testing.T) {
	asm, err := Assemble([]byte(`
	LD   I, DATA
	JP   V0, TABLE
	WORD DATA
DATA:
	BYTE 1
	ALIGN 4
TABLE:
	BYTE 2
`))
	assert.NoError(t, err)

	expected := []byte{
		0xA2, 0x06,
		0xB2, 0x08,
		0x02, 0x06,
		0x01, 0x00,
		0x02,
	}

	assert.Equal(t, expected, asm.ROM)
	assert.Equal(t, 0, len(asm.Unresolved))
}

func TestAssembleEqu(t *testing.T) {
	asm, err := Assemble([]byte(`
SPEED EQU 4
DELAY EQU SPEED
	LD V0, DELAY
`))
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x04}, asm.ROM)
}

func TestAssembleLabelAndInstruction(t *testing.T) {
	asm, err := Assemble([]byte(".loop: jp loop\n"))
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x00}, asm.ROM)
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		msg    string
	}{
		{name: "unknown label", source: "\tJP NOWHERE", msg: "unresolved label: NOWHERE"},
		{name: "duplicate label", source: "A:\nA:", msg: "line 2: duplicate label: A"},
		{name: "bad operands", source: "\n\tLD I, V0", msg: "line 2: illegal instruction"},
		{name: "byte too large", source: "\tLD V0, 256", msg: "line 1: illegal byte"},
		{name: "address too large", source: "\tJP #1000", msg: "line 1: illegal address"},
		{name: "unindented instruction", source: "CLS", msg: "line 1: reserved word used as label: CLS"},
		{name: "bad alignment", source: "\tALIGN 3", msg: "line 1: illegal alignment"},
		{name: "unterminated string", source: "\tBYTE \"AB", msg: "line 1: unterminated string"},
		{name: "forward constant", source: "A EQU C\nC:", msg: "line 1: unresolved label: C"},
		{name: "sprite too tall", source: "\tDRW V0, V1, 16", msg: "line 1: illegal instruction"},
		{name: "trailing comma", source: "\tBYTE 1,", msg: "line 1: expected operand"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asm, err := Assemble([]byte(tt.source))
			assert.Error(t, err)
			assert.True(t, asm == nil)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestAssembleTooLarge(t *testing.T) {
	_, err := Assemble([]byte("\tPAD #E00\n\tBYTE 1\n"))
	assert.True(t, errors.Is(err, ErrROMTooLarge))
	assert.True(t, strings.HasPrefix(err.Error(), "line 2: "))

	asm, err := Assemble([]byte("\tPAD #E00\n"))
	assert.NoError(t, err)
	assert.Equal(t, MaxROMSize, len(asm.ROM))
}
