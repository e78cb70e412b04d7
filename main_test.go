package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-shiftquirk", "-cmpvalues", "-log", "trace.log", "games/PONG"})
	assert.NoError(t, err)
	assert.Equal(t, "games/PONG", opts.ROM)
	assert.True(t, opts.ShiftQuirk)
	assert.True(t, opts.CmpValues)
	assert.Equal(t, "trace.log", opts.Log)
	assert.False(t, opts.Window)

	opts, err = parseFlags([]string{"PONG"})
	assert.NoError(t, err)
	assert.Equal(t, "chip8.log", opts.Log)
	assert.False(t, opts.ShiftQuirk)
	assert.False(t, opts.CmpValues)
}

func TestParseFlagsUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{name: "missing rom", args: nil, msg: "missing rom"},
		{name: "flag after rom", args: []string{"PONG", "-shiftquirk"}, msg: "unexpected argument -shiftquirk, options must come before the rom"},
		{name: "unknown flag", args: []string{"-turbo", "PONG"}, msg: "flag provided but not defined: -turbo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args)

			var usageErr *usageError
			assert.True(t, errors.As(err, &usageErr))
			assert.Equal(t, tt.msg, usageErr.Error())

			var buf bytes.Buffer
			usageErr.ShowUsage(&buf)
			assert.True(t, strings.Contains(buf.String(), "-shiftquirk"))
		})
	}
}

func TestParseFlagsWindowWithoutROM(t *testing.T) {
	opts, err := parseFlags([]string{"-window"})
	assert.NoError(t, err)
	assert.True(t, opts.Window)
	assert.Equal(t, "", opts.ROM)
}

func TestTraceLog(t *testing.T) {
	var buf bytes.Buffer

	trace := NewTraceLog(&buf)
	trace.Trace(0x200, 0x00E0)
	trace.Trace(0x202, 0x6A02)
	trace.Trace(0x204, 0x00FF)
	assert.NoError(t, trace.Close())

	expected := "0200: 00E0  CLS\n" +
		"0202: 6A02  LD     VA, #02\n" +
		"0204: 00FF  WORD   #00FF\n"

	assert.Equal(t, expected, buf.String())
}

func TestCreateTraceLogReplacesOld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chip8.log")
	assert.NoError(t, os.WriteFile(path, []byte("old run\n"), 0o644))

	trace, err := CreateTraceLog(path)
	assert.NoError(t, err)

	trace.Trace(0x200, 0x1200)
	assert.NoError(t, trace.Close())

	b, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "0200: 1200  JP     #200\n", string(b))

	// no old file is fine too
	trace, err = CreateTraceLog(filepath.Join(t.TempDir(), "new.log"))
	assert.NoError(t, err)
	assert.NoError(t, trace.Close())

	_, err = CreateTraceLog(filepath.Join(t.TempDir(), "missing", "dir.log"))
	assert.Error(t, err)
}

func TestTraceLogFromVM(t *testing.T) {
	var buf bytes.Buffer

	asm, err := chip8.Assemble([]byte("\tLD V0, 1\n\tWORD #00FF\n"))
	assert.NoError(t, err)

	vm := chip8.New(chip8.Quirks{})
	_, err = vm.LoadROM(bytes.NewReader(asm.ROM))
	assert.NoError(t, err)

	trace := NewTraceLog(&buf)
	vm.Tracer = trace

	assert.NoError(t, vm.Step())
	assert.Error(t, vm.Step())
	assert.NoError(t, trace.Close())

	assert.Equal(t, "0200: 6001  LD     V0, #01\n0202: 00FF  WORD   #00FF\n", buf.String())
}

func TestStatusLine(t *testing.T) {
	status := chip8.Status{PC: 0x200}
	assert.Equal(t, "PONG  PC=#0200 I=#0000 SP=0 DT=#00 ST=#00", StatusLine("PONG", status))

	status = chip8.Status{
		Address: 0x204,
		Opcode:  0xA123,
		PC:      0x206,
		I:       0x123,
		SP:      1,
		Delay:   0x3C,
		Cycles:  3,
	}
	assert.Equal(t, "PONG  PC=#0206 I=#0123 SP=1 DT=#3C ST=#00  0204 - LD     I, #123", StatusLine("PONG", status))
}

func TestRegisters(t *testing.T) {
	status := chip8.Status{PC: 0x2FE, I: 0x12, SP: 2, Sound: 9}
	status.V[0xA] = 0x7F

	regs := Registers(status)
	assert.Equal(t, 21, len(regs))
	assert.Equal(t, [2]string{"VA", "7F"}, regs[0xA])
	assert.Equal(t, [2]string{"PC", "02FE"}, regs[16])
	assert.Equal(t, [2]string{"I", "0012"}, regs[17])
	assert.Equal(t, [2]string{"SP", "02"}, regs[18])
	assert.Equal(t, [2]string{"ST", "09"}, regs[20])
}

func TestFrameRow(t *testing.T) {
	d := chip8.NewDisplay()
	d.Draw(0, 0, []byte{0xA0, 0x60})

	frame := d.Snapshot()

	assert.Equal(t, "▀▄█"+strings.Repeat(" ", chip8.Width-3), frameRow(&frame, 0))
	assert.Equal(t, strings.Repeat(" ", chip8.Width), frameRow(&frame, 2))
}

func TestHexDigit(t *testing.T) {
	for i, c := range "0123456789ABCDEF" {
		digit, ok := hexDigit(c)
		assert.True(t, ok)
		assert.Equal(t, byte(i), digit)
	}

	digit, ok := hexDigit('c')
	assert.True(t, ok)
	assert.Equal(t, byte(0xC), digit)

	_, ok = hexDigit('P')
	assert.False(t, ok)
}

func TestLogOutputHeldUntilRelease(t *testing.T) {
	var screen bytes.Buffer

	output := NewLogOutput(&screen)
	logger := createLogger(true, false, output)

	output.Hold()
	logger.Debug("Worker stopped")
	assert.Equal(t, 0, screen.Len())

	assert.NoError(t, output.Release())
	assert.True(t, strings.Contains(screen.String(), "Worker stopped"))

	// no longer held
	logger.Info("Shutdown")
	assert.True(t, strings.Contains(screen.String(), "Shutdown"))
}
