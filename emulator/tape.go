package emulator

import (
	"io"
	"log"

	"github.com/ezrec/jamvm/cpu"
)

const (
	TAPE_EOF = 0xffff // Register A after reading past the end of the tape.
)

// Tape provides sequential byte I/O for programs, through the getc and putc
// signals.
type Tape struct {
	Input  io.Reader
	Output io.Writer
}

// Getc reads the next byte from the input, or TAPE_EOF.
func (tc *Tape) Getc() (value uint16) {
	if tc.Input == nil {
		return TAPE_EOF
	}

	var one [1]byte
	_, err := io.ReadFull(tc.Input, one[:])
	if err != nil {
		return TAPE_EOF
	}

	return uint16(one[0])
}

// Putc writes a byte to the output. Without an output the byte is dropped.
func (tc *Tape) Putc(value uint8) (err error) {
	if tc.Output == nil {
		return
	}

	_, err = tc.Output.Write([]byte{value})
	return
}

// signalGetc reads a tape byte into register A.
func (emu *Emulator) signalGetc(c *cpu.Cpu) {
	c.Set(cpu.REG_A, emu.Tape.Getc())
}

// signalPutc writes the low byte of register A to the tape.
func (emu *Emulator) signalPutc(c *cpu.Cpu) {
	err := emu.Tape.Putc(uint8(c.Get(cpu.REG_A)))
	if err != nil && emu.Verbose {
		log.Printf("tape: %v", err)
	}
}
