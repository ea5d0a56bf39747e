package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Opcode is a single assembled source line.
type Opcode struct {
	LineNo      int         // Source line number, 1-based.
	Ip          int         // Byte address of the instruction.
	Words       []string    // Source words, after expression substitution.
	Instruction Instruction // Assembled instruction.
}

// Program is an assembled listing.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the source of an address.
type Debug struct {
	*Opcode
	Index int // Byte index within the instruction.
}

// Debug returns the opcode occupying the address, if any.
func (prog *Program) Debug(ip uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(ip) >= op.Ip && int(ip) < op.Ip+INSTRUCTION_SIZE {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(ip) - op.Ip,
			}
			break
		}
	}

	return
}

// Binary returns the program image, low byte first.
func (prog *Program) Binary() (bins []uint8) {
	for _, ins := range prog.Codes() {
		bins = append(bins, ins.Bytes()...)
	}

	return
}

// Codes iterates over the address and instruction of each opcode.
func (prog *Program) Codes() iter.Seq2[uint16, Instruction] {
	return func(yield func(ip uint16, ins Instruction) bool) {
		for _, op := range prog.Opcodes {
			if !yield(uint16(op.Ip), op.Instruction) {
				return
			}
		}
	}
}

// Lines iterates over the listing: address, instruction word, and the
// disassembled text, one opcode per line.
func (prog *Program) Lines() iter.Seq[string] {
	return func(yield func(line string) bool) {
		for _, op := range prog.Opcodes {
			line := fmt.Sprintf("%04X %04X %5d  %v", op.Ip, op.Instruction.Encode(), op.LineNo, op.Instruction)
			if !yield(line) {
				return
			}
		}
	}
}

// String returns the listing as text.
func (prog *Program) String() string {
	var sb strings.Builder
	for line := range prog.Lines() {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}
