package cpu

import (
	"fmt"
	"strings"
)

// Disassemble decodes a binary image, two bytes per instruction, low byte
// first.
func Disassemble(code []uint8) (program []Instruction, err error) {
	if len(code)%INSTRUCTION_SIZE != 0 {
		err = ErrIncompleteInstruction
		return
	}

	program = make([]Instruction, 0, len(code)/INSTRUCTION_SIZE)
	for n := 0; n < len(code); n += INSTRUCTION_SIZE {
		word := uint16(code[n]) | uint16(code[n+1])<<8

		var ins Instruction
		ins, err = Decode(word)
		if err != nil {
			program = nil
			return
		}

		program = append(program, ins)
	}

	return
}

// DisassembleText decodes a binary image into one line of assembly text
// per instruction.
func DisassembleText(code []uint8) (lines []string, err error) {
	program, err := Disassemble(code)
	if err != nil {
		return
	}

	lines = make([]string, len(program))
	for n, ins := range program {
		lines[n] = ins.String()
	}

	return
}

// Listing renders a binary image as address, word and text, one
// instruction per line.
func Listing(code []uint8) (text string, err error) {
	program, err := Disassemble(code)
	if err != nil {
		return
	}

	var sb strings.Builder
	for n, ins := range program {
		fmt.Fprintf(&sb, "%04X %04X  %v\n", n*INSTRUCTION_SIZE, ins.Encode(), ins)
	}
	text = sb.String()

	return
}
