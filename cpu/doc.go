// Package cpu implements the processor, assembler and disassembler for the
// jamvm fantasy machine.
//
// The CPU has eight 16-bit registers (A, B, C, D, SP, PC, BP, FL), a
// bounds-checked linear memory, and a table of host signal handlers. Every
// instruction is one 16-bit little-endian word whose low byte is the
// opcode; opTable is the single description of names, opcodes and operand
// shapes that encoding, decoding, rendering and parsing all use.
//
// The assembler reads ".jam" source: one instruction per line, ';'
// comments, "name:" labels, "^name" label references, and $hex, %binary or
// decimal numbers.
package cpu
