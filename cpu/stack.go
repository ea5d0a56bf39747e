package cpu

import (
	"github.com/ezrec/jamvm/memory"
)

// The stack lives in main memory at SP, and grows upward one word at a time.

// Push writes a word at SP, then advances SP.
func (cpu *Cpu) Push(value uint16) (err error) {
	sp := cpu.Register[REG_SP]

	err = memory.WriteWord(cpu.Memory, sp, value)
	if err != nil {
		return
	}

	cpu.Register[REG_SP] = sp + INSTRUCTION_SIZE

	return
}

// Pop retreats SP, then reads the word there.
// SP is unchanged on failure.
func (cpu *Cpu) Pop() (value uint16, err error) {
	sp := cpu.Register[REG_SP]
	if sp < INSTRUCTION_SIZE {
		err = ErrStackUnderflow
		return
	}

	value, err = memory.ReadWord(cpu.Memory, sp-INSTRUCTION_SIZE)
	if err != nil {
		return
	}

	cpu.Register[REG_SP] = sp - INSTRUCTION_SIZE

	return
}

// Peek reads the top word of the stack, without popping it.
func (cpu *Cpu) Peek() (value uint16, ok bool) {
	sp := cpu.Register[REG_SP]
	if sp < INSTRUCTION_SIZE {
		return
	}

	value, err := memory.ReadWord(cpu.Memory, sp-INSTRUCTION_SIZE)
	if err != nil {
		return
	}

	ok = true
	return
}

// Empty returns true if there is nothing to pop.
func (cpu *Cpu) Empty() bool {
	return cpu.Register[REG_SP] < INSTRUCTION_SIZE
}
