// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"log"
	"math/bits"

	"github.com/ezrec/jamvm/memory"
)

// SignalHandler is a host callback for the Signal instruction.
// The handler has exclusive use of the CPU while it runs.
type SignalHandler func(cpu *Cpu)

// Cpu is the simulation context for the jamvm processor.
type Cpu struct {
	Verbose bool // Set to enable the instruction trace.

	Memory   memory.Addressable     // Main memory.
	Register [REGISTER_COUNT]uint16 // Register bank.
	Halted   bool                   // Set (usually by a signal handler) to stop the machine.

	Ticks int // CPU ticks counter.

	signal map[uint8]SignalHandler // Signal handlers.
}

// NewCpu creates a new CPU with a specifically sized linear memory.
func NewCpu(kilobytes int) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: memory.NewLinear(kilobytes),
		signal: make(map[uint8]SignalHandler),
	}

	return
}

// Get returns the value of a register.
func (cpu *Cpu) Get(r Register) uint16 {
	return cpu.Register[r]
}

// Set the value of a register.
func (cpu *Cpu) Set(r Register, value uint16) {
	cpu.Register[r] = value
}

// Flags returns the FL register.
func (cpu *Cpu) Flags() Flag {
	return Flag(cpu.Register[REG_FL])
}

// Flag tests a single flag.
func (cpu *Cpu) Flag(fl Flag) bool {
	return cpu.Flags()&fl != 0
}

func (cpu *Cpu) setFlag(fl Flag, set bool) {
	if set {
		cpu.Register[REG_FL] |= uint16(fl)
	} else {
		cpu.Register[REG_FL] &^= uint16(fl)
	}
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	for n, val := range cpu.Register {
		reg := Register(n)
		strval := fmt.Sprintf("%04X", val)
		if reg == REG_FL {
			strval += " " + cpu.Flags().String()
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	halted := "false"
	if cpu.Halted {
		halted = "true"
	}
	text += fmt.Sprintf("% 5s: %v\n", "halt", halted)

	return
}

// Reset the CPU state.
// - Clears the registers and the halted flag.
// - Zeros the memory and the tick counter.
// Signal handlers are kept.
func (cpu *Cpu) Reset() (err error) {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Halted = false
	cpu.Ticks = 0

	return memory.Load(cpu.Memory, make([]uint8, cpu.Memory.Size()), 0)
}

// Load copies a program image into memory.
func (cpu *Cpu) Load(data []uint8, base uint16) (err error) {
	if cpu.Verbose {
		log.Printf("cpu: load %d bytes @ 0x%04x", len(data), base)
	}

	return memory.Load(cpu.Memory, data, base)
}

// SetSignal sets the handler for a signal id. A nil handler removes it.
func (cpu *Cpu) SetSignal(id uint8, handler SignalHandler) {
	if cpu.signal == nil {
		cpu.signal = make(map[uint8]SignalHandler)
	}

	if handler == nil {
		delete(cpu.signal, id)
	} else {
		cpu.signal[id] = handler
	}
}

// GetSignal gets the handler for a signal id.
func (cpu *Cpu) GetSignal(id uint8) (handler SignalHandler, err error) {
	handler, ok := cpu.signal[id]
	if !ok {
		err = ErrSignalUnknown(id)
		return
	}

	return
}

// FetchCode reads the instruction at PC, and advances PC past it.
func (cpu *Cpu) FetchCode() (ins Instruction, err error) {
	pc := cpu.Register[REG_PC]

	word, err := memory.ReadWord(cpu.Memory, pc)
	if err != nil {
		return
	}

	cpu.Register[REG_PC] = pc + INSTRUCTION_SIZE

	return Decode(word)
}

// Tick executes a single CPU instruction cycle.
// On failure the error is an *ErrFault with the registers as they were
// before the cycle began.
func (cpu *Cpu) Tick() (err error) {
	pc := cpu.Register[REG_PC]
	snapshot := cpu.Register

	defer func() {
		if err != nil {
			err = &ErrFault{Pc: pc, Register: snapshot, Err: err}
		}
	}()

	ins, err := cpu.FetchCode()
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%04x │ %v", pc, ins)
	}

	return cpu.Execute(ins)
}

// Execute executes a single decoded instruction.
// PC must already point past the instruction.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	if !ins.A.Valid() || !ins.B.Valid() {
		err = ErrRegisterInvalid
		return
	}

	reg := &cpu.Register

	switch op := ins.Op; op {
	case OP_NOP:
		// pass
	case OP_PUSH:
		err = cpu.Push(uint16(ins.Value))
	case OP_PUSH_REG:
		err = cpu.Push(reg[ins.A])
	case OP_POP:
		var value uint16
		value, err = cpu.Pop()
		if err != nil {
			return
		}
		reg[ins.A] = value
	case OP_MOV:
		reg[ins.A] = reg[ins.B]
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_SHL, OP_SHR, OP_AND, OP_OR, OP_XOR:
		var output uint16
		var overflow bool
		output, overflow, err = cpu.doAlu(op, reg[ins.A], reg[ins.B])
		if err != nil {
			return
		}
		reg[ins.A] = output
		cpu.setResult(output, overflow)
	case OP_NOT:
		output := ^reg[ins.A]
		reg[ins.A] = output
		cpu.setResult(output, false)
	case OP_CMP:
		a, b := reg[ins.A], reg[ins.B]
		cpu.setFlag(FLAG_COMPARE, a == b)
		cpu.setFlag(FLAG_NEGATIVE, a < b)
	case OP_JMP:
		cpu.jump(ins.Offset())
	case OP_JE:
		if cpu.Flag(FLAG_COMPARE) {
			cpu.jump(ins.Offset())
		}
	case OP_JNE:
		if !cpu.Flag(FLAG_COMPARE) {
			cpu.jump(ins.Offset())
		}
	case OP_LOAD:
		var value uint16
		value, err = memory.ReadWord(cpu.Memory, reg[ins.B])
		if err != nil {
			return
		}
		reg[ins.A] = value
	case OP_STORE:
		err = memory.WriteWord(cpu.Memory, reg[ins.B], reg[ins.A])
	case OP_SIGNAL:
		var handler SignalHandler
		handler, err = cpu.GetSignal(ins.Value)
		if err != nil {
			return
		}
		handler(cpu)
	default:
		err = ErrOpcode(ins.Encode())
	}

	if err != nil {
		return
	}

	cpu.Ticks += 1

	return
}

// jump moves PC by a signed number of instruction words.
func (cpu *Cpu) jump(offset int8) {
	pc := int(cpu.Register[REG_PC]) + int(offset)*INSTRUCTION_SIZE
	cpu.Register[REG_PC] = uint16(pc)
}

// setResult updates the flags after an arithmetic or logic operation.
func (cpu *Cpu) setResult(output uint16, overflow bool) {
	cpu.setFlag(FLAG_COMPARE, output == 0)
	cpu.setFlag(FLAG_NEGATIVE, output&0x8000 != 0)
	cpu.setFlag(FLAG_OVERFLOW, overflow)
}

// doAlu performs the requested ALU action, and returns the output value
// and whether the unsigned result overflowed.
func (cpu *Cpu) doAlu(op Op, input uint16, value uint16) (output uint16, overflow bool, err error) {
	switch op {
	case OP_ADD:
		sum := uint32(input) + uint32(value)
		output = uint16(sum)
		overflow = sum > 0xffff
	case OP_SUB:
		output = input - value
		overflow = value > input
	case OP_MUL:
		product := uint32(input) * uint32(value)
		output = uint16(product)
		overflow = product > 0xffff
	case OP_DIV:
		if value == 0 {
			err = ErrDivisionByZero
			return
		}
		output = input / value
	case OP_SHL:
		output = input << value
		overflow = value > 0 && bits.Len16(input) > 16-int(min(value, 16))
	case OP_SHR:
		output = input >> value
		overflow = value > 0 && bits.TrailingZeros16(input) < int(min(value, 16))
	case OP_AND:
		output = input & value
	case OP_OR:
		output = input | value
	case OP_XOR:
		output = input ^ value
	default:
		err = ErrOpcode(uint16(op))
	}

	return
}
