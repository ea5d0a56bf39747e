// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"io"
	"iter"
	"log"
	"maps"
	"os"

	"github.com/ezrec/jamvm/config"
	"github.com/ezrec/jamvm/cpu"
	"github.com/ezrec/jamvm/internal"
	"github.com/ezrec/jamvm/memory"
)

var _emulator_defines = map[string]int{
	"INSTRUCTION_SIZE": cpu.INSTRUCTION_SIZE,
	"PROGRAM_BASE":     cpu.PROGRAM_BASE,
	"TAPE_EOF":         TAPE_EOF,
}

// Emulator state. CPU + memory + standard signals + tape.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Config *config.Config // Machine configuration.
	Output io.Writer      // Destination of the signal printouts.
	Tape   Tape           // Tape I/O for the getc and putc signals.
}

// NewEmulator creates a new emulator. A nil configuration uses the defaults.
func NewEmulator(cfg *config.Config) (emu *Emulator) {
	if cfg == nil {
		cfg = config.Default()
	}

	emu = &Emulator{
		Verbose: cfg.Machine.Verbose,
		Cpu:     cpu.NewCpu(cfg.Machine.MemoryKB),
		Program: &cpu.Program{},
		Config:  cfg,
		Output:  os.Stdout,
	}

	emu.setSignals()

	return
}

// Defines returns an iterator over all of the assembler predefines, in
// name order.
func (emu *Emulator) Defines() iter.Seq2[string, int] {
	return internal.IterSeq2Sorted(internal.IterSeq2Concat(
		maps.All(_emulator_defines),
		maps.All(map[string]int{"MEMORY_SIZE": emu.Cpu.Memory.Size()}),
		emu.signalDefines(),
	))
}

// Assembler returns an assembler with the emulator predefines.
func (emu *Emulator) Assembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{Verbose: emu.Verbose}
	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}

	return
}

// Assemble parses source into the program listing.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	prog, err := emu.Assembler().Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// LoadBinary replaces the program with a binary image, without a listing.
func (emu *Emulator) LoadBinary(code []uint8) (err error) {
	program, err := cpu.Disassemble(code)
	if err != nil {
		return
	}

	prog := &cpu.Program{}
	for n, ins := range program {
		prog.Opcodes = append(prog.Opcodes, cpu.Opcode{
			Ip:          n * cpu.INSTRUCTION_SIZE,
			Words:       []string{ins.String()},
			Instruction: ins,
		})
	}
	emu.Program = prog

	return
}

// Reset the machine, and load the program.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	err = emu.Cpu.Reset()
	if err != nil {
		return
	}

	err = emu.Cpu.Load(emu.Program.Binary(), cpu.PROGRAM_BASE)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: %d opcodes, %d bytes of memory", len(emu.Program.Opcodes), emu.Cpu.Memory.Size())
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns current program counter.
func (emu *Emulator) Pc() uint16 {
	return emu.Cpu.Get(cpu.REG_PC)
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Pc())
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Cpu.Halted {
		done = true
		return
	}

	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted

	return
}

// Run ticks the emulator until the machine halts. A positive limit bounds
// the number of ticks.
func (emu *Emulator) Run(limit int) (err error) {
	for n := 0; limit <= 0 || n < limit; n++ {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	err = ErrTickLimit(limit)

	return
}

// Dump returns a hex dump of the machine memory.
func (emu *Emulator) Dump() string {
	return memory.Dump(emu.Cpu.Memory)
}
