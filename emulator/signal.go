package emulator

import (
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/jamvm/cpu"
)

// setSignals installs the standard signal handlers at their configured ids.
func (emu *Emulator) setSignals() {
	sig := emu.Config.Signals

	emu.Cpu.SetSignal(sig.Halt, emu.signalHalt)
	emu.Cpu.SetSignal(sig.PrintA, emu.signalPrintA)
	emu.Cpu.SetSignal(sig.Status, emu.signalStatus)
	emu.Cpu.SetSignal(sig.Dump, emu.signalDump)
	emu.Cpu.SetSignal(sig.Getc, emu.signalGetc)
	emu.Cpu.SetSignal(sig.Putc, emu.signalPutc)
}

// signalDefines returns the predefines naming the standard signals.
func (emu *Emulator) signalDefines() iter.Seq2[string, int] {
	sig := emu.Config.Signals

	return maps.All(map[string]int{
		"SIG_HALT":    int(sig.Halt),
		"SIG_PRINT_A": int(sig.PrintA),
		"SIG_STATUS":  int(sig.Status),
		"SIG_DUMP":    int(sig.Dump),
		"SIG_GETC":    int(sig.Getc),
		"SIG_PUTC":    int(sig.Putc),
	})
}

// signalHalt stops the machine.
func (emu *Emulator) signalHalt(c *cpu.Cpu) {
	c.Halted = true
}

// signalPrintA prints register A.
func (emu *Emulator) signalPrintA(c *cpu.Cpu) {
	fmt.Fprintf(emu.Output, "A = %d\n", c.Get(cpu.REG_A))
}

// signalStatus prints the register table.
func (emu *Emulator) signalStatus(c *cpu.Cpu) {
	fmt.Fprintln(emu.Output, Status(c.Register))
}

// signalDump prints the memory.
func (emu *Emulator) signalDump(c *cpu.Cpu) {
	fmt.Fprintln(emu.Output, emu.Dump())
}
