package emulator

import (
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/jamvm/cpu"
	"github.com/ezrec/jamvm/memory"
)

// Session is an interactive line-at-a-time machine.
//
// Each line is assembled into the instruction slot at PC, and executed
// immediately.
type Session struct {
	*Emulator

	asm *cpu.Assembler
}

// NewSession creates a session on a freshly reset emulator. Signal and
// session messages are written to output.
func NewSession(emu *Emulator, output io.Writer) (session *Session, err error) {
	session = &Session{
		Emulator: emu,
		asm:      emu.Assembler(),
	}

	emu.Program = &cpu.Program{}
	emu.Output = output

	err = emu.Reset()
	if err != nil {
		session = nil
		return
	}

	return
}

// restart prints the machine status, then resets it.
func (session *Session) restart() (err error) {
	fmt.Fprintln(session.Output, session.Status())
	fmt.Fprintln(session.Output, f("-- Restarting VM! --"))

	return session.Reset()
}

// Feed processes a single line of input.
// ErrQuit is returned when the session is over.
func (session *Session) Feed(line string) (err error) {
	line = strings.TrimSpace(line)

	switch {
	case len(line) == 0 || strings.HasPrefix(line, ";"):
		return
	case line == "quit" || line == "exit" || line == "break":
		err = ErrQuit
		return
	case line == "restart":
		return session.restart()
	}

	pc := session.Pc()

	ins, err := session.asm.ParseLine(line, pc)
	if err != nil {
		fmt.Fprintln(session.Output, f("Error: %v", err))
		err = nil
		return
	}

	err = memory.WriteWord(session.Cpu.Memory, pc, ins.Encode())
	if err == nil {
		_, err = session.Tick()
	}
	if err != nil {
		fmt.Fprintln(session.Output, f("Failed: %v", err))
		return session.restart()
	}

	if session.Cpu.Halted {
		err = ErrQuit
		return
	}

	return
}
