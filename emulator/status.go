package emulator

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/ezrec/jamvm/cpu"
)

// Status renders a register bank as a one row table.
func Status(register [cpu.REGISTER_COUNT]uint16) string {
	var sb strings.Builder

	header := make([]string, 0, cpu.REGISTER_COUNT)
	row := make([]string, 0, cpu.REGISTER_COUNT)
	for n, value := range register {
		reg := cpu.Register(n)
		switch reg {
		case cpu.REG_FL:
			header = append(header, "FLAGS")
			row = append(row, cpu.Flag(value).String())
		default:
			header = append(header, reg.String())
			row = append(row, fmt.Sprintf("%d", value))
		}
	}

	table := tablewriter.NewWriter(&sb)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.Append(row)
	table.Render()

	return sb.String()
}

// Status renders the current registers of the emulator.
func (emu *Emulator) Status() string {
	return Status(emu.Cpu.Register)
}
