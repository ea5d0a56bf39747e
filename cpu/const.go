package cpu

const (
	MEMORY_KILO_BYTES = 1 // Default memory size.
	INSTRUCTION_SIZE  = 2 // Bytes per instruction word.
	REGISTER_COUNT    = 8 // Size of the register bank.
	PROGRAM_BASE      = 0 // Load address of programs, and reset PC.
)
