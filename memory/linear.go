package memory

const (
	KILOBYTE       = 1024 // Bytes per kilobyte.
	MAX_KILO_BYTES = 64   // Largest memory reachable by a 16-bit address.
)

// Linear is a flat zero-initialized byte array.
type Linear struct {
	Data []uint8
}

var _ Addressable = (*Linear)(nil)

// NewLinear creates a linear memory of the given size in kilobytes.
func NewLinear(kilobytes int) (mem *Linear) {
	kilobytes = max(1, min(kilobytes, MAX_KILO_BYTES))

	mem = &Linear{
		Data: make([]uint8, kilobytes*KILOBYTE),
	}

	return
}

// Size returns the number of bytes in memory.
func (mem *Linear) Size() int {
	return len(mem.Data)
}

// Read a byte from the address.
func (mem *Linear) Read(addr uint16) (value uint8, err error) {
	if int(addr) >= len(mem.Data) {
		err = ErrOutOfBounds(addr)
		return
	}

	value = mem.Data[addr]
	return
}

// Write a byte to the address.
func (mem *Linear) Write(addr uint16, value uint8) (err error) {
	if int(addr) >= len(mem.Data) {
		err = ErrOutOfBounds(addr)
		return
	}

	mem.Data[addr] = value
	return
}
