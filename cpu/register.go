package cpu

import (
	"strings"
)

// Register is an index into the register bank.
type Register uint8

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_A  = Register(0) // A
	REG_B  = Register(1) // B
	REG_C  = Register(2) // C
	REG_D  = Register(3) // D
	REG_SP = Register(4) // SP
	REG_PC = Register(5) // PC
	REG_BP = Register(6) // BP
	REG_FL = Register(7) // FL
)

// Valid returns true if the register is part of the register bank.
func (r Register) Valid() bool {
	return r < REGISTER_COUNT
}

// ParseRegister looks up a register by name, ignoring case.
func ParseRegister(name string) (r Register, ok bool) {
	for n := range REGISTER_COUNT {
		r = Register(n)
		if strings.EqualFold(name, r.String()) {
			ok = true
			return
		}
	}

	r = 0
	return
}

// Flag is a condition bit in the FL register.
type Flag uint16

const (
	FLAG_COMPARE  = Flag(1 << 0) // Equality, or zero result.
	FLAG_NEGATIVE = Flag(1 << 1) // Sign bit of the result, or a < b.
	FLAG_OVERFLOW = Flag(1 << 2) // Unsigned overflow of the result.
)

// String returns the flags as a compact "CNO" string, '-' for clear bits.
func (fl Flag) String() string {
	out := []byte("---")
	for n, c := range "CNO" {
		if fl&(1<<n) != 0 {
			out[n] = byte(c)
		}
	}
	return string(out)
}
