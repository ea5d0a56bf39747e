// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory implements the bounds-checked byte storage of the jamvm
// machine.
//
// Only Read and Write touch storage. The word, copy and load operations are
// built on top of them and check their whole range before changing anything,
// so a failing operation leaves memory untouched.
package memory

import (
	"fmt"
	"strings"
)

// Addressable is byte-addressed storage.
type Addressable interface {
	// Size returns the number of addressable bytes.
	Size() int
	// Read a byte from the address.
	Read(addr uint16) (value uint8, err error)
	// Write a byte to the address.
	Write(addr uint16, value uint8) (err error)
}

// offset returns addr+n as a 16-bit address, or ErrOutOfBounds if it
// leaves the address space.
func offset(addr uint16, n int) (uint16, error) {
	at := int(addr) + n
	if at < 0 || at > 0xffff {
		return 0, ErrOutOfBounds(at)
	}
	return uint16(at), nil
}

// probe checks that n bytes from addr are all addressable.
func probe(mem Addressable, addr uint16, n int) (err error) {
	for i := range n {
		var at uint16
		at, err = offset(addr, i)
		if err != nil {
			return
		}
		_, err = mem.Read(at)
		if err != nil {
			return
		}
	}
	return
}

// ReadWord reads a little-endian word: low byte at addr, high byte at addr+1.
func ReadWord(mem Addressable, addr uint16) (value uint16, err error) {
	lo, err := mem.Read(addr)
	if err != nil {
		return
	}

	next, err := offset(addr, 1)
	if err != nil {
		return
	}

	hi, err := mem.Read(next)
	if err != nil {
		return
	}

	value = uint16(hi)<<8 | uint16(lo)
	return
}

// WriteWord writes a little-endian word: low byte at addr, high byte at addr+1.
func WriteWord(mem Addressable, addr uint16, value uint16) (err error) {
	err = probe(mem, addr, 2)
	if err != nil {
		return
	}

	err = mem.Write(addr, uint8(value))
	if err != nil {
		return
	}

	return mem.Write(addr+1, uint8(value>>8))
}

// Copy n bytes from one address to another.
// Overlapping ranges copy as if through a temporary buffer.
func Copy(mem Addressable, from, to uint16, n int) (err error) {
	if n < 0 {
		err = ErrOutOfBounds(int(from) + n)
		return
	}

	err = probe(mem, from, n)
	if err != nil {
		return
	}

	buf := make([]uint8, n)
	for i := range n {
		buf[i], err = mem.Read(from + uint16(i))
		if err != nil {
			return
		}
	}

	return Load(mem, buf, to)
}

// Load writes data starting at the base address.
func Load(mem Addressable, data []uint8, base uint16) (err error) {
	err = probe(mem, base, len(data))
	if err != nil {
		return
	}

	for i, value := range data {
		err = mem.Write(base+uint16(i), value)
		if err != nil {
			return
		}
	}

	return
}

// Dump renders the memory as space separated hex words, in address order.
func Dump(mem Addressable) string {
	var sb strings.Builder

	size := mem.Size()
	for addr := 0; addr+1 < size; addr += 2 {
		lo, _ := mem.Read(uint16(addr))
		hi, _ := mem.Read(uint16(addr + 1))
		fmt.Fprintf(&sb, "%02x%02x ", lo, hi)
	}

	return sb.String()
}
