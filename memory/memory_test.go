// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinear(t *testing.T) {
	assert := assert.New(t)

	mem := NewLinear(1)
	assert.Equal(1024, mem.Size())

	assert.Equal(KILOBYTE, NewLinear(0).Size())
	assert.Equal(MAX_KILO_BYTES*KILOBYTE, NewLinear(1000).Size())
}

func TestLinearBounds(t *testing.T) {
	assert := assert.New(t)

	mem := NewLinear(1)

	table := [](struct {
		addr uint16
		ok   bool
	}){
		{0, true},
		{1023, true},
		{1024, false},
		{1025, false},
		{0xffff, false},
	}

	for _, entry := range table {
		err := mem.Write(entry.addr, 0x5a)
		if entry.ok {
			assert.NoError(err, "%#x", entry.addr)
			value, err := mem.Read(entry.addr)
			assert.NoError(err)
			assert.Equal(uint8(0x5a), value)
		} else {
			assert.Equal(ErrOutOfBounds(entry.addr), err, "%#x", entry.addr)
			_, err = mem.Read(entry.addr)
			assert.ErrorIs(err, ErrOutOfBounds(0))
		}
	}
}

func TestWord(t *testing.T) {
	assert := assert.New(t)

	mem := NewLinear(1)

	err := WriteWord(mem, 0x10, 0xbeef)
	assert.NoError(err)
	assert.Equal(uint8(0xef), mem.Data[0x10])
	assert.Equal(uint8(0xbe), mem.Data[0x11])

	value, err := ReadWord(mem, 0x10)
	assert.NoError(err)
	assert.Equal(uint16(0xbeef), value)

	// Straddling the end must not write the low byte.
	err = WriteWord(mem, 1023, 0x1234)
	assert.Equal(ErrOutOfBounds(1024), err)
	assert.Equal(uint8(0), mem.Data[1023])

	_, err = ReadWord(mem, 1023)
	assert.True(errors.Is(err, ErrOutOfBounds(0)))
}

func TestWordWrap(t *testing.T) {
	assert := assert.New(t)

	mem := NewLinear(64)

	err := WriteWord(mem, 0xffff, 0x1234)
	assert.Equal(ErrOutOfBounds(0x10000), err)
	assert.Equal(uint8(0), mem.Data[0xffff])
	assert.Equal(uint8(0), mem.Data[0])

	_, err = ReadWord(mem, 0xffff)
	assert.Equal(ErrOutOfBounds(0x10000), err)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	mem := NewLinear(1)

	err := Load(mem, []uint8{1, 2, 3}, 0x20)
	assert.NoError(err)
	assert.Equal([]uint8{1, 2, 3}, mem.Data[0x20:0x23])

	// Fails closed: nothing is written.
	err = Load(mem, []uint8{9, 9, 9, 9}, 1022)
	assert.Equal(ErrOutOfBounds(1024), err)
	assert.Equal([]uint8{0, 0}, mem.Data[1022:1024])
}

func TestCopy(t *testing.T) {
	assert := assert.New(t)

	mem := NewLinear(1)
	copy(mem.Data, []uint8{1, 2, 3, 4})

	err := Copy(mem, 0, 8, 4)
	assert.NoError(err)
	assert.Equal([]uint8{1, 2, 3, 4}, mem.Data[8:12])

	// Overlapping forward copy.
	err = Copy(mem, 0, 2, 4)
	assert.NoError(err)
	assert.Equal([]uint8{1, 2, 1, 2, 3, 4}, mem.Data[0:6])

	// Source out of range.
	err = Copy(mem, 1022, 0, 4)
	assert.Equal(ErrOutOfBounds(1024), err)
	assert.Equal([]uint8{1, 2, 1, 2}, mem.Data[0:4])

	// Destination out of range.
	err = Copy(mem, 0, 1022, 4)
	assert.Equal(ErrOutOfBounds(1024), err)
	assert.Equal([]uint8{0, 0}, mem.Data[1022:1024])

	// Negative length.
	err = Copy(mem, 0, 0, -1)
	assert.Equal(ErrOutOfBounds(-1), err)

	// Length far past the address space.
	err = Copy(mem, 0, 0, 1<<62)
	assert.Equal(ErrOutOfBounds(1024), err)
	assert.Equal([]uint8{1, 2, 1, 2}, mem.Data[0:4])
}

func TestDump(t *testing.T) {
	assert := assert.New(t)

	mem := NewLinear(1)
	mem.Data[0] = 0x01
	mem.Data[1] = 0x0a

	dump := Dump(mem)
	assert.Equal(512*5, len(dump))
	assert.Equal("010a 0000 ", dump[:10])
}

func TestErrOutOfBounds(t *testing.T) {
	assert := assert.New(t)

	err := error(ErrOutOfBounds(0x401))
	assert.Equal("out of bounds @ 0x401", err.Error())
	assert.ErrorIs(err, ErrOutOfBounds(7))
}
