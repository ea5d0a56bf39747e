package cpu

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Op is an instruction opcode, stored in the low byte of the instruction word.
type Op uint8

const (
	OP_NOP      = Op(0x00)
	OP_PUSH     = Op(0x01)
	OP_POP      = Op(0x02)
	OP_PUSH_REG = Op(0x03)
	OP_SIGNAL   = Op(0x0f)
	OP_MOV      = Op(0x10)
	OP_ADD      = Op(0x11)
	OP_SUB      = Op(0x12)
	OP_MUL      = Op(0x13)
	OP_DIV      = Op(0x14)
	OP_SHL      = Op(0x15)
	OP_SHR      = Op(0x16)
	OP_AND      = Op(0x17)
	OP_OR       = Op(0x18)
	OP_XOR      = Op(0x19)
	OP_NOT      = Op(0x1a)
	OP_CMP      = Op(0x1b)
	OP_JMP      = Op(0x20)
	OP_JE       = Op(0x21)
	OP_JNE      = Op(0x22)
	OP_LOAD     = Op(0x30)
	OP_STORE    = Op(0x31)
)

// Shape is the operand layout of an instruction.
type Shape int

//go:generate go tool stringer -linecomment -type=Shape
const (
	SHAPE_NONE   = Shape(0) // none
	SHAPE_IMM    = Shape(1) // imm8
	SHAPE_REG    = Shape(2) // reg
	SHAPE_REG2   = Shape(3) // reg,reg
	SHAPE_OFFSET = Shape(4) // offset
)

// opInfo describes one instruction of the table.
type opInfo struct {
	Name  string
	Shape Shape
}

// opTable is the instruction set.
var opTable = map[Op]opInfo{
	OP_NOP:      {"Nop", SHAPE_NONE},
	OP_PUSH:     {"Push", SHAPE_IMM},
	OP_POP:      {"Pop", SHAPE_REG},
	OP_PUSH_REG: {"PushReg", SHAPE_REG},
	OP_SIGNAL:   {"Signal", SHAPE_IMM},
	OP_MOV:      {"Mov", SHAPE_REG2},
	OP_ADD:      {"Add", SHAPE_REG2},
	OP_SUB:      {"Sub", SHAPE_REG2},
	OP_MUL:      {"Mul", SHAPE_REG2},
	OP_DIV:      {"Div", SHAPE_REG2},
	OP_SHL:      {"Shl", SHAPE_REG2},
	OP_SHR:      {"Shr", SHAPE_REG2},
	OP_AND:      {"And", SHAPE_REG2},
	OP_OR:       {"Or", SHAPE_REG2},
	OP_XOR:      {"Xor", SHAPE_REG2},
	OP_NOT:      {"Not", SHAPE_REG},
	OP_CMP:      {"Cmp", SHAPE_REG2},
	OP_JMP:      {"Jmp", SHAPE_OFFSET},
	OP_JE:       {"Je", SHAPE_OFFSET},
	OP_JNE:      {"Jne", SHAPE_OFFSET},
	OP_LOAD:     {"Load", SHAPE_REG2},
	OP_STORE:    {"Store", SHAPE_REG2},
}

// opByName maps lower-case instruction names to opcodes.
var opByName map[string]Op

func init() {
	opByName = make(map[string]Op, len(opTable))
	for op, info := range opTable {
		opByName[strings.ToLower(info.Name)] = op
	}
}

// Ops returns all opcodes of the instruction set, in numeric order.
func Ops() iter.Seq[Op] {
	return slices.Values(slices.Sorted(maps.Keys(opTable)))
}

// LookupOp finds an opcode by instruction name, ignoring case.
func LookupOp(name string) (op Op, ok bool) {
	op, ok = opByName[strings.ToLower(name)]
	return
}

// Valid returns true if the opcode is part of the instruction set.
func (op Op) Valid() bool {
	_, ok := opTable[op]
	return ok
}

// Shape returns the operand layout of the opcode.
func (op Op) Shape() Shape {
	return opTable[op].Shape
}

// String returns the instruction name of the opcode.
func (op Op) String() string {
	info, ok := opTable[op]
	if !ok {
		return fmt.Sprintf("Op(0x%02x)", uint8(op))
	}
	return info.Name
}

// Arity returns the number of operands in the shape.
func (s Shape) Arity() int {
	switch s {
	case SHAPE_IMM, SHAPE_REG, SHAPE_OFFSET:
		return 1
	case SHAPE_REG2:
		return 2
	default:
		return 0
	}
}

// Instruction is a decoded instruction word.
// Fields not used by the opcode's shape are zero.
type Instruction struct {
	Op    Op       // Opcode.
	A     Register // First register operand.
	B     Register // Second register operand.
	Value uint8    // Immediate, or two's complement branch offset.
}

// MakeNone creates an instruction without operands.
func MakeNone(op Op) Instruction {
	return Instruction{Op: op}
}

// MakeImm creates an instruction with an immediate byte.
func MakeImm(op Op, value uint8) Instruction {
	return Instruction{Op: op, Value: value}
}

// MakeReg creates an instruction with one register operand.
func MakeReg(op Op, r Register) Instruction {
	return Instruction{Op: op, A: r}
}

// MakeReg2 creates an instruction with two register operands.
func MakeReg2(op Op, a, b Register) Instruction {
	return Instruction{Op: op, A: a, B: b}
}

// MakeOffset creates a branch with an offset in instruction words,
// relative to the following instruction.
func MakeOffset(op Op, offset int8) Instruction {
	return Instruction{Op: op, Value: uint8(offset)}
}

// Offset returns the signed branch offset.
func (ins Instruction) Offset() int8 {
	return int8(ins.Value)
}

// shapeCodec packs and unpacks the high byte of an instruction word.
type shapeCodec struct {
	encode func(ins Instruction) uint8
	decode func(ins *Instruction, hi uint8) bool
	format func(ins Instruction) []string
}

var shapeTable = [...]shapeCodec{
	SHAPE_NONE: {
		encode: func(ins Instruction) uint8 { return 0 },
		decode: func(ins *Instruction, hi uint8) bool { return true },
		format: func(ins Instruction) []string { return nil },
	},
	SHAPE_IMM: {
		encode: func(ins Instruction) uint8 { return ins.Value },
		decode: func(ins *Instruction, hi uint8) bool {
			ins.Value = hi
			return true
		},
		format: func(ins Instruction) []string {
			return []string{fmt.Sprintf("$%02X", ins.Value)}
		},
	},
	SHAPE_REG: {
		encode: func(ins Instruction) uint8 { return uint8(ins.A) & 0xf },
		decode: func(ins *Instruction, hi uint8) bool {
			ins.A = Register(hi & 0xf)
			return ins.A.Valid()
		},
		format: func(ins Instruction) []string {
			return []string{ins.A.String()}
		},
	},
	SHAPE_REG2: {
		encode: func(ins Instruction) uint8 {
			return (uint8(ins.A) & 0xf) | (uint8(ins.B)&0xf)<<4
		},
		decode: func(ins *Instruction, hi uint8) bool {
			ins.A = Register(hi & 0xf)
			ins.B = Register(hi >> 4)
			return ins.A.Valid() && ins.B.Valid()
		},
		format: func(ins Instruction) []string {
			return []string{ins.A.String(), ins.B.String()}
		},
	},
	SHAPE_OFFSET: {
		encode: func(ins Instruction) uint8 { return ins.Value },
		decode: func(ins *Instruction, hi uint8) bool {
			ins.Value = hi
			return true
		},
		format: func(ins Instruction) []string {
			return []string{strconv.Itoa(int(ins.Offset()))}
		},
	},
}

// Encode packs the instruction into its 16-bit word.
func (ins Instruction) Encode() uint16 {
	hi := shapeTable[ins.Op.Shape()].encode(ins)
	return uint16(hi)<<8 | uint16(ins.Op)
}

// Bytes returns the encoded instruction, low byte first.
func (ins Instruction) Bytes() []uint8 {
	word := ins.Encode()
	return []uint8{uint8(word), uint8(word >> 8)}
}

// Decode unpacks a 16-bit instruction word.
func Decode(word uint16) (ins Instruction, err error) {
	op := Op(word & 0xff)
	info, ok := opTable[op]
	if !ok {
		err = ErrOpcode(word)
		return
	}

	ins.Op = op
	if !shapeTable[info.Shape].decode(&ins, uint8(word>>8)) {
		err = ErrOpcode(word)
		ins = Instruction{}
		return
	}

	return
}

// Operands returns the text form of each operand.
func (ins Instruction) Operands() []string {
	return shapeTable[ins.Op.Shape()].format(ins)
}

// String returns the assembly language representation of this instruction.
func (ins Instruction) String() string {
	return strings.Join(append([]string{ins.Op.String()}, ins.Operands()...), " ")
}
