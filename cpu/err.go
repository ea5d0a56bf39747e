package cpu

import (
	"errors"

	"github.com/ezrec/jamvm/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrStackUnderflow  = errors.New(f("stack underflow"))
	ErrDivisionByZero  = errors.New(f("division by zero"))
	ErrRegisterInvalid = errors.New(f("register invalid"))

	// Disassembler errors
	ErrIncompleteInstruction = errors.New(f("incomplete instruction"))

	// Assembler errors
	ErrLabelDuplicate = errors.New(f("label duplicated"))
	ErrLabelSyntax    = errors.New(f("label syntax"))
	ErrOffsetRange    = errors.New(f("branch offset out of range"))
	ErrValueRange     = errors.New(f("value out of range"))
)

// ErrOpcode is an instruction word that does not decode.
type ErrOpcode uint16

func (eo ErrOpcode) Error() string {
	return f("unknown opcode 0x%02X in word 0x%04X", eo.Opcode(), uint16(eo))
}

// Is matches any ErrOpcode.
func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// Opcode returns the raw opcode byte.
func (eo ErrOpcode) Opcode() uint8 {
	return uint8(eo)
}

// ErrSignalUnknown is a Signal instruction without a registered handler.
type ErrSignalUnknown uint8

func (es ErrSignalUnknown) Error() string {
	return f("unknown signal 0x%02X", uint8(es))
}

// Is matches any ErrSignalUnknown.
func (es ErrSignalUnknown) Is(err error) (ok bool) {
	_, ok = err.(ErrSignalUnknown)
	return
}

// ErrFault is a failed instruction cycle, with the machine state at the time
// of the fault.
type ErrFault struct {
	Pc       uint16                 // Address of the faulting instruction.
	Register [REGISTER_COUNT]uint16 // Register bank when the fault was raised.
	Err      error
}

func (err *ErrFault) Error() string {
	return f("pc 0x%04X %v", err.Pc, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

// ErrInvalidOpCode is an unknown instruction name.
type ErrInvalidOpCode string

func (err ErrInvalidOpCode) Error() string {
	return f("invalid opcode `%v`", string(err))
}

// ErrArity is an instruction with the wrong number of operands.
type ErrArity struct {
	Expected int
	Actual   int
}

func (err ErrArity) Error() string {
	return f("expected %v operands, got %v", err.Expected, err.Actual)
}

// ErrInvalidOperand is an operand that does not parse.
type ErrInvalidOperand string

func (err ErrInvalidOperand) Error() string {
	return f("invalid operand '%v'", string(err))
}

// ErrLabelMissing is a reference to an undefined label.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrParseExpression is a $(...) expression that does not evaluate to an integer.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax locates an assembler error in the source.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
