// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ezrec/jamvm/internal"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Assembler is a two pass assembler for the jamvm system.
//
// The first pass assigns a byte address to every label, so an instruction
// may refer to labels defined after it. The second pass assembles one
// instruction per line.
type Assembler struct {
	Verbose bool           // If set, verbosely logs the assembler actions.
	Label   map[string]int // Map of jump labels to byte addresses.

	predefine map[string]int // Predefined names for $(...) expressions.
}

// Predefine defines a new name for $(...) expressions, or redefines an
// existing one.
func (asm *Assembler) Predefine(name string, value int) {
	if asm.predefine == nil {
		asm.predefine = map[string]int{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// sourceLine is a non-empty line of source, with its comment removed.
type sourceLine struct {
	LineNo int
	Text   string
	Source string // Line as written.
}

// stripLine removes the comment and surrounding whitespace from a line.
func stripLine(text string) string {
	text, _, _ = strings.Cut(text, ";")
	return strings.TrimSpace(text)
}

// labelOf returns the label defined by a `name:` line.
func labelOf(text string) (label string, ok bool, err error) {
	label, ok = strings.CutSuffix(text, ":")
	if !ok {
		return
	}

	if len(label) == 0 || strings.ContainsFunc(label, unicode.IsSpace) {
		err = ErrLabelSyntax
	}

	return
}

// parseNumber parses `$hex`, `%binary` or decimal, with an optional
// leading '-'.
func parseNumber(word string) (value int, err error) {
	digits, negative := strings.CutPrefix(word, "-")

	base := 10
	switch {
	case strings.HasPrefix(digits, "$"):
		base = 16
		digits = digits[1:]
	case strings.HasPrefix(digits, "%"):
		base = 2
		digits = digits[1:]
	}

	v, err := strconv.ParseUint(digits, base, 16)
	if err != nil {
		err = ErrInvalidOperand(word)
		return
	}

	value = int(v)
	if negative {
		value = -value
	}

	return
}

// labelAddress returns the byte address of a label.
func (asm *Assembler) labelAddress(label string) (addr int, err error) {
	addr, ok := asm.Label[label]
	if !ok {
		err = ErrLabelMissing(label)
		return
	}

	return
}

// register parses a register operand.
func (asm *Assembler) register(word string) (r Register, err error) {
	r, ok := ParseRegister(word)
	if !ok {
		err = ErrInvalidOperand(word)
		return
	}

	return
}

// immediate parses an 8-bit value; `^label` is the label's address.
func (asm *Assembler) immediate(word string) (value uint8, err error) {
	var n int
	if label, ok := strings.CutPrefix(word, "^"); ok {
		n, err = asm.labelAddress(label)
	} else {
		n, err = parseNumber(word)
	}
	if err != nil {
		return
	}

	if n < 0 || n > math.MaxUint8 {
		err = errors.Join(ErrInvalidOperand(word), ErrValueRange)
		return
	}

	value = uint8(n)
	return
}

// offset parses a branch offset in instruction words; `^label` is the
// distance from the next instruction to the label.
func (asm *Assembler) offset(word string, next int) (value int8, err error) {
	if label, ok := strings.CutPrefix(word, "^"); ok {
		var addr int
		addr, err = asm.labelAddress(label)
		if err != nil {
			return
		}
		delta := (addr - next) / INSTRUCTION_SIZE
		if delta < math.MinInt8 || delta > math.MaxInt8 {
			err = errors.Join(ErrInvalidOperand(word), ErrOffsetRange)
			return
		}
		value = int8(delta)
		return
	}

	n, err := parseNumber(word)
	if err != nil {
		return
	}

	switch {
	case n >= math.MinInt8 && n <= math.MaxInt8:
		value = int8(n)
	case n > math.MaxInt8 && n <= math.MaxUint8:
		// Raw two's complement byte.
		value = int8(uint8(n))
	default:
		err = errors.Join(ErrInvalidOperand(word), ErrOffsetRange)
	}

	return
}

// shapeParser assembles the operands of each instruction shape.
var shapeParser = [...]func(asm *Assembler, op Op, args []string, next int) (Instruction, error){
	SHAPE_NONE: func(asm *Assembler, op Op, args []string, next int) (ins Instruction, err error) {
		ins = MakeNone(op)
		return
	},
	SHAPE_IMM: func(asm *Assembler, op Op, args []string, next int) (ins Instruction, err error) {
		value, err := asm.immediate(args[0])
		if err != nil {
			return
		}
		ins = MakeImm(op, value)
		return
	},
	SHAPE_REG: func(asm *Assembler, op Op, args []string, next int) (ins Instruction, err error) {
		r, err := asm.register(args[0])
		if err != nil {
			return
		}
		ins = MakeReg(op, r)
		return
	},
	SHAPE_REG2: func(asm *Assembler, op Op, args []string, next int) (ins Instruction, err error) {
		a, err := asm.register(args[0])
		if err != nil {
			return
		}
		b, err := asm.register(args[1])
		if err != nil {
			return
		}
		ins = MakeReg2(op, a, b)
		return
	},
	SHAPE_OFFSET: func(asm *Assembler, op Op, args []string, next int) (ins Instruction, err error) {
		offset, err := asm.offset(args[0], next)
		if err != nil {
			return
		}
		ins = MakeOffset(op, offset)
		return
	},
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string, lineno int, ip int) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, v := range asm.predefine {
		pred[key] = starlark.MakeInt(v)
	}
	for key, v := range asm.Label {
		pred[key] = starlark.MakeInt(v)
	}
	pred["LINENO"] = starlark.MakeInt(lineno)
	pred["IP"] = starlark.MakeInt(ip)

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < math.MinInt32 || st_int64 > math.MaxInt32 {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
)

// expand replaces character literals and $(...) expressions with their
// decimal values.
func (asm *Assembler) expand(line string, lineno int, ip int) (text string, err error) {
	// Do 'x' evaluations
	text = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return strconv.Itoa(int(str[0]))
	})

	// Do $() evaluations
	text = reExpression.ReplaceAllStringFunc(text, func(str string) string {
		value, _err := asm.parenEval(str[2:len(str)-1], lineno, ip)
		if _err != nil {
			if err == nil {
				err = _err
			}
			return str
		}
		return strconv.Itoa(value)
	})

	return
}

// parseLine assembles a single stripped line into an opcode at an address.
func (asm *Assembler) parseLine(line string, lineno int, ip int) (opcode Opcode, err error) {
	text, err := asm.expand(line, lineno, ip)
	if err != nil {
		return
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		err = ErrInvalidOpCode(line)
		return
	}

	op, ok := LookupOp(words[0])
	if !ok {
		err = ErrInvalidOpCode(words[0])
		return
	}

	args := words[1:]
	shape := op.Shape()
	if len(args) != shape.Arity() {
		err = ErrArity{Expected: shape.Arity(), Actual: len(args)}
		return
	}

	ins, err := shapeParser[shape](asm, op, args, ip+INSTRUCTION_SIZE)
	if err != nil {
		return
	}

	opcode = Opcode{
		LineNo:      lineno,
		Ip:          ip,
		Words:       words,
		Instruction: ins,
	}

	return
}

// ParseLine assembles a single line of source to be placed at an address.
// Labels from the last Parse remain visible.
func (asm *Assembler) ParseLine(line string, ip uint16) (ins Instruction, err error) {
	opcode, err := asm.parseLine(stripLine(line), 0, int(ip))
	if err != nil {
		return
	}

	ins = opcode.Instruction
	return
}

// Parse parses an input stream into a Program containing opcodes.
// Errors are reported as *ErrSyntax, locating the first failing line.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	var line sourceLine

	defer func() {
		if err != nil {
			prog = nil
			err = &ErrSyntax{LineNo: line.LineNo, Line: line.Source, Err: err}
		}
	}()

	var lines []sourceLine

	scanner := bufio.NewScanner(input)
	lineno := 0
	for scanner.Scan() {
		lineno += 1
		source := scanner.Text()
		text := stripLine(source)
		if len(text) == 0 {
			continue
		}
		lines = append(lines, sourceLine{LineNo: lineno, Text: text, Source: source})
	}
	err = scanner.Err()
	if err != nil {
		line.LineNo = lineno
		return
	}

	// Pass one: label addresses.
	if asm.Label == nil {
		asm.Label = make(map[string]int, 16)
	}
	clear(asm.Label)

	ip := PROGRAM_BASE
	for _, line = range lines {
		label, is_label, _err := labelOf(line.Text)
		if _err != nil {
			err = _err
			return
		}
		if !is_label {
			ip += INSTRUCTION_SIZE
			continue
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		if asm.Verbose {
			log.Printf("%v: %v = 0x%04x\n", line.LineNo, label, ip)
		}
		asm.Label[label] = ip
	}

	// Pass two: instructions.
	prog = &Program{}
	ip = PROGRAM_BASE
	for _, line = range lines {
		_, is_label, _ := labelOf(line.Text)
		if is_label {
			continue
		}

		if asm.Verbose {
			log.Printf("%v: %v\n", line.LineNo, line.Text)
		}

		var opcode Opcode
		opcode, err = asm.parseLine(line.Text, line.LineNo, ip)
		if err != nil {
			return
		}

		prog.Opcodes = append(prog.Opcodes, opcode)
		ip += INSTRUCTION_SIZE
	}

	return
}

// Assemble assembles source lines into a binary image.
func (asm *Assembler) Assemble(lines []string) (code []uint8, err error) {
	prog, err := asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		return
	}

	code = prog.Binary()
	if code == nil {
		code = []uint8{}
	}

	return
}

// String returns the label table as text.
func (asm *Assembler) String() (text string) {
	for label, addr := range internal.IterSeq2Sorted(maps.All(asm.Label)) {
		text += fmt.Sprintf("%v: 0x%04x\n", label, addr)
	}
	return
}
