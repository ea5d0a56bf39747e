package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))
	assert.Equal(0, len(asm.Label))

	code, err := asm.Assemble(nil)
	assert.NoError(err)
	assert.Equal([]uint8{}, code)
}

func opEqual(t *testing.T, expected, opcodes []Opcode) {
	assert := assert.New(t)

	assert.Equal(len(expected), len(opcodes))
	if len(expected) == len(opcodes) {
		for n := range len(expected) {
			assert.Equal(expected[n], opcodes[n])
		}
	}
}

func TestAssemblerParse(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"; counting program",
		"",
		"start:",
		"    Push $0A   ; ten",
		"    pop a",
		"loop:",
		"    SUB A B",
		"    jne ^loop",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Opcode{
		{4, 0, []string{"Push", "$0A"}, MakeImm(OP_PUSH, 10)},
		{5, 2, []string{"pop", "a"}, MakeReg(OP_POP, REG_A)},
		{7, 4, []string{"SUB", "A", "B"}, MakeReg2(OP_SUB, REG_A, REG_B)},
		{8, 6, []string{"jne", "^loop"}, MakeOffset(OP_JNE, -2)},
	}

	opEqual(t, expected, prog.Opcodes)

	assert.Equal(map[string]int{"start": 0, "loop": 4}, asm.Label)
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	code, err := asm.Assemble([]string{"start:", "Nop", "loop:", "Jmp ^loop"})
	assert.NoError(err)

	assert.Equal(0, asm.Label["start"])
	assert.Equal(2, asm.Label["loop"])

	// Jmp at 2 to 2 is -1 words from the next instruction.
	assert.Equal([]uint8{0x00, 0x00, 0x20, 0xff}, code)

	// Forward references and immediate label addresses.
	code, err = asm.Assemble([]string{
		"Jmp ^end",
		"Push ^data",
		"Nop",
		"end:",
		"data:",
	})
	assert.NoError(err)
	assert.Equal([]uint8{0x20, 0x02, 0x01, 0x06, 0x00, 0x00}, code)
}

func TestAssemblerNumbers(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line     string
		expected Instruction
	}){
		{"push 255", MakeImm(OP_PUSH, 255)},
		{"push $ff", MakeImm(OP_PUSH, 255)},
		{"push $FF", MakeImm(OP_PUSH, 255)},
		{"push %101", MakeImm(OP_PUSH, 5)},
		{"push 0", MakeImm(OP_PUSH, 0)},
		{"signal $F0", MakeImm(OP_SIGNAL, 0xf0)},
		{"jmp -1", MakeOffset(OP_JMP, -1)},
		{"jmp -128", MakeOffset(OP_JMP, -128)},
		{"jmp 127", MakeOffset(OP_JMP, 127)},
		{"jmp $FF", MakeOffset(OP_JMP, -1)},
		{"je %10", MakeOffset(OP_JE, 2)},
		{"push 'A'", MakeImm(OP_PUSH, 65)},
		{"push '\\n'", MakeImm(OP_PUSH, 10)},
		{"push $(3 * 4)", MakeImm(OP_PUSH, 12)},
		{"push $(1 << 7)", MakeImm(OP_PUSH, 128)},
		{"jmp $(-3)", MakeOffset(OP_JMP, -3)},
		{"push $('A' + 1)", MakeImm(OP_PUSH, 66)},
		{"NOP", MakeNone(OP_NOP)},
		{"pushREG fl", MakeReg(OP_PUSH_REG, REG_FL)},
		{"load c sp", MakeReg2(OP_LOAD, REG_C, REG_SP)},
		{"store d bp", MakeReg2(OP_STORE, REG_D, REG_BP)},
	}

	for _, entry := range table {
		asm := &Assembler{}
		code, err := asm.Assemble([]string{entry.line})
		assert.NoError(err, entry.line)
		assert.Equal(entry.expected.Bytes(), code, entry.line)
	}
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("SIG_HALT", 0xf0)
	asm.Predefine("BASE", 0x10)
	asm.Predefine("BASE", 0x20)

	code, err := asm.Assemble([]string{
		"here:",
		"push $(BASE + 1)",
		"push $(here + LINENO)",
		"signal $(SIG_HALT)",
	})
	assert.NoError(err)
	assert.Equal([]uint8{
		0x01, 0x21,
		0x01, 0x03,
		0x0f, 0xf0,
	}, code)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		lines  []string
		lineno int
		line   string
		err    error
	}){
		{"opcode", []string{"nop", "", "frob A"}, 3, "frob A", ErrInvalidOpCode("frob")},
		{"opcode_indented", []string{"nop", "    frob A   ; typo"}, 2, "    frob A   ; typo", ErrInvalidOpCode("frob")},
		{"arity_few", []string{"add A"}, 1, "add A", ErrArity{Expected: 2, Actual: 1}},
		{"arity_many", []string{"nop A"}, 1, "nop A", ErrArity{Expected: 0, Actual: 1}},
		{"register", []string{"pop E"}, 1, "pop E", ErrInvalidOperand("E")},
		{"number", []string{"push $GG"}, 1, "push $GG", ErrInvalidOperand("$GG")},
		{"range_imm", []string{"push 256"}, 1, "push 256", ErrValueRange},
		{"negative_imm", []string{"push -1"}, 1, "push -1", ErrValueRange},
		{"range_offset", []string{"jmp 300"}, 1, "jmp 300", ErrOffsetRange},
		{"label_missing", []string{"nop", "jmp ^nowhere ; far"}, 2, "jmp ^nowhere ; far", ErrLabelMissing("nowhere")},
		{"label_duplicate", []string{"a:", "nop", "a:"}, 3, "a:", ErrLabelDuplicate},
		{"label_syntax", []string{"bad label:"}, 1, "bad label:", ErrLabelSyntax},
		{"label_empty", []string{":"}, 1, ":", ErrLabelSyntax},
		{"expression", []string{"push $(nope)"}, 1, "push $(nope)", ErrParseExpression("nope")},
		{"expression_type", []string{`push $("a" + "b")`}, 1, `push $("a" + "b")`, ErrParseExpression(`"a" + "b"`)},
	}

	for _, entry := range table {
		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(strings.Join(entry.lines, "\n")))
		assert.Nil(prog, entry.name)
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax *ErrSyntax
		if assert.ErrorAs(err, &syntax, entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
			assert.Equal(entry.line, syntax.Line, entry.name)
		}

		_, err = asm.Assemble(entry.lines)
		assert.ErrorIs(err, entry.err, entry.name)
	}
}

func TestAssemblerOffsetRange(t *testing.T) {
	assert := assert.New(t)

	lines := []string{"top:"}
	for range 128 {
		lines = append(lines, "nop")
	}
	lines = append(lines, "jmp ^top")

	_, err := (&Assembler{}).Assemble(lines)
	assert.ErrorIs(err, ErrOffsetRange)
	assert.ErrorIs(err, ErrInvalidOperand("^top"))

	// One less fits exactly.
	code, err := (&Assembler{}).Assemble(lines[1:])
	assert.ErrorIs(err, ErrLabelMissing("top"))
	assert.Nil(code)

	lines = append([]string{"top:"}, lines[2:]...)
	code, err = (&Assembler{}).Assemble(lines)
	assert.NoError(err)
	assert.Equal([]uint8{0x20, 0x80}, code[len(code)-2:])
}

func TestAssemblerParseLine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("nop\nhere:\nnop\n"))
	assert.NoError(err)

	ins, err := asm.ParseLine("jmp ^here ; back", 0x10)
	assert.NoError(err)
	assert.Equal(MakeOffset(OP_JMP, -8), ins)

	ins, err = asm.ParseLine("  Mov A B  ", 0)
	assert.NoError(err)
	assert.Equal(MakeReg2(OP_MOV, REG_A, REG_B), ins)

	_, err = asm.ParseLine("; only a comment", 0)
	assert.ErrorIs(err, ErrInvalidOpCode(""))
	assert.False(errors.Is(err, ErrInvalidOperand("")))
}

func TestAssemblerDisassembler(t *testing.T) {
	assert := assert.New(t)

	source := []string{
		"Nop",
		"Push $0A",
		"Pop A",
		"PushReg FL",
		"Signal $F3",
		"Mov SP BP",
		"Add A B",
		"Sub C D",
		"Mul A A",
		"Div B C",
		"Shl D A",
		"Shr A D",
		"And B B",
		"Or C C",
		"Xor D D",
		"Not PC",
		"Cmp A B",
		"Jmp -3",
		"Je 0",
		"Jne 127",
		"Load A SP",
		"Store B BP",
	}

	code, err := (&Assembler{}).Assemble(source)
	assert.NoError(err)
	assert.Equal(len(source)*INSTRUCTION_SIZE, len(code))

	lines, err := DisassembleText(code)
	assert.NoError(err)
	assert.Equal(source, lines)

	again, err := (&Assembler{}).Assemble(lines)
	assert.NoError(err)
	assert.Equal(code, again)
}
