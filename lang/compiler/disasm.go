package compiler

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Disassemble renders chunk's bytecode as one human-readable line per
// instruction, a plain textual dump for inspecting compiled output in
// tests, fixed to this package's opcode operand widths (no round-trip
// textual assembler is implemented). prog resolves the target of a
// CLOSURE instruction, whose inline descriptor count is the referenced
// function's own upvalue count.
func Disassemble(prog *Program, chunk *Chunk) []string {
	var lines []string
	code := chunk.Code
	pc := 0
	for pc < len(code) {
		op := Opcode(code[pc])
		start := pc
		pc++

		var line string
		switch op {
		case INT:
			v := int64(binary.LittleEndian.Uint64(code[pc:]))
			pc += 8
			line = fmt.Sprintf("int %d", v)

		case FLOAT:
			bits := binary.LittleEndian.Uint64(code[pc:])
			pc += 8
			line = fmt.Sprintf("float %g", math.Float64frombits(bits))

		case STRING_LITERAL:
			off := binary.LittleEndian.Uint64(code[pc:])
			length := binary.LittleEndian.Uint32(code[pc+8:])
			pc += 12
			line = fmt.Sprintf("string_literal %q", prog.Strings[off:off+uint64(length)])

		case ARRAY_LITERAL, MAP_LITERAL, CALL, CONSTRUCTOR:
			n := code[pc]
			pc++
			line = fmt.Sprintf("%s %d", op, n)

		case GET, SET, UPVALUE_GET, UPVALUE_SET, GLOBAL_GET, STRUCT_GET, STRUCT_SET, POP_V:
			v := binary.LittleEndian.Uint16(code[pc:])
			pc += 2
			line = fmt.Sprintf("%s %d", op, v)

		case JMP, JMP_Z, AND, OR:
			v := int16(binary.LittleEndian.Uint16(code[pc:]))
			pc += 2
			line = fmt.Sprintf("%s %+d (-> %d)", op, v, pc+int(v))

		case CLOSURE:
			ptr := binary.LittleEndian.Uint64(code[pc:])
			pc += 8
			target := prog.Functions[ptr]
			descs := make([]string, len(target.Upvalues))
			for i := range target.Upvalues {
				idx := binary.LittleEndian.Uint16(code[pc:])
				local := code[pc+2] != 0
				pc += 3
				descs[i] = fmt.Sprintf("%d/local=%v", idx, local)
			}
			line = fmt.Sprintf("closure %d %v", ptr, descs)

		default:
			line = op.String()
		}
		lines = append(lines, fmt.Sprintf("%04d %s", start, line))
	}
	return lines
}
