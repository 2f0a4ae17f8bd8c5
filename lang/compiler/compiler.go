// Package compiler lowers a parsed and resolved AST into Matiria bytecode:
// one Chunk per function, direct emit-with-placeholder-then-backpatch jump
// handling, and a Program aggregating every function plus the global table
// and string constant pool. An AST that produced resolver errors must
// never reach Compile; its behaviour on such a tree is undefined.
package compiler

import (
	"encoding/binary"
	"math"

	"github.com/mna/matiria/lang/ast"
	"github.com/mna/matiria/lang/token"
	"github.com/mna/matiria/lang/types"
)

// Compile lowers chunk to a Program. chunk must already be validated by
// lang/resolver.Resolve with a nil error.
func Compile(chunk *ast.Chunk) *Program {
	c := &compiler{
		prog:        &Program{Name: chunk.Name},
		structCtors: make(map[string]int),
	}
	c.declareGlobals(chunk)
	c.compileGlobals(chunk)
	return c.prog
}

type compiler struct {
	prog        *Program
	structCtors map[string]int // struct name -> index into prog.Functions
}

// declareGlobals reserves a Program.Functions/Globals slot for every
// top-level declaration before any body is compiled, so forward references
// (a function calling one declared later, a struct nesting another struct
// declared later) resolve to a valid index.
func (c *compiler) declareGlobals(chunk *ast.Chunk) {
	for _, stmt := range chunk.Block.Stmts {
		switch n := stmt.(type) {
		case *ast.StructDecl:
			idx := len(c.prog.Functions)
			c.prog.Functions = append(c.prog.Functions, &Chunk{Name: n.Sym.Name() + ".ctor"})
			c.structCtors[n.Sym.Name()] = idx

		case *ast.FnDecl:
			c.reserveGlobal(n.Sym, false)
		case *ast.NativeFnDecl:
			c.reserveGlobal(n.Sym, true)
		}
	}
}

func (c *compiler) reserveGlobal(sym *ast.Symbol, isNative bool) {
	for len(c.prog.Globals) <= sym.Index {
		c.prog.Globals = append(c.prog.Globals, GlobalSlot{})
	}
	slot := GlobalSlot{Name: sym.Name(), IsNative: isNative}
	if !isNative {
		slot.FuncIndex = len(c.prog.Functions)
		c.prog.Functions = append(c.prog.Functions, &Chunk{Name: sym.Name()})
	}
	c.prog.Globals[sym.Index] = slot
}

func (c *compiler) compileGlobals(chunk *ast.Chunk) {
	for _, stmt := range chunk.Block.Stmts {
		switch n := stmt.(type) {
		case *ast.StructDecl:
			idx := c.structCtors[n.Sym.Name()]
			c.prog.Functions[idx] = c.compileStructCtor(n)

		case *ast.FnDecl:
			idx := c.prog.Globals[n.Sym.Index].FuncIndex
			c.prog.Functions[idx] = c.compileFunction(n.Sym.Name(), n.Params, n.Body)
		}
	}
}

// compileStructCtor builds the zero-arg chunk that materialises a default
// instance of a struct type: push each member default, CONSTRUCTOR n,
// RETURN. Called from the synthetic Call the resolver inserts for a
// struct-typed VarDecl without an initialiser.
func (c *compiler) compileStructCtor(n *ast.StructDecl) *Chunk {
	fc := &fnComp{c: c}
	for _, m := range n.Members {
		c.emitDefault(fc, m.Type)
	}
	fc.emitU8(CONSTRUCTOR, uint8(len(n.Members)))
	fc.emitOp(RETURN)
	return &Chunk{Name: n.Sym.Name() + ".ctor", Code: fc.code}
}

func (c *compiler) compileFunction(name string, params []*ast.Symbol, body *ast.Block) *Chunk {
	fc := &fnComp{c: c}
	if body != nil {
		c.compileBlock(fc, body)
	}
	fc.emitOp(NIL)
	fc.emitOp(RETURN)
	return &Chunk{Name: name, Code: fc.code, NumParams: len(params)}
}

// fnComp accumulates the bytecode of a single function or struct
// constructor being compiled.
type fnComp struct {
	c    *compiler
	code []byte
}

func (fc *fnComp) emitOp(op Opcode) { fc.code = append(fc.code, byte(op)) }

func (fc *fnComp) emitU8(op Opcode, v uint8) {
	fc.code = append(fc.code, byte(op), v)
}

func (fc *fnComp) emitU16(op Opcode, v uint16) {
	fc.code = append(fc.code, byte(op), 0, 0)
	binary.LittleEndian.PutUint16(fc.code[len(fc.code)-2:], v)
}

func (fc *fnComp) emitI64(op Opcode, v int64) {
	fc.code = append(fc.code, byte(op), 0, 0, 0, 0, 0, 0, 0, 0)
	binary.LittleEndian.PutUint64(fc.code[len(fc.code)-8:], uint64(v))
}

func (fc *fnComp) emitF64(op Opcode, v float64) {
	fc.code = append(fc.code, byte(op), 0, 0, 0, 0, 0, 0, 0, 0)
	binary.LittleEndian.PutUint64(fc.code[len(fc.code)-8:], math.Float64bits(v))
}

func (fc *fnComp) emitString(s string) {
	off, length := fc.c.prog.internString(s)
	fc.code = append(fc.code, byte(STRING_LITERAL), 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	base := len(fc.code) - 12
	binary.LittleEndian.PutUint64(fc.code[base:], off)
	binary.LittleEndian.PutUint32(fc.code[base+8:], length)
}

// emitJump appends op with a placeholder i16 operand and returns the
// offset of that operand so patchJump can later fix it up.
func (fc *fnComp) emitJump(op Opcode) int {
	fc.code = append(fc.code, byte(op), 0xFF, 0xFF)
	return len(fc.code) - 2
}

// patchJump backfills the placeholder at slot with the relative offset
// from the end of the jump's own operand to the current end of code.
func (fc *fnComp) patchJump(slot int) {
	offset := int16(len(fc.code) - slot - 2)
	binary.LittleEndian.PutUint16(fc.code[slot:], uint16(offset))
}

// emitBackwardJump emits an unconditional jump back to target (the offset
// recorded by markPos at the point to jump to), used by while's loop-back
// edge.
func (fc *fnComp) emitBackwardJump(target int) {
	slot := fc.emitJump(JMP)
	offset := int16(target - (slot + 2))
	binary.LittleEndian.PutUint16(fc.code[slot:], uint16(offset))
}

func (fc *fnComp) markPos() int { return len(fc.code) }

// emitDefault pushes the zero value of t: a struct-constructor default and
// a no-initialiser VarDecl's slot population share the same rule — EMPTY_*
// for heap container types, a literal zero for numeric/bool, NIL for
// anything else with no well-defined zero value.
func (c *compiler) emitDefault(fc *fnComp, t *types.Type) {
	u := t.Underlying()
	switch u.Kind {
	case types.Bool:
		fc.emitOp(FALSE)
	case types.Int:
		fc.emitI64(INT, 0)
	case types.Float:
		fc.emitF64(FLOAT, 0)
	case types.String:
		fc.emitOp(EMPTY_STRING)
	case types.Array:
		fc.emitOp(EMPTY_ARRAY)
	case types.Map:
		fc.emitOp(EMPTY_MAP)
	case types.Struct:
		idx := c.structCtors[u.Name]
		fc.emitI64(CLOSURE, int64(idx))
		fc.emitU8(CALL, 0)
	default: // Any, Func, Union, Void: no well-defined zero value
		fc.emitOp(NIL)
	}
}

// --- statements ---

func (c *compiler) compileBlock(fc *fnComp, b *ast.Block) {
	for _, s := range b.Stmts {
		c.compileStmt(fc, s)
	}
	if b.VarCount > 0 {
		fc.emitU16(POP_V, uint16(b.VarCount))
	}
}

func (c *compiler) compileStmt(fc *fnComp, s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Scope:
		c.compileBlock(fc, n.Block)

	case *ast.If:
		c.compileIf(fc, n)

	case *ast.While:
		c.compileWhile(fc, n)

	case *ast.Assignment:
		c.compileAssignment(fc, n)

	case *ast.Return:
		if n.Expr != nil {
			c.compileExpr(fc, n.Expr)
		} else {
			fc.emitOp(NIL)
		}
		fc.emitOp(RETURN)

	case *ast.CallStmt:
		c.compileExpr(fc, n.Call)
		fc.emitOp(POP)

	case *ast.VarDecl:
		if n.Init != nil {
			c.compileExpr(fc, n.Init)
		} else {
			c.emitDefault(fc, n.DeclType)
		}

	case *ast.ClosureDecl:
		c.compileClosureDecl(fc, n)

	case *ast.NativeFnDecl:
		// A locally-declared native function has no package-level binding to
		// point at; its slot holds nil, so calling it fails as a call to a
		// non-callable.
		fc.emitOp(NIL)

	case *ast.BadStmt:
		panic("compiler: BadStmt reached the compiler; tree was not fully validated")

	default:
		panic("compiler: unexpected stmt")
	}
}

func (c *compiler) compileIf(fc *fnComp, n *ast.If) {
	c.compileExpr(fc, n.Cond)
	elseJmp := fc.emitJump(JMP_Z)
	c.compileStmt(fc, n.Then)
	if n.Otherwise != nil {
		endJmp := fc.emitJump(JMP)
		fc.patchJump(elseJmp)
		c.compileStmt(fc, n.Otherwise)
		fc.patchJump(endJmp)
	} else {
		fc.patchJump(elseJmp)
	}
}

func (c *compiler) compileWhile(fc *fnComp, n *ast.While) {
	loopStart := fc.markPos()
	c.compileExpr(fc, n.Cond)
	exitJmp := fc.emitJump(JMP_Z)
	c.compileStmt(fc, n.Body)
	c.compileExpr(fc, n.Cond)
	backJmp := fc.emitJump(JMP_Z)
	fc.emitBackwardJump(loopStart)
	fc.patchJump(backJmp)
	fc.patchJump(exitJmp)
}

func (c *compiler) compileAssignment(fc *fnComp, n *ast.Assignment) {
	switch lhs := n.Lhs.(type) {
	case *ast.Primary:
		c.compileExpr(fc, n.Rhs)
		if lhs.Sym.IsUpvalue {
			fc.emitU16(UPVALUE_SET, uint16(lhs.Sym.Index))
		} else {
			fc.emitU16(SET, uint16(lhs.Sym.Index))
		}

	case *ast.Subscript:
		c.compileExpr(fc, lhs.Object)
		c.compileExpr(fc, lhs.Index)
		c.compileExpr(fc, n.Rhs)
		fc.emitOp(INDEX_SET)

	case *ast.Access:
		c.compileExpr(fc, lhs.Object)
		c.compileExpr(fc, n.Rhs)
		fc.emitU16(STRUCT_SET, uint16(lhs.MemberIndex))

	default:
		panic("compiler: unexpected assignment target")
	}
}

func (c *compiler) compileClosureDecl(fc *fnComp, n *ast.ClosureDecl) {
	inner := &fnComp{c: c}
	if n.Fn.Body != nil {
		c.compileBlock(inner, n.Fn.Body)
	}
	inner.emitOp(NIL)
	inner.emitOp(RETURN)

	upvalues := make([]UpvalueDesc, len(n.Upvalues))
	for i, uv := range n.Upvalues {
		upvalues[i] = UpvalueDesc{Index: uint16(uv.Index), IsLocal: uv.IsLocal}
	}
	idx := len(c.prog.Functions)
	c.prog.Functions = append(c.prog.Functions, &Chunk{
		Name:      n.Fn.Sym.Name(),
		Code:      inner.code,
		NumParams: len(n.Fn.Params),
		Upvalues:  upvalues,
	})

	fc.emitI64(CLOSURE, int64(idx))
	for _, uv := range upvalues {
		fc.code = append(fc.code, 0, 0, 0)
		base := len(fc.code) - 3
		binary.LittleEndian.PutUint16(fc.code[base:], uv.Index)
		if uv.IsLocal {
			fc.code[base+2] = 1
		}
	}
}

// --- expressions ---

func (c *compiler) compileExpr(fc *fnComp, e ast.Expr) {
	switch n := e.(type) {
	case *ast.Literal:
		c.compileLiteral(fc, n)

	case *ast.Primary:
		switch {
		case n.Sym.IsUpvalue:
			fc.emitU16(UPVALUE_GET, uint16(n.Sym.Index))
		case n.Sym.IsGlobal:
			fc.emitU16(GLOBAL_GET, uint16(n.Sym.Index))
		default:
			fc.emitU16(GET, uint16(n.Sym.Index))
		}

	case *ast.Unary:
		c.compileExpr(fc, n.Right)
		if n.Op == token.BANG {
			fc.emitOp(NOT)
		} else if n.Typ.Underlying().Kind == types.Int {
			fc.emitOp(NEGATE_I)
		} else {
			fc.emitOp(NEGATE_F)
		}

	case *ast.Binary:
		c.compileBinary(fc, n)

	case *ast.Grouping:
		c.compileExpr(fc, n.Inner)

	case *ast.Call:
		c.compileCall(fc, n)

	case *ast.Subscript:
		c.compileExpr(fc, n.Object)
		c.compileExpr(fc, n.Index)
		fc.emitOp(INDEX_GET)

	case *ast.Access:
		c.compileExpr(fc, n.Object)
		fc.emitU16(STRUCT_GET, uint16(n.MemberIndex))

	case *ast.ArrayLiteral:
		for _, el := range n.Elems {
			c.compileExpr(fc, el)
		}
		fc.emitU8(ARRAY_LITERAL, uint8(len(n.Elems)))

	case *ast.MapLiteral:
		for i := range n.Keys {
			c.compileExpr(fc, n.Keys[i])
			c.compileExpr(fc, n.Vals[i])
		}
		fc.emitU8(MAP_LITERAL, uint8(len(n.Keys)))

	case *ast.Cast:
		c.compileExpr(fc, n.Inner)
		if n.To.Underlying().Kind == types.Int {
			fc.emitOp(INT_CAST)
		} else {
			fc.emitOp(FLOAT_CAST)
		}

	case *ast.BadExpr:
		panic("compiler: BadExpr reached the compiler; tree was not fully validated")

	default:
		panic("compiler: unexpected expr")
	}
}

func (c *compiler) compileLiteral(fc *fnComp, n *ast.Literal) {
	switch n.Kind {
	case token.INT:
		fc.emitI64(INT, n.Tok.Int)
	case token.FLOAT:
		fc.emitF64(FLOAT, n.Tok.Float)
	case token.STRING:
		fc.emitString(n.Tok.String)
	case token.TRUE:
		fc.emitOp(TRUE)
	case token.FALSE:
		fc.emitOp(FALSE)
	default:
		panic("compiler: unexpected literal kind")
	}
}

// compileCall special-cases the synthetic struct-constructor call the
// resolver inserts for a struct-typed VarDecl with no initialiser: its
// callee is a Primary naming the struct type, which carries no runtime
// symbol to GET/GLOBAL_GET, so the constructor chunk is pushed directly
// via its reserved Program.Functions index instead.
func (c *compiler) compileCall(fc *fnComp, n *ast.Call) {
	if prim, ok := n.Callee.(*ast.Primary); ok && prim.Typ.Underlying().Kind == types.Struct {
		idx := c.structCtors[prim.Typ.Underlying().Name]
		fc.emitI64(CLOSURE, int64(idx))
		fc.emitU8(CALL, uint8(len(n.Args)))
		return
	}

	for _, a := range n.Args {
		c.compileExpr(fc, a)
	}
	c.compileExpr(fc, n.Callee)
	fc.emitU8(CALL, uint8(len(n.Args)))
}

func (c *compiler) compileBinary(fc *fnComp, n *ast.Binary) {
	switch n.Op {
	case token.AMPAMP:
		// AND pops and falls through to evaluate the RHS when the LHS is
		// true, or jumps past it leaving the false LHS as the result.
		c.compileExpr(fc, n.Left)
		jmp := fc.emitJump(AND)
		c.compileExpr(fc, n.Right)
		fc.patchJump(jmp)
		return

	case token.PIPEPIPE:
		c.compileExpr(fc, n.Left)
		jmp := fc.emitJump(OR)
		c.compileExpr(fc, n.Right)
		fc.patchJump(jmp)
		return
	}

	c.compileExpr(fc, n.Left)
	c.compileExpr(fc, n.Right)
	isInt := n.OperandType.Underlying().Kind == types.Int

	switch n.Op {
	case token.PLUS:
		fc.emitOp(pick(isInt, ADD_I, ADD_F))
	case token.MINUS:
		fc.emitOp(pick(isInt, SUB_I, SUB_F))
	case token.STAR:
		fc.emitOp(pick(isInt, MUL_I, MUL_F))
	case token.SLASH, token.SLASHSLASH:
		fc.emitOp(pick(isInt, DIV_I, DIV_F))
	case token.PERCENT:
		fc.emitOp(MOD_I)
	case token.LT:
		fc.emitOp(pick(isInt, LESS_I, LESS_F))
	case token.GT:
		fc.emitOp(pick(isInt, GREATER_I, GREATER_F))
	case token.EQ:
		fc.emitOp(pick(isInt, EQUAL_I, EQUAL_F))
	case token.LE: // a <= b  ==  !(a > b)
		fc.emitOp(pick(isInt, GREATER_I, GREATER_F))
		fc.emitOp(NOT)
	case token.GE: // a >= b  ==  !(a < b)
		fc.emitOp(pick(isInt, LESS_I, LESS_F))
		fc.emitOp(NOT)
	case token.NEQ: // a != b  ==  !(a = b)
		fc.emitOp(pick(isInt, EQUAL_I, EQUAL_F))
		fc.emitOp(NOT)
	default:
		panic("compiler: unexpected binary operator")
	}
}

func pick(isInt bool, i, f Opcode) Opcode {
	if isInt {
		return i
	}
	return f
}
