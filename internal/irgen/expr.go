package irgen

import (
	"math"

	"golang.org/x/sys/unix"

	"fcx/internal/ast"
	"fcx/internal/ir"
)

// Generator implements ast.ExprVisitor. Every expression lowering
// returns a vreg holding the expression's value; side effects are
// appended to the current block before returning (§4.5.1).

func (g *Generator) VisitLiteral(e *ast.Literal) interface{} {
	switch e.Kind {
	case ast.IntLit:
		v := g.fn.NewVReg(ir.TyI64)
		ir.EmitConst(g.cur(), v, e.Int)
		return v
	case ast.BigIntLit:
		t := bigIntType(len(e.Limbs))
		v := g.fn.NewVReg(t)
		ir.EmitConstBig(g.cur(), v, e.Limbs)
		return v
	case ast.FloatLit:
		v := g.fn.NewVReg(ir.TyF64)
		ir.EmitConst(g.cur(), v, int64(math.Float64bits(e.Float)))
		return v
	case ast.StringLit:
		return g.internLiteral([]byte(e.Str), ir.FlagStringRef)
	case ast.RawBytesLit:
		return g.internLiteral(e.Bytes, ir.FlagRawBytesRef)
	case ast.CharLit:
		v := g.fn.NewVReg(ir.TyI8)
		ir.EmitConst(g.cur(), v, e.Int)
		return v
	case ast.BoolLit:
		v := g.fn.NewVReg(ir.TyBool)
		b := int64(0)
		if e.Bool {
			b = 1
		}
		ir.EmitConst(g.cur(), v, b)
		return v
	}
	return ir.VRegID(0)
}

// internLiteral interns bytes into the module string table and emits a
// constant instruction holding the negated id, setting the matching
// flag bit on the result vreg (§3.4, §4.5.1, §9).
func (g *Generator) internLiteral(bytes []byte, flag int) ir.VRegID {
	id := g.module.Strings.Intern(bytes)
	v := g.fn.NewVReg(ir.TyPtr)
	ir.EmitConst(g.cur(), v, int64(-id))
	g.fn.SetVRegFlags(v, flag)
	return v
}

func (g *Generator) VisitIdentifier(e *ast.Identifier) interface{} {
	sym, ok := g.lookup(e.Name)
	if !ok {
		g.fail(e.Pos, "undefined identifier "+e.Name)
		return ir.VRegID(0)
	}
	if sym.isGlobal {
		info := g.module.Globals[sym.globalIndex]
		v := g.fn.NewVReg(info.Type)
		ir.EmitLoadGlobal(g.cur(), v, sym.globalIndex)
		return v
	}
	return sym.vreg
}

// binaryOpcode maps a surface operator token to its IR opcode. The
// mapping is many-to-one: saturating/wrapping/checked variants of
// add/sub/mul all collapse to the plain arithmetic opcode at this
// level (§4.5.2) — the variant distinction is for a later lowering
// pass, out of scope here.
func binaryOpcode(op string) (opcode ir.Opcode, isCompare bool) {
	switch op {
	case "+", "+%", "+|", "+?":
		return ir.OpAdd, false
	case "-", "-%", "-|", "-?":
		return ir.OpSub, false
	case "*", "*%":
		return ir.OpMul, false
	case "/":
		return ir.OpDiv, false
	case "%":
		return ir.OpMod, false
	case "&":
		return ir.OpAnd, false
	case "|":
		return ir.OpOr, false
	case "^":
		return ir.OpXor, false
	case "<<":
		return ir.OpShl, false
	case ">>":
		return ir.OpAShr, false
	case ">>>":
		return ir.OpLShr, false
	case "<<<":
		return ir.OpRotl, false
	case ">>>>":
		return ir.OpRotr, false
	case "==":
		return ir.OpCmpEq, true
	case "!=":
		return ir.OpCmpNe, true
	case "<":
		return ir.OpCmpLt, true
	case "<=":
		return ir.OpCmpLe, true
	case ">":
		return ir.OpCmpGt, true
	case ">=":
		return ir.OpCmpGe, true
	}
	return ir.OpAdd, false
}

func (g *Generator) VisitBinary(e *ast.Binary) interface{} {
	if e.Op == "," {
		return g.lowerComma(e)
	}
	lhs := g.lowerExpr(e.Left)
	rhs := g.lowerExpr(e.Right)
	op, isCompare := binaryOpcode(e.Op)
	dstType := g.vregType(lhs)
	if isCompare {
		dstType = ir.TyBool
	}
	dst := g.fn.NewVReg(dstType)
	ir.EmitBinary(g.cur(), op, dst, lhs, rhs)
	return dst
}

// lowerComma implements §4.5.2's "Comma with left=syscall-op" fold: a
// write/read syscall-op's (fd, buffer) recombines with the comma's
// right operand as length into a single three-argument syscall
// instruction. This is a lowering-time fold (an IR-generator
// responsibility), not a grammar-level rewrite — the parser contract
// of §3.3 models comma as an ordinary binary expression with no
// special production, so the generator is the only place that can see
// both operands together.
func (g *Generator) lowerComma(e *ast.Binary) interface{} {
	if sc, ok := e.Left.(*ast.SyscallOp); ok && (sc.Kind == ast.SyscallWrite || sc.Kind == ast.SyscallRead) && len(sc.Args) >= 2 {
		fd := g.lowerExpr(sc.Args[0])
		buf := g.lowerExpr(sc.Args[1])
		length := g.lowerExpr(e.Right)
		num := unix.SYS_WRITE
		if sc.Kind == ast.SyscallRead {
			num = unix.SYS_READ
		}
		dst := g.fn.NewVReg(ir.TyI64)
		ir.EmitSyscall(g.cur(), dst, num, []ir.VRegID{fd, buf, length})
		return dst
	}
	g.lowerExpr(e.Left)
	return g.lowerExpr(e.Right)
}

var intrinsicNames = map[string]bool{
	"popcount": true, "clz": true, "ctz": true, "byteswap": true,
	"sqrt": true, "rsqrt": true, "floor": true, "ceil": true,
	"trunc": true, "round": true, "abs": true,
}

func (g *Generator) VisitUnary(e *ast.Unary) interface{} {
	switch e.Op {
	case "-":
		// Open-question resolution (§9): the parser's unary-minus over
		// an int literal is treated as a negative-literal special case.
		if lit, ok := e.Operand.(*ast.Literal); ok && lit.Kind == ast.IntLit {
			v := g.fn.NewVReg(ir.TyI64)
			ir.EmitConst(g.cur(), v, -lit.Int)
			return v
		}
		src := g.lowerExpr(e.Operand)
		dst := g.fn.NewVReg(g.vregType(src))
		ir.EmitUnary(g.cur(), ir.OpNeg, dst, src)
		return dst
	case "~":
		src := g.lowerExpr(e.Operand)
		dst := g.fn.NewVReg(g.vregType(src))
		ir.EmitUnary(g.cur(), ir.OpNot, dst, src)
		return dst
	case "~@":
		ptr := g.lowerExpr(e.Operand)
		dst := g.fn.NewVReg(ir.TyI64)
		ir.EmitAtomicLoad(g.cur(), dst, ptr)
		return dst
	case "!":
		return g.lowerPrint(e.Operand)
	}
	if intrinsicNames[e.Op] {
		arg := g.lowerExpr(e.Operand)
		dst := g.fn.NewVReg(g.vregType(arg))
		ir.EmitCall(g.cur(), dst, "_fcx_intrinsic", []ir.VRegID{arg})
		return dst
	}
	g.fail(e.Pos, "unknown unary operator "+e.Op)
	return ir.VRegID(0)
}

func isIntLiteral(e ast.Expr) bool {
	l, ok := e.(*ast.Literal)
	return ok && l.Kind == ast.IntLit
}

// lowerPrint implements the print operator's type-directed dispatch
// (§4.5.2): literal strings print via _fcx_println, literal integers
// (including a unary-minus'd int literal) via _fcx_println_int, and
// everything else dispatches on the operand vreg's type.
func (g *Generator) lowerPrint(operand ast.Expr) ir.VRegID {
	if lit, ok := operand.(*ast.Literal); ok && lit.Kind == ast.StringLit {
		v := g.lowerExpr(operand)
		dst := g.fn.NewVReg(ir.TyI64)
		ir.EmitCall(g.cur(), dst, "_fcx_println", []ir.VRegID{v})
		return dst
	}
	neg, isNeg := operand.(*ast.Unary)
	literalInt := isIntLiteral(operand) || (isNeg && neg.Op == "-" && isIntLiteral(neg.Operand))
	if literalInt {
		v := g.lowerExpr(operand)
		dst := g.fn.NewVReg(ir.TyI64)
		ir.EmitCall(g.cur(), dst, "_fcx_println_int", []ir.VRegID{v})
		return dst
	}
	v := g.lowerExpr(operand)
	dst := g.fn.NewVReg(ir.TyI64)
	ir.EmitCall(g.cur(), dst, printEntryFor(g.vregType(v)), []ir.VRegID{v})
	return dst
}

func printEntryFor(t ir.VRegType) string {
	switch t {
	case ir.TyI128:
		return "_fcx_println_i128"
	case ir.TyI256:
		return "_fcx_println_i256"
	case ir.TyI512:
		return "_fcx_println_i512"
	case ir.TyI1024:
		return "_fcx_println_i1024"
	case ir.TyU128:
		return "_fcx_println_u128"
	case ir.TyU256:
		return "_fcx_println_u256"
	case ir.TyU512:
		return "_fcx_println_u512"
	case ir.TyU1024:
		return "_fcx_println_u1024"
	case ir.TyF32:
		return "_fcx_println_f32"
	case ir.TyF64:
		return "_fcx_println_f64"
	case ir.TyBool:
		return "_fcx_println_bool"
	case ir.TyPtr, ir.TyRawPtr, ir.TyBytePtr:
		return "_fcx_println_ptr"
	case ir.TyU8:
		return "_fcx_println_u8"
	default:
		return "_fcx_println_int"
	}
}

// lowerConditional implements ternary and conditional-expression
// lowering, which share a shape (§3.3) and the §4.5.3 block-creation
// protocol; the merge value is produced via mov into a stable vreg,
// the SSA-lite substitute for a phi (§9).
func (g *Generator) lowerConditional(cond, thenE, elseE ast.Expr) ir.VRegID {
	c := g.lowerExpr(cond)
	startID := g.block

	thenID := g.fn.CreateBlock(g.newLabel("cond.then"))
	elseID := g.fn.CreateBlock(g.newLabel("cond.else"))
	mergeID := g.fn.CreateBlock(g.newLabel("cond.merge"))
	ir.EmitBranch(g.fn.Block(startID), c, thenID, elseID)

	g.block = thenID
	thenVal := g.lowerExpr(thenE)
	result := g.fn.NewVReg(g.vregType(thenVal))
	if !g.cur().HasTerminator() {
		ir.EmitMov(g.cur(), result, thenVal)
		ir.EmitJump(g.cur(), mergeID)
	}

	g.block = elseID
	elseVal := g.lowerExpr(elseE)
	if !g.cur().HasTerminator() {
		ir.EmitMov(g.cur(), result, elseVal)
		ir.EmitJump(g.cur(), mergeID)
	}

	g.block = mergeID
	return result
}

func (g *Generator) VisitTernary(e *ast.Ternary) interface{} {
	return g.lowerConditional(e.Cond, e.Then, e.Else)
}

func (g *Generator) VisitConditional(e *ast.Conditional) interface{} {
	return g.lowerConditional(e.Cond, e.Then, e.Else)
}

// assignTo implements the four assignment-target forms of §4.5.2.
func (g *Generator) assignTo(target ast.Expr, val ir.VRegID) {
	switch t := target.(type) {
	case *ast.Identifier:
		sym, ok := g.lookup(t.Name)
		if !ok {
			g.defineLocal(t.Name, val)
			return
		}
		if sym.isGlobal {
			ir.EmitStoreGlobal(g.cur(), sym.globalIndex, val)
			return
		}
		// Existing local: mov into the same slot, not rebound (§4.5.2).
		ir.EmitMov(g.cur(), sym.vreg, val)
	case *ast.Dereference:
		ptr := g.lowerExpr(t.Pointer)
		ir.EmitStore(g.cur(), ptr, val)
	case *ast.Index:
		addr := g.lowerIndexAddr(t)
		ir.EmitStore(g.cur(), addr, val)
	default:
		g.fail(target.Position(), "invalid assignment target")
	}
}

func (g *Generator) VisitAssign(e *ast.Assign) interface{} {
	val := g.lowerExpr(e.Value)
	g.assignTo(e.Target, val)
	return val
}

func (g *Generator) VisitMultiAssign(e *ast.MultiAssign) interface{} {
	vals := make([]ir.VRegID, len(e.Values))
	for i, v := range e.Values {
		vals[i] = g.lowerExpr(v)
	}
	for i, t := range e.Targets {
		if i < len(vals) {
			g.assignTo(t, vals[i])
		}
	}
	if len(vals) > 0 {
		return vals[len(vals)-1]
	}
	return ir.VRegID(0)
}

func (g *Generator) VisitCall(e *ast.Call) interface{} {
	name := "?"
	if ident, ok := e.Callee.(*ast.Identifier); ok {
		name = ident.Name
	}
	args := make([]ir.VRegID, len(e.Args))
	for i, a := range e.Args {
		args[i] = g.lowerExpr(a)
	}
	dst := g.fn.NewVReg(ir.TyI64)
	ir.EmitCall(g.cur(), dst, name, args)
	return dst
}

// lowerIndexAddr computes base + index*element_size (default 8, §4.5.2).
func (g *Generator) lowerIndexAddr(idx *ast.Index) ir.VRegID {
	base := g.lowerExpr(idx.BaseExpr)
	index := g.lowerExpr(idx.IndexExpr)
	elemSize := idx.ElementSize
	if elemSize == 0 {
		elemSize = 8
	}
	sizeVreg := g.fn.NewVReg(ir.TyI64)
	ir.EmitConst(g.cur(), sizeVreg, int64(elemSize))
	offset := g.fn.NewVReg(ir.TyI64)
	ir.EmitBinary(g.cur(), ir.OpMul, offset, index, sizeVreg)
	addr := g.fn.NewVReg(ir.TyPtr)
	ir.EmitPtrArith(g.cur(), ir.OpPtrAdd, addr, base, offset)
	return addr
}

func (g *Generator) VisitIndex(e *ast.Index) interface{} {
	addr := g.lowerIndexAddr(e)
	dst := g.fn.NewVReg(ir.TyI64)
	ir.EmitLoad(g.cur(), dst, addr)
	return dst
}

func (g *Generator) VisitDereference(e *ast.Dereference) interface{} {
	ptr := g.lowerExpr(e.Pointer)
	if e.IsWrite {
		val := g.lowerExpr(e.Value)
		ir.EmitStore(g.cur(), ptr, val)
		return val
	}
	dst := g.fn.NewVReg(ir.TyI64)
	ir.EmitLoad(g.cur(), dst, ptr)
	return dst
}

func (g *Generator) VisitSyscallOp(e *ast.SyscallOp) interface{} {
	switch e.Kind {
	case ast.SyscallWrite, ast.SyscallRead:
		// §4.5.2 fixes write=1/read=0, which happens to be exactly
		// Linux amd64's own SYS_write/SYS_read numbering.
		num := unix.SYS_WRITE
		if e.Kind == ast.SyscallRead {
			num = unix.SYS_READ
		}
		args := make([]ir.VRegID, len(e.Args))
		for i, a := range e.Args {
			args[i] = g.lowerExpr(a)
		}
		dst := g.fn.NewVReg(ir.TyI64)
		ir.EmitSyscall(g.cur(), dst, num, args)
		return dst
	case ast.SyscallRaw:
		numVreg := g.lowerExpr(e.Number)
		args := make([]ir.VRegID, len(e.Args))
		for i, a := range e.Args {
			args[i] = g.lowerExpr(a)
		}
		dst := g.fn.NewVReg(ir.TyI64)
		ir.EmitSyscallRaw(g.cur(), dst, numVreg, args)
		return dst
	}
	return ir.VRegID(0)
}

func (g *Generator) VisitAtomicOp(e *ast.AtomicOp) interface{} {
	ptr := g.lowerExpr(e.Pointer)
	switch e.Kind {
	case ast.AtomicRead:
		dst := g.fn.NewVReg(ir.TyI64)
		ir.EmitAtomicLoad(g.cur(), dst, ptr)
		return dst
	case ast.AtomicWrite:
		val := g.lowerExpr(e.Value)
		ir.EmitAtomicStore(g.cur(), ptr, val)
		return val
	case ast.AtomicSwap:
		val := g.lowerExpr(e.Value)
		dst := g.fn.NewVReg(ir.TyI64)
		ir.EmitAtomicSwap(g.cur(), dst, ptr, val)
		return dst
	case ast.AtomicCAS:
		expected := g.lowerExpr(e.Expected)
		newVal := g.lowerExpr(e.New)
		dst := g.fn.NewVReg(ir.TyBool)
		ir.EmitAtomicCAS(g.cur(), dst, ptr, expected, newVal)
		return dst
	}
	return ir.VRegID(0)
}

// slabHash is FNV-1a over the ASCII bytes of the type-name operand, or
// over "unknown" if absent (§4.5.2).
func (g *Generator) slabHash(e ast.Expr) uint64 {
	name := "unknown"
	switch t := e.(type) {
	case *ast.Identifier:
		name = t.Name
	case *ast.Literal:
		if t.Kind == ast.StringLit {
			name = t.Str
		}
	}
	return fnv1a(name)
}

func fnv1a(s string) uint64 {
	const offsetBasis uint64 = 14695981039346656037
	const prime uint64 = 1099511628211
	h := offsetBasis
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	return h
}

func (g *Generator) constAlignOrDefault(e ast.Expr) int {
	if e == nil {
		return 8
	}
	if lit, ok := e.(*ast.Literal); ok && lit.Kind == ast.IntLit {
		return int(lit.Int)
	}
	g.lowerExpr(e) // still evaluated for any side effect
	return 8
}

func (g *Generator) VisitMemoryOp(e *ast.MemoryOp) interface{} {
	switch e.Kind {
	case ast.MemAllocate:
		size := g.lowerExpr(e.Size)
		align := g.constAlignOrDefault(e.Align)
		dst := g.fn.NewVReg(ir.TyPtr)
		ir.EmitAlloc(g.cur(), dst, size, align)
		return dst
	case ast.MemDeallocate:
		ptr := g.lowerExpr(e.Pointer)
		ir.EmitDealloc(g.cur(), ptr)
		return ptr
	case ast.MemStackAlloc:
		size := g.lowerExpr(e.Size)
		dst := g.fn.NewVReg(ir.TyPtr)
		ir.EmitStackAlloc(g.cur(), dst, size)
		return dst
	case ast.MemStackFree:
		return g.lowerExpr(e.Pointer)
	case ast.MemArenaAlloc:
		size := g.lowerExpr(e.Size)
		align := g.constAlignOrDefault(e.Align)
		dst := g.fn.NewVReg(ir.TyPtr)
		ir.EmitArenaAlloc(g.cur(), dst, size, align, g.currentScope())
		return dst
	case ast.MemArenaReset:
		ir.EmitArenaReset(g.cur(), g.currentScope())
		return ir.VRegID(0)
	case ast.MemSlabAlloc:
		size := g.lowerExpr(e.Size)
		hash := g.slabHash(e.TypeName)
		dst := g.fn.NewVReg(ir.TyPtr)
		ir.EmitSlabAlloc(g.cur(), dst, size, hash)
		return dst
	case ast.MemSlabFree:
		ptr := g.lowerExpr(e.Pointer)
		hash := g.slabHash(e.TypeName)
		ir.EmitSlabFree(g.cur(), ptr, hash)
		return ptr
	case ast.MemMMIOMap:
		if !isIntLiteral(e.Address) {
			g.fail(e.Pos, "mmio address must be constant")
			return ir.VRegID(0)
		}
		addr := g.lowerExpr(e.Address)
		dst := g.fn.NewVReg(ir.TyI64)
		ir.EmitMMIORead(g.cur(), dst, addr)
		return dst
	case ast.MemAlignUp:
		return g.lowerAlignUp(e.Size, e.Value)
	case ast.MemAlignDown:
		return g.lowerAlignDown(e.Size, e.Value)
	case ast.MemIsAligned:
		return g.lowerIsAligned(e.Size, e.Value)
	case ast.MemPrefetch:
		ptr := g.lowerExpr(e.Pointer)
		dst := g.fn.NewVReg(g.vregType(ptr))
		ir.EmitPrefetch(g.cur(), ir.OpPrefetch, dst, ptr)
		return dst
	case ast.MemPrefetchWrite:
		ptr := g.lowerExpr(e.Pointer)
		dst := g.fn.NewVReg(g.vregType(ptr))
		ir.EmitPrefetch(g.cur(), ir.OpPrefetchWrite, dst, ptr)
		return dst
	}
	return ir.VRegID(0)
}

// lowerAlignUp emits the exact five-instruction sequence of §4.5.2's
// table: one=const(1); am1=sub(a,one); vp=add(v,am1); m=not(am1);
// result=and(vp,m).
func (g *Generator) lowerAlignUp(vExpr, aExpr ast.Expr) ir.VRegID {
	v := g.lowerExpr(vExpr)
	a := g.lowerExpr(aExpr)
	one := g.fn.NewVReg(ir.TyI64)
	ir.EmitConst(g.cur(), one, 1)
	am1 := g.fn.NewVReg(ir.TyI64)
	ir.EmitBinary(g.cur(), ir.OpSub, am1, a, one)
	vp := g.fn.NewVReg(ir.TyI64)
	ir.EmitBinary(g.cur(), ir.OpAdd, vp, v, am1)
	m := g.fn.NewVReg(ir.TyI64)
	ir.EmitUnary(g.cur(), ir.OpNot, m, am1)
	result := g.fn.NewVReg(ir.TyI64)
	ir.EmitBinary(g.cur(), ir.OpAnd, result, vp, m)
	return result
}

// lowerAlignDown: one=const(1); am1=sub(a,one); m=not(am1); result=and(v,m).
func (g *Generator) lowerAlignDown(vExpr, aExpr ast.Expr) ir.VRegID {
	v := g.lowerExpr(vExpr)
	a := g.lowerExpr(aExpr)
	one := g.fn.NewVReg(ir.TyI64)
	ir.EmitConst(g.cur(), one, 1)
	am1 := g.fn.NewVReg(ir.TyI64)
	ir.EmitBinary(g.cur(), ir.OpSub, am1, a, one)
	m := g.fn.NewVReg(ir.TyI64)
	ir.EmitUnary(g.cur(), ir.OpNot, m, am1)
	result := g.fn.NewVReg(ir.TyI64)
	ir.EmitBinary(g.cur(), ir.OpAnd, result, v, m)
	return result
}

// lowerIsAligned: one=const(1); am1=sub(a,one); mk=and(v,am1); z=const(0);
// result=cmp_eq(mk,z) (bool result).
func (g *Generator) lowerIsAligned(vExpr, aExpr ast.Expr) ir.VRegID {
	v := g.lowerExpr(vExpr)
	a := g.lowerExpr(aExpr)
	one := g.fn.NewVReg(ir.TyI64)
	ir.EmitConst(g.cur(), one, 1)
	am1 := g.fn.NewVReg(ir.TyI64)
	ir.EmitBinary(g.cur(), ir.OpSub, am1, a, one)
	mk := g.fn.NewVReg(ir.TyI64)
	ir.EmitBinary(g.cur(), ir.OpAnd, mk, v, am1)
	z := g.fn.NewVReg(ir.TyI64)
	ir.EmitConst(g.cur(), z, 0)
	result := g.fn.NewVReg(ir.TyBool)
	ir.EmitBinary(g.cur(), ir.OpCmpEq, result, mk, z)
	return result
}

func (g *Generator) VisitInlineAsm(e *ast.InlineAsm) interface{} {
	outputs := make([]ir.AsmOperand, len(e.Outputs))
	for i, o := range e.Outputs {
		vreg := g.fn.NewVReg(ir.TyI64)
		outputs[i] = ir.AsmOperand{Constraint: o.Constraint, VReg: vreg}
	}
	var inputArgs []ir.VRegID
	inputs := make([]ir.AsmOperand, len(e.Inputs))
	for i, in := range e.Inputs {
		v := g.lowerExpr(in.Expr)
		inputArgs = append(inputArgs, v)
		inputs[i] = ir.AsmOperand{Constraint: in.Constraint, VReg: v}
	}
	payload := &ir.AsmPayload{Template: e.Template, Outputs: outputs, Inputs: inputs, Clobbers: e.Clobbers, Volatile: e.Volatile}
	ir.EmitInlineAsm(g.cur(), payload, inputArgs)

	for i, o := range e.Outputs {
		if ident, ok := o.Expr.(*ast.Identifier); ok {
			if sym, ok2 := g.lookup(ident.Name); ok2 && !sym.isGlobal {
				ir.EmitMov(g.cur(), sym.vreg, outputs[i].VReg)
			}
		}
	}
	if len(outputs) > 0 {
		return outputs[0].VReg
	}
	return ir.VRegID(0)
}
