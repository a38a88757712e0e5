package irgen

import (
	"bytes"
	"strings"
	"testing"

	"fcx/internal/ast"
	"fcx/internal/diag"
	"fcx/internal/ir"
	"fcx/internal/operator"
)

func newTestGenerator() *Generator {
	h := diag.NewHandler(operator.New(), &bytes.Buffer{})
	return New("m", h, "t.fcx")
}

func intLit(n int64) *ast.Literal { return &ast.Literal{Kind: ast.IntLit, Int: n} }
func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func TestEmptyFunctionLowersToConstThenReturn(t *testing.T) {
	g := newTestGenerator()
	fn := &ast.FunctionStmt{
		Name: "f",
		Body: []ast.Stmt{&ast.ReturnStmt{Value: intLit(0)}},
	}
	mod := g.GenModule([]ast.Stmt{fn})
	if g.HasError() {
		t.Fatalf("unexpected error: %s", g.ErrorMessage())
	}
	if len(mod.Functions) != 1 || mod.Functions[0].Name != "f" {
		t.Fatalf("expected one function named f, got %+v", mod.Functions)
	}
	irFn := mod.Functions[0]
	if len(irFn.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(irFn.Blocks))
	}
	instrs := irFn.Blocks[0].Instrs
	if len(instrs) != 2 {
		t.Fatalf("got %d instructions, want 2", len(instrs))
	}
	if instrs[0].Op != ir.OpConst || instrs[0].Imm != 0 {
		t.Fatalf("instr 0 = %+v, want const 0", instrs[0])
	}
	if instrs[1].Op != ir.OpReturn || !instrs[1].HasValue {
		t.Fatalf("instr 1 = %+v, want return with value", instrs[1])
	}
}

func TestLoopWithBreakProducesHeaderBodyExitAndBreakTargetsExit(t *testing.T) {
	g := newTestGenerator()
	loop := &ast.LoopStmt{
		Kind: ast.LoopInfinite,
		Body: []ast.Stmt{
			&ast.IfStmt{
				Cond: ident("cond"),
				Then: []ast.Stmt{&ast.BreakStmt{}},
			},
		},
	}
	fn := &ast.FunctionStmt{
		Name:   "f",
		Params: []ast.Param{{Name: "cond", Type: &ast.Type{Kind: ast.TypeBool}}},
		Body:   []ast.Stmt{loop, &ast.ReturnStmt{}},
	}
	mod := g.GenModule([]ast.Stmt{fn})
	if g.HasError() {
		t.Fatalf("unexpected error: %s", g.ErrorMessage())
	}
	irFn := mod.Functions[0]
	if len(irFn.Blocks) < 6 {
		t.Fatalf("got %d blocks, want at least 6 (entry, header, body, exit, if.then, if.merge)", len(irFn.Blocks))
	}

	var exitID ir.BlockID = -1
	for _, b := range irFn.Blocks {
		if strings.HasPrefix(b.Label, "loop.exit") {
			exitID = b.ID
		}
	}
	if exitID == -1 {
		t.Fatal("no loop.exit block found")
	}

	var breakJump *ir.Instruction
	for _, b := range irFn.Blocks {
		if strings.HasPrefix(b.Label, "if.then") {
			for i := range b.Instrs {
				if b.Instrs[i].Op == ir.OpJump {
					breakJump = &b.Instrs[i]
				}
			}
		}
	}
	if breakJump == nil {
		t.Fatal("no jump found in the if-then block")
	}
	if breakJump.Targets[0] != exitID {
		t.Fatalf("break jumps to block %d, want loop exit %d", breakJump.Targets[0], exitID)
	}
}

func TestCommaRewritesWriteSyscall(t *testing.T) {
	g := newTestGenerator()
	expr := &ast.Binary{
		Op: ",",
		Left: &ast.SyscallOp{
			Kind: ast.SyscallWrite,
			Args: []ast.Expr{intLit(1), ident("buf")},
		},
		Right: intLit(13),
	}
	fn := &ast.FunctionStmt{
		Name:   "f",
		Params: []ast.Param{{Name: "buf", Type: &ast.Type{Kind: ast.TypeBytePtr}}},
		Body:   []ast.Stmt{&ast.ExpressionStmt{Expr: expr}, &ast.ReturnStmt{}},
	}
	mod := g.GenModule([]ast.Stmt{fn})
	if g.HasError() {
		t.Fatalf("unexpected error: %s", g.ErrorMessage())
	}
	instrs := mod.Functions[0].Blocks[0].Instrs
	var syscalls []ir.Instruction
	for _, in := range instrs {
		if in.Op == ir.OpSyscall {
			syscalls = append(syscalls, in)
		}
	}
	if len(syscalls) != 1 {
		t.Fatalf("got %d syscall instructions, want 1 (the comma fold)", len(syscalls))
	}
	sc := syscalls[0]
	if sc.SyscallNum != 1 {
		t.Fatalf("got syscall num %d, want 1 (write)", sc.SyscallNum)
	}
	if len(sc.Args) != 3 {
		t.Fatalf("got %d syscall args, want 3 (fd, buffer, length)", len(sc.Args))
	}
}

func TestAtomicCASEmitsSingleFourOperandInstruction(t *testing.T) {
	g := newTestGenerator()
	cas := &ast.AtomicOp{
		Kind:     ast.AtomicCAS,
		Pointer:  ident("p"),
		Expected: intLit(0),
		New:      intLit(1),
	}
	fn := &ast.FunctionStmt{
		Name:   "f",
		Params: []ast.Param{{Name: "p", Type: &ast.Type{Kind: ast.TypePointer}}},
		Body:   []ast.Stmt{&ast.ExpressionStmt{Expr: cas}, &ast.ReturnStmt{}},
	}
	mod := g.GenModule([]ast.Stmt{fn})
	if g.HasError() {
		t.Fatalf("unexpected error: %s", g.ErrorMessage())
	}
	var found *ir.Instruction
	for i, in := range mod.Functions[0].Blocks[0].Instrs {
		if in.Op == ir.OpAtomicCAS {
			found = &mod.Functions[0].Blocks[0].Instrs[i]
		}
	}
	if found == nil {
		t.Fatal("no atomic-cas instruction emitted")
	}
	// The four operand vregs are the result (Dst) plus the three Args.
	if len(found.Args) != 3 {
		t.Fatalf("got %d operands, want 3 (ptr, expected, new)", len(found.Args))
	}
}

func TestAlignUpEmitsFiveInstructionSequenceEvaluatingTo16(t *testing.T) {
	g := newTestGenerator()
	op := &ast.MemoryOp{
		Kind:  ast.MemAlignUp,
		Size:  intLit(13),
		Value: intLit(8),
	}
	fn := &ast.FunctionStmt{
		Name: "f",
		Body: []ast.Stmt{&ast.ExpressionStmt{Expr: op}, &ast.ReturnStmt{}},
	}
	mod := g.GenModule([]ast.Stmt{fn})
	if g.HasError() {
		t.Fatalf("unexpected error: %s", g.ErrorMessage())
	}
	instrs := mod.Functions[0].Blocks[0].Instrs
	// const(13), const(8), const(1), sub, add, not, and, return — the
	// align-up sequence proper is the five instructions following the
	// two operand consts.
	wantOps := []ir.Opcode{ir.OpConst, ir.OpConst, ir.OpConst, ir.OpSub, ir.OpAdd, ir.OpNot, ir.OpAnd}
	if len(instrs) < len(wantOps) {
		t.Fatalf("got %d instructions, want at least %d", len(instrs), len(wantOps))
	}
	for i, op := range wantOps {
		if instrs[i].Op != op {
			t.Fatalf("instr %d = %s, want %s", i, instrs[i].Op, op)
		}
	}

	vals := map[ir.VRegID]int64{}
	vals[instrs[0].Dst] = 13
	vals[instrs[1].Dst] = 8
	for _, in := range instrs[2:7] {
		switch in.Op {
		case ir.OpConst:
			vals[in.Dst] = in.Imm
		case ir.OpSub:
			vals[in.Dst] = vals[in.Args[0]] - vals[in.Args[1]]
		case ir.OpAdd:
			vals[in.Dst] = vals[in.Args[0]] + vals[in.Args[1]]
		case ir.OpNot:
			vals[in.Dst] = ^vals[in.Args[0]]
		case ir.OpAnd:
			vals[in.Dst] = vals[in.Args[0]] & vals[in.Args[1]]
		}
	}
	result := instrs[6].Dst
	if vals[result] != 16 {
		t.Fatalf("align-up(13, 8) evaluated to %d, want 16", vals[result])
	}
}

func TestIfElseBothArmsReturnCreatesNoDanglingMergeBlock(t *testing.T) {
	g := newTestGenerator()
	stmt := &ast.IfStmt{
		Cond: ident("cond"),
		Then: []ast.Stmt{&ast.ReturnStmt{Value: intLit(1)}},
		Else: []ast.Stmt{&ast.ReturnStmt{Value: intLit(2)}},
	}
	fn := &ast.FunctionStmt{
		Name:       "f",
		Params:     []ast.Param{{Name: "cond", Type: &ast.Type{Kind: ast.TypeBool}}},
		ReturnType: &ast.Type{Kind: ast.TypeI64},
		Body:       []ast.Stmt{stmt},
	}
	mod := g.GenModule([]ast.Stmt{fn})
	if g.HasError() {
		t.Fatalf("unexpected error: %s", g.ErrorMessage())
	}
	if err := mod.Verify(); err != nil {
		t.Fatalf("Verify() = %v, want nil", err)
	}
	irFn := mod.Functions[0]
	for _, b := range irFn.Blocks {
		if strings.HasPrefix(b.Label, "if.merge") {
			t.Fatalf("expected no if.merge block when both arms terminate, found %s", b.Label)
		}
	}
	// Every block must end in a terminator with no trailing dead block.
	for _, b := range irFn.Blocks {
		if !b.HasTerminator() {
			t.Fatalf("block %s has no terminator", b.Label)
		}
	}
}

func TestBreakOutsideLoopReportsError(t *testing.T) {
	g := newTestGenerator()
	fn := &ast.FunctionStmt{
		Name: "f",
		Body: []ast.Stmt{&ast.BreakStmt{}},
	}
	g.GenModule([]ast.Stmt{fn})
	if !g.HasError() {
		t.Fatal("expected break outside of a loop to latch an error")
	}
}

func TestSymbolLookupShadowingPrefersMostRecentlyAdded(t *testing.T) {
	g := newTestGenerator()
	g.defineLocal("x", 1)
	g.defineLocal("x", 2)
	sym, ok := g.lookup("x")
	if !ok || sym.vreg != 2 {
		t.Fatalf("got %+v, want the most recently added binding (vreg 2)", sym)
	}
}

func TestValidImportPathGeneratesNoError(t *testing.T) {
	g := newTestGenerator()
	imp := &ast.ImportStmt{Path: "example.com/mod/pkg"}
	fn := &ast.FunctionStmt{Name: "f", Body: []ast.Stmt{&ast.ReturnStmt{}}}
	g.GenModule([]ast.Stmt{imp, fn})
	if g.HasError() {
		t.Fatalf("unexpected error for a well-formed import path: %s", g.ErrorMessage())
	}
}

func TestMalformedImportPathReportsError(t *testing.T) {
	g := newTestGenerator()
	imp := &ast.ImportStmt{Path: "not a valid path!!"}
	fn := &ast.FunctionStmt{Name: "f", Body: []ast.Stmt{&ast.ReturnStmt{}}}
	g.GenModule([]ast.Stmt{imp, fn})
	if !g.HasError() {
		t.Fatal("expected a malformed import path to latch an error")
	}
}

func TestGlobalRoundTripsThroughLoadAndStore(t *testing.T) {
	g := newTestGenerator()
	global := &ast.LetStmt{Name: "g", Init: intLit(5)}
	fn := &ast.FunctionStmt{
		Name: "f",
		Body: []ast.Stmt{
			&ast.ExpressionStmt{Expr: &ast.Assign{Target: ident("g"), Value: intLit(9)}},
			&ast.ReturnStmt{Value: ident("g")},
		},
	}
	mod := g.GenModule([]ast.Stmt{global, fn})
	if g.HasError() {
		t.Fatalf("unexpected error: %s", g.ErrorMessage())
	}
	if err := mod.Verify(); err != nil {
		t.Fatalf("Verify() = %v, want nil", err)
	}
	var sawStore, sawLoad bool
	for _, in := range mod.Functions[0].Blocks[0].Instrs {
		if in.Op == ir.OpStoreGlobal {
			sawStore = true
		}
		if in.Op == ir.OpLoadGlobal {
			sawLoad = true
		}
	}
	if !sawStore || !sawLoad {
		t.Fatalf("expected both a global store and load, got store=%v load=%v", sawStore, sawLoad)
	}
}
