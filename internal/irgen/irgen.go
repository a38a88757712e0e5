// Package irgen is the IR generator (C5): it walks a parsed syntax
// tree (internal/ast) and emits typed, basic-block-structured IR
// (internal/ir), desugaring every high-level operator family and
// owning all control-flow block creation (§4.5).
//
// Grounded on sentra's internal/compiler/compiler.go and
// stmt_compiler.go — the same visitor-dispatch emission style and
// jump-patching discipline, generalized from a flat bytecode stream
// to block-id-indexed IR, plus the loop-label-stack bookkeeping of
// other_examples' gmofishsauce-wut4 lang-ysem IRGen.
package irgen

import (
	"fmt"

	"golang.org/x/mod/module"

	"fcx/internal/ast"
	"fcx/internal/diag"
	"fcx/internal/ir"
)

// symbolEntry is one append-only symbol-table row (§3.5): a name bound
// either to a local vreg or to a global's index. Lookup scans newest
// to oldest, giving lexical shadowing.
type symbolEntry struct {
	name        string
	isGlobal    bool
	vreg        ir.VRegID
	globalIndex int
}

// loopFrame is one entry of the loop stack (§3.5): the blocks break
// and continue jump to.
type loopFrame struct {
	breakTarget    ir.BlockID
	continueTarget ir.BlockID
}

// Generator holds everything named in §4.5: the module under
// construction, the current function/block (tracked by id, re-fetched
// on every use per the block-pointer-invalidation hazard of §4.4/§5),
// the symbol table, scope counter, loop stack, label counter, and the
// error latch of §7.
type Generator struct {
	module *ir.Module

	fn    *ir.Function
	block ir.BlockID

	symbols      []symbolEntry
	scopeCounter int
	scopeStack   []int

	loopStack []loopFrame

	labelCounter int

	hasError     bool
	errorMessage string

	diagnostics *diag.Handler
	filename    string
}

// New creates a generator that will build a module named moduleName,
// reporting errors (in addition to the §7 latch) through handler.
func New(moduleName string, handler *diag.Handler, filename string) *Generator {
	return &Generator{
		module:      ir.NewModule(moduleName),
		diagnostics: handler,
		filename:    filename,
	}
}

// HasError reports whether the generator's error latch has tripped.
func (g *Generator) HasError() bool { return g.hasError }

// ErrorMessage is the first error's message, or "" if none latched.
func (g *Generator) ErrorMessage() string { return g.errorMessage }

// cur fetches the current block fresh by id — never retain the
// pointer this returns across a CreateBlock call (§4.4).
func (g *Generator) cur() *ir.BasicBlock { return g.fn.Block(g.block) }

func (g *Generator) newLabel(prefix string) string {
	g.labelCounter++
	return fmt.Sprintf("%s.%d", prefix, g.labelCounter)
}

// enterScope issues a fresh, never-reused scope id (§3.5).
func (g *Generator) enterScope() int {
	g.scopeCounter++
	g.scopeStack = append(g.scopeStack, g.scopeCounter)
	return g.scopeCounter
}

func (g *Generator) exitScope() {
	if len(g.scopeStack) > 0 {
		g.scopeStack = g.scopeStack[:len(g.scopeStack)-1]
	}
}

func (g *Generator) currentScope() int {
	if len(g.scopeStack) == 0 {
		return 0
	}
	return g.scopeStack[len(g.scopeStack)-1]
}

func (g *Generator) defineLocal(name string, vreg ir.VRegID) {
	g.symbols = append(g.symbols, symbolEntry{name: name, vreg: vreg})
}

func (g *Generator) defineGlobal(name string, idx int) {
	g.symbols = append(g.symbols, symbolEntry{name: name, isGlobal: true, globalIndex: idx})
}

// lookup scans from newest to oldest, giving lexical shadowing (§3.5,
// §8's "most recently added entry with that name").
func (g *Generator) lookup(name string) (symbolEntry, bool) {
	for i := len(g.symbols) - 1; i >= 0; i-- {
		if g.symbols[i].name == name {
			return g.symbols[i], true
		}
	}
	return symbolEntry{}, false
}

// fail latches the generator's first error (§7): subsequent statement
// lowering short-circuits and expression lowering returns a
// zero-valued vreg.
func (g *Generator) fail(pos ast.Pos, msg string) {
	if g.hasError {
		return
	}
	g.hasError = true
	g.errorMessage = msg
	if g.diagnostics != nil {
		g.diagnostics.Add(diag.Diagnostic{
			Kind:     diag.Semantic,
			Severity: diag.Error,
			Pos:      diag.Position{File: g.filename, Line: pos.Line, Column: pos.Column, Length: maxInt(pos.Length, 1)},
			Message:  msg,
		})
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (g *Generator) vregType(id ir.VRegID) ir.VRegType {
	info, _ := g.fn.VRegInfo(id)
	return info.Type
}

// GenModule lowers a whole program in the two passes required by
// §4.5.4: globals first (so functions can forward-reference them),
// then every top-level function.
func (g *Generator) GenModule(stmts []ast.Stmt) *ir.Module {
	for _, s := range stmts {
		if ms, ok := s.(*ast.ModuleStmt); ok {
			g.module.Name = ms.Name
		}
	}
	for _, s := range stmts {
		if let, ok := s.(*ast.LetStmt); ok {
			g.genGlobal(let)
		}
	}
	for _, s := range stmts {
		if is, ok := s.(*ast.ImportStmt); ok {
			g.genImport(is)
		}
	}
	for _, s := range stmts {
		if fs, ok := s.(*ast.FunctionStmt); ok {
			g.genFunction(fs)
		}
	}
	return g.module
}

// genImport validates an import path's syntax (§3.3 names the node but
// not its validation rule) the way a Go toolchain would a module path,
// without performing the out-of-scope link step itself.
func (g *Generator) genImport(is *ast.ImportStmt) {
	if err := module.CheckPath(is.Path); err != nil {
		g.fail(is.Position(), fmt.Sprintf("invalid import path %q: %v", is.Path, err))
	}
}

func (g *Generator) genGlobal(let *ast.LetStmt) {
	typ := ir.TyI64
	if let.Type != nil {
		typ = astTypeToVReg(let.Type)
	}
	hasInit := false
	var init int64
	if let.Init != nil {
		if lit, ok := let.Init.(*ast.Literal); ok && lit.Kind == ast.IntLit {
			hasInit, init = true, lit.Int
		}
	}
	idx := g.module.AddGlobal(ir.Global{Name: let.Name, Type: typ, IsConst: let.IsConst, HasInit: hasInit, Init: init})
	g.defineGlobal(let.Name, idx)
}

func (g *Generator) genFunction(fs *ast.FunctionStmt) {
	retType := ir.TyI64
	hasRet := fs.ReturnType != nil
	if hasRet {
		retType = astTypeToVReg(fs.ReturnType)
	}

	fn := ir.NewFunction(fs.Name)
	fn.RetType = retType
	fn.HasRet = hasRet

	prevFn, prevBlock := g.fn, g.block
	savedSymbols := len(g.symbols)
	g.fn = fn
	g.block = 0
	g.enterScope()

	for _, p := range fs.Params {
		vt := ir.TyI64
		if p.Type != nil {
			vt = astTypeToVReg(p.Type)
		}
		vreg := fn.NewVReg(vt)
		fn.Params = append(fn.Params, ir.Param{VReg: vreg, Type: vt})
		g.defineLocal(p.Name, vreg)
	}

	g.lowerBlock(fs.Body)
	g.ensureTerminator()

	g.exitScope()
	g.symbols = g.symbols[:savedSymbols]
	g.module.AddFunction(fn)
	g.fn, g.block = prevFn, prevBlock
}

// ensureTerminator emits an implicit terminator when the current
// block's last instruction isn't already one (§4.5.3 step 8).
func (g *Generator) ensureTerminator() {
	b := g.cur()
	if b.HasTerminator() {
		return
	}
	if g.fn.HasRet {
		zero := g.fn.NewVReg(g.fn.RetType)
		ir.EmitConst(b, zero, 0)
		ir.EmitReturn(b, zero, true)
		return
	}
	ir.EmitReturn(b, 0, false)
}

func (g *Generator) lowerBlock(stmts []ast.Stmt) {
	for _, s := range stmts {
		if g.hasError {
			return
		}
		g.lowerStmt(s)
	}
}

func (g *Generator) lowerStmt(s ast.Stmt) {
	if g.hasError {
		return
	}
	s.Accept(g)
}

func (g *Generator) lowerExpr(e ast.Expr) ir.VRegID {
	if g.hasError {
		return 0
	}
	v, _ := e.Accept(g).(ir.VRegID)
	return v
}
