package irgen

import (
	"fcx/internal/ast"
	"fcx/internal/ir"
)

// Generator implements ast.StmtVisitor; every method lowers one
// statement kind into the current block, per §4.5.

func (g *Generator) VisitExpressionStmt(s *ast.ExpressionStmt) interface{} {
	g.lowerExpr(s.Expr)
	return nil
}

func (g *Generator) VisitLetStmt(s *ast.LetStmt) interface{} {
	if g.hasError {
		return nil
	}
	var vreg ir.VRegID
	if s.Init != nil {
		vreg = g.lowerExpr(s.Init)
	} else {
		t := ir.TyI64
		if s.Type != nil {
			t = astTypeToVReg(s.Type)
		}
		vreg = g.fn.NewVReg(t)
		ir.EmitConst(g.cur(), vreg, 0)
	}
	g.defineLocal(s.Name, vreg)
	return nil
}

func (g *Generator) VisitReturnStmt(s *ast.ReturnStmt) interface{} {
	if g.hasError {
		return nil
	}
	if s.Value != nil {
		v := g.lowerExpr(s.Value)
		ir.EmitReturn(g.cur(), v, true)
	} else {
		ir.EmitReturn(g.cur(), 0, false)
	}
	return nil
}

// VisitHaltStmt lowers like return (§4.5.3: "Return/halt emit return
// with or without a value").
func (g *Generator) VisitHaltStmt(s *ast.HaltStmt) interface{} {
	if g.hasError {
		return nil
	}
	if s.Value != nil {
		v := g.lowerExpr(s.Value)
		ir.EmitReturn(g.cur(), v, true)
	} else {
		ir.EmitReturn(g.cur(), 0, false)
	}
	return nil
}

// VisitIfStmt follows the block-creation protocol of §4.5.3: lower the
// condition, create then/[else] blocks, lower each arm, and only then
// create and enter a merge block — and only if some arm actually falls
// through to it. The branch out of the starting block is emitted last,
// once its false target (else or merge) is known. If both arms terminate (e.g. both end
// in return), no merge block is created: entering an empty,
// predecessor-less block would violate the §3.4/§8 connectivity
// invariant once ensureTerminator capped it with a trailing return.
func (g *Generator) VisitIfStmt(s *ast.IfStmt) interface{} {
	if g.hasError {
		return nil
	}
	cond := g.lowerExpr(s.Cond)
	if g.hasError {
		return nil
	}
	startID := g.block

	thenID := g.fn.CreateBlock(g.newLabel("if.then"))
	hasElse := len(s.Else) > 0
	var elseID ir.BlockID
	if hasElse {
		elseID = g.fn.CreateBlock(g.newLabel("if.else"))
	}

	g.block = thenID
	g.lowerBlock(s.Then)
	thenFalls := !g.cur().HasTerminator()
	thenEnd := g.block

	var elseFalls bool
	var elseEnd ir.BlockID
	if hasElse {
		g.block = elseID
		g.lowerBlock(s.Else)
		elseFalls = !g.cur().HasTerminator()
		elseEnd = g.block
	}

	// Without an else arm, the branch's false edge always reaches the
	// merge block directly, so merge is always needed in that case.
	needMerge := !hasElse || thenFalls || elseFalls

	elseTarget := elseID
	var mergeID ir.BlockID
	if needMerge {
		mergeID = g.fn.CreateBlock(g.newLabel("if.merge"))
		if !hasElse {
			elseTarget = mergeID
		}
		if thenFalls {
			ir.EmitJump(g.fn.Block(thenEnd), mergeID)
		}
		if hasElse && elseFalls {
			ir.EmitJump(g.fn.Block(elseEnd), mergeID)
		}
	}

	ir.EmitBranch(g.fn.Block(startID), cond, thenID, elseTarget)

	if needMerge {
		g.block = mergeID
	} else {
		// Both arms terminated; any statement following this one in
		// the source is unreachable and has no live block to land in.
		g.block = elseEnd
	}
	return nil
}

// VisitLoopStmt lowers all four loop surface forms (§4.5.3).
func (g *Generator) VisitLoopStmt(s *ast.LoopStmt) interface{} {
	if g.hasError {
		return nil
	}
	switch s.Kind {
	case ast.LoopInfinite:
		g.lowerInfiniteLoop(s)
	case ast.LoopWhile:
		g.lowerWhileLoop(s)
	case ast.LoopCount:
		g.lowerCountLoop(s, "")
	case ast.LoopRange:
		g.lowerCountLoop(s, s.Induction)
	}
	return nil
}

func (g *Generator) lowerInfiniteLoop(s *ast.LoopStmt) {
	headerID := g.fn.CreateBlock(g.newLabel("loop.header"))
	bodyID := g.fn.CreateBlock(g.newLabel("loop.body"))
	exitID := g.fn.CreateBlock(g.newLabel("loop.exit"))

	ir.EmitJump(g.cur(), headerID)

	g.block = headerID
	if s.Cond != nil {
		cond := g.lowerExpr(s.Cond)
		ir.EmitBranch(g.cur(), cond, bodyID, exitID)
	} else {
		ir.EmitJump(g.cur(), bodyID)
	}

	g.loopStack = append(g.loopStack, loopFrame{breakTarget: exitID, continueTarget: headerID})
	g.block = bodyID
	g.lowerBlock(s.Body)
	if !g.cur().HasTerminator() {
		ir.EmitJump(g.cur(), headerID)
	}
	g.loopStack = g.loopStack[:len(g.loopStack)-1]

	g.block = exitID
}

// lowerWhileLoop mirrors the preheader's condition at the body's tail,
// so the condition is lowered twice (§4.5.3).
func (g *Generator) lowerWhileLoop(s *ast.LoopStmt) {
	preheaderID := g.fn.CreateBlock(g.newLabel("loop.pre"))
	bodyID := g.fn.CreateBlock(g.newLabel("loop.body"))
	exitID := g.fn.CreateBlock(g.newLabel("loop.exit"))

	ir.EmitJump(g.cur(), preheaderID)

	g.block = preheaderID
	cond1 := g.lowerExpr(s.Cond)
	ir.EmitBranch(g.cur(), cond1, bodyID, exitID)

	g.loopStack = append(g.loopStack, loopFrame{breakTarget: exitID, continueTarget: preheaderID})
	g.block = bodyID
	g.lowerBlock(s.Body)
	if !g.cur().HasTerminator() {
		cond2 := g.lowerExpr(s.Cond)
		ir.EmitBranch(g.cur(), cond2, bodyID, exitID)
	}
	g.loopStack = g.loopStack[:len(g.loopStack)-1]

	g.block = exitID
}

// lowerCountLoop handles both count and range loops: a counter vreg
// starting at 0, a header comparing it to the (once-evaluated) bound,
// a body, and a latch that increments the counter via mov (the
// SSA-lite substitute for a phi, §9) before jumping back to header.
// When induction != "", the counter is exposed to the body as a local
// symbol (range's induction variable).
func (g *Generator) lowerCountLoop(s *ast.LoopStmt, induction string) {
	counter := g.fn.NewVReg(ir.TyI64)
	ir.EmitConst(g.cur(), counter, 0)
	bound := g.lowerExpr(s.Bound)

	headerID := g.fn.CreateBlock(g.newLabel("loop.header"))
	bodyID := g.fn.CreateBlock(g.newLabel("loop.body"))
	latchID := g.fn.CreateBlock(g.newLabel("loop.latch"))
	exitID := g.fn.CreateBlock(g.newLabel("loop.exit"))

	ir.EmitJump(g.cur(), headerID)

	g.block = headerID
	cmp := g.fn.NewVReg(ir.TyBool)
	ir.EmitBinary(g.cur(), ir.OpCmpLt, cmp, counter, bound)
	ir.EmitBranch(g.cur(), cmp, bodyID, exitID)

	g.loopStack = append(g.loopStack, loopFrame{breakTarget: exitID, continueTarget: latchID})
	g.block = bodyID
	savedSymbols := len(g.symbols)
	if induction != "" {
		g.defineLocal(induction, counter)
	}
	g.lowerBlock(s.Body)
	g.symbols = g.symbols[:savedSymbols]
	if !g.cur().HasTerminator() {
		ir.EmitJump(g.cur(), latchID)
	}
	g.loopStack = g.loopStack[:len(g.loopStack)-1]

	g.block = latchID
	one := g.fn.NewVReg(ir.TyI64)
	ir.EmitConst(g.cur(), one, 1)
	next := g.fn.NewVReg(ir.TyI64)
	ir.EmitBinary(g.cur(), ir.OpAdd, next, counter, one)
	ir.EmitMov(g.cur(), counter, next)
	ir.EmitJump(g.cur(), headerID)

	g.block = exitID
}

func (g *Generator) VisitBreakStmt(s *ast.BreakStmt) interface{} {
	if g.hasError {
		return nil
	}
	if len(g.loopStack) == 0 {
		g.fail(s.Position(), "break outside of loop")
		return nil
	}
	top := g.loopStack[len(g.loopStack)-1]
	ir.EmitJump(g.cur(), top.breakTarget)
	return nil
}

func (g *Generator) VisitContinueStmt(s *ast.ContinueStmt) interface{} {
	if g.hasError {
		return nil
	}
	if len(g.loopStack) == 0 {
		g.fail(s.Position(), "continue outside of loop")
		return nil
	}
	top := g.loopStack[len(g.loopStack)-1]
	ir.EmitJump(g.cur(), top.continueTarget)
	return nil
}

// VisitFunctionStmt/VisitImportStmt are no-ops here and VisitModuleStmt
// only sets the module name: GenModule handles top-level functions,
// globals, module naming, and import-path validation directly (via
// genImport) rather than through generic statement lowering — functions
// never nest (§3.3 names no nested-function variant).
func (g *Generator) VisitFunctionStmt(s *ast.FunctionStmt) interface{} { return nil }

func (g *Generator) VisitModuleStmt(s *ast.ModuleStmt) interface{} {
	g.module.Name = s.Name
	return nil
}

func (g *Generator) VisitImportStmt(s *ast.ImportStmt) interface{} { return nil }
