// Package irexport is the one supplemented feature beyond the
// distilled pipeline (SPEC_FULL.md §C): an adapter handing a completed
// internal/ir.Module to github.com/llir/llvm, demonstrating the
// "IR module handed to the external backend" interface point named in
// §2's data-flow line without implementing a real backend. Coverage
// is intentionally partial — it exists to exercise the boundary, not
// to replace the out-of-scope lowering pass.
package irexport

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	fcxir "fcx/internal/ir"
)

// ToLLVMModule builds a skeletal LLVM IR module mirroring m's
// functions and globals: signatures and an empty entry block per
// function, each ending in an unreachable instruction (an actual
// lowering pass, out of scope, would replace this with emitted
// instructions walking m's basic blocks).
func ToLLVMModule(m *fcxir.Module) *ir.Module {
	mod := ir.NewModule()
	mod.SourceFilename = m.Name

	for _, g := range m.Globals {
		llType := llvmType(g.Type)
		init := constant.NewZeroInitializer(llType)
		glob := mod.NewGlobalDef(g.Name, init)
		glob.Immutable = g.IsConst
	}

	for _, f := range m.Functions {
		retType := llvmType(f.RetType)
		if !f.HasRet {
			retType = types.Void
		}
		params := make([]*ir.Param, len(f.Params))
		for i, p := range f.Params {
			params[i] = ir.NewParam(fmt.Sprintf("p%d", i), llvmType(p.Type))
		}
		fn := mod.NewFunc(f.Name, retType, params...)
		block := fn.NewBlock("entry")
		block.NewUnreachable()
	}

	return mod
}

// llvmType maps a vreg type to its closest LLVM IR counterpart. Widths
// beyond i64 use LLVM's arbitrary-precision integer type, which is the
// same representation the big-integer limb encoding (§9) is meant to
// feed once a real lowering pass exists.
func llvmType(t fcxir.VRegType) types.Type {
	switch t {
	case fcxir.TyBool:
		return types.I1
	case fcxir.TyI8, fcxir.TyU8:
		return types.I8
	case fcxir.TyI16, fcxir.TyU16:
		return types.I16
	case fcxir.TyI32, fcxir.TyU32:
		return types.I32
	case fcxir.TyI64, fcxir.TyU64:
		return types.I64
	case fcxir.TyI128, fcxir.TyU128:
		return types.NewInt(128)
	case fcxir.TyI256, fcxir.TyU256:
		return types.NewInt(256)
	case fcxir.TyI512, fcxir.TyU512:
		return types.NewInt(512)
	case fcxir.TyI1024, fcxir.TyU1024:
		return types.NewInt(1024)
	case fcxir.TyF32:
		return types.Float
	case fcxir.TyF64:
		return types.Double
	case fcxir.TyPtr, fcxir.TyRawPtr, fcxir.TyBytePtr:
		return types.I8Ptr
	default:
		return types.I64
	}
}
