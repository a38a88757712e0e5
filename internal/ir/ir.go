// Package ir is the in-memory intermediate representation (C4):
// modules, functions, basic blocks, typed virtual registers,
// instructions, globals, and the module's interned string/byte-literal
// table. Every collection is append-only; identity is by integer id,
// never by pointer, because growing a block's function's block vector
// may relocate earlier entries (§4.4, §5).
//
// Grounded on sentra's internal/bytecode/chunk.go (constant pool) and
// internal/vmregister/bytecode.go (instruction stream), generalized
// from a flat bytecode stream into block-structured IR.
package ir

import (
	"fmt"

	"github.com/google/uuid"
)

// VRegType is a virtual register's value type: the closed set of
// integer widths, floats, bool, and the three pointer variants (§3.3,
// §3.4).
type VRegType int

const (
	TyBool VRegType = iota
	TyI8
	TyI16
	TyI32
	TyI64
	TyI128
	TyI256
	TyI512
	TyI1024
	TyU8
	TyU16
	TyU32
	TyU64
	TyU128
	TyU256
	TyU512
	TyU1024
	TyF32
	TyF64
	TyPtr     // ptr<T> — typed pointer; the pointee type is not recorded
	TyRawPtr  // untyped raw pointer
	TyBytePtr // byte pointer
)

func (t VRegType) String() string {
	names := map[VRegType]string{
		TyBool: "bool", TyI8: "i8", TyI16: "i16", TyI32: "i32", TyI64: "i64",
		TyI128: "i128", TyI256: "i256", TyI512: "i512", TyI1024: "i1024",
		TyU8: "u8", TyU16: "u16", TyU32: "u32", TyU64: "u64",
		TyU128: "u128", TyU256: "u256", TyU512: "u512", TyU1024: "u1024",
		TyF32: "f32", TyF64: "f64", TyPtr: "ptr", TyRawPtr: "rawptr", TyBytePtr: "byteptr",
	}
	if n, ok := names[t]; ok {
		return n
	}
	return "?"
}

// Register flag bits (§3.4).
const (
	FlagStringRef  = 0x8000
	FlagRawBytesRef = 0x4000
)

// VRegID identifies a virtual register, unique within its owning
// function.
type VRegID int

// VReg is a typed value slot local to a function.
type VReg struct {
	ID    VRegID
	Type  VRegType
	Flags int
}

// Opcode enumerates every IR instruction kind (§3.4).
type Opcode int

const (
	OpAdd Opcode = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpNot
	OpAnd
	OpOr
	OpXor
	OpShl
	OpAShr
	OpLShr
	OpRotl
	OpRotr

	OpCmpEq
	OpCmpNe
	OpCmpLt
	OpCmpLe
	OpCmpGt
	OpCmpGe

	OpLoad
	OpStore
	OpConst
	OpConstBig
	OpMov
	OpPtrAdd
	OpPtrSub

	OpAlloc
	OpDealloc
	OpStackAlloc
	OpArenaAlloc
	OpArenaReset
	OpSlabAlloc
	OpSlabFree

	OpAtomicLoad
	OpAtomicStore
	OpAtomicSwap
	OpAtomicCAS

	OpMMIORead

	OpJump
	OpBranch
	OpReturn
	OpCall

	OpLoadGlobal
	OpStoreGlobal

	OpPrefetch
	OpPrefetchWrite

	OpInlineAsm
	OpSyscall
)

var opcodeNames = [...]string{
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpMod: "mod",
	OpNeg: "neg", OpNot: "not", OpAnd: "and", OpOr: "or", OpXor: "xor",
	OpShl: "shl", OpAShr: "ashr", OpLShr: "lshr", OpRotl: "rotl", OpRotr: "rotr",
	OpCmpEq: "cmp_eq", OpCmpNe: "cmp_ne", OpCmpLt: "cmp_lt", OpCmpLe: "cmp_le",
	OpCmpGt: "cmp_gt", OpCmpGe: "cmp_ge",
	OpLoad: "load", OpStore: "store", OpConst: "const", OpConstBig: "const_bigint",
	OpMov: "mov", OpPtrAdd: "ptr_add", OpPtrSub: "ptr_sub",
	OpAlloc: "alloc", OpDealloc: "dealloc", OpStackAlloc: "stack_alloc",
	OpArenaAlloc: "arena_alloc", OpArenaReset: "arena_reset",
	OpSlabAlloc: "slab_alloc", OpSlabFree: "slab_free",
	OpAtomicLoad: "atomic_load", OpAtomicStore: "atomic_store",
	OpAtomicSwap: "atomic_swap", OpAtomicCAS: "atomic_cas",
	OpMMIORead: "mmio_read",
	OpJump:     "jump", OpBranch: "branch", OpReturn: "return", OpCall: "call",
	OpLoadGlobal: "load_global", OpStoreGlobal: "store_global",
	OpPrefetch: "prefetch", OpPrefetchWrite: "prefetch_write",
	OpInlineAsm: "inline_asm", OpSyscall: "syscall",
}

func (op Opcode) String() string {
	if int(op) >= 0 && int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// IsTerminator reports whether op ends a basic block (§3.4 GLOSSARY).
func IsTerminator(op Opcode) bool {
	return op == OpJump || op == OpBranch || op == OpReturn
}

// AsmOperand is one inline-assembly constraint/expression pairing.
type AsmOperand struct {
	Constraint string
	VReg       VRegID // for outputs: the allocated result vreg
}

// AsmPayload carries an inline-assembly instruction's template and
// constraints (§3.3 inline-assembly expression).
type AsmPayload struct {
	Template string
	Outputs  []AsmOperand
	Inputs   []AsmOperand
	Clobbers []string
	Volatile bool
}

// Instruction is one IR instruction. Only the fields relevant to Op
// are meaningful; this mirrors the tagged-union payload shape of §3.4
// using a flat struct, the idiomatic Go rendering (cf. the pack's
// gmofishsauce-wut4 IRInstr, which takes the same approach with a
// string Op and generic Args).
type Instruction struct {
	Op   Opcode
	Dst  VRegID // 0 means "no result"
	Args []VRegID

	Imm   int64    // OpConst: integer value, or -(stringID) per §4.5.1/§9
	Limbs []uint64 // OpConstBig: little-endian 64-bit limbs, 1-16 of them

	Targets []BlockID // OpJump: [target]; OpBranch: [then, else]

	Callee   string // OpCall: callee symbol name; always "" for OpSyscall
	HasValue bool   // OpReturn: whether a value is attached (Args[0])

	GlobalIndex int // OpLoadGlobal/OpStoreGlobal

	Align   int    // OpAlloc/OpArenaAlloc: alignment in bytes
	ScopeID int    // OpArenaAlloc/OpArenaReset: owning scope id
	HashKey uint64 // OpSlabAlloc/OpSlabFree: FNV-1a of the type-name identifier

	SyscallNum int // OpSyscall: 1=write, 0=read, or a raw expression's vreg is in Args[0] instead

	Asm *AsmPayload // OpInlineAsm
}

// BlockID identifies a basic block, unique within its function.
type BlockID int

// BasicBlock is a maximal straight-line instruction sequence, which
// the IR generator guarantees ends with exactly one terminator before
// the function is considered complete.
type BasicBlock struct {
	ID     BlockID
	Label  string
	Instrs []Instruction
}

// LastOp returns the opcode of the block's final instruction, if any.
func (b *BasicBlock) LastOp() (Opcode, bool) {
	if len(b.Instrs) == 0 {
		return 0, false
	}
	return b.Instrs[len(b.Instrs)-1].Op, true
}

// HasTerminator reports whether the block already ends in a
// terminator instruction.
func (b *BasicBlock) HasTerminator() bool {
	op, ok := b.LastOp()
	return ok && IsTerminator(op)
}

func (b *BasicBlock) push(i Instruction) {
	b.Instrs = append(b.Instrs, i)
}

// Param is a function parameter: its vreg and declared type.
type Param struct {
	VReg VRegID
	Type VRegType
}

// Function is a compiled function: name, return type, parameters, and
// its basic blocks. Block 0 is always "entry" (§3.4).
type Function struct {
	Name     string
	RetType  VRegType
	HasRet   bool
	Params   []Param
	Blocks   []*BasicBlock
	vregs    []VReg
	nextVReg VRegID
}

// NewFunction creates a function with a single entry block (id 0).
func NewFunction(name string) *Function {
	f := &Function{Name: name}
	f.Blocks = append(f.Blocks, &BasicBlock{ID: 0, Label: "entry"})
	return f
}

// NewVReg allocates a fresh virtual register of the given type in f.
func (f *Function) NewVReg(t VRegType) VRegID {
	f.nextVReg++
	id := f.nextVReg
	flags := 0
	f.vregs = append(f.vregs, VReg{ID: id, Type: t, Flags: flags})
	return id
}

// SetVRegFlags ORs extra flag bits onto an already-allocated vreg
// (used when a const instruction turns out to hold a string or
// raw-bytes reference, §3.4/§4.5.1).
func (f *Function) SetVRegFlags(id VRegID, flags int) {
	for i := range f.vregs {
		if f.vregs[i].ID == id {
			f.vregs[i].Flags |= flags
			return
		}
	}
}

// VRegInfo looks up a vreg's recorded type/flags.
func (f *Function) VRegInfo(id VRegID) (VReg, bool) {
	for _, v := range f.vregs {
		if v.ID == id {
			return v, true
		}
	}
	return VReg{}, false
}

// CreateBlock appends a new basic block and returns its id.
//
// This may reallocate the f.Blocks slice. Each block is a separate
// allocation, so a *BasicBlock obtained before the call still refers to
// the live block; the generator nonetheless captures block ids across
// a CreateBlock call and re-fetches via Block(id) afterward (§4.4, §5).
func (f *Function) CreateBlock(label string) BlockID {
	id := BlockID(len(f.Blocks))
	f.Blocks = append(f.Blocks, &BasicBlock{ID: id, Label: label})
	return id
}

// Block fetches a basic block by id. Block ids are dense and equal to
// their index since blocks are never removed.
func (f *Function) Block(id BlockID) *BasicBlock {
	return f.Blocks[id]
}

// Verify checks the per-function invariants of §3.4/§8: every block
// ends in exactly one terminator, every branch/jump target resolves
// within the function, every referenced vreg was allocated here.
func (f *Function) Verify() error {
	for _, b := range f.Blocks {
		term := 0
		for i, instr := range b.Instrs {
			if IsTerminator(instr.Op) {
				term++
				if i != len(b.Instrs)-1 {
					return fmt.Errorf("function %s: block %d has a terminator before its last instruction", f.Name, b.ID)
				}
			}
			if instr.Dst != 0 {
				if _, ok := f.VRegInfo(instr.Dst); !ok {
					return fmt.Errorf("function %s: block %d writes unallocated vreg %d", f.Name, b.ID, instr.Dst)
				}
			}
			for _, a := range instr.Args {
				if _, ok := f.VRegInfo(a); !ok {
					return fmt.Errorf("function %s: block %d reads unallocated vreg %d", f.Name, b.ID, a)
				}
			}
			if instr.Op == OpJump || instr.Op == OpBranch {
				for _, t := range instr.Targets {
					if int(t) < 0 || int(t) >= len(f.Blocks) {
						return fmt.Errorf("function %s: block %d references out-of-range block %d", f.Name, b.ID, t)
					}
				}
			}
		}
		if term != 1 {
			return fmt.Errorf("function %s: block %d has %d terminators, want 1", f.Name, b.ID, term)
		}
	}
	return nil
}

// Global is a module-level variable (§3.4).
type Global struct {
	Name    string
	Type    VRegType
	IsConst bool
	HasInit bool
	Init    int64
}

// StringEntry is one interned (bytes, length) pair.
type StringEntry struct {
	Bytes []byte
}

// StringTable is the module's deduplicating interned string/byte-literal
// table, keyed by content hash (see internal/ir/strings.go).
type StringTable struct {
	entries []StringEntry
	index   map[[16]byte]int // blake2b-128 digest -> entries index (1-based id)
}

// Module is the top-level compiled unit: functions, globals, and the
// interned string table, plus a content-independent build identity.
type Module struct {
	Name      string
	BuildID   uuid.UUID
	Functions []*Function
	Globals   []Global
	Strings   *StringTable
}

// NewModule creates an empty module with a fresh random build id.
func NewModule(name string) *Module {
	return &Module{
		Name:    name,
		BuildID: uuid.New(),
		Strings: newStringTable(),
	}
}

// AddFunction appends f to the module.
func (m *Module) AddFunction(f *Function) { m.Functions = append(m.Functions, f) }

// AddGlobal appends g and returns its index.
func (m *Module) AddGlobal(g Global) int {
	m.Globals = append(m.Globals, g)
	return len(m.Globals) - 1
}

// Verify checks every function and every global reference in the
// module (§8's "for every global accessed ... index < globals.length").
func (m *Module) Verify() error {
	for _, f := range m.Functions {
		if err := f.Verify(); err != nil {
			return err
		}
		for _, b := range f.Blocks {
			for _, instr := range b.Instrs {
				if instr.Op == OpLoadGlobal || instr.Op == OpStoreGlobal {
					if instr.GlobalIndex < 0 || instr.GlobalIndex >= len(m.Globals) {
						return fmt.Errorf("function %s: global index %d out of range", f.Name, instr.GlobalIndex)
					}
				}
			}
		}
	}
	return nil
}
