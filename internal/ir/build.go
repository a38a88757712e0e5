package ir

// Builder functions for each opcode family. Each pushes exactly one
// instruction onto the given block and never allocates a block itself
// — block creation belongs to the generator (§4.4).

// EmitBinary appends a two-operand instruction producing dst.
func EmitBinary(b *BasicBlock, op Opcode, dst, lhs, rhs VRegID) {
	b.push(Instruction{Op: op, Dst: dst, Args: []VRegID{lhs, rhs}})
}

// EmitUnary appends a one-operand instruction producing dst.
func EmitUnary(b *BasicBlock, op Opcode, dst, src VRegID) {
	b.push(Instruction{Op: op, Dst: dst, Args: []VRegID{src}})
}

// EmitConst appends an integer (or negated string-id) constant.
func EmitConst(b *BasicBlock, dst VRegID, imm int64) {
	b.push(Instruction{Op: OpConst, Dst: dst, Imm: imm})
}

// EmitConstBig appends a big-integer constant, little-endian limbs.
func EmitConstBig(b *BasicBlock, dst VRegID, limbs []uint64) {
	b.push(Instruction{Op: OpConstBig, Dst: dst, Limbs: append([]uint64(nil), limbs...)})
}

// EmitMov appends a register-to-register move (the SSA-lite substitute
// for phi nodes, §9).
func EmitMov(b *BasicBlock, dst, src VRegID) {
	b.push(Instruction{Op: OpMov, Dst: dst, Args: []VRegID{src}})
}

// EmitLoad appends a memory load through addr.
func EmitLoad(b *BasicBlock, dst, addr VRegID) {
	b.push(Instruction{Op: OpLoad, Dst: dst, Args: []VRegID{addr}})
}

// EmitStore appends a memory store of val through addr.
func EmitStore(b *BasicBlock, addr, val VRegID) {
	b.push(Instruction{Op: OpStore, Args: []VRegID{addr, val}})
}

// EmitPtrArith appends ptr-add or ptr-sub.
func EmitPtrArith(b *BasicBlock, op Opcode, dst, ptr, offset VRegID) {
	b.push(Instruction{Op: op, Dst: dst, Args: []VRegID{ptr, offset}})
}

// EmitAlloc appends a heap allocation.
func EmitAlloc(b *BasicBlock, dst, size VRegID, align int) {
	b.push(Instruction{Op: OpAlloc, Dst: dst, Args: []VRegID{size}, Align: align})
}

// EmitDealloc appends a heap deallocation.
func EmitDealloc(b *BasicBlock, ptr VRegID) {
	b.push(Instruction{Op: OpDealloc, Args: []VRegID{ptr}})
}

// EmitStackAlloc appends a stack allocation.
func EmitStackAlloc(b *BasicBlock, dst, size VRegID) {
	b.push(Instruction{Op: OpStackAlloc, Dst: dst, Args: []VRegID{size}})
}

// EmitArenaAlloc appends an arena allocation scoped to scopeID.
func EmitArenaAlloc(b *BasicBlock, dst, size VRegID, align, scopeID int) {
	b.push(Instruction{Op: OpArenaAlloc, Dst: dst, Args: []VRegID{size}, Align: align, ScopeID: scopeID})
}

// EmitArenaReset appends an arena reset for scopeID.
func EmitArenaReset(b *BasicBlock, scopeID int) {
	b.push(Instruction{Op: OpArenaReset, ScopeID: scopeID})
}

// EmitSlabAlloc appends a slab allocation keyed by a type-name hash.
func EmitSlabAlloc(b *BasicBlock, dst, size VRegID, hashKey uint64) {
	b.push(Instruction{Op: OpSlabAlloc, Dst: dst, Args: []VRegID{size}, HashKey: hashKey})
}

// EmitSlabFree appends a slab free keyed by a type-name hash.
func EmitSlabFree(b *BasicBlock, ptr VRegID, hashKey uint64) {
	b.push(Instruction{Op: OpSlabFree, Args: []VRegID{ptr}, HashKey: hashKey})
}

// EmitAtomicLoad appends an atomic-load.
func EmitAtomicLoad(b *BasicBlock, dst, ptr VRegID) {
	b.push(Instruction{Op: OpAtomicLoad, Dst: dst, Args: []VRegID{ptr}})
}

// EmitAtomicStore appends an atomic-store.
func EmitAtomicStore(b *BasicBlock, ptr, val VRegID) {
	b.push(Instruction{Op: OpAtomicStore, Args: []VRegID{ptr, val}})
}

// EmitAtomicSwap appends an atomic-swap.
func EmitAtomicSwap(b *BasicBlock, dst, ptr, val VRegID) {
	b.push(Instruction{Op: OpAtomicSwap, Dst: dst, Args: []VRegID{ptr, val}})
}

// EmitAtomicCAS appends an atomic compare-and-swap.
func EmitAtomicCAS(b *BasicBlock, dst, ptr, expected, newVal VRegID) {
	b.push(Instruction{Op: OpAtomicCAS, Dst: dst, Args: []VRegID{ptr, expected, newVal}})
}

// EmitMMIORead appends an mmio-read from a constant-only address.
func EmitMMIORead(b *BasicBlock, dst, addr VRegID) {
	b.push(Instruction{Op: OpMMIORead, Dst: dst, Args: []VRegID{addr}})
}

// EmitJump appends an unconditional jump.
func EmitJump(b *BasicBlock, target BlockID) {
	b.push(Instruction{Op: OpJump, Targets: []BlockID{target}})
}

// EmitBranch appends a conditional branch.
func EmitBranch(b *BasicBlock, cond VRegID, thenBlock, elseBlock BlockID) {
	b.push(Instruction{Op: OpBranch, Args: []VRegID{cond}, Targets: []BlockID{thenBlock, elseBlock}})
}

// EmitReturn appends a return, with or without a value.
func EmitReturn(b *BasicBlock, val VRegID, hasValue bool) {
	instr := Instruction{Op: OpReturn, HasValue: hasValue}
	if hasValue {
		instr.Args = []VRegID{val}
	}
	b.push(instr)
}

// EmitCall appends a call to a named runtime/user symbol.
func EmitCall(b *BasicBlock, dst VRegID, callee string, args []VRegID) {
	b.push(Instruction{Op: OpCall, Dst: dst, Callee: callee, Args: append([]VRegID(nil), args...)})
}

// EmitLoadGlobal appends a global read.
func EmitLoadGlobal(b *BasicBlock, dst VRegID, globalIndex int) {
	b.push(Instruction{Op: OpLoadGlobal, Dst: dst, GlobalIndex: globalIndex})
}

// EmitStoreGlobal appends a global write.
func EmitStoreGlobal(b *BasicBlock, globalIndex int, val VRegID) {
	b.push(Instruction{Op: OpStoreGlobal, GlobalIndex: globalIndex, Args: []VRegID{val}})
}

// EmitPrefetch appends a prefetch hint, returning the same pointer.
func EmitPrefetch(b *BasicBlock, op Opcode, dst, ptr VRegID) {
	b.push(Instruction{Op: op, Dst: dst, Args: []VRegID{ptr}})
}

// EmitInlineAsm appends an inline-assembly instruction.
func EmitInlineAsm(b *BasicBlock, asm *AsmPayload, inputArgs []VRegID) {
	b.push(Instruction{Op: OpInlineAsm, Args: append([]VRegID(nil), inputArgs...), Asm: asm})
}

// EmitSyscall appends a syscall with a fixed number (write=1, read=0)
// and an argument count.
func EmitSyscall(b *BasicBlock, dst VRegID, num int, args []VRegID) {
	b.push(Instruction{Op: OpSyscall, Dst: dst, SyscallNum: num, Args: append([]VRegID(nil), args...)})
}

// EmitSyscallRaw appends a raw syscall whose number is itself a
// runtime value rather than a compile-time constant; it is passed as
// the first argument.
func EmitSyscallRaw(b *BasicBlock, dst VRegID, numVReg VRegID, args []VRegID) {
	all := append([]VRegID{numVReg}, args...)
	b.push(Instruction{Op: OpSyscall, Dst: dst, SyscallNum: -1, Args: all})
}
