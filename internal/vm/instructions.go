package vm

// instructions.go implements every opcode's effect function:
// `(WorldState, TransactionContext, CallContext) -> {cost, pc_delta} |
// Error`, operating on the uint256-backed Word/Stack/Memory types. PUSH/
// DUP/SWAP/LOG families are generated by a single parameterized
// constructor each rather than hand-written per width.

// operationFunc is the signature every opcode's effect function
// implements.
type operationFunc func(w *WorldState, tx *TransactionContext, c *CallContext) (cost uint64, pcDelta uint64, err error)

// pop1/pop2/pop3 pop the top N items off the stack, top first, erroring
// with EmptyStack if fewer than N are present.
func pop1(s *Stack) (*Word, error) {
	return s.Pop()
}

func pop2(s *Stack) (a, b *Word, err error) {
	if a, err = s.Pop(); err != nil {
		return nil, nil, err
	}
	if b, err = s.Pop(); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func pop3(s *Stack) (a, b, c *Word, err error) {
	if a, err = s.Pop(); err != nil {
		return nil, nil, nil, err
	}
	if b, err = s.Pop(); err != nil {
		return nil, nil, nil, err
	}
	if c, err = s.Pop(); err != nil {
		return nil, nil, nil, err
	}
	return a, b, c, nil
}

func pop4(s *Stack) (a, b, c, d *Word, err error) {
	if a, b, c, err = pop3(s); err != nil {
		return nil, nil, nil, nil, err
	}
	if d, err = s.Pop(); err != nil {
		return nil, nil, nil, nil, err
	}
	return a, b, c, d, nil
}

// wordToSize converts a stack word to a usize offset/size, failing
// MemoryOutOfBounds when it does not fit in a uint64.
func wordToSize(w *Word) (uint64, error) {
	if !w.IsUint64() {
		return 0, ErrMemoryOutOfBounds
	}
	return w.Uint64(), nil
}

// --- Arithmetic ---

func opAdd(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, b, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(new(Word).Add(a, b)); err != nil {
		return 0, 0, err
	}
	return GasVerylow, 1, nil
}

func opMul(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, b, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(new(Word).Mul(a, b)); err != nil {
		return 0, 0, err
	}
	return GasLow, 1, nil
}

func opSub(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, b, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(new(Word).Sub(a, b)); err != nil {
		return 0, 0, err
	}
	return GasVerylow, 1, nil
}

func opDiv(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, b, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	var out Word
	if b.IsZero() {
		out.Clear()
	} else {
		out.Div(a, b)
	}
	if err := c.Stack.Push(&out); err != nil {
		return 0, 0, err
	}
	return GasLow, 1, nil
}

func opSdiv(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, b, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	var out Word
	if b.IsZero() {
		out.Clear()
	} else {
		out.SDiv(a, b)
	}
	if err := c.Stack.Push(&out); err != nil {
		return 0, 0, err
	}
	return GasLow, 1, nil
}

func opMod(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, b, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	var out Word
	if b.IsZero() {
		out.Clear()
	} else {
		out.Mod(a, b)
	}
	if err := c.Stack.Push(&out); err != nil {
		return 0, 0, err
	}
	return GasLow, 1, nil
}

func opSmod(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, b, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	var out Word
	if b.IsZero() {
		out.Clear()
	} else {
		out.SMod(a, b)
	}
	if err := c.Stack.Push(&out); err != nil {
		return 0, 0, err
	}
	return GasLow, 1, nil
}

func opAddmod(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, b, n, err := pop3(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	var out Word
	if n.IsZero() {
		out.Clear()
	} else {
		out.AddMod(a, b, n)
	}
	if err := c.Stack.Push(&out); err != nil {
		return 0, 0, err
	}
	return GasMid, 1, nil
}

func opMulmod(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, b, n, err := pop3(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	var out Word
	if n.IsZero() {
		out.Clear()
	} else {
		out.MulMod(a, b, n)
	}
	if err := c.Stack.Push(&out); err != nil {
		return 0, 0, err
	}
	return GasMid, 1, nil
}

func opExp(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	base, exp, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	result := wrappingBigPow(base, exp)
	if err := c.Stack.Push(result); err != nil {
		return 0, 0, err
	}
	return expGas(exp), 1, nil
}

func opSignextend(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	b, x, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(signExtend(b, x)); err != nil {
		return 0, 0, err
	}
	return GasLow, 1, nil
}

// --- Comparison and bitwise ---

func opLt(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, b, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(boolWord(a.Lt(b))); err != nil {
		return 0, 0, err
	}
	return GasVerylow, 1, nil
}

func opGt(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, b, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(boolWord(a.Gt(b))); err != nil {
		return 0, 0, err
	}
	return GasVerylow, 1, nil
}

func opSlt(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, b, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(boolWord(a.Slt(b))); err != nil {
		return 0, 0, err
	}
	return GasVerylow, 1, nil
}

func opSgt(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, b, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(boolWord(a.Sgt(b))); err != nil {
		return 0, 0, err
	}
	return GasVerylow, 1, nil
}

func opEq(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, b, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(boolWord(a.Eq(b))); err != nil {
		return 0, 0, err
	}
	return GasVerylow, 1, nil
}

func opIszero(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, err := pop1(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(boolWord(a.IsZero())); err != nil {
		return 0, 0, err
	}
	return GasVerylow, 1, nil
}

func opAnd(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, b, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(new(Word).And(a, b)); err != nil {
		return 0, 0, err
	}
	return GasVerylow, 1, nil
}

func opOr(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, b, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(new(Word).Or(a, b)); err != nil {
		return 0, 0, err
	}
	return GasVerylow, 1, nil
}

func opXor(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, b, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(new(Word).Xor(a, b)); err != nil {
		return 0, 0, err
	}
	return GasVerylow, 1, nil
}

func opNot(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	a, err := pop1(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(new(Word).Not(a)); err != nil {
		return 0, 0, err
	}
	return GasVerylow, 1, nil
}

func opByte(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	i, x, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	result := new(Word).Set(x)
	result.Byte(i)
	if err := c.Stack.Push(result); err != nil {
		return 0, 0, err
	}
	return GasVerylow, 1, nil
}

func opShl(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	shift, value, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(shiftLeft(shift, value)); err != nil {
		return 0, 0, err
	}
	return GasVerylow, 1, nil
}

func opShr(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	shift, value, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(shiftRight(shift, value)); err != nil {
		return 0, 0, err
	}
	return GasVerylow, 1, nil
}

func opSar(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	shift, value, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(arithmeticShiftRight(shift, value)); err != nil {
		return 0, 0, err
	}
	return GasVerylow, 1, nil
}

// boolWord converts a Go bool to the canonical 0/1 Word the comparison
// opcodes push.
func boolWord(v bool) *Word {
	if v {
		return WordFromUint64(1)
	}
	return NewWord()
}

// --- Hashing ---

func opKeccak256(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	offsetW, sizeW, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	offset, err := wordToSize(offsetW)
	if err != nil {
		return 0, 0, err
	}
	size, err := wordToSize(sizeW)
	if err != nil {
		return 0, 0, err
	}
	data, expCost, err := c.Memory.Load(offset, size)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(keccak256Word(data)); err != nil {
		return 0, 0, err
	}
	return keccakGas(size) + expCost, 1, nil
}

// --- Environmental / context ---

func opAddress(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	if err := c.Stack.Push(addressToWord(c.Contract.Address)); err != nil {
		return 0, 0, err
	}
	return GasBase, 1, nil
}

func opCaller(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	if err := c.Stack.Push(addressToWord(c.Contract.Caller)); err != nil {
		return 0, 0, err
	}
	return GasBase, 1, nil
}

func opCallvalue(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	if err := c.Stack.Push(c.Contract.Value); err != nil {
		return 0, 0, err
	}
	return GasBase, 1, nil
}

func opOrigin(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	if err := c.Stack.Push(addressToWord(tx.From)); err != nil {
		return 0, 0, err
	}
	return GasBase, 1, nil
}

func opCodesize(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	if err := c.Stack.Push(WordFromUint64(uint64(len(c.Contract.Code)))); err != nil {
		return 0, 0, err
	}
	return GasBase, 1, nil
}

func opCalldatasize(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	if err := c.Stack.Push(WordFromUint64(uint64(len(c.Contract.Input)))); err != nil {
		return 0, 0, err
	}
	return GasBase, 1, nil
}

func opReturndatasize(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	if err := c.Stack.Push(WordFromUint64(uint64(len(c.ReturnData)))); err != nil {
		return 0, 0, err
	}
	return GasBase, 1, nil
}

func opGasprice(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	if err := c.Stack.Push(tx.GasPrice); err != nil {
		return 0, 0, err
	}
	return GasBase, 1, nil
}

func opCoinbase(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	if err := c.Stack.Push(addressToWord(tx.Block.Miner)); err != nil {
		return 0, 0, err
	}
	return GasBase, 1, nil
}

func opTimestamp(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	if err := c.Stack.Push(tx.Block.Time); err != nil {
		return 0, 0, err
	}
	return GasBase, 1, nil
}

func opNumber(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	if err := c.Stack.Push(tx.Block.Number); err != nil {
		return 0, 0, err
	}
	return GasBase, 1, nil
}

func opPrevrandao(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	if err := c.Stack.Push(tx.Block.Difficulty); err != nil {
		return 0, 0, err
	}
	return GasBase, 1, nil
}

func opGaslimit(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	if err := c.Stack.Push(tx.Block.GasLimit); err != nil {
		return 0, 0, err
	}
	return GasBase, 1, nil
}

func opChainid(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	if err := c.Stack.Push(w.ChainID); err != nil {
		return 0, 0, err
	}
	return GasBase, 1, nil
}

func opSelfbalance(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	acc, _ := w.AccessAccount(c.Contract.Address)
	if err := c.Stack.Push(acc.Balance); err != nil {
		return 0, 0, err
	}
	return GasLow, 1, nil
}

func opBalance(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	addrW, err := pop1(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	addr, err := validateAddress(addrW)
	if err != nil {
		return 0, 0, err
	}
	acc, wasWarm := w.AccessAccount(addr)
	if err := c.Stack.Push(acc.Balance); err != nil {
		return 0, 0, err
	}
	return accountAccessGas(wasWarm), 1, nil
}

func opExtcodesize(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	addrW, err := pop1(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	addr, err := validateAddress(addrW)
	if err != nil {
		return 0, 0, err
	}
	acc, wasWarm := w.AccessAccount(addr)
	if err := c.Stack.Push(WordFromUint64(uint64(len(acc.Code)))); err != nil {
		return 0, 0, err
	}
	return accountAccessGas(wasWarm), 1, nil
}

func opExtcodehash(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	addrW, err := pop1(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	addr, err := validateAddress(addrW)
	if err != nil {
		return 0, 0, err
	}
	acc, wasWarm := w.AccessAccount(addr)
	if err := c.Stack.Push(keccak256Word(acc.Code)); err != nil {
		return 0, 0, err
	}
	return accountAccessGas(wasWarm), 1, nil
}

func opCalldataload(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	offsetW, err := pop1(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if !offsetW.IsUint64() {
		if err := c.Stack.Push(NewWord()); err != nil {
			return 0, 0, err
		}
		return GasVerylow, 1, nil
	}
	if err := c.Stack.Push(WordFromBytes(zeroPaddedSlice(c.Contract.Input, offsetW.Uint64(), 32))); err != nil {
		return 0, 0, err
	}
	return GasVerylow, 1, nil
}

// zeroPaddedSlice returns size bytes from data starting at offset,
// zero-filling past data's end (and when offset is already past it).
func zeroPaddedSlice(data []byte, offset, size uint64) []byte {
	out := make([]byte, size)
	if offset >= uint64(len(data)) {
		return out
	}
	copy(out, data[offset:])
	return out
}

func opCalldatacopy(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	return copyToMemory(c, c.Contract.Input)
}

func opCodecopy(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	return copyToMemory(c, c.Contract.Code)
}

func opReturndatacopy(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	return copyToMemory(c, c.ReturnData)
}

// copyToMemory implements the shared CALLDATACOPY/CODECOPY shape: pop
// dest, offset, size; copy size bytes from src starting at offset,
// zero-padded past src's end.
func copyToMemory(c *CallContext, src []byte) (uint64, uint64, error) {
	destW, offsetW, sizeW, err := pop3(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	dest, err := wordToSize(destW)
	if err != nil {
		return 0, 0, err
	}
	size, err := wordToSize(sizeW)
	if err != nil {
		return 0, 0, err
	}
	var fragment []byte
	if offsetW.IsUint64() {
		fragment = zeroPaddedSlice(src, offsetW.Uint64(), size)
	} else {
		fragment = make([]byte, size)
	}
	expCost, err := c.Memory.Store(dest, fragment)
	if err != nil {
		return 0, 0, err
	}
	return copyGas(size) + expCost, 1, nil
}

func opExtcodecopy(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	addrW, destW, offsetW, sizeW, err := pop4(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	addr, err := validateAddress(addrW)
	if err != nil {
		return 0, 0, err
	}
	dest, err := wordToSize(destW)
	if err != nil {
		return 0, 0, err
	}
	size, err := wordToSize(sizeW)
	if err != nil {
		return 0, 0, err
	}
	acc, wasWarm := w.AccessAccount(addr)
	var fragment []byte
	if offsetW.IsUint64() {
		fragment = zeroPaddedSlice(acc.Code, offsetW.Uint64(), size)
	} else {
		fragment = make([]byte, size)
	}
	expCost, err := c.Memory.Store(dest, fragment)
	if err != nil {
		return 0, 0, err
	}
	return extCodeCopyGas(size, wasWarm) + expCost, 1, nil
}

func opGas(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	remaining := uint64(0)
	if c.Contract.Gas > GasBase {
		remaining = c.Contract.Gas - GasBase
	}
	if err := c.Stack.Push(WordFromUint64(remaining)); err != nil {
		return 0, 0, err
	}
	return GasBase, 1, nil
}

// --- Memory access ---

func opPop(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	if _, err := c.Stack.Pop(); err != nil {
		return 0, 0, err
	}
	return GasPop, 1, nil
}

func opMload(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	offsetW, err := pop1(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	offset, err := wordToSize(offsetW)
	if err != nil {
		return 0, 0, err
	}
	val, expCost, err := c.Memory.LoadWord(offset)
	if err != nil {
		return 0, 0, err
	}
	if err := c.Stack.Push(val); err != nil {
		return 0, 0, err
	}
	return GasMload + expCost, 1, nil
}

func opMstore(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	offsetW, val, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	offset, err := wordToSize(offsetW)
	if err != nil {
		return 0, 0, err
	}
	expCost, err := c.Memory.StoreWord(offset, val)
	if err != nil {
		return 0, 0, err
	}
	return GasMstore + expCost, 1, nil
}

func opMstore8(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	offsetW, val, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	offset, err := wordToSize(offsetW)
	if err != nil {
		return 0, 0, err
	}
	expCost, err := c.Memory.StoreByte(offset, byte(val.Uint64()))
	if err != nil {
		return 0, 0, err
	}
	return GasMstore8 + expCost, 1, nil
}

func opMsize(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	if err := c.Stack.Push(WordFromUint64(c.Memory.Size())); err != nil {
		return 0, 0, err
	}
	return GasMsize, 1, nil
}

func opMcopy(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	destW, srcW, sizeW, err := pop3(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	dest, err := wordToSize(destW)
	if err != nil {
		return 0, 0, err
	}
	src, err := wordToSize(srcW)
	if err != nil {
		return 0, 0, err
	}
	size, err := wordToSize(sizeW)
	if err != nil {
		return 0, 0, err
	}
	expCost, err := c.Memory.Copy(dest, src, size)
	if err != nil {
		return 0, 0, err
	}
	return copyGas(size) + expCost, 1, nil
}

// --- Persistent storage ---

func opSload(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	key, err := pop1(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	wasWarm := w.Storage.AccessSlot(c.Contract.Address, *key, func() Word {
		return Word{}
	})
	val := w.Storage.Load(c.Contract.Address, *key)
	if err := c.Stack.Push(&val); err != nil {
		return 0, 0, err
	}
	return slotAccessGas(wasWarm), 1, nil
}

func opSstore(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	key, newVal, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	wasWarm := w.Storage.AccessSlot(c.Contract.Address, *key, func() Word {
		return Word{}
	})
	original := w.Storage.Original(c.Contract.Address, *key)
	current := w.Storage.Load(c.Contract.Address, *key)
	cost := sstoreGas(&original, &current, newVal, wasWarm)
	w.Storage.Store(c.Contract.Address, *key, *newVal)
	return cost, 1, nil
}

// --- Transient storage ---

func opTload(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	key, err := pop1(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	val := c.Transient.Load(c.Contract.Address, *key)
	if err := c.Stack.Push(&val); err != nil {
		return 0, 0, err
	}
	return GasTload, 1, nil
}

func opTstore(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	key, val, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	c.Transient.Store(c.Contract.Address, *key, *val)
	return GasTstore, 1, nil
}

// --- Control flow ---

func opJump(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	dest, err := pop1(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if !c.Contract.ValidJumpDest(dest) {
		return 0, 0, ErrInvalidJumpDest
	}
	c.PC = dest.Uint64()
	return GasMid, 0, nil
}

func opJumpi(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	dest, cond, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	if cond.IsZero() {
		return GasHigh, 1, nil
	}
	if !c.Contract.ValidJumpDest(dest) {
		return 0, 0, ErrInvalidJumpDest
	}
	c.PC = dest.Uint64()
	return GasHigh, 0, nil
}

func opJumpdest(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	return GasJumpDest, 1, nil
}

func opPc(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	if err := c.Stack.Push(WordFromUint64(c.PC)); err != nil {
		return 0, 0, err
	}
	return GasPc, 1, nil
}

// --- Halting ---

func opStop(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	c.Stop = true
	return 0, 0, nil
}

func opReturn(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	offsetW, sizeW, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	offset, err := wordToSize(offsetW)
	if err != nil {
		return 0, 0, err
	}
	size, err := wordToSize(sizeW)
	if err != nil {
		return 0, 0, err
	}
	data, expCost, err := c.Memory.Load(offset, size)
	if err != nil {
		return 0, 0, err
	}
	c.Stop = true
	c.Return = data
	return expCost, 0, nil
}

func opRevert(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	offsetW, sizeW, err := pop2(c.Stack)
	if err != nil {
		return 0, 0, err
	}
	offset, err := wordToSize(offsetW)
	if err != nil {
		return 0, 0, err
	}
	size, err := wordToSize(sizeW)
	if err != nil {
		return 0, 0, err
	}
	data, expCost, err := c.Memory.Load(offset, size)
	if err != nil {
		return 0, 0, err
	}
	c.Stop = true
	c.Revert = true
	c.Return = data
	return expCost, 0, nil
}

// opInvalid implements both INVALID and every unmapped byte and reserved
// opcode: an orderly halt that reverts and consumes all remaining gas of
// the call context.
func opInvalid(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
	c.Stop = true
	c.Revert = true
	return c.Contract.Gas, 0, nil
}

// --- PUSH/DUP/SWAP/LOG families ---

// makePush returns PUSHn's effect function: read n bytes of code
// immediately after the opcode, zero-padded past code end, push as a
// big-endian word.
func makePush(n int) operationFunc {
	cost := GasPush
	if n == 0 {
		cost = GasPush0
	}
	return func(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
		start := c.PC + 1
		end := start + uint64(n)
		codeLen := uint64(len(c.Contract.Code))
		var raw []byte
		if start >= codeLen {
			raw = nil
		} else if end > codeLen {
			raw = c.Contract.Code[start:codeLen]
		} else {
			raw = c.Contract.Code[start:end]
		}
		buf := make([]byte, n)
		copy(buf, raw)
		if err := c.Stack.Push(WordFromBytes(buf)); err != nil {
			return 0, 0, err
		}
		return cost, uint64(n + 1), nil
	}
}

// makeDup returns DUPn's effect function.
func makeDup(n int) operationFunc {
	return func(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
		if err := c.Stack.Dup(n); err != nil {
			return 0, 0, err
		}
		return GasDup, 1, nil
	}
}

// makeSwap returns SWAPn's effect function.
func makeSwap(n int) operationFunc {
	return func(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
		if err := c.Stack.Swap(n); err != nil {
			return 0, 0, err
		}
		return GasSwap, 1, nil
	}
}

// makeLog returns LOGn's effect function: pop offset, size, then n topic
// words, and append the entry to the contract's log list.
func makeLog(n int) operationFunc {
	return func(w *WorldState, tx *TransactionContext, c *CallContext) (uint64, uint64, error) {
		offsetW, sizeW, err := pop2(c.Stack)
		if err != nil {
			return 0, 0, err
		}
		topics := make([]*Word, n)
		for i := 0; i < n; i++ {
			topics[i], err = pop1(c.Stack)
			if err != nil {
				return 0, 0, err
			}
		}
		offset, err := wordToSize(offsetW)
		if err != nil {
			return 0, 0, err
		}
		size, err := wordToSize(sizeW)
		if err != nil {
			return 0, 0, err
		}
		data, expCost, err := c.Memory.Load(offset, size)
		if err != nil {
			return 0, 0, err
		}
		var entry Log
		entry.Data = data
		for i := 0; i < n; i++ {
			entry.Topics[i] = topics[i]
		}
		c.Contract.Logs = append(c.Contract.Logs, entry)
		return logGas(n, size) + expCost, 1, nil
	}
}
