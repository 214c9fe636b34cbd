package vm

import "github.com/eth2030/evmcore/internal/types"

// context.go implements the Account/WorldState/Transaction/Block/
// CallContextContract/Log/CallContext shapes that make up the execution
// environment for a single transaction. Log intentionally omits
// block-indexing fields (block number, tx hash/index, block hash, log
// index, removed) since this module doesn't implement a cross-transaction
// log surface.

// Account is the balance+code pair the account table maps addresses to.
// A missing account behaves as {balance: 0, code: empty}.
type Account struct {
	Balance *Word
	Code    []byte
}

func defaultAccount() *Account {
	return &Account{Balance: NewWord(), Code: nil}
}

// WorldState is the long-lived account table plus per-account slot
// storage, shared mutably with a single transaction's CallContext for the
// transaction's duration.
type WorldState struct {
	Accounts map[types.Address]*Account
	ChainID  *Word
	Storage  *Storage
}

// NewWorldState returns an empty WorldState with the given chain id.
func NewWorldState(chainID *Word) *WorldState {
	if chainID == nil {
		chainID = NewWord()
	}
	return &WorldState{
		Accounts: make(map[types.Address]*Account),
		ChainID:  chainID,
		Storage:  NewStorage(),
	}
}

// SetAccount installs acc at addr, used by hosts seeding initial state.
func (w *WorldState) SetAccount(addr types.Address, acc *Account) {
	w.Accounts[addr] = acc
}

// AccessAccount returns the account at addr, materializing a default entry
// on first access, and reports whether it was already warm. Every
// external-account-touching opcode (BALANCE, EXTCODESIZE, EXTCODEHASH,
// EXTCODECOPY) goes through this; the reserved CALL/CREATE family
// dispatches to opInvalid and touches no account.
func (w *WorldState) AccessAccount(addr types.Address) (acc *Account, wasWarm bool) {
	acc, ok := w.Accounts[addr]
	if !ok {
		acc = defaultAccount()
		w.Accounts[addr] = acc
	}
	wasWarm = w.Storage.AccessAccount(addr)
	return acc, wasWarm
}

// BlockContext is the subset of block data the interpreter can read.
type BlockContext struct {
	Number     *Word
	Time       *Word
	Difficulty *Word
	GasLimit   *Word
	Miner      types.Address
}

// TransactionContext is the transaction being executed, plus the block it
// executes against (COINBASE/TIMESTAMP/NUMBER/PREVRANDAO/GASLIMIT read
// through it).
type TransactionContext struct {
	Data       []byte
	From       types.Address
	To         types.Address
	IsCreate   bool
	Gas        uint64
	GasPrice   *Word
	Nonce      uint64
	Value      *Word
	Block      BlockContext
	AccessList *AccessList
}

// ContractAddress returns To for a regular call, or the CREATE-derived
// address (keccak256(rlp([from, nonce])) & low-160) for a creation
// transaction.
func (tc *TransactionContext) ContractAddress() types.Address {
	if !tc.IsCreate {
		return tc.To
	}
	return deriveContractAddress(tc.From, tc.Nonce)
}

// Log is one entry appended by the LOG family: up to 4 topics (nil slots
// mean no topic at that position) plus opaque data.
type Log struct {
	Data   []byte
	Topics [4]*Word
}

// CallContextContract is the environment the running code observes:
// its own address, caller, code, budget, input, accumulated logs, and
// the value it was invoked with.
type CallContextContract struct {
	Address types.Address
	Caller  types.Address
	Code    []byte
	Gas     uint64
	Input   []byte
	Logs    []Log
	Value   *Word

	jumpdests map[uint64]bool
}

// NewCallContextContract builds the contract environment for a single
// call: code is the transaction's data when creating, otherwise the
// target account's code.
func NewCallContextContract(addr, caller types.Address, code []byte, gas uint64, input []byte, value *Word) *CallContextContract {
	return &CallContextContract{
		Address: addr,
		Caller:  caller,
		Code:    code,
		Gas:     gas,
		Input:   input,
		Value:   value,
	}
}

// GetOp returns the opcode at position n in the contract code, or STOP
// (0x00) when n is out of range.
func (c *CallContextContract) GetOp(n uint64) OpCode {
	if n < uint64(len(c.Code)) {
		return OpCode(c.Code[n])
	}
	return STOP
}

// UseGas attempts to consume gas from the contract's budget. Returns
// false if insufficient.
func (c *CallContextContract) UseGas(gas uint64) bool {
	if c.Gas < gas {
		return false
	}
	c.Gas -= gas
	return true
}

// CallContext owns everything exclusive to one transaction's execution:
// the stack, memory, transient store, program counter, and halt flags.
type CallContext struct {
	Contract   *CallContextContract
	Memory     *Memory
	PC         uint64
	Return     []byte
	ReturnData []byte
	Revert     bool
	Stack      *Stack
	Stop       bool
	Transient  *TransientStorage
}

// NewCallContext builds a fresh CallContext around contract, with empty
// stack, memory, and transient storage.
func NewCallContext(contract *CallContextContract) *CallContext {
	return &CallContext{
		Contract:  contract,
		Memory:    NewMemory(),
		Stack:     NewStack(),
		Transient: NewTransientStorage(),
	}
}
