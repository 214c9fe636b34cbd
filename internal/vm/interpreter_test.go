package vm

import (
	"testing"

	"github.com/eth2030/evmcore/internal/types"
)

func newTestTx() *TransactionContext {
	return &TransactionContext{
		GasPrice: NewWord(),
		Value:    NewWord(),
		Block:    BlockContext{Number: NewWord(), Time: NewWord(), Difficulty: NewWord(), GasLimit: NewWord()},
	}
}

func runCode(t *testing.T, code []byte, gas uint64) (*WorldState, *CallContext) {
	t.Helper()
	world := NewWorldState(NewWord())
	contract := NewCallContextContract(types.Address{}, types.Address{}, code, gas, nil, NewWord())
	call := NewCallContext(contract)
	table := newOperationTable()
	if err := Run(world, newTestTx(), call, table); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return world, call
}

// Scenario 1: PUSH1 0x42, PUSH1 0xFF, ADD with gas 50 stops cleanly with
// 41 gas remaining (50 - 3 - 3 - 3).
func TestScenarioSimpleAddition(t *testing.T) {
	code := []byte{0x60, 0x42, 0x60, 0xFF, 0x01}
	_, call := runCode(t, code, 50)

	if !call.Stop {
		t.Fatal("expected execution to stop")
	}
	if call.Revert {
		t.Fatal("expected no revert")
	}
	if call.Contract.Gas != 41 {
		t.Errorf("remaining gas = %d, want 41", call.Contract.Gas)
	}
}

// Scenario 2: same code with gas 2 fails OutOfGas (PUSH1 needs 3).
func TestScenarioOutOfGas(t *testing.T) {
	code := []byte{0x60, 0x42, 0x60, 0xFF, 0x01}
	world := NewWorldState(NewWord())
	contract := NewCallContextContract(types.Address{}, types.Address{}, code, 2, nil, NewWord())
	call := NewCallContext(contract)
	table := newOperationTable()

	err := Run(world, newTestTx(), call, table)
	if err != ErrOutOfGas {
		t.Errorf("Run() error = %v, want ErrOutOfGas", err)
	}
	if call.Contract.Gas != 0 {
		t.Errorf("remaining gas after OutOfGas = %d, want 0", call.Contract.Gas)
	}
}

// Scenario 3: CREATE address derivation from sender and nonce.
func TestScenarioContractAddressDerivation(t *testing.T) {
	sender := types.HexToAddress("0x6AC7EA33F8831EA9DCC53393AAA88B25A785DBF0")

	tests := []struct {
		nonce uint64
		want  string
	}{
		{0, "0xCD234A471B72BA2F1CCF0A70FCABA648A5EECD8D"},
		{1, "0x343C43A37D37DFF08AE8C4A11544C718ABB4FCF8"},
	}
	for _, tt := range tests {
		tx := &TransactionContext{From: sender, IsCreate: true, Nonce: tt.nonce}
		got := tx.ContractAddress()
		want := types.HexToAddress(tt.want)
		if got != want {
			t.Errorf("ContractAddress(nonce=%d) = %s, want %s", tt.nonce, got.Hex(), want.Hex())
		}
	}
}

// Scenario 4: KECCAK256 over the first four bytes of memory ("FF FF FF
// FF" followed by zero padding from the expansion to 32 bytes).
func TestScenarioKeccak256(t *testing.T) {
	code := []byte{
		0x60, 0xFF, 0x60, 0x00, 0x53, // PUSH1 0xFF, PUSH1 0, MSTORE8 -> mem[0] = 0xFF
		0x60, 0xFF, 0x60, 0x01, 0x53, // mem[1] = 0xFF
		0x60, 0xFF, 0x60, 0x02, 0x53, // mem[2] = 0xFF
		0x60, 0xFF, 0x60, 0x03, 0x53, // mem[3] = 0xFF
		0x60, 0x04, // PUSH1 4
		0x60, 0x00, // PUSH1 0
		0x20, // KECCAK256
		0x00, // STOP
	}
	_, call := runCode(t, code, 100000)

	top, err := call.Stack.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := WordFromBytes(mustHexBytes("29045A592007D0C246EF02C2223570DA9522D0CF0F73282C79A1BC8F0BB2C238"))
	if !top.Eq(want) {
		t.Errorf("KECCAK256 result = %s, want %s", top.String(), want.String())
	}
}

// Scenario 5: SLOAD is 2100 cold, then 100 warm on a repeat access.
func TestScenarioWarmColdSload(t *testing.T) {
	world := NewWorldState(NewWord())
	contract := NewCallContextContract(types.Address{}, types.Address{}, nil, 100000, nil, NewWord())
	world.Storage.Seed(contract.Address, *WordFromUint64(42), *WordFromUint64(0xAB))

	call := NewCallContext(contract)
	table := newOperationTable()

	call.Stack.Push(WordFromUint64(42))
	cost, _, err := table[SLOAD](world, newTestTx(), call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost != GasSloadCold {
		t.Errorf("first SLOAD cost = %d, want %d", cost, GasSloadCold)
	}

	call.Stack.Push(WordFromUint64(42))
	cost, _, err = table[SLOAD](world, newTestTx(), call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost != GasSloadWarm {
		t.Errorf("second SLOAD cost = %d, want %d", cost, GasSloadWarm)
	}
}

// Scenario 6: SSTORE's three cost classes in sequence.
func TestScenarioSstoreCostClasses(t *testing.T) {
	world := NewWorldState(NewWord())
	contract := NewCallContextContract(types.Address{}, types.Address{}, nil, 100000, nil, NewWord())
	call := NewCallContext(contract)
	table := newOperationTable()

	step := func(value uint64, wantCost uint64) {
		t.Helper()
		call.Stack.Push(WordFromUint64(value))
		call.Stack.Push(WordFromUint64(0))
		cost, _, err := table[SSTORE](world, newTestTx(), call)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cost != wantCost {
			t.Errorf("SSTORE(0, %#x) cost = %d, want %d", value, cost, wantCost)
		}
	}

	step(0xFFFF, GasSstoreSet+GasSloadCold)
	step(0xFFFF, GasSloadWarm)
	step(0xFFF0, GasSloadWarm)
}

func mustHexBytes(s string) []byte {
	b := make([]byte, len(s)/2)
	for i := range b {
		hi := hexDigit(s[i*2])
		lo := hexDigit(s[i*2+1])
		b[i] = hi<<4 | lo
	}
	return b
}

func hexDigit(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
