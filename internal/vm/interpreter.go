package vm

import (
	"github.com/eth2030/evmcore/internal/log"
	"github.com/eth2030/evmcore/internal/metrics"
)

// interpreter.go implements the dispatcher loop and the transaction gate
// that drives it. The loop handles a single call context only, it never
// recurses into a child call: CREATE/CALL/CALLCODE/DELEGATECALL/
// STATICCALL/SELFDESTRUCT are reserved opcodes that dispatch to opInvalid.

var logger = log.Default().Module("vm")

// Run drives the interpreter loop for a single call context until it
// halts or an error aborts the transaction:
//  1. read code[pc] (or STOP if out of range) and look up its function
//  2. invoke it
//  3. if cost exceeds remaining gas, zero the gas and fail OutOfGas
//  4. subtract cost, advance pc by the returned delta
//  5. repeat until stop is set
func Run(world *WorldState, tx *TransactionContext, call *CallContext, table *OperationTable) error {
	for !call.Stop {
		op := call.Contract.GetOp(call.PC)
		fn := table[op]
		metrics.OpcodesExecuted.WithLabelValues(op.String()).Inc()
		logger.Debug("step", "pc", call.PC, "op", op.String(), "gas", call.Contract.Gas)

		cost, delta, err := fn(world, tx, call)
		if err != nil {
			logger.Debug("abort", "pc", call.PC, "op", op.String(), "err", err)
			return err
		}

		if cost > call.Contract.Gas {
			call.Contract.Gas = 0
			logger.Debug("out of gas", "pc", call.PC, "op", op.String(), "cost", cost)
			return ErrOutOfGas
		}
		call.Contract.Gas -= cost
		call.PC += delta
	}
	return nil
}

// ExecuteResult is the outcome of a completed transaction.
type ExecuteResult struct {
	Data         []byte
	RemainingGas uint64
	Revert       bool
	Logs         []Log
}

// ExecuteTransaction is the engine's single entry point: given a
// transaction and world state plus the caller-supplied intrinsic gas cost
// (computing intrinsic cost from calldata/access-list shape is left to the
// host, which is closer to the fee-schedule details that feed it), run the
// transaction gate and the interpreter loop to completion.
//
// Step 1: reject if gas < intrinsicCost, else debit it from the call
// context's budget. Step 2: reject if the sender's balance is less than
// gas*gas_price+value. Step 3: build the call context (code is the
// transaction's data when creating, otherwise the target account's code)
// and run the interpreter loop. Step 4: return the result.
func ExecuteTransaction(world *WorldState, tx *TransactionContext, intrinsicCost uint64) (*ExecuteResult, error) {
	if tx.Gas < intrinsicCost {
		metrics.TransactionErrors.WithLabelValues("intrinsic_gas_too_low").Inc()
		logger.Info("transaction rejected", "from", tx.From.Hex(), "reason", "intrinsic_gas_too_low")
		return nil, &IntrinsicGasTooLowError{Cost: intrinsicCost}
	}
	gasAfterIntrinsic := tx.Gas - intrinsicCost

	actualCost := new(Word).Mul(WordFromUint64(tx.Gas), tx.GasPrice)
	actualCost.Add(actualCost, tx.Value)

	sender, _ := world.AccessAccount(tx.From)
	if sender.Balance.Lt(actualCost) {
		metrics.TransactionErrors.WithLabelValues("insufficient_funds").Inc()
		logger.Info("transaction rejected", "from", tx.From.Hex(), "reason", "insufficient_funds")
		return nil, &InsufficientFundsError{Cost: actualCost}
	}

	if tx.AccessList != nil {
		tx.AccessList.Apply(world.Storage, world.Storage.Load)
	}

	addr := tx.ContractAddress()
	var code, input []byte
	if tx.IsCreate {
		code = tx.Data
	} else {
		target, _ := world.AccessAccount(addr)
		code = target.Code
		input = tx.Data
	}

	contract := NewCallContextContract(addr, tx.From, code, gasAfterIntrinsic, input, tx.Value)
	call := NewCallContext(contract)

	table := newOperationTable()
	if err := Run(world, tx, call, table); err != nil {
		metrics.TransactionErrors.WithLabelValues(errorKind(err)).Inc()
		logger.Info("transaction aborted", "from", tx.From.Hex(), "to", addr.Hex(), "err", err)
		return nil, err
	}

	gasUsed := gasAfterIntrinsic - call.Contract.Gas
	metrics.GasUsed.Observe(float64(gasUsed))
	logger.Info("transaction executed", "from", tx.From.Hex(), "to", addr.Hex(), "gas_used", gasUsed, "reverted", call.Revert)

	return &ExecuteResult{
		Data:         call.Return,
		RemainingGas: call.Contract.Gas,
		Revert:       call.Revert,
		Logs:         call.Contract.Logs,
	}, nil
}

// errorKind maps a Run abort to the label TransactionErrors groups it
// under.
func errorKind(err error) string {
	switch {
	case err == ErrOutOfGas:
		return "out_of_gas"
	case err == ErrInvalidJumpDest:
		return "invalid_jump_dest"
	case err == ErrInvalidAddress:
		return "invalid_address"
	default:
		return "other"
	}
}
