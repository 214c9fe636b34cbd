// Command evmrun executes a single transaction against a fresh world
// state and prints the result.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/eth2030/evmcore/internal/log"
	"github.com/eth2030/evmcore/internal/types"
	"github.com/eth2030/evmcore/internal/vm"
	"github.com/urfave/cli/v2"
)

var (
	codeFlag = &cli.StringFlag{
		Name:     "code",
		Usage:    "Hex-encoded bytecode to execute (0x-prefixed or bare)",
		Required: true,
	}
	inputFlag = &cli.StringFlag{
		Name:  "input",
		Usage: "Hex-encoded calldata",
		Value: "",
	}
	gasFlag = &cli.Uint64Flag{
		Name:  "gas",
		Usage: "Gas supplied with the transaction",
		Value: 100000,
	}
	valueFlag = &cli.Uint64Flag{
		Name:  "value",
		Usage: "Value transferred with the transaction, in wei",
		Value: 0,
	}
	gasPriceFlag = &cli.Uint64Flag{
		Name:  "gas-price",
		Usage: "Gas price for the balance check",
		Value: 1,
	}
	intrinsicGasFlag = &cli.Uint64Flag{
		Name:  "intrinsic-gas",
		Usage: "Intrinsic gas cost to debit before execution begins",
		Value: 21000,
	}
	balanceFlag = &cli.Uint64Flag{
		Name:  "balance",
		Usage: "Starting balance of the sending account, in wei",
		Value: 1_000_000_000,
	}
)

func main() {
	app := &cli.App{
		Name:  "evmrun",
		Usage: "run a single transaction against an empty world state",
		Flags: []cli.Flag{codeFlag, inputFlag, gasFlag, valueFlag, gasPriceFlag, intrinsicGasFlag, balanceFlag},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Error("evmrun failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	code, err := decodeHex(ctx.String(codeFlag.Name))
	if err != nil {
		return fmt.Errorf("decode --code: %w", err)
	}
	input, err := decodeHex(ctx.String(inputFlag.Name))
	if err != nil {
		return fmt.Errorf("decode --input: %w", err)
	}

	from := types.HexToAddress("0x00000000000000000000000000000000000001")
	to := types.HexToAddress("0x00000000000000000000000000000000000002")

	world := vm.NewWorldState(vm.WordFromUint64(1))
	world.SetAccount(from, &vm.Account{Balance: vm.WordFromUint64(ctx.Uint64(balanceFlag.Name))})
	world.SetAccount(to, &vm.Account{Balance: vm.NewWord(), Code: code})

	tx := &vm.TransactionContext{
		Data:     input,
		From:     from,
		To:       to,
		IsCreate: false,
		Gas:      ctx.Uint64(gasFlag.Name),
		GasPrice: vm.WordFromUint64(ctx.Uint64(gasPriceFlag.Name)),
		Value:    vm.WordFromUint64(ctx.Uint64(valueFlag.Name)),
		Block: vm.BlockContext{
			Number:     vm.NewWord(),
			Time:       vm.NewWord(),
			Difficulty: vm.NewWord(),
			GasLimit:   vm.WordFromUint64(30_000_000),
		},
	}

	result, err := vm.ExecuteTransaction(world, tx, ctx.Uint64(intrinsicGasFlag.Name))
	if err != nil {
		log.Error("transaction aborted", "err", err)
		return err
	}

	log.Info("transaction complete",
		"remaining_gas", result.RemainingGas,
		"revert", result.Revert,
		"return_data", hex.EncodeToString(result.Data),
		"logs", len(result.Logs),
	)
	fmt.Println(hex.EncodeToString(result.Data))
	return nil
}

func decodeHex(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}
