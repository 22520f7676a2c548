package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/scroll-wallet/scroll-walletd/internal/core/application"
)

var forget = cli.Command{
	Name: "forget",
	Usage: "wipe the stored wallet and its activity records, " +
		"the keys are only recoverable by re-importing them",
	Flags:  []cli.Flag{passwordFlag},
	Action: forgetAction,
}

func forgetAction(ctx *cli.Context) error {
	// unlocking first proves the caller owns the wallet being wiped
	return withUnlockedWallet(ctx, func(svc application.WalletService) error {
		if err := svc.ForgetWallet(context.Background()); err != nil {
			return err
		}

		fmt.Println()
		fmt.Println("Wallet is forgotten")
		return nil
	})
}
