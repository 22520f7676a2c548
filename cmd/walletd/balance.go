package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/scroll-wallet/scroll-walletd/internal/core/application"
)

var balance = cli.Command{
	Name:   "balance",
	Usage:  "show the reconciled balances and valuations of the wallet",
	Flags:  []cli.Flag{passwordFlag},
	Action: balanceAction,
}

func balanceAction(ctx *cli.Context) error {
	return withUnlockedWallet(ctx, func(svc application.WalletService) error {
		if err := svc.Refresh(context.Background()); err != nil {
			return err
		}

		portfolio := svc.Portfolio()

		fmt.Println()
		fmt.Println("Network:", svc.Network().Name)
		fmt.Println("Address:", svc.Address())
		fmt.Println()
		for _, asset := range portfolio.Assets {
			fmt.Printf(
				"%-6s %16s   $%s\n",
				asset.Symbol, asset.DisplayAmount, asset.UsdValue.StringFixed(2),
			)
		}
		fmt.Println()
		fmt.Printf("Total: $%s\n", portfolio.TotalUsd.StringFixed(2))
		return nil
	})
}
