package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/scroll-wallet/scroll-walletd/internal/core/application"
)

var send = cli.Command{
	Name:  "send",
	Usage: "send native currency to the given address",
	Flags: []cli.Flag{
		passwordFlag,
		&cli.StringFlag{
			Name:     "to",
			Usage:    "the 0x address of the recipient",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the amount to send, in whole units (eg. 0.5)",
			Required: true,
		},
	},
	Action: sendAction,
}

var sendtoken = cli.Command{
	Name:  "sendtoken",
	Usage: "send an ERC20 token to the given address",
	Flags: []cli.Flag{
		passwordFlag,
		&cli.StringFlag{
			Name:     "contract",
			Usage:    "the 0x address of the token contract",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "to",
			Usage:    "the 0x address of the recipient",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the amount to send, in whole token units",
			Required: true,
		},
	},
	Action: sendTokenAction,
}

func sendAction(ctx *cli.Context) error {
	return withUnlockedWallet(ctx, func(svc application.WalletService) error {
		result, err := svc.SendNative(
			context.Background(), ctx.String("to"), ctx.String("amount"),
		)
		if err != nil {
			return err
		}
		printSendResult(result)
		return nil
	})
}

func sendTokenAction(ctx *cli.Context) error {
	return withUnlockedWallet(ctx, func(svc application.WalletService) error {
		result, err := svc.SendToken(
			context.Background(),
			ctx.String("contract"), ctx.String("to"), ctx.String("amount"),
		)
		if err != nil {
			return err
		}
		printSendResult(result)
		return nil
	})
}

func printSendResult(result *application.SendResult) {
	fmt.Println()
	fmt.Println("Transaction is broadcast")
	fmt.Println("Hash:    ", result.TxHash)
	fmt.Println("Explorer:", result.ExplorerURL)
}
