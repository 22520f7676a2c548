package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

var create = cli.Command{
	Name:   "create",
	Usage:  "create a new wallet and print its recovery phrase",
	Flags:  []cli.Flag{passwordFlag},
	Action: createAction,
}

func createAction(ctx *cli.Context) error {
	svc, err := newWalletService()
	if err != nil {
		return err
	}
	defer svc.Close()

	info, err := svc.CreateWallet(context.Background(), ctx.String("password"))
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Wallet is initialized. Write down the recovery phrase below,")
	fmt.Println("it will not be shown again:")
	fmt.Println()
	fmt.Println(strings.Join(info.Mnemonic, " "))
	fmt.Println()
	fmt.Println("Address:", info.Address)
	return nil
}
