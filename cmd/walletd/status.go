package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

var status = cli.Command{
	Name:   "status",
	Usage:  "show whether a wallet is initialized and which network is active",
	Action: statusAction,
}

func statusAction(_ *cli.Context) error {
	svc, err := newWalletService()
	if err != nil {
		return err
	}
	defer svc.Close()

	exists, err := svc.WalletExists(context.Background())
	if err != nil {
		return err
	}

	state := "not initialized"
	if exists {
		state = "initialized, locked"
	}
	fmt.Println("Wallet: ", state)
	fmt.Println("Network:", svc.Network().Name)
	return nil
}
