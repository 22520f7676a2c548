package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var networks = cli.Command{
	Name:   "networks",
	Usage:  "list the supported networks, the active one is marked",
	Action: networksAction,
}

func networksAction(_ *cli.Context) error {
	svc, err := newWalletService()
	if err != nil {
		return err
	}
	defer svc.Close()

	active := svc.Network().Name
	for _, network := range svc.Networks() {
		marker := " "
		if network.Name == active {
			marker = "*"
		}
		fmt.Printf(
			"%s %-16s chain id %-8d %s\n",
			marker, network.Name, network.ChainID, network.RPCURL,
		)
	}
	return nil
}
