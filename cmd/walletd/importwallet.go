package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/scroll-wallet/scroll-walletd/internal/core/application"
)

var importwallet = cli.Command{
	Name:  "import",
	Usage: "restore a wallet from a recovery phrase or a raw private key",
	Flags: []cli.Flag{
		passwordFlag,
		&cli.StringFlag{
			Name:  "mnemonic",
			Usage: "the 12 or 24 words recovery phrase, space separated",
		},
		&cli.StringFlag{
			Name:  "privatekey",
			Usage: "the raw private key in hex format",
		},
	},
	Action: importWalletAction,
}

func importWalletAction(ctx *cli.Context) error {
	mnemonic := ctx.String("mnemonic")
	privateKey := ctx.String("privatekey")
	if (mnemonic == "") == (privateKey == "") {
		return errors.New(
			"exactly one of --mnemonic and --privatekey must be provided",
		)
	}

	svc, err := newWalletService()
	if err != nil {
		return err
	}
	defer svc.Close()

	var info *application.WalletInfo
	if mnemonic != "" {
		info, err = svc.ImportWalletFromMnemonic(
			context.Background(), strings.Fields(mnemonic), ctx.String("password"),
		)
	} else {
		info, err = svc.ImportWalletFromPrivateKey(
			context.Background(), privateKey, ctx.String("password"),
		)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Wallet is restored")
	fmt.Println("Address:", info.Address)
	return nil
}
