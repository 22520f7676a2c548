package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/scroll-wallet/scroll-walletd/internal/core/application"
)

var history = cli.Command{
	Name:   "history",
	Usage:  "show the activity list of the wallet, newest first",
	Flags:  []cli.Flag{passwordFlag},
	Action: historyAction,
}

func historyAction(ctx *cli.Context) error {
	return withUnlockedWallet(ctx, func(svc application.WalletService) error {
		if err := svc.Refresh(context.Background()); err != nil {
			return err
		}

		records, err := svc.Transactions(context.Background())
		if err != nil {
			return err
		}
		if len(records) <= 0 {
			fmt.Println("No transactions yet")
			return nil
		}

		for _, record := range records {
			when := time.UnixMilli(record.TimestampMs).Format(time.RFC3339)
			fmt.Printf(
				"%s  %-7s %12s %-5s  %s\n",
				when, record.Type, record.Amount, record.Symbol, record.TxHash,
			)
		}
		return nil
	})
}
