package main

import (
	"context"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/scroll-wallet/scroll-walletd/internal/config"
	"github.com/scroll-wallet/scroll-walletd/internal/core/application"
	"github.com/scroll-wallet/scroll-walletd/internal/core/domain"
	"github.com/scroll-wallet/scroll-walletd/pkg/explorer"
	evmexplorer "github.com/scroll-wallet/scroll-walletd/pkg/explorer/evm"
	coingeckofeed "github.com/scroll-wallet/scroll-walletd/pkg/pricefeed/coingecko"

	dbbadger "github.com/scroll-wallet/scroll-walletd/internal/infrastructure/storage/db/badger"
)

var passwordFlag = &cli.StringFlag{
	Name:     "password",
	Usage:    "the password protecting the wallet",
	Required: true,
}

// newWalletService assembles the full stack: config, local store, network
// gateway and price feed behind the session controller.
func newWalletService() (application.WalletService, error) {
	if err := config.InitConfig(); err != nil {
		return nil, err
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	repoManager, err := dbbadger.NewRepoManager(
		filepath.Join(config.GetDatadir(), config.DbLocation),
	)
	if err != nil {
		return nil, err
	}

	explorerFactory := func(network domain.Network) (explorer.Service, error) {
		return evmexplorer.NewService(evmexplorer.ServiceOpts{
			RPCURL:     network.RPCURL,
			HistoryURL: network.HistoryURL,
		})
	}

	feedSvc := coingeckofeed.NewService(coingeckofeed.ServiceOpts{
		BaseURL: config.GetString(config.PriceFeedURLKey),
	})

	return application.NewWalletService(application.WalletServiceOpts{
		RepoManager:     repoManager,
		ExplorerFactory: explorerFactory,
		FeedSvc:         feedSvc,
		Networks:        config.GetNetworks(),
		DefaultNetwork:  config.GetString(config.NetworkKey),
		NativeFeedID:    config.NativeFeedID,
		CrawlerInterval: config.GetDuration(config.CrawlerIntervalKey),
	})
}

// withUnlockedWallet runs fn against a freshly unlocked session and tears it
// down afterwards.
func withUnlockedWallet(
	ctx *cli.Context, fn func(svc application.WalletService) error,
) error {
	svc, err := newWalletService()
	if err != nil {
		return err
	}
	defer svc.Close()

	if _, err := svc.UnlockWallet(
		context.Background(), ctx.String("password"),
	); err != nil {
		return err
	}
	return fn(svc)
}
