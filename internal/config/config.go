package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"

	"github.com/scroll-wallet/scroll-walletd/internal/core/domain"
)

const (
	// DatadirKey is the local data directory storing the vault and the
	// activity records
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// NetworkKey is the name of the chain profile the wallet starts on
	NetworkKey = "NETWORK"
	// RPCURLKey overrides the JSON-RPC endpoint of the active network, useful
	// to point the wallet at a private node
	RPCURLKey = "RPC_URL"
	// CrawlerIntervalKey is the polling cadence of the liveness probe and the
	// balance watcher
	CrawlerIntervalKey = "CRAWLER_INTERVAL"
	// PriceFeedURLKey is the base url of the CoinGecko-compatible price API
	PriceFeedURLKey = "PRICE_FEED_URL"

	// DbLocation is the folder inside the datadir containing the local store
	DbLocation = "db"

	// NativeFeedID is the price feed identifier of the native currency
	NativeFeedID = "ethereum"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("scroll-walletd", false)

// InitConfig loads the SCROLLWALLET_* environment into the package and
// prepares the data directory
func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("SCROLLWALLET")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(NetworkKey, "scroll-sepolia")
	vip.SetDefault(CrawlerIntervalKey, 30*time.Second)
	vip.SetDefault(PriceFeedURLKey, "https://api.coingecko.com/api/v3")

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetNetworks returns the supported chain profiles with their fixed token
// allow-lists. An RPC_URL override applies to the profile named by NETWORK.
func GetNetworks() []domain.Network {
	networks := []domain.Network{
		{
			Name:        "scroll-sepolia",
			RPCURL:      "https://sepolia-rpc.scroll.io",
			ChainID:     534351,
			ExplorerURL: "https://sepolia.scrollscan.com",
			HistoryURL:  "https://api-sepolia.scrollscan.com",
			NativeCurrency: domain.NativeCurrency{
				Name: "Ethereum", Symbol: "ETH", Decimals: 18,
			},
			Tokens: []domain.Token{
				{
					Address:  "0x5fd84259d66Cd46123540766Be93DFE6D43130D7",
					Symbol:   "USDC",
					Name:     "USD Coin",
					Decimals: 6,
					IconKey:  "usdc",
				},
				{
					Address:  "0xf55BEC9cafDbE8730f096Aa55dad6D22d44099Df",
					Symbol:   "USDT",
					Name:     "Tether USD",
					Decimals: 6,
					IconKey:  "usdt",
				},
				{
					Address:  "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1",
					Symbol:   "SCR",
					Name:     "Scroll",
					Decimals: 18,
					IconKey:  "scr",
					FeedID:   "scroll",
				},
			},
		},
		{
			Name:        "scroll",
			RPCURL:      "https://rpc.scroll.io",
			ChainID:     534352,
			ExplorerURL: "https://scrollscan.com",
			HistoryURL:  "https://api.scrollscan.com",
			NativeCurrency: domain.NativeCurrency{
				Name: "Ethereum", Symbol: "ETH", Decimals: 18,
			},
			Tokens: []domain.Token{
				{
					Address:  "0x06eFdBFf2a14a7c8E15944D1F4A48F9F95F663A4",
					Symbol:   "USDC",
					Name:     "USD Coin",
					Decimals: 6,
					IconKey:  "usdc",
				},
				{
					Address:  "0xf55BEC9cafDbE8730f096Aa55dad6D22d44099Df",
					Symbol:   "USDT",
					Name:     "Tether USD",
					Decimals: 6,
					IconKey:  "usdt",
				},
				{
					Address:  "0xd29687c813D741E2F938F4aC377128810E217b1b",
					Symbol:   "SCR",
					Name:     "Scroll",
					Decimals: 18,
					IconKey:  "scr",
					FeedID:   "scroll",
				},
			},
		},
	}

	if rpcURL := GetString(RPCURLKey); rpcURL != "" {
		active := GetString(NetworkKey)
		for i := range networks {
			if networks[i].Name == active {
				networks[i].RPCURL = rpcURL
			}
		}
	}
	return networks
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	network := GetString(NetworkKey)
	found := false
	for _, n := range GetNetworks() {
		if n.Name == network {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown network %s", network)
	}

	if GetDuration(CrawlerIntervalKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", CrawlerIntervalKey)
	}

	return nil
}

func initDatadir() error {
	return makeDirectoryIfNotExists(filepath.Join(GetDatadir(), DbLocation))
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
