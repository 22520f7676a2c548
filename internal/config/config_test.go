package config_test

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scroll-wallet/scroll-walletd/internal/config"
)

func TestInitConfig(t *testing.T) {
	t.Setenv("SCROLLWALLET_DATADIR", t.TempDir())

	require.NoError(t, config.InitConfig())
	require.Equal(t, "scroll-sepolia", config.GetString(config.NetworkKey))
	require.Greater(t, int64(config.GetDuration(config.CrawlerIntervalKey)), int64(0))
}

func TestFailingInitConfig(t *testing.T) {
	t.Setenv("SCROLLWALLET_DATADIR", t.TempDir())
	t.Setenv("SCROLLWALLET_NETWORK", "base")

	require.Error(t, config.InitConfig())
}

func TestNetworkProfiles(t *testing.T) {
	t.Setenv("SCROLLWALLET_DATADIR", t.TempDir())
	require.NoError(t, config.InitConfig())

	networks := config.GetNetworks()
	require.Len(t, networks, 2)

	for _, network := range networks {
		require.NotEmpty(t, network.Name)
		require.Greater(t, network.ChainID, int64(0))
		require.Equal(t, 18, network.NativeCurrency.Decimals)
		require.NotEmpty(t, network.Tokens)

		// the explorer appends the /api path itself, profiles carry the bare
		// host only
		require.False(t, strings.HasSuffix(network.HistoryURL, "/api"))
		joined, err := url.Parse(fmt.Sprintf("%s/api", network.HistoryURL))
		require.NoError(t, err)
		require.Equal(t, "/api", joined.Path)
	}
}

func TestRPCURLOverrideAppliesToActiveNetwork(t *testing.T) {
	t.Setenv("SCROLLWALLET_DATADIR", t.TempDir())
	t.Setenv("SCROLLWALLET_RPC_URL", "http://localhost:8545")

	require.NoError(t, config.InitConfig())

	for _, network := range config.GetNetworks() {
		if network.Name == "scroll-sepolia" {
			require.Equal(t, "http://localhost:8545", network.RPCURL)
		} else {
			require.Equal(t, "https://rpc.scroll.io", network.RPCURL)
		}
	}
}
