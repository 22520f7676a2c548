package domain

import "fmt"

// NativeCurrency describes the base currency of a network.
type NativeCurrency struct {
	Name     string
	Symbol   string
	Decimals int
}

// Token is an entry of the fixed per-network ERC20 allow-list. FeedID is the
// identifier of the token on the price feed; when empty the reconciler values
// the token at a flat placeholder price instead of querying the feed.
type Token struct {
	Address  string
	Symbol   string
	Name     string
	Decimals int
	IconKey  string
	FeedID   string
}

// Network is one chain profile the wallet can operate against. HistoryURL is
// the etherscan-style indexer API serving the address activity, optional.
type Network struct {
	Name           string
	RPCURL         string
	ChainID        int64
	ExplorerURL    string
	HistoryURL     string
	NativeCurrency NativeCurrency
	Tokens         []Token
}

// TxURL returns the explorer page for the given transaction hash
func (n Network) TxURL(txHash string) string {
	return fmt.Sprintf("%s/tx/%s", n.ExplorerURL, txHash)
}

// NetworkStatus is the outcome of the latest liveness probe.
type NetworkStatus struct {
	Connected bool
	LatencyMs int64
}
