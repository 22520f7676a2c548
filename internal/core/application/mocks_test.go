package application_test

import (
	"context"
	"encoding/hex"
	"math/big"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/scroll-wallet/scroll-walletd/internal/core/application"
	"github.com/scroll-wallet/scroll-walletd/internal/core/domain"
	"github.com/scroll-wallet/scroll-walletd/pkg/explorer"
	"github.com/scroll-wallet/scroll-walletd/pkg/pricefeed"
)

const (
	testPassphrase = "correct horse battery"
	usdcContract   = "0x5fd84259d66Cd46123540766Be93DFE6D43130D7"
	recipient      = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

func testNetworks() []domain.Network {
	return []domain.Network{
		{
			Name:        "scroll-sepolia",
			RPCURL:      "https://sepolia-rpc.scroll.io",
			ChainID:     534351,
			ExplorerURL: "https://sepolia.scrollscan.com",
			NativeCurrency: domain.NativeCurrency{
				Name: "Ethereum", Symbol: "ETH", Decimals: 18,
			},
			Tokens: []domain.Token{
				{
					Address:  usdcContract,
					Symbol:   "USDC",
					Name:     "USD Coin",
					Decimals: 6,
					IconKey:  "usdc",
				},
			},
		},
		{
			Name:        "scroll",
			RPCURL:      "https://rpc.scroll.io",
			ChainID:     534352,
			ExplorerURL: "https://scrollscan.com",
			NativeCurrency: domain.NativeCurrency{
				Name: "Ethereum", Symbol: "ETH", Decimals: 18,
			},
		},
	}
}

func newTestService(
	t *testing.T, mock *mockExplorer, feed *mockFeed,
) (application.WalletService, *inMemoryRepoManager) {
	t.Helper()

	repoManager := newInMemoryRepoManager()
	svc, err := application.NewWalletService(application.WalletServiceOpts{
		RepoManager: repoManager,
		ExplorerFactory: func(domain.Network) (explorer.Service, error) {
			return mock, nil
		},
		FeedSvc:         feed,
		Networks:        testNetworks(),
		DefaultNetwork:  "scroll-sepolia",
		CrawlerInterval: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc, repoManager
}

func eth(amount string) *big.Int {
	value, _ := decimal.NewFromString(amount)
	return value.Shift(18).BigInt()
}

func usdc(amount string) *big.Int {
	value, _ := decimal.NewFromString(amount)
	return value.Shift(6).BigInt()
}

// fallbackGasPrice mirrors the 0.25 gwei default used when the node serves no
// gas price suggestion.
func fallbackGasPrice() *big.Int {
	return big.NewInt(250000000)
}

type mockExplorer struct {
	mu sync.Mutex

	height    uint64
	heightErr error

	balance    *big.Int
	balanceErr error

	code          map[string]bool
	tokenBalances map[string]*big.Int
	tokenErr      error

	gasPrice    *big.Int
	gasPriceErr error
	estimate    uint64
	estimateErr error
	nonce       uint64

	broadcastErr  error
	broadcastHold chan struct{}
	broadcastedTx *types.Transaction
	confirmErr    error

	history []explorer.HistoryTx

	estimateCalls  int
	nonceCalls     int
	broadcastCalls int
}

func newMockExplorer() *mockExplorer {
	return &mockExplorer{
		height:  42,
		balance: eth("5"),
		code: map[string]bool{
			strings.ToLower(usdcContract): true,
		},
		tokenBalances: map[string]*big.Int{
			strings.ToLower(usdcContract): usdc("100"),
		},
		gasPrice: big.NewInt(1000000000),
		estimate: 21000,
		nonce:    7,
	}
}

// sendCalls counts the round trips only the submitter makes. The crawler and
// the reconciler never touch estimation, nonces or broadcast.
func (m *mockExplorer) sendCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.estimateCalls + m.nonceCalls + m.broadcastCalls
}

func (m *mockExplorer) lastBroadcast() *types.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.broadcastedTx
}

func (m *mockExplorer) setHistory(history []explorer.HistoryTx) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = history
}

func (m *mockExplorer) GetBlockHeight(_ context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.heightErr != nil {
		return 0, m.heightErr
	}
	return m.height, nil
}

func (m *mockExplorer) GetBalance(
	_ context.Context, _ string,
) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balanceErr != nil {
		return nil, m.balanceErr
	}
	return m.balance, nil
}

func (m *mockExplorer) HasCode(_ context.Context, address string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.code[strings.ToLower(address)], nil
}

func (m *mockExplorer) GetTokenBalance(
	_ context.Context, contract, _ string,
) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokenErr != nil {
		return nil, m.tokenErr
	}
	balance, ok := m.tokenBalances[strings.ToLower(contract)]
	if !ok {
		return big.NewInt(0), nil
	}
	return balance, nil
}

func (m *mockExplorer) GetTokenDecimals(
	_ context.Context, _ string,
) (uint8, error) {
	return 18, nil
}

func (m *mockExplorer) GetTokenSymbol(
	_ context.Context, _ string,
) (string, error) {
	return "MOCK", nil
}

func (m *mockExplorer) GetGasPrice(_ context.Context) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gasPriceErr != nil {
		return nil, m.gasPriceErr
	}
	return m.gasPrice, nil
}

func (m *mockExplorer) EstimateGas(
	_ context.Context, _, _ string, _ *big.Int, _ []byte,
) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.estimateCalls++
	if m.estimateErr != nil {
		return 0, m.estimateErr
	}
	return m.estimate, nil
}

func (m *mockExplorer) GetNonce(_ context.Context, _ string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nonceCalls++
	return m.nonce, nil
}

func (m *mockExplorer) BroadcastTransaction(
	_ context.Context, tx *types.Transaction,
) (string, error) {
	m.mu.Lock()
	m.broadcastCalls++
	m.broadcastedTx = tx
	hold := m.broadcastHold
	err := m.broadcastErr
	m.mu.Unlock()

	if hold != nil {
		<-hold
	}
	if err != nil {
		return "", err
	}
	return tx.Hash().Hex(), nil
}

func (m *mockExplorer) WaitForConfirmation(
	_ context.Context, _ string,
) (*types.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.confirmErr != nil {
		return nil, m.confirmErr
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

func (m *mockExplorer) GetHistory(
	_ context.Context, _ string,
) []explorer.HistoryTx {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history
}

func (m *mockExplorer) PackTokenTransfer(
	to string, amount *big.Int,
) ([]byte, error) {
	selector, _ := hex.DecodeString("a9059cbb")
	data := make([]byte, 0, 68)
	data = append(data, selector...)
	data = append(data, common.LeftPadBytes(common.HexToAddress(to).Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(amount.Bytes(), 32)...)
	return data, nil
}

type mockFeed struct {
	mu     sync.Mutex
	quotes map[string]pricefeed.Quote
	err    error
}

func newMockFeed() *mockFeed {
	return &mockFeed{
		quotes: map[string]pricefeed.Quote{
			"ethereum": {
				Price:           decimal.NewFromInt(2500),
				Change24Percent: decimal.NewFromInt(5),
			},
		},
	}
}

func (m *mockFeed) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockFeed) GetQuote(
	_ context.Context, assetID string,
) (*pricefeed.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	quote, ok := m.quotes[assetID]
	if !ok {
		return nil, pricefeed.ErrPriceUnavailable
	}
	return &quote, nil
}

type inMemoryRepoManager struct {
	vaultRepo *inMemoryVaultRepo
	txRepo    *inMemoryTxRepo
}

func newInMemoryRepoManager() *inMemoryRepoManager {
	return &inMemoryRepoManager{
		vaultRepo: &inMemoryVaultRepo{},
		txRepo:    &inMemoryTxRepo{records: map[string]domain.TransactionRecord{}},
	}
}

func (m *inMemoryRepoManager) VaultRepository() domain.VaultRepository {
	return m.vaultRepo
}

func (m *inMemoryRepoManager) TransactionRepository() domain.TransactionRepository {
	return m.txRepo
}

func (m *inMemoryRepoManager) Close() {}

type inMemoryVaultRepo struct {
	mu    sync.Mutex
	vault *domain.Vault
}

func (r *inMemoryVaultRepo) SaveVault(
	_ context.Context, vault *domain.Vault,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vault = vault
	return nil
}

func (r *inMemoryVaultRepo) GetVault(_ context.Context) (*domain.Vault, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vault, nil
}

func (r *inMemoryVaultRepo) DeleteVault(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vault = nil
	return nil
}

type inMemoryTxRepo struct {
	mu        sync.Mutex
	records   map[string]domain.TransactionRecord
	deleteErr error
}

func (r *inMemoryTxRepo) AddTransaction(
	_ context.Context, record domain.TransactionRecord,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.Key()] = record
	return nil
}

func (r *inMemoryTxRepo) GetAllTransactions(
	_ context.Context,
) ([]domain.TransactionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]domain.TransactionRecord, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].TimestampMs > records[j].TimestampMs
	})
	return records, nil
}

func (r *inMemoryTxRepo) DeleteAllTransactions(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.records = map[string]domain.TransactionRecord{}
	return nil
}
