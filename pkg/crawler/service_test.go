package crawler

import (
	"context"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/scroll-wallet/scroll-walletd/pkg/explorer"
)

func TestCrawlerEmitsNetworkStatus(t *testing.T) {
	svc := NewService(Opts{
		ExplorerSvc: &mockExplorer{height: 100},
		Interval:    20 * time.Millisecond,
	})
	go svc.Start()

	svc.AddObservable(&NetworkObservable{})
	go func() {
		time.Sleep(200 * time.Millisecond)
		svc.Stop()
	}()

	statusEvents := 0
	for event := range collect(svc) {
		if event.Type() == NetworkStatusUpdate {
			statusEvents++
			status := event.(NetworkStatusEvent)
			require.True(t, status.Connected)
			require.Equal(t, uint64(100), status.BlockHeight)
		}
	}
	require.Greater(t, statusEvents, 1)
}

func TestCrawlerReportsUnreachableNetwork(t *testing.T) {
	svc := NewService(Opts{
		ExplorerSvc: &mockExplorer{failing: true},
		Interval:    20 * time.Millisecond,
	})
	go svc.Start()

	svc.AddObservable(&NetworkObservable{})
	go func() {
		time.Sleep(100 * time.Millisecond)
		svc.Stop()
	}()

	sawDisconnected := false
	for event := range collect(svc) {
		if event.Type() == NetworkStatusUpdate {
			require.False(t, event.(NetworkStatusEvent).Connected)
			sawDisconnected = true
		}
	}
	require.True(t, sawDisconnected)
}

func TestCrawlerEmitsBalanceOnlyOnChange(t *testing.T) {
	mock := &mockExplorer{height: 1, balance: big.NewInt(10)}
	svc := NewService(Opts{
		ExplorerSvc: mock,
		Interval:    20 * time.Millisecond,
	})
	go svc.Start()

	svc.AddObservable(&AddressObservable{
		Address: "0x000000000000000000000000000000000000dEaD",
	})
	go func() {
		time.Sleep(100 * time.Millisecond)
		mock.setBalance(big.NewInt(20))
		time.Sleep(100 * time.Millisecond)
		svc.Stop()
	}()

	balances := make([]string, 0)
	for event := range collect(svc) {
		if event.Type() == AddressBalanceChanged {
			balances = append(
				balances, event.(AddressBalanceEvent).BalanceWei.String(),
			)
		}
	}
	// one event per distinct balance, not per tick
	require.Equal(t, []string{"10", "20"}, balances)
}

// collect drains the event channel until the quit event.
func collect(svc Service) chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		for event := range svc.GetEventChannel() {
			if event.Type() == CloseSignal {
				return
			}
			out <- event
		}
	}()
	return out
}

type mockExplorer struct {
	failing bool
	height  uint64

	balanceValue atomic.Value
	balance      *big.Int
}

func (m *mockExplorer) setBalance(b *big.Int) {
	m.balanceValue.Store(b)
}

func (m *mockExplorer) GetBlockHeight(_ context.Context) (uint64, error) {
	if m.failing {
		return 0, explorer.ErrNetworkUnavailable
	}
	return m.height, nil
}

func (m *mockExplorer) GetBalance(_ context.Context, _ string) (*big.Int, error) {
	if m.failing {
		return nil, explorer.ErrNetworkUnavailable
	}
	if stored := m.balanceValue.Load(); stored != nil {
		return stored.(*big.Int), nil
	}
	return m.balance, nil
}

func (m *mockExplorer) HasCode(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (m *mockExplorer) GetTokenBalance(
	_ context.Context, _, _ string,
) (*big.Int, error) {
	return nil, explorer.ErrContractCall
}

func (m *mockExplorer) GetTokenDecimals(_ context.Context, _ string) (uint8, error) {
	return 0, explorer.ErrContractCall
}

func (m *mockExplorer) GetTokenSymbol(_ context.Context, _ string) (string, error) {
	return "", explorer.ErrContractCall
}

func (m *mockExplorer) GetGasPrice(_ context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (m *mockExplorer) EstimateGas(
	_ context.Context, _, _ string, _ *big.Int, _ []byte,
) (uint64, error) {
	return 21000, nil
}

func (m *mockExplorer) GetNonce(_ context.Context, _ string) (uint64, error) {
	return 0, nil
}

func (m *mockExplorer) BroadcastTransaction(
	_ context.Context, tx *types.Transaction,
) (string, error) {
	return tx.Hash().Hex(), nil
}

func (m *mockExplorer) WaitForConfirmation(
	_ context.Context, _ string,
) (*types.Receipt, error) {
	return &types.Receipt{}, nil
}

func (m *mockExplorer) GetHistory(_ context.Context, _ string) []explorer.HistoryTx {
	return nil
}

func (m *mockExplorer) PackTokenTransfer(_ string, _ *big.Int) ([]byte, error) {
	return nil, nil
}
