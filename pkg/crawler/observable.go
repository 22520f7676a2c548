package crawler

import (
	"context"
	"math/big"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/scroll-wallet/scroll-walletd/pkg/explorer"
)

const (
	New       Status = "NEW"
	Waiting   Status = "WAITING"
	Processed Status = "PROCESSED"
)

type Status string

type observableStatus struct {
	sync.RWMutex
	status Status
}

func newObservableStatus() *observableStatus {
	return &observableStatus{status: New}
}

func (o *observableStatus) Get() Status {
	o.RLock()
	defer o.RUnlock()
	return o.status
}

func (o *observableStatus) Set(status Status) {
	o.Lock()
	defer o.Unlock()
	o.status = status
}

type observable interface {
	Observable
	observe(
		explorerSvc explorer.Service,
		errChan chan error,
		eventChan chan Event,
		observableStatus *observableStatus,
		rateLimiter *rate.Limiter,
	)
}

// NetworkObservable probes the chain tip on every tick and reports the
// reachability and latency of the RPC endpoint. A failing probe is a status
// event, not an error.
type NetworkObservable struct{}

func (n *NetworkObservable) observe(
	explorerSvc explorer.Service,
	errChan chan error,
	eventChan chan Event,
	observableStatus *observableStatus,
	rateLimiter *rate.Limiter,
) {
	if n == nil {
		return
	}

	observableStatus.Set(Waiting)
	if err := rateLimiter.Wait(context.Background()); err != nil {
		errChan <- err
		return
	}

	start := time.Now()
	height, err := explorerSvc.GetBlockHeight(context.Background())
	observableStatus.Set(Processed)

	if err != nil {
		eventChan <- NetworkStatusEvent{Connected: false}
		return
	}
	eventChan <- NetworkStatusEvent{
		Connected:   true,
		LatencyMs:   time.Since(start).Milliseconds(),
		BlockHeight: height,
	}
}

// Key implements the Observable interface
func (n *NetworkObservable) Key() string {
	return "network"
}

// AddressObservable watches the native balance of one address and emits an
// event whenever it changes from the last observed value.
type AddressObservable struct {
	Address string

	lastBalance *big.Int
}

func (a *AddressObservable) observe(
	explorerSvc explorer.Service,
	errChan chan error,
	eventChan chan Event,
	observableStatus *observableStatus,
	rateLimiter *rate.Limiter,
) {
	if a == nil {
		return
	}

	observableStatus.Set(Waiting)
	if err := rateLimiter.Wait(context.Background()); err != nil {
		errChan <- err
		return
	}

	balance, err := explorerSvc.GetBalance(context.Background(), a.Address)
	observableStatus.Set(Processed)
	if err != nil {
		errChan <- err
		return
	}

	if a.lastBalance != nil && a.lastBalance.Cmp(balance) == 0 {
		return
	}
	a.lastBalance = balance

	eventChan <- AddressBalanceEvent{
		Address:    a.Address,
		BalanceWei: balance,
	}
}

// Key implements the Observable interface
func (a *AddressObservable) Key() string {
	return a.Address
}
