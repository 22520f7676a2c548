package evm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sony/gobreaker"

	"github.com/scroll-wallet/scroll-walletd/pkg/circuitbreaker"
	"github.com/scroll-wallet/scroll-walletd/pkg/explorer"
)

const (
	// DefaultProbeTimeout bounds the block-height liveness probe.
	DefaultProbeTimeout = 5 * time.Second
	// DefaultCallTimeout bounds every other RPC call.
	DefaultCallTimeout = 15 * time.Second
	// DefaultConfirmationTimeout bounds the receipt wait of a broadcast
	// transaction.
	DefaultConfirmationTimeout = 90 * time.Second

	receiptPollInterval = 2 * time.Second
)

// The minimal ERC20 surface the wallet needs.
const erc20ABIJson = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"}
]`

type evmService struct {
	client     *ethclient.Client
	historyURL string
	httpClient *http.Client
	erc20      abi.ABI
	cb         *gobreaker.CircuitBreaker

	probeTimeout        time.Duration
	callTimeout         time.Duration
	confirmationTimeout time.Duration
}

// ServiceOpts is the struct given to the NewService method
type ServiceOpts struct {
	RPCURL string
	// HistoryURL is the base URL of an etherscan-compatible indexer API.
	// Optional; when empty GetHistory always returns an empty list.
	HistoryURL string

	ProbeTimeout        time.Duration
	CallTimeout         time.Duration
	ConfirmationTimeout time.Duration
}

func (o ServiceOpts) validate() error {
	if len(strings.TrimSpace(o.RPCURL)) <= 0 {
		return fmt.Errorf("rpc url must not be null")
	}
	return nil
}

// NewService returns an explorer.Service backed by the JSON-RPC endpoint of
// an EVM node. Dialing is lazy, so construction succeeds with the network
// down; the first call reports the unavailability instead.
func NewService(opts ServiceOpts) (explorer.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	client, err := ethclient.Dial(opts.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dialing rpc endpoint: %w", err)
	}

	erc20, err := abi.JSON(strings.NewReader(erc20ABIJson))
	if err != nil {
		return nil, err
	}

	probeTimeout := opts.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}
	callTimeout := opts.CallTimeout
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	confirmationTimeout := opts.ConfirmationTimeout
	if confirmationTimeout <= 0 {
		confirmationTimeout = DefaultConfirmationTimeout
	}

	return &evmService{
		client:              client,
		historyURL:          strings.TrimSuffix(opts.HistoryURL, "/"),
		httpClient:          &http.Client{Timeout: callTimeout},
		erc20:               erc20,
		cb:                  circuitbreaker.NewCircuitBreaker(),
		probeTimeout:        probeTimeout,
		callTimeout:         callTimeout,
		confirmationTimeout: confirmationTimeout,
	}, nil
}

// execute routes an RPC call through the circuit breaker with the standard
// call timeout applied to the derived context.
func (e *evmService) execute(
	ctx context.Context,
	timeout time.Duration,
	fn func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	return e.cb.Execute(func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return fn(callCtx)
	})
}
