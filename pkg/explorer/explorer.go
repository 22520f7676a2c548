package explorer

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
)

var (
	// ErrNetworkUnavailable is returned when the RPC endpoint cannot be
	// reached or does not answer within the configured timeout
	ErrNetworkUnavailable = errors.New("network is unavailable")
	// ErrContractCall is returned when a single contract call fails, eg. no
	// code at the address or reverted execution. It never aborts sibling
	// lookups.
	ErrContractCall = errors.New("contract call failed")
	// ErrBroadcastFailed is returned when the node rejects a signed
	// transaction (insufficient balance, nonce conflict, malformed payload)
	ErrBroadcastFailed = errors.New("transaction broadcast failed")
	// ErrConfirmationTimeout is returned when a broadcast transaction is not
	// mined within the wait bound. The transaction itself is still pending,
	// not failed.
	ErrConfirmationTimeout = errors.New("transaction confirmation timed out")
)

// HistoryTx is one raw transaction as indexed by the chain explorer.
type HistoryTx struct {
	Hash        string
	From        string
	To          string
	ValueWei    *big.Int
	TimestampMs int64
}

// Service is the interface of the gateway towards the EVM network: balance
// and token queries, gas estimation, transaction broadcast and confirmation,
// and the block-height liveness probe. Every call is bounded by the
// implementation's timeouts.
type Service interface {
	// GetBlockHeight is the liveness probe.
	GetBlockHeight(ctx context.Context) (uint64, error)
	// GetBalance returns the native balance of the address in wei.
	GetBalance(ctx context.Context, address string) (*big.Int, error)
	// HasCode returns whether contract code is deployed at the address.
	HasCode(ctx context.Context, address string) (bool, error)
	// GetTokenBalance returns the ERC20 balance of owner in base units.
	GetTokenBalance(ctx context.Context, contract, owner string) (*big.Int, error)
	GetTokenDecimals(ctx context.Context, contract string) (uint8, error)
	GetTokenSymbol(ctx context.Context, contract string) (string, error)
	GetGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(
		ctx context.Context, from, to string, value *big.Int, data []byte,
	) (uint64, error)
	GetNonce(ctx context.Context, address string) (uint64, error)
	// BroadcastTransaction submits the signed transaction and returns its hash.
	BroadcastTransaction(ctx context.Context, tx *types.Transaction) (string, error)
	// WaitForConfirmation polls for the receipt of the given transaction until
	// it is mined or the wait bound expires.
	WaitForConfirmation(ctx context.Context, txHash string) (*types.Receipt, error)
	// GetHistory returns the transactions indexed for the address, best
	// effort: provider errors yield an empty list, never an error.
	GetHistory(ctx context.Context, address string) []HistoryTx
	// PackTokenTransfer returns the calldata of an ERC20 transfer(to, amount).
	PackTokenTransfer(to string, amount *big.Int) ([]byte, error)
}
