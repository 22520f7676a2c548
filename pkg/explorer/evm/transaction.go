package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/scroll-wallet/scroll-walletd/pkg/explorer"
)

func (e *evmService) EstimateGas(
	ctx context.Context, from, to string, value *big.Int, data []byte,
) (uint64, error) {
	toAddress := common.HexToAddress(to)
	gas, err := e.execute(ctx, e.callTimeout,
		func(ctx context.Context) (interface{}, error) {
			return e.client.EstimateGas(ctx, ethereum.CallMsg{
				From:  common.HexToAddress(from),
				To:    &toAddress,
				Value: value,
				Data:  data,
			})
		},
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", explorer.ErrNetworkUnavailable, err)
	}
	return gas.(uint64), nil
}

func (e *evmService) BroadcastTransaction(
	ctx context.Context, tx *types.Transaction,
) (string, error) {
	if _, err := e.execute(ctx, e.callTimeout,
		func(ctx context.Context) (interface{}, error) {
			return nil, e.client.SendTransaction(ctx, tx)
		},
	); err != nil {
		return "", fmt.Errorf("%w: %s", explorer.ErrBroadcastFailed, err)
	}
	return tx.Hash().Hex(), nil
}

// WaitForConfirmation polls the node for the receipt of txHash. The wait is
// bounded by the service's confirmation timeout and by the caller's context;
// expiring either leaves the transaction pending, it does not undo the
// broadcast.
func (e *evmService) WaitForConfirmation(
	ctx context.Context, txHash string,
) (*types.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, e.confirmationTimeout)
	defer cancel()

	hash := common.HexToHash(txHash)
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := e.client.TransactionReceipt(waitCtx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			// transient RPC failures do not abort the wait, only the bound does
			if waitCtx.Err() != nil {
				return nil, explorer.ErrConfirmationTimeout
			}
		}

		select {
		case <-waitCtx.Done():
			return nil, explorer.ErrConfirmationTimeout
		case <-ticker.C:
		}
	}
}
