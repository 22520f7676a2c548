package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/scroll-wallet/scroll-walletd/pkg/explorer"
)

func (e *evmService) GetBlockHeight(ctx context.Context) (uint64, error) {
	height, err := e.execute(ctx, e.probeTimeout,
		func(ctx context.Context) (interface{}, error) {
			return e.client.BlockNumber(ctx)
		},
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", explorer.ErrNetworkUnavailable, err)
	}
	return height.(uint64), nil
}

func (e *evmService) GetBalance(
	ctx context.Context, address string,
) (*big.Int, error) {
	balance, err := e.execute(ctx, e.callTimeout,
		func(ctx context.Context) (interface{}, error) {
			return e.client.BalanceAt(ctx, common.HexToAddress(address), nil)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", explorer.ErrNetworkUnavailable, err)
	}
	return balance.(*big.Int), nil
}

func (e *evmService) HasCode(
	ctx context.Context, address string,
) (bool, error) {
	code, err := e.execute(ctx, e.callTimeout,
		func(ctx context.Context) (interface{}, error) {
			return e.client.CodeAt(ctx, common.HexToAddress(address), nil)
		},
	)
	if err != nil {
		return false, fmt.Errorf("%w: %s", explorer.ErrNetworkUnavailable, err)
	}
	return len(code.([]byte)) > 0, nil
}

func (e *evmService) GetGasPrice(ctx context.Context) (*big.Int, error) {
	price, err := e.execute(ctx, e.callTimeout,
		func(ctx context.Context) (interface{}, error) {
			return e.client.SuggestGasPrice(ctx)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", explorer.ErrNetworkUnavailable, err)
	}
	return price.(*big.Int), nil
}

func (e *evmService) GetNonce(
	ctx context.Context, address string,
) (uint64, error) {
	nonce, err := e.execute(ctx, e.callTimeout,
		func(ctx context.Context) (interface{}, error) {
			return e.client.PendingNonceAt(ctx, common.HexToAddress(address))
		},
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", explorer.ErrNetworkUnavailable, err)
	}
	return nonce.(uint64), nil
}
