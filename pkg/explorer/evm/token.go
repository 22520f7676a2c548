package evm

import (
	"context"
	"fmt"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/scroll-wallet/scroll-walletd/pkg/explorer"
)

func (e *evmService) GetTokenBalance(
	ctx context.Context, contract, owner string,
) (*big.Int, error) {
	out, err := e.callContract(
		ctx, contract, "balanceOf", common.HexToAddress(owner),
	)
	if err != nil {
		return nil, err
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected balanceOf output", explorer.ErrContractCall)
	}
	return balance, nil
}

func (e *evmService) GetTokenDecimals(
	ctx context.Context, contract string,
) (uint8, error) {
	out, err := e.callContract(ctx, contract, "decimals")
	if err != nil {
		return 0, err
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("%w: unexpected decimals output", explorer.ErrContractCall)
	}
	return decimals, nil
}

func (e *evmService) GetTokenSymbol(
	ctx context.Context, contract string,
) (string, error) {
	out, err := e.callContract(ctx, contract, "symbol")
	if err != nil {
		return "", err
	}
	symbol, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("%w: unexpected symbol output", explorer.ErrContractCall)
	}
	return symbol, nil
}

// PackTokenTransfer returns the calldata for transfer(to, amount)
func (e *evmService) PackTokenTransfer(
	to string, amount *big.Int,
) ([]byte, error) {
	return e.erc20.Pack("transfer", common.HexToAddress(to), amount)
}

func (e *evmService) callContract(
	ctx context.Context, contract, method string, args ...interface{},
) ([]interface{}, error) {
	data, err := e.erc20.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", explorer.ErrContractCall, err)
	}

	contractAddress := common.HexToAddress(contract)
	raw, err := e.execute(ctx, e.callTimeout,
		func(ctx context.Context) (interface{}, error) {
			return e.client.CallContract(ctx, ethereum.CallMsg{
				To:   &contractAddress,
				Data: data,
			}, nil)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", explorer.ErrContractCall, method, err)
	}

	out, err := e.erc20.Unpack(method, raw.([]byte))
	if err != nil || len(out) == 0 {
		return nil, fmt.Errorf("%w: decoding %s output", explorer.ErrContractCall, method)
	}
	return out, nil
}
