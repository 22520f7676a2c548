package application

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/scroll-wallet/scroll-walletd/internal/core/domain"
	"github.com/scroll-wallet/scroll-walletd/pkg/explorer"
	"github.com/scroll-wallet/scroll-walletd/pkg/wallet"
)

const (
	// nativeTransferGasLimit is the gas cost of a plain value transfer, used
	// when estimation fails.
	nativeTransferGasLimit = 21000
	// tokenTransferGasLimit covers an ERC20 transfer on the supported
	// networks, used when estimation fails.
	tokenTransferGasLimit = 100000
)

// fallbackGasPriceWei is 0.25 gwei, used when the node does not serve a gas
// price suggestion.
var fallbackGasPriceWei = big.NewInt(250000000)

// SendNative signs and broadcasts a native currency transfer. Validation is
// strictly local-first: recipient and amount are checked before any network
// round trip, and a balance shortfall aborts before anything is signed. The
// record is appended to the activity list at broadcast time; the confirmation
// is awaited in background.
func (s *walletService) SendNative(
	ctx context.Context, to, amount string,
) (*SendResult, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	keyMaterial, from, network, explorerSvc := s.sendContext()
	if keyMaterial == nil {
		return nil, ErrWalletLocked
	}

	if !common.IsHexAddress(to) {
		return nil, ErrInvalidRecipient
	}
	value, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}
	valueWei := toBaseUnits(value, network.NativeCurrency.Decimals)

	balance, err := explorerSvc.GetBalance(ctx, from)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(valueWei) < 0 {
		return nil, ErrInsufficientFunds
	}

	signedTx, err := s.buildAndSignTx(
		ctx, keyMaterial, explorerSvc, network,
		from, to, valueWei, nil, nativeTransferGasLimit,
	)
	if err != nil {
		return nil, err
	}

	txHash, err := explorerSvc.BroadcastTransaction(ctx, signedTx)
	if err != nil {
		return nil, err
	}

	s.recordSend(ctx, domain.TransactionRecord{
		TxHash:       txHash,
		Type:         domain.Send,
		Counterparty: to,
		Amount:       "-" + value.String(),
		Symbol:       network.NativeCurrency.Symbol,
		TimestampMs:  time.Now().UnixMilli(),
		NetworkName:  network.Name,
	})
	s.watchConfirmation(explorerSvc, txHash)

	return &SendResult{TxHash: txHash, ExplorerURL: network.TxURL(txHash)}, nil
}

// SendToken signs and broadcasts an ERC20 transfer. The token's decimals and
// symbol come from the allow-list when the contract is known, from the
// contract itself otherwise.
func (s *walletService) SendToken(
	ctx context.Context, contract, to, amount string,
) (*SendResult, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	keyMaterial, from, network, explorerSvc := s.sendContext()
	if keyMaterial == nil {
		return nil, ErrWalletLocked
	}

	if !common.IsHexAddress(contract) {
		return nil, ErrInvalidContract
	}
	if !common.IsHexAddress(to) {
		return nil, ErrInvalidRecipient
	}
	value, err := parseAmount(amount)
	if err != nil {
		return nil, err
	}

	decimals, symbol, err := tokenDetails(ctx, explorerSvc, network, contract)
	if err != nil {
		return nil, err
	}
	valueUnits := toBaseUnits(value, decimals)

	balance, err := explorerSvc.GetTokenBalance(ctx, contract, from)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(valueUnits) < 0 {
		return nil, ErrInsufficientTokenBalance
	}

	data, err := explorerSvc.PackTokenTransfer(to, valueUnits)
	if err != nil {
		return nil, err
	}

	signedTx, err := s.buildAndSignTx(
		ctx, keyMaterial, explorerSvc, network,
		from, contract, big.NewInt(0), data, tokenTransferGasLimit,
	)
	if err != nil {
		return nil, err
	}

	txHash, err := explorerSvc.BroadcastTransaction(ctx, signedTx)
	if err != nil {
		return nil, err
	}

	s.recordSend(ctx, domain.TransactionRecord{
		TxHash:       txHash,
		Type:         domain.Send,
		Counterparty: to,
		Amount:       "-" + value.String(),
		Symbol:       symbol,
		TimestampMs:  time.Now().UnixMilli(),
		NetworkName:  network.Name,
	})
	s.watchConfirmation(explorerSvc, txHash)

	return &SendResult{TxHash: txHash, ExplorerURL: network.TxURL(txHash)}, nil
}

// sendContext snapshots the session state a send depends on. A nil key
// material means the wallet is locked.
func (s *walletService) sendContext() (
	*wallet.Wallet, string, domain.Network, explorer.Service,
) {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()
	return s.keyMaterial, s.address, s.network, s.explorerSvc
}

func (s *walletService) buildAndSignTx(
	ctx context.Context,
	keyMaterial *wallet.Wallet,
	explorerSvc explorer.Service,
	network domain.Network,
	from, to string,
	value *big.Int,
	data []byte,
	fallbackGasLimit uint64,
) (*types.Transaction, error) {
	gasLimit := estimateGasLimit(
		ctx, explorerSvc, from, to, value, data, fallbackGasLimit,
	)

	gasPrice, err := explorerSvc.GetGasPrice(ctx)
	if err != nil {
		log.WithError(err).Debug("sender: falling back to the default gas price")
		gasPrice = fallbackGasPriceWei
	}

	nonce, err := explorerSvc.GetNonce(ctx, from)
	if err != nil {
		return nil, err
	}

	privateKey, err := keyMaterial.PrivateKey()
	if err != nil {
		return nil, err
	}

	recipient := common.HexToAddress(to)
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &recipient,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	return types.SignTx(
		tx, types.NewEIP155Signer(big.NewInt(network.ChainID)), privateKey,
	)
}

// estimateGasLimit asks the node for an estimate and applies a 20% safety
// margin on top of it. An estimation failure falls back to the flat limit.
func estimateGasLimit(
	ctx context.Context,
	explorerSvc explorer.Service,
	from, to string,
	value *big.Int,
	data []byte,
	fallback uint64,
) uint64 {
	gasLimit, err := explorerSvc.EstimateGas(ctx, from, to, value, data)
	if err != nil {
		log.WithError(err).Debug("sender: falling back to the flat gas limit")
		return fallback
	}
	return gasLimit * 12 / 10
}

func tokenDetails(
	ctx context.Context,
	explorerSvc explorer.Service,
	network domain.Network,
	contract string,
) (int, string, error) {
	for _, token := range network.Tokens {
		if strings.EqualFold(token.Address, contract) {
			return token.Decimals, token.Symbol, nil
		}
	}

	decimals, err := explorerSvc.GetTokenDecimals(ctx, contract)
	if err != nil {
		return 0, "", err
	}
	symbol, err := explorerSvc.GetTokenSymbol(ctx, contract)
	if err != nil {
		symbol = "TOKEN"
	}
	return int(decimals), symbol, nil
}

func (s *walletService) recordSend(
	ctx context.Context, record domain.TransactionRecord,
) {
	if err := s.repoManager.TransactionRepository().AddTransaction(
		ctx, record,
	); err != nil {
		// the transaction is on chain regardless, only the local list misses it
		log.WithError(err).Warn("sender: failed to persist activity record")
	}
}

// watchConfirmation awaits the receipt in background and refreshes the
// portfolio once the transaction settles either way.
func (s *walletService) watchConfirmation(
	explorerSvc explorer.Service, txHash string,
) {
	go func() {
		receipt, err := explorerSvc.WaitForConfirmation(
			context.Background(), txHash,
		)
		entry := log.WithField("tx_hash", txHash)
		switch {
		case err != nil:
			entry.WithError(err).Warn("sender: confirmation wait ended early")
		case receipt.Status == types.ReceiptStatusFailed:
			entry.Warn("sender: transaction reverted")
		default:
			entry.Info("sender: transaction confirmed")
		}
		s.triggerRefresh()
	}()
}

func parseAmount(amount string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil || !value.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return value, nil
}
