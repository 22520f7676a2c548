package evm

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/scroll-wallet/scroll-walletd/pkg/explorer"
)

type historyResponse struct {
	Status string `json:"status"`
	Result []struct {
		Hash      string `json:"hash"`
		From      string `json:"from"`
		To        string `json:"to"`
		Value     string `json:"value"`
		TimeStamp string `json:"timeStamp"`
	} `json:"result"`
}

// GetHistory fetches the transactions indexed for the address from the
// etherscan-compatible API. History is supplementary, never authoritative:
// any failure is logged and degrades to an empty list.
func (e *evmService) GetHistory(
	ctx context.Context, address string,
) []explorer.HistoryTx {
	if len(e.historyURL) <= 0 {
		return nil
	}

	url := fmt.Sprintf(
		"%s/api?module=account&action=txlist&address=%s&sort=desc",
		e.historyURL, address,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.WithError(err).Debug("building history request")
		return nil
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Debug("fetching history")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debugf("fetching history: status %d", resp.StatusCode)
		return nil
	}

	history := historyResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		log.WithError(err).Debug("decoding history")
		return nil
	}

	txs := make([]explorer.HistoryTx, 0, len(history.Result))
	for _, tx := range history.Result {
		value, ok := new(big.Int).SetString(tx.Value, 10)
		if !ok {
			continue
		}
		timestamp, err := strconv.ParseInt(tx.TimeStamp, 10, 64)
		if err != nil {
			continue
		}
		txs = append(txs, explorer.HistoryTx{
			Hash:        tx.Hash,
			From:        tx.From,
			To:          tx.To,
			ValueWei:    value,
			TimestampMs: timestamp * 1000,
		})
	}
	return txs
}
