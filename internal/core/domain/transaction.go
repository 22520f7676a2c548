package domain

import (
	"sort"
	"strings"
)

const (
	// Send ...
	Send TransactionType = "Send"
	// Receive ...
	Receive TransactionType = "Receive"
)

type TransactionType string

// TransactionRecord is one entry of the activity list. Records come from two
// distinct sources that are never conflated in state: transactions broadcast
// by this wallet (optimistic, appended at broadcast time) and transactions
// indexed by the chain explorer.
type TransactionRecord struct {
	TxHash       string
	Type         TransactionType
	Counterparty string
	Amount       string
	Symbol       string
	TimestampMs  int64
	NetworkName  string
}

// Key returns the reconciliation key of the record
func (t TransactionRecord) Key() string {
	return strings.ToLower(t.TxHash)
}

// MergeTransactions merges the locally originated records with the
// chain-fetched history for display. Duplicates are resolved by transaction
// hash and the chain entry wins, since it carries the mined timestamp. The
// result is sorted newest first.
func MergeTransactions(local, chain []TransactionRecord) []TransactionRecord {
	seen := make(map[string]struct{}, len(chain))
	merged := make([]TransactionRecord, 0, len(local)+len(chain))

	for _, tx := range chain {
		seen[tx.Key()] = struct{}{}
		merged = append(merged, tx)
	}
	for _, tx := range local {
		if _, ok := seen[tx.Key()]; ok {
			continue
		}
		merged = append(merged, tx)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].TimestampMs > merged[j].TimestampMs
	})
	return merged
}
