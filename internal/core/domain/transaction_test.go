package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scroll-wallet/scroll-walletd/internal/core/domain"
)

func TestMergeTransactions(t *testing.T) {
	t.Parallel()

	local := []domain.TransactionRecord{
		{
			TxHash:      "0xAAA1",
			Type:        domain.Send,
			Amount:      "-1.5 ETH",
			TimestampMs: 3000,
		},
		{
			TxHash:      "0xbbb2",
			Type:        domain.Send,
			Amount:      "-10 USDC",
			TimestampMs: 2000,
		},
	}
	chain := []domain.TransactionRecord{
		{
			// same tx as the local 0xAAA1 entry, mined timestamp
			TxHash:      "0xaaa1",
			Type:        domain.Send,
			Amount:      "-1.5 ETH",
			TimestampMs: 3100,
		},
		{
			TxHash:      "0xccc3",
			Type:        domain.Receive,
			Amount:      "0.2 ETH",
			TimestampMs: 1000,
		},
	}

	merged := domain.MergeTransactions(local, chain)
	require.Len(t, merged, 3)

	// newest first and the chain entry wins the duplicate
	require.Equal(t, "0xaaa1", merged[0].TxHash)
	require.Equal(t, int64(3100), merged[0].TimestampMs)
	require.Equal(t, "0xbbb2", merged[1].TxHash)
	require.Equal(t, "0xccc3", merged[2].TxHash)
}

func TestMergeTransactionsEmptySources(t *testing.T) {
	t.Parallel()

	onlyLocal := []domain.TransactionRecord{{TxHash: "0x1", TimestampMs: 1}}
	require.Len(t, domain.MergeTransactions(onlyLocal, nil), 1)
	require.Len(t, domain.MergeTransactions(nil, onlyLocal), 1)
	require.Len(t, domain.MergeTransactions(nil, nil), 0)
}
