package dbbadger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scroll-wallet/scroll-walletd/internal/core/domain"
)

func TestVaultRepository(t *testing.T) {
	repoManager := newTestRepoManager(t)
	ctx := context.Background()
	repo := repoManager.VaultRepository()

	// empty slot is not an error
	vault, err := repo.GetVault(ctx)
	require.NoError(t, err)
	require.Nil(t, vault)

	stored := &domain.Vault{
		Version:     domain.VaultVersion,
		CipherText:  "Y3lwaGVydGV4dA==",
		Address:     "0x000000000000000000000000000000000000dEaD",
		NetworkName: "Scroll Sepolia",
		CreatedAt:   42,
	}
	require.NoError(t, repo.SaveVault(ctx, stored))

	vault, err = repo.GetVault(ctx)
	require.NoError(t, err)
	require.Equal(t, stored, vault)

	// single slot, saving overwrites
	overwritten := *stored
	overwritten.Address = "0x000000000000000000000000000000000000bEEF"
	require.NoError(t, repo.SaveVault(ctx, &overwritten))
	vault, err = repo.GetVault(ctx)
	require.NoError(t, err)
	require.Equal(t, overwritten.Address, vault.Address)

	require.NoError(t, repo.DeleteVault(ctx))
	vault, err = repo.GetVault(ctx)
	require.NoError(t, err)
	require.Nil(t, vault)

	// deleting the empty slot is a no-op
	require.NoError(t, repo.DeleteVault(ctx))
}

func TestTransactionRepository(t *testing.T) {
	repoManager := newTestRepoManager(t)
	ctx := context.Background()
	repo := repoManager.TransactionRepository()

	records, err := repo.GetAllTransactions(ctx)
	require.NoError(t, err)
	require.Empty(t, records)

	require.NoError(t, repo.AddTransaction(ctx, domain.TransactionRecord{
		TxHash: "0xaaa", Type: domain.Send, Amount: "-1 ETH", TimestampMs: 100,
	}))
	require.NoError(t, repo.AddTransaction(ctx, domain.TransactionRecord{
		TxHash: "0xbbb", Type: domain.Send, Amount: "-2 ETH", TimestampMs: 300,
	}))
	require.NoError(t, repo.AddTransaction(ctx, domain.TransactionRecord{
		TxHash: "0xccc", Type: domain.Send, Amount: "-3 ETH", TimestampMs: 200,
	}))

	records, err = repo.GetAllTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "0xbbb", records[0].TxHash)
	require.Equal(t, "0xccc", records[1].TxHash)
	require.Equal(t, "0xaaa", records[2].TxHash)

	// same hash overwrites instead of duplicating
	require.NoError(t, repo.AddTransaction(ctx, domain.TransactionRecord{
		TxHash: "0xAAA", Type: domain.Send, Amount: "-1 ETH", TimestampMs: 100,
	}))
	records, err = repo.GetAllTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.NoError(t, repo.DeleteAllTransactions(ctx))
	records, err = repo.GetAllTransactions(ctx)
	require.NoError(t, err)
	require.Empty(t, records)
}

func newTestRepoManager(t *testing.T) *repoManager {
	t.Helper()
	repoManager, err := NewRepoManager(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)
	return repoManager
}
