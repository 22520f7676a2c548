package ports

import (
	"github.com/scroll-wallet/scroll-walletd/internal/core/domain"
)

// RepoManager interface gives access to the repositories backed by the local
// store.
type RepoManager interface {
	VaultRepository() domain.VaultRepository
	TransactionRepository() domain.TransactionRepository

	Close()
}
