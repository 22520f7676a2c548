package domain

import "context"

// TransactionRepository persists the locally originated transaction records,
// so the optimistic activity list survives restarts. Chain-fetched history is
// never written here.
type TransactionRepository interface {
	// AddTransaction appends a record. Re-adding the same tx hash overwrites.
	AddTransaction(ctx context.Context, record TransactionRecord) error
	// GetAllTransactions returns all records, newest first.
	GetAllTransactions(ctx context.Context) ([]TransactionRecord, error)
	// DeleteAllTransactions wipes the list, used by forget-wallet.
	DeleteAllTransactions(ctx context.Context) error
}
