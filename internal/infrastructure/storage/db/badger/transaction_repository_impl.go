package dbbadger

import (
	"context"
	"errors"

	"github.com/timshannon/badgerhold/v4"

	"github.com/scroll-wallet/scroll-walletd/internal/core/domain"
)

type transactionRepositoryImpl struct {
	store *badgerhold.Store
}

func newTransactionRepositoryImpl(store *badgerhold.Store) domain.TransactionRepository {
	return transactionRepositoryImpl{store}
}

func (t transactionRepositoryImpl) AddTransaction(
	_ context.Context, record domain.TransactionRecord,
) error {
	return t.store.Upsert(record.Key(), &record)
}

func (t transactionRepositoryImpl) GetAllTransactions(
	_ context.Context,
) ([]domain.TransactionRecord, error) {
	records := make([]domain.TransactionRecord, 0)
	query := &badgerhold.Query{}
	if err := t.store.Find(
		&records, query.SortBy("TimestampMs").Reverse(),
	); err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return nil, err
	}
	return records, nil
}

func (t transactionRepositoryImpl) DeleteAllTransactions(
	_ context.Context,
) error {
	if err := t.store.DeleteMatching(
		&domain.TransactionRecord{}, &badgerhold.Query{},
	); err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return err
	}
	return nil
}
