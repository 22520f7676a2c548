package dbbadger

import (
	"context"
	"errors"

	"github.com/timshannon/badgerhold/v4"

	"github.com/scroll-wallet/scroll-walletd/internal/core/domain"
)

// The vault store is single-slot: everything lives under one fixed key and
// saving overwrites whatever was there.
const vaultKey = "vault"

type vaultRepositoryImpl struct {
	store *badgerhold.Store
}

func newVaultRepositoryImpl(store *badgerhold.Store) domain.VaultRepository {
	return vaultRepositoryImpl{store}
}

func (v vaultRepositoryImpl) SaveVault(
	_ context.Context, vault *domain.Vault,
) error {
	return v.store.Upsert(vaultKey, vault)
}

func (v vaultRepositoryImpl) GetVault(
	_ context.Context,
) (*domain.Vault, error) {
	var vault domain.Vault
	if err := v.store.Get(vaultKey, &vault); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vault, nil
}

func (v vaultRepositoryImpl) DeleteVault(_ context.Context) error {
	if err := v.store.Delete(vaultKey, &domain.Vault{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}
