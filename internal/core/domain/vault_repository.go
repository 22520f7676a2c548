package domain

import "context"

// VaultRepository is the single-slot persistence boundary for the encrypted
// vault. One wallet per data directory by design; saving overwrites.
type VaultRepository interface {
	// SaveVault stores the vault, replacing any previously stored one.
	SaveVault(ctx context.Context, vault *Vault) error
	// GetVault returns the stored vault, or nil without error if none was
	// ever saved.
	GetVault(ctx context.Context) (*Vault, error)
	// DeleteVault removes the stored vault. Deleting an empty slot is not an
	// error.
	DeleteVault(ctx context.Context) error
}
