package domain

import "errors"

var (
	// ErrVaultNullKeyMaterial ...
	ErrVaultNullKeyMaterial = errors.New("key material must not be null")
	// ErrVaultWeakPassphrase is thrown when sealing a vault with a passphrase
	// shorter than the minimum length
	ErrVaultWeakPassphrase = errors.New("passphrase must be at least 8 characters long")
	// ErrVaultInvalidPassphrase is thrown when unsealing a vault with the wrong passphrase
	ErrVaultInvalidPassphrase = errors.New("passphrase is not valid")
	// ErrVaultCorrupt is thrown when the vault's cyphertext is malformed or its
	// content does not match the plaintext metadata
	ErrVaultCorrupt = errors.New("vault data is corrupt")
)
