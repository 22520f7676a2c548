package domain

import (
	"encoding/json"
	"errors"

	"github.com/scroll-wallet/scroll-walletd/pkg/wallet"
)

// IsZero returns whether the Vault is initialized without holding any data
func (v *Vault) IsZero() bool {
	return v == nil || len(v.CipherText) <= 0
}

// Unseal attempts to decrypt the vault's cyphertext with the provided
// passphrase and returns the key material it contains. A failing AEAD open is
// reported as an invalid passphrase; everything else that prevents
// reconstructing key material consistent with the plaintext address is
// reported as a corrupt vault.
func (v *Vault) Unseal(passphrase string) (*wallet.Wallet, error) {
	if v.IsZero() {
		return nil, ErrVaultCorrupt
	}
	if v.Version != VaultVersion {
		return nil, ErrVaultCorrupt
	}

	plainText, err := wallet.Decrypt(wallet.DecryptOpts{
		CypherText: v.CipherText,
		Passphrase: passphrase,
	})
	if err != nil {
		if errors.Is(err, wallet.ErrInvalidCypherText) ||
			errors.Is(err, wallet.ErrNullCypherText) {
			return nil, ErrVaultCorrupt
		}
		return nil, ErrVaultInvalidPassphrase
	}

	payload := vaultPayload{}
	if err := json.Unmarshal([]byte(plainText), &payload); err != nil {
		return nil, ErrVaultCorrupt
	}

	keyMaterial, err := wallet.NewWalletFromPrivateKey(
		wallet.NewWalletFromPrivateKeyOpts{PrivateKey: payload.PrivateKey},
	)
	if err != nil {
		return nil, ErrVaultCorrupt
	}

	// sanity check, not a security boundary
	address, err := keyMaterial.Address()
	if err != nil || address != v.Address {
		return nil, ErrVaultCorrupt
	}

	return keyMaterial, nil
}
