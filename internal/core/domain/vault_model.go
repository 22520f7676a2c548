package domain

import (
	"encoding/json"
	"time"

	"github.com/scroll-wallet/scroll-walletd/pkg/wallet"
)

// VaultVersion is the current version of the at-rest vault format. Stored
// vaults carrying a different version are rejected as corrupt until a
// migration for them exists.
const VaultVersion = 1

const minPassphraseLength = 8

// Vault is the single durable artifact of the wallet: the key material
// encrypted under the user passphrase, next to the few plaintext fields
// needed to render the locked state without decrypting anything.
type Vault struct {
	Version     int
	CipherText  string
	Address     string
	NetworkName string
	CreatedAt   int64
}

// vaultPayload is what actually gets encrypted. The mnemonic is deliberately
// not part of it: the recovery phrase is only ever held in memory right after
// create/import and cannot be recovered from the vault.
type vaultPayload struct {
	PrivateKey string `json:"privateKey"`
}

// NewVault seals the provided key material under the passphrase and returns
// the vault ready to be persisted
func NewVault(keyMaterial *wallet.Wallet, passphrase, networkName string) (*Vault, error) {
	if keyMaterial == nil {
		return nil, ErrVaultNullKeyMaterial
	}
	if len(passphrase) < minPassphraseLength {
		return nil, ErrVaultWeakPassphrase
	}

	privateKey, err := keyMaterial.PrivateKeyHex()
	if err != nil {
		return nil, err
	}
	address, err := keyMaterial.Address()
	if err != nil {
		return nil, err
	}

	plainText, err := json.Marshal(vaultPayload{PrivateKey: privateKey})
	if err != nil {
		return nil, err
	}

	cipherText, err := wallet.Encrypt(wallet.EncryptOpts{
		PlainText:  string(plainText),
		Passphrase: passphrase,
	})
	if err != nil {
		return nil, err
	}

	return &Vault{
		Version:     VaultVersion,
		CipherText:  cipherText,
		Address:     address,
		NetworkName: networkName,
		CreatedAt:   time.Now().UnixMilli(),
	}, nil
}
