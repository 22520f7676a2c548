package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scroll-wallet/scroll-walletd/internal/core/domain"
	"github.com/scroll-wallet/scroll-walletd/pkg/wallet"
)

const testNetworkName = "Scroll Sepolia"

func TestVaultSealUnseal(t *testing.T) {
	t.Parallel()

	keyMaterial := newTestKeyMaterial(t)
	address, _ := keyMaterial.Address()

	vault, err := domain.NewVault(keyMaterial, "correctpw1", testNetworkName)
	require.NoError(t, err)
	require.Equal(t, domain.VaultVersion, vault.Version)
	require.Equal(t, address, vault.Address)
	require.Equal(t, testNetworkName, vault.NetworkName)
	require.Greater(t, vault.CreatedAt, int64(0))

	unsealed, err := vault.Unseal("correctpw1")
	require.NoError(t, err)

	unsealedAddress, err := unsealed.Address()
	require.NoError(t, err)
	require.Equal(t, address, unsealedAddress)

	expectedKey, _ := keyMaterial.PrivateKeyHex()
	unsealedKey, _ := unsealed.PrivateKeyHex()
	require.Equal(t, expectedKey, unsealedKey)

	// the recovery phrase must not survive sealing
	require.False(t, unsealed.HasMnemonic())
}

func TestVaultSealNotDeterministic(t *testing.T) {
	t.Parallel()

	keyMaterial := newTestKeyMaterial(t)

	vault, err := domain.NewVault(keyMaterial, "correctpw1", testNetworkName)
	require.NoError(t, err)
	otherVault, err := domain.NewVault(keyMaterial, "correctpw1", testNetworkName)
	require.NoError(t, err)
	require.NotEqual(t, vault.CipherText, otherVault.CipherText)
}

func TestFailingNewVault(t *testing.T) {
	t.Parallel()

	keyMaterial := newTestKeyMaterial(t)

	tests := []struct {
		name          string
		keyMaterial   *wallet.Wallet
		passphrase    string
		expectedError error
	}{
		{"null key material", nil, "correctpw1", domain.ErrVaultNullKeyMaterial},
		{"empty passphrase", keyMaterial, "", domain.ErrVaultWeakPassphrase},
		{"short passphrase", keyMaterial, "seven77", domain.ErrVaultWeakPassphrase},
	}

	for _, tt := range tests {
		v, err := domain.NewVault(tt.keyMaterial, tt.passphrase, testNetworkName)
		require.Nil(t, v)
		require.EqualError(t, err, tt.expectedError.Error())
	}
}

func TestFailingUnseal(t *testing.T) {
	t.Parallel()

	keyMaterial := newTestKeyMaterial(t)
	vault, err := domain.NewVault(keyMaterial, "correctpw1", testNetworkName)
	require.NoError(t, err)

	t.Run("wrong passphrase", func(t *testing.T) {
		_, err := vault.Unseal("wrongpass1")
		require.ErrorIs(t, err, domain.ErrVaultInvalidPassphrase)
	})

	t.Run("malformed cyphertext", func(t *testing.T) {
		corrupt := *vault
		corrupt.CipherText = "not base64!!"
		_, err := corrupt.Unseal("correctpw1")
		require.ErrorIs(t, err, domain.ErrVaultCorrupt)
	})

	t.Run("unknown version", func(t *testing.T) {
		future := *vault
		future.Version = domain.VaultVersion + 1
		_, err := future.Unseal("correctpw1")
		require.ErrorIs(t, err, domain.ErrVaultCorrupt)
	})

	t.Run("address mismatch", func(t *testing.T) {
		tampered := *vault
		tampered.Address = "0x0000000000000000000000000000000000000001"
		_, err := tampered.Unseal("correctpw1")
		require.ErrorIs(t, err, domain.ErrVaultCorrupt)
	})
}

func newTestKeyMaterial(t *testing.T) *wallet.Wallet {
	t.Helper()
	keyMaterial, err := wallet.NewWallet(wallet.NewWalletOpts{EntropySize: 128})
	require.NoError(t, err)
	return keyMaterial
}
