package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/ethereum/go-ethereum/crypto"
)

// DefaultDerivationPath is the BIP44 path m/44'/60'/0'/0/0 used by virtually
// every EVM wallet for the first account.
var DefaultDerivationPath = []uint32{
	hdkeychain.HardenedKeyStart + 44,
	hdkeychain.HardenedKeyStart + 60,
	hdkeychain.HardenedKeyStart + 0,
	0,
	0,
}

func deriveKeyPair(seed []byte, path []uint32) (*ecdsa.PrivateKey, error) {
	// chain params only drive the xkey version bytes, not the derivation
	hdNode, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}
	for _, step := range path {
		hdNode, err = hdNode.Derive(step)
		if err != nil {
			return nil, err
		}
	}

	privateKey, err := hdNode.ECPrivKey()
	if err != nil {
		return nil, err
	}
	return privateKey.ToECDSA(), nil
}

func parsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	buf, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}
	if len(buf) != 32 {
		return nil, ErrInvalidPrivateKey
	}
	// rejects zero and out-of-range scalars
	privateKey, err := crypto.ToECDSA(buf)
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}
	return privateKey, nil
}

func serializePrivateKey(privateKey *ecdsa.PrivateKey) string {
	return "0x" + hex.EncodeToString(crypto.FromECDSA(privateKey))
}

func addressFromKey(privateKey *ecdsa.PrivateKey) string {
	return crypto.PubkeyToAddress(privateKey.PublicKey).Hex()
}
