package wallet

import (
	"crypto/ecdsa"
	"errors"
	"strings"
)

var (
	// ErrNullMnemonic ...
	ErrNullMnemonic = errors.New("mnemonic must not be null")
	// ErrNullPrivateKey ...
	ErrNullPrivateKey = errors.New("private key must not be null")
	// ErrNullPassphrase ...
	ErrNullPassphrase = errors.New("passphrase must not be null")
	// ErrNullPlainText ...
	ErrNullPlainText = errors.New("text to encrypt must not be null")
	// ErrNullCypherText ...
	ErrNullCypherText = errors.New("cypher to decrypt must not be null")

	// ErrInvalidEntropySize ...
	ErrInvalidEntropySize = errors.New(
		"entropy size must be a multiple of 32 in the range [128,256]",
	)
	// ErrInvalidMnemonic is returned for a recovery phrase that is not made of
	// 12 or 24 words of the BIP39 wordlist or whose checksum does not verify
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrInvalidPrivateKey is returned for a private key that is not exactly
	// 32 bytes of valid hex, or whose scalar is out of the secp256k1 range
	ErrInvalidPrivateKey = errors.New("private key is invalid")
	// ErrInvalidCypherText ...
	ErrInvalidCypherText = errors.New("cypher must be in base64 format")
)

// Wallet holds the key material controlling one EVM account: the secp256k1
// private key, the derived 0x address and, when the wallet was generated or
// imported from a recovery phrase, the mnemonic itself. It never touches the
// network nor the disk.
type Wallet struct {
	mnemonic   []string
	privateKey *ecdsa.PrivateKey
	address    string
}

// NewWalletOpts is the struct given to the NewWallet method
type NewWalletOpts struct {
	EntropySize int
}

func (o NewWalletOpts) validate() error {
	if o.EntropySize < 128 || o.EntropySize > 256 || o.EntropySize%32 != 0 {
		return ErrInvalidEntropySize
	}
	return nil
}

// NewWallet creates a new wallet with a freshly generated mnemonic and the
// key pair derived from it at the default EVM derivation path
func NewWallet(opts NewWalletOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	mnemonic, err := generateMnemonic(opts.EntropySize)
	if err != nil {
		return nil, err
	}

	return newWalletFromValidMnemonic(mnemonic)
}

// NewWalletFromMnemonicOpts is the struct given to the NewWalletFromMnemonic method
type NewWalletFromMnemonicOpts struct {
	Mnemonic []string
}

func (o NewWalletFromMnemonicOpts) validate() error {
	if len(o.Mnemonic) <= 0 {
		return ErrNullMnemonic
	}
	if len(o.Mnemonic) != 12 && len(o.Mnemonic) != 24 {
		return ErrInvalidMnemonic
	}
	if !isMnemonicValid(o.Mnemonic) {
		return ErrInvalidMnemonic
	}
	return nil
}

// NewWalletFromMnemonic restores the wallet deterministically encoded by the
// provided recovery phrase
func NewWalletFromMnemonic(opts NewWalletFromMnemonicOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	return newWalletFromValidMnemonic(opts.Mnemonic)
}

// NewWalletFromPrivateKeyOpts is the struct given to the NewWalletFromPrivateKey method
type NewWalletFromPrivateKeyOpts struct {
	PrivateKey string
}

func (o NewWalletFromPrivateKeyOpts) validate() error {
	if len(strings.TrimSpace(o.PrivateKey)) <= 0 {
		return ErrNullPrivateKey
	}
	return nil
}

// NewWalletFromPrivateKey restores a wallet from a raw private key in hex
// format, with or without the leading "0x". The resulting wallet has no
// mnemonic.
func NewWalletFromPrivateKey(opts NewWalletFromPrivateKeyOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	privateKey, err := parsePrivateKey(opts.PrivateKey)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		privateKey: privateKey,
		address:    addressFromKey(privateKey),
	}, nil
}

func newWalletFromValidMnemonic(mnemonic []string) (*Wallet, error) {
	seed := generateSeedFromMnemonic(mnemonic)
	privateKey, err := deriveKeyPair(seed, DefaultDerivationPath)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		mnemonic:   mnemonic,
		privateKey: privateKey,
		address:    addressFromKey(privateKey),
	}, nil
}

func (w *Wallet) validate() error {
	if w.privateKey == nil {
		return ErrNullPrivateKey
	}
	if len(w.mnemonic) > 0 {
		if !isMnemonicValid(w.mnemonic) {
			return ErrInvalidMnemonic
		}
	}
	return nil
}

// Address returns the checksummed 0x address of the wallet's account
func (w *Wallet) Address() (string, error) {
	if err := w.validate(); err != nil {
		return "", err
	}
	return w.address, nil
}

// Mnemonic is getter for the wallet's recovery phrase
func (w *Wallet) Mnemonic() ([]string, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	if len(w.mnemonic) <= 0 {
		return nil, ErrNullMnemonic
	}
	return w.mnemonic, nil
}

// HasMnemonic returns whether the wallet carries a recovery phrase, ie.
// whether it was generated or imported via phrase rather than via raw key
func (w *Wallet) HasMnemonic() bool {
	return len(w.mnemonic) > 0
}

// PrivateKey returns the wallet's signing key
func (w *Wallet) PrivateKey() (*ecdsa.PrivateKey, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	return w.privateKey, nil
}

// PrivateKeyHex returns the wallet's signing key as 0x-prefixed hex
func (w *Wallet) PrivateKeyHex() (string, error) {
	if err := w.validate(); err != nil {
		return "", err
	}
	return serializePrivateKey(w.privateKey), nil
}
