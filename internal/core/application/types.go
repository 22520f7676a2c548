package application

// WalletInfo is returned once, right after creating or importing a wallet.
// The mnemonic is nil for raw-key imports and is never shown again afterwards:
// it is not part of the persisted vault.
type WalletInfo struct {
	Address  string
	Mnemonic []string
}

// SendResult is the outcome of a successfully broadcast transaction.
type SendResult struct {
	TxHash      string
	ExplorerURL string
}
