package application

import "errors"

var (
	// ErrWalletNotFound is returned when an operation requires a stored vault
	// and none exists in the data directory
	ErrWalletNotFound = errors.New("wallet is not initialized")
	// ErrWalletLocked is returned when an operation requires unsealed key
	// material and the wallet is locked
	ErrWalletLocked = errors.New("wallet is locked")
	// ErrUnknownNetwork is returned when switching to a network name that is
	// not part of the configured profiles
	ErrUnknownNetwork = errors.New("network is not supported")
	// ErrInvalidRecipient is returned for a recipient that is not a valid
	// 0x address
	ErrInvalidRecipient = errors.New("recipient address is invalid")
	// ErrInvalidContract is returned for a token contract that is not a valid
	// 0x address
	ErrInvalidContract = errors.New("token contract address is invalid")
	// ErrInvalidAmount is returned for an amount that does not parse as a
	// positive decimal number
	ErrInvalidAmount = errors.New("amount is invalid")
	// ErrInsufficientFunds is returned when the native balance does not cover
	// the amount to send
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientTokenBalance is returned when the token balance does not
	// cover the amount to send
	ErrInsufficientTokenBalance = errors.New("insufficient token balance")
)
