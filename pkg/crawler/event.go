package crawler

import "math/big"

const (
	// NetworkStatusUpdate is emitted on every liveness probe.
	NetworkStatusUpdate EventType = iota
	// AddressBalanceChanged is emitted when the observed native balance of an
	// address differs from the previously seen one.
	AddressBalanceChanged
	// CloseSignal is emitted right before the event channel is closed.
	CloseSignal
)

type EventType int

func (t EventType) String() string {
	switch t {
	case NetworkStatusUpdate:
		return "NetworkStatusUpdate"
	case AddressBalanceChanged:
		return "AddressBalanceChanged"
	case CloseSignal:
		return "CloseSignal"
	default:
		return "Unknown"
	}
}

// NetworkStatusEvent carries the outcome of a liveness probe.
type NetworkStatusEvent struct {
	Connected   bool
	LatencyMs   int64
	BlockHeight uint64
}

// Type implements the Event interface
func (e NetworkStatusEvent) Type() EventType {
	return NetworkStatusUpdate
}

// AddressBalanceEvent carries a freshly observed native balance.
type AddressBalanceEvent struct {
	Address    string
	BalanceWei *big.Int
}

// Type implements the Event interface
func (e AddressBalanceEvent) Type() EventType {
	return AddressBalanceChanged
}

// QuitEvent signals the consumer that the crawler stopped.
type QuitEvent struct{}

// Type implements the Event interface
func (e QuitEvent) Type() EventType {
	return CloseSignal
}
