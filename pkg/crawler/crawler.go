package crawler

// Event are emitted through a channel during observation.
type Event interface {
	Type() EventType
}

// Observable represents an object that can be observed on the network.
type Observable interface {
	Key() string
}

// Service is the interface for Crawler
type Service interface {
	Start()
	Stop()
	AddObservable(observable Observable)
	RemoveObservable(observable Observable)
	GetEventChannel() chan Event
}
