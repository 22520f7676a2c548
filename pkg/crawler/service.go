package crawler

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/scroll-wallet/scroll-walletd/pkg/explorer"
)

const (
	eventQueueMaxSize = 100
	errorQueueMaxSize = 10

	requestsPerSecond = 5
)

type networkCrawler struct {
	interval     time.Duration
	explorerSvc  explorer.Service
	errChan      chan error
	eventChan    chan Event
	observables  map[string]*observableHandler
	errorHandler func(err error)
	rateLimiter  *rate.Limiter
	mutex        *sync.RWMutex
	wg           *sync.WaitGroup
}

// Opts defines the parameters needed for creating a crawler service with the
// NewService method
type Opts struct {
	ExplorerSvc  explorer.Service
	Interval     time.Duration
	ErrorHandler func(err error)
}

// NewService returns a crawler that periodically polls the network for the
// registered observables. Use Start and Stop methods to manage it.
func NewService(opts Opts) Service {
	errorHandler := opts.ErrorHandler
	if errorHandler == nil {
		errorHandler = func(err error) {
			log.WithError(err).Warn("crawler: observation error")
		}
	}

	return &networkCrawler{
		interval:     opts.Interval,
		explorerSvc:  opts.ExplorerSvc,
		errChan:      make(chan error, errorQueueMaxSize),
		eventChan:    make(chan Event, eventQueueMaxSize),
		observables:  map[string]*observableHandler{},
		errorHandler: errorHandler,
		rateLimiter:  rate.NewLimiter(requestsPerSecond, requestsPerSecond),
		mutex:        &sync.RWMutex{},
		wg:           &sync.WaitGroup{},
	}
}

// Start starts the crawler, dispatching observation errors to the error
// handler until Stop is called
func (c *networkCrawler) Start() {
	for err := range c.errChan {
		go c.errorHandler(err)
	}
}

// Stop stops all observations, then closes the event and error channels
func (c *networkCrawler) Stop() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, handler := range c.observables {
		handler.stop()
	}
	c.observables = map[string]*observableHandler{}
	c.wg.Wait()
	c.eventChan <- QuitEvent{}
	close(c.errChan)
}

// GetEventChannel returns the Event channel which can be used to listen to
// network events
func (c *networkCrawler) GetEventChannel() chan Event {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.eventChan
}

// AddObservable adds a new Observable to be watched over, only if not
// already registered
func (c *networkCrawler) AddObservable(obs Observable) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	typed, ok := obs.(observable)
	if !ok {
		return
	}
	if _, ok := c.observables[obs.Key()]; !ok {
		handler := newObservableHandler(
			typed, c.explorerSvc, c.wg, c.interval, c.eventChan, c.errChan,
			c.rateLimiter,
		)
		c.observables[obs.Key()] = handler
		go handler.start()
	}
}

// RemoveObservable stops watching the given Observable
func (c *networkCrawler) RemoveObservable(obs Observable) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if handler, ok := c.observables[obs.Key()]; ok {
		handler.stop()
		delete(c.observables, obs.Key())
	}
}

type observableHandler struct {
	observable       observable
	explorerSvc      explorer.Service
	wg               *sync.WaitGroup
	ticker           *time.Ticker
	eventChan        chan Event
	errChan          chan error
	stopChan         chan struct{}
	observableStatus *observableStatus
	rateLimiter      *rate.Limiter
}

func newObservableHandler(
	obs observable,
	explorerSvc explorer.Service,
	wg *sync.WaitGroup,
	interval time.Duration,
	eventChan chan Event,
	errChan chan error,
	rateLimiter *rate.Limiter,
) *observableHandler {
	return &observableHandler{
		observable:       obs,
		explorerSvc:      explorerSvc,
		wg:               wg,
		ticker:           time.NewTicker(interval),
		eventChan:        eventChan,
		errChan:          errChan,
		stopChan:         make(chan struct{}, 1),
		observableStatus: newObservableStatus(),
		rateLimiter:      rateLimiter,
	}
}

func (oh *observableHandler) start() {
	oh.wg.Add(1)
	defer oh.wg.Done()

	// observe immediately, then on every tick
	oh.observe()
	for {
		select {
		case <-oh.ticker.C:
			oh.observe()
		case <-oh.stopChan:
			oh.ticker.Stop()
			return
		}
	}
}

func (oh *observableHandler) observe() {
	if oh.observableStatus.Get() != Waiting {
		oh.observable.observe(
			oh.explorerSvc,
			oh.errChan,
			oh.eventChan,
			oh.observableStatus,
			oh.rateLimiter,
		)
	}
}

func (oh *observableHandler) stop() {
	select {
	case oh.stopChan <- struct{}{}:
	default:
	}
}
