package application

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/scroll-wallet/scroll-walletd/internal/core/domain"
	"github.com/scroll-wallet/scroll-walletd/internal/core/ports"
	"github.com/scroll-wallet/scroll-walletd/pkg/crawler"
	"github.com/scroll-wallet/scroll-walletd/pkg/explorer"
	"github.com/scroll-wallet/scroll-walletd/pkg/pricefeed"
	"github.com/scroll-wallet/scroll-walletd/pkg/wallet"
)

const defaultCrawlerInterval = 30 * time.Second

// ExplorerFactory builds the network gateway for the given chain profile. It
// is invoked once at startup and again on every network switch.
type ExplorerFactory func(network domain.Network) (explorer.Service, error)

// WalletService is the session controller of the wallet: it owns the key
// material lifecycle, the active network, and the reconciled view of balances
// and activity. All state transitions are serialized; observers are safe to
// call from any goroutine.
type WalletService interface {
	CreateWallet(ctx context.Context, passphrase string) (*WalletInfo, error)
	ImportWalletFromMnemonic(
		ctx context.Context, mnemonic []string, passphrase string,
	) (*WalletInfo, error)
	ImportWalletFromPrivateKey(
		ctx context.Context, privateKey, passphrase string,
	) (*WalletInfo, error)
	UnlockWallet(ctx context.Context, passphrase string) (string, error)
	LockWallet()
	ForgetWallet(ctx context.Context) error
	SwitchNetwork(ctx context.Context, name string) error
	Refresh(ctx context.Context) error
	SendNative(ctx context.Context, to, amount string) (*SendResult, error)
	SendToken(ctx context.Context, contract, to, amount string) (*SendResult, error)

	WalletExists(ctx context.Context) (bool, error)
	IsUnlocked() bool
	Address() string
	Network() domain.Network
	Networks() []domain.Network
	NetworkStatus() domain.NetworkStatus
	Portfolio() domain.Portfolio
	Transactions(ctx context.Context) ([]domain.TransactionRecord, error)

	Close()
}

// WalletServiceOpts defines the parameters needed for creating a wallet
// service with the NewWalletService method
type WalletServiceOpts struct {
	RepoManager     ports.RepoManager
	ExplorerFactory ExplorerFactory
	FeedSvc         pricefeed.Service
	Networks        []domain.Network
	DefaultNetwork  string
	// NativeFeedID is the price feed identifier of the native currency,
	// "ethereum" if unset.
	NativeFeedID string
	// CrawlerInterval is the polling cadence of the liveness and balance
	// observations, 30s if unset.
	CrawlerInterval time.Duration
}

func (o WalletServiceOpts) validate() error {
	if o.RepoManager == nil {
		return errors.New("missing repo manager")
	}
	if o.ExplorerFactory == nil {
		return errors.New("missing explorer factory")
	}
	if o.FeedSvc == nil {
		return errors.New("missing price feed service")
	}
	if len(o.Networks) <= 0 {
		return errors.New("missing network profiles")
	}
	found := false
	for _, network := range o.Networks {
		if network.Name == o.DefaultNetwork {
			found = true
			break
		}
	}
	if !found {
		return ErrUnknownNetwork
	}
	return nil
}

type walletService struct {
	repoManager     ports.RepoManager
	explorerFactory ExplorerFactory
	feedSvc         pricefeed.Service
	networks        map[string]domain.Network
	nativeFeedID    string
	crawlerInterval time.Duration

	// lock serializes every state transition, from unlock to send. Observers
	// read a consistent snapshot through stateLock instead.
	lock      *sync.Mutex
	stateLock *sync.RWMutex

	keyMaterial  *wallet.Wallet
	address      string
	network      domain.Network
	explorerSvc  explorer.Service
	status       domain.NetworkStatus
	portfolio    domain.Portfolio
	chainHistory []domain.TransactionRecord
	priceCache   map[string]pricefeed.Quote
	prevTotalUsd *decimal.Decimal

	crawlerSvc crawler.Service
	refreshGen uint64
}

// NewWalletService returns a wallet service wired to the given repositories,
// network gateway factory and price feed. The wallet starts locked on the
// default network.
func NewWalletService(opts WalletServiceOpts) (WalletService, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	networks := make(map[string]domain.Network, len(opts.Networks))
	for _, network := range opts.Networks {
		networks[network.Name] = network
	}
	defaultNetwork := networks[opts.DefaultNetwork]

	explorerSvc, err := opts.ExplorerFactory(defaultNetwork)
	if err != nil {
		return nil, err
	}

	nativeFeedID := opts.NativeFeedID
	if nativeFeedID == "" {
		nativeFeedID = "ethereum"
	}
	crawlerInterval := opts.CrawlerInterval
	if crawlerInterval <= 0 {
		crawlerInterval = defaultCrawlerInterval
	}

	return &walletService{
		repoManager:     opts.RepoManager,
		explorerFactory: opts.ExplorerFactory,
		feedSvc:         opts.FeedSvc,
		networks:        networks,
		nativeFeedID:    nativeFeedID,
		crawlerInterval: crawlerInterval,
		lock:            &sync.Mutex{},
		stateLock:       &sync.RWMutex{},
		network:         defaultNetwork,
		explorerSvc:     explorerSvc,
		priceCache:      map[string]pricefeed.Quote{},
	}, nil
}

// CreateWallet generates a brand new wallet, seals it under the passphrase
// and leaves the session unlocked. The recovery phrase is returned here and
// never again.
func (s *walletService) CreateWallet(
	ctx context.Context, passphrase string,
) (*WalletInfo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.probeGateway(ctx); err != nil {
		return nil, err
	}

	keyMaterial, err := wallet.NewWallet(wallet.NewWalletOpts{EntropySize: 128})
	if err != nil {
		return nil, err
	}

	return s.sealAndUnlock(ctx, keyMaterial, passphrase)
}

// ImportWalletFromMnemonic restores the wallet encoded by the recovery phrase
// and seals it under the passphrase, replacing any previously stored vault.
func (s *walletService) ImportWalletFromMnemonic(
	ctx context.Context, mnemonic []string, passphrase string,
) (*WalletInfo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.probeGateway(ctx); err != nil {
		return nil, err
	}

	keyMaterial, err := wallet.NewWalletFromMnemonic(
		wallet.NewWalletFromMnemonicOpts{Mnemonic: mnemonic},
	)
	if err != nil {
		return nil, err
	}

	return s.sealAndUnlock(ctx, keyMaterial, passphrase)
}

// ImportWalletFromPrivateKey restores a wallet from a raw hex private key.
// The resulting wallet carries no recovery phrase.
func (s *walletService) ImportWalletFromPrivateKey(
	ctx context.Context, privateKey, passphrase string,
) (*WalletInfo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.probeGateway(ctx); err != nil {
		return nil, err
	}

	keyMaterial, err := wallet.NewWalletFromPrivateKey(
		wallet.NewWalletFromPrivateKeyOpts{PrivateKey: privateKey},
	)
	if err != nil {
		return nil, err
	}

	return s.sealAndUnlock(ctx, keyMaterial, passphrase)
}

// UnlockWallet unseals the stored vault with the passphrase and starts the
/// session: observations begin and a full refresh is kicked off in background.
func (s *walletService) UnlockWallet(
	ctx context.Context, passphrase string,
) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	vault, err := s.repoManager.VaultRepository().GetVault(ctx)
	if err != nil {
		return "", err
	}
	if vault.IsZero() {
		return "", ErrWalletNotFound
	}

	if err := s.probeGateway(ctx); err != nil {
		return "", err
	}

	keyMaterial, err := vault.Unseal(passphrase)
	if err != nil {
		return "", err
	}

	s.becomeUnlocked(keyMaterial)
	return vault.Address, nil
}

// LockWallet drops the in-memory key material and session state. The vault on
// disk is untouched. Locking a locked wallet is a no-op.
func (s *walletService) LockWallet() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.IsUnlocked() {
		return
	}
	s.becomeLocked()
}

// ForgetWallet wipes the stored vault and the local activity records, ending
// the session if one is active. The only way back is re-importing the keys.
func (s *walletService) ForgetWallet(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.IsUnlocked() {
		s.becomeLocked()
	}

	if err := s.repoManager.VaultRepository().DeleteVault(ctx); err != nil {
		return err
	}
	return s.repoManager.TransactionRepository().DeleteAllTransactions(ctx)
}

// SwitchNetwork points the session at another configured chain profile. The
// gateway is rebuilt, stale balances and history are dropped, and if the
// wallet is unlocked observations restart and a full refresh is triggered.
// A switch requested while a send is in flight waits for it to complete.
func (s *walletService) SwitchNetwork(ctx context.Context, name string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	network, ok := s.networks[name]
	if !ok {
		return ErrUnknownNetwork
	}
	if s.Network().Name == name {
		return nil
	}

	explorerSvc, err := s.explorerFactory(network)
	if err != nil {
		return err
	}

	// orphan any refresh still running against the previous network
	atomic.AddUint64(&s.refreshGen, 1)

	wasUnlocked := s.IsUnlocked()
	if wasUnlocked {
		s.stopCrawler()
	}

	status := domain.NetworkStatus{}
	start := time.Now()
	if _, err := explorerSvc.GetBlockHeight(ctx); err == nil {
		status = domain.NetworkStatus{
			Connected: true,
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}

	s.stateLock.Lock()
	s.network = network
	s.explorerSvc = explorerSvc
	s.status = status
	s.portfolio = domain.Portfolio{}
	s.chainHistory = nil
	s.prevTotalUsd = nil
	s.stateLock.Unlock()

	if wasUnlocked {
		s.startCrawler()
		s.triggerRefresh()
	}
	return nil
}

// Refresh reconciles balances, prices and history synchronously. It never
// fails on partial data, only when the wallet is locked.
func (s *walletService) Refresh(ctx context.Context) error {
	if !s.IsUnlocked() {
		return ErrWalletLocked
	}
	s.refresh(ctx, atomic.AddUint64(&s.refreshGen, 1))
	return nil
}

// WalletExists returns whether a vault is stored in the data directory.
func (s *walletService) WalletExists(ctx context.Context) (bool, error) {
	vault, err := s.repoManager.VaultRepository().GetVault(ctx)
	if err != nil {
		return false, err
	}
	return !vault.IsZero(), nil
}

// IsUnlocked returns whether key material is currently held in memory.
func (s *walletService) IsUnlocked() bool {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()
	return s.keyMaterial != nil
}

// Address returns the account address of the unlocked wallet, empty when
// locked.
func (s *walletService) Address() string {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()
	return s.address
}

// Network returns the active chain profile.
func (s *walletService) Network() domain.Network {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()
	return s.network
}

// Networks returns all configured chain profiles, sorted by name.
func (s *walletService) Networks() []domain.Network {
	networks := make([]domain.Network, 0, len(s.networks))
	for _, network := range s.networks {
		networks = append(networks, network)
	}
	sort.Slice(networks, func(i, j int) bool {
		return networks[i].Name < networks[j].Name
	})
	return networks
}

// NetworkStatus returns the outcome of the latest liveness probe.
func (s *walletService) NetworkStatus() domain.NetworkStatus {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()
	return s.status
}

// Portfolio returns the latest reconciled snapshot. It is zero until the
// first refresh after unlock completes.
func (s *walletService) Portfolio() domain.Portfolio {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()
	return s.portfolio
}

// Transactions returns the activity list of the active network: the locally
// originated records merged with the chain-fetched history, newest first.
func (s *walletService) Transactions(
	ctx context.Context,
) ([]domain.TransactionRecord, error) {
	if !s.IsUnlocked() {
		return nil, ErrWalletLocked
	}

	local, err := s.repoManager.TransactionRepository().GetAllTransactions(ctx)
	if err != nil {
		return nil, err
	}

	s.stateLock.RLock()
	networkName := s.network.Name
	chain := s.chainHistory
	s.stateLock.RUnlock()

	filtered := make([]domain.TransactionRecord, 0, len(local))
	for _, record := range local {
		if record.NetworkName == networkName {
			filtered = append(filtered, record)
		}
	}
	return domain.MergeTransactions(filtered, chain), nil
}

// Close tears down the session and releases the local store.
func (s *walletService) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.IsUnlocked() {
		s.becomeLocked()
	}
	s.repoManager.Close()
}

// probeGateway is the liveness check preceding every operation that mutates
// or depends on persisted state. Callers must hold the service lock.
func (s *walletService) probeGateway(ctx context.Context) error {
	s.stateLock.RLock()
	explorerSvc := s.explorerSvc
	s.stateLock.RUnlock()

	_, err := explorerSvc.GetBlockHeight(ctx)
	return err
}

// sealAndUnlock persists the vault for the given key material and starts the
// session. Shared by create and the two import flows.
func (s *walletService) sealAndUnlock(
	ctx context.Context, keyMaterial *wallet.Wallet, passphrase string,
) (*WalletInfo, error) {
	vault, err := domain.NewVault(keyMaterial, passphrase, s.Network().Name)
	if err != nil {
		return nil, err
	}

	// records of a previously stored wallet belong to another account and
	// must be gone before the new vault lands
	if err := s.repoManager.TransactionRepository().DeleteAllTransactions(
		ctx,
	); err != nil {
		return nil, err
	}
	if err := s.repoManager.VaultRepository().SaveVault(ctx, vault); err != nil {
		return nil, err
	}

	s.becomeUnlocked(keyMaterial)

	info := &WalletInfo{Address: vault.Address}
	if keyMaterial.HasMnemonic() {
		mnemonic, err := keyMaterial.Mnemonic()
		if err != nil {
			return nil, err
		}
		info.Mnemonic = mnemonic
	}
	return info, nil
}

func (s *walletService) becomeUnlocked(keyMaterial *wallet.Wallet) {
	address, _ := keyMaterial.Address()

	s.stateLock.Lock()
	s.keyMaterial = keyMaterial
	s.address = address
	s.portfolio = domain.Portfolio{}
	s.chainHistory = nil
	s.prevTotalUsd = nil
	s.stateLock.Unlock()

	s.startCrawler()
	s.triggerRefresh()
}

func (s *walletService) becomeLocked() {
	// orphan any refresh still in flight
	atomic.AddUint64(&s.refreshGen, 1)
	s.stopCrawler()

	s.stateLock.Lock()
	s.keyMaterial = nil
	s.address = ""
	s.portfolio = domain.Portfolio{}
	s.chainHistory = nil
	s.prevTotalUsd = nil
	s.stateLock.Unlock()
}

func (s *walletService) startCrawler() {
	s.stateLock.RLock()
	explorerSvc := s.explorerSvc
	address := s.address
	s.stateLock.RUnlock()

	crawlerSvc := crawler.NewService(crawler.Opts{
		ExplorerSvc: explorerSvc,
		Interval:    s.crawlerInterval,
	})

	s.stateLock.Lock()
	s.crawlerSvc = crawlerSvc
	s.stateLock.Unlock()

	go crawlerSvc.Start()
	crawlerSvc.AddObservable(&crawler.NetworkObservable{})
	crawlerSvc.AddObservable(&crawler.AddressObservable{Address: address})
	go s.listenToEvents(crawlerSvc)
}

func (s *walletService) stopCrawler() {
	s.stateLock.Lock()
	crawlerSvc := s.crawlerSvc
	s.crawlerSvc = nil
	s.stateLock.Unlock()

	if crawlerSvc != nil {
		crawlerSvc.Stop()
	}
}

func (s *walletService) listenToEvents(crawlerSvc crawler.Service) {
	for event := range crawlerSvc.GetEventChannel() {
		switch e := event.(type) {
		case crawler.NetworkStatusEvent:
			s.stateLock.Lock()
			s.status = domain.NetworkStatus{
				Connected: e.Connected,
				LatencyMs: e.LatencyMs,
			}
			s.stateLock.Unlock()
		case crawler.AddressBalanceEvent:
			log.WithField("address", e.Address).Debug(
				"crawler: balance changed, triggering refresh",
			)
			s.triggerRefresh()
		case crawler.QuitEvent:
			return
		}
	}
}

// triggerRefresh starts a background reconciliation. Concurrent runs are
// resolved last-writer-wins through the generation counter.
func (s *walletService) triggerRefresh() {
	gen := atomic.AddUint64(&s.refreshGen, 1)
	go s.refresh(context.Background(), gen)
}

func (s *walletService) refresh(ctx context.Context, gen uint64) {
	s.stateLock.RLock()
	address := s.address
	network := s.network
	explorerSvc := s.explorerSvc
	s.stateLock.RUnlock()

	if address == "" {
		return
	}

	portfolio := s.reconcile(ctx, explorerSvc, network, address)
	history := fetchHistory(ctx, explorerSvc, network, address)

	s.stateLock.Lock()
	defer s.stateLock.Unlock()

	if gen != atomic.LoadUint64(&s.refreshGen) {
		// superseded by a newer refresh or by a state transition
		return
	}

	if s.prevTotalUsd != nil {
		prev := *s.prevTotalUsd
		portfolio.DeltaUsd = portfolio.TotalUsd.Sub(prev)
		if !prev.IsZero() {
			portfolio.DeltaPercent = portfolio.DeltaUsd.Div(prev).
				Mul(decimal.NewFromInt(100)).Round(2)
		}
	}
	total := portfolio.TotalUsd
	s.prevTotalUsd = &total

	s.portfolio = portfolio
	s.chainHistory = history
}

// fetchHistory maps the explorer-indexed transactions of the address to
// activity records. Best effort, an unreachable indexer yields no entries.
func fetchHistory(
	ctx context.Context,
	explorerSvc explorer.Service,
	network domain.Network,
	address string,
) []domain.TransactionRecord {
	txs := explorerSvc.GetHistory(ctx, address)
	if len(txs) <= 0 {
		return nil
	}

	records := make([]domain.TransactionRecord, 0, len(txs))
	for _, tx := range txs {
		amount := fromBaseUnits(tx.ValueWei, network.NativeCurrency.Decimals)
		record := domain.TransactionRecord{
			TxHash:      tx.Hash,
			Symbol:      network.NativeCurrency.Symbol,
			TimestampMs: tx.TimestampMs,
			NetworkName: network.Name,
		}
		if strings.EqualFold(tx.From, address) {
			record.Type = domain.Send
			record.Counterparty = tx.To
			record.Amount = "-" + amount.String()
		} else {
			record.Type = domain.Receive
			record.Counterparty = tx.From
			record.Amount = "+" + amount.String()
		}
		records = append(records, record)
	}
	return records
}
