package dbbadger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"

	"github.com/scroll-wallet/scroll-walletd/internal/core/domain"
)

// repoManager holds the single badgerhold store backing all repositories.
type repoManager struct {
	store *badgerhold.Store

	vaultRepository       domain.VaultRepository
	transactionRepository domain.TransactionRepository
}

// NewRepoManager opens (or creates if not existing) the badger store on disk
// at the provided data directory and returns the manager giving access to the
// vault and transaction repositories.
func NewRepoManager(baseDbDir string) (*repoManager, error) {
	store, err := createDb(filepath.Join(baseDbDir, "wallet"))
	if err != nil {
		return nil, fmt.Errorf("opening wallet db: %w", err)
	}

	return &repoManager{
		store:                 store,
		vaultRepository:       newVaultRepositoryImpl(store),
		transactionRepository: newTransactionRepositoryImpl(store),
	}, nil
}

func (d *repoManager) VaultRepository() domain.VaultRepository {
	return d.vaultRepository
}

func (d *repoManager) TransactionRepository() domain.TransactionRepository {
	return d.transactionRepository
}

func (d *repoManager) Close() {
	if err := d.store.Close(); err != nil {
		log.WithError(err).Warn("error while closing wallet db")
	}
}

// JSONEncode is a custom JSON based encoder for badger
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)

	err := en.Encode(value)
	if err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger
func JSONDecode(data []byte, value interface{}) error {
	return json.NewDecoder(bytes.NewReader(data)).Decode(value)
}

func createDb(dbDir string) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = log.StandardLogger()

	return badgerhold.Open(badgerhold.Options{
		Encoder: JSONEncode,
		Decoder: JSONDecode,
		Options: opts,
	})
}
