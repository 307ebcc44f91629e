package dbbadger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
	"github.com/tradelane-network/tradelane-daemon/internal/core/domain"
	"github.com/tradelane-network/tradelane-daemon/internal/core/ports"
)

const ctxTxKey = "tx"

// repoManager holds the badgerhold store shared by all repositories, so a
// transition's trade, escrow and audit writes commit in one badger
// transaction.
type repoManager struct {
	store *badgerhold.Store

	tradeRepository  domain.TradeRepository
	quoteRepository  domain.QuoteRepository
	escrowRepository domain.EscrowRepository
	eventRepository  domain.EventRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// An empty baseDbDir opens the store in memory, which is what tests and dev
// mode use.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "kernel")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening kernel db: %w", err)
	}

	rm := &repoManager{store: store}
	rm.tradeRepository = newTradeRepositoryImpl(rm)
	rm.quoteRepository = newQuoteRepositoryImpl(rm)
	rm.escrowRepository = newEscrowRepositoryImpl(rm)
	rm.eventRepository = newEventRepositoryImpl(rm)
	return rm, nil
}

func (d *repoManager) TradeRepository() domain.TradeRepository {
	return d.tradeRepository
}

func (d *repoManager) QuoteRepository() domain.QuoteRepository {
	return d.quoteRepository
}

func (d *repoManager) EscrowRepository() domain.EscrowRepository {
	return d.escrowRepository
}

func (d *repoManager) EventRepository() domain.EventRepository {
	return d.eventRepository
}

// RunTransaction implements the ports.RepoManager interface. A badger
// commit conflict is surfaced as a trade version conflict so the calling
// layer can retry.
func (d *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	tx := d.store.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	res, err := handler(context.WithValue(ctx, ctxTxKey, tx))
	if err != nil {
		return nil, err
	}

	if !readOnly {
		if err := tx.Commit(); err != nil {
			if err == badger.ErrConflict {
				return nil, domain.ErrTradeVersionConflict
			}
			return nil, err
		}
	}
	return res, nil
}

func (d *repoManager) Close() {
	d.store.Close()
}

func txFromContext(ctx context.Context) (*badger.Txn, bool) {
	tx, ok := ctx.Value(ctxTxKey).(*badger.Txn)
	return tx, ok
}

// JSONEncode is a custom JSON based encoder for badger.
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer
	if err := json.NewEncoder(&buff).Encode(value); err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger.
func JSONDecode(data []byte, value interface{}) error {
	return json.NewDecoder(bytes.NewReader(data)).Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(30 * time.Minute)

		go func() {
			for {
				<-ticker.C
				if err := db.Badger().RunValueLogGC(0.5); err != nil &&
					err != badger.ErrNoRewrite {
					log.Error(err)
				}
			}
		}()
	}

	return db, nil
}
