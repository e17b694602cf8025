package daemon

import (
	"context"
	"fmt"
	"path/filepath"

	dbm "github.com/tendermint/tm-db"

	"github.com/foresta-global/pricefeed/feed/client"
	"github.com/foresta-global/pricefeed/feed/config"
	"github.com/foresta-global/pricefeed/feed/localstore"
	"github.com/foresta-global/pricefeed/feed/lock"
	feedlog "github.com/foresta-global/pricefeed/feed/log"
	"github.com/foresta-global/pricefeed/feed/submit"
	"github.com/foresta-global/pricefeed/feed/subscribe"
	"github.com/foresta-global/pricefeed/feed/worker"
)

// Daemon wires the offchain components together: the block subscription
// feeding the worker, the worker's fetch lock over local scratch storage,
// and the submitter signing with the node key.
type Daemon struct {
	db               *localstore.Store
	nodeClient       *client.Client
	subscribeManager *subscribe.Manager
	priceWorker      *worker.Worker

	ctx context.Context
}

// New builds a daemon from the loaded config.
func New(ctx context.Context) (*Daemon, error) {
	d := new(Daemon)
	d.ctx = ctx

	db, err := dbm.NewDB("pricefeed", dbm.GoLevelDBBackend, filepath.Join(config.Home(), "data"))
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	d.db = localstore.New(db)

	keyRing, err := config.Keyring()
	if err != nil {
		return nil, fmt.Errorf("failed to create keyring: %w", err)
	}

	if _, err := keyRing.Key(config.KeyName()); err != nil {
		return nil, fmt.Errorf("failed to get key %q: %w", config.KeyName(), err)
	}

	d.nodeClient = client.New(config.APIEndpoint())

	submitter := submit.New(keyRing, config.KeyName(), d.nodeClient)
	fetchLock := lock.New(d.db, config.LockExpiry())
	d.priceWorker = worker.New(fetchLock, d.nodeClient, submitter)

	d.subscribeManager = subscribe.NewManager(config.WSEndpoint(), config.ChannelSize())

	return d, nil
}

// Start launches the block subscription and the worker loop.
func (d *Daemon) Start() {
	d.subscribeManager.Start(d.ctx)
	go d.priceWorker.Run(d.ctx, d.subscribeManager.Events())

	feedlog.Infof("Daemon started for chain %s", config.ChainID())
}

// Wait blocks until the subscription loop has shut down after context
// cancellation.
func (d *Daemon) Wait() {
	d.subscribeManager.Wait()
}
