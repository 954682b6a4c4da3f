// Package engine is the mutex-guarded aggregate that owns a node's chain,
// mempool, uncle pool, and peer registry, and exposes every operation the
// HTTP surface and the mining worker call into.
package engine

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/qcbit/ledger/foundation/blockchain/block"
	"github.com/qcbit/ledger/foundation/blockchain/chain"
	"github.com/qcbit/ledger/foundation/blockchain/mempool"
	"github.com/qcbit/ledger/foundation/blockchain/peerset"
	"github.com/qcbit/ledger/foundation/blockchain/pow"
	"github.com/qcbit/ledger/foundation/blockchain/unclepool"
)

// EventHandler is called for every notable step the engine takes, letting
// the node binary route them to structured logging without the engine
// itself depending on a logger.
type EventHandler func(v string, args ...any)

// ErrNoTransactions is returned by MineBlock when the mempool is empty.
var ErrNoTransactions = errors.New("no transactions to mine")

// Config configures a new Engine.
type Config struct {
	Host       string
	KnownPeers []string
	EvHandler  EventHandler

	// Genesis overrides the anchor block New seeds the chain with. Left
	// nil, New calls block.Genesis() itself. Tests that need two engines
	// to agree on chain linkage set this explicitly, since block.Genesis()
	// stamps the current time and so produces a different hash on every
	// call.
	Genesis *block.Block
}

// Engine owns the chain and every structure derived from it, and
// serializes all mutation behind a single mutex — mirroring the reference
// implementation's single-threaded, GIL-guarded state.
type Engine struct {
	mu sync.RWMutex

	host      string
	evHandler EventHandler

	chain      chain.Chain
	difficulty uint64
	mempool    *mempool.Mempool
	uncles     *unclepool.Pool
	peers      *peerset.Set

	httpClient *http.Client

	// Worker is assigned by the mining worker once it starts, mirroring
	// the reference's late-bound Worker field.
	Worker Worker
}

// Worker is the behavior a mining goroutine must provide; Engine.Shutdown
// calls into it without depending on its package.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// New constructs an Engine seeded with a genesis block and an empty
// mempool, uncle pool, and peer set.
func New(cfg Config) *Engine {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	self := peerset.New(cfg.Host)
	peers := peerset.NewSet(self)
	for _, raw := range cfg.KnownPeers {
		peers.Add(peerset.New(raw))
	}

	genesis := block.Genesis()
	if cfg.Genesis != nil {
		genesis = *cfg.Genesis
	}

	e := &Engine{
		host:       cfg.Host,
		evHandler:  ev,
		chain:      chain.Chain{genesis},
		difficulty: 1,
		mempool:    mempool.New(),
		uncles:     unclepool.New(),
		peers:      peers,
		httpClient: &http.Client{Timeout: 25 * time.Second},
	}

	return e
}

// Shutdown stops the mining worker, if one is attached.
func (e *Engine) Shutdown() {
	e.evHandler("engine: shutdown: started")
	defer e.evHandler("engine: shutdown: completed")

	if e.Worker != nil {
		e.Worker.Shutdown()
	}
}

// Chain returns a copy of the current chain.
func (e *Engine) Chain() chain.Chain {
	e.mu.RLock()
	defer e.mu.RUnlock()

	cp := make(chain.Chain, len(e.chain))
	copy(cp, e.chain)
	return cp
}

// LatestBlock returns the head of the chain.
func (e *Engine) LatestBlock() block.Block {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.chain[len(e.chain)-1]
}

// Difficulty returns the node-local current difficulty.
func (e *Engine) Difficulty() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.difficulty
}

// IsValid reports whether the current chain passes validation.
func (e *Engine) IsValid() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return chain.Validate(e.chain) == nil
}

// MempoolLength returns the number of pending transactions.
func (e *Engine) MempoolLength() int {
	return e.mempool.Len()
}

// Host returns this node's own advertised address.
func (e *Engine) Host() string {
	return e.host
}

// KnownPeers returns a snapshot of the peer registry, excluding self.
func (e *Engine) KnownPeers() []peerset.Peer {
	return e.peers.Copy()
}

// AddKnownPeer registers peer, returning true if it was newly added.
func (e *Engine) AddKnownPeer(raw string) bool {
	return e.peers.Add(peerset.New(raw))
}

// solvePuzzle is a small seam so tests can stub mining without
// touching the package-level pow.Solve signature.
var solvePuzzle = pow.Solve
