// Package mempool tracks pending transactions admitted by this node but not
// yet confirmed in the local chain: an ordered list, a dedup set keyed by
// canonical JSON, and a per-sender nonce table.
package mempool

import (
	"errors"
	"sync"

	"github.com/qcbit/ledger/foundation/blockchain/txn"
)

// ErrInvalidSignature and ErrStaleNonce mirror the admission error
// taxonomy from the spec.
var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrStaleNonce       = errors.New("stale nonce")
)

// Mempool is the mutex-guarded pending-transaction list plus its
// supporting indexes.
type Mempool struct {
	mu      sync.RWMutex
	pending []txn.Tx
	pool    map[string]struct{} // transaction_pool: canonical-JSON dedup keys
	nonces  map[string]uint64   // nonce_table: sender -> highest accepted nonce
}

// New constructs an empty mempool.
func New() *Mempool {
	return &Mempool{
		pool:   make(map[string]struct{}),
		nonces: make(map[string]uint64),
	}
}

// Admit runs the admission pipeline from spec §4.4 steps 1-4: verify
// signature (tx.VerifySignature builds the canonical bytes), drop an exact
// duplicate, check monotonic nonce, then append. The caller is responsible
// for the gossip step (5) once this call returns nil.
func (m *Mempool) Admit(tx txn.Tx) error {
	if err := tx.VerifySignature(); err != nil {
		return ErrInvalidSignature
	}

	key, err := tx.PoolKey()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pool[key]; exists {
		// Locally re-submitted duplicate: treat like gossip dedup, no error.
		return nil
	}

	if last, known := m.nonces[tx.Sender]; known && tx.Nonce <= last {
		return ErrStaleNonce
	}

	m.pending = append(m.pending, tx)
	m.pool[key] = struct{}{}
	m.nonces[tx.Sender] = tx.Nonce

	return nil
}

// ReceiveGossip implements the idempotent gossip-path insertion from
// spec §4.9: dedup by canonical JSON, no signature or nonce re-check (the
// originating node already did that), no re-broadcast. Returns true if the
// transaction was newly added.
func (m *Mempool) ReceiveGossip(tx txn.Tx) (bool, error) {
	key, err := tx.PoolKey()
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pool[key]; exists {
		return false, nil
	}

	m.pending = append(m.pending, tx)
	m.pool[key] = struct{}{}

	return true, nil
}

// Len returns the number of pending transactions.
func (m *Mempool) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pending)
}

// Pending returns a copy of the pending transaction list in admission
// order.
func (m *Mempool) Pending() []txn.Tx {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]txn.Tx, len(m.pending))
	copy(out, m.pending)
	return out
}

// Drain atomically removes and returns every pending transaction,
// preserving their insertion order — used by the block builder when it
// snapshots the mempool into a new block.
func (m *Mempool) Drain() []txn.Tx {
	m.mu.Lock()
	defer m.mu.Unlock()

	drained := m.pending
	m.pending = nil
	return drained
}

// Sync implements sync_transaction_pool (spec §4.10): given the set of
// canonical-JSON keys for every transaction now confirmed in the local
// chain, prune those keys out of the pool and out of pending, preserving
// order among the survivors.
func (m *Mempool) Sync(confirmed map[string]struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range confirmed {
		delete(m.pool, key)
	}

	if len(m.pending) == 0 {
		return
	}

	survivors := m.pending[:0:0]
	for _, tx := range m.pending {
		key, err := tx.PoolKey()
		if err != nil {
			continue
		}
		if _, stillPending := m.pool[key]; stillPending {
			survivors = append(survivors, tx)
		}
	}
	m.pending = survivors
}

// LastNonce returns the last accepted nonce for sender and whether any
// transaction from that sender has ever been admitted.
func (m *Mempool) LastNonce(sender string) (uint64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nonces[sender]
	return n, ok
}
