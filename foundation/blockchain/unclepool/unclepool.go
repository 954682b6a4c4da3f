// Package unclepool tracks blocks that are not on the canonical chain but
// remain close enough behind it to be stapled into a later block as an
// uncle.
package unclepool

import (
	"sync"

	"github.com/qcbit/ledger/foundation/blockchain/block"
)

// Pool is the mutex-guarded set of candidate uncles, keyed by hash to
// avoid storing the same orphaned block twice.
type Pool struct {
	mu      sync.RWMutex
	byHash  map[string]block.Block
	ordered []string // insertion order, for deterministic Select
}

// New constructs an empty uncle pool.
func New() *Pool {
	return &Pool{byHash: make(map[string]block.Block)}
}

// Add records candidate as a potential uncle. Neither the pool nor the
// engine's callers (ReceiveBlock, scanForUncles) check its PoW, merkle
// root or transaction signatures: any block reported by a peer is stored
// as given.
func (p *Pool) Add(candidate block.Block) (string, error) {
	hash, err := candidate.Hash()
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byHash[hash]; exists {
		return hash, nil
	}
	p.byHash[hash] = candidate
	p.ordered = append(p.ordered, hash)

	return hash, nil
}

// Select returns up to block.MaxUncles candidates eligible to be stapled
// into a block being built at height h, in the order they were added.
// Selected candidates are NOT removed — Prune does that once the chain has
// moved far enough that they can never become eligible again.
func (p *Pool) Select(h uint64) []block.Block {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []block.Block
	for _, hash := range p.ordered {
		candidate := p.byHash[hash]
		if block.UncleEligible(h, candidate.Index) {
			out = append(out, candidate)
			if len(out) == block.MaxUncles {
				break
			}
		}
	}
	return out
}

// Prune drops every candidate that can never become eligible again because
// the chain has advanced past its trailing window, i.e. candidate.Index <
// h - block.UncleWindow.
func (p *Pool) Prune(h uint64) {
	if h < block.UncleWindow {
		return
	}
	floor := h - block.UncleWindow

	p.mu.Lock()
	defer p.mu.Unlock()

	survivors := p.ordered[:0:0]
	for _, hash := range p.ordered {
		if p.byHash[hash].Index >= floor {
			survivors = append(survivors, hash)
			continue
		}
		delete(p.byHash, hash)
	}
	p.ordered = survivors
}

// Len reports how many candidates are currently tracked.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.ordered)
}
