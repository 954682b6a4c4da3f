package engine

import (
	"context"
	"fmt"

	"github.com/qcbit/ledger/foundation/blockchain/block"
	"github.com/qcbit/ledger/foundation/blockchain/chain"
)

// ReceiveBlock validates a peer-pushed block against the current head
// and, if it extends the chain, appends it and reconciles the mempool.
// A block that doesn't extend the head but might still be a near-miss is
// handed to the uncle pool instead of being rejected outright.
func (e *Engine) ReceiveBlock(candidate block.Block) error {
	e.evHandler("engine: ReceiveBlock: started: index[%d]", candidate.Index)
	defer e.evHandler("engine: ReceiveBlock: completed")

	e.mu.RLock()
	head := e.chain[len(e.chain)-1]
	e.mu.RUnlock()

	if candidate.Index == head.Index+1 {
		pair := chain.Chain{head, candidate}
		if err := chain.Validate(pair); err != nil {
			e.evHandler("engine: ReceiveBlock: rejected: %s", err)
			return fmt.Errorf("invalid block: %w", err)
		}

		e.mu.Lock()
		e.chain = append(e.chain, candidate)
		e.mu.Unlock()

		e.reconcileMempool()
		e.uncles.Prune(candidate.Index)

		e.evHandler("engine: ReceiveBlock: appended: index[%d]", candidate.Index)
		return nil
	}

	if block.UncleEligible(head.Index+1, candidate.Index) {
		candidateHash, err := candidate.Hash()
		if err != nil {
			return fmt.Errorf("invalid block: %w", err)
		}
		if e.knownChainHash(candidate.Index, candidateHash) {
			return fmt.Errorf("invalid block: already present in chain")
		}

		if _, err := e.uncles.Add(candidate); err != nil {
			return err
		}
		e.evHandler("engine: ReceiveBlock: staged as uncle: index[%d]", candidate.Index)
		return nil
	}

	return fmt.Errorf("invalid block: does not extend head and is outside the uncle window")
}

// knownChainHash reports whether the local chain already holds a block at
// index whose hash matches hash — used to reject a block a peer re-sends
// after the local chain has already advanced past it, rather than silently
// re-staging it as an uncle candidate.
func (e *Engine) knownChainHash(index uint64, hash string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, b := range e.chain {
		if b.Index != index {
			continue
		}
		h, err := b.Hash()
		if err == nil && h == hash {
			return true
		}
	}
	return false
}

// ReplaceChain implements the pull side of consensus without the uncle
// backfill fallback: fetch every peer's chain and adopt the longest one
// that validates, tie-breaking on first-seen order.
func (e *Engine) ReplaceChain(ctx context.Context) (bool, error) {
	e.evHandler("engine: ReplaceChain: started")
	defer e.evHandler("engine: ReplaceChain: completed")

	return e.adoptLongestChain(ctx, "ReplaceChain")
}

// ApplyConsensus is ReplaceChain plus a fallback: when no peer offers a
// strictly longer valid chain, it scans peers again for blocks within the
// uncle window that the local chain is missing and stages them as uncle
// candidates.
func (e *Engine) ApplyConsensus(ctx context.Context) (bool, error) {
	e.evHandler("engine: ApplyConsensus: started")
	defer e.evHandler("engine: ApplyConsensus: completed")

	replaced, err := e.adoptLongestChain(ctx, "ApplyConsensus")
	if err != nil {
		return false, err
	}
	if !replaced {
		e.scanForUncles(ctx)
	}
	return replaced, nil
}

func (e *Engine) adoptLongestChain(ctx context.Context, caller string) (bool, error) {
	current := e.Chain()
	replaced := false

	for _, p := range e.KnownPeers() {
		remote, err := e.pullChain(ctx, p)
		if err != nil {
			e.evHandler("engine: %s: peer[%s]: %s", caller, p.Host, err)
			continue
		}

		if !chain.Longer(current, remote) {
			continue
		}
		if err := chain.Validate(remote); err != nil {
			e.evHandler("engine: %s: peer[%s]: invalid chain: %s", caller, p.Host, err)
			continue
		}

		current = remote
		replaced = true
	}

	if !replaced {
		return false, nil
	}

	e.mu.Lock()
	e.chain = current
	e.mu.Unlock()

	e.reconcileMempool()
	e.evHandler("engine: %s: replaced chain: length[%d]", caller, len(current))
	return true, nil
}

// reconcileMempool prunes every confirmed transaction out of the mempool
// after a chain append or replacement, per the post-consensus cleanup
// rule.
func (e *Engine) reconcileMempool() {
	e.mu.RLock()
	snapshot := e.chain
	e.mu.RUnlock()

	keys, err := chain.ConfirmedKeys(snapshot)
	if err != nil {
		e.evHandler("engine: reconcileMempool: error: %s", err)
		return
	}
	e.mempool.Sync(keys)
}

// scanForUncles re-pulls every peer's chain looking for blocks within the
// uncle window that the local chain doesn't have, used when no peer
// offered a strictly longer valid chain.
func (e *Engine) scanForUncles(ctx context.Context) {
	head := e.LatestBlock()

	known := make(map[uint64]string)
	for _, b := range e.Chain() {
		h, err := b.Hash()
		if err == nil {
			known[b.Index] = h
		}
	}

	for _, p := range e.KnownPeers() {
		remote, err := e.pullChain(ctx, p)
		if err != nil {
			continue
		}

		for _, b := range remote {
			if !block.UncleEligible(head.Index+1, b.Index) {
				continue
			}
			h, err := b.Hash()
			if err != nil || known[b.Index] == h {
				continue
			}
			if _, err := e.uncles.Add(b); err == nil {
				e.evHandler("engine: scanForUncles: added candidate: index[%d] peer[%s]", b.Index, p.Host)
			}
		}
	}
}
