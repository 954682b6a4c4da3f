package engine

import "github.com/qcbit/ledger/foundation/blockchain/txn"

// AddTransaction runs the full local admission pipeline (signature, nonce,
// dedup) and, on success, gossips the transaction to every known peer. It
// returns the 1-based index of the block this transaction is expected to
// occupy: the current head index plus one.
// Gossip failures are logged by BroadcastTransaction and never surface here — a
// transaction accepted locally is accepted regardless of peer health.
func (e *Engine) AddTransaction(tx txn.Tx) (uint64, error) {
	e.evHandler("engine: AddTransaction: started: sender[%s] nonce[%d]", tx.Sender, tx.Nonce)
	defer e.evHandler("engine: AddTransaction: completed")

	if err := e.mempool.Admit(tx); err != nil {
		e.evHandler("engine: AddTransaction: rejected: %s", err)
		return 0, err
	}

	go e.BroadcastTransaction(tx)

	if e.Worker != nil {
		e.Worker.SignalStartMining()
	}

	expectedIndex := e.LatestBlock().Index + 1
	return expectedIndex, nil
}

// ReceiveTransaction implements the idempotent peer-to-peer transaction
// push: dedup only, no re-broadcast, never an error for a duplicate.
func (e *Engine) ReceiveTransaction(tx txn.Tx) error {
	added, err := e.mempool.ReceiveGossip(tx)
	if err != nil {
		return err
	}

	if added {
		e.evHandler("engine: ReceiveTransaction: accepted new tx: sender[%s] nonce[%d]", tx.Sender, tx.Nonce)
		if e.Worker != nil {
			e.Worker.SignalStartMining()
		}
	}

	return nil
}
