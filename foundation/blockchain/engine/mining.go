package engine

import (
	"context"
	"time"

	"github.com/qcbit/ledger/foundation/blockchain/block"
	"github.com/qcbit/ledger/foundation/blockchain/pow"
)

// MineBlock drains the mempool, selects eligible uncles, solves the PoW
// puzzle against the current chain head, appends the resulting block, and
// adjusts the node-local difficulty for the next attempt. ctx bounds how
// long the search may run; a canceled ctx leaves the engine state
// untouched (the mempool is drained only after the puzzle is solved).
func (e *Engine) MineBlock(ctx context.Context) (block.Block, error) {
	e.evHandler("engine: MineBlock: started")
	defer e.evHandler("engine: MineBlock: completed")

	if e.MempoolLength() == 0 {
		return block.Block{}, ErrNoTransactions
	}

	e.mu.RLock()
	prev := e.chain[len(e.chain)-1]
	difficulty := e.difficulty
	e.mu.RUnlock()

	result, err := solvePuzzle(ctx, prev.Nonce, difficulty)
	if err != nil {
		return block.Block{}, err
	}

	txs := e.mempool.Drain()
	uncles := e.uncles.Select(prev.Index + 1)

	next, err := block.Build(block.BuildArgs{
		PreviousBlock: prev,
		Transactions:  txs,
		Uncles:        uncles,
		PowResult:     result,
	})
	if err != nil {
		return block.Block{}, err
	}

	e.mu.Lock()
	e.chain = append(e.chain, next)
	e.difficulty = pow.AdjustDifficulty(difficulty, time.Duration(result.BlockTime*float64(time.Second)))
	e.mu.Unlock()

	e.uncles.Prune(next.Index)

	e.evHandler("engine: MineBlock: MINED: index[%d] nonce[%d] txs[%d]", next.Index, next.Nonce, len(txs))

	go e.BroadcastBlock(next)

	return next, nil
}
