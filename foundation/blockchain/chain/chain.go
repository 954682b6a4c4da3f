// Package chain validates a sequence of blocks against the four-part rule
// from the spec: link-hash continuity, the proof-of-work inequality,
// merkle-root recomputation, and per-transaction signature plus
// cross-chain nonce monotonicity.
package chain

import (
	"errors"
	"fmt"

	"github.com/qcbit/ledger/foundation/blockchain/block"
	"github.com/qcbit/ledger/foundation/blockchain/hashx"
	"github.com/qcbit/ledger/foundation/blockchain/pow"
	"github.com/qcbit/ledger/foundation/blockchain/txn"
)

// Sentinel errors identify which of the four checks failed, so callers
// (the HTTP layer, consensus) can log or report a specific reason rather
// than a bare bool.
var (
	ErrBrokenLink         = errors.New("previous_hash does not match predecessor")
	ErrPuzzleNotSolved    = errors.New("proof-of-work inequality not satisfied")
	ErrMerkleRootMismatch = errors.New("merkle root does not match transactions")
	ErrBadTransaction     = errors.New("transaction failed signature or nonce validation")
)

// Chain is an ordered sequence of blocks, index 0 being genesis.
type Chain []block.Block

// Validate walks the chain from its second block onward (genesis is never
// re-validated) checking, for every link:
//
//  1. block[i].previous_hash == Hash(block[i-1])
//  2. H(str(block[i-1].nonce) || str(block[i].nonce)) satisfies the PoW
//     inequality at block[i].difficulty
//  3. block[i].merkleroot == MerkleRoot(block[i].transactions)
//  4. every transaction in block[i] verifies its signature, and every
//     sender's nonce strictly increases across the chain
//
// It returns the first error encountered, wrapped with the offending
// block's index.
func Validate(c Chain) error {
	if len(c) == 0 {
		return fmt.Errorf("chain: empty chain")
	}

	lastNonce := map[string]uint64{}
	haveNonce := map[string]bool{}

	for i := 1; i < len(c); i++ {
		prev := c[i-1]
		cur := c[i]

		prevHash, err := prev.Hash()
		if err != nil {
			return err
		}
		if cur.PreviousHash != prevHash {
			return fmt.Errorf("chain: block %d: %w", cur.Index, ErrBrokenLink)
		}

		puzzle := pow.PuzzleString(prev.Nonce, cur.Nonce)
		candidateHash := hashx.H([]byte(puzzle))
		if !pow.CheckSolved(candidateHash, cur.Difficulty) {
			return fmt.Errorf("chain: block %d: %w", cur.Index, ErrPuzzleNotSolved)
		}

		root, err := block.MerkleRootOf(cur.Transactions)
		if err != nil {
			return err
		}
		if root != cur.MerkleRoot {
			return fmt.Errorf("chain: block %d: %w", cur.Index, ErrMerkleRootMismatch)
		}

		if err := validateTransactions(cur.Transactions, lastNonce, haveNonce); err != nil {
			return fmt.Errorf("chain: block %d: %w", cur.Index, err)
		}
	}

	return nil
}

// Longer reports whether candidate should replace current under the
// longest-valid-chain rule: strictly more blocks, ties go to the
// incumbent.
func Longer(current, candidate Chain) bool {
	return len(candidate) > len(current)
}

// ConfirmedKeys returns the mempool dedup key (PoolKey) of every
// transaction present anywhere in c, used to reconcile the mempool after a
// chain replacement.
func ConfirmedKeys(c Chain) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	for _, b := range c {
		for _, tx := range b.Transactions {
			key, err := tx.PoolKey()
			if err != nil {
				return nil, err
			}
			keys[key] = struct{}{}
		}
	}
	return keys, nil
}

func validateTransactions(txs []txn.Tx, lastNonce map[string]uint64, haveNonce map[string]bool) error {
	for _, tx := range txs {
		if err := tx.VerifySignature(); err != nil {
			return fmt.Errorf("%w: %v", ErrBadTransaction, err)
		}

		if haveNonce[tx.Sender] && tx.Nonce <= lastNonce[tx.Sender] {
			return fmt.Errorf("%w: nonce %d is not greater than last seen %d for sender",
				ErrBadTransaction, tx.Nonce, lastNonce[tx.Sender])
		}

		lastNonce[tx.Sender] = tx.Nonce
		haveNonce[tx.Sender] = true
	}
	return nil
}
