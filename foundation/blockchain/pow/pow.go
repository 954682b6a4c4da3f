// Package pow implements the proof-of-work puzzle and its adaptive
// difficulty controller.
package pow

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/qcbit/ledger/foundation/blockchain/hashx"
)

// Result is what a completed (or canceled) mining attempt returns.
type Result struct {
	Nonce      uint64
	BlockTime  float64 // wall-clock seconds spent searching
	Difficulty uint64  // the difficulty value that governed this attempt
}

// Solve searches for the smallest non-negative nonce n such that
// int(H(str(prevNonce) || str(n)), 16) < 2^(256 - difficulty). It yields to
// ctx between attempts so a caller can cancel a long-running search without
// the engine's mutable state ever being touched.
//
// The decimal representations of prevNonce and n are formatted with
// strconv — Go's integer formatting never produces leading zeros, which
// sidesteps the concatenation ambiguity the spec calls out (forbid leading
// zeros, canonicalize to shortest decimal).
func Solve(ctx context.Context, prevNonce uint64, difficulty uint64) (Result, error) {
	target := target(difficulty)
	prevStr := strconv.FormatUint(prevNonce, 10)

	start := time.Now()

	for n := uint64(0); ; n++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		candidate := prevStr + strconv.FormatUint(n, 10)
		hash := hashx.H([]byte(candidate))

		if hashBelowTarget(hash, target) {
			return Result{
				Nonce:      n,
				BlockTime:  time.Since(start).Seconds(),
				Difficulty: difficulty,
			}, nil
		}
	}
}

// CheckSolved reports whether candidateHash (hex) satisfies the PoW
// inequality at difficulty. Used by the chain validator to re-derive the
// same check the miner performed, without re-mining.
func CheckSolved(candidateHash string, difficulty uint64) bool {
	return hashBelowTarget(candidateHash, target(difficulty))
}

func target(difficulty uint64) *big.Int {
	if difficulty > 256 {
		difficulty = 256
	}
	t := big.NewInt(1)
	t.Lsh(t, uint(256-difficulty))
	return t
}

func hashBelowTarget(hashHex string, target *big.Int) bool {
	value, ok := new(big.Int).SetString(hashHex, 16)
	if !ok {
		return false
	}
	return value.Cmp(target) < 0
}

// PuzzleString is exposed so the chain validator can recompute the exact
// same byte string the miner hashed for a given (prev, next) nonce pair.
func PuzzleString(prevNonce, nextNonce uint64) string {
	return fmt.Sprintf("%d%d", prevNonce, nextNonce)
}

// TargetBlockTime is the node-local constant the difficulty controller
// aims for; 2 seconds in the reference implementation.
const TargetBlockTime = 2 * time.Second

// AdjustDifficulty applies the spec's soft-guidance adjustment after a
// block is mined in blockTime:
//
//	t < TARGET*0.8        -> D+1
//	t > TARGET*1.2, D > 1 -> D-1
//	clamp D >= 1
func AdjustDifficulty(current uint64, blockTime time.Duration) uint64 {
	switch {
	case blockTime < (TargetBlockTime*8)/10:
		current++
	case blockTime > (TargetBlockTime*12)/10 && current > 1:
		current--
	}

	if current < 1 {
		current = 1
	}

	return current
}
