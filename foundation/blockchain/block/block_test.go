package block_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcbit/ledger/foundation/blockchain/block"
	"github.com/qcbit/ledger/foundation/blockchain/pow"
	"github.com/qcbit/ledger/foundation/blockchain/signature"
	"github.com/qcbit/ledger/foundation/blockchain/txn"
)

func signedTx(t *testing.T, receiver string, amount float64, nonce uint64) txn.Tx {
	t.Helper()
	priv, pub, err := signature.GenerateKeys()
	require.NoError(t, err)

	tx := txn.New(pub, receiver, amount, nonce, "", pub)
	data, err := tx.CanonicalBytes()
	require.NoError(t, err)
	sig, err := signature.Sign(priv, data)
	require.NoError(t, err)
	tx.Signature = sig
	return tx
}

func TestGenesisHasExpectedShape(t *testing.T) {
	g := block.Genesis()
	assert.Equal(t, uint64(1), g.Index)
	assert.Equal(t, "0", g.PreviousHash)
	assert.Equal(t, float64(0), g.BlockTime)
	assert.Empty(t, g.Transactions)
	assert.Empty(t, g.MerkleRoot)
	assert.Empty(t, g.Uncles)
}

func TestBuildLinksToPreviousBlockHash(t *testing.T) {
	prev := block.Genesis()
	prevHash, err := prev.Hash()
	require.NoError(t, err)

	txs := []txn.Tx{signedTx(t, "bob", 10, 1)}
	result := pow.Result{Nonce: 42, BlockTime: 0.1, Difficulty: 1}

	next, err := block.Build(block.BuildArgs{
		PreviousBlock: prev,
		Transactions:  txs,
		PowResult:     result,
	})
	require.NoError(t, err)

	assert.Equal(t, prevHash, next.PreviousHash)
	assert.Equal(t, prev.Index+1, next.Index)
	assert.Equal(t, result.Nonce, next.Nonce)
	assert.Equal(t, result.Difficulty, next.Difficulty)
	assert.NotEmpty(t, next.MerkleRoot)
}

func TestBuildWithEmptyTransactionsHasEmptyMerkleRoot(t *testing.T) {
	prev := block.Genesis()
	next, err := block.Build(block.BuildArgs{
		PreviousBlock: prev,
		Transactions:  nil,
		PowResult:     pow.Result{Nonce: 1, Difficulty: 1},
	})
	require.NoError(t, err)
	assert.Empty(t, next.MerkleRoot)
	assert.Empty(t, next.Transactions)
}

func TestBuildCapsUnclesAtMax(t *testing.T) {
	prev := block.Genesis()
	uncles := []block.Block{block.Genesis(), block.Genesis(), block.Genesis()}

	next, err := block.Build(block.BuildArgs{
		PreviousBlock: prev,
		Uncles:        uncles,
		PowResult:     pow.Result{Nonce: 1, Difficulty: 1},
	})
	require.NoError(t, err)
	assert.Len(t, next.Uncles, block.MaxUncles)
}

func TestUncleEligibleWindow(t *testing.T) {
	assert.False(t, block.UncleEligible(5, 1), "height below window never has eligible uncles")
	assert.True(t, block.UncleEligible(10, 3))
	assert.True(t, block.UncleEligible(10, 9))
	assert.False(t, block.UncleEligible(10, 10), "uncle must trail the new block's own height")
	assert.False(t, block.UncleEligible(10, 2), "uncle older than the trailing window")
}

func TestTwoBlocksWithDifferentNoncesHashDifferently(t *testing.T) {
	prev := block.Genesis()
	a, err := block.Build(block.BuildArgs{PreviousBlock: prev, PowResult: pow.Result{Nonce: 1, Difficulty: 1}})
	require.NoError(t, err)
	b, err := block.Build(block.BuildArgs{PreviousBlock: prev, PowResult: pow.Result{Nonce: 2, Difficulty: 1}})
	require.NoError(t, err)

	ah, err := a.Hash()
	require.NoError(t, err)
	bh, err := b.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, ah, bh)
}
