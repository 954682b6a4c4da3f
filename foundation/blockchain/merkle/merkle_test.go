package merkle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcbit/ledger/foundation/blockchain/merkle"
	"github.com/qcbit/ledger/foundation/blockchain/txn"
)

func txs(n int) []txn.Tx {
	out := make([]txn.Tx, n)
	for i := 0; i < n; i++ {
		out[i] = txn.New("alice", "bob", float64(i+1), uint64(i+1), "sig", "pk")
	}
	return out
}

func TestEmptyTreeRootIsEmptyString(t *testing.T) {
	tree, err := merkle.New[txn.Tx](nil)
	require.NoError(t, err)
	assert.Equal(t, "", tree.Root())
}

func TestSingleLeafRootEqualsLeafHash(t *testing.T) {
	list := txs(1)
	tree, err := merkle.New(list)
	require.NoError(t, err)

	leafHash, err := list[0].Hash()
	require.NoError(t, err)

	assert.Equal(t, leafHash, tree.Root())
}

func TestEveryLeafProofVerifies(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 7, 8} {
		list := txs(n)
		tree, err := merkle.New(list)
		require.NoError(t, err)

		for i, tx := range list {
			leafHash, err := tx.Hash()
			require.NoError(t, err)

			proof, err := tree.Proof(i)
			require.NoError(t, err)

			ok := merkle.VerifyProof(leafHash, proof, tree.Root())
			assert.Truef(t, ok, "n=%d index=%d proof should verify", n, i)
		}
	}
}

func TestTamperedLeafFailsProof(t *testing.T) {
	list := txs(4)
	tree, err := merkle.New(list)
	require.NoError(t, err)

	proof, err := tree.Proof(0)
	require.NoError(t, err)

	assert.False(t, merkle.VerifyProof("not-the-real-leaf-hash", proof, tree.Root()))
}
