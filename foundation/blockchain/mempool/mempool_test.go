package mempool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcbit/ledger/foundation/blockchain/mempool"
	"github.com/qcbit/ledger/foundation/blockchain/signature"
	"github.com/qcbit/ledger/foundation/blockchain/txn"
)

func newSignedTx(t *testing.T, pub, priv string, receiver string, amount float64, nonce uint64) txn.Tx {
	t.Helper()
	tx := txn.New(pub, receiver, amount, nonce, "", pub)
	data, err := tx.CanonicalBytes()
	require.NoError(t, err)
	sig, err := signature.Sign(priv, data)
	require.NoError(t, err)
	tx.Signature = sig
	return tx
}

func keypair(t *testing.T) (priv, pub string) {
	t.Helper()
	priv, pub, err := signature.GenerateKeys()
	require.NoError(t, err)
	return priv, pub
}

func TestAdmitAcceptsFirstTransactionFromUnknownSender(t *testing.T) {
	priv, pub := keypair(t)
	m := mempool.New()

	tx := newSignedTx(t, pub, priv, "bob", 10, 1)
	require.NoError(t, m.Admit(tx))
	assert.Equal(t, 1, m.Len())
}

func TestAdmitRejectsStaleNonce(t *testing.T) {
	priv, pub := keypair(t)
	m := mempool.New()

	require.NoError(t, m.Admit(newSignedTx(t, pub, priv, "bob", 10, 5)))

	err := m.Admit(newSignedTx(t, pub, priv, "bob", 1, 5))
	assert.ErrorIs(t, err, mempool.ErrStaleNonce)
	assert.Equal(t, 1, m.Len())

	err = m.Admit(newSignedTx(t, pub, priv, "bob", 1, 4))
	assert.ErrorIs(t, err, mempool.ErrStaleNonce)
	assert.Equal(t, 1, m.Len())
}

func TestAdmitAcceptsIncreasingNonce(t *testing.T) {
	priv, pub := keypair(t)
	m := mempool.New()

	require.NoError(t, m.Admit(newSignedTx(t, pub, priv, "bob", 10, 1)))
	require.NoError(t, m.Admit(newSignedTx(t, pub, priv, "bob", 10, 2)))
	assert.Equal(t, 2, m.Len())
}

func TestAdmitRejectsBadSignature(t *testing.T) {
	priv, pub := keypair(t)
	m := mempool.New()

	tx := newSignedTx(t, pub, priv, "bob", 10, 1)
	tx.Amount = 9999 // tamper after signing

	err := m.Admit(tx)
	assert.ErrorIs(t, err, mempool.ErrInvalidSignature)
	assert.Equal(t, 0, m.Len())
}

func TestDuplicatePostLocallyYieldsOneEntry(t *testing.T) {
	priv, pub := keypair(t)
	m := mempool.New()

	tx := newSignedTx(t, pub, priv, "bob", 10, 1)
	require.NoError(t, m.Admit(tx))
	require.NoError(t, m.Admit(tx))

	assert.Equal(t, 1, m.Len())
}

func TestReceiveGossipDedupsAndDoesNotError(t *testing.T) {
	priv, pub := keypair(t)
	m := mempool.New()

	tx := newSignedTx(t, pub, priv, "bob", 10, 1)

	added, err := m.ReceiveGossip(tx)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = m.ReceiveGossip(tx)
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, 1, m.Len())
}

func TestDrainEmptiesPendingAndPreservesOrder(t *testing.T) {
	priv, pub := keypair(t)
	m := mempool.New()

	tx1 := newSignedTx(t, pub, priv, "bob", 10, 1)
	tx2 := newSignedTx(t, pub, priv, "carol", 10, 2)
	require.NoError(t, m.Admit(tx1))
	require.NoError(t, m.Admit(tx2))

	drained := m.Drain()
	require.Len(t, drained, 2)
	assert.Equal(t, uint64(1), drained[0].Nonce)
	assert.Equal(t, uint64(2), drained[1].Nonce)
	assert.Equal(t, 0, m.Len())
}

func TestSyncPrunesConfirmedTransactions(t *testing.T) {
	priv, pub := keypair(t)
	m := mempool.New()

	tx1 := newSignedTx(t, pub, priv, "bob", 10, 1)
	tx2 := newSignedTx(t, pub, priv, "carol", 10, 2)
	require.NoError(t, m.Admit(tx1))
	require.NoError(t, m.Admit(tx2))

	key1, err := tx1.PoolKey()
	require.NoError(t, err)

	m.Sync(map[string]struct{}{key1: {}})

	remaining := m.Pending()
	require.Len(t, remaining, 1)
	assert.Equal(t, uint64(2), remaining[0].Nonce)
}
