package txn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcbit/ledger/foundation/blockchain/signature"
	"github.com/qcbit/ledger/foundation/blockchain/txn"
)

func signedTx(t *testing.T, sender, receiver string, amount float64, nonce uint64) txn.Tx {
	t.Helper()

	priv, pub, err := signature.GenerateKeys()
	require.NoError(t, err)

	tx := txn.New(sender, receiver, amount, nonce, "", pub)
	data, err := tx.CanonicalBytes()
	require.NoError(t, err)

	sigHex, err := signature.Sign(priv, data)
	require.NoError(t, err)
	tx.Signature = sigHex

	return tx
}

func TestVerifySignatureAcceptsProperlySignedTx(t *testing.T) {
	tx := signedTx(t, "alice-pub", "bob", 10, 1)
	assert.NoError(t, tx.VerifySignature())
}

func TestVerifySignatureUsesEmbeddedPublicKeyNotSender(t *testing.T) {
	tx := signedTx(t, "alice-pub", "bob", 10, 1)

	// Sender is not a PEM key at all, so the signature can only verify
	// against the embedded PublicKey.
	assert.NoError(t, tx.VerifySignature())

	// Swapping in an unrelated PublicKey must break verification even
	// though Sender is untouched.
	_, otherPub, err := signature.GenerateKeys()
	require.NoError(t, err)
	tx.PublicKey = otherPub
	assert.Error(t, tx.VerifySignature())
}

func TestVerifySignatureRejectsTamperedAmount(t *testing.T) {
	tx := signedTx(t, "alice-pub", "bob", 10, 1)
	tx.Amount = 999
	assert.Error(t, tx.VerifySignature())
}

func TestCanonicalBytesExcludesSignatureAndPublicKeyFromSigningTuple(t *testing.T) {
	tx := signedTx(t, "alice-pub", "bob", 10, 1)
	data, err := tx.CanonicalBytes()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "signature")
	assert.NotContains(t, string(data), "public_key")
}

func TestPoolKeyIsDeterministicForEqualTransactions(t *testing.T) {
	a := txn.New("alice", "bob", 10, 1, "deadbeef", "pk")
	b := txn.New("alice", "bob", 10, 1, "deadbeef", "pk")

	ka, err := a.PoolKey()
	require.NoError(t, err)
	kb, err := b.PoolKey()
	require.NoError(t, err)

	assert.Equal(t, ka, kb)
}
