package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcbit/ledger/foundation/blockchain/block"
	"github.com/qcbit/ledger/foundation/blockchain/engine"
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

func newEngine() *engine.Engine {
	return engine.New(engine.Config{Host: "localhost:5000"})
}

// newEngineWithGenesis builds an engine seeded with a fixed genesis block,
// so that two independently-constructed engines agree on chain linkage —
// block.Genesis() stamps the current time and so hashes differently on
// every call.
func newEngineWithGenesis(host string, genesis block.Block) *engine.Engine {
	return engine.New(engine.Config{Host: host, Genesis: &genesis})
}

func TestNewEngineStartsAtGenesis(t *testing.T) {
	e := newEngine()
	assert.Len(t, e.Chain(), 1)
	assert.Equal(t, uint64(1), e.LatestBlock().Index)
	assert.True(t, e.IsValid())
}

func TestAddTransactionAdmitsToMempool(t *testing.T) {
	e := newEngine()
	tx := signedTx(t, "bob", 10, 1)

	index, err := e.AddTransaction(tx)
	require.NoError(t, err)
	assert.Equal(t, e.LatestBlock().Index+1, index)
	assert.Equal(t, 1, e.MempoolLength())
}

func TestAddTransactionRejectsBadSignature(t *testing.T) {
	e := newEngine()
	tx := signedTx(t, "bob", 10, 1)
	tx.Amount = 999

	_, err := e.AddTransaction(tx)
	assert.Error(t, err)
	assert.Equal(t, 0, e.MempoolLength())
}

func TestMineBlockFailsWithEmptyMempool(t *testing.T) {
	e := newEngine()
	_, err := e.MineBlock(context.Background())
	assert.ErrorIs(t, err, engine.ErrNoTransactions)
}

func TestMineBlockAppendsAndDrainsMempool(t *testing.T) {
	e := newEngine()
	tx := signedTx(t, "bob", 10, 1)
	_, err := e.AddTransaction(tx)
	require.NoError(t, err)

	mined, err := e.MineBlock(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(2), mined.Index)
	assert.Len(t, mined.Transactions, 1)
	assert.Equal(t, 0, e.MempoolLength())
	assert.Len(t, e.Chain(), 2)
	assert.True(t, e.IsValid())
}

func TestReceiveBlockAppendsWhenItExtendsHead(t *testing.T) {
	genesis := block.Genesis()
	a := newEngineWithGenesis("a.local:5000", genesis)
	tx := signedTx(t, "bob", 10, 1)
	_, err := a.AddTransaction(tx)
	require.NoError(t, err)
	mined, err := a.MineBlock(context.Background())
	require.NoError(t, err)

	b := newEngineWithGenesis("b.local:5000", genesis)
	require.NoError(t, b.ReceiveBlock(mined))
	assert.Len(t, b.Chain(), 2)
}

func TestReceiveBlockRejectsBrokenLink(t *testing.T) {
	genesis := block.Genesis()
	a := newEngineWithGenesis("a.local:5000", genesis)
	tx := signedTx(t, "bob", 10, 1)
	_, err := a.AddTransaction(tx)
	require.NoError(t, err)
	mined, err := a.MineBlock(context.Background())
	require.NoError(t, err)
	mined.PreviousHash = "tampered"

	b := newEngineWithGenesis("b.local:5000", genesis)
	assert.Error(t, b.ReceiveBlock(mined))
	assert.Len(t, b.Chain(), 1)
}

func TestAddKnownPeerRejectsSelf(t *testing.T) {
	e := newEngine()
	assert.False(t, e.AddKnownPeer("http://localhost:5000"))
	assert.True(t, e.AddKnownPeer("10.0.0.2:5000"))
	assert.Len(t, e.KnownPeers(), 1)
}
