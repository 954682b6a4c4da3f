package worker_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcbit/ledger/foundation/blockchain/engine"
	"github.com/qcbit/ledger/foundation/blockchain/signature"
	"github.com/qcbit/ledger/foundation/blockchain/txn"
	"github.com/qcbit/ledger/foundation/blockchain/worker"
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

func TestSignalStartMiningMinesAPendingTransaction(t *testing.T) {
	eng := engine.New(engine.Config{Host: "localhost:5000"})
	w := worker.Run(eng, nil)
	defer w.Shutdown()

	tx := signedTx(t, "bob", 10, 1)
	_, err := eng.AddTransaction(tx)
	require.NoError(t, err)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for worker to mine the pending transaction")
		default:
		}
		if len(eng.Chain()) == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	assert.Equal(t, 0, eng.MempoolLength())
}

func TestShutdownStopsTheWorker(t *testing.T) {
	eng := engine.New(engine.Config{Host: "localhost:5000"})
	w := worker.Run(eng, nil)
	w.Shutdown()
	// A second shutdown-adjacent call should not panic or block now that
	// every goroutine has exited.
	w.SignalCancelMining()
}
