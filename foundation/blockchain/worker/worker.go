// Package worker runs the mining and peer-maintenance goroutines around an
// engine.Engine, signaling it to mine whenever new work arrives and
// canceling an in-flight search when it should restart.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/qcbit/ledger/foundation/blockchain/engine"
)

const (
	peerUpdateInterval = 10 * time.Second
	consensusInterval  = 30 * time.Second
)

// EventHandler matches engine.EventHandler so the worker and the engine it
// drives can share a single sink.
type EventHandler func(v string, args ...any)

// Worker manages the mining, peer-update, and consensus goroutines for an
// engine.
type Worker struct {
	engine       *engine.Engine
	wg           sync.WaitGroup
	shut         chan struct{}
	startMining  chan bool
	cancelMining chan bool
	evHandler    EventHandler
}

// Run constructs a Worker, registers it with eng, and starts its
// background goroutines. The caller retains eng; Run does not block.
func Run(eng *engine.Engine, evHandler EventHandler) *Worker {
	if evHandler == nil {
		evHandler = func(string, ...any) {}
	}

	w := &Worker{
		engine:       eng,
		shut:         make(chan struct{}),
		startMining:  make(chan bool, 1),
		cancelMining: make(chan bool, 1),
		evHandler:    evHandler,
	}

	eng.Worker = w

	operations := []func(){
		w.powOperations,
		w.peerUpdateOperations,
		w.consensusOperations,
	}

	w.wg.Add(len(operations))
	started := make(chan bool)
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			started <- true
			op()
		}(op)
	}
	for range operations {
		<-started
	}

	return w
}

// Shutdown terminates every background goroutine and waits for them to
// exit.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.SignalCancelMining()
	close(w.shut)
	w.wg.Wait()
}

// SignalStartMining requests a mining attempt. A pending signal already in
// the channel makes this a no-op.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- true:
	default:
	}
}

// SignalCancelMining cancels an in-flight mining attempt, if any.
func (w *Worker) SignalCancelMining() {
	select {
	case w.cancelMining <- true:
	default:
	}
}

func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}

func (w *Worker) powOperations() {
	w.evHandler("worker: powOperations: goroutine started")
	defer w.evHandler("worker: powOperations: goroutine completed")

	for {
		select {
		case <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			return
		}
	}
}

func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	select {
	case <-w.cancelMining:
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()
		select {
		case <-w.cancelMining:
			w.evHandler("worker: runMiningOperation: MINING: cancel requested")
		case <-ctx.Done():
		}
	}()

	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		mined, err := w.engine.MineBlock(ctx)
		if err != nil {
			w.evHandler("worker: runMiningOperation: MINING: stopped: %s", err)
			return
		}
		w.evHandler("worker: runMiningOperation: MINING: mined block index[%d]", mined.Index)
	}()

	wg.Wait()

	if w.engine.MempoolLength() > 0 {
		w.SignalStartMining()
	}
}

func (w *Worker) peerUpdateOperations() {
	w.evHandler("worker: peerUpdateOperations: goroutine started")
	defer w.evHandler("worker: peerUpdateOperations: goroutine completed")

	ticker := time.NewTicker(peerUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Peer discovery beyond the bootstrap list (nodes.json,
			// /connect_node) is out of scope; this tick exists so a future
			// gossip-based discovery mechanism has a home.
		case <-w.shut:
			return
		}
	}
}

func (w *Worker) consensusOperations() {
	w.evHandler("worker: consensusOperations: goroutine started")
	defer w.evHandler("worker: consensusOperations: goroutine completed")

	ticker := time.NewTicker(consensusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), consensusInterval/2)
			replaced, err := w.engine.ApplyConsensus(ctx)
			cancel()
			if err != nil {
				w.evHandler("worker: consensusOperations: error: %s", err)
				continue
			}
			if replaced {
				w.evHandler("worker: consensusOperations: chain replaced")
			}
		case <-w.shut:
			return
		}
	}
}
