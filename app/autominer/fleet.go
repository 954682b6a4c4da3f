package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// fleet manages one mining goroutine per node, stopping a node's goroutine
// after it has exceeded its retry budget and periodically health-checking
// every node, stopping mining on any that fails the check. A stopped node
// is not restarted.
type fleet struct {
	log              *zap.SugaredLogger
	client           *http.Client
	mineTimeout      time.Duration
	consensusTimeout time.Duration
	maxRetries       int
	retryDelay       time.Duration

	mu      sync.Mutex
	stopped map[string]chan struct{}
}

func newFleet(log *zap.SugaredLogger, client *http.Client, mineTimeout, consensusTimeout time.Duration, maxRetries int, retryDelay time.Duration) *fleet {
	return &fleet{
		log:              log,
		client:           client,
		mineTimeout:      mineTimeout,
		consensusTimeout: consensusTimeout,
		maxRetries:       maxRetries,
		retryDelay:       retryDelay,
		stopped:          make(map[string]chan struct{}),
	}
}

// start launches a goroutine that mines on node in a loop until ctx is
// cancelled or the node is dropped after exceeding its retry budget.
func (f *fleet) start(ctx context.Context, wg *sync.WaitGroup, node string) {
	f.mu.Lock()
	if _, exists := f.stopped[node]; exists {
		f.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	f.stopped[node] = stop
	f.mu.Unlock()

	wg.Add(1)
	go func() {
		defer wg.Done()
		f.mineContinuously(ctx, node, stop)
	}()

	f.log.Infow("mining started", "node", node)
}

func (f *fleet) mineContinuously(ctx context.Context, node string, stop chan struct{}) {
	retries := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		default:
		}

		blockTime, err := f.mineBlock(ctx, node)
		if err != nil {
			f.log.Errorw("mine failed", "node", node, "ERROR", err)
			retries++
			if retries > f.maxRetries {
				f.log.Errorw("retry budget exceeded, dropping node", "node", node)
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(f.retryDelay):
			}
			continue
		}

		f.log.Infow("block mined", "node", node, "block_time", blockTime)
		retries = 0

		f.applyConsensus(ctx, node)
	}
}

func (f *fleet) mineBlock(ctx context.Context, node string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, f.mineTimeout)
	defer cancel()

	var resp struct {
		BlockTime float64 `json:"block_time"`
	}
	if err := f.get(ctx, node+"/mine_block", &resp); err != nil {
		return 0, err
	}
	return resp.BlockTime, nil
}

func (f *fleet) applyConsensus(ctx context.Context, node string) {
	ctx, cancel := context.WithTimeout(ctx, f.consensusTimeout)
	defer cancel()

	var resp struct {
		Message string `json:"message"`
	}
	if err := f.get(ctx, node+"/apply_consensus", &resp); err != nil {
		f.log.Errorw("apply_consensus failed", "node", node, "ERROR", err)
		return
	}

	if strings.Contains(resp.Message, "chain was replaced") {
		f.log.Infow("consensus applied", "node", node, "message", resp.Message)
	} else {
		f.log.Infow("no consensus changes needed", "node", node, "message", resp.Message)
	}
}

func (f *fleet) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// manage periodically health-checks every node and stops mining on any
// that has gone unreachable, matching the reference automation's
// chain-health sweep.
func (f *fleet) manage(ctx context.Context, nodes []string, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, node := range nodes {
					if !f.healthy(ctx, node) {
						f.log.Warnw("node unhealthy, stopping mining", "node", node)
						f.stop(node)
					}
				}
			}
		}
	}()
}

func (f *fleet) healthy(ctx context.Context, node string) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var resp struct {
		Chain []json.RawMessage `json:"chain"`
	}
	return f.get(ctx, node+"/get_chain", &resp) == nil
}

func (f *fleet) stop(node string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if stop, ok := f.stopped[node]; ok {
		close(stop)
		delete(f.stopped, node)
	}
}
