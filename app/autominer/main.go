// Command autominer drives continuous mining against a fleet of already
// running nodes: for each configured node it repeatedly calls
// /mine_block then /apply_consensus, dropping a node from rotation after
// too many consecutive failures and periodically health-checking every
// node, stopping mining on any that is unreachable. Dropped nodes are not
// brought back.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"go.uber.org/zap"

	"github.com/qcbit/ledger/foundation/logger"
)

var build = "develop"

func main() {
	log, err := logger.New("AUTOMINER")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		NodesFile        string        `conf:"default:nodes.json"`
		CheckInterval    time.Duration `conf:"default:300s"`
		MineTimeout      time.Duration `conf:"default:25s"`
		ConsensusTimeout time.Duration `conf:"default:10s"`
		MaxRetries       int           `conf:"default:3"`
		RetryDelay       time.Duration `conf:"default:5s"`
	}{
		Version: conf.Version{Build: build, Desc: "continuous multi-node mining driver"},
	}

	help, err := conf.Parse("AUTOMINER", &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	nodes, err := loadNodesFile(cfg.NodesFile)
	if err != nil {
		return fmt.Errorf("loading %s: %w", cfg.NodesFile, err)
	}
	if len(nodes) == 0 {
		return fmt.Errorf("%s lists no nodes", cfg.NodesFile)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		log.Infow("shutdown", "signal", sig)
		cancel()
	}()

	fleet := newFleet(log, httpClient(), cfg.MineTimeout, cfg.ConsensusTimeout, cfg.MaxRetries, cfg.RetryDelay)

	var wg sync.WaitGroup
	for _, node := range nodes {
		fleet.start(ctx, &wg, node)
	}

	fleet.manage(ctx, nodes, cfg.CheckInterval)

	wg.Wait()
	log.Infow("shutdown complete")
	return nil
}

func httpClient() *http.Client {
	return &http.Client{}
}

type nodesFile struct {
	Nodes []string `json:"nodes"`
}

func loadNodesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var nf nodesFile
	if err := json.Unmarshal(data, &nf); err != nil {
		return nil, err
	}
	return nf.Nodes, nil
}
