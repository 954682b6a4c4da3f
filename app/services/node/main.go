// Command node runs a single peer-to-peer ledger node: an HTTP API for
// clients and peers, backed by the blockchain engine.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	figure "github.com/common-nighthawk/go-figure"
	"go.uber.org/zap"

	v1 "github.com/qcbit/ledger/app/services/node/handlers/v1"
	"github.com/qcbit/ledger/app/services/node/handlers/mid"
	"github.com/qcbit/ledger/foundation/blockchain/engine"
	"github.com/qcbit/ledger/foundation/blockchain/worker"
	"github.com/qcbit/ledger/foundation/logger"
	"github.com/qcbit/ledger/foundation/web"
)

var build = "develop"

func main() {
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
		}
		Node struct {
			Port       int    `conf:"default:5000"`
			NodesFile  string `conf:"default:nodes.json"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "peer-to-peer proof-of-work ledger node",
		},
	}

	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// A single positional argument overrides NODE_NODE_PORT: the listen
	// port, matching the reference CLI's sole argument.
	if len(os.Args) > 1 {
		if port, err := strconv.Atoi(os.Args[len(os.Args)-1]); err == nil {
			cfg.Node.Port = port
		}
	}

	// =========================================================================
	// App Starting

	banner := figure.NewFigure("LEDGER", "", true)
	banner.Print()

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Peer bootstrap

	host := fmt.Sprintf("localhost:%d", cfg.Node.Port)
	peers, err := loadNodesFile(cfg.Node.NodesFile)
	if err != nil {
		log.Infow("startup", "status", "ConfigMissing: nodes.json absent or unparseable, starting with empty peer set", "ERROR", err)
		peers = nil
	}

	ev := func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...))
	}

	eng := engine.New(engine.Config{
		Host:       host,
		KnownPeers: peers,
		EvHandler:  ev,
	})
	defer eng.Shutdown()

	worker.Run(eng, ev)

	// =========================================================================
	// Start API service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	app := web.NewApp(shutdown, mid.Logger(log), mid.Errors(log), mid.Panics())
	v1.Routes(app, v1.Config{Log: log, Engine: eng})

	api := http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Node.Port),
		Handler:      app,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Infow("startup", "status", "api router started", "host", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// nodesFile is the on-disk shape of nodes.json.
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
