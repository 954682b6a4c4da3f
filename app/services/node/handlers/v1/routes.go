package v1

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/qcbit/ledger/foundation/blockchain/engine"
	"github.com/qcbit/ledger/foundation/web"
)

// Config contains the systems a route group needs to construct its
// handlers.
type Config struct {
	Log    *zap.SugaredLogger
	Engine *engine.Engine
}

// Routes binds every endpoint from the node's HTTP surface. There is no
// public/private split in this service — every route here is reachable by
// peers and clients alike, matching the reference implementation's single
// Flask app.
func Routes(app *web.App, cfg Config) {
	h := Handlers{Log: cfg.Log, Engine: cfg.Engine}

	app.Handle(http.MethodGet, "", "/mine_block", h.MineBlock)
	app.Handle(http.MethodGet, "", "/get_chain", h.GetChain)
	app.Handle(http.MethodGet, "", "/is_valid", h.IsValid)
	app.Handle(http.MethodPost, "", "/add_transaction", h.AddTransaction)
	app.Handle(http.MethodPost, "", "/sign_transaction", h.SignTransaction)
	app.Handle(http.MethodPost, "", "/connect_node", h.ConnectNode)
	app.Handle(http.MethodGet, "", "/get_nodes", h.GetNodes)
	app.Handle(http.MethodGet, "", "/replace_chain", h.ReplaceChain)
	app.Handle(http.MethodPost, "", "/receive_transaction", h.ReceiveTransaction)
	app.Handle(http.MethodPost, "", "/receive_block", h.ReceiveBlock)
	app.Handle(http.MethodGet, "", "/apply_consensus", h.ApplyConsensus)
	app.Handle(http.MethodGet, "", "/generate_keys", h.GenerateKeys)
}
