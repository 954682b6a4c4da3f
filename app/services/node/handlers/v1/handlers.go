package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"go.uber.org/zap"

	"github.com/qcbit/ledger/foundation/blockchain/block"
	"github.com/qcbit/ledger/foundation/blockchain/engine"
	"github.com/qcbit/ledger/foundation/blockchain/signature"
	"github.com/qcbit/ledger/foundation/web"
)

// Handlers groups every route in the node's HTTP surface.
type Handlers struct {
	Log    *zap.SugaredLogger
	Engine *engine.Engine
}

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(validate, trans)
}

func validationErrors(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, e.Translate(trans))
		}
		out := ""
		for i, m := range msgs {
			if i > 0 {
				out += "; "
			}
			out += m
		}
		return out
	}
	return err.Error()
}

// MineBlock handles GET /mine_block.
func (h Handlers) MineBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	mined, err := h.Engine.MineBlock(ctx)
	if err != nil {
		if errors.Is(err, engine.ErrNoTransactions) {
			return web.Respond(ctx, w, messageResponse{Message: err.Error()}, http.StatusOK)
		}
		return web.NewRequestError(err, http.StatusBadRequest)
	}
	return web.Respond(ctx, w, mined, http.StatusOK)
}

// GetChain handles GET /get_chain.
func (h Handlers) GetChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	c := h.Engine.Chain()
	resp := getChainResponse{Chain: c, Length: len(c)}
	return web.Respond(ctx, w, resp, http.StatusOK)
}

// IsValid handles GET /is_valid.
func (h Handlers) IsValid(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.Engine.IsValid() {
		return web.Respond(ctx, w, messageResponse{Message: "chain is valid"}, http.StatusOK)
	}
	return web.Respond(ctx, w, messageResponse{Message: "chain is not valid"}, http.StatusOK)
}

// AddTransaction handles POST /add_transaction.
func (h Handlers) AddTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req addTransactionRequest
	if err := web.Decode(r, &req); err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}
	if err := validate.Struct(req); err != nil {
		return web.NewRequestError(errors.New(validationErrors(err)), http.StatusBadRequest)
	}

	index, err := h.Engine.AddTransaction(req.toTx())
	if err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	resp := addTransactionResponse{
		Message:    fmt.Sprintf("This transaction will be added to block %d", index),
		BlockIndex: index,
	}
	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// SignTransaction handles POST /sign_transaction — a server-side
// convenience that signs on the caller's behalf when it supplies a
// private key directly in the request.
func (h Handlers) SignTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req signTransactionRequest
	if err := web.Decode(r, &req); err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}
	if err := validate.Struct(req); err != nil {
		return web.NewRequestError(errors.New(validationErrors(err)), http.StatusBadRequest)
	}

	tx := addTransactionRequest{
		Sender:   req.Sender,
		Receiver: req.Receiver,
		Amount:   req.Amount,
		Nonce:    req.Nonce,
	}.toTx()

	data, err := tx.CanonicalBytes()
	if err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	sig, err := signature.Sign(req.PrivateKey, data)
	if err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	return web.Respond(ctx, w, signTransactionResponse{Signature: sig}, http.StatusOK)
}

// ConnectNode handles POST /connect_node.
func (h Handlers) ConnectNode(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req connectNodeRequest
	if err := web.Decode(r, &req); err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}
	if len(req.Nodes) == 0 {
		return web.NewRequestError(errors.New("nodes must not be empty"), http.StatusBadRequest)
	}

	for _, n := range req.Nodes {
		h.Engine.AddKnownPeer(n)
	}

	return web.Respond(ctx, w, messageResponse{Message: "peers registered"}, http.StatusCreated)
}

// GetNodes handles GET /get_nodes.
func (h Handlers) GetNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	peers := h.Engine.KnownPeers()
	nodes := make([]string, len(peers))
	for i, p := range peers {
		nodes[i] = p.Host
	}
	return web.Respond(ctx, w, getNodesResponse{Nodes: nodes, Count: len(nodes)}, http.StatusOK)
}

// ReplaceChain handles GET /replace_chain.
func (h Handlers) ReplaceChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced, err := h.Engine.ReplaceChain(ctx)
	if err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}
	if replaced {
		return web.Respond(ctx, w, messageResponse{Message: "chain was replaced"}, http.StatusOK)
	}
	return web.Respond(ctx, w, messageResponse{Message: "chain is authoritative"}, http.StatusOK)
}

// ApplyConsensus handles GET /apply_consensus.
func (h Handlers) ApplyConsensus(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced, err := h.Engine.ApplyConsensus(ctx)
	if err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}
	if replaced {
		return web.Respond(ctx, w, messageResponse{Message: "chain was replaced"}, http.StatusOK)
	}
	return web.Respond(ctx, w, messageResponse{Message: "chain is authoritative"}, http.StatusOK)
}

// ReceiveTransaction handles POST /receive_transaction, the peer-to-peer
// push path: idempotent, never rejects a duplicate.
func (h Handlers) ReceiveTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req addTransactionRequest
	if err := web.Decode(r, &req); err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	if err := h.Engine.ReceiveTransaction(req.toTx()); err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	return web.Respond(ctx, w, messageResponse{Message: "transaction received"}, http.StatusOK)
}

// ReceiveBlock handles POST /receive_block.
func (h Handlers) ReceiveBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var b block.Block
	if err := web.Decode(r, &b); err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	if err := h.Engine.ReceiveBlock(b); err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	return web.Respond(ctx, w, messageResponse{Message: "block received"}, http.StatusOK)
}

// GenerateKeys handles GET /generate_keys.
func (h Handlers) GenerateKeys(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	priv, pub, err := signature.GenerateKeys()
	if err != nil {
		return web.NewRequestError(err, http.StatusInternalServerError)
	}
	return web.Respond(ctx, w, keypairResponse{PrivateKey: priv, PublicKey: pub}, http.StatusOK)
}
