// Package v1 wires the node's public HTTP routes to the engine.
package v1

import (
	"github.com/qcbit/ledger/foundation/blockchain/block"
	"github.com/qcbit/ledger/foundation/blockchain/txn"
)

// addTransactionRequest is the wire shape of POST /add_transaction.
type addTransactionRequest struct {
	Sender    string  `json:"sender" validate:"required"`
	Receiver  string  `json:"receiver" validate:"required"`
	Amount    float64 `json:"amount"`
	Signature string  `json:"signature" validate:"required"`
	PublicKey string  `json:"public_key" validate:"required"`
	Nonce     uint64  `json:"nonce"`
}

func (r addTransactionRequest) toTx() txn.Tx {
	return txn.New(r.Sender, r.Receiver, r.Amount, r.Nonce, r.Signature, r.PublicKey)
}

// addTransactionResponse is the wire shape returned by POST
// /add_transaction: a human-readable message plus the 1-based index of the
// block this transaction is expected to occupy.
type addTransactionResponse struct {
	Message    string `json:"message"`
	BlockIndex uint64 `json:"block_index"`
}

// signTransactionRequest is the wire shape of POST /sign_transaction.
type signTransactionRequest struct {
	Sender     string  `json:"sender" validate:"required"`
	Receiver   string  `json:"receiver" validate:"required"`
	Amount     float64 `json:"amount"`
	Nonce      uint64  `json:"nonce"`
	PrivateKey string  `json:"private_key" validate:"required"`
}

// signTransactionResponse is the wire shape returned by POST
// /sign_transaction.
type signTransactionResponse struct {
	Signature string `json:"signature"`
}

// connectNodeRequest is the wire shape of POST /connect_node.
type connectNodeRequest struct {
	Nodes []string `json:"nodes" validate:"required"`
}

// getChainResponse is the wire shape of GET /get_chain.
type getChainResponse struct {
	Chain  []block.Block `json:"chain"`
	Length int           `json:"length"`
}

// getNodesResponse is the wire shape of GET /get_nodes.
type getNodesResponse struct {
	Nodes []string `json:"nodes"`
	Count int       `json:"count"`
}

// messageResponse is the generic {"message": "..."} shape used by
// /mine_block (empty mempool), /is_valid, /replace_chain,
// /apply_consensus, /connect_node, /receive_transaction, and
// /receive_block.
type messageResponse struct {
	Message string `json:"message"`
}

// keypairResponse is the wire shape of GET /generate_keys.
type keypairResponse struct {
	PrivateKey string `json:"private_key"`
	PublicKey  string `json:"public_key"`
}
