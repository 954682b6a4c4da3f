package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/qcbit/ledger/foundation/blockchain/block"
	"github.com/qcbit/ledger/foundation/blockchain/chain"
	"github.com/qcbit/ledger/foundation/blockchain/peerset"
	"github.com/qcbit/ledger/foundation/blockchain/txn"
)

const baseURL = "http://%s"

// getChainResponse mirrors the wire shape of GET /get_chain.
type getChainResponse struct {
	Chain  []block.Block `json:"chain"`
	Length int           `json:"length"`
}

// BroadcastTransaction pushes tx to every known peer, independently and
// best-effort: a failed peer is logged and otherwise ignored.
func (e *Engine) BroadcastTransaction(tx txn.Tx) {
	e.evHandler("engine: BroadcastTransaction: started")
	defer e.evHandler("engine: BroadcastTransaction: completed")

	for _, p := range e.KnownPeers() {
		url := fmt.Sprintf(baseURL+"/receive_transaction", p.Host)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := e.send(ctx, http.MethodPost, url, tx, nil)
		cancel()
		if err != nil {
			e.evHandler("engine: BroadcastTransaction: peer[%s]: %s", p.Host, err)
		}
	}
}

// BroadcastBlock pushes a newly mined block to every known peer.
func (e *Engine) BroadcastBlock(b block.Block) {
	e.evHandler("engine: BroadcastBlock: started: index[%d]", b.Index)
	defer e.evHandler("engine: BroadcastBlock: completed")

	for _, p := range e.KnownPeers() {
		url := fmt.Sprintf(baseURL+"/receive_block", p.Host)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := e.send(ctx, http.MethodPost, url, b, nil)
		cancel()
		if err != nil {
			e.evHandler("engine: BroadcastBlock: peer[%s]: %s", p.Host, err)
		}
	}
}

// pullChain fetches a peer's full chain for consensus comparison.
func (e *Engine) pullChain(ctx context.Context, p peerset.Peer) (chain.Chain, error) {
	url := fmt.Sprintf(baseURL+"/get_chain", p.Host)

	reqCtx, cancel := context.WithTimeout(ctx, 25*time.Second)
	defer cancel()

	var resp getChainResponse
	if err := e.send(reqCtx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, err
	}

	return chain.Chain(resp.Chain), nil
}

// send is the shared HTTP helper for every peer call: it marshals
// dataSend (if any), issues the request against e.httpClient, and decodes
// into dataRecv (if any) on a 2xx response.
func (e *Engine) send(ctx context.Context, method, url string, dataSend, dataRecv any) error {
	var body io.Reader
	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if dataSend != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return errors.New(string(msg))
	}

	if dataRecv != nil {
		return json.NewDecoder(resp.Body).Decode(dataRecv)
	}

	return nil
}
