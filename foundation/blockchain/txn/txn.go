// Package txn defines the transaction data model and the canonical byte
// representation used for both signing and hashing.
package txn

import (
	"github.com/qcbit/ledger/foundation/blockchain/hashx"
	"github.com/qcbit/ledger/foundation/blockchain/signature"
)

// Tx is a signed transaction as admitted into the mempool or embedded in a
// block. Sender and Receiver are opaque identity strings; in practice
// Sender is the PEM-encoded RSA public key that signed the transaction.
type Tx struct {
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Amount    float64 `json:"amount"`
	Nonce     uint64 `json:"nonce"`
	Signature string `json:"signature"`  // lowercase hex
	PublicKey string `json:"public_key"` // PEM
}

// New builds a Tx from its wire fields.
func New(sender, receiver string, amount float64, nonce uint64, signatureHex, publicKeyPEM string) Tx {
	return Tx{
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		Nonce:     nonce,
		Signature: signatureHex,
		PublicKey: publicKeyPEM,
	}
}

// CanonicalBytes returns the canonical JSON encoding of the tuple
// {sender, receiver, amount, nonce} — exactly the fields that are signed
// and verified. Signature and PublicKey are deliberately excluded: signing
// or verifying over them would let a transaction be rewritten in transit
// and still "verify" against its own signature.
func (t Tx) CanonicalBytes() ([]byte, error) {
	return hashx.Ordered(map[string]any{
		"sender":   t.Sender,
		"receiver": t.Receiver,
		"amount":   t.Amount,
		"nonce":    t.Nonce,
	})
}

// CanonicalJSON returns the canonical JSON encoding of the full augmented
// transaction (all six fields), used as the mempool dedup key and as a
// merkle leaf input. Signature is held as a lowercase hex string, so the
// key does not depend on how the signature bytes were produced.
func (t Tx) CanonicalJSON() ([]byte, error) {
	return hashx.Canonical(t)
}

// PoolKey returns the canonical-JSON string used as the dedup key in the
// mempool's transaction_pool set.
func (t Tx) PoolKey() (string, error) {
	b, err := t.CanonicalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Hash implements the merkle.Hashable interface: a transaction's merkle
// leaf is the single SHA-256 of its canonical JSON.
func (t Tx) Hash() (string, error) {
	b, err := t.CanonicalJSON()
	if err != nil {
		return "", err
	}
	return hashx.Single(b), nil
}

// VerifySignature checks t.Signature against t.PublicKey over the
// canonical signing tuple. The spec is explicit that only the embedded
// PublicKey field may be used here — never Sender, even though in
// practice Sender happens to hold the same PEM string. A validator
// variant that used Sender as the key would accept a transaction whose
// PublicKey field was swapped for an unrelated key while still checking
// the signature against the field that happens to look like a key.
func (t Tx) VerifySignature() error {
	data, err := t.CanonicalBytes()
	if err != nil {
		return err
	}
	return signature.Verify(t.PublicKey, data, t.Signature)
}
