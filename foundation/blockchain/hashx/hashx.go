// Package hashx provides the canonical serialization and double hashing
// primitive shared by every hash-sensitive operation in the ledger: block
// linkage, merkle leaves, transaction signing, and mempool dedup keys. All
// of those must route through the same encoder or nodes validating the
// same artifact will compute different hashes.
package hashx

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Canonical returns the canonical JSON encoding of value: sorted object
// keys (recursively, at every nesting level), no insignificant whitespace,
// UTF-8 bytes. encoding/json sorts map[string]any keys but preserves
// struct declaration order, so structs are round-tripped through a generic
// interface{} first to force alphabetical key order the way Python's
// json.dumps(sort_keys=True) does.
func Canonical(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}

	sorted, err := json.Marshal(generic)
	if err != nil {
		return nil, err
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, sorted); err != nil {
		return nil, err
	}

	return compact.Bytes(), nil
}

// Ordered builds the canonical JSON encoding of an explicit field set,
// guaranteeing lexicographic key order regardless of struct declaration
// order. Used for the transaction signing tuple, where the spec pins down
// exactly {sender, receiver, amount, nonce} and nothing else.
func Ordered(fields map[string]any) ([]byte, error) {
	return Canonical(fields)
}

// H is the double-SHA-256 primitive: H(b) = SHA256(SHA256(b)), returned as
// lowercase hex.
func H(b []byte) string {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return hex.EncodeToString(second[:])
}

// Single returns a single SHA-256 digest of b as lowercase hex. Used for
// merkle leaves, which the spec defines as a single hash rather than H's
// double hash.
func Single(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// HashValue canonicalizes value and runs it through H. This is the
// standard path for block hashing and chain-linkage checks.
func HashValue(value any) (string, error) {
	data, err := Canonical(value)
	if err != nil {
		return "", err
	}
	return H(data), nil
}
