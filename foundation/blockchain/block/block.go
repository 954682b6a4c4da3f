// Package block defines the Block data model, its hash, and the block
// builder that assembles one from a mempool snapshot, the previous block,
// and a set of eligible uncles.
package block

import (
	"time"

	"github.com/qcbit/ledger/foundation/blockchain/hashx"
	"github.com/qcbit/ledger/foundation/blockchain/merkle"
	"github.com/qcbit/ledger/foundation/blockchain/pow"
	"github.com/qcbit/ledger/foundation/blockchain/txn"
)

// MaxUncles is the maximum number of uncle blocks a single block may
// staple.
const MaxUncles = 2

// UncleWindow is how many blocks back an uncle may trail the height it is
// stapled into: eligible iff h-7 <= uncle.Index < h.
const UncleWindow = 7

// Block is a batch of transactions linked to its predecessor by hash.
type Block struct {
	Index        uint64    `json:"index"`
	Timestamp    string    `json:"timestamp"`
	PreviousHash string    `json:"previous_hash"`
	Transactions []txn.Tx  `json:"transactions"`
	MerkleRoot   string    `json:"merkleroot"`
	Difficulty   uint64    `json:"difficulty"`
	Nonce        uint64    `json:"nonce"`
	BlockTime    float64   `json:"block_time"`
	Uncles       []Block   `json:"uncles"`
}

// Hash returns H(canonical_json(block)): the hash used for chain linkage.
func (b Block) Hash() (string, error) {
	return hashx.HashValue(b)
}

// Genesis returns the anchor block: index 1, previous_hash "0", zero block
// time, empty transactions and merkle root.
func Genesis() Block {
	return Block{
		Index:        1,
		Timestamp:    time.Now().UTC().Format(time.RFC3339Nano),
		PreviousHash: "0",
		Transactions: []txn.Tx{},
		MerkleRoot:   "",
		Difficulty:   0,
		Nonce:        0,
		BlockTime:    0,
		Uncles:       []Block{},
	}
}

// MerkleRootOf computes the merkle root over txs, returning "" for an
// empty list per spec.
func MerkleRootOf(txs []txn.Tx) (string, error) {
	tree, err := merkle.New(txs)
	if err != nil {
		return "", err
	}
	return tree.Root(), nil
}

// BuildArgs bundles everything the builder needs to assemble a new block
// once the miner has returned a solved nonce.
type BuildArgs struct {
	PreviousBlock Block
	Transactions  []txn.Tx // mempool snapshot, in insertion order
	Uncles        []Block  // already filtered to eligible + capped at MaxUncles
	PowResult     pow.Result
}

// Build assembles a new block from args. The previous block's hash and the
// merkle root over Transactions are computed here; the caller has already
// solved the PoW puzzle (args.PowResult) and selected uncles.
func Build(args BuildArgs) (Block, error) {
	prevHash, err := args.PreviousBlock.Hash()
	if err != nil {
		return Block{}, err
	}

	root, err := MerkleRootOf(args.Transactions)
	if err != nil {
		return Block{}, err
	}

	uncles := args.Uncles
	if uncles == nil {
		uncles = []Block{}
	}
	if len(uncles) > MaxUncles {
		uncles = uncles[:MaxUncles]
	}

	txs := args.Transactions
	if txs == nil {
		txs = []txn.Tx{}
	}

	return Block{
		Index:        args.PreviousBlock.Index + 1,
		Timestamp:    time.Now().UTC().Format(time.RFC3339Nano),
		PreviousHash: prevHash,
		Transactions: txs,
		MerkleRoot:   root,
		Difficulty:   args.PowResult.Difficulty,
		Nonce:        args.PowResult.Nonce,
		BlockTime:    args.PowResult.BlockTime,
		Uncles:       uncles,
	}, nil
}

// UncleEligible reports whether an uncle with the given index can be
// stapled into a block being built at height h: h >= 7 and
// h-7 <= uncle.Index < h.
func UncleEligible(h, uncleIndex uint64) bool {
	if h < UncleWindow {
		return false
	}
	return uncleIndex >= h-UncleWindow && uncleIndex < h
}
