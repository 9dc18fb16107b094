// Package mmr exposes the host's Merkle Mountain Range state to runtime
// code through registered extensions.
package mmr

import (
	"sync"

	"github.com/YFiN99/subspace/common"
)

// LeafData is the MMR leaf recorded for each block.
type LeafData struct {
	StateRoot      common.Hash
	ExtrinsicsRoot common.Hash
}

// Extension answers MMR queries from the node's state.
type Extension interface {
	// LeafData returns the MMR leaf recorded for the block with the given
	// consensus block hash, or false if the block is unknown.
	LeafData(consensusBlockHash common.Hash) (LeafData, bool)

	// VerifyProof checks an encoded MMR proof against the given leaves.
	VerifyProof(encodedLeaves [][]byte, encodedProof []byte) bool
}

var (
	mu        sync.RWMutex
	extension Extension
)

// RegisterExtension installs the host-side MMR extension. The node calls
// this once during startup, before any runtime code runs.
func RegisterExtension(ext Extension) {
	mu.Lock()
	defer mu.Unlock()
	extension = ext
}

func getExtension() Extension {
	mu.RLock()
	defer mu.RUnlock()
	if extension == nil {
		panic("no MMR extension registered")
	}
	return extension
}

// GetLeafData returns the MMR leaf for the given consensus block hash.
// Panics if no extension is registered, which means the host is
// misconfigured and cannot serve runtime queries at all.
func GetLeafData(consensusBlockHash common.Hash) (LeafData, bool) {
	return getExtension().LeafData(consensusBlockHash)
}

// VerifyProof checks an encoded MMR proof against the given leaves.
// Panics if no extension is registered.
func VerifyProof(encodedLeaves [][]byte, encodedProof []byte) bool {
	return getExtension().VerifyProof(encodedLeaves, encodedProof)
}
