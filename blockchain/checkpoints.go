// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/lru"
	"github.com/starwels/starwelsd/chaincfg"
)

// verifiedCheckpointsCacheSize bounds the number of checkpoint hashes
// remembered for the purpose of logging each verification once.
const verifiedCheckpointsCacheSize = 64

// verifiedCheckpoints holds the hashes of the checkpoints that have already
// been reported as verified.
var verifiedCheckpoints = lru.NewCache(verifiedCheckpointsCacheSize)

// VerifyCheckpoint compares the passed block height and hash combination with
// the hard-coded checkpoint data of the network.  A block at a height without
// a checkpoint always passes.
//
// The consequence of a mismatch depends on where the block lives.  A mismatch
// on a candidate branch is an ordinary rejection and is reported as a
// RuleError with ErrBadCheckpoint.  A mismatch on the chain that has already
// been accepted means the local chain state is inconsistent with the network
// and is reported as an AssertError which the caller must treat as fatal.
//
// This function is safe for concurrent access.
func VerifyCheckpoint(params *chaincfg.Params, height int32, hash *chainhash.Hash, onBestChain bool) error {
	switch params.CheckCheckpoint(height, hash) {
	case chaincfg.CheckpointUnknown:
		return nil

	case chaincfg.CheckpointMatches:
		if !verifiedCheckpoints.Contains(*hash) {
			verifiedCheckpoints.Add(*hash)
			log.Infof("Verified checkpoint at height %d/block %s",
				height, hash)
		}
		return nil
	}

	if onBestChain {
		str := fmt.Sprintf("accepted block %v at height %d does not "+
			"match the %s checkpoint", hash, height, params.Name)
		return AssertError(str)
	}

	str := fmt.Sprintf("block at height %d does not match checkpoint "+
		"hash", height)
	return ruleError(ErrBadCheckpoint, str)
}

// LatestCheckpoint returns the most recent checkpoint (regardless of whether it
// is already known).  It will return nil when there are no checkpoints for the
// network.
//
// This function is safe for concurrent access.
func (b *HeaderChain) LatestCheckpoint() *chaincfg.Checkpoint {
	return b.chainParams.LatestCheckpoint()
}

// VerifyCheckpoints compares every checkpoint reached by the best chain with
// the block the chain holds at that height.  Any mismatch is an AssertError
// since it means the accepted chain contradicts the network parameters.
//
// This function is safe for concurrent access.
func (b *HeaderChain) VerifyCheckpoints() error {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()

	for i := range b.chainParams.Checkpoints {
		checkpoint := &b.chainParams.Checkpoints[i]
		node := b.bestChain.NodeByHeight(checkpoint.Height)
		if node == nil {
			break
		}
		err := VerifyCheckpoint(b.chainParams, node.height, &node.hash,
			true)
		if err != nil {
			return err
		}
	}
	return nil
}
