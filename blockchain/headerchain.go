// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/starwels/starwelsd/chaincfg"
)

// BestState houses information about the current best header chain.
type BestState struct {
	Hash       chainhash.Hash // The hash of the tip.
	Height     int32          // The height of the tip.
	Version    int32          // The version of the tip.
	MedianTime int64          // Median time as per CalcPastMedianTime.
}

// HeaderChain provides functions for tracking the header tree of a network and
// evaluating the soft-fork deployment states along it.  Only the fields of the
// headers are considered; no block data is needed.
type HeaderChain struct {
	// The following fields are set when the instance is created and can't
	// be changed afterwards, so there is no need to protect them with a
	// separate mutex.
	chainParams *chaincfg.Params

	// chainLock protects concurrent access to the vast majority of the
	// fields in this struct below this point.  Threshold state queries
	// update the caches, so they take the lock for writes.
	chainLock sync.RWMutex

	// index houses the entire header tree.
	//
	// bestChain tracks the current active chain by making use of an
	// efficient chain view into the header index.  The view has no lock
	// of its own and relies on chainLock.
	index     *blockIndex
	bestChain *chainView

	// These fields are related to handling of warnings and the caching of
	// deployment threshold states per window.
	//
	// warningCaches caches the current deployment threshold state for
	// blocks in each of the **possible** deployments.  This is used in
	// order to detect when new unrecognized rule changes are being voted
	// on and/or have been activated such as will be the case when older
	// versions of the software are being used.
	//
	// deploymentCaches caches the current deployment threshold state for
	// blocks in each of the actively defined deployments.
	warningCaches         []thresholdStateCache
	deploymentCaches      []thresholdStateCache
	unknownRulesWarned    bool
	unknownVersionsWarned bool
}

// New returns a header chain holding only the genesis block of the passed
// network.
func New(params *chaincfg.Params) (*HeaderChain, error) {
	if params == nil || params.GenesisBlock == nil {
		return nil, AssertError("blockchain.New chain parameters " +
			"without a genesis block")
	}

	genesis := newBlockNode(&params.GenesisBlock.Header, nil)
	if params.GenesisHash != nil && !genesis.hash.IsEqual(params.GenesisHash) {
		str := fmt.Sprintf("genesis block %v does not match the %s "+
			"genesis hash %v", genesis.hash, params.Name,
			params.GenesisHash)
		return nil, AssertError(str)
	}

	b := HeaderChain{
		chainParams:      params,
		index:            newBlockIndex(),
		bestChain:        newChainView(genesis),
		warningCaches:    newThresholdCaches(vbNumBits),
		deploymentCaches: newThresholdCaches(uint32(chaincfg.DefinedDeployments)),
	}
	b.index.AddNode(genesis)

	log.Infof("Header chain for %s initialized with genesis %v",
		params.Name, genesis.hash)

	return &b, nil
}

// Params returns the network parameters the chain was created with.
func (b *HeaderChain) Params() *chaincfg.Params {
	return b.chainParams
}

// HaveBlock returns whether or not the chain knows the header with the provided
// hash.
//
// This function is safe for concurrent access.
func (b *HeaderChain) HaveBlock(hash *chainhash.Hash) bool {
	return b.index.HaveBlock(hash)
}

// BestSnapshot returns information about the current best chain tip.
//
// This function is safe for concurrent access.
func (b *HeaderChain) BestSnapshot() BestState {
	b.chainLock.RLock()
	tip := b.bestChain.Tip()
	b.chainLock.RUnlock()

	return BestState{
		Hash:       tip.hash,
		Height:     tip.height,
		Version:    tip.version,
		MedianTime: tip.CalcPastMedianTime().Unix(),
	}
}

// BlockHashByHeight returns the hash of the block at the given height in the
// main chain.
//
// This function is safe for concurrent access.
func (b *HeaderChain) BlockHashByHeight(height int32) (*chainhash.Hash, error) {
	node := b.bestChain.NodeByHeight(height)
	if node == nil {
		return nil, notInMainChainError(height)
	}

	return &node.hash, nil
}

// checkHeaderContext performs the checks on a header which depend on its
// position within the header tree.
//
// This function MUST be called with the chain state lock held (for reads).
func (b *HeaderChain) checkHeaderContext(header *wire.BlockHeader, hash *chainhash.Hash, prevNode *blockNode) error {
	// Ensure the timestamp for the block header is after the median time of
	// the last several blocks (medianTimeBlocks).
	medianTime := prevNode.CalcPastMedianTime()
	if !header.Timestamp.After(medianTime) {
		str := fmt.Sprintf("block timestamp of %v is not after "+
			"expected %v", header.Timestamp, medianTime)
		return ruleError(ErrTimeTooOld, str)
	}

	// Ensure the header matches the checkpoint at its height, if any.  The
	// header is not part of the accepted chain yet, so a mismatch only
	// rejects it.
	return VerifyCheckpoint(b.chainParams, prevNode.height+1, hash, false)
}

// ProcessHeader is the main workhorse for adding headers to the chain.  The
// header must connect to a known header.  It returns whether or not the header
// extends or became the best chain.
//
// This function is safe for concurrent access.
func (b *HeaderChain) ProcessHeader(header *wire.BlockHeader) (bool, error) {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()

	hash := header.BlockHash()
	if b.index.HaveBlock(&hash) {
		str := fmt.Sprintf("already have block %v", hash)
		return false, ruleError(ErrDuplicateBlock, str)
	}

	prevNode := b.index.LookupNode(&header.PrevBlock)
	if prevNode == nil {
		str := fmt.Sprintf("previous block %s is unknown",
			header.PrevBlock)
		return false, ruleError(ErrMissingParent, str)
	}

	if err := b.checkHeaderContext(header, &hash, prevNode); err != nil {
		return false, err
	}

	node := newBlockNode(header, prevNode)
	b.index.AddNode(node)

	// Nothing more to do when the header does not carry more work than
	// the current tip.  Ties keep the first seen chain.
	tip := b.bestChain.Tip()
	if node.workSum.Cmp(tip.workSum) <= 0 {
		log.Debugf("Added header %v at height %d to a side chain",
			node.hash, node.height)
		return false, nil
	}

	if node.parent != tip {
		fork := b.bestChain.FindFork(node)
		log.Infof("REORGANIZE: header chain forks at height %d, new "+
			"tip %v at height %d", fork.height, node.hash,
			node.height)
	}
	b.bestChain.SetTip(node)

	// Warn about unknown rule changes on the new best chain.
	if err := b.warnUnknownRuleActivations(node); err != nil {
		return true, err
	}
	if err := b.warnUnknownVersions(node); err != nil {
		return true, err
	}

	return true, nil
}
