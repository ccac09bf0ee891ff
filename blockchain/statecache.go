// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/starwels/starwelsd/chaincfg"
)

// ThresholdStateStore is implemented by stores able to persist the cached
// deployment threshold states between runs.  The store is never authoritative:
// every state it holds can be recomputed from the headers.
type ThresholdStateStore interface {
	// FetchThresholdStates returns every state stored in the bucket.
	FetchThresholdStates(bucket []byte) (map[chainhash.Hash]ThresholdState, error)

	// PutThresholdStates stores the states in the bucket.
	PutThresholdStates(bucket []byte, states map[chainhash.Hash]ThresholdState) error
}

// deploymentBucket returns the name of the bucket holding the cached states
// of the passed deployment.  The name commits to everything the states depend
// on, so cached states computed for a different deployment window are never
// loaded.
func deploymentBucket(params *chaincfg.Params, id chaincfg.DeploymentID) []byte {
	deployment := &params.Deployments[id]
	name := id.String()

	bucket := make([]byte, 0, len(name)+1+1+8+8+4+4)
	bucket = append(bucket, name...)
	bucket = append(bucket, 0)
	bucket = append(bucket, deployment.BitNumber)
	bucket = binary.BigEndian.AppendUint64(bucket, uint64(deployment.StartTime))
	bucket = binary.BigEndian.AppendUint64(bucket, uint64(deployment.ExpireTime))
	bucket = binary.BigEndian.AppendUint32(bucket, params.MinerConfirmationWindow)
	bucket = binary.BigEndian.AppendUint32(bucket, params.RuleChangeActivationThreshold)
	return bucket
}

// LoadThresholdStates primes the deployment caches with the states held by
// the store.  It is meant to be called before the headers are connected:
// states of headers that are not known yet are kept and used once a header
// with that hash closes a window.  States of known headers that do not close a
// window are skipped and states already computed take precedence, so a stale
// store can at worst leave the caches cold.  It returns the number of states
// loaded.
//
// This function is safe for concurrent access.
func (b *HeaderChain) LoadThresholdStates(store ThresholdStateStore) (int, error) {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()

	window := int32(b.chainParams.MinerConfirmationWindow)
	var loaded int
	for id := chaincfg.DeploymentID(0); id < chaincfg.DefinedDeployments; id++ {
		states, err := store.FetchThresholdStates(deploymentBucket(
			b.chainParams, id))
		if err != nil {
			return loaded, err
		}

		cache := &b.deploymentCaches[id]
		for hash, state := range states {
			node := b.index.LookupNode(&hash)
			if node != nil && (node.height+1)%window != 0 {
				continue
			}
			if _, ok := cache.Lookup(&hash); ok {
				continue
			}

			// Loaded states are already stored, so they are not
			// tracked as updates.
			cache.entries[hash] = state
			loaded++
		}
	}

	log.Debugf("Loaded %d cached threshold states", loaded)
	return loaded, nil
}

// FlushThresholdStates writes the deployment states computed since the last
// flush to the store.
//
// This function is safe for concurrent access.
func (b *HeaderChain) FlushThresholdStates(store ThresholdStateStore) error {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()

	for id := chaincfg.DeploymentID(0); id < chaincfg.DefinedDeployments; id++ {
		cache := &b.deploymentCaches[id]
		if len(cache.dbUpdates) == 0 {
			continue
		}
		err := store.PutThresholdStates(deploymentBucket(b.chainParams,
			id), cache.dbUpdates)
		if err != nil {
			return err
		}
		log.Tracef("Flushed %d threshold states of deployment %v",
			len(cache.dbUpdates), id)
		cache.MarkFlushed()
	}
	return nil
}

// ResetThresholdCaches drops every cached threshold state so that the next
// queries recompute them from the headers.
//
// This function is safe for concurrent access.
func (b *HeaderChain) ResetThresholdCaches() {
	b.chainLock.Lock()
	for i := range b.deploymentCaches {
		b.deploymentCaches[i].Reset()
	}
	for i := range b.warningCaches {
		b.warningCaches[i].Reset()
	}
	b.chainLock.Unlock()
}
