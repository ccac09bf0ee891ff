// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

// TestBlockNodeHeader ensures a node reconstructs the header it was created
// from.
func TestBlockNodeHeader(t *testing.T) {
	t.Parallel()

	parent := chainedNodes(nil, 1)[0]
	header := wire.BlockHeader{
		Version:    0x20000003,
		PrevBlock:  parent.hash,
		MerkleRoot: chainhash.Hash{0x0a},
		Timestamp:  time.Unix(1484870400, 0),
		Bits:       testBits,
		Nonce:      42,
	}
	node := newBlockNode(&header, parent)
	require.Equal(t, header, node.Header())
	require.Equal(t, header.BlockHash(), node.hash)
	require.Equal(t, int32(1), node.height)

	// The work accumulates along the chain.
	work := new(big.Int).Add(parent.workSum, parent.workSum)
	require.Zero(t, work.Cmp(node.workSum))
}

// TestAncestor ensures ancestors are found by absolute and relative height.
func TestAncestor(t *testing.T) {
	t.Parallel()

	nodes := chainedNodes(nil, 20)
	tip := tstTip(nodes)
	for i, node := range nodes {
		require.Same(t, node, tip.Ancestor(int32(i)))
		require.Same(t, node, tip.RelativeAncestor(tip.height-int32(i)))
	}
	require.Nil(t, tip.Ancestor(-1))
	require.Nil(t, tip.Ancestor(tip.height+1))
	require.Nil(t, nodes[5].RelativeAncestor(6))
}

// TestBlockIndex ensures nodes added to the index can be looked up.
func TestBlockIndex(t *testing.T) {
	t.Parallel()

	nodes := chainedNodes(nil, 3)
	index := newBlockIndex()
	for _, node := range nodes[:2] {
		index.AddNode(node)
	}

	require.True(t, index.HaveBlock(&nodes[1].hash))
	require.Same(t, nodes[1], index.LookupNode(&nodes[1].hash))
	require.False(t, index.HaveBlock(&nodes[2].hash))
	require.Nil(t, index.LookupNode(&nodes[2].hash))
}
