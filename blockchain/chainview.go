// Copyright (c) 2017 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

// viewGrowth is the number of extra slots reserved whenever the
// view has to grow, so extending the best chain one header at a time only
// reallocates once every few thousand headers.
const viewGrowth = 2016

// chainView indexes the nodes of one branch of the header tree by height, from
// genesis to the branch tip.  It answers the height based queries of the
// versionbits and checkpoint code in constant time.
//
//	genesis -> 1 -> 2 -> 3 -> 4  -> 5
//	                     \-> 4a -> 5a -> 6a
//
// A view of the branch ending in 6a holds genesis, 1, 2, 3, 4a, 5a and 6a.
//
// A chainView has no lock of its own.  The header chain only touches its best
// chain view with the chain lock held.
type chainView struct {
	nodes []*blockNode
}

// newChainView returns a view of the branch ending at tip.  A nil tip gives an
// empty view.
func newChainView(tip *blockNode) *chainView {
	var c chainView
	c.SetTip(tip)
	return &c
}

// Tip returns the last node of the view or nil when the view is empty.
func (c *chainView) Tip() *blockNode {
	if len(c.nodes) == 0 {
		return nil
	}
	return c.nodes[len(c.nodes)-1]
}

// Height returns the height of the tip, or -1 for an empty view.
func (c *chainView) Height() int32 {
	return int32(len(c.nodes)) - 1
}

// NodeByHeight returns the node of the view at height, or nil when the height
// is outside the view.
func (c *chainView) NodeByHeight(height int32) *blockNode {
	if height < 0 || height >= int32(len(c.nodes)) {
		return nil
	}
	return c.nodes[height]
}

// SetTip makes the view follow the branch ending at node.  Only the nodes
// above the fork with the previous branch are rewritten, so a reorganisation
// costs its depth rather than the chain height.
func (c *chainView) SetTip(node *blockNode) {
	if node == nil {
		c.nodes = c.nodes[:0]
		return
	}

	size := node.height + 1
	switch {
	case int32(cap(c.nodes)) < size:
		grown := make([]*blockNode, size, size+viewGrowth)
		copy(grown, c.nodes)
		c.nodes = grown

	default:
		// Slots past the previous tip may hold nodes of an abandoned
		// branch, so clear them before walking back.
		prev := int32(len(c.nodes))
		c.nodes = c.nodes[:size]
		for i := prev; i < size; i++ {
			c.nodes[i] = nil
		}
	}

	for ; node != nil && c.nodes[node.height] != node; node = node.parent {
		c.nodes[node.height] = node
	}
}

// FindFork returns the highest node shared by the view and the branch ending
// at node, or nil when they share nothing.  A node that is part of the view is
// its own fork point.
func (c *chainView) FindFork(node *blockNode) *blockNode {
	if node == nil {
		return nil
	}

	// Nothing above the tip can be shared.
	if tipHeight := c.Height(); node.height > tipHeight {
		node = node.Ancestor(tipHeight)
	}
	for node != nil && c.NodeByHeight(node.height) != node {
		node = node.parent
	}
	return node
}
