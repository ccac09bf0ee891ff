// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/starwels/starwelsd/chaincfg"
	"github.com/stretchr/testify/require"
)

const (
	// testBlockSpacing is the number of seconds between the timestamps of
	// consecutive test headers.
	testBlockSpacing = 600

	// testBits is the difficulty of every test header.
	testBits = 0x207fffff

	// vbNoSignal is a version bits version that signals no deployment.
	vbNoSignal = vbTopBits
)

// testingT is the subset of testing.TB shared with property test runs.
type testingT interface {
	require.TestingT
	Helper()
}

// regressionParams returns a fresh copy of the regression test network
// parameters which the caller is free to modify.
func regressionParams(t testingT) *chaincfg.Params {
	t.Helper()

	params, err := chaincfg.NewRegressionNetParams()
	require.NoError(t, err)
	return params
}

// testChain wraps a header chain with helpers to extend its best chain with
// generated headers.
type testChain struct {
	t      testingT
	chain  *HeaderChain
	tip    chainhash.Hash
	height int32
	time   int64
	nonce  uint32
}

// newTestChain returns a test chain holding the genesis block of the passed
// parameters.
func newTestChain(t testingT, params *chaincfg.Params) *testChain {
	t.Helper()

	chain, err := New(params)
	require.NoError(t, err)
	return &testChain{
		t:     t,
		chain: chain,
		tip:   *params.GenesisHash,
		time:  params.GenesisBlock.Header.Timestamp.Unix(),
	}
}

// nextHeader returns a header that extends the tip of the test chain.
func (c *testChain) nextHeader(version int32) *wire.BlockHeader {
	c.nonce++
	return &wire.BlockHeader{
		Version:   version,
		PrevBlock: c.tip,
		Timestamp: time.Unix(c.time+testBlockSpacing, 0),
		Bits:      testBits,
		Nonce:     c.nonce,
	}
}

// extend connects n headers with the passed version to the tip of the test
// chain and returns the new tip height.
func (c *testChain) extend(n int, version int32) int32 {
	c.t.Helper()

	for i := 0; i < n; i++ {
		header := c.nextHeader(version)
		isMainChain, err := c.chain.ProcessHeader(header)
		require.NoError(c.t, err)
		require.True(c.t, isMainChain)

		c.tip = header.BlockHash()
		c.time = header.Timestamp.Unix()
		c.height++
	}
	return c.height
}

// extendSignalling connects a full confirmation window of headers to the tip
// of which the first signals headers carry the passed version and the rest
// signal nothing.
func (c *testChain) extendSignalling(window, signals int, version int32) int32 {
	c.extend(signals, version)
	return c.extend(window-signals, vbNoSignal)
}

// requireState ensures the state of the deployment for the block at the
// passed height.
func (c *testChain) requireState(height int32, id chaincfg.DeploymentID, want ThresholdState) {
	c.t.Helper()

	got, err := c.chain.StateForHeight(height, id)
	require.NoError(c.t, err)
	require.Equal(c.t, want, got, "%v state at height %d", id, height)
}

// genesisTime returns the timestamp of the genesis block of the parameters.
func genesisTime(params *chaincfg.Params) int64 {
	return params.GenesisBlock.Header.Timestamp.Unix()
}
