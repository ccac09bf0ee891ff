// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Network identifies one of the networks the node can run on.
type Network uint8

const (
	// MainNetwork is the production network.
	MainNetwork Network = iota

	// TestNetwork is the public test network.  It shares the genesis block
	// and address prefixes of the main network.
	TestNetwork

	// RegressionNetwork is the private regression test network.  Blocks
	// can be mined on demand at minimum difficulty.
	RegressionNetwork

	// numNetworks is the number of supported networks.
	numNetworks
)

// These are the network name tokens accepted on the command line and used as
// the Name of the parameters of each network.
const (
	MainNetName       = "main"
	TestNetName       = "test"
	RegressionNetName = "regtest"
)

var networkNames = [numNetworks]string{
	MainNetwork:       MainNetName,
	TestNetwork:       TestNetName,
	RegressionNetwork: RegressionNetName,
}

// String returns the name token of the network.
func (n Network) String() string {
	if n < numNetworks {
		return networkNames[n]
	}
	return fmt.Sprintf("Unknown Network (%d)", uint8(n))
}

// NetworkFromName resolves a network name token.  Any token other than "main",
// "test" or "regtest" yields ErrUnknownChain.
func NetworkFromName(name string) (Network, error) {
	for n, s := range networkNames {
		if s == name {
			return Network(n), nil
		}
	}
	str := fmt.Sprintf("unknown chain %q", name)
	return 0, configError(ErrUnknownChain, str)
}

// NewParams builds the parameter set of the passed network.  Every call builds
// and verifies a fresh genesis block, so the returned value is owned by the
// caller.
func NewParams(n Network) (*Params, error) {
	switch n {
	case MainNetwork:
		return NewMainNetParams()
	case TestNetwork:
		return NewTestNetParams()
	case RegressionNetwork:
		return NewRegressionNetParams()
	}
	str := fmt.Sprintf("unknown network %d", uint8(n))
	return nil, configError(ErrUnknownChain, str)
}

// newParams finishes the construction shared by every network: it builds and
// verifies the genesis block and checks the consistency of the result.
func newParams(p *Params, blockTime, nonce, bits uint32, wantHash *chainhash.Hash) (*Params, error) {
	genesis, err := CreateGenesisBlock(blockTime, nonce, bits, 1, genesisReward)
	if err != nil {
		return nil, err
	}
	hash, err := verifyGenesis(p.Name, genesis, wantHash, genesisMerkleRoot)
	if err != nil {
		return nil, err
	}
	p.GenesisBlock = genesis
	p.GenesisHash = hash

	if err := p.Validate(); err != nil {
		return nil, err
	}
	log.Tracef("Constructed %s network parameters", p.Name)
	return p, nil
}
