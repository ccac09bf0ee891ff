// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// regressionGenesisHash is the hash of the genesis block of the regression
// test network.
var regressionGenesisHash = newHashFromStr("79a6a4d5e19d4e5c6783691ba9ad75c7c352f906275b93dcad27ea0c3017ec80")

// regressionDeploymentWindow bounds every deployment of the regression test
// network so that tests can drive the full state machine.
const (
	regressionDeploymentStart  = 0
	regressionDeploymentExpire = 999999999999
)

// NewRegressionNetParams builds the network parameters for the regression test
// network.  Not to be confused with the test network, this network is
// sometimes simply called "regtest".
func NewRegressionNetParams() (*Params, error) {
	p := &Params{
		Name:        RegressionNetName,
		Net:         wire.TestNet,
		DefaultPort: "18444",
		DNSSeeds:    []DNSSeed{}, // NOTE: There must NOT be any seeds.

		// Chain parameters
		PowLimit:                 regressionPowLimit,
		PowLimitBits:             0x207fffff,
		BIP0016Height:            0,
		BIP0034Height:            100000000, // Not active, permits block v1 in tests
		BIP0034Hash:              &chainhash.Hash{},
		BIP0065Height:            1351, // Used by regression tests
		BIP0066Height:            1251, // Used by regression tests
		SubsidyReductionInterval: 150,
		TargetTimespan:           time.Second * 2 * 24 * 84,
		TargetTimePerBlock:       time.Second * 2,
		ReduceMinDifficulty:      true,
		NoRetargeting:            true,
		MinimumChainWork:         hexToBigInt("00"),
		DefaultAssumeValid:       &chainhash.Hash{},

		// Checkpoints ordered from oldest to newest.
		Checkpoints: []Checkpoint{
			{0, regressionGenesisHash},
		},
		ChainTxData:      ChainTxData{},
		PruneAfterHeight: 1000,

		// Consensus rule change deployments.
		//
		// The miner confirmation window is defined as:
		//   target proof of work timespan / target proof of work spacing
		RuleChangeActivationThreshold: 108, // 75% of MinerConfirmationWindow
		MinerConfirmationWindow:       144,
		Deployments: [DefinedDeployments]ConsensusDeployment{
			DeploymentTestDummy: {
				BitNumber:  28,
				StartTime:  regressionDeploymentStart,
				ExpireTime: regressionDeploymentExpire,
			},
			DeploymentCSV: {
				BitNumber:  0,
				StartTime:  regressionDeploymentStart,
				ExpireTime: regressionDeploymentExpire,
			},
			DeploymentSegwit: {
				BitNumber:  1,
				StartTime:  regressionDeploymentStart,
				ExpireTime: regressionDeploymentExpire,
			},
		},

		DefaultConsistencyChecks: true,
		RequireStandard:          false,
		MineBlocksOnDemand:       true,

		// Human-readable part for Bech32 encoded segwit addresses, as defined in
		// BIP 173.
		Bech32HRPSegwit: "bcrt",

		// Address encoding magics
		PubKeyHashAddrID: 0x6f, // starts with m or n
		ScriptHashAddrID: 0xc4, // starts with 2
		PrivateKeyID:     0xef, // starts with 9 (uncompressed) or c (compressed)

		// BIP32 hierarchical deterministic extended key magics
		HDPrivateKeyID: [4]byte{0x04, 0x35, 0x83, 0x94}, // starts with tprv
		HDPublicKeyID:  [4]byte{0x04, 0x35, 0x87, 0xcf}, // starts with tpub
	}

	return newParams(p, 1484956800, 0, 0x207fffff, regressionGenesisHash)
}
