// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"

	"github.com/btcsuite/btcd/wire"
)

// NewTestNetParams builds the network parameters for the test network.  The
// test network shares the genesis block, deployments and address prefixes of
// the main network and differs in its magic, port, checkpoints and chain work
// hints.
func NewTestNetParams() (*Params, error) {
	p := &Params{
		Name:        TestNetName,
		Net:         wire.TestNet3,
		DefaultPort: "8333",
		DNSSeeds: []DNSSeed{
			{"127.0.0.1:43110/139H5wy8H3tgXwJ33mXpwmm4oCfjKUo7dY", true},
		},

		// Chain parameters
		PowLimit:                 mainPowLimit,
		PowLimitBits:             0x1d00ffff,
		BIP0016Height:            0,
		BIP0034Height:            227931,
		BIP0034Hash:              newHashFromStr("00000000ac6a39893714f4240301f40abff1afcdcaf51d2f40ce6675a73f0961"),
		BIP0065Height:            388381,
		BIP0066Height:            363725,
		SubsidyReductionInterval: 210000,
		TargetTimespan:           time.Second * 2 * 24 * 84,
		TargetTimePerBlock:       time.Second * 2,
		ReduceMinDifficulty:      false,
		NoRetargeting:            false,
		MinimumChainWork:         hexToBigInt("100110011001"),
		DefaultAssumeValid:       newHashFromStr("00000000d7674ad1e7703e7ba02b7611c12fe74de27b6a414cf6e906cc3599e9"),

		// Checkpoints ordered from oldest to newest.
		Checkpoints: []Checkpoint{
			{1024, newHashFromStr("00000000fb559851169e0d915093533d31af0d963e06a7d80a20496f9cfd2b9f")},
			{2048, newHashFromStr("00000000a753b360bb5d54908378d999132fbeb415279ef530b397ae249cbef4")},
		},
		ChainTxData: ChainTxData{
			Time:    1529914513,
			TxCount: 4172,
			TxRate:  3.1,
		},
		PruneAfterHeight: 100000,

		RuleChangeActivationThreshold: 1916, // 95% of MinerConfirmationWindow
		MinerConfirmationWindow:       2016,
		Deployments:                   mainDeployments,

		DefaultConsistencyChecks: false,
		RequireStandard:          true,
		MineBlocksOnDemand:       false,

		Bech32HRPSegwit: "bc",

		// Address encoding magics
		PubKeyHashAddrID: 0x00, // starts with 1
		ScriptHashAddrID: 0x05, // starts with 3
		PrivateKeyID:     0x80, // starts with 5 (uncompressed) or K (compressed)

		// BIP32 hierarchical deterministic extended key magics
		HDPrivateKeyID: [4]byte{0x04, 0x88, 0xad, 0xe4}, // starts with xprv
		HDPublicKeyID:  [4]byte{0x04, 0x88, 0xb2, 0x1e}, // starts with xpub
	}

	return newParams(p, 1484870400, 2121032621, 0x1d00ffff, mainGenesisHash)
}
