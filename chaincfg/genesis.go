// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

const (
	// genesisTimestamp is the message embedded in the coinbase signature
	// script of the genesis block of every default network.
	genesisTimestamp = "January/20/2017 45th President of the United " +
		"States of America Donald Trump"

	// genesisPubKeyHex is the 65 byte key the genesis coinbase output pays
	// to.  It is not a valid curve point, so the output is unspendable and
	// the key must never be parsed.
	genesisPubKeyHex = "04ea1e6e7cace7b63b88949a3f43f0144b0032eaa9ee6c9627" +
		"fc58bfb51163a262542fd8cdd3cc40186a1aeeb4857c15954e6f15f789bfdc" +
		"f9cec59863cdfc6e14"

	// genesisCoinbaseBits is the difficulty bits literal pushed first in
	// the genesis coinbase signature script.  It is inert data.
	genesisCoinbaseBits = 486604799

	// genesisReward is the subsidy of the genesis coinbase output.
	genesisReward = 50 * btcutil.SatoshiPerBitcoin
)

// genesisMerkleRoot is the merkle root of the genesis block for every default
// network.  They all share the same coinbase transaction.
var genesisMerkleRoot = newHashFromStr("7e2c59b1404833991962e7e6d95a1d4f81f03fffeaf79c0d25d97d24182db485")

// BuildGenesisBlock constructs the first block of a chain.  The block holds a
// single coinbase transaction whose signature script pushes the difficulty
// bits literal 486604799, a one byte push of 4 and the raw bytes of timestamp,
// and whose only output pays reward to outputScript.  The header has an all
// zero previous block hash and commits to the coinbase through the merkle
// root.
//
// The function is deterministic: the same arguments always produce the same
// block.
func BuildGenesisBlock(timestamp string, outputScript []byte, blockTime,
	nonce, bits uint32, version int32, reward btcutil.Amount) (*wire.MsgBlock, error) {

	// The second push is the raw vector {0x04} rather than OP_4, so it is
	// added as an explicit data push opcode.
	sigScript, err := txscript.NewScriptBuilder().
		AddInt64(genesisCoinbaseBits).
		AddOps([]byte{txscript.OP_DATA_1, 0x04}).
		AddData([]byte(timestamp)).
		Script()
	if err != nil {
		return nil, err
	}

	coinbase := wire.NewMsgTx(1)
	prevOut := wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex)
	coinbase.AddTxIn(wire.NewTxIn(prevOut, sigScript, nil))
	coinbase.AddTxOut(wire.NewTxOut(int64(reward), outputScript))
	coinbase.LockTime = 0

	merkleRoot := blockchain.CalcMerkleRoot(
		[]*btcutil.Tx{btcutil.NewTx(coinbase)}, false)

	return &wire.MsgBlock{
		Header: wire.BlockHeader{
			Version:    version,
			PrevBlock:  chainhash.Hash{},
			MerkleRoot: merkleRoot,
			Timestamp:  time.Unix(int64(blockTime), 0),
			Bits:       bits,
			Nonce:      nonce,
		},
		Transactions: []*wire.MsgTx{coinbase},
	}, nil
}

// genesisOutputScript returns the pay-to-pubkey script the genesis coinbase of
// the default networks pays to.
func genesisOutputScript() ([]byte, error) {
	pubKey, err := hex.DecodeString(genesisPubKeyHex)
	if err != nil {
		return nil, err
	}
	return txscript.NewScriptBuilder().
		AddData(pubKey).
		AddOp(txscript.OP_CHECKSIG).
		Script()
}

// CreateGenesisBlock builds a genesis block using the timestamp message and
// output script shared by the default networks.
func CreateGenesisBlock(blockTime, nonce, bits uint32, version int32,
	reward btcutil.Amount) (*wire.MsgBlock, error) {

	outputScript, err := genesisOutputScript()
	if err != nil {
		return nil, err
	}
	return BuildGenesisBlock(genesisTimestamp, outputScript, blockTime,
		nonce, bits, version, reward)
}

// verifyGenesis ensures the constructed genesis block hashes to the hard-coded
// values.  A mismatch means the construction parameters are wrong, so the
// network must not be used.
func verifyGenesis(name string, block *wire.MsgBlock, wantHash,
	wantMerkleRoot *chainhash.Hash) (*chainhash.Hash, error) {

	if !block.Header.MerkleRoot.IsEqual(wantMerkleRoot) {
		str := fmt.Sprintf("%s: genesis merkle root %v does not match "+
			"expected %v", name, block.Header.MerkleRoot,
			wantMerkleRoot)
		return nil, configError(ErrGenesisMismatch, str)
	}

	hash := block.BlockHash()
	if !hash.IsEqual(wantHash) {
		str := fmt.Sprintf("%s: genesis hash %v does not match "+
			"expected %v", name, hash, wantHash)
		return nil, configError(ErrGenesisMismatch, str)
	}

	log.Debugf("Verified %s genesis block %v", name, hash)
	return &hash, nil
}
