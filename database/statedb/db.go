// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package statedb

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/starwels/starwelsd/blockchain"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	// networkKeyName is the key holding the magic of the network the
	// database was created for.
	networkKeyName = []byte("net")

	// stateKeyPrefix is the prefix of every threshold state key.
	stateKeyPrefix = []byte("ts")
)

// DB is a leveldb backed store of deployment threshold states.  It
// implements the blockchain.ThresholdStateStore interface.
type DB struct {
	ldb     *leveldb.DB
	network wire.BitcoinNet
}

// Ensure DB implements the blockchain.ThresholdStateStore interface.
var _ blockchain.ThresholdStateStore = (*DB)(nil)

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// dbOptions returns the leveldb options used for every database.  The values
// are single bytes, so compression buys nothing.
func dbOptions() *opt.Options {
	return &opt.Options{
		Strict:      opt.DefaultStrict,
		Compression: opt.NoCompression,
		Filter:      filter.NewBloomFilter(10),
	}
}

// Open opens the database at the provided path for the passed network.
// ErrDbDoesNotExist is returned if the database doesn't exist and the create
// flag is not set.
func Open(dbPath string, network wire.BitcoinNet, create bool) (*DB, error) {
	dbExists := fileExists(dbPath)
	if !create && !dbExists {
		str := fmt.Sprintf("database %q does not exist", dbPath)
		return nil, makeDbErr(ErrDbDoesNotExist, str, nil)
	}

	// The parent directories are created by leveldb.OpenFile.
	ldb, err := leveldb.OpenFile(dbPath, dbOptions())
	if err != nil {
		return nil, convertErr(err.Error(), err)
	}

	db, err := initDB(ldb, network)
	if err != nil {
		_ = ldb.Close()
		return nil, err
	}

	log.Infof("Opened threshold state database %s", dbPath)
	return db, nil
}

// OpenStorage opens a database on the passed leveldb storage for the passed
// network.  It is mainly useful with storage.NewMemStorage.
func OpenStorage(stor storage.Storage, network wire.BitcoinNet) (*DB, error) {
	ldb, err := leveldb.Open(stor, dbOptions())
	if err != nil {
		return nil, convertErr(err.Error(), err)
	}

	db, err := initDB(ldb, network)
	if err != nil {
		_ = ldb.Close()
		return nil, err
	}
	return db, nil
}

// initDB binds a freshly created database to the network or ensures an
// existing one belongs to it.
func initDB(ldb *leveldb.DB, network wire.BitcoinNet) (*DB, error) {
	var want [4]byte
	binary.LittleEndian.PutUint32(want[:], uint32(network))

	stored, err := ldb.Get(networkKeyName, nil)
	switch {
	case err == leveldb.ErrNotFound:
		if err := ldb.Put(networkKeyName, want[:], nil); err != nil {
			str := fmt.Sprintf("failed to store network: %v", err)
			return nil, convertErr(str, err)
		}

	case err != nil:
		return nil, convertErr("failed to read network", err)

	case len(stored) != len(want):
		str := fmt.Sprintf("stored network has %d bytes", len(stored))
		return nil, makeDbErr(ErrCorruption, str, nil)

	default:
		storedNet := wire.BitcoinNet(binary.LittleEndian.Uint32(stored))
		if storedNet != network {
			str := fmt.Sprintf("database was created for network %v, "+
				"not %v", storedNet, network)
			return nil, makeDbErr(ErrNetworkMismatch, str, nil)
		}
	}

	return &DB{ldb: ldb, network: network}, nil
}

// bucketPrefix returns the prefix of the keys of every state in the bucket.
func bucketPrefix(bucket []byte) []byte {
	prefix := make([]byte, 0, len(stateKeyPrefix)+2+len(bucket))
	prefix = append(prefix, stateKeyPrefix...)
	prefix = binary.BigEndian.AppendUint16(prefix, uint16(len(bucket)))
	return append(prefix, bucket...)
}

// stateKey returns the key of the state of the block with the passed hash in
// the bucket.
func stateKey(prefix []byte, hash *chainhash.Hash) []byte {
	key := make([]byte, 0, len(prefix)+chainhash.HashSize)
	key = append(key, prefix...)
	return append(key, hash[:]...)
}

// FetchThresholdStates returns every state stored in the bucket.
//
// This is part of the blockchain.ThresholdStateStore interface implementation.
func (db *DB) FetchThresholdStates(bucket []byte) (map[chainhash.Hash]blockchain.ThresholdState, error) {
	prefix := bucketPrefix(bucket)
	iter := db.ldb.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	states := make(map[chainhash.Hash]blockchain.ThresholdState)
	for iter.Next() {
		key, value := iter.Key(), iter.Value()
		if len(key) != len(prefix)+chainhash.HashSize {
			str := fmt.Sprintf("threshold state key has %d bytes",
				len(key))
			return nil, makeDbErr(ErrCorruption, str, nil)
		}
		if len(value) != 1 || value[0] > byte(blockchain.ThresholdFailed) {
			str := fmt.Sprintf("invalid threshold state %x", value)
			return nil, makeDbErr(ErrCorruption, str, nil)
		}

		var hash chainhash.Hash
		copy(hash[:], key[len(prefix):])
		states[hash] = blockchain.ThresholdState(value[0])
	}
	if err := iter.Error(); err != nil {
		return nil, convertErr("failed to iterate threshold states", err)
	}

	return states, nil
}

// PutThresholdStates stores the states in the bucket as a single atomic batch.
//
// This is part of the blockchain.ThresholdStateStore interface implementation.
func (db *DB) PutThresholdStates(bucket []byte, states map[chainhash.Hash]blockchain.ThresholdState) error {
	prefix := bucketPrefix(bucket)
	batch := new(leveldb.Batch)
	for hash, state := range states {
		batch.Put(stateKey(prefix, &hash), []byte{byte(state)})
	}
	if err := db.ldb.Write(batch, nil); err != nil {
		str := fmt.Sprintf("failed to store %d threshold states",
			len(states))
		return convertErr(str, err)
	}

	log.Debugf("Stored %d threshold states", len(states))
	return nil
}

// Network returns the network the database belongs to.
func (db *DB) Network() wire.BitcoinNet {
	return db.network
}

// Close closes the database.  Any further use of it fails with ErrDbNotOpen.
func (db *DB) Close() error {
	if err := db.ldb.Close(); err != nil {
		return convertErr("failed to close database", err)
	}
	return nil
}
