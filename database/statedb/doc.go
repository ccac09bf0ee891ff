// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package statedb persists the deployment threshold states computed by a
blockchain.HeaderChain in a leveldb database so that a restarted process does
not have to walk the whole header chain again.

The database is a cache.  Every state it holds can be recomputed from the
headers, and the chain only loads states for headers it already knows that
close a confirmation window.  Deleting the database is always safe.

Each database is bound to the network it was created for.  Opening it for a
different network fails with ErrNetworkMismatch.

Key layout:

	"net"                                  -> network magic (4 bytes, little endian)
	"ts" || len(bucket) (2 bytes, BE) || bucket || block hash -> state (1 byte)
*/
package statedb
