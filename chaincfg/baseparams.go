// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"fmt"
)

// BaseParams holds the per network settings used by the process plumbing
// rather than by consensus: the default RPC port and the data directory
// namespace.
type BaseParams struct {
	// Name is the network name token.
	Name string

	// RPCPort is the default port of the RPC server.
	RPCPort string

	// DataDir is the sub directory of the data directory used by the
	// network.  The main network stores its data at the root.
	DataDir string
}

// NewBaseParams returns the base parameters of the passed network.
func NewBaseParams(n Network) (*BaseParams, error) {
	switch n {
	case MainNetwork:
		return &BaseParams{Name: MainNetName, RPCPort: "26552"}, nil
	case TestNetwork:
		return &BaseParams{Name: TestNetName, RPCPort: "8332", DataDir: "ai"}, nil
	case RegressionNetwork:
		return &BaseParams{Name: RegressionNetName, RPCPort: "18443",
			DataDir: "regtest"}, nil
	}
	str := fmt.Sprintf("unknown network %d", uint8(n))
	return nil, configError(ErrUnknownChain, str)
}
