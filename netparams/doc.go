// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package netparams selects the network a process runs on.

The selection is made once, early during startup, from a network name token
("main", "test" or "regtest").  Selecting builds the consensus parameters of
the network, verifies its genesis block and publishes the result, after which
any goroutine can read it without locking:

	name, err := netparams.ChainNameFromFlags(cfg.TestNet, cfg.RegressionTest)
	if err != nil {
		return err
	}
	if err := netparams.Select(name); err != nil {
		return err
	}
	params := netparams.Params()

Code that prefers an explicit value over process state can create its own
Registry.
*/
package netparams
