// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netparams

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/starwels/starwelsd/chaincfg"
)

// selection groups everything known about the selected network.  A selection
// is never modified once published.
type selection struct {
	network chaincfg.Network
	params  *chaincfg.Params
	base    *chaincfg.BaseParams
}

// Registry holds the network parameters selected for a process.  A network
// can be selected once; afterwards the parameters can be read from any
// goroutine without locking.
//
// The returned parameters are shared and must be treated as read-only.
// UpdateDeploymentWindow never modifies parameters that were already handed
// out, it publishes an updated copy instead.
type Registry struct {
	// mtx serializes selection and updates.  Readers never take it.
	mtx     sync.Mutex
	current atomic.Pointer[selection]
}

// NewRegistry returns a registry with no network selected.
func NewRegistry() *Registry {
	return &Registry{}
}

// notSelectedError returns the error reported when the parameters are
// requested before a network was selected.
func notSelectedError() chaincfg.ConfigError {
	return chaincfg.ConfigError{
		ErrorCode:   chaincfg.ErrNotSelected,
		Description: "no network has been selected",
	}
}

// Select builds and publishes the parameters of the network with the passed
// name token.  Unknown tokens fail with ErrUnknownChain without touching the
// registry.  Selecting the already selected network again is a no-op, while
// selecting a different one fails with ErrAlreadySelected.
//
// A failure to build the parameters, such as a genesis block that does not
// hash to the expected value, leaves the registry unselected.
//
// This function is safe for concurrent access.
func (r *Registry) Select(name string) error {
	network, err := chaincfg.NetworkFromName(name)
	if err != nil {
		return err
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	if cur := r.current.Load(); cur != nil {
		if cur.network == network {
			return nil
		}
		str := fmt.Sprintf("cannot select network %s, %s is already "+
			"selected", network, cur.network)
		return chaincfg.ConfigError{
			ErrorCode:   chaincfg.ErrAlreadySelected,
			Description: str,
		}
	}

	params, err := chaincfg.NewParams(network)
	if err != nil {
		return err
	}
	base, err := chaincfg.NewBaseParams(network)
	if err != nil {
		return err
	}

	r.current.Store(&selection{
		network: network,
		params:  params,
		base:    base,
	})
	log.Infof("Selected %s network (genesis %v)", network,
		params.GenesisHash)

	return nil
}

// Selected returns the selected network and whether one was selected at all.
//
// This function is safe for concurrent access.
func (r *Registry) Selected() (chaincfg.Network, bool) {
	cur := r.current.Load()
	if cur == nil {
		return 0, false
	}
	return cur.network, true
}

// Current returns the parameters of the selected network, or ErrNotSelected
// when no network was selected yet.
//
// This function is safe for concurrent access.
func (r *Registry) Current() (*chaincfg.Params, error) {
	cur := r.current.Load()
	if cur == nil {
		return nil, notSelectedError()
	}
	return cur.params, nil
}

// CurrentBase returns the base parameters of the selected network, or
// ErrNotSelected when no network was selected yet.
//
// This function is safe for concurrent access.
func (r *Registry) CurrentBase() (*chaincfg.BaseParams, error) {
	cur := r.current.Load()
	if cur == nil {
		return nil, notSelectedError()
	}
	return cur.base, nil
}

// Params returns the parameters of the selected network.  It panics when no
// network was selected, since reading parameters before selecting a network
// is a programming error.
//
// This function is safe for concurrent access.
func (r *Registry) Params() *chaincfg.Params {
	params, err := r.Current()
	if err != nil {
		panic(err)
	}
	return params
}

// BaseParams returns the base parameters of the selected network.  It panics
// when no network was selected.
//
// This function is safe for concurrent access.
func (r *Registry) BaseParams() *chaincfg.BaseParams {
	base, err := r.CurrentBase()
	if err != nil {
		panic(err)
	}
	return base
}

// UpdateDeploymentWindow replaces the start time and timeout of one deployment
// of the selected network.  Every other field is left as is.  It is meant for
// test harnesses that need to move a deployment window on the regression test
// network.
//
// The update is published as a new copy of the parameters, so values returned
// by earlier calls to Params keep their old window.  An update that makes the
// parameters inconsistent, such as two deployments signalling on the same bit
// at the same time, is rejected and leaves the registry unchanged.
//
// The caller must make sure no deployment states are being evaluated with the
// old parameters while the window moves.
func (r *Registry) UpdateDeploymentWindow(id chaincfg.DeploymentID, startTime, expireTime int64) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	cur := r.current.Load()
	if cur == nil {
		return notSelectedError()
	}
	if !id.IsDefined() {
		str := fmt.Sprintf("unknown deployment %v", id)
		return chaincfg.ConfigError{
			ErrorCode:   chaincfg.ErrUnknownDeployment,
			Description: str,
		}
	}

	params := *cur.params
	params.Deployments[id].StartTime = startTime
	params.Deployments[id].ExpireTime = expireTime
	if err := params.Validate(); err != nil {
		return err
	}

	r.current.Store(&selection{
		network: cur.network,
		params:  &params,
		base:    cur.base,
	})
	log.Infof("Deployment %v window of the %s network moved to [%d, %d)",
		id, cur.network, startTime, expireTime)

	return nil
}

// ChainNameFromFlags resolves the network name token from the mutually
// exclusive network selection flags.  The main network is used when neither
// flag is set.
func ChainNameFromFlags(testNet, regressionTest bool) (string, error) {
	switch {
	case testNet && regressionTest:
		return "", chaincfg.ConfigError{
			ErrorCode: chaincfg.ErrInvalidCombination,
			Description: "the testnet and regtest params can't be " +
				"used together -- choose one of the two",
		}
	case regressionTest:
		return chaincfg.RegressionNetName, nil
	case testNet:
		return chaincfg.TestNetName, nil
	}
	return chaincfg.MainNetName, nil
}
