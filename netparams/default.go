// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netparams

import (
	"github.com/starwels/starwelsd/chaincfg"
)

// defaultRegistry is the registry of the process.
var defaultRegistry = NewRegistry()

// Select selects the network of the process.  See Registry.Select.
func Select(name string) error {
	return defaultRegistry.Select(name)
}

// Selected returns the network of the process, if one was selected.
func Selected() (chaincfg.Network, bool) {
	return defaultRegistry.Selected()
}

// Current returns the parameters of the network of the process.  See
// Registry.Current.
func Current() (*chaincfg.Params, error) {
	return defaultRegistry.Current()
}

// CurrentBase returns the base parameters of the network of the process.
func CurrentBase() (*chaincfg.BaseParams, error) {
	return defaultRegistry.CurrentBase()
}

// Params returns the parameters of the network of the process and panics when
// none was selected.
func Params() *chaincfg.Params {
	return defaultRegistry.Params()
}

// BaseParams returns the base parameters of the network of the process and
// panics when none was selected.
func BaseParams() *chaincfg.BaseParams {
	return defaultRegistry.BaseParams()
}

// UpdateDeploymentWindow moves a deployment window of the network of the
// process.  See Registry.UpdateDeploymentWindow.
func UpdateDeploymentWindow(id chaincfg.DeploymentID, startTime, expireTime int64) error {
	return defaultRegistry.UpdateDeploymentWindow(id, startTime, expireTime)
}
