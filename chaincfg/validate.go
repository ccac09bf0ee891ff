// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"fmt"
)

// Validate checks the internal consistency of the parameters: the voting
// threshold fits the confirmation window, every deployment is well formed, no
// two deployments that can be signalled at the same time share a bit, and the
// checkpoints are strictly increasing in height.
func (p *Params) Validate() error {
	if p.MinerConfirmationWindow == 0 ||
		p.RuleChangeActivationThreshold == 0 ||
		p.RuleChangeActivationThreshold > p.MinerConfirmationWindow {

		str := fmt.Sprintf("%s: rule change activation threshold %d "+
			"does not fit the miner confirmation window %d", p.Name,
			p.RuleChangeActivationThreshold,
			p.MinerConfirmationWindow)
		return configError(ErrInvalidThreshold, str)
	}

	for id := range p.Deployments {
		if err := validateDeployment(DeploymentID(id), &p.Deployments[id]); err != nil {
			return err
		}
	}

	for i := 0; i < len(p.Deployments); i++ {
		for j := i + 1; j < len(p.Deployments); j++ {
			a, b := &p.Deployments[i], &p.Deployments[j]
			if a.BitNumber != b.BitNumber || !signalWindowsOverlap(a, b) {
				continue
			}
			str := fmt.Sprintf("%s: deployments %v and %v both "+
				"signal on bit %d during overlapping windows",
				p.Name, DeploymentID(i), DeploymentID(j),
				a.BitNumber)
			return configError(ErrDeploymentBitCollision, str)
		}
	}

	for i := 1; i < len(p.Checkpoints); i++ {
		prev, cur := p.Checkpoints[i-1].Height, p.Checkpoints[i].Height
		if cur <= prev {
			str := fmt.Sprintf("%s: checkpoint at height %d follows "+
				"checkpoint at height %d", p.Name, cur, prev)
			return configError(ErrCheckpointOrder, str)
		}
	}

	return nil
}

// validateDeployment ensures the bit is usable with the versionbits framing
// and the start time does not come after the timeout.
func validateDeployment(id DeploymentID, d *ConsensusDeployment) error {
	if d.BitNumber > MaxDeploymentBit {
		str := fmt.Sprintf("deployment %v uses bit %d, the highest "+
			"usable bit is %d", id, d.BitNumber, MaxDeploymentBit)
		return configError(ErrInvalidDeployment, str)
	}
	if d.IsAlwaysActive() {
		return nil
	}
	if d.StartTime < 0 {
		str := fmt.Sprintf("deployment %v has negative start time %d",
			id, d.StartTime)
		return configError(ErrInvalidDeployment, str)
	}
	if !d.NeverExpires() && d.StartTime > d.ExpireTime {
		str := fmt.Sprintf("deployment %v starts at %d after its "+
			"timeout %d", id, d.StartTime, d.ExpireTime)
		return configError(ErrInvalidDeployment, str)
	}
	return nil
}

// signalWindowsOverlap returns whether there is a time at which both
// deployments may be in the started state.  Deployments that are always active
// never signal and so never overlap anything.
func signalWindowsOverlap(a, b *ConsensusDeployment) bool {
	if a.IsAlwaysActive() || b.IsAlwaysActive() {
		return false
	}
	return a.StartTime < b.ExpireTime && b.StartTime < a.ExpireTime
}
