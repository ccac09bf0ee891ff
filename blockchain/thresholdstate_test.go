// Copyright (c) 2016-2017 The btcsuite developers
// Copyright (c) 2017-2018 The Starwels developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/starwels/starwelsd/chaincfg"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestThresholdStateStringer tests the stringized output for the
// ThresholdState type.
func TestThresholdStateStringer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   ThresholdState
		want string
	}{
		{ThresholdDefined, "ThresholdDefined"},
		{ThresholdStarted, "ThresholdStarted"},
		{ThresholdLockedIn, "ThresholdLockedIn"},
		{ThresholdActive, "ThresholdActive"},
		{ThresholdFailed, "ThresholdFailed"},
		{0xff, "Unknown ThresholdState (255)"},
	}

	// Detect additional threshold states that don't have the stringer added.
	if len(tests)-1 != int(numThresholdsStates) {
		t.Errorf("It appears a threshold state was added without " +
			"adding an associated stringer test")
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		result := test.in.String()
		if result != test.want {
			t.Errorf("String #%d\n got: %s want: %s", i, result,
				test.want)
			continue
		}
	}

	// The numeric values are persisted and must never change.
	require.Equal(t, []byte{0, 1, 2, 3, 4}, []byte{byte(ThresholdDefined),
		byte(ThresholdStarted), byte(ThresholdLockedIn),
		byte(ThresholdActive), byte(ThresholdFailed)})
}

// TestThresholdStateCache ensure the threshold state cache works as intended
// including adding entries, updating existing entries, and flushing.
func TestThresholdStateCache(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		numEntries int
		state      ThresholdState
	}{
		{name: "2 entries defined", numEntries: 2, state: ThresholdDefined},
		{name: "7 entries started", numEntries: 7, state: ThresholdStarted},
		{name: "10 entries active", numEntries: 10, state: ThresholdActive},
		{name: "5 entries locked in", numEntries: 5, state: ThresholdLockedIn},
		{name: "3 entries failed", numEntries: 3, state: ThresholdFailed},
	}

nextTest:
	for _, test := range tests {
		cache := newThresholdStateCache()
		for i := 0; i < test.numEntries; i++ {
			var hash chainhash.Hash
			hash[0] = uint8(i + 1)

			// Ensure the hash isn't available in the cache already.
			_, ok := cache.Lookup(&hash)
			if ok {
				t.Errorf("Lookup (%s): has entry for hash %v",
					test.name, hash)
				continue nextTest
			}

			// Ensure hash that was added to the cache reports it's
			// available and the state is the expected value.
			cache.Update(&hash, test.state)
			state, ok := cache.Lookup(&hash)
			if !ok {
				t.Errorf("Lookup (%s): missing entry for hash "+
					"%v", test.name, hash)
				continue nextTest
			}
			if state != test.state {
				t.Errorf("Lookup (%s): state mismatch - got "+
					"%v, want %v", test.name, state,
					test.state)
				continue nextTest
			}

			// Ensure the update is also added to the internal
			// database updates map and its state matches.
			state, ok = cache.dbUpdates[hash]
			if !ok {
				t.Errorf("dbUpdates (%s): missing entry for "+
					"hash %v", test.name, hash)
				continue nextTest
			}
			if state != test.state {
				t.Errorf("dbUpdates (%s): state mismatch - "+
					"got %v, want %v", test.name, state,
					test.state)
				continue nextTest
			}

			// Ensure flushing the cache removes all entries from
			// the internal database updates map.
			cache.MarkFlushed()
			if len(cache.dbUpdates) != 0 {
				t.Errorf("dbUpdates (%s): unflushed entries",
					test.name)
				continue nextTest
			}

			// Ensure hash is still available in the cache and the
			// state is the expected value.
			state, ok = cache.Lookup(&hash)
			if !ok {
				t.Errorf("Lookup (%s): missing entry after "+
					"flush for hash %v", test.name, hash)
				continue nextTest
			}
			if state != test.state {
				t.Errorf("Lookup (%s): state mismatch after "+
					"flush - got %v, want %v", test.name,
					state, test.state)
				continue nextTest
			}

			// Ensure adding an existing hash with the same state
			// doesn't break the existing entry and it is NOT added
			// to the database updates map.
			cache.Update(&hash, test.state)
			state, ok = cache.Lookup(&hash)
			if !ok {
				t.Errorf("Lookup (%s): missing entry after "+
					"second add for hash %v", test.name,
					hash)
				continue nextTest
			}
			if state != test.state {
				t.Errorf("Lookup (%s): state mismatch after "+
					"second add - got %v, want %v",
					test.name, state, test.state)
				continue nextTest
			}
			if len(cache.dbUpdates) != 0 {
				t.Errorf("dbUpdates (%s): unflushed entries "+
					"after duplicate add", test.name)
				continue nextTest
			}

			// Ensure adding an existing hash with a different state
			// updates the existing entry.
			newState := ThresholdFailed
			if newState == test.state {
				newState = ThresholdStarted
			}
			cache.Update(&hash, newState)
			state, ok = cache.Lookup(&hash)
			if !ok {
				t.Errorf("Lookup (%s): missing entry after "+
					"state change for hash %v", test.name,
					hash)
				continue nextTest
			}
			if state != newState {
				t.Errorf("Lookup (%s): state mismatch after "+
					"state change - got %v, want %v",
					test.name, state, newState)
				continue nextTest
			}

			// Ensure the update is also added to the internal
			// database updates map and its state matches.
			state, ok = cache.dbUpdates[hash]
			if !ok {
				t.Errorf("dbUpdates (%s): missing entry after "+
					"state change for hash %v", test.name,
					hash)
				continue nextTest
			}
			if state != newState {
				t.Errorf("dbUpdates (%s): state mismatch "+
					"after state change - got %v, want %v",
					test.name, state, newState)
				continue nextTest
			}
		}

		cache.Reset()
		require.Empty(t, cache.entries, test.name)
		require.Empty(t, cache.dbUpdates, test.name)
	}
}

// TestDeploymentLifecycle ensures a deployment moves through every state when
// a full window signals for it.
func TestDeploymentLifecycle(t *testing.T) {
	t.Parallel()

	params := regressionParams(t)
	window := int(params.MinerConfirmationWindow)
	w := int32(window)
	c := newTestChain(t, params)

	// Every block of the first window is defined by definition.
	c.requireState(0, chaincfg.DeploymentCSV, ThresholdDefined)
	c.extend(window-1, vbNoSignal)
	c.requireState(w-1, chaincfg.DeploymentCSV, ThresholdDefined)

	// The start time of every regression test deployment has passed when
	// the first window closes.
	c.requireState(w, chaincfg.DeploymentCSV, ThresholdStarted)
	c.requireState(w, chaincfg.DeploymentSegwit, ThresholdStarted)

	// A fully signalling window locks the deployment in.
	c.extendSignalling(window, window, vbTopBits|1<<0)
	c.requireState(2*w-1, chaincfg.DeploymentCSV, ThresholdStarted)
	c.requireState(2*w, chaincfg.DeploymentCSV, ThresholdLockedIn)
	c.requireState(2*w, chaincfg.DeploymentSegwit, ThresholdStarted)

	// The deployment activates one window later regardless of signalling.
	c.extend(window, vbNoSignal)
	c.requireState(3*w-1, chaincfg.DeploymentCSV, ThresholdLockedIn)
	c.requireState(3*w, chaincfg.DeploymentCSV, ThresholdActive)

	// Active is terminal.
	c.extend(2*window, vbNoSignal)
	c.requireState(5*w, chaincfg.DeploymentCSV, ThresholdActive)
	c.requireState(5*w, chaincfg.DeploymentSegwit, ThresholdStarted)

	active, err := c.chain.IsDeploymentActive(chaincfg.DeploymentCSV)
	require.NoError(t, err)
	require.True(t, active)

	active, err = c.chain.IsDeploymentActive(chaincfg.DeploymentSegwit)
	require.NoError(t, err)
	require.False(t, active)

	// The previous hash based query agrees with the height based one.
	prevHash, err := c.chain.BlockHashByHeight(2*w - 1)
	require.NoError(t, err)
	state, err := c.chain.ThresholdState(prevHash, chaincfg.DeploymentCSV)
	require.NoError(t, err)
	require.Equal(t, ThresholdLockedIn, state)
}

// TestThresholdBoundary ensures one vote short of the threshold keeps the
// deployment started while exactly the threshold locks it in.
func TestThresholdBoundary(t *testing.T) {
	t.Parallel()

	params := regressionParams(t)
	window := int(params.MinerConfirmationWindow)
	threshold := int(params.RuleChangeActivationThreshold)
	w := int32(window)
	c := newTestChain(t, params)

	c.extend(window-1, vbNoSignal)
	c.requireState(w, chaincfg.DeploymentSegwit, ThresholdStarted)

	c.extendSignalling(window, threshold-1, vbTopBits|1<<1)
	c.requireState(2*w, chaincfg.DeploymentSegwit, ThresholdStarted)

	c.extendSignalling(window, threshold, vbTopBits|1<<1)
	c.requireState(3*w, chaincfg.DeploymentSegwit, ThresholdLockedIn)
	c.requireState(3*w, chaincfg.DeploymentCSV, ThresholdStarted)
}

// TestTopBitsFraming ensures only versions with the version bits framing count
// as signals.
func TestTopBitsFraming(t *testing.T) {
	t.Parallel()

	params := regressionParams(t)
	window := int(params.MinerConfirmationWindow)
	w := int32(window)
	c := newTestChain(t, params)

	c.extend(window-1, vbNoSignal)

	// Bit zero set with the wrong top bits.
	c.extend(window, 0x40000001)
	c.requireState(2*w, chaincfg.DeploymentCSV, ThresholdStarted)

	// Bit zero set on a legacy version.
	c.extend(window, 0x00000001)
	c.requireState(3*w, chaincfg.DeploymentCSV, ThresholdStarted)

	// Bit zero set with the top bits 111.
	c.extend(window, -0x1fffffff)
	c.requireState(4*w, chaincfg.DeploymentCSV, ThresholdStarted)

	// Bit zero set with the top bits 001.
	c.extend(window, vbTopBits|1)
	c.requireState(5*w, chaincfg.DeploymentCSV, ThresholdLockedIn)
}

// TestDeploymentTimeout ensures a started deployment that does not reach the
// threshold before its timeout fails, and that reaching the threshold in the
// window that times out still locks it in.
func TestDeploymentTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		signals int
		want    ThresholdState
	}{
		{name: "short of threshold", signals: 107, want: ThresholdFailed},
		{name: "no signals", signals: 0, want: ThresholdFailed},
		{name: "threshold reached", signals: 108, want: ThresholdLockedIn},
	}

	for _, test := range tests {
		params := regressionParams(t)
		window := int(params.MinerConfirmationWindow)
		w := int32(window)

		// The median time past of the end of the second window is past
		// the timeout while the end of the first window is not.
		csv := &params.Deployments[chaincfg.DeploymentCSV]
		csv.ExpireTime = genesisTime(params) +
			testBlockSpacing*int64(window+window/2)

		c := newTestChain(t, params)
		c.extend(window-1, vbNoSignal)
		c.requireState(w, chaincfg.DeploymentCSV, ThresholdStarted)

		c.extendSignalling(window, test.signals, vbTopBits|1)
		c.requireState(2*w, chaincfg.DeploymentCSV, test.want)

		// Failed is terminal, and locked in still activates after the
		// timeout.
		c.extendSignalling(window, window, vbTopBits|1)
		final := ThresholdFailed
		if test.want == ThresholdLockedIn {
			final = ThresholdActive
		}
		c.requireState(3*w, chaincfg.DeploymentCSV, final)
	}
}

// TestDeploymentFutureStart ensures a deployment stays defined until the
// median time past reaches its start time.
func TestDeploymentFutureStart(t *testing.T) {
	t.Parallel()

	params := regressionParams(t)
	window := int(params.MinerConfirmationWindow)
	w := int32(window)

	segwit := &params.Deployments[chaincfg.DeploymentSegwit]
	segwit.StartTime = genesisTime(params) + testBlockSpacing*int64(2*window)
	segwit.ExpireTime = segwit.StartTime + testBlockSpacing*int64(2*window)
	require.NoError(t, params.Validate())

	c := newTestChain(t, params)
	c.extend(window-1, vbNoSignal)
	c.requireState(w, chaincfg.DeploymentSegwit, ThresholdDefined)

	// Signals before the start time do not count.
	c.extend(window, vbTopBits|1<<1)
	c.requireState(2*w, chaincfg.DeploymentSegwit, ThresholdDefined)

	c.extend(window, vbNoSignal)
	c.requireState(3*w, chaincfg.DeploymentSegwit, ThresholdStarted)

	c.extend(window, vbNoSignal)
	c.requireState(4*w, chaincfg.DeploymentSegwit, ThresholdStarted)

	c.extend(window, vbNoSignal)
	c.requireState(5*w, chaincfg.DeploymentSegwit, ThresholdFailed)
}

// TestDeploymentExpiresUnstarted ensures a deployment whose timeout has passed
// by the time its start time is reached fails without ever being started.
func TestDeploymentExpiresUnstarted(t *testing.T) {
	t.Parallel()

	params := regressionParams(t)
	window := int(params.MinerConfirmationWindow)
	w := int32(window)

	// Start and timeout are equal, so the deployment can never start.
	segwit := &params.Deployments[chaincfg.DeploymentSegwit]
	segwit.StartTime = genesisTime(params) + testBlockSpacing*int64(2*window)
	segwit.ExpireTime = segwit.StartTime
	require.NoError(t, params.Validate())

	c := newTestChain(t, params)
	c.extend(2*window-1, vbTopBits|1<<1)
	c.requireState(2*w, chaincfg.DeploymentSegwit, ThresholdDefined)

	c.extend(window, vbTopBits|1<<1)
	c.requireState(3*w, chaincfg.DeploymentSegwit, ThresholdFailed)

	c.extend(window, vbTopBits|1<<1)
	c.requireState(4*w, chaincfg.DeploymentSegwit, ThresholdFailed)
}

// TestSharedBitMedianTimeJump ensures two deployments sharing a bit during
// disjoint windows are never started at the same time, even when the median
// time past skips over the whole window of the first one.
func TestSharedBitMedianTimeJump(t *testing.T) {
	t.Parallel()

	params := regressionParams(t)
	window := int(params.MinerConfirmationWindow)
	w := int32(window)
	genesis := genesisTime(params)

	csv := &params.Deployments[chaincfg.DeploymentCSV]
	csv.BitNumber = 0
	csv.StartTime = genesis + 100000
	csv.ExpireTime = genesis + 200000

	segwit := &params.Deployments[chaincfg.DeploymentSegwit]
	segwit.BitNumber = 0
	segwit.StartTime = genesis + 1000000
	segwit.ExpireTime = genesis + 2000000
	require.NoError(t, params.Validate())

	c := newTestChain(t, params)
	c.extend(window-1, vbNoSignal)
	c.requireState(w, chaincfg.DeploymentCSV, ThresholdDefined)
	c.requireState(w, chaincfg.DeploymentSegwit, ThresholdDefined)

	// Move the timestamps past the timeout of csv and the start of segwit.
	c.time = genesis + 1500000
	c.extend(window, vbNoSignal)
	c.requireState(2*w, chaincfg.DeploymentCSV, ThresholdFailed)
	c.requireState(2*w, chaincfg.DeploymentSegwit, ThresholdStarted)

	// A fully signalling window only locks in segwit.
	c.extendSignalling(window, window, vbTopBits|1)
	c.requireState(3*w, chaincfg.DeploymentCSV, ThresholdFailed)
	c.requireState(3*w, chaincfg.DeploymentSegwit, ThresholdLockedIn)

	c.extend(window, vbNoSignal)
	c.requireState(4*w, chaincfg.DeploymentCSV, ThresholdFailed)
	c.requireState(4*w, chaincfg.DeploymentSegwit, ThresholdActive)
}

// TestAlwaysActive ensures a deployment marked always active is active for
// every block including the genesis block and is never signalled.
func TestAlwaysActive(t *testing.T) {
	t.Parallel()

	params := regressionParams(t)
	params.Deployments[chaincfg.DeploymentCSV].StartTime = chaincfg.AlwaysActive
	params.Deployments[chaincfg.DeploymentCSV].ExpireTime = chaincfg.NoTimeout

	c := newTestChain(t, params)
	c.requireState(0, chaincfg.DeploymentCSV, ThresholdActive)
	c.requireState(1, chaincfg.DeploymentCSV, ThresholdActive)

	c.extend(int(params.MinerConfirmationWindow)+5, vbNoSignal)
	for height := int32(0); height <= c.height+1; height += 7 {
		c.requireState(height, chaincfg.DeploymentCSV, ThresholdActive)
	}

	version, err := c.chain.CalcNextBlockVersion()
	require.NoError(t, err)
	require.Zero(t, version&1)
}

// TestCalcNextBlockVersion ensures the expected version signals exactly the
// started and locked in deployments.
func TestCalcNextBlockVersion(t *testing.T) {
	t.Parallel()

	params := regressionParams(t)
	window := int(params.MinerConfirmationWindow)
	c := newTestChain(t, params)

	version, err := c.chain.CalcNextBlockVersion()
	require.NoError(t, err)
	require.Equal(t, int32(vbTopBits), version)

	// All three deployments started.
	c.extend(window-1, vbNoSignal)
	version, err = c.chain.CalcNextBlockVersion()
	require.NoError(t, err)
	require.Equal(t, int32(0x30000003), version)

	// The csv deployment locked in keeps signalling.
	c.extendSignalling(window, window, vbTopBits|1)
	version, err = c.chain.CalcNextBlockVersion()
	require.NoError(t, err)
	require.Equal(t, int32(0x30000003), version)

	// Once active the csv bit is released.
	c.extend(window, vbNoSignal)
	version, err = c.chain.CalcNextBlockVersion()
	require.NoError(t, err)
	require.Equal(t, int32(0x30000002), version)

	statuses, err := c.chain.DeploymentStates()
	require.NoError(t, err)
	require.Len(t, statuses, int(chaincfg.DefinedDeployments))
	for _, status := range statuses {
		want := ThresholdStarted
		if status.ID == chaincfg.DeploymentCSV {
			want = ThresholdActive
		}
		require.Equal(t, want, status.State, status.ID)
		require.Equal(t, params.Deployments[status.ID], status.Deployment)
	}
}

// TestUnknownDeployment ensures queries for deployments that are not defined
// fail.
func TestUnknownDeployment(t *testing.T) {
	t.Parallel()

	c := newTestChain(t, regressionParams(t))
	_, err := c.chain.StateForHeight(0, chaincfg.DefinedDeployments)
	require.Equal(t, DeploymentError(chaincfg.DefinedDeployments), err)

	_, err = c.chain.IsDeploymentActive(chaincfg.DefinedDeployments)
	require.Error(t, err)

	_, err = c.chain.StateForHeight(2, chaincfg.DeploymentCSV)
	require.True(t, IsNotInMainChainErr(err), "got %v", err)

	var unknown chainhash.Hash
	_, err = c.chain.ThresholdState(&unknown, chaincfg.DeploymentCSV)
	require.Equal(t, HashError(unknown.String()), err)
}

// allStates returns the state of every deployment for every height of the
// best chain and the block after it, querying in the passed height order.
func allStates(t testingT, chain *HeaderChain, heights []int32) map[int32][chaincfg.DefinedDeployments]ThresholdState {
	t.Helper()

	states := make(map[int32][chaincfg.DefinedDeployments]ThresholdState)
	for _, height := range heights {
		var row [chaincfg.DefinedDeployments]ThresholdState
		for id := chaincfg.DeploymentID(0); id < chaincfg.DefinedDeployments; id++ {
			state, err := chain.StateForHeight(height, id)
			require.NoError(t, err)
			row[id] = state
		}
		states[height] = row
	}
	return states
}

// ascending returns the heights zero through max.
func ascending(max int32) []int32 {
	heights := make([]int32, 0, max+1)
	for h := int32(0); h <= max; h++ {
		heights = append(heights, h)
	}
	return heights
}

// TestCacheDeterminism ensures the computed states do not depend on the order
// of queries or on whether the caches are warm.
func TestCacheDeterminism(t *testing.T) {
	t.Parallel()

	params := regressionParams(t)
	window := int(params.MinerConfirmationWindow)

	build := func() *testChain {
		c := newTestChain(t, params)
		c.extend(window-1, vbNoSignal)
		c.extendSignalling(window, window, vbTopBits|1)
		c.extendSignalling(window, 100, vbTopBits|1<<1)
		c.extend(window, vbNoSignal)
		return c
	}

	warm := build()
	heights := ascending(warm.height + 1)
	want := allStates(t, warm.chain, heights)

	// Reverse order on a cold chain built from the same headers.
	cold := build()
	reversed := make([]int32, len(heights))
	for i, h := range heights {
		reversed[len(heights)-1-i] = h
	}
	require.Equal(t, want, allStates(t, cold.chain, reversed))

	// Dropping the caches must not change anything either.
	warm.chain.ResetThresholdCaches()
	require.Equal(t, want, allStates(t, warm.chain, reversed))
}

// TestConcurrentQueries ensures threshold states can be queried from many
// goroutines at once.
func TestConcurrentQueries(t *testing.T) {
	t.Parallel()

	params := regressionParams(t)
	window := int(params.MinerConfirmationWindow)
	c := newTestChain(t, params)
	c.extend(window-1, vbNoSignal)
	c.extendSignalling(window, window, vbTopBits|1)
	c.extend(window, vbNoSignal)

	heights := ascending(c.height + 1)
	want := allStates(t, c.chain, heights)
	wantVersion, err := c.chain.CalcNextBlockVersion()
	require.NoError(t, err)
	c.chain.ResetThresholdCaches()

	const numGoroutines = 8
	var wg sync.WaitGroup
	errs := make(chan error, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for j := range heights {
				height := heights[(j+offset*37)%len(heights)]
				id := chaincfg.DeploymentID(j % int(chaincfg.DefinedDeployments))
				state, err := c.chain.StateForHeight(height, id)
				if err != nil {
					errs <- err
					return
				}
				if state != want[height][id] {
					errs <- fmt.Errorf("%v state at height %d: "+
						"got %v, want %v", id, height, state,
						want[height][id])
					return
				}
			}
			version, err := c.chain.CalcNextBlockVersion()
			if err != nil {
				errs <- err
				return
			}
			if version != wantVersion {
				errs <- fmt.Errorf("next block version: got "+
					"%08x, want %08x", version, wantVersion)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}

// validTransitions lists the states each state may move to from one window to
// the next.
var validTransitions = map[ThresholdState][]ThresholdState{
	ThresholdDefined:  {ThresholdDefined, ThresholdStarted, ThresholdFailed},
	ThresholdStarted:  {ThresholdStarted, ThresholdLockedIn, ThresholdFailed},
	ThresholdLockedIn: {ThresholdActive},
	ThresholdActive:   {ThresholdActive},
	ThresholdFailed:   {ThresholdFailed},
}

// TestThresholdStateProperties uses property based testing to ensure the
// states along any chain only follow the allowed transitions, are constant
// within a window and are reproducible from the headers alone.
func TestThresholdStateProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		const window = 10
		params := regressionParams(rt)
		params.MinerConfirmationWindow = window
		params.RuleChangeActivationThreshold = uint32(rapid.IntRange(
			1, window).Draw(rt, "threshold"))

		csv := &params.Deployments[chaincfg.DeploymentCSV]
		csv.StartTime = genesisTime(params) + testBlockSpacing*int64(
			rapid.IntRange(0, 6*window).Draw(rt, "start"))
		csv.ExpireTime = csv.StartTime + testBlockSpacing*int64(
			rapid.IntRange(0, 6*window).Draw(rt, "duration"))

		c := newTestChain(rt, params)
		c.extend(window-1, vbNoSignal)
		numWindows := rapid.IntRange(1, 10).Draw(rt, "windows")
		for i := 0; i < numWindows; i++ {
			signals := rapid.IntRange(0, window).Draw(rt, "signals")
			c.extendSignalling(window, signals, vbTopBits|1)
		}

		heights := ascending(c.height + 1)
		want := allStates(rt, c.chain, heights)

		prev := ThresholdDefined
		for start := int32(0); start <= c.height+1; start += window {
			state := want[start][chaincfg.DeploymentCSV]
			require.Contains(rt, validTransitions[prev], state,
				"window at %d moved from %v", start, prev)
			for h := start; h < start+window && h <= c.height+1; h++ {
				require.Equal(rt, state, want[h][chaincfg.DeploymentCSV],
					"height %d differs from window start %d",
					h, start)
			}
			prev = state
		}

		c.chain.ResetThresholdCaches()
		require.Equal(rt, want, allStates(rt, c.chain, heights))
	})
}
