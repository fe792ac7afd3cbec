// Package testutil provides testing utilities for handlepool.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Operation Scripts
//
//	rng := testutil.NewRNG(seed)
//	ops := rng.Script(10_000, 0.6) // 60% inserts, the rest erases and lookups
//
// Each Op refers to earlier handles by their issue order, so a script can be
// replayed against a Pool and a plain map model side by side.
//
// # Release Tracking
//
//	rc := testutil.NewReleaseCounter()
//	p, _ := handlepool.New[testutil.Tracked](4, handlepool.WithRelease(rc.Release))
//	...
//	rc.Total()   // number of release calls
//	rc.Count(id) // calls for one value, must never exceed 1
package testutil
