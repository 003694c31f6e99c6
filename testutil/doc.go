// Package testutil provides fixtures for tests, benchmarks and examples.
//
// # Deterministic Randomness
//
//	rng := testutil.NewRNG(seed)
//	rng.FillRows(store)                      // random field values within column widths
//	rng.PartialSearch(grid, 0.1, threshold)  // record a random tenth of the space
//
// # Classified Spaces
//
//	grid, _ := testutil.ClassifiedGrid([]int{2, 3, 1}, 3)
//
// ClassifiedGrid records every transformation as checked, anonymous from the
// given level upward, with its normalized height as loss.
package testutil
