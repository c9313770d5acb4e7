// Package field provides the Biot–Savart superposition engine.
//
// Every current-carrying geometry is reduced to a list of oriented wire
// elements:
//
//   - [Segment]: a start position and a length-scaled direction dL
//   - [Source]: a read-only view of a segment list and the current through it
//   - [FieldAt]: superposed field of a set of sources at a point
//   - [ForceOnSegment]: force on a current element placed in that field
//
// Fields are computed with unit permeability:
//
//	dB = I * (dL x r̂) / |r|²
//
// Units are therefore abstract; only current and geometry scale the result.
//
// # Degenerate input
//
// Zero-length segments and query points that coincide with a segment start
// contribute nothing. No function in this package returns NaN or Inf for
// finite input.
//
// # Thread Safety
//
// All functions are pure. Sources share their segment slices, so callers
// must not mutate a slice once it has been handed out as a Source.
package field
