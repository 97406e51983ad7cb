// Package placement computes performer layouts that maximise the audience
// listening score.
//
// A solve runs five stages over one mutable layout:
//
//	HexGrid   candidate points in triangular packing, inset by the radius
//	Assign    random, collision-free mapping of performers to points
//	Engine    baseline score through the visibility oracle
//	Optimize  single-pass pairwise swap hill climbing under a deadline
//	Finalize  binary volumes (10 or 1) and the weighted total
//
// [Solve] wires them together; the stages are exported so callers and tests
// can drive them individually.
//
// # Scoring
//
// A performer k with role r earns, from every listener i it reaches,
//
//	ceil(1e6 · taste[i][r] / d²)
//
// where d is the distance between them. The segment is blocked when another
// performer (radius 5) or a pillar lies across it; see [Blocks]. In the
// closeness-weighted mode the sum is multiplied by 1 + Σ 1/dist over the
// other performers of role r and rounded up.
//
// [Evaluate] scores an arbitrary solution with its volumes, independently of
// how it was produced.
package placement
