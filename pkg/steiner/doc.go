// Package steiner builds rectilinear Steiner trees for routing nets.
//
// # Construction
//
// [Solver.Run] works in three phases over a shared [tree.Tree]:
//
//  1. Spanning tree: [mst.Prim] connects the pins with a rectilinear minimum
//     spanning tree. Its length is an upper bound on the result.
//  2. Refinement: every pass evaluates each pair of edges u-v, v-w sharing a
//     vertex. The junction of the triple is the coordinate-wise median of its
//     endpoints, snapped to the [hanan.Grid]. Replacing the two edges by a
//     star through the junction saves length when the star is shorter. The
//     single best improving move is applied, Steiner vertices left with
//     degree two or less are collapsed and the next pass starts. Refinement
//     stops when no move improves the tree or the pass cap is reached.
//  3. Decomposition: [Decompose] splits every edge into at most one
//     horizontal and one vertical segment.
//
// # Determinism
//
// Candidate moves are ranked by gain, then by the sum of their vertex IDs,
// then by the IDs themselves and finally by the junction coordinates. The
// same input therefore always produces the same segments, independent of
// [Options.Workers].
//
// # Quality
//
// The result is a heuristic: it is never longer than the spanning tree and
// every Steiner point lies on the Hanan grid, but it is not guaranteed to be
// optimal. Use [Verify] to check any segment set against its pins.
package steiner
