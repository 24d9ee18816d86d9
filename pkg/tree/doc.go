// Package tree provides the mutable topology shared by the Steiner tree
// construction phases.
//
// # Overview
//
// A [Tree] holds two kinds of vertices:
//
//   - Pins ([RolePin]): the terminals supplied by the caller. They take IDs
//     0..n-1 in input order and are never removed.
//   - Steiner points ([RoleSteiner]): branch vertices inserted by refinement.
//     They are removed again when they stop being useful.
//
// Edges are logical connections between vertices. They may span both axes;
// splitting them into horizontal and vertical wire happens at output time.
//
// # Invariants
//
// The construction phases hand the tree to each other sequentially and keep
// it a spanning tree between steps. [Tree.Validate] checks the two properties
// that together imply acyclicity:
//
//   - every live vertex is reachable from every other
//   - the edge count equals the live vertex count minus one
//
// # Determinism
//
// Adjacency lists are kept sorted by vertex ID, so [Tree.Edges] and
// [Tree.Walk] return the same sequence for the same sequence of mutations.
package tree
