// Package pkg provides the libraries behind the steiner router.
//
// # Overview
//
// Steiner connects the pins of a net with a rectilinear Steiner tree: a tree
// of horizontal and vertical wires whose total length is close to minimal.
// The pkg directory is organized into three main areas:
//
//  1. Algorithm - [geom], [hanan], [mst], [tree] and [steiner]
//  2. Formats - [io] (text and JSON nets) and [render] (SVG, DOT, PNG plots)
//  3. Infrastructure - [pipeline], [cache], [server], [observability],
//     [errors] and [buildinfo]
//
// # Architecture
//
// The data flow through a solve:
//
//	net file or JSON request
//	         ↓
//	    [io] package (parse and validate the net)
//	         ↓
//	    [mst] package (rectilinear minimum spanning tree over the pins)
//	         ↓
//	    [steiner] package (refine with Hanan grid Steiner points)
//	         ↓
//	    segment file, JSON solution or plot
//
// # Quick Start
//
//	import (
//	    "github.com/chiehanchen/steiner/pkg/geom"
//	    "github.com/chiehanchen/steiner/pkg/steiner"
//	)
//
//	pins := []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(2, 4)}
//	segs := steiner.Solve(geom.Bounds(pins), pins)
//	// [(0,0)-(2,0) (2,0)-(4,0) (2,0)-(2,4)]
//
// For caching, configuration and observability hooks, go through
// [pipeline.Runner], which both the CLI and the HTTP server use.
package pkg
