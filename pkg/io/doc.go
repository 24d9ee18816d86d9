// Package io reads and writes nets and routed segments.
//
// # Net Format
//
// A net file lists the boundary, the pin count and one pin per line:
//
//	0 0 100 100
//	3
//	10 10
//	90 10
//	50 80
//
// The first line is "xl yl xh yh". Tokens are separated by any whitespace,
// so line breaks are not significant, but errors report the line a bad token
// came from.
//
// [ReadNet] rejects non-integer tokens, a negative pin count, a pin count
// that does not match the number of pins listed, an inverted boundary and
// pins outside the boundary. Every error is an [errors.Error] carrying
// ErrCodeInvalidFormat for syntax problems or ErrCodeInvalidInput for
// well-formed but inconsistent data.
//
// # Segment Format
//
// A solution file lists the segment count followed by one segment per line:
//
//	3
//	10 10 50 10
//	50 10 90 10
//	50 10 50 80
//
// Each line is "x1 y1 x2 y2". [WriteSegments] terminates every line,
// including the last, with a newline.
//
// # JSON
//
// [NetJSON] and [SolutionJSON] are the shapes exchanged by the HTTP server
// and by "steiner solve --json". Points are encoded as [x, y] pairs and
// segments as [x1, y1, x2, y2] quadruples to keep large nets compact.
// [ReadNetFile] accepts a NetJSON document when the file name ends in .json.
//
// [errors.Error]: github.com/chiehanchen/steiner/pkg/errors.Error
package io
