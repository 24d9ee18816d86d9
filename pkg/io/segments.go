package io

import (
	"bufio"
	"fmt"
	"io"

	"github.com/chiehanchen/steiner/pkg/errors"
	"github.com/chiehanchen/steiner/pkg/geom"
)

// WriteSegments writes segs in the segment format.
func WriteSegments(w io.Writer, segs []geom.Segment) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(segs))
	for _, s := range segs {
		fmt.Fprintf(bw, "%d %d %d %d\n", s.A.X, s.A.Y, s.B.X, s.B.Y)
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "write segments")
	}
	return nil
}

// WriteSegmentsFile writes segs to the file at path, replacing it if it
// exists.
func WriteSegmentsFile(path string, segs []geom.Segment) error {
	return writeFile(path, func(w io.Writer) error { return WriteSegments(w, segs) })
}

// ReadSegments parses a segment list from r. Segments are not required to be
// axis-aligned; use steiner.Verify to check a routing.
func ReadSegments(r io.Reader) ([]geom.Segment, error) {
	s := newTokenScanner(r, "segments")

	m, err := s.int("segment count")
	if err != nil {
		return nil, err
	}
	if m < 0 || m > 2*MaxPins {
		return nil, errors.New(errors.ErrCodeInvalidInput, "segments line %d: segment count %d out of range", s.line, m)
	}

	segs := make([]geom.Segment, 0, min(m, 4096))
	for i := range m {
		var seg geom.Segment
		if err := s.ints(fmt.Sprintf("segment %d", i), &seg.A.X, &seg.A.Y, &seg.B.X, &seg.B.Y); err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	if err := s.end(); err != nil {
		return nil, err
	}
	return segs, nil
}

// ReadSegmentsFile reads a segment list from the file at path.
func ReadSegmentsFile(path string) ([]geom.Segment, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	segs, err := ReadSegments(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return segs, nil
}
