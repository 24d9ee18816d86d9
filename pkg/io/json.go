package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/chiehanchen/steiner/pkg/errors"
	"github.com/chiehanchen/steiner/pkg/geom"
)

// NetJSON is the JSON form of a [Net].
//
//	{"boundary": {"xl": 0, "yl": 0, "xh": 10, "yh": 10}, "pins": [[1, 2], [8, 3]]}
type NetJSON struct {
	Boundary geom.Rect `json:"boundary"`
	Pins     [][2]int  `json:"pins"`
}

// SolutionJSON is the JSON form of a routed net.
type SolutionJSON struct {
	RequestID string    `json:"request_id,omitempty"`
	Boundary  geom.Rect `json:"boundary"`
	Pins      [][2]int  `json:"pins,omitempty"`
	Segments  [][4]int  `json:"segments"`
	Stats     any       `json:"stats,omitempty"`
}

// NetToJSON converts n for encoding.
func NetToJSON(n Net) NetJSON {
	out := NetJSON{Boundary: n.Boundary, Pins: make([][2]int, len(n.Pins))}
	for i, p := range n.Pins {
		out.Pins[i] = [2]int{p.X, p.Y}
	}
	return out
}

// Net converts the decoded form back and validates it.
func (j NetJSON) Net() (Net, error) {
	if len(j.Pins) > MaxPins {
		return Net{}, errors.New(errors.ErrCodeInvalidInput, "too many pins: %d (max %d)", len(j.Pins), MaxPins)
	}
	b := j.Boundary
	for _, v := range []int{b.XL, b.YL, b.XH, b.YH} {
		if !inRange(v) {
			return Net{}, errors.New(errors.ErrCodeInvalidInput, "boundary coordinate %d outside [%d, %d]", v, MinCoord, MaxCoord)
		}
	}
	n := Net{Boundary: b, Pins: make([]geom.Point, len(j.Pins))}
	for i, p := range j.Pins {
		if !inRange(p[0]) || !inRange(p[1]) {
			return Net{}, errors.New(errors.ErrCodeInvalidInput, "pin %d coordinate outside [%d, %d]", i, MinCoord, MaxCoord)
		}
		n.Pins[i] = geom.Pt(p[0], p[1])
	}
	if err := n.Validate(); err != nil {
		return Net{}, err
	}
	return n, nil
}

func inRange(v int) bool { return v >= MinCoord && v <= MaxCoord }

// NewSolutionJSON builds the JSON form of a solution. stats may be nil.
func NewSolutionJSON(n Net, segs []geom.Segment, stats any) SolutionJSON {
	out := SolutionJSON{
		Boundary: n.Boundary,
		Pins:     NetToJSON(n).Pins,
		Segments: make([][4]int, len(segs)),
		Stats:    stats,
	}
	for i, s := range segs {
		out.Segments[i] = [4]int{s.A.X, s.A.Y, s.B.X, s.B.Y}
	}
	return out
}

// SegmentList converts the encoded segments back.
func (s SolutionJSON) SegmentList() []geom.Segment {
	out := make([]geom.Segment, len(s.Segments))
	for i, q := range s.Segments {
		out[i] = geom.Seg(q[0], q[1], q[2], q[3])
	}
	return out
}

// ReadNetJSON decodes and validates a [NetJSON] from r.
func ReadNetJSON(r io.Reader) (Net, error) {
	var j NetJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&j); err != nil {
		return Net{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode net")
	}
	return j.Net()
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "encode %T", v)
	}
	return nil
}

// WriteJSONFile writes v as indented JSON to the file at path.
func WriteJSONFile(path string, v any) error {
	return writeFile(path, func(w io.Writer) error {
		if err := WriteJSON(w, v); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	})
}
