package io

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/chiehanchen/steiner/pkg/errors"
	"github.com/chiehanchen/steiner/pkg/geom"
)

// MaxPins is the largest pin count ReadNet accepts.
const MaxPins = 1 << 20

// Net is a single routing net: the pins to connect and the rectangle they lie
// in.
type Net struct {
	Boundary geom.Rect
	Pins     []geom.Point
}

// Validate checks the boundary and that every pin lies inside it.
func (n Net) Validate() error {
	b := n.Boundary
	if !b.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid boundary %v: low corner exceeds high corner", b)
	}
	for i, p := range n.Pins {
		if !b.Contains(p) {
			return errors.New(errors.ErrCodeInvalidInput, "pin %d at %v outside boundary %v", i, p, b)
		}
	}
	return nil
}

// ReadNet parses a net from r. See the package documentation for the format.
// ReadNet does not close r.
func ReadNet(r io.Reader) (Net, error) {
	s := newTokenScanner(r, "net")

	var net Net
	b := &net.Boundary
	if err := s.ints("boundary", &b.XL, &b.YL, &b.XH, &b.YH); err != nil {
		return Net{}, err
	}

	n, err := s.int("pin count")
	if err != nil {
		return Net{}, err
	}
	if n < 0 || n > MaxPins {
		return Net{}, errors.New(errors.ErrCodeInvalidInput, "net line %d: pin count %d out of range [0, %d]", s.line, n, MaxPins)
	}

	net.Pins = make([]geom.Point, 0, min(n, 4096))
	for i := range n {
		var p geom.Point
		if err := s.ints(fmt.Sprintf("pin %d", i), &p.X, &p.Y); err != nil {
			return Net{}, err
		}
		net.Pins = append(net.Pins, p)
	}
	if err := s.end(); err != nil {
		return Net{}, err
	}
	if err := net.Validate(); err != nil {
		return Net{}, err
	}
	return net, nil
}

// ReadNetFile reads a net from the file at path. Files with a .json
// extension are decoded with [ReadNetJSON]; anything else uses the text
// format.
func ReadNetFile(path string) (Net, error) {
	f, err := open(path)
	if err != nil {
		return Net{}, err
	}
	defer f.Close()

	read := ReadNet
	if strings.EqualFold(filepath.Ext(path), ".json") {
		read = ReadNetJSON
	}
	net, err := read(f)
	if err != nil {
		return Net{}, fmt.Errorf("%s: %w", path, err)
	}
	return net, nil
}

// WriteNet writes n in the net format.
func WriteNet(w io.Writer, n Net) error {
	bw := bufio.NewWriter(w)
	b := n.Boundary
	fmt.Fprintf(bw, "%d %d %d %d\n%d\n", b.XL, b.YL, b.XH, b.YH, len(n.Pins))
	for _, p := range n.Pins {
		fmt.Fprintf(bw, "%d %d\n", p.X, p.Y)
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "write net")
	}
	return nil
}

// WriteNetFile writes n to the file at path, replacing it if it exists.
func WriteNetFile(path string, n Net) error {
	return writeFile(path, func(w io.Writer) error { return WriteNet(w, n) })
}

// WriteFile writes data to the file at path with the same validation and
// error codes as the format writers.
func WriteFile(path string, data []byte) error {
	return writeFile(path, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailed, err, "write %s", path)
		}
		return nil
	})
}

func open(path string) (*os.File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	return f, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "close %s", path)
	}
	return nil
}
