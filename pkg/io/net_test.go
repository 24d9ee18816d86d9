package io

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/chiehanchen/steiner/pkg/errors"
	"github.com/chiehanchen/steiner/pkg/geom"
)

func TestReadNet(t *testing.T) {
	input := "0 0 10 10\n3\n1 1\n9 1\n5 8\n"

	net, err := ReadNet(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadNet: %v", err)
	}

	wantBoundary := geom.Rect{XL: 0, YL: 0, XH: 10, YH: 10}
	if net.Boundary != wantBoundary {
		t.Errorf("Boundary = %v, want %v", net.Boundary, wantBoundary)
	}
	wantPins := []geom.Point{geom.Pt(1, 1), geom.Pt(9, 1), geom.Pt(5, 8)}
	if !reflect.DeepEqual(net.Pins, wantPins) {
		t.Errorf("Pins = %v, want %v", net.Pins, wantPins)
	}
}

func TestReadNetWhitespaceInsensitive(t *testing.T) {
	net, err := ReadNet(strings.NewReader("  0 0\t10 10 2\n\n1 1 2\n2"))
	if err != nil {
		t.Fatalf("ReadNet: %v", err)
	}
	if len(net.Pins) != 2 || net.Pins[1] != geom.Pt(2, 2) {
		t.Errorf("Pins = %v", net.Pins)
	}
}

func TestReadNetEmptyNet(t *testing.T) {
	net, err := ReadNet(strings.NewReader("0 0 5 5\n0\n"))
	if err != nil {
		t.Fatalf("ReadNet: %v", err)
	}
	if len(net.Pins) != 0 {
		t.Errorf("Pins = %v, want none", net.Pins)
	}
}

func TestReadNetErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		code    errors.Code
		message string
	}{
		{"empty", "", errors.ErrCodeInvalidFormat, "expected boundary"},
		{"short boundary", "0 0 10", errors.ErrCodeInvalidFormat, "unexpected end of input"},
		{"non-integer", "0 0 ten 10\n1\n1 1\n", errors.ErrCodeInvalidFormat, `line 1: boundary: expected integer, got "ten"`},
		{"negative count", "0 0 10 10\n-1\n", errors.ErrCodeInvalidInput, "pin count -1"},
		{"missing pin", "0 0 10 10\n2\n1 1\n", errors.ErrCodeInvalidFormat, "expected pin 1"},
		{"bad pin", "0 0 10 10\n2\n1 1\n2 x\n", errors.ErrCodeInvalidFormat, `line 4: pin 1: expected integer, got "x"`},
		{"extra pin", "0 0 10 10\n1\n1 1\n2 2\n", errors.ErrCodeInvalidInput, "unexpected trailing data"},
		{"inverted boundary", "10 0 0 10\n0\n", errors.ErrCodeInvalidInput, "invalid boundary"},
		{"outside boundary", "0 0 10 10\n2\n1 1\n11 5\n", errors.ErrCodeInvalidInput, "pin 1 at (11,5) outside boundary"},
		{"huge boundary", "-5000000000000000000 0 5000000000000000000 0\n2\n-5000000000000000000 0\n5000000000000000000 0\n", errors.ErrCodeInvalidInput, "boundary: -5000000000000000000 outside"},
		{"just past int32", "0 0 2147483648 10\n0\n", errors.ErrCodeInvalidInput, "line 1: boundary: 2147483648 outside"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadNet(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("ReadNet succeeded, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q does not contain %q", err, tt.message)
			}
		})
	}
}

func TestReadNetInt32Limits(t *testing.T) {
	input := "-2147483648 -2147483648 2147483647 2147483647\n2\n-2147483648 0\n2147483647 0\n"

	net, err := ReadNet(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadNet: %v", err)
	}
	if got := geom.Distance(net.Pins[0], net.Pins[1]); got != 1<<32-1 {
		t.Errorf("distance = %d, want %d", got, 1<<32-1)
	}
}

func TestNetFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.txt")
	want := Net{
		Boundary: geom.Rect{XL: -5, YL: -5, XH: 5, YH: 5},
		Pins:     []geom.Point{geom.Pt(-5, 0), geom.Pt(5, 5), geom.Pt(0, -5)},
	}

	if err := WriteNetFile(path, want); err != nil {
		t.Fatalf("WriteNetFile: %v", err)
	}
	got, err := ReadNetFile(path)
	if err != nil {
		t.Fatalf("ReadNetFile: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestReadNetFileMissing(t *testing.T) {
	_, err := ReadNetFile(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want %v", err, errors.ErrCodeFileNotFound)
	}
}

func TestReadNetFileReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(path, []byte("0 0 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadNetFile(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("err = %v, want mention of %s", err, path)
	}
}

func TestReadNetFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.JSON")
	data := `{"boundary":{"xl":0,"yl":0,"xh":4,"yh":4},"pins":[[0,0],[4,0],[2,4]]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	net, err := ReadNetFile(path)
	if err != nil {
		t.Fatalf("ReadNetFile: %v", err)
	}
	want := []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(2, 4)}
	if !reflect.DeepEqual(net.Pins, want) {
		t.Errorf("Pins = %v, want %v", net.Pins, want)
	}
	if net.Boundary != (geom.Rect{XH: 4, YH: 4}) {
		t.Errorf("Boundary = %v", net.Boundary)
	}
}

func TestWriteNet(t *testing.T) {
	var buf bytes.Buffer
	n := Net{Boundary: geom.Rect{XH: 4, YH: 4}, Pins: []geom.Point{geom.Pt(0, 0), geom.Pt(4, 4)}}
	if err := WriteNet(&buf, n); err != nil {
		t.Fatal(err)
	}
	want := "0 0 4 4\n2\n0 0\n4 4\n"
	if buf.String() != want {
		t.Errorf("WriteNet = %q, want %q", buf.String(), want)
	}
}
