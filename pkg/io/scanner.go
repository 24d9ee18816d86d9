package io

import (
	"bufio"
	stderrors "errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/chiehanchen/steiner/pkg/errors"
)

// maxLineSize bounds a single input line. Net files put at most four
// integers on a line, so anything longer is garbage.
const maxLineSize = 1 << 20

// Coordinates and counts are 32-bit so that lengths summed over MaxPins
// pins cannot overflow.
const (
	MinCoord = math.MinInt32
	MaxCoord = math.MaxInt32
)

// tokenScanner yields whitespace-separated integer tokens and remembers the
// line each came from.
type tokenScanner struct {
	sc     *bufio.Scanner
	fields []string
	line   int
	what   string // "net" or "segments", used in messages
}

func newTokenScanner(r io.Reader, what string) *tokenScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &tokenScanner{sc: sc, what: what}
}

// next returns the next token, or ok=false at end of input.
func (s *tokenScanner) next() (tok string, ok bool, err error) {
	for len(s.fields) == 0 {
		if !s.sc.Scan() {
			if err := s.sc.Err(); err != nil {
				return "", false, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %s line %d", s.what, s.line+1)
			}
			return "", false, nil
		}
		s.line++
		s.fields = strings.Fields(s.sc.Text())
	}
	tok, s.fields = s.fields[0], s.fields[1:]
	return tok, true, nil
}

// int reads the next token as an integer. name describes the value for error
// messages.
func (s *tokenScanner) int(name string) (int, error) {
	tok, ok, err := s.next()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "%s: unexpected end of input, expected %s", s.what, name)
	}
	v, err := strconv.ParseInt(tok, 10, 32)
	if stderrors.Is(err, strconv.ErrRange) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s line %d: %s: %s outside [%d, %d]", s.what, s.line, name, tok, MinCoord, MaxCoord)
	}
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "%s line %d: %s: expected integer, got %q", s.what, s.line, name, tok)
	}
	return int(v), nil
}

// ints reads len(dst) integers into dst.
func (s *tokenScanner) ints(name string, dst ...*int) error {
	for _, d := range dst {
		v, err := s.int(name)
		if err != nil {
			return err
		}
		*d = v
	}
	return nil
}

// end reports an error if any token remains.
func (s *tokenScanner) end() error {
	tok, ok, err := s.next()
	if err != nil {
		return err
	}
	if ok {
		return errors.New(errors.ErrCodeInvalidInput, "%s line %d: unexpected trailing data %q", s.what, s.line, tok)
	}
	return nil
}
