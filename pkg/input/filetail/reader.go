// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

package filetail

import (
	"bufio"
	"io"
	"strings"
)

// countingReader counts the raw bytes consumed from the underlying
// file, below the charset decoder. Committed offsets are byte
// positions, never character positions.
type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}

// lineReader reads terminator-delimited lines from a decoded character
// stream. A line ends at LF, CR or CRLF; the terminator is excluded
// and the line may be empty. Characters of a line whose terminator has
// not arrived yet are retained, so a line split by a mid-line write is
// neither duplicated nor lost.
type lineReader struct {
	br  *bufio.Reader
	buf strings.Builder
}

// newLineReader returns a lineReader over r, seeded with the partial
// line retained from the previous open of the same file
func newLineReader(r io.Reader, partial string) *lineReader {
	lr := &lineReader{br: bufio.NewReader(r)}
	lr.buf.WriteString(partial)
	return lr
}

// readLine returns the next complete line. ok is false when the input
// is exhausted before a terminator; the characters read so far stay
// buffered for the next read.
func (lr *lineReader) readLine() (line string, ok bool, err error) {
	for {
		ch, _, err := lr.br.ReadRune()
		if err == io.EOF {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		switch ch {
		case '\n':
			return lr.flush(), true, nil
		case '\r':
			if err := lr.skipLF(); err != nil {
				return "", false, err
			}
			return lr.flush(), true, nil
		default:
			lr.buf.WriteRune(ch)
		}
	}
}

// skipToTerminator discards characters up to and including the first
// line terminator. reached is false when the input ends first.
func (lr *lineReader) skipToTerminator() (reached bool, err error) {
	for {
		ch, _, err := lr.br.ReadRune()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		switch ch {
		case '\n':
			return true, nil
		case '\r':
			if err := lr.skipLF(); err != nil {
				return false, err
			}
			return true, nil
		}
	}
}

// skipLF consumes the LF of a CRLF pair; any other character is pushed
// back for the next read
func (lr *lineReader) skipLF() error {
	ch, _, err := lr.br.ReadRune()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	if ch != '\n' {
		return lr.br.UnreadRune()
	}
	return nil
}

func (lr *lineReader) flush() string {
	line := lr.buf.String()
	lr.buf.Reset()
	return line
}

// partial returns the characters of the unfinished trailing line
func (lr *lineReader) partial() string {
	return lr.buf.String()
}
