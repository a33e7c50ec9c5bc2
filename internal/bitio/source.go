// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package bitio provides a seekable byte source and an MSB-first bit
// consumer over an in-memory buffer, along with the little-endian and
// fixed-point primitive readers layered on top of them.
package bitio

import (
	"errors"
	"fmt"
)

// ErrEndOfStream is returned (wrapped) whenever a read asks for more bytes
// or bits than remain in the source.
var ErrEndOfStream = errors.New("bitio: end of stream")

// Whence values for Source.Seek, mirroring io.Seeker.
const (
	SeekStart   = 0
	SeekCurrent = 1
)

// Source is a random-access, tell-capable reader over a fully buffered byte
// slice. It never blocks and never partially fails: a Read either returns
// exactly the requested bytes or an error.
type Source struct {
	buf []byte
	pos int
}

// NewSource returns a Source reading from buf. The slice is not copied;
// callers must not mutate it while the Source is in use.
func NewSource(buf []byte) *Source {
	return &Source{buf: buf}
}

// Len returns the total number of bytes in the underlying buffer.
func (s *Source) Len() int { return len(s.buf) }

// Tell returns the current byte offset.
func (s *Source) Tell() int { return s.pos }

// Remaining returns the number of unread bytes.
func (s *Source) Remaining() int { return len(s.buf) - s.pos }

// Seek repositions the read cursor. whence is SeekStart or SeekCurrent.
func (s *Source) Seek(offset int, whence int) error {
	var target int
	switch whence {
	case SeekStart:
		target = offset
	case SeekCurrent:
		target = s.pos + offset
	default:
		return fmt.Errorf("bitio: invalid whence %d", whence)
	}
	if target < 0 || target > len(s.buf) {
		return fmt.Errorf("bitio: seek to %d out of range [0,%d]: %w", target, len(s.buf), ErrEndOfStream)
	}
	s.pos = target
	return nil
}

// Read returns exactly n bytes starting at the current position and
// advances the cursor. It fails with ErrEndOfStream if fewer than n bytes
// remain.
func (s *Source) Read(n int) ([]byte, error) {
	if n < 0 || s.pos+n > len(s.buf) {
		return nil, fmt.Errorf("bitio: requested %d bytes at offset %d, only %d available: %w",
			n, s.pos, s.Remaining(), ErrEndOfStream)
	}
	out := s.buf[s.pos : s.pos+n]
	s.pos += n
	return out, nil
}

// ReadByte implements io.ByteReader so a Source can back a BitReader
// directly.
func (s *Source) ReadByte() (byte, error) {
	if s.pos >= len(s.buf) {
		return 0, fmt.Errorf("bitio: read byte at offset %d: %w", s.pos, ErrEndOfStream)
	}
	b := s.buf[s.pos]
	s.pos++
	return b, nil
}
