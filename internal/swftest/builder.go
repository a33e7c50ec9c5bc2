// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package swftest assembles minimal, valid synthetic SWF byte streams for
// use as test fixtures. No real binary .swf sample is available in this
// workspace, so tests that need a complete file build one with this
// package instead of embedding an opaque binary blob.
package swftest

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
)

// tagHeader encodes a tag's type code and length into the standard
// RECORDHEADER form: a short UI16 form when length fits in 6 bits, else
// the short form carrying 0x3f followed by a UI32 long-form length.
func tagHeader(tagType uint16, length int) []byte {
	var buf bytes.Buffer
	if length < 0x3f {
		binary.Write(&buf, binary.LittleEndian, uint16(tagType<<6)|uint16(length))
		return buf.Bytes()
	}
	binary.Write(&buf, binary.LittleEndian, uint16(tagType<<6)|0x3f)
	binary.Write(&buf, binary.LittleEndian, uint32(length))
	return buf.Bytes()
}

// Tag returns a complete tag record: header plus payload.
func Tag(tagType uint16, payload []byte) []byte {
	return append(tagHeader(tagType, len(payload)), payload...)
}

// zeroRect is a RECT with nbits=0, i.e. a single zero byte (5 bits of
// nbits followed by nothing, padded to a byte boundary).
var zeroRect = []byte{0x00}

// Body assembles the uncompressed portion of an SWF file that follows the
// 8-byte signature/version/filelength preamble: frame size rect, frame
// rate, frame count, then the given tags and a trailing End tag.
func Body(frameRate uint16, frameCount uint16, tags ...[]byte) []byte {
	var buf bytes.Buffer
	buf.Write(zeroRect)
	binary.Write(&buf, binary.LittleEndian, frameRate)
	binary.Write(&buf, binary.LittleEndian, frameCount)
	for _, t := range tags {
		buf.Write(t)
	}
	buf.Write(tagHeader(0, 0)) // End tag
	return buf.Bytes()
}

// Uncompressed wraps body in an "FWS" header with a correct FileLength.
func Uncompressed(version uint8, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("FWS")
	buf.WriteByte(version)
	binary.Write(&buf, binary.LittleEndian, uint32(8+len(body)))
	buf.Write(body)
	return buf.Bytes()
}

// Compressed wraps body in a "CWS" header, zlib-deflating it, with a
// FileLength reflecting the uncompressed size as the format requires.
func Compressed(version uint8, body []byte) []byte {
	var deflated bytes.Buffer
	zw := zlib.NewWriter(&deflated)
	zw.Write(body)
	zw.Close()

	var buf bytes.Buffer
	buf.WriteString("CWS")
	buf.WriteByte(version)
	binary.Write(&buf, binary.LittleEndian, uint32(8+len(body)))
	buf.Write(deflated.Bytes())
	return buf.Bytes()
}

// MinimalMovie returns an uncompressed version-6 movie with a
// SetBackgroundColor tag, one ShowFrame, and the terminating End tag —
// the smallest file that exercises the header, the tag dispatch loop, and
// at least one known-tag handler.
func MinimalMovie() []byte {
	setBackground := Tag(9, []byte{0xff, 0x00, 0x00}) // RGB red
	showFrame := Tag(1, nil)
	return Uncompressed(6, Body(0x0100, 1, setBackground, showFrame))
}

// MinimalMovieCompressed is MinimalMovie's zlib-compressed ("CWS") twin.
func MinimalMovieCompressed() []byte {
	setBackground := Tag(9, []byte{0x00, 0xff, 0x00}) // RGB green
	showFrame := Tag(1, nil)
	return Compressed(6, Body(0x0100, 1, setBackground, showFrame))
}

// TruncatedTagMovie returns a movie whose SetBackgroundColor tag declares
// a 1-byte payload even though the handler always consumes a full RGB (3
// bytes), exercising the bounded-read-guard's LengthMismatch recovery
// path: the declared length undershoots what the handler actually reads.
func TruncatedTagMovie() []byte {
	badTag := append(tagHeader(9, 1), 0xff, 0x00, 0x00)
	return Uncompressed(6, Body(0x0100, 1, badTag))
}
