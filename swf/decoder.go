// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swf

import "github.com/cosnicolaou/swfdump/internal/bitio"

// decoder holds the mutable state threaded through a single parse: the
// byte source cursor, the header version (read once, then immutable), and
// the last-seen glyph count produced by a DefineFont2/3 tag and consumed
// by a subsequent DefineFontAlignZones. Per the concurrency model, this
// state is never shared across goroutines; a caller decoding several files
// concurrently constructs one decoder per file.
type decoder struct {
	src    *bitio.Source
	opts   options
	version uint8

	lastGlyphCount int
}

func newDecoder(src *bitio.Source, opts options) *decoder {
	return &decoder{src: src, opts: opts}
}

// bits returns a fresh MSB-first bit consumer over the current byte
// position. Per spec section 4.3, a bit consumer is never required to
// resynchronize itself; callers construct a new one each time they
// re-enter bit-level reads after a byte-aligned read.
func (d *decoder) bits() *bitio.BitReader {
	return bitio.NewBitReader(d.src)
}

func (d *decoder) strict() bool { return d.opts.unknownAlert }
