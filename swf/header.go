// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swf

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/cosnicolaou/swfdump/internal/bitio"
)

// readHeader parses the 8-byte preamble (signature, version, file length),
// substitutes the byte source for an inflated buffer when the signature
// indicates zlib compression, then reads the frame rect, rate and count.
func (d *decoder) readHeader() (*Node, error) {
	sig, err := d.src.Read(3)
	if err != nil {
		return nil, fmt.Errorf("swf: header signature: %w", err)
	}
	signature := string(sig)

	version, err := bitio.ReadUI8(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: header version: %w", err)
	}
	d.version = version

	fileLength, err := bitio.ReadUI32(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: header file length: %w", err)
	}

	switch signature[0] {
	case 'F':
		// Uncompressed body follows directly; tolerate a FileLength that
		// disagrees with the actual stream length (spec section 9: treat
		// as advisory for uncompressed inputs).
	case 'C':
		rest, err := d.src.Read(d.src.Remaining())
		if err != nil {
			return nil, fmt.Errorf("swf: reading compressed body: %w", err)
		}
		zr, err := zlib.NewReader(bytes.NewReader(rest))
		if err != nil {
			return nil, newError(DecompressionFailure, "Header", d.src.Tell(), err)
		}
		inflated, err := io.ReadAll(zr)
		if err != nil {
			return nil, newError(DecompressionFailure, "Header", d.src.Tell(), err)
		}
		if uint32(len(inflated))+8 != fileLength {
			return nil, newError(DecompressionFailure, "Header", d.src.Tell(),
				fmt.Errorf("decompressed body length %d + 8 != declared file length %d", len(inflated), fileLength))
		}
		d.src = bitio.NewSource(inflated)
	default:
		return nil, newError(ProtocolAssertionFailure, "Header", 0, fmt.Errorf("unrecognized signature %q", signature))
	}

	n := NewNode(KindHeader, "Header")
	n.Set("Signature", signature)
	n.Set("Version", version)
	n.Set("FileLength", fileLength)

	frameSize, err := d.readRect()
	if err != nil {
		return nil, fmt.Errorf("swf: header frame size: %w", err)
	}
	n.Set("FrameSize", frameSize)

	frameRate, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: header frame rate: %w", err)
	}
	n.Set("FrameRateRaw", frameRate)

	frameCount, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: header frame count: %w", err)
	}
	n.Set("FrameCount", frameCount)

	return n, nil
}
