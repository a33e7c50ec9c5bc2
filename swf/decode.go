// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package swf decodes the structural layer of a binary SWF movie: the
// header, the tag stream, the action streams embedded in DoAction-family
// tags, and the nested structural records (shapes, styles, fonts, text,
// placement, sprites, buttons). It does not interpret ActionScript
// semantics, does not write SWF, and does not decode every tag type —
// unknown or not-yet-implemented tags are preserved as raw payload
// envelopes.
package swf

import "github.com/cosnicolaou/swfdump/internal/bitio"

// options holds decoder configuration assembled from Option values.
type options struct {
	unknownAlert bool
}

// Option configures a Decode call, following the functional-options
// pattern.
type Option func(*options)

// WithUnknownAlert puts the decoder in strict mode: an unrecognized tag
// type code or action code raises UnknownName instead of being preserved
// as a raw envelope.
func WithUnknownAlert() Option {
	return func(o *options) { o.unknownAlert = true }
}

// Decode parses data as a complete SWF movie and returns its header and
// ordered tag sequence. data must hold the entire file; Decode does not
// stream.
func Decode(data []byte, opts ...Option) (*Tree, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	d := newDecoder(bitio.NewSource(data), o)

	header, err := d.readHeader()
	if err != nil {
		return nil, err
	}

	tags, err := d.readTagStream()
	if err != nil {
		return nil, err
	}

	return &Tree{Header: header, Tags: tags}, nil
}
