// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swf

import (
	"fmt"

	"github.com/cosnicolaou/swfdump/internal/bitio"
)

// readDefineSprite reads a DefineSprite tag: character ID, frame count, and
// a nested tag stream (its own control tags) ending at its own End marker.
func (d *decoder) readDefineSprite() (*Node, error) {
	n := NewNode(KindKnownTag, "DefineSprite")

	charID, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: DefineSprite.CharacterID: %w", err)
	}
	n.Set("CharacterID", charID)

	frameCount, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: DefineSprite.FrameCount: %w", err)
	}
	n.Set("FrameCount", frameCount)

	tags, err := d.readTagStream()
	if err != nil {
		return nil, fmt.Errorf("swf: DefineSprite.ControlTags: %w", err)
	}
	n.Set("ControlTags", tags)
	return n, nil
}
