// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swf

import (
	"fmt"

	"github.com/cosnicolaou/swfdump/internal/bitio"
)

// readPlaceObject reads the shared body of PlaceObject2 and PlaceObject3.
// version selects the PlaceObject3-only flag byte and trailing fields.
func (d *decoder) readPlaceObject(tagName string, version int) (*Node, error) {
	n := NewNode(KindKnownTag, tagName)

	bc := d.bits()
	hasClipActions := bc.ReadUnsigned(1) != 0
	hasClipDepth := bc.ReadUnsigned(1) != 0
	hasName := bc.ReadUnsigned(1) != 0
	hasRatio := bc.ReadUnsigned(1) != 0
	hasColorTransform := bc.ReadUnsigned(1) != 0
	hasMatrix := bc.ReadUnsigned(1) != 0
	hasCharacter := bc.ReadUnsigned(1) != 0
	move := bc.ReadUnsigned(1) != 0
	if err := bc.Err(); err != nil {
		return nil, fmt.Errorf("swf: %s flags: %w", tagName, err)
	}
	n.Set("PlaceFlagHasClipActions", hasClipActions)
	n.Set("PlaceFlagHasClipDepth", hasClipDepth)
	n.Set("PlaceFlagHasName", hasName)
	n.Set("PlaceFlagHasRatio", hasRatio)
	n.Set("PlaceFlagHasColorTransform", hasColorTransform)
	n.Set("PlaceFlagHasMatrix", hasMatrix)
	n.Set("PlaceFlagHasCharacter", hasCharacter)
	n.Set("PlaceFlagMove", move)

	var hasImage, hasClassName, hasCacheAsBitmap, hasBlendMode, hasFilterList, hasVisible bool
	if version == 3 {
		bc3 := d.bits()
		reserved := bc3.ReadUnsigned(1)
		opaqueBg := bc3.ReadUnsigned(1) != 0
		hasVisible = bc3.ReadUnsigned(1) != 0
		hasImage = bc3.ReadUnsigned(1) != 0
		hasClassName = bc3.ReadUnsigned(1) != 0
		hasCacheAsBitmap = bc3.ReadUnsigned(1) != 0
		hasBlendMode = bc3.ReadUnsigned(1) != 0
		hasFilterList = bc3.ReadUnsigned(1) != 0
		if err := bc3.Err(); err != nil {
			return nil, fmt.Errorf("swf: %s v3 flags: %w", tagName, err)
		}
		n.Set("Reserved", reserved)
		n.Set("PlaceFlagOpaqueBackground", opaqueBg)
		n.Set("PlaceFlagHasVisible", hasVisible)
		n.Set("PlaceFlagHasImage", hasImage)
		n.Set("PlaceFlagHasClassName", hasClassName)
		n.Set("PlaceFlagHasCacheAsBitmap", hasCacheAsBitmap)
		n.Set("PlaceFlagHasBlendMode", hasBlendMode)
		n.Set("PlaceFlagHasFilterList", hasFilterList)
	}

	depth, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: %s.Depth: %w", tagName, err)
	}
	n.Set("Depth", depth)

	if version == 3 && (hasClassName || (hasImage && hasCharacter)) {
		class, err := d.readString()
		if err != nil {
			return nil, fmt.Errorf("swf: %s.ClassName: %w", tagName, err)
		}
		n.Set("ClassName", class)
	}

	if hasCharacter {
		charID, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: %s.CharacterId: %w", tagName, err)
		}
		n.Set("CharacterId", charID)
	}
	if hasMatrix {
		m, err := d.readMatrix()
		if err != nil {
			return nil, fmt.Errorf("swf: %s.Matrix: %w", tagName, err)
		}
		n.Set("Matrix", m)
	}
	if hasColorTransform {
		ct, err := d.readCXFormWithAlpha()
		if err != nil {
			return nil, fmt.Errorf("swf: %s.ColorTransform: %w", tagName, err)
		}
		n.Set("ColorTransform", ct)
	}
	if hasRatio {
		ratio, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: %s.Ratio: %w", tagName, err)
		}
		n.Set("Ratio", ratio)
	}
	if hasName {
		name, err := d.readString()
		if err != nil {
			return nil, fmt.Errorf("swf: %s.Name: %w", tagName, err)
		}
		n.Set("Name", name)
	}
	if hasClipDepth {
		clipDepth, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: %s.ClipDepth: %w", tagName, err)
		}
		n.Set("ClipDepth", clipDepth)
	}

	if version == 3 {
		if hasFilterList {
			fl, err := d.readFilterList()
			if err != nil {
				return nil, fmt.Errorf("swf: %s.SurfaceFilterList: %w", tagName, err)
			}
			n.Set("SurfaceFilterList", fl)
		}
		if hasBlendMode {
			mode, err := bitio.ReadUI8(d.src)
			if err != nil {
				return nil, fmt.Errorf("swf: %s.BlendMode: %w", tagName, err)
			}
			n.Set("BlendMode", mode)
		}
		if hasCacheAsBitmap {
			cache, err := bitio.ReadUI8(d.src)
			if err != nil {
				return nil, fmt.Errorf("swf: %s.BitmapCache: %w", tagName, err)
			}
			n.Set("BitmapCache", cache)
		}
		if hasVisible {
			visible, err := bitio.ReadUI8(d.src)
			if err != nil {
				return nil, fmt.Errorf("swf: %s.Visible: %w", tagName, err)
			}
			n.Set("Visible", visible)
			bg, err := d.readRGBA()
			if err != nil {
				return nil, fmt.Errorf("swf: %s.BackgroundColor: %w", tagName, err)
			}
			n.Set("BackgroundColor", bg)
		}
	}

	if hasClipActions {
		ca, err := d.readClipActions()
		if err != nil {
			return nil, fmt.Errorf("swf: %s.ClipActions: %w", tagName, err)
		}
		n.Set("ClipActions", ca)
	}

	return n, nil
}

func (d *decoder) readPlaceObject2() (*Node, error) { return d.readPlaceObject("PlaceObject2", 2) }
func (d *decoder) readPlaceObject3() (*Node, error) { return d.readPlaceObject("PlaceObject3", 3) }
