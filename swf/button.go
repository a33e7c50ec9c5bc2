// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swf

import (
	"fmt"

	"github.com/cosnicolaou/swfdump/internal/bitio"
)

// readDefineButton2 reads a DefineButton2 tag: a button ID, a reserved
// bitfield, an action offset, a zero-terminated ButtonRecord list (each
// detected by peeking a byte as DefineText's TextRecord list does), and a
// sequence of ButtonCondAction blocks each ending when a zero-size block is
// read.
func (d *decoder) readDefineButton2() (*Node, error) {
	n := NewNode(KindKnownTag, "DefineButton2")

	buttonID, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: DefineButton2.ButtonId: %w", err)
	}
	n.Set("ButtonId", buttonID)

	bc := d.bits()
	reserved := bc.ReadUnsigned(7)
	trackAsMenu := bc.ReadUnsigned(1)
	if err := bc.Err(); err != nil {
		return nil, fmt.Errorf("swf: DefineButton2 flags: %w", err)
	}
	n.Set("ReservedFlags", reserved)
	n.Set("TrackAsMenu", trackAsMenu)

	actionOffset, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: DefineButton2.ActionOffset: %w", err)
	}
	n.Set("ActionOffset", actionOffset)

	var characters []*Node
	for {
		peek, err := d.src.Read(1)
		if err != nil {
			return nil, fmt.Errorf("swf: DefineButton2 ButtonRecord peek: %w", err)
		}
		if peek[0] == 0 {
			break
		}
		if err := d.src.Seek(-1, bitio.SeekCurrent); err != nil {
			return nil, fmt.Errorf("swf: DefineButton2 ButtonRecord rewind: %w", err)
		}

		rec := NewNode(KindRecord, "ButtonRecord")
		rbc := d.bits()
		rReserved := rbc.ReadUnsigned(2)
		hasBlendMode := rbc.ReadUnsigned(1) != 0
		hasFilterList := rbc.ReadUnsigned(1) != 0
		hitTest := rbc.ReadUnsigned(1)
		stateDown := rbc.ReadUnsigned(1)
		stateOver := rbc.ReadUnsigned(1)
		stateUp := rbc.ReadUnsigned(1)
		if err := rbc.Err(); err != nil {
			return nil, fmt.Errorf("swf: ButtonRecord flags: %w", err)
		}
		rec.Set("ButtonReserved", rReserved)
		rec.Set("ButtonHasBlendMode", hasBlendMode)
		rec.Set("ButtonHasFilterList", hasFilterList)
		rec.Set("ButtonStateHitTest", hitTest)
		rec.Set("ButtonStateDown", stateDown)
		rec.Set("ButtonStateOver", stateOver)
		rec.Set("ButtonStateUp", stateUp)

		charID, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: ButtonRecord.CharacterId: %w", err)
		}
		rec.Set("CharacterId", charID)
		placeDepth, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: ButtonRecord.PlaceDepth: %w", err)
		}
		rec.Set("PlaceDepth", placeDepth)
		matrix, err := d.readMatrix()
		if err != nil {
			return nil, fmt.Errorf("swf: ButtonRecord.PlaceMatrix: %w", err)
		}
		rec.Set("PlaceMatrix", matrix)
		ct, err := d.readCXFormWithAlpha()
		if err != nil {
			return nil, fmt.Errorf("swf: ButtonRecord.ColorTransform: %w", err)
		}
		rec.Set("ColorTransform", ct)
		if hasFilterList {
			fl, err := d.readFilterList()
			if err != nil {
				return nil, fmt.Errorf("swf: ButtonRecord.FilterList: %w", err)
			}
			rec.Set("FilterList", fl)
		}
		if hasBlendMode {
			mode, err := bitio.ReadUI8(d.src)
			if err != nil {
				return nil, fmt.Errorf("swf: ButtonRecord.BlendMode: %w", err)
			}
			rec.Set("BlendMode", mode)
		}
		characters = append(characters, rec)
	}
	n.Set("Characters", characters)

	var actions []*Node
	for {
		condSize, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: ButtonCondAction.CondActionSize: %w", err)
		}
		bca := NewNode(KindRecord, "ButtonCondAction")
		bca.Set("CondActionSize", condSize)

		bc := d.bits()
		bca.Set("CondIdleToOverDown", bc.ReadUnsigned(1))
		bca.Set("CondOutDownToIdle", bc.ReadUnsigned(1))
		bca.Set("CondOutDownToOverDown", bc.ReadUnsigned(1))
		bca.Set("CondOverDownToOutDown", bc.ReadUnsigned(1))
		bca.Set("CondOverDownToOverUp", bc.ReadUnsigned(1))
		bca.Set("CondOverUpToOverDown", bc.ReadUnsigned(1))
		bca.Set("CondOverUpToIdle", bc.ReadUnsigned(1))
		bca.Set("CondIdleToOverUp", bc.ReadUnsigned(1))
		bca.Set("CondKeyPress", bc.ReadUnsigned(7))
		bca.Set("CondOverDownToIdle", bc.ReadUnsigned(1))
		if err := bc.Err(); err != nil {
			return nil, fmt.Errorf("swf: ButtonCondAction flags: %w", err)
		}

		acts, err := d.readActionStream()
		if err != nil {
			return nil, fmt.Errorf("swf: ButtonCondAction.Actions: %w", err)
		}
		bca.Set("Actions", acts)
		actions = append(actions, bca)

		if condSize == 0 {
			break
		}
	}
	n.Set("Actions", actions)

	return n, nil
}
