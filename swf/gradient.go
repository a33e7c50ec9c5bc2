// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swf

import (
	"fmt"

	"github.com/cosnicolaou/swfdump/internal/bitio"
)

func (d *decoder) readGradRecords(shapeVersion int, n *Node) error {
	bc := d.bits()
	spread := bc.ReadUnsigned(2)
	interp := bc.ReadUnsigned(2)
	count := bc.ReadUnsigned(4)
	if err := bc.Err(); err != nil {
		return err
	}
	n.Set("SpreadMode", spread)
	n.Set("InterpolationMode", interp)
	n.Set("NumGradients", count)

	records := make([]*Node, 0, count)
	for i := uint32(0); i < count; i++ {
		rec := NewNode(KindRecord, "GradRecord")
		ratio, err := bitio.ReadUI8(d.src)
		if err != nil {
			return fmt.Errorf("GradRecord.Ratio: %w", err)
		}
		rec.Set("Ratio", ratio)
		var color *Node
		if shapeVersion <= 2 {
			color, err = d.readRGB()
		} else {
			color, err = d.readRGBA()
		}
		if err != nil {
			return fmt.Errorf("GradRecord.Color: %w", err)
		}
		rec.Set("Color", color)
		records = append(records, rec)
	}
	n.Set("GradientRecords", records)
	return nil
}

// readGradient reads a GRADIENT record: 2-bit spread, 2-bit interpolation,
// 4-bit count, then that many GradRecords.
func (d *decoder) readGradient(shapeVersion int) (*Node, error) {
	n := NewNode(KindRecord, "Gradient")
	if err := d.readGradRecords(shapeVersion, n); err != nil {
		return nil, fmt.Errorf("swf: Gradient: %w", err)
	}
	return n, nil
}

// readFocalGradient reads a FOCALGRADIENT: as GRADIENT, with an appended
// 8.8 fixed-point focal point.
func (d *decoder) readFocalGradient(shapeVersion int) (*Node, error) {
	n := NewNode(KindRecord, "FocalGradient")
	if err := d.readGradRecords(shapeVersion, n); err != nil {
		return nil, fmt.Errorf("swf: FocalGradient: %w", err)
	}
	focal, err := bitio.ReadFixed8(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: FocalGradient.FocalPoint: %w", err)
	}
	n.Set("FocalPoint", focal)
	return n, nil
}
