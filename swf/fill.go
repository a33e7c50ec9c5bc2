// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swf

import (
	"fmt"

	"github.com/cosnicolaou/swfdump/internal/bitio"
)

// readFillStyle reads a single FILLSTYLE record. The type byte selects
// solid/gradient/bitmap; the color model (RGB vs RGBA) is gated by the
// enclosing shape's version.
func (d *decoder) readFillStyle(shapeVersion int) (*Node, error) {
	n := NewNode(KindRecord, "FillStyle")
	styleType, err := bitio.ReadUI8(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: FillStyle.FillStyleType: %w", err)
	}
	n.Set("FillStyleType", styleType)

	if styleType == 0x00 {
		var color *Node
		if shapeVersion <= 2 {
			color, err = d.readRGB()
		} else {
			color, err = d.readRGBA()
		}
		if err != nil {
			return nil, fmt.Errorf("swf: FillStyle.Color: %w", err)
		}
		n.Set("Color", color)
	}

	if styleType == 0x10 || styleType == 0x12 || styleType == 0x13 {
		m, err := d.readMatrix()
		if err != nil {
			return nil, fmt.Errorf("swf: FillStyle.GradientMatrix: %w", err)
		}
		n.Set("GradientMatrix", m)
	}

	switch styleType {
	case 0x10, 0x12:
		g, err := d.readGradient(shapeVersion)
		if err != nil {
			return nil, fmt.Errorf("swf: FillStyle.Gradient: %w", err)
		}
		n.Set("Gradient", g)
	case 0x13:
		g, err := d.readFocalGradient(shapeVersion)
		if err != nil {
			return nil, fmt.Errorf("swf: FillStyle.Gradient: %w", err)
		}
		n.Set("Gradient", g)
	}

	if styleType == 0x40 || styleType == 0x41 || styleType == 0x42 || styleType == 0x43 {
		id, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: FillStyle.BitmapId: %w", err)
		}
		n.Set("BitmapId", id)
		m, err := d.readMatrix()
		if err != nil {
			return nil, fmt.Errorf("swf: FillStyle.BitmapMatrix: %w", err)
		}
		n.Set("BitmapMatrix", m)
	}
	return n, nil
}

// readFillStyleArray reads a FILLSTYLEARRAY: a 1-byte count (0xFF escapes
// to a 2-byte extended count), then that many FillStyle records.
func (d *decoder) readFillStyleArray(shapeVersion int) (*Node, error) {
	n := NewNode(KindRecord, "FillStyleArray")
	count, err := bitio.ReadUI8(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: FillStyleArray.FillStyleCount: %w", err)
	}
	n.Set("FillStyleCount", count)
	total := int(count)
	if count == 0xFF {
		ext, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: FillStyleArray.FillStyleCountExtended: %w", err)
		}
		n.Set("FillStyleCountExtended", ext)
		total = int(ext)
	}
	styles := make([]*Node, 0, total)
	for i := 0; i < total; i++ {
		fs, err := d.readFillStyle(shapeVersion)
		if err != nil {
			return nil, err
		}
		styles = append(styles, fs)
	}
	n.Set("FillStyles", styles)
	return n, nil
}

// readLineStyleArray reads a LINESTYLEARRAY: a 1-byte count (0xFF escapes
// to a 2-byte extended count), then that many LineStyle (shape version <=
// 3) or LineStyle2 (version 4) records.
func (d *decoder) readLineStyleArray(shapeVersion int) (*Node, error) {
	n := NewNode(KindRecord, "LineStyleArray")
	count, err := bitio.ReadUI8(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: LineStyleArray.LineStyleCount: %w", err)
	}
	n.Set("LineStyleCount", count)
	total := int(count)
	if count == 0xFF {
		ext, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: LineStyleArray.LineStyleCountExtended: %w", err)
		}
		n.Set("LineStyleCountExtended", ext)
		total = int(ext)
	}

	styles := make([]*Node, 0, total)
	for i := 0; i < total; i++ {
		if shapeVersion <= 3 {
			rec := NewNode(KindRecord, "LineStyle")
			width, err := bitio.ReadUI16(d.src)
			if err != nil {
				return nil, fmt.Errorf("swf: LineStyle.Width: %w", err)
			}
			rec.Set("Width", width)
			var color *Node
			if shapeVersion <= 2 {
				color, err = d.readRGB()
			} else {
				color, err = d.readRGBA()
			}
			if err != nil {
				return nil, fmt.Errorf("swf: LineStyle.Color: %w", err)
			}
			rec.Set("Color", color)
			styles = append(styles, rec)
			continue
		}

		rec := NewNode(KindRecord, "LineStyle2")
		width, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: LineStyle2.Width: %w", err)
		}
		rec.Set("Width", width)

		bc := d.bits()
		startCap := bc.ReadUnsigned(2)
		join := bc.ReadUnsigned(2)
		hasFill := bc.ReadUnsigned(1)
		noHScale := bc.ReadUnsigned(1)
		noVScale := bc.ReadUnsigned(1)
		pixelHinting := bc.ReadUnsigned(1)
		bc.ReadUnsigned(5) // reserved
		noClose := bc.ReadUnsigned(1)
		endCap := bc.ReadUnsigned(2)
		if err := bc.Err(); err != nil {
			return nil, fmt.Errorf("swf: LineStyle2: %w", err)
		}
		rec.Set("StartCapStyle", startCap)
		rec.Set("JoinStyle", join)
		rec.Set("HasFillFlag", hasFill)
		rec.Set("NoHScaleFlag", noHScale)
		rec.Set("NoVScaleFlag", noVScale)
		rec.Set("PixelHintingFlag", pixelHinting)
		rec.Set("NoClose", noClose)
		rec.Set("EndCapStyle", endCap)

		if join == 2 {
			miter, err := bitio.ReadUI16(d.src)
			if err != nil {
				return nil, fmt.Errorf("swf: LineStyle2.MiterLimitFactor: %w", err)
			}
			rec.Set("MiterLimitFactor", miter)
		}
		if hasFill == 0 {
			color, err := d.readRGBA()
			if err != nil {
				return nil, fmt.Errorf("swf: LineStyle2.Color: %w", err)
			}
			rec.Set("Color", color)
		} else {
			fs, err := d.readFillStyle(shapeVersion)
			if err != nil {
				return nil, fmt.Errorf("swf: LineStyle2.Color: %w", err)
			}
			rec.Set("Color", fs)
		}
		styles = append(styles, rec)
	}
	n.Set("LineStyles", styles)
	return n, nil
}
