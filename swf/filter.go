// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swf

import (
	"fmt"

	"github.com/cosnicolaou/swfdump/internal/bitio"
)

// filterReaders maps a FilterId to the filter-variant name and its reader,
// populated once at init time: a static dispatch table keyed by numeric
// code, per the re-architecture guidance for dynamic handler lookups.
var filterReaders []struct {
	name string
	read func(d *decoder) (*Node, error)
}

func init() {
	filterReaders = []struct {
		name string
		read func(d *decoder) (*Node, error)
	}{
		{"DropShadowFilter", (*decoder).readDropShadowFilter},
		{"BlurFilter", (*decoder).readBlurFilter},
		{"GlowFilter", (*decoder).readGlowFilter},
		{"BevelFilter", (*decoder).readBevelFilter},
		{"GradientGlowFilter", (*decoder).readGradientGlowFilter},
		{"ConvolutionFilter", (*decoder).readConvolutionFilter},
		{"ColorMatrixFilter", (*decoder).readColorMatrixFilter},
		{"GradientBevelFilter", (*decoder).readGradientBevelFilter},
	}
}

// readFilterList reads a FILTERLIST: a count byte, then that many Filter
// records, each a FilterId byte selecting one of 8 filter-variant readers.
func (d *decoder) readFilterList() (*Node, error) {
	n := NewNode(KindRecord, "FilterList")
	count, err := bitio.ReadUI8(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: FilterList.NumberOfFilters: %w", err)
	}
	n.Set("NumberOfFilters", count)

	filters := make([]*Node, 0, count)
	for i := 0; i < int(count); i++ {
		id, err := bitio.ReadUI8(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: Filter.FilterId: %w", err)
		}
		if int(id) >= len(filterReaders) {
			return nil, newError(ProtocolAssertionFailure, "Filter", d.src.Tell(), fmt.Errorf("unknown FilterId %d", id))
		}
		entry := filterReaders[id]
		body, err := entry.read(d)
		if err != nil {
			return nil, fmt.Errorf("swf: Filter: %w", err)
		}
		rec := NewNode(KindRecord, "Filter")
		rec.Set("FilterId", id)
		rec.Set(entry.name, body)
		filters = append(filters, rec)
	}
	n.Set("Filter", filters)
	return n, nil
}

func (d *decoder) readDropShadowFilter() (*Node, error) {
	n := NewNode(KindRecord, "DropShadowFilter")
	color, err := d.readRGBA()
	if err != nil {
		return nil, err
	}
	n.Set("DropShadowColor", color)
	if err := readFixed16Fields(d, n, "BlurX", "BlurY", "Angle", "Distance"); err != nil {
		return nil, err
	}
	strength, err := bitio.ReadFixed8(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("Strength", strength)
	bc := d.bits()
	n.Set("InnerShadow", bc.ReadUnsigned(1))
	n.Set("Knockout", bc.ReadUnsigned(1))
	n.Set("CompositeSource", bc.ReadUnsigned(1))
	n.Set("Passes", bc.ReadUnsigned(5))
	return n, bc.Err()
}

func (d *decoder) readBlurFilter() (*Node, error) {
	n := NewNode(KindRecord, "BlurFilter")
	if err := readFixed16Fields(d, n, "BlurX", "BlurY"); err != nil {
		return nil, err
	}
	bc := d.bits()
	n.Set("Passes", bc.ReadUnsigned(5))
	n.Set("Reserved", bc.ReadUnsigned(3))
	return n, bc.Err()
}

func (d *decoder) readGlowFilter() (*Node, error) {
	n := NewNode(KindRecord, "GlowFilter")
	color, err := d.readRGBA()
	if err != nil {
		return nil, err
	}
	n.Set("GlowColor", color)
	if err := readFixed16Fields(d, n, "BlurX", "BlurY"); err != nil {
		return nil, err
	}
	strength, err := bitio.ReadFixed8(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("Strength", strength)
	bc := d.bits()
	n.Set("InnerGlow", bc.ReadUnsigned(1))
	n.Set("Knockout", bc.ReadUnsigned(1))
	n.Set("CompositeSource", bc.ReadUnsigned(1))
	n.Set("Passes", bc.ReadUnsigned(5))
	return n, bc.Err()
}

func (d *decoder) readBevelFilter() (*Node, error) {
	n := NewNode(KindRecord, "BevelFilter")
	shadow, err := d.readRGBA()
	if err != nil {
		return nil, err
	}
	n.Set("ShadowColor", shadow)
	highlight, err := d.readRGBA()
	if err != nil {
		return nil, err
	}
	n.Set("HighlightColor", highlight)
	if err := readFixed16Fields(d, n, "BlurX", "BlurY", "Angle", "Distance"); err != nil {
		return nil, err
	}
	strength, err := bitio.ReadFixed8(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("Strength", strength)
	bc := d.bits()
	n.Set("InnerShadow", bc.ReadUnsigned(1))
	n.Set("Knockout", bc.ReadUnsigned(1))
	n.Set("CompositeSource", bc.ReadUnsigned(1))
	n.Set("OnTop", bc.ReadUnsigned(1))
	n.Set("Passes", bc.ReadUnsigned(4))
	return n, bc.Err()
}

func (d *decoder) readGradientColorFilterBase(name string) (*Node, error) {
	n := NewNode(KindRecord, name)
	numColors, err := bitio.ReadUI8(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("NumColors", numColors)
	colors := make([]*Node, 0, numColors)
	for i := 0; i < int(numColors); i++ {
		c, err := d.readRGBA()
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	n.Set("GradientColors", colors)
	ratios := make([]uint8, 0, numColors)
	for i := 0; i < int(numColors); i++ {
		r, err := bitio.ReadUI8(d.src)
		if err != nil {
			return nil, err
		}
		ratios = append(ratios, r)
	}
	n.Set("GradientRatio", ratios)
	if err := readFixed16Fields(d, n, "BlurX", "BlurY", "Angle", "Distance"); err != nil {
		return nil, err
	}
	strength, err := bitio.ReadFixed8(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("Strength", strength)
	return n, nil
}

// readGradientGlowFilter reads a GRADIENTGLOWFILTER. Its record name is
// "GradientBevelFilter" in the original parser (a copy/paste artifact
// preserved here verbatim for fidelity, see DESIGN.md).
func (d *decoder) readGradientGlowFilter() (*Node, error) {
	n, err := d.readGradientColorFilterBase("GradientBevelFilter")
	if err != nil {
		return nil, err
	}
	bc := d.bits()
	n.Set("InnerShadow", bc.ReadUnsigned(1))
	n.Set("Knockout", bc.ReadUnsigned(1))
	n.Set("CompositeSource", bc.ReadUnsigned(1))
	n.Set("OnTop", bc.ReadUnsigned(1))
	n.Set("Passes", bc.ReadUnsigned(4))
	return n, bc.Err()
}

func (d *decoder) readConvolutionFilter() (*Node, error) {
	n := NewNode(KindRecord, "ConvolutionFilter")
	mx, err := bitio.ReadUI8(d.src)
	if err != nil {
		return nil, err
	}
	my, err := bitio.ReadUI8(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("MatrixX", mx)
	n.Set("MatrixY", my)
	divisor, err := bitio.ReadFloat32(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("Divisor", divisor)
	bias, err := bitio.ReadFloat32(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("Bias", bias)

	quant := int(mx) * int(my)
	matrix := make([]float32, 0, quant)
	for i := 0; i < quant; i++ {
		v, err := bitio.ReadFloat32(d.src)
		if err != nil {
			return nil, err
		}
		matrix = append(matrix, v)
	}
	n.Set("Matrix", matrix)

	color, err := d.readRGBA()
	if err != nil {
		return nil, err
	}
	n.Set("DefaultColor", color)

	bc := d.bits()
	n.Set("Reserved", bc.ReadUnsigned(6))
	n.Set("Clamp", bc.ReadUnsigned(1))
	n.Set("PreserveAlpha", bc.ReadUnsigned(1))
	return n, bc.Err()
}

func (d *decoder) readColorMatrixFilter() (*Node, error) {
	n := NewNode(KindRecord, "ColorMatrixFilter")
	matrix := make([]float32, 0, 20)
	for i := 0; i < 20; i++ {
		v, err := bitio.ReadFloat32(d.src)
		if err != nil {
			return nil, err
		}
		matrix = append(matrix, v)
	}
	n.Set("Matrix", matrix)
	return n, nil
}

func (d *decoder) readGradientBevelFilter() (*Node, error) {
	n, err := d.readGradientColorFilterBase("GradientBevelFilter")
	if err != nil {
		return nil, err
	}
	bc := d.bits()
	n.Set("InnerShadow", bc.ReadUnsigned(1))
	n.Set("Knockout", bc.ReadUnsigned(1))
	n.Set("CompositeSource", bc.ReadUnsigned(1))
	n.Set("OnTop", bc.ReadUnsigned(1))
	n.Set("Passes", bc.ReadUnsigned(4))
	return n, bc.Err()
}

func readFixed16Fields(d *decoder, n *Node, names ...string) error {
	for _, name := range names {
		v, err := bitio.ReadFixed16(d.src)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		n.Set(name, v)
	}
	return nil
}
