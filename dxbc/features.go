// Copyright 2024, The DXIL Inspect Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package dxbc

import (
	"github.com/dsnet/golib/bits"

	"github.com/llvmbc/dxil-inspect/bitstream"
)

// Features is the SFI0 chunk's feature-bit mask.
type Features uint64

// featureNames pairs each bit index with the optional-feature name the
// original tool's DXIL::Features enum assigns it.
var featureNames = []string{
	"Double_precision_floating_point",
	"Raw_and_Structured_buffers",
	"UAVs_at_every_shader_stage",
	"64_UAV_slots",
	"Minimum_precision_data_types",
	"Double_precision_extensions_for_11_1",
	"Shader_extensions_for_11_1",
	"Comparison_filtering_for_feature_level_9",
	"Tiled_resources",
	"PS_Output_Stencil_Ref",
	"PS_Inner_Coverage",
	"Typed_UAV_Load_Additional_Formats",
	"Raster_Ordered_UAVs",
	"MultiView_From_Any_Shader",
	"Wave_level_operations",
	"64_Bit_integer",
	"View_Instancing",
	"Barycentrics",
	"Use_native_low_precision",
	"Shading_Rate",
	"Raytracing_tier_1_1_features",
	"Sampler_feedback",
}

// ParseFeatures decodes the SFI0 chunk, an 8-byte little-endian bitmask.
func ParseFeatures(payload []byte) (Features, error) {
	if len(payload) < 8 {
		return 0, bitstream.NewError(bitstream.Truncated, 0, "SFI0 chunk shorter than 8 bytes")
	}
	var f Features
	for i := range featureNames {
		if bits.Get(payload, i) {
			f |= 1 << uint(i)
		}
	}
	return f, nil
}

// Strings reports the names of every feature bit set in f.
func (f Features) Strings() []string {
	var out []string
	for i, name := range featureNames {
		if f&(1<<uint(i)) != 0 {
			out = append(out, name)
		}
	}
	return out
}
