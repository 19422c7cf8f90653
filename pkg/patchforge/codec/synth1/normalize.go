package synth1

import "patchforge/pkg/patchforge/codec"

// NormalizedParams converts native Synth1 parameter values (arbitrary
// integers) to the interchange container's 0.0-1.0 float scale. Values are
// clamped into range after applying the per-parameter offset. This mapping
// is lossier than the opaque chunk and exists for hosts that cannot load
// plugin chunks.
func (s *Schema) NormalizedParams(ps codec.ParameterSet) ([]float32, error) {
	if len(ps) != NumParams {
		return nil, codec.Malformedf("expected %d parameters, got %d", NumParams, len(ps))
	}

	out := make([]float32, NumParams)
	for i, v := range ps {
		f := float64(v+normOffsets[i]) / float64(paramMax[i])
		if f < 0 {
			f = 0
		} else if f > 1 {
			f = 1
		}
		out[i] = float32(f)
	}
	return out, nil
}
