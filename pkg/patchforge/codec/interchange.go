package codec

import (
	"fmt"

	"patchforge/pkg/patchforge/fxp"
)

// InterchangeMode selects the payload form of an exported FXP container.
type InterchangeMode int

const (
	// OpaqueChunk embeds the family's native chunk bytes verbatim. This is
	// lossless and works for every registered family; it is the default.
	OpaqueChunk InterchangeMode = iota
	// NormalizedParams re-expresses each parameter on a 0.0-1.0 scale in
	// the container's own parameter layout. Family-specific; may be
	// unimplemented.
	NormalizedParams
)

func (m InterchangeMode) String() string {
	switch m {
	case OpaqueChunk:
		return "chunk"
	case NormalizedParams:
		return "params"
	default:
		return fmt.Sprintf("InterchangeMode(%d)", int(m))
	}
}

// Default interchange fx version when a family does not carry its own.
const defaultFxVersion = 1

// EncodeInterchange wraps the patch in an FXP container. The input patch is
// never mutated and repeated encodes are byte-for-byte identical.
func EncodeInterchange(s Schema, p *Patch, mode InterchangeMode) ([]byte, error) {
	switch mode {
	case OpaqueChunk:
		chunk, err := s.EncodeChunk(p)
		if err != nil {
			return nil, err
		}
		return fxp.WriteChunk(s.PluginID(), defaultFxVersion, int32(s.NumParams()), p.Name, chunk), nil
	case NormalizedParams:
		vals, err := s.NormalizedParams(p.Params)
		if err != nil {
			return nil, err
		}
		return fxp.WriteParams(s.PluginID(), defaultFxVersion, p.Name, vals), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
	}
}

// DecodeInterchange recovers a patch from an opaque-chunk FXP container.
// Normalized-parameter containers are not decodable back to native values
// losslessly and are rejected with ErrUnsupportedMode.
func DecodeInterchange(s Schema, raw []byte) (*Patch, error) {
	preset, err := fxp.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if preset.PluginID != s.PluginID() {
		return nil, Malformedf("container plugin id %d does not belong to family %q", preset.PluginID, s.Family())
	}
	if !preset.IsChunk() {
		return nil, fmt.Errorf("%w: normalized-parameter containers cannot be decoded", ErrUnsupportedMode)
	}
	p, err := s.DecodeChunk(preset.Chunk)
	if err != nil {
		return nil, err
	}
	if preset.Label != "" {
		p.Name = preset.Label
	}
	return p, nil
}
