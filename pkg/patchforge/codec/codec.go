// Package codec translates between raw synthesizer patch bytes and a
// structured parameter representation. Each supported synth family
// implements Schema; families are selected by an explicit format tag.
package codec

import "regexp"

// ParameterSet is an ordered, fixed-length sequence of native parameter
// values, one per synthesizer control. It is treated as immutable once
// constructed from decoded bytes; encoders never modify it.
type ParameterSet []int

// Clone returns an independent copy of the parameter set.
func (ps ParameterSet) Clone() ParameterSet {
	out := make(ParameterSet, len(ps))
	copy(out, ps)
	return out
}

// Equal reports whether both sets have the same length and every position
// matches.
func (ps ParameterSet) Equal(other ParameterSet) bool {
	if len(ps) != len(other) {
		return false
	}
	for i, v := range ps {
		if other[i] != v {
			return false
		}
	}
	return true
}

// Patch is a fully decoded patch: its name, family-specific metadata
// (e.g. color and version for Synth1) and the parameter set.
type Patch struct {
	Name   string
	Meta   map[string]string
	Params ParameterSet
}

// Schema is the codec capability of one synth family. Implementations are
// stateless; all methods are safe for concurrent use.
type Schema interface {
	// Family is the format tag this schema is registered under.
	Family() string
	// NumParams is the fixed parameter count of the family.
	NumParams() int
	// PluginID is the VST2 plugin identifier used in interchange headers.
	PluginID() int32

	// Decode parses a native patch file. Any layout violation fails with
	// an error wrapping ErrMalformed; no partial result is returned.
	Decode(raw []byte) (*Patch, error)
	// EncodeNative serializes the patch back to its native file format.
	// Output is byte-for-byte deterministic for a given patch.
	EncodeNative(p *Patch) ([]byte, error)

	// EncodeChunk builds the family's opaque VST chunk payload.
	EncodeChunk(p *Patch) ([]byte, error)
	// DecodeChunk is the inverse of EncodeChunk.
	DecodeChunk(chunk []byte) (*Patch, error)

	// NormalizedParams re-expresses the parameters on a 0.0-1.0 scale.
	// Families whose parameter semantics are not mapped return an error
	// wrapping ErrUnsupportedMode.
	NormalizedParams(ps ParameterSet) ([]float32, error)

	// FilePattern matches file names that hold patches of this family.
	FilePattern() *regexp.Regexp
	// FileExt is the native patch file extension, without the dot.
	FileExt() string
}
