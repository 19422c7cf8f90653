// Package identity derives content identities for parameter sets. The
// identity is the dedup key of the patch database: parameter-equal sets
// always yield equal identities.
package identity

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"patchforge/pkg/patchforge/codec"
)

// ID is a content digest over a parameter set's canonical encoding.
type ID [sha256.Size]byte

// Canonical returns the canonical byte encoding of a parameter set: each
// value as a big-endian int32, in order. This encoding is also what the
// database persists as the patch's raw parameter bytes.
func Canonical(ps codec.ParameterSet) []byte {
	out := make([]byte, 4*len(ps))
	for i, v := range ps {
		binary.BigEndian.PutUint32(out[4*i:], uint32(int32(v)))
	}
	return out
}

// FromCanonical decodes a canonical encoding back into a parameter set.
func FromCanonical(raw []byte) (codec.ParameterSet, bool) {
	if len(raw)%4 != 0 {
		return nil, false
	}
	ps := make(codec.ParameterSet, len(raw)/4)
	for i := range ps {
		ps[i] = int(int32(binary.BigEndian.Uint32(raw[4*i:])))
	}
	return ps, true
}

// Compute digests the parameter set.
func Compute(ps codec.ParameterSet) ID {
	return sha256.Sum256(Canonical(ps))
}

// String returns the hex form used in logs and the persisted store.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// Parse decodes the hex form back into an ID.
func Parse(s string) (ID, bool) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != sha256.Size {
		return ID{}, false
	}
	var id ID
	copy(id[:], raw)
	return id, true
}
