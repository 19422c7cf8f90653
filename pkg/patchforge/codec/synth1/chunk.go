package synth1

import (
	"bytes"
	"encoding/binary"
	"strconv"

	"patchforge/pkg/patchforge/codec"
)

// Synth1 chunk data is a fixed 2624-byte blob: a 569-byte header, an
// XDR-style list of the 95 conforming parameters, and a 1263-byte footer.
// Two quirks of the plugin are reproduced byte for byte:
//
//   - The four MIDI-control parameters do not conform to the list
//     structure. They are replaced on encode by a fixed 32-byte filler at
//     offset 0x2AC of the list buffer, and restored to their default
//     values on decode.
//   - The key-shift value is stored with its 7-byte region reversed,
//     unlike every other parameter.

const (
	chunkMagicText  = "Synth1 VST Chunk Data"
	chunkHeaderSize = 569
	chunkFooterSize = 1263
	// 95 conforming entries: first value bare, 94 flagged entries, then a
	// terminating zero word.
	listSize  = 4 + 94*8 + 4
	chunkSize = chunkHeaderSize + listSize + len(ignoredFiller) + chunkFooterSize

	// Offsets within the header of the version byte and marker bytes.
	headerMarkerOff  = 32
	headerVersionOff = 560
	headerFlagOff1   = 565
	headerFlagOff2   = 568

	// Where the filler sits within the list buffer, and the reversed
	// key-shift region.
	fillerOffset  = 0x2AC
	keyShiftStart = 0x48
	keyShiftEnd   = 0x4E // inclusive
)

// Indices of the non-conforming MIDI-control parameters.
var ignoredParams = [4]int{86, 87, 88, 89}

// Replacement bytes for the ignored parameters; these are the plugin's own
// default values in its non-XDR layout.
var ignoredFiller = [...]byte{
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0xb0, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x2c,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0xb0, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x2b,
}

func chunkHeader(ver int) []byte {
	h := make([]byte, chunkHeaderSize)
	copy(h, chunkMagicText)
	h[headerMarkerOff] = 0x02
	h[headerVersionOff] = byte(ver)
	h[headerFlagOff1] = 0x01
	h[headerFlagOff2] = 0x01
	return h
}

func chunkFooter(ver int) []byte {
	f := make([]byte, chunkFooterSize)
	f[1207] = 0x01
	f[1211] = byte(ver)
	f[1215] = 0x01
	f[1223] = 0x01
	f[1239] = 0x01
	f[1243] = 0x40
	return f
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func isIgnored(idx int) bool {
	for _, ig := range ignoredParams {
		if idx == ig {
			return true
		}
	}
	return false
}

// EncodeChunk builds the plugin's opaque chunk from the patch. The input is
// never mutated and repeated encodes are identical.
func (s *Schema) EncodeChunk(p *codec.Patch) ([]byte, error) {
	if len(p.Params) != NumParams {
		return nil, codec.Malformedf("expected %d parameters, got %d", NumParams, len(p.Params))
	}
	ver, err := patchVersion(p)
	if err != nil {
		return nil, err
	}

	conforming := make([]int, 0, NumParams-len(ignoredParams))
	for i, v := range p.Params {
		if !isIgnored(i) {
			conforming = append(conforming, v)
		}
	}

	list := make([]byte, 0, listSize)
	var word [4]byte
	put := func(v uint32) {
		binary.BigEndian.PutUint32(word[:], v)
		list = append(list, word[:]...)
	}
	put(uint32(int32(conforming[0])))
	for _, v := range conforming[1:] {
		put(1)
		put(uint32(int32(v)))
	}
	put(0)

	// Key-shift endianness quirk.
	reverseBytes(list[keyShiftStart : keyShiftEnd+1])

	buf := bytes.NewBuffer(make([]byte, 0, chunkSize))
	buf.Write(chunkHeader(ver))
	buf.Write(list[:fillerOffset])
	buf.Write(ignoredFiller[:])
	buf.Write(list[fillerOffset:])
	buf.Write(chunkFooter(ver))
	return buf.Bytes(), nil
}

// DecodeChunk is the inverse of EncodeChunk. The four MIDI-control
// parameters are not representable in the chunk's list structure and come
// back as their schema defaults.
func (s *Schema) DecodeChunk(chunk []byte) (*codec.Patch, error) {
	if len(chunk) != chunkSize {
		return nil, codec.Malformedf("chunk is %d bytes, want %d", len(chunk), chunkSize)
	}
	if string(chunk[:len(chunkMagicText)]) != chunkMagicText {
		return nil, codec.Malformedf("chunk magic mismatch")
	}
	if chunk[headerMarkerOff] != 0x02 || chunk[headerFlagOff1] != 0x01 || chunk[headerFlagOff2] != 0x01 {
		return nil, codec.Malformedf("chunk header markers corrupt")
	}
	ver := int(chunk[headerVersionOff])
	if ver < minVersion || ver > maxVersion {
		return nil, codec.Malformedf("chunk version %d outside supported range %d-%d", ver, minVersion, maxVersion)
	}

	body := chunk[chunkHeaderSize : chunkHeaderSize+listSize+len(ignoredFiller)]
	if !bytes.Equal(body[fillerOffset:fillerOffset+len(ignoredFiller)], ignoredFiller[:]) {
		return nil, codec.Malformedf("chunk filler block corrupt")
	}

	list := make([]byte, 0, listSize)
	list = append(list, body[:fillerOffset]...)
	list = append(list, body[fillerOffset+len(ignoredFiller):]...)
	reverseBytes(list[keyShiftStart : keyShiftEnd+1])

	if binary.BigEndian.Uint32(list[listSize-4:]) != 0 {
		return nil, codec.Malformedf("chunk list terminator missing")
	}

	conforming := make([]int, 0, NumParams-len(ignoredParams))
	conforming = append(conforming, int(int32(binary.BigEndian.Uint32(list[0:4]))))
	for i := 1; i < NumParams-len(ignoredParams); i++ {
		off := 8 * i
		if binary.BigEndian.Uint32(list[off-4:off]) != 1 {
			return nil, codec.Malformedf("chunk list entry %d has bad flag", i)
		}
		conforming = append(conforming, int(int32(binary.BigEndian.Uint32(list[off:off+4]))))
	}

	params := make(codec.ParameterSet, NumParams)
	next := 0
	for i := range params {
		if isIgnored(i) {
			params[i] = defaultValues[i]
			continue
		}
		params[i] = conforming[next]
		next++
	}

	return &codec.Patch{
		Meta: map[string]string{
			MetaColor: defaultColor,
			MetaVer:   strconv.Itoa(ver),
		},
		Params: params,
	}, nil
}
