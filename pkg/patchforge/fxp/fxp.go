// Package fxp reads and writes the VST2 FXP preset container, the
// interchange format consumed by DAWs and plugin hosts. A container holds
// either an opaque plugin chunk (FPCh) or a flat list of normalized
// parameter values (FxCk).
package fxp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	chunkMagic    = "CcnK"
	magicParams   = "FxCk"
	magicChunk    = "FPCh"
	formatVersion = 1

	// Size of the fixed header, including the CcnK preamble.
	headerSize = 56
	// The size field in the header counts everything after itself.
	preambleSize = 8

	labelSize = 28
)

var ErrInvalidContainer = errors.New("invalid fxp container")

// Preset is a parsed FXP container.
type Preset struct {
	PluginID  int32
	FxVersion int32
	NumParams int32
	Label     string

	// Exactly one of the following is set, per the container magic.
	Params []float32 // FxCk form
	Chunk  []byte    // FPCh form
}

// IsChunk reports whether the preset carries an opaque chunk payload.
func (p *Preset) IsChunk() bool {
	return p.Chunk != nil
}

// encodeLabel clamps the label to the 28-byte latin-1 field. Characters
// outside latin-1 are replaced, matching how hosts treat preset names.
func encodeLabel(label string) [labelSize]byte {
	var out [labelSize]byte
	i := 0
	for _, r := range label {
		if i >= labelSize {
			break
		}
		if r > 0xFF {
			out[i] = '?'
		} else {
			out[i] = byte(r)
		}
		i++
	}
	return out
}

func decodeLabel(raw []byte) string {
	end := bytes.IndexByte(raw, 0)
	if end < 0 {
		end = len(raw)
	}
	runes := make([]rune, end)
	for i := 0; i < end; i++ {
		runes[i] = rune(raw[i])
	}
	return string(runes)
}

func writeHeader(buf *bytes.Buffer, fxMagic string, payloadSize int, pluginID, fxVersion, numParams int32, label string) {
	buf.WriteString(chunkMagic)
	binary.Write(buf, binary.BigEndian, int32(headerSize-preambleSize+payloadSize))
	buf.WriteString(fxMagic)
	binary.Write(buf, binary.BigEndian, int32(formatVersion))
	binary.Write(buf, binary.BigEndian, pluginID)
	binary.Write(buf, binary.BigEndian, fxVersion)
	binary.Write(buf, binary.BigEndian, numParams)
	lbl := encodeLabel(label)
	buf.Write(lbl[:])
}

// WriteParams builds an FxCk container from normalized parameter values.
func WriteParams(pluginID, fxVersion int32, label string, params []float32) []byte {
	var buf bytes.Buffer
	writeHeader(&buf, magicParams, 4*len(params), pluginID, fxVersion, int32(len(params)), label)
	for _, v := range params {
		binary.Write(&buf, binary.BigEndian, math.Float32bits(v))
	}
	return buf.Bytes()
}

// WriteChunk builds an FPCh container wrapping the plugin chunk verbatim.
// numParams is informational only; the chunk is the authoritative payload.
func WriteChunk(pluginID, fxVersion, numParams int32, label string, chunk []byte) []byte {
	var buf bytes.Buffer
	writeHeader(&buf, magicChunk, 4+len(chunk), pluginID, fxVersion, numParams, label)
	binary.Write(&buf, binary.BigEndian, int32(len(chunk)))
	buf.Write(chunk)
	return buf.Bytes()
}

// Parse validates and decodes an FXP container of either form.
func Parse(raw []byte) (*Preset, error) {
	if len(raw) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrInvalidContainer, len(raw))
	}
	if string(raw[0:4]) != chunkMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidContainer, raw[0:4])
	}
	size := int32(binary.BigEndian.Uint32(raw[4:8]))
	if int(size) != len(raw)-preambleSize {
		return nil, fmt.Errorf("%w: declared size %d, have %d", ErrInvalidContainer, size, len(raw)-preambleSize)
	}
	fxMagic := string(raw[8:12])
	version := int32(binary.BigEndian.Uint32(raw[12:16]))
	if version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrInvalidContainer, version)
	}

	p := &Preset{
		PluginID:  int32(binary.BigEndian.Uint32(raw[16:20])),
		FxVersion: int32(binary.BigEndian.Uint32(raw[20:24])),
		NumParams: int32(binary.BigEndian.Uint32(raw[24:28])),
		Label:     decodeLabel(raw[28:56]),
	}
	body := raw[headerSize:]

	switch fxMagic {
	case magicParams:
		if len(body) != 4*int(p.NumParams) {
			return nil, fmt.Errorf("%w: want %d parameter bytes, have %d", ErrInvalidContainer, 4*p.NumParams, len(body))
		}
		p.Params = make([]float32, p.NumParams)
		for i := range p.Params {
			p.Params[i] = math.Float32frombits(binary.BigEndian.Uint32(body[4*i:]))
		}
	case magicChunk:
		if len(body) < 4 {
			return nil, fmt.Errorf("%w: missing chunk length", ErrInvalidContainer)
		}
		chunkLen := int32(binary.BigEndian.Uint32(body[0:4]))
		if int(chunkLen) != len(body)-4 {
			return nil, fmt.Errorf("%w: declared chunk length %d, have %d", ErrInvalidContainer, chunkLen, len(body)-4)
		}
		p.Chunk = append([]byte(nil), body[4:]...)
	default:
		return nil, fmt.Errorf("%w: unknown fx magic %q", ErrInvalidContainer, fxMagic)
	}

	return p, nil
}
