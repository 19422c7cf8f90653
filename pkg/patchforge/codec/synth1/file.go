package synth1

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"patchforge/pkg/patchforge/codec"
)

// .sy1 files are latin-1 text: the patch name on the first line, a
// color= line, a ver= line, then one "index,value" line per parameter.
// Some people like to put weird things in their files, so decoding repairs
// missing metadata lines the way Synth1 itself does before validating the
// rest strictly.

func decodeLatin1(raw []byte) string {
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}

func encodeLatin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			out = append(out, '?')
		} else {
			out = append(out, byte(r))
		}
	}
	return out
}

// Decode parses a native .sy1 patch file. Layout violations fail with an
// error wrapping codec.ErrMalformed; no partial result is returned.
func (s *Schema) Decode(raw []byte) (*codec.Patch, error) {
	text := strings.TrimSpace(strings.ReplaceAll(decodeLatin1(raw), "\r\n", "\n"))
	lines := strings.Split(text, "\n")
	if len(lines) < 4 {
		return nil, codec.Malformedf("patch file has %d lines, need at least 4", len(lines))
	}

	// Repair pass: tolerate a missing color or ver line by inserting the
	// defaults, as the original format allows either to be absent.
	if !strings.HasPrefix(strings.ToLower(lines[1]), MetaColor) {
		lines = append(lines[:1], append([]string{MetaColor + "=" + defaultColor}, lines[1:]...)...)
	} else {
		lines[1] = strings.ToLower(lines[1])
	}
	if !strings.HasPrefix(strings.ToLower(lines[2]), MetaVer) {
		lines = append(lines[:2], append([]string{fmt.Sprintf("%s=%d", MetaVer, defaultVersion)}, lines[2:]...)...)
	} else {
		lines[2] = strings.ToLower(lines[2])
	}

	name := strings.TrimSpace(lines[0])

	color, err := metaValue(lines[1], MetaColor)
	if err != nil {
		return nil, err
	}
	if !isKnownColor(color) {
		color = defaultColor
	}
	verStr, err := metaValue(lines[2], MetaVer)
	if err != nil {
		return nil, err
	}
	ver, err := strconv.Atoi(verStr)
	if err != nil || ver < minVersion || ver > maxVersion {
		return nil, codec.Malformedf("version marker %q outside supported range %d-%d", verStr, minVersion, maxVersion)
	}

	params := codec.ParameterSet(DefaultParams())
	for n, line := range lines[3:] {
		if line == "" {
			continue
		}
		idxStr, valStr, ok := strings.Cut(line, ",")
		if !ok {
			return nil, codec.Malformedf("line %d: %q is not an index,value pair", n+4, line)
		}
		idx, err := strconv.Atoi(idxStr)
		if err != nil {
			return nil, codec.Malformedf("line %d: bad parameter index %q", n+4, idxStr)
		}
		if idx < 0 || idx >= NumParams {
			return nil, codec.Malformedf("line %d: parameter index %d out of range", n+4, idx)
		}
		val, err := strconv.Atoi(strings.TrimSpace(valStr))
		if err != nil {
			return nil, codec.Malformedf("line %d: bad parameter value %q", n+4, valStr)
		}
		params[idx] = val
	}

	return &codec.Patch{
		Name: name,
		Meta: map[string]string{
			MetaColor: color,
			MetaVer:   strconv.Itoa(ver),
		},
		Params: params,
	}, nil
}

func isKnownColor(c string) bool {
	for _, k := range knownColors {
		if c == k {
			return true
		}
	}
	return false
}

func metaValue(line, key string) (string, error) {
	_, val, ok := strings.Cut(line, "=")
	if !ok {
		return "", codec.Malformedf("%s line %q has no value", key, line)
	}
	return strings.TrimSpace(val), nil
}

// EncodeNative serializes the patch to .sy1 form. Output is byte-for-byte
// deterministic and never mutates the input.
func (s *Schema) EncodeNative(p *codec.Patch) ([]byte, error) {
	if len(p.Params) != NumParams {
		return nil, codec.Malformedf("expected %d parameters, got %d", NumParams, len(p.Params))
	}

	var buf bytes.Buffer
	buf.WriteString(p.Name)
	buf.WriteByte('\n')
	fmt.Fprintf(&buf, "%s=%s\n", MetaColor, metaOrDefault(p, MetaColor, defaultColor))
	fmt.Fprintf(&buf, "%s=%s\n", MetaVer, metaOrDefault(p, MetaVer, strconv.Itoa(defaultVersion)))
	for i, v := range p.Params {
		fmt.Fprintf(&buf, "%d,%d\n", i, v)
	}
	return encodeLatin1(buf.String()), nil
}

func metaOrDefault(p *codec.Patch, key, def string) string {
	if p.Meta != nil {
		if v, ok := p.Meta[key]; ok && v != "" {
			return v
		}
	}
	return def
}

// patchVersion extracts the numeric Synth1 version for chunk building.
func patchVersion(p *codec.Patch) (int, error) {
	raw := metaOrDefault(p, MetaVer, strconv.Itoa(defaultVersion))
	ver, err := strconv.Atoi(raw)
	if err != nil || ver < minVersion || ver > maxVersion {
		return 0, codec.Malformedf("patch version %q outside supported range %d-%d", raw, minVersion, maxVersion)
	}
	return ver, nil
}
