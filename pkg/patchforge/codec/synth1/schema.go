// Package synth1 implements the codec for the Synth1 VST synthesizer
// family: the native .sy1 patch file format, the plugin's opaque chunk
// layout, and the normalized 0-1 parameter mapping.
package synth1

import (
	"regexp"
	"runtime"

	"patchforge/pkg/patchforge/codec"
)

const (
	// FamilyTag is the format tag this schema registers under.
	FamilyTag = "synth1"
	// NumParams is the fixed Synth1 parameter count.
	NumParams = 99

	fileExt = "sy1"

	defaultColor   = "default"
	defaultVersion = 113
	minVersion     = 100
	maxVersion     = 113

	// VST plugin IDs of the two Synth1 releases. The win32 build runs on
	// every platform through a compat layer, so it is the default outside
	// of darwin.
	pluginIDWin32  = 1395742323
	pluginIDDarwin = 1450726194
)

var filePattern = regexp.MustCompile(`^[0-9]{3}\.[sS][yY]1$`)

// Metadata keys carried in a patch's Meta map.
const (
	MetaColor = "color"
	MetaVer   = "ver"
)

var knownColors = []string{"red", "blue", "green", "yellow", "magenta", "cyan", "default"}

// Synth1 parameters as defined in Zoran Nikolic's unofficial manual.
var paramNames = [NumParams]string{
	"osc1 shape", "osc2 shape", "osc2 pitch", "osc2 fine tune", "osc2 kbd track",
	"osc mix", "osc2 sync", "osc2 ring modulation", "osc pulse width", "osc key shift",
	"osc mod env on/off", "osc mod env amount", "osc mod env attack", "osc mod env decay", "filter type",
	"filter attack", "filter decay", "filter sustain", "filter release", "filter freq",
	"filter resonance", "filter amount", "filter kbd track", "filter saturation", "filter velocity switch",
	"amp attack", "amp decay", "amp sustain", "amp release", "amp gain",
	"amp velocity sens", "arpeggiator type", "arpeggiator oct range", "arpeggiator beat", "arpeggiator gate",
	"delay time", "delay feedback", "delay dry/wet", "play mode type", "portament time",
	"pitch bend range", "lfo1 destination", "lfo1 type", "lfo1 speed", "lfo1 depth",
	"osc1 FM", "lfo2 destination", "lfo2 type", "lfo2 speed", "lfo2 depth",
	"midi ctrl sens1", "midi ctrl sens2", "chorus delay time", "chorus depth", "chorus rate",
	"chorus feedback", "chorus level", "lfo1 on/off", "lfo2 on/off", "arpeggiator on/off",
	"equalizer tone", "equalizer freq", "equalizer level", "equalizer Q", "chorus type",
	"delay on/off", "chorus on/off", "lfo1 tempo sync", "lfo1 key sync", "lfo2 tempo sync",
	"lfo2 key sync", "osc mod dest", "osc1,2 fine tune", "unison mode", "portament auto mode",
	"unison detune", "osc1 detune", "effect on/off", "effect type", "effect control1",
	"effect control2", "effect level/mix", "delay type", "delay time spread", "unison pan spread",
	"unison pitch", "midi ctrl src1", "midi ctrl assign1", "midi ctrl src2", "midi ctrl assign2",
	"pan", "osc phase shift", "unison phase shift", "unison voice num", "polyphony",
	"osc1 sub gain", "osc1 sub shape", "osc1 sub octave", "delay tone",
}

// Maximum value of each parameter; 0 is the assumed minimum, though it
// isn't always in practice.
var paramMax = [NumParams]int{
	4, 3, 127, 127, 1, 127, 1, 1, 127, 48,
	1, 127, 127, 127, 3, 127, 127, 127, 127, 127,
	127, 127, 127, 127, 1, 127, 127, 127, 127, 127,
	127, 3, 3, 18, 127, 19, 127, 127, 2, 127,
	24, 6, 5, 127, 127, 127, 6, 5, 127, 127,
	127, 127, 127, 127, 127, 127, 127, 1, 1, 1,
	127, 127, 127, 127, 3, 1, 1, 1, 1, 1,
	1, 2, 127, 1, 1, 127, 127, 1, 9, 127,
	127, 127, 2, 127, 127, 48, 65536, 99, 65536, 99,
	127, 127, 127, 6, 31, 127, 3, 1, 127,
}

// Offsets applied before scaling for the parameters whose nonzero minimum
// cannot be ignored, keyed by parameter index.
var normOffsets = map[int]int{
	1: -1, 9: 24, 31: -1, 41: -1, 46: -1, 64: -1, 87: 1, 89: 1, 93: -2, 94: -1,
}

// Ordered default values of each parameter.
var defaultValues = [NumParams]int{
	2, 1, 64, 81, 1, 64, 0, 0, 64, 0,
	0, 64, 0, 0, 1, 0, 64, 32, 64, 81,
	14, 128, 64, 0, 1, 64, 64, 107, 64, 107,
	64, 1, 0, 11, 64, 8, 40, 20, 0, 0,
	12, 2, 1, 64, 0, 0, 5, 1, 64, 64,
	74, 74, 64, 64, 50, 64, 40, 1, 1, 0,
	64, 64, 64, 64, 2, 1, 1, 0, 0, 0,
	0, 0, 64, 0, 0, 22, 0, 0, 0, 64,
	64, 64, 0, 66, 64, 24, 45057, 44, 45057, 43,
	64, 0, 0, 2, 16, 0, 1, 1, 64,
}

// Schema is the Synth1 codec. It is stateless.
type Schema struct{}

func init() {
	codec.Register(New())
}

// New returns the Synth1 schema.
func New() *Schema {
	return &Schema{}
}

func (s *Schema) Family() string { return FamilyTag }

func (s *Schema) NumParams() int { return NumParams }

func (s *Schema) PluginID() int32 {
	if runtime.GOOS == "darwin" {
		return pluginIDDarwin
	}
	return pluginIDWin32
}

func (s *Schema) FilePattern() *regexp.Regexp { return filePattern }

func (s *Schema) FileExt() string { return fileExt }

// ParamName returns the human-readable name of the parameter at index i.
func ParamName(i int) string { return paramNames[i] }

// DefaultParams returns a fresh copy of the schema's default parameter
// values.
func DefaultParams() []int {
	out := make([]int, NumParams)
	copy(out, defaultValues[:])
	return out
}
