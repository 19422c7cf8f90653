package tagging

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultDefinitions returns the built-in name-tagging rule table for
// common synthesizer patch naming conventions.
func DefaultDefinitions() []Definition {
	return []Definition{
		{"Accordion", `acc(ord.on|\b)`},
		{"Acid", `acid|303`},
		{"Acoustic", `acoustic`},
		{"Air", `\bair`},
		{"Arp", `[^h]arp|peggi`},
		{"Bass", `^((?!drum).)*bass(?!oon)|\bb[as]\b`},
		{"Bell", `bell(s|z|\b)`},
		{"Brass", `bra?s|horn|trumpet|trombone`},
		{"Breath", `breath`},
		{"Build", `\bbuild`},
		{"Choir", `choir`},
		{"Clap", `clap`},
		{"Clav", `clav`},
		{"Crash & Sweep", `crash|sweep`},
		{"Cymbal", `crash|cym(bal)?|\bride|\brd\b`},
		{"Drop", `\bdrop`},
		{"Drum", `dru?m|snar|tom|kic?k|taiko|timpani`},
		{"Flanger", `flang`},
		{"FM", `fm`},
		{"FX", `fx|\bhit|effect|echo\b|noise|drone`},
		{"Guitar", `-string\b|g(u?i)?ta?r|pick`},
		{"Harp", `\bharp(?!si)`},
		{"Harpsichord", `harpsi`},
		{"Hat", `(hi-?|\b)hat(s|z|\b)|(((closed|open).?)|(?=.*?cym).*)hi`},
		{"Horn", `horn|trumpet|trombone`},
		{"Keys", `\bke?y`},
		{"Kick", `kic?k`},
		{"Lead", `lead|\bld\b|le?a?d.?(]|:)`},
		{"Lo-fi", `lo-?fi`},
		{"Mono", `mono`},
		{"Organ", `\borg|wurl`},
		{"Pad", `pa?d`},
		{"Percussion", `pe?rc|tamb`},
		{"Piano", `piano`},
		{"Pizzicato", `pizz(i|\b|.cato)`},
		{"Pluck", `pl(u|c|uc)?k`},
		{"Poly", `poly`},
		{"PWM", `pwm`},
		{"Reverse", `reverse`},
		{"Ride", `ride|\brd\b`},
		{"Saw", `saw`},
		{"Sitar", `sitar`},
		{"Snare", `snar`},
		{"Square", `square`},
		{"Stab", `\bstab`},
		{"Steel Drum", `^(?!.*?(?:g(u?i)?ta?r|pick|string)).*steel`},
		{"String", `(?!-)string|cello|violin|fiddle`},
		{"Sub", `sub`},
		{"Tom", `tom`},
		{"Triangle", `triang`},
		{"Trombone", `trombone`},
		{"Trumpet", `trumpet`},
		{"Voice", `choir|voice|voc(?!oder)|vox|goblin`},
		{"Wah", `wah`},
		{"Whistle", `whistl`},
		{"Wind", `wi?nd|clarinet|flute|piccolo|recorder|bassoon`},
		{"Wood", `wood`},
	}
}

// LoadDefinitions reads a user-authored YAML definitions file: a mapping
// from tag name to case-insensitive pattern. Rule order follows document
// order.
func LoadDefinitions(r io.Reader) ([]Definition, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing tag definitions: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("tag definitions must be a mapping of tag to pattern")
	}

	mapping := doc.Content[0]
	defs := make([]Definition, 0, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, val := mapping.Content[i], mapping.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("pattern for tag %q must be a string", key.Value)
		}
		defs = append(defs, Definition{Tag: key.Value, Pattern: val.Value})
	}
	return defs, nil
}

// LoadDefinitionsFile reads a definitions file from disk.
func LoadDefinitionsFile(path string) ([]Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening tag definitions: %w", err)
	}
	defer f.Close()
	return LoadDefinitions(f)
}
