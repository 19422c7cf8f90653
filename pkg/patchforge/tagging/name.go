// Package tagging implements the two tagging engines: deterministic
// name-based tagging from user-supplied pattern rules, and a parameter-
// space nearest-neighbor classifier trained on the already-tagged subset
// of the library.
package tagging

import (
	"github.com/dlclark/regexp2"

	"patchforge/pkg/patchforge/library"
)

// Definition is one name-tagging rule: patches whose name matches Pattern
// (case-insensitive) receive Tag. Patterns use full regular-expression
// syntax including lookarounds, which the built-in rule table relies on.
type Definition struct {
	Tag     string `yaml:"tag"`
	Pattern string `yaml:"pattern"`
}

type compiledDef struct {
	tag string
	re  *regexp2.Regexp
}

// compileDefinitions validates every pattern before any matching begins,
// isolating a malformed rule from the batch.
func compileDefinitions(defs []Definition) ([]compiledDef, error) {
	out := make([]compiledDef, 0, len(defs))
	for _, d := range defs {
		re, err := regexp2.Compile(d.Pattern, regexp2.IgnoreCase)
		if err != nil {
			return nil, &InvalidPatternError{Tag: d.Tag, Pattern: d.Pattern, Err: err}
		}
		out = append(out, compiledDef{tag: d.Tag, re: re})
	}
	return out, nil
}

// ApplyNames runs every definition against every listed patch's name and
// tags the matches. Definitions are independent: a patch may gain several
// tags in one pass, and evaluation order does not affect the result set.
// Returns the number of tags actually added (idempotent re-runs add zero).
func ApplyNames(db *library.Database, defs []Definition, keys []string) (int, error) {
	compiled, err := compileDefinitions(defs)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, key := range keys {
		p, ok := db.Patch(key)
		if !ok {
			continue
		}
		for _, def := range compiled {
			matched, err := def.re.MatchString(p.Name)
			if err != nil {
				return added, &InvalidPatternError{Tag: def.tag, Pattern: def.re.String(), Err: err}
			}
			if !matched {
				continue
			}
			changed, err := db.AddTag(key, def.tag)
			if err != nil {
				return added, err
			}
			if changed {
				added++
			}
		}
	}
	return added, nil
}
