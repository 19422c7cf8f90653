package tagging

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patchforge/pkg/patchforge/codec/synth1"
	"patchforge/pkg/patchforge/library"
)

// buildDB imports one bank where each name gets a distinct parameter set.
func buildDB(t *testing.T, names ...string) (*library.Database, []string) {
	t.Helper()

	db := library.New(synth1.New())
	sources := make([]library.Source, 0, len(names))
	for i, name := range names {
		var b strings.Builder
		fmt.Fprintf(&b, "%s\ncolor=red\nver=113\n", name)
		for j, v := range synth1.DefaultParams() {
			if j == 2 {
				v = i + 1
			}
			fmt.Fprintf(&b, "%d,%d\n", j, v)
		}
		sources = append(sources, library.Source{
			Name: fmt.Sprintf("%03d.sy1", i),
			Raw:  []byte(b.String()),
		})
	}

	report, err := db.ImportBank(context.Background(), "Test", sources)
	require.NoError(t, err)
	require.Equal(t, len(names), report.Imported)
	return db, db.FindByBank("Test")
}

func TestApplyNamesLookahead(t *testing.T) {
	db, keys := buildDB(t, "Deep Bass 1", "Bassoon Solo", "Warm Pad")

	defs := []Definition{{Tag: "Bass", Pattern: `bass(?!oon)`}}
	added, err := ApplyNames(db, defs, keys)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	bass, _ := db.Patch(keys[0])
	bassoon, _ := db.Patch(keys[1])
	pad, _ := db.Patch(keys[2])
	assert.True(t, bass.HasTag("Bass"))
	assert.False(t, bassoon.HasTag("Bass"))
	assert.False(t, pad.HasTag("Bass"))
}

func TestApplyNamesCaseInsensitive(t *testing.T) {
	db, keys := buildDB(t, "SCREAMING LEAD", "gentle lead")

	added, err := ApplyNames(db, []Definition{{Tag: "Lead", Pattern: `lead`}}, keys)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
}

func TestApplyNamesMultipleTagsPerPatch(t *testing.T) {
	db, keys := buildDB(t, "Bright Lead Pluck")

	defs := []Definition{
		{Tag: "Lead", Pattern: `lead`},
		{Tag: "Pluck", Pattern: `pluck`},
	}
	added, err := ApplyNames(db, defs, keys)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	p, _ := db.Patch(keys[0])
	assert.Equal(t, []string{"Lead", "Pluck"}, p.Tags())
}

func TestApplyNamesIdempotent(t *testing.T) {
	db, keys := buildDB(t, "Deep Bass 1")
	defs := []Definition{{Tag: "Bass", Pattern: `bass`}}

	added, err := ApplyNames(db, defs, keys)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	added, err = ApplyNames(db, defs, keys)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

func TestApplyNamesInvalidPattern(t *testing.T) {
	db, keys := buildDB(t, "Anything")

	defs := []Definition{
		{Tag: "Fine", Pattern: `ok`},
		{Tag: "Broken", Pattern: `((`},
	}
	_, err := ApplyNames(db, defs, keys)
	require.ErrorIs(t, err, ErrInvalidPattern)

	var perr *InvalidPatternError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Broken", perr.Tag)

	// A bad rule fails the batch before any matching; no tag sticks.
	p, _ := db.Patch(keys[0])
	assert.Equal(t, 0, p.TagCount())
}

func TestApplyNamesSkipsUnknownKeys(t *testing.T) {
	db, keys := buildDB(t, "Deep Bass 1")

	added, err := ApplyNames(db, []Definition{{Tag: "Bass", Pattern: `bass`}}, append([]string{"missing"}, keys...))
	require.NoError(t, err)
	assert.Equal(t, 1, added)
}

func TestDefaultDefinitions(t *testing.T) {
	defs := DefaultDefinitions()
	require.NotEmpty(t, defs)

	// Built-in patterns must all compile.
	_, err := compileDefinitions(defs)
	require.NoError(t, err)

	// The bass rule uses a lookahead that must keep excluding bassoons.
	db, keys := buildDB(t, "Acid Bass", "Bassoon")
	_, err = ApplyNames(db, defs, keys)
	require.NoError(t, err)
	bass, _ := db.Patch(keys[0])
	bassoon, _ := db.Patch(keys[1])
	assert.True(t, bass.HasTag("Bass"))
	assert.False(t, bassoon.HasTag("Bass"))
}

func TestLoadDefinitions(t *testing.T) {
	yaml := strings.NewReader("Bass: bass(?!oon)\nLead: \"\\\\blead\\\\b\"\nPad: pad\n")

	defs, err := LoadDefinitions(yaml)
	require.NoError(t, err)
	require.Len(t, defs, 3)

	// Document order is preserved.
	assert.Equal(t, Definition{Tag: "Bass", Pattern: "bass(?!oon)"}, defs[0])
	assert.Equal(t, Definition{Tag: "Lead", Pattern: `\blead\b`}, defs[1])
	assert.Equal(t, Definition{Tag: "Pad", Pattern: "pad"}, defs[2])
}

func TestLoadDefinitionsRejectsGarbage(t *testing.T) {
	_, err := LoadDefinitions(strings.NewReader("- just\n- a\n- list\n"))
	assert.Error(t, err)
}
