package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patchforge/pkg/patchforge/codec/synth1"
	"patchforge/pkg/patchforge/identity"
)

// sy1Source builds a well-formed .sy1 import source. Overrides are applied
// on top of the schema defaults so each distinct override map yields a
// distinct patch identity.
func sy1Source(fileName, patchName string, overrides map[int]int) Source {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\ncolor=red\nver=113\n", patchName)
	for i, v := range synth1.DefaultParams() {
		if ov, ok := overrides[i]; ok {
			v = ov
		}
		fmt.Fprintf(&b, "%d,%d\n", i, v)
	}
	return Source{Name: fileName, Raw: []byte(b.String())}
}

func newTestDB(t *testing.T) *Database {
	t.Helper()
	return New(synth1.New())
}

func importLeads(t *testing.T, db *Database) []string {
	t.Helper()
	report, err := db.ImportBank(context.Background(), "Leads", []Source{
		sy1Source("000.sy1", "Screaming Lead", map[int]int{0: 1}),
		sy1Source("001.sy1", "Soft Lead", map[int]int{0: 2}),
	})
	require.NoError(t, err)
	require.Equal(t, 2, report.Imported)
	return db.FindByBank("Leads")
}

func TestImportBank(t *testing.T) {
	db := newTestDB(t)

	report, err := db.ImportBank(context.Background(), "Leads", []Source{
		sy1Source("000.sy1", "Screaming Lead", map[int]int{0: 1}),
		{Name: "001.sy1", Raw: []byte("garbage")},
		sy1Source("002.sy1", "Soft Lead", map[int]int{0: 2}),
	})
	require.NoError(t, err)

	assert.Equal(t, "Leads", report.Bank)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 0, report.Duplicates)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "001.sy1", report.Failures[0].SourceName)
	assert.False(t, report.Cancelled)

	// The malformed file must not poison the rest of the bank.
	keys := db.FindByBank("Leads")
	require.Len(t, keys, 2)
	first, ok := db.Patch(keys[0])
	require.True(t, ok)
	assert.Equal(t, "Screaming Lead", first.Name)
}

func TestImportBankSkipsDuplicates(t *testing.T) {
	db := newTestDB(t)
	importLeads(t, db)

	// Same parameter sets under different names are still duplicates.
	report, err := db.ImportBank(context.Background(), "Leads Copy", []Source{
		sy1Source("000.sy1", "Screaming Lead (again)", map[int]int{0: 1}),
		sy1Source("001.sy1", "Brand New", map[int]int{0: 7}),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, 3, db.Len())
}

func TestImportBankEmptyName(t *testing.T) {
	db := newTestDB(t)
	_, err := db.ImportBank(context.Background(), "  ", nil)
	assert.ErrorIs(t, err, ErrEmptyBankName)
}

func TestImportBankCancellationKeepsPartialState(t *testing.T) {
	db := newTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := db.ImportBank(ctx, "Leads", []Source{
		sy1Source("000.sy1", "Lead", map[int]int{0: 1}),
	})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.True(t, report.Cancelled)
	assert.Equal(t, 0, db.Len())
}

func TestFindByName(t *testing.T) {
	db := newTestDB(t)
	importLeads(t, db)

	keys := db.FindByName("lead")
	require.Len(t, keys, 2)

	keys = db.FindByName("SOFT")
	require.Len(t, keys, 1)
	p, _ := db.Patch(keys[0])
	assert.Equal(t, "Soft Lead", p.Name)

	assert.Empty(t, db.FindByName("no such patch"))
}

func TestFindByTags(t *testing.T) {
	db := newTestDB(t)
	keys := importLeads(t, db)

	_, err := db.AddTag(keys[0], "Lead")
	require.NoError(t, err)
	_, err = db.AddTag(keys[0], "Aggressive")
	require.NoError(t, err)
	_, err = db.AddTag(keys[1], "Lead")
	require.NoError(t, err)

	assert.Len(t, db.FindByTags([]string{"Lead"}, MatchAny), 2)
	assert.Len(t, db.FindByTags([]string{"Aggressive", "Lead"}, MatchAny), 2)
	assert.Len(t, db.FindByTags([]string{"Aggressive", "Lead"}, MatchAll), 1)
	assert.Empty(t, db.FindByTags([]string{"Pad"}, MatchAny))
	assert.Nil(t, db.FindByTags(nil, MatchAny))
}

func TestFindByBankPreservesSourceOrder(t *testing.T) {
	db := newTestDB(t)
	keys := importLeads(t, db)

	got := db.FindByBank("Leads")
	require.Equal(t, keys, got)

	assert.Empty(t, db.FindByBank("Nope"))
}

func TestAddRemoveTag(t *testing.T) {
	db := newTestDB(t)
	keys := importLeads(t, db)
	key := keys[0]

	changed, err := db.AddTag(key, "Lead")
	require.NoError(t, err)
	assert.True(t, changed)

	// Re-adding is a no-op, not an error.
	changed, err = db.AddTag(key, "Lead")
	require.NoError(t, err)
	assert.False(t, changed)

	p, _ := db.Patch(key)
	assert.Equal(t, []string{"Lead"}, p.Tags())

	changed, err = db.RemoveTag(key, "Lead")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = db.RemoveTag(key, "Lead")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = db.AddTag("missing", "Lead")
	assert.ErrorIs(t, err, ErrUnknownPatch)

	_, err = db.AddTag(key, "   ")
	assert.ErrorIs(t, err, ErrEmptyTag)
}

func TestTagsListsOnlyLiveTags(t *testing.T) {
	db := newTestDB(t)
	keys := importLeads(t, db)

	_, err := db.AddTag(keys[0], "Lead")
	require.NoError(t, err)
	_, err = db.AddTag(keys[1], "Bright")
	require.NoError(t, err)

	assert.Equal(t, []string{"Bright", "Lead"}, db.Tags())

	_, err = db.RemoveTag(keys[1], "Bright")
	require.NoError(t, err)
	assert.Equal(t, []string{"Lead"}, db.Tags())
}

func TestUntagged(t *testing.T) {
	db := newTestDB(t)
	keys := importLeads(t, db)

	assert.Len(t, db.Untagged(), 2)

	_, err := db.AddTag(keys[0], "Lead")
	require.NoError(t, err)
	assert.Equal(t, []string{keys[1]}, db.Untagged())
}

func TestRemoveDuplicatesKeepsEarliest(t *testing.T) {
	db := newTestDB(t)
	importLeads(t, db)

	// A second bank re-importing the same parameters would normally be
	// rejected at import time, so build the duplicate directly.
	dup := sy1Source("dup.sy1", "Screaming Lead Clone", map[int]int{0: 1})
	decoded, err := db.schema.Decode(dup.Raw)
	require.NoError(t, err)
	db.insert("dup-key", "Extras", decoded, identity.Compute(decoded.Params))

	require.Equal(t, 3, db.Len())

	removed, err := db.RemoveDuplicates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, db.Len())

	// The earliest import survives.
	_, ok := db.Patch("dup-key")
	assert.False(t, ok)
	keys := db.FindByName("Screaming Lead")
	require.Len(t, keys, 1)
	p, _ := db.Patch(keys[0])
	assert.Equal(t, "Screaming Lead", p.Name)

	// Its bank loses the removed entry.
	assert.Empty(t, db.FindByBank("Extras"))
}

func TestErrorsAreCancelled(t *testing.T) {
	db := newTestDB(t)
	importLeads(t, db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := db.RemoveDuplicates(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}
