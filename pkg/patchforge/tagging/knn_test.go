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

// knnDB imports one patch per value, placing the value in a single
// parameter so distances are easy to reason about, then applies tags to
// the first len(tags) patches. Returns the keys in import order.
func knnDB(t *testing.T, values []int, tags []string) (*library.Database, []string) {
	t.Helper()

	db := library.New(synth1.New())
	sources := make([]library.Source, 0, len(values))
	for i, v := range values {
		var b strings.Builder
		fmt.Fprintf(&b, "Patch %d\ncolor=red\nver=113\n", i)
		for j, d := range synth1.DefaultParams() {
			if j == 2 {
				d = v
			}
			fmt.Fprintf(&b, "%d,%d\n", j, d)
		}
		sources = append(sources, library.Source{
			Name: fmt.Sprintf("%03d.sy1", i),
			Raw:  []byte(b.String()),
		})
	}
	report, err := db.ImportBank(context.Background(), "Test", sources)
	require.NoError(t, err)
	require.Equal(t, len(values), report.Imported)
	keys := db.FindByBank("Test")

	for i, tag := range tags {
		_, err := db.AddTag(keys[i], tag)
		require.NoError(t, err)
	}
	return db, keys
}

func TestTrainAndPredictMajority(t *testing.T) {
	// Three bass-like patches cluster at low values, three lead-like at
	// high values. The untagged candidates sit inside each cluster.
	db, keys := knnDB(t,
		[]int{0, 1, 2, 100, 101, 102, 3, 99},
		[]string{"Bass", "Bass", "Bass", "Lead", "Lead", "Lead"})

	added, err := TrainAndPredict(context.Background(), db, []string{keys[6], keys[7]}, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	nearBass, _ := db.Patch(keys[6])
	nearLead, _ := db.Patch(keys[7])
	assert.Equal(t, []string{"Bass"}, nearBass.Tags())
	assert.Equal(t, []string{"Lead"}, nearLead.Tags())
}

func TestTrainAndPredictNoMajority(t *testing.T) {
	// Three equally near neighbors with three different tags: no tag
	// reaches the k/2+1 threshold, so the candidate stays untagged.
	db, keys := knnDB(t,
		[]int{0, 2, 4, 3},
		[]string{"Bass", "Lead", "Pad"})

	added, err := TrainAndPredict(context.Background(), db, []string{keys[3]}, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	p, _ := db.Patch(keys[3])
	assert.Equal(t, 0, p.TagCount())
}

func TestTrainAndPredictMultipleWinningTags(t *testing.T) {
	// Every neighbor carries both tags; both clear the threshold and both
	// are added.
	db, keys := knnDB(t,
		[]int{0, 1, 2, 3},
		[]string{"Bass", "Bass", "Bass"})
	for _, key := range keys[:3] {
		_, err := db.AddTag(key, "Dark")
		require.NoError(t, err)
	}

	added, err := TrainAndPredict(context.Background(), db, []string{keys[3]}, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	p, _ := db.Patch(keys[3])
	assert.Equal(t, []string{"Bass", "Dark"}, p.Tags())
}

func TestTrainAndPredictExcludesSelf(t *testing.T) {
	// The candidate is already tagged, so it is in the training set. Its
	// own vector must not vote for it: with k=2 its neighbors are the two
	// Lead patches, not itself.
	db, keys := knnDB(t,
		[]int{0, 50, 52},
		[]string{"Bass", "Lead", "Lead"})

	added, err := TrainAndPredict(context.Background(), db, []string{keys[0]}, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	p, _ := db.Patch(keys[0])
	assert.Equal(t, []string{"Bass", "Lead"}, p.Tags())
}

func TestTrainAndPredictInsufficientData(t *testing.T) {
	db, keys := knnDB(t,
		[]int{0, 1, 2, 3},
		[]string{"Bass", "Bass"})

	_, err := TrainAndPredict(context.Background(), db, []string{keys[3]}, 5)
	require.ErrorIs(t, err, ErrInsufficientTrainingData)

	var terr *InsufficientTrainingDataError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 2, terr.Tagged)
	assert.Equal(t, 5, terr.Neighbors)
}

func TestTrainAndPredictDeterministic(t *testing.T) {
	db, keys := knnDB(t,
		[]int{0, 1, 2, 100, 101, 102, 50},
		[]string{"Bass", "Bass", "Bass", "Lead", "Lead", "Lead"})

	added, err := TrainAndPredict(context.Background(), db, []string{keys[6]}, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	first, _ := db.Patch(keys[6])
	firstTags := first.Tags()

	// A rerun on the grown tag set is a no-op, never a flip.
	again, err := TrainAndPredict(context.Background(), db, []string{keys[6]}, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, again)
	p, _ := db.Patch(keys[6])
	assert.Equal(t, firstTags, p.Tags())
}

func TestTrainAndPredictCancellation(t *testing.T) {
	db, keys := knnDB(t,
		[]int{0, 1, 2, 3},
		[]string{"Bass", "Bass", "Bass"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := TrainAndPredict(ctx, db, []string{keys[3]}, 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTrainAndPredictRejectsBadK(t *testing.T) {
	db, _ := knnDB(t, []int{0, 1}, []string{"Bass"})
	_, err := TrainAndPredict(context.Background(), db, nil, 0)
	assert.Error(t, err)
}
