package tagging

import (
	"context"
	"errors"
	"sort"

	"patchforge/pkg/patchforge/library"
)

// DefaultNeighbors is the neighbor count used when the caller does not
// configure one.
const DefaultNeighbors = 5

type trainingRow struct {
	key  string
	vec  []int
	tags []string
}

// TrainAndPredict builds an ephemeral nearest-neighbor model from every
// tagged patch in the database and predicts tags for the candidate keys.
// Parameter vectors are compared with squared Euclidean distance on the
// native scale, which is uniform across parameters. A candidate gains every
// tag held by a strict majority of its k nearest tagged neighbors; when
// several tags meet the threshold, all of them are added.
//
// Neighbor ordering ties break by insertion order, so the result is
// deterministic for a fixed database state and fixed k. The model is
// discarded on return; retraining is cheap by design. Fails with an error
// wrapping ErrInsufficientTrainingData when fewer than k tagged patches
// exist. Cancellation is checked between candidates; tags already added
// stay.
func TrainAndPredict(ctx context.Context, db *library.Database, candidates []string, k int) (int, error) {
	if k < 1 {
		return 0, errors.New("neighbor count must be at least 1")
	}

	// Training set: every tagged patch, in insertion order so distance
	// ties resolve the same way on every run.
	var rows []trainingRow
	for _, key := range db.Keys() {
		p, _ := db.Patch(key)
		if p.TagCount() == 0 {
			continue
		}
		rows = append(rows, trainingRow{key: key, vec: p.Params, tags: p.Tags()})
	}
	if len(rows) < k {
		return 0, &InsufficientTrainingDataError{Tagged: len(rows), Neighbors: k}
	}

	added := 0
	dists := make([]int64, len(rows))
	order := make([]int, len(rows))
	for _, key := range candidates {
		if err := ctx.Err(); err != nil {
			return added, err
		}
		cand, ok := db.Patch(key)
		if !ok {
			continue
		}

		// A tagged candidate is part of the training set but is never its
		// own neighbor.
		n := 0
		for i, row := range rows {
			if row.key == key {
				continue
			}
			dists[i] = sqDistance(cand.Params, row.vec)
			order[n] = i
			n++
		}
		if n < k {
			continue
		}

		neighbors := order[:n]
		sort.SliceStable(neighbors, func(a, b int) bool {
			return dists[a] < dists[b]
		})

		counts := make(map[string]int)
		for _, idx := range neighbors[:k] {
			for _, tag := range rows[idx].tags {
				counts[tag]++
			}
		}

		threshold := k/2 + 1
		var winners []string
		for tag, c := range counts {
			if c >= threshold {
				winners = append(winners, tag)
			}
		}
		sort.Strings(winners)

		for _, tag := range winners {
			changed, err := db.AddTag(key, tag)
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

func sqDistance(a, b []int) int64 {
	var sum int64
	for i := range a {
		d := int64(a[i] - b[i])
		sum += d * d
	}
	return sum
}
