// Copyright 2025 inklet Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package eval

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inklet-io/inklet/base/log"
	"github.com/inklet-io/inklet/config"
	"github.com/inklet-io/inklet/storage/data"
)

func TestMain(m *testing.M) {
	log.CloseLogger()
	os.Exit(m.Run())
}

func newEvalDatabase() *data.MemoryDatabase {
	db := data.NewMemoryDatabase()
	db.InsertTags(
		data.Tag{TagId: "go", Title: "go"},
		data.Tag{TagId: "rust", Title: "rust"},
		data.Tag{TagId: "gardening", Title: "gardening"},
	)
	db.InsertUsers(
		data.User{UserId: "alice", Preferences: []data.Tag{{TagId: "go"}, {TagId: "rust"}}},
		data.User{UserId: "bob", Preferences: []data.Tag{{TagId: "go"}, {TagId: "rust"}}},
		data.User{UserId: "carol", Preferences: []data.Tag{{TagId: "gardening"}}},
	)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	db.InsertPosts(
		data.Post{PostId: "p1", Status: true, AuthorId: "alice", CreatedAt: base,
			Tags: []data.Tag{{TagId: "go"}}},
		data.Post{PostId: "p2", Status: true, AuthorId: "bob", CreatedAt: base.AddDate(0, 0, 1),
			Tags: []data.Tag{{TagId: "go"}, {TagId: "rust"}}},
		data.Post{PostId: "p3", Status: true, AuthorId: "carol", CreatedAt: base.AddDate(0, 0, 2),
			Tags: []data.Tag{{TagId: "gardening"}}},
	)
	db.InsertLikes(
		data.Like{UserId: "alice", PostId: "p2"},
		data.Like{UserId: "bob", PostId: "p2"},
		data.Like{UserId: "bob", PostId: "p3"},
	)
	return db
}

func TestEvaluate(t *testing.T) {
	evaluator := NewEvaluator(newEvalDatabase(), config.RecommendConfig{
		SimilarityThreshold: 0.33,
		MinResults:          10,
	})

	results, err := evaluator.Evaluate(context.Background(), Options{Ks: []int{5}})
	require.NoError(t, err)
	require.Contains(t, results, CosineBased)
	require.Contains(t, results, UserBased)
	require.Contains(t, results, InteractionBased)

	// alice's only recommendation is p2, which she liked; bob gets p1,
	// which he never touched; carol has no interactions and is excluded
	cosine := results[CosineBased]
	assert.Equal(t, 2, cosine.UsersEvaluated)
	assert.InDelta(t, 0.1, cosine.Precision[5], evalEpsilon)
	assert.InDelta(t, 0.5, cosine.Recall[5], evalEpsilon)
	assert.InDelta(t, 0.5, cosine.HitRate[5], evalEpsilon)
	assert.InDelta(t, 0.5, cosine.MRR[5], evalEpsilon)
	assert.InDelta(t, 0.5, cosine.MAP[5], evalEpsilon)
	assert.InDelta(t, 0.5, cosine.NDCG[5], evalEpsilon)
	assert.InDelta(t, 66.667, cosine.Coverage[5], 0.001)
	assert.InDelta(t, 0.2, cosine.AvgPopularity[5], evalEpsilon)
	// single-post lists have no adjacent pairs
	assert.Zero(t, cosine.Diversity[5])

	// only alice gets an interaction-based list, borrowed from bob
	interaction := results[InteractionBased]
	assert.Equal(t, 1, interaction.UsersEvaluated)
	assert.Zero(t, interaction.HitRate[5])
}

func TestEvaluateBounded(t *testing.T) {
	evaluator := NewEvaluator(newEvalDatabase(), config.RecommendConfig{
		SimilarityThreshold: 0.33,
		MinResults:          10,
	})

	results, err := evaluator.Evaluate(context.Background(), Options{})
	require.NoError(t, err)
	for _, metrics := range results {
		// default cutoffs
		require.Len(t, metrics.Precision, 3)
		for _, k := range []int{5, 10, 20} {
			for _, value := range []float64{
				metrics.Precision[k], metrics.Recall[k], metrics.HitRate[k],
				metrics.MRR[k], metrics.MAP[k], metrics.NDCG[k],
			} {
				assert.GreaterOrEqual(t, value, 0.0)
				assert.LessOrEqual(t, value, 1.0)
			}
			assert.GreaterOrEqual(t, metrics.Coverage[k], 0.0)
			assert.LessOrEqual(t, metrics.Coverage[k], 100.0)
		}
	}
}

func TestEvaluateUserFilter(t *testing.T) {
	evaluator := NewEvaluator(newEvalDatabase(), config.RecommendConfig{
		SimilarityThreshold: 0.33,
		MinResults:          10,
	})

	results, err := evaluator.Evaluate(context.Background(), Options{
		Ks:      []int{5},
		UserIds: []string{"alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, results[CosineBased].UsersEvaluated)

	// a higher interaction floor excludes alice as well
	results, err = evaluator.Evaluate(context.Background(), Options{
		Ks:              []int{5},
		UserIds:         []string{"alice"},
		MinInteractions: 2,
	})
	require.NoError(t, err)
	assert.Zero(t, results[CosineBased].UsersEvaluated)
}
