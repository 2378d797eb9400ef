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

package logics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inklet-io/inklet/storage/data"
)

// Three single-tagged posts by other authors, one by the reader. Only the
// post matching the reader's single preference scores, yet the result must
// still contain all three eligible posts: the matching one ranked first,
// the rest backfilled newest first at score zero.
func TestFinalRecommendationsBackfill(t *testing.T) {
	catalog := &Catalog{
		Tags: tags("a", "b", "c"),
		Users: []data.User{
			user("reader", "a"),
			user("writer1"),
			user("writer2"),
			user("writer3"),
		},
		Posts: []data.Post{
			post("own", "reader", 3, "a"),
			post("pc", "writer3", 2, "c"),
			post("pb", "writer2", 1, "b"),
			post("pa", "writer1", 0, "a"),
		},
	}
	reader := user("reader", "a")

	scored := FinalRecommendations(testConfig, catalog, reader, 0)

	assert.Equal(t, []string{"pa", "pc", "pb"}, scoredPostIds(scored))
	assert.Greater(t, scored[0].Score, float32(0))
	assert.Zero(t, scored[1].Score)
	assert.Zero(t, scored[2].Score)
	assert.NotContains(t, scoredPostIds(scored), "own")
}

func TestFinalRecommendationsNeverOwnPost(t *testing.T) {
	catalog := &Catalog{
		Tags: tags("a"),
		Users: []data.User{
			user("reader", "a"),
			user("twin", "a"),
		},
		Posts: []data.Post{
			post("own", "reader", 1, "a"),
			post("theirs", "twin", 0, "a"),
		},
		// the reader likes their own post, the twin likes both
		Likes: []data.Like{
			{UserId: "reader", PostId: "own"},
			{UserId: "twin", PostId: "own"},
			{UserId: "twin", PostId: "theirs"},
		},
	}
	reader := user("reader", "a")

	scored := FinalRecommendations(testConfig, catalog, reader, 1)
	assert.NotContains(t, scoredPostIds(scored), "own")
	assert.Contains(t, scoredPostIds(scored), "theirs")
}

func TestFinalRecommendationsCombinesSignals(t *testing.T) {
	catalog := &Catalog{
		Tags: tags("a", "b"),
		Users: []data.User{
			user("reader", "a"),
			user("twin", "a"),
			user("stranger", "b"),
		},
		Posts: []data.Post{
			post("pt", "twin", 1, "a"),
			post("ps", "stranger", 0, "b"),
		},
		Likes: []data.Like{
			{UserId: "reader", PostId: "pt"},
			{UserId: "twin", PostId: "pt"},
			{UserId: "twin", PostId: "ps"},
		},
	}
	reader := user("reader", "a")

	scored := FinalRecommendations(testConfig, catalog, reader, 1)
	assert.Equal(t, []string{"pt", "ps"}, scoredPostIds(scored))

	// pt: tag match (cosine 1) + similar author + reader's own like weight
	assert.InDelta(t, 0.4*1+0.2*1+0.2*2, scored[0].Score, 1e-5)
	// ps: borrowed like weight from the interaction-similar twin
	assert.InDelta(t, 0.2*2, scored[1].Score, 1e-5)
}

func TestFinalRecommendationsDeterminism(t *testing.T) {
	catalog := &Catalog{
		Tags: tags("a", "b", "c"),
		Users: []data.User{
			user("reader", "a", "b"),
			user("w1", "a"),
			user("w2", "a", "b"),
			user("w3", "c"),
		},
		Posts: []data.Post{
			post("p5", "w3", 4, "c"),
			post("p4", "w2", 3, "a", "b"),
			post("p3", "w2", 2, "b"),
			post("p2", "w1", 1, "a"),
			post("p1", "w1", 0, "a", "c"),
		},
		Likes: []data.Like{
			{UserId: "reader", PostId: "p2"},
			{UserId: "w1", PostId: "p2"},
			{UserId: "w1", PostId: "p5"},
			{UserId: "w3", PostId: "p4"},
		},
		Comments: []data.Comment{
			{CommentId: "c1", UserId: "reader", PostId: "p4"},
			{CommentId: "c2", UserId: "w2", PostId: "p4"},
			{CommentId: "c3", UserId: "w2", PostId: "p1"},
		},
	}
	reader := user("reader", "a", "b")

	first := FinalRecommendations(testConfig, catalog, reader, 10)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, FinalRecommendations(testConfig, catalog, reader, 10))
	}
}
