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
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/inklet-io/inklet/config"
	"github.com/inklet-io/inklet/storage/data"
)

// Fixed fusion weights. The four signals are combined linearly; a post
// missing from a signal contributes zero for that signal.
const (
	tagWeight           float32 = 0.4
	userBasedWeight     float32 = 0.2
	interactionWeight   float32 = 0.2
	collaborativeWeight float32 = 0.2
)

// FinalRecommendations blends the four signals into one ranked list:
//
//  1. tag similarity between the user's preference vector and post vectors
//     (only scores above the similarity threshold count),
//  2. binary presence of the post's author among preference-similar users,
//  3. the target's own interaction weight on the post,
//  4. interaction weight borrowed from interaction-similar users.
//
// The returned list is assembled similarity first: posts with a tag score,
// ordered by that score, then the remaining fused entries by total score.
// When the deduplicated list is still shorter than minResults it is padded
// with the newest remaining posts at score zero, so callers can spot the
// filler by its score. The requesting user's own posts never appear.
func FinalRecommendations(cfg config.RecommendConfig, catalog *Catalog, user data.User, minResults int) []ScoredPost {
	if minResults <= 0 {
		minResults = cfg.MinResults
	}

	// tag similarity scores
	space := NewVectorSpace(catalog.Tags, catalog.Posts)
	tagScores := NewScoreMap()
	for _, sp := range scorePostsByPreference(space, catalog.Posts, user) {
		if sp.Score > cfg.SimilarityThreshold {
			tagScores.Add(sp.Post.PostId, sp.Score)
		}
	}

	// authors with similar preference sets
	preferenceMatrix := NewPreferenceMatrix(catalog.Users, catalog.Posts)
	similarAuthors := mapset.NewThreadUnsafeSet(preferenceMatrix.SimilarUsers(user.UserId, userSimilarityThreshold)...)
	userScores := NewScoreMap()
	for _, post := range catalog.Posts {
		if post.AuthorId != user.UserId && similarAuthors.Contains(post.AuthorId) {
			userScores.Add(post.PostId, 1)
		}
	}

	// the target's own interactions and the borrowed ones
	matrix := NewInteractionMatrix(catalog.Users, catalog.Likes, catalog.Comments)
	selfScores := NewScoreMap()
	for _, postId := range matrix.Row(user.UserId) {
		selfScores.Add(postId, matrix.Weight(user.UserId, postId))
	}
	collaborativeScores := borrowedScores(matrix, user.UserId)

	// weighted sum over the union of all signals
	combined := NewScoreMap()
	for _, signal := range []*ScoreMap{tagScores, userScores, selfScores, collaborativeScores} {
		for _, postId := range signal.Ids() {
			if !combined.Has(postId) {
				combined.Add(postId,
					tagWeight*tagScores.Get(postId)+
						userBasedWeight*userScores.Get(postId)+
						interactionWeight*selfScores.Get(postId)+
						collaborativeWeight*collaborativeScores.Get(postId))
			}
		}
	}

	index := postIndex(catalog.Posts)
	fused := make([]ScoredPost, 0, combined.Len())
	for _, postId := range combined.Ids() {
		post, exist := index[postId]
		if !exist || post.AuthorId == user.UserId {
			continue
		}
		if score := combined.Get(postId); score > 0 {
			fused = append(fused, ScoredPost{Post: post, Score: score})
		}
	}
	sortScoredPosts(fused)

	// similarity-first assembly: tag-scored posts lead, ordered by tag
	// score, then the remaining fused entries
	result := make([]ScoredPost, 0, len(fused))
	included := mapset.NewThreadUnsafeSet[string]()
	for _, postId := range sortByScoreDesc(tagScores) {
		if post, exist := index[postId]; exist {
			result = append(result, ScoredPost{Post: post, Score: combined.Get(postId)})
			included.Add(postId)
		}
	}
	for _, sp := range fused {
		if !included.Contains(sp.Post.PostId) {
			result = append(result, sp)
			included.Add(sp.Post.PostId)
		}
	}

	// backfill with the newest remaining posts until minResults
	if len(result) < minResults {
		remaining := make([]data.Post, 0, len(catalog.Posts))
		for _, post := range catalog.Posts {
			if post.AuthorId != user.UserId && !included.Contains(post.PostId) {
				remaining = append(remaining, post)
			}
		}
		data.SortPostsByDate(remaining)
		for _, post := range remaining {
			if len(result) >= minResults {
				break
			}
			result = append(result, ScoredPost{Post: post, Score: 0})
		}
	}
	return result
}

// sortByScoreDesc returns the map's post ids ordered by score descending,
// insertion order breaking ties.
func sortByScoreDesc(m *ScoreMap) []string {
	ids := make([]string, len(m.Ids()))
	copy(ids, m.Ids())
	sort.SliceStable(ids, func(i, j int) bool {
		return m.Get(ids[i]) > m.Get(ids[j])
	})
	return ids
}
