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
	"github.com/samber/lo"

	"github.com/inklet-io/inklet/common/floats"
	"github.com/inklet-io/inklet/storage/data"
)

// userSimilarityThreshold is the minimal cosine similarity between two
// users' binary preference vectors. Not configurable.
const userSimilarityThreshold float32 = 0.3

// PreferenceMatrix is the binary user by tag preference matrix, expressed
// over the tags actually present on posts.
type PreferenceMatrix struct {
	userIds []string
	vectors map[string][]float32
}

// NewPreferenceMatrix builds a row per user with 1 for every preferred tag
// that appears on at least one post.
func NewPreferenceMatrix(users []data.User, posts []data.Post) *PreferenceMatrix {
	space := NewPostTagSpace(posts)
	matrix := &PreferenceMatrix{
		userIds: make([]string, 0, len(users)),
		vectors: make(map[string][]float32, len(users)),
	}
	for _, user := range users {
		matrix.userIds = append(matrix.userIds, user.UserId)
		matrix.vectors[user.UserId] = space.BinaryVector(user.Preferences)
	}
	return matrix
}

// SimilarUsers returns the ids of users whose preference rows have cosine
// similarity of at least threshold with the target's row, most similar
// first. An unknown target yields nil.
func (matrix *PreferenceMatrix) SimilarUsers(targetId string, threshold float32) []string {
	targetVector, exist := matrix.vectors[targetId]
	if !exist {
		return nil
	}
	type userScore struct {
		userId string
		score  float32
	}
	scored := make([]userScore, 0, len(matrix.userIds))
	for _, userId := range matrix.userIds {
		if userId == targetId {
			continue
		}
		score := floats.Cosine(targetVector, matrix.vectors[userId])
		if score >= threshold {
			scored = append(scored, userScore{userId: userId, score: score})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	return lo.Map(scored, func(us userScore, _ int) string {
		return us.userId
	})
}

// UserBased recommends every active post authored by a user with a similar
// preference set, excluding the target's own posts. Posts keep catalog
// order; this signal carries no per-post score.
func UserBased(catalog *Catalog, userId string) []data.Post {
	matrix := NewPreferenceMatrix(catalog.Users, catalog.Posts)
	similar := mapset.NewThreadUnsafeSet(matrix.SimilarUsers(userId, userSimilarityThreshold)...)
	return lo.Filter(catalog.Posts, func(post data.Post, _ int) bool {
		return post.AuthorId != userId && similar.Contains(post.AuthorId)
	})
}
