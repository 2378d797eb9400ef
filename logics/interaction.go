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

	"github.com/samber/lo"

	"github.com/inklet-io/inklet/common/floats"
	"github.com/inklet-io/inklet/storage/data"
)

const (
	// interaction weights per edge
	likeWeight    float32 = 2
	commentWeight float32 = 1
	// minimal cosine similarity between interaction rows. Not configurable.
	interactionSimilarityThreshold float32 = 0.2
)

// InteractionMatrix is the sparse user by post interaction-weight matrix.
// Lookups default to zero; row iteration follows first-appearance order so
// scoring stays deterministic for a fixed snapshot.
type InteractionMatrix struct {
	weights  map[string]map[string]float32
	rowOrder map[string][]string // user id -> post ids in first-appearance order
	userIds  []string
	postIds  []string // union of post ids seen in the matrix
	postSeen map[string]struct{}
}

// NewInteractionMatrix accumulates like and comment edges into per-user
// rows. Edges of users missing from the user list are dropped.
func NewInteractionMatrix(users []data.User, likes []data.Like, comments []data.Comment) *InteractionMatrix {
	matrix := &InteractionMatrix{
		weights:  make(map[string]map[string]float32, len(users)),
		rowOrder: make(map[string][]string, len(users)),
		userIds:  make([]string, 0, len(users)),
		postSeen: make(map[string]struct{}),
	}
	for _, user := range users {
		matrix.weights[user.UserId] = make(map[string]float32)
		matrix.userIds = append(matrix.userIds, user.UserId)
	}
	for _, like := range likes {
		matrix.add(like.UserId, like.PostId, likeWeight)
	}
	for _, comment := range comments {
		matrix.add(comment.UserId, comment.PostId, commentWeight)
	}
	return matrix
}

func (matrix *InteractionMatrix) add(userId, postId string, weight float32) {
	row, exist := matrix.weights[userId]
	if !exist {
		return
	}
	if _, exist := row[postId]; !exist {
		matrix.rowOrder[userId] = append(matrix.rowOrder[userId], postId)
	}
	row[postId] += weight
	if _, exist := matrix.postSeen[postId]; !exist {
		matrix.postSeen[postId] = struct{}{}
		matrix.postIds = append(matrix.postIds, postId)
	}
}

// Weight returns the interaction weight of a (user, post) pair, zero when
// absent.
func (matrix *InteractionMatrix) Weight(userId, postId string) float32 {
	return matrix.weights[userId][postId]
}

// Row returns the post ids a user interacted with, in first-appearance
// order. An unknown user yields nil.
func (matrix *InteractionMatrix) Row(userId string) []string {
	return matrix.rowOrder[userId]
}

// vector expands a user's sparse row over every post id seen in the matrix.
func (matrix *InteractionMatrix) vector(userId string) []float32 {
	vector := make([]float32, len(matrix.postIds))
	row := matrix.weights[userId]
	for i, postId := range matrix.postIds {
		vector[i] = row[postId]
	}
	return vector
}

// SimilarUsers returns users whose interaction rows have cosine similarity
// of at least threshold with the target's row, most similar first. Users
// without interactions have zero rows and never pass the threshold.
func (matrix *InteractionMatrix) SimilarUsers(targetId string, threshold float32) []string {
	if _, exist := matrix.weights[targetId]; !exist {
		return nil
	}
	targetVector := matrix.vector(targetId)
	type userScore struct {
		userId string
		score  float32
	}
	scored := make([]userScore, 0, len(matrix.userIds))
	for _, userId := range matrix.userIds {
		if userId == targetId {
			continue
		}
		score := floats.Cosine(targetVector, matrix.vector(userId))
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

// borrowedScores accumulates, for every user similar to the target by
// interaction pattern, their weights on posts the target has not touched.
// Contributions from multiple similar users add up.
func borrowedScores(matrix *InteractionMatrix, userId string) *ScoreMap {
	borrowed := NewScoreMap()
	interacted := matrix.weights[userId]
	for _, similarUserId := range matrix.SimilarUsers(userId, interactionSimilarityThreshold) {
		for _, postId := range matrix.rowOrder[similarUserId] {
			if _, exist := interacted[postId]; !exist {
				borrowed.Add(postId, matrix.Weight(similarUserId, postId))
			}
		}
	}
	return borrowed
}

// InteractionBased recommends posts that users with similar interaction
// patterns liked or commented on, ranked by the summed borrowed weight.
// Posts the target already interacted with never appear. A user absent from
// the interaction matrix receives an empty list.
func InteractionBased(catalog *Catalog, userId string) []ScoredPost {
	matrix := NewInteractionMatrix(catalog.Users, catalog.Likes, catalog.Comments)
	borrowed := borrowedScores(matrix, userId)
	return borrowed.RankPosts(postIndex(catalog.Posts))
}
