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

	"github.com/inklet-io/inklet/storage/data"
)

// ScoredPost pairs a post with its recommendation score. A zero score marks
// a backfill entry, callers can surface that to the client.
type ScoredPost struct {
	Post  data.Post `json:"post"`
	Score float32   `json:"score"`
}

// Posts strips the scores preserving order.
func Posts(scored []ScoredPost) []data.Post {
	posts := make([]data.Post, len(scored))
	for i, sp := range scored {
		posts[i] = sp.Post
	}
	return posts
}

// sortScoredPosts sorts by score descending. The sort is stable so equal
// scores keep the catalog order, which keeps one snapshot's ranking
// deterministic.
func sortScoredPosts(scored []ScoredPost) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
}

// ScoreMap is a sparse post id to score mapping with zero-default lookup.
// Insertion order is preserved so iteration stays deterministic.
type ScoreMap struct {
	scores map[string]float32
	order  []string
}

func NewScoreMap() *ScoreMap {
	return &ScoreMap{scores: make(map[string]float32)}
}

// Add accumulates score onto a post id.
func (m *ScoreMap) Add(postId string, score float32) {
	if _, exist := m.scores[postId]; !exist {
		m.order = append(m.order, postId)
	}
	m.scores[postId] += score
}

// Get returns the accumulated score, zero when absent.
func (m *ScoreMap) Get(postId string) float32 {
	return m.scores[postId]
}

// Has reports whether a post id is present.
func (m *ScoreMap) Has(postId string) bool {
	_, exist := m.scores[postId]
	return exist
}

// Ids returns post ids in insertion order.
func (m *ScoreMap) Ids() []string {
	return m.order
}

// Len returns the number of scored posts.
func (m *ScoreMap) Len() int {
	return len(m.order)
}

// RankPosts resolves scored ids against the post index and returns posts
// sorted by score descending. Ids without a matching post are dropped.
func (m *ScoreMap) RankPosts(index map[string]data.Post) []ScoredPost {
	scored := make([]ScoredPost, 0, len(m.order))
	for _, postId := range m.order {
		if post, exist := index[postId]; exist {
			scored = append(scored, ScoredPost{Post: post, Score: m.scores[postId]})
		}
	}
	sortScoredPosts(scored)
	return scored
}

// postIndex indexes posts by id.
func postIndex(posts []data.Post) map[string]data.Post {
	index := make(map[string]data.Post, len(posts))
	for _, post := range posts {
		index[post.PostId] = post
	}
	return index
}
