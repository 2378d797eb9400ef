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
	"github.com/samber/lo"

	"github.com/inklet-io/inklet/common/floats"
	"github.com/inklet-io/inklet/config"
	"github.com/inklet-io/inklet/storage/data"
)

// scorePostsByPreference scores every active post against the user's
// preference vector, excluding the user's own posts. Posts keep catalog
// order so later stable sorts are deterministic.
func scorePostsByPreference(space *VectorSpace, posts []data.Post, user data.User) []ScoredPost {
	userVector := space.TagVector(user.Preferences)
	scored := make([]ScoredPost, 0, len(posts))
	for _, post := range posts {
		if post.AuthorId == user.UserId {
			continue
		}
		scored = append(scored, ScoredPost{
			Post:  post,
			Score: floats.Cosine(userVector, space.TagVector(post.Tags)),
		})
	}
	return scored
}

// ContentBased recommends posts whose tag vectors are close to the user's
// preference vector. Posts above the similarity threshold are returned when
// there are at least MinResults of them; otherwise the result falls back to
// the best MinResults posts among everything with a positive score, so a
// user with narrow interests still gets a page instead of an empty list. A
// user with no preferences scores zero everywhere and receives an empty
// list, cold start is expected input rather than a fault.
func ContentBased(cfg config.RecommendConfig, catalog *Catalog, user data.User) []ScoredPost {
	space := NewVectorSpace(catalog.Tags, catalog.Posts)
	scored := scorePostsByPreference(space, catalog.Posts, user)

	passed := lo.Filter(scored, func(sp ScoredPost, _ int) bool {
		return sp.Score > cfg.SimilarityThreshold
	})
	if len(passed) >= cfg.MinResults {
		sortScoredPosts(passed)
		return passed
	}

	positive := lo.Filter(scored, func(sp ScoredPost, _ int) bool {
		return sp.Score > 0
	})
	sortScoredPosts(positive)
	if len(positive) > cfg.MinResults {
		positive = positive[:cfg.MinResults]
	}
	return positive
}
