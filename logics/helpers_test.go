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
	"time"

	"github.com/samber/lo"

	"github.com/inklet-io/inklet/config"
	"github.com/inklet-io/inklet/storage/data"
)

var testConfig = config.RecommendConfig{
	SimilarityThreshold: 0.33,
	MinResults:          10,
}

func tag(id string) data.Tag {
	return data.Tag{TagId: id, Title: id, Slug: id, Status: true}
}

func tags(ids ...string) []data.Tag {
	return lo.Map(ids, func(id string, _ int) data.Tag {
		return tag(id)
	})
}

func user(id string, preferences ...string) data.User {
	return data.User{UserId: id, Username: id, FullName: id, Preferences: tags(preferences...)}
}

// post builds an active post. day spreads creation dates apart so recency
// ordering is observable.
func post(id, authorId string, day int, tagIds ...string) data.Post {
	return data.Post{
		PostId:    id,
		Title:     id,
		Slug:      id,
		Status:    true,
		AuthorId:  authorId,
		Author:    data.User{UserId: authorId, Username: authorId},
		Tags:      tags(tagIds...),
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
	}
}

func postIds(posts []data.Post) []string {
	return lo.Map(posts, func(p data.Post, _ int) string {
		return p.PostId
	})
}

func scoredPostIds(scored []ScoredPost) []string {
	return postIds(Posts(scored))
}
