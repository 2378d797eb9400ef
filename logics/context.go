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
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/inklet-io/inklet/storage/data"
)

// contextPageSize caps the list returned alongside a post being read.
const contextPageSize = 10

// ContextRecommend suggests follow-up reading for a user currently on a
// post. Candidates are active posts other than the one being read and not
// authored by the reader. A post qualifies directly when it carries a tag
// that is both on the current post and among the reader's preferences;
// when the reader's preferences share no tag with the current post the
// result is empty. Direct matches come first, newest first, padded with
// the newest remaining candidates up to the page size.
func ContextRecommend(catalog *Catalog, user data.User, postTagIds []string, currentPostId string) []data.Post {
	preferred := mapset.NewThreadUnsafeSet(data.TagIds(user.Preferences)...)
	relevant := preferred.Intersect(mapset.NewThreadUnsafeSet(postTagIds...))
	if relevant.Cardinality() == 0 {
		return []data.Post{}
	}

	candidates := make([]data.Post, 0, len(catalog.Posts))
	for _, post := range catalog.Posts {
		if post.PostId != currentPostId && post.AuthorId != user.UserId {
			candidates = append(candidates, post)
		}
	}

	matched := make([]data.Post, 0, len(candidates))
	rest := make([]data.Post, 0, len(candidates))
	for _, post := range candidates {
		if relevant.Intersect(mapset.NewThreadUnsafeSet(data.TagIds(post.Tags)...)).Cardinality() > 0 {
			matched = append(matched, post)
		} else {
			rest = append(rest, post)
		}
	}
	data.SortPostsByDate(matched)
	data.SortPostsByDate(rest)

	result := matched
	if len(result) < contextPageSize {
		result = append(result, rest...)
	}
	if len(result) > contextPageSize {
		result = result[:contextPageSize]
	}
	return result
}
