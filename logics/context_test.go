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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inklet-io/inklet/storage/data"
)

func TestContextRecommend(t *testing.T) {
	catalog := &Catalog{
		Posts: []data.Post{
			post("current", "writer", 5, "go", "testing"),
			post("own", "reader", 4, "go"),
			post("newer-go", "writer", 3, "go"),
			post("older-go", "writer", 2, "go", "devops"),
			post("testing-only", "writer", 1, "testing"),
			post("offtopic", "writer", 0, "gardening"),
		},
	}
	reader := user("reader", "go", "databases")

	result := ContextRecommend(catalog, reader, []string{"go", "testing"}, "current")

	// "go" is the only tag shared by the current post and the reader;
	// matched posts lead newest first, the rest backfill newest first,
	// never the current post or the reader's own
	assert.Equal(t, []string{"newer-go", "older-go", "testing-only", "offtopic"}, postIds(result))
}

func TestContextRecommendNoOverlap(t *testing.T) {
	catalog := &Catalog{
		Posts: []data.Post{
			post("current", "writer", 1, "gardening"),
			post("other", "writer", 0, "go"),
		},
	}
	reader := user("reader", "go")

	// precision first: no overlap between the current post's tags and the
	// reader's preferences means no suggestions at all
	assert.Empty(t, ContextRecommend(catalog, reader, []string{"gardening"}, "current"))
}

func TestContextRecommendPageSize(t *testing.T) {
	catalog := &Catalog{
		Posts: []data.Post{post("current", "writer", 100, "go")},
	}
	for i := 0; i < 15; i++ {
		catalog.Posts = append(catalog.Posts,
			post(fmt.Sprintf("p%02d", i), "writer", i, "go"))
	}
	reader := user("reader", "go")

	result := ContextRecommend(catalog, reader, []string{"go"}, "current")
	assert.Len(t, result, contextPageSize)
	// newest first
	assert.Equal(t, "p14", result[0].PostId)
	assert.Equal(t, "p05", result[9].PostId)
}
