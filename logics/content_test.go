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

func TestContentBased(t *testing.T) {
	catalog := &Catalog{
		Tags: tags("go", "rust", "cooking"),
		Posts: []data.Post{
			post("p4", "reader", 3, "go"),
			post("p3", "author", 2, "cooking"),
			post("p2", "author", 1, "go", "rust"),
			post("p1", "author", 0, "go"),
		},
	}
	reader := user("reader", "go")

	scored := ContentBased(testConfig, catalog, reader)

	// own post excluded, zero-score cooking post excluded, best match first
	assert.Equal(t, []string{"p1", "p2"}, scoredPostIds(scored))
	assert.Greater(t, scored[0].Score, scored[1].Score)
	assert.Greater(t, scored[1].Score, float32(0))
}

func TestContentBasedEmptyPreferences(t *testing.T) {
	catalog := &Catalog{
		Tags:  tags("go"),
		Posts: []data.Post{post("p1", "author", 0, "go")},
	}
	scored := ContentBased(testConfig, catalog, user("reader"))
	assert.Empty(t, scored)
}

func TestContentBasedTruncatesFallback(t *testing.T) {
	catalog := &Catalog{
		Tags: tags("go", "rust"),
		Posts: []data.Post{
			post("p3", "author", 2, "go", "rust"),
			post("p2", "author", 1, "go", "rust"),
			post("p1", "author", 0, "go"),
		},
	}
	cfg := testConfig
	cfg.MinResults = 2

	// everything passes the default threshold, so no truncation happens
	scored := ContentBased(cfg, catalog, user("reader", "go"))
	assert.Equal(t, []string{"p1", "p3", "p2"}, scoredPostIds(scored))

	// with a strict threshold only the exact match passes, so the result
	// falls back to the best MinResults positive scores
	cfg.SimilarityThreshold = 0.9
	scored = ContentBased(cfg, catalog, user("reader", "go"))
	assert.Equal(t, []string{"p1", "p3"}, scoredPostIds(scored))
}
