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

package eval

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
)

const evalEpsilon = 0.00001

var rankList = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}

func TestPrecision(t *testing.T) {
	truth := mapset.NewThreadUnsafeSet("b", "d", "f", "h")
	assert.InDelta(t, 0.4, Precision(truth, rankList, 10), evalEpsilon)
	// hits b and d within the cutoff
	assert.InDelta(t, 0.4, Precision(truth, rankList, 5), evalEpsilon)
	// the divisor stays k even when the list is shorter
	assert.InDelta(t, 0.05, Precision(truth, []string{"b"}, 20), evalEpsilon)
	assert.Zero(t, Precision(truth, rankList, 0))
}

func TestRecall(t *testing.T) {
	truth := mapset.NewThreadUnsafeSet("b", "d", "p", "q", "r")
	assert.InDelta(t, 0.4, Recall(truth, rankList, 10), evalEpsilon)
	assert.Zero(t, Recall(mapset.NewThreadUnsafeSet[string](), rankList, 10))
}

func TestHitRate(t *testing.T) {
	assert.InDelta(t, 1, HitRate(mapset.NewThreadUnsafeSet("d"), rankList, 10), evalEpsilon)
	assert.Zero(t, HitRate(mapset.NewThreadUnsafeSet("d"), rankList, 3))
	assert.Zero(t, HitRate(mapset.NewThreadUnsafeSet("z"), rankList, 10))
}

func TestMRR(t *testing.T) {
	assert.InDelta(t, 0.25, MRR(mapset.NewThreadUnsafeSet("d"), rankList, 10), evalEpsilon)
	assert.Zero(t, MRR(mapset.NewThreadUnsafeSet("z"), rankList, 10))
}

func TestMAP(t *testing.T) {
	truth := mapset.NewThreadUnsafeSet("b", "d", "h", "j")
	assert.InDelta(t, 0.44375, MAP(truth, rankList, 10), evalEpsilon)
	assert.Zero(t, MAP(mapset.NewThreadUnsafeSet("z"), rankList, 10))
}

func TestNDCG(t *testing.T) {
	truth := mapset.NewThreadUnsafeSet("b", "d", "f", "h")
	assert.InDelta(t, 0.6766372989, NDCG(truth, rankList, 10), evalEpsilon)
	assert.Zero(t, NDCG(mapset.NewThreadUnsafeSet[string](), rankList, 10))
}

func TestNDCGPerfectRanking(t *testing.T) {
	truth := mapset.NewThreadUnsafeSet("a", "b", "c")
	assert.InDelta(t, 1, NDCG(truth, []string{"a", "b", "c"}, 3), evalEpsilon)
	// perfect top-k even with more relevant items beyond the cutoff
	truth.Add("z")
	assert.InDelta(t, 1, NDCG(truth, []string{"a", "b", "c"}, 3), evalEpsilon)
}

func TestMetricBounds(t *testing.T) {
	truths := []mapset.Set[string]{
		mapset.NewThreadUnsafeSet("a"),
		mapset.NewThreadUnsafeSet("a", "c", "e", "g", "i"),
		mapset.NewThreadUnsafeSet("z"),
	}
	for _, truth := range truths {
		for _, k := range []int{1, 5, 10, 20} {
			for _, metric := range []Metric{Precision, Recall, HitRate, MRR, MAP, NDCG} {
				value := metric(truth, rankList, k)
				assert.GreaterOrEqual(t, value, float32(0))
				assert.LessOrEqual(t, value, float32(1))
			}
		}
	}
}
