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
	"github.com/chewxy/math32"
	mapset "github.com/deckarep/golang-set/v2"
)

// Metric scores a ranked prediction list against the ground-truth set at
// cutoff k. Relevance is binary: a predicted post either is in the truth
// set or is not.
type Metric func(truth mapset.Set[string], rankList []string, k int) float32

func topK(rankList []string, k int) []string {
	if k < len(rankList) {
		return rankList[:k]
	}
	return rankList
}

// Precision is the fraction of the top-k slots filled with relevant posts.
// The divisor is k itself, short lists are penalized.
func Precision(truth mapset.Set[string], rankList []string, k int) float32 {
	if k == 0 {
		return 0
	}
	hit := float32(0)
	for _, postId := range topK(rankList, k) {
		if truth.Contains(postId) {
			hit++
		}
	}
	return hit / float32(k)
}

// Recall is the fraction of relevant posts found in the top-k.
func Recall(truth mapset.Set[string], rankList []string, k int) float32 {
	if truth.Cardinality() == 0 {
		return 0
	}
	hit := 0
	for _, postId := range topK(rankList, k) {
		if truth.Contains(postId) {
			hit++
		}
	}
	return float32(hit) / float32(truth.Cardinality())
}

// HitRate is 1 when any relevant post appears in the top-k.
func HitRate(truth mapset.Set[string], rankList []string, k int) float32 {
	for _, postId := range topK(rankList, k) {
		if truth.Contains(postId) {
			return 1
		}
	}
	return 0
}

// MRR is the reciprocal rank of the first relevant post in the top-k.
//
//	MRR = \frac{1}{Q} \sum^{|Q|}_{i=1} \frac{1}{rank_i}
func MRR(truth mapset.Set[string], rankList []string, k int) float32 {
	for i, postId := range topK(rankList, k) {
		if truth.Contains(postId) {
			return 1 / float32(i+1)
		}
	}
	return 0
}

// MAP averages precision at each hit position, normalized by the number of
// relevant posts retrievable within k.
func MAP(truth mapset.Set[string], rankList []string, k int) float32 {
	sumPrecision := float32(0)
	hit := 0
	for i, postId := range topK(rankList, k) {
		if truth.Contains(postId) {
			hit++
			sumPrecision += float32(hit) / float32(i+1)
		}
	}
	if hit == 0 {
		return 0
	}
	normalizer := truth.Cardinality()
	if k < normalizer {
		normalizer = k
	}
	return sumPrecision / float32(normalizer)
}

// NDCG is the discounted cumulative gain over the ideal gain for
// min(|truth|, k) hits, with a log2(position+2) discount.
func NDCG(truth mapset.Set[string], rankList []string, k int) float32 {
	idcg := float32(0)
	for i := 0; i < truth.Cardinality() && i < k; i++ {
		idcg += 1 / math32.Log2(float32(i)+2)
	}
	if idcg == 0 {
		return 0
	}
	dcg := float32(0)
	for i, postId := range topK(rankList, k) {
		if truth.Contains(postId) {
			dcg += 1 / math32.Log2(float32(i)+2)
		}
	}
	return dcg / idcg
}
