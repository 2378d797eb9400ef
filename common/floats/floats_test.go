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

package floats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDot(t *testing.T) {
	assert.Equal(t, float32(32), Dot([]float32{1, 2, 3}, []float32{4, 5, 6}))
	assert.Panics(t, func() { Dot([]float32{1}, []float32{1, 2}) })
}

func TestNorm(t *testing.T) {
	assert.Equal(t, float32(5), Norm([]float32{3, 4}))
	assert.Zero(t, Norm(nil))
}

func TestSum(t *testing.T) {
	assert.Equal(t, float32(6), Sum([]float32{1, 2, 3}))
}

func TestMulConst(t *testing.T) {
	a := []float32{1, 2, 3}
	MulConst(a, 2)
	assert.Equal(t, []float32{2, 4, 6}, a)
}

func TestCosine(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{2, 4, 6}
	c := []float32{0.3, 0.7, 1.1}
	// symmetry
	assert.Equal(t, Cosine(a, c), Cosine(c, a))
	// identical direction
	assert.InDelta(t, 1, Cosine(a, a), 1e-6)
	assert.InDelta(t, 1, Cosine(a, b), 1e-6)
	// orthogonal
	assert.Zero(t, Cosine([]float32{1, 0}, []float32{0, 1}))
	// zero vector never yields NaN
	assert.Zero(t, Cosine([]float32{0, 0, 0}, a))
	// zero-length vectors
	assert.Zero(t, Cosine(nil, nil))
}
