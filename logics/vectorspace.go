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
	"github.com/chewxy/math32"

	"github.com/inklet-io/inklet/storage/data"
)

// VectorSpace fixes one tag to index assignment for a scoring pass. Every
// vector built from the same space has the same length, so user preference
// vectors and post vectors stay comparable.
type VectorSpace struct {
	tagIds []string       // slot -> tag id
	slots  map[string]int // tag id -> slot
	usage  map[string]int // tag id -> number of active posts carrying it
}

// NewVectorSpace builds the shared tag space from the full tag catalog and
// the active posts. The catalog drives the index so tags that appear only in
// user preferences still get a slot.
func NewVectorSpace(tags []data.Tag, posts []data.Post) *VectorSpace {
	space := &VectorSpace{
		slots: make(map[string]int, len(tags)),
		usage: make(map[string]int, len(tags)),
	}
	for _, tag := range tags {
		space.addSlot(tag.TagId)
	}
	space.countUsage(posts)
	return space
}

// NewPostTagSpace builds a space from the tags actually attached to posts,
// indexed in order of first appearance. The user-based recommender works in
// this narrower universe.
func NewPostTagSpace(posts []data.Post) *VectorSpace {
	space := &VectorSpace{
		slots: make(map[string]int),
		usage: make(map[string]int),
	}
	for _, post := range posts {
		for _, tag := range post.Tags {
			space.addSlot(tag.TagId)
		}
	}
	space.countUsage(posts)
	return space
}

func (space *VectorSpace) addSlot(tagId string) {
	if _, exist := space.slots[tagId]; !exist {
		space.slots[tagId] = len(space.tagIds)
		space.tagIds = append(space.tagIds, tagId)
	}
}

func (space *VectorSpace) countUsage(posts []data.Post) {
	for _, post := range posts {
		for _, tag := range post.Tags {
			space.usage[tag.TagId]++
		}
	}
}

// Dimension returns the shared vector length.
func (space *VectorSpace) Dimension() int {
	return len(space.tagIds)
}

// Weight returns the inverse log-usage weight of a tag. Usage has a floor
// of 1 so a tag carried by no post never produces an infinite weight.
func (space *VectorSpace) Weight(tagId string) float32 {
	usage := space.usage[tagId]
	if usage < 1 {
		usage = 1
	}
	return 1 / math32.Log(1+float32(usage))
}

// TagVector builds a weighted vector with the IDF weight in the slot of
// every present tag.
func (space *VectorSpace) TagVector(tags []data.Tag) []float32 {
	vector := make([]float32, space.Dimension())
	for _, tag := range tags {
		if slot, exist := space.slots[tag.TagId]; exist {
			vector[slot] = space.Weight(tag.TagId)
		}
	}
	return vector
}

// BinaryVector builds a membership vector with 1 in the slot of every
// present tag.
func (space *VectorSpace) BinaryVector(tags []data.Tag) []float32 {
	vector := make([]float32, space.Dimension())
	for _, tag := range tags {
		if slot, exist := space.slots[tag.TagId]; exist {
			vector[slot] = 1
		}
	}
	return vector
}
