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
	"github.com/inklet-io/inklet/storage/data"
)

// Catalog is the immutable snapshot of store state that one recommendation
// or evaluation call works on. It is fetched fresh per call and discarded
// afterwards, nothing is cached across calls.
type Catalog struct {
	Tags     []data.Tag
	Posts    []data.Post // active posts only, newest first
	Users    []data.User
	Likes    []data.Like
	Comments []data.Comment
}
