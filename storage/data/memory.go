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

package data

import (
	"context"
	"sort"
	"sync"

	"github.com/juju/errors"
)

// MemoryDatabase keeps the catalog in memory. It backs unit tests and the
// embedded demo mode; ordering matches SQLDatabase so recommenders behave
// identically on both.
type MemoryDatabase struct {
	mu       sync.RWMutex
	tags     []Tag
	users    []User
	posts    []Post
	likes    []Like
	comments []Comment
}

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{}
}

func (d *MemoryDatabase) Init() error {
	return nil
}

func (d *MemoryDatabase) Ping() error {
	return nil
}

func (d *MemoryDatabase) Close() error {
	return nil
}

func (d *MemoryDatabase) ListActivePosts(_ context.Context) ([]Post, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	posts := make([]Post, 0, len(d.posts))
	for _, post := range d.posts {
		if post.Status {
			posts = append(posts, post)
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].PostId < posts[j].PostId
	})
	return posts, nil
}

func (d *MemoryDatabase) ListAllTags(_ context.Context) ([]Tag, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	tags := make([]Tag, len(d.tags))
	copy(tags, d.tags)
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].TagId < tags[j].TagId
	})
	return tags, nil
}

func (d *MemoryDatabase) GetUserWithPreferences(_ context.Context, userId string) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, user := range d.users {
		if user.UserId == userId {
			return user, nil
		}
	}
	return User{}, errors.Annotate(ErrUserNotExist, userId)
}

func (d *MemoryDatabase) ListAllUsersWithPreferences(_ context.Context) ([]User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	users := make([]User, len(d.users))
	copy(users, d.users)
	sort.Slice(users, func(i, j int) bool {
		return users[i].UserId < users[j].UserId
	})
	return users, nil
}

func (d *MemoryDatabase) ListAllLikes(_ context.Context) ([]Like, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	likes := make([]Like, len(d.likes))
	copy(likes, d.likes)
	return likes, nil
}

func (d *MemoryDatabase) ListAllComments(_ context.Context) ([]Comment, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	comments := make([]Comment, len(d.comments))
	copy(comments, d.comments)
	return comments, nil
}

func (d *MemoryDatabase) GetPostWithTags(_ context.Context, postId string) (Post, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, post := range d.posts {
		if post.PostId == postId {
			return post, nil
		}
	}
	return Post{}, errors.Annotate(ErrPostNotExist, postId)
}

func (d *MemoryDatabase) InsertTags(tags ...Tag) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tags = append(d.tags, tags...)
}

func (d *MemoryDatabase) InsertUsers(users ...User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = append(d.users, users...)
}

func (d *MemoryDatabase) InsertPosts(posts ...Post) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.posts = append(d.posts, posts...)
}

func (d *MemoryDatabase) InsertLikes(likes ...Like) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.likes = append(d.likes, likes...)
}

func (d *MemoryDatabase) InsertComments(comments ...Comment) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.comments = append(d.comments, comments...)
}
