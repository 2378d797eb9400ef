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
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/samber/lo"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	MySQLPrefix      = "mysql://"
	PostgresPrefix   = "postgres://"
	PostgreSQLPrefix = "postgresql://"
	SQLitePrefix     = "sqlite://"
	MemoryPrefix     = "memory://"
)

var (
	ErrUserNotExist = errors.NotFoundf("user")
	ErrPostNotExist = errors.NotFoundf("post")
)

// Tag is one entry of the global tag catalog.
type Tag struct {
	TagId  string `gorm:"column:tag_id;primaryKey" json:"id"`
	Title  string `gorm:"column:title" json:"title"`
	Slug   string `gorm:"column:slug" json:"slug"`
	Status bool   `gorm:"column:status" json:"status"`
}

// User stores a platform user and the bounded set of tags the user
// subscribed to. Preference updates are owned by the user-management
// service, the recommender only reads them.
type User struct {
	UserId      string `gorm:"column:user_id;primaryKey" json:"id"`
	FullName    string `gorm:"column:full_name" json:"fullName"`
	Username    string `gorm:"column:username" json:"username"`
	Preferences []Tag  `gorm:"many2many:user_preferences;foreignKey:UserId;joinForeignKey:UserId;References:TagId;joinReferences:TagId" json:"preferences"`
}

// Post stores a blog post with its tags and author. Inactive posts
// (Status false) are excluded from all recommendation scoring.
type Post struct {
	PostId    string    `gorm:"column:post_id;primaryKey" json:"id"`
	Title     string    `gorm:"column:title" json:"title"`
	Content   string    `gorm:"column:content" json:"content"`
	Image     string    `gorm:"column:image" json:"image"`
	Slug      string    `gorm:"column:slug" json:"slug"`
	Status    bool      `gorm:"column:status" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	AuthorId  string    `gorm:"column:author_id" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorId" json:"author"`
	Tags      []Tag     `gorm:"many2many:post_tags;foreignKey:PostId;joinForeignKey:PostId;References:TagId;joinReferences:TagId" json:"tags"`
}

// Like is a (user, post) interaction edge.
type Like struct {
	UserId    string    `gorm:"column:user_id;primaryKey" json:"userId"`
	PostId    string    `gorm:"column:post_id;primaryKey" json:"postId"`
	Timestamp time.Time `gorm:"column:time_stamp" json:"timestamp"`
}

// Comment is a (user, post) interaction edge. The comment body is kept by
// the post service, the recommender only needs the edge.
type Comment struct {
	CommentId string    `gorm:"column:comment_id;primaryKey" json:"id"`
	UserId    string    `gorm:"column:user_id" json:"userId"`
	PostId    string    `gorm:"column:post_id" json:"postId"`
	Timestamp time.Time `gorm:"column:time_stamp" json:"timestamp"`
}

// TagIds extracts tag ids preserving order.
func TagIds(tags []Tag) []string {
	return lo.Map(tags, func(tag Tag, _ int) string {
		return tag.TagId
	})
}

// SortPostsByDate sorts posts from latest to oldest. The sort is stable so
// posts sharing a timestamp keep their incoming order.
func SortPostsByDate(posts []Post) {
	sort.Stable(postSorter(posts))
}

type postSorter []Post

func (sorter postSorter) Len() int {
	return len(sorter)
}

func (sorter postSorter) Less(i, j int) bool {
	return sorter[i].CreatedAt.After(sorter[j].CreatedAt)
}

func (sorter postSorter) Swap(i, j int) {
	sorter[i], sorter[j] = sorter[j], sorter[i]
}

// Database is the read contract the recommendation core consumes. Writes to
// posts, tags, users and interactions belong to the platform services that
// own those entities.
type Database interface {
	Init() error
	Ping() error
	Close() error
	// ListActivePosts returns active posts with tags and author populated,
	// newest first.
	ListActivePosts(ctx context.Context) ([]Post, error)
	// ListAllTags returns the global tag catalog.
	ListAllTags(ctx context.Context) ([]Tag, error)
	// GetUserWithPreferences returns a user with the preference set
	// populated, or ErrUserNotExist.
	GetUserWithPreferences(ctx context.Context, userId string) (User, error)
	// ListAllUsersWithPreferences returns every user with preferences
	// populated.
	ListAllUsersWithPreferences(ctx context.Context) ([]User, error)
	ListAllLikes(ctx context.Context) ([]Like, error)
	ListAllComments(ctx context.Context) ([]Comment, error)
	// GetPostWithTags returns a post with tags populated, or
	// ErrPostNotExist.
	GetPostWithTags(ctx context.Context, postId string) (Post, error)
}

// Open a connection to a database.
func Open(path string) (Database, error) {
	if strings.HasPrefix(path, MySQLPrefix) {
		name := path[len(MySQLPrefix):]
		gormDB, err := gorm.Open(mysql.Open(name), newGORMConfig())
		if err != nil {
			return nil, errors.Trace(err)
		}
		return &SQLDatabase{gormDB: gormDB}, nil
	} else if strings.HasPrefix(path, PostgresPrefix) || strings.HasPrefix(path, PostgreSQLPrefix) {
		gormDB, err := gorm.Open(postgres.Open(path), newGORMConfig())
		if err != nil {
			return nil, errors.Trace(err)
		}
		return &SQLDatabase{gormDB: gormDB}, nil
	} else if strings.HasPrefix(path, SQLitePrefix) {
		name := path[len(SQLitePrefix):]
		gormDB, err := gorm.Open(sqlite.Open(name), newGORMConfig())
		if err != nil {
			return nil, errors.Trace(err)
		}
		return &SQLDatabase{gormDB: gormDB}, nil
	} else if strings.HasPrefix(path, MemoryPrefix) {
		return NewMemoryDatabase(), nil
	}
	return nil, errors.Errorf("unknown database: %s", path)
}

func newGORMConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
}
