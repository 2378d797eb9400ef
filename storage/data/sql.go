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

	"github.com/juju/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLDatabase uses GORM to read the blog catalog from a relational store.
type SQLDatabase struct {
	gormDB *gorm.DB
}

// Init creates tables if they do not exist.
func (d *SQLDatabase) Init() error {
	err := d.gormDB.AutoMigrate(&Tag{}, &User{}, &Post{}, &Like{}, &Comment{})
	return errors.Trace(err)
}

func (d *SQLDatabase) Ping() error {
	db, err := d.gormDB.DB()
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(db.Ping())
}

func (d *SQLDatabase) Close() error {
	db, err := d.gormDB.DB()
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(db.Close())
}

func (d *SQLDatabase) ListActivePosts(ctx context.Context) ([]Post, error) {
	posts := make([]Post, 0)
	err := d.gormDB.WithContext(ctx).
		Preload("Tags").
		Preload("Author").
		Where("status = ?", true).
		Order("created_at DESC").
		Order("post_id").
		Find(&posts).Error
	if err != nil {
		return nil, errors.Trace(err)
	}
	return posts, nil
}

func (d *SQLDatabase) ListAllTags(ctx context.Context) ([]Tag, error) {
	tags := make([]Tag, 0)
	err := d.gormDB.WithContext(ctx).
		Order("tag_id").
		Find(&tags).Error
	if err != nil {
		return nil, errors.Trace(err)
	}
	return tags, nil
}

func (d *SQLDatabase) GetUserWithPreferences(ctx context.Context, userId string) (User, error) {
	var user User
	err := d.gormDB.WithContext(ctx).
		Preload("Preferences").
		Where("user_id = ?", userId).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, errors.Annotate(ErrUserNotExist, userId)
		}
		return User{}, errors.Trace(err)
	}
	return user, nil
}

func (d *SQLDatabase) ListAllUsersWithPreferences(ctx context.Context) ([]User, error) {
	users := make([]User, 0)
	err := d.gormDB.WithContext(ctx).
		Preload("Preferences").
		Order("user_id").
		Find(&users).Error
	if err != nil {
		return nil, errors.Trace(err)
	}
	return users, nil
}

func (d *SQLDatabase) ListAllLikes(ctx context.Context) ([]Like, error) {
	likes := make([]Like, 0)
	err := d.gormDB.WithContext(ctx).
		Order("time_stamp").
		Order("user_id").
		Order("post_id").
		Find(&likes).Error
	if err != nil {
		return nil, errors.Trace(err)
	}
	return likes, nil
}

func (d *SQLDatabase) ListAllComments(ctx context.Context) ([]Comment, error) {
	comments := make([]Comment, 0)
	err := d.gormDB.WithContext(ctx).
		Order("time_stamp").
		Order("comment_id").
		Find(&comments).Error
	if err != nil {
		return nil, errors.Trace(err)
	}
	return comments, nil
}

func (d *SQLDatabase) GetPostWithTags(ctx context.Context, postId string) (Post, error) {
	var post Post
	err := d.gormDB.WithContext(ctx).
		Preload("Tags").
		Where("post_id = ?", postId).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Post{}, errors.Annotate(ErrPostNotExist, postId)
		}
		return Post{}, errors.Trace(err)
	}
	return post, nil
}

/* Batch inserts are used by seeding and integration tests. The platform
services own these entities in production. */

func (d *SQLDatabase) BatchInsertTags(ctx context.Context, tags []Tag) error {
	if len(tags) == 0 {
		return nil
	}
	err := d.gormDB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(tags).Error
	return errors.Trace(err)
}

func (d *SQLDatabase) BatchInsertUsers(ctx context.Context, users []User) error {
	if len(users) == 0 {
		return nil
	}
	err := d.gormDB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(users).Error
	return errors.Trace(err)
}

func (d *SQLDatabase) BatchInsertPosts(ctx context.Context, posts []Post) error {
	if len(posts) == 0 {
		return nil
	}
	err := d.gormDB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(posts).Error
	return errors.Trace(err)
}

func (d *SQLDatabase) BatchInsertLikes(ctx context.Context, likes []Like) error {
	if len(likes) == 0 {
		return nil
	}
	err := d.gormDB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(likes).Error
	return errors.Trace(err)
}

func (d *SQLDatabase) BatchInsertComments(ctx context.Context, comments []Comment) error {
	if len(comments) == 0 {
		return nil
	}
	err := d.gormDB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(comments).Error
	return errors.Trace(err)
}
