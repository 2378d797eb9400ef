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
	"context"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/inklet-io/inklet/base/log"
	"github.com/inklet-io/inklet/config"
	"github.com/inklet-io/inklet/storage/data"
)

// Recommender runs the recommendation algorithms on top of a database. It
// holds no per-user state; every call fetches a fresh catalog snapshot.
type Recommender struct {
	Database data.Database
	Config   config.RecommendConfig
}

func NewRecommender(database data.Database, cfg config.RecommendConfig) *Recommender {
	return &Recommender{Database: database, Config: cfg}
}

// loadCatalog fetches the store state one call operates on.
func (r *Recommender) loadCatalog(ctx context.Context) (*Catalog, error) {
	catalog := new(Catalog)
	var err error
	if catalog.Tags, err = r.Database.ListAllTags(ctx); err != nil {
		return nil, errors.Trace(err)
	}
	if catalog.Posts, err = r.Database.ListActivePosts(ctx); err != nil {
		return nil, errors.Trace(err)
	}
	if catalog.Users, err = r.Database.ListAllUsersWithPreferences(ctx); err != nil {
		return nil, errors.Trace(err)
	}
	if catalog.Likes, err = r.Database.ListAllLikes(ctx); err != nil {
		return nil, errors.Trace(err)
	}
	if catalog.Comments, err = r.Database.ListAllComments(ctx); err != nil {
		return nil, errors.Trace(err)
	}
	return catalog, nil
}

// getUser resolves the target user. Unknown users are a cold-start case,
// not a failure: the second return value reports whether the user exists.
func (r *Recommender) getUser(ctx context.Context, userId string) (data.User, bool, error) {
	user, err := r.Database.GetUserWithPreferences(ctx, userId)
	if err != nil {
		if errors.Is(err, data.ErrUserNotExist) {
			log.Logger().Debug("recommendation requested for unknown user",
				zap.String("user_id", userId))
			return data.User{}, false, nil
		}
		return data.User{}, false, errors.Trace(err)
	}
	return user, true, nil
}

// GetRecommendedPostsForUser returns content-based recommendations with
// cosine scores attached.
func (r *Recommender) GetRecommendedPostsForUser(ctx context.Context, userId string) ([]ScoredPost, error) {
	user, exist, err := r.getUser(ctx, userId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !exist {
		return []ScoredPost{}, nil
	}
	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return ContentBased(r.Config, catalog, user), nil
}

// GetRawRecommendedPostsForUser returns the content-based list stripped of
// scores, for callers that only want the posts.
func (r *Recommender) GetRawRecommendedPostsForUser(ctx context.Context, userId string) ([]data.Post, error) {
	scored, err := r.GetRecommendedPostsForUser(ctx, userId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return Posts(scored), nil
}

// GetUserBasedRecommendations returns posts authored by users whose
// preference sets resemble the target's.
func (r *Recommender) GetUserBasedRecommendations(ctx context.Context, userId string) ([]data.Post, error) {
	_, exist, err := r.getUser(ctx, userId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !exist {
		return []data.Post{}, nil
	}
	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return UserBased(catalog, userId), nil
}

// GetCollaborativeInteractionRecommendations returns posts that
// interaction-similar users engaged with but the target has not.
func (r *Recommender) GetCollaborativeInteractionRecommendations(ctx context.Context, userId string) ([]ScoredPost, error) {
	_, exist, err := r.getUser(ctx, userId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !exist {
		return []ScoredPost{}, nil
	}
	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return InteractionBased(catalog, userId), nil
}

// GetFinalRecommendations returns the fused ranking of all four signals.
// minResults <= 0 falls back to the configured default.
func (r *Recommender) GetFinalRecommendations(ctx context.Context, userId string, minResults int) ([]ScoredPost, error) {
	user, exist, err := r.getUser(ctx, userId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !exist {
		return []ScoredPost{}, nil
	}
	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return FinalRecommendations(r.Config, catalog, user, minResults), nil
}

// GetRecommendationsBasedOnCurrentPostTags returns related reading for the
// post the user is currently on. A missing post is reported as
// data.ErrPostNotExist.
func (r *Recommender) GetRecommendationsBasedOnCurrentPostTags(ctx context.Context, userId, postId string) ([]data.Post, error) {
	post, err := r.Database.GetPostWithTags(ctx, postId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	user, exist, err := r.getUser(ctx, userId)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !exist {
		return []data.Post{}, nil
	}
	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return ContextRecommend(catalog, user, data.TagIds(post.Tags), post.PostId), nil
}
