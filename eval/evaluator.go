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
	"context"
	"math"
	"runtime"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/inklet-io/inklet/base/log"
	"github.com/inklet-io/inklet/base/parallel"
	"github.com/inklet-io/inklet/common/floats"
	"github.com/inklet-io/inklet/config"
	"github.com/inklet-io/inklet/logics"
	"github.com/inklet-io/inklet/storage/data"
)

// Algorithm names in reporting order.
const (
	CosineBased      = "cosineBased"
	UserBased        = "userBased"
	InteractionBased = "interactionBased"
)

var algorithmNames = []string{CosineBased, UserBased, InteractionBased}

// Options controls one evaluation run.
type Options struct {
	// Ks are the ranking cutoffs. Defaults to 5, 10, 20.
	Ks []int `json:"ks"`
	// UserIds restricts evaluation to the given users. Empty means all.
	UserIds []string `json:"userIds"`
	// MinInteractions excludes users with a smaller ground-truth set.
	// Defaults to 1, excluding only users with no interactions at all.
	MinInteractions int `json:"minInteractions"`
	// NumJobs bounds the evaluation worker pool. Defaults to NumCPU.
	NumJobs int `json:"-"`
}

func (opts Options) fill() Options {
	if len(opts.Ks) == 0 {
		opts.Ks = []int{5, 10, 20}
	}
	if opts.MinInteractions <= 0 {
		opts.MinInteractions = 1
	}
	if opts.NumJobs <= 0 {
		opts.NumJobs = runtime.NumCPU()
	}
	return opts
}

// Metrics holds one algorithm's results, keyed by cutoff k. All values are
// rounded to 3 decimals.
type Metrics struct {
	Precision      map[int]float64 `json:"precision"`
	Recall         map[int]float64 `json:"recall"`
	HitRate        map[int]float64 `json:"hitRate"`
	MRR            map[int]float64 `json:"mrr"`
	MAP            map[int]float64 `json:"map"`
	NDCG           map[int]float64 `json:"ndcg"`
	Coverage       map[int]float64 `json:"coverage"`
	AvgPopularity  map[int]float64 `json:"avgPopularity"`
	Diversity      map[int]float64 `json:"diversity"`
	UsersEvaluated int             `json:"usersEvaluated"`
}

func newMetrics() Metrics {
	return Metrics{
		Precision:     make(map[int]float64),
		Recall:        make(map[int]float64),
		HitRate:       make(map[int]float64),
		MRR:           make(map[int]float64),
		MAP:           make(map[int]float64),
		NDCG:          make(map[int]float64),
		Coverage:      make(map[int]float64),
		AvgPopularity: make(map[int]float64),
		Diversity:     make(map[int]float64),
	}
}

// Evaluator replays recorded likes and comments as ground truth against the
// recommenders' predictions.
type Evaluator struct {
	database    data.Database
	recommender *logics.Recommender
}

func NewEvaluator(database data.Database, cfg config.RecommendConfig) *Evaluator {
	return &Evaluator{
		database:    database,
		recommender: logics.NewRecommender(database, cfg),
	}
}

// evalAccumulator collects one worker's share of per-k sums so workers
// never contend on shared state.
type evalAccumulator struct {
	sums      map[int]*metricSums
	coverage  map[int]mapset.Set[string]
	evaluated int
}

type metricSums struct {
	precision, recall, hitRate, mrr, ap, ndcg float64
	popularity, diversity                     float64
	count                                     int
}

func newEvalAccumulator(ks []int) *evalAccumulator {
	acc := &evalAccumulator{
		sums:     make(map[int]*metricSums, len(ks)),
		coverage: make(map[int]mapset.Set[string], len(ks)),
	}
	for _, k := range ks {
		acc.sums[k] = new(metricSums)
		acc.coverage[k] = mapset.NewThreadUnsafeSet[string]()
	}
	return acc
}

// Evaluate runs every algorithm for every eligible user and reports ranking
// quality per algorithm per cutoff. A failing or empty prediction list
// skips that user for that algorithm only.
func (e *Evaluator) Evaluate(ctx context.Context, opts Options) (map[string]Metrics, error) {
	opts = opts.fill()

	users, err := e.database.ListAllUsersWithPreferences(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(opts.UserIds) > 0 {
		wanted := mapset.NewThreadUnsafeSet(opts.UserIds...)
		filtered := make([]data.User, 0, len(opts.UserIds))
		for _, user := range users {
			if wanted.Contains(user.UserId) {
				filtered = append(filtered, user)
			}
		}
		users = filtered
	}
	likes, err := e.database.ListAllLikes(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	comments, err := e.database.ListAllComments(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	tags, err := e.database.ListAllTags(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	posts, err := e.database.ListActivePosts(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}

	// ground truth and popularity from the interaction log
	truth := make(map[string]mapset.Set[string], len(users))
	popularity := make(map[string]int, len(posts))
	for _, like := range likes {
		if _, exist := truth[like.UserId]; !exist {
			truth[like.UserId] = mapset.NewThreadUnsafeSet[string]()
		}
		truth[like.UserId].Add(like.PostId)
		popularity[like.PostId]++
	}
	for _, comment := range comments {
		if _, exist := truth[comment.UserId]; !exist {
			truth[comment.UserId] = mapset.NewThreadUnsafeSet[string]()
		}
		truth[comment.UserId].Add(comment.PostId)
		popularity[comment.PostId]++
	}

	// binary tag vectors for the diversity metric
	space := logics.NewVectorSpace(tags, posts)
	tagVectors := make(map[string][]float32, len(posts))
	for _, post := range posts {
		tagVectors[post.PostId] = space.BinaryVector(post.Tags)
	}

	eligible := make([]data.User, 0, len(users))
	for _, user := range users {
		if truthSet, exist := truth[user.UserId]; exist && truthSet.Cardinality() >= opts.MinInteractions {
			eligible = append(eligible, user)
		}
	}

	results := make(map[string]Metrics, len(algorithmNames))
	for _, name := range algorithmNames {
		metrics, err := e.evaluateAlgorithm(ctx, name, eligible, truth, popularity, tagVectors, len(posts), opts)
		if err != nil {
			return nil, errors.Trace(err)
		}
		results[name] = metrics
	}
	return results, nil
}

// predict returns the named algorithm's ranked post ids for one user.
func (e *Evaluator) predict(ctx context.Context, algorithm, userId string) ([]string, error) {
	switch algorithm {
	case CosineBased:
		posts, err := e.recommender.GetRawRecommendedPostsForUser(ctx, userId)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return postIds(posts), nil
	case UserBased:
		posts, err := e.recommender.GetUserBasedRecommendations(ctx, userId)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return postIds(posts), nil
	case InteractionBased:
		scored, err := e.recommender.GetCollaborativeInteractionRecommendations(ctx, userId)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return postIds(logics.Posts(scored)), nil
	default:
		return nil, errors.NotFoundf("algorithm %s", algorithm)
	}
}

func (e *Evaluator) evaluateAlgorithm(
	ctx context.Context,
	algorithm string,
	users []data.User,
	truth map[string]mapset.Set[string],
	popularity map[string]int,
	tagVectors map[string][]float32,
	activePostCount int,
	opts Options,
) (Metrics, error) {
	accumulators := make([]*evalAccumulator, opts.NumJobs)
	for i := range accumulators {
		accumulators[i] = newEvalAccumulator(opts.Ks)
	}

	err := parallel.Parallel(len(users), opts.NumJobs, func(workerId, jobId int) error {
		user := users[jobId]
		predictions, err := e.predict(ctx, algorithm, user.UserId)
		if err != nil {
			log.Logger().Warn("algorithm failed for user, skipping",
				zap.String("algorithm", algorithm),
				zap.String("user_id", user.UserId),
				zap.Error(err))
			return nil
		}
		if len(predictions) == 0 {
			return nil
		}
		accumulators[workerId].accumulate(predictions, truth[user.UserId], popularity, tagVectors, opts.Ks)
		return nil
	})
	if err != nil {
		return Metrics{}, errors.Trace(err)
	}

	// merge the per-worker shares
	merged := newEvalAccumulator(opts.Ks)
	for _, acc := range accumulators {
		merged.evaluated += acc.evaluated
		for _, k := range opts.Ks {
			merged.sums[k].precision += acc.sums[k].precision
			merged.sums[k].recall += acc.sums[k].recall
			merged.sums[k].hitRate += acc.sums[k].hitRate
			merged.sums[k].mrr += acc.sums[k].mrr
			merged.sums[k].ap += acc.sums[k].ap
			merged.sums[k].ndcg += acc.sums[k].ndcg
			merged.sums[k].popularity += acc.sums[k].popularity
			merged.sums[k].diversity += acc.sums[k].diversity
			merged.sums[k].count += acc.sums[k].count
			merged.coverage[k] = merged.coverage[k].Union(acc.coverage[k])
		}
	}

	metrics := newMetrics()
	metrics.UsersEvaluated = merged.evaluated
	for _, k := range opts.Ks {
		sums := merged.sums[k]
		count := float64(sums.count)
		if count == 0 {
			count = 1
		}
		metrics.Precision[k] = round3(sums.precision / count)
		metrics.Recall[k] = round3(sums.recall / count)
		metrics.HitRate[k] = round3(sums.hitRate / count)
		metrics.MRR[k] = round3(sums.mrr / count)
		metrics.MAP[k] = round3(sums.ap / count)
		metrics.NDCG[k] = round3(sums.ndcg / count)
		if activePostCount > 0 {
			metrics.Coverage[k] = round3(float64(merged.coverage[k].Cardinality()) / float64(activePostCount) * 100)
		}
		slots := float64(sums.count * k)
		if slots < 1 {
			slots = 1
		}
		metrics.AvgPopularity[k] = round3(sums.popularity / slots)
		metrics.Diversity[k] = round3(sums.diversity / count)
	}
	return metrics, nil
}

// accumulate folds one user's predictions into the worker's share.
func (acc *evalAccumulator) accumulate(
	predictions []string,
	truthSet mapset.Set[string],
	popularity map[string]int,
	tagVectors map[string][]float32,
	ks []int,
) {
	if truthSet == nil {
		truthSet = mapset.NewThreadUnsafeSet[string]()
	}
	acc.evaluated++
	for _, k := range ks {
		sums := acc.sums[k]
		sums.precision += float64(Precision(truthSet, predictions, k))
		sums.recall += float64(Recall(truthSet, predictions, k))
		sums.hitRate += float64(HitRate(truthSet, predictions, k))
		sums.mrr += float64(MRR(truthSet, predictions, k))
		sums.ap += float64(MAP(truthSet, predictions, k))
		sums.ndcg += float64(NDCG(truthSet, predictions, k))
		sums.count++

		top := predictions
		if k < len(top) {
			top = top[:k]
		}
		for _, postId := range top {
			acc.coverage[k].Add(postId)
			sums.popularity += float64(popularity[postId])
		}

		// mean dissimilarity over adjacent pairs, zero for short lists
		if len(top) >= 2 {
			dissimilarity := 0.0
			for i := 0; i+1 < len(top); i++ {
				dissimilarity += 1 - float64(floats.Cosine(tagVectors[top[i]], tagVectors[top[i+1]]))
			}
			sums.diversity += dissimilarity / float64(len(top)-1)
		}
	}
}

func postIds(posts []data.Post) []string {
	ids := make([]string, len(posts))
	for i, post := range posts {
		ids[i] = post.PostId
	}
	return ids
}

func round3(value float64) float64 {
	return math.Round(value*1000) / 1000
}
