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

package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/inklet-io/inklet/base/log"
	"github.com/inklet-io/inklet/config"
	"github.com/inklet-io/inklet/eval"
	"github.com/inklet-io/inklet/logics"
	"github.com/inklet-io/inklet/storage/data"
)

// RestServer implements a REST-ful API server.
type RestServer struct {
	Config      *config.Config
	Database    data.Database
	Recommender *logics.Recommender
	Evaluator   *eval.Evaluator
	HttpHost    string
	HttpPort    int
	WebService  *restful.WebService
}

func NewRestServer(cfg *config.Config, database data.Database) *RestServer {
	return &RestServer{
		Config:      cfg,
		Database:    database,
		Recommender: logics.NewRecommender(database, cfg.Recommend),
		Evaluator:   eval.NewEvaluator(database, cfg.Recommend),
		HttpHost:    cfg.Server.HttpHost,
		HttpPort:    cfg.Server.HttpPort,
		WebService:  new(restful.WebService),
	}
}

// StartHttpServer starts the REST-ful API server.
func (s *RestServer) StartHttpServer() {
	// register restful APIs
	s.CreateWebService()
	restful.DefaultContainer.Add(s.WebService)
	// register swagger UI
	specConfig := restfulspec.Config{
		WebServices: restful.RegisteredWebServices(),
		APIPath:     "/apidocs.json",
	}
	restful.DefaultContainer.Add(restfulspec.NewOpenAPIService(specConfig))
	// register prometheus
	http.Handle("/metrics", promhttp.Handler())

	log.Logger().Info("start http server",
		zap.String("url", fmt.Sprintf("http://%s:%d", s.HttpHost, s.HttpPort)))
	log.Logger().Fatal("failed to start http server",
		zap.Error(http.ListenAndServe(fmt.Sprintf("%s:%d", s.HttpHost, s.HttpPort), nil)))
}

func LogFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	requestId := req.HeaderParameter("X-Request-ID")
	if requestId == "" {
		requestId = uuid.NewString()
	}
	resp.Header().Set("X-Request-ID", requestId)
	start := time.Now()
	chain.ProcessFilter(req, resp)
	log.Logger().Info(fmt.Sprintf("%s %s", req.Request.Method, req.Request.URL),
		zap.String("request_id", requestId),
		zap.Int("status_code", resp.StatusCode()),
		zap.Duration("duration", time.Since(start)))
}

// CreateWebService creates web service.
func (s *RestServer) CreateWebService() {
	ws := s.WebService
	ws.Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	ws.Path("/api/")
	ws.Filter(LogFilter)

	/* Recommendation APIs */

	ws.Route(ws.GET("/recommendation/{user-id}").To(s.getRecommendation).
		Doc("Get content-based recommendations for a user.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommendation"}).
		Param(ws.PathParameter("user-id", "identifier of the user").DataType("string")).
		Writes([]ScoredPostResponse{}))
	ws.Route(ws.GET("/recommendation/{user-id}/raw").To(s.getRawRecommendation).
		Doc("Get content-based recommendations as full post entities.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommendation"}).
		Param(ws.PathParameter("user-id", "identifier of the user").DataType("string")).
		Writes([]data.Post{}))
	ws.Route(ws.GET("/recommendation/{user-id}/user-based").To(s.getUserBased).
		Doc("Get posts authored by users with similar preferences.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommendation"}).
		Param(ws.PathParameter("user-id", "identifier of the user").DataType("string")).
		Writes([]PostResponse{}))
	ws.Route(ws.GET("/recommendation/{user-id}/interaction-based").To(s.getInteractionBased).
		Doc("Get posts engaged by users with similar interaction patterns.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommendation"}).
		Param(ws.PathParameter("user-id", "identifier of the user").DataType("string")).
		Writes([]ScoredPostResponse{}))
	ws.Route(ws.GET("/recommendation/{user-id}/final").To(s.getFinal).
		Doc("Get fused recommendations from all signals.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommendation"}).
		Param(ws.PathParameter("user-id", "identifier of the user").DataType("string")).
		Param(ws.QueryParameter("min-results", "minimal number of returned posts").DataType("integer")).
		Writes([]ScoredPostResponse{}))
	ws.Route(ws.GET("/recommendation/{user-id}/post-context/{post-id}").To(s.getPostContext).
		Doc("Get related reading for the post a user is currently on.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommendation"}).
		Param(ws.PathParameter("user-id", "identifier of the user").DataType("string")).
		Param(ws.PathParameter("post-id", "identifier of the current post").DataType("string")).
		Writes([]PostResponse{}))

	/* Evaluation APIs */

	ws.Route(ws.POST("/evaluate").To(s.evaluate).
		Doc("Replay recorded interactions as ground truth and score each algorithm.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"evaluation"}).
		Reads(eval.Options{}).
		Writes(map[string]eval.Metrics{}))
}

// TagResponse is the display-safe shape of a tag.
type TagResponse struct {
	Id     string `json:"id"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Status bool   `json:"status"`
}

// AuthorResponse is the display-safe shape of a post author. Slug carries
// the username.
type AuthorResponse struct {
	Id       string `json:"id"`
	FullName string `json:"fullName"`
	Slug     string `json:"slug"`
}

// PostResponse is the display-safe shape of a post. Preference sets and
// other private author fields are stripped.
type PostResponse struct {
	Id        string         `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Image     string         `json:"image"`
	Slug      string         `json:"slug"`
	Status    bool           `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	Tags      []TagResponse  `json:"tags"`
	Author    AuthorResponse `json:"user"`
}

// ScoredPostResponse attaches the recommendation score to a post. Zero
// marks a backfill entry.
type ScoredPostResponse struct {
	PostResponse
	Score float32 `json:"score"`
}

func newPostResponse(post data.Post) PostResponse {
	tags := make([]TagResponse, len(post.Tags))
	for i, tag := range post.Tags {
		tags[i] = TagResponse{
			Id:     tag.TagId,
			Title:  tag.Title,
			Slug:   tag.Slug,
			Status: tag.Status,
		}
	}
	return PostResponse{
		Id:        post.PostId,
		Title:     post.Title,
		Content:   post.Content,
		Image:     post.Image,
		Slug:      post.Slug,
		Status:    post.Status,
		CreatedAt: post.CreatedAt,
		Tags:      tags,
		Author: AuthorResponse{
			Id:       post.Author.UserId,
			FullName: post.Author.FullName,
			Slug:     post.Author.Username,
		},
	}
}

func newPostResponses(posts []data.Post) []PostResponse {
	responses := make([]PostResponse, len(posts))
	for i, post := range posts {
		responses[i] = newPostResponse(post)
	}
	return responses
}

func newScoredPostResponses(scored []logics.ScoredPost) []ScoredPostResponse {
	responses := make([]ScoredPostResponse, len(scored))
	for i, sp := range scored {
		responses[i] = ScoredPostResponse{
			PostResponse: newPostResponse(sp.Post),
			Score:        sp.Score,
		}
	}
	return responses
}

func (s *RestServer) getRecommendation(request *restful.Request, response *restful.Response) {
	userId := request.PathParameter("user-id")
	scored, err := s.Recommender.GetRecommendedPostsForUser(request.Request.Context(), userId)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, newScoredPostResponses(scored))
}

func (s *RestServer) getRawRecommendation(request *restful.Request, response *restful.Response) {
	userId := request.PathParameter("user-id")
	posts, err := s.Recommender.GetRawRecommendedPostsForUser(request.Request.Context(), userId)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, posts)
}

func (s *RestServer) getUserBased(request *restful.Request, response *restful.Response) {
	userId := request.PathParameter("user-id")
	posts, err := s.Recommender.GetUserBasedRecommendations(request.Request.Context(), userId)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, newPostResponses(posts))
}

func (s *RestServer) getInteractionBased(request *restful.Request, response *restful.Response) {
	userId := request.PathParameter("user-id")
	scored, err := s.Recommender.GetCollaborativeInteractionRecommendations(request.Request.Context(), userId)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, newScoredPostResponses(scored))
}

func (s *RestServer) getFinal(request *restful.Request, response *restful.Response) {
	userId := request.PathParameter("user-id")
	minResults, err := ParseInt(request, "min-results", s.Config.Recommend.MinResults)
	if err != nil {
		BadRequest(response, err)
		return
	}
	scored, err := s.Recommender.GetFinalRecommendations(request.Request.Context(), userId, minResults)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, newScoredPostResponses(scored))
}

func (s *RestServer) getPostContext(request *restful.Request, response *restful.Response) {
	userId := request.PathParameter("user-id")
	postId := request.PathParameter("post-id")
	posts, err := s.Recommender.GetRecommendationsBasedOnCurrentPostTags(request.Request.Context(), userId, postId)
	if err != nil {
		if errors.Is(err, data.ErrPostNotExist) {
			PageNotFound(response, err)
		} else {
			InternalServerError(response, err)
		}
		return
	}
	Ok(response, newPostResponses(posts))
}

func (s *RestServer) evaluate(request *restful.Request, response *restful.Response) {
	var opts eval.Options
	if err := request.ReadEntity(&opts); err != nil {
		BadRequest(response, err)
		return
	}
	results, err := s.Evaluator.Evaluate(request.Request.Context(), opts)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	Ok(response, results)
}

// ParseInt parses an integer query parameter with a fallback when absent.
func ParseInt(request *restful.Request, name string, fallback int) (value int, err error) {
	valueString := request.QueryParameter(name)
	value, err = strconv.Atoi(valueString)
	if err != nil && valueString == "" {
		value = fallback
		err = nil
	}
	return
}

// BadRequest returns a bad request error.
func BadRequest(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.ResponseLogger(response).Error("bad request", zap.Error(err))
	if err = response.WriteError(http.StatusBadRequest, err); err != nil {
		log.ResponseLogger(response).Error("failed to write error", zap.Error(err))
	}
}

// InternalServerError returns an internal server error.
func InternalServerError(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.ResponseLogger(response).Error("internal server error", zap.Error(err))
	if err = response.WriteError(http.StatusInternalServerError, err); err != nil {
		log.ResponseLogger(response).Error("failed to write error", zap.Error(err))
	}
}

// PageNotFound returns a not found error.
func PageNotFound(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	if err := response.WriteError(http.StatusNotFound, err); err != nil {
		log.ResponseLogger(response).Error("failed to write error", zap.Error(err))
	}
}

// Ok sends the content as JSON to the client.
func Ok(response *restful.Response, content interface{}) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	if err := response.WriteAsJson(content); err != nil {
		log.ResponseLogger(response).Error("failed to write json", zap.Error(err))
	}
}
