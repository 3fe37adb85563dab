// Package server wires the comment API endpoints onto a gin router and
// implements the request handlers.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/threadworks/comments-api/internal/comments"
	"github.com/threadworks/comments-api/internal/points"
	"github.com/threadworks/comments-api/internal/profiles"
	"github.com/threadworks/comments-api/internal/session"
	"github.com/threadworks/comments-api/internal/storage"
	"github.com/threadworks/comments-api/internal/trackers"
	"go.uber.org/zap"
)

var (
	errMissingCommentRepository = errors.New("comment repository dependency required")
	errMissingTrackerService    = errors.New("tracker service dependency required")
	errMissingProfileService    = errors.New("profile service dependency required")
	errMissingBadgeService      = errors.New("badge service dependency required")
)

// Dependencies carries everything the HTTP layer needs.
type Dependencies struct {
	Comments *storage.CommentRepository
	Trackers *trackers.Service
	Profiles *profiles.Service
	Badges   points.Service
	// SessionSecret enables bearer-token session resolution; empty means
	// every request is anonymous.
	SessionSecret []byte
	Logger        *zap.Logger
	Clock         func() time.Time
}

// NewHTTPHandler builds the full router for the comment API.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Comments == nil {
		return nil, errMissingCommentRepository
	}
	if deps.Trackers == nil {
		return nil, errMissingTrackerService
	}
	if deps.Profiles == nil {
		return nil, errMissingProfileService
	}
	if deps.Badges == nil {
		return nil, errMissingBadgeService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	router.Use(session.Middleware(session.MiddlewareConfig{
		SigningSecret: deps.SessionSecret,
		Logger:        logger,
	}))

	handler := &httpHandler{
		comments: deps.Comments,
		trackers: deps.Trackers,
		profiles: deps.Profiles,
		badges:   deps.Badges,
		logger:   logger,
		clock:    clock,
	}

	router.GET("/comments/thread/:source_id", handler.handleFetchThread)
	router.POST("/comments/thread/:source_id", handler.handleInsertComment)
	router.GET("/comments/:id", handler.handleFetchComment)
	router.PUT("/comments/:id", handler.handleUpdateComment)
	router.DELETE("/comments/:id", handler.handleDeleteComment)
	router.POST("/comments/:id/publish", handler.handlePublishComment)
	router.POST("/tracker/:source_id", handler.handleCreateTracker)

	return router, nil
}

type httpHandler struct {
	comments *storage.CommentRepository
	trackers *trackers.Service
	profiles *profiles.Service
	badges   points.Service
	logger   *zap.Logger
	clock    func() time.Time
}

// threadEnvelope is the thread fetch response. Page and PageSize are fixed:
// pagination is declared in the shape but not implemented.
type threadEnvelope struct {
	Page         int                                 `json:"page"`
	PageSize     int                                 `json:"page_size"`
	NID          string                              `json:"nid"`
	CommentCount int                                 `json:"comment_count"`
	Comments     []comments.CommentView              `json:"comments"`
	Profiles     map[uint64]profiles.UserProfileView `json:"profiles"`
	Badges       []points.Badge                      `json:"badges"`
	BestReply    any                                 `json:"best_reply"`
	Requester    requesterPayload                    `json:"requester"`
}

// requesterPayload describes the requesting user. Token is a fresh opaque
// value per response, not a credential.
type requesterPayload struct {
	UID     uint64                   `json:"uid"`
	Badges  []points.Badge           `json:"badges"`
	Profile profiles.UserProfileView `json:"profile"`
	Admin   int                      `json:"admin"`
	Token   string                   `json:"token"`
}

const (
	fixedPage     = 0
	fixedPageSize = 20
)
