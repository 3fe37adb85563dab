package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/threadworks/comments-api/internal/comments"
	"github.com/threadworks/comments-api/internal/session"
	"github.com/threadworks/comments-api/internal/sourceid"
	"github.com/threadworks/comments-api/internal/storage"
	"github.com/threadworks/comments-api/internal/trackers"
	"go.uber.org/zap"
)

// handleFetchThread resolves the encoded source id to a tracker, loads its
// comments, assembles the forest and the profile map, and returns the full
// thread envelope. An unresolved tracker is an expected outcome and yields
// an empty thread, not an error.
func (h *httpHandler) handleFetchThread(c *gin.Context) {
	encodedSourceID := c.Param("source_id")
	rawSource, err := sourceid.Decode(encodedSourceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Source ID is not a valid encoded identifier"})
		return
	}

	ctx := c.Request.Context()
	trackerID, err := h.trackers.Resolve(ctx, string(rawSource))
	if err != nil && !errors.Is(err, trackers.ErrTrackerNotFound) {
		h.logger.Error("thread tracker resolution failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to resolve comment tracker"})
		return
	}

	cids, err := h.comments.FindByOwner(ctx, trackerID)
	if err != nil {
		h.logger.Error("thread comment query failed", zap.Uint64("tracker_id", trackerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load comments"})
		return
	}
	records, err := h.comments.LoadMany(ctx, cids)
	if err != nil {
		h.logger.Error("thread comment load failed", zap.Uint64("tracker_id", trackerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load comments"})
		return
	}

	views := make([]comments.CommentView, 0, len(records))
	for _, cid := range cids {
		record, ok := records[cid]
		if !ok {
			continue
		}
		views = append(views, comments.Transform(record))
	}

	// Author ids come from the flat list: forest assembly drops orphans,
	// and their authors must still appear in the profile map.
	authorIDs := comments.AuthorIDs(views)
	forest := comments.BuildForest(views)

	user := session.FromContext(c)
	profileMap, err := h.profiles.BuildProfiles(ctx, user.UID, authorIDs)
	if err != nil {
		h.logger.Error("thread profile join failed", zap.Uint64("requester_uid", user.UID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load profiles"})
		return
	}

	badgeCatalog := h.badges.AllBadges()
	admin := 0
	if user.IsAdmin() {
		admin = 1
	}

	c.JSON(http.StatusOK, threadEnvelope{
		Page:         fixedPage,
		PageSize:     fixedPageSize,
		NID:          encodedSourceID,
		CommentCount: len(forest),
		Comments:     forest,
		Profiles:     profileMap,
		Badges:       badgeCatalog,
		BestReply:    nil,
		Requester: requesterPayload{
			UID:     user.UID,
			Badges:  badgeCatalog,
			Profile: profileMap[user.UID],
			Admin:   admin,
			Token:   uuid.NewString(),
		},
	})
}

// handleFetchComment returns an array of zero or one transformed comments.
func (h *httpHandler) handleFetchComment(c *gin.Context) {
	cid, ok := h.commentID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	cids, err := h.comments.FindByID(ctx, cid)
	if err != nil {
		h.logger.Error("comment query failed", zap.Uint64("cid", cid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load comment"})
		return
	}
	records, err := h.comments.LoadMany(ctx, cids)
	if err != nil {
		h.logger.Error("comment load failed", zap.Uint64("cid", cid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load comment"})
		return
	}

	views := make([]comments.CommentView, 0, len(records))
	for _, id := range cids {
		if record, ok := records[id]; ok {
			views = append(views, comments.Transform(record))
		}
	}
	c.JSON(http.StatusOK, views)
}

type insertCommentPayload struct {
	CID      *uint64 `json:"cid"`
	Raw      string  `json:"raw"`
	Subject  string  `json:"subject"`
	PID      uint64  `json:"pid"`
	EntityID uint64  `json:"entity_id"`
	Private  *int    `json:"private"`
}

// handleInsertComment creates a comment authored by the current session
// user. The store assigns the cid; a caller-supplied one is rejected.
// Comments are private by default unless the payload overrides it.
func (h *httpHandler) handleInsertComment(c *gin.Context) {
	rawSource, err := sourceid.Decode(c.Param("source_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Source ID is not a valid encoded identifier"})
		return
	}

	ctx := c.Request.Context()
	trackerID, err := h.trackers.Resolve(ctx, string(rawSource))
	if err != nil && !errors.Is(err, trackers.ErrTrackerNotFound) {
		h.logger.Error("insert tracker resolution failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to resolve comment tracker"})
		return
	}

	var payload insertCommentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body is not valid JSON"})
		return
	}
	if payload.CID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment ID should not be provided."})
		return
	}
	if payload.Raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment body cannot be empty"})
		return
	}
	if payload.Subject == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment subject cannot be empty"})
		return
	}

	entityID := trackerID
	if payload.EntityID != 0 {
		entityID = payload.EntityID
	}
	private := true
	if payload.Private != nil {
		private = *payload.Private != 0
	}

	now := h.clock().UTC().Unix()
	record := storage.Comment{
		PID:        payload.PID,
		UID:        session.FromContext(c).UID,
		EntityID:   entityID,
		EntityType: storage.EntityTypeNode,
		Created:    now,
		Changed:    now,
		Body:       payload.Raw,
		IsPrivate:  private,
		Status:     storage.StatusActive,
	}
	if err := h.comments.Create(ctx, &record); err != nil {
		h.logger.Error("comment insert failed", zap.Uint64("entity_id", entityID), zap.Error(err))
		c.JSON(http.StatusNotAcceptable, gin.H{"error": "Comment could not be stored"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": "1",
		"comment": comments.Transform(record),
		"message": "Comment inserted successfully",
	})
}

type updateCommentPayload struct {
	CID     *uint64 `json:"cid"`
	Raw     string  `json:"raw"`
	Private int     `json:"private"`
}

// handleUpdateComment rewrites the body (when provided) and the private flag
// of an existing comment. An absent private field clears the flag, matching
// the documented current behavior.
func (h *httpHandler) handleUpdateComment(c *gin.Context) {
	cid, ok := h.commentID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	records, err := h.loadByID(c, cid)
	if err != nil {
		return
	}
	record, found := records[cid]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	var payload updateCommentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body is not valid JSON"})
		return
	}
	if payload.CID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment ID should not be provided."})
		return
	}

	if payload.Raw != "" {
		record.Body = payload.Raw
	}
	record.IsPrivate = payload.Private != 0
	record.Changed = h.clock().UTC().Unix()

	if err := h.comments.Save(ctx, &record); err != nil {
		h.logger.Error("comment update failed", zap.Uint64("cid", cid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Comment could not be updated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    "1",
		"comment_id": cid,
		"comment":    comments.Transform(record),
		"message":    "Comment updated successfully",
	})
}

// handleDeleteComment removes a comment. Deleting a missing id is a benign
// success with a message, not an error.
func (h *httpHandler) handleDeleteComment(c *gin.Context) {
	cid, ok := h.commentID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	records, err := h.loadByID(c, cid)
	if err != nil {
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Comment does not exist"})
		return
	}

	toDelete := make([]storage.Comment, 0, len(records))
	for _, record := range records {
		toDelete = append(toDelete, record)
	}
	if err := h.comments.Delete(ctx, toDelete); err != nil {
		h.logger.Error("comment delete failed", zap.Uint64("cid", cid), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment could not be deleted"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    "1",
		"comment_id": cid,
		"message":    "Comment deleted successfully",
	})
}

// handlePublishComment is a permanent stub: the endpoint short-circuits to
// an unimplemented message regardless of input, and its success path is
// intentionally unreachable.
func (h *httpHandler) handlePublishComment(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Endpoint is not implemented"})
}

type createTrackerPayload struct {
	Title    string `json:"title"`
	IsLocked bool   `json:"is_locked"`
}

// handleCreateTracker stores a new tracker for the decoded source id.
func (h *httpHandler) handleCreateTracker(c *gin.Context) {
	rawSource, err := sourceid.Decode(c.Param("source_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Source ID is not a valid encoded identifier"})
		return
	}

	var payload createTrackerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body is not valid JSON"})
		return
	}

	if _, err := h.trackers.Create(c.Request.Context(), payload.Title, payload.IsLocked, string(rawSource)); err != nil {
		h.logger.Error("tracker insert failed", zap.Error(err))
		c.JSON(http.StatusNotAcceptable, gin.H{"error": "Comment tracker could not be stored"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": "1",
		"message": "Comment tracker inserted successfully",
	})
}

// commentID parses the numeric id path parameter, responding 400 itself when
// the value is not a valid id.
func (h *httpHandler) commentID(c *gin.Context) (uint64, bool) {
	cid, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment ID must be numeric"})
		return 0, false
	}
	return cid, true
}

// loadByID fetches the records for one cid, responding 500 itself when the
// storage subsystem fails.
func (h *httpHandler) loadByID(c *gin.Context, cid uint64) (map[uint64]storage.Comment, error) {
	ctx := c.Request.Context()
	cids, err := h.comments.FindByID(ctx, cid)
	if err == nil {
		var records map[uint64]storage.Comment
		records, err = h.comments.LoadMany(ctx, cids)
		if err == nil {
			return records, nil
		}
	}
	h.logger.Error("comment lookup failed", zap.Uint64("cid", cid), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load comment"})
	return nil, err
}
