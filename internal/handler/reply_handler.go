package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
	"github.com/tijani-web/flowpitch-backend/internal/response"
)

type ReplyHandler struct {
	replies     *repository.ReplyRepository
	discussions *repository.DiscussionRepository
	guard       *ProjectGuard
	log         *zap.Logger
}

func NewReplyHandler(replies *repository.ReplyRepository, discussions *repository.DiscussionRepository, guard *ProjectGuard, log *zap.Logger) *ReplyHandler {
	return &ReplyHandler{replies: replies, discussions: discussions, guard: guard, log: log}
}

type createReplyRequest struct {
	Content  string     `json:"content" binding:"required,min=1,max=10000"`
	ParentID *uuid.UUID `json:"parentId"`
}

// Create godoc
// @Summary Reply in a discussion, optionally nested under another reply
// @Tags replies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Discussion id"
// @Param body body createReplyRequest true "Reply payload"
// @Success 201 {object} response.Envelope
// @Router /api/discussions/{id}/replies [post]
func (h *ReplyHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	discussionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req createReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid input")
		return
	}

	discussion, ok := h.loadDiscussion(c, discussionID, userID)
	if !ok {
		return
	}

	if req.ParentID != nil {
		parent, err := h.replies.GetByID(c.Request.Context(), *req.ParentID)
		if err != nil {
			response.HandleError(c, h.log, err)
			return
		}
		if parent == nil || parent.DiscussionID != discussion.ID {
			response.Err(c, http.StatusBadRequest, "Parent reply does not belong to this discussion")
			return
		}
	}

	reply := &model.DiscussionReply{
		DiscussionID: discussion.ID,
		AuthorID:     userID,
		ParentID:     req.ParentID,
		Content:      req.Content,
	}
	if err := h.replies.Create(c.Request.Context(), reply); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusCreated, "Reply added", reply)
}

// ListByDiscussion godoc
// @Summary Reply tree of a discussion
// @Tags replies
// @Produce json
// @Param id path string true "Discussion id"
// @Success 200 {object} response.Envelope
// @Router /api/discussions/{id}/replies [get]
func (h *ReplyHandler) ListByDiscussion(c *gin.Context) {
	discussionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	callerID := optionalUserID(c)
	discussion, ok := h.loadDiscussion(c, discussionID, callerID)
	if !ok {
		return
	}

	tree, err := h.replies.Tree(c.Request.Context(), discussion.ID, callerID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "", tree)
}

type updateReplyRequest struct {
	Content string `json:"content" binding:"required,min=1,max=10000"`
}

func (h *ReplyHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	replyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid input")
		return
	}

	reply, err := h.replies.GetByID(c.Request.Context(), replyID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if reply == nil {
		response.Err(c, http.StatusNotFound, "Reply not found")
		return
	}
	if reply.AuthorID != userID {
		response.Err(c, http.StatusForbidden, "Only the author can edit a reply")
		return
	}

	reply.Content = req.Content
	if err := h.replies.Update(c.Request.Context(), reply); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Reply updated", reply)
}

// Delete removes a reply and every descendant under it.
func (h *ReplyHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	replyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reply, err := h.replies.GetByID(c.Request.Context(), replyID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if reply == nil {
		response.Err(c, http.StatusNotFound, "Reply not found")
		return
	}

	discussion, ok := h.loadDiscussion(c, reply.DiscussionID, userID)
	if !ok {
		return
	}
	if reply.AuthorID != userID {
		project := h.guard.visibleProject(c, discussion.ProjectID, userID)
		if project == nil {
			return
		}
		role, ok := h.guard.roleOnProject(c, project, userID)
		if !ok {
			return
		}
		if !model.CanManageMembers(role) {
			response.Err(c, http.StatusForbidden, "Insufficient permissions to delete this reply")
			return
		}
	}

	if err := h.replies.DeleteSubtree(c.Request.Context(), reply.ID); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Reply deleted", nil)
}

func (h *ReplyHandler) Like(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	replyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reply, err := h.replies.GetByID(c.Request.Context(), replyID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if reply == nil {
		response.Err(c, http.StatusNotFound, "Reply not found")
		return
	}
	if _, ok := h.loadDiscussion(c, reply.DiscussionID, userID); !ok {
		return
	}

	if err := h.replies.Like(c.Request.Context(), reply.ID, userID); err != nil {
		if errors.Is(err, repository.ErrAlreadyLiked) {
			response.Err(c, http.StatusConflict, "Already liked")
			return
		}
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusCreated, "Liked", nil)
}

func (h *ReplyHandler) Unlike(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	replyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.replies.Unlike(c.Request.Context(), replyID, userID); err != nil {
		if errors.Is(err, repository.ErrLikeNotFound) {
			response.Err(c, http.StatusNotFound, "Like not found")
			return
		}
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Like removed", nil)
}

// loadDiscussion fetches a discussion gated by its project's visibility.
func (h *ReplyHandler) loadDiscussion(c *gin.Context, discussionID, callerID uuid.UUID) (*model.Discussion, bool) {
	discussion, err := h.discussions.GetByID(c.Request.Context(), discussionID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return nil, false
	}
	if discussion == nil {
		response.Err(c, http.StatusNotFound, "Discussion not found")
		return nil, false
	}
	if h.guard.visibleProject(c, discussion.ProjectID, callerID) == nil {
		return nil, false
	}
	return discussion, true
}
