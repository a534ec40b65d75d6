package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tijani-web/flowpitch-backend/internal/model"
	"github.com/tijani-web/flowpitch-backend/internal/repository"
	"github.com/tijani-web/flowpitch-backend/internal/response"
)

type CommentHandler struct {
	comments *repository.CommentRepository
	features *repository.FeatureRepository
	users    repository.UserRepositoryInterface
	activity *repository.ActivityRepository
	guard    *ProjectGuard
	notifier *Notifier
	log      *zap.Logger
}

func NewCommentHandler(
	comments *repository.CommentRepository,
	features *repository.FeatureRepository,
	users repository.UserRepositoryInterface,
	activity *repository.ActivityRepository,
	guard *ProjectGuard,
	notifier *Notifier,
	log *zap.Logger,
) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		features: features,
		users:    users,
		activity: activity,
		guard:    guard,
		notifier: notifier,
		log:      log,
	}
}

type createCommentRequest struct {
	Content  string     `json:"content" binding:"required,min=1,max=5000"`
	ParentID *uuid.UUID `json:"parentId"`
}

// Create godoc
// @Summary Comment on a feature
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feature id"
// @Param body body createCommentRequest true "Comment payload"
// @Success 201 {object} response.Envelope
// @Router /api/features/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	featureID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid input")
		return
	}

	feature, err := h.features.GetByID(c.Request.Context(), featureID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if feature == nil {
		response.Err(c, http.StatusNotFound, "Feature not found")
		return
	}
	project := h.guard.visibleProject(c, feature.ProjectID, userID)
	if project == nil {
		return
	}

	if req.ParentID != nil {
		parent, err := h.comments.GetByID(c.Request.Context(), *req.ParentID)
		if err != nil {
			response.HandleError(c, h.log, err)
			return
		}
		if parent == nil || parent.FeatureID != feature.ID {
			response.Err(c, http.StatusBadRequest, "Parent comment does not belong to this feature")
			return
		}
	}

	comment := &model.Comment{
		FeatureID: feature.ID,
		AuthorID:  userID,
		ParentID:  req.ParentID,
		Content:   req.Content,
	}
	if err := h.comments.Create(c.Request.Context(), comment); err != nil {
		response.HandleError(c, h.log, err)
		return
	}

	h.afterCommentCreated(c, project, comment)

	created, err := h.comments.GetByID(c.Request.Context(), comment.ID)
	if err != nil || created == nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusCreated, "Comment added", created)
}

// afterCommentCreated records activity and fans mention notifications out.
// All of it is best-effort.
func (h *CommentHandler) afterCommentCreated(c *gin.Context, project *model.Project, comment *model.Comment) {
	ctx := c.Request.Context()

	author, err := h.users.GetByID(ctx, comment.AuthorID)
	if err != nil || author == nil {
		h.log.Warn("comment author lookup failed", zap.Error(err))
		return
	}

	err = h.activity.Log(ctx, model.ActionCommentAdded, comment.AuthorID, project.ID, map[string]any{
		"commentId": comment.ID.String(),
		"featureId": comment.FeatureID.String(),
	})
	if err != nil {
		h.log.Warn("activity log failed", zap.Error(err))
	}

	for _, username := range ExtractMentions(comment.Content) {
		mentioned, err := h.users.FindByUsername(ctx, username)
		if err != nil {
			h.log.Warn("mention lookup failed", zap.String("username", username), zap.Error(err))
			continue
		}
		if mentioned == nil || mentioned.ID == comment.AuthorID {
			continue
		}
		h.notifier.Mention(ctx, mentioned.ID, author.Name, comment.ID)
		err = h.activity.Log(ctx, model.ActionUserMentioned, comment.AuthorID, project.ID, map[string]any{
			"mentionedUserId": mentioned.ID.String(),
			"commentId":       comment.ID.String(),
		})
		if err != nil {
			h.log.Warn("activity log failed", zap.Error(err))
		}
	}
}

// ListByFeature godoc
// @Summary Top-level comments with their replies
// @Tags comments
// @Produce json
// @Param id path string true "Feature id"
// @Success 200 {object} response.Envelope
// @Router /api/features/{id}/comments [get]
func (h *CommentHandler) ListByFeature(c *gin.Context) {
	featureID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	feature, err := h.features.GetByID(c.Request.Context(), featureID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if feature == nil {
		response.Err(c, http.StatusNotFound, "Feature not found")
		return
	}
	if h.guard.visibleProject(c, feature.ProjectID, optionalUserID(c)) == nil {
		return
	}

	comments, err := h.comments.ListByFeature(c.Request.Context(), feature.ID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "", comments)
}

type updateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

func (h *CommentHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, http.StatusBadRequest, "Invalid input")
		return
	}

	comment, err := h.comments.GetByID(c.Request.Context(), commentID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if comment == nil {
		response.Err(c, http.StatusNotFound, "Comment not found")
		return
	}
	if comment.AuthorID != userID {
		response.Err(c, http.StatusForbidden, "Only the author can edit a comment")
		return
	}

	comment.Content = req.Content
	if err := h.comments.Update(c.Request.Context(), comment); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Comment updated", comment)
}

// Delete removes a comment and its direct replies. The author may always
// delete their own; the project owner may moderate any.
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comment, err := h.comments.GetByID(c.Request.Context(), commentID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if comment == nil {
		response.Err(c, http.StatusNotFound, "Comment not found")
		return
	}

	if comment.AuthorID != userID {
		feature, err := h.features.GetByID(c.Request.Context(), comment.FeatureID)
		if err != nil || feature == nil {
			response.HandleError(c, h.log, err)
			return
		}
		project := h.guard.visibleProject(c, feature.ProjectID, userID)
		if project == nil {
			return
		}
		if project.OwnerID != userID {
			response.Err(c, http.StatusForbidden, "Insufficient permissions to delete this comment")
			return
		}
	}

	if err := h.comments.Delete(c.Request.Context(), comment.ID); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Comment deleted", nil)
}
