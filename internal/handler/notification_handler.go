package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tijani-web/flowpitch-backend/internal/repository"
	"github.com/tijani-web/flowpitch-backend/internal/response"
)

type NotificationHandler struct {
	notifications *repository.NotificationRepository
	log           *zap.Logger
}

func NewNotificationHandler(notifications *repository.NotificationRepository, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, log: log}
}

// List godoc
// @Summary Caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, 1-based"
// @Param limit query int false "Page size"
// @Param unreadOnly query bool false "Only unread"
// @Success 200 {object} response.Envelope
// @Router /api/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)
	unreadOnly := c.Query("unreadOnly") == "true"

	items, err := h.notifications.ListByUser(c.Request.Context(), userID, page, limit, unreadOnly)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	total, err := h.notifications.CountByUser(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	unread, err := h.notifications.CountUnread(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}

	response.OK(c, http.StatusOK, "", gin.H{
		"notifications": items,
		"unreadCount":   unread,
		"pagination":    newPagination(page, limit, total),
	})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	n, err := h.notifications.GetByID(c.Request.Context(), notificationID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if n == nil || n.UserID != userID {
		response.Err(c, http.StatusNotFound, "Notification not found")
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), n.ID); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Notification marked as read", nil)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.notifications.MarkAllRead(c.Request.Context(), userID); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "All notifications marked as read", nil)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	n, err := h.notifications.GetByID(c.Request.Context(), notificationID)
	if err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	if n == nil || n.UserID != userID {
		response.Err(c, http.StatusNotFound, "Notification not found")
		return
	}

	if err := h.notifications.Delete(c.Request.Context(), n.ID); err != nil {
		response.HandleError(c, h.log, err)
		return
	}
	response.OK(c, http.StatusOK, "Notification deleted", nil)
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
