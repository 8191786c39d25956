package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/services"
)

// EngagementHandler serves the per-user bookmarks, notifications and progress.
type EngagementHandler struct {
	bookmarks     services.BookmarkService
	notifications services.NotificationService
	progress      services.ProgressService
}

func NewEngagementHandler(
	bookmarks services.BookmarkService,
	notifications services.NotificationService,
	progress services.ProgressService,
) *EngagementHandler {
	return &EngagementHandler{bookmarks: bookmarks, notifications: notifications, progress: progress}
}

// GET /bookmarks/
func (eh *EngagementHandler) ListBookmarks(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	out, err := eh.bookmarks.List(dbc(c), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"bookmarks": out})
}

// POST /bookmarks/
// body: { "resource": "<uuid>" } or { "quiz": "<uuid>" }
func (eh *EngagementHandler) CreateBookmark(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req services.BookmarkInput
	if !bindJSON(c, &req) {
		return
	}
	b, err := eh.bookmarks.Create(dbc(c), userID, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"bookmark": b})
}

// GET /bookmarks/:id/
func (eh *EngagementHandler) GetBookmark(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := eh.bookmarks.Get(dbc(c), userID, id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"bookmark": b})
}

// DELETE /bookmarks/:id/
func (eh *EngagementHandler) DeleteBookmark(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := eh.bookmarks.Delete(dbc(c), userID, id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /notifications/?unread=true
func (eh *EngagementHandler) ListNotifications(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	out, err := eh.notifications.List(dbc(c), userID, queryBool(c, "unread"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"notifications": out})
}

// POST /notifications/
func (eh *EngagementHandler) CreateNotification(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req services.NotificationInput
	if !bindJSON(c, &req) {
		return
	}
	n, err := eh.notifications.Create(dbc(c), userID, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"notification": n})
}

// GET /notifications/:id/
func (eh *EngagementHandler) GetNotification(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	n, err := eh.notifications.Get(dbc(c), userID, id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"notification": n})
}

// POST /notifications/:id/mark_read/
func (eh *EngagementHandler) MarkNotificationRead(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := eh.notifications.MarkRead(dbc(c), userID, id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"status": "ok"})
}

// DELETE /notifications/:id/
func (eh *EngagementHandler) DeleteNotification(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := eh.notifications.Delete(dbc(c), userID, id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /progress/
func (eh *EngagementHandler) ListProgress(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	out, err := eh.progress.List(dbc(c), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": out})
}

// GET /progress/:id/
func (eh *EngagementHandler) GetProgress(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := eh.progress.Get(dbc(c), userID, id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": p})
}

// POST /progress/mark_complete/
// body: { "topic": "<uuid>" }
func (eh *EngagementHandler) MarkTopicComplete(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req struct {
		TopicID *uuid.UUID `json:"topic"`
	}
	if !bindJSON(c, &req) {
		return
	}
	p, err := eh.progress.MarkComplete(dbc(c), userID, req.TopicID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": p})
}

// DELETE /progress/:id/
func (eh *EngagementHandler) DeleteProgress(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := eh.progress.Delete(dbc(c), userID, id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}
