package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/whatsthatbrick/whatsthatbrick/internal/models"
	"github.com/whatsthatbrick/whatsthatbrick/internal/services"
	"github.com/whatsthatbrick/whatsthatbrick/internal/utils"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

type NotificationResponse struct {
	ID        uint            `json:"id"`
	Type      string          `json:"type"`
	Message   string          `json:"message"`
	Read      bool            `json:"read"`
	Link      string          `json:"link,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type NotificationListResponse struct {
	Data        []NotificationResponse `json:"data"`
	Total       int64                  `json:"total"`
	UnreadCount int64                  `json:"unreadCount"`
	Page        int                    `json:"page"`
	Limit       int                    `json:"limit"`
	Pages       int                    `json:"pages"`
}

func (h *NotificationHandler) List(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	page, limit := utils.GetPagination(ctx)

	filters := services.NotificationFilters{Page: page, Limit: limit}

	if raw := ctx.Query("read"); raw != "" {
		read := raw == "true"
		filters.Read = &read
	}

	result, err := h.notifications.List(actor.ID, filters)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := NotificationListResponse{
		Data:        make([]NotificationResponse, 0, len(result.Data)),
		Total:       result.Total,
		UnreadCount: result.UnreadCount,
		Page:        result.Page,
		Limit:       result.Limit,
		Pages:       result.Pages,
	}

	for _, notification := range result.Data {
		response.Data = append(response.Data, notificationResponse(notification))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *NotificationHandler) MarkRead(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	notification, err := h.notifications.MarkRead(id, actor.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":      "Notification marked as read",
		"notification": notificationResponse(*notification),
	})
}

func (h *NotificationHandler) MarkAllRead(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.notifications.MarkAllRead(actor.ID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func (h *NotificationHandler) Delete(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	if err := h.notifications.Delete(id, actor.ID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

func notificationResponse(notification models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        notification.ID,
		Type:      notification.Type,
		Message:   notification.Message,
		Read:      notification.Read,
		Link:      notification.Link,
		Metadata:  rawJSON(notification.Metadata),
		CreatedAt: notification.CreatedAt,
	}
}
