package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/whatsthatbrick/whatsthatbrick/internal/models"
	"github.com/whatsthatbrick/whatsthatbrick/internal/services"
	"github.com/whatsthatbrick/whatsthatbrick/internal/types"
	"github.com/whatsthatbrick/whatsthatbrick/internal/utils"
)

type RequestHandler struct {
	requests *services.RequestService
}

func NewRequestHandler(requests *services.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

type RequestPayload struct {
	PartCode      string               `json:"part_code"`
	Name          string               `json:"name" binding:"required"`
	Category      string               `json:"category"`
	ColorVariants []types.ColorVariant `json:"color_variants"`
	ImageURLs     []string             `json:"image_urls"`
	Description   string               `json:"description" binding:"max=2000"`
}

type DecisionPayload struct {
	Status       string `json:"status" binding:"required"`
	AdminComment string `json:"admin_comment"`
}

type RequestResponse struct {
	ID            uint                `json:"id"`
	PartCode      *string             `json:"part_code,omitempty"`
	Name          string              `json:"name"`
	Category      string              `json:"category,omitempty"`
	ColorVariants json.RawMessage     `json:"color_variants,omitempty"`
	ImageURLs     json.RawMessage     `json:"image_urls,omitempty"`
	Description   string              `json:"description,omitempty"`
	Status        string              `json:"status"`
	AdminComment  string              `json:"admin_comment,omitempty"`
	DateHandled   *time.Time          `json:"date_handled,omitempty"`
	User          *types.UserResponse `json:"user,omitempty"`
	ReviewedBy    *types.UserResponse `json:"reviewed_by,omitempty"`
	CreatedAt     time.Time           `json:"date_submitted"`
}

type RequestListResponse struct {
	Data  []RequestResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Pages int               `json:"pages"`
}

func (h *RequestHandler) Submit(ctx *gin.Context) {
	var body RequestPayload

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Request must have a name"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	request, err := h.requests.Submit(actor, services.RequestInput{
		PartCode:      body.PartCode,
		Name:          body.Name,
		Category:      body.Category,
		ColorVariants: body.ColorVariants,
		ImageURLs:     body.ImageURLs,
		Description:   body.Description,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "New part request submitted successfully",
		"request": requestResponse(*request),
	})
}

func (h *RequestHandler) List(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	page, limit := utils.GetPagination(ctx)

	userID, _ := strconv.ParseUint(ctx.Query("user_id"), 10, 32)

	result, err := h.requests.List(actor, services.RequestFilters{
		Status: ctx.Query("status"),
		UserID: uint(userID),
		Query:  ctx.Query("q"),
		Page:   page,
		Limit:  limit,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := RequestListResponse{
		Data:  make([]RequestResponse, 0, len(result.Data)),
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
		Pages: result.Pages,
	}

	for _, request := range result.Data {
		response.Data = append(response.Data, requestResponse(request))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *RequestHandler) Get(ctx *gin.Context) {
	id, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	request, err := h.requests.Get(id, actor)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, requestResponse(*request))
}

// Handle applies an admin decision and, when the submitter has a live
// websocket, pushes the outcome notification immediately.
func (h *RequestHandler) Handle(ctx *gin.Context) {
	id, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var body DecisionPayload

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": `Status must be either "approved" or "rejected"`})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	result, err := h.requests.Handle(id, actor, services.RequestDecision{
		Status:       body.Status,
		AdminComment: body.AdminComment,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	if result.Notification != nil {
		NotifyUser(result.Notification.UserID, notificationResponse(*result.Notification))
	}

	if result.Brick != nil {
		ctx.JSON(http.StatusOK, gin.H{
			"message": "Request approved and brick created",
			"brick":   brickResponse(*result.Brick),
			"request": requestResponse(*result.Request),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Request rejected",
		"request": requestResponse(*result.Request),
	})
}

func (h *RequestHandler) Delete(ctx *gin.Context) {
	id, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	if err := h.requests.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Request deleted successfully"})
}

func requestResponse(request models.NewPartRequest) RequestResponse {
	response := RequestResponse{
		ID:            request.ID,
		PartCode:      request.PartCode,
		Name:          request.Name,
		Category:      request.Category,
		ColorVariants: rawJSON(request.ColorVariants),
		ImageURLs:     rawJSON(request.ImageURLs),
		Description:   request.Description,
		Status:        request.Status,
		AdminComment:  request.AdminComment,
		DateHandled:   request.DateHandled,
		CreatedAt:     request.CreatedAt,
	}

	if request.User.ID != 0 {
		submitter := userResponse(request.User)
		response.User = &submitter
	}

	if request.ReviewedBy != nil {
		reviewer := userResponse(*request.ReviewedBy)
		response.ReviewedBy = &reviewer
	}

	return response
}
