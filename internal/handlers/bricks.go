package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/whatsthatbrick/whatsthatbrick/internal/models"
	"github.com/whatsthatbrick/whatsthatbrick/internal/services"
	"github.com/whatsthatbrick/whatsthatbrick/internal/types"
	"github.com/whatsthatbrick/whatsthatbrick/internal/utils"
)

type BrickHandler struct {
	catalog *services.CatalogService
}

func NewBrickHandler(catalog *services.CatalogService) *BrickHandler {
	return &BrickHandler{catalog: catalog}
}

type BrickPayload struct {
	PartCode       string                `json:"part_code"`
	Name           string                `json:"name" binding:"required"`
	Category       string                `json:"category"`
	ColorVariants  []types.ColorVariant  `json:"color_variants"`
	ImageURLs      []string              `json:"image_urls"`
	Description    string                `json:"description" binding:"max=2000"`
	SetAppearances []types.SetAppearance `json:"set_appearances"`
	Dimensions     *types.Dimensions     `json:"dimensions"`
	Status         string                `json:"status"`
}

// UpdateBrickPayload uses pointers so absent fields are left untouched.
// Fields outside this set are dropped at the boundary.
type UpdateBrickPayload struct {
	PartCode       *string                `json:"part_code"`
	Name           *string                `json:"name"`
	Category       *string                `json:"category"`
	ColorVariants  *[]types.ColorVariant  `json:"color_variants"`
	ImageURLs      *[]string              `json:"image_urls"`
	Description    *string                `json:"description" binding:"omitempty,max=2000"`
	SetAppearances *[]types.SetAppearance `json:"set_appearances"`
	Dimensions     *types.Dimensions      `json:"dimensions"`
}

type BrickResponse struct {
	ID             uint                `json:"id"`
	PartCode       *string             `json:"part_code,omitempty"`
	Name           string              `json:"name"`
	Category       string              `json:"category,omitempty"`
	ColorVariants  json.RawMessage     `json:"color_variants,omitempty"`
	ImageURLs      json.RawMessage     `json:"image_urls,omitempty"`
	Description    string              `json:"description,omitempty"`
	SetAppearances json.RawMessage     `json:"set_appearances,omitempty"`
	Dimensions     json.RawMessage     `json:"dimensions,omitempty"`
	Status         string              `json:"status"`
	Views          int64               `json:"views"`
	CreatedBy      *types.UserResponse `json:"created_by,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type BrickListResponse struct {
	Data  []BrickResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Pages int             `json:"pages"`
}

func (h *BrickHandler) Create(ctx *gin.Context) {
	var body BrickPayload

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Brick name is required"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	brick, err := h.catalog.Create(actor, services.BrickInput{
		PartCode:       body.PartCode,
		Name:           body.Name,
		Category:       body.Category,
		ColorVariants:  body.ColorVariants,
		ImageURLs:      body.ImageURLs,
		Description:    body.Description,
		SetAppearances: body.SetAppearances,
		Dimensions:     body.Dimensions,
		Status:         body.Status,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	message := "Brick created successfully"

	if brick.Status == types.BrickStatusPending {
		message = "Brick submitted for review"
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": message,
		"brick":   brickResponse(*brick),
	})
}

func (h *BrickHandler) Get(ctx *gin.Context) {
	id, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid brick ID"})
		return
	}

	brick, err := h.catalog.Get(id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, brickResponse(*brick))
}

func (h *BrickHandler) Update(ctx *gin.Context) {
	id, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid brick ID"})
		return
	}

	var body UpdateBrickPayload

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	brick, err := h.catalog.Update(id, actor, services.BrickUpdate{
		PartCode:       body.PartCode,
		Name:           body.Name,
		Category:       body.Category,
		ColorVariants:  body.ColorVariants,
		ImageURLs:      body.ImageURLs,
		Description:    body.Description,
		SetAppearances: body.SetAppearances,
		Dimensions:     body.Dimensions,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Brick updated successfully",
		"brick":   brickResponse(*brick),
	})
}

func (h *BrickHandler) Delete(ctx *gin.Context) {
	id, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid brick ID"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.catalog.Delete(id, actor); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Brick deleted successfully"})
}

func (h *BrickHandler) List(ctx *gin.Context) {
	page, limit := utils.GetPagination(ctx)

	filters := services.BrickFilters{
		Query:    ctx.Query("q"),
		Category: ctx.Query("category"),
		Color:    ctx.Query("color"),
		Status:   ctx.Query("status"),
		DateFrom: parseDate(ctx.Query("date_from")),
		DateTo:   parseDate(ctx.Query("date_to")),
		Page:     page,
		Limit:    limit,
	}

	result, err := h.catalog.List(utils.GetOptionalUser(ctx), filters)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := BrickListResponse{
		Data:  make([]BrickResponse, 0, len(result.Data)),
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
		Pages: result.Pages,
	}

	for _, brick := range result.Data {
		response.Data = append(response.Data, brickResponse(brick))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *BrickHandler) Categories(ctx *gin.Context) {
	categories, err := h.catalog.Categories()

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, categories)
}

func brickResponse(brick models.Brick) BrickResponse {
	response := BrickResponse{
		ID:             brick.ID,
		PartCode:       brick.PartCode,
		Name:           brick.Name,
		Category:       brick.Category,
		ColorVariants:  rawJSON(brick.ColorVariants),
		ImageURLs:      rawJSON(brick.ImageURLs),
		Description:    brick.Description,
		SetAppearances: rawJSON(brick.SetAppearances),
		Dimensions:     rawJSON(brick.Dimensions),
		Status:         brick.Status,
		Views:          brick.Views,
		CreatedAt:      brick.CreatedAt,
		UpdatedAt:      brick.UpdatedAt,
	}

	if brick.CreatedBy != nil {
		creator := userResponse(*brick.CreatedBy)
		response.CreatedBy = &creator
	}

	return response
}

func rawJSON(value []byte) json.RawMessage {
	if len(value) == 0 {
		return nil
	}

	return json.RawMessage(value)
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed
		}
	}

	return nil
}
