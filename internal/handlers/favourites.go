package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/whatsthatbrick/whatsthatbrick/internal/services"
	"github.com/whatsthatbrick/whatsthatbrick/internal/utils"
)

type FavouriteHandler struct {
	favourites *services.FavouriteService
}

func NewFavouriteHandler(favourites *services.FavouriteService) *FavouriteHandler {
	return &FavouriteHandler{favourites: favourites}
}

func (h *FavouriteHandler) List(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bricks, err := h.favourites.List(actor.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]BrickResponse, 0, len(bricks))

	for _, brick := range bricks {
		response = append(response, brickResponse(brick))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *FavouriteHandler) Add(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	brickID, err := utils.GetIDParam(ctx, "brickId")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid brick ID"})
		return
	}

	if err := h.favourites.Add(actor.ID, brickID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Added to favourites"})
}

func (h *FavouriteHandler) Remove(ctx *gin.Context) {
	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	brickID, err := utils.GetIDParam(ctx, "brickId")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid brick ID"})
		return
	}

	if err := h.favourites.Remove(actor.ID, brickID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Removed from favourites"})
}
