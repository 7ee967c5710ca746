package handlers

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/whatsthatbrick/whatsthatbrick/internal/storage"
)

const maxUploadSize = 5 << 20 // 5 MB

type UploadHandler struct {
	store storage.ObjectStore
}

func NewUploadHandler(store storage.ObjectStore) *UploadHandler {
	return &UploadHandler{store: store}
}

// Upload accepts one multipart image, enforces the size ceiling and the
// image/* allow-list, and answers with the stored object's public URL.
func (h *UploadHandler) Upload(ctx *gin.Context) {
	if h.store == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image uploads are not configured"})
		return
	}

	file, err := ctx.FormFile("image")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
		return
	}

	if file.Size > maxUploadSize {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Image must be 5MB or smaller"})
		return
	}

	contentType := file.Header.Get("Content-Type")

	if !strings.HasPrefix(contentType, "image/") {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Only images allowed"})
		return
	}

	reader, err := file.Open()

	if err != nil {
		log.Printf("Failed to open uploaded file: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer reader.Close()

	key := fmt.Sprintf("bricks/%d%s", time.Now().UnixNano(), strings.ToLower(filepath.Ext(file.Filename)))

	url, err := h.store.Put(ctx.Request.Context(), key, reader, file.Size, contentType)

	if err != nil {
		log.Printf("Failed to store uploaded image: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"url": url})
}
