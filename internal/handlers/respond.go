package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/whatsthatbrick/whatsthatbrick/internal/apperr"
)

// respondError maps a taxonomy error to its HTTP status. Internal failures
// are logged with full detail and answered without it.
func respondError(ctx *gin.Context, err error) {
	var appErr *apperr.Error

	if !errors.As(err, &appErr) {
		appErr = apperr.Internal(err)
	}

	var status int

	switch appErr.Kind {
	case apperr.KindValidation, apperr.KindInvalidState:
		status = http.StatusBadRequest
	case apperr.KindUnauthenticated:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		log.Printf("%s %s failed: %v", ctx.Request.Method, ctx.FullPath(), err)
	}

	ctx.JSON(status, gin.H{"error": appErr.Message})
}
