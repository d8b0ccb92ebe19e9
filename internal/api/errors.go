package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/pageza/recipeverse/backend/pkg/errors"
)

// respondError renders err as {"error", "code"}. Errors that are not
// AppErrors are logged and hidden behind a generic 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	if appErr, ok := apperrors.As(err); ok {
		status := appErr.StatusCode()
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("path", c.FullPath()),
				zap.String("code", string(appErr.Code)),
				zap.Error(err))
		}
		body := gin.H{"error": appErr.Message, "code": appErr.Code}
		if appErr.Details != "" {
			body["details"] = appErr.Details
		}
		c.JSON(status, body)
		return
	}

	log.Error("unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "code": apperrors.CodeInternal})
}
