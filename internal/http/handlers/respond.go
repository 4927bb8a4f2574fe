package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shrustiadlak/digital-dear-diary/internal/domain/entry"
)

// APIResponse is the envelope every JSON endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Entry   *entry.View `json:"entry,omitempty"`
}

func RespondSuccess(ctx *gin.Context, message string, e *entry.View) {
	ctx.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Entry:   e,
	})
}

// RespondFailure covers the recoverable request errors. Most of them answer
// 200 with success=false; only missing resources and auth failures carry a
// non-2xx status.
func RespondFailure(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, APIResponse{
		Success: false,
		Message: message,
	})
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondFailure(ctx, http.StatusInternalServerError, message)
}
