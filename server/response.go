package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/ntfywatch/errors"
)

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError inspects err: if it is an *apperrors.AppError the status and
// structured body are derived from it; otherwise a generic 500 is sent.
func RespondWithError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, apperrors.Internal(err).ToResponse())
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}
