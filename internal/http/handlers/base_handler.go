// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"medidrop/internal/modules/delivery"
	"medidrop/internal/modules/tracking"
	"medidrop/internal/obs"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeInternal(c *gin.Context, err error) {
	_ = c.Error(err)
	log.WithFields(log.Fields{"req_id": obs.RequestID(c.Request.Context())}).WithError(err).Error("unhandled error")
	writeError(c, http.StatusInternalServerError, "internal error")
}

func writeDeliveryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, delivery.ErrAreaNotFound):
		writeError(c, http.StatusBadRequest, delivery.ErrAreaNotFound.Error())
	case errors.Is(err, delivery.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, delivery.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, delivery.ErrInvalidState), errors.Is(err, delivery.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeInternal(c, err)
	}
}

func writeTrackingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tracking.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, tracking.ErrNotFound):
		writeError(c, http.StatusNotFound, "drone not found")
	default:
		writeInternal(c, err)
	}
}
