// README: Simulated drone tracking handlers.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"medidrop/internal/modules/tracking"
	"medidrop/internal/types"
)

type TrackingService interface {
	Start(ctx context.Context, cmd tracking.StartCommand) (tracking.StartResult, error)
	LiveLocation(ctx context.Context, droneID types.ID) (tracking.Position, error)
}

type TrackingHandler struct {
	tracking TrackingService
}

func NewTrackingHandler(svc TrackingService) *TrackingHandler {
	return &TrackingHandler{tracking: svc}
}

type startDeliveryReq struct {
	DroneID   string   `json:"drone_id"`
	SourceLat *float64 `json:"source_lat"`
	SourceLon *float64 `json:"source_lon"`
	DestLat   *float64 `json:"dest_lat"`
	DestLon   *float64 `json:"dest_lon"`
	SpeedKmph float64  `json:"speed_kmph"`
}

func (h *TrackingHandler) Start(c *gin.Context) {
	var req startDeliveryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SourceLat == nil || req.SourceLon == nil || req.DestLat == nil || req.DestLon == nil {
		writeError(c, http.StatusBadRequest, "missing coordinates")
		return
	}
	res, err := h.tracking.Start(c.Request.Context(), tracking.StartCommand{
		DroneID:     types.ID(req.DroneID),
		Source:      types.Point{Lat: *req.SourceLat, Lng: *req.SourceLon},
		Destination: types.Point{Lat: *req.DestLat, Lng: *req.DestLon},
		SpeedKmph:   req.SpeedKmph,
	})
	if err != nil {
		writeTrackingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

func (h *TrackingHandler) LiveLocation(c *gin.Context) {
	pos, err := h.tracking.LiveLocation(c.Request.Context(), types.ID(c.Param("drone_id")))
	if err != nil {
		writeTrackingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, pos)
}
