// README: Delivery handlers for create/list/get/status.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"medidrop/internal/modules/delivery"
	"medidrop/internal/types"
)

type DeliveryService interface {
	Create(ctx context.Context, cmd delivery.CreateCommand) (*delivery.Delivery, error)
	List(ctx context.Context) ([]delivery.Delivery, error)
	Get(ctx context.Context, id types.ID) (*delivery.Delivery, error)
	UpdateStatus(ctx context.Context, cmd delivery.UpdateStatusCommand) (*delivery.Delivery, error)
}

type DeliveryHandler struct {
	delivery DeliveryService
}

func NewDeliveryHandler(svc DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{delivery: svc}
}

type createDeliveryReq struct {
	RequestText string `json:"request_text"`
	Area        string `json:"area"`
}

func (h *DeliveryHandler) Create(c *gin.Context) {
	var req createDeliveryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	d, err := h.delivery.Create(c.Request.Context(), delivery.CreateCommand{
		RequestText: req.RequestText,
		Area:        req.Area,
	})
	if err != nil {
		writeDeliveryError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"message": "Delivery created successfully", "data": d})
}

func (h *DeliveryHandler) List(c *gin.Context) {
	list, err := h.delivery.List(c.Request.Context())
	if err != nil {
		writeDeliveryError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, list)
}

func (h *DeliveryHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing delivery id")
		return
	}
	d, err := h.delivery.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeDeliveryError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *DeliveryHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	status, ok := delivery.ParseStatus(req.Status)
	if !ok {
		writeError(c, http.StatusBadRequest, "unknown status")
		return
	}
	d, err := h.delivery.UpdateStatus(c.Request.Context(), delivery.UpdateStatusCommand{
		ID:     types.ID(c.Param("id")),
		Status: status,
	})
	if err != nil {
		writeDeliveryError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}
