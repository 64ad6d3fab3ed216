// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medidrop/internal/http/handlers"
	"medidrop/internal/http/middleware"
)

func NewRouter(deliverySvc handlers.DeliveryService, trackingSvc handlers.TrackingService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(), middleware.Recovery())

	deliveryHandler := handlers.NewDeliveryHandler(deliverySvc)
	r.POST("/delivery", deliveryHandler.Create)
	r.GET("/deliveries", deliveryHandler.List)
	r.GET("/deliveries/:id", deliveryHandler.Get)
	r.POST("/deliveries/:id/status", deliveryHandler.UpdateStatus)

	trackingHandler := handlers.NewTrackingHandler(trackingSvc)
	r.POST("/start_delivery", trackingHandler.Start)
	r.GET("/live_location/:drone_id", trackingHandler.LiveLocation)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	return r
}
