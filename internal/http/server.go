// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"

	"medidrop/internal/http/handlers"
)

type ServerDeps struct {
	Delivery handlers.DeliveryService
	Tracking handlers.TrackingService
}

type Server struct {
	delivery handlers.DeliveryService
	tracking handlers.TrackingService
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		delivery: deps.Delivery,
		tracking: deps.Tracking,
	}
}

// Routes returns the gin router behind an allow-all CORS policy.
func (s *Server) Routes() http.Handler {
	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins([]string{"*"}),
		gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Request-ID"}),
		gorillahandlers.ExposedHeaders([]string{"X-Request-ID"}),
	)
	return cors(NewRouter(s.delivery, s.tracking))
}
