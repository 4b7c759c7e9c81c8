package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/coreybb/checkin/webhooks"
	"github.com/coreybb/checkin/webutil"
)

const (
	apiBasePath     = "/api"
	whatsAppSubPath = "/whatsapp"
	healthCheckPath = "/healthz"
	requestTimeout  = 30 * time.Second
)

func SetupRoutes(whatsAppHandler *webhooks.WhatsAppHandler) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(RequestID)
	r.Use(RealIP)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Route(apiBasePath, func(r chi.Router) {
		// Every method reaches the handler: GET serves liveness and diagnostics.
		r.HandleFunc(whatsAppSubPath, webutil.MakeHandler(whatsAppHandler.HandleWebhook))
	})

	r.Get(healthCheckPath, handleHealthCheck)

	return r
}

// handleHealthCheck responds to a health check request.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	webutil.RespondWithText(w, http.StatusOK, "OK")
}
