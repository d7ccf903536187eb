package api

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/BrekotkinaKarina/coffee-track/config"
)

func ConfigureRouter(cfg *config.Config, orderSvc OrderService, invSvc InventoryService) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(Metrics)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(Logging)

	// Readiness is tied to the ledger store: an order cannot be
	// accepted without it.
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := invSvc.Ping(r.Context()); err != nil {
			log.Err(err).Msg("health check failed")
			Render(w, r, ErrUnavailable(err))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("UP"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/env", NewEnvApi(cfg).ConfigureRouter)
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/order", NewOrderApi(orderSvc).ConfigureRouter)
		r.Route("/inventory", NewInventoryApi(invSvc).ConfigureRouter)
	})

	return r
}
