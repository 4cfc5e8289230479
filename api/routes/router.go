package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/controllers"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/middleware"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/config"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	sessions controllers.SessionManager,
	locations controllers.LocationsService,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, logg))

		r.Get("/locations", controllers.Locations(locations, logg))

		r.Route("/checkout/sessions", func(r chi.Router) {
			r.Post("/", controllers.CreateCheckoutSession(sessions, logg))
			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", controllers.GetCheckoutSession(sessions, logg))
				r.Post("/advance", controllers.AdvanceStep(sessions, logg))
				r.Post("/retreat", controllers.RetreatStep(sessions, logg))
				r.Put("/cart", controllers.UpdateCart(sessions, logg))
				r.Put("/address", controllers.SelectAddress(sessions, logg))
				r.Put("/guest-address", controllers.SetGuestAddress(sessions, logg))
				r.Post("/addresses", controllers.AddAddress(sessions, logg))
				r.Put("/addresses/primary", controllers.SetPrimaryAddress(sessions, logg))
				r.Put("/destination", controllers.SetDestination(sessions, logg))
				r.Put("/shipping", controllers.SelectShipping(sessions, logg))
				r.Post("/discount", controllers.ApplyDiscount(sessions, logg))
				r.Delete("/discount", controllers.RemoveDiscount(sessions, logg))
				r.Put("/payment", controllers.SetPayment(sessions, logg))
				r.Post("/payment/voucher", controllers.AttachVoucher(sessions, logg))
				r.Post("/submit", controllers.SubmitOrder(sessions, logg))
				r.Post("/retry", controllers.RetryCheckout(sessions, logg))
			})
		})
	})

	return r
}
