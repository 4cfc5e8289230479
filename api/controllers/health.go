package controllers

import (
	"net/http"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/responses"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/config"
)

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}
