package controllers

import (
	"net/http"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/responses"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/validators"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/logger"
)

type applyDiscountRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

// ApplyDiscount validates a promo code against the current cart and records
// the application on the session.
func ApplyDiscount(mgr SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload applyDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.ApplyDiscount(r.Context(), payload.Code); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Snapshot())
	}
}

// RemoveDiscount drops the applied promo code.
func RemoveDiscount(mgr SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session.RemoveDiscount(r.Context())
		responses.WriteSuccess(w, session.Snapshot())
	}
}
