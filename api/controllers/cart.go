package controllers

import (
	"net/http"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/responses"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/validators"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/logger"
)

type updateCartRequest struct {
	Lines []lineRequest `json:"lines" validate:"omitempty,dive"`
}

// UpdateCart replaces the session's cart snapshot with the storefront's
// current one.
func UpdateCart(mgr SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session.UpdateCart(r.Context(), toCartLines(payload.Lines))
		responses.WriteSuccess(w, session.Snapshot())
	}
}
