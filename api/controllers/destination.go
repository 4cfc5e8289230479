package controllers

import (
	"net/http"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/responses"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/validators"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/logger"
)

type destinationRequest struct {
	Province string `json:"province" validate:"required,max=80"`
	Canton   string `json:"canton,omitempty" validate:"omitempty,max=80"`
	Parish   string `json:"parish,omitempty" validate:"omitempty,max=80"`
}

// SetDestination updates the delivery destination. A province change triggers
// a shipping re-resolution; if several changes race, the last one wins.
func SetDestination(mgr SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload destinationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.SetDestination(r.Context(), payload.Province, payload.Canton, payload.Parish); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Snapshot())
	}
}
