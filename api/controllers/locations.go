package controllers

import (
	"context"
	"net/http"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/responses"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/logger"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
)

// LocationsService serves the province/canton/parish catalogue.
type LocationsService interface {
	GetLocations(ctx context.Context) ([]types.Province, error)
}

// Locations returns the full destination catalogue for address forms.
func Locations(svc LocationsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provinces, err := svc.GetLocations(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, provinces)
	}
}
