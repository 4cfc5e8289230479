package controllers

import (
	"net/http"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/responses"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/validators"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/logger"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
)

type paymentRequest struct {
	Method string       `json:"method" validate:"required,oneof=card bank-transfer wallet-credits"`
	Card   *cardRequest `json:"card,omitempty" validate:"omitempty"`
}

type cardRequest struct {
	Number string `json:"number" validate:"required,max=25"`
	Expiry string `json:"expiry" validate:"required,max=7"`
	CVC    string `json:"cvc" validate:"required,max=4"`
}

// SetPayment replaces the payment selection. Validity is recomputed and
// returned in the snapshot; an invalid selection is stored, not rejected.
func SetPayment(mgr SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		selection := types.PaymentSelection{Method: types.PaymentMethod(payload.Method)}
		if payload.Card != nil {
			selection.Card = &types.CardDetails{
				Number: payload.Card.Number,
				Expiry: payload.Card.Expiry,
				CVC:    payload.Card.CVC,
			}
		}

		if err := session.SetPayment(r.Context(), selection); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Snapshot())
	}
}

type voucherRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Size int64  `json:"size,omitempty" validate:"omitempty,gte=0"`
}

// AttachVoucher records the bank-transfer receipt metadata.
func AttachVoucher(mgr SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload voucherRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.AttachVoucher(r.Context(), types.VoucherFile{
			Name: payload.Name,
			Size: payload.Size,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Snapshot())
	}
}
