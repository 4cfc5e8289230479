package controllers

import (
	"net/http"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/responses"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/validators"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/logger"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
)

type selectAddressRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}

// SelectAddress picks a saved address from the authenticated address book.
func SelectAddress(mgr SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload selectAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.SelectAddress(r.Context(), *payload.Index); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Snapshot())
	}
}

type guestAddressRequest struct {
	MainStreet  string `json:"main_street" validate:"required,max=200"`
	HouseNumber string `json:"house_number" validate:"required,max=30"`
	PostalCode  string `json:"postal_code,omitempty" validate:"omitempty,max=20"`
	Phone       string `json:"phone" validate:"required,max=20"`
	Name        string `json:"name,omitempty" validate:"omitempty,max=120"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
}

// SetGuestAddress fills the guest address form and contact details. The
// destination (province, canton, parish) is set separately.
func SetGuestAddress(mgr SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload guestAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.SetGuestAddress(r.Context(), types.Address{
			MainStreet:  payload.MainStreet,
			HouseNumber: payload.HouseNumber,
			PostalCode:  payload.PostalCode,
			Phone:       payload.Phone,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Name != "" || payload.Email != "" {
			if err := session.SetGuestContact(r.Context(), payload.Name, payload.Email); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, session.Snapshot())
	}
}

type addAddressRequest struct {
	Province    string `json:"province" validate:"required,max=80"`
	Canton      string `json:"canton" validate:"required,max=80"`
	Parish      string `json:"parish" validate:"required,max=80"`
	MainStreet  string `json:"main_street" validate:"required,max=200"`
	HouseNumber string `json:"house_number" validate:"required,max=30"`
	PostalCode  string `json:"postal_code,omitempty" validate:"omitempty,max=20"`
	Phone       string `json:"phone" validate:"required,max=20"`
}

// AddAddress stores a new entry in the authenticated address book and selects
// it for this checkout.
func AddAddress(mgr SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.AddAddress(r.Context(), types.Address{
			Province:    payload.Province,
			Canton:      payload.Canton,
			Parish:      payload.Parish,
			MainStreet:  payload.MainStreet,
			HouseNumber: payload.HouseNumber,
			PostalCode:  payload.PostalCode,
			Phone:       payload.Phone,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session.Snapshot())
	}
}

// SetPrimaryAddress marks one saved address as the account default.
func SetPrimaryAddress(mgr SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload selectAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.SetPrimaryAddress(r.Context(), *payload.Index); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Snapshot())
	}
}
