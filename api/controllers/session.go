package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/middleware"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/responses"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/api/validators"
	checkoutsvc "github.com/Ecommerce-ESPE/EcommerceApp-sub001/internal/checkout"
	pkgerrors "github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/errors"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/logger"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
)

// SessionManager is the slice of the checkout manager the controllers use.
type SessionManager interface {
	CreateSession(ctx context.Context, identity *types.Identity, token string, lines []types.CartLine, draftKey string) (*checkoutsvc.Session, error)
	Get(id string) (*checkoutsvc.Session, error)
}

type createSessionRequest struct {
	Lines    []lineRequest `json:"lines" validate:"omitempty,dive"`
	DraftKey string        `json:"draft_key,omitempty" validate:"omitempty,max=128"`
}

type lineRequest struct {
	LineID    string  `json:"line_id,omitempty"`
	ProductID string  `json:"product_id,omitempty"`
	VariantID string  `json:"variant_id,omitempty"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"min=1"`
}

func (l lineRequest) toCartLine() types.CartLine {
	return types.CartLine{
		LineID:    l.LineID,
		ProductID: l.ProductID,
		VariantID: l.VariantID,
		Name:      l.Name,
		Price:     l.Price,
		Quantity:  l.Quantity,
	}
}

func toCartLines(lines []lineRequest) []types.CartLine {
	out := make([]types.CartLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.toCartLine())
	}
	return out
}

// CreateCheckoutSession opens a new wizard for the caller's cart. The session
// hydrates from a saved draft keyed by the customer id, or by draft_key for
// guests.
func CreateCheckoutSession(mgr SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		identity := middleware.IdentityFromContext(r.Context())
		token := middleware.TokenFromContext(r.Context())

		session, err := mgr.CreateSession(r.Context(), identity, token, toCartLines(payload.Lines), payload.DraftKey)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, session.Snapshot())
	}
}

// GetCheckoutSession returns the current snapshot.
func GetCheckoutSession(mgr SessionManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionFromRequest(mgr, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session.Snapshot())
	}
}

func sessionFromRequest(mgr SessionManager, r *http.Request) (*checkoutsvc.Session, error) {
	id := chi.URLParam(r, "sessionId")
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return mgr.Get(id)
}
