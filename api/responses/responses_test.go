package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/errors"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope types.SuccessEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotNil(t, envelope.Data)
}

func TestWriteErrorSurfacesTypedMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "cart is empty").
		WithDetails(map[string]any{"step": 1})
	WriteError(context.Background(), nil, rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
	assert.Equal(t, "cart is empty", envelope.Error.Message)
	assert.NotNil(t, envelope.Error.Details)
}

func TestWriteErrorHidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("database password wrong"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	envelope := decodeError(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", envelope.Error.Code)
	assert.NotContains(t, envelope.Error.Message, "password")
}

func TestWriteErrorCarriesSuggestion(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodePaymentDeclined, "the card has insufficient funds").
		WithSuggestion("try another card or reduce the order total")
	WriteError(context.Background(), nil, rec, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	envelope := decodeError(t, rec)
	assert.Equal(t, "PAYMENT_DECLINED", envelope.Error.Code)
	assert.Equal(t, "try another card or reduce the order total", envelope.Error.Suggestion)
}

func TestWriteErrorAuthExpiredUsesPublicMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.Wrap(pkgerrors.CodeAuthExpired, errors.New("jwt: token expired"), "internal detail")
	WriteError(context.Background(), nil, rec, err)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	envelope := decodeError(t, rec)
	assert.Equal(t, "session expired, please sign in again", envelope.Error.Message)
}
