package transaction

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/internal/upstream"
	pkgerrors "github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/errors"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	result  *types.TransactionResult
	err     error
	payload any
}

func (s *stubClient) SubmitTransaction(ctx context.Context, token string, payload any) (*types.TransactionResult, error) {
	s.payload = payload
	return s.result, s.err
}

func validInput() Input {
	return Input{
		Token: "tok",
		Identity: &types.Identity{
			CustomerID: "cust-1",
			Name:       "Ana",
			Email:      "ana@example.com",
		},
		Address: types.Address{Province: "Pichincha", Canton: "Quito", Parish: "Centro",
			MainStreet: "Av. Amazonas", HouseNumber: "N26", Phone: "099"},
		Lines: []types.CartLine{
			{LineID: "p1:v1", Quantity: 2},
			{ProductID: "p2", VariantID: "v9", Quantity: 1},
		},
		Shipping:     &types.ShippingOption{ID: "ship-1", Cost: 5},
		Payment:      types.PaymentSelection{Method: types.PaymentMethodCard, Card: &types.CardDetails{Number: "4111111111111111", Expiry: "12/30", CVC: "123"}},
		DiscountCode: "SAVE10",
		Total:        95,
	}
}

func TestSubmitBuildsPayload(t *testing.T) {
	client := &stubClient{result: &types.TransactionResult{TransactionID: "tx-1", OrderID: "ord-1", Total: 95}}
	sub, err := NewSubmitter(client, nil, nil)
	require.NoError(t, err)

	result, err := sub.Submit(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "tx-1", result.TransactionID)

	payload, ok := client.payload.(transactionPayload)
	require.True(t, ok)
	assert.Equal(t, "cust-1", payload.Customer.CustomerID)
	assert.False(t, payload.Customer.Guest)
	require.Len(t, payload.Items, 2)
	// variant derived from the composite line id
	assert.Equal(t, "p1", payload.Items[0].ProductID)
	assert.Equal(t, "v1", payload.Items[0].VariantID)
	assert.Equal(t, "p2", payload.Items[1].ProductID)
	assert.Equal(t, "ship-1", payload.Shipping.MethodID)
	require.NotNil(t, payload.DiscountCode)
	assert.Equal(t, "SAVE10", *payload.DiscountCode)
	assert.Equal(t, 95.0, payload.Total)
}

func TestSubmitGuestCustomer(t *testing.T) {
	client := &stubClient{result: &types.TransactionResult{}}
	sub, err := NewSubmitter(client, nil, nil)
	require.NoError(t, err)

	input := validInput()
	input.Identity = nil
	input.GuestName = "Guest Buyer"
	input.DiscountCode = ""

	_, err = sub.Submit(context.Background(), input)
	require.NoError(t, err)

	payload := client.payload.(transactionPayload)
	assert.True(t, payload.Customer.Guest)
	assert.Equal(t, "Guest Buyer", payload.Customer.Name)
	assert.Nil(t, payload.DiscountCode)
}

func TestSubmitAuthExpiredInvokesHandlerOnce(t *testing.T) {
	client := &stubClient{err: &upstream.StatusError{Status: http.StatusUnauthorized, Message: "token expired"}}
	var calls int
	sub, err := NewSubmitter(client, nil, func() { calls++ })
	require.NoError(t, err)

	_, err = sub.Submit(context.Background(), validInput())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeAuthExpired, typed.Code())
	assert.Equal(t, "sign in again to complete your order", typed.Suggestion())
	assert.Equal(t, 1, calls)
}

func TestSubmitGuardsMissingSelections(t *testing.T) {
	sub, err := NewSubmitter(&stubClient{}, nil, nil)
	require.NoError(t, err)

	input := validInput()
	input.Shipping = nil
	_, err = sub.Submit(context.Background(), input)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	input = validInput()
	input.Lines = nil
	_, err = sub.Submit(context.Background(), input)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestMapErrorStatuses(t *testing.T) {
	cases := []struct {
		name   string
		in     error
		code   pkgerrors.Code
	}{
		{"401", &upstream.StatusError{Status: 401}, pkgerrors.CodeAuthExpired},
		{"403", &upstream.StatusError{Status: 403, Message: "not yours"}, pkgerrors.CodeOwnership},
		{"404", &upstream.StatusError{Status: 404}, pkgerrors.CodeNotFound},
		{"400", &upstream.StatusError{Status: 400, Message: "bad payload"}, pkgerrors.CodeBadRequest},
		{"503", &upstream.StatusError{Status: 503}, pkgerrors.CodeDependency},
		{"untyped", errors.New("boom"), pkgerrors.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, MapError(tc.in).Code())
		})
	}
}

func TestMapErrorSurfacesServerMessageVerbatim(t *testing.T) {
	mapped := MapError(&upstream.StatusError{Status: 400, Message: "quantity exceeds stock"})
	assert.Equal(t, "quantity exceeds stock", mapped.Message())

	mapped = MapError(&upstream.StatusError{Status: 403, Message: "order belongs to another account"})
	assert.Equal(t, "order belongs to another account", mapped.Message())
}

func TestMapErrorDeclineCodes(t *testing.T) {
	for _, code := range []string{"insufficient_funds", "lost_card", "stolen_card", "expired_card", "generic_decline", "processing_error"} {
		mapped := MapError(&upstream.StatusError{Status: 422, Code: code})
		assert.Equal(t, pkgerrors.CodePaymentDeclined, mapped.Code(), code)
		assert.NotEmpty(t, mapped.Suggestion(), code)
		assert.NotEmpty(t, mapped.Message(), code)
	}
}

func TestMapErrorPassesAbortsThrough(t *testing.T) {
	abort := pkgerrors.New(pkgerrors.CodeTransportAbort, "cancelled")
	assert.True(t, pkgerrors.IsAbort(MapError(abort)))
}
