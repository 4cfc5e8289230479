package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/config"
	pkgerrors "github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/errors"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return NewClient(
		config.UpstreamConfig{
			BaseURL:  baseURL,
			TenantID: "tenant-1",
			BranchID: "branch-1",
			Origin:   "checkout-engine",
			Timeout:  5 * time.Second,
		},
		config.BreakerConfig{MaxRequests: 3, Interval: time.Minute, Timeout: time.Minute, MinRequests: 100, FailureRate: 0.99},
	)
}

func TestGetShippingMethodsSendsHeaders(t *testing.T) {
	var gotTenant, gotBranch, gotOrigin string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTenant = r.Header.Get("X-Tenant-Id")
		gotBranch = r.Header.Get("X-Branch-Id")
		gotOrigin = r.Header.Get("X-Origin")
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"methods":[{"id":"m1","type":"express","cost":4.5,"featured":true}]}`))
	}))
	defer server.Close()

	methods, err := testClient(server.URL).GetShippingMethods(context.Background(), 2, 50)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, "m1", methods[0].ID)
	assert.Equal(t, "express", methods[0].Name)
	assert.True(t, methods[0].Featured)
	assert.Equal(t, "tenant-1", gotTenant)
	assert.Equal(t, "branch-1", gotBranch)
	assert.Equal(t, "checkout-engine", gotOrigin)
}

func TestGetProfileSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Write([]byte(`{"addresses":[{"province":"Pichincha","canton":"Quito","parish":"Centro","main_street":"Av. Amazonas","house_number":"N26","postal_code":"170135","phone":"099","primary":true}],"wallet_balance":42.5}`))
	}))
	defer server.Close()

	profile, err := testClient(server.URL).GetProfile(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Len(t, profile.Addresses, 1)
	assert.True(t, profile.Addresses[0].Primary)
	assert.Equal(t, 42.5, profile.WalletBalance)
}

func TestValidateDiscount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"valid":true,"discount_amount":10,"subtotal":100}`))
	}))
	defer server.Close()

	applied, err := testClient(server.URL).ValidateDiscount(context.Background(), "", "SAVE10", []types.CartLine{{ProductID: "p1", Price: 100, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", applied.Code)
	assert.Equal(t, 10.0, applied.Amount)
	assert.Equal(t, 100.0, applied.Subtotal)
}

func TestValidateDiscountRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"valid":false,"message":"code expired"}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).ValidateDiscount(context.Background(), "", "OLD", nil)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "code expired", typed.Message())
}

func TestSubmitTransactionSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transaction_id":"tx-1","order_id":"ord-1","total":95}`))
	}))
	defer server.Close()

	result, err := testClient(server.URL).SubmitTransaction(context.Background(), "tok", map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "tx-1", result.TransactionID)
	assert.Equal(t, 95.0, result.Total)
}

func TestSubmitTransactionStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":{"code":"insufficient_funds","message":"not enough funds"}}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).SubmitTransaction(context.Background(), "tok", map[string]string{})
	require.Error(t, err)
	statusErr, ok := err.(*StatusError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.Status)
	assert.Equal(t, "insufficient_funds", statusErr.Code)
	assert.Equal(t, "not enough funds", statusErr.Message)
}

func TestCancelledRequestIsAbort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := testClient(server.URL).GetLocations(ctx)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsAbort(err))
}
