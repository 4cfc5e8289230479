// Package upstream is the HTTP client for the commerce platform the checkout
// engine orchestrates against.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/config"
	pkgerrors "github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/errors"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
	"github.com/sony/gobreaker/v2"
)

const (
	headerTenant = "X-Tenant-Id"
	headerBranch = "X-Branch-Id"
	headerOrigin = "X-Origin"
)

// StatusError carries the raw upstream failure for the caller to map into the
// checkout error taxonomy.
type StatusError struct {
	Status  int
	Code    string
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d (%s): %s", e.Status, e.Code, e.Message)
}

// Client talks to the commerce platform. Read fetches (profile, locations,
// shipping methods) go through a circuit breaker: an open breaker degrades
// the same way a network failure does. Submissions never do: once a
// transaction is sent it runs to completion server-side.
type Client struct {
	cfg     config.UpstreamConfig
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(cfg config.UpstreamConfig, breakerCfg config.BreakerConfig) *Client {
	settings := gobreaker.Settings{
		Name:        "upstream-reads",
		MaxRequests: breakerCfg.MaxRequests,
		Interval:    breakerCfg.Interval,
		Timeout:     breakerCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breakerCfg.MinRequests {
				return false
			}
			failureRate := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRate >= breakerCfg.FailureRate
		},
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// GetProfile returns the authenticated account snapshot.
func (c *Client) GetProfile(ctx context.Context, token string) (*types.Profile, error) {
	body, err := c.fetch(ctx, token, "/api/profile", nil)
	if err != nil {
		return nil, err
	}
	var payload profileResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding profile")
	}
	return payload.toProfile(), nil
}

// GetLocations returns the province/canton/parish hierarchy.
func (c *Client) GetLocations(ctx context.Context) ([]types.Province, error) {
	body, err := c.fetch(ctx, "", "/api/locations", nil)
	if err != nil {
		return nil, err
	}
	var payload locationsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding locations")
	}
	return payload.Provinces, nil
}

// GetShippingMethods lists the raw shipping methods for the tenant.
func (c *Client) GetShippingMethods(ctx context.Context, page, limit int) ([]types.ShippingOption, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	body, err := c.fetch(ctx, "", "/api/shipping-methods", query)
	if err != nil {
		return nil, err
	}
	var payload shippingMethodsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding shipping methods")
	}
	return payload.toOptions(), nil
}

// ValidateDiscount checks a promo code against the current cart. The returned
// amount is trusted as computed upstream.
func (c *Client) ValidateDiscount(ctx context.Context, token, code string, lines []types.CartLine) (*types.DiscountApplication, error) {
	request := discountRequest{Code: code}
	for _, line := range lines {
		request.Items = append(request.Items, discountItem{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}

	body, status, err := c.post(ctx, token, "/api/discounts/validate", request)
	if err != nil {
		return nil, err
	}
	var payload discountResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding discount response")
	}
	if status >= 400 || !payload.Valid {
		message := payload.Message
		if message == "" {
			message = "discount code is not valid"
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, message)
	}
	return &types.DiscountApplication{
		Code:     code,
		Amount:   payload.DiscountAmount,
		Subtotal: payload.Subtotal,
	}, nil
}

// AddAddress stores a new address on the authenticated profile.
func (c *Client) AddAddress(ctx context.Context, token string, address types.Address) (*types.SavedAddress, error) {
	body, status, err := c.post(ctx, token, "/api/profile/addresses", address)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, statusError(status, body)
	}
	var payload struct {
		Address types.SavedAddress `json:"address"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding address response")
	}
	return &payload.Address, nil
}

// SetPrimaryAddress marks the address at index as the profile default.
func (c *Client) SetPrimaryAddress(ctx context.Context, token string, index int) error {
	body, status, err := c.post(ctx, token, "/api/profile/addresses/primary", map[string]int{"index": index})
	if err != nil {
		return err
	}
	if status >= 400 {
		return statusError(status, body)
	}
	return nil
}

// SubmitTransaction posts the assembled order. Failures come back as
// *StatusError for the submitter to map; cancellations surface as aborts.
func (c *Client) SubmitTransaction(ctx context.Context, token string, payload any) (*types.TransactionResult, error) {
	body, status, err := c.post(ctx, token, "/api/transactions", payload)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, statusError(status, body)
	}
	var result types.TransactionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding transaction result")
	}
	return &result, nil
}

func (c *Client) fetch(ctx context.Context, token, path string, query url.Values) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		endpoint := c.cfg.BaseURL + path
		if len(query) > 0 {
			endpoint += "?" + query.Encode()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
		}
		c.setHeaders(req, token)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, transportError(ctx, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, transportError(ctx, err)
		}
		if resp.StatusCode >= 400 {
			return nil, statusError(resp.StatusCode, body)
		}
		return body, nil
	})
}

func (c *Client) post(ctx context.Context, token, path string, payload any) ([]byte, int, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, transportError(ctx, err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set(headerTenant, c.cfg.TenantID)
	req.Header.Set(headerBranch, c.cfg.BranchID)
	req.Header.Set(headerOrigin, c.cfg.Origin)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// transportError distinguishes a cancelled request from a genuine failure.
func transportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransportAbort, err, "request cancelled")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upstream unreachable")
}

func statusError(status int, body []byte) *StatusError {
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)

	code := payload.Code
	if code == "" {
		code = payload.Error.Code
	}
	message := payload.Message
	if message == "" {
		message = payload.Error.Message
	}
	if message == "" {
		message = strings.TrimSpace(string(body))
	}
	return &StatusError{Status: status, Code: code, Message: message}
}
