package upstream

import "github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"

type profileResponse struct {
	Addresses     []types.SavedAddress `json:"addresses"`
	WalletBalance float64              `json:"wallet_balance"`
}

func (p profileResponse) toProfile() *types.Profile {
	return &types.Profile{
		Addresses:     p.Addresses,
		WalletBalance: p.WalletBalance,
	}
}

type locationsResponse struct {
	Provinces []types.Province `json:"provinces"`
}

type shippingMethodDTO struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Description   string   `json:"description"`
	Cost          float64  `json:"cost"`
	EstimatedTime string   `json:"estimated_time"`
	AllowList     []string `json:"province_allow_list"`
	DenyList      []string `json:"province_deny_list"`
	Priority      *int     `json:"priority"`
	Featured      bool     `json:"featured"`
	Visible       *bool    `json:"visible"`
}

type shippingMethodsResponse struct {
	Methods []shippingMethodDTO `json:"methods"`
}

func (r shippingMethodsResponse) toOptions() []types.ShippingOption {
	options := make([]types.ShippingOption, 0, len(r.Methods))
	for _, m := range r.Methods {
		name := m.Type
		if m.Description != "" {
			name = m.Description
		}
		options = append(options, types.ShippingOption{
			ID:            m.ID,
			Name:          name,
			Cost:          m.Cost,
			EstimatedTime: m.EstimatedTime,
			AllowList:     m.AllowList,
			DenyList:      m.DenyList,
			Priority:      m.Priority,
			Featured:      m.Featured,
			Visible:       m.Visible,
		})
	}
	return options
}

type discountRequest struct {
	Code  string         `json:"code"`
	Items []discountItem `json:"items"`
}

type discountItem struct {
	ProductID string  `json:"product_id"`
	VariantID string  `json:"variant_id,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type discountResponse struct {
	Valid          bool    `json:"valid"`
	DiscountAmount float64 `json:"discount_amount"`
	Subtotal       float64 `json:"subtotal"`
	Message        string  `json:"message"`
}
