package transaction

import "github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"

type customerPayload struct {
	CustomerID string `json:"customer_id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Guest      bool   `json:"guest"`
}

type itemPayload struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

type shippingPayload struct {
	MethodID string        `json:"method_id"`
	Cost     float64       `json:"cost"`
	Address  types.Address `json:"address"`
}

type paymentPayload struct {
	Method  string             `json:"method"`
	Card    *types.CardDetails `json:"card,omitempty"`
	Voucher *types.VoucherFile `json:"voucher,omitempty"`
}

type transactionPayload struct {
	Customer     customerPayload `json:"customer"`
	Items        []itemPayload   `json:"items"`
	Shipping     shippingPayload `json:"shipping"`
	Payment      paymentPayload  `json:"payment"`
	DiscountCode *string         `json:"discount_code,omitempty"`
	Total        float64         `json:"total"`
}

func buildPayload(input Input) transactionPayload {
	customer := customerPayload{Guest: true, Name: input.GuestName, Email: input.GuestEmail}
	if input.Identity != nil {
		customer = customerPayload{
			CustomerID: input.Identity.CustomerID,
			Name:       input.Identity.Name,
			Email:      input.Identity.Email,
		}
	}

	items := make([]itemPayload, 0, len(input.Lines))
	for _, line := range input.Lines {
		productID, variantID := line.ProductID, line.VariantID
		if productID == "" {
			productID, variantID = types.SplitLineID(line.LineID)
		}
		items = append(items, itemPayload{
			ProductID: productID,
			VariantID: variantID,
			Quantity:  line.Quantity,
		})
	}

	payment := paymentPayload{Method: string(input.Payment.Method)}
	switch input.Payment.Method {
	case types.PaymentMethodCard:
		payment.Card = input.Payment.Card
	case types.PaymentMethodTransfer:
		payment.Voucher = input.Payment.Voucher
	}

	var discountCode *string
	if input.DiscountCode != "" {
		code := input.DiscountCode
		discountCode = &code
	}

	return transactionPayload{
		Customer: customer,
		Items:    items,
		Shipping: shippingPayload{
			MethodID: input.Shipping.ID,
			Cost:     input.Shipping.Cost,
			Address:  input.Address,
		},
		Payment:      payment,
		DiscountCode: discountCode,
		Total:        input.Total,
	}
}
