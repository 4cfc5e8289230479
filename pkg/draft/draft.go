// Package draft persists the minimal snapshot of an in-progress checkout so a
// returning session can be restored. The draft is advisory: once a session is
// live, in-memory state is authoritative and draft writes are best-effort.
package draft

import "context"

const (
	StepMin = 1
	StepMax = 4
)

// Draft is the persisted subset of checkout state, serialized as JSON under a
// single well-known key per session.
type Draft struct {
	Step                 int    `json:"step"`
	SelectedAddressIndex *int   `json:"selected_address_index,omitempty"`
	Province             string `json:"province,omitempty"`
	Canton               string `json:"canton,omitempty"`
	Parish               string `json:"parish,omitempty"`
	ShippingID           string `json:"shipping_id,omitempty"`
	DiscountCode         string `json:"discount_code,omitempty"`
}

// ClampStep forces any integer into the valid wizard range.
func ClampStep(step int) int {
	if step < StepMin {
		return StepMin
	}
	if step > StepMax {
		return StepMax
	}
	return step
}

// Normalize returns a copy with the step clamped into range.
func (d Draft) Normalize() Draft {
	d.Step = ClampStep(d.Step)
	return d
}

// Store is the narrow persistence capability the checkout engine depends on.
// Implementations must treat absent or corrupt records as an empty draft.
type Store interface {
	Load(ctx context.Context, key string) (Draft, bool, error)
	Save(ctx context.Context, key string, d Draft) error
	Clear(ctx context.Context, key string) error
}
