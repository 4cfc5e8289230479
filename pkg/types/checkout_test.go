package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLineID(t *testing.T) {
	product, variant := SplitLineID("prod-1:var-2")
	assert.Equal(t, "prod-1", product)
	assert.Equal(t, "var-2", variant)

	product, variant = SplitLineID("prod-solo")
	assert.Equal(t, "prod-solo", product)
	assert.Empty(t, variant)

	product, variant = SplitLineID("prod-1:var:extra")
	assert.Equal(t, "prod-1", product)
	assert.Equal(t, "var:extra", variant)
}

func TestAddressComplete(t *testing.T) {
	addr := Address{
		Province:    "Pichincha",
		Canton:      "Quito",
		Parish:      "Centro",
		MainStreet:  "Av. Amazonas",
		HouseNumber: "N26-123",
		Phone:       "0999999999",
	}
	assert.True(t, addr.Complete())

	addr.Phone = "   "
	assert.False(t, addr.Complete())

	assert.False(t, Address{}.Complete())
}
