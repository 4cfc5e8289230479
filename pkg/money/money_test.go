package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2HalfUp(t *testing.T) {
	assert.Equal(t, 2.68, Round2(2.675))
	assert.Equal(t, 2.67, Round2(2.674))
	assert.Equal(t, 0.1, Round2(0.1))
	assert.Equal(t, 100.0, Round2(99.999999999))
}

func TestRound2CountersFloatDrift(t *testing.T) {
	// 0.1+0.2 is 0.30000000000000004 in binary floating point.
	assert.Equal(t, 0.3, Round2(0.1+0.2))
	// 1.005 is stored as 1.00499999...; the epsilon pushes it over.
	assert.Equal(t, 1.01, Round2(1.005))
}

func TestRound2Negative(t *testing.T) {
	assert.Equal(t, -2.68, Round2(-2.675))
	assert.Equal(t, -0.3, Round2(-(0.1 + 0.2)))
}
