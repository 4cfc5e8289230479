package discount

import (
	"context"
	"sync"
	"testing"

	pkgerrors "github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/errors"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	started  chan struct{}
	release  chan struct{}
	result   *types.DiscountApplication
	err      error
	calls    int
}

func (s *stubValidator) ValidateDiscount(ctx context.Context, token, code string, lines []types.CartLine) (*types.DiscountApplication, error) {
	s.calls++
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		<-s.release
	}
	return s.result, s.err
}

func cartLines() []types.CartLine {
	return []types.CartLine{{ProductID: "p1", Price: 50, Quantity: 2}}
}

func TestApplyReturnsApplication(t *testing.T) {
	stub := &stubValidator{result: &types.DiscountApplication{Code: "SAVE10", Amount: 10, Subtotal: 100}}
	svc, err := NewService(stub, true)
	require.NoError(t, err)

	applied, err := svc.Apply(context.Background(), "tok", " SAVE10 ", cartLines())
	require.NoError(t, err)
	assert.Equal(t, 10.0, applied.Amount)
	assert.Equal(t, 1, stub.calls)
}

func TestApplyRequiresCodeAndCart(t *testing.T) {
	svc, err := NewService(&stubValidator{}, true)
	require.NoError(t, err)

	_, err = svc.Apply(context.Background(), "tok", "  ", cartLines())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Apply(context.Background(), "tok", "SAVE10", nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestConcurrentApplyRejected(t *testing.T) {
	stub := &stubValidator{
		started: make(chan struct{}),
		release: make(chan struct{}),
		result:  &types.DiscountApplication{Code: "SAVE10"},
	}
	svc, err := NewService(stub, true)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Apply(context.Background(), "tok", "SAVE10", cartLines())
		assert.NoError(t, err)
	}()

	<-stub.started
	_, err = svc.Apply(context.Background(), "tok", "SAVE10", cartLines())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	close(stub.release)
	wg.Wait()

	// The guard releases once the pending call finishes.
	stub.release = nil
	stub.started = nil
	_, err = svc.Apply(context.Background(), "tok", "SAVE10", cartLines())
	assert.NoError(t, err)
}

func TestNewServiceRequiresClient(t *testing.T) {
	_, err := NewService(nil, true)
	require.Error(t, err)
}
