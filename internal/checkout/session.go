package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/internal/payment"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/internal/pricing"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/internal/shipping"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/internal/transaction"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/draft"
	pkgerrors "github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/errors"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
)

// Session owns one checkout's state. All mutation goes through the transition
// methods; the mutex serializes concurrent requests for the same session.
// The isProcessing flag is the only submission mutual exclusion: a submit
// while one is in flight is suppressed, not queued.
type Session struct {
	mu sync.Mutex

	id       string
	draftKey string
	token    string
	identity *types.Identity

	lines     []types.CartLine
	profile   *types.Profile
	locations []types.Province

	step   int
	status Status

	selectedAddressIndex *int
	guestAddress         types.Address
	guestName            string
	guestEmail           string
	province             string
	canton               string
	parish               string

	available        []types.ShippingOption
	selectedShipping *types.ShippingOption
	shippingGen      uint64

	discount *types.DiscountApplication
	payment  types.PaymentSelection
	validity payment.Result

	isProcessing bool
	result       *types.TransactionResult
	failure      *Failure

	lastAccess time.Time

	deps Deps
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Snapshot renders the current state for the API layer.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID:            s.id,
		Step:                 s.step,
		Status:               s.status,
		Processing:           s.isProcessing,
		Authenticated:        s.identity != nil,
		Lines:                append([]types.CartLine(nil), s.lines...),
		SelectedAddressIndex: s.selectedAddressIndex,
		Province:             s.province,
		Canton:               s.canton,
		Parish:               s.parish,
		Locations:            s.locations,
		AvailableShipping:    append([]types.ShippingOption(nil), s.available...),
		Discount:             s.discount,
		PaymentMethod:        s.payment.Method,
		PaymentValidity:      s.validity,
		Pricing:              s.breakdownLocked(),
		Result:               s.result,
		Failure:              s.failure,
	}
	if s.profile != nil {
		snap.Addresses = s.profile.Addresses
		snap.WalletBalance = s.profile.WalletBalance
	}
	if s.identity == nil {
		addr := s.effectiveAddressLocked()
		snap.GuestAddress = &addr
	}
	if s.selectedShipping != nil {
		snap.SelectedShippingID = s.selectedShipping.ID
	}
	return snap
}

func (s *Session) breakdownLocked() pricing.Breakdown {
	return pricing.Compute(s.lines, s.discount, s.selectedShipping, s.deps.Tax)
}

// UpdateCart replaces the read-only cart snapshot. Under the strict
// invalidation policy any cart change drops an applied discount until it is
// re-validated.
func (s *Session) UpdateCart(ctx context.Context, lines []types.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append([]types.CartLine(nil), lines...)
	if s.discount != nil && s.deps.Discount != nil && !s.deps.Discount.LockOnApply() {
		s.discount = nil
	}
	s.revalidatePaymentLocked()
	s.saveDraftLocked(ctx)
}

// Advance moves to the next step if the current step's guard passes. A failed
// guard reports a validation error and leaves the step unchanged.
func (s *Session) Advance(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already completed")
	}
	if s.step >= StepPayment {
		return s.guardError(s.step, "already at the final step")
	}
	if err := s.advanceGuardLocked(); err != nil {
		s.deps.Metrics.IncGuardRejection(fmt.Sprintf("%d", s.step))
		return err
	}

	s.step++
	s.deps.Metrics.IncTransition("advance")
	s.saveDraftLocked(ctx)
	return nil
}

func (s *Session) advanceGuardLocked() error {
	switch s.step {
	case StepReview:
		if len(s.lines) == 0 {
			return s.guardError(StepReview, "cart is empty")
		}
	case StepAddress:
		if s.identity != nil {
			if !s.savedAddressSelectedLocked() {
				return s.guardError(StepAddress, "select a delivery address")
			}
		} else if !s.effectiveAddressLocked().Complete() {
			return s.guardError(StepAddress, "complete all delivery address fields")
		}
	case StepShipping:
		if s.selectedShipping == nil {
			return s.guardError(StepShipping, "select a shipping method")
		}
	}
	return nil
}

func (s *Session) guardError(step int, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]any{"step": step})
}

func (s *Session) savedAddressSelectedLocked() bool {
	if s.profile == nil || s.selectedAddressIndex == nil {
		return false
	}
	idx := *s.selectedAddressIndex
	return idx >= 0 && idx < len(s.profile.Addresses)
}

// Retreat steps back unconditionally; there is nothing to guard on the way
// down.
func (s *Session) Retreat(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already completed")
	}
	if s.step <= StepReview {
		return nil
	}
	s.step--
	s.deps.Metrics.IncTransition("retreat")
	s.saveDraftLocked(ctx)
	return nil
}

// SelectAddress picks a saved address (authenticated sessions) and refreshes
// shipping for the new destination.
func (s *Session) SelectAddress(ctx context.Context, index int) error {
	s.mu.Lock()
	if s.identity == nil {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeValidation, "guest sessions enter an address instead")
	}
	if s.profile == nil || index < 0 || index >= len(s.profile.Addresses) {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeValidation, "address index out of range")
	}
	s.selectedAddressIndex = &index
	s.saveDraftLocked(ctx)
	s.mu.Unlock()

	return s.RefreshShipping(ctx)
}

// SetGuestAddress fills the ad-hoc address form for guest sessions. Province,
// canton and parish come through SetDestination.
func (s *Session) SetGuestAddress(ctx context.Context, addr types.Address) error {
	s.mu.Lock()
	if s.identity != nil {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeValidation, "authenticated sessions select a saved address")
	}
	s.guestAddress.MainStreet = addr.MainStreet
	s.guestAddress.HouseNumber = addr.HouseNumber
	s.guestAddress.PostalCode = addr.PostalCode
	s.guestAddress.Phone = addr.Phone
	s.saveDraftLocked(ctx)
	s.mu.Unlock()
	return nil
}

// SetGuestContact records the buyer's name and email for guest sessions.
func (s *Session) SetGuestContact(ctx context.Context, name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "contact details come from the signed-in profile")
	}
	s.guestName = name
	s.guestEmail = email
	s.saveDraftLocked(ctx)
	return nil
}

// SetDestination updates the province/canton/parish selections. Changing the
// province resets the narrower selections and re-resolves shipping.
func (s *Session) SetDestination(ctx context.Context, province, canton, parish string) error {
	s.mu.Lock()
	provinceChanged := province != s.province
	s.province = province
	if provinceChanged {
		s.canton = ""
		s.parish = ""
	}
	if canton != "" {
		if canton != s.canton {
			s.parish = ""
		}
		s.canton = canton
	}
	if parish != "" {
		s.parish = parish
	}
	s.saveDraftLocked(ctx)
	s.mu.Unlock()

	if provinceChanged {
		return s.RefreshShipping(ctx)
	}
	return nil
}

// RefreshShipping re-fetches methods for the current destination. A
// generation counter guarantees last-destination-wins: a response for a
// superseded destination is discarded. Fetch failure degrades silently to an
// empty set; the shipping-step guard keeps the wizard from advancing.
func (s *Session) RefreshShipping(ctx context.Context) error {
	s.mu.Lock()
	s.shippingGen++
	gen := s.shippingGen
	province := s.destinationProvinceLocked()
	previousID := ""
	if s.selectedShipping != nil {
		previousID = s.selectedShipping.ID
	}
	limit := s.deps.ShippingPageLimit
	s.mu.Unlock()

	methods, err := s.deps.Shipping.GetShippingMethods(ctx, 1, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.shippingGen {
		// A later destination change superseded this fetch.
		return nil
	}
	if err != nil {
		if pkgerrors.IsAbort(err) {
			return nil
		}
		s.deps.Logger.Warn(ctx, "shipping methods unavailable, degrading to empty set")
		s.available = nil
		s.selectedShipping = nil
		s.revalidatePaymentLocked()
		s.saveDraftLocked(ctx)
		return nil
	}

	s.available = shipping.Eligible(methods, province)
	s.selectedShipping = shipping.Reselect(previousID, s.available)
	s.revalidatePaymentLocked()
	s.saveDraftLocked(ctx)
	return nil
}

// SelectShipping picks one of the currently eligible options by id.
func (s *Session) SelectShipping(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.available {
		if s.available[i].ID == id {
			s.selectedShipping = &s.available[i]
			s.revalidatePaymentLocked()
			s.saveDraftLocked(ctx)
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "shipping method not available for this destination")
}

// ApplyDiscount validates the code against the current cart and records the
// application. Concurrent applies are rejected by the validator's in-flight
// guard.
func (s *Session) ApplyDiscount(ctx context.Context, code string) error {
	s.mu.Lock()
	lines := append([]types.CartLine(nil), s.lines...)
	token := s.token
	s.mu.Unlock()

	applied, err := s.deps.Discount.Apply(ctx, token, code, lines)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.discount = applied
	s.revalidatePaymentLocked()
	s.saveDraftLocked(ctx)
	return nil
}

// RemoveDiscount clears the applied discount.
func (s *Session) RemoveDiscount(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discount = nil
	s.revalidatePaymentLocked()
	s.saveDraftLocked(ctx)
}

// SetPayment replaces the payment selection and recomputes its validity.
func (s *Session) SetPayment(ctx context.Context, selection types.PaymentSelection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if selection.Method == types.PaymentMethodWallet && s.identity == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "wallet credits require signing in")
	}
	s.payment = selection
	s.revalidatePaymentLocked()
	s.saveDraftLocked(ctx)
	return nil
}

// AttachVoucher records the transfer receipt metadata on the current
// selection.
func (s *Session) AttachVoucher(ctx context.Context, voucher types.VoucherFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payment.Method != types.PaymentMethodTransfer {
		return pkgerrors.New(pkgerrors.CodeValidation, "voucher applies to bank transfers only")
	}
	s.payment.Voucher = &voucher
	s.revalidatePaymentLocked()
	s.saveDraftLocked(ctx)
	return nil
}

func (s *Session) revalidatePaymentLocked() {
	if s.payment.Method == "" {
		s.validity = payment.Result{}
		return
	}
	total := s.breakdownLocked().Total
	var balance float64
	if s.profile != nil {
		balance = s.profile.WalletBalance
	}
	s.validity = s.deps.Payment.Validate(s.payment, total, balance)
}

// Submit sends the transaction. A call while one is already in flight is a
// no-op (suppressed, not queued): it returns (nil, nil) and the caller reads
// the session state. Once the request is written it is never cancelled.
func (s *Session) Submit(ctx context.Context) (*types.TransactionResult, error) {
	s.mu.Lock()
	if s.status == StatusSucceeded {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already submitted")
	}
	if s.status == StatusFailed {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "submission failed, retry to continue")
	}
	if s.isProcessing {
		s.mu.Unlock()
		return nil, nil
	}
	if s.step != StepPayment {
		step := s.step
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "complete the previous steps first").
			WithDetails(map[string]any{"step": step})
	}
	if s.payment.Method == types.PaymentMethodWallet && s.identity == nil {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wallet credits require signing in")
	}
	s.revalidatePaymentLocked()
	if !s.validity.Valid {
		details := map[string]any{"step": StepPayment}
		if len(s.validity.FieldErrors) > 0 {
			details["field_errors"] = s.validity.FieldErrors
		}
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment selection is not valid").
			WithDetails(details)
	}

	s.isProcessing = true
	input := s.submissionInputLocked()
	s.mu.Unlock()

	// The submission outlives any client disconnect: once sent, it runs to
	// completion or failure server-side.
	result, err := s.deps.Submitter.Submit(context.WithoutCancel(ctx), input)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.isProcessing = false

	if err != nil {
		if pkgerrors.IsAbort(err) {
			return nil, err
		}
		mapped := pkgerrors.As(err)
		if mapped == nil {
			mapped = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "submission failed")
		}
		s.status = StatusFailed
		s.failure = &Failure{
			Code:       mapped.Code(),
			Message:    mapped.Message(),
			Suggestion: mapped.Suggestion(),
		}
		return nil, mapped
	}

	s.status = StatusSucceeded
	s.result = result
	s.lines = nil
	s.clearDraftLocked(ctx)
	return result, nil
}

func (s *Session) submissionInputLocked() transaction.Input {
	return transaction.Input{
		Token:        s.token,
		Identity:     s.identity,
		GuestName:    s.guestName,
		GuestEmail:   s.guestEmail,
		Address:      s.effectiveAddressLocked(),
		Lines:        append([]types.CartLine(nil), s.lines...),
		Shipping:     s.selectedShipping,
		Payment:      s.payment,
		DiscountCode: s.discountCodeLocked(),
		Total:        s.breakdownLocked().Total,
	}
}

func (s *Session) discountCodeLocked() string {
	if s.discount == nil {
		return ""
	}
	return s.discount.Code
}

// Retry leaves the failed terminal state and returns to the payment step with
// every other selection intact.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusFailed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "retry is only available after a failed submission")
	}
	s.status = StatusActive
	s.failure = nil
	s.step = StepPayment
	s.deps.Metrics.IncTransition("retry")
	s.saveDraftLocked(ctx)
	return nil
}

func (s *Session) destinationProvinceLocked() string {
	if s.identity != nil && s.savedAddressSelectedLocked() {
		return s.profile.Addresses[*s.selectedAddressIndex].Province
	}
	return s.province
}

func (s *Session) effectiveAddressLocked() types.Address {
	if s.identity != nil && s.savedAddressSelectedLocked() {
		return s.profile.Addresses[*s.selectedAddressIndex].Address
	}
	addr := s.guestAddress
	addr.Province = s.province
	addr.Canton = s.canton
	addr.Parish = s.parish
	return addr
}

// saveDraftLocked persists the current snapshot, best-effort. Storage being
// down never blocks the session; in-memory state stays authoritative.
func (s *Session) saveDraftLocked(ctx context.Context) {
	if s.deps.Drafts == nil {
		return
	}
	d := draft.Draft{
		Step:                 s.step,
		SelectedAddressIndex: s.selectedAddressIndex,
		Province:             s.province,
		Canton:               s.canton,
		Parish:               s.parish,
		DiscountCode:         s.discountCodeLocked(),
	}
	if s.selectedShipping != nil {
		d.ShippingID = s.selectedShipping.ID
	}
	if err := s.deps.Drafts.Save(ctx, s.draftKey, d); err != nil {
		s.deps.Logger.Warn(ctx, "draft save failed: "+err.Error())
	}
}

// clearDraftLocked deletes the draft. Called exactly once, on success.
func (s *Session) clearDraftLocked(ctx context.Context) {
	if s.deps.Drafts == nil {
		return
	}
	if err := s.deps.Drafts.Clear(ctx, s.draftKey); err != nil {
		s.deps.Logger.Warn(ctx, "draft clear failed: "+err.Error())
	}
}
