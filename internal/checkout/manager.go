// Package checkout implements the session state machine that drives the
// four-step checkout wizard and the manager that owns the live sessions.
package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/internal/payment"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/internal/transaction"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/draft"
	pkgerrors "github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/errors"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/logger"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/metrics"
	"github.com/Ecommerce-ESPE/EcommerceApp-sub001/pkg/types"
)

type profileClient interface {
	GetProfile(ctx context.Context, token string) (*types.Profile, error)
	AddAddress(ctx context.Context, token string, address types.Address) (*types.SavedAddress, error)
	SetPrimaryAddress(ctx context.Context, token string, index int) error
}

type locationsClient interface {
	GetLocations(ctx context.Context) ([]types.Province, error)
}

type shippingClient interface {
	GetShippingMethods(ctx context.Context, page, limit int) ([]types.ShippingOption, error)
}

type discountApplier interface {
	Apply(ctx context.Context, token, code string, lines []types.CartLine) (*types.DiscountApplication, error)
	LockOnApply() bool
}

type orderSubmitter interface {
	Submit(ctx context.Context, input transaction.Input) (*types.TransactionResult, error)
}

// Deps carries everything a session needs to run. The manager injects the
// same set into every session it creates.
type Deps struct {
	Profile           profileClient
	Locations         locationsClient
	Shipping          shippingClient
	Discount          discountApplier
	Submitter         orderSubmitter
	Drafts            draft.Store
	Payment           *payment.Validator
	Tax               types.TaxSettings
	Metrics           *metrics.CheckoutMetrics
	Logger            *logger.Logger
	ShippingPageLimit int
}

// Manager owns the live sessions, keyed by a generated id. Sessions idle past
// the TTL are evicted; their draft survives and rehydrates the next session.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	deps Deps
	ttl  time.Duration
}

func NewManager(deps Deps, ttl time.Duration) (*Manager, error) {
	if deps.Shipping == nil {
		return nil, fmt.Errorf("shipping client required")
	}
	if deps.Discount == nil {
		return nil, fmt.Errorf("discount service required")
	}
	if deps.Submitter == nil {
		return nil, fmt.Errorf("submitter required")
	}
	if deps.Payment == nil {
		return nil, fmt.Errorf("payment validator required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if deps.ShippingPageLimit <= 0 {
		deps.ShippingPageLimit = 50
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Manager{
		sessions: make(map[string]*Session),
		deps:     deps,
		ttl:      ttl,
	}, nil
}

// CreateSession builds a new session for the given cart and identity, then
// hydrates it: saved draft, profile and address book, location catalogue,
// previously applied discount and shipping selection.
func (m *Manager) CreateSession(ctx context.Context, identity *types.Identity, token string, lines []types.CartLine, draftKey string) (*Session, error) {
	s := &Session{
		id:         uuid.NewString(),
		token:      token,
		identity:   identity,
		lines:      append([]types.CartLine(nil), lines...),
		step:       StepReview,
		status:     StatusActive,
		lastAccess: time.Now(),
		deps:       m.deps,
	}
	s.draftKey = s.id
	if identity != nil {
		s.draftKey = identity.CustomerID
	} else if draftKey != "" {
		s.draftKey = draftKey
	}

	m.hydrate(ctx, s)

	m.mu.Lock()
	m.evictExpiredLocked()
	m.sessions[s.id] = s
	m.mu.Unlock()
	return s, nil
}

// hydrate restores persisted draft state and fetches the external context a
// fresh session needs. Every fetch degrades gracefully; a checkout must open
// even when a dependency is down.
func (m *Manager) hydrate(ctx context.Context, s *Session) {
	var saved draft.Draft
	if m.deps.Drafts != nil {
		d, found, err := m.deps.Drafts.Load(ctx, s.draftKey)
		if err != nil {
			m.deps.Logger.Warn(ctx, "draft load failed: "+err.Error())
		} else if found {
			saved = d
		}
	}

	if s.identity != nil && m.deps.Profile != nil {
		profile, err := m.deps.Profile.GetProfile(ctx, s.token)
		if err != nil {
			m.deps.Logger.Warn(ctx, "profile fetch failed: "+err.Error())
		} else {
			s.profile = profile
		}
	}

	if m.deps.Locations != nil {
		locations, err := m.deps.Locations.GetLocations(ctx)
		if err != nil {
			m.deps.Logger.Warn(ctx, "locations fetch failed: "+err.Error())
		} else {
			s.locations = locations
		}
	}

	s.step = draft.ClampStep(saved.Step)
	s.province = saved.Province
	s.canton = saved.Canton
	s.parish = saved.Parish
	if saved.SelectedAddressIndex != nil && s.profile != nil {
		if idx := *saved.SelectedAddressIndex; idx >= 0 && idx < len(s.profile.Addresses) {
			s.selectedAddressIndex = saved.SelectedAddressIndex
		}
	}
	if saved.ShippingID != "" {
		// Temporary placeholder so RefreshShipping can try to keep it.
		s.selectedShipping = &types.ShippingOption{ID: saved.ShippingID}
	}

	if err := s.RefreshShipping(ctx); err != nil {
		m.deps.Logger.Warn(ctx, "shipping hydration failed: "+err.Error())
	}

	// Re-validate a previously applied code against the current cart. A code
	// that no longer validates is silently dropped.
	if saved.DiscountCode != "" && len(s.lines) > 0 {
		if err := s.ApplyDiscount(ctx, saved.DiscountCode); err != nil {
			m.deps.Logger.Warn(ctx, "draft discount no longer valid, dropped")
		}
	}
}

// Get returns the session by id, refreshing its idle timer.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
	}
	s.mu.Lock()
	s.lastAccess = time.Now()
	s.mu.Unlock()
	return s, nil
}

func (m *Manager) evictExpiredLocked() {
	cutoff := time.Now().Add(-m.ttl)
	for id, s := range m.sessions {
		s.mu.Lock()
		expired := s.lastAccess.Before(cutoff) && !s.isProcessing
		s.mu.Unlock()
		if expired {
			delete(m.sessions, id)
		}
	}
}

// AddAddress stores a new address on the authenticated profile and selects it.
func (s *Session) AddAddress(ctx context.Context, addr types.Address) error {
	s.mu.Lock()
	if s.identity == nil {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeValidation, "guest sessions enter an address instead")
	}
	token := s.token
	s.mu.Unlock()

	saved, err := s.deps.Profile.AddAddress(ctx, token, addr)
	if err != nil {
		return transaction.MapError(err)
	}

	s.mu.Lock()
	if s.profile == nil {
		s.profile = &types.Profile{}
	}
	s.profile.Addresses = append(s.profile.Addresses, *saved)
	index := len(s.profile.Addresses) - 1
	s.selectedAddressIndex = &index
	s.saveDraftLocked(ctx)
	s.mu.Unlock()

	return s.RefreshShipping(ctx)
}

// SetPrimaryAddress marks a saved address as the default one upstream.
func (s *Session) SetPrimaryAddress(ctx context.Context, index int) error {
	s.mu.Lock()
	if s.identity == nil || s.profile == nil {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeValidation, "no address book for this session")
	}
	if index < 0 || index >= len(s.profile.Addresses) {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeValidation, "address index out of range")
	}
	token := s.token
	s.mu.Unlock()

	if err := s.deps.Profile.SetPrimaryAddress(ctx, token, index); err != nil {
		return transaction.MapError(err)
	}

	s.mu.Lock()
	for i := range s.profile.Addresses {
		s.profile.Addresses[i].Primary = i == index
	}
	s.mu.Unlock()
	return nil
}
