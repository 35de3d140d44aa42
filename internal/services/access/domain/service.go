package domain

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates a gate or partner record was not found.
	ErrNotFound = errors.New("access record not found")
	// ErrStoreNotConfigured indicates the service is missing persistence wiring.
	ErrStoreNotConfigured = errors.New("access store is not configured")
	// ErrContentKeyRequired indicates a content key is required.
	ErrContentKeyRequired = errors.New("content key is required")
	// ErrPartnerIDRequired indicates partner identity is required.
	ErrPartnerIDRequired = errors.New("partner id is required")
)

// Store is the domain boundary for gate and viewer lookups. Implementations
// resolve nullable storage fields before returning: a missing visibility mode
// is locked, missing allowed tiers are empty, a missing required volume is
// zero.
type Store interface {
	GetGate(ctx context.Context, contentKey string) (Gate, error)
	GetViewer(ctx context.Context, partnerID string) (Viewer, error)
}

// Service resolves gates and viewers and evaluates access decisions.
type Service struct {
	store Store
}

// NewService constructs access domain use-cases.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CheckContent evaluates whether one partner can see one content item.
//
// A malformed gate surfaces as *MalformedGateError; callers treat that as
// locked rather than failing the whole page.
func (s *Service) CheckContent(ctx context.Context, contentKey string, partnerID string) (Decision, error) {
	if s == nil || s.store == nil {
		return Decision{}, ErrStoreNotConfigured
	}
	contentKey = strings.TrimSpace(contentKey)
	if contentKey == "" {
		return Decision{}, ErrContentKeyRequired
	}
	partnerID = strings.TrimSpace(partnerID)
	if partnerID == "" {
		return Decision{}, ErrPartnerIDRequired
	}

	gate, err := s.store.GetGate(ctx, contentKey)
	if err != nil {
		return Decision{}, err
	}
	viewer, err := s.store.GetViewer(ctx, partnerID)
	if err != nil {
		return Decision{}, err
	}
	return Evaluate(gate, viewer)
}
